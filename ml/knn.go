package ml

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"sort"
)

type KNN struct {
	k            int
	featureCount int
	classes      int
	samples      [][]float64
	labels       []int
}

type knnArtifact struct {
	K            int         `json:"k"`
	FeatureCount int         `json:"feature_count"`
	Classes      int         `json:"classes"`
	Samples      [][]float64 `json:"samples"`
	Labels       []int       `json:"labels"`
}

func NewKNN(k int) *KNN {
	if k <= 0 {
		k = 5
	}
	return &KNN{k: k}
}

func (m *KNN) Train(features [][]float64, labels []int) error {
	if len(features) == 0 || len(labels) == 0 {
		return errors.New("features or labels empty")
	}
	if len(features) != len(labels) {
		return errors.New("features and labels size mismatch")
	}

	width := len(features[0])
	if width == 0 {
		return errors.New("empty feature vector")
	}
	classes := 2
	for i, feature := range features {
		if len(feature) != width {
			return errors.New("inconsistent feature vector length")
		}
		if labels[i] < 0 {
			return errors.New("negative class label")
		}
		if labels[i]+1 > classes {
			classes = labels[i] + 1
		}
	}

	m.featureCount = width
	m.classes = classes
	m.samples = make([][]float64, len(features))
	for i, feature := range features {
		m.samples[i] = append([]float64(nil), feature...)
	}
	m.labels = append([]int(nil), labels...)
	return nil
}

func (m *KNN) Predict(features []float64) (int, []float64, error) {
	if len(m.samples) == 0 {
		return 0, nil, errors.New("model not trained")
	}
	if len(features) != m.featureCount {
		return 0, nil, errors.New("feature count mismatch")
	}

	type neighbor struct {
		index    int
		distance float64
	}
	neighbors := make([]neighbor, len(m.samples))
	for i, sample := range m.samples {
		neighbors[i] = neighbor{index: i, distance: euclidean(features, sample)}
	}
	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].distance == neighbors[j].distance {
			return neighbors[i].index < neighbors[j].index
		}
		return neighbors[i].distance < neighbors[j].distance
	})

	k := m.k
	if k > len(neighbors) {
		k = len(neighbors)
	}

	votes := make([]int, m.classes)
	for _, n := range neighbors[:k] {
		votes[m.labels[n.index]]++
	}

	label := 0
	for class, count := range votes {
		if count > votes[label] {
			label = class
		}
	}

	probs := make([]float64, m.classes)
	for class, count := range votes {
		probs[class] = float64(count) / float64(k)
	}
	return label, probs, nil
}

func (m *KNN) Save(path string) error {
	if len(m.samples) == 0 {
		return errors.New("model not trained")
	}
	payload, err := json.Marshal(knnArtifact{
		K:            m.k,
		FeatureCount: m.featureCount,
		Classes:      m.classes,
		Samples:      m.samples,
		Labels:       m.labels,
	})
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o600)
}

func (m *KNN) Load(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var artifact knnArtifact
	if err := json.Unmarshal(payload, &artifact); err != nil {
		return err
	}
	if artifact.K <= 0 {
		return errors.New("invalid k in model artifact")
	}
	if len(artifact.Samples) == 0 || len(artifact.Samples) != len(artifact.Labels) {
		return errors.New("invalid samples in model artifact")
	}
	if artifact.Classes < 2 {
		artifact.Classes = 2
	}
	for _, sample := range artifact.Samples {
		if len(sample) != artifact.FeatureCount {
			return errors.New("invalid feature width in model artifact")
		}
	}
	// 标签决定投票数组的大小，和Train一样按最大标签扩展类别数
	for _, label := range artifact.Labels {
		if label < 0 {
			return errors.New("negative class label in model artifact")
		}
		if label+1 > artifact.Classes {
			artifact.Classes = label + 1
		}
	}

	m.k = artifact.K
	m.featureCount = artifact.FeatureCount
	m.classes = artifact.Classes
	m.samples = artifact.Samples
	m.labels = artifact.Labels
	return nil
}

func euclidean(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return math.Sqrt(sum)
}

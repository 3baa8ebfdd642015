package ml

import (
	"errors"
	"fmt"
)

// SearchResult holds the cross-validated accuracy for one candidate k.
type SearchResult struct {
	K        int     `json:"k"`
	Accuracy float64 `json:"accuracy"`
}

// SearchK picks the best k for a KNN classifier by k-fold cross-validation.
// Candidates are tried in order and on equal accuracy the earlier one wins,
// so pass them ascending to prefer smaller neighborhoods. Samples should be
// shuffled by the caller; folds are assigned round-robin.
func SearchK(features [][]float64, labels []int, candidates []int, folds int) (SearchResult, []SearchResult, error) {
	if len(candidates) == 0 {
		return SearchResult{}, nil, errors.New("no candidate values for k")
	}
	if len(features) != len(labels) {
		return SearchResult{}, nil, errors.New("features and labels size mismatch")
	}
	if folds < 2 {
		folds = 5
	}
	if folds > len(features) {
		folds = len(features)
	}
	if folds < 2 {
		return SearchResult{}, nil, errors.New("not enough samples for cross-validation")
	}

	results := make([]SearchResult, 0, len(candidates))
	best := SearchResult{Accuracy: -1}

	for _, k := range candidates {
		accuracy, err := crossValidate(features, labels, k, folds)
		if err != nil {
			return SearchResult{}, nil, fmt.Errorf("cross-validation failed for k=%d: %w", k, err)
		}
		result := SearchResult{K: k, Accuracy: accuracy}
		results = append(results, result)
		if result.Accuracy > best.Accuracy {
			best = result
		}
	}

	return best, results, nil
}

func crossValidate(features [][]float64, labels []int, k, folds int) (float64, error) {
	var correct, total int

	for fold := 0; fold < folds; fold++ {
		var trainX [][]float64
		var trainY []int
		var testX [][]float64
		var testY []int

		for i := range features {
			if i%folds == fold {
				testX = append(testX, features[i])
				testY = append(testY, labels[i])
			} else {
				trainX = append(trainX, features[i])
				trainY = append(trainY, labels[i])
			}
		}

		model := NewKNN(k)
		if err := model.Train(trainX, trainY); err != nil {
			return 0, err
		}

		for i, feature := range testX {
			label, _, err := model.Predict(feature)
			if err != nil {
				return 0, err
			}
			if label == testY[i] {
				correct++
			}
			total++
		}
	}

	if total == 0 {
		return 0, errors.New("no test samples")
	}
	return float64(correct) / float64(total), nil
}

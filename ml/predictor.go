package ml

import (
	"fmt"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

type Outcome struct {
	Label         int
	Probabilities [2]float64
	Source        Source
}

// Predictor dispatches between the loaded classifier and the rule-based
// fallback. It is built once at startup and read-only afterwards.
type Predictor struct {
	model  Classifier
	cache  *lru.Cache[string, Outcome]
	logger *zap.Logger
}

func NewPredictor(model Classifier, cacheSize int, logger *zap.Logger) *Predictor {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Predictor{model: model, logger: logger}
	if cacheSize > 0 {
		// lru.New only fails on a non-positive size
		if cache, err := lru.New[string, Outcome](cacheSize); err == nil {
			p.cache = cache
		}
	}
	return p
}

func (p *Predictor) Loaded() bool {
	return p.model != nil
}

func (p *Predictor) Predict(features []float64) Outcome {
	key := cacheKey(features)
	if p.cache != nil {
		if outcome, ok := p.cache.Get(key); ok {
			return outcome
		}
	}

	outcome := p.predict(features)
	if p.cache != nil {
		p.cache.Add(key, outcome)
	}
	return outcome
}

func (p *Predictor) predict(features []float64) Outcome {
	fallbackLabel, fallbackProbs := FallbackPredict(features)
	fallback := Outcome{Label: fallbackLabel, Probabilities: fallbackProbs, Source: SourceFallback}

	if p.model == nil {
		return fallback
	}

	label, probs, err := p.invokeModel(features)
	outcome, usedModel := resolve(label, probs, err, fallback)
	if !usedModel {
		p.logger.Warn("model prediction failed, using fallback", zap.Error(err))
	}
	return outcome
}

// invokeModel calls the classifier and converts a panic into an error, so a
// broken artifact degrades to the fallback instead of failing the request.
func (p *Predictor) invokeModel(features []float64) (label int, probs []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("classifier panic: %v", r)
		}
	}()
	return p.model.Predict(features)
}

// resolve picks the classifier result when it produced a usable two-class
// outcome, otherwise the fallback result. Pure function so the recovery
// path is testable without a real classifier fault.
func resolve(label int, probs []float64, err error, fallback Outcome) (Outcome, bool) {
	if err != nil || len(probs) != 2 {
		return fallback, false
	}
	return Outcome{
		Label:         label,
		Probabilities: [2]float64{probs[0], probs[1]},
		Source:        SourceModel,
	}, true
}

func cacheKey(features []float64) string {
	var b strings.Builder
	for i, value := range features {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(strconv.FormatFloat(value, 'g', -1, 64))
	}
	return b.String()
}

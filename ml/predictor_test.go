package ml

import (
	"errors"
	"testing"
)

type fakeClassifier struct {
	label int
	probs []float64
	err   error
}

func (f *fakeClassifier) Predict(features []float64) (int, []float64, error) {
	return f.label, f.probs, f.err
}

type panickingClassifier struct{}

func (panickingClassifier) Predict(features []float64) (int, []float64, error) {
	var votes []int
	return votes[5], nil, nil
}

type countingClassifier struct {
	calls int
}

func (c *countingClassifier) Predict(features []float64) (int, []float64, error) {
	c.calls++
	return 1, []float64{0.3, 0.7}, nil
}

func TestPredictorModelOutcome(t *testing.T) {
	p := NewPredictor(&fakeClassifier{label: 1, probs: []float64{0.2, 0.8}}, 0, nil)
	if !p.Loaded() {
		t.Fatal("expected predictor to report a loaded model")
	}

	out := p.Predict(baselineVector())
	if out.Source != SourceModel {
		t.Fatalf("expected source %q, got %q", SourceModel, out.Source)
	}
	if out.Label != 1 {
		t.Fatalf("expected label 1, got %d", out.Label)
	}
	if out.Probabilities != [2]float64{0.2, 0.8} {
		t.Fatalf("unexpected probabilities: %v", out.Probabilities)
	}
}

func TestPredictorWithoutModel(t *testing.T) {
	vec := baselineVector()
	wantLabel, wantProbs := FallbackPredict(vec)

	p := NewPredictor(nil, 0, nil)
	if p.Loaded() {
		t.Fatal("expected predictor to report no model")
	}

	out := p.Predict(vec)
	if out.Source != SourceFallback {
		t.Fatalf("expected source %q, got %q", SourceFallback, out.Source)
	}
	if out.Label != wantLabel || out.Probabilities != wantProbs {
		t.Fatalf("expected fallback outcome, got %+v", out)
	}
}

func TestPredictorFallbackOnModelError(t *testing.T) {
	vec := baselineVector()
	wantLabel, wantProbs := FallbackPredict(vec)

	cases := []struct {
		name  string
		model Classifier
	}{
		{"predict error", &fakeClassifier{err: errors.New("artifact corrupted")}},
		{"predict panic", panickingClassifier{}},
		{"short probabilities", &fakeClassifier{label: 1, probs: []float64{1}}},
		{"wide probabilities", &fakeClassifier{label: 1, probs: []float64{0.2, 0.3, 0.5}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPredictor(tc.model, 0, nil)
			out := p.Predict(vec)
			if out.Source != SourceFallback {
				t.Fatalf("expected source %q, got %q", SourceFallback, out.Source)
			}
			if out.Label != wantLabel || out.Probabilities != wantProbs {
				t.Fatalf("expected fallback outcome, got %+v", out)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	fallback := Outcome{Label: 0, Probabilities: [2]float64{0.9, 0.1}, Source: SourceFallback}

	out, ok := resolve(1, []float64{0.2, 0.8}, nil, fallback)
	if !ok {
		t.Fatal("expected model outcome to be accepted")
	}
	if out.Source != SourceModel || out.Label != 1 || out.Probabilities != [2]float64{0.2, 0.8} {
		t.Fatalf("unexpected outcome: %+v", out)
	}

	out, ok = resolve(1, []float64{0.2, 0.8}, errors.New("boom"), fallback)
	if ok || out != fallback {
		t.Fatalf("expected fallback on error, got %+v", out)
	}

	out, ok = resolve(1, []float64{0.2, 0.3, 0.5}, nil, fallback)
	if ok || out != fallback {
		t.Fatalf("expected fallback on malformed probabilities, got %+v", out)
	}
}

func TestPredictorCache(t *testing.T) {
	vec := baselineVector()

	cached := &countingClassifier{}
	p := NewPredictor(cached, 8, nil)
	first := p.Predict(vec)
	second := p.Predict(vec)
	if cached.calls != 1 {
		t.Fatalf("expected 1 model call with cache enabled, got %d", cached.calls)
	}
	if first != second {
		t.Fatalf("expected identical outcomes, got %+v and %+v", first, second)
	}

	uncached := &countingClassifier{}
	p = NewPredictor(uncached, 0, nil)
	p.Predict(vec)
	p.Predict(vec)
	if uncached.calls != 2 {
		t.Fatalf("expected 2 model calls with cache disabled, got %d", uncached.calls)
	}
}

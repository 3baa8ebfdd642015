package ml

import (
	"math"
	"testing"
)

func baselineVector() []float64 {
	// age, sex, cp, trestbps, chol, fbs, restecg, thalach, exang, oldpeak, slope, ca, thal
	return []float64{45, 0, 1, 120, 200, 0, 0, 150, 0, 1.0, 1, 0, 2}
}

func TestFallbackPredictNoRiskFactors(t *testing.T) {
	label, probs := FallbackPredict(baselineVector())
	if label != 0 {
		t.Fatalf("expected label 0, got %d", label)
	}
	if probs[1] != 0.1 {
		t.Fatalf("expected disease probability 0.1, got %f", probs[1])
	}
	if math.Abs(probs[0]-0.9) > 1e-9 {
		t.Fatalf("expected no-disease probability 0.9, got %f", probs[0])
	}
}

func TestFallbackPredictAllRiskFactors(t *testing.T) {
	features := []float64{60, 1, 0, 150, 250, 0, 0, 110, 0, 1.0, 1, 0, 2}
	label, probs := FallbackPredict(features)
	if label != 1 {
		t.Fatalf("expected label 1, got %d", label)
	}
	if probs[1] != 0.9 {
		t.Fatalf("expected clamped disease probability 0.9, got %f", probs[1])
	}
	if math.Abs(probs[0]-0.1) > 1e-9 {
		t.Fatalf("expected no-disease probability 0.1, got %f", probs[0])
	}
}

func TestFallbackPredictThreshold(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func([]float64)
		wantLabel int
		wantProb  float64
	}{
		{
			name: "two risk factors stay low",
			mutate: func(f []float64) {
				f[0] = 60 // age > 55
				f[1] = 1  // male
			},
			wantLabel: 0,
			wantProb:  0.4,
		},
		{
			name: "three risk factors flip high",
			mutate: func(f []float64) {
				f[0] = 60  // age > 55
				f[1] = 1   // male
				f[3] = 150 // trestbps > 140
			},
			wantLabel: 1,
			wantProb:  0.55,
		},
		{
			name: "typical angina counts twice",
			mutate: func(f []float64) {
				f[2] = 0 // cp == 0
				f[4] = 250
			},
			wantLabel: 1,
			wantProb:  0.55,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			features := baselineVector()
			tt.mutate(features)
			label, probs := FallbackPredict(features)
			if label != tt.wantLabel {
				t.Fatalf("expected label %d, got %d", tt.wantLabel, label)
			}
			if math.Abs(probs[1]-tt.wantProb) > 1e-9 {
				t.Fatalf("expected disease probability %f, got %f", tt.wantProb, probs[1])
			}
		})
	}
}

func TestFallbackPredictProbabilitiesSumToOne(t *testing.T) {
	vectors := [][]float64{
		baselineVector(),
		{60, 1, 0, 150, 250, 1, 2, 110, 1, 3.2, 2, 3, 3},
		{70, 0, 0, 130, 280, 0, 1, 95, 0, 0.5, 0, 1, 1},
		{30, 1, 3, 145, 180, 1, 0, 170, 1, 2.0, 2, 0, 3},
	}
	for _, features := range vectors {
		_, probs := FallbackPredict(features)
		if sum := probs[0] + probs[1]; math.Abs(sum-1) > 1e-9 {
			t.Fatalf("expected probabilities to sum to 1, got %f", sum)
		}
		if probs[1] < 0.1 || probs[1] > 0.9 {
			t.Fatalf("disease probability out of range: %f", probs[1])
		}
	}
}

package ml

import (
	"path/filepath"
	"testing"
)

func TestLoadModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knn.json")
	if err := trainedKNN(t).Save(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	model, err := LoadModel("knn", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	label, _, err := model.Predict([]float64{0.15, 0.15})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != 0 {
		t.Fatalf("expected label 0, got %d", label)
	}
}

func TestLoadModelErrors(t *testing.T) {
	if _, err := LoadModel("svm", "whatever.json"); err == nil {
		t.Fatal("expected error for unsupported model type")
	}
	if _, err := LoadModel("knn", filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing artifact")
	}
}

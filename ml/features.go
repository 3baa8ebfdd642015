package ml

import "fmt"

const FeatureCount = 13

func FeatureNames() []string {
	return []string{
		"age",
		"sex",
		"cp",
		"trestbps",
		"chol",
		"fbs",
		"restecg",
		"thalach",
		"exang",
		"oldpeak",
		"slope",
		"ca",
		"thal",
	}
}

func FeatureDescriptions() map[string]string {
	return map[string]string{
		"age":      "Age (years)",
		"sex":      "Sex (1 = male, 0 = female)",
		"cp":       "Chest Pain Type (0-3)",
		"trestbps": "Resting Blood Pressure (mm Hg)",
		"chol":     "Serum Cholesterol (mg/dl)",
		"fbs":      "Fasting Blood Sugar > 120 mg/dl (1 = true, 0 = false)",
		"restecg":  "Resting ECG Results (0-2)",
		"thalach":  "Maximum Heart Rate Achieved",
		"exang":    "Exercise Induced Angina (1 = yes, 0 = no)",
		"oldpeak":  "ST Depression Induced by Exercise",
		"slope":    "Peak Exercise ST Segment Slope (0-2)",
		"ca":       "Number of Major Vessels Colored by Fluoroscopy (0-3)",
		"thal":     "Thalassemia (1 = normal, 2 = fixed defect, 3 = reversible defect)",
	}
}

func ValidateVector(features []float64) error {
	if len(features) != FeatureCount {
		return fmt.Errorf("expected %d features, got %d", FeatureCount, len(features))
	}
	return nil
}

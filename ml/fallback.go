package ml

// FallbackPredict scores a feature vector with a fixed rule set so the
// service can answer even without a trained model. Only six of the
// thirteen fields contribute to the score.
func FallbackPredict(features []float64) (int, [2]float64) {
	age := features[0]
	sex := features[1]
	cp := features[2]
	trestbps := features[3]
	chol := features[4]
	thalach := features[7]

	riskScore := 0
	if age > 55 {
		riskScore++
	}
	if sex == 1 {
		riskScore++
	}
	if cp == 0 {
		riskScore += 2
	}
	if trestbps > 140 {
		riskScore++
	}
	if chol > 240 {
		riskScore++
	}
	if thalach < 120 {
		riskScore++
	}

	label := 0
	if riskScore >= 3 {
		label = 1
	}

	probDisease := float64(riskScore)*0.15 + 0.1
	if probDisease > 0.9 {
		probDisease = 0.9
	}
	return label, [2]float64{1 - probDisease, probDisease}
}

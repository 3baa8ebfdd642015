package http

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/papan-connect/Heart-Disease-Prediction/db"
	"github.com/papan-connect/Heart-Disease-Prediction/ml"
	"github.com/papan-connect/Heart-Disease-Prediction/monitoring"
	"go.uber.org/zap"
)

// predictResponse 预测成功响应，input_features仅表单渠道返回
type predictResponse struct {
	Prediction    int                `json:"prediction"`
	ProbNoDisease float64            `json:"probability_no_disease"`
	ProbDisease   float64            `json:"probability_disease"`
	RiskLevel     string             `json:"risk_level"`
	InputFeatures map[string]float64 `json:"input_features,omitempty"`
	ModelLoaded   bool               `json:"model_loaded"`
	Success       bool               `json:"success"`
}

// errorResponse 预测失败响应
type errorResponse struct {
	Error   string `json:"error"`
	Success bool   `json:"success"`
}

func (a *API) handlePredictForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		a.respondJSON(w, errorResponse{Error: "Prediction error: invalid form data", Success: false})
		return
	}

	features := make([]float64, 0, ml.FeatureCount)
	inputs := make(map[string]float64, ml.FeatureCount)

	for _, name := range ml.FeatureNames() {
		value := r.PostFormValue(name)
		if value == "" {
			a.respondJSON(w, errorResponse{Error: fmt.Sprintf("Missing value for %s", name), Success: false})
			return
		}

		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			a.respondJSON(w, errorResponse{Error: fmt.Sprintf("Invalid value for %s. Please enter a number.", name), Success: false})
			return
		}
		features = append(features, parsed)
		inputs[name] = parsed
	}

	out := a.predictor.Predict(features)
	a.finishPrediction(r, "form", features, out)

	a.respondJSON(w, predictResponse{
		Prediction:    out.Label,
		ProbNoDisease: out.Probabilities[0],
		ProbDisease:   out.Probabilities[1],
		RiskLevel:     riskLevel(out.Label),
		InputFeatures: inputs,
		ModelLoaded:   a.predictor.Loaded(),
		Success:       true,
	})
}

func (a *API) handlePredictJSON(w http.ResponseWriter, r *http.Request) {
	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || len(payload) == 0 {
		a.respondJSON(w, errorResponse{Error: "No JSON data provided", Success: false})
		return
	}

	features := make([]float64, 0, ml.FeatureCount)
	for _, name := range ml.FeatureNames() {
		raw, ok := payload[name]
		if !ok {
			a.respondJSON(w, errorResponse{Error: fmt.Sprintf("Missing feature: %s", name), Success: false})
			return
		}

		value, ok := raw.(float64)
		if !ok {
			a.respondJSON(w, errorResponse{Error: fmt.Sprintf("Invalid value for %s. Please enter a number.", name), Success: false})
			return
		}
		features = append(features, value)
	}

	out := a.predictor.Predict(features)
	a.finishPrediction(r, "api", features, out)

	a.respondJSON(w, predictResponse{
		Prediction:    out.Label,
		ProbNoDisease: out.Probabilities[0],
		ProbDisease:   out.Probabilities[1],
		RiskLevel:     riskLevel(out.Label),
		ModelLoaded:   a.predictor.Loaded(),
		Success:       true,
	})
}

// finishPrediction 预测成功后统一落库、计数与推送，失败只记日志不影响响应
func (a *API) finishPrediction(r *http.Request, channel string, features []float64, out ml.Outcome) {
	rec := db.PredictionRecord{
		Channel:       channel,
		Label:         out.Label,
		ProbNoDisease: out.Probabilities[0],
		ProbDisease:   out.Probabilities[1],
		RiskLevel:     riskLevel(out.Label),
		Source:        string(out.Source),
		Features:      features,
	}
	if err := db.SavePrediction(rec); err != nil {
		a.logger.Warn("failed to store prediction",
			zap.Error(err),
			zap.String("request_id", GetRequestID(r.Context())))
	}

	if a.stats != nil {
		a.stats.Record(out.Label, out.Source)
	}

	if a.feed != nil {
		event := monitoring.PredictionEvent{
			Channel:       channel,
			Label:         out.Label,
			ProbNoDisease: out.Probabilities[0],
			ProbDisease:   out.Probabilities[1],
			RiskLevel:     riskLevel(out.Label),
			Source:        string(out.Source),
		}
		if err := a.feed.BroadcastPrediction(event); err != nil {
			a.logger.Warn("failed to broadcast prediction", zap.Error(err))
		}
	}
}

func riskLevel(label int) string {
	if label == 1 {
		return "High"
	}
	return "Low"
}

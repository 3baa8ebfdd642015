package http

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/papan-connect/Heart-Disease-Prediction/ml"
	"github.com/papan-connect/Heart-Disease-Prediction/monitoring"
	"go.uber.org/zap"
)

// API 预测服务的HTTP处理器集合
type API struct {
	predictor *ml.Predictor
	modelPath string
	feed      *monitoring.PredictionFeed
	stats     *monitoring.ServiceStats
	logger    *zap.Logger
}

// NewAPI 创建API处理器
func NewAPI(predictor *ml.Predictor, modelPath string, feed *monitoring.PredictionFeed, stats *monitoring.ServiceStats, logger *zap.Logger) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{
		predictor: predictor,
		modelPath: modelPath,
		feed:      feed,
		stats:     stats,
		logger:    logger,
	}
}

// RegisterRoutes 注册所有路由
func (a *API) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", a.handleHome)
	mux.HandleFunc("POST /predict", a.handlePredictForm)
	mux.HandleFunc("POST /api/predict", a.handlePredictJSON)
	mux.HandleFunc("GET /health", a.handleHealth)
	mux.HandleFunc("GET /status", a.handleStatus)
	mux.HandleFunc("GET /api/features", a.handleFeatures)
	mux.HandleFunc("GET /api/history", a.handleHistory)
	mux.HandleFunc("GET /api/history/stats", a.handleHistoryStats)
	mux.HandleFunc("GET /api/metrics", a.handleMetrics)
	mux.HandleFunc("GET /api/ws/predictions", a.handlePredictionWS)
}

type healthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
	Message     string `json:"message"`
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.respondJSON(w, healthResponse{
		Status:      "healthy",
		ModelLoaded: a.predictor.Loaded(),
		Message:     "Heart Disease Prediction API is running",
	})
}

type endpointInfo struct {
	Path        string `json:"path"`
	Method      string `json:"method"`
	Description string `json:"description"`
}

type statusResponse struct {
	AppName         string         `json:"app_name"`
	Status          string         `json:"status"`
	ModelLoaded     bool           `json:"model_loaded"`
	ModelFileExists bool           `json:"model_file_exists"`
	FeaturesCount   int            `json:"features_count"`
	Endpoints       []endpointInfo `json:"endpoints"`
}

func (a *API) handleStatus(w http.ResponseWriter, r *http.Request) {
	// 每次请求时检查模型文件，而不是复用启动时的结果
	_, statErr := os.Stat(a.modelPath)

	a.respondJSON(w, statusResponse{
		AppName:         "Heart Disease Prediction",
		Status:          "running",
		ModelLoaded:     a.predictor.Loaded(),
		ModelFileExists: statErr == nil,
		FeaturesCount:   ml.FeatureCount,
		Endpoints: []endpointInfo{
			{Path: "/", Method: "GET", Description: "Main prediction form"},
			{Path: "/predict", Method: "POST", Description: "Form-based prediction"},
			{Path: "/api/predict", Method: "POST", Description: "JSON API prediction"},
			{Path: "/health", Method: "GET", Description: "Health check"},
			{Path: "/status", Method: "GET", Description: "Detailed status"},
		},
	})
}

func (a *API) handleFeatures(w http.ResponseWriter, r *http.Request) {
	a.respondJSON(w, map[string]interface{}{
		"features":     ml.FeatureNames(),
		"descriptions": ml.FeatureDescriptions(),
		"count":        ml.FeatureCount,
	})
}

func (a *API) handlePredictionWS(w http.ResponseWriter, r *http.Request) {
	if a.feed == nil {
		http.Error(w, `{"error":"prediction feed not available"}`, http.StatusServiceUnavailable)
		return
	}
	a.feed.HandleWebSocket(w, r)
}

func (a *API) respondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		a.logger.Warn("failed to encode json response", zap.Error(err))
	}
}

package http

import (
	"net/http"
	"strconv"

	"github.com/papan-connect/Heart-Disease-Prediction/db"
	"go.uber.org/zap"
)

func (a *API) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}
	if limit > 500 {
		limit = 500
	}

	records, err := db.RecentPredictions(limit)
	if err != nil {
		a.logger.Warn("failed to load prediction history", zap.Error(err))
		http.Error(w, `{"error":"failed to load prediction history"}`, http.StatusInternalServerError)
		return
	}

	a.respondJSON(w, map[string]interface{}{
		"predictions": records,
		"count":       len(records),
	})
}

func (a *API) handleHistoryStats(w http.ResponseWriter, r *http.Request) {
	stats, err := db.LoadPredictionStats()
	if err != nil {
		a.logger.Warn("failed to load prediction stats", zap.Error(err))
		http.Error(w, `{"error":"failed to load prediction stats"}`, http.StatusInternalServerError)
		return
	}

	a.respondJSON(w, stats)
}

func (a *API) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if a.stats == nil {
		http.Error(w, `{"error":"metrics not available"}`, http.StatusServiceUnavailable)
		return
	}

	clients := 0
	if a.feed != nil {
		clients = a.feed.ClientCount()
	}

	var lastTraining interface{}
	if logs, err := db.LoadTrainingLog(); err == nil && len(logs) > 0 {
		lastTraining = logs[0]
	}

	a.respondJSON(w, map[string]interface{}{
		"service":           a.stats.Snapshot(),
		"connected_clients": clients,
		"model_loaded":      a.predictor.Loaded(),
		"last_training":     lastTraining,
	})
}

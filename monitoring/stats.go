package monitoring

import (
	"sync"
	"time"

	"github.com/papan-connect/Heart-Disease-Prediction/ml"
)

// ServiceStats 服务运行统计
type ServiceStats struct {
	mu             sync.RWMutex
	total          int64
	disease        int64
	modelBacked    int64
	fallbackBacked int64
	startTime      time.Time
	lastPrediction time.Time
}

// StatsSnapshot 统计快照
type StatsSnapshot struct {
	TotalPredictions int64         `json:"total_predictions"`
	Disease          int64         `json:"disease"`
	NoDisease        int64         `json:"no_disease"`
	ModelBacked      int64         `json:"model"`
	FallbackBacked   int64         `json:"fallback"`
	StartTime        time.Time     `json:"start_time"`
	LastPrediction   time.Time     `json:"last_prediction_time"`
	Uptime           time.Duration `json:"uptime"`
}

// NewServiceStats 创建服务统计
func NewServiceStats() *ServiceStats {
	return &ServiceStats{
		startTime: time.Now(),
	}
}

// Record 记录一次预测
func (s *ServiceStats) Record(label int, source ml.Source) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total++
	if label == 1 {
		s.disease++
	}
	if source == ml.SourceModel {
		s.modelBacked++
	} else {
		s.fallbackBacked++
	}
	s.lastPrediction = time.Now()
}

// Snapshot 获取当前统计快照
func (s *ServiceStats) Snapshot() StatsSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return StatsSnapshot{
		TotalPredictions: s.total,
		Disease:          s.disease,
		NoDisease:        s.total - s.disease,
		ModelBacked:      s.modelBacked,
		FallbackBacked:   s.fallbackBacked,
		StartTime:        s.startTime,
		LastPrediction:   s.lastPrediction,
		Uptime:           time.Since(s.startTime),
	}
}

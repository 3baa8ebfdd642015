package db

import (
	"database/sql"
	"errors"
	"time"

	"github.com/papan-connect/Heart-Disease-Prediction/ml"

	_ "github.com/mattn/go-sqlite3"
)

var database *sql.DB

// InitDB initializes the SQLite database
func InitDB(path string) error {
	var err error
	database, err = sql.Open("sqlite3", path)
	if err != nil {
		return err
	}

	query := `
    CREATE TABLE IF NOT EXISTS predictions (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        channel TEXT NOT NULL,
        label INTEGER NOT NULL,
        prob_no_disease REAL NOT NULL,
        prob_disease REAL NOT NULL,
        risk_level TEXT NOT NULL,
        source TEXT NOT NULL,
        age REAL,
        sex REAL,
        cp REAL,
        trestbps REAL,
        chol REAL,
        fbs REAL,
        restecg REAL,
        thalach REAL,
        exang REAL,
        oldpeak REAL,
        slope REAL,
        ca REAL,
        thal REAL,
        created_at DATETIME NOT NULL
    );
    CREATE TABLE IF NOT EXISTS training_log (
        id INTEGER PRIMARY KEY,
        model_name VARCHAR(50),
        k INTEGER,
        accuracy REAL,
        precision REAL,
        recall REAL,
        trained_at DATETIME,
        data_points INTEGER
    );
    `

	_, err = database.Exec(query)
	return err
}

// PredictionRecord is one stored prediction with the submitted features
type PredictionRecord struct {
	ID            int64     `json:"id"`
	Channel       string    `json:"channel"`
	Label         int       `json:"prediction"`
	ProbNoDisease float64   `json:"probability_no_disease"`
	ProbDisease   float64   `json:"probability_disease"`
	RiskLevel     string    `json:"risk_level"`
	Source        string    `json:"source"`
	Features      []float64 `json:"features"`
	CreatedAt     time.Time `json:"created_at"`
}

// SavePrediction stores a prediction outcome and its input features
func SavePrediction(rec PredictionRecord) error {
	if database == nil {
		return errors.New("database not initialized")
	}
	if err := ml.ValidateVector(rec.Features); err != nil {
		return err
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := database.Exec(`
        INSERT INTO predictions (
            channel, label, prob_no_disease, prob_disease, risk_level, source,
            age, sex, cp, trestbps, chol, fbs, restecg,
            thalach, exang, oldpeak, slope, ca, thal,
            created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `,
		rec.Channel,
		rec.Label,
		rec.ProbNoDisease,
		rec.ProbDisease,
		rec.RiskLevel,
		rec.Source,
		rec.Features[0], rec.Features[1], rec.Features[2], rec.Features[3],
		rec.Features[4], rec.Features[5], rec.Features[6], rec.Features[7],
		rec.Features[8], rec.Features[9], rec.Features[10], rec.Features[11],
		rec.Features[12],
		rec.CreatedAt,
	)
	return err
}

// RecentPredictions returns the latest stored predictions, newest first
func RecentPredictions(limit int) ([]PredictionRecord, error) {
	if database == nil {
		return nil, errors.New("database not initialized")
	}

	rows, err := database.Query(`
        SELECT id, channel, label, prob_no_disease, prob_disease, risk_level, source,
               age, sex, cp, trestbps, chol, fbs, restecg,
               thalach, exang, oldpeak, slope, ca, thal,
               created_at
        FROM predictions
        ORDER BY created_at DESC, id DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]PredictionRecord, 0)
	for rows.Next() {
		var rec PredictionRecord
		features := make([]float64, ml.FeatureCount)
		err := rows.Scan(&rec.ID, &rec.Channel, &rec.Label, &rec.ProbNoDisease, &rec.ProbDisease,
			&rec.RiskLevel, &rec.Source,
			&features[0], &features[1], &features[2], &features[3],
			&features[4], &features[5], &features[6], &features[7],
			&features[8], &features[9], &features[10], &features[11],
			&features[12],
			&rec.CreatedAt)
		if err != nil {
			return nil, err
		}
		rec.Features = features
		records = append(records, rec)
	}

	return records, rows.Err()
}

// PredictionStats summarizes the stored predictions
type PredictionStats struct {
	Total          int     `json:"total"`
	Disease        int     `json:"disease"`
	NoDisease      int     `json:"no_disease"`
	ModelBacked    int     `json:"model"`
	FallbackBacked int     `json:"fallback"`
	AvgProbDisease float64 `json:"avg_probability_disease"`
}

func LoadPredictionStats() (PredictionStats, error) {
	var stats PredictionStats
	if database == nil {
		return stats, errors.New("database not initialized")
	}

	err := database.QueryRow(`
        SELECT COUNT(*),
               COALESCE(SUM(CASE WHEN label = 1 THEN 1 ELSE 0 END), 0),
               COALESCE(SUM(CASE WHEN source = 'model' THEN 1 ELSE 0 END), 0),
               COALESCE(AVG(prob_disease), 0)
        FROM predictions
    `).Scan(&stats.Total, &stats.Disease, &stats.ModelBacked, &stats.AvgProbDisease)
	if err != nil {
		return stats, err
	}

	stats.NoDisease = stats.Total - stats.Disease
	stats.FallbackBacked = stats.Total - stats.ModelBacked
	return stats, nil
}

type TrainingLog struct {
	ModelName  string    `json:"model_name"`
	K          int       `json:"k"`
	Accuracy   float64   `json:"accuracy"`
	Precision  float64   `json:"precision"`
	Recall     float64   `json:"recall"`
	TrainedAt  time.Time `json:"trained_at"`
	DataPoints int       `json:"data_points"`
}

func SaveTrainingLog(log TrainingLog) error {
	if database == nil {
		return errors.New("database not initialized")
	}
	if log.TrainedAt.IsZero() {
		log.TrainedAt = time.Now().UTC()
	}

	_, err := database.Exec(`
        INSERT INTO training_log (
            model_name, k, accuracy, precision, recall, trained_at, data_points
        ) VALUES (?, ?, ?, ?, ?, ?, ?)
    `,
		log.ModelName,
		log.K,
		log.Accuracy,
		log.Precision,
		log.Recall,
		log.TrainedAt,
		log.DataPoints,
	)
	return err
}

func LoadTrainingLog() ([]TrainingLog, error) {
	if database == nil {
		return nil, errors.New("database not initialized")
	}
	rows, err := database.Query(`
        SELECT model_name, k, accuracy, precision, recall, trained_at, data_points
        FROM training_log
        ORDER BY trained_at DESC
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]TrainingLog, 0)
	for rows.Next() {
		var log TrainingLog
		if err := rows.Scan(&log.ModelName, &log.K, &log.Accuracy, &log.Precision, &log.Recall, &log.TrainedAt, &log.DataPoints); err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

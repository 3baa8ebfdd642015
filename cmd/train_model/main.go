package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/papan-connect/Heart-Disease-Prediction/db"
	"github.com/papan-connect/Heart-Disease-Prediction/ml"
	"github.com/papan-connect/Heart-Disease-Prediction/pipeline"
)

func main() {
	dataPath := flag.String("data", "./data/heart.csv", "training data csv")
	k := flag.Int("k", 5, "number of neighbors")
	tune := flag.Bool("tune", false, "select k by cross-validation instead of -k")
	modelPath := flag.String("model_path", "./models/heart_knn.json", "model output path")
	testRatio := flag.Float64("test_ratio", 0.2, "test ratio")
	dbPath := flag.String("db", "", "sqlite database for the training log (optional)")
	flag.Parse()

	// 1. Load and clean training data
	records, err := pipeline.LoadCSV(*dataPath)
	if err != nil {
		log.Fatalf("failed to load training data: %v", err)
	}

	cleaner := pipeline.NewCleaner()
	filled := cleaner.FillMissing(records)
	cleaned, issues := cleaner.Clean(records)
	if len(cleaned) == 0 {
		log.Fatalf("no usable records after cleaning (%d issues)", len(issues))
	}
	log.Printf("loaded %d records (%d imputed, %d rejected)", len(cleaned), filled, len(records)-len(cleaned))

	features := make([][]float64, len(cleaned))
	labels := make([]int, len(cleaned))
	for i, record := range cleaned {
		features[i] = record.Features
		labels[i] = record.Label
	}

	// 2. Split train and test sets
	trainX, trainY, testX, testY := splitDataset(features, labels, *testRatio)

	// 3. Optional k search
	bestK := *k
	if *tune {
		best, all, err := ml.SearchK(trainX, trainY, []int{3, 5, 7, 9, 11, 13, 15}, 5)
		if err != nil {
			log.Fatalf("failed to tune k: %v", err)
		}
		for _, result := range all {
			log.Printf("candidate k=%d cv_accuracy=%.2f", result.K, result.Accuracy)
		}
		bestK = best.K
		log.Printf("selected k=%d (cv accuracy=%.2f)", best.K, best.Accuracy)
	}

	// 4. Train and evaluate
	model := ml.NewKNN(bestK)
	if err := model.Train(trainX, trainY); err != nil {
		log.Fatalf("failed to train model: %v", err)
	}

	accuracy, precision, recall := evaluateModel(model, testX, testY)
	log.Printf("accuracy=%.2f precision=%.2f recall=%.2f", accuracy, precision, recall)

	// 5. Save model
	if err := os.MkdirAll(filepath.Dir(*modelPath), 0o755); err != nil {
		log.Fatalf("failed to create model dir: %v", err)
	}
	if err := model.Save(*modelPath); err != nil {
		log.Fatalf("failed to save model: %v", err)
	}

	// 6. Record training log
	if *dbPath != "" {
		if err := db.InitDB(*dbPath); err != nil {
			log.Fatalf("failed to open database: %v", err)
		}
		entry := db.TrainingLog{
			ModelName:  "knn",
			K:          bestK,
			Accuracy:   accuracy,
			Precision:  precision,
			Recall:     recall,
			DataPoints: len(cleaned),
		}
		if err := db.SaveTrainingLog(entry); err != nil {
			log.Fatalf("failed to record training run: %v", err)
		}
	}

	fmt.Printf("model saved to %s\n", *modelPath)
}

func splitDataset(features [][]float64, labels []int, testRatio float64) (trainX [][]float64, trainY []int, testX [][]float64, testY []int) {
	if testRatio <= 0 || testRatio >= 1 {
		testRatio = 0.2
	}

	indices := rand.Perm(len(features))
	split := int(float64(len(features)) * (1 - testRatio))
	for i, idx := range indices {
		if i < split {
			trainX = append(trainX, features[idx])
			trainY = append(trainY, labels[idx])
		} else {
			testX = append(testX, features[idx])
			testY = append(testY, labels[idx])
		}
	}
	return trainX, trainY, testX, testY
}

func evaluateModel(model *ml.KNN, testX [][]float64, testY []int) (accuracy, precision, recall float64) {
	if len(testX) == 0 {
		return 0, 0, 0
	}

	var correct int
	var truePositive int
	var predictedPositive int
	var actualPositive int

	for i, feature := range testX {
		label, _, err := model.Predict(feature)
		if err != nil {
			continue
		}
		if label == testY[i] {
			correct++
		}
		if label == 1 {
			predictedPositive++
		}
		if testY[i] == 1 {
			actualPositive++
			if label == 1 {
				truePositive++
			}
		}
	}

	accuracy = float64(correct) / float64(len(testX))
	if predictedPositive > 0 {
		precision = float64(truePositive) / float64(predictedPositive)
	}
	if actualPositive > 0 {
		recall = float64(truePositive) / float64(actualPositive)
	}
	return accuracy, precision, recall
}

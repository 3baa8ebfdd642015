package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/papan-connect/Heart-Disease-Prediction/db"
	httpapi "github.com/papan-connect/Heart-Disease-Prediction/http"
	"github.com/papan-connect/Heart-Disease-Prediction/logger"
	"github.com/papan-connect/Heart-Disease-Prediction/ml"
	"github.com/papan-connect/Heart-Disease-Prediction/monitoring"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Port           int      `yaml:"port"`
		TimeoutSeconds int      `yaml:"timeout_seconds"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	ML struct {
		ModelType string `yaml:"model_type"`
		ModelPath string `yaml:"model_path"`
		CacheSize int    `yaml:"cache_size"`
	} `yaml:"ml"`
	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`
}

func (c *Config) Validate() error {
	return validation.Errors{
		"server.port":            validation.Validate(c.Server.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		"server.timeout_seconds": validation.Validate(c.Server.TimeoutSeconds, validation.Min(1)),
		"database.path":          validation.Validate(c.Database.Path, validation.Required),
		"ml.model_type":          validation.Validate(c.ML.ModelType, validation.Required, validation.In("knn")),
		"ml.model_path":          validation.Validate(c.ML.ModelPath, validation.Required),
		"ml.cache_size":          validation.Validate(c.ML.CacheSize, validation.Min(0)),
		"log.level":              validation.Validate(c.Log.Level, validation.In("debug", "info", "warn", "error")),
	}.Filter()
}

func main() {
	// 1. Load config
	config, err := loadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := config.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// 2. Initialize logger
	zlog := logger.New(config.Log.Level, config.Log.File)
	defer zlog.Sync()

	// 3. Initialize database
	if err := db.InitDB(config.Database.Path); err != nil {
		zlog.Fatal("failed to initialize database", zap.Error(err))
	}
	zlog.Info("database initialized", zap.String("path", config.Database.Path))

	// 4. Load model, missing or broken artifacts leave the fallback scorer in charge
	var classifier ml.Classifier
	model, err := ml.LoadModel(config.ML.ModelType, config.ML.ModelPath)
	if err != nil {
		zlog.Warn("model not loaded, using fallback scoring",
			zap.String("path", config.ML.ModelPath),
			zap.Error(err))
	} else {
		classifier = model
		zlog.Info("model loaded",
			zap.String("type", config.ML.ModelType),
			zap.String("path", config.ML.ModelPath))
	}
	predictor := ml.NewPredictor(classifier, config.ML.CacheSize, zlog)

	// 5. Start monitoring
	feed := monitoring.NewPredictionFeed(zlog)
	go feed.Start()
	stats := monitoring.NewServiceStats()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := monitoring.WatchModelFile(ctx, config.ML.ModelPath, zlog); err != nil {
		zlog.Warn("model watcher not started", zap.Error(err))
	}

	// 6. Start HTTP server
	serverConfig := httpapi.DefaultServerConfig()
	serverConfig.Port = config.Server.Port
	serverConfig.Timeout = time.Duration(config.Server.TimeoutSeconds) * time.Second
	serverConfig.AllowedOrigins = config.Server.AllowedOrigins

	api := httpapi.NewAPI(predictor, config.ML.ModelPath, feed, stats, zlog)
	server := httpapi.NewServer(serverConfig, api, zlog)
	go func() {
		if err := server.Start(); err != nil {
			zlog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// 7. Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("shutting down...")

	feed.Stop()
	if err := server.Stop(); err != nil {
		zlog.Error("server forced to shutdown", zap.Error(err))
	}

	zlog.Info("exiting")
}

func loadConfig(path string) (*Config, error) {
	config := defaultConfig()

	file, err := os.Open(path)
	if err != nil {
		// 无配置文件时使用默认配置运行
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, err
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(config); err != nil {
		return nil, err
	}
	return config, nil
}

func defaultConfig() *Config {
	config := &Config{}
	config.Server.Port = 5000
	config.Server.TimeoutSeconds = 30
	config.Server.AllowedOrigins = []string{"*"}
	config.Database.Path = "./heart.db"
	config.ML.ModelType = "knn"
	config.ML.ModelPath = "models/heart_knn.json"
	config.ML.CacheSize = 256
	config.Log.Level = "info"
	return config
}

package monitoring

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func waitForLog(t *testing.T, logs *observer.ObservedLogs, message string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for logs.FilterMessage(message).Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("log %q never observed", message)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWatchModelFileLogsChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "heart_knn.json")

	core, logs := observer.New(zap.InfoLevel)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := WatchModelFile(ctx, path, zap.New(core)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := os.WriteFile(path, []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}
	waitForLog(t, logs, "model artifact changed on disk, restart to reload")

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	waitForLog(t, logs, "model artifact removed")
}

func TestWatchModelFileIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()

	core, logs := observer.New(zap.InfoLevel)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := WatchModelFile(ctx, filepath.Join(dir, "heart_knn.json"), zap.New(core)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	time.Sleep(100 * time.Millisecond)
	if got := logs.Len(); got != 0 {
		t.Fatalf("expected no logs for unrelated file, got %d", got)
	}
}

func TestWatchModelFileMissingDir(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	path := filepath.Join(t.TempDir(), "absent", "heart_knn.json")
	if err := WatchModelFile(ctx, path, nil); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

package obs

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestReplaceLoggerRestoresPrevious(t *testing.T) {
	original := Logger()

	core, logs := observer.New(zap.InfoLevel)
	restore := ReplaceLogger(zap.New(core))
	Logger().Info("captured", zap.String("k", "v"))
	restore()

	if logs.Len() != 1 {
		t.Fatalf("expected 1 captured entry, got %d", logs.Len())
	}
	if got := logs.All()[0].ContextMap()["k"]; got != "v" {
		t.Fatalf("unexpected field value: %v", got)
	}
	if Logger() != original {
		t.Fatalf("logger was not restored")
	}
}

func TestSetLevelRejectsUnknown(t *testing.T) {
	if err := SetLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
	if err := SetLevel(""); err != nil {
		t.Fatalf("empty level should be ignored: %v", err)
	}
	if err := SetLevel("info"); err != nil {
		t.Fatalf("SetLevel(info): %v", err)
	}
}

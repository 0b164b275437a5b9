package logger

import "testing"

func TestNewLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		if _, err := New(level); err != nil {
			t.Errorf("New(%q): %v", level, err)
		}
	}
}

func TestNewUnknownLevelFallsBackToInfo(t *testing.T) {
	log, err := New("verbose")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !log.Core().Enabled(0) { // 0 is zapcore.InfoLevel
		t.Error("info should be enabled for unknown level names")
	}
	if log.Core().Enabled(-1) { // -1 is zapcore.DebugLevel
		t.Error("debug should stay disabled for unknown level names")
	}
}

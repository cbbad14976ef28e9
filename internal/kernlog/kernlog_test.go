package kernlog

import (
	"bytes"
	"log/slog"
	"testing"
)

func TestHandlerWritesToOut(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, slog.LevelInfo, false)
	logger := slog.New(h)
	logger.Info("disk mounted", "lba", 50)

	out := buf.String()
	if !bytes.Contains([]byte(out), []byte("disk mounted")) {
		t.Fatalf("output %q missing message", out)
	}
	if !bytes.Contains([]byte(out), []byte("INFO:")) {
		t.Fatalf("output %q missing level", out)
	}
}

func TestHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, slog.LevelWarn, false)
	logger := slog.New(h)
	logger.Info("should be filtered")

	if buf.Len() != 0 {
		t.Fatalf("expected no output below configured level, got %q", buf.String())
	}
}

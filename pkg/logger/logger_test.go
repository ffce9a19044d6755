package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/zodiacal/horoscope-api/pkg/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"verbose", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewAppliesConfiguredLevel(t *testing.T) {
	for _, tt := range []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
	} {
		log := New(&config.Config{Env: "development", LogLevel: tt.level, LogFormat: "json"})
		if log == nil {
			t.Fatal("New returned nil")
		}
		if zerolog.GlobalLevel() != tt.want {
			t.Errorf("LOG_LEVEL=%s: global level = %v, want %v", tt.level, zerolog.GlobalLevel(), tt.want)
		}
	}
}

func TestWriterFor(t *testing.T) {
	if _, ok := writerFor("console").(zerolog.ConsoleWriter); !ok {
		t.Error("console format should select the console writer")
	}
	if _, ok := writerFor("pretty").(zerolog.ConsoleWriter); !ok {
		t.Error("pretty format should select the console writer")
	}
	if _, ok := writerFor("json").(zerolog.ConsoleWriter); ok {
		t.Error("json format should not select the console writer")
	}
}

// captureLogger returns a logger writing JSON lines into buf.
func captureLogger(buf *bytes.Buffer) *Logger {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	return &Logger{zlog: zerolog.New(buf)}
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	return entry
}

func TestWithFieldAppearsInOutput(t *testing.T) {
	var buf bytes.Buffer

	captureLogger(&buf).WithField("sign_id", 7).Info("record updated")

	entry := lastEntry(t, &buf)
	if entry["message"] != "record updated" {
		t.Errorf("message = %v, want %q", entry["message"], "record updated")
	}
	if entry["sign_id"] != float64(7) {
		t.Errorf("sign_id = %v, want 7", entry["sign_id"])
	}
}

func TestWithFieldsAndError(t *testing.T) {
	var buf bytes.Buffer

	captureLogger(&buf).
		WithFields(map[string]interface{}{"kind": "weekly", "date": "2024-06-10"}).
		WithError(errors.New("connection refused")).
		Error("upsert failed")

	entry := lastEntry(t, &buf)
	if entry["kind"] != "weekly" {
		t.Errorf("kind = %v, want weekly", entry["kind"])
	}
	if entry["date"] != "2024-06-10" {
		t.Errorf("date = %v, want 2024-06-10", entry["date"])
	}
	if entry["error"] != "connection refused" {
		t.Errorf("error = %v, want connection refused", entry["error"])
	}
}

func TestNopDiscardsOutput(t *testing.T) {
	log := Nop()

	// Must not panic, must not write anywhere.
	log.Info("ignored")
	log.WithField("k", "v").Error("also ignored")
	log.Debugf("ignored %d", 1)
}

package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   DebugLevel,
		" WARN ":  WarnLevel,
		"error":   ErrorLevel,
		"fatal":   FatalLevel,
		"info":    InfoLevel,
		"verbose": InfoLevel,
		"":        InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestComponentLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: DebugLevel, Output: &buf})
	defer Configure(Config{Level: InfoLevel, Pretty: true, Output: os.Stdout})

	lgr := Component("janitor")
	lgr.Info().Int("purged", 2).Msg("Expired entries purged")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	if entry["component"] != "janitor" || entry["message"] != "Expired entries purged" {
		t.Errorf("entry = %v", entry)
	}
	if entry["level"] != "info" {
		t.Errorf("level = %v", entry["level"])
	}
}

func TestLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: WarnLevel, Output: &buf})
	defer Configure(Config{Level: InfoLevel, Pretty: true, Output: os.Stdout})

	Info().Msg("hidden")
	Debug().Msg("hidden")
	if buf.Len() != 0 {
		t.Errorf("unexpected output %q", buf.String())
	}

	Warn().Msg("shown")
	if buf.Len() == 0 {
		t.Error("warn line missing")
	}
}

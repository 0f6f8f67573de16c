// README: Logger level parsing tests.
package infra

import (
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewMapsClient_NoKey(t *testing.T) {
	c, err := NewMapsClient("")
	if err != nil || c != nil {
		t.Fatalf("expected nil client without key, got %v %v", c, err)
	}
}

package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewWithWriterLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "warn")
	log.Info().Msg("hidden")
	log.Warn().Str("room_id", "R1").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info written at warn level")
	}
	if !strings.Contains(out, `"room_id":"R1"`) {
		t.Errorf("output = %q, want room_id field", out)
	}
}

func TestNewWithWriterUnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "loud")
	log.Debug().Msg("debug")
	log.Info().Msg("info")
	if strings.Contains(buf.String(), `"debug"`) || !strings.Contains(buf.String(), `"info"`) {
		t.Errorf("output = %q, want info level", buf.String())
	}
}

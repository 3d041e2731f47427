package telemetry

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"
)

func TestWriteEmitsJSONLine(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)

	Warn("snapshot.discarded", map[string]any{"key": "resumeBuilderData", "level": "ignored"})

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if entry["level"] != "warn" {
		t.Fatalf("expected level warn to win over fields, got %v", entry["level"])
	}
	if entry["msg"] != "snapshot.discarded" || entry["key"] != "resumeBuilderData" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts field")
	}
}

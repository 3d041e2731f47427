package main

import (
	"context"
	"testing"
)

func TestRunRejectsUnknownCommand(t *testing.T) {
	if err := run(context.Background(), "sideways", nil); err == nil {
		t.Fatalf("expected error for unknown command")
	}
}

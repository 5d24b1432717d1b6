package web

import (
	"encoding/hex"
	"testing"
)

func TestRandomToken(t *testing.T) {
	first, err := randomToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != 32 {
		t.Errorf("expected 32 hex characters, got %d", len(first))
	}
	if _, err := hex.DecodeString(first); err != nil {
		t.Errorf("expected hex token, got %q: %v", first, err)
	}

	second, err := randomToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first == second {
		t.Error("consecutive tokens must differ")
	}
}

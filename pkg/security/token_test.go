package security

import "testing"

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken(16)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	// hex encoding doubles the byte count
	if len(tok) != 32 {
		t.Fatalf("token length = %d, want 32", len(tok))
	}

	other, err := GenerateToken(16)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	if tok == other {
		t.Fatal("expected two generated tokens to differ")
	}
}

package security

import (
	"strings"
	"testing"
)

func TestIssueTokenLengthAndAlphabet(t *testing.T) {
	token, err := IssueToken(EditorTokenLength)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if len(token) != EditorTokenLength {
		t.Fatalf("expected length %d, got %d", EditorTokenLength, len(token))
	}
	for _, r := range token {
		if !strings.ContainsRune(string(tokenCharset), r) {
			t.Fatalf("token character %q outside charset", r)
		}
	}
}

func TestIssueTokenRejectsShortLengths(t *testing.T) {
	if _, err := IssueToken(8); err == nil {
		t.Fatal("expected sub-minimum length to fail")
	}
	if _, err := IssueToken(0); err == nil {
		t.Fatal("expected zero length to fail")
	}
}

func TestIssueTokenDoesNotRepeat(t *testing.T) {
	seen := make(map[string]struct{}, 256)
	for i := 0; i < 256; i++ {
		token, err := IssueToken(ClientTokenLength)
		if err != nil {
			t.Fatalf("IssueToken: %v", err)
		}
		if _, dup := seen[token]; dup {
			t.Fatalf("token %q repeated", token)
		}
		seen[token] = struct{}{}
	}
}

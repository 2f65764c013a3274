package game

import (
	"context"
	"errors"
	"strings"
	"testing"

	"sk8_webapp/internal/domain"
)

func TestNewCode(t *testing.T) {
	ctx := context.Background()

	t.Run("returns a well-formed code", func(t *testing.T) {
		code, err := NewCode(ctx, func(context.Context, string) (bool, error) { return false, nil })
		if err != nil {
			t.Fatalf("NewCode: %v", err)
		}
		if len(code) != codeLength {
			t.Fatalf("code length = %d; want %d", len(code), codeLength)
		}
		for _, r := range code {
			if !strings.ContainsRune(codeAlphabet, r) {
				t.Fatalf("code %q contains %q outside the alphabet", code, r)
			}
		}
	})

	t.Run("exhausts the attempt budget on collisions", func(t *testing.T) {
		calls := 0
		_, err := NewCode(ctx, func(context.Context, string) (bool, error) {
			calls++
			return true, nil
		})
		wantKind(t, err, domain.KindResourceExhausted)
		if calls != codeAttempts {
			t.Fatalf("existence checks = %d; want %d", calls, codeAttempts)
		}
	})

	t.Run("surfaces checker errors", func(t *testing.T) {
		boom := errors.New("store down")
		_, err := NewCode(ctx, func(context.Context, string) (bool, error) { return false, boom })
		if !errors.Is(err, boom) {
			t.Fatalf("err = %v; want wrapped store error", err)
		}
	})
}

func TestValidateName(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"Ann", "Ann", false},
		{"  Ann  ", "Ann", false},
		{"A", "", true},
		{" a ", "", true},
		{strings.Repeat("x", 51), "", true},
		{strings.Repeat("x", 50), strings.Repeat("x", 50), false},
	}
	for _, tc := range cases {
		got, err := ValidateName(tc.in)
		if tc.wantErr {
			wantKind(t, err, domain.KindInvalidArgument)
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("ValidateName(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
		}
	}
}

func TestValidateCode(t *testing.T) {
	if got, err := ValidateCode(" abc123 "); err != nil || got != "ABC123" {
		t.Fatalf("ValidateCode = %q, %v; want ABC123", got, err)
	}
	for _, bad := range []string{"", "ABC12", "ABC1234", "abc-12", "ABC 12"} {
		_, err := ValidateCode(bad)
		wantKind(t, err, domain.KindInvalidArgument)
	}
}

func TestValidateClipPath(t *testing.T) {
	good := []string{
		"games/abc123/set.mp4",
		"games/abc123/A/resp.MOV",
		"games/x_y-z/clip.webm",
	}
	for _, p := range good {
		if _, err := ValidateClipPath(p); err != nil {
			t.Fatalf("ValidateClipPath(%q): %v", p, err)
		}
	}
	bad := []string{
		"",
		"clips/abc/set.mp4",
		"games/abc/set.avi",
		"games/../etc/passwd.mp4",
		"games/abc/set.mp4.exe",
	}
	for _, p := range bad {
		_, err := ValidateClipPath(p)
		wantKind(t, err, domain.KindInvalidArgument)
	}
}

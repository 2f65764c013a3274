package service

import "testing"

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret")

	token, err := svc.Mint("uid-123")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	uid, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if uid != "uid-123" {
		t.Fatalf("uid = %q; want uid-123", uid)
	}
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenService("secret-a").Mint("uid-123")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := NewTokenService("secret-b").Parse(token); err == nil {
		t.Fatal("expected parse to fail with the wrong secret")
	}
}

func TestTokenRejectsGarbage(t *testing.T) {
	svc := NewTokenService("test-secret")
	for _, bad := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := svc.Parse(bad); err == nil {
			t.Fatalf("Parse(%q) succeeded", bad)
		}
	}
}

func TestLimitKey(t *testing.T) {
	got := limitKey("uid 1", "10.0.0.1", "createGame")
	want := "uid_uid_1_ip_10_0_0_1_fn_createGame"
	if got != want {
		t.Fatalf("limitKey = %q; want %q", got, want)
	}

	// fallbacks for anonymous callers
	if k := limitKey("", "", "joinGame"); k != "uid_anonymous_ip_unknown_fn_joinGame" {
		t.Fatalf("fallback key = %q", k)
	}
}

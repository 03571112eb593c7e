package security

import (
	"crypto/tls"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestHashPassword(t *testing.T) {
	password := "testPassword123"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "" || hash == password {
		t.Errorf("HashPassword() returned %q", hash)
	}

	hash2, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == hash2 {
		t.Error("HashPassword() should produce different hashes due to salt")
	}
}

func TestCheckPassword(t *testing.T) {
	password := "mySecurePassword"
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
	}{
		{"correct password", password, hash, true},
		{"incorrect password", "wrongPassword", hash, false},
		{"empty password", "", hash, false},
		{"malformed hash", password, "not-a-hash", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckPassword(tt.password, tt.hash); got != tt.want {
				t.Errorf("CheckPassword() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret")
	token, err := issuer.Issue("session-1", 42, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	sid, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if sid != "session-1" {
		t.Errorf("Parse() = %q, want session-1", sid)
	}
}

func TestTokenRejections(t *testing.T) {
	issuer := NewTokenIssuer("secret")
	expired, _ := issuer.Issue("session-1", 1, time.Now().Add(-time.Minute))
	otherKey, _ := NewTokenIssuer("other").Issue("session-1", 1, time.Now().Add(time.Hour))
	noneAlg, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sid": "session-1",
		"iss": "mindbridge",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name  string
		token string
	}{
		{"expired", expired},
		{"wrong key", otherKey},
		{"none algorithm", noneAlg},
		{"garbage", "not.a.token"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := issuer.Parse(tt.token); err != ErrInvalidToken {
				t.Errorf("Parse() error = %v, want ErrInvalidToken", err)
			}
		})
	}

	if _, err := issuer.Issue("", 1, time.Now().Add(time.Hour)); err == nil {
		t.Error("Issue() without session ID should fail")
	}
}

func TestCSRFTokens(t *testing.T) {
	g := NewCSRFGenerator("secret")
	token, err := g.GenerateToken("session-1")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	again, _ := g.GenerateToken("session-1")
	if token != again {
		t.Error("tokens for the same session should match")
	}

	if !g.ValidateToken("session-1", token) {
		t.Error("ValidateToken() rejected a valid token")
	}
	if g.ValidateToken("session-2", token) {
		t.Error("ValidateToken() accepted a token for another session")
	}
	if NewCSRFGenerator("other").ValidateToken("session-1", token) {
		t.Error("ValidateToken() accepted a token from another secret")
	}
	if g.ValidateToken("", token) || g.ValidateToken("session-1", "") {
		t.Error("ValidateToken() accepted empty input")
	}
	if _, err := g.GenerateToken(""); err == nil {
		t.Error("GenerateToken(\"\") should fail")
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Hour)
	defer rl.Stop()

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("first two requests should be allowed")
	}
	if rl.Allow("a") {
		t.Error("third request should be limited")
	}
	if !rl.Allow("b") {
		t.Error("other clients have their own bucket")
	}

	rl.prune(time.Now().Add(3 * time.Hour))
	if !rl.Allow("a") {
		t.Error("pruned client should start with a full bucket")
	}
	rl.Stop()
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "10.0.0.2:1234", "203.0.113.7"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.4"}, "10.0.0.2:1234", "198.51.100.4"},
		{"remote addr", nil, "192.0.2.10:5555", "192.0.2.10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := GetClientIP(r); got != tt.want {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCookiesAndBearer(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	if IsSecureRequest(r) {
		t.Error("plain request reported secure")
	}
	c := CreateSessionCookie(r, "session_id", "abc", time.Now().Add(time.Hour))
	if !c.HttpOnly || c.Secure || c.Value != "abc" {
		t.Errorf("CreateSessionCookie() = %+v", c)
	}

	r.TLS = &tls.ConnectionState{}
	if !CreateDeleteCookie(r, "session_id").Secure {
		t.Error("cookie over TLS should be Secure")
	}

	r.Header.Set("Authorization", "Bearer tok123")
	if got := BearerToken(r); got != "tok123" {
		t.Errorf("BearerToken() = %q", got)
	}
	r.Header.Set("Authorization", "Basic xyz")
	if got := BearerToken(r); got != "" {
		t.Errorf("BearerToken(Basic) = %q, want empty", got)
	}
}

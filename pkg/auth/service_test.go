package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

// mockJWKSClient is a mock implementation of JWKSClientInterface for testing.
type mockJWKSClient struct {
	claims    *Claims
	err       error
	lastToken string
}

func (m *mockJWKSClient) ValidateToken(tokenString string) (*Claims, error) {
	m.lastToken = tokenString
	if m.err != nil {
		return nil, m.err
	}
	return m.claims, nil
}

func (m *mockJWKSClient) Close() {}

func TestAuthService_ValidateRequest_Cookie(t *testing.T) {
	expected := &Claims{Email: "cookie@example.com"}
	service := NewAuthService(&mockJWKSClient{claims: expected}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/bots", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "cookie-token"})

	claims, token, err := service.ValidateRequest(req)
	if err != nil {
		t.Fatalf("ValidateRequest failed: %v", err)
	}
	if token != "cookie-token" {
		t.Errorf("expected token 'cookie-token', got %q", token)
	}
	if claims != expected {
		t.Error("expected claims from the JWKS client")
	}
}

func TestAuthService_ValidateRequest_AuthHeader(t *testing.T) {
	service := NewAuthService(&mockJWKSClient{claims: &Claims{}}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/bots", nil)
	req.Header.Set("Authorization", "Bearer header-token")

	_, token, err := service.ValidateRequest(req)
	if err != nil {
		t.Fatalf("ValidateRequest failed: %v", err)
	}
	if token != "header-token" {
		t.Errorf("expected token 'header-token', got %q", token)
	}
}

func TestAuthService_ValidateRequest_CookieTakesPrecedence(t *testing.T) {
	client := &mockJWKSClient{claims: &Claims{}}
	service := NewAuthService(client, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/bots", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "cookie-token"})
	req.Header.Set("Authorization", "Bearer header-token")

	if _, _, err := service.ValidateRequest(req); err != nil {
		t.Fatalf("ValidateRequest failed: %v", err)
	}
	if client.lastToken != "cookie-token" {
		t.Errorf("expected cookie token to be validated, got %q", client.lastToken)
	}
}

func TestAuthService_ValidateRequest_MissingAuth(t *testing.T) {
	service := NewAuthService(&mockJWKSClient{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/bots", nil)
	if _, _, err := service.ValidateRequest(req); !errors.Is(err, ErrMissingAuthorization) {
		t.Errorf("expected ErrMissingAuthorization, got %v", err)
	}
}

func TestAuthService_ValidateRequest_InvalidAuthFormat(t *testing.T) {
	service := NewAuthService(&mockJWKSClient{}, zap.NewNop())

	for _, header := range []string{"Basic abc", "Bearer", "Bearer a b", "token"} {
		req := httptest.NewRequest(http.MethodGet, "/api/bots", nil)
		req.Header.Set("Authorization", header)
		if _, _, err := service.ValidateRequest(req); !errors.Is(err, ErrInvalidAuthFormat) {
			t.Errorf("header %q: expected ErrInvalidAuthFormat, got %v", header, err)
		}
	}
}

func TestTokenFromRequest_SchemeIsCaseInsensitive(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/bots", nil)
	req.Header.Set("Authorization", "bearer abc.def.ghi")

	token, source, err := tokenFromRequest(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "abc.def.ghi" || source != "header" {
		t.Errorf("got token=%q source=%q", token, source)
	}
}

func TestTokenFromRequest_EmptyCookieFallsBackToHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/bots", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: ""})
	req.Header.Set("Authorization", "Bearer from-header")

	token, source, err := tokenFromRequest(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "from-header" || source != "header" {
		t.Errorf("got token=%q source=%q", token, source)
	}
}

func TestAuthService_ValidateRequest_TokenValidationError(t *testing.T) {
	validationErr := errors.New("expired")
	service := NewAuthService(&mockJWKSClient{err: validationErr}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/bots", nil)
	req.Header.Set("Authorization", "Bearer stale")

	if _, _, err := service.ValidateRequest(req); !errors.Is(err, validationErr) {
		t.Errorf("expected validation error, got %v", err)
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAuthJWTRoundTrip(t *testing.T) {
	const secret = "test-secret"

	token, err := SignJWT(secret, "user-123", time.Hour)
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}

	var gotUser string
	handler := AuthJWT(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotUser != "user-123" {
		t.Fatalf("user id = %q, want user-123", gotUser)
	}
}

func TestAuthJWTRejects(t *testing.T) {
	const secret = "test-secret"
	handler := AuthJWT(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a valid token")
	}))

	tests := []struct {
		name  string
		setup func(r *http.Request)
	}{
		{"missing header", func(r *http.Request) {}},
		{"not bearer", func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") }},
		{"garbage token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer not.a.jwt") }},
		{"wrong secret", func(r *http.Request) {
			token, err := SignJWT("other-secret", "user-123", time.Hour)
			if err != nil {
				t.Fatalf("SignJWT: %v", err)
			}
			r.Header.Set("Authorization", "Bearer "+token)
		}},
		{"expired", func(r *http.Request) {
			token, err := SignJWT(secret, "user-123", -time.Minute)
			if err != nil {
				t.Fatalf("SignJWT: %v", err)
			}
			r.Header.Set("Authorization", "Bearer "+token)
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tc.setup(req)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
		})
	}
}

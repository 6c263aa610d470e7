package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"server/internal/domain"
)

func TestSignAndVerifyToken(t *testing.T) {
	user := domain.User{ID: "u-1", Email: "u@example.com", Plan: "pro"}
	token, err := SignToken("secret", user, time.Hour)
	if err != nil {
		t.Fatalf("SignToken() error = %v", err)
	}

	claims, err := VerifyToken("secret", token)
	if err != nil {
		t.Fatalf("VerifyToken() error = %v", err)
	}
	if claims.Subject != "u-1" || claims.Email != "u@example.com" || claims.Plan != "pro" {
		t.Fatalf("claims = %+v", claims)
	}

	if _, err := VerifyToken("wrong", token); err == nil {
		t.Fatal("VerifyToken() accepted a token signed with another secret")
	}
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	token, err := SignToken("secret", domain.User{ID: "u-1"}, -time.Minute)
	if err != nil {
		t.Fatalf("SignToken() error = %v", err)
	}
	if _, err := VerifyToken("secret", token); err == nil {
		t.Fatal("VerifyToken() accepted an expired token")
	}
}

func TestAuthMiddleware(t *testing.T) {
	var gotUser domain.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := Auth("secret")(next)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer garbage", wantStatus: http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
		})
	}

	token, err := SignToken("secret", domain.User{ID: "u-1", Plan: "free"}, time.Hour)
	if err != nil {
		t.Fatalf("SignToken() error = %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotUser.ID != "u-1" || gotUser.Plan != "free" {
		t.Fatalf("user in context = %+v", gotUser)
	}
}

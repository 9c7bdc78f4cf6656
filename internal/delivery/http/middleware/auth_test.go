package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"explorewithme/internal/adapters/auth"
)

func TestRequireAuth(t *testing.T) {
	issuer := auth.NewJWTIssuer("test-secret")
	verifier := auth.NewJWTVerifier("test-secret")

	validToken, err := issuer.Issue("ewm-main-service", time.Minute)
	require.NoError(t, err)
	expiredToken, err := issuer.Issue("ewm-main-service", -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCaller string
	}{
		{
			name:       "valid token",
			header:     "Bearer " + validToken,
			wantStatus: http.StatusOK,
			wantCaller: "ewm-main-service",
		},
		{
			name:       "missing header",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			header:     "Basic abc",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "empty token",
			header:     "Bearer ",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired token",
			header:     "Bearer " + expiredToken,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			header:     "Bearer not-a-jwt",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotCaller string
			var nextCalled bool
			next := func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				gotCaller, _ = CallerFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}
			handler := RequireAuth(verifier)(next)

			req := httptest.NewRequest(http.MethodPost, "http://test/hit", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()

			handler(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				assert.True(t, nextCalled)
				assert.Equal(t, tt.wantCaller, gotCaller)
				return
			}
			assert.False(t, nextCalled)
		})
	}
}

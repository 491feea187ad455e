package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrijs2005/videotube/internal/common"
	"github.com/dmitrijs2005/videotube/internal/logging"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantMsg    string
	}{
		{fmt.Errorf("%w: email is required", common.ErrInvalidInput), http.StatusBadRequest, "invalid input: email is required"},
		{common.ErrInvalidCredentials, http.StatusUnauthorized, "invalid username or password"},
		{common.ErrTokenExpired, http.StatusUnauthorized, "token expired"},
		{common.ErrInvalidToken, http.StatusUnauthorized, "invalid token"},
		{common.ErrRefreshTokenReused, http.StatusUnauthorized, "unauthorized: refresh token is expired or reused"},
		{fmt.Errorf("%w: only the channel owner can list its subscribers", common.ErrForbidden), http.StatusForbidden, "forbidden: only the channel owner can list its subscribers"},
		{common.ErrorNotFound, http.StatusNotFound, "not found"},
		{common.ErrConflict, http.StatusConflict, "already exists"},
		{fmt.Errorf("%w: dial tcp 10.0.0.1:5432", common.ErrUnavailable), http.StatusServiceUnavailable, "service temporarily unavailable"},
		{fmt.Errorf("%w: pq: relation missing", common.ErrorInternal), http.StatusInternalServerError, "internal error"},
		{fmt.Errorf("anything else"), http.StatusInternalServerError, "internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, msg := statusFor(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	s := &Server{logger: logging.NewJSONLogger(&buf, "info")}

	handler := s.loggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test-path", nil).WithContext(context.Background())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	out := buf.String()
	assert.Contains(t, out, `"method":"GET"`)
	assert.Contains(t, out, `"path":"/test-path"`)
	assert.Contains(t, out, `"status":418`)
}

package response

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/talekeep/talekeep-backend/internal/pkg/apperr"
)

func TestFromError_MapsSentinels(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("branch: %w", apperr.ErrNotFound), http.StatusNotFound, "not_found"},
		{fmt.Errorf("priority: %w", apperr.ErrInvalidArgument), http.StatusBadRequest, "invalid_request"},
		{apperr.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{errors.New("database on fire"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		FromError(c, tc.err)
		if w.Code != tc.status {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.status, w.Code)
		}
		if !strings.Contains(w.Body.String(), tc.code) {
			t.Fatalf("%v: expected code %q in %s", tc.err, tc.code, w.Body.String())
		}
	}
}

func TestFromError_InternalErrorsDoNotLeakDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	FromError(c, errors.New("pq: connection refused at 10.0.0.3"))
	if strings.Contains(w.Body.String(), "10.0.0.3") {
		t.Fatalf("internal detail leaked: %s", w.Body.String())
	}
}

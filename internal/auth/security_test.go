package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type documentRequest struct {
	Name    string          `validate:"required"`
	Content json.RawMessage `validate:"required,jsondoc"`
	Raw     string          `validate:"omitempty,jsondoc"`
}

func TestValidator_JSONDocument(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name  string
		req   documentRequest
		valid bool
	}{
		{"object", documentRequest{Name: "a", Content: json.RawMessage(`{"a": [1, 2]}`)}, true},
		{"scalar", documentRequest{Name: "a", Content: json.RawMessage(`"x"`)}, true},
		{"string field", documentRequest{Name: "a", Content: json.RawMessage(`[]`), Raw: `{"b": null}`}, true},
		{"missing content", documentRequest{Name: "a"}, false},
		{"malformed content", documentRequest{Name: "a", Content: json.RawMessage(`{"a":`)}, false},
		{"malformed string", documentRequest{Name: "a", Content: json.RawMessage(`1`), Raw: `{`}, false},
		{"missing name", documentRequest{Content: json.RawMessage(`{}`)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	e := echo.New()
	mw := RateLimitMiddleware(NewRateLimiter(2))
	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		rec := httptest.NewRecorder()
		require.NoError(t, handler(e.NewContext(req, rec)))
		codes = append(codes, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	}

	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}

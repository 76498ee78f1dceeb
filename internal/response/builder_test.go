package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(recorder)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/test", nil)
	handler(ctx)
	return recorder
}

func TestResponseBuilder_Success(t *testing.T) {
	builder := Success(map[string]string{"id": "123"})

	response := builder.GetResponse()
	assert.Equal(t, int64(CodeSuccess), response.Code)
	assert.Empty(t, response.ErrorMessage)
	assert.NotNil(t, response.Data)
}

func TestResponseBuilder_Error(t *testing.T) {
	builder := Error(CodeNotFound, "task not found").WithDetail("task id 123")

	response := builder.GetResponse()
	assert.Equal(t, int64(CodeNotFound), response.Code)
	assert.Equal(t, "task not found", response.ErrorMessage)
	assert.Equal(t, "task id 123", response.ErrorDetail)
}

func TestResponseBuilder_WithData(t *testing.T) {
	builder := Success(nil).WithData("payload")
	assert.Equal(t, "payload", builder.GetResponse().Data)
}

func TestConvenienceHelpers(t *testing.T) {
	tests := []struct {
		name       string
		handler    gin.HandlerFunc
		wantStatus int
		wantBody   string
	}{
		{
			name:       "ok",
			handler:    func(c *gin.Context) { OK(c, gin.H{"id": "1"}) },
			wantStatus: http.StatusOK,
			wantBody:   "\"id\"",
		},
		{
			name:       "bad request",
			handler:    func(c *gin.Context) { BadRequest(c, "invalid payload") },
			wantStatus: http.StatusBadRequest,
			wantBody:   "invalid payload",
		},
		{
			name:       "not found",
			handler:    func(c *gin.Context) { NotFound(c, "breaker not found") },
			wantStatus: http.StatusNotFound,
			wantBody:   "breaker not found",
		},
		{
			name:       "internal server error",
			handler:    func(c *gin.Context) { InternalServerError(c, "unexpected failure") },
			wantStatus: http.StatusInternalServerError,
			wantBody:   "unexpected failure",
		},
		{
			name:       "service unavailable",
			handler:    func(c *gin.Context) { ServiceUnavailable(c, "backend is down") },
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "backend is down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := performRequest(tt.handler)
			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Contains(t, recorder.Body.String(), tt.wantBody)
		})
	}
}

func TestResponseCodesAreDistinct(t *testing.T) {
	codes := []int64{
		CodeSuccess,
		CodeBadRequest,
		CodeNotFound,
		CodeInternalError,
		CodeServiceUnavailable,
		CodeCircuitBreakerOpen,
		CodeBackendTimeout,
	}

	seen := make(map[int64]bool, len(codes))
	for _, code := range codes {
		assert.False(t, seen[code], "duplicate response code %d", code)
		seen[code] = true
	}
}

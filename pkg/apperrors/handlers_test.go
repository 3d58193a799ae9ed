package apperrors

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doHandle(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	HandleError(c, err)
	return w
}

func TestHandleError_CapacityConflict(t *testing.T) {
	w := doHandle(t, ErrCapacityConflict(nil))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Fully booked for selected dates")
	assert.Contains(t, w.Body.String(), string(CodeCapacityConflict))
}

func TestHandleError_StateConflict(t *testing.T) {
	w := doHandle(t, ErrStateConflict(nil))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), string(CodeStateConflict))
}

func TestHandleError_PlainErrorBecomesInternal(t *testing.T) {
	w := doHandle(t, errors.New("pq: connection refused"))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), string(CodeInternalError))
}

func TestHandleError_ValidationDetails(t *testing.T) {
	w := doHandle(t, ValidationError(map[string]string{"rating": "must be between 1 and 5"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"rating"`)
}

package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/inventory_api/pkg/listquery"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	token, err := m.Generate(7, "admin@example.com")
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	require.Equal(t, 7, claims.UserID)
	require.Equal(t, "admin@example.com", claims.Email)
}

func TestJWTRejectsExpiredAndForeignTokens(t *testing.T) {
	m := NewJWTManager("secret", time.Minute)
	token, err := m.Generate(1, "a@b.c")
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = m.Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)

	other := NewJWTManager("other", time.Minute)
	_, err = other.Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func serveFail(err error) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/device", nil)
	c.Set("request_id", "abc123")
	Fail(c, err)
	return w
}

func TestFailMapsAppError(t *testing.T) {
	w := serveFail(fmt.Errorf("wrapped: %w", NotFound("device")))
	require.Equal(t, http.StatusNotFound, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "device not found", body.Message)
	require.Equal(t, "NOT_FOUND", body.Error)
	require.Equal(t, "abc123", body.RequestID)
}

func TestFailMapsParamError(t *testing.T) {
	w := serveFail(&listquery.ParamError{Param: "limit", Reason: "too big"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "invalid limit: too big")
}

func TestFailHidesUnknownErrors(t *testing.T) {
	w := serveFail(errors.New("pq: connection refused to 10.0.0.1"))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotContains(t, w.Body.String(), "10.0.0.1")
	require.Contains(t, w.Body.String(), "Internal server error")
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("duplicate key")
	err := Conflict("DUPLICATE", "device already exists", cause)
	require.ErrorIs(t, err, cause)
	require.Equal(t, "device already exists: duplicate key", err.Error())
}

package app_error

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("ticket %s", "x")))
	assert.Equal(t, KindConflict, KindOf(fmt.Errorf("step 2: %w", Conflict("team full"))))
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("lookup: %w", gorm.ErrRecordNotFound)))
	assert.Equal(t, KindDependencyFailure, KindOf(errors.New("connection refused")))
	assert.True(t, Is(Forbidden("no"), KindForbidden))
	assert.False(t, Is(nil, KindDependencyFailure))
	assert.Nil(t, Wrap(KindConflict, nil))

	cause := errors.New("timeout")
	wrapped := DependencyFailure(cause)
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(wrapped))
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(ValidationFailed("bad")))
}

func TestRespond(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for _, tc := range []struct {
		err     error
		status  int
		message string
	}{
		{NotFound("Project does not exist"), http.StatusNotFound, "Project does not exist"},
		{Conflict("Existing Allocation"), http.StatusConflict, "Existing Allocation"},
		{Unauthorized("Invalid credentials"), http.StatusUnauthorized, "Invalid credentials"},
		{errors.New("pq: relation does not exist"), http.StatusInternalServerError, "Internal server error"},
	} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		Respond(c, tc.err)

		assert.Equal(t, tc.status, w.Code)
		assert.True(t, c.IsAborted())
		body := map[string]string{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, tc.message, body["error"])
	}
}

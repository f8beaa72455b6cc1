package controller

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"inc/config"
	"inc/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynopsisErrorIsNotServedAsPDF(t *testing.T) {
	events, err := config.LoadEvents("")
	require.NoError(t, err)
	e := &RegistrationController{synopsisService: service.NewSynopsisService(nil, events)}
	r := gin.New()
	r.GET("/events/:event_name/synopsis", e.synopsisHandler())

	w := serve(r, httptest.NewRequest(http.MethodGet, "/events/unknown/synopsis", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.Empty(t, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Body.String(), "unknown")
}

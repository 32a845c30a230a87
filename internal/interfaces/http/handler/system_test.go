package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewSystemHandler("notifier").RegisterRoutes(router.Group(""))

	w := performJSON(t, router, "GET", "/health", nil, nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "notifier", body["service"])
	assert.Equal(t, "ok", body["status"])
}

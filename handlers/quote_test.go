package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestQuoteEndpointsRequireAuthentication(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &QuoteHandler{}

	r := gin.New()
	r.POST("/projects/:id/quotes", h.UploadQuote)
	r.GET("/projects/:id/quotes", h.ListQuotes)
	r.GET("/quotes/:id/download", h.DownloadQuote)
	r.DELETE("/quotes/:id", h.DeleteQuote)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/projects/p1/quotes"},
		{http.MethodGet, "/projects/p1/quotes"},
		{http.MethodGet, "/quotes/q1/download"},
		{http.MethodDelete, "/quotes/q1"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"error": "Unauthorized"}`, w.Body.String())
		})
	}
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byggbroker/quote-api/middleware"
	"github.com/byggbroker/quote-api/services"
)

type fakeAccessWorkflow struct {
	configured     bool
	requestOutcome services.RequestOutcome
	requestErr     error
	grantErr       error

	gotQuoteID   string
	gotRequestID string
	gotCaller    services.Caller
}

func (f *fakeAccessWorkflow) Configured() bool { return f.configured }

func (f *fakeAccessWorkflow) Request(_ context.Context, quoteID string, caller services.Caller) (services.RequestOutcome, error) {
	f.gotQuoteID = quoteID
	f.gotCaller = caller
	return f.requestOutcome, f.requestErr
}

func (f *fakeAccessWorkflow) Grant(_ context.Context, requestID string, caller services.Caller) error {
	f.gotRequestID = requestID
	f.gotCaller = caller
	return f.grantErr
}

func setupAccessRouter(fake *fakeAccessWorkflow) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, "caller-1")
		c.Set(middleware.ContextUserEmail, "caller@example.com")
	})

	h := NewAccessRequestHandler(fake)
	r.POST("/quote-access/request", h.RequestAccess)
	r.POST("/quote-access/grant", h.GrantAccess)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestRequestAccess(t *testing.T) {
	tests := []struct {
		name       string
		fake       *fakeAccessWorkflow
		body       interface{}
		wantStatus int
		wantKey    string
		wantMsg    string
	}{
		{
			name:       "created",
			fake:       &fakeAccessWorkflow{configured: true, requestOutcome: services.RequestCreated},
			body:       gin.H{"quoteId": "q1"},
			wantStatus: http.StatusCreated,
			wantKey:    "message",
			wantMsg:    "Access request created successfully.",
		},
		{
			name:       "already pending",
			fake:       &fakeAccessWorkflow{configured: true, requestOutcome: services.RequestAlreadyPending},
			body:       gin.H{"quoteId": "q1"},
			wantStatus: http.StatusOK,
			wantKey:    "message",
			wantMsg:    "Access request already pending.",
		},
		{
			name:       "already granted",
			fake:       &fakeAccessWorkflow{configured: true, requestOutcome: services.RequestAlreadyGranted},
			body:       gin.H{"quoteId": "q1"},
			wantStatus: http.StatusOK,
			wantKey:    "message",
			wantMsg:    "Access already granted.",
		},
		{
			name:       "missing quoteId",
			fake:       &fakeAccessWorkflow{configured: true},
			body:       gin.H{},
			wantStatus: http.StatusBadRequest,
			wantKey:    "error",
			wantMsg:    "Missing quoteId in request body.",
		},
		{
			name:       "not configured",
			fake:       &fakeAccessWorkflow{configured: false},
			body:       gin.H{"quoteId": "q1"},
			wantStatus: http.StatusInternalServerError,
			wantKey:    "error",
			wantMsg:    "Server configuration error.",
		},
		{
			name:       "quote not found",
			fake:       &fakeAccessWorkflow{configured: true, requestErr: services.ErrQuoteNotFound},
			body:       gin.H{"quoteId": "missing"},
			wantStatus: http.StatusNotFound,
			wantKey:    "error",
			wantMsg:    "Could not find the specified quote.",
		},
		{
			name:       "own quote",
			fake:       &fakeAccessWorkflow{configured: true, requestErr: services.ErrOwnQuote},
			body:       gin.H{"quoteId": "q1"},
			wantStatus: http.StatusBadRequest,
			wantKey:    "error",
			wantMsg:    "You cannot request access to your own quote.",
		},
		{
			name:       "existing check failure",
			fake:       &fakeAccessWorkflow{configured: true, requestErr: services.ErrExistingCheck},
			body:       gin.H{"quoteId": "q1"},
			wantStatus: http.StatusInternalServerError,
			wantKey:    "error",
			wantMsg:    "Database error checking existing requests.",
		},
		{
			name:       "insert failure",
			fake:       &fakeAccessWorkflow{configured: true, requestErr: services.ErrCreateRequest},
			body:       gin.H{"quoteId": "q1"},
			wantStatus: http.StatusInternalServerError,
			wantKey:    "error",
			wantMsg:    "Failed to create access request.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupAccessRouter(tt.fake)
			w := postJSON(t, r, "/quote-access/request", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decodeBody(t, w)
			assert.Equal(t, tt.wantMsg, body[tt.wantKey])
		})
	}
}

func TestRequestAccessPassesCaller(t *testing.T) {
	fake := &fakeAccessWorkflow{configured: true, requestOutcome: services.RequestCreated}
	r := setupAccessRouter(fake)

	w := postJSON(t, r, "/quote-access/request", gin.H{"quoteId": "q42"})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "q42", fake.gotQuoteID)
	assert.Equal(t, "caller-1", fake.gotCaller.ID)
	assert.Equal(t, "caller@example.com", fake.gotCaller.Email)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
}

func TestGrantAccess(t *testing.T) {
	tests := []struct {
		name       string
		fake       *fakeAccessWorkflow
		body       interface{}
		wantStatus int
		wantKey    string
		wantMsg    string
	}{
		{
			name:       "granted",
			fake:       &fakeAccessWorkflow{configured: true},
			body:       gin.H{"requestId": "r1"},
			wantStatus: http.StatusOK,
			wantKey:    "message",
			wantMsg:    "Access granted successfully.",
		},
		{
			name:       "missing requestId",
			fake:       &fakeAccessWorkflow{configured: true},
			body:       gin.H{},
			wantStatus: http.StatusBadRequest,
			wantKey:    "error",
			wantMsg:    "Missing requestId in request body.",
		},
		{
			name:       "not configured",
			fake:       &fakeAccessWorkflow{configured: false},
			body:       gin.H{"requestId": "r1"},
			wantStatus: http.StatusInternalServerError,
			wantKey:    "error",
			wantMsg:    "Server configuration error.",
		},
		{
			name:       "request not found",
			fake:       &fakeAccessWorkflow{configured: true, grantErr: services.ErrRequestNotFound},
			body:       gin.H{"requestId": "missing"},
			wantStatus: http.StatusNotFound,
			wantKey:    "error",
			wantMsg:    "Could not find the request details.",
		},
		{
			name:       "permission denied",
			fake:       &fakeAccessWorkflow{configured: true, grantErr: services.ErrPermissionDenied},
			body:       gin.H{"requestId": "r1"},
			wantStatus: http.StatusForbidden,
			wantKey:    "error",
			wantMsg:    "Permission denied to update this request.",
		},
		{
			name:       "update failure",
			fake:       &fakeAccessWorkflow{configured: true, grantErr: services.ErrGrantFailed},
			body:       gin.H{"requestId": "r1"},
			wantStatus: http.StatusInternalServerError,
			wantKey:    "error",
			wantMsg:    "Failed to grant access.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupAccessRouter(tt.fake)
			w := postJSON(t, r, "/quote-access/grant", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decodeBody(t, w)
			assert.Equal(t, tt.wantMsg, body[tt.wantKey])
		})
	}
}

package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/byggbroker/quote-api/middleware"
	"github.com/byggbroker/quote-api/models"
	"github.com/byggbroker/quote-api/services"
)

// AccessWorkflow is the part of the access service the handler needs.
type AccessWorkflow interface {
	Configured() bool
	Request(ctx context.Context, quoteID string, caller services.Caller) (services.RequestOutcome, error)
	Grant(ctx context.Context, requestID string, caller services.Caller) error
}

type AccessRequestHandler struct {
	Access AccessWorkflow
}

func NewAccessRequestHandler(access AccessWorkflow) *AccessRequestHandler {
	return &AccessRequestHandler{Access: access}
}

// RequestAccess handles POST /quote-access/request. It asks for access to
// another user's quote; duplicate calls report the existing request
// instead of creating a second one.
func (h *AccessRequestHandler) RequestAccess(c *gin.Context) {
	if !h.Access.Configured() {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server configuration error."})
		return
	}

	var body models.CreateAccessRequestBody
	if err := c.ShouldBindJSON(&body); err != nil || body.QuoteID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing quoteId in request body."})
		return
	}

	caller := services.Caller{
		ID:    middleware.GetUserID(c),
		Email: middleware.GetUserEmail(c),
	}

	outcome, err := h.Access.Request(c.Request.Context(), body.QuoteID, caller)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrQuoteNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Could not find the specified quote."})
		case errors.Is(err, services.ErrOwnQuote):
			c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot request access to your own quote."})
		case errors.Is(err, services.ErrExistingCheck):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking existing requests."})
		case errors.Is(err, services.ErrCreateRequest):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create access request."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred."})
		}
		return
	}

	switch outcome {
	case services.RequestAlreadyPending:
		c.JSON(http.StatusOK, gin.H{"message": "Access request already pending."})
	case services.RequestAlreadyGranted:
		c.JSON(http.StatusOK, gin.H{"message": "Access already granted."})
	default:
		c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Access request created successfully."})
	}
}

// GrantAccess handles POST /quote-access/grant. Only the quote's uploader
// or an administrator may approve a request.
func (h *AccessRequestHandler) GrantAccess(c *gin.Context) {
	if !h.Access.Configured() {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server configuration error."})
		return
	}

	var body models.GrantAccessRequestBody
	if err := c.ShouldBindJSON(&body); err != nil || body.RequestID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing requestId in request body."})
		return
	}

	caller := services.Caller{
		ID:    middleware.GetUserID(c),
		Email: middleware.GetUserEmail(c),
	}

	err := h.Access.Grant(c.Request.Context(), body.RequestID, caller)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRequestNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Could not find the request details."})
		case errors.Is(err, services.ErrPermissionDenied):
			c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied to update this request."})
		case errors.Is(err, services.ErrGrantFailed):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to grant access."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred."})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Access granted successfully."})
}

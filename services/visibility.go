package services

import (
	"time"

	"github.com/byggbroker/quote-api/models"
)

// QuoteView is what one viewer is allowed to see of one quote. Restricted
// views carry only the trade category and upload date.
type QuoteView struct {
	ID             string    `json:"id"`
	ProjectID      string    `json:"project_id"`
	ContractorType string    `json:"contractor_type"`
	CreatedAt      time.Time `json:"created_at"`

	FullDetail    bool    `json:"full_detail"`
	Amount        float64 `json:"amount,omitempty"`
	FileName      string  `json:"file_name,omitempty"`
	CompanyName   string  `json:"company_name,omitempty"`
	PhoneNumber   string  `json:"phone_number,omitempty"`
	UploaderEmail string  `json:"uploader_email,omitempty"`
	IsOwner       bool    `json:"is_owner"`

	CanDownload      bool `json:"can_download"`
	CanDelete        bool `json:"can_delete"`
	CanRequestAccess bool `json:"can_request_access"`
	AlreadyRequested bool `json:"already_requested"`

	// Requests awaiting the viewer's decision, only populated when the
	// viewer is the quote's uploader.
	PendingRequests []models.AccessRequest `json:"pending_requests,omitempty"`
}

// BuildQuoteViews decides, per quote, how much the viewer gets to see.
// It is a pure function of data the caller already fetched: the project's
// quotes, the viewer's identity and admin flag, the viewer's own access
// requests, and the requests made against the viewer's quotes.
//
// Precedence per quote: uploader, then admin, then granted requester,
// then restricted summary.
func BuildQuoteViews(quotes []models.Quote, viewerID string, isAdmin bool,
	myRequests []models.AccessRequest, requestsForMine []models.AccessRequest) []QuoteView {

	views := make([]QuoteView, 0, len(quotes))
	for _, quote := range quotes {
		views = append(views, buildQuoteView(quote, viewerID, isAdmin, myRequests, requestsForMine))
	}
	return views
}

func buildQuoteView(quote models.Quote, viewerID string, isAdmin bool,
	myRequests []models.AccessRequest, requestsForMine []models.AccessRequest) QuoteView {

	view := QuoteView{
		ID:             quote.ID,
		ProjectID:      quote.ProjectID,
		ContractorType: quote.ContractorType,
		CreatedAt:      quote.CreatedAt,
	}

	isOwner := quote.UserID == viewerID

	switch {
	case isOwner:
		fillFullDetail(&view, quote)
		view.IsOwner = true
		view.CanDelete = true
		view.PendingRequests = pendingRequestsFor(quote.ID, requestsForMine)

	case isAdmin:
		fillFullDetail(&view, quote)
		view.CanDelete = true

	case hasGrantedRequest(quote.ID, viewerID, myRequests):
		fillFullDetail(&view, quote)

	default:
		if hasPendingRequest(quote.ID, viewerID, myRequests) {
			view.AlreadyRequested = true
		} else {
			view.CanRequestAccess = true
		}
	}

	return view
}

func fillFullDetail(view *QuoteView, quote models.Quote) {
	view.FullDetail = true
	view.Amount = quote.Amount
	view.FileName = quote.FileName
	view.CompanyName = quote.CompanyName
	view.PhoneNumber = quote.PhoneNumber
	view.UploaderEmail = quote.UploaderEmail
	view.CanDownload = true
}

func hasGrantedRequest(quoteID, viewerID string, requests []models.AccessRequest) bool {
	for _, req := range requests {
		if req.QuoteID == quoteID && req.RequesterUserID == viewerID && req.IsGranted() {
			return true
		}
	}
	return false
}

func hasPendingRequest(quoteID, viewerID string, requests []models.AccessRequest) bool {
	for _, req := range requests {
		if req.QuoteID == quoteID && req.RequesterUserID == viewerID && req.IsPending() {
			return true
		}
	}
	return false
}

func pendingRequestsFor(quoteID string, requests []models.AccessRequest) []models.AccessRequest {
	var pending []models.AccessRequest
	for _, req := range requests {
		if req.QuoteID == quoteID && req.IsPending() {
			pending = append(pending, req)
		}
	}
	return pending
}

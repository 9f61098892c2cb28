package models

import "time"

// Access request statuses. Only pending -> granted is ever performed;
// "denied" is reserved in the schema for a future rejection flow.
const (
	AccessStatusPending = "pending"
	AccessStatusGranted = "granted"
	AccessStatusDenied  = "denied"
)

type AccessRequest struct {
	ID              string    `json:"id"`
	QuoteID         string    `json:"quote_id"`
	RequesterUserID string    `json:"requester_user_id"`
	UploaderUserID  string    `json:"uploader_user_id"`
	Status          string    `json:"status"`
	RequesterEmail  string    `json:"requester_email,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func (r *AccessRequest) IsPending() bool {
	return r.Status == AccessStatusPending
}

func (r *AccessRequest) IsGranted() bool {
	return r.Status == AccessStatusGranted
}

// Active reports whether the request still blocks a new one for the
// same (quote, requester) pair.
func (r *AccessRequest) Active() bool {
	return r.Status == AccessStatusPending || r.Status == AccessStatusGranted
}

type CreateAccessRequestBody struct {
	QuoteID string `json:"quoteId"`
}

type GrantAccessRequestBody struct {
	RequestID string `json:"requestId"`
}

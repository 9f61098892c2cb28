package services

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/byggbroker/quote-api/models"
)

// Typed workflow errors. Handlers map these to the HTTP responses the
// frontend expects.
var (
	ErrQuoteNotFound    = errors.New("quote not found")
	ErrRequestNotFound  = errors.New("access request not found")
	ErrOwnQuote         = errors.New("cannot request access to own quote")
	ErrExistingCheck    = errors.New("failed to check existing requests")
	ErrCreateRequest    = errors.New("failed to create access request")
	ErrPermissionDenied = errors.New("permission denied")
	ErrGrantFailed      = errors.New("failed to grant access")
)

// RequestOutcome describes what Request did for an idempotent call.
type RequestOutcome int

const (
	RequestCreated RequestOutcome = iota
	RequestAlreadyPending
	RequestAlreadyGranted
)

// Caller is the authenticated identity an operation runs on behalf of.
type Caller struct {
	ID      string
	Email   string
	IsAdmin bool
}

// AuthorizationPolicy decides whether a caller may grant an access
// request. Kept as an explicit capability so the rule lives in one place
// instead of being inferred from store errors.
type AuthorizationPolicy interface {
	CanGrant(caller Caller, req *models.AccessRequest) bool
}

// UploaderOrAdminPolicy allows the quote's uploader and administrators.
type UploaderOrAdminPolicy struct{}

func (UploaderOrAdminPolicy) CanGrant(caller Caller, req *models.AccessRequest) bool {
	return caller.IsAdmin || caller.ID == req.UploaderUserID
}

// Broadcaster pushes live events to clients watching a project.
type Broadcaster interface {
	BroadcastProjectEvent(projectID, eventType, userID string)
}

// AccessService runs the quote access-request workflow: request intake
// and grant decisions. Notifications are best-effort and never fail the
// primary operation.
type AccessService struct {
	DB     *sql.DB
	Email  *EmailService
	Policy AuthorizationPolicy
	Events Broadcaster
}

func NewAccessService(db *sql.DB, email *EmailService, events Broadcaster) *AccessService {
	return &AccessService{
		DB:     db,
		Email:  email,
		Policy: UploaderOrAdminPolicy{},
		Events: events,
	}
}

// Configured reports whether the service has everything the workflow
// endpoints need. Missing pieces are a server configuration error.
func (s *AccessService) Configured() bool {
	return s.DB != nil && s.Email != nil && s.Email.Configured()
}

// Request records that the caller wants access to a quote's full details
// and notifies the uploader. The call is idempotent: an active request
// for the same (quote, caller) pair is reported, not duplicated.
func (s *AccessService) Request(ctx context.Context, quoteID string, caller Caller) (RequestOutcome, error) {
	var uploaderID, contractorType, projectID, projectTitle string
	err := s.DB.QueryRowContext(ctx, `
		SELECT q.user_id, q.contractor_type, q.project_id, p.title
		FROM quotes q
		INNER JOIN projects p ON q.project_id = p.id
		WHERE q.id = $1
	`, quoteID).Scan(&uploaderID, &contractorType, &projectID, &projectTitle)

	if err == sql.ErrNoRows {
		return 0, ErrQuoteNotFound
	}
	if err != nil {
		log.Printf("❌ Quote fetch error: %v", err)
		return 0, ErrQuoteNotFound
	}

	if caller.ID == uploaderID {
		return 0, ErrOwnQuote
	}

	var existingStatus string
	err = s.DB.QueryRowContext(ctx, `
		SELECT status FROM quote_access_requests
		WHERE quote_id = $1 AND requester_user_id = $2 AND status IN ('pending', 'granted')
	`, quoteID, caller.ID).Scan(&existingStatus)

	if err != nil && err != sql.ErrNoRows {
		log.Printf("❌ Existing request check error: %v", err)
		return 0, ErrExistingCheck
	}
	if err == nil {
		if existingStatus == models.AccessStatusGranted {
			return RequestAlreadyGranted, nil
		}
		return RequestAlreadyPending, nil
	}

	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO quote_access_requests (id, quote_id, requester_user_id, uploader_user_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.New().String(), quoteID, caller.ID, uploaderID, models.AccessStatusPending, time.Now())

	if err != nil {
		// The partial unique index rejects a concurrent duplicate; treat
		// that the same as finding one during the pre-check.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return s.existingOutcome(ctx, quoteID, caller.ID)
		}
		log.Printf("❌ Insert request error: %v", err)
		return 0, ErrCreateRequest
	}

	s.notifyUploader(ctx, uploaderID, caller.Email, contractorType, projectID, projectTitle)

	if s.Events != nil {
		s.Events.BroadcastProjectEvent(projectID, "access_requested", caller.ID)
	}

	return RequestCreated, nil
}

func (s *AccessService) existingOutcome(ctx context.Context, quoteID, requesterID string) (RequestOutcome, error) {
	var status string
	err := s.DB.QueryRowContext(ctx, `
		SELECT status FROM quote_access_requests
		WHERE quote_id = $1 AND requester_user_id = $2 AND status IN ('pending', 'granted')
	`, quoteID, requesterID).Scan(&status)
	if err != nil {
		log.Printf("❌ Existing request check error: %v", err)
		return 0, ErrExistingCheck
	}
	if status == models.AccessStatusGranted {
		return RequestAlreadyGranted, nil
	}
	return RequestAlreadyPending, nil
}

// Grant transitions a pending access request to granted on behalf of the
// caller and notifies the requester. Whether the caller is allowed to
// decide is the AuthorizationPolicy's call.
func (s *AccessService) Grant(ctx context.Context, requestID string, caller Caller) error {
	req := &models.AccessRequest{ID: requestID}
	var contractorType, projectID, projectTitle string
	err := s.DB.QueryRowContext(ctx, `
		SELECT r.quote_id, r.requester_user_id, r.uploader_user_id, r.status,
		       q.contractor_type, q.project_id, p.title
		FROM quote_access_requests r
		INNER JOIN quotes q ON r.quote_id = q.id
		INNER JOIN projects p ON q.project_id = p.id
		WHERE r.id = $1
	`, requestID).Scan(&req.QuoteID, &req.RequesterUserID, &req.UploaderUserID, &req.Status,
		&contractorType, &projectID, &projectTitle)

	if err == sql.ErrNoRows {
		return ErrRequestNotFound
	}
	if err != nil {
		log.Printf("❌ Error fetching request details: %v", err)
		return ErrRequestNotFound
	}

	if !caller.IsAdmin {
		if err := s.DB.QueryRowContext(ctx, `SELECT is_admin FROM users WHERE id = $1`, caller.ID).Scan(&caller.IsAdmin); err != nil {
			log.Printf("⚠️ Could not resolve admin flag for %s: %v", caller.ID, err)
		}
	}

	if !s.Policy.CanGrant(caller, req) {
		return ErrPermissionDenied
	}

	_, err = s.DB.ExecContext(ctx, `
		UPDATE quote_access_requests
		SET status = $1
		WHERE id = $2
	`, models.AccessStatusGranted, requestID)

	if err != nil {
		log.Printf("❌ Update request error: %v", err)
		return ErrGrantFailed
	}

	s.notifyRequester(ctx, req.RequesterUserID, contractorType, projectID, projectTitle)

	if s.Events != nil {
		s.Events.BroadcastProjectEvent(projectID, "access_granted", req.RequesterUserID)
	}

	return nil
}

func (s *AccessService) notifyUploader(ctx context.Context, uploaderID, requesterEmail, contractorType, projectID, projectTitle string) {
	var uploaderEmail string
	err := s.DB.QueryRowContext(ctx, `SELECT email FROM users WHERE id = $1`, uploaderID).Scan(&uploaderEmail)
	if err != nil {
		log.Printf("⚠️ Could not fetch uploader email: %v", err)
		return
	}

	if err := s.Email.SendAccessRequested(uploaderEmail, requesterEmail, contractorType, projectTitle, projectID); err != nil {
		log.Printf("⚠️ Error sending access request notification: %v", err)
		return
	}
	log.Printf("✅ Access request notification email sent to %s", uploaderEmail)
}

func (s *AccessService) notifyRequester(ctx context.Context, requesterID, contractorType, projectID, projectTitle string) {
	var requesterEmail string
	err := s.DB.QueryRowContext(ctx, `SELECT email FROM users WHERE id = $1`, requesterID).Scan(&requesterEmail)
	if err != nil {
		log.Printf("⚠️ Could not fetch requester email: %v", err)
		return
	}

	if err := s.Email.SendAccessGranted(requesterEmail, contractorType, projectTitle, projectID); err != nil {
		log.Printf("⚠️ Error sending grant confirmation: %v", err)
		return
	}
	log.Printf("✅ Access granted confirmation email sent to %s", requesterEmail)
}

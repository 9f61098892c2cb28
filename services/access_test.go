package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/byggbroker/quote-api/models"
)

func TestUploaderOrAdminPolicy(t *testing.T) {
	policy := UploaderOrAdminPolicy{}
	req := &models.AccessRequest{
		ID:              "r1",
		QuoteID:         "q1",
		RequesterUserID: "requester-1",
		UploaderUserID:  "uploader-1",
		Status:          models.AccessStatusPending,
	}

	tests := []struct {
		name    string
		caller  Caller
		allowed bool
	}{
		{"uploader may grant", Caller{ID: "uploader-1"}, true},
		{"admin may grant", Caller{ID: "someone-else", IsAdmin: true}, true},
		{"requester may not grant own request", Caller{ID: "requester-1"}, false},
		{"unrelated user may not grant", Caller{ID: "stranger"}, false},
		{"admin uploader may grant", Caller{ID: "uploader-1", IsAdmin: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, policy.CanGrant(tt.caller, req))
		})
	}
}

func TestAccessRequestStatusHelpers(t *testing.T) {
	pending := models.AccessRequest{Status: models.AccessStatusPending}
	granted := models.AccessRequest{Status: models.AccessStatusGranted}
	denied := models.AccessRequest{Status: models.AccessStatusDenied}

	assert.True(t, pending.IsPending())
	assert.True(t, pending.Active())
	assert.False(t, pending.IsGranted())

	assert.True(t, granted.IsGranted())
	assert.True(t, granted.Active())
	assert.False(t, granted.IsPending())

	assert.False(t, denied.IsPending())
	assert.False(t, denied.IsGranted())
	assert.False(t, denied.Active())
}

func TestAccessServiceConfigured(t *testing.T) {
	t.Run("nil db is not configured", func(t *testing.T) {
		svc := &AccessService{Email: NewEmailService("key", "", "")}
		assert.False(t, svc.Configured())
	})

	t.Run("missing email key is not configured", func(t *testing.T) {
		svc := NewAccessService(nil, NewEmailService("", "", ""), nil)
		assert.False(t, svc.Configured())
	})
}

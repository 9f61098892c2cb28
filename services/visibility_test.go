package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byggbroker/quote-api/models"
)

func testQuote(id, uploaderID string) models.Quote {
	return models.Quote{
		ID:             id,
		ProjectID:      "project-1",
		UserID:         uploaderID,
		ContractorType: "El",
		Amount:         125000,
		FilePath:       "project-1/170000_offer.pdf",
		FileName:       "offer.pdf",
		UploaderEmail:  "uploader@example.com",
		CreatedAt:      time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestBuildQuoteViews_RestrictedByDefault(t *testing.T) {
	quotes := []models.Quote{testQuote("q1", "uploader-1")}

	views := BuildQuoteViews(quotes, "viewer-1", false, nil, nil)

	require.Len(t, views, 1)
	view := views[0]
	assert.False(t, view.FullDetail)
	assert.Zero(t, view.Amount)
	assert.Empty(t, view.FileName)
	assert.Empty(t, view.UploaderEmail)
	assert.False(t, view.CanDownload)
	assert.False(t, view.CanDelete)
	assert.True(t, view.CanRequestAccess)
	assert.False(t, view.AlreadyRequested)
	assert.Equal(t, "El", view.ContractorType)
	assert.False(t, view.CreatedAt.IsZero())
}

func TestBuildQuoteViews_UploaderAlwaysSeesFullDetail(t *testing.T) {
	quotes := []models.Quote{testQuote("q1", "uploader-1")}

	// Regardless of any request state, including one of the uploader's
	// own rows showing up in the request sets.
	myRequests := []models.AccessRequest{
		{ID: "r1", QuoteID: "q1", RequesterUserID: "uploader-1", Status: models.AccessStatusPending},
	}

	views := BuildQuoteViews(quotes, "uploader-1", false, myRequests, nil)

	require.Len(t, views, 1)
	view := views[0]
	assert.True(t, view.FullDetail)
	assert.True(t, view.IsOwner)
	assert.True(t, view.CanDelete)
	assert.True(t, view.CanDownload)
	assert.Equal(t, 125000.0, view.Amount)
	assert.False(t, view.CanRequestAccess)
}

func TestBuildQuoteViews_UploaderSeesPendingRequests(t *testing.T) {
	quotes := []models.Quote{testQuote("q1", "uploader-1"), testQuote("q2", "uploader-1")}

	requestsForMine := []models.AccessRequest{
		{ID: "r1", QuoteID: "q1", RequesterUserID: "viewer-2", UploaderUserID: "uploader-1", Status: models.AccessStatusPending},
		{ID: "r2", QuoteID: "q1", RequesterUserID: "viewer-3", UploaderUserID: "uploader-1", Status: models.AccessStatusGranted},
		{ID: "r3", QuoteID: "q2", RequesterUserID: "viewer-2", UploaderUserID: "uploader-1", Status: models.AccessStatusPending},
	}

	views := BuildQuoteViews(quotes, "uploader-1", false, nil, requestsForMine)

	require.Len(t, views, 2)
	require.Len(t, views[0].PendingRequests, 1)
	assert.Equal(t, "r1", views[0].PendingRequests[0].ID)
	require.Len(t, views[1].PendingRequests, 1)
	assert.Equal(t, "r3", views[1].PendingRequests[0].ID)
}

func TestBuildQuoteViews_AdminSeesFullDetailWithoutRequestManagement(t *testing.T) {
	quotes := []models.Quote{testQuote("q1", "uploader-1")}

	requestsForMine := []models.AccessRequest{
		{ID: "r1", QuoteID: "q1", RequesterUserID: "viewer-2", Status: models.AccessStatusPending},
	}

	views := BuildQuoteViews(quotes, "admin-1", true, nil, requestsForMine)

	require.Len(t, views, 1)
	view := views[0]
	assert.True(t, view.FullDetail)
	assert.True(t, view.CanDelete)
	assert.False(t, view.IsOwner)
	assert.Empty(t, view.PendingRequests)
}

func TestBuildQuoteViews_GrantedRequesterSeesFullDetailWithoutDelete(t *testing.T) {
	quotes := []models.Quote{testQuote("q1", "uploader-1")}

	myRequests := []models.AccessRequest{
		{ID: "r1", QuoteID: "q1", RequesterUserID: "viewer-1", Status: models.AccessStatusGranted},
	}

	views := BuildQuoteViews(quotes, "viewer-1", false, myRequests, nil)

	require.Len(t, views, 1)
	view := views[0]
	assert.True(t, view.FullDetail)
	assert.True(t, view.CanDownload)
	assert.False(t, view.CanDelete)
	assert.False(t, view.CanRequestAccess)
}

func TestBuildQuoteViews_PendingRequesterSeesAlreadyRequested(t *testing.T) {
	quotes := []models.Quote{testQuote("q1", "uploader-1")}

	myRequests := []models.AccessRequest{
		{ID: "r1", QuoteID: "q1", RequesterUserID: "viewer-1", Status: models.AccessStatusPending},
	}

	views := BuildQuoteViews(quotes, "viewer-1", false, myRequests, nil)

	require.Len(t, views, 1)
	view := views[0]
	assert.False(t, view.FullDetail)
	assert.True(t, view.AlreadyRequested)
	assert.False(t, view.CanRequestAccess)
}

func TestBuildQuoteViews_RequestsForOtherQuotesDoNotLeak(t *testing.T) {
	quotes := []models.Quote{testQuote("q1", "uploader-1")}

	// Granted for a different quote, denied for this one.
	myRequests := []models.AccessRequest{
		{ID: "r1", QuoteID: "q2", RequesterUserID: "viewer-1", Status: models.AccessStatusGranted},
		{ID: "r2", QuoteID: "q1", RequesterUserID: "viewer-1", Status: models.AccessStatusDenied},
	}

	views := BuildQuoteViews(quotes, "viewer-1", false, myRequests, nil)

	require.Len(t, views, 1)
	view := views[0]
	assert.False(t, view.FullDetail)
	assert.True(t, view.CanRequestAccess, "a denied request should not block a new one")
}

func TestBuildQuoteViews_EmptyInput(t *testing.T) {
	views := BuildQuoteViews(nil, "viewer-1", false, nil, nil)
	assert.Empty(t, views)
	assert.NotNil(t, views)
}

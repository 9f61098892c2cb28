package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/byggbroker/quote-api/middleware"
	"github.com/byggbroker/quote-api/models"
	"github.com/byggbroker/quote-api/services"
	"github.com/byggbroker/quote-api/utils"
)

const maxQuoteFileSize = 5 * 1024 * 1024 // 5MB

// QuoteStorage is the slice of the storage service the quote handler
// uses.
type QuoteStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, error)
	Remove(ctx context.Context, key string)
}

type QuoteHandler struct {
	DB      *sql.DB
	Storage QuoteStorage
	Events  services.Broadcaster
}

// UploadQuote accepts a multipart form with the quote metadata and a PDF
// file. The file goes to object storage first; if the metadata insert
// fails afterwards the object is removed again.
func (h *QuoteHandler) UploadQuote(c *gin.Context) {
	userID := middleware.GetUserID(c)
	projectID := c.Param("id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var projectExists bool
	err := h.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM projects WHERE id = $1)`, projectID).Scan(&projectExists)
	if err != nil || !projectExists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	contractorType := c.PostForm("contractor_type")
	if contractorType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Contractor type is required"})
		return
	}

	amount, err := strconv.ParseFloat(c.PostForm("amount"), 64)
	if err != nil || amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be a number greater than 0"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A quote file is required"})
		return
	}
	if fileHeader.Size > maxQuoteFileSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File may be at most 5MB"})
		return
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF files are allowed"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}

	filePath := fmt.Sprintf("%s/%d_%s", projectID, time.Now().UnixMilli(),
		utils.SanitizeFileName(fileHeader.Filename))

	ctx := c.Request.Context()
	if err := h.Storage.Upload(ctx, filePath, data, "application/pdf"); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store quote file"})
		return
	}

	var quoteID string
	err = h.DB.QueryRow(`
		INSERT INTO quotes (project_id, user_id, contractor_type, amount, file_path, file_name,
			company_name, phone_number, email)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''))
		RETURNING id
	`, projectID, userID, contractorType, amount, filePath, fileHeader.Filename,
		c.PostForm("company_name"), c.PostForm("phone_number"), c.PostForm("email")).Scan(&quoteID)

	if err != nil {
		h.Storage.Remove(ctx, filePath)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save quote"})
		return
	}

	if h.Events != nil {
		h.Events.BroadcastProjectEvent(projectID, "quote_uploaded", userID)
	}

	c.JSON(http.StatusCreated, gin.H{"id": quoteID, "message": "Quote uploaded successfully"})
}

// ListQuotes returns the project's quotes filtered through the
// visibility gate: full detail for uploaders, admins and granted
// requesters, a restricted summary for everyone else.
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	userID := middleware.GetUserID(c)
	projectID := c.Param("id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var projectExists bool
	err := h.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM projects WHERE id = $1)`, projectID).Scan(&projectExists)
	if err != nil || !projectExists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	quotes, err := h.fetchQuotes(projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch quotes"})
		return
	}

	myRequests, err := h.fetchMyRequests(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch access requests"})
		return
	}

	requestsForMine, err := h.fetchRequestsForUploader(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch access requests"})
		return
	}

	views := services.BuildQuoteViews(quotes, userID, isAdmin(h.DB, userID), myRequests, requestsForMine)
	c.JSON(http.StatusOK, views)
}

func (h *QuoteHandler) fetchQuotes(projectID string) ([]models.Quote, error) {
	rows, err := h.DB.Query(`
		SELECT q.id, q.project_id, q.user_id, q.contractor_type, q.amount,
		       q.file_path, q.file_name, COALESCE(q.company_name, ''),
		       COALESCE(q.phone_number, ''), COALESCE(u.email, ''),
		       q.created_at, q.updated_at
		FROM quotes q
		LEFT JOIN users u ON q.user_id = u.id
		WHERE q.project_id = $1
		ORDER BY q.created_at DESC
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	quotes := []models.Quote{}
	for rows.Next() {
		var q models.Quote
		if err := rows.Scan(&q.ID, &q.ProjectID, &q.UserID, &q.ContractorType, &q.Amount,
			&q.FilePath, &q.FileName, &q.CompanyName, &q.PhoneNumber, &q.UploaderEmail,
			&q.CreatedAt, &q.UpdatedAt); err != nil {
			continue
		}
		quotes = append(quotes, q)
	}
	return quotes, rows.Err()
}

func (h *QuoteHandler) fetchMyRequests(userID string) ([]models.AccessRequest, error) {
	rows, err := h.DB.Query(`
		SELECT id, quote_id, requester_user_id, uploader_user_id, status, created_at
		FROM quote_access_requests
		WHERE requester_user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []models.AccessRequest{}
	for rows.Next() {
		var r models.AccessRequest
		if err := rows.Scan(&r.ID, &r.QuoteID, &r.RequesterUserID, &r.UploaderUserID,
			&r.Status, &r.CreatedAt); err != nil {
			continue
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

func (h *QuoteHandler) fetchRequestsForUploader(userID string) ([]models.AccessRequest, error) {
	rows, err := h.DB.Query(`
		SELECT r.id, r.quote_id, r.requester_user_id, r.uploader_user_id, r.status,
		       COALESCE(u.email, ''), r.created_at
		FROM quote_access_requests r
		LEFT JOIN users u ON r.requester_user_id = u.id
		WHERE r.uploader_user_id = $1 AND r.status = 'pending'
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []models.AccessRequest{}
	for rows.Next() {
		var r models.AccessRequest
		if err := rows.Scan(&r.ID, &r.QuoteID, &r.RequesterUserID, &r.UploaderUserID,
			&r.Status, &r.RequesterEmail, &r.CreatedAt); err != nil {
			continue
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

// DownloadQuote streams the quote's file to viewers the gate allows:
// the uploader, an admin, or a requester with a granted request.
func (h *QuoteHandler) DownloadQuote(c *gin.Context) {
	userID := middleware.GetUserID(c)
	quoteID := c.Param("id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var uploaderID, filePath, fileName string
	err := h.DB.QueryRow(`
		SELECT user_id, file_path, file_name FROM quotes WHERE id = $1
	`, quoteID).Scan(&uploaderID, &filePath, &fileName)

	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Quote not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch quote"})
		return
	}

	if uploaderID != userID && !isAdmin(h.DB, userID) {
		var granted bool
		err = h.DB.QueryRow(`
			SELECT EXISTS(
				SELECT 1 FROM quote_access_requests
				WHERE quote_id = $1 AND requester_user_id = $2 AND status = 'granted'
			)
		`, quoteID, userID).Scan(&granted)
		if err != nil || !granted {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
	}

	data, err := h.Storage.Download(c.Request.Context(), filePath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to download quote file"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	c.Data(http.StatusOK, "application/pdf", data)
}

// DeleteQuote removes a quote. The database row is deleted first (access
// requests cascade with it); the file removal is best-effort.
func (h *QuoteHandler) DeleteQuote(c *gin.Context) {
	userID := middleware.GetUserID(c)
	quoteID := c.Param("id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var uploaderID, filePath string
	err := h.DB.QueryRow(`SELECT user_id, file_path FROM quotes WHERE id = $1`, quoteID).Scan(&uploaderID, &filePath)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Quote not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch quote"})
		return
	}

	if uploaderID != userID && !isAdmin(h.DB, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to delete this quote"})
		return
	}

	if _, err := h.DB.Exec(`DELETE FROM quotes WHERE id = $1`, quoteID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete quote"})
		return
	}

	h.Storage.Remove(c.Request.Context(), filePath)

	c.JSON(http.StatusOK, gin.H{"message": "Quote deleted successfully"})
}

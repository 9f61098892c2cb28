package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"

	"github.com/byggbroker/quote-api/middleware"
	"github.com/byggbroker/quote-api/models"
)

type AdminHandler struct {
	DB *sql.DB
}

// RegisterEmail adds a contractor email to the outreach registry used
// when new projects go out to tender. Admin only.
func (h *AdminHandler) RegisterEmail(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if !isAdmin(h.DB, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Administrator access required"})
		return
	}

	var req models.RegisterEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidCompanyType(req.CompanyType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid company type"})
		return
	}
	if !models.ValidContractorType(req.ContractorType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contractor type"})
		return
	}

	var id string
	err := h.DB.QueryRow(`
		INSERT INTO registered_emails (email, city, company_type, contractor_type)
		VALUES ($1, NULLIF($2, ''), $3, $4)
		RETURNING id
	`, req.Email, req.City, req.CompanyType, req.ContractorType).Scan(&id)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			c.JSON(http.StatusConflict, gin.H{"error": "Email is already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register email"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id, "message": "Email registered successfully"})
}

// GetRegisteredEmails lists the registry, newest first. Admin only.
func (h *AdminHandler) GetRegisteredEmails(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if !isAdmin(h.DB, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Administrator access required"})
		return
	}

	rows, err := h.DB.Query(`
		SELECT id, email, COALESCE(city, ''), company_type, contractor_type, created_at, updated_at
		FROM registered_emails
		ORDER BY created_at DESC
	`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch registered emails"})
		return
	}
	defer rows.Close()

	emails := []models.RegisteredEmail{}
	for rows.Next() {
		var e models.RegisteredEmail
		if err := rows.Scan(&e.ID, &e.Email, &e.City, &e.CompanyType, &e.ContractorType,
			&e.CreatedAt, &e.UpdatedAt); err != nil {
			continue
		}
		emails = append(emails, e)
	}

	c.JSON(http.StatusOK, emails)
}

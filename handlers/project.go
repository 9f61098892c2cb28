package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/byggbroker/quote-api/middleware"
	"github.com/byggbroker/quote-api/models"
)

type ProjectHandler struct {
	DB *sql.DB
}

func isAdmin(db *sql.DB, userID string) bool {
	var admin bool
	if err := db.QueryRow(`SELECT is_admin FROM users WHERE id = $1`, userID).Scan(&admin); err != nil {
		return false
	}
	return admin
}

// CreateProject creates a project. Only administrators publish projects
// on the platform.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if !isAdmin(h.DB, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only administrators can create projects"})
		return
	}

	var req models.ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidProjectStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project status"})
		return
	}

	var projectID string
	err := h.DB.QueryRow(`
		INSERT INTO projects (title, description, category, status, area, client_category,
			main_contractor, gross_floor_area, building_area, num_apartments, num_floors,
			num_buildings, environmental_class, start_date, completion_date,
			tender_document_url, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, 0), NULLIF($9, 0), NULLIF($10, 0),
			NULLIF($11, 0), NULLIF($12, 0), $13, $14, $15, $16, $17)
		RETURNING id
	`, req.Title, req.Description, req.Category, req.Status, req.Area, req.ClientCategory,
		req.MainContractor, req.GrossFloorArea, req.BuildingArea, req.NumApartments,
		req.NumFloors, req.NumBuildings, req.EnvironmentalClass, req.StartDate,
		req.CompletionDate, req.TenderDocumentURL, userID).Scan(&projectID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": projectID, "message": "Project created successfully"})
}

// GetProjects lists all projects, newest first.
func (h *ProjectHandler) GetProjects(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rows, err := h.DB.Query(`
		SELECT id, title, COALESCE(description, ''), COALESCE(category, ''), status,
		       COALESCE(created_by::text, ''), created_at, updated_at
		FROM projects
		ORDER BY created_at DESC
	`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch projects"})
		return
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Category, &p.Status,
			&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
			continue
		}
		projects = append(projects, p)
	}

	c.JSON(http.StatusOK, projects)
}

// GetProject returns a single project with all its fields.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	userID := middleware.GetUserID(c)
	projectID := c.Param("id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var p models.Project
	var grossFloorArea, buildingArea sql.NullFloat64
	var numApartments, numFloors, numBuildings sql.NullInt64
	var area, clientCategory, mainContractor, environmentalClass, tenderDocumentURL sql.NullString
	err := h.DB.QueryRow(`
		SELECT id, title, COALESCE(description, ''), COALESCE(category, ''), status,
		       area, client_category, main_contractor, gross_floor_area, building_area,
		       num_apartments, num_floors, num_buildings, environmental_class,
		       start_date, completion_date, tender_document_url,
		       COALESCE(created_by::text, ''), created_at, updated_at
		FROM projects
		WHERE id = $1
	`, projectID).Scan(&p.ID, &p.Title, &p.Description, &p.Category, &p.Status,
		&area, &clientCategory, &mainContractor, &grossFloorArea, &buildingArea,
		&numApartments, &numFloors, &numBuildings, &environmentalClass,
		&p.StartDate, &p.CompletionDate, &tenderDocumentURL,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)

	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch project"})
		return
	}

	p.Area = area.String
	p.ClientCategory = clientCategory.String
	p.MainContractor = mainContractor.String
	p.EnvironmentalClass = environmentalClass.String
	p.TenderDocumentURL = tenderDocumentURL.String
	p.GrossFloorArea = grossFloorArea.Float64
	p.BuildingArea = buildingArea.Float64
	p.NumApartments = int(numApartments.Int64)
	p.NumFloors = int(numFloors.Int64)
	p.NumBuildings = int(numBuildings.Int64)

	c.JSON(http.StatusOK, p)
}

// UpdateProject replaces a project's editable fields. Admin only.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	userID := middleware.GetUserID(c)
	projectID := c.Param("id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if !isAdmin(h.DB, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only administrators can edit projects"})
		return
	}

	var req models.ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidProjectStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project status"})
		return
	}

	result, err := h.DB.Exec(`
		UPDATE projects
		SET title = $1, description = $2, category = $3, status = $4, area = $5,
		    client_category = $6, main_contractor = $7, gross_floor_area = NULLIF($8, 0),
		    building_area = NULLIF($9, 0), num_apartments = NULLIF($10, 0),
		    num_floors = NULLIF($11, 0), num_buildings = NULLIF($12, 0),
		    environmental_class = $13, start_date = $14, completion_date = $15,
		    tender_document_url = $16, updated_at = NOW()
		WHERE id = $17
	`, req.Title, req.Description, req.Category, req.Status, req.Area, req.ClientCategory,
		req.MainContractor, req.GrossFloorArea, req.BuildingArea, req.NumApartments,
		req.NumFloors, req.NumBuildings, req.EnvironmentalClass, req.StartDate,
		req.CompletionDate, req.TenderDocumentURL, projectID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project updated successfully"})
}

// DeleteProject removes a project and, through cascades, its quotes and
// access requests. Admin only.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	userID := middleware.GetUserID(c)
	projectID := c.Param("id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if !isAdmin(h.DB, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only administrators can delete projects"})
		return
	}

	result, err := h.DB.Exec(`DELETE FROM projects WHERE id = $1`, projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

package models

import "time"

// Project statuses follow the Swedish labels the platform has always used.
var ProjectStatuses = []string{"Planering", "Pågående", "Färdigställt"}

var ClientCategories = []string{"Offentlig", "Privat"}

type Project struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description,omitempty"`
	Category           string     `json:"category,omitempty"`
	Status             string     `json:"status"`
	Area               string     `json:"area,omitempty"`
	ClientCategory     string     `json:"client_category,omitempty"`
	MainContractor     string     `json:"main_contractor,omitempty"`
	GrossFloorArea     float64    `json:"gross_floor_area,omitempty"`
	BuildingArea       float64    `json:"building_area,omitempty"`
	NumApartments      int        `json:"num_apartments,omitempty"`
	NumFloors          int        `json:"num_floors,omitempty"`
	NumBuildings       int        `json:"num_buildings,omitempty"`
	EnvironmentalClass string     `json:"environmental_class,omitempty"`
	StartDate          *time.Time `json:"start_date,omitempty"`
	CompletionDate     *time.Time `json:"completion_date,omitempty"`
	TenderDocumentURL  string     `json:"tender_document_url,omitempty"`
	CreatedBy          string     `json:"created_by,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type ProjectRequest struct {
	Title              string     `json:"title" binding:"required,min=3,max=100"`
	Description        string     `json:"description" binding:"max=500"`
	Category           string     `json:"category" binding:"max=50"`
	Status             string     `json:"status" binding:"required"`
	Area               string     `json:"area" binding:"max=100"`
	ClientCategory     string     `json:"client_category"`
	MainContractor     string     `json:"main_contractor" binding:"max=100"`
	GrossFloorArea     float64    `json:"gross_floor_area" binding:"omitempty,gt=0"`
	BuildingArea       float64    `json:"building_area" binding:"omitempty,gt=0"`
	NumApartments      int        `json:"num_apartments" binding:"omitempty,gt=0"`
	NumFloors          int        `json:"num_floors" binding:"omitempty,gt=0"`
	NumBuildings       int        `json:"num_buildings" binding:"omitempty,gt=0"`
	EnvironmentalClass string     `json:"environmental_class" binding:"max=50"`
	StartDate          *time.Time `json:"start_date"`
	CompletionDate     *time.Time `json:"completion_date"`
	TenderDocumentURL  string     `json:"tender_document_url" binding:"omitempty,url"`
}

func ValidProjectStatus(status string) bool {
	for _, s := range ProjectStatuses {
		if s == status {
			return true
		}
	}
	return false
}

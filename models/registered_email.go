package models

import "time"

var CompanyTypes = []string{"Underentreprenör", "Totalentreprenör", "Beställare"}

type RegisteredEmail struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	City           string    `json:"city,omitempty"`
	CompanyType    string    `json:"company_type"`
	ContractorType string    `json:"contractor_type"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type RegisterEmailRequest struct {
	Email          string `json:"email" binding:"required,email"`
	City           string `json:"city"`
	CompanyType    string `json:"company_type" binding:"required"`
	ContractorType string `json:"contractor_type" binding:"required"`
}

func ValidCompanyType(t string) bool {
	for _, ct := range CompanyTypes {
		if ct == t {
			return true
		}
	}
	return false
}

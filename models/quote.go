package models

import "time"

type Quote struct {
	ID             string    `json:"id"`
	ProjectID      string    `json:"project_id"`
	UserID         string    `json:"user_id"`
	ContractorType string    `json:"contractor_type"`
	Amount         float64   `json:"amount"`
	FilePath       string    `json:"file_path"`
	FileName       string    `json:"file_name"`
	CompanyName    string    `json:"company_name,omitempty"`
	PhoneNumber    string    `json:"phone_number,omitempty"`
	Email          string    `json:"email,omitempty"`
	UploaderEmail  string    `json:"uploader_email,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ContractorTypes is the trade category list quotes are filed under.
var ContractorTypes = []string{
	"Avfallshantering",
	"Betong",
	"Brandtätning & brandskydd",
	"El",
	"Golv",
	"Hiss",
	"Kök",
	"Kran",
	"Lås",
	"Mark",
	"Måleri",
	"Mur & Puts",
	"Plåt",
	"Rivning & sanering",
	"Bygg",
	"Solceller",
	"Städning",
	"Stommontering",
	"Ställning",
	"Styr",
	"Tak",
	"Ventilation",
	"VS",
	"Övrigt",
}

func ValidContractorType(t string) bool {
	for _, ct := range ContractorTypes {
		if ct == t {
			return true
		}
	}
	return false
}

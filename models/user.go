package models

import "time"

type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	CompanyName   string    `json:"company_name,omitempty"`
	PasswordHash  string    `json:"-"` // Never expose in JSON
	IsAdmin       bool      `json:"is_admin"`
	TOTPSecret    string    `json:"-"` // Never expose in JSON
	TOTPEnabled   bool      `json:"totp_enabled"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type SignupRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	Name        string `json:"name" binding:"required"`
	CompanyName string `json:"company_name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	TOTPCode string `json:"totp_code,omitempty"`
}

type AuthResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type UpdateProfileRequest struct {
	Name        string `json:"name"`
	CompanyName string `json:"company_name"`
}

type VerifyTOTPRequest struct {
	Code string `json:"code" binding:"required,len=6"`
}

package dto

import (
	"time"

	"github.com/google/uuid"
)

// SignupRequest carries the self-service signup payload. Metadata is
// the loosely-typed bag the provisioner normalizes (role, names in
// snake_case or camelCase, specialty, license_number, phone).
type SignupRequest struct {
	Email    string                 `json:"email"`
	Password string                 `json:"password"`
	Metadata map[string]interface{} `json:"metadata"`
}

// AdminCreateUserRequest is the privileged create path. Shape matches
// SignupRequest; it exists so the two surfaces can diverge.
type AdminCreateUserRequest struct {
	Email    string                 `json:"email"`
	Password string                 `json:"password"`
	Metadata map[string]interface{} `json:"metadata"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Provisioned bool      `json:"provisioned"`
}

type DeleteAccountRequest struct {
	Password string `json:"password"`
}

// ProvisioningStatusResponse lets clients poll instead of sleeping a
// fixed interval after signup.
type ProvisioningStatusResponse struct {
	UserID      uuid.UUID  `json:"user_id"`
	Provisioned bool       `json:"provisioned"`
	Pending     bool       `json:"pending"`
	Stage       string     `json:"stage,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
	Attempts    int        `json:"attempts,omitempty"`
	NextRetryAt *time.Time `json:"next_retry_at,omitempty"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status         string `json:"status"`
	Timestamp      string `json:"timestamp"`
	DB             string `json:"db"`
	TreatmentCount int    `json:"treatment_count"`
}

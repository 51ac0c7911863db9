package account

import "time"

type RegisterInput struct {
	Code            string
	Email           string
	FirstName       string
	LastName        string
	Program         string
	SignatureURL    string // printed on loan contracts
	Role            string // student | professor
	Password        string
	PasswordConfirm string
}

type UserDTO struct {
	UserID     string `json:"user_id"`
	Code       string `json:"code"`
	Email      string `json:"email"`
	FullName   string `json:"full_name"`
	Program    string `json:"program,omitempty"`
	Role       string `json:"role"`
	Department string `json:"department_id,omitempty"`
}

type SessionDTO struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserDTO   `json:"user"`
}

package domain

import (
	"regexp"
	"strings"
	"time"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Phone        *string   `json:"phone"`
	Address      *string   `json:"address"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Valid user roles
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

// AuthResponse is returned by register and login. The user payload
// never carries the password hash.
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func (r *RegisterRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Name = strings.TrimSpace(r.Name)
}

func (r *RegisterRequest) Validate() error {
	if len(strings.TrimSpace(r.Name)) < 2 {
		return Validationf("Le nom doit contenir au moins 2 caractères")
	}
	if !emailRegex.MatchString(r.Email) {
		return Validationf("Email invalide")
	}
	if len(r.Password) < 6 {
		return Validationf("Le mot de passe doit contenir au moins 6 caractères")
	}
	if r.Password != r.ConfirmPassword {
		return Validationf("Les mots de passe ne correspondent pas")
	}
	return nil
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *LoginRequest) Validate() error {
	if !emailRegex.MatchString(r.Email) {
		return Validationf("Email invalide")
	}
	if len(r.Password) < 6 {
		return Validationf("Le mot de passe doit contenir au moins 6 caractères")
	}
	return nil
}

func (r *UpdateProfileRequest) Validate() error {
	if r.Name != nil && len(strings.TrimSpace(*r.Name)) < 2 {
		return Validationf("Le nom doit contenir au moins 2 caractères")
	}
	if r.Email != nil && !emailRegex.MatchString(strings.ToLower(*r.Email)) {
		return Validationf("Email invalide")
	}
	return nil
}

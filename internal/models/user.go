package models

import (
	"strings"
	"time"
)

// Permission roles. Only these four exist; Employee.Role is a separate free-text job title.
const (
	RoleAdmin      = "Admin"
	RoleManager    = "Manager"
	RoleSupervisor = "Supervisor"
	RoleWorker     = "Worker"
)

var Roles = []string{RoleAdmin, RoleManager, RoleSupervisor, RoleWorker}

// NormalizeRole maps any casing of a known role to its canonical form.
func NormalizeRole(role string) (string, bool) {
	for _, r := range Roles {
		if strings.EqualFold(strings.TrimSpace(role), r) {
			return r, true
		}
	}
	return "", false
}

type User struct {
	ID           int       `json:"_id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	TOTPSecret   string    `json:"-"`
	TOTPEnabled  bool      `json:"totpEnabled"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Ref is the short form embedded in other resources.
func (u *User) Ref() *UserRef {
	return &UserRef{ID: u.ID, Username: u.Username, Role: u.Role}
}

type UserRef struct {
	ID       int    `json:"_id"`
	Username string `json:"username"`
	Role     string `json:"role,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"` // portal the client logged in through
	OTP      string `json:"otp,omitempty"`
}

type AuthResponse struct {
	ID       int      `json:"_id"`
	Token    string   `json:"token"`
	Role     string   `json:"role"`
	Username string   `json:"username"`
	User     *UserRef `json:"user"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

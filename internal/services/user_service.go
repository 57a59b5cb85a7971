package services

import (
	"context"
	"errors"
	"strings"

	"sadhna-backend/internal/auth"
	"sadhna-backend/internal/models"
	"sadhna-backend/internal/repositories"
)

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	Get(ctx context.Context, id int) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	UpdateRole(ctx context.Context, id int, role string) error
}

type TokenIssuer interface {
	GenerateToken(user *models.User) (string, error)
}

// CodeVerifier checks a second-factor code during login.
type CodeVerifier interface {
	Verify(ctx context.Context, userID int, code, ipAddress string) (bool, error)
}

type UserService struct {
	Repo       UserStore
	JWTManager TokenIssuer
	TOTP       CodeVerifier
}

func NewUserService(repo UserStore, jwtManager TokenIssuer, totp CodeVerifier) *UserService {
	return &UserService{
		Repo:       repo,
		JWTManager: jwtManager,
		TOTP:       totp,
	}
}

// Login checks credentials, the portal the client used and, when enabled,
// the TOTP code.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest, ipAddress string) (*models.AuthResponse, error) {
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return nil, validation("Please provide all required fields")
	}

	user, err := s.Repo.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, validation("Invalid credentials")
		}
		return nil, err
	}
	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, validation("Invalid credentials")
	}

	if portal, ok := models.NormalizeRole(req.Role); ok {
		if portal == models.RoleAdmin && user.Role != models.RoleAdmin {
			return nil, forbidden("Access denied. Admin credentials required.")
		}
		if portal != models.RoleAdmin && user.Role == models.RoleAdmin {
			return nil, forbidden("Please use admin login for admin accounts.")
		}
	}

	if user.TOTPEnabled {
		if req.OTP == "" {
			return nil, unauthorized("Verification code required")
		}
		if s.TOTP == nil {
			return nil, errors.New("2FA enabled but no verifier configured")
		}
		if _, err := s.TOTP.Verify(ctx, user.ID, req.OTP, ipAddress); err != nil {
			return nil, err
		}
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		ID:       user.ID,
		Token:    token,
		Role:     user.Role,
		Username: user.Username,
		User:     user.Ref(),
	}, nil
}

// Register creates a login. Only admins reach this.
func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, validation("Please provide all required fields")
	}
	role := models.RoleWorker
	if req.Role != "" {
		r, ok := models.NormalizeRole(req.Role)
		if !ok {
			return nil, validation("Invalid role")
		}
		role = r
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	u := &models.User{Username: username, PasswordHash: hash, Role: role}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, validation("Username already exists. Please choose another username.")
		}
		return nil, err
	}
	return u, nil
}

func (s *UserService) GetUser(ctx context.Context, id int) (*models.User, error) {
	u, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "User not found")
	}
	return u, nil
}

// ListUsers returns all users
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.Repo.List(ctx)
}

func (s *UserService) UpdateRole(ctx context.Context, id int, role string) (*models.User, error) {
	r, ok := models.NormalizeRole(role)
	if !ok {
		return nil, validation("Invalid role")
	}
	if err := s.Repo.UpdateRole(ctx, id, r); err != nil {
		return nil, notFoundOr(err, "User not found")
	}
	return s.GetUser(ctx, id)
}

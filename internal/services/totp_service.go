package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"image/png"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"sadhna-backend/internal/logger"
	"sadhna-backend/internal/models"
)

const (
	maxFailedAttempts = 5
	rateLimitWindow   = 15 * time.Minute
)

type TOTPUserStore interface {
	Get(ctx context.Context, id int) (*models.User, error)
	SetTOTPSecret(ctx context.Context, userID int, secret string) error
	EnableTOTP(ctx context.Context, userID int) error
	DisableTOTP(ctx context.Context, userID int) error
}

type AttemptLog interface {
	Record(ctx context.Context, a *models.TwoFactorAttempt) error
	FailuresSince(ctx context.Context, userID int, since time.Time) (int, error)
}

type TOTPService struct {
	users    TOTPUserStore
	attempts AttemptLog
	issuer   string
}

func NewTOTPService(users TOTPUserStore, attempts AttemptLog, issuer string) *TOTPService {
	if issuer == "" {
		issuer = "Sadhna Construction"
	}
	return &TOTPService{
		users:    users,
		attempts: attempts,
		issuer:   issuer,
	}
}

// Setup creates a new TOTP secret and QR code for a user. 2FA stays off
// until Enable confirms a code.
func (s *TOTPService) Setup(ctx context.Context, user *models.User) (*models.TOTPSetupResponse, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuer,
		AccountName: user.Username,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return nil, err
	}

	if err := s.users.SetTOTPSecret(ctx, user.ID, key.Secret()); err != nil {
		return nil, err
	}

	qrImage, err := key.Image(200, 200)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, qrImage); err != nil {
		return nil, err
	}

	return &models.TOTPSetupResponse{
		Secret:      key.Secret(),
		URL:         key.URL(),
		QRCode:      "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
		Issuer:      s.issuer,
		AccountName: user.Username,
	}, nil
}

// Enable verifies a code against the pending secret and turns 2FA on.
func (s *TOTPService) Enable(ctx context.Context, userID int, code, ipAddress string) error {
	if err := s.checkRateLimit(ctx, userID); err != nil {
		return err
	}
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return notFoundOr(err, "User not found")
	}
	if user.TOTPSecret == "" {
		return ErrNoTOTPSecret
	}
	if !s.check(ctx, userID, code, user.TOTPSecret, ipAddress) {
		return ErrInvalidTOTPCode
	}
	return s.users.EnableTOTP(ctx, userID)
}

// Verify validates a code during login.
func (s *TOTPService) Verify(ctx context.Context, userID int, code, ipAddress string) (bool, error) {
	if err := s.checkRateLimit(ctx, userID); err != nil {
		return false, err
	}
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return false, notFoundOr(err, "User not found")
	}
	if !user.TOTPEnabled || user.TOTPSecret == "" {
		return false, ErrTOTPNotEnabled
	}
	if !s.check(ctx, userID, code, user.TOTPSecret, ipAddress) {
		return false, ErrInvalidTOTPCode
	}
	return true, nil
}

// Disable turns 2FA off after checking a current code.
func (s *TOTPService) Disable(ctx context.Context, userID int, code, ipAddress string) error {
	if _, err := s.Verify(ctx, userID, code, ipAddress); err != nil {
		return err
	}
	return s.users.DisableTOTP(ctx, userID)
}

func (s *TOTPService) check(ctx context.Context, userID int, code, secret, ipAddress string) bool {
	ok := totp.Validate(code, secret)
	attempt := &models.TwoFactorAttempt{UserID: userID, IPAddress: ipAddress, Success: ok}
	if err := s.attempts.Record(ctx, attempt); err != nil {
		logger.FromContext(ctx).WithError(err).Warn("could not record 2FA attempt")
	}
	return ok
}

func (s *TOTPService) checkRateLimit(ctx context.Context, userID int) error {
	failed, err := s.attempts.FailuresSince(ctx, userID, time.Now().Add(-rateLimitWindow))
	if err != nil {
		return err
	}
	if failed >= maxFailedAttempts {
		return ErrTooManyAttempts
	}
	return nil
}

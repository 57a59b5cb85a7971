package models

import "time"

// TOTPSetupResponse is returned when a user starts 2FA enrolment
type TOTPSetupResponse struct {
	Secret      string `json:"secret"`
	URL         string `json:"otpauthUrl"`
	QRCode      string `json:"qrCode"` // data URL, PNG
	Issuer      string `json:"issuer"`
	AccountName string `json:"accountName"`
}

type TOTPCodeRequest struct {
	Code string `json:"code"`
}

// TwoFactorAttempt is one code check, kept briefly for lockout counting.
type TwoFactorAttempt struct {
	ID          int       `json:"id"`
	UserID      int       `json:"userId"`
	IPAddress   string    `json:"ipAddress"`
	Success     bool      `json:"success"`
	AttemptedAt time.Time `json:"attemptedAt"`
}

package security

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"net/url"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	totpPeriod     = 30
	totpSkew       = 1 // accept the previous and next 30-second window
	totpSecretSize = 20
	qrImageSize    = 256
)

// TOTPService provisions and verifies time-based one-time-password secrets.
type TOTPService struct {
	issuer string
}

// NewTOTPService creates a TOTPService with the given issuer name.
func NewTOTPService(issuer string) *TOTPService {
	if issuer == "" {
		issuer = "EventApp"
	}
	return &TOTPService{issuer: issuer}
}

// label builds the account label shown in authenticator apps, e.g.
// "EventApp (user@example.com)".
func (s *TOTPService) label(email string) string {
	return fmt.Sprintf("%s (%s)", s.issuer, email)
}

// GenerateSecret creates a new random base32 TOTP secret for the account.
func (s *TOTPService) GenerateSecret(email string) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuer,
		AccountName: s.label(email),
		Period:      totpPeriod,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
		SecretSize:  totpSecretSize,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate TOTP secret: %w", err)
	}
	return key.Secret(), nil
}

// ProvisionURL builds the otpauth:// URI for an existing secret.
func (s *TOTPService) ProvisionURL(secret, email string) string {
	v := url.Values{}
	v.Set("secret", secret)
	v.Set("issuer", s.issuer)
	v.Set("period", "30")
	v.Set("algorithm", "SHA1")
	v.Set("digits", "6")
	u := url.URL{
		Scheme:   "otpauth",
		Host:     "totp",
		Path:     "/" + s.issuer + ":" + s.label(email),
		RawQuery: v.Encode(),
	}
	return u.String()
}

// QRDataURL renders the provisioning URI for the secret as a scannable PNG,
// returned as a base64 data URL.
func (s *TOTPService) QRDataURL(secret, email string) (string, error) {
	key, err := otp.NewKeyFromURL(s.ProvisionURL(secret, email))
	if err != nil {
		return "", fmt.Errorf("failed to build provisioning key: %w", err)
	}
	img, err := key.Image(qrImageSize, qrImageSize)
	if err != nil {
		return "", fmt.Errorf("failed to render QR image: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode QR image: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Validate checks a 6-digit code against the secret with a ±1 period window.
func (s *TOTPService) Validate(secret, code string) bool {
	valid, err := totp.ValidateCustom(code, secret, time.Now().UTC(), totp.ValidateOpts{
		Period:    totpPeriod,
		Skew:      totpSkew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return false
	}
	return valid
}

package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"image/png"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"electric-backend/internal/auth"
	"electric-backend/internal/errs"
	"electric-backend/internal/models"
	"electric-backend/internal/repositories"
)

const totpIssuer = "ElectricBuddy"

type TOTPService struct {
	userRepo   *repositories.UserRepository
	jwtManager *auth.JWTManager
}

func NewTOTPService(userRepo *repositories.UserRepository, jwtManager *auth.JWTManager) *TOTPService {
	return &TOTPService{userRepo: userRepo, jwtManager: jwtManager}
}

// GenerateSetup creates a new TOTP secret and QR code for an admin
func (s *TOTPService) GenerateSetup(ctx context.Context, userID int64) (*models.TOTPSetupResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleAdmin {
		return nil, errs.ErrForbidden
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Username,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return nil, err
	}

	// Store the secret (not yet enabled)
	if err := s.userRepo.SetTOTPSecret(ctx, user.ID, key.Secret()); err != nil {
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
		Secret:     key.Secret(),
		OTPAuthURL: key.URL(),
		QRCode:     "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

// VerifyAndEnable verifies a TOTP code and turns 2FA on for the user
func (s *TOTPService) VerifyAndEnable(ctx context.Context, userID int64, code string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.TOTPSecret == "" {
		return errs.Validation("2FA setup has not been started")
	}
	if !totp.Validate(code, user.TOTPSecret) {
		return errs.ErrUnauthorized
	}
	return s.userRepo.EnableTOTP(ctx, userID)
}

// Disable turns 2FA off after a final code check.
func (s *TOTPService) Disable(ctx context.Context, userID int64, code string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.TOTPEnabled {
		return errs.Validation("2FA is not enabled")
	}
	if !totp.Validate(code, user.TOTPSecret) {
		return errs.ErrUnauthorized
	}
	return s.userRepo.DisableTOTP(ctx, userID)
}

// CompleteLogin exchanges a valid temp token plus TOTP code for a session.
func (s *TOTPService) CompleteLogin(ctx context.Context, tempToken, code string) (*models.AuthResponse, error) {
	claims, err := s.jwtManager.ValidateTempToken(tempToken)
	if err != nil {
		return nil, errs.ErrUnauthorized
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, errs.ErrUnauthorized
	}
	if !user.TOTPEnabled || !totp.Validate(code, user.TOTPSecret) {
		return nil, errs.ErrUnauthorized
	}

	token, err := s.jwtManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: user.Response()}, nil
}

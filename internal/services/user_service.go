package services

import (
	"context"
	"log"
	"strings"

	"electric-backend/internal/auth"
	"electric-backend/internal/cache"
	"electric-backend/internal/config"
	"electric-backend/internal/errs"
	"electric-backend/internal/finance"
	"electric-backend/internal/models"
	"electric-backend/internal/repositories"
	"electric-backend/internal/timeutil"
)

type UserService struct {
	Repo       *repositories.UserRepository
	JWTManager *auth.JWTManager
	Cfg        *config.Config
}

func NewUserService(repo *repositories.UserRepository, jwtManager *auth.JWTManager, cfg *config.Config) *UserService {
	return &UserService{
		Repo:       repo,
		JWTManager: jwtManager,
		Cfg:        cfg,
	}
}

// LoginResult is either a full session or a pending 2FA challenge.
type LoginResult struct {
	Token       string               `json:"token,omitempty"`
	TempToken   string               `json:"tempToken,omitempty"`
	Requires2FA bool                 `json:"requires2fa"`
	User        *models.UserResponse `json:"user,omitempty"`
}

// Register creates an admin account gated by the shared secret code.
func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	var fields []string
	name := strings.TrimSpace(req.Name)
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if name == "" {
		fields = append(fields, "name is required")
	}
	if username == "" {
		fields = append(fields, "username is required")
	} else if len(username) < 3 || len(username) > 50 {
		fields = append(fields, "username must be between 3 and 50 characters")
	}
	if len(req.Password) < 6 {
		fields = append(fields, "password must be at least 6 characters")
	}
	if len(fields) > 0 {
		return nil, errs.Validation(fields...)
	}

	if req.SecretCode != s.Cfg.Admin.SecretCode {
		return nil, errs.ErrForbidden
	}

	taken, err := s.Repo.UsernameTaken(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errs.ErrConflict
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := timeutil.Now()
	area := strings.TrimSpace(req.Area)
	if area == "" {
		area = "Not specified"
	}
	address := strings.TrimSpace(req.Address)
	if address == "" {
		address = "Not specified"
	}

	user := &models.User{
		Name:         name,
		Username:     username,
		PasswordHash: hash,
		Mobile:       strings.TrimSpace(req.Mobile),
		Area:         area,
		Address:      address,
		Role:         models.RoleAdmin,
		WorkStatus:   models.WorkStatusPending,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	log.Printf("[Auth] Admin registered: %s", user.Username)
	return &models.AuthResponse{Token: token, User: user.Response()}, nil
}

// Login checks credentials and returns either a session token or, for
// admins with 2FA enabled, a short-lived temp token.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*LoginResult, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" || req.Password == "" {
		return nil, errs.Validation("username and password are required")
	}

	user, err := s.Repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, errs.ErrUnauthorized
	}

	// Hot path: the bcrypt check is skipped for recently verified creds
	if cachedID, ok := cache.GetCachedAuth(ctx, username, req.Password); !ok || cachedID != user.ID {
		if !auth.VerifyPassword(user.PasswordHash, req.Password) {
			return nil, errs.ErrUnauthorized
		}
		cache.CacheAuth(ctx, username, req.Password, user.ID)
	}

	if user.Role == models.RoleAdmin && user.TOTPEnabled {
		tempToken, err := s.JWTManager.GenerateTempToken(user)
		if err != nil {
			return nil, err
		}
		return &LoginResult{TempToken: tempToken, Requires2FA: true}, nil
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: user.Response()}, nil
}

// GetMe returns the caller's own record.
func (s *UserService) GetMe(ctx context.Context, userID int64) (*models.UserResponse, error) {
	user, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Response(), nil
}

// UpdateProfile patches the caller's own contact fields. Role, credentials
// and financials are never reachable from here.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req *models.UpdateProfileRequest) (*models.UserResponse, error) {
	user, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	patch := &models.UpdateCustomerRequest{
		Name:    req.Name,
		Mobile:  req.Mobile,
		Area:    req.Area,
		Address: req.Address,
	}
	next, err := finance.ReconcileUpdate(user, patch, models.RoleCustomer, timeutil.Now())
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, next); err != nil {
		return nil, err
	}
	return next.Response(), nil
}

// ChangePassword verifies the current password before replacing it.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	if len(next) < 6 {
		return errs.Validation("password must be at least 6 characters")
	}

	user, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.VerifyPassword(user.PasswordHash, current) {
		return errs.ErrUnauthorized
	}

	hash, err := auth.HashPassword(next)
	if err != nil {
		return err
	}
	if err := s.Repo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}
	cache.InvalidateAuth(ctx, user.Username, current)
	return nil
}

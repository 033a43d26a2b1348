package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cabin-booking/internal/booking"
	"cabin-booking/internal/data/entity"
	"cabin-booking/internal/data/repository"
	"cabin-booking/internal/dto/request"
	"cabin-booking/internal/dto/response"
	"cabin-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	// Logout revokes the session named by the token's jti.
	Logout(ctx context.Context, sessionToken string) error
}

type authService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
	now    func() time.Time
}

func NewAuthService(
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "auth")),
		now:    time.Now,
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Register validation failed", zap.Error(err))
		return nil, err
	}

	existingUser, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existingUser != nil {
		return nil, fmt.Errorf("email %w", ErrDuplicate)
	}

	existingUser, err = s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if existingUser != nil {
		return nil, fmt.Errorf("username %w", ErrDuplicate)
	}

	hashedPassword, err := utils.HashPassword(req.Password, s.config.JWT.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hashedPassword,
		Phone:        req.Phone,
		Role:         entity.RoleCustomer,
		IsActive:     true,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	// Registration logs the user in straight away.
	token, expiresAt, err := s.createSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	resp := response.AuthToResponse(user, token, expiresAt)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Login validation failed", zap.Error(err))
		return nil, err
	}

	// The identifier may be an email or a username.
	user, err := s.repo.User.FindByEmail(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		user, err = s.repo.User.FindByUsername(ctx, req.Username)
		if err != nil {
			return nil, fmt.Errorf("find user: %w", err)
		}
	}

	if user == nil {
		s.log.Warn("User not found for login", zap.String("identifier", req.Username))
		return nil, ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid password", zap.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		s.log.Warn("Inactive user tried to login", zap.String("user_id", user.ID.String()))
		return nil, ErrAccountInactive
	}

	token, expiresAt, err := s.createSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	resp := response.AuthToResponse(user, token, expiresAt)
	return &resp, nil
}

func (s *authService) Logout(ctx context.Context, sessionToken string) error {
	if _, err := uuid.Parse(sessionToken); err != nil {
		return fmt.Errorf("malformed session token: %w", booking.ErrUnauthenticated)
	}

	if err := s.repo.Session.Revoke(ctx, sessionToken); err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			return fmt.Errorf("session already revoked: %w", booking.ErrUnauthenticated)
		}
		return fmt.Errorf("logout: %w", err)
	}

	s.log.Info("User logged out", zap.String("session", sessionToken))
	return nil
}

// createSession stores a session row and signs a token whose jti is the
// session token.
func (s *authService) createSession(ctx context.Context, user *entity.User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(time.Duration(s.config.JWT.ExpiryHours) * time.Hour)

	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    user.ID,
		Token:     uuid.New(),
		ExpiresAt: expiresAt,
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		return "", time.Time{}, fmt.Errorf("create session: %w", err)
	}

	token, err := utils.NewAccessToken(s.config.JWT.Secret, user.ID, session.Token, string(user.Role), expiresAt)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return token, expiresAt, nil
}

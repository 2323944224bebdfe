package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"foodspot/internal/models"
	"foodspot/internal/notifier"
	"foodspot/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const purposePasswordReset = "password_reset"

// AuthConfig holds the token and mail settings of AuthService.
type AuthConfig struct {
	JWTSecret        string
	TokenTTL         time.Duration
	PasswordResetTTL time.Duration
	PasswordResetURL string
	MailFrom         string
}

// RegisterInput is the sign-up form.
type RegisterInput struct {
	Username  string `json:"username" validate:"required,min=3,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
}

// ProfileInput updates the account and profile details. Nil fields are left
// unchanged.
type ProfileInput struct {
	FirstName  *string `json:"first_name" validate:"omitempty,max=150"`
	LastName   *string `json:"last_name" validate:"omitempty,max=150"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Phone      *string `json:"phone" validate:"omitempty,max=15"`
	ProfilePic *string `json:"profile_pic" validate:"omitempty,url,max=255"`
	Bio        *string `json:"bio" validate:"omitempty,max=500"`
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo  repositories.UserRepository
	notifier  notifier.Notifier
	lg        *zap.Logger
	validate  *validator.Validate
	jwtSecret []byte
	cfg       AuthConfig
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, n notifier.Notifier, lg *zap.Logger, cfg AuthConfig) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.PasswordResetTTL <= 0 {
		cfg.PasswordResetTTL = time.Hour
	}
	return &AuthService{
		userRepo:  userRepo,
		notifier:  n,
		lg:        lg,
		validate:  validator.New(),
		jwtSecret: []byte(cfg.JWTSecret),
		cfg:       cfg,
	}
}

// RegisterUser registers a new user with an empty profile and a hashed
// password.
func (s *AuthService) RegisterUser(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.ensureFree(ctx, in.Username, in.Email); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:  in.Username,
		Email:     in.Email,
		Password:  string(hashedPassword),
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

func (s *AuthService) ensureFree(ctx context.Context, username, email string) error {
	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		return ErrUsernameTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}
	return nil
}

// LoginUser authenticates by username, or by e-mail when the identifier
// contains '@', and returns a JWT token.
func (s *AuthService) LoginUser(ctx context.Context, identifier, password string) (string, error) {
	identifier = strings.TrimSpace(identifier)

	var (
		user *models.User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = s.userRepo.GetByEmail(ctx, strings.ToLower(identifier))
	} else {
		user, err = s.userRepo.GetByUsername(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.GenerateToken(user)
}

// GenerateToken issues a session token for user.
func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"is_admin": user.IsAdmin,
		"exp":      now.Add(s.cfg.TokenTTL).Unix(),
		"iat":      now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a session token, returning the claims
// if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if _, ok := claims["purpose"]; ok {
		return nil, fmt.Errorf("%w: not a session token", ErrInvalidToken)
	}
	if id, _ := claims["user_id"].(string); id == "" {
		return nil, fmt.Errorf("%w: missing user_id", ErrInvalidToken)
	}
	return claims, nil
}

func (s *AuthService) parse(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// GetProfile returns the user with its profile.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateProfile applies the non-nil fields of in.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*models.User, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email != user.Email {
			if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
				return nil, ErrEmailTaken
			} else if !errors.Is(err, repositories.ErrNotFound) {
				return nil, err
			}
			user.Email = email
		}
	}
	setIf(&user.FirstName, in.FirstName)
	setIf(&user.LastName, in.LastName)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if user.Profile == nil {
		user.Profile = &models.Profile{UserID: user.ID}
	}
	setIf(&user.Profile.Phone, in.Phone)
	setIf(&user.Profile.ProfilePic, in.ProfilePic)
	setIf(&user.Profile.Bio, in.Bio)
	if err := s.userRepo.UpdateProfile(ctx, user.Profile); err != nil {
		return nil, err
	}
	return user, nil
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

// DeleteAccount removes the user together with everything they own.
func (s *AuthService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}
	s.lg.Info("account deleted", zap.String("user_id", userID))
	return nil
}

// RequestPasswordReset mails a short-lived reset link. Unknown addresses are
// accepted silently so the endpoint does not reveal which e-mails exist.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return err
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":     user.ID,
		"purpose": purposePasswordReset,
		"fp":      passwordFingerprint(user.Password),
		"exp":     now.Add(s.cfg.PasswordResetTTL).Unix(),
		"iat":     now.Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	msg := notifier.Message{
		From:    s.cfg.MailFrom,
		To:      user.Email,
		Subject: "Password reset",
		Body: fmt.Sprintf("Hi %s,\n\nUse the link below to choose a new password:\n%s?token=%s\n\n"+
			"The link expires in %s. If you did not ask for a reset, ignore this message.",
			user.Username, s.cfg.PasswordResetURL, tokenString, s.cfg.PasswordResetTTL),
	}
	if err := s.notifier.Notify(ctx, msg); err != nil {
		s.lg.Warn("password reset mail not sent", zap.String("user_id", user.ID), zap.Error(err))
	}
	return nil
}

// ResetPassword sets a new password using a token from RequestPasswordReset.
// A token stops working once the password it was issued for has changed.
func (s *AuthService) ResetPassword(ctx context.Context, tokenString, newPassword string) error {
	if len(newPassword) < 8 || len(newPassword) > 72 {
		return fmt.Errorf("%w: password must be 8 to 72 characters", ErrInvalidInput)
	}

	claims, err := s.parse(tokenString)
	if err != nil {
		return err
	}
	if purpose, _ := claims["purpose"].(string); purpose != purposePasswordReset {
		return fmt.Errorf("%w: not a password reset token", ErrInvalidToken)
	}
	userID, _ := claims["sub"].(string)
	fp, _ := claims["fp"].(string)

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	if fp != passwordFingerprint(user.Password) {
		return fmt.Errorf("%w: token already used", ErrInvalidToken)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashed)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}
	s.lg.Info("password reset", zap.String("user_id", user.ID))
	return nil
}

func passwordFingerprint(hash string) string {
	sum := sha256.Sum256([]byte(hash))
	return hex.EncodeToString(sum[:8])
}

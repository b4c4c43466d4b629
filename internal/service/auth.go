package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/grishakov/retail-platform/internal/hash"
	"github.com/grishakov/retail-platform/internal/logging"
	"github.com/grishakov/retail-platform/internal/mailer"
	"github.com/grishakov/retail-platform/internal/models"
	"github.com/grishakov/retail-platform/internal/repo"
)

const accessTokenTTL = 24 * time.Hour

type AuthService struct {
	Repo      *repo.GormRepo
	OTP       *OTPService
	Pending   *PendingStore
	Mail      *mailer.Dispatcher
	JWTSecret []byte
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     models.Role
	Address  string
	Phone    string
}

func (in *RegisterInput) validate() error {
	if in.Username == "" {
		return fmt.Errorf("username required: %w", ErrValidation)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return fmt.Errorf("invalid email: %w", ErrValidation)
	}
	if len(in.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters: %w", ErrValidation)
	}
	switch in.Role {
	case models.RoleBuyer, models.RoleSeller, models.RoleStaff:
	default:
		return fmt.Errorf("unknown role %q: %w", in.Role, ErrValidation)
	}
	return nil
}

// StartRegistration validates the candidate, parks the fields server-side and
// issues a register OTP to the email. The user row is only created once the
// code comes back.
func (s *AuthService) StartRegistration(ctx context.Context, in RegisterInput) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.start_registration", "email", in.Email)

	if err := in.validate(); err != nil {
		return "", err
	}

	if _, err := s.Repo.GetUserByEmail(ctx, in.Email); err == nil {
		return "", fmt.Errorf("email already registered: %w", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	if _, err := s.Repo.GetUserByUsername(ctx, in.Username); err == nil {
		return "", fmt.Errorf("username already taken: %w", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		return "", err
	}

	token := s.Pending.Put(PendingRegistration{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: pwHash,
		Role:         in.Role,
		Address:      in.Address,
		Phone:        in.Phone,
	})

	code, err := s.OTP.Generate(ctx, in.Email, models.OTPPurposeRegister)
	if err != nil {
		s.Pending.Delete(token)
		return "", err
	}

	s.Mail.SendOTP(in.Email, code, models.OTPPurposeRegister)
	l.Info("registration_otp_sent")
	return token, nil
}

// ConfirmRegistration consumes the register OTP and, on match against the
// pending entry, creates the user.
func (s *AuthService) ConfirmRegistration(ctx context.Context, pendingToken, code string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.confirm_registration")

	pending, ok := s.Pending.Get(pendingToken)
	if !ok {
		return nil, fmt.Errorf("no registration in progress: %w", ErrNotFound)
	}

	rec, err := s.OTP.Check(ctx, code, models.OTPPurposeRegister)
	if err != nil {
		if errors.Is(err, ErrNoMatch) {
			return nil, fmt.Errorf("invalid OTP: %w", ErrValidation)
		}
		return nil, err
	}
	if rec.Email != pending.Email {
		return nil, fmt.Errorf("invalid OTP: %w", ErrValidation)
	}

	user := &models.User{
		Username:     pending.Username,
		Email:        pending.Email,
		PasswordHash: pending.PasswordHash,
		Role:         pending.Role,
		Address:      pending.Address,
		Phone:        pending.Phone,
	}
	if err := s.Repo.CreateUserIfNotExists(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, fmt.Errorf("user already exists: %w", ErrConflict)
		}
		return nil, err
	}

	s.Pending.Delete(pendingToken)
	l.Info("user_registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *models.User
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password required: %w", ErrValidation)
	}

	user, err := s.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invalid username or password: %w", ErrValidation)
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "reason", "bad password")
		return nil, fmt.Errorf("invalid username or password: %w", ErrValidation)
	}

	exp := time.Now().Add(accessTokenTTL)
	token, err := s.CreateAccessToken(user.ID, user.Role, exp)
	if err != nil {
		return nil, err
	}

	l.Info("login_success", "user_id", user.ID)
	return &LoginResult{AccessToken: token, ExpiresAt: exp, User: user}, nil
}

func (s *AuthService) CreateAccessToken(userID uint, role models.Role, exp time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":  float64(userID),
		"role": string(role),
		"exp":  exp.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.JWTSecret)
}

// ForgotPassword issues a reset OTP. The generated code travels out-of-band
// only; the handler reports success without echoing it.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	l := logging.FromContext(ctx).With("svc", "auth.forgot_password", "email", email)

	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("invalid email: %w", ErrValidation)
	}

	code, err := s.OTP.Generate(ctx, email, models.OTPPurposeReset)
	if err != nil {
		return err
	}

	s.Mail.SendOTP(email, code, models.OTPPurposeReset)
	l.Info("reset_otp_sent")
	return nil
}

// ResetPassword consumes a reset OTP and updates the owner's password.
func (s *AuthService) ResetPassword(ctx context.Context, code, newPassword string) error {
	l := logging.FromContext(ctx).With("svc", "auth.reset_password")

	if len(newPassword) < 8 {
		return fmt.Errorf("password must be at least 8 characters: %w", ErrValidation)
	}

	rec, err := s.OTP.Check(ctx, code, models.OTPPurposeReset)
	if err != nil {
		if errors.Is(err, ErrNoMatch) {
			return fmt.Errorf("invalid OTP: %w", ErrValidation)
		}
		return err
	}
	if rec.UserID == nil {
		return fmt.Errorf("invalid OTP: %w", ErrValidation)
	}

	pwHash, err := hash.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Repo.UpdatePassword(ctx, *rec.UserID, pwHash); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user no longer exists: %w", ErrNotFound)
		}
		return err
	}

	l.Info("password_reset", "user_id", *rec.UserID)
	return nil
}

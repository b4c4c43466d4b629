package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"gorm.io/gorm"

	"github.com/grishakov/retail-platform/internal/models"
	"github.com/grishakov/retail-platform/internal/repo"
)

const (
	otpValidity    = 5 * time.Minute
	otpGenAttempts = 3
)

// ErrNoMatch covers both a wrong code and an expired one; callers cannot
// distinguish the two, which keeps the validator from leaking which codes
// exist.
var ErrNoMatch = errors.New("no matching code")

type OTPService struct {
	Repo *repo.GormRepo
	Now  func() time.Time
}

func NewOTPService(r *repo.GormRepo) *OTPService {
	return &OTPService{Repo: r, Now: time.Now}
}

// Generate issues a 6-digit code for the given purpose. Reset codes require
// an existing account; register codes precede the user row. Uniqueness is
// best-effort: after three collisions the last candidate is kept anyway.
func (s *OTPService) Generate(ctx context.Context, email string, purpose models.OTPPurpose) (string, error) {
	var userID *uint
	if purpose == models.OTPPurposeReset {
		user, err := s.Repo.GetUserByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", fmt.Errorf("no account for %s: %w", email, ErrNotFound)
			}
			return "", err
		}
		userID = &user.ID
	}

	var code string
	for i := 0; i < otpGenAttempts; i++ {
		code = fmt.Sprintf("%06d", 100000+rand.Intn(900000))
		exists, err := s.Repo.OTPCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			break
		}
	}

	rec := &models.OTP{
		UserID:    userID,
		Email:     email,
		Code:      code,
		Purpose:   purpose,
		CreatedAt: s.Now(),
	}
	if err := s.Repo.CreateOTP(ctx, rec); err != nil {
		return "", err
	}
	return code, nil
}

func (s *OTPService) IsExpired(rec *models.OTP) bool {
	return s.Now().Sub(rec.CreatedAt) > otpValidity
}

// Check consumes the code: a found, unexpired record is deleted and returned.
// The delete is the arbiter under concurrency; losing the delete race reads
// as no match, the same as a wrong or expired code.
func (s *OTPService) Check(ctx context.Context, code string, purpose models.OTPPurpose) (*models.OTP, error) {
	rec, err := s.Repo.FindOTPByCode(ctx, code, purpose)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoMatch
		}
		return nil, err
	}

	if s.IsExpired(rec) {
		return nil, ErrNoMatch
	}

	won, err := s.Repo.DeleteOTP(ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, ErrNoMatch
	}
	return rec, nil
}

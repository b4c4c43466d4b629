package repo

import (
	"context"

	"github.com/grishakov/retail-platform/internal/models"
)

func (r *GormRepo) CreateOTP(ctx context.Context, otp *models.OTP) error {
	return r.DB.WithContext(ctx).Create(otp).Error
}

func (r *GormRepo) OTPCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.OTP{}).
		Where("code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) FindOTPByCode(ctx context.Context, code string, purpose models.OTPPurpose) (*models.OTP, error) {
	var rec models.OTP
	if err := r.DB.WithContext(ctx).
		Where("code = ? AND purpose = ?", code, purpose).
		First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// DeleteOTP removes the record and reports whether this caller won the
// delete. Two concurrent validations of one code race on this row; only the
// one that observes RowsAffected == 1 may treat the code as consumed.
func (r *GormRepo) DeleteOTP(ctx context.Context, id uint) (bool, error) {
	res := r.DB.WithContext(ctx).Delete(&models.OTP{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

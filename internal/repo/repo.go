package repo

import (
	"errors"

	"gorm.io/gorm"
)

var ErrDuplicate = errors.New("duplicate record")

type GormRepo struct {
	DB *gorm.DB
}

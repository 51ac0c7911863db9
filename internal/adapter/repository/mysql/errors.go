package mysql

import (
	"errors"

	"gorm.io/gorm"
)

// notFound maps gorm's missing-row error onto the domain sentinel.
func notFound(err, domainErr error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainErr
	}
	return err
}

// duplicate maps unique-key violations onto the domain sentinel.
func duplicate(err, domainErr error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainErr
	}
	return err
}

func exists(tx *gorm.DB) (bool, error) {
	var n int64
	if err := tx.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

package revokedstore

import (
	"time"
	dbmodels "travel-order-backend/models/db"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Revoke(tokenID string, expiresAt time.Time) error
	IsRevoked(tokenID string) (bool, error)
	DeleteExpired(now time.Time) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Revoke(tokenID string, expiresAt time.Time) error {
	rec := dbmodels.RevokedToken{
		TokenID:   tokenID,
		ExpiresAt: expiresAt,
	}
	return i.db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rec).
		Error
}

func (i impl) IsRevoked(tokenID string) (bool, error) {
	var count int64
	err := i.db.
		Model(&dbmodels.RevokedToken{}).
		Where("token_id = ?", tokenID).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count != 0, nil
}

func (i impl) DeleteExpired(now time.Time) error {
	return i.db.
		Where("expires_at < ?", now).
		Delete(&dbmodels.RevokedToken{}).
		Error
}

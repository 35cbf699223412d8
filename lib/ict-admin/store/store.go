package ictadminstore

import (
	dbmodels "travel-order-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.IctAdmin) (id string, err error)
	GetByID(id string) (rec *dbmodels.IctAdmin, err error)
	FindByUsername(username string) (rec *dbmodels.IctAdmin, err error)
	Update(id string, updMap map[string]interface{}) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.IctAdmin) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.IctAdmin, error) {
	rec := dbmodels.IctAdmin{}
	err := i.db.
		Where("id = ?", id).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) FindByUsername(username string) (*dbmodels.IctAdmin, error) {
	rec := dbmodels.IctAdmin{}
	err := i.db.
		Where("username = ?", username).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	return i.db.
		Model(&dbmodels.IctAdmin{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
}

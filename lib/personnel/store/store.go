package personnelstore

import (
	accountquery "travel-order-backend/lib/utils/account-query"
	accountapimodels "travel-order-backend/models/api/account"
	dbmodels "travel-order-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.Personnel) (id string, err error)
	GetByID(id string) (rec *dbmodels.Personnel, err error)
	FindByUsername(username string) (rec *dbmodels.Personnel, err error)
	Update(id string, updMap map[string]interface{}) error
	Delete(id string) error
	List(filter accountapimodels.AccountFilter) (list []dbmodels.Personnel, rowCount int64, err error)
	Stats() (stats accountapimodels.AccountStats, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Personnel) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Personnel, error) {
	rec := dbmodels.Personnel{}
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

func (i impl) FindByUsername(username string) (*dbmodels.Personnel, error) {
	rec := dbmodels.Personnel{}
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
		Model(&dbmodels.Personnel{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
}

func (i impl) Delete(id string) error {
	return i.db.
		Where("id = ?", id).
		Delete(&dbmodels.Personnel{}).
		Error
}

func (i impl) List(filter accountapimodels.AccountFilter) (list []dbmodels.Personnel, rowCount int64, err error) {
	tx := accountquery.ApplyFilter(i.db.Model(&dbmodels.Personnel{}), filter).Session(&gorm.Session{})
	if err = tx.Count(&rowCount).Error; err != nil {
		return nil, 0, err
	}
	page, limit := filter.GetPage()
	list = []dbmodels.Personnel{}
	err = tx.
		Order(accountquery.OrderBy(filter)).
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&list).
		Error
	if err != nil {
		return nil, 0, err
	}
	return list, rowCount, nil
}

func (i impl) Stats() (accountapimodels.AccountStats, error) {
	return accountquery.Stats(i.db.Model(&dbmodels.Personnel{}))
}

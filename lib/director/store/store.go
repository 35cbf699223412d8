package directorstore

import (
	accountquery "travel-order-backend/lib/utils/account-query"
	accountapimodels "travel-order-backend/models/api/account"
	dbmodels "travel-order-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.Director) (id string, err error)
	GetByID(id string) (rec *dbmodels.Director, err error)
	FindByUsername(username string) (rec *dbmodels.Director, err error)
	Update(id string, updMap map[string]interface{}) error
	Delete(id string) error
	List(filter accountapimodels.AccountFilter) (list []dbmodels.Director, rowCount int64, err error)
	Stats() (stats accountapimodels.AccountStats, err error)
	// ListActive returns directors that may be selected as approvers.
	ListActive() (list []dbmodels.Director, err error)
	// GetActiveByIDs returns the active directors among ids.
	GetActiveByIDs(ids []string) (list []dbmodels.Director, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Director) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Director, error) {
	rec := dbmodels.Director{}
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

func (i impl) FindByUsername(username string) (*dbmodels.Director, error) {
	rec := dbmodels.Director{}
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
		Model(&dbmodels.Director{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
}

func (i impl) Delete(id string) error {
	return i.db.
		Where("id = ?", id).
		Delete(&dbmodels.Director{}).
		Error
}

func (i impl) List(filter accountapimodels.AccountFilter) (list []dbmodels.Director, rowCount int64, err error) {
	tx := accountquery.ApplyFilter(i.db.Model(&dbmodels.Director{}), filter).Session(&gorm.Session{})
	if err = tx.Count(&rowCount).Error; err != nil {
		return nil, 0, err
	}
	page, limit := filter.GetPage()
	list = []dbmodels.Director{}
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
	return accountquery.Stats(i.db.Model(&dbmodels.Director{}))
}

func (i impl) ListActive() (list []dbmodels.Director, err error) {
	list = []dbmodels.Director{}
	err = i.db.
		Where("is_active = ?", true).
		Order("last_name ASC, first_name ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) GetActiveByIDs(ids []string) (list []dbmodels.Director, err error) {
	list = []dbmodels.Director{}
	if len(ids) == 0 {
		return list, nil
	}
	err = i.db.
		Where("id IN ?", ids).
		Where("is_active = ?", true).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

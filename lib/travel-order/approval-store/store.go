package approvalstore

import (
	"time"
	"travel-order-backend/models"
	dbmodels "travel-order-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.TravelOrderApproval) (id string, err error)
	GetByStep(orderID string, step int) (rec *dbmodels.TravelOrderApproval, err error)
	GetForDirector(orderID, directorID string) (rec *dbmodels.TravelOrderApproval, err error)
	List(orderID string) (list []dbmodels.TravelOrderApproval, err error)
	Count(orderID string) (count int64, err error)
	CountByDirector(directorID string) (count int64, err error)
	// Decide moves a pending approval to a terminal status; false when it was no longer pending.
	Decide(id string, status models.ApprovalStatus, remarks string, actedAt time.Time) (decided bool, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.TravelOrderApproval) (id string, err error) {
	err = i.db.
		Omit("Director").
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByStep(orderID string, step int) (*dbmodels.TravelOrderApproval, error) {
	rec := dbmodels.TravelOrderApproval{}
	err := i.db.
		Where("travel_order_id = ?", orderID).
		Where("step_order = ?", step).
		Preload("Director").
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

func (i impl) GetForDirector(orderID, directorID string) (*dbmodels.TravelOrderApproval, error) {
	rec := dbmodels.TravelOrderApproval{}
	err := i.db.
		Where("travel_order_id = ?", orderID).
		Where("director_id = ?", directorID).
		Order("step_order ASC").
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

func (i impl) List(orderID string) (list []dbmodels.TravelOrderApproval, err error) {
	list = []dbmodels.TravelOrderApproval{}
	err = i.db.
		Where("travel_order_id = ?", orderID).
		Order("step_order ASC").
		Preload("Director").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Count(orderID string) (count int64, err error) {
	err = i.db.
		Model(&dbmodels.TravelOrderApproval{}).
		Where("travel_order_id = ?", orderID).
		Count(&count).
		Error
	return count, err
}

func (i impl) Decide(id string, status models.ApprovalStatus, remarks string, actedAt time.Time) (bool, error) {
	res := i.db.
		Model(&dbmodels.TravelOrderApproval{}).
		Where("id = ?", id).
		Where("status = ?", models.ApprovalPending).
		Updates(map[string]interface{}{
			"status":   status,
			"remarks":  remarks,
			"acted_at": actedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected != 0, nil
}

func (i impl) CountByDirector(directorID string) (count int64, err error) {
	err = i.db.
		Model(&dbmodels.TravelOrderApproval{}).
		Where("director_id = ?", directorID).
		Count(&count).
		Error
	return count, err
}

package attachmentstore

import (
	dbmodels "travel-order-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.TravelOrderAttachment) (id string, err error)
	GetByID(orderID, id string) (rec *dbmodels.TravelOrderAttachment, err error)
	List(orderID string) (list []dbmodels.TravelOrderAttachment, err error)
	ListByIDs(orderID string, ids []string) (list []dbmodels.TravelOrderAttachment, err error)
	Delete(orderID, id string) error
	DeleteByOrder(orderID string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.TravelOrderAttachment) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(orderID, id string) (*dbmodels.TravelOrderAttachment, error) {
	rec := dbmodels.TravelOrderAttachment{}
	err := i.db.
		Where("id = ?", id).
		Where("travel_order_id = ?", orderID).
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

func (i impl) List(orderID string) (list []dbmodels.TravelOrderAttachment, err error) {
	list = []dbmodels.TravelOrderAttachment{}
	err = i.db.
		Where("travel_order_id = ?", orderID).
		Order("created_at ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListByIDs(orderID string, ids []string) (list []dbmodels.TravelOrderAttachment, err error) {
	list = []dbmodels.TravelOrderAttachment{}
	if len(ids) == 0 {
		return list, nil
	}
	err = i.db.
		Where("travel_order_id = ?", orderID).
		Where("id IN ?", ids).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Delete(orderID, id string) error {
	return i.db.
		Where("id = ?", id).
		Where("travel_order_id = ?", orderID).
		Delete(&dbmodels.TravelOrderAttachment{}).
		Error
}

func (i impl) DeleteByOrder(orderID string) error {
	return i.db.
		Where("travel_order_id = ?", orderID).
		Delete(&dbmodels.TravelOrderAttachment{}).
		Error
}

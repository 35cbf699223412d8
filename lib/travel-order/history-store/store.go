package historystore

import (
	dbmodels "travel-order-backend/models/db"

	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.ApprovalHistory) error
	List(orderID string) (list []dbmodels.ApprovalHistory, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ApprovalHistory) error {
	return i.db.
		Create(&rec).
		Error
}

func (i impl) List(orderID string) (list []dbmodels.ApprovalHistory, err error) {
	list = []dbmodels.ApprovalHistory{}
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

package travelorderstore

import (
	"travel-order-backend/models"
	apimodels "travel-order-backend/models/api"
	dbmodels "travel-order-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.TravelOrder) (id string, err error)
	GetByID(id string) (rec *dbmodels.TravelOrder, err error)
	UpdateDraft(id string, updMap map[string]interface{}) (updated bool, err error)
	ChangeStatus(id string, from, to models.TravelOrderStatus, updMap map[string]interface{}) (changed bool, err error)
	DeleteDraft(id string) (deleted bool, err error)
	List(filter ListFilter) (list []dbmodels.TravelOrder, rowCount int64, err error)
	ListPendingForDirector(directorID string, pagination apimodels.Pagination) (list []dbmodels.TravelOrder, rowCount int64, err error)
	ListHistoryForDirector(directorID string, filter models.HistoryFilter, pagination apimodels.Pagination) (list []dbmodels.TravelOrder, rowCount int64, err error)
	ListRecommendedByDirector(directorID string, pagination apimodels.Pagination) (list []dbmodels.TravelOrder, rowCount int64, err error)
	CountByPersonnel(personnelID string) (count int64, err error)
}

type ListFilter struct {
	apimodels.Pagination
	PersonnelID string
	Status      models.TravelOrderStatus
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.TravelOrder) (id string, err error) {
	err = i.db.
		Omit("Personnel", "Approvals", "Attachments").
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.TravelOrder, error) {
	rec := dbmodels.TravelOrder{}
	err := i.withDetails(i.db).
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

func (i impl) UpdateDraft(id string, updMap map[string]interface{}) (bool, error) {
	if len(updMap) == 0 {
		return true, nil
	}
	res := i.db.
		Model(&dbmodels.TravelOrder{}).
		Where("id = ?", id).
		Where("status = ?", models.TOStatusDraft).
		Updates(updMap)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected != 0, nil
}

func (i impl) ChangeStatus(id string, from, to models.TravelOrderStatus, updMap map[string]interface{}) (bool, error) {
	values := map[string]interface{}{}
	for k, v := range updMap {
		values[k] = v
	}
	values["status"] = to
	res := i.db.
		Model(&dbmodels.TravelOrder{}).
		Where("id = ?", id).
		Where("status = ?", from).
		Updates(values)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected != 0, nil
}

func (i impl) DeleteDraft(id string) (bool, error) {
	res := i.db.
		Where("id = ?", id).
		Where("status = ?", models.TOStatusDraft).
		Delete(&dbmodels.TravelOrder{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected != 0, nil
}

func (i impl) List(filter ListFilter) (list []dbmodels.TravelOrder, rowCount int64, err error) {
	tx := i.db.Model(&dbmodels.TravelOrder{})
	if filter.PersonnelID != "" {
		tx = tx.Where("personnel_id = ?", filter.PersonnelID)
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	return i.page(tx, filter.Pagination, orderByCreated)
}

func (i impl) ListPendingForDirector(directorID string, pagination apimodels.Pagination) (list []dbmodels.TravelOrder, rowCount int64, err error) {
	tx := i.db.Model(&dbmodels.TravelOrder{}).
		Where("status = ?", models.TOStatusPending).
		Where("id IN (?)", i.visiblePendingApprovals(directorID))
	return i.page(tx, pagination, orderBySubmitted)
}

func (i impl) ListHistoryForDirector(directorID string, filter models.HistoryFilter, pagination apimodels.Pagination) (list []dbmodels.TravelOrder, rowCount int64, err error) {
	approvals := i.db.Model(&dbmodels.TravelOrderApproval{}).
		Select("travel_order_id").
		Where("director_id = ?", directorID)
	tx := i.db.Model(&dbmodels.TravelOrder{})
	switch filter {
	case models.HistoryApproved:
		// order level status, the director's own step may be recommended or approved
		approvals = approvals.Where("status IN ?", models.TerminalApprovalStatuses)
		tx = tx.Where("status = ?", models.TOStatusApproved)
	case models.HistoryRecommended:
		approvals = approvals.Where("status = ?", models.ApprovalRecommended)
	case models.HistoryRejected:
		approvals = approvals.Where("status = ?", models.ApprovalRejected)
	default:
		approvals = approvals.Where("status IN ?", models.TerminalApprovalStatuses)
	}
	tx = tx.Where("id IN (?)", approvals)
	return i.page(tx, pagination, orderByUpdated)
}

func (i impl) ListRecommendedByDirector(directorID string, pagination apimodels.Pagination) (list []dbmodels.TravelOrder, rowCount int64, err error) {
	approvals := i.db.Model(&dbmodels.TravelOrderApproval{}).
		Select("travel_order_id").
		Where("director_id = ?", directorID).
		Where("step_order = ?", models.RecommendingStep).
		Where("status = ?", models.ApprovalRecommended)
	tx := i.db.Model(&dbmodels.TravelOrder{}).
		Where("status = ?", models.TOStatusPending).
		Where("chain_length = ?", 2).
		Where("id IN (?)", approvals)
	return i.page(tx, pagination, orderByCreated)
}

func (i impl) CountByPersonnel(personnelID string) (count int64, err error) {
	err = i.db.
		Model(&dbmodels.TravelOrder{}).
		Where("personnel_id = ?", personnelID).
		Count(&count).
		Error
	return count, err
}

// visiblePendingApprovals selects orders holding a pending approval of the director
// that is either step 1 or a step 2 whose step 1 already opened the gate.
func (i impl) visiblePendingApprovals(directorID string) *gorm.DB {
	gateOpen := i.db.Model(&dbmodels.TravelOrderApproval{}).
		Select("travel_order_id").
		Where("step_order = ?", models.RecommendingStep).
		Where("status IN ?", models.GateOpenStatuses)
	return i.db.Model(&dbmodels.TravelOrderApproval{}).
		Select("travel_order_id").
		Where("director_id = ?", directorID).
		Where("status = ?", models.ApprovalPending).
		Where("(step_order = ? OR travel_order_id IN (?))", models.RecommendingStep, gateOpen)
}

const (
	orderByCreated   = "created_at DESC, id DESC"
	orderBySubmitted = "submitted_at DESC, id DESC"
	orderByUpdated   = "updated_at DESC, id DESC"
)

func (i impl) page(tx *gorm.DB, pagination apimodels.Pagination, order string) (list []dbmodels.TravelOrder, rowCount int64, err error) {
	tx = tx.Session(&gorm.Session{})
	if err = tx.Count(&rowCount).Error; err != nil {
		return nil, 0, err
	}
	page, limit := pagination.GetPage()
	list = []dbmodels.TravelOrder{}
	err = i.withDetails(tx).
		Order(order).
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&list).
		Error
	if err != nil {
		return nil, 0, err
	}
	return list, rowCount, nil
}

func (i impl) withDetails(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Personnel").
		Preload("Approvals", func(db *gorm.DB) *gorm.DB {
			return db.Order("step_order ASC")
		}).
		Preload("Approvals.Director").
		Preload("Attachments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		})
}

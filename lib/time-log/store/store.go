package timelogstore

import (
	"strings"
	"time"
	timelogapimodels "travel-order-backend/models/api/time-log"
	dbmodels "travel-order-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.TimeLog) (id string, err error)
	GetByID(id string) (rec *dbmodels.TimeLog, err error)
	Update(id string, updMap map[string]interface{}) error
	Delete(id string) error
	List(filter timelogapimodels.TimeLogFilter, all bool) (list []dbmodels.TimeLog, rowCount int64, err error)
	Stats(today time.Time) (stats timelogapimodels.TimeLogStats, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.TimeLog) (id string, err error) {
	err = i.db.
		Omit("Personnel", "Director").
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.TimeLog, error) {
	rec := dbmodels.TimeLog{}
	err := i.db.
		Where("id = ?", id).
		Preload("Personnel").
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

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	return i.db.
		Model(&dbmodels.TimeLog{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
}

func (i impl) Delete(id string) error {
	return i.db.
		Where("id = ?", id).
		Delete(&dbmodels.TimeLog{}).
		Error
}

// List pages through time logs; all=true ignores pagination (used by export).
func (i impl) List(filter timelogapimodels.TimeLogFilter, all bool) (list []dbmodels.TimeLog, rowCount int64, err error) {
	tx := i.db.Model(&dbmodels.TimeLog{})
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		personnel := i.db.Model(&dbmodels.Personnel{}).Select("id").
			Where("(LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(username) LIKE ?)", like, like, like)
		directors := i.db.Model(&dbmodels.Director{}).Select("id").
			Where("(LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(username) LIKE ?)", like, like, like)
		tx = tx.Where("(personnel_id IN (?) OR director_id IN (?) OR LOWER(remarks) LIKE ?)", personnel, directors, like)
	}
	switch filter.Status {
	case timelogapimodels.TimeLogOpen:
		tx = tx.Where("(time_out IS NULL OR time_out = '')")
	case timelogapimodels.TimeLogClosed:
		tx = tx.Where("(time_out IS NOT NULL AND time_out <> '')")
	}
	if filter.PersonnelID != "" {
		tx = tx.Where("personnel_id = ?", filter.PersonnelID)
	}
	if filter.DirectorID != "" {
		tx = tx.Where("director_id = ?", filter.DirectorID)
	}
	if filter.DateFrom != "" {
		from, _ := time.Parse(timelogapimodels.DateLayout, filter.DateFrom)
		tx = tx.Where("log_date >= ?", from)
	}
	if filter.DateTo != "" {
		to, _ := time.Parse(timelogapimodels.DateLayout, filter.DateTo)
		tx = tx.Where("log_date <= ?", to)
	}
	tx = tx.Session(&gorm.Session{})
	if err = tx.Count(&rowCount).Error; err != nil {
		return nil, 0, err
	}
	order := "log_date DESC, time_in DESC"
	if strings.ToLower(filter.SortDir) == "asc" {
		order = "log_date ASC, time_in ASC"
	}
	query := tx.
		Preload("Personnel").
		Preload("Director").
		Order(order)
	if !all {
		page, limit := filter.GetPage()
		query = query.Limit(limit).Offset((page - 1) * limit)
	}
	list = []dbmodels.TimeLog{}
	if err = query.Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, rowCount, nil
}

func (i impl) Stats(today time.Time) (stats timelogapimodels.TimeLogStats, err error) {
	base := i.db.Model(&dbmodels.TimeLog{}).Session(&gorm.Session{})
	if err = base.Count(&stats.Total).Error; err != nil {
		return stats, err
	}
	if err = base.Where("(time_out IS NULL OR time_out = '')").Count(&stats.Open).Error; err != nil {
		return stats, err
	}
	stats.Closed = stats.Total - stats.Open
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	if err = base.Where("log_date >= ? AND log_date < ?", day, day.AddDate(0, 0, 1)).Count(&stats.Today).Error; err != nil {
		return stats, err
	}
	return stats, nil
}

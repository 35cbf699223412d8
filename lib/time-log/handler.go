package timeloghandler

import (
	"bytes"
	"strings"
	"travel-order-backend/db"
	directorstore "travel-order-backend/lib/director/store"
	"travel-order-backend/lib/export"
	personnelstore "travel-order-backend/lib/personnel/store"
	timelogstore "travel-order-backend/lib/time-log/store"
	"travel-order-backend/lib/utils/clock"
	"travel-order-backend/models"
	timelogapimodels "travel-order-backend/models/api/time-log"
	dbmodels "travel-order-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(data timelogapimodels.TimeLogData) (timelogapimodels.TimeLogView, error)
	Get(id string) (timelogapimodels.TimeLogView, error)
	Update(id string, data timelogapimodels.TimeLogData) (timelogapimodels.TimeLogView, error)
	Delete(id string) error
	List(filter timelogapimodels.TimeLogFilter) (list []timelogapimodels.TimeLogView, rowCount int64, stats timelogapimodels.TimeLogStats, err error)
	Export(filter timelogapimodels.TimeLogFilter) (body *bytes.Buffer, fileName string, err error)
}

// Renderer builds the spreadsheet download of a time-log list.
type Renderer interface {
	TimeLogsXLS(list []dbmodels.TimeLog) (body *bytes.Buffer, fileName string, err error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(db.DB, export.Instance, clock.Real())
}

func NewInstance(conn *gorm.DB, renderer Renderer, clk clock.Clock) Provider {
	return &impl{
		store:          timelogstore.NewInstance(conn),
		personnelStore: personnelstore.NewInstance(conn),
		directorStore:  directorstore.NewInstance(conn),
		renderer:       renderer,
		clock:          clk,
	}
}

type impl struct {
	store          timelogstore.Provider
	personnelStore personnelstore.Provider
	directorStore  directorstore.Provider
	renderer       Renderer
	clock          clock.Clock
}

func (i impl) Create(data timelogapimodels.TimeLogData) (timelogapimodels.TimeLogView, error) {
	if err := i.validate(data); err != nil {
		return timelogapimodels.TimeLogView{}, err
	}
	rec := dbmodels.TimeLog{
		PersonnelID: optional(data.PersonnelID),
		DirectorID:  optional(data.DirectorID),
		LogDate:     data.GetLogDate(),
		TimeIn:      data.TimeIn,
		TimeOut:     optional(data.TimeOut),
		Remarks:     data.Remarks,
	}
	id, err := i.store.Create(rec)
	if err != nil {
		return timelogapimodels.TimeLogView{}, errors.Wrap(err, "failed to create time log")
	}
	return i.Get(id)
}

func (i impl) Get(id string) (timelogapimodels.TimeLogView, error) {
	rec, err := i.get(id)
	if err != nil {
		return timelogapimodels.TimeLogView{}, err
	}
	return rec.ToModel(), nil
}

func (i impl) Update(id string, data timelogapimodels.TimeLogData) (timelogapimodels.TimeLogView, error) {
	if _, err := i.get(id); err != nil {
		return timelogapimodels.TimeLogView{}, err
	}
	if err := i.validate(data); err != nil {
		return timelogapimodels.TimeLogView{}, err
	}
	updMap := map[string]interface{}{
		"personnel_id": optional(data.PersonnelID),
		"director_id":  optional(data.DirectorID),
		"log_date":     data.GetLogDate(),
		"time_in":      data.TimeIn,
		"time_out":     optional(data.TimeOut),
		"remarks":      data.Remarks,
	}
	if err := i.store.Update(id, updMap); err != nil {
		return timelogapimodels.TimeLogView{}, errors.Wrap(err, "failed to update time log")
	}
	return i.Get(id)
}

func (i impl) Delete(id string) error {
	if _, err := i.get(id); err != nil {
		return err
	}
	if err := i.store.Delete(id); err != nil {
		return errors.Wrap(err, "failed to delete time log")
	}
	return nil
}

func (i impl) List(filter timelogapimodels.TimeLogFilter) ([]timelogapimodels.TimeLogView, int64, timelogapimodels.TimeLogStats, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, timelogapimodels.TimeLogStats{}, err
	}
	list, rowCount, err := i.store.List(filter, false)
	if err != nil {
		return nil, 0, timelogapimodels.TimeLogStats{}, errors.Wrap(err, "failed to get time logs")
	}
	stats, err := i.store.Stats(i.clock.Now())
	if err != nil {
		return nil, 0, timelogapimodels.TimeLogStats{}, errors.Wrap(err, "failed to get time log stats")
	}
	result := make([]timelogapimodels.TimeLogView, 0, len(list))
	for _, rec := range list {
		result = append(result, rec.ToModel())
	}
	return result, rowCount, stats, nil
}

func (i impl) Export(filter timelogapimodels.TimeLogFilter) (*bytes.Buffer, string, error) {
	if err := filter.Validate(); err != nil {
		return nil, "", err
	}
	list, _, err := i.store.List(filter, true)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to get time logs")
	}
	return i.renderer.TimeLogsXLS(list)
}

func (i impl) get(id string) (*dbmodels.TimeLog, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get time log")
	}
	if rec == nil {
		return nil, models.NewNotVisibleError("Time log not found.")
	}
	return rec, nil
}

func (i impl) validate(data timelogapimodels.TimeLogData) error {
	if err := data.Validate(); err != nil {
		return err
	}
	if data.PersonnelID != "" {
		rec, err := i.personnelStore.GetByID(data.PersonnelID)
		if err != nil {
			return errors.Wrap(err, "failed to get personnel")
		}
		if rec == nil {
			return models.NewFieldError("personnel_id", "The selected personnel is invalid.")
		}
	}
	if data.DirectorID != "" {
		rec, err := i.directorStore.GetByID(data.DirectorID)
		if err != nil {
			return errors.Wrap(err, "failed to get director")
		}
		if rec == nil {
			return models.NewFieldError("director_id", "The selected director is invalid.")
		}
	}
	return nil
}

func optional(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}

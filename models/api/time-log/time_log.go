package timelogapimodels

import (
	"strings"
	"time"
	"travel-order-backend/models"
	apimodels "travel-order-backend/models/api"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type TimeLogData struct {
	PersonnelID string `json:"personnel_id"`
	DirectorID  string `json:"director_id"`
	LogDate     string `json:"log_date"` // YYYY-MM-DD
	TimeIn      string `json:"time_in"`  // HH:MM
	TimeOut     string `json:"time_out"` // HH:MM, empty while open
	Remarks     string `json:"remarks"`
}

func (r TimeLogData) Validate() error {
	verr := models.NewValidationError("The given data was invalid.")
	hasPersonnel := strings.TrimSpace(r.PersonnelID) != ""
	hasDirector := strings.TrimSpace(r.DirectorID) != ""
	if hasPersonnel == hasDirector {
		verr.Add("personnel_id", "Exactly one of personnel or director must be selected.")
	}
	if _, err := time.Parse(DateLayout, r.LogDate); err != nil {
		verr.Add("log_date", "The log date is not a valid date.")
	}
	in, inErr := time.Parse(TimeLayout, r.TimeIn)
	if inErr != nil {
		verr.Add("time_in", "The time in does not match the format H:i.")
	}
	if r.TimeOut != "" {
		out, outErr := time.Parse(TimeLayout, r.TimeOut)
		if outErr != nil {
			verr.Add("time_out", "The time out does not match the format H:i.")
		} else if inErr == nil && out.Before(in) {
			verr.Add("time_out", "The time out must be a time after or equal to time in.")
		}
	}
	if len(r.Remarks) > 1000 {
		verr.Add("remarks", "The remarks may not be greater than 1000 characters.")
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

func (r TimeLogData) GetLogDate() time.Time {
	t, _ := time.Parse(DateLayout, r.LogDate)
	return t
}

type TimeLogView struct {
	ID          string    `json:"id"`
	PersonnelID string    `json:"personnel_id,omitempty"`
	DirectorID  string    `json:"director_id,omitempty"`
	AccountType string    `json:"account_type"`
	AccountName string    `json:"account_name"`
	LogDate     string    `json:"log_date"`
	TimeIn      string    `json:"time_in"`
	TimeOut     string    `json:"time_out,omitempty"`
	Remarks     string    `json:"remarks,omitempty"`
	IsOpen      bool      `json:"is_open"`
	CreatedAt   time.Time `json:"created_at"`
}

type TimeLogStatus string

const (
	TimeLogOpen   TimeLogStatus = "open"
	TimeLogClosed TimeLogStatus = "closed"
)

type TimeLogFilter struct {
	apimodels.Pagination
	Search      string        `query:"search"`
	Status      TimeLogStatus `query:"status"`
	PersonnelID string        `query:"personnel_id"`
	DirectorID  string        `query:"director_id"`
	DateFrom    string        `query:"date_from"`
	DateTo      string        `query:"date_to"`
	SortDir     string        `query:"sort_dir"`
}

func (r TimeLogFilter) Validate() error {
	verr := models.NewValidationError("The given data was invalid.")
	if r.Status != "" && r.Status != TimeLogOpen && r.Status != TimeLogClosed {
		verr.Add("status", "The selected status is invalid.")
	}
	if r.DateFrom != "" {
		if _, err := time.Parse(DateLayout, r.DateFrom); err != nil {
			verr.Add("date_from", "The date from is not a valid date.")
		}
	}
	if r.DateTo != "" {
		if _, err := time.Parse(DateLayout, r.DateTo); err != nil {
			verr.Add("date_to", "The date to is not a valid date.")
		}
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

type TimeLogStats struct {
	Total  int64 `json:"total"`
	Open   int64 `json:"open"`
	Closed int64 `json:"closed"`
	Today  int64 `json:"today"`
}

type TimeLogListResponse struct {
	Items []TimeLogView `json:"items"`
	Stats TimeLogStats  `json:"stats"`
}

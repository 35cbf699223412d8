package dbmodels

import (
	"time"
	timelogapimodels "travel-order-backend/models/api/time-log"
)

type TimeLog struct {
	BaseModel
	PersonnelID *string    `gorm:"type:varchar(36);index"`
	Personnel   *Personnel `gorm:"foreignKey:PersonnelID"`
	DirectorID  *string    `gorm:"type:varchar(36);index"`
	Director    *Director  `gorm:"foreignKey:DirectorID"`
	LogDate     time.Time  `gorm:"type:date;index"`
	TimeIn      string     `gorm:"type:varchar(5)"`
	TimeOut     *string    `gorm:"type:varchar(5)"`
	Remarks     string     `gorm:"type:text"`
}

func (r TimeLog) IsOpen() bool {
	return r.TimeOut == nil || *r.TimeOut == ""
}

func (r TimeLog) ToModel() timelogapimodels.TimeLogView {
	result := timelogapimodels.TimeLogView{
		ID:        r.ID,
		LogDate:   r.LogDate.Format(timelogapimodels.DateLayout),
		TimeIn:    r.TimeIn,
		Remarks:   r.Remarks,
		IsOpen:    r.IsOpen(),
		CreatedAt: r.CreatedAt,
	}
	if r.TimeOut != nil {
		result.TimeOut = *r.TimeOut
	}
	if r.PersonnelID != nil {
		result.PersonnelID = *r.PersonnelID
		result.AccountType = "personnel"
		if r.Personnel != nil {
			result.AccountName = r.Personnel.GetFullName()
		}
	}
	if r.DirectorID != nil {
		result.DirectorID = *r.DirectorID
		result.AccountType = "director"
		if r.Director != nil {
			result.AccountName = r.Director.GetFullName()
		}
	}
	return result
}

package dbmodels

import (
	"time"
	"travel-order-backend/models"
	travelorderapimodels "travel-order-backend/models/api/travel-order"
)

type TravelOrder struct {
	BaseModel
	PersonnelID                string                   `gorm:"type:varchar(36);index"`
	Personnel                  *Personnel               `gorm:"foreignKey:PersonnelID"`
	TravelPurpose              string                   `gorm:"type:varchar(500)"`
	Destination                string                   `gorm:"type:varchar(255)"`
	OfficialStation            string                   `gorm:"type:varchar(255)"`
	StartDate                  time.Time                `gorm:"type:date"`
	EndDate                    time.Time                `gorm:"type:date"`
	Objectives                 string                   `gorm:"type:text"`
	PerDiemsExpenses           *float64                 `gorm:"type:decimal(12,2)"`
	PerDiemsNote               string                   `gorm:"type:varchar(255)"`
	AssistantOrLaborersAllowed string                   `gorm:"type:varchar(255)"`
	Appropriation              string                   `gorm:"type:varchar(255)"`
	Remarks                    string                   `gorm:"type:text"`
	Status                     models.TravelOrderStatus `gorm:"type:varchar(20);index;default:draft"`
	// ChainLength is fixed at submit time: 1 or 2 approval steps, 0 while draft.
	ChainLength int
	SubmittedAt *time.Time
	Approvals   []TravelOrderApproval   `gorm:"foreignKey:TravelOrderID;constraint:OnDelete:CASCADE"`
	Attachments []TravelOrderAttachment `gorm:"foreignKey:TravelOrderID;constraint:OnDelete:CASCADE"`
}

func (r TravelOrder) GetApproval(step int) *TravelOrderApproval {
	for idx := range r.Approvals {
		if r.Approvals[idx].StepOrder == step {
			return &r.Approvals[idx]
		}
	}
	return nil
}

func (r TravelOrder) ToModel() travelorderapimodels.TravelOrderView {
	result := travelorderapimodels.TravelOrderView{
		ID:                         r.ID,
		TravelPurpose:              r.TravelPurpose,
		Destination:                r.Destination,
		OfficialStation:            r.OfficialStation,
		StartDate:                  r.StartDate.Format(travelorderapimodels.DateLayout),
		EndDate:                    r.EndDate.Format(travelorderapimodels.DateLayout),
		Objectives:                 r.Objectives,
		PerDiemsExpenses:           r.PerDiemsExpenses,
		PerDiemsNote:               r.PerDiemsNote,
		AssistantOrLaborersAllowed: r.AssistantOrLaborersAllowed,
		Appropriation:              r.Appropriation,
		Remarks:                    r.Remarks,
		Status:                     r.Status,
		ChainLength:                r.ChainLength,
		SubmittedAt:                r.SubmittedAt,
		CreatedAt:                  r.CreatedAt,
		UpdatedAt:                  r.UpdatedAt,
		Approvals:                  make([]travelorderapimodels.ApprovalView, 0, len(r.Approvals)),
		Attachments:                make([]travelorderapimodels.AttachmentView, 0, len(r.Attachments)),
	}
	if r.Personnel != nil {
		result.Personnel = r.Personnel.ToShort()
	}
	for _, approval := range r.Approvals {
		result.Approvals = append(result.Approvals, approval.ToModel())
	}
	for _, attachment := range r.Attachments {
		result.Attachments = append(result.Attachments, attachment.ToModel())
	}
	return result
}

type TravelOrderApproval struct {
	BaseModel
	TravelOrderID string                `gorm:"type:varchar(36);uniqueIndex:idx_travel_order_step;index"`
	DirectorID    string                `gorm:"type:varchar(36);index"`
	Director      *Director             `gorm:"foreignKey:DirectorID"`
	StepOrder     int                   `gorm:"uniqueIndex:idx_travel_order_step"`
	Status        models.ApprovalStatus `gorm:"type:varchar(20);index;default:pending"`
	Remarks       string                `gorm:"type:text"`
	ActedAt       *time.Time
}

func (r TravelOrderApproval) ToModel() travelorderapimodels.ApprovalView {
	result := travelorderapimodels.ApprovalView{
		ID:        r.ID,
		StepOrder: r.StepOrder,
		Status:    r.Status,
		Remarks:   r.Remarks,
		ActedAt:   r.ActedAt,
	}
	if r.Director != nil {
		result.Director = r.Director.ToShort()
	}
	return result
}

type TravelOrderAttachment struct {
	BaseModel
	TravelOrderID string                `gorm:"type:varchar(36);index"`
	FilePath      string                `gorm:"type:varchar(500)"`
	FileName      string                `gorm:"type:varchar(255)"`
	ContentType   string                `gorm:"type:varchar(255)"`
	Type          models.AttachmentType `gorm:"type:varchar(20)"`
}

func (r TravelOrderAttachment) ToModel() travelorderapimodels.AttachmentView {
	return travelorderapimodels.AttachmentView{
		ID:        r.ID,
		FileName:  r.FileName,
		Type:      r.Type,
		CreatedAt: r.CreatedAt,
	}
}

// ApprovalHistory is the audit trail of workflow transitions.
type ApprovalHistory struct {
	BaseModel
	TravelOrderID string                   `gorm:"type:varchar(36);index"`
	ApprovalID    string                   `gorm:"type:varchar(36)"`
	ActorID       string                   `gorm:"type:varchar(36)"`
	ActorRole     models.UserRole          `gorm:"type:varchar(20)"`
	Action        string                   `gorm:"type:varchar(20)"`
	FromStatus    models.TravelOrderStatus `gorm:"type:varchar(20)"`
	ToStatus      models.TravelOrderStatus `gorm:"type:varchar(20)"`
	Remarks       string                   `gorm:"type:text"`
}

package travelorderapimodels

import (
	"fmt"
	"strings"
	"time"
	"travel-order-backend/models"
	apimodels "travel-order-backend/models/api"
)

const DateLayout = "2006-01-02"

// TravelOrderData is the editable part of a draft order.
type TravelOrderData struct {
	TravelPurpose              string   `json:"travel_purpose" form:"travel_purpose"`
	Destination                string   `json:"destination" form:"destination"`
	OfficialStation            string   `json:"official_station" form:"official_station"`
	StartDate                  string   `json:"start_date" form:"start_date"` // YYYY-MM-DD
	EndDate                    string   `json:"end_date" form:"end_date"`     // YYYY-MM-DD
	Objectives                 string   `json:"objectives" form:"objectives"`
	PerDiemsExpenses           *float64 `json:"per_diems_expenses" form:"per_diems_expenses"`
	PerDiemsNote               string   `json:"per_diems_note" form:"per_diems_note"`
	AssistantOrLaborersAllowed string   `json:"assistant_or_laborers_allowed" form:"assistant_or_laborers_allowed"`
	Appropriation              string   `json:"appropriation" form:"appropriation"`
	Remarks                    string   `json:"remarks" form:"remarks"`
}

func (r TravelOrderData) Validate() error {
	verr := models.NewValidationError("The given data was invalid.")
	if strings.TrimSpace(r.TravelPurpose) == "" {
		verr.Add("travel_purpose", "The travel purpose field is required.")
	} else if len(r.TravelPurpose) > 500 {
		verr.Add("travel_purpose", "The travel purpose may not be greater than 500 characters.")
	}
	if strings.TrimSpace(r.Destination) == "" {
		verr.Add("destination", "The destination field is required.")
	} else if len(r.Destination) > 255 {
		verr.Add("destination", "The destination may not be greater than 255 characters.")
	}
	if len(r.OfficialStation) > 255 {
		verr.Add("official_station", "The official station may not be greater than 255 characters.")
	}
	if len(r.PerDiemsNote) > 255 {
		verr.Add("per_diems_note", "The per diems note may not be greater than 255 characters.")
	}
	if len(r.AssistantOrLaborersAllowed) > 255 {
		verr.Add("assistant_or_laborers_allowed", "The assistant or laborers allowed may not be greater than 255 characters.")
	}
	if len(r.Appropriation) > 255 {
		verr.Add("appropriation", "The appropriation may not be greater than 255 characters.")
	}
	if r.PerDiemsExpenses != nil && *r.PerDiemsExpenses < 0 {
		verr.Add("per_diems_expenses", "The per diems expenses must be at least 0.")
	}
	start, startErr := time.Parse(DateLayout, r.StartDate)
	if startErr != nil {
		verr.Add("start_date", "The start date is not a valid date.")
	}
	end, endErr := time.Parse(DateLayout, r.EndDate)
	if endErr != nil {
		verr.Add("end_date", "The end date is not a valid date.")
	}
	if startErr == nil && endErr == nil && end.Before(start) {
		verr.Add("end_date", "The end date must be a date after or equal to start date.")
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

func (r TravelOrderData) GetStartDate() time.Time {
	t, _ := time.Parse(DateLayout, r.StartDate)
	return t
}

func (r TravelOrderData) GetEndDate() time.Time {
	t, _ := time.Parse(DateLayout, r.EndDate)
	return t
}

type TravelOrderUpdate struct {
	TravelOrderData
	DeleteAttachmentIDs []string `json:"delete_attachment_ids" form:"delete_attachment_ids"`
}

type AttachmentUpload struct {
	apimodels.Upload
	Type models.AttachmentType
}

func ValidateAttachments(list []AttachmentUpload) error {
	verr := models.NewValidationError("The given data was invalid.")
	for idx, item := range list {
		field := fmt.Sprintf("attachments.%d", idx)
		if len(item.Body) == 0 {
			verr.Add(field, "The attachment must be a file.")
		} else if len(item.Body) > models.MaxAttachmentSize {
			verr.Add(field, "Each attachment must not exceed 20 MB.")
		}
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

type SubmitRequest struct {
	RecommendingDirectorID string `json:"recommending_director_id"`
	ApprovingDirectorID    string `json:"approving_director_id"`
}

// Validate checks the shape of the selection; director state is checked by the workflow.
func (r SubmitRequest) Validate(requireRecommender bool) error {
	verr := models.NewValidationError("The given data was invalid.")
	if strings.TrimSpace(r.ApprovingDirectorID) == "" {
		verr.Add("approving_director_id", "The approving director field is required.")
	}
	if requireRecommender && strings.TrimSpace(r.RecommendingDirectorID) == "" {
		verr.Add("recommending_director_id", "The recommending director field is required.")
	}
	if r.RecommendingDirectorID != "" && r.RecommendingDirectorID == r.ApprovingDirectorID {
		verr.Add("approving_director_id", "The approving director and recommending director must be different.")
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

type ActionRequest struct {
	Action  models.ApprovalAction `json:"action"`
	Remarks string                `json:"remarks"`
}

func (r ActionRequest) Validate() error {
	if !r.Action.IsValid() {
		return models.NewFieldError("action", "The selected action is invalid.")
	}
	if len(r.Remarks) > 1000 {
		return models.NewFieldError("remarks", "The remarks may not be greater than 1000 characters.")
	}
	return nil
}

type ListFilter struct {
	apimodels.Pagination
	Status      models.TravelOrderStatus `query:"status"`
	PersonnelID string                   `query:"personnel_id"`
}

func (r ListFilter) Validate() error {
	if r.Status != "" && !r.Status.IsValid() {
		return models.NewFieldError("status", "The selected status is invalid.")
	}
	return nil
}

type HistoryFilter struct {
	apimodels.Pagination
	Filter models.HistoryFilter `query:"filter"`
}

func (r HistoryFilter) Validate() error {
	if !r.Filter.IsValid() {
		return models.NewFieldError("filter", "The selected filter is invalid.")
	}
	return nil
}

type ExportOptions struct {
	IncludeCtt bool `query:"include_ctt"`
}

type AccountShort struct {
	ID            string `json:"id"`
	FullName      string `json:"full_name"`
	Position      string `json:"position,omitempty"`
	Department    string `json:"department,omitempty"`
	DirectorLevel string `json:"director_level,omitempty"`
	HasSignature  bool   `json:"has_signature,omitempty"`
	Email         string `json:"email,omitempty"`
}

type ApprovalView struct {
	ID        string                `json:"id"`
	StepOrder int                   `json:"step_order"`
	Status    models.ApprovalStatus `json:"status"`
	Remarks   string                `json:"remarks,omitempty"`
	ActedAt   *time.Time            `json:"acted_at,omitempty"`
	Director  *AccountShort         `json:"director,omitempty"`
}

type AttachmentView struct {
	ID        string                `json:"id"`
	FileName  string                `json:"file_name"`
	Type      models.AttachmentType `json:"type"`
	CreatedAt time.Time             `json:"created_at"`
}

type TravelOrderView struct {
	ID                         string                   `json:"id"`
	TravelPurpose              string                   `json:"travel_purpose"`
	Destination                string                   `json:"destination"`
	OfficialStation            string                   `json:"official_station"`
	StartDate                  string                   `json:"start_date"`
	EndDate                    string                   `json:"end_date"`
	Objectives                 string                   `json:"objectives"`
	PerDiemsExpenses           *float64                 `json:"per_diems_expenses"`
	PerDiemsNote               string                   `json:"per_diems_note"`
	AssistantOrLaborersAllowed string                   `json:"assistant_or_laborers_allowed"`
	Appropriation              string                   `json:"appropriation"`
	Remarks                    string                   `json:"remarks"`
	Status                     models.TravelOrderStatus `json:"status"`
	ChainLength                int                      `json:"chain_length"`
	SubmittedAt                *time.Time               `json:"submitted_at"`
	CreatedAt                  time.Time                `json:"created_at"`
	UpdatedAt                  time.Time                `json:"updated_at"`
	Personnel                  *AccountShort            `json:"personnel,omitempty"`
	Approvals                  []ApprovalView           `json:"approvals"`
	Attachments                []AttachmentView         `json:"attachments"`
}

// DirectorTravelOrderView is an order together with the approval the director is expected to act on.
type DirectorTravelOrderView struct {
	TravelOrderView
	CurrentApproval *ApprovalView `json:"current_approval,omitempty"`
	IsRecommendStep bool          `json:"is_recommend_step"`
	IsApproveStep   bool          `json:"is_approve_step"`
}

type ActionResult struct {
	OrderStatus    models.TravelOrderStatus `json:"order_status"`
	ApprovalStatus models.ApprovalStatus    `json:"approval_status"`
	Message        string                   `json:"message"`
}

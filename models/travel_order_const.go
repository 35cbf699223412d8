package models

type TravelOrderStatus string

const (
	TOStatusDraft    TravelOrderStatus = "draft"
	TOStatusPending  TravelOrderStatus = "pending"
	TOStatusApproved TravelOrderStatus = "approved"
	TOStatusRejected TravelOrderStatus = "rejected"
)

func (s TravelOrderStatus) IsValid() bool {
	switch s {
	case TOStatusDraft, TOStatusPending, TOStatusApproved, TOStatusRejected:
		return true
	}
	return false
}

func (s TravelOrderStatus) IsTerminal() bool {
	return s == TOStatusApproved || s == TOStatusRejected
}

type ApprovalStatus string

const (
	ApprovalPending     ApprovalStatus = "pending"
	ApprovalRecommended ApprovalStatus = "recommended"
	ApprovalApproved    ApprovalStatus = "approved"
	ApprovalRejected    ApprovalStatus = "rejected"
)

func (s ApprovalStatus) IsTerminal() bool {
	return s == ApprovalRecommended || s == ApprovalApproved || s == ApprovalRejected
}

// OpensGate reports whether a step-1 approval in this status lets the step-2 director see the order.
func (s ApprovalStatus) OpensGate() bool {
	return s == ApprovalRecommended || s == ApprovalApproved
}

// GateOpenStatuses lists step-1 statuses that make step 2 visible.
var GateOpenStatuses = []string{string(ApprovalRecommended), string(ApprovalApproved)}

// TerminalApprovalStatuses lists per-director statuses shown in history.
var TerminalApprovalStatuses = []string{string(ApprovalRecommended), string(ApprovalApproved), string(ApprovalRejected)}

type ApprovalAction string

const (
	ActionRecommend ApprovalAction = "recommend"
	ActionApprove   ApprovalAction = "approve"
	ActionReject    ApprovalAction = "reject"
)

func (a ApprovalAction) IsValid() bool {
	return a == ActionRecommend || a == ActionApprove || a == ActionReject
}

const (
	RecommendingStep = 1
	ApprovingStep    = 2
)

type HistoryFilter string

const (
	HistoryAll         HistoryFilter = ""
	HistoryApproved    HistoryFilter = "approved"
	HistoryRecommended HistoryFilter = "recommended"
	HistoryRejected    HistoryFilter = "rejected"
)

func (f HistoryFilter) IsValid() bool {
	switch f {
	case HistoryAll, HistoryApproved, HistoryRecommended, HistoryRejected:
		return true
	}
	return false
}

type AttachmentType string

const (
	AttachmentItinerary  AttachmentType = "itinerary"
	AttachmentMemorandum AttachmentType = "memorandum"
	AttachmentInvitation AttachmentType = "invitation"
	AttachmentOther      AttachmentType = "other"
)

// NormalizeAttachmentType falls back to "other" for anything unknown.
func NormalizeAttachmentType(t string) AttachmentType {
	switch AttachmentType(t) {
	case AttachmentItinerary, AttachmentMemorandum, AttachmentInvitation:
		return AttachmentType(t)
	}
	return AttachmentOther
}

const (
	MaxAttachmentSize       = 20 * 1024 * 1024
	MaxImageSize            = 2 * 1024 * 1024
	AttachmentFolder        = "travel-order-attachments"
	SignatureFolder         = "director-signatures"
	AvatarFolder            = "avatars"
	BrandingFolder          = "branding"
	DefaultBrandingLogoText = "DATravelApp"
)

type SystemSettingCode string

const (
	BrandingLogoTextSetting SystemSettingCode = "branding_logo_text"
	BrandingLogoPathSetting SystemSettingCode = "branding_logo_path"
)

package layout

import (
	"fmt"
	"strings"
	"time"
	"travel-order-backend/lib/approval-workflow/chain"
	"travel-order-backend/lib/utils/helpers"
	dbmodels "travel-order-backend/models/db"
)

const (
	Title              = "TRAVEL ORDER"
	CertificationTitle = "CERTIFICATION TO TRAVEL"
	RecommendingLabel  = "RECOMMENDING APPROVAL:"
	ApprovedLabel      = "APPROVED:"
)

var CertificationClauses = []string{
	"a. The official mission/task cannot be performed by / or assigned to any other regular/permanent official and/or employee of agency.",
	"b. The tasks/activities are necessary to fulfill the obligations as contained in his/her contract of service.",
}

type Row struct {
	Label string
	Value string
}

// SignatureBlock is one of the two signing boxes at the bottom of the form.
type SignatureBlock struct {
	Caption       string
	DirectorName  string
	SignaturePath string
	// ShowSignature is true once the director acted and has an uploaded signature.
	ShowSignature bool
	// Image is a PNG filled in by the renderer caller; nil renders a blank line.
	Image []byte
}

type Certification struct {
	Name          string
	Position      string
	DepartureDate string
	ReturnDate    string
	Purpose       string
}

type TravelOrder struct {
	OrderID         string
	Name            string
	Date            string
	Position        string
	OfficialStation string
	DepartureDate   string
	ReturnDate      string
	Rows            []Row
	Recommending    SignatureBlock
	Approving       SignatureBlock
	Certification   *Certification
}

// Build turns an order loaded with personnel and approvals into the printable form.
func Build(order dbmodels.TravelOrder, generatedAt time.Time, includeCtt bool) TravelOrder {
	name, position := helpers.NotAvailable, helpers.NotAvailable
	if order.Personnel != nil {
		name = helpers.OrNA(order.Personnel.GetFullName())
		position = helpers.OrNA(order.Personnel.Position)
	}
	result := TravelOrder{
		OrderID:         order.ID,
		Name:            name,
		Date:            helpers.FormatLongDate(generatedAt),
		Position:        position,
		OfficialStation: helpers.OrNA(order.OfficialStation),
		DepartureDate:   helpers.FormatLongDate(order.StartDate),
		ReturnDate:      helpers.FormatLongDate(order.EndDate),
		Rows: []Row{
			{Label: "Destination:", Value: helpers.OrNA(order.Destination)},
			{Label: "Purpose:", Value: helpers.OrNA(order.TravelPurpose)},
			{Label: "Objectives:", Value: helpers.OrNA(order.Objectives)},
			{Label: "Per Diems Expenses Allowed:", Value: PerDiems(order)},
			{Label: "Assistant or Laborers Allowed:", Value: helpers.OrNA(order.AssistantOrLaborersAllowed)},
			{Label: "Appropriation to which travel should be charged:", Value: helpers.OrNA(order.Appropriation)},
			{Label: "Remarks or Special Instructions:", Value: helpers.OrNA(order.Remarks)},
		},
		Recommending: SignatureBlock{Caption: RecommendingLabel, DirectorName: helpers.NotAvailable},
		Approving:    SignatureBlock{Caption: ApprovedLabel, DirectorName: helpers.NotAvailable},
	}

	// a one step chain prints its only director in the approved box
	for _, approval := range order.Approvals {
		step := chain.NewStep(approval.StepOrder, order.ChainLength)
		block := &result.Recommending
		if step.IsApproveStep() {
			block = &result.Approving
		}
		fillBlock(block, approval, step)
	}

	if includeCtt {
		result.Certification = &Certification{
			Name:          name,
			Position:      position,
			DepartureDate: result.DepartureDate,
			ReturnDate:    result.ReturnDate,
			Purpose:       helpers.OrNA(order.TravelPurpose),
		}
	}
	return result
}

func fillBlock(block *SignatureBlock, approval dbmodels.TravelOrderApproval, step chain.Step) {
	if approval.Director == nil {
		return
	}
	block.DirectorName = helpers.OrNA(approval.Director.GetFullName())
	block.SignaturePath = approval.Director.SignaturePath
	block.ShowSignature = block.SignaturePath != "" && chain.SignatureVisible(step, approval.Status)
}

// PerDiems prefers the free text note, then the amount.
func PerDiems(order dbmodels.TravelOrder) string {
	if strings.TrimSpace(order.PerDiemsNote) != "" {
		return order.PerDiemsNote
	}
	if order.PerDiemsExpenses != nil {
		return FormatAmount(*order.PerDiemsExpenses)
	}
	return helpers.NotAvailable
}

// FormatAmount renders 1234.5 as "1,234.50".
func FormatAmount(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	raw := fmt.Sprintf("%.2f", amount)
	intPart, frac := raw[:len(raw)-3], raw[len(raw)-3:]
	var b strings.Builder
	for idx, r := range intPart {
		if idx > 0 && (len(intPart)-idx)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + frac
}

func (c Certification) Text() string {
	return fmt.Sprintf("This is to certify that %s, %s, is allowed to go on an official travel on %s to %s with the following purpose:",
		c.Name, c.Position, c.DepartureDate, c.ReturnDate)
}

func PDFFileName(orderID string) string {
	return fmt.Sprintf("TRAVEL_ORDER_%s.pdf", orderID)
}

func XLSFileName(orderID string, now time.Time) string {
	return fmt.Sprintf("TRAVEL_ORDER_%s_%s.xlsx", orderID, now.Format("20060102-150405"))
}

package layout

import (
	"testing"
	"time"
	"travel-order-backend/models"
	dbmodels "travel-order-backend/models/db"

	"github.com/stretchr/testify/require"
)

func director(id, first, signature string) *dbmodels.Director {
	rec := &dbmodels.Director{SignaturePath: signature}
	rec.ID = id
	rec.FirstName = first
	rec.LastName = "Reyes"
	return rec
}

func twoStepOrder(step1, step2 models.ApprovalStatus) dbmodels.TravelOrder {
	amount := 2500.5
	personnel := &dbmodels.Personnel{}
	personnel.FirstName = "Juan"
	personnel.LastName = "Dela Cruz"
	order := dbmodels.TravelOrder{
		Personnel:        personnel,
		TravelPurpose:    "Field visit",
		Destination:      "Pagadian City",
		StartDate:        time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		EndDate:          time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		PerDiemsExpenses: &amount,
		Status:           models.TOStatusPending,
		ChainLength:      2,
		Approvals: []dbmodels.TravelOrderApproval{
			{StepOrder: 1, Status: step1, Director: director("d-1", "Ana", "director-signatures/d1.png")},
			{StepOrder: 2, Status: step2, Director: director("d-2", "Ben", "director-signatures/d2.png")},
		},
	}
	order.ID = "to-1"
	return order
}

func TestBuild(t *testing.T) {
	generatedAt := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

	t.Run("form fields with N/A defaults", func(t *testing.T) {
		doc := Build(twoStepOrder(models.ApprovalPending, models.ApprovalPending), generatedAt, false)
		require.Equal(t, "Juan Dela Cruz", doc.Name)
		require.Equal(t, "N/A", doc.Position)
		require.Equal(t, "N/A", doc.OfficialStation)
		require.Equal(t, "April 01, 2026", doc.Date)
		require.Equal(t, "March 10, 2026", doc.DepartureDate)
		require.Equal(t, "March 12, 2026", doc.ReturnDate)
		require.Equal(t, Row{Label: "Per Diems Expenses Allowed:", Value: "2,500.50"}, doc.Rows[3])
		require.Equal(t, "N/A", doc.Rows[2].Value)
		require.Nil(t, doc.Certification)
	})
	t.Run("signatures follow the approval status", func(t *testing.T) {
		doc := Build(twoStepOrder(models.ApprovalPending, models.ApprovalPending), generatedAt, false)
		require.False(t, doc.Recommending.ShowSignature)
		require.False(t, doc.Approving.ShowSignature)
		require.Equal(t, "Ana Reyes", doc.Recommending.DirectorName)
		require.Equal(t, "Ben Reyes", doc.Approving.DirectorName)

		doc = Build(twoStepOrder(models.ApprovalRecommended, models.ApprovalPending), generatedAt, false)
		require.True(t, doc.Recommending.ShowSignature)
		require.False(t, doc.Approving.ShowSignature)

		doc = Build(twoStepOrder(models.ApprovalRecommended, models.ApprovalApproved), generatedAt, false)
		require.True(t, doc.Recommending.ShowSignature)
		require.True(t, doc.Approving.ShowSignature)

		doc = Build(twoStepOrder(models.ApprovalRecommended, models.ApprovalRejected), generatedAt, false)
		require.False(t, doc.Approving.ShowSignature)
	})
	t.Run("no uploaded signature", func(t *testing.T) {
		order := twoStepOrder(models.ApprovalRecommended, models.ApprovalApproved)
		order.Approvals[1].Director.SignaturePath = ""
		doc := Build(order, generatedAt, false)
		require.False(t, doc.Approving.ShowSignature)
	})
	t.Run("single step chain fills the approved box", func(t *testing.T) {
		order := twoStepOrder(models.ApprovalApproved, models.ApprovalPending)
		order.ChainLength = 1
		order.Approvals = order.Approvals[:1]
		doc := Build(order, generatedAt, false)
		require.Equal(t, "N/A", doc.Recommending.DirectorName)
		require.Equal(t, "Ana Reyes", doc.Approving.DirectorName)
		require.True(t, doc.Approving.ShowSignature)
	})
	t.Run("certification to travel on request", func(t *testing.T) {
		doc := Build(twoStepOrder(models.ApprovalPending, models.ApprovalPending), generatedAt, true)
		require.NotNil(t, doc.Certification)
		require.Equal(t, "Field visit", doc.Certification.Purpose)
		require.Contains(t, doc.Certification.Text(), "Juan Dela Cruz, N/A, is allowed to go on an official travel on March 10, 2026 to March 12, 2026")
	})
	t.Run("per diems note wins over amount", func(t *testing.T) {
		order := twoStepOrder(models.ApprovalPending, models.ApprovalPending)
		order.PerDiemsNote = "As per regulations"
		require.Equal(t, "As per regulations", PerDiems(order))
		order.PerDiemsNote = ""
		order.PerDiemsExpenses = nil
		require.Equal(t, "N/A", PerDiems(order))
	})
}

func TestFormatAmount(t *testing.T) {
	require.Equal(t, "0.00", FormatAmount(0))
	require.Equal(t, "999.99", FormatAmount(999.99))
	require.Equal(t, "1,000.00", FormatAmount(1000))
	require.Equal(t, "1,234,567.89", FormatAmount(1234567.891))
	require.Equal(t, "-1,500.00", FormatAmount(-1500))
}

func TestFileNames(t *testing.T) {
	require.Equal(t, "TRAVEL_ORDER_to-1.pdf", PDFFileName("to-1"))
	require.Equal(t, "TRAVEL_ORDER_to-1_20260401-083005.xlsx", XLSFileName("to-1", time.Date(2026, 4, 1, 8, 30, 5, 0, time.UTC)))
}

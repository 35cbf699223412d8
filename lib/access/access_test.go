package access

import (
	"testing"
	testdb "travel-order-backend/lib/utils/test-db"
	"travel-order-backend/models"
	dbmodels "travel-order-backend/models/db"

	"github.com/stretchr/testify/require"
)

func order(step1, step2 models.ApprovalStatus) dbmodels.TravelOrder {
	rec := dbmodels.TravelOrder{
		PersonnelID: "p-1",
		Status:      models.TOStatusPending,
		ChainLength: 2,
		Approvals: []dbmodels.TravelOrderApproval{
			{DirectorID: "d-1", StepOrder: 1, Status: step1},
			{DirectorID: "d-2", StepOrder: 2, Status: step2},
		},
	}
	rec.ID = "to-1"
	return rec
}

func TestCanView(t *testing.T) {
	personnel := models.Session{UserID: "p-1", Role: models.PersonnelRole}
	stranger := models.Session{UserID: "p-2", Role: models.PersonnelRole}
	recommender := models.Session{UserID: "d-1", Role: models.DirectorRole}
	approver := models.Session{UserID: "d-2", Role: models.DirectorRole}
	outsider := models.Session{UserID: "d-3", Role: models.DirectorRole}
	admin := models.Session{UserID: "a-1", Role: models.IctAdminRole}

	t.Run("owner and admin", func(t *testing.T) {
		rec := order(models.ApprovalPending, models.ApprovalPending)
		require.True(t, CanView(personnel, rec))
		require.True(t, CanView(admin, rec))
		require.False(t, CanView(stranger, rec))
	})
	t.Run("step 2 waits for the gate", func(t *testing.T) {
		rec := order(models.ApprovalPending, models.ApprovalPending)
		require.True(t, CanView(recommender, rec))
		require.False(t, CanView(approver, rec))
		require.False(t, CanView(outsider, rec))

		rec = order(models.ApprovalRecommended, models.ApprovalPending)
		require.True(t, CanView(approver, rec))

		rec = order(models.ApprovalRejected, models.ApprovalPending)
		require.False(t, CanView(approver, rec))
		require.True(t, CanView(recommender, rec))
	})
	t.Run("single step chain", func(t *testing.T) {
		rec := order(models.ApprovalPending, models.ApprovalPending)
		rec.ChainLength = 1
		rec.Approvals = rec.Approvals[:1]
		rec.Approvals[0].DirectorID = "d-2"
		require.True(t, CanView(approver, rec))
	})
}

func TestGetVisible(t *testing.T) {
	conn := testdb.Open(t)
	p := testdb.CreatePersonnel(t, conn, "juan")
	draft := testdb.CreateDraft(t, conn, p.ID)
	provider := NewInstance(conn)

	t.Run("owner", func(t *testing.T) {
		rec, err := provider.GetVisible(models.Session{UserID: p.ID, Role: models.PersonnelRole}, draft.ID)
		require.Nil(t, err)
		require.Equal(t, draft.ID, rec.ID)
	})
	t.Run("missing and foreign look the same", func(t *testing.T) {
		var notVisible *models.NotVisibleError
		_, err := provider.GetVisible(models.Session{UserID: "someone", Role: models.PersonnelRole}, draft.ID)
		require.ErrorAs(t, err, &notVisible)
		_, err = provider.GetVisible(models.Session{UserID: p.ID, Role: models.PersonnelRole}, "missing")
		require.ErrorAs(t, err, &notVisible)
		require.Equal(t, "Travel order not found.", notVisible.Message)
	})
}

package approvalworkflow

import (
	"context"
	"sync"
	"testing"
	"time"
	travelorderstore "travel-order-backend/lib/travel-order/store"
	"travel-order-backend/lib/utils/clock"
	testdb "travel-order-backend/lib/utils/test-db"
	"travel-order-backend/models"
	apimodels "travel-order-backend/models/api"
	travelorderapimodels "travel-order-backend/models/api/travel-order"
	dbmodels "travel-order-backend/models/db"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingNotifier) add(event string, order dbmodels.TravelOrder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event+":"+string(order.Status))
}

func (r *recordingNotifier) Submitted(_ context.Context, order dbmodels.TravelOrder) {
	r.add("submitted", order)
}

func (r *recordingNotifier) Recommended(_ context.Context, order dbmodels.TravelOrder) {
	r.add("recommended", order)
}

func (r *recordingNotifier) Decided(_ context.Context, order dbmodels.TravelOrder) {
	r.add("decided", order)
}

type fixture struct {
	conn        *gorm.DB
	clock       *clock.Manual
	notifier    *recordingNotifier
	engine      Provider
	personnel   models.Session
	other       models.Session
	recommender models.Session
	approver    models.Session
	outsider    models.Session
}

func newFixture(t *testing.T, requireRecommender bool) fixture {
	conn := testdb.Open(t)
	clk := clock.NewManual(time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC))
	notifier := &recordingNotifier{}
	p := testdb.CreatePersonnel(t, conn, "juan")
	o := testdb.CreatePersonnel(t, conn, "maria")
	d1 := testdb.CreateDirector(t, conn, "recommender")
	d2 := testdb.CreateDirector(t, conn, "approver")
	d3 := testdb.CreateDirector(t, conn, "outsider")
	return fixture{
		conn:        conn,
		clock:       clk,
		notifier:    notifier,
		engine:      NewInstance(conn, clk, notifier, requireRecommender),
		personnel:   models.Session{UserID: p.ID, Role: models.PersonnelRole},
		other:       models.Session{UserID: o.ID, Role: models.PersonnelRole},
		recommender: models.Session{UserID: d1.ID, Role: models.DirectorRole},
		approver:    models.Session{UserID: d2.ID, Role: models.DirectorRole},
		outsider:    models.Session{UserID: d3.ID, Role: models.DirectorRole},
	}
}

func (f fixture) submitted(t *testing.T) dbmodels.TravelOrder {
	draft := testdb.CreateDraft(t, f.conn, f.personnel.UserID)
	order, err := f.engine.Submit(context.TODO(), f.personnel, draft.ID, travelorderapimodels.SubmitRequest{
		RecommendingDirectorID: f.recommender.UserID,
		ApprovingDirectorID:    f.approver.UserID,
	})
	require.Nil(t, err)
	return *order
}

func (f fixture) act(session models.Session, orderID string, action models.ApprovalAction) (travelorderapimodels.ActionResult, error) {
	return f.engine.Act(context.TODO(), session, orderID, travelorderapimodels.ActionRequest{Action: action})
}

func (f fixture) order(t *testing.T, id string) dbmodels.TravelOrder {
	order, err := travelorderstore.NewInstance(f.conn).GetByID(id)
	require.Nil(t, err)
	require.NotNil(t, order)
	return *order
}

func TestSubmit(t *testing.T) {
	t.Run("draft becomes pending with two pending steps", func(t *testing.T) {
		f := newFixture(t, true)
		order := f.submitted(t)

		require.Equal(t, models.TOStatusPending, order.Status)
		require.Equal(t, 2, order.ChainLength)
		require.NotNil(t, order.SubmittedAt)
		require.True(t, order.SubmittedAt.Equal(f.clock.Now()))
		require.Len(t, order.Approvals, 2)
		require.Equal(t, f.recommender.UserID, order.Approvals[0].DirectorID)
		require.Equal(t, 1, order.Approvals[0].StepOrder)
		require.Equal(t, models.ApprovalPending, order.Approvals[0].Status)
		require.Equal(t, f.approver.UserID, order.Approvals[1].DirectorID)
		require.Equal(t, 2, order.Approvals[1].StepOrder)
		require.Equal(t, []string{"submitted:pending"}, f.notifier.events)
	})
	t.Run("only drafts can be submitted", func(t *testing.T) {
		f := newFixture(t, true)
		order := f.submitted(t)
		_, err := f.engine.Submit(context.TODO(), f.personnel, order.ID, travelorderapimodels.SubmitRequest{
			RecommendingDirectorID: f.recommender.UserID,
			ApprovingDirectorID:    f.approver.UserID,
		})
		var transitionErr *models.InvalidTransitionError
		require.ErrorAs(t, err, &transitionErr)
		require.Len(t, f.order(t, order.ID).Approvals, 2)
	})
	t.Run("foreign order is not visible", func(t *testing.T) {
		f := newFixture(t, true)
		draft := testdb.CreateDraft(t, f.conn, f.personnel.UserID)
		_, err := f.engine.Submit(context.TODO(), f.other, draft.ID, travelorderapimodels.SubmitRequest{
			RecommendingDirectorID: f.recommender.UserID,
			ApprovingDirectorID:    f.approver.UserID,
		})
		var notVisible *models.NotVisibleError
		require.ErrorAs(t, err, &notVisible)
		require.Equal(t, models.TOStatusDraft, f.order(t, draft.ID).Status)
	})
	t.Run("directors cannot submit", func(t *testing.T) {
		f := newFixture(t, true)
		draft := testdb.CreateDraft(t, f.conn, f.personnel.UserID)
		_, err := f.engine.Submit(context.TODO(), f.approver, draft.ID, travelorderapimodels.SubmitRequest{
			RecommendingDirectorID: f.recommender.UserID,
			ApprovingDirectorID:    f.approver.UserID,
		})
		var forbidden *models.ForbiddenError
		require.ErrorAs(t, err, &forbidden)
	})
	t.Run("same director twice is rejected", func(t *testing.T) {
		f := newFixture(t, true)
		draft := testdb.CreateDraft(t, f.conn, f.personnel.UserID)
		_, err := f.engine.Submit(context.TODO(), f.personnel, draft.ID, travelorderapimodels.SubmitRequest{
			RecommendingDirectorID: f.approver.UserID,
			ApprovingDirectorID:    f.approver.UserID,
		})
		var verr *models.ValidationError
		require.ErrorAs(t, err, &verr)
		require.Contains(t, verr.Fields, "approving_director_id")
	})
	t.Run("inactive director leaves the draft untouched", func(t *testing.T) {
		f := newFixture(t, true)
		testdb.DeactivateDirector(t, f.conn, f.recommender.UserID)
		draft := testdb.CreateDraft(t, f.conn, f.personnel.UserID)
		_, err := f.engine.Submit(context.TODO(), f.personnel, draft.ID, travelorderapimodels.SubmitRequest{
			RecommendingDirectorID: f.recommender.UserID,
			ApprovingDirectorID:    f.approver.UserID,
		})
		var verr *models.ValidationError
		require.ErrorAs(t, err, &verr)
		require.Contains(t, verr.Fields, "recommending_director_id")

		order := f.order(t, draft.ID)
		require.Equal(t, models.TOStatusDraft, order.Status)
		require.Empty(t, order.Approvals)
	})
	t.Run("submit that loses to a committed submit", func(t *testing.T) {
		f := newFixture(t, true)
		draft := testdb.CreateDraft(t, f.conn, f.personnel.UserID)
		var once sync.Once
		err := f.conn.Callback().Query().After("gorm:query").Register("test:competing_submit", func(tx *gorm.DB) {
			if tx.Statement.Table != "travel_orders" {
				return
			}
			// another request submits the same draft between our read and our write
			once.Do(func() {
				competing := tx.Session(&gorm.Session{NewDB: true})
				require.Nil(t, competing.Model(&dbmodels.TravelOrder{}).Where("id = ?", draft.ID).Update("status", models.TOStatusPending).Error)
				for idx, directorID := range []string{f.recommender.UserID, f.approver.UserID} {
					rec := dbmodels.TravelOrderApproval{
						TravelOrderID: draft.ID,
						DirectorID:    directorID,
						StepOrder:     idx + 1,
						Status:        models.ApprovalPending,
					}
					require.Nil(t, competing.Omit("Director").Create(&rec).Error)
				}
			})
		})
		require.Nil(t, err)

		_, err = f.engine.Submit(context.TODO(), f.personnel, draft.ID, travelorderapimodels.SubmitRequest{
			RecommendingDirectorID: f.recommender.UserID,
			ApprovingDirectorID:    f.approver.UserID,
		})
		var transitionErr *models.InvalidTransitionError
		require.ErrorAs(t, err, &transitionErr)
	})
	t.Run("recommender is required by default", func(t *testing.T) {
		f := newFixture(t, true)
		draft := testdb.CreateDraft(t, f.conn, f.personnel.UserID)
		_, err := f.engine.Submit(context.TODO(), f.personnel, draft.ID, travelorderapimodels.SubmitRequest{
			ApprovingDirectorID: f.approver.UserID,
		})
		var verr *models.ValidationError
		require.ErrorAs(t, err, &verr)
		require.Contains(t, verr.Fields, "recommending_director_id")
	})
}

func TestActTwoStepChain(t *testing.T) {
	t.Run("recommend then approve", func(t *testing.T) {
		f := newFixture(t, true)
		order := f.submitted(t)

		// step 2 is hidden until step 1 acts
		_, err := f.engine.GetPending(f.approver, order.ID)
		var notVisible *models.NotVisibleError
		require.ErrorAs(t, err, &notVisible)
		list, rowCount, err := f.engine.ListPending(f.approver, apimodels.Pagination{})
		require.Nil(t, err)
		require.Empty(t, list)
		require.Equal(t, int64(0), rowCount)
		_, err = f.act(f.approver, order.ID, models.ActionApprove)
		require.ErrorAs(t, err, &notVisible)

		view, err := f.engine.GetPending(f.recommender, order.ID)
		require.Nil(t, err)
		require.True(t, view.IsRecommendStep)
		require.False(t, view.IsApproveStep)

		f.clock.Advance(time.Hour)
		result, err := f.act(f.recommender, order.ID, models.ActionRecommend)
		require.Nil(t, err)
		require.Equal(t, models.TOStatusPending, result.OrderStatus)
		require.Equal(t, models.ApprovalRecommended, result.ApprovalStatus)

		list, rowCount, err = f.engine.ListPending(f.approver, apimodels.Pagination{})
		require.Nil(t, err)
		require.Len(t, list, 1)
		require.Equal(t, int64(1), rowCount)
		require.True(t, list[0].IsApproveStep)

		completed, _, err := f.engine.ListRecommendStepCompleted(f.recommender, apimodels.Pagination{})
		require.Nil(t, err)
		require.Len(t, completed, 1)

		f.clock.Advance(time.Hour)
		result, err = f.act(f.approver, order.ID, models.ActionApprove)
		require.Nil(t, err)
		require.Equal(t, models.TOStatusApproved, result.OrderStatus)

		stored := f.order(t, order.ID)
		require.Equal(t, models.TOStatusApproved, stored.Status)
		require.Equal(t, models.ApprovalRecommended, stored.Approvals[0].Status)
		require.Equal(t, models.ApprovalApproved, stored.Approvals[1].Status)
		require.NotNil(t, stored.Approvals[1].ActedAt)
		require.True(t, stored.Approvals[1].ActedAt.Equal(f.clock.Now()))
		require.Equal(t, []string{"submitted:pending", "recommended:pending", "decided:approved"}, f.notifier.events)

		completed, _, err = f.engine.ListRecommendStepCompleted(f.recommender, apimodels.Pagination{})
		require.Nil(t, err)
		require.Empty(t, completed)
	})
	t.Run("reject at step 1 ends the chain", func(t *testing.T) {
		f := newFixture(t, true)
		order := f.submitted(t)

		result, err := f.engine.Act(context.TODO(), f.recommender, order.ID, travelorderapimodels.ActionRequest{
			Action:  models.ActionReject,
			Remarks: "Budget exhausted",
		})
		require.Nil(t, err)
		require.Equal(t, models.TOStatusRejected, result.OrderStatus)

		stored := f.order(t, order.ID)
		require.Equal(t, models.TOStatusRejected, stored.Status)
		require.Equal(t, "Budget exhausted", stored.Approvals[0].Remarks)
		require.Equal(t, models.ApprovalPending, stored.Approvals[1].Status)

		_, err = f.engine.GetPending(f.approver, order.ID)
		var notVisible *models.NotVisibleError
		require.ErrorAs(t, err, &notVisible)
		_, err = f.act(f.approver, order.ID, models.ActionReject)
		require.ErrorAs(t, err, &notVisible)
	})
	t.Run("reject at step 2", func(t *testing.T) {
		f := newFixture(t, true)
		order := f.submitted(t)
		_, err := f.act(f.recommender, order.ID, models.ActionRecommend)
		require.Nil(t, err)
		result, err := f.act(f.approver, order.ID, models.ActionReject)
		require.Nil(t, err)
		require.Equal(t, models.TOStatusRejected, result.OrderStatus)
	})
	t.Run("action must match the step", func(t *testing.T) {
		f := newFixture(t, true)
		order := f.submitted(t)

		_, err := f.act(f.recommender, order.ID, models.ActionApprove)
		var stepErr *models.InvalidStepError
		require.ErrorAs(t, err, &stepErr)

		_, err = f.act(f.recommender, order.ID, models.ActionRecommend)
		require.Nil(t, err)
		_, err = f.act(f.approver, order.ID, models.ActionRecommend)
		require.ErrorAs(t, err, &stepErr)
		require.Equal(t, models.TOStatusPending, f.order(t, order.ID).Status)
	})
	t.Run("director outside the chain sees nothing", func(t *testing.T) {
		f := newFixture(t, true)
		order := f.submitted(t)
		_, err := f.act(f.outsider, order.ID, models.ActionReject)
		var notVisible *models.NotVisibleError
		require.ErrorAs(t, err, &notVisible)
	})
	t.Run("personnel cannot act", func(t *testing.T) {
		f := newFixture(t, true)
		order := f.submitted(t)
		_, err := f.act(f.personnel, order.ID, models.ActionReject)
		var forbidden *models.ForbiddenError
		require.ErrorAs(t, err, &forbidden)
	})
	t.Run("a step is decided once", func(t *testing.T) {
		f := newFixture(t, true)
		order := f.submitted(t)
		_, err := f.act(f.recommender, order.ID, models.ActionRecommend)
		require.Nil(t, err)
		_, err = f.act(f.recommender, order.ID, models.ActionReject)
		var notVisible *models.NotVisibleError
		require.ErrorAs(t, err, &notVisible)
		require.Equal(t, models.TOStatusPending, f.order(t, order.ID).Status)
	})
	t.Run("concurrent decisions on one step", func(t *testing.T) {
		f := newFixture(t, true)
		order := f.submitted(t)

		actions := []models.ApprovalAction{models.ActionRecommend, models.ActionReject, models.ActionRecommend, models.ActionReject}
		errs := make([]error, len(actions))
		wg := sync.WaitGroup{}
		for idx, action := range actions {
			wg.Add(1)
			go func(idx int, action models.ApprovalAction) {
				defer wg.Done()
				_, errs[idx] = f.act(f.recommender, order.ID, action)
			}(idx, action)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
			}
		}
		require.Equal(t, 1, succeeded)

		var history int64
		require.Nil(t, f.conn.Model(&dbmodels.ApprovalHistory{}).
			Where("travel_order_id = ? AND action <> ?", order.ID, "submit").
			Count(&history).Error)
		require.Equal(t, int64(1), history)
	})
}

func TestActSingleStepChain(t *testing.T) {
	t.Run("approving director alone decides", func(t *testing.T) {
		f := newFixture(t, false)
		draft := testdb.CreateDraft(t, f.conn, f.personnel.UserID)
		order, err := f.engine.Submit(context.TODO(), f.personnel, draft.ID, travelorderapimodels.SubmitRequest{
			ApprovingDirectorID: f.approver.UserID,
		})
		require.Nil(t, err)
		require.Equal(t, 1, order.ChainLength)
		require.Len(t, order.Approvals, 1)
		require.Equal(t, 1, order.Approvals[0].StepOrder)

		view, err := f.engine.GetPending(f.approver, order.ID)
		require.Nil(t, err)
		require.False(t, view.IsRecommendStep)
		require.True(t, view.IsApproveStep)

		_, err = f.act(f.approver, order.ID, models.ActionRecommend)
		var stepErr *models.InvalidStepError
		require.ErrorAs(t, err, &stepErr)

		result, err := f.act(f.approver, order.ID, models.ActionApprove)
		require.Nil(t, err)
		require.Equal(t, models.TOStatusApproved, result.OrderStatus)
	})
}

func TestListHistory(t *testing.T) {
	f := newFixture(t, true)
	approved := f.submitted(t)
	_, err := f.act(f.recommender, approved.ID, models.ActionRecommend)
	require.Nil(t, err)
	_, err = f.act(f.approver, approved.ID, models.ActionApprove)
	require.Nil(t, err)

	rejected := f.submitted(t)
	_, err = f.act(f.recommender, rejected.ID, models.ActionReject)
	require.Nil(t, err)

	waiting := f.submitted(t)
	_, err = f.act(f.recommender, waiting.ID, models.ActionRecommend)
	require.Nil(t, err)

	untouched := f.submitted(t)

	ids := func(list []travelorderapimodels.TravelOrderView) []string {
		result := make([]string, 0, len(list))
		for _, order := range list {
			result = append(result, order.ID)
		}
		return result
	}
	history := func(session models.Session, filter models.HistoryFilter) []string {
		list, _, err := f.engine.ListHistory(session, travelorderapimodels.HistoryFilter{Filter: filter})
		require.Nil(t, err)
		return ids(list)
	}

	t.Run("everything the director decided", func(t *testing.T) {
		require.ElementsMatch(t, []string{approved.ID, rejected.ID, waiting.ID}, history(f.recommender, models.HistoryAll))
		require.NotContains(t, history(f.recommender, models.HistoryAll), untouched.ID)
		require.ElementsMatch(t, []string{approved.ID}, history(f.approver, models.HistoryAll))
	})
	t.Run("approved uses the order status", func(t *testing.T) {
		require.ElementsMatch(t, []string{approved.ID}, history(f.recommender, models.HistoryApproved))
		require.ElementsMatch(t, []string{approved.ID}, history(f.approver, models.HistoryApproved))
	})
	t.Run("recommended uses the own step status", func(t *testing.T) {
		require.ElementsMatch(t, []string{approved.ID, waiting.ID}, history(f.recommender, models.HistoryRecommended))
		require.Empty(t, history(f.approver, models.HistoryRecommended))
	})
	t.Run("rejected uses the own step status", func(t *testing.T) {
		require.ElementsMatch(t, []string{rejected.ID}, history(f.recommender, models.HistoryRejected))
	})
	t.Run("unknown filter", func(t *testing.T) {
		_, _, err := f.engine.ListHistory(f.recommender, travelorderapimodels.HistoryFilter{Filter: "archived"})
		var verr *models.ValidationError
		require.ErrorAs(t, err, &verr)
	})
}

func TestListOrdering(t *testing.T) {
	f := newFixture(t, true)
	request := travelorderapimodels.SubmitRequest{
		RecommendingDirectorID: f.recommender.UserID,
		ApprovingDirectorID:    f.approver.UserID,
	}
	first := testdb.CreateDraft(t, f.conn, f.personnel.UserID)
	second := testdb.CreateDraft(t, f.conn, f.personnel.UserID)
	third := testdb.CreateDraft(t, f.conn, f.personnel.UserID)
	for _, id := range []string{third.ID, first.ID, second.ID} {
		f.clock.Advance(time.Hour)
		_, err := f.engine.Submit(context.TODO(), f.personnel, id, request)
		require.Nil(t, err)
	}

	t.Run("pending queue by submission, newest first", func(t *testing.T) {
		list, _, err := f.engine.ListPending(f.recommender, apimodels.Pagination{})
		require.Nil(t, err)
		require.Len(t, list, 3)
		require.Equal(t, []string{second.ID, first.ID, third.ID}, []string{list[0].ID, list[1].ID, list[2].ID})
	})
	t.Run("history by last change, newest first", func(t *testing.T) {
		for _, id := range []string{first.ID, second.ID, third.ID} {
			_, err := f.act(f.recommender, id, models.ActionRecommend)
			require.Nil(t, err)
		}
		for id, day := range map[string]int{first.ID: 3, second.ID: 1, third.ID: 2} {
			updatedAt := time.Date(2026, 3, day, 9, 0, 0, 0, time.UTC)
			require.Nil(t, f.conn.Model(&dbmodels.TravelOrder{}).Where("id = ?", id).UpdateColumn("updated_at", updatedAt).Error)
		}
		list, _, err := f.engine.ListHistory(f.recommender, travelorderapimodels.HistoryFilter{Filter: models.HistoryAll})
		require.Nil(t, err)
		require.Len(t, list, 3)
		require.Equal(t, []string{first.ID, third.ID, second.ID}, []string{list[0].ID, list[1].ID, list[2].ID})
	})
}

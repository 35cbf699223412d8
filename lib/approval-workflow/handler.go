package approvalworkflow

import (
	"context"
	"travel-order-backend/config"
	"travel-order-backend/db"
	"travel-order-backend/lib/approval-workflow/chain"
	directorstore "travel-order-backend/lib/director/store"
	"travel-order-backend/lib/notify"
	approvalstore "travel-order-backend/lib/travel-order/approval-store"
	historystore "travel-order-backend/lib/travel-order/history-store"
	travelorderstore "travel-order-backend/lib/travel-order/store"
	"travel-order-backend/lib/utils/clock"
	initchecker "travel-order-backend/lib/utils/init-checker"
	"travel-order-backend/models"
	apimodels "travel-order-backend/models/api"
	travelorderapimodels "travel-order-backend/models/api/travel-order"
	dbmodels "travel-order-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const MsgNotPendingYourAction = "Travel order not found or not pending your action."

type Provider interface {
	Submit(ctx context.Context, session models.Session, orderID string, request travelorderapimodels.SubmitRequest) (*dbmodels.TravelOrder, error)
	Act(ctx context.Context, session models.Session, orderID string, request travelorderapimodels.ActionRequest) (travelorderapimodels.ActionResult, error)
	GetPending(session models.Session, orderID string) (travelorderapimodels.DirectorTravelOrderView, error)
	ListPending(session models.Session, pagination apimodels.Pagination) (list []travelorderapimodels.DirectorTravelOrderView, rowCount int64, err error)
	ListHistory(session models.Session, filter travelorderapimodels.HistoryFilter) (list []travelorderapimodels.TravelOrderView, rowCount int64, err error)
	ListRecommendStepCompleted(session models.Session, pagination apimodels.Pagination) (list []travelorderapimodels.TravelOrderView, rowCount int64, err error)
	RequireRecommender() bool
}

var Instance Provider

func NewHandler() {
	initchecker.CheckInit(
		"db", db.DB,
		"notify", notify.Instance,
	)
	Instance = NewInstance(db.DB, clock.Real(), notify.Instance, *config.Conf.Workflow.RequireRecommender)
}

func NewInstance(conn *gorm.DB, clk clock.Clock, notifier notify.Provider, requireRecommender bool) Provider {
	return &impl{
		db:                 conn,
		clock:              clk,
		notifier:           notifier,
		requireRecommender: requireRecommender,
		orderStore:         travelorderstore.NewInstance(conn),
		approvalStore:      approvalstore.NewInstance(conn),
	}
}

type impl struct {
	db                 *gorm.DB
	clock              clock.Clock
	notifier           notify.Provider
	requireRecommender bool
	orderStore         travelorderstore.Provider
	approvalStore      approvalstore.Provider
}

func (i impl) RequireRecommender() bool {
	return i.requireRecommender
}

func (i impl) Submit(ctx context.Context, session models.Session, orderID string, request travelorderapimodels.SubmitRequest) (*dbmodels.TravelOrder, error) {
	if !session.IsPersonnel() {
		return nil, models.NewForbiddenError("Only personnel can submit travel orders.")
	}
	if err := request.Validate(i.requireRecommender); err != nil {
		return nil, err
	}
	logger := log.
		WithField("travel_order_id", orderID).
		WithField("personnel_id", session.UserID)
	now := i.clock.Now()
	directorIDs := chain.Plan(request.RecommendingDirectorID, request.ApprovingDirectorID)

	err := i.db.Transaction(func(tx *gorm.DB) error {
		orderStore := travelorderstore.NewInstance(tx)
		order, err := orderStore.GetByID(orderID)
		if err != nil {
			return errors.Wrap(err, "failed to get travel order")
		}
		if order == nil || order.PersonnelID != session.UserID {
			return models.NewNotVisibleError("")
		}
		if order.Status != models.TOStatusDraft {
			return models.NewInvalidTransitionError("Only draft travel orders can be submitted.")
		}
		if err = i.checkDirectors(tx, request); err != nil {
			return err
		}
		// only the submit that moves the order out of draft inserts steps
		changed, err := orderStore.ChangeStatus(orderID, models.TOStatusDraft, models.TOStatusPending, map[string]interface{}{
			"submitted_at": now,
			"chain_length": len(directorIDs),
		})
		if err != nil {
			return errors.Wrap(err, "failed to change travel order status")
		}
		if !changed {
			return models.NewInvalidTransitionError("Only draft travel orders can be submitted.")
		}
		approvalStore := approvalstore.NewInstance(tx)
		for idx, directorID := range directorIDs {
			rec := dbmodels.TravelOrderApproval{
				TravelOrderID: orderID,
				DirectorID:    directorID,
				StepOrder:     idx + 1,
				Status:        models.ApprovalPending,
			}
			if _, err = approvalStore.Create(rec); err != nil {
				return errors.Wrap(err, "failed to create approval step")
			}
		}
		return historystore.NewInstance(tx).Create(dbmodels.ApprovalHistory{
			TravelOrderID: orderID,
			ActorID:       session.UserID,
			ActorRole:     session.Role,
			Action:        "submit",
			FromStatus:    models.TOStatusDraft,
			ToStatus:      models.TOStatusPending,
		})
	})
	if err != nil {
		return nil, err
	}
	logger.WithField("chain_length", len(directorIDs)).Info("travel order submitted")

	order, err := i.orderStore.GetByID(orderID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get travel order")
	}
	if order != nil && i.notifier != nil {
		i.notifier.Submitted(ctx, *order)
	}
	return order, nil
}

func (i impl) checkDirectors(tx *gorm.DB, request travelorderapimodels.SubmitRequest) error {
	ids := chain.Plan(request.RecommendingDirectorID, request.ApprovingDirectorID)
	directors, err := directorstore.NewInstance(tx).GetActiveByIDs(ids)
	if err != nil {
		return errors.Wrap(err, "failed to get directors")
	}
	active := map[string]bool{}
	for _, director := range directors {
		active[director.ID] = true
	}
	verr := models.NewValidationError("The given data was invalid.")
	if request.RecommendingDirectorID != "" && !active[request.RecommendingDirectorID] {
		verr.Add("recommending_director_id", "The selected recommending director is invalid or inactive.")
	}
	if !active[request.ApprovingDirectorID] {
		verr.Add("approving_director_id", "The selected approving director is invalid or inactive.")
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

func (i impl) Act(ctx context.Context, session models.Session, orderID string, request travelorderapimodels.ActionRequest) (result travelorderapimodels.ActionResult, err error) {
	if !session.IsDirector() {
		return result, models.NewForbiddenError("Only directors can act on travel orders.")
	}
	if err = request.Validate(); err != nil {
		return result, err
	}
	logger := log.
		WithField("travel_order_id", orderID).
		WithField("director_id", session.UserID).
		WithField("action", request.Action)
	now := i.clock.Now()

	err = i.db.Transaction(func(tx *gorm.DB) error {
		approvalStore := approvalstore.NewInstance(tx)
		orderStore := travelorderstore.NewInstance(tx)

		approval, err := approvalStore.GetForDirector(orderID, session.UserID)
		if err != nil {
			return errors.Wrap(err, "failed to get approval step")
		}
		if approval == nil || approval.Status != models.ApprovalPending {
			return models.NewNotVisibleError(MsgNotPendingYourAction)
		}
		// the gate is read inside the same transaction as the write that depends on it
		open, err := i.gateOpen(approvalStore, *approval)
		if err != nil {
			return err
		}
		if !open {
			return models.NewNotVisibleError(MsgNotPendingYourAction)
		}
		order, err := orderStore.GetByID(orderID)
		if err != nil {
			return errors.Wrap(err, "failed to get travel order")
		}
		if order == nil {
			return models.NewNotVisibleError(MsgNotPendingYourAction)
		}
		if order.Status != models.TOStatusPending {
			return models.NewInvalidTransitionError("Travel order is not pending.")
		}

		decision, err := chain.NewStep(approval.StepOrder, order.ChainLength).Decide(request.Action)
		if err != nil {
			return err
		}
		decided, err := approvalStore.Decide(approval.ID, decision.ApprovalStatus, request.Remarks, now)
		if err != nil {
			return errors.Wrap(err, "failed to update approval step")
		}
		if !decided {
			// another request acted on this step first
			return models.NewNotVisibleError(MsgNotPendingYourAction)
		}
		toStatus := models.TOStatusPending
		if decision.IsTerminal() {
			changed, err := orderStore.ChangeStatus(orderID, models.TOStatusPending, decision.OrderStatus, nil)
			if err != nil {
				return errors.Wrap(err, "failed to change travel order status")
			}
			if !changed {
				return models.NewInvalidTransitionError("Travel order is not pending.")
			}
			toStatus = decision.OrderStatus
		}
		result = travelorderapimodels.ActionResult{
			OrderStatus:    toStatus,
			ApprovalStatus: decision.ApprovalStatus,
			Message:        actionMessage(request.Action),
		}
		return historystore.NewInstance(tx).Create(dbmodels.ApprovalHistory{
			TravelOrderID: orderID,
			ApprovalID:    approval.ID,
			ActorID:       session.UserID,
			ActorRole:     session.Role,
			Action:        string(request.Action),
			FromStatus:    models.TOStatusPending,
			ToStatus:      toStatus,
			Remarks:       request.Remarks,
		})
	})
	if err != nil {
		return travelorderapimodels.ActionResult{}, err
	}
	logger.WithField("order_status", result.OrderStatus).Info("travel order approval step decided")
	i.notifyAction(ctx, logger, orderID, result)
	return result, nil
}

func (i impl) notifyAction(ctx context.Context, logger *log.Entry, orderID string, result travelorderapimodels.ActionResult) {
	if i.notifier == nil {
		return
	}
	order, err := i.orderStore.GetByID(orderID)
	if err != nil || order == nil {
		logger.WithError(err).Warn("travel order not loaded for notification")
		return
	}
	if result.OrderStatus.IsTerminal() {
		i.notifier.Decided(ctx, *order)
		return
	}
	i.notifier.Recommended(ctx, *order)
}

func actionMessage(action models.ApprovalAction) string {
	switch action {
	case models.ActionRecommend:
		return "Travel order recommended."
	case models.ActionApprove:
		return "Travel order approved."
	}
	return "Travel order rejected."
}

func (i impl) gateOpen(approvalStore approvalstore.Provider, approval dbmodels.TravelOrderApproval) (bool, error) {
	if approval.StepOrder != models.ApprovingStep {
		return true, nil
	}
	first, err := approvalStore.GetByStep(approval.TravelOrderID, models.RecommendingStep)
	if err != nil {
		return false, errors.Wrap(err, "failed to get recommending step")
	}
	if first == nil {
		return false, nil
	}
	return chain.GateOpen(approval.StepOrder, first.Status), nil
}

func (i impl) GetPending(session models.Session, orderID string) (travelorderapimodels.DirectorTravelOrderView, error) {
	if !session.IsDirector() {
		return travelorderapimodels.DirectorTravelOrderView{}, models.NewForbiddenError("Only directors can view pending travel orders.")
	}
	order, err := i.orderStore.GetByID(orderID)
	if err != nil {
		return travelorderapimodels.DirectorTravelOrderView{}, errors.Wrap(err, "failed to get travel order")
	}
	if order == nil || order.Status != models.TOStatusPending {
		return travelorderapimodels.DirectorTravelOrderView{}, models.NewNotVisibleError(MsgNotPendingYourAction)
	}
	view, ok := directorView(*order, session.UserID)
	if !ok || view.CurrentApproval == nil {
		return travelorderapimodels.DirectorTravelOrderView{}, models.NewNotVisibleError(MsgNotPendingYourAction)
	}
	return view, nil
}

// directorView resolves the pending, gated approval of the director on an order already loaded with approvals.
func directorView(order dbmodels.TravelOrder, directorID string) (travelorderapimodels.DirectorTravelOrderView, bool) {
	view := travelorderapimodels.DirectorTravelOrderView{TravelOrderView: order.ToModel()}
	first := order.GetApproval(models.RecommendingStep)
	for _, approval := range order.Approvals {
		if approval.DirectorID != directorID || approval.Status != models.ApprovalPending {
			continue
		}
		step1Status := models.ApprovalPending
		if first != nil {
			step1Status = first.Status
		}
		if !chain.GateOpen(approval.StepOrder, step1Status) {
			return view, false
		}
		current := approval.ToModel()
		step := chain.NewStep(approval.StepOrder, order.ChainLength)
		view.CurrentApproval = &current
		view.IsRecommendStep = step.IsRecommendStep()
		view.IsApproveStep = step.IsApproveStep()
		return view, true
	}
	return view, false
}

func (i impl) ListPending(session models.Session, pagination apimodels.Pagination) ([]travelorderapimodels.DirectorTravelOrderView, int64, error) {
	if !session.IsDirector() {
		return nil, 0, models.NewForbiddenError("Only directors can view pending travel orders.")
	}
	list, rowCount, err := i.orderStore.ListPendingForDirector(session.UserID, pagination)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to get pending travel orders")
	}
	result := make([]travelorderapimodels.DirectorTravelOrderView, 0, len(list))
	for _, order := range list {
		view, ok := directorView(order, session.UserID)
		if !ok {
			// the query already filters by the gate; a row failing here changed in between
			rowCount--
			continue
		}
		result = append(result, view)
	}
	return result, rowCount, nil
}

func (i impl) ListHistory(session models.Session, filter travelorderapimodels.HistoryFilter) ([]travelorderapimodels.TravelOrderView, int64, error) {
	if !session.IsDirector() {
		return nil, 0, models.NewForbiddenError("Only directors can view approval history.")
	}
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}
	list, rowCount, err := i.orderStore.ListHistoryForDirector(session.UserID, filter.Filter, filter.Pagination)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to get approval history")
	}
	return toViews(list), rowCount, nil
}

func (i impl) ListRecommendStepCompleted(session models.Session, pagination apimodels.Pagination) ([]travelorderapimodels.TravelOrderView, int64, error) {
	if !session.IsDirector() {
		return nil, 0, models.NewForbiddenError("Only directors can view recommended travel orders.")
	}
	list, rowCount, err := i.orderStore.ListRecommendedByDirector(session.UserID, pagination)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to get recommended travel orders")
	}
	return toViews(list), rowCount, nil
}

func toViews(list []dbmodels.TravelOrder) []travelorderapimodels.TravelOrderView {
	result := make([]travelorderapimodels.TravelOrderView, 0, len(list))
	for _, order := range list {
		result = append(result, order.ToModel())
	}
	return result
}

package chain

import (
	"travel-order-backend/models"
)

const (
	MsgNotRecommendingStep = "This step is not a recommending step."
	MsgNotFinalApprover    = "Only the final approver can approve."
)

// Step is one position of an approval chain of length 1 or 2.
type Step struct {
	Order       int
	ChainLength int
}

func NewStep(order, chainLength int) Step {
	return Step{Order: order, ChainLength: chainLength}
}

// IsOnlyStep is true for a one step chain where step 1 both recommends and approves.
func (s Step) IsOnlyStep() bool {
	return s.ChainLength == 1
}

func (s Step) IsRecommendStep() bool {
	return s.Order == models.RecommendingStep && !s.IsOnlyStep()
}

func (s Step) IsApproveStep() bool {
	return s.Order == models.ApprovingStep || s.IsOnlyStep()
}

// Decision is the outcome of an action; OrderStatus is empty when the order stays pending.
type Decision struct {
	ApprovalStatus models.ApprovalStatus
	OrderStatus    models.TravelOrderStatus
}

func (d Decision) IsTerminal() bool {
	return d.OrderStatus != ""
}

func (s Step) Decide(action models.ApprovalAction) (Decision, error) {
	switch action {
	case models.ActionRecommend:
		if !s.IsRecommendStep() {
			return Decision{}, &models.InvalidStepError{Reason: MsgNotRecommendingStep}
		}
		return Decision{ApprovalStatus: models.ApprovalRecommended}, nil
	case models.ActionApprove:
		if !s.IsApproveStep() {
			return Decision{}, &models.InvalidStepError{Reason: MsgNotFinalApprover}
		}
		return Decision{ApprovalStatus: models.ApprovalApproved, OrderStatus: models.TOStatusApproved}, nil
	case models.ActionReject:
		return Decision{ApprovalStatus: models.ApprovalRejected, OrderStatus: models.TOStatusRejected}, nil
	}
	return Decision{}, models.NewFieldError("action", "The selected action is invalid.")
}

// GateOpen reports whether an approval at stepOrder is visible given the status of step 1.
// Step 1 is always visible; step 2 only after step 1 was recommended or approved.
func GateOpen(stepOrder int, step1Status models.ApprovalStatus) bool {
	if stepOrder != models.ApprovingStep {
		return true
	}
	return step1Status.OpensGate()
}

// Plan returns the director ids in step order. An empty recommender yields a one step chain.
func Plan(recommendingDirectorID, approvingDirectorID string) []string {
	if recommendingDirectorID == "" {
		return []string{approvingDirectorID}
	}
	return []string{recommendingDirectorID, approvingDirectorID}
}

// SignatureVisible reports whether a director signature may be printed for an approval status.
func SignatureVisible(step Step, status models.ApprovalStatus) bool {
	if step.IsApproveStep() {
		return status == models.ApprovalApproved
	}
	return status == models.ApprovalRecommended || status == models.ApprovalApproved
}

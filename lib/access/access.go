package access

import (
	"travel-order-backend/db"
	"travel-order-backend/lib/approval-workflow/chain"
	travelorderstore "travel-order-backend/lib/travel-order/store"
	"travel-order-backend/models"
	dbmodels "travel-order-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Provider decides whether a session may read a travel order at all.
// Every denial is reported as not found.
type Provider interface {
	GetVisible(session models.Session, orderID string) (*dbmodels.TravelOrder, error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(db.DB)
}

func NewInstance(conn *gorm.DB) Provider {
	return &impl{
		orderStore: travelorderstore.NewInstance(conn),
	}
}

type impl struct {
	orderStore travelorderstore.Provider
}

func (i impl) GetVisible(session models.Session, orderID string) (*dbmodels.TravelOrder, error) {
	order, err := i.orderStore.GetByID(orderID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get travel order")
	}
	if order == nil || !CanView(session, *order) {
		return nil, models.NewNotVisibleError("")
	}
	return order, nil
}

// CanView applies the visibility rules to an order loaded with its approvals.
func CanView(session models.Session, order dbmodels.TravelOrder) bool {
	switch session.Role {
	case models.IctAdminRole:
		return true
	case models.PersonnelRole:
		return order.PersonnelID == session.UserID
	case models.DirectorRole:
		first := order.GetApproval(models.RecommendingStep)
		for _, approval := range order.Approvals {
			if approval.DirectorID != session.UserID {
				continue
			}
			if approval.StepOrder != models.ApprovingStep {
				return true
			}
			return first != nil && chain.GateOpen(approval.StepOrder, first.Status)
		}
	}
	return false
}

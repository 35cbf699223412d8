package notify

import (
	"context"
	dbmodels "travel-order-backend/models/db"
)

// Provider sends best-effort notices about workflow transitions. Errors are logged, not returned.
type Provider interface {
	Submitted(ctx context.Context, order dbmodels.TravelOrder)
	Recommended(ctx context.Context, order dbmodels.TravelOrder)
	Decided(ctx context.Context, order dbmodels.TravelOrder)
}

var Instance Provider

package app

import (
	"context"

	"github.com/invoice-manager/invoice-manager/internal/observability"
	"github.com/invoice-manager/invoice-manager/internal/shared"
)

// countingNotifier forwards change notifications and counts them.
type countingNotifier struct {
	next    shared.ChangeNotifier
	metrics *observability.Metrics
}

// NewCountingNotifier wraps next so every notification is recorded as a
// dashboard invalidation.
func NewCountingNotifier(next shared.ChangeNotifier, metrics *observability.Metrics) shared.ChangeNotifier {
	if next == nil {
		next = shared.NopNotifier{}
	}
	return countingNotifier{next: next, metrics: metrics}
}

func (n countingNotifier) NotifyChange(ctx context.Context, owner shared.Owner) {
	n.metrics.ObserveInvalidation()
	n.next.NotifyChange(ctx, owner)
}

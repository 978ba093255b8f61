package shared

import "context"

// ChangeNotifier is told when an owner's financial data changed so derived
// views (such as cached dashboards) can be refreshed. Implementations must not
// fail the caller; errors are theirs to log.
type ChangeNotifier interface {
	NotifyChange(ctx context.Context, owner Owner)
}

// NopNotifier discards change notifications.
type NopNotifier struct{}

// NotifyChange implements ChangeNotifier.
func (NopNotifier) NotifyChange(context.Context, Owner) {}

package invoices

import (
	"github.com/invoice-manager/invoice-manager/internal/shared"
)

// ParseStatus validates a status label.
func ParseStatus(label string) (Status, bool) {
	for _, s := range Statuses {
		if string(s) == label {
			return s, true
		}
	}
	return "", false
}

// ApplyStatus moves inv to the status named by label. Any valid status is
// reachable from any other. Entering paid stamps today as the paid date and
// leaving paid clears it. Unknown labels leave inv untouched and return false.
func ApplyStatus(inv *Invoice, label string, today shared.Date) bool {
	next, ok := ParseStatus(label)
	if !ok || inv == nil {
		return false
	}
	inv.Status = next
	if next == StatusPaid {
		paid := today
		inv.PaidDate = &paid
	} else if inv.PaidDate != nil {
		inv.PaidDate = nil
	}
	return true
}

// IsOverdue reports the computed display classification: still expecting
// payment and past its due date. It does not look at a stored overdue status.
func (inv Invoice) IsOverdue(today shared.Date) bool {
	switch inv.Status {
	case StatusPaid, StatusCancelled, StatusDraft:
		return false
	}
	return inv.DueDate.Before(today)
}

// DaysOverdue returns whole days past due, or zero when not overdue.
func (inv Invoice) DaysOverdue(today shared.Date) int {
	if !inv.IsOverdue(today) {
		return 0
	}
	return today.DaysSince(inv.DueDate)
}

// IsOutstanding reports whether the invoice total is still owed.
func (inv Invoice) IsOutstanding() bool {
	for _, s := range OutstandingStatuses {
		if inv.Status == s {
			return true
		}
	}
	return false
}

package inventory

// Ledger owns every mutation of an item's available quantity. Debits and
// credits come in matched pairs over a requisition's lifetime: debit at
// creation, credit on reject or return. Centralizing them here keeps the
// "debited on request, forgot to credit on reject" bug out of call sites.
type Ledger interface {
	// Debit decreases availability by qty. Returns ErrInsufficientStock
	// when qty exceeds the current available quantity; the item is left
	// untouched in that case.
	Debit(itemID int64, qty int) error

	// Credit increases availability by qty, clamped at the item's total
	// quantity so a stray double credit can never inflate stock past
	// capacity.
	Credit(itemID int64, qty int) error
}

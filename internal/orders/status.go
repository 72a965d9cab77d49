package orders

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// StockEffect is what a status change does to product stock.
type StockEffect int

const (
	EffectNone StockEffect = iota
	EffectDebit
	EffectRestock
)

func (e StockEffect) String() string {
	switch e {
	case EffectDebit:
		return "debit"
	case EffectRestock:
		return "restock"
	default:
		return "none"
	}
}

// Known reports whether s is one of the three workflow states. Other values
// are kept for display but never drive stock changes.
func (s Status) Known() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// PlanTransition decides the stock side-effect of moving an order from one
// status to another. Only two transitions touch stock:
//
//	anything but confirmed -> confirmed : debit every line item
//	confirmed -> cancelled               : restock every line item
func PlanTransition(from, to Status) StockEffect {
	switch {
	case to == StatusConfirmed && from != StatusConfirmed:
		return EffectDebit
	case to == StatusCancelled && from == StatusConfirmed:
		return EffectRestock
	default:
		return EffectNone
	}
}

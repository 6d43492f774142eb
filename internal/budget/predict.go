package budget

import "github.com/shopspring/decimal"

// PaceStatus classifies a projected month-end spend against its allocation.
type PaceStatus string

// Pace statuses.
const (
	PaceUnder   PaceStatus = "under"
	PaceWarning PaceStatus = "warning"
	PaceOver    PaceStatus = "over"
)

// Prediction is a projection of month-end spending.
type Prediction struct {
	Status             PaceStatus
	Projected          decimal.Decimal
	ProjectedOverspend decimal.Decimal
	PacePerDay         decimal.Decimal
}

var tolerance = decimal.New(1, -1) // 10% of the allocation

// Predict projects spending to month end from spent-so-far. It is total:
// a non-positive dayOfMonth means the month has not started and nothing is
// extrapolated. For months other than the current one callers pass
// daysInMonth as dayOfMonth.
func Predict(spent, allocated decimal.Decimal, dayOfMonth, daysInMonth int) Prediction {
	if dayOfMonth <= 0 {
		status := PaceUnder
		if spent.GreaterThan(allocated) {
			status = PaceOver
		}
		return Prediction{
			Status:             status,
			Projected:          spent,
			ProjectedOverspend: spent.Sub(allocated),
			PacePerDay:         decimal.Zero,
		}
	}

	day := decimal.NewFromInt(int64(dayOfMonth))
	pace := spent.Div(day)
	projected := spent.Mul(decimal.NewFromInt(int64(daysInMonth))).Div(day)
	overspend := projected.Sub(allocated)

	return Prediction{
		Status:             classify(spent, allocated, overspend),
		Projected:          projected,
		ProjectedOverspend: overspend,
		PacePerDay:         pace,
	}
}

func classify(spent, allocated, overspend decimal.Decimal) PaceStatus {
	if allocated.IsZero() {
		if spent.IsPositive() {
			return PaceOver
		}
		return PaceUnder
	}

	band := allocated.Mul(tolerance)
	switch {
	case overspend.GreaterThan(band):
		return PaceOver
	case overspend.GreaterThan(band.Neg()):
		return PaceWarning
	default:
		return PaceUnder
	}
}

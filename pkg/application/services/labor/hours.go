package labor

import (
	"github.com/shopspring/decimal"

	"github.com/JaimeeMiles/TheQueue/pkg/domain/entities"
)

var minutesPerHour = decimal.NewFromInt(60)

// ComputeStandardHours converts an operation's production standard into
// the expected labor hours for the given quantity. A zero standard yields
// zero hours regardless of format. The second return is false when the
// format is unrecognized, in which case no hours correction should be
// attempted.
func ComputeStandardHours(standard decimal.Decimal, format entities.StandardFormat, qty decimal.Decimal) (decimal.Decimal, bool) {
	if standard.IsZero() {
		return decimal.Zero, true
	}

	switch format {
	case entities.HoursPerPiece:
		return qty.Mul(standard), true
	case entities.MinutesPerPiece:
		return qty.Mul(standard).Div(minutesPerHour), true
	case entities.PiecesPerHour:
		return qty.Div(standard), true
	case entities.PiecesPerMinute:
		return qty.Div(standard).Div(minutesPerHour), true
	case entities.FixedHours:
		return standard, true
	default:
		return decimal.Zero, false
	}
}

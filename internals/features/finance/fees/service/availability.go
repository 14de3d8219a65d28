// file: internals/features/finance/fees/service/availability.go
package service

import (
	"github.com/shopspring/decimal"

	model "feeportal_backend/internals/features/finance/fees/model"
)

type FeeTypeOption struct {
	FeeType    model.FeeType   `json:"fee_type"`
	Label      string          `json:"label"`
	Selectable bool            `json:"selectable"`
	Reason     RejectionKind   `json:"reason,omitempty"`
	Due        decimal.Decimal `json:"due"`
}

// AvailableFeeTypes lists the fee types a new payment can be entered for.
// total_fee and fine are always listed; a category is left out entirely once its due is zero.
func AvailableFeeTypes(l Ledger) []FeeTypeOption {
	out := make([]FeeTypeOption, 0, len(model.FeeTypeDisplayOrder))
	for _, t := range model.FeeTypeDisplayOrder {
		switch {
		case t == model.FeeTypeTotal:
			opt := FeeTypeOption{FeeType: t, Label: t.Label(), Selectable: true, Due: l.TotalFeeDue}
			if !l.TotalFeeDue.IsPositive() {
				opt.Selectable = false
				opt.Reason = RejectAlreadyFullyPaid
			}
			out = append(out, opt)

		case t == model.FeeTypeFine:
			out = append(out, FeeTypeOption{FeeType: t, Label: t.Label(), Selectable: true, Due: decimal.Zero})

		default:
			due := l.DueFor(t)
			if !due.IsPositive() {
				continue
			}
			out = append(out, FeeTypeOption{FeeType: t, Label: t.Label(), Selectable: true, Due: due})
		}
	}
	return out
}

// file: internals/features/finance/fees/service/ledger.go
package service

import (
	"github.com/shopspring/decimal"

	model "feeportal_backend/internals/features/finance/fees/model"
)

// FeeStructure maps each category to the total owed. Missing categories count as zero.
type FeeStructure map[model.FeeType]decimal.Decimal

// PaymentRecord is the part of a recorded payment the ledger cares about.
type PaymentRecord struct {
	FeeType    model.FeeType
	Amount     decimal.Decimal
	PaidAmount *decimal.Decimal
	Status     model.PaymentStatus
}

// effective: paid_amount kalau ada, lalu amount; negatif dianggap nol.
func (r PaymentRecord) effective() decimal.Decimal {
	v := r.Amount
	if r.PaidAmount != nil {
		v = *r.PaidAmount
	}
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}

// RecordFromModel: fee type lama yang tersimpan sebagai label ("Tuition Fee")
// dinormalisasi ke kode; yang tetap tidak dikenal dibiarkan apa adanya.
func RecordFromModel(p model.FeePaymentModel) PaymentRecord {
	feeType := p.FeePaymentFeeType
	if t, ok := model.ParseFeeType(string(feeType)); ok {
		feeType = t
	}
	return PaymentRecord{
		FeeType:    feeType,
		Amount:     p.FeePaymentAmount,
		PaidAmount: p.FeePaymentPaidAmount,
		Status:     p.FeePaymentStatus,
	}
}

func RecordsFromModels(rows []model.FeePaymentModel) []PaymentRecord {
	out := make([]PaymentRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, RecordFromModel(r))
	}
	return out
}

/* ===================== Ledger ===================== */

type LedgerEntry struct {
	Category  model.FeeType   `json:"category"`
	Label     string          `json:"label"`
	Total     decimal.Decimal `json:"total"`
	Paid      decimal.Decimal `json:"paid"`
	Due       decimal.Decimal `json:"due"`
	FullyPaid bool            `json:"fully_paid"`
}

type Ledger struct {
	Entries            []LedgerEntry   `json:"entries"`
	TotalFee           decimal.Decimal `json:"total_fee"`
	TotalPaid          decimal.Decimal `json:"total_paid"`
	TotalFeeDue        decimal.Decimal `json:"total_fee_due"`
	HasTotalFeePayment bool            `json:"has_total_fee_payment"`
}

// ComputeLedger derives per-category total/paid/due from a fee structure and the
// payment history. Non-paid records and unknown fee types are ignored. A single paid
// total_fee record clears the due of every category; Paid stays the amount actually
// paid against that category, and TotalFeeDue keeps what is still owed overall.
func ComputeLedger(structure FeeStructure, payments []PaymentRecord) Ledger {
	paidByCategory := make(map[model.FeeType]decimal.Decimal, len(model.Categories))
	totalPaid := decimal.Zero
	hasTotalFee := false

	for _, p := range payments {
		if !p.Status.IsPaid() || !p.FeeType.IsKnown() {
			continue
		}
		amt := p.effective()
		totalPaid = totalPaid.Add(amt)

		switch {
		case p.FeeType == model.FeeTypeTotal:
			hasTotalFee = true
		case p.FeeType.IsCategory():
			paidByCategory[p.FeeType] = paidByCategory[p.FeeType].Add(amt)
		}
	}

	l := Ledger{
		Entries:            make([]LedgerEntry, 0, len(model.Categories)),
		TotalPaid:          totalPaid,
		HasTotalFeePayment: hasTotalFee,
	}

	sumTotal := decimal.Zero
	for _, cat := range model.Categories {
		total := structure[cat]
		if total.IsNegative() {
			total = decimal.Zero
		}
		paid := paidByCategory[cat]
		due := clampZero(total.Sub(paid))

		// paid tetap jumlah riil per kategori; total_fee hanya menutup due
		if hasTotalFee {
			due = decimal.Zero
		}

		l.Entries = append(l.Entries, LedgerEntry{
			Category:  cat,
			Label:     cat.Label(),
			Total:     total,
			Paid:      paid,
			Due:       due,
			FullyPaid: due.IsZero(),
		})
		sumTotal = sumTotal.Add(total)
	}

	l.TotalFee = sumTotal
	l.TotalFeeDue = clampZero(sumTotal.Sub(totalPaid))
	return l
}

// Entry returns the ledger line of a category.
func (l Ledger) Entry(category model.FeeType) (LedgerEntry, bool) {
	for _, e := range l.Entries {
		if e.Category == category {
			return e, true
		}
	}
	return LedgerEntry{}, false
}

// DueFor returns the remaining due for a category or for total_fee.
// Fine and unknown types have no due.
func (l Ledger) DueFor(t model.FeeType) decimal.Decimal {
	if t == model.FeeTypeTotal {
		return l.TotalFeeDue
	}
	if e, ok := l.Entry(t); ok {
		return e.Due
	}
	return decimal.Zero
}

/* ===================== Fee status ===================== */

type FeeStatus string

const (
	FeeStatusComplete FeeStatus = "COMPLETE"
	FeeStatusPartial  FeeStatus = "PARTIAL"
	FeeStatusDue      FeeStatus = "DUE"
)

func (l Ledger) Status() FeeStatus {
	switch {
	case !l.TotalFeeDue.IsPositive():
		return FeeStatusComplete
	case l.TotalPaid.IsPositive():
		return FeeStatusPartial
	default:
		return FeeStatusDue
	}
}

func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// file: internals/features/finance/fees/service/allocator.go
package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	model "feeportal_backend/internals/features/finance/fees/model"
)

/* ===================== Rejections ===================== */

type RejectionKind string

const (
	RejectInvalidAmount        RejectionKind = "invalid_amount"
	RejectAlreadyFullyPaid     RejectionKind = "already_fully_paid"
	RejectExceedsRemaining     RejectionKind = "exceeds_remaining"
	RejectMissingMethodDetails RejectionKind = "missing_method_details"
	RejectUnknownFeeType       RejectionKind = "unknown_fee_type"
)

// Rejection is an expected user-input outcome, returned as an error value.
// Remaining is set for exceeds_remaining, Field for missing_method_details.
type Rejection struct {
	Kind      RejectionKind
	FeeType   model.FeeType
	Remaining decimal.Decimal
	Field     string
}

func (r *Rejection) Error() string {
	switch r.Kind {
	case RejectInvalidAmount:
		return "Please enter a valid amount"
	case RejectAlreadyFullyPaid:
		if r.FeeType == model.FeeTypeTotal {
			return "All fees are already fully paid"
		}
		return fmt.Sprintf("%s is already fully paid", r.FeeType.Label())
	case RejectExceedsRemaining:
		if r.FeeType == model.FeeTypeTotal {
			return fmt.Sprintf("Payment exceeds remaining amount, only %s is due in total", r.Remaining.StringFixed(2))
		}
		return fmt.Sprintf("Payment exceeds remaining amount, only %s is due for %s", r.Remaining.StringFixed(2), r.FeeType.Label())
	case RejectMissingMethodDetails:
		return fmt.Sprintf("%s is required for the selected payment method", r.Field)
	case RejectUnknownFeeType:
		return fmt.Sprintf("unknown fee type %q", string(r.FeeType))
	}
	return string(r.Kind)
}

// AsRejection unwraps a *Rejection from err.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}

/* ===================== Allocate ===================== */

// Allocate checks a new payment against the ledger snapshot. It returns nil when
// the payment is accepted and a *Rejection otherwise. It does not persist anything.
func Allocate(l Ledger, feeType model.FeeType, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return &Rejection{Kind: RejectInvalidAmount, FeeType: feeType}
	}

	switch {
	case feeType == model.FeeTypeFine:
		return nil
	case feeType == model.FeeTypeTotal, feeType.IsCategory():
		due := l.DueFor(feeType)
		if !due.IsPositive() {
			return &Rejection{Kind: RejectAlreadyFullyPaid, FeeType: feeType}
		}
		if amount.GreaterThan(due) {
			return &Rejection{Kind: RejectExceedsRemaining, FeeType: feeType, Remaining: due}
		}
		return nil
	default:
		return &Rejection{Kind: RejectUnknownFeeType, FeeType: feeType}
	}
}

/* ===================== Method details ===================== */

type MethodDetails struct {
	ChequeNumber  string
	TransactionID string
	BankName      string
}

// ValidateMethodDetails: cheque/DD butuh nomor + bank, UPI/NetBanking/RTGS butuh
// transaction id + bank, cash tidak butuh apa-apa.
func ValidateMethodDetails(method model.PaymentMethod, d MethodDetails) error {
	missing := func(field string) error {
		return &Rejection{Kind: RejectMissingMethodDetails, Field: field}
	}
	switch method {
	case model.PaymentMethodCash:
		return nil
	case model.PaymentMethodChequeDD:
		if strings.TrimSpace(d.ChequeNumber) == "" {
			return missing("cheque_number")
		}
		if strings.TrimSpace(d.BankName) == "" {
			return missing("bank_name")
		}
		return nil
	case model.PaymentMethodUPIOrBank:
		if strings.TrimSpace(d.TransactionID) == "" {
			return missing("transaction_id")
		}
		if strings.TrimSpace(d.BankName) == "" {
			return missing("bank_name")
		}
		return nil
	default:
		return missing("payment_method")
	}
}

/* ===================== Draft → record ===================== */

// DefaultDueDays is used when a payment is recorded without a due date.
const DefaultDueDays = 30

// PaymentDraft is an accepted-to-be payment before it gets a receipt number.
type PaymentDraft struct {
	FeeType       model.FeeType
	Amount        decimal.Decimal
	Method        model.PaymentMethod
	Details       MethodDetails
	DueDate       *time.Time
	PaidDate      time.Time
	ReceiptNumber string
	Description   string
	RecordedBy    string
}

// NewPaidRecord builds the record to persist for an accepted draft.
// ledger is the snapshot the draft was accepted against.
func NewPaidRecord(studentID uuid.UUID, d PaymentDraft, l Ledger, receiptNumber string) *model.FeePaymentModel {
	amount := d.Amount
	paidDate := truncateDay(d.PaidDate)

	due := paidDate.AddDate(0, 0, DefaultDueDays)
	if d.DueDate != nil {
		due = truncateDay(*d.DueDate)
	}

	rec := &model.FeePaymentModel{
		FeePaymentID:            uuid.New(),
		FeePaymentStudentID:     studentID,
		FeePaymentFeeType:       d.FeeType,
		FeePaymentAmount:        amount,
		FeePaymentPaidAmount:    &amount,
		FeePaymentStatus:        model.PaymentStatusPaid,
		FeePaymentMethod:        d.Method,
		FeePaymentDueDate:       &due,
		FeePaymentPaidDate:      &paidDate,
		FeePaymentReceiptNumber: receiptNumber,
	}

	switch d.Method {
	case model.PaymentMethodChequeDD:
		rec.FeePaymentChequeNumber = trimmedPtr(d.Details.ChequeNumber)
		rec.FeePaymentBankName = trimmedPtr(d.Details.BankName)
	case model.PaymentMethodUPIOrBank:
		rec.FeePaymentTransactionID = trimmedPtr(d.Details.TransactionID)
		rec.FeePaymentBankName = trimmedPtr(d.Details.BankName)
	}
	rec.FeePaymentDescription = trimmedPtr(d.Description)

	if d.FeeType == model.FeeTypeTotal {
		for _, e := range l.Entries {
			if e.Due.IsPositive() {
				rec.FeePaymentCoveredCategories = append(rec.FeePaymentCoveredCategories, string(e.Category))
			}
		}
	}

	meta := datatypes.JSONMap{
		"due_before": l.DueFor(d.FeeType).StringFixed(2),
	}
	if by := strings.TrimSpace(d.RecordedBy); by != "" {
		meta["recorded_by"] = by
	}
	rec.FeePaymentMeta = meta

	return rec
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func trimmedPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

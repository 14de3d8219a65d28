// file: internals/features/finance/fees/dto/fee_payment_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	m "feeportal_backend/internals/features/finance/fees/model"
	svc "feeportal_backend/internals/features/finance/fees/service"
)

/* =============== REQUESTS =============== */

// Create (POST /payments)
type CreateFeePaymentRequest struct {
	FeePaymentStudentID uuid.UUID       `json:"fee_payment_student_id" validate:"required"`
	FeePaymentFeeType   string          `json:"fee_payment_fee_type"   validate:"required,max=40"`
	FeePaymentAmount    decimal.Decimal `json:"fee_payment_amount"`
	FeePaymentMethod    string          `json:"fee_payment_method"     validate:"required,max=40"`

	// Detail metode (wajib/tidaknya dicek oleh allocator, bukan validator)
	FeePaymentChequeNumber  *string `json:"fee_payment_cheque_number"  validate:"omitempty,max=60"`
	FeePaymentTransactionID *string `json:"fee_payment_transaction_id" validate:"omitempty,max=120"`
	FeePaymentBankName      *string `json:"fee_payment_bank_name"      validate:"omitempty,max=120"`

	// YYYY-MM-DD atau DD-MM-YYYY
	FeePaymentDueDate       *string `json:"fee_payment_due_date"       validate:"omitempty,max=10"`
	FeePaymentReceiptNumber *string `json:"fee_payment_receipt_number" validate:"omitempty,max=40"`
	FeePaymentDescription   *string `json:"fee_payment_description"    validate:"omitempty,max=500"`
}

// ToInput maps the request to a service input. Unknown fee types and methods are
// passed through so the allocator can reject them with a proper reason.
// Due dates are read as calendar days in loc.
func (r CreateFeePaymentRequest) ToInput(recordedBy string, loc *time.Location) (svc.PaymentInput, map[string][]string) {
	errs := map[string][]string{}

	in := svc.PaymentInput{
		StudentID:     r.FeePaymentStudentID,
		FeeType:       parseFeeType(r.FeePaymentFeeType),
		Amount:        r.FeePaymentAmount,
		Method:        parseMethod(r.FeePaymentMethod),
		Details:       methodDetails(r.FeePaymentChequeNumber, r.FeePaymentTransactionID, r.FeePaymentBankName),
		ReceiptNumber: str(r.FeePaymentReceiptNumber),
		Description:   str(r.FeePaymentDescription),
		RecordedBy:    recordedBy,
	}

	if r.FeePaymentDueDate != nil && strings.TrimSpace(*r.FeePaymentDueDate) != "" {
		due, err := ParseDate(*r.FeePaymentDueDate, loc)
		if err != nil {
			errs["fee_payment_due_date"] = []string{"date must be YYYY-MM-DD or DD-MM-YYYY"}
		} else {
			in.DueDate = &due
		}
	}

	if len(errs) == 0 {
		return in, nil
	}
	return in, errs
}

// Preview (POST /students/:id/payments/preview); metode opsional
type PreviewFeePaymentRequest struct {
	FeePaymentFeeType string          `json:"fee_payment_fee_type" validate:"required,max=40"`
	FeePaymentAmount  decimal.Decimal `json:"fee_payment_amount"`
	FeePaymentMethod  *string         `json:"fee_payment_method"   validate:"omitempty,max=40"`

	FeePaymentChequeNumber  *string `json:"fee_payment_cheque_number"  validate:"omitempty,max=60"`
	FeePaymentTransactionID *string `json:"fee_payment_transaction_id" validate:"omitempty,max=120"`
	FeePaymentBankName      *string `json:"fee_payment_bank_name"      validate:"omitempty,max=120"`
}

func (r PreviewFeePaymentRequest) ToInput(studentID uuid.UUID) svc.PaymentInput {
	in := svc.PaymentInput{
		StudentID: studentID,
		FeeType:   parseFeeType(r.FeePaymentFeeType),
		Amount:    r.FeePaymentAmount,
		Details:   methodDetails(r.FeePaymentChequeNumber, r.FeePaymentTransactionID, r.FeePaymentBankName),
	}
	if raw := str(r.FeePaymentMethod); raw != "" {
		in.Method = parseMethod(raw)
	}
	return in
}

// List / Query params
type ListStudentFeeQuery struct {
	Q *string `query:"q" validate:"omitempty,max=100"`
}

/* =============== RESPONSES =============== */

type FeePaymentResponse struct {
	FeePaymentID        uuid.UUID `json:"fee_payment_id"`
	FeePaymentStudentID uuid.UUID `json:"fee_payment_student_id"`

	FeePaymentFeeType      m.FeeType       `json:"fee_payment_fee_type"`
	FeePaymentFeeTypeLabel string          `json:"fee_payment_fee_type_label"`
	FeePaymentAmount       decimal.Decimal `json:"fee_payment_amount"`
	FeePaymentStatus       m.PaymentStatus `json:"fee_payment_status"`

	FeePaymentMethod      m.PaymentMethod `json:"fee_payment_method"`
	FeePaymentMethodLabel string          `json:"fee_payment_method_label"`
	FeePaymentReference   *string         `json:"fee_payment_reference,omitempty"`
	FeePaymentBankName    *string         `json:"fee_payment_bank_name,omitempty"`

	FeePaymentPaidDate *time.Time `json:"fee_payment_paid_date,omitempty"`
	FeePaymentDueDate  *time.Time `json:"fee_payment_due_date,omitempty"`
	// DD-MM-YYYY untuk tampilan
	FeePaymentPaidDateText string `json:"fee_payment_paid_date_text"`
	FeePaymentDueDateText  string `json:"fee_payment_due_date_text"`

	FeePaymentReceiptNumber     string   `json:"fee_payment_receipt_number"`
	FeePaymentDescription       *string  `json:"fee_payment_description,omitempty"`
	FeePaymentCoveredCategories []string `json:"fee_payment_covered_categories,omitempty"`

	FeePaymentCreatedAt time.Time `json:"fee_payment_created_at"`
}

type RecordFeePaymentResponse struct {
	Payment FeePaymentResponse `json:"payment"`
	Receipt svc.Receipt        `json:"receipt"`
}

/* =============== MAPPERS =============== */

func FromPaymentModel(x m.FeePaymentModel) FeePaymentResponse {
	return FeePaymentResponse{
		FeePaymentID:                x.FeePaymentID,
		FeePaymentStudentID:         x.FeePaymentStudentID,
		FeePaymentFeeType:           x.FeePaymentFeeType,
		FeePaymentFeeTypeLabel:      x.FeePaymentFeeType.Label(),
		FeePaymentAmount:            x.EffectiveAmount(),
		FeePaymentStatus:            x.FeePaymentStatus,
		FeePaymentMethod:            x.FeePaymentMethod,
		FeePaymentMethodLabel:       x.FeePaymentMethod.Label(),
		FeePaymentReference:         x.Reference(),
		FeePaymentBankName:          x.FeePaymentBankName,
		FeePaymentPaidDate:          x.FeePaymentPaidDate,
		FeePaymentDueDate:           x.FeePaymentDueDate,
		FeePaymentPaidDateText:      svc.FormatDate(x.FeePaymentPaidDate),
		FeePaymentDueDateText:       svc.FormatDate(x.FeePaymentDueDate),
		FeePaymentReceiptNumber:     x.FeePaymentReceiptNumber,
		FeePaymentDescription:       x.FeePaymentDescription,
		FeePaymentCoveredCategories: []string(x.FeePaymentCoveredCategories),
		FeePaymentCreatedAt:         x.FeePaymentCreatedAt,
	}
}

func FromPaymentModels(list []m.FeePaymentModel) []FeePaymentResponse {
	out := make([]FeePaymentResponse, 0, len(list))
	for _, it := range list {
		out = append(out, FromPaymentModel(it))
	}
	return out
}

func FromRecorded(r svc.RecordedPayment) RecordFeePaymentResponse {
	return RecordFeePaymentResponse{
		Payment: FromPaymentModel(r.Payment),
		Receipt: r.Receipt,
	}
}

/* =============== PARSING =============== */

var dateLayouts = []string{"2006-01-02", "02-01-2006"}

// ParseDate menerima YYYY-MM-DD (ISO) atau DD-MM-YYYY (format portal), di zona loc.
// loc nil → UTC.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	s = strings.TrimSpace(s)
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		if t, err = time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

func parseFeeType(raw string) m.FeeType {
	if t, ok := m.ParseFeeType(raw); ok {
		return t
	}
	return m.FeeType(strings.TrimSpace(raw))
}

func parseMethod(raw string) m.PaymentMethod {
	if pm, ok := m.ParsePaymentMethod(raw); ok {
		return pm
	}
	return m.PaymentMethod(strings.TrimSpace(raw))
}

func methodDetails(cheque, txn, bank *string) svc.MethodDetails {
	return svc.MethodDetails{
		ChequeNumber:  str(cheque),
		TransactionID: str(txn),
		BankName:      str(bank),
	}
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

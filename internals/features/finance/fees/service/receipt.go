// file: internals/features/finance/fees/service/receipt.go
package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	model "feeportal_backend/internals/features/finance/fees/model"
)

// NotAvailable keeps the printed layout stable when a field is missing.
const NotAvailable = "N/A"

const receiptDateLayout = "02-01-2006"

type Institution struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	CopyLabel string `json:"copy_label"`
}

type ReceiptStudent struct {
	StudentID     uuid.UUID `json:"student_id"`
	Name          string    `json:"name"`
	RollNumber    string    `json:"roll_number"`
	Class         string    `json:"class"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	GuardianName  string    `json:"guardian_name"`
	GuardianPhone string    `json:"guardian_phone"`
	Address       string    `json:"address"`
}

type ReceiptLine struct {
	Category model.FeeType   `json:"category"`
	Label    string          `json:"label"`
	Total    decimal.Decimal `json:"total"`
	Due      decimal.Decimal `json:"due"`
	Paid     decimal.Decimal `json:"paid"`
}

type ReceiptPayment struct {
	PaymentID     uuid.UUID           `json:"payment_id"`
	FeeType       model.FeeType       `json:"fee_type"`
	FeeTypeLabel  string              `json:"fee_type_label"`
	Amount        decimal.Decimal     `json:"amount"`
	Method        model.PaymentMethod `json:"method"`
	MethodLabel   string              `json:"method_label"`
	Reference     string              `json:"reference"`
	BankName      string              `json:"bank_name"`
	PaidDate      string              `json:"paid_date"`
	DueDate       string              `json:"due_date"`
	AmountInWords string              `json:"amount_in_words"`
}

// ReceiptBalance is the student's overall position after this payment.
type ReceiptBalance struct {
	TotalFee  decimal.Decimal `json:"total_fee"`
	TotalPaid decimal.Decimal `json:"total_paid"`
	Due       decimal.Decimal `json:"due"`
}

type Receipt struct {
	Institution   Institution    `json:"institution"`
	ReceiptNumber string         `json:"receipt_number"`
	IssuedOn      string         `json:"issued_on"`
	Student       ReceiptStudent `json:"student"`
	Lines         []ReceiptLine  `json:"lines"`
	GrandTotal    ReceiptLine    `json:"grand_total"`
	Balance       ReceiptBalance `json:"balance"`
	Payment       ReceiptPayment `json:"payment"`
	Notes         []string       `json:"notes"`
}

type ReceiptOptions struct {
	Institution   Institution
	ReceiptNumber string // kosong → pakai nomor yang tersimpan di payment
	IssuedAt      time.Time
}

// ComposeReceipt projects a student, its ledger and one payment into a receipt.
// It performs no validation.
func ComposeReceipt(student model.StudentFeeModel, l Ledger, p model.FeePaymentModel, opts ReceiptOptions) Receipt {
	number := strings.TrimSpace(opts.ReceiptNumber)
	if number == "" {
		number = p.FeePaymentReceiptNumber
	}

	r := Receipt{
		Institution:   opts.Institution,
		ReceiptNumber: orNA(&number),
		IssuedOn:      FormatDate(&opts.IssuedAt),
		Student: ReceiptStudent{
			StudentID:     student.StudentID,
			Name:          orNA(student.StudentName),
			RollNumber:    orNA(student.StudentRollNumber),
			Class:         orNA(student.StudentClass),
			Phone:         orNA(student.StudentPhone),
			Email:         orNA(student.StudentEmail),
			GuardianName:  orNA(student.GuardianName()),
			GuardianPhone: orNA(student.StudentGuardianPhone),
			Address:       orNA(student.StudentAddress),
		},
		Lines: make([]ReceiptLine, 0, len(l.Entries)),
		GrandTotal: ReceiptLine{
			Label: "Total",
			Total: decimal.Zero,
			Due:   decimal.Zero,
			Paid:  decimal.Zero,
		},
	}

	for _, e := range l.Entries {
		r.Lines = append(r.Lines, ReceiptLine{
			Category: e.Category,
			Label:    e.Label,
			Total:    e.Total,
			Due:      e.Due,
			Paid:     e.Paid,
		})
		r.GrandTotal.Total = r.GrandTotal.Total.Add(e.Total)
		r.GrandTotal.Due = r.GrandTotal.Due.Add(e.Due)
		r.GrandTotal.Paid = r.GrandTotal.Paid.Add(e.Paid)
	}

	r.Balance = ReceiptBalance{
		TotalFee:  l.TotalFee,
		TotalPaid: l.TotalPaid,
		Due:       l.TotalFeeDue,
	}

	amount := p.EffectiveAmount()
	r.Payment = ReceiptPayment{
		PaymentID:     p.FeePaymentID,
		FeeType:       p.FeePaymentFeeType,
		FeeTypeLabel:  p.FeePaymentFeeType.Label(),
		Amount:        amount,
		Method:        p.FeePaymentMethod,
		MethodLabel:   p.FeePaymentMethod.Label(),
		Reference:     orNA(p.Reference()),
		BankName:      orNA(p.FeePaymentBankName),
		PaidDate:      FormatDate(p.FeePaymentPaidDate),
		DueDate:       FormatDate(p.FeePaymentDueDate),
		AmountInWords: AmountInWords(amount),
	}

	r.Notes = []string{"This is a computer generated receipt"}
	if p.FeePaymentMethod == model.PaymentMethodChequeDD {
		r.Notes = append(r.Notes, "Subject to encashment of cheque")
	}
	return r
}

// FormatDate renders DD-MM-YYYY, or N/A for a missing date.
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return NotAvailable
	}
	return t.Format(receiptDateLayout)
}

func orNA(s *string) string {
	if s == nil {
		return NotAvailable
	}
	if v := strings.TrimSpace(*s); v != "" {
		return v
	}
	return NotAvailable
}

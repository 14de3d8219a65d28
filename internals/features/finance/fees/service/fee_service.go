// file: internals/features/finance/fees/service/fee_service.go
package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	model "feeportal_backend/internals/features/finance/fees/model"
)

var DefaultInstitution = Institution{
	Name:      "CAREER INSTITUTE OF MEDICAL SCIENCES & HOSPITAL",
	Address:   "IIM ROAD, GHAILLA LUCKNOW - 226 013",
	CopyLabel: "(STUDENT FILE COPY)",
}

// FeeService ties the pure reconciliation core to a FeeStore.
type FeeService struct {
	Store       FeeStore
	Receipts    ReceiptNumberGenerator
	Now         func() time.Time
	Logger      *zap.Logger
	Institution Institution
}

func NewFeeService(store FeeStore, receipts ReceiptNumberGenerator, logger *zap.Logger) *FeeService {
	if receipts == nil {
		receipts = NewRandomReceiptNumbers(DefaultReceiptPrefix, DefaultReceiptDigits)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeeService{
		Store:       store,
		Receipts:    receipts,
		Now:         time.Now,
		Logger:      logger,
		Institution: DefaultInstitution,
	}
}

func (s *FeeService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// Location is the zone of the service clock; request dates are parsed in it.
func (s *FeeService) Location() *time.Location {
	return s.now().Location()
}

/* ===================== Reads ===================== */

// Ledger loads a student and computes its ledger from the full payment history.
func (s *FeeService) Ledger(ctx context.Context, studentID uuid.UUID) (*model.StudentFeeModel, Ledger, error) {
	st, err := s.Store.GetStudent(ctx, studentID)
	if err != nil {
		return nil, Ledger{}, err
	}
	payments, err := s.Store.ListPayments(ctx, studentID)
	if err != nil {
		return nil, Ledger{}, fmt.Errorf("list payments: %w", err)
	}
	return st, ComputeLedger(st.FeeStructure(), RecordsFromModels(payments)), nil
}

func (s *FeeService) Availability(ctx context.Context, studentID uuid.UUID) ([]FeeTypeOption, error) {
	_, l, err := s.Ledger(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return AvailableFeeTypes(l), nil
}

type StudentSummary struct {
	Student  model.StudentFeeModel   `json:"student"`
	Ledger   Ledger                  `json:"ledger"`
	Status   FeeStatus               `json:"status"`
	Payments []model.FeePaymentModel `json:"payments"`
}

func (s *FeeService) Summary(ctx context.Context, studentID uuid.UUID) (*StudentSummary, error) {
	st, err := s.Store.GetStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	payments, err := s.Store.ListPayments(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	l := ComputeLedger(st.FeeStructure(), RecordsFromModels(payments))
	return &StudentSummary{
		Student:  *st,
		Ledger:   l,
		Status:   l.Status(),
		Payments: payments,
	}, nil
}

// ListSummaries pages through students and attaches a ledger to each.
func (s *FeeService) ListSummaries(ctx context.Context, q StudentListQuery) ([]StudentSummary, int64, error) {
	students, total, err := s.Store.ListStudents(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	out := make([]StudentSummary, 0, len(students))
	for _, st := range students {
		payments, err := s.Store.ListPayments(ctx, st.StudentID)
		if err != nil {
			return nil, 0, fmt.Errorf("list payments: %w", err)
		}
		l := ComputeLedger(st.FeeStructure(), RecordsFromModels(payments))
		out = append(out, StudentSummary{Student: st, Ledger: l, Status: l.Status()})
	}
	return out, total, nil
}

/* ===================== Payments ===================== */

type PaymentInput struct {
	StudentID     uuid.UUID
	FeeType       model.FeeType
	Amount        decimal.Decimal
	Method        model.PaymentMethod
	Details       MethodDetails
	DueDate       *time.Time
	ReceiptNumber string
	Description   string
	RecordedBy    string
}

func (in PaymentInput) draft(paidAt time.Time) PaymentDraft {
	return PaymentDraft{
		FeeType:       in.FeeType,
		Amount:        in.Amount,
		Method:        in.Method,
		Details:       in.Details,
		DueDate:       in.DueDate,
		PaidDate:      paidAt,
		ReceiptNumber: strings.TrimSpace(in.ReceiptNumber),
		Description:   in.Description,
		RecordedBy:    in.RecordedBy,
	}
}

type PaymentPreview struct {
	FeeType     model.FeeType   `json:"fee_type"`
	Amount      decimal.Decimal `json:"amount"`
	DueBefore   decimal.Decimal `json:"due_before"`
	DueAfter    decimal.Decimal `json:"due_after"`
	LedgerAfter Ledger          `json:"ledger_after"`
}

// PreviewPayment runs the allocator on the latest snapshot without persisting.
// A rejection comes back as a *Rejection error.
func (s *FeeService) PreviewPayment(ctx context.Context, in PaymentInput) (*PaymentPreview, error) {
	st, err := s.Store.GetStudent(ctx, in.StudentID)
	if err != nil {
		return nil, err
	}
	payments, err := s.Store.ListPayments(ctx, in.StudentID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	records := RecordsFromModels(payments)
	before := ComputeLedger(st.FeeStructure(), records)

	if err := Allocate(before, in.FeeType, in.Amount); err != nil {
		return nil, err
	}
	// metode boleh belum dipilih saat preview
	if in.Method != "" {
		if err := ValidateMethodDetails(in.Method, in.Details); err != nil {
			return nil, err
		}
	}

	amount := in.Amount
	after := ComputeLedger(st.FeeStructure(), append(records, PaymentRecord{
		FeeType:    in.FeeType,
		Amount:     amount,
		PaidAmount: &amount,
		Status:     model.PaymentStatusPaid,
	}))
	return &PaymentPreview{
		FeeType:     in.FeeType,
		Amount:      in.Amount,
		DueBefore:   before.DueFor(in.FeeType),
		DueAfter:    after.DueFor(in.FeeType),
		LedgerAfter: after,
	}, nil
}

type RecordedPayment struct {
	Payment model.FeePaymentModel `json:"payment"`
	Receipt Receipt               `json:"receipt"`
}

// RecordPayment validates method details, lets the store re-check and insert the
// payment, then composes the receipt against the updated ledger.
func (s *FeeService) RecordPayment(ctx context.Context, in PaymentInput) (*RecordedPayment, error) {
	if !in.Amount.IsPositive() {
		return nil, &Rejection{Kind: RejectInvalidAmount, FeeType: in.FeeType}
	}
	if err := ValidateMethodDetails(in.Method, in.Details); err != nil {
		return nil, err
	}

	issuedAt := s.now()
	numbers := s.Receipts
	d := in.draft(issuedAt)
	if d.ReceiptNumber != "" {
		numbers = FixedReceiptNumber(d.ReceiptNumber)
	}

	rec, err := s.Store.RecordPayment(ctx, in.StudentID, d, numbers)
	if err != nil {
		if r, ok := AsRejection(err); ok {
			s.Logger.Info("fee payment rejected",
				zap.String("student_id", in.StudentID.String()),
				zap.String("fee_type", string(in.FeeType)),
				zap.String("amount", in.Amount.String()),
				zap.String("kind", string(r.Kind)),
			)
		}
		return nil, err
	}

	s.Logger.Info("fee payment recorded",
		zap.String("payment_id", rec.FeePaymentID.String()),
		zap.String("student_id", in.StudentID.String()),
		zap.String("fee_type", string(rec.FeePaymentFeeType)),
		zap.String("amount", rec.FeePaymentAmount.String()),
		zap.String("receipt_number", rec.FeePaymentReceiptNumber),
	)

	st, l, err := s.Ledger(ctx, in.StudentID)
	if err != nil {
		return nil, err
	}
	receipt := ComposeReceipt(*st, l, *rec, ReceiptOptions{
		Institution: s.Institution,
		IssuedAt:    issuedAt,
	})
	return &RecordedPayment{Payment: *rec, Receipt: receipt}, nil
}

// Receipt recomposes the receipt of a stored payment from the current ledger.
func (s *FeeService) Receipt(ctx context.Context, paymentID uuid.UUID) (*Receipt, error) {
	r, _, err := s.receipt(ctx, paymentID)
	return r, err
}

func (s *FeeService) receipt(ctx context.Context, paymentID uuid.UUID) (*Receipt, time.Time, error) {
	p, err := s.Store.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, time.Time{}, err
	}
	st, l, err := s.Ledger(ctx, p.FeePaymentStudentID)
	if err != nil {
		return nil, time.Time{}, err
	}
	issuedAt := s.now()
	if p.FeePaymentPaidDate != nil {
		issuedAt = *p.FeePaymentPaidDate
	}
	r := ComposeReceipt(*st, l, *p, ReceiptOptions{
		Institution: s.Institution,
		IssuedAt:    issuedAt,
	})
	return &r, issuedAt, nil
}

// ReceiptFile is a rendered xlsx receipt ready to be downloaded or archived.
type ReceiptFile struct {
	Receipt  Receipt
	IssuedAt time.Time
	FileName string
	Body     []byte
}

// ReceiptWorkbook renders the receipt of a stored payment as an xlsx workbook.
func (s *FeeService) ReceiptWorkbook(ctx context.Context, paymentID uuid.UUID, logoPNG []byte) (*ReceiptFile, error) {
	r, issuedAt, err := s.receipt(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := WriteReceiptXLSX(&buf, *r, logoPNG); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return &ReceiptFile{
		Receipt:  *r,
		IssuedAt: issuedAt,
		FileName: "receipt-" + r.ReceiptNumber + ".xlsx",
		Body:     buf.Bytes(),
	}, nil
}

/* ===================== Reminders ===================== */

type DueReminder struct {
	StudentID uuid.UUID       `json:"student_id"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone"`
	Due       decimal.Decimal `json:"due"`
	Message   string          `json:"message"`
}

const reminderPageSize = 200

// DueReminders collects a reminder for every student that still owes money.
func (s *FeeService) DueReminders(ctx context.Context) ([]DueReminder, error) {
	out := make([]DueReminder, 0)
	for offset := 0; ; offset += reminderPageSize {
		page, total, err := s.ListSummaries(ctx, StudentListQuery{Limit: reminderPageSize, Offset: offset})
		if err != nil {
			return nil, err
		}
		for _, sm := range page {
			if !sm.Ledger.TotalFeeDue.IsPositive() {
				continue
			}
			out = append(out, NewDueReminder(sm.Student, sm.Ledger.TotalFeeDue))
		}
		if len(page) == 0 || int64(offset+len(page)) >= total {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func NewDueReminder(st model.StudentFeeModel, due decimal.Decimal) DueReminder {
	name := deref(st.StudentName)
	if strings.TrimSpace(name) == "" {
		name = "Student"
	}
	phone := deref(st.StudentPhone)
	if strings.TrimSpace(phone) == "" {
		phone = deref(st.StudentGuardianPhone)
	}
	return DueReminder{
		StudentID: st.StudentID,
		Name:      name,
		Phone:     phone,
		Due:       due,
		Message: fmt.Sprintf(
			"Dear %s, your fee payment is due. Please pay ₹%s at your earliest convenience. Thank you.",
			name, due.StringFixed(2),
		),
	}
}

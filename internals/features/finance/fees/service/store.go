// file: internals/features/finance/fees/service/store.go
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	model "feeportal_backend/internals/features/finance/fees/model"
)

var (
	ErrStudentNotFound   = errors.New("student not found")
	ErrPaymentNotFound   = errors.New("fee payment not found")
	ErrReceiptNumberUsed = errors.New("receipt number already used")
)

// maxReceiptAttempts bounds retries when a generated receipt number collides.
const maxReceiptAttempts = 5

type StudentListQuery struct {
	Q      string
	Limit  int
	Offset int
}

// FeeStore is the persistence boundary of the fee desk.
//
// RecordPayment must be atomic per student: it reloads the payment history under a
// lock, re-runs Allocate on that fresh snapshot and only then inserts. This is the
// authoritative check; the one done by callers before submitting is advisory.
type FeeStore interface {
	GetStudent(ctx context.Context, id uuid.UUID) (*model.StudentFeeModel, error)
	ListStudents(ctx context.Context, q StudentListQuery) ([]model.StudentFeeModel, int64, error)
	ListPayments(ctx context.Context, studentID uuid.UUID) ([]model.FeePaymentModel, error)
	GetPayment(ctx context.Context, id uuid.UUID) (*model.FeePaymentModel, error)
	RecordPayment(ctx context.Context, studentID uuid.UUID, d PaymentDraft, numbers ReceiptNumberGenerator) (*model.FeePaymentModel, error)
}

// prepareRecord re-checks a draft against the locked snapshot and builds the row.
func prepareRecord(student *model.StudentFeeModel, history []model.FeePaymentModel, d PaymentDraft) (*model.FeePaymentModel, error) {
	l := ComputeLedger(student.FeeStructure(), RecordsFromModels(history))
	if err := Allocate(l, d.FeeType, d.Amount); err != nil {
		return nil, err
	}
	return NewPaidRecord(student.StudentID, d, l, ""), nil
}

func receiptAttempts(numbers ReceiptNumberGenerator) int {
	if _, fixed := numbers.(FixedReceiptNumber); fixed {
		return 1
	}
	return maxReceiptAttempts
}

package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "feeportal_backend/internals/features/finance/fees/model"
)

// sequenceNumbers returns the given numbers in order, then repeats the last one.
type sequenceNumbers struct {
	mu   sync.Mutex
	nums []string
	i    int
}

func (s *sequenceNumbers) Next() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.nums[s.i]
	if s.i < len(s.nums)-1 {
		s.i++
	}
	return n, nil
}

func cashDraft(t model.FeeType, amount int64) PaymentDraft {
	return PaymentDraft{
		FeeType:  t,
		Amount:   d(amount),
		Method:   model.PaymentMethodCash,
		PaidDate: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestMemoryFeeStore_RecordPayment(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryFeeStore()
	st := s.PutStudent(sampleStudent())

	rec, err := s.RecordPayment(ctx, st.StudentID, cashDraft(model.FeeTypeTuition, 3000), FixedReceiptNumber("CIMS00000001"))
	require.NoError(t, err)
	assert.Equal(t, "CIMS00000001", rec.FeePaymentReceiptNumber)

	got, err := s.GetPayment(ctx, rec.FeePaymentID)
	require.NoError(t, err)
	assert.Equal(t, rec.FeePaymentID, got.FeePaymentID)

	payments, err := s.ListPayments(ctx, st.StudentID)
	require.NoError(t, err)
	assert.Len(t, payments, 1)

	_, err = s.RecordPayment(ctx, st.StudentID, cashDraft(model.FeeTypeTuition, 2001), NewRandomReceiptNumbers("", 0))
	r := requireRejection(t, err, RejectExceedsRemaining)
	assert.True(t, r.Remaining.Equal(d(2000)))
}

func TestMemoryFeeStore_NotFound(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryFeeStore()

	_, err := s.GetStudent(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrStudentNotFound)

	_, err = s.GetPayment(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrPaymentNotFound)

	_, err = s.RecordPayment(ctx, uuid.New(), cashDraft(model.FeeTypeFine, 10), FixedReceiptNumber("X"))
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestMemoryFeeStore_ReceiptCollisionRetries(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryFeeStore()
	st := s.PutStudent(sampleStudent())
	s.PutPayment(model.FeePaymentModel{
		FeePaymentStudentID:     st.StudentID,
		FeePaymentFeeType:       model.FeeTypeFine,
		FeePaymentAmount:        d(10),
		FeePaymentStatus:        model.PaymentStatusPaid,
		FeePaymentReceiptNumber: "CIMS00000001",
	})

	gen := &sequenceNumbers{nums: []string{"CIMS00000001", "CIMS00000002"}}
	rec, err := s.RecordPayment(ctx, st.StudentID, cashDraft(model.FeeTypeHostel, 100), gen)
	require.NoError(t, err)
	assert.Equal(t, "CIMS00000002", rec.FeePaymentReceiptNumber)

	_, err = s.RecordPayment(ctx, st.StudentID, cashDraft(model.FeeTypeHostel, 100), FixedReceiptNumber("CIMS00000002"))
	assert.ErrorIs(t, err, ErrReceiptNumberUsed)

	stuck := &sequenceNumbers{nums: []string{"CIMS00000001"}}
	_, err = s.RecordPayment(ctx, st.StudentID, cashDraft(model.FeeTypeHostel, 100), stuck)
	assert.ErrorIs(t, err, ErrReceiptNumberUsed)
}

func TestMemoryFeeStore_ConcurrentPaymentsNeverOverpay(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryFeeStore()
	st := s.PutStudent(sampleStudent())

	const desks = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted, rejected := 0, 0

	for i := 0; i < desks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.RecordPayment(ctx, st.StudentID, cashDraft(model.FeeTypeTuition, 1000), NewRandomReceiptNumbers("", 0))
			mu.Lock()
			defer mu.Unlock()
			var rej *Rejection
			switch {
			case err == nil:
				accepted++
			case errors.As(err, &rej):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, accepted)
	assert.Equal(t, desks-5, rejected)

	payments, err := s.ListPayments(ctx, st.StudentID)
	require.NoError(t, err)
	l := ComputeLedger(st.FeeStructure(), RecordsFromModels(payments))
	assert.True(t, l.DueFor(model.FeeTypeTuition).IsZero())
}

func TestMemoryFeeStore_ListStudents(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryFeeStore()
	for _, name := range []string{"Zoya Khan", "Aarav Sharma", "Meera Iyer"} {
		s.PutStudent(model.StudentFeeModel{StudentName: strPtr(name)})
	}

	all, total, err := s.ListStudents(ctx, StudentListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, all, 3)
	assert.Equal(t, "Aarav Sharma", *all[0].StudentName)

	page, total, err := s.ListStudents(ctx, StudentListQuery{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, page, 1)
	assert.Equal(t, "Meera Iyer", *page[0].StudentName)

	found, total, err := s.ListStudents(ctx, StudentListQuery{Q: "khan"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Zoya Khan", *found[0].StudentName)

	empty, _, err := s.ListStudents(ctx, StudentListQuery{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

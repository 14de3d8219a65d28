// file: internals/features/finance/fees/service/memory_store.go
package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	model "feeportal_backend/internals/features/finance/fees/model"
)

// MemoryFeeStore keeps students and payments in process memory.
// Used by tests and by FEE_STORE=memory local runs.
type MemoryFeeStore struct {
	mu       sync.Mutex
	students map[uuid.UUID]model.StudentFeeModel
	payments []model.FeePaymentModel
	receipts map[string]struct{}
}

func NewMemoryFeeStore() *MemoryFeeStore {
	return &MemoryFeeStore{
		students: make(map[uuid.UUID]model.StudentFeeModel),
		receipts: make(map[string]struct{}),
	}
}

// PutStudent inserts or replaces a student; a nil id gets a fresh uuid.
func (s *MemoryFeeStore) PutStudent(st model.StudentFeeModel) model.StudentFeeModel {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st.StudentID == uuid.Nil {
		st.StudentID = uuid.New()
	}
	s.students[st.StudentID] = st
	return st
}

// PutPayment stores a historical payment as-is (no allocation check).
func (s *MemoryFeeStore) PutPayment(p model.FeePaymentModel) model.FeePaymentModel {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.FeePaymentID == uuid.Nil {
		p.FeePaymentID = uuid.New()
	}
	if p.FeePaymentReceiptNumber != "" {
		s.receipts[p.FeePaymentReceiptNumber] = struct{}{}
	}
	s.payments = append(s.payments, p)
	return p
}

func (s *MemoryFeeStore) GetStudent(_ context.Context, id uuid.UUID) (*model.StudentFeeModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.students[id]
	if !ok {
		return nil, ErrStudentNotFound
	}
	return &st, nil
}

func (s *MemoryFeeStore) ListStudents(_ context.Context, q StudentListQuery) ([]model.StudentFeeModel, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(strings.TrimSpace(q.Q))
	matched := make([]model.StudentFeeModel, 0, len(s.students))
	for _, st := range s.students {
		if needle == "" || studentMatches(st, needle) {
			matched = append(matched, st)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := deref(matched[i].StudentName), deref(matched[j].StudentName)
		if a != b {
			return a < b
		}
		return matched[i].StudentID.String() < matched[j].StudentID.String()
	})

	total := int64(len(matched))
	start := q.Offset
	if start < 0 {
		start = 0
	}
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if q.Limit > 0 && start+q.Limit < end {
		end = start + q.Limit
	}
	return matched[start:end], total, nil
}

func (s *MemoryFeeStore) ListPayments(_ context.Context, studentID uuid.UUID) ([]model.FeePaymentModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paymentsOf(studentID), nil
}

func (s *MemoryFeeStore) GetPayment(_ context.Context, id uuid.UUID) (*model.FeePaymentModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.payments {
		if p.FeePaymentID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, ErrPaymentNotFound
}

func (s *MemoryFeeStore) RecordPayment(_ context.Context, studentID uuid.UUID, d PaymentDraft, numbers ReceiptNumberGenerator) (*model.FeePaymentModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.students[studentID]
	if !ok {
		return nil, ErrStudentNotFound
	}
	rec, err := prepareRecord(&st, s.paymentsOf(studentID), d)
	if err != nil {
		return nil, err
	}

	attempts := receiptAttempts(numbers)
	for i := 0; i < attempts; i++ {
		number, err := numbers.Next()
		if err != nil {
			return nil, err
		}
		if _, taken := s.receipts[number]; taken {
			continue
		}
		rec.FeePaymentReceiptNumber = number
		s.receipts[number] = struct{}{}
		s.payments = append(s.payments, *rec)
		return rec, nil
	}
	return nil, fmt.Errorf("record payment after %d attempts: %w", attempts, ErrReceiptNumberUsed)
}

// paymentsOf must be called with mu held.
func (s *MemoryFeeStore) paymentsOf(studentID uuid.UUID) []model.FeePaymentModel {
	out := make([]model.FeePaymentModel, 0)
	for _, p := range s.payments {
		if p.FeePaymentStudentID == studentID {
			out = append(out, p)
		}
	}
	return out
}

func studentMatches(st model.StudentFeeModel, needle string) bool {
	for _, f := range []*string{st.StudentName, st.StudentRollNumber, st.StudentEmail, st.StudentClass} {
		if strings.Contains(strings.ToLower(deref(f)), needle) {
			return true
		}
	}
	return false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// file: internals/features/finance/fees/service/gorm_store.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	model "feeportal_backend/internals/features/finance/fees/model"
	helper "feeportal_backend/internals/helpers"
)

const receiptSavepoint = "fee_payment_receipt"

// GormFeeStore is the Postgres-backed FeeStore.
type GormFeeStore struct {
	DB *gorm.DB
}

func NewGormFeeStore(db *gorm.DB) *GormFeeStore {
	return &GormFeeStore{DB: db}
}

func (s *GormFeeStore) GetStudent(ctx context.Context, id uuid.UUID) (*model.StudentFeeModel, error) {
	var st model.StudentFeeModel
	if err := s.DB.WithContext(ctx).Where("student_id = ?", id).Take(&st).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return &st, nil
}

func (s *GormFeeStore) ListStudents(ctx context.Context, q StudentListQuery) ([]model.StudentFeeModel, int64, error) {
	tx := s.DB.WithContext(ctx).Model(&model.StudentFeeModel{})
	if needle := strings.TrimSpace(q.Q); needle != "" {
		like := "%" + needle + "%"
		tx = tx.Where(
			"student_name ILIKE ? OR student_roll_number ILIKE ? OR student_email ILIKE ? OR student_class ILIKE ?",
			like, like, like, like,
		)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := make([]model.StudentFeeModel, 0)
	tx = tx.Order("student_name ASC").Order("student_id ASC")
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}
	if err := tx.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *GormFeeStore) ListPayments(ctx context.Context, studentID uuid.UUID) ([]model.FeePaymentModel, error) {
	rows := make([]model.FeePaymentModel, 0)
	err := s.DB.WithContext(ctx).
		Where("fee_payment_student_id = ?", studentID).
		Order("fee_payment_created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (s *GormFeeStore) GetPayment(ctx context.Context, id uuid.UUID) (*model.FeePaymentModel, error) {
	var p model.FeePaymentModel
	if err := s.DB.WithContext(ctx).Where("fee_payment_id = ?", id).Take(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

// RecordPayment locks the student row, reloads history, re-checks the draft and
// inserts. Two desks paying the same category serialize on the student lock.
func (s *GormFeeStore) RecordPayment(ctx context.Context, studentID uuid.UUID, d PaymentDraft, numbers ReceiptNumberGenerator) (*model.FeePaymentModel, error) {
	var out *model.FeePaymentModel

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var st model.StudentFeeModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("student_id = ?", studentID).
			Take(&st).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStudentNotFound
			}
			return err
		}

		history := make([]model.FeePaymentModel, 0)
		if err := tx.Where("fee_payment_student_id = ?", studentID).Find(&history).Error; err != nil {
			return err
		}

		rec, err := prepareRecord(&st, history, d)
		if err != nil {
			return err
		}

		attempts := receiptAttempts(numbers)
		for i := 0; i < attempts; i++ {
			number, err := numbers.Next()
			if err != nil {
				return err
			}
			rec.FeePaymentReceiptNumber = number

			// savepoint: unique violation membatalkan tx di Postgres
			if err := tx.SavePoint(receiptSavepoint).Error; err != nil {
				return err
			}
			if err := tx.Create(rec).Error; err != nil {
				if helper.IsUniqueViolation(err) {
					if rbErr := tx.RollbackTo(receiptSavepoint).Error; rbErr != nil {
						return rbErr
					}
					continue
				}
				return err
			}
			out = rec
			return nil
		}
		return fmt.Errorf("record payment after %d attempts: %w", attempts, ErrReceiptNumberUsed)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// file: internals/features/finance/fees/model/fee_payment_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FeePaymentModel adalah satu pembayaran yang tercatat. Tidak pernah di-update
// setelah dibuat; perubahan status (jika ada) urusan server lain.
type FeePaymentModel struct {
	FeePaymentID        uuid.UUID `gorm:"column:fee_payment_id;type:uuid;default:gen_random_uuid();primaryKey" json:"fee_payment_id"`
	FeePaymentStudentID uuid.UUID `gorm:"column:fee_payment_student_id;type:uuid;not null;index:ix_fee_payments_student" json:"fee_payment_student_id"`

	FeePaymentFeeType FeeType `gorm:"column:fee_payment_fee_type;type:varchar(30);not null;index:ix_fee_payments_student_type" json:"fee_payment_fee_type"`

	// Nominal: paid_amount otoritatif, fallback ke amount
	FeePaymentAmount     decimal.Decimal  `gorm:"column:fee_payment_amount;type:numeric(12,2);not null;default:0" json:"fee_payment_amount"`
	FeePaymentPaidAmount *decimal.Decimal `gorm:"column:fee_payment_paid_amount;type:numeric(12,2)" json:"fee_payment_paid_amount,omitempty"`

	FeePaymentStatus PaymentStatus `gorm:"column:fee_payment_status;type:varchar(20);not null;default:'pending';index" json:"fee_payment_status"`
	FeePaymentMethod PaymentMethod `gorm:"column:fee_payment_method;type:varchar(30);not null" json:"fee_payment_method"`

	// Detail metode
	FeePaymentChequeNumber  *string `gorm:"column:fee_payment_cheque_number;type:varchar(60)" json:"fee_payment_cheque_number,omitempty"`
	FeePaymentTransactionID *string `gorm:"column:fee_payment_transaction_id;type:varchar(120)" json:"fee_payment_transaction_id,omitempty"`
	FeePaymentBankName      *string `gorm:"column:fee_payment_bank_name;type:varchar(120)" json:"fee_payment_bank_name,omitempty"`

	// Tanggal (disimpan sebagai date, diformat DD-MM-YYYY hanya saat presentasi)
	FeePaymentDueDate  *time.Time `gorm:"column:fee_payment_due_date;type:date" json:"fee_payment_due_date,omitempty"`
	FeePaymentPaidDate *time.Time `gorm:"column:fee_payment_paid_date;type:date" json:"fee_payment_paid_date,omitempty"`

	FeePaymentReceiptNumber string  `gorm:"column:fee_payment_receipt_number;type:varchar(40);not null;uniqueIndex:uq_fee_payments_receipt_number" json:"fee_payment_receipt_number"`
	FeePaymentDescription   *string `gorm:"column:fee_payment_description;type:text" json:"fee_payment_description,omitempty"`

	// Untuk pembayaran total_fee: kategori yang tercakup saat ditulis
	FeePaymentCoveredCategories pq.StringArray    `gorm:"column:fee_payment_covered_categories;type:text[]" json:"fee_payment_covered_categories,omitempty"`
	FeePaymentMeta              datatypes.JSONMap `gorm:"column:fee_payment_meta;type:jsonb" json:"fee_payment_meta,omitempty"`

	FeePaymentCreatedAt time.Time      `gorm:"column:fee_payment_created_at;autoCreateTime" json:"fee_payment_created_at"`
	FeePaymentDeletedAt gorm.DeletedAt `gorm:"column:fee_payment_deleted_at;index" json:"-"`
}

func (FeePaymentModel) TableName() string { return "fee_payments" }

/* ===================== Helpers ===================== */

func (p *FeePaymentModel) IsPaid() bool { return p.FeePaymentStatus.IsPaid() }

// EffectiveAmount: paid_amount kalau ada, selain itu amount.
func (p *FeePaymentModel) EffectiveAmount() decimal.Decimal {
	if p.FeePaymentPaidAmount != nil {
		return *p.FeePaymentPaidAmount
	}
	return p.FeePaymentAmount
}

// Reference is the cheque/DD number or the transaction id, whichever applies.
func (p *FeePaymentModel) Reference() *string {
	switch p.FeePaymentMethod {
	case PaymentMethodChequeDD:
		return p.FeePaymentChequeNumber
	case PaymentMethodUPIOrBank:
		return p.FeePaymentTransactionID
	}
	return nil
}

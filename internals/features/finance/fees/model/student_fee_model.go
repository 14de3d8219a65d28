// file: internals/features/finance/fees/model/student_fee_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StudentFeeModel adalah snapshot siswa yang dibutuhkan meja fee:
// identitas untuk kwitansi + struktur fee per kategori.
// Siswa dibuat oleh alur admisi (di luar modul ini).
type StudentFeeModel struct {
	StudentID uuid.UUID `gorm:"column:student_id;type:uuid;default:gen_random_uuid();primaryKey" json:"student_id"`

	// Identitas (semua opsional)
	StudentName          *string `gorm:"column:student_name;type:text" json:"student_name,omitempty"`
	StudentRollNumber    *string `gorm:"column:student_roll_number;type:varchar(40);index" json:"student_roll_number,omitempty"`
	StudentClass         *string `gorm:"column:student_class;type:varchar(80)" json:"student_class,omitempty"`
	StudentPhone         *string `gorm:"column:student_phone;type:varchar(30)" json:"student_phone,omitempty"`
	StudentEmail         *string `gorm:"column:student_email;type:varchar(120)" json:"student_email,omitempty"`
	StudentGuardianName  *string `gorm:"column:student_guardian_name;type:text" json:"student_guardian_name,omitempty"`
	StudentFatherName    *string `gorm:"column:student_father_name;type:text" json:"student_father_name,omitempty"`
	StudentGuardianPhone *string `gorm:"column:student_guardian_phone;type:varchar(30)" json:"student_guardian_phone,omitempty"`
	StudentAddress       *string `gorm:"column:student_address;type:text" json:"student_address,omitempty"`

	// Struktur fee
	StudentTuitionFee       decimal.Decimal `gorm:"column:student_tuition_fee;type:numeric(12,2);not null;default:0;check:student_tuition_fee >= 0" json:"student_tuition_fee"`
	StudentHostelFee        decimal.Decimal `gorm:"column:student_hostel_fee;type:numeric(12,2);not null;default:0;check:student_hostel_fee >= 0" json:"student_hostel_fee"`
	StudentSecurityFee      decimal.Decimal `gorm:"column:student_security_fee;type:numeric(12,2);not null;default:0;check:student_security_fee >= 0" json:"student_security_fee"`
	StudentACCharge         decimal.Decimal `gorm:"column:student_ac_charge;type:numeric(12,2);not null;default:0;check:student_ac_charge >= 0" json:"student_ac_charge"`
	StudentMiscellaneousFee decimal.Decimal `gorm:"column:student_miscellaneous_fee;type:numeric(12,2);not null;default:0;check:student_miscellaneous_fee >= 0" json:"student_miscellaneous_fee"`
	StudentTotalFee         decimal.Decimal `gorm:"column:student_total_fee;type:numeric(12,2);not null;default:0" json:"student_total_fee"`

	StudentCreatedAt time.Time      `gorm:"column:student_created_at;autoCreateTime" json:"student_created_at"`
	StudentUpdatedAt time.Time      `gorm:"column:student_updated_at;autoUpdateTime" json:"student_updated_at"`
	StudentDeletedAt gorm.DeletedAt `gorm:"column:student_deleted_at;index" json:"-"`
}

func (StudentFeeModel) TableName() string { return "students" }

// FeeStructure returns the per-category totals. Negative totals are stored as zero.
func (s *StudentFeeModel) FeeStructure() map[FeeType]decimal.Decimal {
	nonNeg := func(d decimal.Decimal) decimal.Decimal {
		if d.IsNegative() {
			return decimal.Zero
		}
		return d
	}
	return map[FeeType]decimal.Decimal{
		FeeTypeTuition:       nonNeg(s.StudentTuitionFee),
		FeeTypeHostel:        nonNeg(s.StudentHostelFee),
		FeeTypeSecurity:      nonNeg(s.StudentSecurityFee),
		FeeTypeACCharge:      nonNeg(s.StudentACCharge),
		FeeTypeMiscellaneous: nonNeg(s.StudentMiscellaneousFee),
	}
}

// GuardianName: guardian dulu, lalu nama ayah.
func (s *StudentFeeModel) GuardianName() *string {
	if s.StudentGuardianName != nil && *s.StudentGuardianName != "" {
		return s.StudentGuardianName
	}
	return s.StudentFatherName
}

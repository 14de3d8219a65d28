package students

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	model "feeportal_backend/internals/features/finance/fees/model"
)

// StudentSeed: satu baris di data_students.json
type StudentSeed struct {
	StudentName          string          `json:"student_name"`
	StudentRollNumber    string          `json:"student_roll_number"`
	StudentClass         string          `json:"student_class"`
	StudentPhone         string          `json:"student_phone"`
	StudentEmail         string          `json:"student_email"`
	StudentGuardianName  string          `json:"student_guardian_name"`
	StudentFatherName    string          `json:"student_father_name"`
	StudentGuardianPhone string          `json:"student_guardian_phone"`
	StudentAddress       string          `json:"student_address"`
	TuitionFee           decimal.Decimal `json:"tuition_fee"`
	HostelFee            decimal.Decimal `json:"hostel_fee"`
	SecurityFee          decimal.Decimal `json:"security_fee"`
	ACCharge             decimal.Decimal `json:"ac_charge"`
	MiscellaneousFee     decimal.Decimal `json:"miscellaneous_fee"`
}

func (s StudentSeed) toModel() model.StudentFeeModel {
	m := model.StudentFeeModel{
		StudentName:             opt(s.StudentName),
		StudentRollNumber:       opt(s.StudentRollNumber),
		StudentClass:            opt(s.StudentClass),
		StudentPhone:            opt(s.StudentPhone),
		StudentEmail:            opt(s.StudentEmail),
		StudentGuardianName:     opt(s.StudentGuardianName),
		StudentFatherName:       opt(s.StudentFatherName),
		StudentGuardianPhone:    opt(s.StudentGuardianPhone),
		StudentAddress:          opt(s.StudentAddress),
		StudentTuitionFee:       s.TuitionFee,
		StudentHostelFee:        s.HostelFee,
		StudentSecurityFee:      s.SecurityFee,
		StudentACCharge:         s.ACCharge,
		StudentMiscellaneousFee: s.MiscellaneousFee,
	}
	m.StudentTotalFee = s.TuitionFee.Add(s.HostelFee).Add(s.SecurityFee).Add(s.ACCharge).Add(s.MiscellaneousFee)
	return m
}

func opt(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// LoadStudentsFromJSON membaca file seed dan mengubahnya ke model siswa.
func LoadStudentsFromJSON(filePath string) ([]model.StudentFeeModel, error) {
	file, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("baca file seed: %w", err)
	}
	var seeds []StudentSeed
	if err := sonic.Unmarshal(file, &seeds); err != nil {
		return nil, fmt.Errorf("decode JSON seed: %w", err)
	}
	out := make([]model.StudentFeeModel, 0, len(seeds))
	for i, s := range seeds {
		for _, fee := range []decimal.Decimal{s.TuitionFee, s.HostelFee, s.SecurityFee, s.ACCharge, s.MiscellaneousFee} {
			if fee.IsNegative() {
				return nil, fmt.Errorf("seed #%d (%s): fee negatif", i, s.StudentName)
			}
		}
		out = append(out, s.toModel())
	}
	return out, nil
}

// SeedStudentsFromJSON: insert siswa yang belum ada (dicek via roll number).
func SeedStudentsFromJSON(ctx context.Context, db *gorm.DB, filePath string, logger *zap.Logger) (int, error) {
	logger.Info("📥 Membaca file seed siswa", zap.String("file", filePath))
	students, err := LoadStudentsFromJSON(filePath)
	if err != nil {
		return 0, err
	}

	inserted := 0
	for i := range students {
		st := students[i]
		if st.StudentRollNumber != nil {
			var count int64
			if err := db.WithContext(ctx).Model(&model.StudentFeeModel{}).
				Where("student_roll_number = ?", *st.StudentRollNumber).
				Count(&count).Error; err != nil {
				return inserted, err
			}
			if count > 0 {
				logger.Debug("ℹ️ siswa sudah ada, lewati", zap.String("roll_number", *st.StudentRollNumber))
				continue
			}
		}
		if err := db.WithContext(ctx).Create(&st).Error; err != nil {
			logger.Error("❌ Gagal insert siswa", zap.Error(err))
			continue
		}
		inserted++
	}
	logger.Info("✅ Seed siswa selesai", zap.Int("inserted", inserted))
	return inserted, nil
}

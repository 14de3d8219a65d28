// file: internals/features/finance/fees/dto/student_fee_dto.go
package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	m "feeportal_backend/internals/features/finance/fees/model"
	svc "feeportal_backend/internals/features/finance/fees/service"
)

type StudentFeeResponse struct {
	StudentID         uuid.UUID `json:"student_id"`
	StudentName       *string   `json:"student_name,omitempty"`
	StudentRollNumber *string   `json:"student_roll_number,omitempty"`
	StudentClass      *string   `json:"student_class,omitempty"`
	StudentPhone      *string   `json:"student_phone,omitempty"`
	StudentEmail      *string   `json:"student_email,omitempty"`
	StudentGuardian   *string   `json:"student_guardian_name,omitempty"`

	StudentFeeStructure map[m.FeeType]decimal.Decimal `json:"student_fee_structure"`
}

type StudentLedgerResponse struct {
	Student StudentFeeResponse `json:"student"`
	Ledger  svc.Ledger         `json:"ledger"`
	Status  svc.FeeStatus      `json:"status"`
}

type StudentPaymentsResponse struct {
	StudentLedgerResponse
	Payments []FeePaymentResponse `json:"payments"`
}

func FromStudentModel(x m.StudentFeeModel) StudentFeeResponse {
	return StudentFeeResponse{
		StudentID:           x.StudentID,
		StudentName:         x.StudentName,
		StudentRollNumber:   x.StudentRollNumber,
		StudentClass:        x.StudentClass,
		StudentPhone:        x.StudentPhone,
		StudentEmail:        x.StudentEmail,
		StudentGuardian:     x.GuardianName(),
		StudentFeeStructure: x.FeeStructure(),
	}
}

func FromLedger(x m.StudentFeeModel, l svc.Ledger) StudentLedgerResponse {
	return StudentLedgerResponse{
		Student: FromStudentModel(x),
		Ledger:  l,
		Status:  l.Status(),
	}
}

func FromSummaries(list []svc.StudentSummary) []StudentLedgerResponse {
	out := make([]StudentLedgerResponse, 0, len(list))
	for _, it := range list {
		out = append(out, FromLedger(it.Student, it.Ledger))
	}
	return out
}

func FromSummary(s svc.StudentSummary) StudentPaymentsResponse {
	return StudentPaymentsResponse{
		StudentLedgerResponse: FromLedger(s.Student, s.Ledger),
		Payments:              FromPaymentModels(s.Payments),
	}
}

package main

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"feeportal_backend/internals/configs"
	feeModel "feeportal_backend/internals/features/finance/fees/model"
	feeService "feeportal_backend/internals/features/finance/fees/service"
)

func TestNewFeeService_InstitutionClock(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "Asia/Kolkata")
	t.Setenv("INSTITUTION_NAME", "CIMS Lucknow")
	cfg := configs.Load()

	store := feeService.NewMemoryFeeStore()
	name := "Aarav Sharma"
	st := store.PutStudent(feeModel.StudentFeeModel{
		StudentName:       &name,
		StudentTuitionFee: decimal.NewFromInt(5000),
	})

	service := newFeeService(cfg, store, zap.NewNop())
	assert.Equal(t, "Asia/Kolkata", service.Location().String())
	assert.Equal(t, "CIMS Lucknow", service.Institution.Name)

	out, err := service.RecordPayment(context.Background(), feeService.PaymentInput{
		StudentID: st.StudentID,
		FeeType:   feeModel.FeeTypeTuition,
		Amount:    decimal.NewFromInt(1000),
		Method:    feeModel.PaymentMethodCash,
	})
	require.NoError(t, err)

	// tanggal bayar mengikuti kalender institusi, bukan zona server
	paid := out.Payment.FeePaymentPaidDate
	require.NotNil(t, paid)
	assert.Equal(t, "Asia/Kolkata", paid.Location().String())
	today := time.Now().In(service.Location())
	assert.Equal(t, today.Format("02-01-2006"), out.Receipt.Payment.PaidDate)
	assert.Equal(t, today.Format("02-01-2006"), out.Receipt.IssuedOn)
}

package service

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "feeportal_backend/internals/features/finance/fees/model"
)

func requireRejection(t *testing.T, err error, kind RejectionKind) *Rejection {
	t.Helper()
	require.Error(t, err)
	r, ok := AsRejection(err)
	require.True(t, ok, "expected *Rejection, got %T", err)
	require.Equal(t, kind, r.Kind)
	return r
}

func TestAllocate(t *testing.T) {
	initial := ComputeLedger(scenarioStructure(), nil)
	settled := ComputeLedger(scenarioStructure(), []PaymentRecord{paid(model.FeeTypeTotal, 7000)})

	tests := []struct {
		name      string
		ledger    Ledger
		feeType   model.FeeType
		amount    decimal.Decimal
		wantKind  RejectionKind // "" = accepted
		remaining int64
	}{
		{"exact tuition accepted", initial, model.FeeTypeTuition, d(5000), "", 0},
		{"partial hostel accepted", initial, model.FeeTypeHostel, d(500), "", 0},
		{"tuition over by one", initial, model.FeeTypeTuition, d(5001), RejectExceedsRemaining, 5000},
		{"zero hostel", initial, model.FeeTypeHostel, d(0), RejectInvalidAmount, 0},
		{"negative amount", initial, model.FeeTypeTuition, d(-10), RejectInvalidAmount, 0},
		{"zero amount on fine", initial, model.FeeTypeFine, d(0), RejectInvalidAmount, 0},
		{"category with zero total", initial, model.FeeTypeSecurity, d(1), RejectAlreadyFullyPaid, 0},
		{"total fee within due", initial, model.FeeTypeTotal, d(7000), "", 0},
		{"total fee over due", initial, model.FeeTypeTotal, d(7001), RejectExceedsRemaining, 7000},
		{"total fee when settled", settled, model.FeeTypeTotal, d(1), RejectAlreadyFullyPaid, 0},
		{"category when settled by total fee", settled, model.FeeTypeTuition, d(1), RejectAlreadyFullyPaid, 0},
		{"fine when settled", settled, model.FeeTypeFine, d(250), "", 0},
		{"unknown fee type", initial, "library_fee", d(10), RejectUnknownFeeType, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Allocate(tt.ledger, tt.feeType, tt.amount)
			if tt.wantKind == "" {
				assert.NoError(t, err)
				return
			}
			r := requireRejection(t, err, tt.wantKind)
			if tt.wantKind == RejectExceedsRemaining {
				assert.True(t, r.Remaining.Equal(d(tt.remaining)), "remaining %s", r.Remaining)
			}
		})
	}
}

func TestAllocate_AcceptedThenRecomputed(t *testing.T) {
	l := ComputeLedger(scenarioStructure(), nil)
	require.NoError(t, Allocate(l, model.FeeTypeTuition, d(5000)))

	after := ComputeLedger(scenarioStructure(), []PaymentRecord{paid(model.FeeTypeTuition, 5000)})
	assert.True(t, after.DueFor(model.FeeTypeTuition).IsZero())

	requireRejection(t, Allocate(after, model.FeeTypeTuition, d(1)), RejectAlreadyFullyPaid)
}

func TestAllocate_OverpaymentAlwaysRejected(t *testing.T) {
	r := rand.New(rand.NewSource(99))
	for i := 0; i < 300; i++ {
		l := ComputeLedger(randomStructure(r), randomPayments(r, r.Intn(6)))
		for _, cat := range model.Categories {
			due := l.DueFor(cat)
			err := Allocate(l, cat, due.Add(d(1)))
			if due.IsPositive() {
				rej := requireRejection(t, err, RejectExceedsRemaining)
				require.True(t, rej.Remaining.Equal(due))
			} else {
				requireRejection(t, err, RejectAlreadyFullyPaid)
			}
		}
	}
}

func TestAllocate_FineAlwaysAccepted(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		l := ComputeLedger(randomStructure(r), randomPayments(r, r.Intn(6)))
		require.NoError(t, Allocate(l, model.FeeTypeFine, d(r.Int63n(100000)+1)))
	}
}

func TestRejection_Messages(t *testing.T) {
	tests := []struct {
		rej  Rejection
		want string
	}{
		{Rejection{Kind: RejectInvalidAmount}, "Please enter a valid amount"},
		{Rejection{Kind: RejectAlreadyFullyPaid, FeeType: model.FeeTypeHostel}, "Hostel Fee is already fully paid"},
		{Rejection{Kind: RejectAlreadyFullyPaid, FeeType: model.FeeTypeTotal}, "All fees are already fully paid"},
		{Rejection{Kind: RejectExceedsRemaining, FeeType: model.FeeTypeTuition, Remaining: d(5000)},
			"Payment exceeds remaining amount, only 5000.00 is due for Tuition Fee"},
		{Rejection{Kind: RejectMissingMethodDetails, Field: "bank_name"}, "bank_name is required for the selected payment method"},
	}
	for _, tt := range tests {
		t.Run(string(tt.rej.Kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rej.Error())
		})
	}
}

func TestAsRejection_Wrapped(t *testing.T) {
	err := fmt.Errorf("record: %w", &Rejection{Kind: RejectInvalidAmount})
	r, ok := AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, RejectInvalidAmount, r.Kind)

	_, ok = AsRejection(fmt.Errorf("boom"))
	assert.False(t, ok)
}

func TestValidateMethodDetails(t *testing.T) {
	tests := []struct {
		name      string
		method    model.PaymentMethod
		details   MethodDetails
		wantField string
	}{
		{"cash needs nothing", model.PaymentMethodCash, MethodDetails{}, ""},
		{"cheque complete", model.PaymentMethodChequeDD, MethodDetails{ChequeNumber: "000123", BankName: "SBI"}, ""},
		{"cheque missing number", model.PaymentMethodChequeDD, MethodDetails{BankName: "SBI"}, "cheque_number"},
		{"cheque missing bank", model.PaymentMethodChequeDD, MethodDetails{ChequeNumber: "000123", BankName: "  "}, "bank_name"},
		{"upi complete", model.PaymentMethodUPIOrBank, MethodDetails{TransactionID: "UTR9981", BankName: "HDFC"}, ""},
		{"upi missing txn", model.PaymentMethodUPIOrBank, MethodDetails{BankName: "HDFC"}, "transaction_id"},
		{"upi missing bank", model.PaymentMethodUPIOrBank, MethodDetails{TransactionID: "UTR9981"}, "bank_name"},
		{"unknown method", "crypto", MethodDetails{}, "payment_method"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMethodDetails(tt.method, tt.details)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			r := requireRejection(t, err, RejectMissingMethodDetails)
			assert.Equal(t, tt.wantField, r.Field)
		})
	}
}

func TestNewPaidRecord(t *testing.T) {
	studentID := uuid.New()
	paidAt := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	l := ComputeLedger(scenarioStructure(), []PaymentRecord{paid(model.FeeTypeTuition, 5000)})

	rec := NewPaidRecord(studentID, PaymentDraft{
		FeeType:    model.FeeTypeTotal,
		Amount:     d(2000),
		Method:     model.PaymentMethodChequeDD,
		Details:    MethodDetails{ChequeNumber: " 000777 ", BankName: "SBI", TransactionID: "ignored"},
		PaidDate:   paidAt,
		RecordedBy: "desk-1",
	}, l, "CIMS00123456")

	assert.NotEqual(t, uuid.Nil, rec.FeePaymentID)
	assert.Equal(t, studentID, rec.FeePaymentStudentID)
	assert.Equal(t, model.PaymentStatusPaid, rec.FeePaymentStatus)
	require.NotNil(t, rec.FeePaymentPaidAmount)
	assert.True(t, rec.FeePaymentPaidAmount.Equal(d(2000)))
	assert.Equal(t, "CIMS00123456", rec.FeePaymentReceiptNumber)

	require.NotNil(t, rec.FeePaymentPaidDate)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), *rec.FeePaymentPaidDate)
	require.NotNil(t, rec.FeePaymentDueDate)
	assert.Equal(t, time.Date(2024, 4, 14, 0, 0, 0, 0, time.UTC), *rec.FeePaymentDueDate)

	require.NotNil(t, rec.FeePaymentChequeNumber)
	assert.Equal(t, "000777", *rec.FeePaymentChequeNumber)
	assert.Nil(t, rec.FeePaymentTransactionID)

	assert.Equal(t, []string{string(model.FeeTypeHostel)}, []string(rec.FeePaymentCoveredCategories))
	assert.Equal(t, "2000.00", rec.FeePaymentMeta["due_before"])
	assert.Equal(t, "desk-1", rec.FeePaymentMeta["recorded_by"])
}

func TestNewPaidRecord_ExplicitDueDate(t *testing.T) {
	due := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	rec := NewPaidRecord(uuid.New(), PaymentDraft{
		FeeType:  model.FeeTypeFine,
		Amount:   d(100),
		Method:   model.PaymentMethodCash,
		DueDate:  &due,
		PaidDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}, ComputeLedger(scenarioStructure(), nil), "")

	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), *rec.FeePaymentDueDate)
	assert.Nil(t, rec.FeePaymentBankName)
	assert.Empty(t, rec.FeePaymentCoveredCategories)
}

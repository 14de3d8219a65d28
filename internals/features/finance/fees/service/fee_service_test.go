package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	model "feeportal_backend/internals/features/finance/fees/model"
)

var fixedNow = time.Date(2024, 7, 10, 11, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*FeeService, *MemoryFeeStore, model.StudentFeeModel) {
	t.Helper()
	store := NewMemoryFeeStore()
	st := store.PutStudent(sampleStudent())
	svc := NewFeeService(store, NewRandomReceiptNumbers("", 0), zap.NewNop())
	svc.Now = func() time.Time { return fixedNow }
	return svc, store, st
}

func TestFeeService_RecordPayment(t *testing.T) {
	ctx := context.Background()
	svc, _, st := newTestService(t)

	out, err := svc.RecordPayment(ctx, PaymentInput{
		StudentID: st.StudentID,
		FeeType:   model.FeeTypeTuition,
		Amount:    d(5000),
		Method:    model.PaymentMethodUPIOrBank,
		Details:   MethodDetails{TransactionID: "UTR00042", BankName: "HDFC"},
	})
	require.NoError(t, err)

	assert.Regexp(t, `^CIMS00\d{6}$`, out.Payment.FeePaymentReceiptNumber)
	assert.Equal(t, out.Payment.FeePaymentReceiptNumber, out.Receipt.ReceiptNumber)
	assert.Equal(t, "10-07-2024", out.Receipt.IssuedOn)
	assert.Equal(t, "09-08-2024", out.Receipt.Payment.DueDate)
	assert.Equal(t, "UTR00042", out.Receipt.Payment.Reference)
	assert.True(t, out.Receipt.Lines[0].Due.IsZero())
	assert.True(t, out.Receipt.GrandTotal.Due.Equal(d(2000)))

	_, l, err := svc.Ledger(ctx, st.StudentID)
	require.NoError(t, err)
	assert.True(t, l.DueFor(model.FeeTypeTuition).IsZero())
	assert.Equal(t, FeeStatusPartial, l.Status())
}

func TestFeeService_RecordPayment_Rejections(t *testing.T) {
	ctx := context.Background()
	svc, store, st := newTestService(t)

	tests := []struct {
		name string
		in   PaymentInput
		kind RejectionKind
	}{
		{"zero amount", PaymentInput{FeeType: model.FeeTypeHostel, Amount: d(0), Method: model.PaymentMethodCash}, RejectInvalidAmount},
		{"missing cheque", PaymentInput{FeeType: model.FeeTypeHostel, Amount: d(10), Method: model.PaymentMethodChequeDD}, RejectMissingMethodDetails},
		{"over hostel", PaymentInput{FeeType: model.FeeTypeHostel, Amount: d(2001), Method: model.PaymentMethodCash}, RejectExceedsRemaining},
		{"no security fee", PaymentInput{FeeType: model.FeeTypeSecurity, Amount: d(1), Method: model.PaymentMethodCash}, RejectAlreadyFullyPaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.StudentID = st.StudentID
			_, err := svc.RecordPayment(ctx, tt.in)
			requireRejection(t, err, tt.kind)
		})
	}

	payments, err := store.ListPayments(ctx, st.StudentID)
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestFeeService_RecordPayment_CallerReceiptNumber(t *testing.T) {
	ctx := context.Background()
	svc, _, st := newTestService(t)

	in := PaymentInput{
		StudentID:     st.StudentID,
		FeeType:       model.FeeTypeFine,
		Amount:        d(200),
		Method:        model.PaymentMethodCash,
		ReceiptNumber: " CIMS00777777 ",
	}
	out, err := svc.RecordPayment(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "CIMS00777777", out.Payment.FeePaymentReceiptNumber)

	_, err = svc.RecordPayment(ctx, in)
	assert.ErrorIs(t, err, ErrReceiptNumberUsed)
}

func TestFeeService_PreviewPayment(t *testing.T) {
	ctx := context.Background()
	svc, store, st := newTestService(t)

	pv, err := svc.PreviewPayment(ctx, PaymentInput{StudentID: st.StudentID, FeeType: model.FeeTypeHostel, Amount: d(500)})
	require.NoError(t, err)
	assert.True(t, pv.DueBefore.Equal(d(2000)))
	assert.True(t, pv.DueAfter.Equal(d(1500)))
	assert.True(t, pv.LedgerAfter.TotalFeeDue.Equal(d(6500)))

	_, err = svc.PreviewPayment(ctx, PaymentInput{StudentID: st.StudentID, FeeType: model.FeeTypeTuition, Amount: d(5001)})
	requireRejection(t, err, RejectExceedsRemaining)

	payments, err := store.ListPayments(ctx, st.StudentID)
	require.NoError(t, err)
	assert.Empty(t, payments, "preview must not persist")

	_, err = svc.PreviewPayment(ctx, PaymentInput{StudentID: uuid.New(), FeeType: model.FeeTypeFine, Amount: d(1)})
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestFeeService_AvailabilityAndSummary(t *testing.T) {
	ctx := context.Background()
	svc, _, st := newTestService(t)

	_, err := svc.RecordPayment(ctx, PaymentInput{
		StudentID: st.StudentID, FeeType: model.FeeTypeTotal, Amount: d(7000), Method: model.PaymentMethodCash,
	})
	require.NoError(t, err)

	opts, err := svc.Availability(ctx, st.StudentID)
	require.NoError(t, err)
	assert.Equal(t, []model.FeeType{model.FeeTypeTotal, model.FeeTypeFine}, optionTypes(opts))
	assert.False(t, opts[0].Selectable)

	sm, err := svc.Summary(ctx, st.StudentID)
	require.NoError(t, err)
	assert.Equal(t, FeeStatusComplete, sm.Status)
	assert.Len(t, sm.Payments, 1)
	assert.ElementsMatch(t,
		[]string{string(model.FeeTypeTuition), string(model.FeeTypeHostel)},
		[]string(sm.Payments[0].FeePaymentCoveredCategories))
}

func TestFeeService_Receipt(t *testing.T) {
	ctx := context.Background()
	svc, _, st := newTestService(t)

	out, err := svc.RecordPayment(ctx, PaymentInput{
		StudentID: st.StudentID,
		FeeType:   model.FeeTypeHostel,
		Amount:    d(2000),
		Method:    model.PaymentMethodChequeDD,
		Details:   MethodDetails{ChequeNumber: "778899", BankName: "PNB"},
	})
	require.NoError(t, err)

	r, err := svc.Receipt(ctx, out.Payment.FeePaymentID)
	require.NoError(t, err)
	assert.Equal(t, out.Payment.FeePaymentReceiptNumber, r.ReceiptNumber)
	assert.Equal(t, "Rupees Two Thousand Only", r.Payment.AmountInWords)
	assert.Contains(t, r.Notes, "Subject to encashment of cheque")

	_, err = svc.Receipt(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestFeeService_DueReminders(t *testing.T) {
	ctx := context.Background()
	svc, store, st := newTestService(t)

	settled := store.PutStudent(model.StudentFeeModel{StudentName: strPtr("Paid Up"), StudentTuitionFee: d(100)})
	_, err := svc.RecordPayment(ctx, PaymentInput{
		StudentID: settled.StudentID, FeeType: model.FeeTypeTuition, Amount: d(100), Method: model.PaymentMethodCash,
	})
	require.NoError(t, err)
	store.PutStudent(model.StudentFeeModel{StudentGuardianPhone: strPtr("9876543210"), StudentHostelFee: d(50)})

	reminders, err := svc.DueReminders(ctx)
	require.NoError(t, err)
	require.Len(t, reminders, 2)

	byID := map[uuid.UUID]DueReminder{}
	for _, r := range reminders {
		byID[r.StudentID] = r
	}
	first, ok := byID[st.StudentID]
	require.True(t, ok)
	assert.Equal(t,
		"Dear Aarav Sharma, your fee payment is due. Please pay ₹7000.00 at your earliest convenience. Thank you.",
		first.Message)

	for id, r := range byID {
		if id == st.StudentID {
			continue
		}
		assert.Equal(t, "Student", r.Name)
		assert.Equal(t, "9876543210", r.Phone)
	}
}

func TestWriteReceiptXLSX(t *testing.T) {
	st := sampleStudent()
	p := samplePayment(st.StudentID)
	l := ComputeLedger(st.FeeStructure(), []PaymentRecord{RecordFromModel(p)})
	r := ComposeReceipt(st, l, p, ReceiptOptions{Institution: DefaultInstitution, IssuedAt: fixedNow})

	var buf bytes.Buffer
	require.NoError(t, WriteReceiptXLSX(&buf, r, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{receiptSheet}, f.GetSheetList())

	rows, err := f.GetRows(receiptSheet)
	require.NoError(t, err)
	var flat []string
	for _, row := range rows {
		flat = append(flat, row...)
	}
	assert.Contains(t, flat, DefaultInstitution.Name)
	assert.Contains(t, flat, "CIMS00004512")
	assert.Contains(t, flat, "Aarav Sharma")
	assert.Contains(t, flat, "Rupees Five Thousand Only")
	assert.Contains(t, flat, "* Subject to encashment of cheque")
	assert.Contains(t, flat, "Authorised Signatory")
}

func TestFeeService_ReceiptWorkbook(t *testing.T) {
	ctx := context.Background()
	svc, _, st := newTestService(t)

	out, err := svc.RecordPayment(ctx, PaymentInput{
		StudentID:     st.StudentID,
		FeeType:       model.FeeTypeHostel,
		Amount:        d(1000),
		Method:        model.PaymentMethodCash,
		ReceiptNumber: "CIMS00777777",
	})
	require.NoError(t, err)

	file, err := svc.ReceiptWorkbook(ctx, out.Payment.FeePaymentID, nil)
	require.NoError(t, err)
	assert.Equal(t, "receipt-CIMS00777777.xlsx", file.FileName)
	assert.Equal(t, "10-07-2024", FormatDate(&file.IssuedAt))

	f, err := excelize.OpenReader(bytes.NewReader(file.Body))
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue(receiptSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, DefaultInstitution.Name, v)

	_, err = svc.ReceiptWorkbook(ctx, uuid.New(), nil)
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	model "feeportal_backend/internals/features/finance/fees/model"
	svc "feeportal_backend/internals/features/finance/fees/service"
)

func strPtr(s string) *string { return &s }

type recordingNotifier struct {
	sent []svc.DueReminder
	fail map[string]bool
}

func (n *recordingNotifier) Notify(_ context.Context, r svc.DueReminder) error {
	if n.fail[r.Name] {
		return errors.New("gateway error")
	}
	if r.Phone == "" {
		return errNoPhone
	}
	n.sent = append(n.sent, r)
	return nil
}

func seedStore() *svc.MemoryFeeStore {
	store := svc.NewMemoryFeeStore()
	store.PutStudent(model.StudentFeeModel{
		StudentName:       strPtr("Aarav Sharma"),
		StudentPhone:      strPtr("9876543210"),
		StudentTuitionFee: decimal.NewFromInt(5000),
	})
	store.PutStudent(model.StudentFeeModel{
		StudentName:          strPtr("Meera Iyer"),
		StudentGuardianPhone: strPtr("9123456780"),
		StudentHostelFee:     decimal.NewFromInt(1500),
	})
	store.PutStudent(model.StudentFeeModel{
		StudentName:       strPtr("No Phone"),
		StudentTuitionFee: decimal.NewFromInt(100),
	})
	// lunas, tidak dapat reminder
	store.PutStudent(model.StudentFeeModel{
		StudentName:  strPtr("Zero Fee"),
		StudentPhone: strPtr("9000000000"),
	})
	return store
}

func TestReminderJob_Run(t *testing.T) {
	store := seedStore()
	notifier := &recordingNotifier{fail: map[string]bool{"Meera Iyer": true}}
	job := &ReminderJob{
		Service:  svc.NewFeeService(store, nil, zap.NewNop()),
		Notifier: notifier,
	}

	res, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RunResult{Due: 3, Sent: 1, Skipped: 1, Failed: 1}, res)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "Aarav Sharma", notifier.sent[0].Name)
	assert.Contains(t, notifier.sent[0].Message, "₹5000.00")
}

func TestReminderJob_RunCancelled(t *testing.T) {
	job := &ReminderJob{
		Service:  svc.NewFeeService(seedStore(), nil, zap.NewNop()),
		Notifier: &recordingNotifier{},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := job.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	n := LogNotifier{Logger: zap.New(core)}

	r := svc.NewDueReminder(model.StudentFeeModel{
		StudentName:  strPtr("Aarav Sharma"),
		StudentPhone: strPtr("9876543210"),
	}, decimal.NewFromInt(250))
	require.NoError(t, n.Notify(context.Background(), r))

	entries := logs.FilterMessage("due reminder").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "9876543210", entries[0].ContextMap()["phone"])
	assert.Equal(t, "250.00", entries[0].ContextMap()["due"])

	err := n.Notify(context.Background(), svc.DueReminder{Name: "x"})
	assert.ErrorIs(t, err, errNoPhone)
}

func TestStartDueReminderCron(t *testing.T) {
	job := &ReminderJob{
		Service:  svc.NewFeeService(svc.NewMemoryFeeStore(), nil, zap.NewNop()),
		Notifier: &recordingNotifier{},
	}

	c, err := StartDueReminderCron("", job)
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = StartDueReminderCron("not a schedule", job)
	assert.Error(t, err)

	c, err = StartDueReminderCron("0 9 * * *", job)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Len(t, c.Entries(), 1)
	<-c.Stop().Done()
}

// file: internals/features/finance/fees/scheduler/due_reminder_cron.go
package scheduler

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	svc "feeportal_backend/internals/features/finance/fees/service"
)

// Notifier mengirim satu reminder (SMS/WA gateway, email, dst).
type Notifier interface {
	Notify(ctx context.Context, r svc.DueReminder) error
}

// LogNotifier hanya mencatat reminder ke log; dipakai sampai gateway SMS tersedia.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n LogNotifier) Notify(_ context.Context, r svc.DueReminder) error {
	if strings.TrimSpace(r.Phone) == "" {
		return errNoPhone
	}
	n.Logger.Info("due reminder",
		zap.String("student_id", r.StudentID.String()),
		zap.String("phone", r.Phone),
		zap.String("due", r.Due.StringFixed(2)),
		zap.String("message", r.Message),
	)
	return nil
}

var errNoPhone = errors.New("student has no phone number")

type ReminderJob struct {
	Service  *svc.FeeService
	Notifier Notifier
	Logger   *zap.Logger
	Timeout  time.Duration
}

type RunResult struct {
	Due     int
	Sent    int
	Skipped int
	Failed  int
}

// Run mengumpulkan reminder untuk semua siswa yang masih punya tunggakan lalu
// mengirimnya satu per satu. Gagal kirim satu siswa tidak menghentikan batch.
func (j *ReminderJob) Run(ctx context.Context) (RunResult, error) {
	var res RunResult
	reminders, err := j.Service.DueReminders(ctx)
	if err != nil {
		return res, err
	}
	res.Due = len(reminders)

	for _, r := range reminders {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := j.Notifier.Notify(ctx, r); err != nil {
			if errors.Is(err, errNoPhone) {
				res.Skipped++
				continue
			}
			res.Failed++
			j.logger().Warn("due reminder failed",
				zap.String("student_id", r.StudentID.String()),
				zap.Error(err),
			)
			continue
		}
		res.Sent++
	}
	return res, nil
}

func (j *ReminderJob) logger() *zap.Logger {
	if j.Logger == nil {
		return zap.NewNop()
	}
	return j.Logger
}

func (j *ReminderJob) tick() {
	timeout := j.Timeout
	if timeout <= 0 {
		timeout = 4 * time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	res, err := j.Run(ctx)
	if err != nil {
		j.logger().Error("[DUE-REMINDER] run gagal", zap.Error(err))
		return
	}
	j.logger().Info("[DUE-REMINDER] selesai",
		zap.Int("due", res.Due),
		zap.Int("sent", res.Sent),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", res.Failed),
	)
}

// StartDueReminderCron: panggil dari main.go. schedule kosong = dimatikan (nil, nil).
// Caller wajib Stop() saat shutdown.
func StartDueReminderCron(schedule string, job *ReminderJob) (*cron.Cron, error) {
	schedule = strings.TrimSpace(schedule)
	if schedule == "" {
		job.logger().Info("[DUE-REMINDER] REMINDER_CRON kosong, scheduler tidak dijalankan")
		return nil, nil
	}

	cl := cronLogger{l: job.logger().Sugar()}
	c := cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))
	if _, err := c.AddFunc(schedule, job.tick); err != nil {
		return nil, err
	}
	job.logger().Info("[DUE-REMINDER] started", zap.String("schedule", schedule))
	c.Start()
	return c, nil
}

// cronLogger menjembatani cron.Logger ke zap.
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debugw("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}

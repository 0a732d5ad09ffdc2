package scheduler

import (
	"context"
	"fmt"
	"npsSurvey/business/invitation"
	"npsSurvey/domain"
	"npsSurvey/pkg/logger"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

type Selector interface {
	SendSurveys(ctx context.Context) ([]domain.SurveyInvitation, error)
}

// SelectorJob runs the eligibility selector and writes its CSV into ExportDir.
type SelectorJob struct {
	selector  Selector
	exportDir string
	timeout   time.Duration
	now       func() time.Time
}

func NewSelectorJob(selector Selector, exportDir string) *SelectorJob {
	return &SelectorJob{
		selector:  selector,
		exportDir: exportDir,
		timeout:   5 * time.Minute,
		now:       time.Now,
	}
}

// Run implements cron.Job.
func (j *SelectorJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	path, count, err := j.export(ctx)
	if err != nil {
		logger.Error("Scheduled survey selection failed", err)
		return
	}

	logger.Info("Scheduled survey selection exported", "file", path, "invitations", count)
}

func (j *SelectorJob) export(ctx context.Context) (string, int, error) {
	invitations, err := j.selector.SendSurveys(ctx)
	if err != nil {
		return "", 0, err
	}

	if err := os.MkdirAll(j.exportDir, 0o755); err != nil {
		return "", 0, fmt.Errorf("failed to create export dir: %w", err)
	}

	name := fmt.Sprintf("survey_customers_%s_%s.csv", j.now().Format(time.DateOnly), uuid.NewString())
	path := filepath.Join(j.exportDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create export file: %w", err)
	}

	if err := invitation.WriteCSV(f, invitations); err != nil {
		f.Close()
		return "", 0, err
	}
	if err := f.Close(); err != nil {
		return "", 0, fmt.Errorf("failed to close export file: %w", err)
	}

	return path, len(invitations), nil
}

// cronLogger routes cron's own messages through the service logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Info("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error("cron: "+msg, append([]interface{}{"error", err}, keysAndValues...)...)
}

// Start schedules job on a standard 5-field cron expression. Overlapping runs are skipped.
func Start(schedule string, job cron.Job) (*cron.Cron, error) {
	c := cron.New(
		cron.WithLogger(cronLogger{}),
		cron.WithChain(cron.Recover(cronLogger{}), cron.SkipIfStillRunning(cronLogger{})),
	)

	if _, err := c.AddJob(schedule, job); err != nil {
		return nil, fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}

	logger.Info("Survey selector scheduled", "schedule", schedule)
	c.Start()

	return c, nil
}

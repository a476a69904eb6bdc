package scheduler

import (
	"adPulse/business/allocator"
	"adPulse/pkg/logger"
	"context"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

const subjectRefreshDigest = "Allocation refresh digest"

// AllocationRunner contract interface
type AllocationRunner interface {
	RunActivePools(ctx context.Context, triggeredBy string) ([]allocator.PoolRunOutcome, error)
}

// Notifier contract interface
type Notifier interface {
	SendEmail(toName, toEmail, subject, message string) (err error)
}

// Scheduler owns the periodic allocation refresh.
type Scheduler struct {
	cron        *cron.Cron
	runner      AllocationRunner
	notifier    Notifier
	digestEmail string
	digestName  string
	ctx         context.Context
}

func NewScheduler(ctx context.Context, runner AllocationRunner, notifier Notifier, digestEmail, digestName string) *Scheduler {
	return &Scheduler{
		cron:        cron.New(cron.WithSeconds()),
		runner:      runner,
		notifier:    notifier,
		digestEmail: digestEmail,
		digestName:  digestName,
		ctx:         ctx,
	}
}

// Register adds the refresh task under the given six-field cron spec.
func (s *Scheduler) Register(refreshSpec string) error {
	if _, err := s.cron.AddFunc(refreshSpec, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}

	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("scheduler started")
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	logger.Info("scheduler stopped")
}

func (s *Scheduler) refreshTask() {
	logger.Info("running allocation refresh")

	outcomes, err := s.runner.RunActivePools(s.ctx, "cron")
	if err != nil {
		logger.Error("allocation refresh failed", err)
		s.trySend(fmt.Sprintf("Allocation refresh failed before any pool ran: %v", err))
		return
	}

	failed := 0
	for _, out := range outcomes {
		if out.Err != nil {
			failed++
		}
	}

	logger.Info("allocation refresh finished",
		"pools", len(outcomes),
		"failed", failed,
	)

	s.trySend(formatDigest(outcomes, failed))
}

// formatDigest renders one plain-text line per pool for the digest mail.
func formatDigest(outcomes []allocator.PoolRunOutcome, failed int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Allocation refresh finished: %d pools, %d failed.\n\n", len(outcomes), failed)

	for _, out := range outcomes {
		if out.Err != nil {
			fmt.Fprintf(&b, "- pool %d (%s): FAILED: %v\n", out.PoolID, out.PoolName, out.Err)
			continue
		}
		fmt.Fprintf(&b, "- pool %d (%s): run %s, %d ads, budget %.2f, unallocated %.2f",
			out.PoolID, out.PoolName, out.RunID, out.Ads, out.TotalBudget, out.UnallocatedBudget)
		if out.Degenerate {
			b.WriteString(", degenerate")
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (s *Scheduler) trySend(text string) {
	if s.digestEmail == "" {
		return
	}
	if err := s.notifier.SendEmail(s.digestName, s.digestEmail, subjectRefreshDigest, text); err != nil {
		logger.Error("send refresh digest", err)
	}
}

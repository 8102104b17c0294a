package scraper

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bankpulse/dashboard-api/internal/metrics"
	"github.com/bankpulse/dashboard-api/internal/models"
	"github.com/bankpulse/dashboard-api/internal/notifications"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	MinPosts = 1
	MaxPosts = 200

	DefaultPrimeBankPosts  = 20
	DefaultOtherBanksPosts = 15
)

var (
	// ErrAlreadyRunning is returned when a start is attempted during an active run
	ErrAlreadyRunning = errors.New("scraper is already running")
	// ErrInvalidCount is returned for post counts outside [MinPosts, MaxPosts]
	ErrInvalidCount = fmt.Errorf("post counts must be between %d and %d", MinPosts, MaxPosts)
)

// ValidateCounts checks both requested post counts
func ValidateCounts(primeBankPosts, otherBanksPosts int) error {
	for _, n := range []int{primeBankPosts, otherBanksPosts} {
		if n < MinPosts || n > MaxPosts {
			return ErrInvalidCount
		}
	}
	return nil
}

// Runner owns the scraper status record. At most one run is active; the
// run itself executes on its own goroutine and cannot be cancelled.
type Runner struct {
	pipeline Pipeline
	notifier notifications.NotificationInterface

	mu      sync.RWMutex
	status  models.ScraperStatus
	running bool
	done    chan struct{}

	now func() time.Time
}

// NewRunner creates a new runner. notifier may be nil.
func NewRunner(pipeline Pipeline, notifier notifications.NotificationInterface) *Runner {
	return &Runner{
		pipeline: pipeline,
		notifier: notifier,
		status:   models.ScraperStatus{Status: models.ScraperIdle},
		now:      time.Now,
	}
}

// Snapshot returns a copy of the current status
func (r *Runner) Snapshot() models.ScraperStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := r.status
	if s.LastRun != nil {
		t := *s.LastRun
		s.LastRun = &t
	}
	return s
}

// Start launches a run in the background and returns its id. It never queues:
// a start during an active run fails with ErrAlreadyRunning.
func (r *Runner) Start(primeBankPosts, otherBanksPosts int) (string, error) {
	if err := ValidateCounts(primeBankPosts, otherBanksPosts); err != nil {
		return "", err
	}

	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return "", ErrAlreadyRunning
	}
	r.running = true
	r.done = make(chan struct{})
	r.status.Status = models.ScraperRunning
	done := r.done
	r.mu.Unlock()

	runID := uuid.NewString()
	metrics.ScraperRunning.Set(1)

	go func() {
		defer close(done)
		r.run(runID, primeBankPosts, otherBanksPosts)
	}()

	return runID, nil
}

// Wait blocks until the active run, if any, has finished
func (r *Runner) Wait() {
	r.mu.RLock()
	done := r.done
	r.mu.RUnlock()

	if done != nil {
		<-done
	}
}

func (r *Runner) run(runID string, primeBankPosts, otherBanksPosts int) {
	log := logrus.WithFields(logrus.Fields{
		"run_id":            runID,
		"prime_bank_posts":  primeBankPosts,
		"other_banks_posts": otherBanksPosts,
	})
	log.Info("Starting scraper pipeline")

	started := r.now()
	var counts outputCounts

	err := r.pipeline.Run(context.Background(), primeBankPosts, otherBanksPosts, func(line string) {
		logrus.Infof("[SCRAPER] %s", line)
		counts.observe(line)
	})

	finished := r.now()
	report := &models.RunReport{
		RunID:           runID,
		StartedAt:       started,
		FinishedAt:      finished,
		Duration:        finished.Sub(started),
		PrimeBankPosts:  primeBankPosts,
		OtherBanksPosts: otherBanksPosts,
	}

	r.mu.Lock()
	r.status.LastRun = &finished
	r.status.DurationSeconds = int(math.RoundToEven(report.Duration.Seconds()))
	if err != nil {
		r.status.Status = models.ScraperFailed
		report.Error = err.Error()
	} else {
		r.status.Status = models.ScraperCompleted
		if counts.hasPosts {
			r.status.PostsScraped = counts.posts
		}
		if counts.hasComments {
			r.status.CommentsScraped = counts.comments
		}
	}
	report.Status = r.status.Status
	report.PostsScraped = r.status.PostsScraped
	report.CommentsScraped = r.status.CommentsScraped
	r.running = false
	r.mu.Unlock()

	metrics.ScraperRunning.Set(0)
	metrics.ScraperRunsTotal.WithLabelValues(string(report.Status)).Inc()

	if err != nil {
		log.Errorf("Scraper pipeline failed: %v", err)
	} else {
		log.Infof("Scraper pipeline completed in %s", report.Duration.Round(time.Second))
	}

	r.notify(report)
}

func (r *Runner) notify(report *models.RunReport) {
	if r.notifier == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := r.notifier.SendRunReport(ctx, report); err != nil {
		logrus.Errorf("Failed to send run report for %s: %v", report.RunID, err)
	}
}

var firstNumber = regexp.MustCompile(`\d+`)

// outputCounts picks the scraped totals out of pipeline output such as
// "Total posts scraped: 24". The last matching line wins.
type outputCounts struct {
	posts, comments       int
	hasPosts, hasComments bool
}

func (c *outputCounts) observe(line string) {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "posts scraped"):
		if n, ok := leadingNumber(line); ok {
			c.posts, c.hasPosts = n, true
		}
	case strings.Contains(lower, "comments scraped"):
		if n, ok := leadingNumber(line); ok {
			c.comments, c.hasComments = n, true
		}
	}
}

func leadingNumber(line string) (int, bool) {
	m := firstNumber.FindString(line)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

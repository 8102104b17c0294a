package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bankpulse/dashboard-api/internal/config"
	"github.com/bankpulse/dashboard-api/internal/scraper"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// OverviewRefresher regenerates the narrative overview
type OverviewRefresher interface {
	GetOverview(ctx context.Context, force bool) (map[string]string, error)
}

// ScraperStarter launches a background scraper run
type ScraperStarter interface {
	Start(primeBankPosts, otherBanksPosts int) (string, error)
}

// Service runs the periodic overview refresh and the optional scraper run
type Service struct {
	config   *config.Config
	overview OverviewRefresher
	scraper  ScraperStarter
	cron     *cron.Cron
}

// NewService creates a new scheduler service
func NewService(cfg *config.Config, overview OverviewRefresher, scraper ScraperStarter) *Service {
	return &Service{
		config:   cfg,
		overview: overview,
		scraper:  scraper,
		cron:     cron.New(cron.WithSeconds()),
	}
}

// Start registers the jobs and starts the cron runner
func (s *Service) Start() error {
	if s.config.OverviewRefreshSchedule != "" {
		if _, err := s.cron.AddFunc(s.config.OverviewRefreshSchedule, s.refreshOverview); err != nil {
			return fmt.Errorf("invalid OVERVIEW_REFRESH_SCHEDULE %q: %w", s.config.OverviewRefreshSchedule, err)
		}
	}

	if s.config.ScraperSchedule != "" {
		if _, err := s.cron.AddFunc(s.config.ScraperSchedule, s.startScraper); err != nil {
			return fmt.Errorf("invalid SCRAPER_SCHEDULE %q: %w", s.config.ScraperSchedule, err)
		}
	}

	s.cron.Start()
	logrus.Infof("Scheduler started (overview refresh %q, scraper %q)", s.config.OverviewRefreshSchedule, s.config.ScraperSchedule)
	return nil
}

func (s *Service) refreshOverview() {
	logrus.Info("Starting scheduled AI overview refresh")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if _, err := s.overview.GetOverview(ctx, true); err != nil {
		logrus.Errorf("Scheduled overview refresh failed: %v", err)
	}
}

func (s *Service) startScraper() {
	runID, err := s.scraper.Start(scraper.DefaultPrimeBankPosts, scraper.DefaultOtherBanksPosts)
	switch {
	case errors.Is(err, scraper.ErrAlreadyRunning):
		logrus.Warn("Skipping scheduled scraper run: a run is already active")
	case err != nil:
		logrus.Errorf("Scheduled scraper run failed to start: %v", err)
	default:
		logrus.Infof("Started scheduled scraper run %s", runID)
	}
}

// Stop stops the scheduler and waits for running jobs
func (s *Service) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
		logrus.Info("Scheduler stopped")
	}
}

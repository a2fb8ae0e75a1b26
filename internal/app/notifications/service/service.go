package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/marcelotrevisani/roboto/internal/app/notifications/repository"

	gogithub "github.com/google/go-github/v57/github"
)

const (
	CheckIntervalDefault = 4 * time.Minute

	ackMessage = "Working on your request..."
)

type Github interface {
	ListMentions(ctx context.Context) ([]*gogithub.Notification, error)
	MarkNotificationsRead(ctx context.Context, lastRead time.Time) error
	GetComment(ctx context.Context, commentUrl string) (*gogithub.IssueComment, error)
	CreateComment(ctx context.Context, issueUrl, body string) error
}

type Reviewer interface {
	HandleCommand(ctx context.Context, issueUrl, body string) error
}

// NotificationsService sweeps the bot's notification inbox on an interval,
// acknowledges each fresh mention and hands the comment over to the
// reviewer.
type NotificationsService struct {
	github     Github
	reviewer   Reviewer
	repository repository.Repository

	hostname string
	interval time.Duration

	mux       sync.RWMutex
	ticker    *time.Ticker
	lastSweep time.Time
}

type NotificationsConfig struct {
	CheckInterval time.Duration
	Hostname      string
}

func New(cfg NotificationsConfig, github Github, reviewer Reviewer, repository repository.Repository) *NotificationsService {
	if cfg.CheckInterval == 0 {
		cfg.CheckInterval = CheckIntervalDefault
	}

	return &NotificationsService{
		github:     github,
		reviewer:   reviewer,
		repository: repository,
		hostname:   cfg.Hostname,
		interval:   cfg.CheckInterval,
	}
}

// Run performs an initial sweep and starts the polling loop.
func (s *NotificationsService) Run(ctx context.Context) {
	if err := s.Sweep(ctx); err != nil {
		log.Printf("Error on initial notifications sweep: %v", err)
	}

	s.mux.Lock()
	s.ticker = time.NewTicker(s.interval)
	ticker := s.ticker
	s.mux.Unlock()

	go s.watchNotifications(ctx, ticker)
}

func (s *NotificationsService) watchNotifications(ctx context.Context, ticker *time.Ticker) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				log.Printf("Error on notifications sweep: %v", err)
			}
		}
	}
}

// Sweep processes the current unread mentions. Mentions already claimed in
// the repository are skipped; after a sweep that saw at least one mention
// the inbox is marked read up to the newest one.
func (s *NotificationsService) Sweep(ctx context.Context) error {
	mentions, err := s.github.ListMentions(ctx)
	if err != nil {
		return err
	}

	var lastUpdate time.Time
	for _, mention := range mentions {
		updatedAt := mention.GetUpdatedAt().Time
		if updatedAt.After(lastUpdate) {
			lastUpdate = updatedAt
		}

		if err := s.processMention(ctx, mention); err != nil {
			log.Printf("Error processing mention '%s': %v", mention.GetID(), err)
		}
	}

	if len(mentions) > 0 {
		if err := s.github.MarkNotificationsRead(ctx, lastUpdate); err != nil {
			return err
		}
		if err := s.repository.SetLastRead(ctx, lastUpdate); err != nil {
			return err
		}
	}

	s.mux.Lock()
	s.lastSweep = time.Now()
	s.mux.Unlock()

	return nil
}

func (s *NotificationsService) processMention(ctx context.Context, mention *gogithub.Notification) error {
	claimed, err := s.repository.ClaimThread(ctx, mention.GetID(), mention.GetUpdatedAt().Time)
	if err != nil {
		return err
	}
	if !claimed {
		log.Printf("Skipping mention '%s', already processed", mention.GetID())
		return nil
	}

	comment, err := s.github.GetComment(ctx, mention.GetSubject().GetLatestCommentURL())
	if err != nil {
		s.releaseThread(ctx, mention)
		return err
	}

	if err := s.github.CreateComment(ctx, comment.GetIssueURL(), ackMessage); err != nil {
		s.releaseThread(ctx, mention)
		return err
	}

	return s.reviewer.HandleCommand(ctx, comment.GetIssueURL(), comment.GetBody())
}

// releaseThread gives a claim back when the mention could not be
// acknowledged, so the next sweep retries it instead of dropping it.
func (s *NotificationsService) releaseThread(ctx context.Context, mention *gogithub.Notification) {
	if err := s.repository.ReleaseThread(ctx, mention.GetID(), mention.GetUpdatedAt().Time); err != nil {
		log.Printf("Error releasing claim on thread '%s': %v", mention.GetID(), err)
	}
}

// Status describes the poller for the status endpoint.
type Status struct {
	Hostname       string        `json:"hostname,omitempty"`
	LastSweep      time.Time     `json:"last_sweep"`
	CheckInterval  time.Duration `json:"check_interval"`
	ProcessedCount int64         `json:"processed_count"`
	LastRead       *time.Time    `json:"last_read,omitempty"`
}

func (s *NotificationsService) GetStatus(ctx context.Context) (Status, error) {
	s.mux.RLock()
	status := Status{Hostname: s.hostname, LastSweep: s.lastSweep, CheckInterval: s.interval}
	s.mux.RUnlock()

	count, err := s.repository.CountProcessed(ctx)
	if err != nil {
		return Status{}, err
	}
	status.ProcessedCount = count

	lastRead, ok, err := s.repository.GetLastRead(ctx)
	if err != nil {
		return Status{}, err
	}
	if ok {
		status.LastRead = &lastRead
	}

	return status, nil
}

func (s *NotificationsService) HealthCheck(ctx context.Context) error {
	return s.repository.HealthCheck(ctx)
}

func (s *NotificationsService) Shutdown() {
	s.mux.Lock()
	defer s.mux.Unlock()

	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
}

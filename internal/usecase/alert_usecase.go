package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"resumeai-backend/internal/domain"
	"resumeai-backend/pkg/email"
	"resumeai-backend/pkg/logger"
	"resumeai-backend/pkg/security"
)

const digestMaxJobs = 10

type alertUsecase struct {
	alerts domain.JobAlertRepository
	finder *jobFinder
	mailer Mailer
	appURL string
	now    func() time.Time
}

func NewAlertUsecase(alerts domain.JobAlertRepository, searcher domain.JobSearcher, cache domain.SearchCache, mailer Mailer, appURL string) domain.AlertUsecase {
	return &alertUsecase{
		alerts: alerts,
		finder: newJobFinder(searcher, cache),
		mailer: mailer,
		appURL: appURL,
		now:    time.Now,
	}
}

// RunDigest sends one email per due alert. A failing alert is logged and counted, and
// the scan moves on.
func (u *alertUsecase) RunDigest(ctx context.Context, dryRun bool) (*domain.DigestReport, error) {
	if u.alerts == nil {
		return nil, domain.ErrNotConfigured
	}
	if !dryRun && (u.mailer == nil || !u.mailer.IsConfigured()) {
		return nil, domain.ErrNotConfigured
	}

	alerts, err := u.alerts.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}

	report := &domain.DigestReport{Scanned: len(alerts)}
	now := u.now()
	for _, alert := range alerts {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if !alert.Due(now) {
			continue
		}
		report.Due++

		sent, err := u.processAlert(ctx, alert, now, dryRun)
		switch {
		case err != nil:
			report.Failed++
			logger.Log.Error("Job alert failed", "alert", alert.ID, "error", err)
		case sent:
			report.Sent++
		default:
			report.Skipped++
		}
	}

	logger.Log.Info("Job alert digest finished",
		"scanned", report.Scanned, "due", report.Due, "sent", report.Sent,
		"failed", report.Failed, "skipped", report.Skipped, "dry_run", dryRun)
	return report, nil
}

func (u *alertUsecase) processAlert(ctx context.Context, alert domain.JobAlert, now time.Time, dryRun bool) (bool, error) {
	result, _, err := u.finder.find(ctx, domain.SearchQuery{
		Query:    alert.Query,
		Location: alert.Location,
		Remote:   alert.Remote,
		Page:     1,
	})
	if err != nil {
		return false, err
	}
	if len(result.Jobs) == 0 {
		return false, nil
	}

	profile := newMatchProfile(alert.Query, alert.Location, alert.Remote, alert.Keywords, "")
	jobs := scoreJobs(result.Jobs, profile)
	sort.SliceStable(jobs, func(i, j int) bool { return scoreOf(jobs[i]) > scoreOf(jobs[j]) })
	if len(jobs) > digestMaxJobs {
		jobs = jobs[:digestMaxJobs]
	}

	if dryRun {
		logger.Log.Info("Dry run: would send digest", "alert", alert.ID, "to", security.MaskEmail(alert.Email), "jobs", len(jobs))
		return false, nil
	}

	data := email.DigestData{Query: alert.Query, Location: alert.Location, AppURL: u.appURL}
	for _, j := range jobs {
		data.Jobs = append(data.Jobs, email.DigestJob{
			Title:      j.Title,
			Company:    j.Company,
			Location:   j.Location,
			ApplyURL:   j.ApplyURL,
			MatchScore: scoreOf(j),
		})
	}
	html, err := email.RenderDigest(data)
	if err != nil {
		return false, err
	}
	if err := u.mailer.Send(email.Message{
		To:      alert.Email,
		Subject: fmt.Sprintf("%d new jobs for %q", len(jobs), alert.Query),
		HTML:    html,
	}); err != nil {
		return false, err
	}
	if err := u.alerts.MarkSent(ctx, alert.ID, now); err != nil {
		return true, fmt.Errorf("mark sent: %w", err)
	}
	return true, nil
}

func scoreOf(j domain.Job) int {
	if j.MatchScore == nil {
		return 0
	}
	return *j.MatchScore
}

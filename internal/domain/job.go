package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// SearchCacheTTL is how long an upstream search result stays servable.
const SearchCacheTTL = 24 * time.Hour

// Job is the normalized shape of one job posting from the aggregator.
type Job struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Company        string   `json:"company"`
	CompanyLogo    string   `json:"companyLogo,omitempty"`
	Location       string   `json:"location"`
	Remote         bool     `json:"remote"`
	Description    string   `json:"description"`
	ApplyURL       string   `json:"applyUrl"`
	PostedAt       string   `json:"postedAt,omitempty"`
	EmploymentType string   `json:"employmentType,omitempty"`
	SalaryMin      *float64 `json:"salaryMin,omitempty"`
	SalaryMax      *float64 `json:"salaryMax,omitempty"`
	SalaryPeriod   string   `json:"salaryPeriod,omitempty"`
	MatchScore     *int     `json:"matchScore,omitempty"`
}

// SearchQuery identifies an upstream search. Page starts at 1.
type SearchQuery struct {
	Query    string `json:"query"`
	Location string `json:"location"`
	Remote   bool   `json:"remote"`
	Page     int    `json:"page"`
}

// CacheKey is the digest over the normalized query fields.
func (q SearchQuery) CacheKey() string {
	page := q.Page
	if page < 1 {
		page = 1
	}
	raw := fmt.Sprintf("%s|%s|%t|%d",
		strings.ToLower(strings.TrimSpace(q.Query)),
		strings.ToLower(strings.TrimSpace(q.Location)),
		q.Remote,
		page,
	)
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// SearchResult is what the aggregator returned for one query page.
type SearchResult struct {
	Jobs         []Job `json:"jobs"`
	TotalResults int   `json:"totalResults"`
}

// CacheEntry is a memoized SearchResult.
type CacheEntry struct {
	Jobs         []Job     `json:"jobs"`
	TotalResults int       `json:"totalResults"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// Fresh reports whether the entry may still be served at now.
// A read at or after ExpiresAt is a miss.
func (e *CacheEntry) Fresh(now time.Time) bool {
	return e != nil && now.Before(e.ExpiresAt)
}

// SearchCache stores CacheEntries by SearchQuery.CacheKey. Get returns (nil, nil)
// on a missing key; callers must still check Fresh.
type SearchCache interface {
	Get(ctx context.Context, key string) (*CacheEntry, error)
	Put(ctx context.Context, key string, entry CacheEntry) error
}

// JobSearcher is the upstream job-search aggregator.
type JobSearcher interface {
	Search(ctx context.Context, q SearchQuery) (*SearchResult, error)
}

type SearchJobsRequest struct {
	Query      string   `json:"query" binding:"required"`
	Location   string   `json:"location"`
	Remote     bool     `json:"remote"`
	Page       int      `json:"page" binding:"omitempty,min=1,max=20"`
	Skills     []string `json:"skills"`
	ResumeText string   `json:"resumeText"`
}

type SearchJobsResponse struct {
	Jobs         []Job `json:"jobs"`
	TotalResults int   `json:"totalResults"`
	Remaining    int   `json:"remaining"`
	Cached       bool  `json:"cached,omitempty"`
}

type JobSearchUsecase interface {
	Search(ctx context.Context, caller Caller, req SearchJobsRequest) (*SearchJobsResponse, error)
}

// JobAlert is a saved search that receives a periodic digest email.
type JobAlert struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	Email      string     `json:"email"`
	Query      string     `json:"query"`
	Location   string     `json:"location"`
	Remote     bool       `json:"remote"`
	Keywords   []string   `json:"keywords"`
	Frequency  string     `json:"frequency"`
	LastSentAt *time.Time `json:"lastSentAt"`
	Active     bool       `json:"active"`
}

// Alert frequencies.
const (
	AlertDaily  = "daily"
	AlertWeekly = "weekly"
)

// Due reports whether the alert should be sent at now.
func (a JobAlert) Due(now time.Time) bool {
	if !a.Active {
		return false
	}
	if a.LastSentAt == nil {
		return true
	}
	window := 24 * time.Hour
	if a.Frequency == AlertWeekly {
		window = 7 * 24 * time.Hour
	}
	// Allow an hour of slack so a daily cron drifting by minutes still fires.
	return now.Sub(*a.LastSentAt) >= window-time.Hour
}

type JobAlertRepository interface {
	ListActive(ctx context.Context) ([]JobAlert, error)
	MarkSent(ctx context.Context, id string, sentAt time.Time) error
}

// DigestReport summarizes one scan over the stored alerts.
type DigestReport struct {
	Scanned int `json:"scanned"`
	Due     int `json:"due"`
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

type AlertUsecase interface {
	RunDigest(ctx context.Context, dryRun bool) (*DigestReport, error)
}

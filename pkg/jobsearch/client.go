// Package jobsearch talks to the JSearch job aggregator.
package jobsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"resumeai-backend/internal/domain"
	"resumeai-backend/pkg/logger"
)

// Client implements domain.JobSearcher.
type Client struct {
	baseURL    string
	apiKey     string
	apiHost    string
	httpClient *http.Client
}

var _ domain.JobSearcher = (*Client)(nil)

func NewClient(baseURL, apiKey, apiHost string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		apiHost:    apiHost,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != "" && c.baseURL != ""
}

type searchResponse struct {
	Status string       `json:"status"`
	Data   []jsearchJob `json:"data"`
}

type jsearchJob struct {
	JobID          string   `json:"job_id"`
	Title          string   `json:"job_title"`
	EmployerName   string   `json:"employer_name"`
	EmployerLogo   string   `json:"employer_logo"`
	City           string   `json:"job_city"`
	State          string   `json:"job_state"`
	Country        string   `json:"job_country"`
	IsRemote       bool     `json:"job_is_remote"`
	Description    string   `json:"job_description"`
	ApplyLink      string   `json:"job_apply_link"`
	PostedAt       string   `json:"job_posted_at_datetime_utc"`
	EmploymentType string   `json:"job_employment_type"`
	MinSalary      *float64 `json:"job_min_salary"`
	MaxSalary      *float64 `json:"job_max_salary"`
	SalaryPeriod   string   `json:"job_salary_period"`
}

// Search runs one query page. Non-2xx responses wrap domain.ErrUpstream; the upstream
// body is logged and never returned.
func (c *Client) Search(ctx context.Context, q domain.SearchQuery) (*domain.SearchResult, error) {
	if !c.Configured() {
		return nil, domain.ErrNotConfigured
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	query := strings.TrimSpace(q.Query)
	if loc := strings.TrimSpace(q.Location); loc != "" {
		query += " in " + loc
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("num_pages", "1")
	if q.Remote {
		params.Set("remote_jobs_only", "true")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.apiHost)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: job search request: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read job search body: %v", domain.ErrUpstream, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Log.Error("Job search upstream error", "status", resp.StatusCode, "body", logger.Truncate(string(body), 500))
		return nil, fmt.Errorf("%w: job search status %d", domain.ErrUpstream, resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode job search: %v", domain.ErrUpstream, err)
	}

	jobs := make([]domain.Job, 0, len(parsed.Data))
	for _, j := range parsed.Data {
		jobs = append(jobs, j.normalize())
	}
	return &domain.SearchResult{Jobs: jobs, TotalResults: len(jobs)}, nil
}

func (j jsearchJob) normalize() domain.Job {
	parts := make([]string, 0, 3)
	for _, p := range []string{j.City, j.State, j.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	location := strings.Join(parts, ", ")
	if location == "" && j.IsRemote {
		location = "Remote"
	}
	return domain.Job{
		ID:             j.JobID,
		Title:          strings.TrimSpace(j.Title),
		Company:        strings.TrimSpace(j.EmployerName),
		CompanyLogo:    j.EmployerLogo,
		Location:       location,
		Remote:         j.IsRemote,
		Description:    j.Description,
		ApplyURL:       j.ApplyLink,
		PostedAt:       j.PostedAt,
		EmploymentType: j.EmploymentType,
		SalaryMin:      j.MinSalary,
		SalaryMax:      j.MaxSalary,
		SalaryPeriod:   j.SalaryPeriod,
	}
}

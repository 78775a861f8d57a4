package usecase

import (
	"context"
	"errors"
	"strings"

	"resumeai-backend/internal/domain"
	"resumeai-backend/pkg/llm"
	"resumeai-backend/pkg/logger"
	"resumeai-backend/pkg/security"
)

type aiUsecase struct {
	client  llm.Client
	limiter *RateLimiter
	resumes domain.ResumeProfileRepository
}

// NewAIUsecase wires the model-backed features. resumes may be nil, in which case
// parsed profiles are returned but not saved.
func NewAIUsecase(client llm.Client, limiter *RateLimiter, resumes domain.ResumeProfileRepository) domain.AIUsecase {
	if client == nil {
		client = llm.NotConfigured{}
	}
	return &aiUsecase{client: client, limiter: limiter, resumes: resumes}
}

// invokeJSON calls the model and decodes its output into T.
func invokeJSON[T any](ctx context.Context, client llm.Client, spec promptSpec, user string) (T, error) {
	var zero T
	raw, err := llm.Generate(ctx, client, llm.Request{
		System:      spec.system,
		User:        user,
		MaxTokens:   spec.maxTokens,
		JSON:        spec.json,
		Temperature: 0.3,
	}, spec.timeout)
	if err != nil {
		return zero, err
	}
	out, err := llm.ParseJSON[T](raw)
	if err != nil {
		logMalformed(ctx, spec.name, raw)
		return zero, err
	}
	return out, nil
}

func invokeText(ctx context.Context, client llm.Client, spec promptSpec, user string, clean func(string) (string, error)) (string, error) {
	raw, err := llm.Generate(ctx, client, llm.Request{
		System:      spec.system,
		User:        user,
		MaxTokens:   spec.maxTokens,
		Temperature: 0.7,
	}, spec.timeout)
	if err != nil {
		return "", err
	}
	out, err := clean(raw)
	if err != nil {
		logMalformed(ctx, spec.name, raw)
		return "", err
	}
	return out, nil
}

func logMalformed(ctx context.Context, feature, raw string) {
	logger.Log.Warn("Model output could not be parsed", "feature", feature, "output", logger.Truncate(raw, 500))
	security.DefaultLogger().Log(ctx, security.SecurityEvent{
		Event:     security.EventUpstreamOutputMalformed,
		RequestID: RequestIDFrom(ctx),
		Details:   map[string]any{"feature": feature},
	})
}

func (u *aiUsecase) ScoreATS(ctx context.Context, caller domain.Caller, req domain.ATSScoreRequest) (*domain.ATSScoreResponse, error) {
	if strings.TrimSpace(req.ResumeContent) == "" {
		return nil, domain.NewInputError("Resume content is required")
	}
	res, err := u.limiter.Check(ctx, domain.FeatureATSScore, caller)
	if err != nil {
		return nil, err
	}

	user := payload(
		field("Resume", req.ResumeContent, capResume),
		field("Job description", req.JobDescription, capJobDescription),
	)
	analysis, err := invokeJSON[domain.ATSAnalysis](ctx, u.client, atsPrompt, user)
	if err != nil {
		return nil, err
	}
	analysis.Score = clampScore(analysis.Score)
	analysis.MatchedKeywords = nonNil(analysis.MatchedKeywords)
	analysis.MissingKeywords = nonNil(analysis.MissingKeywords)
	analysis.Strengths = nonNil(analysis.Strengths)
	analysis.Improvements = nonNil(analysis.Improvements)
	analysis.FormattingIssue = nonNil(analysis.FormattingIssue)

	return &domain.ATSScoreResponse{
		Analysis:  analysis,
		Remaining: res.Commit(ctx),
		IsPro:     caller.Tier.IsPaid(),
	}, nil
}

func (u *aiUsecase) TailorResume(ctx context.Context, caller domain.Caller, req domain.TailorResumeRequest) (*domain.TailorResumeResponse, error) {
	if strings.TrimSpace(req.CurrentResume) == "" || strings.TrimSpace(req.JobDescription) == "" {
		return nil, domain.NewInputError("Current resume and job description are required")
	}
	res, err := u.limiter.Check(ctx, domain.FeatureTailorResume, caller)
	if err != nil {
		return nil, err
	}

	user := payload(
		field("Current resume", req.CurrentResume, capResume),
		field("Job description", req.JobDescription, capJobDescription),
		field("Tone", req.Tone, capFreeText),
	)
	result, err := invokeJSON[domain.TailoredResume](ctx, u.client, tailorPrompt, user)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(result.TailoredResume) == "" {
		logMalformed(ctx, tailorPrompt.name, "empty tailoredResume")
		return nil, llm.ErrMalformedOutput
	}
	result.MatchScore = clampScore(result.MatchScore)
	result.Changes = nonNil(result.Changes)
	result.KeywordsAdded = nonNil(result.KeywordsAdded)

	return &domain.TailorResumeResponse{
		Result:    result,
		Remaining: res.Commit(ctx),
		Tier:      caller.Tier,
	}, nil
}

func (u *aiUsecase) ParseResume(ctx context.Context, caller domain.Caller, req domain.ParseResumeRequest) (*domain.ParseResumeResponse, error) {
	if !caller.Authenticated() {
		return nil, ErrUnauthenticated
	}
	text := strings.TrimSpace(req.ResumeText)
	n := len([]rune(text))
	if n < domain.ParseResumeMinChars {
		return nil, domain.NewInputError("Resume text is too short. Paste at least 50 characters.")
	}
	if n > domain.ParseResumeMaxChars {
		return nil, domain.NewInputError("Resume text is too long. The limit is 20,000 characters.")
	}

	profile, err := invokeJSON[domain.ResumeProfile](ctx, u.client, parsePrompt, capText(text, capParseResume))
	if err != nil {
		return nil, err
	}
	scrubProfile(&profile)

	saved := false
	if u.resumes != nil {
		if err := u.resumes.Upsert(ctx, caller.UserID, profile); err != nil {
			logger.Log.Error("Failed to save resume profile", "user", security.HashValue(caller.UserID), "error", err)
		} else {
			saved = true
		}
	}
	return &domain.ParseResumeResponse{Profile: profile, Saved: saved}, nil
}

func (u *aiUsecase) EnhanceBullet(ctx context.Context, _ domain.Caller, req domain.EnhanceBulletRequest) (*domain.EnhanceBulletResponse, error) {
	bullet := capText(req.Bullet, capBullet)
	if len([]rune(bullet)) < 5 {
		return nil, domain.NewInputError("Bullet must be at least 5 characters")
	}
	user := payload(
		[2]string{"Bullet", bullet},
		field("Target job title", req.JobTitle, capFreeText),
		field("Context", req.Context, capFreeText),
	)
	enhanced, err := invokeText(ctx, u.client, enhancePrompt, user, llm.ParseText)
	if err != nil {
		return nil, err
	}
	return &domain.EnhanceBulletResponse{Enhanced: enhanced}, nil
}

func (u *aiUsecase) Generate(ctx context.Context, _ domain.Caller, req domain.GenerateRequest) (*domain.GenerateResponse, error) {
	if _, ok := generateInstructions[req.Type]; !ok {
		return nil, domain.NewInputError("Unknown generation type")
	}
	user := payload(
		field("Job title", req.JobTitle, capFreeText),
		field("Company", req.Company, capFreeText),
		field("Experience", req.Experience, capFreeText),
		field("Skills", req.Skills, capFreeText),
		field("Job description", req.JobDescription, capJobDescription),
		field("Tone", req.Tone, capFreeText),
	)
	text, err := invokeText(ctx, u.client, generatePrompt(req.Type), user, cleanGenerated)
	if err != nil {
		return nil, err
	}
	return &domain.GenerateResponse{Result: text}, nil
}

func (u *aiUsecase) InterviewPrep(ctx context.Context, caller domain.Caller, req domain.InterviewPrepRequest) (*domain.InterviewPrepResponse, error) {
	if req.Mode == "" {
		req.Mode = domain.InterviewModeQuestions
	}
	if req.Mode == domain.InterviewModeMock && (strings.TrimSpace(req.Question) == "" || strings.TrimSpace(req.Answer) == "") {
		return nil, domain.NewInputError("Mock mode needs both a question and an answer")
	}
	res, err := u.limiter.Check(ctx, domain.FeatureInterviewPrep, caller)
	if err != nil {
		return nil, err
	}

	result, err := invokeJSON[domain.InterviewPrepResult](ctx, u.client, interviewPrompt, interviewPayload(req))
	if err != nil {
		return nil, err
	}
	if result.Questions == nil {
		result.Questions = []domain.InterviewQuestion{}
	}
	if result.Score != nil {
		s := *result.Score
		if s < 0 {
			s = 0
		}
		if s > 10 {
			s = 10
		}
		result.Score = &s
	}

	return &domain.InterviewPrepResponse{
		Result:    result,
		Remaining: res.Commit(ctx),
		IsPro:     caller.Tier.IsPaid(),
	}, nil
}

// cleanGenerated keeps multi-line text intact and only strips fences and whitespace.
func cleanGenerated(raw string) (string, error) {
	s := llm.StripCodeFence(raw)
	if s == "" {
		return "", llm.ErrMalformedOutput
	}
	return s, nil
}

// scrubProfile turns blank optional values into nulls and drops empty list entries.
func scrubProfile(p *domain.ResumeProfile) {
	p.FullName = strings.TrimSpace(p.FullName)
	for _, f := range []**string{&p.Email, &p.Phone, &p.Location, &p.Summary} {
		*f = nullIfBlank(*f)
	}
	p.Skills = compact(p.Skills)
	p.Certifications = compact(p.Certifications)
	for i := range p.Experience {
		p.Experience[i].Location = nullIfBlank(p.Experience[i].Location)
		p.Experience[i].Bullets = compact(p.Experience[i].Bullets)
	}
	for i := range p.Education {
		p.Education[i].GPA = nullIfBlank(p.Education[i].GPA)
	}
	p.Normalize()
}

func nullIfBlank(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" || strings.EqualFold(v, "null") || strings.EqualFold(v, "n/a") {
		return nil
	}
	return &v
}

func compact(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// IsUpstreamFailure reports whether err came from an external provider rather than
// from validation or quota.
func IsUpstreamFailure(err error) bool {
	var up *llm.UpstreamError
	return errors.As(err, &up) || errors.Is(err, domain.ErrUpstream) || errors.Is(err, llm.ErrEmptyResponse)
}

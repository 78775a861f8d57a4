package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"resumeai-backend/internal/domain"
	"resumeai-backend/internal/repository/memory"
	"resumeai-backend/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAIFixture(output string, err error) (*aiUsecase, *MockLLM, *MockResumeRepo) {
	client := new(MockLLM)
	client.On("Generate", mock.Anything, mock.Anything).Return(output, err)
	resumes := new(MockResumeRepo)
	uc := NewAIUsecase(client, newTestLimiter(memory.NewUsageStore(), nil), resumes).(*aiUsecase)
	return uc, client, resumes
}

func userCaller() domain.Caller {
	return domain.Caller{Identity: domain.Identity{UserID: "user-1", Email: "u@x.com", Tier: domain.TierFree}, Fingerprint: "fp-user"}
}

func TestScoreATSClampsAndCommits(t *testing.T) {
	uc, _, _ := newAIFixture("```json\n{\"score\": 140, \"summary\": \"ok\", \"matchedKeywords\": [\"go\"]}\n```", nil)

	resp, err := uc.ScoreATS(context.Background(), freeCaller("fp"), domain.ATSScoreRequest{ResumeContent: "resume"})
	require.NoError(t, err)
	assert.Equal(t, 100, resp.Analysis.Score)
	assert.Equal(t, []string{"go"}, resp.Analysis.MatchedKeywords)
	assert.NotNil(t, resp.Analysis.MissingKeywords)
	assert.Equal(t, 0, resp.Remaining)
	assert.False(t, resp.IsPro)

	_, err = uc.ScoreATS(context.Background(), freeCaller("fp"), domain.ATSScoreRequest{ResumeContent: "resume"})
	assert.ErrorIs(t, err, domain.ErrLimitReached)
}

func TestScoreATSUpstreamFailureDoesNotConsumeQuota(t *testing.T) {
	uc, client, _ := newAIFixture("", &llm.UpstreamError{Provider: "gemini", Status: 503})

	_, err := uc.ScoreATS(context.Background(), freeCaller("fp"), domain.ATSScoreRequest{ResumeContent: "resume"})
	require.Error(t, err)
	assert.True(t, IsUpstreamFailure(err))

	client.ExpectedCalls = nil
	client.On("Generate", mock.Anything, mock.Anything).Return(`{"score": 70}`, nil)
	resp, err := uc.ScoreATS(context.Background(), freeCaller("fp"), domain.ATSScoreRequest{ResumeContent: "resume"})
	require.NoError(t, err)
	assert.Equal(t, 70, resp.Analysis.Score)
}

func TestScoreATSMalformedOutput(t *testing.T) {
	uc, _, _ := newAIFixture("I cannot help with that.", nil)
	_, err := uc.ScoreATS(context.Background(), freeCaller("fp"), domain.ATSScoreRequest{ResumeContent: "resume"})
	assert.ErrorIs(t, err, llm.ErrMalformedOutput)
}

func TestScoreATSNullOutputDoesNotConsumeQuota(t *testing.T) {
	uc, client, _ := newAIFixture("```json\nnull\n```", nil)

	_, err := uc.ScoreATS(context.Background(), freeCaller("fp"), domain.ATSScoreRequest{ResumeContent: "resume"})
	assert.ErrorIs(t, err, llm.ErrMalformedOutput)

	client.ExpectedCalls = nil
	client.On("Generate", mock.Anything, mock.Anything).Return(`{"score": 55}`, nil)
	resp, err := uc.ScoreATS(context.Background(), freeCaller("fp"), domain.ATSScoreRequest{ResumeContent: "resume"})
	require.NoError(t, err)
	assert.Equal(t, 55, resp.Analysis.Score)
}

func TestTailorResumeRequiresBody(t *testing.T) {
	uc, _, _ := newAIFixture(`{"tailoredResume": ""}`, nil)

	_, err := uc.TailorResume(context.Background(), freeCaller("fp"), domain.TailorResumeRequest{CurrentResume: "r", JobDescription: "j"})
	assert.ErrorIs(t, err, llm.ErrMalformedOutput)

	_, err = uc.TailorResume(context.Background(), freeCaller("fp"), domain.TailorResumeRequest{CurrentResume: " ", JobDescription: "j"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParseResumeBounds(t *testing.T) {
	uc, client, _ := newAIFixture(`{}`, nil)
	ctx := context.Background()

	_, err := uc.ParseResume(ctx, freeCaller("fp"), domain.ParseResumeRequest{ResumeText: strings.Repeat("a", 60)})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = uc.ParseResume(ctx, userCaller(), domain.ParseResumeRequest{ResumeText: strings.Repeat("a", 49)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.ParseResume(ctx, userCaller(), domain.ParseResumeRequest{ResumeText: strings.Repeat("a", 20001)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	client.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestParseResumeScrubsAndSaves(t *testing.T) {
	out := `{"fullName": " Ada Lovelace ", "email": "", "phone": "N/A", "summary": "Engineer",
		"skills": ["Go", " ", "SQL"], "experience": [{"title": "Dev", "company": "X", "bullets": ["", "Built"]}]}`
	uc, _, resumes := newAIFixture(out, nil)
	resumes.On("Upsert", mock.Anything, "user-1", mock.AnythingOfType("domain.ResumeProfile")).Return(nil)

	resp, err := uc.ParseResume(context.Background(), userCaller(), domain.ParseResumeRequest{ResumeText: strings.Repeat("resume ", 20)})
	require.NoError(t, err)
	assert.True(t, resp.Saved)
	assert.Equal(t, "Ada Lovelace", resp.Profile.FullName)
	assert.Nil(t, resp.Profile.Email)
	assert.Nil(t, resp.Profile.Phone)
	require.NotNil(t, resp.Profile.Summary)
	assert.Equal(t, []string{"Go", "SQL"}, resp.Profile.Skills)
	assert.Equal(t, []string{"Built"}, resp.Profile.Experience[0].Bullets)
	assert.NotNil(t, resp.Profile.Education)
}

func TestParseResumeMalformedDoesNotSave(t *testing.T) {
	uc, _, resumes := newAIFixture("not json at all", nil)

	_, err := uc.ParseResume(context.Background(), userCaller(), domain.ParseResumeRequest{ResumeText: strings.Repeat("resume ", 20)})
	assert.ErrorIs(t, err, llm.ErrMalformedOutput)
	resumes.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
}

func TestParseResumeNullOutputDoesNotSave(t *testing.T) {
	for _, raw := range []string{"null", "[]"} {
		uc, _, resumes := newAIFixture(raw, nil)

		resp, err := uc.ParseResume(context.Background(), userCaller(), domain.ParseResumeRequest{ResumeText: strings.Repeat("resume ", 20)})
		assert.ErrorIs(t, err, llm.ErrMalformedOutput, raw)
		assert.Nil(t, resp, raw)
		resumes.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
	}
}

func TestParseResumeSaveFailureStillReturnsProfile(t *testing.T) {
	uc, _, resumes := newAIFixture(`{"fullName": "Ada"}`, nil)
	resumes.On("Upsert", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("db down"))

	resp, err := uc.ParseResume(context.Background(), userCaller(), domain.ParseResumeRequest{ResumeText: strings.Repeat("resume ", 20)})
	require.NoError(t, err)
	assert.False(t, resp.Saved)
	assert.Equal(t, "Ada", resp.Profile.FullName)
}

func TestEnhanceBulletStripsDecoration(t *testing.T) {
	uc, _, _ := newAIFixture("• \"Cut latency by 40% by caching queries\"", nil)
	resp, err := uc.EnhanceBullet(context.Background(), freeCaller("fp"), domain.EnhanceBulletRequest{Bullet: "made it fast"})
	require.NoError(t, err)
	assert.Equal(t, "Cut latency by 40% by caching queries", resp.Enhanced)
}

func TestGenerateUnknownType(t *testing.T) {
	uc, client, _ := newAIFixture("text", nil)
	_, err := uc.Generate(context.Background(), freeCaller("fp"), domain.GenerateRequest{Type: "poem"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	client.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestGenerateKeepsParagraphs(t *testing.T) {
	uc, _, _ := newAIFixture("```\nDear team,\n\nI am writing...\n```", nil)
	resp, err := uc.Generate(context.Background(), freeCaller("fp"), domain.GenerateRequest{Type: domain.GenerateCoverLetter, JobTitle: "Dev"})
	require.NoError(t, err)
	assert.Equal(t, "Dear team,\n\nI am writing...", resp.Result)
}

func TestInterviewPrepModes(t *testing.T) {
	ctx := context.Background()

	t.Run("mock needs question and answer", func(t *testing.T) {
		uc, client, _ := newAIFixture(`{}`, nil)
		_, err := uc.InterviewPrep(ctx, freeCaller("fp"), domain.InterviewPrepRequest{JobTitle: "Dev", Mode: domain.InterviewModeMock, Question: "Why?"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		client.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})

	t.Run("score is clamped", func(t *testing.T) {
		uc, _, _ := newAIFixture(`{"feedback": "good", "score": 14}`, nil)
		resp, err := uc.InterviewPrep(ctx, freeCaller("fp"), domain.InterviewPrepRequest{JobTitle: "Dev", Mode: domain.InterviewModeMock, Question: "Why?", Answer: "Because"})
		require.NoError(t, err)
		require.NotNil(t, resp.Result.Score)
		assert.Equal(t, 10, *resp.Result.Score)
		assert.NotNil(t, resp.Result.Questions)
		assert.Equal(t, 1, resp.Remaining)
	})

	t.Run("questions is the default mode", func(t *testing.T) {
		uc, client, _ := newAIFixture(`{"questions": [{"question": "Tell me about yourself", "category": "behavioral"}]}`, nil)
		resp, err := uc.InterviewPrep(ctx, freeCaller("fp"), domain.InterviewPrepRequest{JobTitle: "Dev"})
		require.NoError(t, err)
		assert.Len(t, resp.Result.Questions, 1)
		req := client.Calls[0].Arguments.Get(1).(llm.Request)
		assert.Contains(t, req.User, "questions")
	})
}

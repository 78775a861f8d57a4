package domain

import "context"

// ATSScoreRequest asks for an applicant-tracking-system compatibility analysis.
type ATSScoreRequest struct {
	ResumeContent  string `json:"resumeContent" binding:"required"`
	JobDescription string `json:"jobDescription"`
}

type ATSAnalysis struct {
	Score           int      `json:"score"`
	Summary         string   `json:"summary"`
	MatchedKeywords []string `json:"matchedKeywords"`
	MissingKeywords []string `json:"missingKeywords"`
	Strengths       []string `json:"strengths"`
	Improvements    []string `json:"improvements"`
	FormattingIssue []string `json:"formattingIssues"`
}

type ATSScoreResponse struct {
	Analysis  ATSAnalysis `json:"analysis"`
	Remaining int         `json:"remaining"`
	IsPro     bool        `json:"isPro"`
}

type TailorResumeRequest struct {
	CurrentResume  string `json:"currentResume" binding:"required"`
	JobDescription string `json:"jobDescription" binding:"required"`
	Tone           string `json:"tone"`
}

type TailoredResume struct {
	TailoredResume string   `json:"tailoredResume"`
	Changes        []string `json:"changes"`
	KeywordsAdded  []string `json:"keywordsAdded"`
	MatchScore     int      `json:"matchScore"`
}

type TailorResumeResponse struct {
	Result    TailoredResume `json:"result"`
	Remaining int            `json:"remaining"`
	Tier      Tier           `json:"tier"`
}

const (
	ParseResumeMinChars = 50
	ParseResumeMaxChars = 20000
)

type ParseResumeRequest struct {
	ResumeText string `json:"resumeText" binding:"required"`
}

type ParseResumeResponse struct {
	Profile ResumeProfile `json:"profile"`
	Saved   bool          `json:"saved"`
}

type EnhanceBulletRequest struct {
	Bullet   string `json:"bullet" binding:"required,min=5"`
	JobTitle string `json:"jobTitle"`
	Context  string `json:"context"`
}

type EnhanceBulletResponse struct {
	Enhanced string `json:"enhanced"`
}

// Generation types accepted by /api/generate.
const (
	GenerateCoverLetter = "cover-letter"
	GenerateSummary     = "summary"
	GenerateBullets     = "bullets"
	GenerateLinkedIn    = "linkedin"
)

type GenerateRequest struct {
	Type           string `json:"type" binding:"required,oneof=cover-letter summary bullets linkedin"`
	JobTitle       string `json:"jobTitle" binding:"required"`
	Experience     string `json:"experience" binding:"required"`
	Skills         string `json:"skills" binding:"required"`
	Company        string `json:"company"`
	JobDescription string `json:"jobDescription"`
	Tone           string `json:"tone"`
}

type GenerateResponse struct {
	Result string `json:"result"`
}

// Interview prep modes.
const (
	InterviewModeQuestions = "questions"
	InterviewModeAnswers   = "answers"
	InterviewModeMock      = "mock"
)

type InterviewPrepRequest struct {
	JobTitle       string `json:"jobTitle" binding:"required"`
	Mode           string `json:"mode" binding:"omitempty,oneof=questions answers mock"`
	Company        string `json:"company"`
	JobDescription string `json:"jobDescription"`
	Question       string `json:"question"`
	Answer         string `json:"answer"`
}

type InterviewQuestion struct {
	Question string `json:"question"`
	Category string `json:"category"`
	Tip      string `json:"tip"`
	Sample   string `json:"sampleAnswer,omitempty"`
}

type InterviewPrepResult struct {
	Questions []InterviewQuestion `json:"questions"`
	Feedback  string              `json:"feedback,omitempty"`
	Score     *int                `json:"score,omitempty"`
}

type InterviewPrepResponse struct {
	Result    InterviewPrepResult `json:"result"`
	Remaining int                 `json:"remaining"`
	IsPro     bool                `json:"isPro"`
}

// AIUsecase groups every model-backed feature.
type AIUsecase interface {
	ScoreATS(ctx context.Context, caller Caller, req ATSScoreRequest) (*ATSScoreResponse, error)
	TailorResume(ctx context.Context, caller Caller, req TailorResumeRequest) (*TailorResumeResponse, error)
	ParseResume(ctx context.Context, caller Caller, req ParseResumeRequest) (*ParseResumeResponse, error)
	EnhanceBullet(ctx context.Context, caller Caller, req EnhanceBulletRequest) (*EnhanceBulletResponse, error)
	Generate(ctx context.Context, caller Caller, req GenerateRequest) (*GenerateResponse, error)
	InterviewPrep(ctx context.Context, caller Caller, req InterviewPrepRequest) (*InterviewPrepResponse, error)
}

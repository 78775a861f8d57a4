package usecase

import (
	"fmt"
	"strings"
	"time"

	"resumeai-backend/internal/domain"
)

// Input caps, in runes, applied before user text reaches a prompt.
const (
	capResume         = 15000
	capJobDescription = 8000
	capBullet         = 2000
	capParseResume    = domain.ParseResumeMaxChars
	capFreeText       = 2000
)

const (
	timeoutParse   = 30 * time.Second
	timeoutEnhance = 15 * time.Second
	timeoutDefault = 30 * time.Second
)

// promptSpec is everything a feature fixes about its model call.
type promptSpec struct {
	name      string
	system    string
	maxTokens int
	timeout   time.Duration
	json      bool
}

var (
	atsPrompt = promptSpec{
		name:      "ats-score",
		maxTokens: 1500,
		timeout:   timeoutDefault,
		json:      true,
		system: `You are an applicant tracking system (ATS) analyst. Evaluate how well the resume
will parse and rank in an ATS, and how well it matches the job description when one is given.
Respond with JSON only, exactly in this shape:
{"score": 0-100 integer, "summary": string, "matchedKeywords": [string], "missingKeywords": [string],
"strengths": [string], "improvements": [string], "formattingIssues": [string]}`,
	}

	tailorPrompt = promptSpec{
		name:      "tailor-resume",
		maxTokens: 4000,
		timeout:   timeoutDefault,
		json:      true,
		system: `You are an expert resume writer. Rewrite the resume so it targets the job description.
Keep every fact truthful: never invent employers, titles, dates, degrees or metrics.
Keep the plain-text layout: NAME, contact line, UPPERCASE section headers, "Company  Dates" rows,
job titles and bullets starting with "•".
Respond with JSON only, exactly in this shape:
{"tailoredResume": string, "changes": [string], "keywordsAdded": [string], "matchScore": 0-100 integer}`,
	}

	parsePrompt = promptSpec{
		name:      "parse-resume",
		maxTokens: 4000,
		timeout:   timeoutParse,
		json:      true,
		system: `Extract structured data from the resume text. Use only information present in the text.
If a field is absent, use null for single values and [] for lists. Never guess.
Respond with JSON only, exactly in this shape:
{"fullName": string, "email": string|null, "phone": string|null, "location": string|null,
"summary": string|null,
"experience": [{"title": string, "company": string, "startDate": string, "endDate": string,
"location": string|null, "bullets": [string]}],
"education": [{"degree": string, "school": string, "year": string, "gpa": string|null}],
"skills": [string], "certifications": [string]}`,
	}

	enhancePrompt = promptSpec{
		name:      "enhance-bullet",
		maxTokens: 300,
		timeout:   timeoutEnhance,
		system: `Rewrite the resume bullet point to be concise and achievement-oriented: start with a strong
action verb, keep any numbers that are given and do not invent new ones. Reply with the rewritten
bullet only, one line, no quotes and no leading bullet character.`,
	}

	interviewPrompt = promptSpec{
		name:      "interview-prep",
		maxTokens: 3000,
		timeout:   timeoutDefault,
		json:      true,
		system: `You are an interview coach. Respond with JSON only, exactly in this shape:
{"questions": [{"question": string, "category": string, "tip": string, "sampleAnswer": string}],
"feedback": string, "score": integer|null}`,
	}
)

var generateInstructions = map[string]string{
	domain.GenerateCoverLetter: `Write a professional cover letter of three to four short paragraphs. Start with
"Dear Hiring Manager," unless a company is given, and end with a sign-off line.`,
	domain.GenerateSummary: `Write a professional resume summary of three to four sentences in the first person
without pronouns.`,
	domain.GenerateBullets: `Write five resume bullet points, one per line, each starting with "• " and a strong
action verb.`,
	domain.GenerateLinkedIn: `Write a LinkedIn "About" section of two to three short paragraphs in the first person.`,
}

func generatePrompt(kind string) promptSpec {
	return promptSpec{
		name:      "generate:" + kind,
		maxTokens: 1500,
		timeout:   timeoutDefault,
		system: "You are a career writing assistant. " + generateInstructions[kind] +
			"\nUse only the facts provided. Reply with the text only, no preamble and no Markdown.",
	}
}

// capText trims s and cuts it to limit runes.
func capText(s string, limit int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}

// payload renders labelled sections, skipping empty values.
func payload(fields ...[2]string) string {
	var b strings.Builder
	for _, f := range fields {
		if f[1] == "" {
			continue
		}
		fmt.Fprintf(&b, "%s:\n%s\n\n", f[0], f[1])
	}
	return strings.TrimSpace(b.String())
}

func field(label, value string, limit int) [2]string {
	return [2]string{label, capText(value, limit)}
}

func interviewPayload(req domain.InterviewPrepRequest) string {
	base := [][2]string{
		field("Job title", req.JobTitle, capFreeText),
		field("Company", req.Company, capFreeText),
		field("Job description", req.JobDescription, capJobDescription),
	}
	switch req.Mode {
	case domain.InterviewModeAnswers:
		base = append(base, [2]string{"Task", "Generate 8 likely questions, each with a strong sample answer in sampleAnswer. Leave feedback empty and score null."})
	case domain.InterviewModeMock:
		base = append(base,
			field("Question", req.Question, capFreeText),
			field("Candidate answer", req.Answer, capFreeText),
			[2]string{"Task", "Evaluate the candidate answer. Put the evaluation in feedback, a 1-10 score in score, and one improved version of the answer as the only entry of questions."},
		)
	default:
		base = append(base, [2]string{"Task", "Generate 10 likely interview questions mixing behavioral, technical and role-specific ones. Leave sampleAnswer empty, feedback empty and score null."})
	}
	return payload(base...)
}

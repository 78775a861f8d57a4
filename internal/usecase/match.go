package usecase

import (
	"strings"
	"unicode"

	"resumeai-backend/internal/domain"
)

// matchStopWords filters common English words that add noise to keyword matching.
var matchStopWords = map[string]bool{
	"and": true, "the": true, "for": true, "with": true, "you": true,
	"are": true, "have": true, "will": true, "this": true, "that": true,
	"from": true, "our": true, "your": true, "their": true, "they": true,
	"work": true, "team": true, "role": true, "job": true, "join": true,
	"about": true, "which": true, "what": true, "who": true, "how": true,
	"can": true, "not": true, "but": true, "all": true, "also": true,
	"more": true, "than": true, "into": true, "has": true, "its": true,
	"was": true, "were": true, "been": true, "each": true, "new": true,
	"use": true, "using": true, "used": true, "well": true, "high": true,
	"good": true, "able": true, "get": true, "set": true, "such": true,
}

var seniorityLevels = []string{"intern", "junior", "mid", "senior", "staff", "principal", "lead", "head", "director"}

const (
	pointsPerSkill = 10
	maxSkillPoints = 60
	titlePoints    = 20
	locationPoints = 10
	seniorPoints   = 10
)

// extractKeywords tokenizes text into lowercase keywords of at least three runes.
// + # . count as word characters so "c++", "c#" and "node.js" survive.
func extractKeywords(text string) map[string]bool {
	kw := make(map[string]bool)
	var word strings.Builder
	flush := func() {
		w := strings.TrimRight(word.String(), ".")
		word.Reset()
		if len([]rune(w)) >= 3 && !matchStopWords[w] {
			kw[w] = true
		}
	}
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.' {
			word.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return kw
}

// matchProfile is what the caller told us about themselves.
type matchProfile struct {
	skills    []string
	titleKW   map[string]bool
	location  string
	remote    bool
	seniority string
}

// newMatchProfile returns nil when there is nothing to score against.
func newMatchProfile(query, location string, remote bool, skills []string, resumeText string) *matchProfile {
	if len(skills) == 0 && strings.TrimSpace(resumeText) == "" {
		return nil
	}
	p := &matchProfile{
		titleKW:  extractKeywords(query),
		location: strings.ToLower(strings.TrimSpace(location)),
		remote:   remote,
	}

	seen := map[string]bool{}
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" && !seen[s] {
			seen[s] = true
			p.skills = append(p.skills, s)
		}
	}
	if len(p.skills) == 0 {
		for kw := range extractKeywords(resumeText) {
			p.skills = append(p.skills, kw)
		}
	}
	p.seniority = seniorityOf(extractKeywords(resumeText))
	return p
}

func seniorityOf(kw map[string]bool) string {
	for _, level := range seniorityLevels {
		if kw[level] {
			return level
		}
	}
	return ""
}

// score is additive: skills, title overlap, location, seniority. Result is 0..100.
func (p *matchProfile) score(job domain.Job) int {
	jobKW := extractKeywords(job.Title + " " + job.Description)
	jobText := strings.ToLower(job.Title + " " + job.Description)

	skillPoints := 0
	for _, s := range p.skills {
		matched := jobKW[s]
		if !matched && strings.ContainsAny(s, " -/") {
			matched = strings.Contains(jobText, s)
		}
		if matched {
			skillPoints += pointsPerSkill
			if skillPoints >= maxSkillPoints {
				skillPoints = maxSkillPoints
				break
			}
		}
	}
	total := skillPoints

	titleKW := extractKeywords(job.Title)
	for kw := range p.titleKW {
		if titleKW[kw] {
			total += titlePoints
			break
		}
	}

	switch {
	case p.remote && job.Remote:
		total += locationPoints
	case p.location != "" && strings.Contains(strings.ToLower(job.Location), p.location):
		total += locationPoints
	}

	if p.seniority != "" && jobKW[p.seniority] {
		total += seniorPoints
	}

	return clampScore(total)
}

// scoreJobs returns a scored copy so cached slices are never mutated.
func scoreJobs(jobs []domain.Job, p *matchProfile) []domain.Job {
	out := make([]domain.Job, len(jobs))
	copy(out, jobs)
	if p == nil {
		return out
	}
	for i := range out {
		s := p.score(out[i])
		out[i].MatchScore = &s
	}
	return out
}

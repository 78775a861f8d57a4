package domain

import (
	"context"
	"time"
)

// ResumeProfile is the structured profile extracted from uploaded resume text.
// Absent fields stay nil/empty; extraction never guesses.
type ResumeProfile struct {
	FullName       string           `json:"fullName"`
	Email          *string          `json:"email"`
	Phone          *string          `json:"phone"`
	Location       *string          `json:"location"`
	Summary        *string          `json:"summary"`
	Experience     []ExperienceItem `json:"experience"`
	Education      []EducationItem  `json:"education"`
	Skills         []string         `json:"skills"`
	Certifications []string         `json:"certifications"`
}

type ExperienceItem struct {
	Title     string   `json:"title"`
	Company   string   `json:"company"`
	StartDate string   `json:"startDate"`
	EndDate   string   `json:"endDate"`
	Location  *string  `json:"location"`
	Bullets   []string `json:"bullets"`
}

type EducationItem struct {
	Degree string  `json:"degree"`
	School string  `json:"school"`
	Year   string  `json:"year"`
	GPA    *string `json:"gpa"`
}

// Normalize replaces nil slices with empty ones so the JSON shape is stable.
func (p *ResumeProfile) Normalize() {
	if p.Experience == nil {
		p.Experience = []ExperienceItem{}
	}
	if p.Education == nil {
		p.Education = []EducationItem{}
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Certifications == nil {
		p.Certifications = []string{}
	}
	for i := range p.Experience {
		if p.Experience[i].Bullets == nil {
			p.Experience[i].Bullets = []string{}
		}
	}
}

// StoredResumeProfile is a ResumeProfile owned by a user.
type StoredResumeProfile struct {
	UserID    string        `json:"userId"`
	Profile   ResumeProfile `json:"profile"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

type ResumeProfileRepository interface {
	Upsert(ctx context.Context, userID string, profile ResumeProfile) error
	GetByUserID(ctx context.Context, userID string) (*StoredResumeProfile, error)
}

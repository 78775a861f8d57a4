package document

import "strings"

// DocType selects how free-form text is laid out.
type DocType string

const (
	DocResume      DocType = "resume"
	DocCoverLetter DocType = "cover-letter"
)

// ParseDocType maps a request value to a DocType. Anything unrecognized is a resume.
func ParseDocType(s string) DocType {
	if DocType(strings.ToLower(strings.TrimSpace(s))) == DocCoverLetter {
		return DocCoverLetter
	}
	return DocResume
}

// Block is one element of the renderer-neutral document model. Consecutive bullets are
// grouped into a single KindBullet block with Items.
type Block struct {
	Kind   Kind
	Text   string
	Tokens []string
	Left   string
	Right  string
	Label  string
	Value  string
	Items  []string
}

// Resume is the structured formatter input.
type Resume struct {
	Name           string     `json:"name"`
	Email          string     `json:"email,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	Location       string     `json:"location,omitempty"`
	LinkedIn       string     `json:"linkedin,omitempty"`
	Website        string     `json:"website,omitempty"`
	Summary        string     `json:"summary,omitempty"`
	Experience     []Position `json:"experience,omitempty"`
	Leadership     []Position `json:"leadership,omitempty"`
	Education      []School   `json:"education,omitempty"`
	Publications   []string   `json:"publications,omitempty"`
	Honors         []string   `json:"honors,omitempty"`
	Certifications []string   `json:"certifications,omitempty"`
	Skills         []string   `json:"skills,omitempty"`
	Languages      []string   `json:"languages,omitempty"`
	CustomSections []Section  `json:"customSections,omitempty"`
}

type Position struct {
	Title        string   `json:"title"`
	Organization string   `json:"organization"`
	Location     string   `json:"location,omitempty"`
	StartDate    string   `json:"startDate,omitempty"`
	EndDate      string   `json:"endDate,omitempty"`
	Bullets      []string `json:"bullets,omitempty"`
}

type School struct {
	Degree   string   `json:"degree"`
	School   string   `json:"school"`
	Location string   `json:"location,omitempty"`
	Year     string   `json:"year,omitempty"`
	GPA      string   `json:"gpa,omitempty"`
	Details  []string `json:"details,omitempty"`
}

type Section struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

// FromText classifies free-form text and groups it into blocks.
func FromText(text string, docType DocType) []Block {
	lines := ClassifyLines(text)
	if docType == DocCoverLetter {
		return coverLetterBlocks(lines)
	}

	blocks := make([]Block, 0, len(lines))
	for _, l := range lines {
		if l.Kind == KindBullet {
			if n := len(blocks); n > 0 && blocks[n-1].Kind == KindBullet {
				blocks[n-1].Items = append(blocks[n-1].Items, l.Text)
				continue
			}
			blocks = append(blocks, Block{Kind: KindBullet, Items: []string{l.Text}})
			continue
		}
		blocks = append(blocks, Block{
			Kind:   l.Kind,
			Text:   l.Text,
			Tokens: l.Tokens,
			Left:   l.Left,
			Right:  l.Right,
			Label:  l.Label,
			Value:  l.Value,
		})
	}
	return blocks
}

// coverLetterBlocks keeps the letter's own casing: every non-blank line is a paragraph.
func coverLetterBlocks(lines []Line) []Block {
	blocks := make([]Block, 0, len(lines))
	for _, l := range lines {
		if l.Kind == KindBlank {
			blocks = append(blocks, Block{Kind: KindBlank})
			continue
		}
		blocks = append(blocks, Block{Kind: KindBody, Text: strings.TrimSpace(l.Raw)})
	}
	return blocks
}

// FromResume lays out a structured resume in fixed section order, skipping empty sections.
func FromResume(r Resume) []Block {
	var blocks []Block
	if name := strings.TrimSpace(r.Name); name != "" {
		blocks = append(blocks, Block{Kind: KindName, Text: strings.ToUpper(name)})
	}
	if tokens := nonEmpty(r.Email, r.Phone, r.Location, r.LinkedIn, r.Website); len(tokens) > 0 {
		blocks = append(blocks, Block{Kind: KindContact, Tokens: tokens})
	}
	if s := strings.TrimSpace(r.Summary); s != "" {
		blocks = append(blocks, header("SUMMARY"), Block{Kind: KindBody, Text: s})
	}

	blocks = appendPositions(blocks, "EXPERIENCE", r.Experience)
	blocks = appendPositions(blocks, "LEADERSHIP", r.Leadership)

	if len(r.Education) > 0 {
		blocks = append(blocks, header("EDUCATION"))
		for _, e := range r.Education {
			blocks = append(blocks, Block{Kind: KindCompanyDate, Left: e.School, Right: e.Year})
			title := e.Degree
			if e.GPA != "" {
				title += ", GPA " + e.GPA
			}
			if title != "" {
				blocks = append(blocks, Block{Kind: KindJobTitle, Text: title})
			}
			if items := nonEmpty(e.Details...); len(items) > 0 {
				blocks = append(blocks, Block{Kind: KindBullet, Items: items})
			}
		}
	}

	blocks = appendList(blocks, "PUBLICATIONS", r.Publications)
	blocks = appendList(blocks, "HONORS", r.Honors)

	certs, skills, langs := nonEmpty(r.Certifications...), nonEmpty(r.Skills...), nonEmpty(r.Languages...)
	if len(certs)+len(skills)+len(langs) > 0 {
		blocks = append(blocks, header("SKILLS & CERTIFICATIONS"))
		if len(certs) > 0 {
			blocks = append(blocks, Block{Kind: KindLabelValue, Label: "Certifications", Value: strings.Join(certs, ", ")})
		}
		if len(skills) > 0 {
			blocks = append(blocks, Block{Kind: KindLabelValue, Label: "Skills", Value: strings.Join(skills, ", ")})
		}
		if len(langs) > 0 {
			blocks = append(blocks, Block{Kind: KindLabelValue, Label: "Languages", Value: strings.Join(langs, ", ")})
		}
	}

	for _, s := range r.CustomSections {
		blocks = appendList(blocks, strings.ToUpper(strings.TrimSpace(s.Title)), s.Items)
	}
	return blocks
}

func appendPositions(blocks []Block, title string, positions []Position) []Block {
	if len(positions) == 0 {
		return blocks
	}
	blocks = append(blocks, header(title))
	for _, p := range positions {
		blocks = append(blocks, Block{Kind: KindCompanyDate, Left: p.Organization, Right: dateRange(p.StartDate, p.EndDate)})
		if p.Title != "" {
			blocks = append(blocks, Block{Kind: KindJobTitle, Text: p.Title})
		}
		if items := nonEmpty(p.Bullets...); len(items) > 0 {
			blocks = append(blocks, Block{Kind: KindBullet, Items: items})
		}
	}
	return blocks
}

func appendList(blocks []Block, title string, items []string) []Block {
	items = nonEmpty(items...)
	if len(items) == 0 || title == "" {
		return blocks
	}
	return append(blocks, header(title), Block{Kind: KindBullet, Items: items})
}

func header(title string) Block {
	return Block{Kind: KindSectionHeader, Text: title}
}

func dateRange(start, end string) string {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	switch {
	case start == "" && end == "":
		return ""
	case start == "":
		return end
	case end == "":
		return start + " - Present"
	}
	return start + " - " + end
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

package document

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind is the classification of a single line of resume text.
type Kind int

const (
	KindBlank Kind = iota
	KindName
	KindContact
	KindSectionHeader
	KindCompanyDate
	KindBullet
	KindLabelValue
	KindJobTitle
	KindBody
)

var kindNames = map[Kind]string{
	KindBlank:         "blank",
	KindName:          "name",
	KindContact:       "contact",
	KindSectionHeader: "section-header",
	KindCompanyDate:   "company-date",
	KindBullet:        "bullet",
	KindLabelValue:    "label-value",
	KindJobTitle:      "job-title",
	KindBody:          "body",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Line is one classified input line. Only the fields relevant to its Kind are set.
type Line struct {
	Kind Kind
	Raw  string
	// Text is the display text: the name, header label, bullet body, title or body text.
	Text string
	// Tokens are the contact items of a KindContact line.
	Tokens []string
	// Left and Right are the company and date range of a KindCompanyDate line.
	Left  string
	Right string
	// Label and Value belong to a KindLabelValue line.
	Label string
	Value string
	// ClosesList is set when this line ends an open bullet list.
	ClosesList bool
}

// LabelWords is the closed set of labels recognized in "Label: value" lines.
var LabelWords = []string{
	"Certifications", "Software", "Languages", "Honors", "Awards", "Skills", "Tools", "Interests",
}

var (
	contactPhonePattern = regexp.MustCompile(`\+?\(?\d{3}\)?[\s.\-]?\d{3}[\s.\-]?\d{4}`)
	contactSplitPattern = regexp.MustCompile(`\s*\|\s*`)
	headerCharsPattern  = regexp.MustCompile(`^[A-Za-z\s&/]+$`)
	companyDatePattern  = regexp.MustCompile(`^(\S.{0,99}?)\s{2,}(\S.*)$`)
	yearPattern         = regexp.MustCompile(`\b\d{4}\b`)
	labelValuePattern   = regexp.MustCompile(`^(` + strings.Join(LabelWords, "|") + `):\s*(.+)$`)
)

// classifier carries the little state the rules depend on.
type classifier struct {
	nonBlank    int
	contactSeen bool
	listOpen    bool
	// prevKind is the kind of the line just before the current one, blank lines included.
	prevKind Kind
}

// rule is one entry of the ordered classification table. The first rule whose match
// returns true decides the line.
type rule struct {
	name  string
	kind  Kind
	match func(c *classifier, trimmed string) bool
	build func(c *classifier, trimmed string) Line
}

var rules = []rule{
	{
		name:  "blank",
		kind:  KindBlank,
		match: func(_ *classifier, s string) bool { return s == "" },
		build: func(_ *classifier, _ string) Line { return Line{Kind: KindBlank} },
	},
	{
		name:  "name",
		kind:  KindName,
		match: func(c *classifier, _ string) bool { return c.nonBlank == 0 },
		build: func(_ *classifier, s string) Line { return Line{Kind: KindName, Text: strings.ToUpper(s)} },
	},
	{
		name:  "contact",
		kind:  KindContact,
		match: isContactLine,
		build: func(_ *classifier, s string) Line {
			return Line{Kind: KindContact, Tokens: splitContact(s)}
		},
	},
	{
		name:  "section-header",
		kind:  KindSectionHeader,
		match: func(_ *classifier, s string) bool { return IsSectionHeader(s) },
		build: func(_ *classifier, s string) Line { return Line{Kind: KindSectionHeader, Text: strings.ToUpper(s)} },
	},
	{
		name:  "company-date",
		kind:  KindCompanyDate,
		match: func(_ *classifier, s string) bool { _, _, ok := SplitCompanyDate(s); return ok },
		build: func(_ *classifier, s string) Line {
			left, right, _ := SplitCompanyDate(s)
			return Line{Kind: KindCompanyDate, Left: left, Right: right}
		},
	},
	{
		name:  "bullet",
		kind:  KindBullet,
		match: func(_ *classifier, s string) bool { return hasBulletMarker(s) },
		build: func(_ *classifier, s string) Line { return Line{Kind: KindBullet, Text: stripBulletMarker(s)} },
	},
	{
		name:  "label-value",
		kind:  KindLabelValue,
		match: func(_ *classifier, s string) bool { return labelValuePattern.MatchString(s) },
		build: func(_ *classifier, s string) Line {
			m := labelValuePattern.FindStringSubmatch(s)
			return Line{Kind: KindLabelValue, Label: m[1], Value: strings.TrimSpace(m[2])}
		},
	},
	{
		name:  "job-title",
		kind:  KindJobTitle,
		match: isJobTitle,
		build: func(_ *classifier, s string) Line { return Line{Kind: KindJobTitle, Text: s} },
	},
	{
		name:  "body",
		kind:  KindBody,
		match: func(_ *classifier, _ string) bool { return true },
		build: func(_ *classifier, s string) Line { return Line{Kind: KindBody, Text: s} },
	},
}

// ClassifyLines classifies every line of text in order. It never fails: a line no
// rule recognizes is body text.
func ClassifyLines(text string) []Line {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	raw := strings.Split(text, "\n")

	c := &classifier{prevKind: KindBlank}
	out := make([]Line, 0, len(raw))
	for _, r := range raw {
		out = append(out, c.next(r))
	}
	return out
}

func (c *classifier) next(raw string) Line {
	trimmed := strings.TrimSpace(raw)
	for _, r := range rules {
		if !r.match(c, trimmed) {
			continue
		}
		line := r.build(c, trimmed)
		line.Raw = raw
		c.advance(&line)
		return line
	}
	// unreachable: the body rule matches everything
	return Line{Kind: KindBody, Raw: raw, Text: trimmed}
}

func (c *classifier) advance(line *Line) {
	if line.Kind == KindBullet {
		c.listOpen = true
	} else if c.listOpen {
		line.ClosesList = true
		c.listOpen = false
	}
	c.prevKind = line.Kind
	if line.Kind == KindBlank {
		return
	}
	c.nonBlank++
	if line.Kind == KindContact {
		c.contactSeen = true
	}
}

func isContactLine(c *classifier, s string) bool {
	if c.nonBlank != 1 || c.contactSeen {
		return false
	}
	return strings.Contains(s, "@") || strings.Contains(s, "|") || contactPhonePattern.MatchString(s)
}

func splitContact(s string) []string {
	parts := contactSplitPattern.Split(s, -1)
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// IsSectionHeader reports whether s is an ALL-CAPS section label such as
// "EXPERIENCE" or "SKILLS & TOOLS".
func IsSectionHeader(s string) bool {
	s = strings.TrimSpace(s)
	n := utf8.RuneCountInString(s)
	if n <= 3 || n >= 60 {
		return false
	}
	if s != strings.ToUpper(s) || strings.IndexFunc(s, unicode.IsLetter) < 0 {
		return false
	}
	return headerCharsPattern.MatchString(s)
}

// SplitCompanyDate splits "Acme Corp      Jan 2020 - Present" into its company and
// date-range halves. The right half must carry a four-digit year or "Present".
func SplitCompanyDate(s string) (company, dates string, ok bool) {
	s = strings.TrimSpace(s)
	if hasBulletMarker(s) {
		return "", "", false
	}
	m := companyDatePattern.FindStringSubmatch(s)
	if m == nil {
		return "", "", false
	}
	right := strings.TrimSpace(m[2])
	if !yearPattern.MatchString(right) && !strings.Contains(right, "Present") {
		return "", "", false
	}
	return strings.TrimSpace(m[1]), right, true
}

func isJobTitle(c *classifier, s string) bool {
	if c.prevKind != KindCompanyDate {
		return false
	}
	if utf8.RuneCountInString(s) >= 80 || yearPattern.MatchString(s) {
		return false
	}
	first, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(first)
}

func hasBulletMarker(s string) bool {
	return strings.HasPrefix(s, "•") || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "*")
}

func stripBulletMarker(s string) string {
	for _, marker := range []string{"•", "-", "*"} {
		if strings.HasPrefix(s, marker) {
			return strings.TrimSpace(strings.TrimPrefix(s, marker))
		}
	}
	return s
}

package document

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyLinesResumeExample(t *testing.T) {
	text := strings.Join([]string{
		"JANE DOE",
		"jane@x.com | 555-123-4567",
		"EXPERIENCE",
		"Acme Corp      Jan 2020 - Present",
		"Senior Engineer",
		"• Led a team of 5",
		"",
		"EDUCATION",
	}, "\n")

	lines := ClassifyLines(text)
	require.Len(t, lines, 8)

	assert.Equal(t, KindName, lines[0].Kind)
	assert.Equal(t, "JANE DOE", lines[0].Text)

	assert.Equal(t, KindContact, lines[1].Kind)
	assert.Equal(t, []string{"jane@x.com", "555-123-4567"}, lines[1].Tokens)

	assert.Equal(t, KindSectionHeader, lines[2].Kind)
	assert.Equal(t, "EXPERIENCE", lines[2].Text)

	assert.Equal(t, KindCompanyDate, lines[3].Kind)
	assert.Equal(t, "Acme Corp", lines[3].Left)
	assert.Equal(t, "Jan 2020 - Present", lines[3].Right)

	assert.Equal(t, KindJobTitle, lines[4].Kind)
	assert.Equal(t, "Senior Engineer", lines[4].Text)

	assert.Equal(t, KindBullet, lines[5].Kind)
	assert.Equal(t, "Led a team of 5", lines[5].Text)

	assert.Equal(t, KindBlank, lines[6].Kind)
	assert.True(t, lines[6].ClosesList)

	assert.Equal(t, KindSectionHeader, lines[7].Kind)
	assert.Equal(t, "EDUCATION", lines[7].Text)
	assert.False(t, lines[7].ClosesList)
}

func TestClassifyLinesRules(t *testing.T) {
	t.Run("name is upper-cased whatever its content", func(t *testing.T) {
		lines := ClassifyLines("jane doe, engineer")
		assert.Equal(t, KindName, lines[0].Kind)
		assert.Equal(t, "JANE DOE, ENGINEER", lines[0].Text)
	})

	t.Run("second line without contact markers is not contact", func(t *testing.T) {
		lines := ClassifyLines("Jane Doe\nSUMMARY")
		assert.Equal(t, KindSectionHeader, lines[1].Kind)
	})

	t.Run("phone-only contact line", func(t *testing.T) {
		lines := ClassifyLines("Jane Doe\n(555) 123-4567")
		assert.Equal(t, KindContact, lines[1].Kind)
	})

	t.Run("contact only on the second non-blank line", func(t *testing.T) {
		lines := ClassifyLines("Jane\nSUMMARY\njane@x.com")
		assert.Equal(t, KindBody, lines[2].Kind)
	})

	t.Run("short caps are not headers", func(t *testing.T) {
		lines := ClassifyLines("Jane\nSUMMARY\nAWS")
		assert.Equal(t, KindBody, lines[2].Kind)
	})

	t.Run("label value", func(t *testing.T) {
		lines := ClassifyLines("Jane\nSKILLS\nSkills: Go, SQL")
		assert.Equal(t, KindLabelValue, lines[2].Kind)
		assert.Equal(t, "Skills", lines[2].Label)
		assert.Equal(t, "Go, SQL", lines[2].Value)
	})

	t.Run("unknown label is body", func(t *testing.T) {
		lines := ClassifyLines("Jane\nSKILLS\nHobbies: chess")
		assert.Equal(t, KindBody, lines[2].Kind)
	})

	t.Run("bullet prefixed date line stays a bullet", func(t *testing.T) {
		lines := ClassifyLines("Jane\nSUMMARY\n- Shipped v2      2021")
		assert.Equal(t, KindBullet, lines[2].Kind)
		assert.Equal(t, "Shipped v2      2021", lines[2].Text)
	})

	t.Run("job title only right after company row", func(t *testing.T) {
		lines := ClassifyLines("Jane\nEXPERIENCE\nAcme  2019 - 2020\nEngineer\nMentor")
		assert.Equal(t, KindJobTitle, lines[3].Kind)
		assert.Equal(t, KindBody, lines[4].Kind)
	})

	t.Run("blank line between company row and title breaks the pair", func(t *testing.T) {
		lines := ClassifyLines("Jane\nEXPERIENCE\nAcme  2019 - 2020\n\nEngineer")
		assert.Equal(t, KindCompanyDate, lines[2].Kind)
		assert.Equal(t, KindBlank, lines[3].Kind)
		assert.Equal(t, KindBody, lines[4].Kind)
	})

	t.Run("symbol-only caps line is not a header", func(t *testing.T) {
		for _, in := range []string{"&&&&", "/ / /", "  &  &  "} {
			assert.False(t, IsSectionHeader(in), in)
			lines := ClassifyLines("Jane\nSUMMARY\n" + in)
			assert.Equal(t, KindBody, lines[2].Kind, in)
		}
		assert.True(t, IsSectionHeader("SKILLS & TOOLS"))
	})

	t.Run("title with a year is body", func(t *testing.T) {
		lines := ClassifyLines("Jane\nEXPERIENCE\nAcme  2019 - 2020\nEngineer since 2019")
		assert.Equal(t, KindBody, lines[3].Kind)
	})

	t.Run("header closes list", func(t *testing.T) {
		lines := ClassifyLines("Jane\n* one\n* two\nSKILLS")
		assert.False(t, lines[2].ClosesList)
		assert.True(t, lines[3].ClosesList)
	})
}

func TestClassifyLinesIsTotal(t *testing.T) {
	inputs := []string{"", "\n\n\n", "<script>alert(1)</script>", "••••", "   -   ", strings.Repeat("x", 10000), "\r\nA\r\nB"}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			_ = ClassifyLines(in)
			_ = HTML(FromText(in, DocResume), "t")
		})
	}
}

func TestEscapeHTML(t *testing.T) {
	assert.Equal(t, "plain text 123", EscapeHTML("plain text 123"))
	assert.Equal(t, "&lt;b&gt;Tom &amp; Jerry&#39;s &quot;show&quot;&lt;/b&gt;", EscapeHTML(`<b>Tom & Jerry's "show"</b>`))

	once := EscapeHTML("a & b")
	assert.Equal(t, "a &amp; b", once)
	assert.Equal(t, "a &amp;amp; b", EscapeHTML(once), "escaping is single-pass per render")
}

func TestHTMLEscapesEveryTextOnce(t *testing.T) {
	out := RenderHTML("Jane <Doe>\njane@x.com | A&B\nEXPERIENCE\n• Built <api> & \"tools\"", DocResume, "R&D")

	assert.Contains(t, out, "<title>R&amp;D</title>")
	assert.Contains(t, out, "JANE &lt;DOE&gt;")
	assert.Contains(t, out, "A&amp;B")
	assert.Contains(t, out, "<li>Built &lt;api&gt; &amp; &quot;tools&quot;</li>")
	assert.NotContains(t, out, "&amp;amp;")
}

func TestFromTextGroupsBullets(t *testing.T) {
	blocks := FromText("Jane\nEXPERIENCE\n- a\n- b\n\n- c", DocResume)

	var lists [][]string
	for _, b := range blocks {
		if b.Kind == KindBullet {
			lists = append(lists, b.Items)
		}
	}
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, lists)
}

func TestFromTextCoverLetterKeepsCasing(t *testing.T) {
	blocks := FromText("Dear Hiring Manager,\n\nI am applying.", DocCoverLetter)
	require.Len(t, blocks, 3)
	assert.Equal(t, Block{Kind: KindBody, Text: "Dear Hiring Manager,"}, blocks[0])
	assert.Equal(t, KindBlank, blocks[1].Kind)
}

func TestFromResumeSectionOrder(t *testing.T) {
	r := Resume{
		Name:  "Jane Doe",
		Email: "jane@x.com",
		Phone: "555",
		Experience: []Position{{
			Title: "Engineer", Organization: "Acme", StartDate: "2020", Bullets: []string{"Built things", " "},
		}},
		Education:      []School{{Degree: "BSc", School: "State U", Year: "2019", GPA: "3.8"}},
		Honors:         []string{"Dean's list"},
		Skills:         []string{"Go"},
		Certifications: []string{"CKA"},
		CustomSections: []Section{{Title: "Volunteering", Items: []string{"Food bank"}}, {Title: "Empty"}},
	}

	var headers []string
	for _, b := range FromResume(r) {
		if b.Kind == KindSectionHeader {
			headers = append(headers, b.Text)
		}
	}
	assert.Equal(t, []string{"EXPERIENCE", "EDUCATION", "HONORS", "SKILLS & CERTIFICATIONS", "VOLUNTEERING"}, headers)

	blocks := FromResume(r)
	assert.Equal(t, Block{Kind: KindName, Text: "JANE DOE"}, blocks[0])
	assert.Equal(t, []string{"jane@x.com", "555"}, blocks[1].Tokens)
	assert.Equal(t, Block{Kind: KindCompanyDate, Left: "Acme", Right: "2020 - Present"}, blocks[3])
	assert.Equal(t, []string{"Built things"}, blocks[5].Items)
}

func TestDOCXPackage(t *testing.T) {
	data, err := RenderDOCX("Jane & Co\njane@x.com\nEXPERIENCE\nAcme  2020 - Present\n• Led <team>", DocResume, "Jane's resume")
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	files := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		files[f.Name] = string(body)
	}

	require.Contains(t, files, "[Content_Types].xml")
	require.Contains(t, files, "word/document.xml")
	doc := files["word/document.xml"]
	assert.Contains(t, doc, "JANE &amp; CO")
	assert.Contains(t, doc, "• Led &lt;team&gt;")
	assert.Contains(t, doc, `<w:u w:val="single"/>`)
	assert.Contains(t, doc, `<w:tab w:val="right" w:pos="10800"/>`)
	assert.Contains(t, files["docProps/core.xml"], "Jane&#39;s resume")
}

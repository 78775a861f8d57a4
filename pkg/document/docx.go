package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"
)

// Letter page with half-inch margins; the right tab stop sits on the right margin.
const (
	pageWidthTwips  = 12240
	pageHeightTwips = 15840
	marginTwips     = 720
	rightTabTwips   = pageWidthTwips - 2*marginTwips
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>
</Types>`

const rootRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>
</Relationships>`

const documentRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
</Relationships>`

const stylesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:docDefaults>
<w:rPrDefault><w:rPr><w:rFonts w:ascii="Times New Roman" w:hAnsi="Times New Roman" w:cs="Times New Roman"/><w:sz w:val="22"/><w:szCs w:val="22"/></w:rPr></w:rPrDefault>
<w:pPrDefault><w:pPr><w:spacing w:after="20" w:line="252" w:lineRule="auto"/></w:pPr></w:pPrDefault>
</w:docDefaults>
<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>
</w:styles>`

// RenderDOCX renders free-form text as a WordprocessingML package.
func RenderDOCX(text string, docType DocType, title string) ([]byte, error) {
	return DOCX(FromText(text, docType), title)
}

// RenderStructuredDOCX renders a structured resume as a WordprocessingML package.
func RenderStructuredDOCX(r Resume, title string) ([]byte, error) {
	return DOCX(FromResume(r), title)
}

// DOCX writes blocks into a minimal .docx archive. Pagination is left to the word processor.
func DOCX(blocks []Block, title string) ([]byte, error) {
	parts := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", rootRelsXML},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/styles.xml", stylesXML},
		{"word/document.xml", documentXML(blocks)},
		{"docProps/core.xml", coreXML(title, time.Now().UTC())},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", p.name, err)
		}
		if _, err := w.Write([]byte(p.body)); err != nil {
			return nil, fmt.Errorf("write %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close docx: %w", err)
	}
	return buf.Bytes(), nil
}

func documentXML(blocks []Block) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)

	for _, blk := range blocks {
		switch blk.Kind {
		case KindBlank:
			b.WriteString(`<w:p/>`)
		case KindName:
			paragraph(&b, `<w:jc w:val="center"/><w:spacing w:after="60"/>`, run(blk.Text, `<w:b/><w:sz w:val="36"/><w:szCs w:val="36"/>`))
		case KindContact:
			paragraph(&b, `<w:jc w:val="center"/><w:spacing w:after="120"/>`, run(strings.Join(blk.Tokens, " | "), `<w:sz w:val="20"/><w:szCs w:val="20"/>`))
		case KindSectionHeader:
			paragraph(&b, `<w:spacing w:before="200" w:after="60"/>`, run(strings.ToUpper(blk.Text), `<w:b/><w:u w:val="single"/><w:sz w:val="23"/><w:szCs w:val="23"/>`))
		case KindCompanyDate:
			tabs := fmt.Sprintf(`<w:tabs><w:tab w:val="right" w:pos="%d"/></w:tabs><w:spacing w:before="80"/>`, rightTabTwips)
			paragraph(&b, tabs, run(blk.Left, `<w:b/>`)+`<w:r><w:tab/></w:r>`+run(blk.Right, `<w:i/>`))
		case KindJobTitle:
			paragraph(&b, "", run(blk.Text, `<w:i/>`))
		case KindBullet:
			for _, item := range blk.Items {
				paragraph(&b, `<w:ind w:left="360" w:hanging="240"/>`, run("• "+item, ""))
			}
		case KindLabelValue:
			paragraph(&b, "", run(blk.Label+": ", `<w:b/>`)+run(blk.Value, ""))
		default:
			paragraph(&b, "", run(blk.Text, ""))
		}
	}

	fmt.Fprintf(&b, `<w:sectPr><w:pgSz w:w="%d" w:h="%d"/><w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="0" w:footer="0" w:gutter="0"/></w:sectPr>`,
		pageWidthTwips, pageHeightTwips, marginTwips, marginTwips, marginTwips, marginTwips)
	b.WriteString(`</w:body></w:document>`)
	return b.String()
}

func paragraph(b *strings.Builder, props, runs string) {
	b.WriteString("<w:p>")
	if props != "" {
		b.WriteString("<w:pPr>" + props + "</w:pPr>")
	}
	b.WriteString(runs)
	b.WriteString("</w:p>")
}

func run(text, props string) string {
	var b strings.Builder
	b.WriteString("<w:r>")
	if props != "" {
		b.WriteString("<w:rPr>" + props + "</w:rPr>")
	}
	b.WriteString(`<w:t xml:space="preserve">`)
	b.WriteString(xmlEscape(text))
	b.WriteString("</w:t></w:r>")
	return b.String()
}

func coreXML(title string, now time.Time) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" +
		`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" ` +
		`xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" ` +
		`xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` +
		`<dc:title>` + xmlEscape(title) + `</dc:title>` +
		`<dc:creator>ResumeAI</dc:creator>` +
		`<dcterms:created xsi:type="dcterms:W3CDTF">` + now.Format(time.RFC3339) + `</dcterms:created>` +
		`</cp:coreProperties>`
}

func xmlEscape(s string) string {
	var b bytes.Buffer
	// EscapeText only fails on writer errors; bytes.Buffer never returns one.
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

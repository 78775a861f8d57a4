package document

import "strings"

const resumeCSS = `@page { size: letter; margin: 0.5in; }
body { font-family: "Times New Roman", Times, serif; font-size: 11pt; color: #000; margin: 0; line-height: 1.25; }
.name { text-align: center; font-size: 20pt; font-weight: bold; margin: 0 0 4px; }
.contact { text-align: center; font-size: 10pt; margin-bottom: 8px; }
.contact .sep { margin: 0 6px; }
.section { font-size: 11.5pt; font-weight: bold; text-decoration: underline; text-transform: uppercase; margin: 10px 0 4px; }
.row { display: flex; justify-content: space-between; margin-top: 4px; }
.company { font-weight: bold; }
.dates { font-style: italic; }
.role { font-style: italic; margin-bottom: 2px; }
ul { margin: 2px 0 4px 18px; padding: 0; }
li { margin: 0 0 1px; }
p { margin: 0 0 2px; }
.gap { height: 6px; }`

// RenderHTML renders free-form resume or cover-letter text as a standalone HTML page.
func RenderHTML(text string, docType DocType, title string) string {
	return HTML(FromText(text, docType), title)
}

// RenderStructuredHTML renders a structured resume with the same vocabulary as RenderHTML.
func RenderStructuredHTML(r Resume, title string) string {
	return HTML(FromResume(r), title)
}

// HTML renders blocks into a print-ready page. Every piece of text passes through
// EscapeHTML exactly once here.
func HTML(blocks []Block, title string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n<title>")
	b.WriteString(EscapeHTML(title))
	b.WriteString("</title>\n<style>\n")
	b.WriteString(resumeCSS)
	b.WriteString("\n</style>\n</head>\n<body>\n")

	for _, blk := range blocks {
		switch blk.Kind {
		case KindBlank:
			b.WriteString("<div class=\"gap\"></div>\n")
		case KindName:
			b.WriteString("<div class=\"name\">" + EscapeHTML(blk.Text) + "</div>\n")
		case KindContact:
			escaped := make([]string, len(blk.Tokens))
			for i, t := range blk.Tokens {
				escaped[i] = EscapeHTML(t)
			}
			b.WriteString("<div class=\"contact\">" + strings.Join(escaped, "<span class=\"sep\">|</span>") + "</div>\n")
		case KindSectionHeader:
			b.WriteString("<div class=\"section\">" + EscapeHTML(blk.Text) + "</div>\n")
		case KindCompanyDate:
			b.WriteString("<div class=\"row\"><span class=\"company\">" + EscapeHTML(blk.Left) +
				"</span><span class=\"dates\">" + EscapeHTML(blk.Right) + "</span></div>\n")
		case KindJobTitle:
			b.WriteString("<div class=\"role\">" + EscapeHTML(blk.Text) + "</div>\n")
		case KindBullet:
			b.WriteString("<ul>\n")
			for _, item := range blk.Items {
				b.WriteString("<li>" + EscapeHTML(item) + "</li>\n")
			}
			b.WriteString("</ul>\n")
		case KindLabelValue:
			b.WriteString("<p><strong>" + EscapeHTML(blk.Label) + ":</strong> " + EscapeHTML(blk.Value) + "</p>\n")
		default:
			b.WriteString("<p>" + EscapeHTML(blk.Text) + "</p>\n")
		}
	}

	b.WriteString("</body>\n</html>\n")
	return b.String()
}

package export

import (
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"videonote/internal/notes"
)

const (
	fontName = "Times New Roman"
	fontSize = 13
)

var (
	reHeading = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reBold    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBullet  = regexp.MustCompile(`^[\-\*]\s+(.+)$`)
	reNumberd = regexp.MustCompile(`^\d+\.\s+(.+)$`)
	reImage   = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)
)

// WriteDocx renders an assembled note list to a styled docx file. Each note
// becomes a timestamped section; screenshots are referenced by path.
func WriteDocx(title string, ns []notes.Note, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addStyledRun(doc.AddParagraph(""), title, true, 16)

	for _, n := range ns {
		doc.AddParagraph("")
		addStyledRun(doc.AddParagraph(""), "["+n.Timestamp+"] "+n.Title, true, 15)
		if n.ImagePath != "" {
			p := doc.AddParagraph("")
			p.AddText("Screenshot: "+n.ImagePath).Font(fontName).Size(fontSize).Color("555555")
		}
		writeMarkdown(doc, n.Content)
	}

	return doc.SaveTo(outputPath)
}

func writeMarkdown(doc *docx.RootDoc, markdown string) {
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || trimmed == "---" {
			continue
		}

		if m := reImage.FindStringSubmatch(trimmed); m != nil && strings.HasPrefix(trimmed, "![") {
			p := doc.AddParagraph("")
			p.AddText("Screenshot: "+m[2]).Font(fontName).Size(fontSize).Color("555555")
			continue
		}

		if m := reHeading.FindStringSubmatch(trimmed); m != nil {
			p := doc.AddParagraph("")
			addStyledRun(p, m[2], true, headingSize(len(m[1])))
			continue
		}

		if m := reBullet.FindStringSubmatch(trimmed); m != nil {
			p := doc.AddParagraph("")
			addRichText(p, "• "+m[1])
			continue
		}

		if reNumberd.MatchString(trimmed) {
			p := doc.AddParagraph("")
			addRichText(p, trimmed)
			continue
		}

		p := doc.AddParagraph("")
		addRichText(p, trimmed)
	}
}

func headingSize(level int) uint64 {
	switch level {
	case 1:
		return 16
	case 2:
		return 15
	case 3:
		return 14
	default:
		return fontSize
	}
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	text = cleanMarkdownInline(text)
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

func addRichText(p *docx.Paragraph, text string) {
	parts := reBold.Split(text, -1)
	matches := reBold.FindAllStringSubmatch(text, -1)

	for i, part := range parts {
		if part != "" {
			clean := cleanMarkdownInline(part)
			p.AddText(clean).Font(fontName).Size(fontSize).Color("000000")
		}
		if i < len(matches) {
			clean := cleanMarkdownInline(matches[i][1])
			p.AddText(clean).Font(fontName).Size(fontSize).Color("000000").Bold(true)
		}
	}
}

func cleanMarkdownInline(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "`", "")
	return s
}

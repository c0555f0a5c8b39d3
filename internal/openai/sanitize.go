package openai

import (
	"regexp"
	"strings"
)

const maxReportLen = 6000

var (
	reMarkdownImg = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`) // ![alt](url)
	reURL         = regexp.MustCompile(`https?://\S+`)
)

// sanitize strips images and links and caps the length of a report.
func sanitize(report string) string {
	text := reMarkdownImg.ReplaceAllString(report, "")
	text = reURL.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)
	if len(text) > maxReportLen {
		text = text[:maxReportLen]
	}
	return text
}

package imagepkg

import "strings"

// Content is the text of one card, already normalized.
type Content struct {
	Title   string
	Bullets []string
	QRText  string
}

// ContentRules drive normalization. Skip lists sentinel bullets that
// upstream integrations send in place of an empty value.
type ContentRules struct {
	MaxBullets int
	Skip       []string
}

// NewContent trims the title and bullets, drops blank and sentinel bullets
// while keeping order, and enforces the bullet limit.
func NewContent(title string, bullets []string, qrText string, rules ContentRules) (Content, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Content{}, InvalidRequestError("title is required")
	}

	kept := make([]string, 0, len(bullets))
	for _, b := range bullets {
		b = strings.TrimSpace(b)
		if b == "" || isSentinel(b, rules.Skip) {
			continue
		}
		kept = append(kept, b)
	}
	if rules.MaxBullets > 0 && len(kept) > rules.MaxBullets {
		return Content{}, InvalidRequestError("at most %d bullets are allowed, got %d", rules.MaxBullets, len(kept))
	}

	return Content{Title: title, Bullets: kept, QRText: strings.TrimSpace(qrText)}, nil
}

func isSentinel(s string, skip []string) bool {
	for _, marker := range skip {
		if strings.EqualFold(s, strings.TrimSpace(marker)) {
			return true
		}
	}
	return false
}

package template

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/upb/review-generator/models"
)

// defaultSpec bounds the length when the platform is unknown
var defaultSpec = models.PlatformSpec{MinChars: 80, MaxChars: 1000}

// Composer builds review text from vocabulary tables without any I/O.
// Output depends only on the request content, so equal fingerprints give equal text.
type Composer struct{}

// NewComposer creates a Composer
func NewComposer() *Composer {
	return &Composer{}
}

// Compose always returns a review that mentions the hotel, every highlight and the
// staff member, sized to the platform's character limits.
func (c *Composer) Compose(req *models.ReviewRequest) string {
	vocab := vocabularyFor(req.Language)
	spec, ok := models.GetPlatformSpec(req.Platform)
	if !ok {
		spec = defaultSpec
	}
	seed := seedFrom(req.Fingerprint())

	hotel := strings.TrimSpace(req.HotelName)
	staff := strings.TrimSpace(req.StaffName)
	highlights := req.NormalizedHighlights()

	parts := []string{fmt.Sprintf(pick(vocab.openings[bandFor(req.Rating)], seed, 0), hotel)}
	for i, h := range highlights {
		parts = append(parts, highlightPhrase(vocab, h, seed, i+1))
	}
	if staff != "" {
		parts = append(parts, fmt.Sprintf(pick(vocab.staff, seed, len(highlights)+1), staff))
	}

	if runeLen(parts) > spec.MaxChars {
		parts = []string{compactSummary(vocab, hotel, highlights, staff)}
	}

	if comment := strings.Join(strings.Fields(req.Comment), " "); comment != "" {
		parts = appendIfFits(parts, fmt.Sprintf(vocab.comment, comment), spec.MaxChars)
	}
	if req.Rating >= models.MinRating && req.Rating <= models.MaxRating {
		parts = appendIfFits(parts, fmt.Sprintf(vocab.rating, req.Rating), spec.MaxChars)
	}

	// Pad with closing sentences until the platform minimum is reached
	start := int(seed % uint64(len(vocab.closings)))
	for i := 0; runeLen(parts) < spec.MinChars && i < 4*len(vocab.closings); i++ {
		closing := vocab.closings[(start+i)%len(vocab.closings)]
		next := appendIfFits(parts, closing, spec.MaxChars)
		if len(next) == len(parts) {
			break
		}
		parts = next
	}

	return truncate(strings.Join(parts, " "), spec.MaxChars)
}

func highlightPhrase(vocab *vocabulary, h models.Highlight, seed uint64, salt int) string {
	if phrases := vocab.highlights[h]; len(phrases) > 0 {
		return pick(phrases, seed, salt)
	}
	if phrases := english.highlights[h]; len(phrases) > 0 {
		return pick(phrases, seed, salt)
	}
	return fmt.Sprintf("I appreciated the %s.", h)
}

func keyword(vocab *vocabulary, h models.Highlight) string {
	if k, ok := vocab.keywords[h]; ok {
		return k
	}
	return string(h)
}

// compactSummary fits every required mention into one short sentence
func compactSummary(vocab *vocabulary, hotel string, highlights []models.Highlight, staff string) string {
	words := make([]string, len(highlights))
	for i, h := range highlights {
		words[i] = keyword(vocab, h)
	}

	var sb strings.Builder
	sb.WriteString(hotel)
	if len(words) > 0 {
		sb.WriteString(": ")
		sb.WriteString(strings.Join(words, ", "))
	}
	sb.WriteString(".")
	if staff != "" {
		sb.WriteString(" ")
		sb.WriteString(staff)
		sb.WriteString(".")
	}
	return sb.String()
}

func appendIfFits(parts []string, sentence string, maxChars int) []string {
	if runeLen(parts)+1+utf8.RuneCountInString(sentence) > maxChars {
		return parts
	}
	return append(parts, sentence)
}

// runeLen is the length of parts joined by single spaces
func runeLen(parts []string) int {
	if len(parts) == 0 {
		return 0
	}
	n := len(parts) - 1
	for _, p := range parts {
		n += utf8.RuneCountInString(p)
	}
	return n
}

// truncate cuts text to maxChars runes, preferring the last sentence end
func truncate(text string, maxChars int) string {
	if utf8.RuneCountInString(text) <= maxChars {
		return text
	}
	runes := []rune(text)[:maxChars]
	cut := string(runes)
	if i := strings.LastIndexAny(cut, ".!?"); i > 0 {
		return cut[:i+1]
	}
	return strings.TrimSpace(cut)
}

func pick(options []string, seed uint64, salt int) string {
	if len(options) == 0 {
		return "%s"
	}
	return options[(seed+uint64(salt))%uint64(len(options))]
}

func seedFrom(fingerprint string) uint64 {
	b, err := hex.DecodeString(fingerprint)
	if err != nil || len(b) < 8 {
		return 0
	}
	return binary.BigEndian.Uint64(b[:8])
}

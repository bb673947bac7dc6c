package prompt

import (
	"regexp"
	"sort"
	"strings"
)

// PIIType represents different types of PII that can be detected
type PIIType string

const (
	PIITypeEmail      PIIType = "email"
	PIITypePhone      PIIType = "phone"
	PIITypeCreditCard PIIType = "credit_card"
	PIITypeIPAddress  PIIType = "ip_address"
)

// PIIDetection represents a detected PII instance
type PIIDetection struct {
	Type     PIIType
	Value    string
	StartPos int
	EndPos   int
}

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`)

	// At least nine digits, optionally grouped, optionally with a country code
	phonePattern = regexp.MustCompile(`(?:\+\d{1,3}[\s.\-]?)?(?:\(\d{2,4}\)[\s.\-]?)?\d{2,4}(?:[\s.\-]?\d{2,4}){2,4}\b`)

	cardPattern = regexp.MustCompile(`\b(?:\d[ \-]?){12,18}\d\b`)

	ipv4Pattern = regexp.MustCompile(`\b(?:(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\b`)
)

// DetectPII returns true if text likely contains PII
func DetectPII(text string) bool {
	return len(DetectAllPII(text)) > 0
}

// DetectAllPII returns all PII detections in text, ordered by position.
// Card numbers must pass the Luhn check and win over an overlapping phone match.
func DetectAllPII(text string) []PIIDetection {
	var detections []PIIDetection
	add := func(kind PIIType, match []int) {
		detections = append(detections, PIIDetection{
			Type:     kind,
			Value:    text[match[0]:match[1]],
			StartPos: match[0],
			EndPos:   match[1],
		})
	}

	for _, m := range emailPattern.FindAllStringIndex(text, -1) {
		add(PIITypeEmail, m)
	}
	for _, m := range ipv4Pattern.FindAllStringIndex(text, -1) {
		add(PIITypeIPAddress, m)
	}

	var cards [][]int
	for _, m := range cardPattern.FindAllStringIndex(text, -1) {
		if luhnCheck(text[m[0]:m[1]]) {
			cards = append(cards, m)
			add(PIITypeCreditCard, m)
		}
	}

	for _, m := range phonePattern.FindAllStringIndex(text, -1) {
		if countDigits(text[m[0]:m[1]]) < 9 || overlapsAny(m, cards) || overlapsDetections(m, detections) {
			continue
		}
		add(PIITypePhone, m)
	}

	sort.Slice(detections, func(i, j int) bool {
		return detections[i].StartPos < detections[j].StartPos
	})
	return detections
}

// RedactPII replaces all detected PII with a typed placeholder
func RedactPII(text string) string {
	detections := DetectAllPII(text)
	spans := make([]span, 0, len(detections))
	for _, d := range detections {
		spans = append(spans, span{start: d.StartPos, end: d.EndPos, replacement: redactionString(d.Type)})
	}
	out, _ := replaceSpans(text, spans)
	return out
}

func redactionString(piiType PIIType) string {
	switch piiType {
	case PIITypeEmail:
		return "[EMAIL_REDACTED]"
	case PIITypePhone:
		return "[PHONE_REDACTED]"
	case PIITypeCreditCard:
		return "[CC_REDACTED]"
	case PIITypeIPAddress:
		return "[IP_REDACTED]"
	default:
		return "[REDACTED]"
	}
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

func overlapsAny(m []int, others [][]int) bool {
	for _, o := range others {
		if m[0] < o[1] && o[0] < m[1] {
			return true
		}
	}
	return false
}

func overlapsDetections(m []int, detections []PIIDetection) bool {
	for _, d := range detections {
		if m[0] < d.EndPos && d.StartPos < m[1] {
			return true
		}
	}
	return false
}

// luhnCheck validates a credit card number using the Luhn algorithm
func luhnCheck(cardNumber string) bool {
	cardNumber = strings.ReplaceAll(cardNumber, " ", "")
	cardNumber = strings.ReplaceAll(cardNumber, "-", "")

	if len(cardNumber) < 13 || len(cardNumber) > 19 {
		return false
	}

	sum := 0
	isSecond := false
	for i := len(cardNumber) - 1; i >= 0; i-- {
		digit := int(cardNumber[i] - '0')
		if isSecond {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		isSecond = !isSecond
	}

	return sum%10 == 0
}

type span struct {
	start, end  int
	replacement string
}

// replaceSpans applies non-overlapping replacements left to right.
// A span starting inside an earlier one is merged into it.
func replaceSpans(text string, spans []span) (string, int) {
	if len(spans) == 0 {
		return text, 0
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	var b strings.Builder
	b.Grow(len(text))
	pos, applied := 0, 0
	for _, s := range spans {
		if s.start < pos {
			if s.end > pos {
				pos = s.end
			}
			continue
		}
		b.WriteString(text[pos:s.start])
		b.WriteString(s.replacement)
		pos = s.end
		applied++
	}
	b.WriteString(text[pos:])
	return b.String(), applied
}

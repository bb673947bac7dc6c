package prompt

import (
	"regexp"
	"sort"
)

// InjectionType represents different types of prompt injection attempts
type InjectionType string

const (
	InjectionTypeSystemPromptLeak    InjectionType = "system_prompt_leak"
	InjectionTypeRoleManipulation    InjectionType = "role_manipulation"
	InjectionTypeInstructionOverride InjectionType = "instruction_override"
	InjectionTypeJailbreak           InjectionType = "jailbreak"
	InjectionTypeDelimiterAttack     InjectionType = "delimiter_attack"
)

// neutralizeThreshold is the confidence at which a match is cut out of guest text
const neutralizeThreshold = 0.8

// InjectionDetection represents a detected injection attempt
type InjectionDetection struct {
	Type       InjectionType
	Confidence float64
	StartPos   int
	EndPos     int
}

type injectionRule struct {
	kind       InjectionType
	confidence float64
	patterns   []*regexp.Regexp
}

var injectionRules = []injectionRule{
	{
		kind:       InjectionTypeSystemPromptLeak,
		confidence: 0.9,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)ignore\s+(all\s+)?(previous|all|above|prior)\s+(instructions?|prompts?|commands?)`),
			regexp.MustCompile(`(?i)(show|reveal|print|repeat)\s+(me\s+)?(your|the)\s+(system|original|hidden|initial)\s+(prompt|instructions?)`),
		},
	},
	{
		kind:       InjectionTypeRoleManipulation,
		confidence: 0.85,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)assume\s+(the\s+)?(role|identity)\s+of`),
			regexp.MustCompile(`(?i)pretend\s+(to\s+)?be\s+(a|an)\b`),
			regexp.MustCompile(`(?i)from\s+now\s+on[,]?\s+(you|your)\s+(are|will)`),
			regexp.MustCompile(`(?i)new\s+(instructions?|role|personality)`),
		},
	},
	{
		kind:       InjectionTypeInstructionOverride,
		confidence: 0.9,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)disregard\s+(all|previous|above|any)\s+(instructions?|rules|commands?)`),
			regexp.MustCompile(`(?i)override\s+(all|previous|system)\s+(instructions?|rules|settings?)`),
			regexp.MustCompile(`(?i)forget\s+(everything|all\s+previous|your\s+instructions)`),
			regexp.MustCompile(`(?i)write\s+a\s+(negative|bad|one[- ]star)\s+review`),
		},
	},
	{
		kind:       InjectionTypeJailbreak,
		confidence: 0.95,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bDAN\s+mode`),
			regexp.MustCompile(`(?i)developer\s+mode`),
			regexp.MustCompile(`(?i)jailbreak`),
			regexp.MustCompile(`(?i)without\s+(any|ethical|moral)\s+(restrictions?|limitations?|guidelines?)`),
		},
	},
	{
		kind:       InjectionTypeDelimiterAttack,
		confidence: 0.8,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(\[/?SYSTEM\]|\[/?USER\]|\[/?ASSISTANT\])`),
			regexp.MustCompile(`(<\|system\|>|<\|user\|>|<\|assistant\|>|<\|end\|>)`),
			regexp.MustCompile(`(?i)###\s*(SYSTEM|USER|ASSISTANT|INSTRUCTION)`),
			regexp.MustCompile("```"),
		},
	},
}

// DetectInjections returns every injection pattern found in text, ordered by position
func DetectInjections(text string) []InjectionDetection {
	var detections []InjectionDetection
	for _, rule := range injectionRules {
		for _, pattern := range rule.patterns {
			for _, match := range pattern.FindAllStringIndex(text, -1) {
				detections = append(detections, InjectionDetection{
					Type:       rule.kind,
					Confidence: rule.confidence,
					StartPos:   match[0],
					EndPos:     match[1],
				})
			}
		}
	}
	sort.Slice(detections, func(i, j int) bool {
		return detections[i].StartPos < detections[j].StartPos
	})
	return detections
}

// IsInjectionAttempt returns true if a high-confidence injection is detected
func IsInjectionAttempt(text string) bool {
	for _, d := range DetectInjections(text) {
		if d.Confidence >= neutralizeThreshold {
			return true
		}
	}
	return false
}

// NeutralizeInjections cuts high-confidence injection phrases out of text.
// It returns the cleaned text and the number of spans removed.
func NeutralizeInjections(text string) (string, int) {
	var spans []span
	for _, d := range DetectInjections(text) {
		if d.Confidence >= neutralizeThreshold {
			spans = append(spans, span{start: d.StartPos, end: d.EndPos, replacement: "[removed]"})
		}
	}
	return replaceSpans(text, spans)
}

// InjectionRiskScore is the weighted mean confidence of all detections, 0 when clean
func InjectionRiskScore(text string) float64 {
	detections := DetectInjections(text)
	if len(detections) == 0 {
		return 0
	}

	var total, weights float64
	for _, d := range detections {
		weight := 1.0
		switch d.Type {
		case InjectionTypeJailbreak:
			weight = 2.0
		case InjectionTypeInstructionOverride, InjectionTypeSystemPromptLeak:
			weight = 1.5
		}
		total += d.Confidence * weight
		weights += weight
	}

	score := total / weights
	if score > 1.0 {
		score = 1.0
	}
	return score
}

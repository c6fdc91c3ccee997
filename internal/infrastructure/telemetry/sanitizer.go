package telemetry

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// PIILevel controls how much of a search query reaches logs and spans.
type PIILevel string

const (
	// PIILevelNone replaces the whole query
	PIILevelNone PIILevel = "none"
	// PIILevelHashed keeps the query but hashes the personal data found in it
	PIILevelHashed PIILevel = "hashed"
	// PIILevelFull keeps the query as typed
	PIILevelFull PIILevel = "full"
)

// ParsePIILevel maps a config value to a level. Unknown values mean hashed.
func ParsePIILevel(raw string) PIILevel {
	switch PIILevel(strings.ToLower(strings.TrimSpace(raw))) {
	case PIILevelNone:
		return PIILevelNone
	case PIILevelFull:
		return PIILevelFull
	default:
		return PIILevelHashed
	}
}

type piiRule struct {
	pattern *regexp.Regexp
	label   string
	hashed  bool
}

// Order matters: SSNs and card numbers are matched before the looser phone pattern.
var piiRules = []piiRule{
	{regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`), "EMAIL", true},
	{regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`), "SSN", false},
	{regexp.MustCompile(`\b\d{4}[- ]?\d{4}[- ]?\d{4}[- ]?\d{4}\b`), "CC", false},
	{regexp.MustCompile(`\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`), "PHONE", true},
	{regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`), "IP", true},
	{regexp.MustCompile(`\b(?:[A-Fa-f0-9]{1,4}:){7}[A-Fa-f0-9]{1,4}\b`), "IP", true},
}

// QuerySanitizer scrubs search queries before they are logged or traced.
type QuerySanitizer struct {
	level PIILevel
	salt  string
}

// NewQuerySanitizer creates a sanitizer; salt keeps hashes stable per deployment.
func NewQuerySanitizer(level PIILevel, salt string) *QuerySanitizer {
	return &QuerySanitizer{level: level, salt: salt}
}

// Level returns the configured level.
func (s *QuerySanitizer) Level() PIILevel {
	return s.level
}

// Redact returns the loggable form of query.
func (s *QuerySanitizer) Redact(query string) string {
	switch s.level {
	case PIILevelFull:
		return query
	case PIILevelNone:
		return "[REDACTED]"
	default:
		return s.hashPII(query)
	}
}

func (s *QuerySanitizer) hashPII(input string) string {
	for _, rule := range piiRules {
		input = rule.pattern.ReplaceAllStringFunc(input, func(match string) string {
			if !rule.hashed {
				return "[" + rule.label + ":REDACTED]"
			}
			return "[" + rule.label + ":" + s.hash(match) + "]"
		})
	}
	return input
}

// hash returns the first 8 hex chars of a salted SHA-256.
func (s *QuerySanitizer) hash(data string) string {
	sum := sha256.Sum256([]byte(data + s.salt))
	return hex.EncodeToString(sum[:])[:8]
}

package search

import (
	"regexp"
	"strings"
)

var (
	packagePattern    = regexp.MustCompile(`package:\s*([^\n]+)`)
	maintainerPattern = regexp.MustCompile(`maintainer:\s*([^\n]+)`)
	versionPattern    = regexp.MustCompile(`version:\s*([^\n]+)`)

	seedsPattern   = regexp.MustCompile(`Seeds:\s*(\d+)`)
	leechesPattern = regexp.MustCompile(`Leeches:\s*(\d+)`)
	sizePattern    = regexp.MustCompile(`Size:\s*([^\n]+)`)

	hashtagPattern = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)
)

const (
	magnetMarker    = "magnet:"
	publishedMarker = "Published:"
)

// Label prefixes the aggregator puts in front of video metadata, per locale.
var (
	lengthLabels = []string{"Length:", "长度:", "Duration:"}
	authorLabels = []string{"Author:", "作者:"}
)

// firstGroup returns the trimmed first capture of re in s, or "".
func firstGroup(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// hashtags returns every #word token in s in order, repeats included.
func hashtags(s string) []string {
	var tags []string
	for _, m := range hashtagPattern.FindAllStringSubmatch(s, -1) {
		tags = append(tags, m[1])
	}
	return tags
}

func stripLabel(s string, labels []string) string {
	s = strings.TrimSpace(s)
	for _, label := range labels {
		if rest, ok := strings.CutPrefix(s, label); ok {
			return strings.TrimSpace(rest)
		}
	}
	return s
}

// afterMarker returns the text following marker in s, or "" when absent.
func afterMarker(s, marker string) string {
	_, rest, ok := strings.Cut(s, marker)
	if !ok {
		return ""
	}
	return strings.TrimSpace(rest)
}

// fileInfo builds the torrent metadata map from free text.
func fileInfo(text string) *Extras {
	info := NewExtras()
	if v := firstGroup(seedsPattern, text); v != "" {
		info.Set("seeds", v)
	}
	if v := firstGroup(leechesPattern, text); v != "" {
		info.Set("leeches", v)
	}
	if v := firstGroup(sizePattern, text); v != "" {
		info.Set("size", v)
	}
	if strings.Contains(text, magnetMarker) {
		info.Set("has_magnet", true)
	}
	return info
}

// itAttributes builds the package metadata map from "key: value" lines.
func itAttributes(text string) *Extras {
	attrs := NewExtras()
	for _, p := range []struct {
		key string
		re  *regexp.Regexp
	}{
		{"package", packagePattern},
		{"maintainer", maintainerPattern},
		{"version", versionPattern},
	} {
		if v := firstGroup(p.re, text); v != "" {
			attrs.Set(p.key, v)
		}
	}
	return attrs
}

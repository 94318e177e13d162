// Package normalize post-processes raw backend text into the shape the
// conversation contract requires: no stage directions, at most three
// sentences, always ending with a question mark.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

const maxSentences = 3

// FallbackReply replaces input that is unusable even after cleanup.
const FallbackReply = "The archive stirs, but finds no words. What would you like to know about the surface world?"

// followUp is appended when the retained text does not already end with a
// question. It is topic-neutral on purpose; rewriting the backend's own
// content to manufacture a contextual question is not this layer's job.
const followUp = "What else would you like to know about the surface world?"

var (
	stageDirRe   = regexp.MustCompile(`\*[^*]*\*|\[[^\]]*\]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	artifacts    = strings.NewReplacer("*", "", "...", " ", "…", " ")
)

// Normalize cleans raw backend output. It is pure, idempotent, and never
// returns an empty string; the result always ends with "?".
func Normalize(raw string) string {
	s := stageDirRe.ReplaceAllString(raw, " ")
	s = artifacts.Replace(s)
	s = strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))

	sentences := splitSentences(s)
	if len(sentences) > maxSentences {
		sentences = sentences[:maxSentences]
	}
	s = strings.Join(sentences, " ")

	// Checked after the cap: input whose only real words lie past the cut
	// would otherwise survive as punctuation-only text.
	if !usable(s) {
		return FallbackReply
	}

	if !strings.HasSuffix(s, "?") {
		if !strings.HasSuffix(s, ".") && !strings.HasSuffix(s, "!") {
			s += "."
		}
		s += " " + followUp
	}

	return s
}

func usable(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// splitSentences breaks text on terminal punctuation followed by whitespace.
// Abbreviations split too eagerly, same as the formatting rules upstream
// models are prompted with; the sentence cap tolerates that.
func splitSentences(s string) []string {
	var out []string
	runes := []rune(s)
	start := 0

	for i := 0; i < len(runes); i++ {
		if !isTerminal(runes[i]) {
			continue
		}
		j := i
		for j+1 < len(runes) && isCloser(runes[j+1]) {
			j++
		}
		if j+1 >= len(runes) || unicode.IsSpace(runes[j+1]) {
			if sent := strings.TrimSpace(string(runes[start : j+1])); sent != "" {
				out = append(out, sent)
			}
			start = j + 1
		}
		i = j
	}

	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		out = append(out, tail)
	}
	return out
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isCloser(r rune) bool {
	return isTerminal(r) || r == '"' || r == '\'' || r == ')'
}

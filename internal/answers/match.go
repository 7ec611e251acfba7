package answers

import (
	"strings"

	"github.com/antzucaro/matchr"
)

const (
	// defaultPhoneticThreshold is the minimum Jaro-Winkler score required for
	// a phonetically-matched option to be accepted.
	defaultPhoneticThreshold = 0.70

	// defaultFuzzyThreshold is the minimum Jaro-Winkler score required when
	// no phonetic candidate exists and the matcher falls back to pure string
	// similarity.
	defaultFuzzyThreshold = 0.85
)

// OptionMatcher snaps a spoken answer onto one entry of an enumerated option
// set (countries, study levels, work types). Recognition rarely returns the
// canonical casing or spelling — "canada", "Cana da", "kanada" — so matching
// proceeds in two stages: Double Metaphone codes select phonetic candidates,
// then Jaro-Winkler similarity ranks them.
//
// An OptionMatcher is read-only after construction and safe for concurrent
// use.
type OptionMatcher struct {
	phoneticThreshold float64
	fuzzyThreshold    float64
}

// MatcherOption is a functional option for configuring an [OptionMatcher].
type MatcherOption func(*OptionMatcher)

// WithPhoneticThreshold overrides the phonetic acceptance threshold
// (default 0.70).
func WithPhoneticThreshold(t float64) MatcherOption {
	return func(m *OptionMatcher) { m.phoneticThreshold = t }
}

// WithFuzzyThreshold overrides the fuzzy-fallback acceptance threshold
// (default 0.85).
func WithFuzzyThreshold(t float64) MatcherOption {
	return func(m *OptionMatcher) { m.fuzzyThreshold = t }
}

// NewOptionMatcher returns an OptionMatcher with the supplied options
// applied over the defaults.
func NewOptionMatcher(opts ...MatcherOption) *OptionMatcher {
	m := &OptionMatcher{
		phoneticThreshold: defaultPhoneticThreshold,
		fuzzyThreshold:    defaultFuzzyThreshold,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Match returns the option most similar to text, or text unchanged when no
// option clears the thresholds. An exact case-insensitive match always wins.
func (m *OptionMatcher) Match(text string, options []string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" || len(options) == 0 {
		return text, false
	}

	for _, opt := range options {
		if strings.EqualFold(s, opt) {
			return opt, true
		}
	}

	inputCodes := metaphoneCodes(strings.Fields(s))

	var (
		best         string
		bestScore    float64
		bestPhonetic bool
	)
	for _, opt := range options {
		optLower := strings.ToLower(strings.TrimSpace(opt))
		if optLower == "" {
			continue
		}
		optTokens := strings.Fields(optLower)
		phonetic := codesOverlap(inputCodes, metaphoneCodes(optTokens))
		score := similarity(s, optLower, optTokens)

		if phonetic {
			if score >= m.phoneticThreshold && (!bestPhonetic || score > bestScore) {
				best, bestScore, bestPhonetic = opt, score, true
			}
		} else if !bestPhonetic && score >= m.fuzzyThreshold && score > bestScore {
			best, bestScore = opt, score
		}
	}

	if best != "" {
		return best, true
	}
	return text, false
}

// metaphoneCodes returns the union of Double Metaphone codes for the tokens,
// excluding empty codes.
func metaphoneCodes(tokens []string) map[string]struct{} {
	codes := make(map[string]struct{}, len(tokens)*2)
	for _, t := range tokens {
		p, s := matchr.DoubleMetaphone(t)
		if p != "" {
			codes[p] = struct{}{}
		}
		if s != "" {
			codes[s] = struct{}{}
		}
	}
	return codes
}

func codesOverlap(a, b map[string]struct{}) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for code := range a {
		if _, ok := b[code]; ok {
			return true
		}
	}
	return false
}

// similarity is the best Jaro-Winkler score between the input and the option,
// comparing the full strings, the space-stripped strings, and each pairwise
// token combination. The last strategy handles one spoken word landing on one
// word of a multi-word option.
func similarity(input, option string, optionTokens []string) float64 {
	score := matchr.JaroWinkler(input, option, false)

	inputTokens := strings.Fields(input)
	if len(inputTokens) > 1 || len(optionTokens) > 1 {
		if s := matchr.JaroWinkler(strings.Join(inputTokens, ""), strings.Join(optionTokens, ""), false); s > score {
			score = s
		}
	}

	for _, it := range inputTokens {
		for _, ot := range optionTokens {
			if s := matchr.JaroWinkler(it, ot, false); s > score {
				score = s
			}
		}
	}
	return score
}

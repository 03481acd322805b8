package classifier

import "strings"

// rule pairs a label with the phrases that select it. Matching is plain
// substring containment on the lowercased message.
type rule struct {
	label   Category
	phrases []string
}

func (r rule) matches(text string) bool {
	for _, phrase := range r.phrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}

// negationCues mark a user correction: the remainder of the message is
// what should be classified, not the whole sentence.
var negationCues = []string{
	"not ", "no,", "no ", "actually", "i meant", "i mean", "it's not", "its not",
}

// Classifier maps free text to one catalog label. It is stateless and safe
// for concurrent use.
type Classifier struct{}

// New returns a keyword classifier over the fixed category catalog.
func New() *Classifier {
	return &Classifier{}
}

// Classify returns exactly one label for the message. Evaluation order:
// deny-list, exact-phrase overrides, ordered keyword rules, then the
// general fallback. First match wins at every level.
func (c *Classifier) Classify(message string) Category {
	text := normalize(message)
	if text == "" {
		return CategoryGeneral
	}

	if rest, ok := splitCorrection(text); ok && rest != "" {
		// The clause right after the cue is the negated reading; when a
		// second clause follows, that is what the user actually means.
		if idx := strings.IndexAny(rest, ",;"); idx >= 0 {
			if tail := strings.TrimSpace(rest[idx+1:]); tail != "" {
				rest = tail
			}
		}
		text = rest
	}

	for _, phrase := range denyPhrases {
		if strings.Contains(text, phrase) {
			return CategoryProhibited
		}
	}

	for _, override := range exactOverrides {
		if override.matches(text) {
			return override.label
		}
	}

	for _, r := range keywordRules {
		if r.matches(text) {
			return r.label
		}
	}

	return CategoryGeneral
}

// IsCorrection reports whether the message opens with a negation cue,
// signalling the user is overriding an earlier classification.
func IsCorrection(message string) bool {
	_, ok := splitCorrection(normalize(message))
	return ok
}

func splitCorrection(text string) (rest string, ok bool) {
	for _, cue := range negationCues {
		if strings.HasPrefix(text, cue) {
			return strings.TrimSpace(strings.TrimPrefix(text, cue)), true
		}
	}
	return "", false
}

func normalize(message string) string {
	return strings.ToLower(strings.TrimSpace(message))
}

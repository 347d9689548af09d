package policy

import (
	"regexp"
	"strings"

	"modgate/internal/models"
)

// Pattern is a single category detector in the precheck library.
// Patterns marked raw run against the original text to preserve digit and
// punctuation structure; all others run against a lowercased copy.
type Pattern struct {
	Tag         models.PolicyTag
	Verdict     models.VerdictLevel
	Rationale   string
	Suggestion  string // empty means no rephrasing is meaningful
	Description string
	raw         bool
	match       func(text string) bool
}

// Fixed suggestions for the soft_block tiers.
const (
	selfHarmSuggestion = "It sounds like you might be going through a hard time. " +
		"You are not alone - please talk to a trusted adult, or reach a support " +
		"line like 988 (call or text)."
	bullyingSuggestion = "Try saying how you feel without insulting the other " +
		"person, for example: \"I'm really frustrated with you right now.\""
	profanitySuggestion = "Try rephrasing your message without the strong language."
)

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phoneRe = regexp.MustCompile(`(\+?\d{1,3}[\s.\-]?)?\(?\d{3}\)?[\s.\-]?\d{3}[\s.\-]?\d{4}`)
	// Postal-address-like: house number followed by a street name and suffix.
	addressRe = regexp.MustCompile(`(?i)\b\d{1,5}\s+[A-Za-z][A-Za-z.\- ]*\s(?:street|st|avenue|ave|road|rd|lane|ln|drive|dr|boulevard|blvd|court|ct|way|place|pl)\b`)
)

// wordRe builds a case-insensitive whole-word matcher over a term list.
// Multi-word phrases are allowed; terms are regexp-quoted.
func wordRe(terms ...string) *regexp.Regexp {
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

var (
	sexualRe = wordRe(
		"porn", "nudes", "naked pics", "sexting", "nsfw",
		"send pics", "explicit photo", "explicit photos",
	)
	violenceRe = wordRe(
		"kill you", "kill him", "kill her", "kill them", "beat you up",
		"shoot up", "stab", "murder", "bring a gun", "hurt you badly",
	)
	hateRe = wordRe(
		"white power", "ethnic cleansing", "subhuman", "lynch",
		"heil hitler", "gas the", "race traitor", "go back to your country",
	)
	illegalRe = wordRe(
		"buy drugs", "sell drugs", "sell you drugs", "shoplift",
		"how to steal", "fake id", "counterfeit", "pirated", "hack into",
	)
	selfHarmRe = wordRe(
		"kill myself", "suicide", "self harm", "self-harm", "cut myself",
		"end my life", "want to die", "hurt myself",
	)
	bullyingRe = wordRe(
		"idiot", "loser", "stupid", "dumb", "moron", "pathetic", "ugly",
		"nobody likes you", "shut up", "worthless",
	)
	profanityRe = wordRe(
		"fuck", "fucking", "shit", "bitch", "asshole", "bastard", "damn", "crap",
	)
)

// library is the fixed, hand-ordered precheck sequence. Order is the conflict
// resolution: the first matching pattern wins and later ones are never
// consulted. Severe categories that always resolve to an outright block come
// before the soft tiers, so mixed content resolves to the harsher decision.
var library = []Pattern{
	{
		Tag:         models.TagPII,
		Verdict:     models.VerdictBlock,
		Rationale:   "PII detected.",
		Description: "email addresses, phone-number-like digit groups, postal-address-like text",
		raw:         true,
		match: func(text string) bool {
			return emailRe.MatchString(text) || phoneRe.MatchString(text) || addressRe.MatchString(text)
		},
	},
	{
		Tag:         models.TagSexual,
		Verdict:     models.VerdictBlock,
		Rationale:   "Sexual content detected.",
		Description: "sexual or explicit-content solicitation terms",
		match:       sexualRe.MatchString,
	},
	{
		Tag:         models.TagViolence,
		Verdict:     models.VerdictBlock,
		Rationale:   "Violent content detected.",
		Description: "threats and violent phrases",
		match:       violenceRe.MatchString,
	},
	{
		Tag:         models.TagHate,
		Verdict:     models.VerdictBlock,
		Rationale:   "Hateful content detected.",
		Description: "hate and extremism phrases",
		match:       hateRe.MatchString,
	},
	{
		Tag:         models.TagIllegal,
		Verdict:     models.VerdictBlock,
		Rationale:   "Illegal-activity content detected.",
		Description: "drug dealing, theft, fraud, piracy phrases",
		match:       illegalRe.MatchString,
	},
	{
		Tag:         models.TagSelfHarm,
		Verdict:     models.VerdictSoftBlock,
		Rationale:   "Possible self-harm content detected.",
		Suggestion:  selfHarmSuggestion,
		Description: "self-harm and suicidal-ideation phrases",
		match:       selfHarmRe.MatchString,
	},
	{
		Tag:         models.TagBullying,
		Verdict:     models.VerdictSoftBlock,
		Rationale:   "Insulting or bullying language detected.",
		Suggestion:  bullyingSuggestion,
		Description: "insults and put-downs",
		match:       bullyingRe.MatchString,
	},
	{
		Tag:         models.TagProfanity,
		Verdict:     models.VerdictSoftBlock,
		Rationale:   "Profanity detected.",
		Suggestion:  profanitySuggestion,
		Description: "common profanity",
		match:       profanityRe.MatchString,
	},
}

// Library returns the precheck patterns in evaluation order. The returned
// slice is a copy; the library itself is immutable after init and safe for
// concurrent use.
func Library() []Pattern {
	out := make([]Pattern, len(library))
	copy(out, library)
	return out
}

package policy

import (
	"strings"

	"modgate/internal/models"
)

// Precheck runs the pattern library against an item in fixed priority order
// and returns a complete verdict on the first match, or nil when no pattern
// fires and the item should defer to the generative stage.
//
// Precheck is a pure function of its input and is safe to call from any
// number of goroutines.
func Precheck(item models.Item) *models.Verdict {
	lowered := strings.ToLower(item.Text)
	for i := range library {
		p := &library[i]
		text := lowered
		if p.raw {
			text = item.Text
		}
		if !p.match(text) {
			continue
		}
		v := &models.Verdict{
			Verdict:    p.Verdict,
			PolicyTags: []models.PolicyTag{p.Tag},
			Rationale:  p.Rationale,
		}
		if p.Suggestion != "" {
			s := p.Suggestion
			v.SafeSuggestion = &s
		}
		return v
	}
	return nil
}

package judge

import (
	"fmt"
	"unicode/utf8"

	"modgate/internal/models"
)

var requiredFields = []string{"verdict", "policy_tags", "rationale", "safe_suggestion"}

// ValidateVerdict checks a parsed JSON value against the verdict contract:
// exactly the four required fields, enum-constrained verdict and tags, tag
// uniqueness, and the rationale/suggestion length caps. On failure it
// returns a *models.SchemaViolationError listing every violation found; no
// partial repair is attempted.
func ValidateVerdict(value any) (*models.Verdict, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, &models.SchemaViolationError{
			Object:     value,
			Violations: []string{"top-level value must be a JSON object"},
		}
	}

	var violations []string
	for key := range obj {
		known := false
		for _, f := range requiredFields {
			if key == f {
				known = true
				break
			}
		}
		if !known {
			violations = append(violations, fmt.Sprintf("unexpected field %q", key))
		}
	}
	for _, f := range requiredFields {
		if _, present := obj[f]; !present {
			violations = append(violations, fmt.Sprintf("missing required field %q", f))
		}
	}

	out := &models.Verdict{}

	if raw, present := obj["verdict"]; present {
		if s, ok := raw.(string); !ok {
			violations = append(violations, "verdict must be a string")
		} else if lvl := models.VerdictLevel(s); !lvl.Valid() {
			violations = append(violations, fmt.Sprintf("verdict %q is not one of allow, soft_block, block", s))
		} else {
			out.Verdict = lvl
		}
	}

	if raw, present := obj["policy_tags"]; present {
		if list, ok := raw.([]any); !ok {
			violations = append(violations, "policy_tags must be an array")
		} else {
			seen := make(map[models.PolicyTag]bool, len(list))
			tags := make([]models.PolicyTag, 0, len(list))
			for i, entry := range list {
				s, ok := entry.(string)
				if !ok {
					violations = append(violations, fmt.Sprintf("policy_tags[%d] must be a string", i))
					continue
				}
				tag := models.PolicyTag(s)
				if !tag.Valid() {
					violations = append(violations, fmt.Sprintf("policy_tags[%d]: unknown tag %q", i, s))
					continue
				}
				if seen[tag] {
					violations = append(violations, fmt.Sprintf("policy_tags: duplicate tag %q", s))
					continue
				}
				seen[tag] = true
				tags = append(tags, tag)
			}
			out.PolicyTags = tags
		}
	}

	if raw, present := obj["rationale"]; present {
		if s, ok := raw.(string); !ok {
			violations = append(violations, "rationale must be a string")
		} else if n := utf8.RuneCountInString(s); n > models.MaxRationaleChars {
			violations = append(violations, fmt.Sprintf("rationale is %d characters, limit is %d", n, models.MaxRationaleChars))
		} else {
			out.Rationale = s
		}
	}

	if raw, present := obj["safe_suggestion"]; present && raw != nil {
		if s, ok := raw.(string); !ok {
			violations = append(violations, "safe_suggestion must be a string or null")
		} else if n := utf8.RuneCountInString(s); n > models.MaxSuggestionChars {
			violations = append(violations, fmt.Sprintf("safe_suggestion is %d characters, limit is %d", n, models.MaxSuggestionChars))
		} else {
			out.SafeSuggestion = &s
		}
	}

	if len(violations) > 0 {
		return nil, &models.SchemaViolationError{Object: value, Violations: violations}
	}
	if out.PolicyTags == nil {
		out.PolicyTags = []models.PolicyTag{}
	}
	return out, nil
}

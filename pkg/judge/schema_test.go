package judge

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modgate/internal/models"
)

func mustParse(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestValidateVerdict_Accepts(t *testing.T) {
	testCases := []struct {
		name string
		json string
		want models.Verdict
	}{
		{
			name: "Allow with no tags",
			json: `{"verdict":"allow","policy_tags":[],"rationale":"No concerns.","safe_suggestion":null}`,
			want: models.Verdict{Verdict: models.VerdictAllow, PolicyTags: []models.PolicyTag{}, Rationale: "No concerns."},
		},
		{
			name: "Soft block with suggestion",
			json: `{"verdict":"soft_block","policy_tags":["bullying"],"rationale":"Insulting tone.","safe_suggestion":"Say it kindly."}`,
			want: models.Verdict{
				Verdict:        models.VerdictSoftBlock,
				PolicyTags:     []models.PolicyTag{models.TagBullying},
				Rationale:      "Insulting tone.",
				SafeSuggestion: strPtr("Say it kindly."),
			},
		},
		{
			name: "Block with multiple tags",
			json: `{"verdict":"block","policy_tags":["hate","violence"],"rationale":"Threatening and hateful.","safe_suggestion":null}`,
			want: models.Verdict{
				Verdict:    models.VerdictBlock,
				PolicyTags: []models.PolicyTag{models.TagHate, models.TagViolence},
				Rationale:  "Threatening and hateful.",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ValidateVerdict(mustParse(t, tc.json))
			require.NoError(t, err)
			assert.Equal(t, &tc.want, got)
		})
	}
}

func TestValidateVerdict_Rejects(t *testing.T) {
	longRationale := strings.Repeat("x", models.MaxRationaleChars+1)
	longSuggestion := strings.Repeat("y", models.MaxSuggestionChars+1)

	testCases := []struct {
		name          string
		json          string
		wantViolation string
	}{
		{
			name:          "Missing rationale",
			json:          `{"verdict":"allow","policy_tags":[],"safe_suggestion":null}`,
			wantViolation: `missing required field "rationale"`,
		},
		{
			name:          "Unknown verdict",
			json:          `{"verdict":"maybe","policy_tags":[],"rationale":"?","safe_suggestion":null}`,
			wantViolation: `verdict "maybe"`,
		},
		{
			name:          "Unknown tag",
			json:          `{"verdict":"soft_block","policy_tags":["profanity1"],"rationale":"?","safe_suggestion":null}`,
			wantViolation: `unknown tag "profanity1"`,
		},
		{
			name:          "Rationale too long",
			json:          `{"verdict":"allow","policy_tags":[],"rationale":"` + longRationale + `","safe_suggestion":null}`,
			wantViolation: "rationale is 281 characters",
		},
		{
			name:          "Extra field",
			json:          `{"verdict":"allow","policy_tags":[],"rationale":"ok","safe_suggestion":null,"extra":true}`,
			wantViolation: `unexpected field "extra"`,
		},
		{
			name:          "Duplicate tags",
			json:          `{"verdict":"block","policy_tags":["pii","pii"],"rationale":"?","safe_suggestion":null}`,
			wantViolation: `duplicate tag "pii"`,
		},
		{
			name:          "Suggestion too long",
			json:          `{"verdict":"soft_block","policy_tags":[],"rationale":"?","safe_suggestion":"` + longSuggestion + `"}`,
			wantViolation: "safe_suggestion is 501 characters",
		},
		{
			name:          "Suggestion wrong type",
			json:          `{"verdict":"allow","policy_tags":[],"rationale":"ok","safe_suggestion":7}`,
			wantViolation: "safe_suggestion must be a string or null",
		},
		{
			name:          "Tags wrong type",
			json:          `{"verdict":"allow","policy_tags":"pii","rationale":"ok","safe_suggestion":null}`,
			wantViolation: "policy_tags must be an array",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			verdict, err := ValidateVerdict(mustParse(t, tc.json))
			require.Error(t, err)
			assert.Nil(t, verdict)

			var schemaErr *models.SchemaViolationError
			require.ErrorAs(t, err, &schemaErr)
			assert.NotNil(t, schemaErr.Object, "offending object kept for diagnostics")
			found := false
			for _, v := range schemaErr.Violations {
				if strings.Contains(v, tc.wantViolation) {
					found = true
				}
			}
			assert.True(t, found, "violations %v should mention %q", schemaErr.Violations, tc.wantViolation)
		})
	}
}

func TestValidateVerdict_NonObject(t *testing.T) {
	for _, input := range []any{
		mustParse(t, `["allow"]`),
		mustParse(t, `"allow"`),
		nil,
	} {
		verdict, err := ValidateVerdict(input)
		require.Error(t, err)
		assert.Nil(t, verdict)
	}
}

func strPtr(s string) *string { return &s }

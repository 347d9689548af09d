package judge

import (
	"fmt"
	"strings"

	"modgate/internal/models"
)

// MaxPromptTextChars caps how much item text is embedded in the instruction.
const MaxPromptTextChars = 8000

// constitution is the fixed policy the generative stage judges against.
// Its six principles and the schema description below must stay in lockstep
// with the verdict validator.
const constitution = `You are the content-safety judge for a youth platform. Classify the item below against these principles:
1. Respect: no insults, mockery, harassment, or bullying.
2. Purity and safety: no sexual or explicit content of any kind.
3. Peacemaking: no threats, violence, or glorification of harm.
4. Anti-hate: no hateful, extremist, or discriminatory content.
5. Privacy protection: no sharing of personal identifying information (names with addresses, phone numbers, emails).
6. Self-harm support: treat signals of self-harm with care; they are soft_block with a supportive suggestion, never allow.`

const schemaDescription = `Respond with ONLY a single JSON object and no other text. It must have exactly these four fields:
{
  "verdict": "allow" | "soft_block" | "block",
  "policy_tags": [zero or more of: "bullying", "hate", "sexual", "self_harm", "violence", "pii", "profanity", "illegal", "spam", "theology"],
  "rationale": "short reviewer-facing explanation, at most 280 characters",
  "safe_suggestion": "a kinder rephrasing of the item (at most 500 characters), or null when no rephrasing is meaningful"
}
Use "soft_block" when the intent is salvageable with a rephrasing, "block" when it is not. Set "safe_suggestion" to null for "block" and "allow" verdicts.`

// BuildPrompt renders the full instruction for the generative stage. It is
// deterministic for identical input and embeds no secrets. Item text is
// capped at MaxPromptTextChars and its double quotes are escaped so it stays
// inside the quoted field.
func BuildPrompt(itemType models.ItemType, text string) string {
	runes := []rune(text)
	if len(runes) > MaxPromptTextChars {
		text = string(runes[:MaxPromptTextChars])
	}
	escaped := strings.ReplaceAll(text, `"`, `\"`)

	var b strings.Builder
	b.WriteString(constitution)
	b.WriteString("\n\n")
	b.WriteString(schemaDescription)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Item type: %s\n", itemType)
	fmt.Fprintf(&b, "Item text: \"%s\"\n", escaped)
	return b.String()
}

package models

// ItemType classifies the origin of a piece of user-generated text.
type ItemType string

const (
	ItemTypeChat           ItemType = "chat"
	ItemTypeVideoTitle     ItemType = "video_title"
	ItemTypeVideoCaption   ItemType = "video_caption"
	ItemTypeVideoFrameAuto ItemType = "video_frame_auto"
)

// Valid reports whether t is one of the known item types.
func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeChat, ItemTypeVideoTitle, ItemTypeVideoCaption, ItemTypeVideoFrameAuto:
		return true
	}
	return false
}

// Item is a single unit of text submitted for moderation. Items carry no
// identity and are never stored.
type Item struct {
	Type ItemType `json:"type"`
	Text string   `json:"text"`
}

// VerdictLevel is the moderation outcome for an Item.
// Severity ordering: block > soft_block > allow.
type VerdictLevel string

const (
	VerdictAllow     VerdictLevel = "allow"
	VerdictSoftBlock VerdictLevel = "soft_block"
	VerdictBlock     VerdictLevel = "block"
)

// Valid reports whether v is one of the known verdict levels.
func (v VerdictLevel) Valid() bool {
	switch v {
	case VerdictAllow, VerdictSoftBlock, VerdictBlock:
		return true
	}
	return false
}

// Severity maps a verdict level to its ordering rank.
func (v VerdictLevel) Severity() int {
	switch v {
	case VerdictBlock:
		return 2
	case VerdictSoftBlock:
		return 1
	default:
		return 0
	}
}

// PolicyTag labels why an Item received its verdict. The vocabulary is
// closed: adding a tag is a deliberate change that must also touch the
// pattern library, the prompt's schema description, and the verdict
// validator.
type PolicyTag string

const (
	TagBullying  PolicyTag = "bullying"
	TagHate      PolicyTag = "hate"
	TagSexual    PolicyTag = "sexual"
	TagSelfHarm  PolicyTag = "self_harm"
	TagViolence  PolicyTag = "violence"
	TagPII       PolicyTag = "pii"
	TagProfanity PolicyTag = "profanity"
	TagIllegal   PolicyTag = "illegal"
	TagSpam      PolicyTag = "spam"
	TagTheology  PolicyTag = "theology"
)

// AllPolicyTags lists the full closed vocabulary in a stable order.
var AllPolicyTags = []PolicyTag{
	TagBullying, TagHate, TagSexual, TagSelfHarm, TagViolence,
	TagPII, TagProfanity, TagIllegal, TagSpam, TagTheology,
}

// Valid reports whether p belongs to the closed tag vocabulary.
func (p PolicyTag) Valid() bool {
	for _, t := range AllPolicyTags {
		if p == t {
			return true
		}
	}
	return false
}

// Field limits on the Verdict contract.
const (
	MaxRationaleChars  = 280
	MaxSuggestionChars = 500
)

// Verdict is the structured moderation decision for an Item. It exists only
// for the duration of a single request/response exchange.
type Verdict struct {
	Verdict        VerdictLevel `json:"verdict"`
	PolicyTags     []PolicyTag  `json:"policy_tags"`
	Rationale      string       `json:"rationale"`
	SafeSuggestion *string      `json:"safe_suggestion"`
}

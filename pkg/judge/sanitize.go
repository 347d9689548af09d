package judge

import "strings"

// ExtractJSON pulls the JSON-shaped substring out of a raw generation
// response that may carry leading or trailing prose, markdown fences, or
// whitespace. It spans from the earliest '{' or '[' through the latest '}'
// or ']'. When either bracket is missing the trimmed input is returned
// unchanged: extraction is best-effort, structural correctness is the
// validator's job.
func ExtractJSON(raw string) string {
	trimmed := strings.TrimSpace(raw)
	start := strings.IndexAny(trimmed, "{[")
	end := strings.LastIndexAny(trimmed, "}]")
	if start == -1 || end == -1 || end < start {
		return trimmed
	}
	return trimmed[start : end+1]
}

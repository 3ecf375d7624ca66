package promptval

import "strings"

// customChoiceSet validates an uploaded ad hoc choice set and returns the
// set of selectable keys. The set is invalid when any choice id fails to
// parse as an integer, two choices share an id, or a choice value is empty
// or whitespace.
func customChoiceSet(choices []CustomChoice) (map[string]struct{}, *Error) {
	if len(choices) == 0 {
		return nil, failf(CodeInvalidCustomChoice, "custom choice set is missing or empty")
	}
	seen := map[int64]struct{}{}
	keys := make(map[string]struct{}, len(choices))
	for i, c := range choices {
		id, ok := asInt(c.ID)
		if !ok {
			return nil, failf(CodeInvalidCustomChoice, "custom choice %d has a non-integer id", i)
		}
		if _, dup := seen[id]; dup {
			return nil, failf(CodeInvalidCustomChoice, "custom choice id %d appears more than once", id)
		}
		seen[id] = struct{}{}
		val, ok := c.Value.(string)
		if !ok || strings.TrimSpace(val) == "" {
			return nil, failf(CodeInvalidCustomChoice, "custom choice %d has an empty value", i)
		}
		keys[val] = struct{}{}
	}
	return keys, nil
}

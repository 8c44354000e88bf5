package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rxtech-lab/argo-loglens/internal/types"
)

var (
	keyRegex    = regexp.MustCompile(`(^|, |\s)([A-Za-z_][A-Za-z0-9_]*)=`)
	numberRegex = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
)

// ExtractFields pulls `key=value` pairs out of a payload string. Pairs are
// separated by ", " and a value runs until the next ", key=" boundary or the
// end of the string, so free-text values with embedded spaces survive intact.
// A leading free-text prefix before the first pair is ignored, which lets
// extraction run over whole messages when a line carries no "|" separator.
// Inputs without any pair produce an empty mapping, never an error.
func ExtractFields(payload string) map[string]types.FieldValue {
	fields := make(map[string]types.FieldValue)

	matches := keyRegex.FindAllStringSubmatchIndex(payload, -1)
	for i, match := range matches {
		key := payload[match[4]:match[5]]

		valueEnd := len(payload)
		if i+1 < len(matches) {
			valueEnd = matches[i+1][0]
		}

		value := strings.TrimSpace(payload[match[1]:valueEnd])
		fields[key] = CoerceValue(value)
	}

	return fields
}

// CoerceValue types a raw payload value: integer-or-decimal text becomes a
// number, exact true/false becomes a bool, anything else stays text.
func CoerceValue(raw string) types.FieldValue {
	if numberRegex.MatchString(raw) {
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return types.NumberField(n)
		}
	}

	switch raw {
	case "true":
		return types.BoolField(true)
	case "false":
		return types.BoolField(false)
	}

	return types.TextField(raw)
}

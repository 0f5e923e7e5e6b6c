package language

import "strings"

// NormalizeTag normalizes a language tag to lowercase and "-" separators.
// Returns an empty string when the value is blank or contains invalid characters.
func NormalizeTag(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return ""
	}

	trimmed = strings.ReplaceAll(trimmed, "_", "-")
	parts := strings.Split(trimmed, "-")
	normalized := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !isAlphaLower(part) {
			return ""
		}
		normalized = append(normalized, part)
	}

	if len(normalized) == 0 {
		return ""
	}
	return strings.Join(normalized, "-")
}

// NormalizeCode returns the primary language subtag (for example, "en" from "en-US").
func NormalizeCode(raw string) string {
	tag := NormalizeTag(raw)
	if tag == "" {
		return ""
	}
	if dash := strings.IndexByte(tag, '-'); dash >= 0 {
		return tag[:dash]
	}
	return tag
}

func isAlphaLower(value string) bool {
	for _, r := range value {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// NormalizeCodes normalizes a list of language codes, dropping blanks, duplicates
// and any code listed in exclude. Input order is preserved.
func NormalizeCodes(raw []string, exclude ...string) []string {
	skip := make(map[string]struct{}, len(exclude))
	for _, code := range exclude {
		if normalized := NormalizeCode(code); normalized != "" {
			skip[normalized] = struct{}{}
		}
	}

	codes := make([]string, 0, len(raw))
	for _, item := range raw {
		code := NormalizeCode(item)
		if code == "" {
			continue
		}
		if _, excluded := skip[code]; excluded {
			continue
		}
		skip[code] = struct{}{}
		codes = append(codes, code)
	}
	return codes
}

// SplitCodes parses a comma separated list such as "en, de,fr".
func SplitCodes(raw string, exclude ...string) []string {
	return NormalizeCodes(strings.Split(raw, ","), exclude...)
}

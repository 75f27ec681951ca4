package scape

import "strings"

// Normalize canonicalizes a domain name: case and separators are folded,
// a "scape" prefix and a "sim" suffix are dropped, and a few short aliases
// resolve to their domain. Unknown names come back folded but otherwise
// unchanged.
func Normalize(name string) string {
	normalized := strings.TrimSpace(strings.ToLower(name))
	normalized = strings.NewReplacer("_", "-", " ", "-").Replace(normalized)
	normalized = strings.Trim(normalized, "-")
	if normalized == "" {
		return ""
	}
	for _, candidate := range aliasCandidates(normalized) {
		if canonical, ok := canonicalName(candidate); ok {
			return canonical
		}
	}
	return normalized
}

func aliasCandidates(normalized string) []string {
	candidate := strings.TrimPrefix(normalized, "scape-")
	if candidate == normalized {
		candidate = strings.TrimPrefix(candidate, "scape")
	}
	candidate = strings.Trim(candidate, "-")

	candidates := []string{normalized}
	if candidate != "" && candidate != normalized {
		candidates = append(candidates, candidate)
	}
	if trimmed := trimSimSuffix(candidate); trimmed != "" && trimmed != candidate {
		candidates = append(candidates, trimmed)
	}
	return candidates
}

func trimSimSuffix(value string) string {
	for _, suffix := range []string{"-sim1", "-sim"} {
		if strings.HasSuffix(value, suffix) {
			return strings.TrimSuffix(value, suffix)
		}
	}
	return value
}

func canonicalName(alias string) (string, bool) {
	switch strings.ReplaceAll(alias, "-", "") {
	case "xor":
		return "xor", true
	case "regressionmimic", "mimic":
		return "regression-mimic", true
	case "cartpolelite", "cartpole", "cpl":
		return "cart-pole-lite", true
	case "pole2balancing", "doublepole", "pb":
		return "pole2-balancing", true
	case "sequencerecall", "recall", "seqrecall":
		return "sequence-recall", true
	default:
		return "", false
	}
}

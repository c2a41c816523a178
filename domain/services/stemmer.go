package services

import "strings"

// NormalizeVocabLabel reduces an LLM-produced relationship label to a
// stem suitable for matching against existing VocabType names, so
// "VALIDATING" and "VALIDATED" both resolve to the VocabType "VALIDATES"
// rather than minting near-duplicate types (spec.md §4.4). This is a
// deliberately small suffix-stripping stemmer, not a full Porter
// implementation — vocabulary labels are short, uppercase, English verbs,
// not prose, so the common suffix classes cover the corpus the LLM
// actually produces.
func NormalizeVocabLabel(label string) string {
	s := strings.ToUpper(strings.TrimSpace(label))
	s = strings.ReplaceAll(s, " ", "_")
	for _, suffix := range []string{"IZATION", "IZING", "IZES", "IZED", "IZE", "ATIONS", "ATION", "ATING", "ATES", "ATED", "ATE", "MENT", "ING", "IES", "ES", "ED", "S"} {
		if trimmed, ok := trimSuffix(s, suffix); ok && len(trimmed) >= 3 {
			return trimmed
		}
	}
	return s
}

func trimSuffix(s, suffix string) (string, bool) {
	if strings.HasSuffix(s, suffix) {
		return strings.TrimSuffix(s, suffix), true
	}
	return s, false
}

// StemMatches finds an existing VocabType name whose normalized stem
// equals the candidate label's stem, returning it and true, or false if
// none match.
func StemMatches(candidateLabel string, existing []string) (string, bool) {
	stem := NormalizeVocabLabel(candidateLabel)
	for _, name := range existing {
		if NormalizeVocabLabel(name) == stem {
			return name, true
		}
	}
	return "", false
}

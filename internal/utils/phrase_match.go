package utils

import (
	"strings"

	"evaluator/internal/model"
)

// spaceAliases maps what people call a room to the space type behind an attached wall
var spaceAliases = map[string]model.SpaceType{
	"bedroom":         model.SpaceBedroom,
	"master bedroom":  model.SpaceBedroom,
	"guest bedroom":   model.SpaceBedroom,
	"kitchen":         model.SpaceNonBedroom,
	"hall":            model.SpaceNonBedroom,
	"living room":     model.SpaceNonBedroom,
	"drawing room":    model.SpaceNonBedroom,
	"dining":          model.SpaceNonBedroom,
	"bathroom":        model.SpaceNonBedroom,
	"toilet":          model.SpaceNonBedroom,
	"store":           model.SpaceNonBedroom,
	"corridor":        model.SpaceCommonArea,
	"lobby":           model.SpaceCommonArea,
	"staircase":       model.SpaceCommonArea,
	"lift":            model.SpaceCommonArea,
	"common corridor": model.SpaceCommonArea,
}

// longest aliases first so "common corridor" wins over "corridor"
var spaceAliasOrder = []string{
	"common corridor", "master bedroom", "guest bedroom", "living room", "drawing room",
	"staircase", "bathroom", "corridor", "bedroom", "kitchen", "toilet", "dining",
	"lobby", "store", "hall", "lift",
}

var (
	neighborPhrases = []string{
		"next door", "another unit", "other unit", "another house",
		"other house", "adjacent unit", "adjacent house", "someone else", "other family",
	}
	ownPhrases = []string{
		"own unit", "my own", "our own", "my unit", "our unit", "my house", "our house",
		"my flat", "our flat", "my apartment", "our apartment", "same unit", "same house",
		"same flat", "inside my", "inside our", "mine", "ours",
	}
)

// Normalize lowercases text and collapses runs of whitespace
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// WordCount returns the number of whitespace separated words
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// ContainsPhrase reports whether phrase occurs in text on word boundaries.
// Both are expected to be normalized.
func ContainsPhrase(text, phrase string) bool {
	for from := 0; ; {
		i := strings.Index(text[from:], phrase)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(phrase)
		if (start == 0 || !isWordByte(text[start-1])) && (end == len(text) || !isWordByte(text[end])) {
			return true
		}
		from = start + 1
	}
}

// ContainsAnyPhrase reports whether any of phrases occurs in text
func ContainsAnyPhrase(text string, phrases []string) bool {
	for _, p := range phrases {
		if ContainsPhrase(text, p) {
			return true
		}
	}
	return false
}

// NormalizeSpaceType maps a room description ("Master Bedroom", "the lift")
// or a canonical value ("non_bedroom") to a space type
func NormalizeSpaceType(text string) (model.SpaceType, bool) {
	s := Normalize(strings.ReplaceAll(text, "_", " "))
	switch {
	case ContainsAnyPhrase(s, []string{"non bedroom", "non-bedroom", "not a bedroom"}):
		return model.SpaceNonBedroom, true
	case ContainsPhrase(s, "common area"):
		return model.SpaceCommonArea, true
	}
	if st, ok := spaceAliases[s]; ok {
		return st, true
	}
	for _, alias := range spaceAliasOrder {
		if ContainsPhrase(s, alias) || ContainsPhrase(s, alias+"s") {
			return spaceAliases[alias], true
		}
	}
	return "", false
}

// DetectOwner reads who the space behind an attached wall belongs to.
// Neighbour phrases take precedence since "my neighbour's bedroom" mentions both.
func DetectOwner(text string) (model.Owner, bool) {
	s := Normalize(strings.ReplaceAll(text, "_", " "))
	switch {
	case strings.Contains(s, "neighbo") || ContainsAnyPhrase(s, neighborPhrases):
		return model.OwnerNeighborUnit, true
	case ContainsAnyPhrase(s, ownPhrases):
		return model.OwnerOwnUnit, true
	}
	return "", false
}

func isWordByte(c byte) bool {
	return c == '_' || c == '\'' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

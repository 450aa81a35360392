package recognize

import "sort"

// Candidate is one terminal's recognizer result at a position, as fed to
// Select.
type Candidate struct {
	Terminal int
	Match    Match
}

// Outcome is what Select decides among one or more matching candidates.
type Outcome uint8

const (
	// OutcomeNone means nothing matched.
	OutcomeNone Outcome = iota
	// OutcomeSingle means exactly one candidate won outright.
	OutcomeSingle
	// OutcomeFork means multiple candidates are equally valid and the
	// caller (necessarily GLR) must fork on each.
	OutcomeFork
	// OutcomeAmbiguous means multiple candidates tie and the caller is in
	// LR mode, which must report a DisambiguationError.
	OutcomeAmbiguous
)

// Select implements the selection policy of spec §4.B:
//  1. a sole `prefer`-flagged candidate at the max length wins;
//  2. else the longest match wins;
//  3. else a string-literal recognizer beats a regex recognizer of equal
//     length (keywords over identifiers);
//  4. else, still tied: fork in GLR mode, report ambiguity in LR mode.
func Select(reg *Registry, candidates []Candidate, glr bool) (Outcome, Candidate, []Candidate) {
	if len(candidates) == 0 {
		return OutcomeNone, Candidate{}, nil
	}

	maxLen := candidates[0].Match.Length
	for _, c := range candidates[1:] {
		if c.Match.Length > maxLen {
			maxLen = c.Match.Length
		}
	}

	var atMax []Candidate
	for _, c := range candidates {
		if c.Match.Length == maxLen {
			atMax = append(atMax, c)
		}
	}
	if len(atMax) == 1 {
		return OutcomeSingle, atMax[0], nil
	}

	var preferred []Candidate
	for _, c := range atMax {
		if reg.prefer[c.Terminal] {
			preferred = append(preferred, c)
		}
	}
	if len(preferred) == 1 {
		return OutcomeSingle, preferred[0], nil
	}

	var literals []Candidate
	for _, c := range atMax {
		if reg.kind[c.Terminal] == KindLiteral {
			literals = append(literals, c)
		}
	}
	if len(literals) == 1 {
		return OutcomeSingle, literals[0], nil
	}
	if len(literals) > 1 {
		atMax = literals
	}

	sort.Slice(atMax, func(i, j int) bool { return atMax[i].Terminal < atMax[j].Terminal })

	if glr {
		return OutcomeFork, Candidate{}, atMax
	}
	return OutcomeAmbiguous, Candidate{}, atMax
}

package match

import (
	"sort"

	"mapper-planner/internal/analyze"
)

// Score weights.
const (
	nameWeight = 0.6
	typeWeight = 0.4
)

// DefaultThreshold is the lowest score Suggest reports.
const DefaultThreshold = 0.55

// Candidate is a source member scored against a target.
type Candidate struct {
	Name       string
	NameScore  float64
	TypeCompat TypeCompatibility
	Score      float64
}

// CandidateList is ordered best first.
type CandidateList []Candidate

// Rank scores every source member against the target member. Ties are
// broken by name so the order is stable.
func Rank(target analyze.Member, sources []analyze.Member) CandidateList {
	list := make(CandidateList, 0, len(sources))

	for _, src := range sources {
		name := NameSimilarity(src.Name, target.Name)
		compat := Compatibility(src.Type, target.Type)

		list = append(list, Candidate{
			Name:       src.Name,
			NameScore:  name,
			TypeCompat: compat,
			Score:      name*nameWeight + compat.weight()*typeWeight,
		})
	}

	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Score != list[j].Score {
			return list[i].Score > list[j].Score
		}

		return list[i].Name < list[j].Name
	})

	return list
}

// RankNames scores bare names against a target name. Used where no type
// information applies, e.g. constructor parameters against member names.
func RankNames(target string, names []string) CandidateList {
	list := make(CandidateList, 0, len(names))

	for _, n := range names {
		s := NameSimilarity(n, target)
		list = append(list, Candidate{Name: n, NameScore: s, Score: s})
	}

	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Score != list[j].Score {
			return list[i].Score > list[j].Score
		}

		return list[i].Name < list[j].Name
	})

	return list
}

// AboveThreshold returns the candidates scoring at least threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var out CandidateList

	for _, cand := range c {
		if cand.Score >= threshold {
			out = append(out, cand)
		}
	}

	return out
}

// Top returns at most n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n < 0 || n >= len(c) {
		return c
	}

	return c[:n]
}

// Names returns the candidate names in order.
func (c CandidateList) Names() []string {
	names := make([]string, 0, len(c))
	for _, cand := range c {
		names = append(names, cand.Name)
	}

	return names
}

// Suggest returns up to limit source member names that plausibly meant the
// target member.
func Suggest(target analyze.Member, sources []analyze.Member, limit int) []string {
	return Rank(target, sources).AboveThreshold(DefaultThreshold).Top(limit).Names()
}

// SuggestNames is Suggest for bare names.
func SuggestNames(target string, names []string, limit int) []string {
	return RankNames(target, names).AboveThreshold(DefaultThreshold).Top(limit).Names()
}

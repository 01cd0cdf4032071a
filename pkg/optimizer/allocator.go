package optimizer

import (
	"sort"

	"github.com/arnavshah/assignment-api-go/pkg/models"
)

// acceptThreshold is the minimum fairness-adjusted score for the primary
// greedy path; anything at or below falls through to the least-loaded
// fallback.
const acceptThreshold = 0.4

// DefaultMaxPerPerson caps assignments per staff member per run
const DefaultMaxPerPerson = 3

// allocState is the running assignment tally for one allocation pass.
// Local to the run so concurrent runs never share state.
type allocState struct {
	counts map[string]int
}

func newAllocState(matrix ScoreMatrix) *allocState {
	st := &allocState{counts: make(map[string]int)}
	if len(matrix) > 0 {
		for _, c := range matrix[0].Candidates {
			st.counts[c.AssignedTo] = 0
		}
	}
	return st
}

// average returns the mean running count across all eligible staff
func (st *allocState) average() float64 {
	if len(st.counts) == 0 {
		return 0
	}
	sum := 0
	for _, n := range st.counts {
		sum += n
	}
	return float64(sum) / float64(len(st.counts))
}

// fairnessMultiplier discounts a candidate who is already above the mean
// assignment count. A fairness weight of 0 disables the discount.
func (st *allocState) fairnessMultiplier(staffID string, fairnessWeight float64) float64 {
	if fairnessWeight == 0 {
		return 1
	}
	over := float64(st.counts[staffID]) - st.average()
	if over < 0 {
		over = 0
	}
	component := 1 - over*0.3
	if component < 0.3 {
		component = 0.3
	}
	return (1 - fairnessWeight) + fairnessWeight*component
}

// Allocate walks the score matrix greedily: tasks in best-achievable-score
// order, each committed to its best available candidate after fairness
// adjustment, with a least-loaded fallback when nobody clears the
// acceptance threshold. Tasks that cannot be placed under the per-person
// cap are left out of the result.
func Allocate(matrix ScoreMatrix, cfg models.RunConfig, fairnessWeight float64) []models.Decision {
	maxPer := cfg.Constraints.MaxPerPerson
	if maxPer <= 0 {
		maxPer = DefaultMaxPerPerson
	}

	// Resolve strongest matches first so their best candidate is less
	// likely to be saturated already.
	order := make([]TaskScores, len(matrix))
	copy(order, matrix)
	sort.SliceStable(order, func(i, j int) bool {
		return bestScore(order[i]) > bestScore(order[j])
	})

	state := newAllocState(matrix)
	decisions := make([]models.Decision, 0, len(matrix))

	for _, ts := range order {
		ranked := make([]models.Decision, len(ts.Candidates))
		copy(ranked, ts.Candidates)
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Score > ranked[j].Score
		})

		assigned := false
		for i, cand := range ranked {
			if state.counts[cand.AssignedTo] >= maxPer {
				continue
			}
			multiplier := state.fairnessMultiplier(cand.AssignedTo, fairnessWeight)
			if cand.Score*multiplier <= acceptThreshold {
				continue
			}
			cand.Alternatives = alternatives(ranked, i, state.counts, maxPer)
			decisions = append(decisions, cand)
			state.counts[cand.AssignedTo]++
			assigned = true
			break
		}
		if assigned {
			continue
		}

		// Nobody cleared the threshold: hand the task to whoever is
		// least loaded, cap permitting, otherwise leave it unassigned.
		if fallback, ok := leastLoaded(ranked, state.counts); ok && state.counts[fallback.AssignedTo] < maxPer {
			decisions = append(decisions, fallback)
			state.counts[fallback.AssignedTo]++
		}
	}

	return decisions
}

func bestScore(ts TaskScores) float64 {
	best := 0.0
	for _, c := range ts.Candidates {
		if c.Score > best {
			best = c.Score
		}
	}
	return best
}

// alternatives collects up to two runner-up candidates that still have
// capacity, with the runner-up's leading key factor as the reason
func alternatives(ranked []models.Decision, chosen int, counts map[string]int, maxPer int) []models.Alternative {
	var alts []models.Alternative
	for i := chosen + 1; i < len(ranked) && len(alts) < 2; i++ {
		if counts[ranked[i].AssignedTo] >= maxPer {
			continue
		}
		reason := "Comparable overall fit"
		if len(ranked[i].Reasoning.KeyFactors) > 0 {
			reason = ranked[i].Reasoning.KeyFactors[0]
		}
		alts = append(alts, models.Alternative{
			StaffID: ranked[i].AssignedTo,
			Score:   ranked[i].Score,
			Reason:  reason,
		})
	}
	return alts
}

// leastLoaded picks the candidate with the fewest running assignments,
// earlier rank winning ties
func leastLoaded(ranked []models.Decision, counts map[string]int) (models.Decision, bool) {
	if len(ranked) == 0 {
		return models.Decision{}, false
	}
	best := ranked[0]
	for _, cand := range ranked[1:] {
		if counts[cand.AssignedTo] < counts[best.AssignedTo] {
			best = cand
		}
	}
	return best, true
}

package optimizer

import (
	"github.com/arnavshah/assignment-api-go/pkg/models"
)

// TaskScores holds one task's scored candidates in input staff order
type TaskScores struct {
	Task       models.Task
	Candidates []models.Decision
}

// ScoreMatrix is the complete set of (task, staff) draft decisions for one
// run, in input task order. Slices rather than maps keep the run
// deterministic end to end.
type ScoreMatrix []TaskScores

// EligibleStaff filters the staff list by the run's constraints before any
// scoring happens. The exclude-list is absolute: an excluded member never
// enters the matrix, so neither the greedy walk nor the least-loaded
// fallback can pick them. Members on the include-list bypass the role
// allow-list but not the exclude-list.
func EligibleStaff(staff []models.StaffMember, constraints models.Constraints) []models.StaffMember {
	excluded := make(map[string]bool, len(constraints.ExcludeIDs))
	for _, id := range constraints.ExcludeIDs {
		excluded[id] = true
	}
	included := make(map[string]bool, len(constraints.IncludeIDs))
	for _, id := range constraints.IncludeIDs {
		included[id] = true
	}
	allowedRole := make(map[string]bool, len(constraints.AllowedRoles))
	for _, role := range constraints.AllowedRoles {
		allowedRole[role] = true
	}

	var eligible []models.StaffMember
	for _, member := range staff {
		if excluded[member.ID] {
			continue
		}
		if len(allowedRole) > 0 && !allowedRole[member.Role] && !included[member.ID] {
			continue
		}
		eligible = append(eligible, member)
	}
	return eligible
}

// BuildMatrix scores every eligible staff member against every task. Pure
// orchestration over the Scorer; fails when either input set is empty.
func BuildMatrix(tasks []models.Task, staff []models.StaffMember, cfg models.RunConfig, scorer *Scorer) (ScoreMatrix, error) {
	if len(tasks) == 0 {
		return nil, ErrNoTasks
	}

	eligible := EligibleStaff(staff, cfg.Constraints)
	if len(eligible) == 0 {
		return nil, ErrNoEligibleStaff
	}

	matrix := make(ScoreMatrix, 0, len(tasks))
	for _, task := range tasks {
		scores := TaskScores{Task: task, Candidates: make([]models.Decision, 0, len(eligible))}
		for _, member := range eligible {
			scores.Candidates = append(scores.Candidates, scorer.Evaluate(task, member))
		}
		matrix = append(matrix, scores)
	}
	return matrix, nil
}

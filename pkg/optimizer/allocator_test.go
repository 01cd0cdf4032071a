package optimizer

import (
	"fmt"
	"math"
	"testing"

	"github.com/arnavshah/assignment-api-go/pkg/models"
)

func buildMatrixForTest(t *testing.T, tasks []models.Task, staff []models.StaffMember, cfg models.RunConfig) ScoreMatrix {
	t.Helper()
	scorer := NewScorer(cfg, testNow)
	matrix, err := BuildMatrix(tasks, staff, cfg, scorer)
	if err != nil {
		t.Fatalf("BuildMatrix failed: %v", err)
	}
	return matrix
}

func TestAllocate_CapInvariant(t *testing.T) {
	var tasks []models.Task
	for i := 0; i < 10; i++ {
		tasks = append(tasks, models.Task{
			ID:         fmt.Sprintf("t%d", i),
			Difficulty: models.DifficultyBeginner,
			Category:   "kitchen",
		})
	}
	staff := []models.StaffMember{
		{ID: "s1", Role: models.RoleChef},
		{ID: "s2", Role: models.RoleChef},
	}

	cfg := models.RunConfig{}
	matrix := buildMatrixForTest(t, tasks, staff, cfg)
	decisions := Allocate(matrix, cfg, DefaultWeights().Fairness)

	counts := make(map[string]int)
	for _, d := range decisions {
		counts[d.AssignedTo]++
	}
	for id, n := range counts {
		if n > DefaultMaxPerPerson {
			t.Errorf("Staff %s received %d tasks, cap is %d", id, n, DefaultMaxPerPerson)
		}
	}
	if len(decisions) > len(tasks) {
		t.Errorf("Produced %d decisions for %d tasks", len(decisions), len(tasks))
	}
}

func TestAllocate_UniqueTaskAssignments(t *testing.T) {
	tasks := []models.Task{
		{ID: "t1", Difficulty: models.DifficultyBeginner, Category: "kitchen"},
		{ID: "t2", Difficulty: models.DifficultyBeginner, Category: "kitchen"},
		{ID: "t3", Difficulty: models.DifficultyBeginner, Category: "service"},
	}
	staff := []models.StaffMember{
		{ID: "s1", Role: models.RoleChef},
		{ID: "s2", Role: models.RoleWaiter},
	}

	cfg := models.RunConfig{}
	matrix := buildMatrixForTest(t, tasks, staff, cfg)
	decisions := Allocate(matrix, cfg, DefaultWeights().Fairness)

	seen := make(map[string]bool)
	for _, d := range decisions {
		if seen[d.TaskID] {
			t.Errorf("Task %s assigned more than once", d.TaskID)
		}
		seen[d.TaskID] = true
	}
}

func TestAllocate_LeastLoadedFallback(t *testing.T) {
	// Weights chosen so every composite lands at or under the acceptance
	// threshold, forcing the fallback path for every task.
	cfg := models.RunConfig{Weights: models.CriteriaWeights{Skill: 0.3}}

	tasks := []models.Task{
		{ID: "t1", Difficulty: models.DifficultyBeginner},
		{ID: "t2", Difficulty: models.DifficultyBeginner},
	}
	staff := []models.StaffMember{
		{ID: "s1", Role: models.RoleChef},
		{ID: "s2", Role: models.RoleChef},
	}

	matrix := buildMatrixForTest(t, tasks, staff, cfg)
	decisions := Allocate(matrix, cfg, cfg.Weights.Fairness)

	if len(decisions) != 2 {
		t.Fatalf("Expected the fallback to assign both tasks, got %d decisions", len(decisions))
	}
	if decisions[0].AssignedTo == decisions[1].AssignedTo {
		t.Errorf("Expected the fallback to spread tasks across least-loaded staff, both went to %s", decisions[0].AssignedTo)
	}
}

func TestAllocate_Alternatives(t *testing.T) {
	tasks := []models.Task{{ID: "t1", Difficulty: models.DifficultyBeginner, Category: "kitchen", Tags: []string{"prep"}}}
	staff := []models.StaffMember{
		{ID: "s1", Role: models.RoleChef, Skills: []models.Skill{{Name: "prep", Proficiency: 3}}},
		{ID: "s2", Role: models.RoleChef},
		{ID: "s3", Role: models.RoleWaiter},
		{ID: "s4", Role: models.RoleWaiter},
	}

	cfg := models.RunConfig{}
	matrix := buildMatrixForTest(t, tasks, staff, cfg)
	decisions := Allocate(matrix, cfg, DefaultWeights().Fairness)

	if len(decisions) != 1 {
		t.Fatalf("Expected 1 decision, got %d", len(decisions))
	}
	d := decisions[0]
	if len(d.Alternatives) != 2 {
		t.Fatalf("Expected 2 alternatives, got %d", len(d.Alternatives))
	}
	for _, alt := range d.Alternatives {
		if alt.StaffID == d.AssignedTo {
			t.Errorf("Alternative must not repeat the chosen staff member")
		}
		if alt.Score > d.Score {
			t.Errorf("Alternative score %f exceeds chosen score %f", alt.Score, d.Score)
		}
		if alt.Reason == "" {
			t.Errorf("Alternative is missing a reason")
		}
	}
}

func countStdev(decisions []models.Decision, staff []models.StaffMember) float64 {
	counts := make(map[string]int, len(staff))
	for _, s := range staff {
		counts[s.ID] = 0
	}
	for _, d := range decisions {
		counts[d.AssignedTo]++
	}
	mean := float64(len(decisions)) / float64(len(staff))
	var varianceSum float64
	for _, n := range counts {
		diff := float64(n) - mean
		varianceSum += diff * diff
	}
	return math.Sqrt(varianceSum / float64(len(staff)))
}

func TestAllocate_FairnessMonotonicity(t *testing.T) {
	var tasks []models.Task
	for i := 0; i < 6; i++ {
		tasks = append(tasks, models.Task{
			ID:         fmt.Sprintf("t%d", i),
			Difficulty: models.DifficultyBeginner,
			Category:   "misc",
			Tags:       []string{"knife"},
		})
	}
	staff := []models.StaffMember{
		{ID: "strong", Role: models.RoleChef, Skills: []models.Skill{{Name: "knife", Proficiency: 3}}},
		{ID: "backup", Role: models.RoleChef, Skills: []models.Skill{{Name: "knife", Proficiency: 8}}},
	}

	stdevAt := func(fairness float64) float64 {
		cfg := models.RunConfig{
			Weights:     models.CriteriaWeights{Skill: 1, Fairness: fairness},
			Constraints: models.Constraints{MaxPerPerson: 6},
		}
		matrix := buildMatrixForTest(t, tasks, staff, cfg)
		return countStdev(Allocate(matrix, cfg, fairness), staff)
	}

	prev := stdevAt(0)
	for _, fairness := range []float64{0.25, 0.5, 0.75, 1} {
		cur := stdevAt(fairness)
		if cur > prev+1e-9 {
			t.Errorf("Imbalance grew when fairness weight rose to %.2f: stdev %f -> %f", fairness, prev, cur)
		}
		prev = cur
	}
}

func TestEligibleStaff_Filters(t *testing.T) {
	staff := []models.StaffMember{
		{ID: "s1", Role: models.RoleChef},
		{ID: "s2", Role: models.RoleWaiter},
		{ID: "s3", Role: models.RoleManager},
	}

	// Exclude-list is absolute
	eligible := EligibleStaff(staff, models.Constraints{ExcludeIDs: []string{"s2"}})
	if len(eligible) != 2 {
		t.Fatalf("Expected 2 eligible staff, got %d", len(eligible))
	}
	for _, member := range eligible {
		if member.ID == "s2" {
			t.Errorf("Excluded staff member survived filtering")
		}
	}

	// Role allow-list
	eligible = EligibleStaff(staff, models.Constraints{AllowedRoles: []string{models.RoleChef}})
	if len(eligible) != 1 || eligible[0].ID != "s1" {
		t.Errorf("Expected only the chef to survive the allow-list, got %v", eligible)
	}

	// Include-list bypasses the allow-list but not the exclude-list
	eligible = EligibleStaff(staff, models.Constraints{
		AllowedRoles: []string{models.RoleChef},
		IncludeIDs:   []string{"s3"},
	})
	if len(eligible) != 2 {
		t.Errorf("Expected the include-list to add the manager, got %v", eligible)
	}
	eligible = EligibleStaff(staff, models.Constraints{
		IncludeIDs: []string{"s2"},
		ExcludeIDs: []string{"s2"},
	})
	for _, member := range eligible {
		if member.ID == "s2" {
			t.Errorf("Exclude-list must win over include-list")
		}
	}
}

package optimizer

import (
	"math"
	"strings"
	"testing"

	"github.com/arnavshah/assignment-api-go/pkg/models"
)

func decision(taskID, staffID string, score float64) models.Decision {
	return models.Decision{
		TaskID:     taskID,
		AssignedTo: staffID,
		Score:      score,
		Reasoning: models.Reasoning{
			SkillScore:        score,
			OverallConfidence: math.Min(0.95, score),
		},
	}
}

func TestComputeMetrics_Empty(t *testing.T) {
	m := ComputeMetrics(nil)
	if m != (models.OptimizationMetrics{}) {
		t.Errorf("Expected zeroed metrics for an empty decision list, got %+v", m)
	}
}

func TestComputeMetrics_Balanced(t *testing.T) {
	decisions := []models.Decision{
		decision("t1", "s1", 0.8),
		decision("t2", "s2", 0.6),
	}

	m := ComputeMetrics(decisions)

	if !almostEqual(m.TotalScore, 0.7) {
		t.Errorf("Expected total score 0.7, got %f", m.TotalScore)
	}
	if !almostEqual(m.SkillUtilization, 0.7) {
		t.Errorf("Expected skill utilization 0.7, got %f", m.SkillUtilization)
	}
	// One task each: perfectly balanced and perfectly fair
	if !almostEqual(m.WorkloadBalance, 1.0) {
		t.Errorf("Expected workload balance 1.0, got %f", m.WorkloadBalance)
	}
	if !almostEqual(m.FairnessIndex, 1.0) {
		t.Errorf("Expected fairness index 1.0, got %f", m.FairnessIndex)
	}
}

func TestComputeMetrics_Skewed(t *testing.T) {
	decisions := []models.Decision{
		decision("t1", "s1", 0.8),
		decision("t2", "s1", 0.8),
		decision("t3", "s1", 0.8),
		decision("t4", "s2", 0.8),
	}

	m := ComputeMetrics(decisions)

	// Counts [1,3]: stdev 1 against mean 2 -> balance 0.5
	if !almostEqual(m.WorkloadBalance, 0.5) {
		t.Errorf("Expected workload balance 0.5, got %f", m.WorkloadBalance)
	}
	// Gini over [1,3] is 0.25 -> fairness 0.75
	if !almostEqual(m.FairnessIndex, 0.75) {
		t.Errorf("Expected fairness index 0.75, got %f", m.FairnessIndex)
	}
}

func TestRecommendations(t *testing.T) {
	weak := models.OptimizationMetrics{
		SkillUtilization:       0.5,
		WorkloadBalance:        0.6,
		ExpectedCompletionRate: 0.7,
		FairnessIndex:          0.7,
	}
	decisions := []models.Decision{decision("t1", "s1", 0.45)}

	recs := Recommendations(weak, decisions)
	if len(recs) != 5 {
		t.Errorf("Expected all 5 recommendations to trigger, got %d: %v", len(recs), recs)
	}

	healthy := models.OptimizationMetrics{
		SkillUtilization:       0.9,
		WorkloadBalance:        0.95,
		ExpectedCompletionRate: 0.9,
		FairnessIndex:          0.95,
	}
	good := []models.Decision{decision("t1", "s1", 0.85)}
	if recs := Recommendations(healthy, good); len(recs) != 0 {
		t.Errorf("Expected no recommendations for a healthy run, got %v", recs)
	}
}

func TestWarnings(t *testing.T) {
	var decisions []models.Decision
	for i := 0; i < 5; i++ {
		decisions = append(decisions, decision(string(rune('a'+i)), "s1", 0.8))
	}
	decisions = append(decisions, decision("low", "s2", 0.3))

	tasks := make([]models.Task, 0, 7)
	for _, d := range decisions {
		tasks = append(tasks, models.Task{ID: d.TaskID})
	}
	tasks = append(tasks, models.Task{ID: "orphan"})

	warnings := Warnings(decisions, tasks)

	var overloaded, lowConfidence, unassigned bool
	for _, w := range warnings {
		if strings.Contains(w, "overloaded") && strings.Contains(w, "s1") {
			overloaded = true
		}
		if strings.Contains(w, "low confidence") {
			lowConfidence = true
		}
		if strings.Contains(w, "could not be assigned") {
			unassigned = true
		}
	}

	if !overloaded {
		t.Errorf("Expected an overload warning for s1, got %v", warnings)
	}
	if !lowConfidence {
		t.Errorf("Expected a low-confidence warning, got %v", warnings)
	}
	if !unassigned {
		t.Errorf("Expected an unassigned-task warning, got %v", warnings)
	}
}

func TestGini(t *testing.T) {
	cases := []struct {
		counts []int
		want   float64
	}{
		{[]int{}, 0},
		{[]int{2, 2}, 0},
		{[]int{1, 3}, 0.25},
		{[]int{0, 4}, 0.5},
	}
	for _, tc := range cases {
		if got := gini(tc.counts); !almostEqual(got, tc.want) {
			t.Errorf("gini(%v): expected %f, got %f", tc.counts, tc.want, got)
		}
	}
}

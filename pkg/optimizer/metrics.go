package optimizer

import (
	"fmt"
	"math"
	"sort"

	"github.com/arnavshah/assignment-api-go/pkg/models"
)

// ComputeMetrics summarizes the final decision list into aggregate run
// metrics. Everything defaults to 0 for an empty decision list.
func ComputeMetrics(decisions []models.Decision) models.OptimizationMetrics {
	if len(decisions) == 0 {
		return models.OptimizationMetrics{}
	}

	var scoreSum, skillSum, confidenceSum float64
	for _, d := range decisions {
		scoreSum += d.Score
		skillSum += d.Reasoning.SkillScore
		confidenceSum += d.Reasoning.OverallConfidence
	}
	n := float64(len(decisions))

	counts := assignmentCounts(decisions)

	return models.OptimizationMetrics{
		TotalScore:             scoreSum / n,
		SkillUtilization:       skillSum / n,
		WorkloadBalance:        workloadBalance(counts),
		ExpectedCompletionRate: confidenceSum / n,
		FairnessIndex:          1 - math.Abs(gini(counts)),
	}
}

func assignmentCounts(decisions []models.Decision) []int {
	byStaff := make(map[string]int)
	for _, d := range decisions {
		byStaff[d.AssignedTo]++
	}
	counts := make([]int, 0, len(byStaff))
	for _, c := range byStaff {
		counts = append(counts, c)
	}
	sort.Ints(counts)
	return counts
}

// workloadBalance is 1 minus the coefficient of variation of per-staff
// assignment counts, floored at 0
func workloadBalance(counts []int) float64 {
	if len(counts) == 0 {
		return 0
	}
	sum := 0
	for _, c := range counts {
		sum += c
	}
	mean := float64(sum) / float64(len(counts))

	var varianceSum float64
	for _, c := range counts {
		diff := float64(c) - mean
		varianceSum += diff * diff
	}
	stdev := math.Sqrt(varianceSum / float64(len(counts)))

	return math.Max(0, 1-stdev/math.Max(1, mean))
}

// gini computes the standard Gini coefficient over ascending-sorted counts
func gini(counts []int) float64 {
	n := len(counts)
	if n == 0 {
		return 0
	}
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return 0
	}
	var weighted float64
	for i, c := range counts {
		weighted += float64(2*(i+1)-n-1) * float64(c)
	}
	return weighted / (float64(n) * float64(total))
}

// Recommendations inspects the run metrics and decisions and suggests
// follow-up actions. Checks are additive: every triggered condition
// contributes its own line.
func Recommendations(metrics models.OptimizationMetrics, decisions []models.Decision) []string {
	var recs []string

	if metrics.SkillUtilization < 0.6 {
		recs = append(recs, "Skill utilization is low; consider training staff on the required task categories")
	}
	if metrics.WorkloadBalance < 0.7 {
		recs = append(recs, "Workload is unevenly distributed; consider redistributing tasks across staff")
	}
	if metrics.ExpectedCompletionRate < 0.8 {
		recs = append(recs, "Expected completion rate is below target; consider extra support or extending deadlines")
	}
	for _, d := range decisions {
		if d.Score < 0.5 {
			recs = append(recs, "Some assignments have weak matches; consider reassignment or providing training resources")
			break
		}
	}
	if metrics.FairnessIndex < 0.8 {
		recs = append(recs, "Assignment distribution is uneven; consider rebalancing across staff")
	}

	return recs
}

// Warnings reports conditions the caller should surface to the operator:
// overloaded staff, low-confidence decisions and tasks left unassigned.
func Warnings(decisions []models.Decision, tasks []models.Task) []string {
	var warnings []string

	byStaff := make(map[string]int)
	staffOrder := make([]string, 0)
	for _, d := range decisions {
		if _, seen := byStaff[d.AssignedTo]; !seen {
			staffOrder = append(staffOrder, d.AssignedTo)
		}
		byStaff[d.AssignedTo]++
	}
	for _, id := range staffOrder {
		if byStaff[id] > 4 {
			warnings = append(warnings, fmt.Sprintf("Staff member %s received %d tasks in this run and may be overloaded", id, byStaff[id]))
		}
	}

	lowConfidence := 0
	for _, d := range decisions {
		if d.Score < 0.4 {
			lowConfidence++
		}
	}
	if lowConfidence > 0 {
		warnings = append(warnings, fmt.Sprintf("%d assignment(s) have low confidence scores", lowConfidence))
	}

	assigned := make(map[string]bool, len(decisions))
	for _, d := range decisions {
		assigned[d.TaskID] = true
	}
	unassigned := 0
	for _, t := range tasks {
		if !assigned[t.ID] {
			unassigned++
		}
	}
	if unassigned > 0 {
		warnings = append(warnings, fmt.Sprintf("%d task(s) could not be assigned under the current constraints", unassigned))
	}

	return warnings
}

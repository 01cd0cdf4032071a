package optimizer

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/arnavshah/assignment-api-go/pkg/models"
)

// roleKeywords maps each staff role to the task categories/tags it has a
// natural affinity for. The admin role skips the lookup and gets a flat
// affinity instead.
var roleKeywords = map[string][]string{
	models.RoleChef:    {"kitchen", "food", "cooking", "prep", "inventory"},
	models.RoleWaiter:  {"service", "customer", "cleaning", "front", "dining"},
	models.RoleManager: {"management", "training", "audit", "reporting"},
}

// targetProficiency maps task difficulty to the ideal average skill level
func targetProficiency(difficulty string) float64 {
	switch difficulty {
	case models.DifficultyBeginner:
		return 3
	case models.DifficultyIntermediate:
		return 6
	case models.DifficultyAdvanced:
		return 9
	default:
		return 5
	}
}

// Scorer evaluates a single (task, staff) pair against the run's weights.
// Now is fixed once per run so repeated runs over the same snapshot stay
// deterministic within the run.
type Scorer struct {
	Weights  models.CriteriaWeights
	Priority string
	Now      time.Time
}

// DefaultWeights returns the standard criteria weights
func DefaultWeights() models.CriteriaWeights {
	return models.CriteriaWeights{
		Skill:        0.3,
		Availability: 0.25,
		Workload:     0.2,
		Performance:  0.25,
		Fairness:     0.2,
	}
}

// NewScorer creates a scorer for one run. Zero-valued weights fall back to
// the defaults so a partially-specified config still scores sensibly.
func NewScorer(cfg models.RunConfig, now time.Time) *Scorer {
	w := cfg.Weights
	if w == (models.CriteriaWeights{}) {
		w = DefaultWeights()
	}
	return &Scorer{Weights: w, Priority: cfg.Priority, Now: now}
}

// Evaluate scores one staff member for one task and returns a draft decision
// (no alternatives attached yet; the allocator fills those in).
func (s *Scorer) Evaluate(task models.Task, staff models.StaffMember) models.Decision {
	skill := s.SkillScore(task, staff)
	availability := s.AvailabilityScore(staff)
	workload := s.WorkloadScore(staff)
	performance := s.PerformanceScore(staff)

	composite := round3(skill*s.Weights.Skill +
		availability*s.Weights.Availability +
		workload*s.Weights.Workload +
		performance*s.Weights.Performance)

	reasoning := models.Reasoning{
		SkillScore:        skill,
		AvailabilityScore: availability,
		WorkloadScore:     workload,
		PerformanceScore:  performance,
		OverallConfidence: math.Min(0.95, composite),
	}
	reasoning.KeyFactors = keyFactors(reasoning)

	estimated := s.EstimateMinutes(task, staff)

	return models.Decision{
		TaskID:           task.ID,
		AssignedTo:       staff.ID,
		Score:            composite,
		Reasoning:        reasoning,
		EstimatedMinutes: estimated,
		RecommendedDue:   s.RecommendDueDate(estimated),
	}
}

// SkillScore rates how well the staff member's role, skills and experience
// fit the task. Base 0.5, up to +0.4 role affinity, up to +0.4 skill
// proficiency fit, up to +0.2 same-difficulty experience.
func (s *Scorer) SkillScore(task models.Task, staff models.StaffMember) float64 {
	score := 0.5

	score += 0.4 * roleAffinity(staff.Role, task)

	matching := matchingSkills(staff.Skills, task)
	if len(matching) > 0 {
		target := targetProficiency(task.Difficulty)
		var sum float64
		for _, sk := range matching {
			sum += float64(sk.Proficiency)
		}
		avg := sum / float64(len(matching))
		fit := 1 - math.Abs(avg-target)/10
		if fit < 0 {
			fit = 0
		}
		score += 0.4 * fit
	}

	score += 0.2 * experienceMatch(staff.History, task.Difficulty)

	return clamp(score, 0, 1)
}

// roleAffinity is the fraction of the role's keyword list found in the
// task's category or tags, capped at 0.8. Admins get a flat 0.8.
func roleAffinity(role string, task models.Task) float64 {
	if role == models.RoleAdmin {
		return 0.8
	}
	keywords, ok := roleKeywords[role]
	if !ok || len(keywords) == 0 {
		return 0
	}

	haystack := strings.ToLower(task.Category)
	for _, tag := range task.Tags {
		haystack += " " + strings.ToLower(tag)
	}

	matched := 0
	for _, kw := range keywords {
		if strings.Contains(haystack, kw) {
			matched++
		}
	}

	return math.Min(0.8, float64(matched)/float64(len(keywords)))
}

// matchingSkills returns the skills whose name or category textually
// overlaps the task's tags or category
func matchingSkills(skills []models.Skill, task models.Task) []models.Skill {
	terms := make([]string, 0, len(task.Tags)+1)
	if task.Category != "" {
		terms = append(terms, strings.ToLower(task.Category))
	}
	for _, tag := range task.Tags {
		if tag != "" {
			terms = append(terms, strings.ToLower(tag))
		}
	}

	var matched []models.Skill
	for _, sk := range skills {
		name := strings.ToLower(sk.Name)
		category := strings.ToLower(sk.Category)
		for _, term := range terms {
			if overlaps(name, term) || (category != "" && overlaps(category, term)) {
				matched = append(matched, sk)
				break
			}
		}
	}
	return matched
}

func overlaps(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// experienceMatch rates past completions at the same difficulty tier:
// the fully-completed fraction plus a small volume bonus, capped at 1.
// No same-tier history yields a flat 0.3.
func experienceMatch(history []models.Completion, difficulty string) float64 {
	relevant := 0
	completed := 0
	for _, h := range history {
		if h.Difficulty == difficulty {
			relevant++
			if h.CompletionRate >= 100 {
				completed++
			}
		}
	}
	if relevant == 0 {
		return 0.3
	}
	rate := float64(completed)/float64(relevant) + 0.05*float64(relevant)
	return math.Min(1, rate)
}

// AvailabilityScore starts at 1.0 and deducts for current load, overdue
// commitments and high-priority commitments. Clamped to [0.1, 1].
func (s *Scorer) AvailabilityScore(staff models.StaffMember) float64 {
	score := 1.0

	score -= math.Min(0.8, float64(len(staff.Commitments))*0.1)

	overdue := 0
	urgent := 0
	for _, c := range staff.Commitments {
		open := c.Status == models.StatusPending || c.Status == models.StatusInProgress
		if open && c.DueDate != nil && c.DueDate.Before(s.Now) {
			overdue++
		}
		if c.Priority == "high" || c.Priority == "urgent" {
			urgent++
		}
	}
	score -= 0.15 * float64(overdue)
	score -= 0.1 * float64(urgent)

	return clamp(score, 0.1, 1)
}

// WorkloadScore rates total committed minutes against a 180-minute
// reference window using a piecewise curve: a slight preference for staff
// who already carry some work (ratio near 1.0) over the completely idle.
func (s *Scorer) WorkloadScore(staff models.StaffMember) float64 {
	total := 0
	for _, c := range staff.Commitments {
		minutes := c.EstimatedMinutes
		if minutes <= 0 {
			minutes = 30
		}
		total += minutes
	}

	ratio := float64(total) / 180.0

	var score float64
	switch {
	case ratio <= 0.5:
		score = 0.7 + ratio*0.6
	case ratio <= 1.0:
		score = 1.0
	case ratio <= 1.5:
		score = 1.0 - (ratio-1.0)*0.4
	default:
		score = math.Max(0.2, 0.8-(ratio-1.5)*0.3)
	}

	return clamp(score, 0.1, 1)
}

// PerformanceScore rates overall completion history: completion rate, time
// efficiency on finished work, and a recent-trend adjustment when there is
// enough activity in the last 30 days. No history yields a neutral 0.6.
func (s *Scorer) PerformanceScore(staff models.StaffMember) float64 {
	if len(staff.History) == 0 {
		return 0.6
	}

	score := 0.5

	completed := 0
	for _, h := range staff.History {
		if h.CompletionRate >= 100 {
			completed++
		}
	}
	overallRate := float64(completed) / float64(len(staff.History))
	score += 0.4 * overallRate

	if completed > 0 {
		var effSum float64
		for _, h := range staff.History {
			if h.CompletionRate >= 100 {
				spent := float64(h.TimeSpentMinutes)
				if spent < 1 {
					spent = 1
				}
				effSum += math.Min(1, 30/spent)
			}
		}
		score += 0.3 * (effSum / float64(completed))
	}

	cutoff := s.Now.AddDate(0, 0, -30)
	recent := 0
	recentCompleted := 0
	for _, h := range staff.History {
		if h.LastActivity.After(cutoff) {
			recent++
			if h.CompletionRate >= 100 {
				recentCompleted++
			}
		}
	}
	if recent >= 3 {
		recentRate := float64(recentCompleted) / float64(recent)
		score += 0.3 * (recentRate - overallRate)
	}

	return clamp(score, 0.1, 1)
}

// keyFactors ranks the four sub-scores and emits up to three short
// explanations, strongest factor first
func keyFactors(r models.Reasoning) []string {
	type factor struct {
		name  string
		score float64
	}
	factors := []factor{
		{"skill", r.SkillScore},
		{"availability", r.AvailabilityScore},
		{"workload", r.WorkloadScore},
		{"performance", r.PerformanceScore},
	}
	sort.SliceStable(factors, func(i, j int) bool {
		return factors[i].score > factors[j].score
	})

	var out []string
	for _, f := range factors {
		if len(out) >= 3 {
			break
		}
		switch {
		case f.score > 0.7:
			out = append(out, fmt.Sprintf("Strong %s match", f.name))
		case f.score > 0.5:
			out = append(out, fmt.Sprintf("Good %s alignment", f.name))
		case f.score < 0.3:
			out = append(out, fmt.Sprintf("Limited %s match", f.name))
		}
	}
	return out
}

// EstimateMinutes predicts completion time for this staff member: the
// task's standard duration adjusted by proficiency, blended 50/50 with the
// member's historical mean on fully-completed work. Floored at 10 minutes.
func (s *Scorer) EstimateMinutes(task models.Task, staff models.StaffMember) int {
	estimate := float64(task.EstimatedMinutes)
	if estimate <= 0 {
		estimate = 30
	}

	if len(staff.Skills) > 0 {
		var sum float64
		for _, sk := range staff.Skills {
			sum += float64(sk.Proficiency)
		}
		avg := sum / float64(len(staff.Skills))
		estimate *= math.Max(0.5, 1-((avg-5)/10)*0.3)
	}

	var spentSum float64
	completed := 0
	for _, h := range staff.History {
		if h.CompletionRate >= 100 {
			spentSum += float64(h.TimeSpentMinutes)
			completed++
		}
	}
	if completed > 0 {
		estimate = (estimate + spentSum/float64(completed)) / 2
	}

	if estimate < 10 {
		estimate = 10
	}
	return int(math.Round(estimate))
}

// RecommendDueDate derives a due date from the batch priority, pushed out
// for longer estimates
func (s *Scorer) RecommendDueDate(estimatedMinutes int) time.Time {
	var days int
	switch s.Priority {
	case "urgent":
		days = 1
	case "high":
		days = 2
	case "medium":
		days = 3
	case "low":
		days = 5
	default:
		days = 3
	}
	if estimatedMinutes > 60 {
		days++
	}
	if estimatedMinutes > 120 {
		days++
	}
	return s.Now.AddDate(0, 0, days)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

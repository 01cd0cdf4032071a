package models

import "time"

// Staff roles form a small closed set used for role-to-category affinity.
const (
	RoleChef    = "chef"
	RoleWaiter  = "waiter"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

// Task difficulty tiers.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Commitment statuses that count as still open.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
)

// Skill is a named competency with a 1-10 proficiency level
type Skill struct {
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	Proficiency int    `json:"proficiency"`
}

// Commitment is an active piece of work already on a staff member's plate
type Commitment struct {
	ID               string     `json:"id"`
	EstimatedMinutes int        `json:"estimated_minutes"`
	DueDate          *time.Time `json:"due_date,omitempty"`
	Priority         string     `json:"priority,omitempty"`
	Status           string     `json:"status"`
}

// Completion is one historical task completion record
type Completion struct {
	Difficulty       string    `json:"difficulty"`
	CompletionRate   float64   `json:"completion_rate"` // 0-100
	TimeSpentMinutes int       `json:"time_spent_minutes"`
	LastActivity     time.Time `json:"last_activity"`
}

// StaffMember is a candidate eligible to receive task assignments
type StaffMember struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Role        string       `json:"role"`
	Skills      []Skill      `json:"skills,omitempty"`
	Commitments []Commitment `json:"active_commitments,omitempty"`
	History     []Completion `json:"completion_history,omitempty"`
}

// Task is a unit of SOP work to be assigned in one optimization run
type Task struct {
	ID               string   `json:"id"`
	Title            string   `json:"title,omitempty"`
	Difficulty       string   `json:"difficulty"`
	EstimatedMinutes int      `json:"estimated_minutes"`
	Tags             []string `json:"tags,omitempty"`
	Category         string   `json:"category,omitempty"`
}

// CriteriaWeights holds the relative importance of each scoring criterion.
// Values are intended to lie in [0,1]; they are not required to sum to 1.
type CriteriaWeights struct {
	Skill        float64 `json:"skill_match"`
	Availability float64 `json:"availability"`
	Workload     float64 `json:"workload_balance"`
	Performance  float64 `json:"past_performance"`
	Fairness     float64 `json:"fairness"`
}

// Constraints restricts which staff may receive assignments in a run
type Constraints struct {
	MaxPerPerson int      `json:"max_tasks_per_person,omitempty"`
	AllowedRoles []string `json:"allowed_roles,omitempty"`
	ExcludeIDs   []string `json:"exclude_staff,omitempty"`
	IncludeIDs   []string `json:"include_staff,omitempty"`
}

// RunConfig carries the weights, batch priority and constraints for one run
type RunConfig struct {
	Weights     CriteriaWeights `json:"weights"`
	Priority    string          `json:"priority,omitempty"` // low/medium/high/urgent
	Constraints Constraints     `json:"constraints,omitempty"`
}

// Reasoning is the per-decision score breakdown
type Reasoning struct {
	SkillScore        float64  `json:"skill_score"`
	AvailabilityScore float64  `json:"availability_score"`
	WorkloadScore     float64  `json:"workload_score"`
	PerformanceScore  float64  `json:"performance_score"`
	OverallConfidence float64  `json:"overall_confidence"`
	KeyFactors        []string `json:"key_factors,omitempty"`
}

// Alternative is a runner-up suggestion attached to a decision
type Alternative struct {
	StaffID string  `json:"staff_id"`
	Score   float64 `json:"score"`
	Reason  string  `json:"reason"`
}

// Decision is one task-to-staff assignment produced by the optimizer
type Decision struct {
	TaskID           string        `json:"task_id"`
	AssignedTo       string        `json:"assigned_to"`
	Score            float64       `json:"score"`
	Reasoning        Reasoning     `json:"reasoning"`
	EstimatedMinutes int           `json:"estimated_completion_minutes"`
	RecommendedDue   time.Time     `json:"recommended_due_date"`
	Alternatives     []Alternative `json:"alternatives,omitempty"`
}

// OptimizationMetrics summarizes one run's decision set
type OptimizationMetrics struct {
	TotalScore             float64 `json:"total_score"`
	SkillUtilization       float64 `json:"skill_utilization"`
	WorkloadBalance        float64 `json:"workload_balance"`
	ExpectedCompletionRate float64 `json:"expected_completion_rate"`
	FairnessIndex          float64 `json:"fairness_index"`
}

// OptimizeInput is the request body for the optimize endpoints
type OptimizeInput struct {
	Tasks  []Task        `json:"tasks"`
	Staff  []StaffMember `json:"staff"`
	Config RunConfig     `json:"config"`
}

// OptimizeResponse is the full result bundle of one run
type OptimizeResponse struct {
	Decisions       []Decision          `json:"decisions"`
	Metrics         OptimizationMetrics `json:"metrics"`
	Recommendations []string            `json:"recommendations"`
	Warnings        []string            `json:"warnings"`
}

// ApplyInput is the request body for persisting accepted decisions
type ApplyInput struct {
	Decisions []Decision `json:"decisions"`
}

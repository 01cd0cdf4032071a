// Package optimizer decides which staff member should execute each pending
// SOP task in a batch. It scores every (task, staff) pair on skill fit,
// availability, workload and past performance, then allocates greedily with
// a fairness adjustment and summarizes the result.
//
// The whole computation is pure and synchronous: it performs no I/O, takes
// its own snapshot of the inputs, and repeated calls with identical inputs
// return identical results. Concurrent runs need no coordination.
package optimizer

import (
	"errors"
	"time"

	"github.com/arnavshah/assignment-api-go/pkg/models"
)

var (
	// ErrNoTasks is returned when the batch contains no tasks
	ErrNoTasks = errors.New("optimizer: no tasks to assign")
	// ErrNoEligibleStaff is returned when constraint filtering leaves no candidates
	ErrNoEligibleStaff = errors.New("optimizer: no eligible staff after applying constraints")
)

// Optimize runs one full optimization pass: eligibility filtering, pairwise
// scoring, greedy allocation, and metrics/advisory generation. It fails only
// on empty input; tasks that cannot be placed under the per-person cap are
// reported as warnings, not errors.
func Optimize(tasks []models.Task, staff []models.StaffMember, cfg models.RunConfig) (*models.OptimizeResponse, error) {
	return OptimizeAt(tasks, staff, cfg, time.Now())
}

// OptimizeAt is Optimize with an explicit clock, used by tests and by hosts
// that want reproducible due dates.
func OptimizeAt(tasks []models.Task, staff []models.StaffMember, cfg models.RunConfig, now time.Time) (*models.OptimizeResponse, error) {
	scorer := NewScorer(cfg, now)

	matrix, err := BuildMatrix(tasks, staff, cfg, scorer)
	if err != nil {
		return nil, err
	}

	decisions := Allocate(matrix, cfg, scorer.Weights.Fairness)
	metrics := ComputeMetrics(decisions)

	return &models.OptimizeResponse{
		Decisions:       decisions,
		Metrics:         metrics,
		Recommendations: Recommendations(metrics, decisions),
		Warnings:        Warnings(decisions, tasks),
	}, nil
}

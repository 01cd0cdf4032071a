package handlers

import (
	"net/http"

	"github.com/arnavshah/assignment-api-go/pkg/models"
	"github.com/gin-gonic/gin"
)

// ValidateInput handles the JSON-based validation request
func (h *Handler) ValidateInput(c *gin.Context) {
	var input models.OptimizeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	// Basic validation of data structures
	if len(input.Staff) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": "At least one staff member is required",
		})
		return
	}

	if len(input.Tasks) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": "At least one task is required",
		})
		return
	}

	// Check for duplicate IDs
	staffIDs := make(map[string]bool)
	for _, s := range input.Staff {
		if staffIDs[s.ID] {
			c.JSON(http.StatusOK, gin.H{"valid": false, "error": "Duplicate staff ID: " + s.ID})
			return
		}
		staffIDs[s.ID] = true

		for _, sk := range s.Skills {
			if sk.Proficiency < 0 || sk.Proficiency > 10 {
				c.JSON(http.StatusOK, gin.H{"valid": false, "error": "Skill proficiency out of range for staff: " + s.ID})
				return
			}
		}
		for _, hist := range s.History {
			if hist.CompletionRate < 0 || hist.CompletionRate > 100 {
				c.JSON(http.StatusOK, gin.H{"valid": false, "error": "Completion rate out of range for staff: " + s.ID})
				return
			}
		}
	}

	taskIDs := make(map[string]bool)
	for _, t := range input.Tasks {
		if taskIDs[t.ID] {
			c.JSON(http.StatusOK, gin.H{"valid": false, "error": "Duplicate task ID: " + t.ID})
			return
		}
		taskIDs[t.ID] = true
	}

	weights := []float64{
		input.Config.Weights.Skill,
		input.Config.Weights.Availability,
		input.Config.Weights.Workload,
		input.Config.Weights.Performance,
		input.Config.Weights.Fairness,
	}
	for _, w := range weights {
		if w < 0 || w > 1 {
			c.JSON(http.StatusOK, gin.H{"valid": false, "error": "Criteria weights must lie in [0,1]"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"stats": gin.H{
			"staff_count": len(input.Staff),
			"task_count":  len(input.Tasks),
		},
	})
}

package handlers

import (
	"fmt"
	"net/http"

	"github.com/arnavshah/assignment-api-go/pkg/database"
	"github.com/arnavshah/assignment-api-go/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ApplyAccepted persists accepted decisions as assignment records,
// attaching the caller's identity and a note with the composite score
func (h *Handler) ApplyAccepted(c *gin.Context) {
	var input models.ApplyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(input.Decisions) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one decision is required"})
		return
	}

	assignedBy, _ := c.Get("userID")
	assigner, _ := assignedBy.(string)

	records := make([]database.AssignmentRecord, 0, len(input.Decisions))
	for _, d := range input.Decisions {
		records = append(records, database.AssignmentRecord{
			Ref:        uuid.NewString(),
			TaskID:     d.TaskID,
			StaffID:    d.AssignedTo,
			AssignedBy: assigner,
			Score:      d.Score,
			Note:       fmt.Sprintf("Auto-assigned with composite score %.3f", d.Score),
			DueDate:    d.RecommendedDue,
			Status:     "pending",
		})
	}

	if err := h.DB.Create(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not store assignment records"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": records})
}

// GetActiveAssignments returns the open assignment records for one staff
// member so callers can rebuild their active commitments for later runs
func (h *Handler) GetActiveAssignments(c *gin.Context) {
	staffID := c.Param("staff_id")

	records, err := database.ActiveAssignments(h.DB, staffID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch assignment records"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"staff_id":    staffID,
		"assignments": records,
	})
}

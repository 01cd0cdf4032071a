package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/arnavshah/assignment-api-go/pkg/database"
	"github.com/arnavshah/assignment-api-go/pkg/models"
	"github.com/arnavshah/assignment-api-go/pkg/optimizer"
	"github.com/gin-gonic/gin"
)

// OptimizeCSV handles CSV file uploads for optimization. Staff rows carry
// id/name/role/skills; active commitments are rebuilt from stored
// assignment records rather than the upload.
func (h *Handler) OptimizeCSV(c *gin.Context) {
	// 1. Get files
	staffFile, _ := c.FormFile("staff_file")
	tasksFile, _ := c.FormFile("tasks_file")

	if staffFile == nil || tasksFile == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "staff_file and tasks_file are required"})
		return
	}

	// Parse staff
	sFile, err := staffFile.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open staff file"})
		return
	}
	defer sFile.Close()
	sReader := csv.NewReader(sFile)
	sHeader, err := sReader.Read()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read staff header"})
		return
	}
	sCols := make(map[string]int)
	for i, name := range sHeader {
		sCols[name] = i
	}

	var staff []models.StaffMember
	for {
		record, err := sReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		id := record[sCols["id"]]

		var skills []models.Skill
		if col, ok := sCols["skills"]; ok && record[col] != "" {
			for _, part := range strings.Split(record[col], "|") {
				if strings.Contains(part, ":") {
					sp := strings.Split(part, ":")
					prof, _ := strconv.Atoi(strings.TrimSpace(sp[1]))
					skills = append(skills, models.Skill{
						Name:        strings.TrimSpace(sp[0]),
						Proficiency: prof,
					})
				}
			}
		}

		staff = append(staff, models.StaffMember{
			ID:          id,
			Name:        record[sCols["name"]],
			Role:        record[sCols["role"]],
			Skills:      skills,
			Commitments: h.commitmentsFromRecords(id),
		})
	}

	// Parse tasks
	tFile, err := tasksFile.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open tasks file"})
		return
	}
	defer tFile.Close()
	tReader := csv.NewReader(tFile)
	tHeader, err := tReader.Read()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read tasks header"})
		return
	}
	tCols := make(map[string]int)
	for i, name := range tHeader {
		tCols[name] = i
	}

	var tasks []models.Task
	for {
		record, err := tReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		minutes := 0
		if col, ok := tCols["estimated_minutes"]; ok {
			minutes, _ = strconv.Atoi(record[col])
		}

		var tags []string
		if col, ok := tCols["tags"]; ok && record[col] != "" {
			tags = strings.Split(record[col], "|")
		}

		task := models.Task{
			ID:               record[tCols["id"]],
			Difficulty:       record[tCols["difficulty"]],
			EstimatedMinutes: minutes,
			Tags:             tags,
		}
		if col, ok := tCols["title"]; ok {
			task.Title = record[col]
		}
		if col, ok := tCols["category"]; ok {
			task.Category = record[col]
		}
		tasks = append(tasks, task)
	}

	cfg := models.RunConfig{
		Priority: c.PostForm("priority"),
	}
	if maxPer := c.PostForm("max_tasks_per_person"); maxPer != "" {
		cfg.Constraints.MaxPerPerson, _ = strconv.Atoi(maxPer)
	}

	result, err := optimizer.Optimize(tasks, staff, cfg)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Record usage
	h.RecordUsage(c, len(tasks), len(staff))

	// Export CSV
	staffNames := make(map[string]string, len(staff))
	for _, member := range staff {
		staffNames[member.ID] = member.Name
	}

	var outCSV strings.Builder
	writer := csv.NewWriter(&outCSV)
	writer.Write([]string{"task_id", "staff_id", "staff_name", "score", "estimated_minutes", "recommended_due"})

	for _, d := range result.Decisions {
		writer.Write([]string{
			d.TaskID,
			d.AssignedTo,
			staffNames[d.AssignedTo],
			fmt.Sprintf("%.3f", d.Score),
			strconv.Itoa(d.EstimatedMinutes),
			d.RecommendedDue.Format(time.RFC3339),
		})
	}
	writer.Flush()

	c.JSON(http.StatusOK, gin.H{
		"csv":      outCSV.String(),
		"metrics":  result.Metrics,
		"warnings": result.Warnings,
	})
}

// commitmentsFromRecords rebuilds a staff member's active commitments from
// their open assignment records
func (h *Handler) commitmentsFromRecords(staffID string) []models.Commitment {
	records, err := database.ActiveAssignments(h.DB, staffID)
	if err != nil {
		return nil
	}

	var commitments []models.Commitment
	for _, rec := range records {
		due := rec.DueDate
		commitments = append(commitments, models.Commitment{
			ID:      rec.Ref,
			DueDate: &due,
			Status:  rec.Status,
		})
	}
	return commitments
}

package database

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// APIKey represents the api_keys table
type APIKey struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Key        string     `gorm:"unique;not null" json:"key"`
	Name       string     `gorm:"not null" json:"name"`
	KeyPreview string     `json:"key_preview"`
	RateLimit  int        `gorm:"default:10000" json:"rate_limit"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsed   *time.Time `json:"last_used"`
}

// APIUsage represents the api_usage table
type APIUsage struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	KeyID        uint   `gorm:"uniqueIndex:idx_key_date;not null" json:"key_id"`
	Date         string `gorm:"uniqueIndex:idx_key_date;not null" json:"date"`
	RequestCount int    `gorm:"default:0" json:"request_count"`
	TotalTasks   int    `gorm:"default:0" json:"total_tasks"`
	TotalStaff   int    `gorm:"default:0" json:"total_staff"`
}

// MasterUser represents the master_users table
type MasterUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// AssignmentRecord is a persisted, accepted assignment decision. Open
// records for a staff member feed back into later runs as their active
// commitments.
type AssignmentRecord struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Ref        string    `gorm:"unique;not null" json:"ref"`
	TaskID     string    `gorm:"index;not null" json:"task_id"`
	StaffID    string    `gorm:"index;not null" json:"staff_id"`
	AssignedBy string    `json:"assigned_by"`
	Score      float64   `json:"score"`
	Note       string    `json:"note"`
	DueDate    time.Time `json:"due_date"`
	Status     string    `gorm:"default:pending" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// ActiveAssignments returns the open records for one staff member, oldest
// first, for hosts that rebuild active commitments between runs.
func ActiveAssignments(db *gorm.DB, staffID string) ([]AssignmentRecord, error) {
	var records []AssignmentRecord
	err := db.Where("staff_id = ? AND status IN ?", staffID, []string{"pending", "in_progress"}).
		Order("created_at asc").Find(&records).Error
	return records, err
}

// InitDB initializes the database connection and migrates the schema
func InitDB() *gorm.DB {
	var db *gorm.DB
	var err error

	dsn := os.Getenv("DATABASE_URL")
	if dsn != "" {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	} else {
		dbPath := os.Getenv("DATA_PATH")
		if dbPath == "" {
			dbPath = "assignments.db"
		}
		db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	}

	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	// Auto Migration
	db.AutoMigrate(&APIKey{}, &APIUsage{}, &MasterUser{}, &AssignmentRecord{})

	return db
}

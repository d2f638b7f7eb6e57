// Package database хранит задачи, прогоны заполнения форм и логи LLM в PostgreSQL через GORM.
package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Task - инструкция пользователя. Статусы: pending, running, completed, failed.
type Task struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserInput     string    `gorm:"type:text;not null" json:"user_input"`
	Status        string    `gorm:"type:varchar(32);not null;default:'pending'" json:"status"`
	ResultSummary string    `gorm:"type:text" json:"result_summary"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// FillRun - итог одного прогона заполнения форм на странице.
type FillRun struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	TaskID         *uint     `gorm:"index" json:"task_id,omitempty"`
	RunID          string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"run_id"`
	URL            string    `gorm:"type:text;not null" json:"url"`
	FormsDetected  int       `gorm:"not null;default:0" json:"forms_detected"`
	FormsSubmitted int       `gorm:"not null;default:0" json:"forms_submitted"`
	Report         string    `gorm:"type:text" json:"report"`
	Rates          string    `gorm:"type:text" json:"rates"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (r *FillRun) BeforeCreate(*gorm.DB) error {
	if r.RunID == "" {
		r.RunID = uuid.NewString()
	}
	return nil
}

type LlmLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TaskID       *uint     `gorm:"index" json:"task_id,omitempty"`
	Role         string    `gorm:"type:varchar(32);not null" json:"role"`
	PromptText   string    `gorm:"type:text;not null" json:"prompt_text"`
	ResponseText string    `gorm:"type:text" json:"response_text"`
	Model        string    `gorm:"type:varchar(64)" json:"model"`
	TokensUsed   int       `json:"tokens_used"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

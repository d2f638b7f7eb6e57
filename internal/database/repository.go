package database

import (
	"context"

	"gorm.io/gorm"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) CreateTask(t *Task) error {
	return r.db.Create(t).Error
}

func (r *TaskRepository) GetTaskByID(id uint) (*Task, error) {
	var task Task
	if err := r.db.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) ListTasks(limit, offset int) ([]Task, error) {
	var tasks []Task
	if err := r.db.Order("id DESC").Limit(limit).Offset(offset).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) UpdateTaskStatus(id uint, status, summary string) error {
	return r.db.Model(&Task{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":         status,
			"result_summary": summary,
		}).Error
}

func (r *TaskRepository) CreateRun(run *FillRun) error {
	return r.db.Create(run).Error
}

func (r *TaskRepository) GetRunsByTaskID(taskID uint) ([]FillRun, error) {
	var runs []FillRun
	if err := r.db.Where("task_id = ?", taskID).Order("id ASC").Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

func (r *TaskRepository) ListRuns(limit int) ([]FillRun, error) {
	var runs []FillRun
	if err := r.db.Order("id DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

// LogLLMRequest сохраняет запрос к LLM. Тексты должны приходить уже очищенными.
func (r *TaskRepository) LogLLMRequest(ctx context.Context, taskID *uint, role, promptText, responseText, model string, tokensUsed int) error {
	return r.db.WithContext(ctx).Create(&LlmLog{
		TaskID:       taskID,
		Role:         role,
		PromptText:   promptText,
		ResponseText: responseText,
		Model:        model,
		TokensUsed:   tokensUsed,
	}).Error
}

func (r *TaskRepository) GetLLMLogs(taskID *uint, limit int) ([]LlmLog, error) {
	q := r.db.Order("id DESC").Limit(limit)
	if taskID != nil {
		q = q.Where("task_id = ?", *taskID)
	}
	var logs []LlmLog
	if err := q.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

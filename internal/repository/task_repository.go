package repository

import (
	"time"

	"github.com/tiorionjames/dewlist/internal/model"
	"gorm.io/gorm"
)

// TaskRepository 任务仓储接口
type TaskRepository interface {
	Create(task *model.TaskModel) error
	Save(task *model.TaskModel) error
	FindByID(id string) (*model.TaskModel, error)
	FindByFilter(filter *TaskFilter) ([]*model.TaskModel, error)
	Delete(id string) error
}

// TaskFilter 任务查询过滤器
type TaskFilter struct {
	ActorID *string // 限定责任人(执行人或创建人)
	Status  *string
	Due     *string   // overdue/today/upcoming
	Now     time.Time // due 过滤的参照时刻(UTC)
}

// taskRepository 任务仓储实现
type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository 创建任务仓储
// 传入事务句柄时,所有操作在该事务内执行
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

// Create 新建任务
func (r *taskRepository) Create(task *model.TaskModel) error {
	return r.db.Create(task).Error
}

// Save 保存任务
func (r *taskRepository) Save(task *model.TaskModel) error {
	return r.db.Save(task).Error
}

// FindByID 根据 ID 查找任务
func (r *taskRepository) FindByID(id string) (*model.TaskModel, error) {
	var task model.TaskModel
	if err := r.db.Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindByFilter 根据过滤器查找任务
func (r *taskRepository) FindByFilter(filter *TaskFilter) ([]*model.TaskModel, error) {
	var tasks []*model.TaskModel
	query := r.db.Model(&model.TaskModel{})

	if filter != nil {
		if filter.ActorID != nil {
			query = query.Where("owner_id = ? OR assigned_to = ?", *filter.ActorID, *filter.ActorID)
		}
		if filter.Status != nil {
			query = query.Where("status = ?", *filter.Status)
		}
		if filter.Due != nil {
			now := filter.Now
			switch *filter.Due {
			case "overdue":
				query = query.Where("due_date < ? AND is_complete = ?", now, false)
			case "today":
				start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
				query = query.Where("due_date >= ? AND due_date < ?", start, start.Add(24*time.Hour))
			case "upcoming":
				query = query.Where("due_date > ?", now)
			}
		}
	}

	err := query.Order("created_at DESC").Find(&tasks).Error
	return tasks, err
}

// Delete 删除任务
func (r *taskRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&model.TaskModel{}).Error
}

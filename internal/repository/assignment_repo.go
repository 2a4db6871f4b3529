package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sahayak-edu/sahayak-api/internal/models"
)

// AssignmentRepository defines data operations for assignments and their answer keys.
type AssignmentRepository interface {
	GetByID(ctx context.Context, assignmentID string) (models.Assignment, error)
	Update(ctx context.Context, assignment *models.Assignment) error
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository instantiates the repository.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) GetByID(ctx context.Context, assignmentID string) (models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		First(&assignment).Error; err != nil {
		return models.Assignment{}, err
	}

	return assignment, nil
}

func (r *assignmentRepository) Update(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}

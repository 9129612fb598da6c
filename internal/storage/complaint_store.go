// Package storage is the relational record store for complaints.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/models"
	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("complaint not found")
	ErrStatusConflict = errors.New("complaint status changed concurrently")
)

// ListFilter narrows List results. The zero value returns every complaint.
type ListFilter struct {
	Status models.ComplaintStatus
}

// TransitionNote carries the status log details written with a transition.
type TransitionNote struct {
	AssignedTo *string
	Note       string
}

// ComplaintStore is the contract the lifecycle service persists through.
type ComplaintStore interface {
	Create(ctx context.Context, complaint *models.Complaint) error
	FindByID(ctx context.Context, id uint) (*models.Complaint, error)
	List(ctx context.Context, filter ListFilter) ([]models.Complaint, error)
	Transition(ctx context.Context, id uint, from, to models.ComplaintStatus, fields map[string]interface{}, note TransitionNote) error
	CountByStatus(ctx context.Context) (map[models.ComplaintStatus]int64, error)
	History(ctx context.Context, id uint) ([]models.ComplaintStatusLog, error)
	Ping(ctx context.Context) error
	HasSchema(ctx context.Context) (bool, error)
}

type GormComplaintStore struct {
	db *gorm.DB
}

func NewGormComplaintStore(db *gorm.DB) *GormComplaintStore {
	return &GormComplaintStore{db: db}
}

func (s *GormComplaintStore) Create(ctx context.Context, complaint *models.Complaint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(complaint).Error; err != nil {
			return fmt.Errorf("failed to insert complaint: %w", err)
		}
		entry := models.ComplaintStatusLog{
			ComplaintID: complaint.ID,
			NewStatus:   complaint.Status,
			Note:        "submitted",
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to insert status log: %w", err)
		}
		return nil
	})
}

func (s *GormComplaintStore) FindByID(ctx context.Context, id uint) (*models.Complaint, error) {
	var complaint models.Complaint
	err := s.db.WithContext(ctx).First(&complaint, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load complaint %d: %w", id, err)
	}
	return &complaint, nil
}

func (s *GormComplaintStore) List(ctx context.Context, filter ListFilter) ([]models.Complaint, error) {
	complaints := make([]models.Complaint, 0)
	query := s.db.WithContext(ctx).Model(&models.Complaint{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if err := query.Order("id DESC").Find(&complaints).Error; err != nil {
		return nil, fmt.Errorf("failed to list complaints: %w", err)
	}
	return complaints, nil
}

// Transition applies fields only if the row is still in status from. A missing row
// yields ErrNotFound and a row in any other status yields ErrStatusConflict.
func (s *GormComplaintStore) Transition(ctx context.Context, id uint, from, to models.ComplaintStatus, fields map[string]interface{}, note TransitionNote) error {
	updates := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		updates[k] = v
	}
	updates["status"] = to

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Complaint{}).
			Where("id = ? AND status = ?", id, from).
			Updates(updates)
		if result.Error != nil {
			return fmt.Errorf("failed to update complaint %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.Complaint{}).Where("id = ?", id).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to check complaint %d: %w", id, err)
			}
			if count == 0 {
				return ErrNotFound
			}
			return ErrStatusConflict
		}

		old := from
		entry := models.ComplaintStatusLog{
			ComplaintID: id,
			OldStatus:   &old,
			NewStatus:   to,
			AssignedTo:  note.AssignedTo,
			Note:        note.Note,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to insert status log: %w", err)
		}
		return nil
	})
}

func (s *GormComplaintStore) CountByStatus(ctx context.Context) (map[models.ComplaintStatus]int64, error) {
	var rows []struct {
		Status models.ComplaintStatus
		Count  int64
	}
	err := s.db.WithContext(ctx).Model(&models.Complaint{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count complaints: %w", err)
	}

	counts := make(map[models.ComplaintStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

func (s *GormComplaintStore) History(ctx context.Context, id uint) ([]models.ComplaintStatusLog, error) {
	history := make([]models.ComplaintStatusLog, 0)
	err := s.db.WithContext(ctx).
		Where("complaint_id = ?", id).
		Order("id ASC").
		Find(&history).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load history for complaint %d: %w", id, err)
	}
	return history, nil
}

func (s *GormComplaintStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormComplaintStore) HasSchema(ctx context.Context) (bool, error) {
	return s.db.WithContext(ctx).Migrator().HasTable(&models.Complaint{}), nil
}

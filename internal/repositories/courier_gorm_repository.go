package repositories

import (
	"errors"
	"fmt"

	"delivery/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCourierRepository is a GORM implementation of CourierRepository.
type GORMCourierRepository struct {
	db *gorm.DB
}

// NewGORMCourierRepository creates a new instance of GORMCourierRepository.
func NewGORMCourierRepository(db *gorm.DB) *GORMCourierRepository {
	return &GORMCourierRepository{db: db}
}

// GetByUserID retrieves the courier record for a user.
func (r *GORMCourierRepository) GetByUserID(userID string) (*models.Courier, error) {
	var courier models.Courier
	if err := r.db.First(&courier, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("courier for user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get courier for user %s: %w", userID, err)
	}
	return &courier, nil
}

// ExistsForUser reports whether a courier record exists for the user.
func (r *GORMCourierRepository) ExistsForUser(userID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Courier{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to count couriers for user %s: %w", userID, err)
	}
	return count > 0, nil
}

// Create creates a new courier record.
func (r *GORMCourierRepository) Create(courier *models.Courier) error {
	if courier.ID == "" {
		courier.ID = uuid.New().String()
	}
	if err := r.db.Create(courier).Error; err != nil {
		return fmt.Errorf("failed to create courier: %w", err)
	}
	return nil
}

// GORMApplicationRepository is a GORM implementation of ApplicationRepository.
type GORMApplicationRepository struct {
	db *gorm.DB
}

// NewGORMApplicationRepository creates a new instance of GORMApplicationRepository.
func NewGORMApplicationRepository(db *gorm.DB) *GORMApplicationRepository {
	return &GORMApplicationRepository{db: db}
}

// GetByID retrieves an application by its ID.
func (r *GORMApplicationRepository) GetByID(id string) (*models.CourierApplication, error) {
	var app models.CourierApplication
	if err := r.db.First(&app, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("application with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get application by ID %s: %w", id, err)
	}
	return &app, nil
}

// PendingFor retrieves the user's pending application.
func (r *GORMApplicationRepository) PendingFor(userID string) (*models.CourierApplication, error) {
	var app models.CourierApplication
	err := r.db.First(&app, "user_id = ? AND status = ?", userID, models.ApplicationStatusPending).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("pending application for user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get pending application for user %s: %w", userID, err)
	}
	return &app, nil
}

// Create creates a new application.
func (r *GORMApplicationRepository) Create(app *models.CourierApplication) error {
	if app.ID == "" {
		app.ID = uuid.New().String()
	}
	if app.Status == "" {
		app.Status = models.ApplicationStatusPending
	}
	if err := r.db.Create(app).Error; err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

// Decide moves the application from one status to another. The status guard
// is part of the UPDATE's WHERE clause, so concurrent decisions cannot both
// succeed.
func (r *GORMApplicationRepository) Decide(id string, from, to models.ApplicationStatus) error {
	res := r.db.Model(&models.CourierApplication{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return fmt.Errorf("failed to update application %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&models.CourierApplication{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to look up application %s: %w", id, err)
		}
		if count == 0 {
			return fmt.Errorf("application with ID %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("application %s is not %s: %w", id, from, ErrWrongStatus)
	}
	return nil
}

// Promote runs the whole acceptance in one transaction: the status moves to
// accepted (guarded by the same WHERE clause as Decide), the courier record
// is created, and the applicant's role becomes courier. A failure of any
// step rolls back the others, so an accepted application always has its
// Courier row and promoted user.
func (r *GORMApplicationRepository) Promote(id string, courier *models.Courier) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CourierApplication{}).
			Where("id = ? AND status = ?", id, models.ApplicationStatusPending).
			Update("status", models.ApplicationStatusAccepted)
		if res.Error != nil {
			return fmt.Errorf("failed to accept application %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("application %s is not %s: %w", id, models.ApplicationStatusPending, ErrWrongStatus)
		}

		if courier.ID == "" {
			courier.ID = uuid.New().String()
		}
		if err := tx.Create(courier).Error; err != nil {
			return fmt.Errorf("failed to create courier: %w", err)
		}

		res = tx.Model(&models.User{}).
			Where("id = ?", courier.UserID).
			Update("role", models.RoleCourier)
		if res.Error != nil {
			return fmt.Errorf("failed to update role for user %s: %w", courier.UserID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("user with ID %s for role update: %w", courier.UserID, ErrNotFound)
		}
		return nil
	})
}

// Pending lists all undecided applications, oldest first.
func (r *GORMApplicationRepository) Pending() ([]models.CourierApplication, error) {
	var apps []models.CourierApplication
	err := r.db.Where("status = ?", models.ApplicationStatusPending).
		Order("created_at ASC").
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending applications: %w", err)
	}
	return apps, nil
}

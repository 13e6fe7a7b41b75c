package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"delivery/internal/models"

	"github.com/google/uuid"
)

// MockCourierRepository is an in-memory implementation of CourierRepository.
type MockCourierRepository struct {
	couriers map[string]models.Courier
	mu       sync.RWMutex
}

// NewMockCourierRepository creates a new instance of MockCourierRepository.
func NewMockCourierRepository() *MockCourierRepository {
	return &MockCourierRepository{
		couriers: make(map[string]models.Courier),
	}
}

// GetByUserID retrieves the courier record for a user.
func (r *MockCourierRepository) GetByUserID(userID string) (*models.Courier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, courier := range r.couriers {
		if courier.UserID == userID {
			c := courier
			return &c, nil
		}
	}
	return nil, fmt.Errorf("courier for user %s: %w", userID, ErrNotFound)
}

// ExistsForUser reports whether a courier record exists for the user.
func (r *MockCourierRepository) ExistsForUser(userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, courier := range r.couriers {
		if courier.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

// Create adds a new courier record.
func (r *MockCourierRepository) Create(courier *models.Courier) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if courier.ID == "" {
		courier.ID = uuid.New().String()
	}
	courier.CreatedAt = time.Now()
	courier.UpdatedAt = time.Now()
	r.couriers[courier.ID] = *courier
	return nil
}

// MockApplicationRepository is an in-memory implementation of
// ApplicationRepository. Promote spans three aggregates, so the mock holds
// the courier and user mocks it writes through.
type MockApplicationRepository struct {
	apps     map[string]models.CourierApplication
	couriers *MockCourierRepository
	users    *MockUserRepository
	mu       sync.Mutex
}

// NewMockApplicationRepository creates a new instance of MockApplicationRepository.
func NewMockApplicationRepository(couriers *MockCourierRepository, users *MockUserRepository) *MockApplicationRepository {
	return &MockApplicationRepository{
		apps:     make(map[string]models.CourierApplication),
		couriers: couriers,
		users:    users,
	}
}

// GetByID retrieves an application by its ID.
func (r *MockApplicationRepository) GetByID(id string) (*models.CourierApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	app, ok := r.apps[id]
	if !ok {
		return nil, fmt.Errorf("application with ID %s: %w", id, ErrNotFound)
	}
	return &app, nil
}

// PendingFor retrieves the user's pending application.
func (r *MockApplicationRepository) PendingFor(userID string) (*models.CourierApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, app := range r.apps {
		if app.UserID == userID && app.Status == models.ApplicationStatusPending {
			a := app
			return &a, nil
		}
	}
	return nil, fmt.Errorf("pending application for user %s: %w", userID, ErrNotFound)
}

// Create adds a new application.
func (r *MockApplicationRepository) Create(app *models.CourierApplication) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if app.ID == "" {
		app.ID = uuid.New().String()
	}
	if app.Status == "" {
		app.Status = models.ApplicationStatusPending
	}
	app.CreatedAt = time.Now()
	app.UpdatedAt = time.Now()
	r.apps[app.ID] = *app
	return nil
}

// Decide moves the application from one status to another.
func (r *MockApplicationRepository) Decide(id string, from, to models.ApplicationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	app, ok := r.apps[id]
	if !ok {
		return fmt.Errorf("application with ID %s: %w", id, ErrNotFound)
	}
	if app.Status != from {
		return fmt.Errorf("application %s is not %s: %w", id, from, ErrWrongStatus)
	}
	app.Status = to
	app.UpdatedAt = time.Now()
	r.apps[id] = app
	return nil
}

// Promote accepts the application, creates the courier record, and promotes
// the user, undoing the status change if a later step fails.
func (r *MockApplicationRepository) Promote(id string, courier *models.Courier) error {
	r.mu.Lock()
	app, ok := r.apps[id]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("application with ID %s: %w", id, ErrNotFound)
	}
	if app.Status != models.ApplicationStatusPending {
		r.mu.Unlock()
		return fmt.Errorf("application %s is not %s: %w", id, models.ApplicationStatusPending, ErrWrongStatus)
	}
	app.Status = models.ApplicationStatusAccepted
	app.UpdatedAt = time.Now()
	r.apps[id] = app
	r.mu.Unlock()

	rollback := func() {
		r.mu.Lock()
		app.Status = models.ApplicationStatusPending
		r.apps[id] = app
		r.mu.Unlock()
	}
	if err := r.couriers.Create(courier); err != nil {
		rollback()
		return err
	}
	if err := r.users.UpdateRole(courier.UserID, models.RoleCourier); err != nil {
		rollback()
		return err
	}
	return nil
}

// Pending lists all undecided applications, oldest first.
func (r *MockApplicationRepository) Pending() ([]models.CourierApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var apps []models.CourierApplication
	for _, app := range r.apps {
		if app.Status == models.ApplicationStatusPending {
			apps = append(apps, app)
		}
	}
	sort.Slice(apps, func(i, j int) bool {
		return apps[i].CreatedAt.Before(apps[j].CreatedAt)
	})
	return apps, nil
}

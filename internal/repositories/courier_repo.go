package repositories

import (
	"delivery/internal/models"
)

// CourierRepository defines the interface for courier data access.
type CourierRepository interface {
	GetByUserID(userID string) (*models.Courier, error)
	ExistsForUser(userID string) (bool, error)
	Create(courier *models.Courier) error
}

// ApplicationRepository defines the interface for courier-application data
// access.
type ApplicationRepository interface {
	GetByID(id string) (*models.CourierApplication, error)
	// PendingFor returns the user's pending application, or ErrNotFound.
	PendingFor(userID string) (*models.CourierApplication, error)
	Create(app *models.CourierApplication) error
	// Decide atomically moves the application from one status to another.
	// ErrWrongStatus when the current status is not the expected one, so a
	// second accept or refuse of the same application always fails.
	Decide(id string, from, to models.ApplicationStatus) error
	// Promote accepts a pending application, creates the courier record,
	// and grants the applicant the courier role as one atomic unit: either
	// all three writes land or none do. ErrWrongStatus when the
	// application is no longer pending.
	Promote(id string, courier *models.Courier) error
	// Pending lists all undecided applications, oldest first.
	Pending() ([]models.CourierApplication, error)
}

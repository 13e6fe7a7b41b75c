package repositories

import "delivery/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	// UpdateRole changes the user's role, e.g. when an accepted courier
	// application promotes a customer to courier.
	UpdateRole(id string, role models.Role) error
}

package models

import "time"

// Courier is a registered deliveryman, one per user. A Courier row is created
// when a staff member accepts the user's application.
type Courier struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"uniqueIndex;type:varchar(36)"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CourierApplication is a user's request to become a courier. A user may hold
// at most one pending application; accepted and rejected ones are terminal.
type CourierApplication struct {
	ID        string            `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string            `json:"user_id" gorm:"index;type:varchar(36)"`
	Name      string            `json:"name" validate:"required,max=255"`
	Phone     string            `json:"phone" validate:"required,max=255"`
	Reason    string            `json:"reason" validate:"required,max=2000"`
	Status    ApplicationStatus `json:"status" gorm:"type:varchar(16);default:pending"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

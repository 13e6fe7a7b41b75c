package repositories_test

import (
	"testing"

	"delivery/internal/models"
	"delivery/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGORMApplicationRepository_Promote(t *testing.T) {
	db := openTestDB(t)
	appRepo := repositories.NewGORMApplicationRepository(db)
	courierRepo := repositories.NewGORMCourierRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)

	user := models.User{ID: "user-1", Username: "applicant", Email: "applicant@example.com", Password: "x", Role: models.RoleCustomer}
	require.NoError(t, db.Create(&user).Error)

	app := models.CourierApplication{UserID: "user-1", Name: "Jo", Phone: "555-0100", Reason: "I have a bike.", Status: models.ApplicationStatusPending}
	require.NoError(t, appRepo.Create(&app))

	courier := models.Courier{UserID: "user-1", Name: app.Name, Phone: app.Phone}
	require.NoError(t, appRepo.Promote(app.ID, &courier))

	decided, err := appRepo.GetByID(app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusAccepted, decided.Status)

	got, err := courierRepo.GetByUserID("user-1")
	require.NoError(t, err)
	assert.Equal(t, "Jo", got.Name)
	assert.Equal(t, "555-0100", got.Phone)

	promoted, err := userRepo.GetByID("user-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCourier, promoted.Role)
}

func TestGORMApplicationRepository_PromoteProcessed(t *testing.T) {
	db := openTestDB(t)
	appRepo := repositories.NewGORMApplicationRepository(db)
	courierRepo := repositories.NewGORMCourierRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)

	user := models.User{ID: "user-1", Username: "applicant", Email: "applicant@example.com", Password: "x", Role: models.RoleCustomer}
	require.NoError(t, db.Create(&user).Error)

	app := models.CourierApplication{UserID: "user-1", Name: "Jo", Phone: "555-0100", Reason: "I have a bike.", Status: models.ApplicationStatusPending}
	require.NoError(t, appRepo.Create(&app))
	require.NoError(t, appRepo.Decide(app.ID, models.ApplicationStatusPending, models.ApplicationStatusRejected))

	courier := models.Courier{UserID: "user-1", Name: app.Name, Phone: app.Phone}
	err := appRepo.Promote(app.ID, &courier)
	assert.ErrorIs(t, err, repositories.ErrWrongStatus)

	// Nothing else was written.
	exists, err := courierRepo.ExistsForUser("user-1")
	require.NoError(t, err)
	assert.False(t, exists)

	unchanged, err := userRepo.GetByID("user-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, unchanged.Role)
}

// A failure in any promotion step must undo the others: here the applicant
// has no user row, so the role grant fails after the status change and the
// courier insert already ran.
func TestGORMApplicationRepository_PromoteRollsBack(t *testing.T) {
	db := openTestDB(t)
	appRepo := repositories.NewGORMApplicationRepository(db)
	courierRepo := repositories.NewGORMCourierRepository(db)

	app := models.CourierApplication{UserID: "ghost", Name: "Jo", Phone: "555-0100", Reason: "I have a bike.", Status: models.ApplicationStatusPending}
	require.NoError(t, appRepo.Create(&app))

	courier := models.Courier{UserID: "ghost", Name: app.Name, Phone: app.Phone}
	err := appRepo.Promote(app.ID, &courier)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	// The application is still pending and no courier record survived.
	still, err := appRepo.GetByID(app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusPending, still.Status)

	exists, err := courierRepo.ExistsForUser("ghost")
	require.NoError(t, err)
	assert.False(t, exists)
}

package services_test

import (
	"testing"

	"delivery/internal/authz"
	"delivery/internal/models"
	"delivery/internal/outcome"
	"delivery/internal/repositories"
	"delivery/internal/services"

	"github.com/stretchr/testify/assert"
)

type applicationFixture struct {
	apps     *repositories.MockApplicationRepository
	couriers *repositories.MockCourierRepository
	users    *repositories.MockUserRepository
	service  *services.ApplicationService
}

func newApplicationFixture(t *testing.T) *applicationFixture {
	t.Helper()
	couriers := repositories.NewMockCourierRepository()
	users := repositories.NewMockUserRepository()
	f := &applicationFixture{
		apps:     repositories.NewMockApplicationRepository(couriers, users),
		couriers: couriers,
		users:    users,
	}
	f.service = services.NewApplicationService(f.apps, f.couriers, f.users, authz.New(), nil)

	for id, role := range map[string]models.Role{
		"applicant": models.RoleCustomer,
		"admin":     models.RoleStaff,
	} {
		user := models.User{ID: id, Username: id, Email: id + "@example.com", Password: "x", Role: role}
		assert.NoError(t, f.users.Create(&user))
	}
	return f
}

func validForm() services.ApplicationForm {
	return services.ApplicationForm{Name: "Jo Applicant", Phone: "555-0100", Reason: "I have a bike."}
}

func TestApplicationService_Submit(t *testing.T) {
	f := newApplicationFixture(t)

	app, oc, err := f.service.Submit("applicant", validForm())
	assert.NoError(t, err)
	assert.True(t, oc.OK)
	assert.Equal(t, "Application submitted.", oc.Message)
	assert.Equal(t, models.ApplicationStatusPending, app.Status)
	assert.Equal(t, "applicant", app.UserID)
}

func TestApplicationService_SubmitValidation(t *testing.T) {
	f := newApplicationFixture(t)

	forms := []services.ApplicationForm{
		{Name: "", Phone: "555", Reason: "r"},
		{Name: "Jo", Phone: "", Reason: "r"},
		{Name: "Jo", Phone: "555", Reason: ""},
	}
	for _, form := range forms {
		app, oc, err := f.service.Submit("applicant", form)
		assert.NoError(t, err)
		assert.Nil(t, app)
		assert.False(t, oc.OK)
		assert.Equal(t, "Please fill in all application fields.", oc.Message)
	}

	pending, err := f.apps.Pending()
	assert.NoError(t, err)
	assert.Empty(t, pending)
}

func TestApplicationService_SubmitDuplicatePending(t *testing.T) {
	f := newApplicationFixture(t)

	_, oc, err := f.service.Submit("applicant", validForm())
	assert.NoError(t, err)
	assert.True(t, oc.OK)

	app, oc, err := f.service.Submit("applicant", validForm())
	assert.NoError(t, err)
	assert.Nil(t, app)
	assert.False(t, oc.OK)
	assert.Equal(t, "You already have a pending application.", oc.Message)

	pending, err := f.apps.Pending()
	assert.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestApplicationService_SubmitAgainAfterDecision(t *testing.T) {
	f := newApplicationFixture(t)

	app, _, err := f.service.Submit("applicant", validForm())
	assert.NoError(t, err)
	oc, err := f.service.Refuse("admin", app.ID)
	assert.NoError(t, err)
	assert.True(t, oc.OK)

	// A decided application no longer blocks a new submission.
	_, oc, err = f.service.Submit("applicant", validForm())
	assert.NoError(t, err)
	assert.True(t, oc.OK)
}

func TestApplicationService_Accept(t *testing.T) {
	f := newApplicationFixture(t)

	app, _, err := f.service.Submit("applicant", validForm())
	assert.NoError(t, err)

	oc, err := f.service.Accept("admin", app.ID)
	assert.NoError(t, err)
	assert.True(t, oc.OK)
	assert.Equal(t, "You accepted the application.", oc.Message)
	assert.Equal(t, outcome.Applications, oc.Destination)

	decided, err := f.apps.GetByID(app.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusAccepted, decided.Status)

	// The courier record carries the application's contact details.
	courier, err := f.couriers.GetByUserID("applicant")
	assert.NoError(t, err)
	assert.Equal(t, "Jo Applicant", courier.Name)
	assert.Equal(t, "555-0100", courier.Phone)

	promoted, err := f.users.GetByID("applicant")
	assert.NoError(t, err)
	assert.Equal(t, models.RoleCourier, promoted.Role)
}

func TestApplicationService_AcceptRequiresStaff(t *testing.T) {
	f := newApplicationFixture(t)

	app, _, err := f.service.Submit("applicant", validForm())
	assert.NoError(t, err)

	oc, err := f.service.Accept("applicant", app.ID)
	assert.NoError(t, err)
	assert.False(t, oc.OK)
	assert.Equal(t, "You do not have permission for that.", oc.Message)

	unchanged, err := f.apps.GetByID(app.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusPending, unchanged.Status)
}

func TestApplicationService_AcceptProcessedApplication(t *testing.T) {
	f := newApplicationFixture(t)

	app, _, err := f.service.Submit("applicant", validForm())
	assert.NoError(t, err)
	_, err = f.service.Accept("admin", app.ID)
	assert.NoError(t, err)

	oc, err := f.service.Accept("admin", app.ID)
	assert.NoError(t, err)
	assert.False(t, oc.OK)
	assert.Equal(t, "This application has already been processed.", oc.Message)
}

func TestApplicationService_AcceptExistingCourier(t *testing.T) {
	f := newApplicationFixture(t)

	// The applicant is already a courier through some other path.
	assert.NoError(t, f.couriers.Create(&models.Courier{UserID: "applicant", Name: "Jo", Phone: "555"}))

	app, _, err := f.service.Submit("applicant", validForm())
	assert.NoError(t, err)

	oc, err := f.service.Accept("admin", app.ID)
	assert.NoError(t, err)
	assert.False(t, oc.OK)
	assert.Equal(t, "This user is already registered as a courier.", oc.Message)

	unchanged, err := f.apps.GetByID(app.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusPending, unchanged.Status)
}

func TestApplicationService_Refuse(t *testing.T) {
	f := newApplicationFixture(t)

	app, _, err := f.service.Submit("applicant", validForm())
	assert.NoError(t, err)

	oc, err := f.service.Refuse("admin", app.ID)
	assert.NoError(t, err)
	assert.True(t, oc.OK)
	assert.Equal(t, "You declined the application.", oc.Message)

	decided, err := f.apps.GetByID(app.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusRejected, decided.Status)

	// Refusal has no side effects on role or courier records.
	user, err := f.users.GetByID("applicant")
	assert.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, user.Role)
	exists, err := f.couriers.ExistsForUser("applicant")
	assert.NoError(t, err)
	assert.False(t, exists)

	// A refused application cannot be accepted later.
	oc, err = f.service.Accept("admin", app.ID)
	assert.NoError(t, err)
	assert.False(t, oc.OK)
	assert.Equal(t, "This application has already been processed.", oc.Message)
}

func TestApplicationService_PendingApplications(t *testing.T) {
	f := newApplicationFixture(t)

	_, oc, err := f.service.PendingApplications("applicant")
	assert.NoError(t, err)
	assert.False(t, oc.OK)
	assert.Equal(t, "You do not have permission for that.", oc.Message)

	app, _, err := f.service.Submit("applicant", validForm())
	assert.NoError(t, err)

	apps, oc, err := f.service.PendingApplications("admin")
	assert.NoError(t, err)
	assert.True(t, oc.OK)
	assert.Len(t, apps, 1)
	assert.Equal(t, app.ID, apps[0].ID)

	_, err = f.service.Refuse("admin", app.ID)
	assert.NoError(t, err)

	apps, _, err = f.service.PendingApplications("admin")
	assert.NoError(t, err)
	assert.Empty(t, apps)
}

package services

import (
	"errors"
	"fmt"
	"log"

	"delivery/internal/authz"
	"delivery/internal/models"
	"delivery/internal/outcome"
	"delivery/internal/repositories"
	"delivery/pkg/rabbitmq"

	"github.com/go-playground/validator/v10"
)

// ApplicationService governs courier applications: users submit them, staff
// accept or refuse them. Accepting an application creates the Courier record
// and promotes the applicant to the courier role.
type ApplicationService struct {
	appRepo     repositories.ApplicationRepository
	courierRepo repositories.CourierRepository
	userRepo    repositories.UserRepository
	authorizer  *authz.Authorizer
	mqClient    *rabbitmq.Client
	validate    *validator.Validate
}

// NewApplicationService creates a new ApplicationService.
func NewApplicationService(appRepo repositories.ApplicationRepository, courierRepo repositories.CourierRepository, userRepo repositories.UserRepository, authorizer *authz.Authorizer, mqClient *rabbitmq.Client) *ApplicationService {
	return &ApplicationService{
		appRepo:     appRepo,
		courierRepo: courierRepo,
		userRepo:    userRepo,
		authorizer:  authorizer,
		mqClient:    mqClient,
		validate:    validator.New(),
	}
}

// ApplicationForm carries the fields of a courier application. All fields
// are required.
type ApplicationForm struct {
	Name   string `json:"name" validate:"required,max=255"`
	Phone  string `json:"phone" validate:"required,max=255"`
	Reason string `json:"reason" validate:"required,max=2000"`
}

// Submit files a new application for the user. A user may hold at most one
// pending application.
func (s *ApplicationService) Submit(userID string, form ApplicationForm) (*models.CourierApplication, outcome.Outcome, error) {
	if err := s.validate.Struct(form); err != nil {
		return nil, outcome.Reject("Please fill in all application fields.", outcome.Home), nil
	}

	_, err := s.appRepo.PendingFor(userID)
	if err == nil {
		return nil, outcome.Reject("You already have a pending application.", outcome.Home), nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, outcome.Outcome{}, err
	}

	app := &models.CourierApplication{
		UserID: userID,
		Name:   form.Name,
		Phone:  form.Phone,
		Reason: form.Reason,
		Status: models.ApplicationStatusPending,
	}
	if err := s.appRepo.Create(app); err != nil {
		return nil, outcome.Outcome{}, fmt.Errorf("failed to submit application: %w", err)
	}
	return app, outcome.Success("Application submitted.", outcome.Home), nil
}

// Accept approves a pending application: the status becomes accepted, a
// Courier record is created from the application's name and phone, and the
// applicant is promoted to the courier role. A user who already has a
// Courier record cannot be promoted twice.
func (s *ApplicationService) Accept(actorID, appID string) (outcome.Outcome, error) {
	app, err := s.appRepo.GetByID(appID)
	if err != nil {
		return outcome.Outcome{}, err
	}

	allowed, err := s.allowed(actorID, authz.ActionAcceptApplication)
	if err != nil {
		return outcome.Outcome{}, err
	}
	if !allowed {
		return outcome.Reject("You do not have permission for that.", outcome.Applications), nil
	}

	if app.Status != models.ApplicationStatusPending {
		return outcome.Reject("This application has already been processed.", outcome.Applications), nil
	}

	exists, err := s.courierRepo.ExistsForUser(app.UserID)
	if err != nil {
		return outcome.Outcome{}, err
	}
	if exists {
		return outcome.Reject("This user is already registered as a courier.", outcome.Applications), nil
	}

	// The status change, courier record and role grant land together or
	// not at all.
	courier := &models.Courier{
		UserID: app.UserID,
		Name:   app.Name,
		Phone:  app.Phone,
	}
	err = s.appRepo.Promote(appID, courier)
	if errors.Is(err, repositories.ErrWrongStatus) {
		return outcome.Reject("This application has already been processed.", outcome.Applications), nil
	}
	if err != nil {
		return outcome.Outcome{}, fmt.Errorf("failed to accept application %s: %w", appID, err)
	}

	s.publish(rabbitmq.EventApplicationAccepted, map[string]interface{}{
		"applicationID": appID,
		"userID":        app.UserID,
		"courierID":     courier.ID,
	})
	return outcome.Success("You accepted the application.", outcome.Applications), nil
}

// Refuse declines a pending application. No side effects beyond the status
// change.
func (s *ApplicationService) Refuse(actorID, appID string) (outcome.Outcome, error) {
	app, err := s.appRepo.GetByID(appID)
	if err != nil {
		return outcome.Outcome{}, err
	}

	allowed, err := s.allowed(actorID, authz.ActionRefuseApplication)
	if err != nil {
		return outcome.Outcome{}, err
	}
	if !allowed {
		return outcome.Reject("You do not have permission for that.", outcome.Applications), nil
	}

	if app.Status != models.ApplicationStatusPending {
		return outcome.Reject("This application has already been processed.", outcome.Applications), nil
	}

	err = s.appRepo.Decide(appID, models.ApplicationStatusPending, models.ApplicationStatusRejected)
	if errors.Is(err, repositories.ErrWrongStatus) {
		return outcome.Reject("This application has already been processed.", outcome.Applications), nil
	}
	if err != nil {
		return outcome.Outcome{}, fmt.Errorf("failed to refuse application %s: %w", appID, err)
	}
	return outcome.Success("You declined the application.", outcome.Applications), nil
}

// PendingApplications lists the undecided applications for staff review.
func (s *ApplicationService) PendingApplications(actorID string) ([]models.CourierApplication, outcome.Outcome, error) {
	allowed, err := s.allowed(actorID, authz.ActionViewApplications)
	if err != nil {
		return nil, outcome.Outcome{}, err
	}
	if !allowed {
		return nil, outcome.Reject("You do not have permission for that.", outcome.Home), nil
	}

	apps, err := s.appRepo.Pending()
	if err != nil {
		return nil, outcome.Outcome{}, err
	}
	return apps, outcome.Success("", outcome.Applications), nil
}

func (s *ApplicationService) allowed(actorID string, action authz.Action) (bool, error) {
	actor, err := s.userRepo.GetByID(actorID)
	if err != nil {
		return false, err
	}
	return s.authorizer.Can(actor.Role, action), nil
}

func (s *ApplicationService) publish(eventType string, payload map[string]interface{}) {
	if s.mqClient == nil {
		return
	}
	if err := s.mqClient.PublishEvent(eventType, payload); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", eventType, err)
	}
}

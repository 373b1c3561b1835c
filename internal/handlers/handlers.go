package handlers

import (
	"context"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"crm-backend/internal/analytics"
	"crm-backend/internal/auth"
	"crm-backend/internal/cache"
	"crm-backend/internal/middleware"
	"crm-backend/internal/models"
)

// Store is the slice of the storage layer the HTTP handlers use.
type Store interface {
	GetOrganization(ctx context.Context, id string) (*models.Organization, error)
	OrganizationsForUser(ctx context.Context, userID string) ([]models.Organization, error)
	CreateOrganizationWithOwner(ctx context.Context, name, ownerID string) (*models.Organization, error)
	OrganizationMemberships(ctx context.Context, orgID string) ([]models.Member, error)
	HasMembership(ctx context.Context, userID, orgID string) (bool, error)
	IsOwner(ctx context.Context, userID, orgID string) (bool, error)

	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	CreateInvitation(ctx context.Context, orgID, email string) (*models.MembershipInvitation, error)
	ConsumeInvitation(ctx context.Context, token, userID, role string) (*models.MembershipInvitation, bool, error)

	ListStatuses(ctx context.Context) ([]models.Status, error)
	GetStatus(ctx context.Context, id string) (*models.Status, error)

	CreateLead(ctx context.Context, orgID string, input models.LeadInput) (*models.Lead, error)
	GetLead(ctx context.Context, orgID, leadID string) (*models.Lead, error)
	UpdateLead(ctx context.Context, orgID, leadID string, input models.LeadInput) (*models.Lead, error)
	DeleteLead(ctx context.Context, orgID, leadID string) error
	LeadsByOrganization(ctx context.Context, orgID string) ([]models.Lead, error)

	ActivityByOrganization(ctx context.Context, orgID string, limit int) ([]models.Activity, error)
}

// EventSink receives lifecycle events for the bus.
type EventSink interface {
	LeadEvent(kind string, lead *models.Lead, actorID string)
	MembershipEvent(kind, orgID, userID, email, role string)
}

// Mailer delivers invitation mail.
type Mailer interface {
	SendInvitation(orgName, joinURL, recipient string) error
}

type Handler struct {
	store   Store
	reports *analytics.Service
	mail    Mailer
	events  EventSink
	cache   cache.Client
	logger  *zap.Logger
	baseURL string
}

func New(store Store, reports *analytics.Service, mail Mailer, events EventSink, cacheClient cache.Client, logger *zap.Logger, baseURL string) *Handler {
	return &Handler{
		store:   store,
		reports: reports,
		mail:    mail,
		events:  events,
		cache:   cacheClient,
		logger:  logger,
		baseURL: baseURL,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router, authHandler *auth.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimitLogin(h.cache))
		r.Post("/v1/auth/signup", authHandler.Signup)
		r.Post("/v1/auth/login", authHandler.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware)

		r.Get("/v1/auth/me", authHandler.Me)

		r.Get("/v1/statuses", h.ListStatuses)

		r.Get("/v1/orgs", h.ListOrganizations)
		r.Post("/v1/orgs", h.CreateOrganization)
		r.Get("/v1/orgs/{orgID}", h.GetOrganization)
		r.Get("/v1/orgs/{orgID}/members", h.ListMembers)
		r.With(middleware.RateLimitInvite(h.cache)).Post("/v1/orgs/{orgID}/invitations", h.Invite)
		r.With(middleware.RateLimitJoin(h.cache)).Post("/v1/join/{token}", h.Join)

		r.Get("/v1/orgs/{orgID}/leads", h.ListLeads)
		r.Post("/v1/orgs/{orgID}/leads", h.CreateLead)
		r.Get("/v1/orgs/{orgID}/leads/{leadID}", h.GetLead)
		r.Put("/v1/orgs/{orgID}/leads/{leadID}", h.UpdateLead)
		r.Delete("/v1/orgs/{orgID}/leads/{leadID}", h.DeleteLead)

		r.Get("/v1/orgs/{orgID}/reports/general", h.GeneralReport)
		r.Get("/v1/orgs/{orgID}/reports/managers", h.ManagerReport)
		r.Get("/v1/orgs/{orgID}/reports/period", h.PeriodReport)

		r.Get("/v1/orgs/{orgID}/activity", h.ListActivity)
	})
}

package route

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	amodel "eventhub_backend/internals/features/authorization/model"
	aservice "eventhub_backend/internals/features/authorization/service"
	evcontroller "eventhub_backend/internals/features/events/event/controller"
	evrepo "eventhub_backend/internals/features/events/event/repository"
	evroute "eventhub_backend/internals/features/events/event/route"
	evservice "eventhub_backend/internals/features/events/event/service"
	invcontroller "eventhub_backend/internals/features/events/invite/controller"
	invrepo "eventhub_backend/internals/features/events/invite/repository"
	invroute "eventhub_backend/internals/features/events/invite/route"
	invservice "eventhub_backend/internals/features/events/invite/service"
	notifcontroller "eventhub_backend/internals/features/notifications/notification/controller"
	notifrepo "eventhub_backend/internals/features/notifications/notification/repository"
	notifroute "eventhub_backend/internals/features/notifications/notification/route"
	notifservice "eventhub_backend/internals/features/notifications/notification/service"
	authcontroller "eventhub_backend/internals/features/users/auth/controller"
	authroute "eventhub_backend/internals/features/users/auth/route"
	authservice "eventhub_backend/internals/features/users/auth/service"
	ucontroller "eventhub_backend/internals/features/users/user/controller"
	urepo "eventhub_backend/internals/features/users/user/repository"
	uroute "eventhub_backend/internals/features/users/user/route"
	uservice "eventhub_backend/internals/features/users/user/service"

	"eventhub_backend/internals/middlewares"
)

// App bundles the wired services the rest of main needs (the scheduler
// drives the event service directly).
type App struct {
	Events *evservice.EventService
}

// SetupRoutes builds the dependency graph and mounts every route group.
// The role cache is a startup barrier; a miss here is fatal upstream.
func SetupRoutes(app *fiber.App, db *gorm.DB, cache *aservice.Cache, pusher notifservice.Pusher) (*App, error) {
	attendeeRoleID, err := cache.RoleID(amodel.RoleAttendee)
	if err != nil {
		return nil, err
	}
	managerRoleID, err := cache.RoleID(amodel.RoleManager)
	if err != nil {
		return nil, err
	}

	eventRepo := evrepo.New(db, attendeeRoleID, managerRoleID)
	inviteRepo := invrepo.New(db)
	userRepo := urepo.New(db)
	notifRepo := notifrepo.New(db)
	tokenRepo := notifrepo.NewDeviceTokens(db)

	resolver := aservice.NewResolver(cache, membershipAdapter{repo: eventRepo})
	notifService := notifservice.NewNotificationService(notifRepo, tokenRepo, pusher)
	eventService := evservice.NewEventService(eventRepo, resolver, cache, notifService)
	inviteService := invservice.NewInviteService(inviteRepo, eventRepo, userRepo, resolver, cache, notifService)
	userService := uservice.NewUserService(userRepo)
	authService := authservice.NewAuthService(userRepo)

	eventCtrl := evcontroller.NewEventController(eventService)
	inviteCtrl := invcontroller.NewInviteController(inviteService)
	notifCtrl := notifcontroller.NewNotificationController(notifService)
	userCtrl := ucontroller.NewUserController(userService)
	authCtrl := authcontroller.NewAuthController(authService)

	// Public reads live under /public so the auth guard on /api never
	// touches them; a bearer token is still honored when present.
	public := app.Group("/public", middlewares.OptionalAuth())
	authroute.AuthRoutes(public, authCtrl)
	evroute.PublicEventRoutes(public, eventCtrl)

	api := app.Group("/api", middlewares.Auth())
	evroute.EventRoutes(api, eventCtrl)
	invroute.InviteRoutes(api, inviteCtrl)
	notifroute.NotificationRoutes(api, notifCtrl)
	uroute.UserRoutes(api, userCtrl)

	return &App{Events: eventService}, nil
}

// membershipAdapter projects stored membership rows into the minimal shape
// the authorization resolver consumes.
type membershipAdapter struct {
	repo *evrepo.EventRepository
}

func (a membershipAdapter) Membership(ctx context.Context, eventID, userID uint) (*aservice.Membership, error) {
	row, err := a.repo.Membership(ctx, eventID, userID)
	if err != nil || row == nil {
		return nil, err
	}
	return &aservice.Membership{
		RoleID: row.UserEventRoleRoleID,
		Grants: row.UserEventRolePermissions,
	}, nil
}

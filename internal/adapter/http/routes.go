package http

import "github.com/labstack/echo/v4"

type Handlers struct {
	Health        *Handler
	Auth          *AuthHandler
	Catalog       *CatalogHandler
	Requests      *RequestHandler
	Loans         *LoanHandler
	Notifications *NotificationHandler
	Stats         *StatsHandler
}

// Register mounts every route. Everything except health, register and login
// runs behind auth; idempotency guards the mutating ones.
func Register(e *echo.Echo, h Handlers, auth, idempotency echo.MiddlewareFunc) {
	e.GET("/health", h.Health.Health)
	e.POST("/auth/register", h.Auth.Register)
	e.POST("/auth/login", h.Auth.Login)

	g := e.Group("", auth, idempotency)
	g.GET("/me", withPrincipal(h.Auth.Me))

	g.GET("/departments", withPrincipal(h.Catalog.Departments))
	g.GET("/departments/:department_id/resources", withPrincipal(h.Catalog.DepartmentResources))
	g.GET("/resources/:code", withPrincipal(h.Catalog.Resource))
	g.POST("/resources/:code/requests", withPrincipal(h.Requests.Submit))

	g.GET("/inventory", withPrincipal(h.Catalog.Inventory))
	g.GET("/inventory/unavailable", withPrincipal(h.Catalog.Unavailable))
	g.POST("/inventory", withPrincipal(h.Catalog.Add))
	g.PUT("/inventory/:code", withPrincipal(h.Catalog.Update))
	g.DELETE("/inventory/:code", withPrincipal(h.Catalog.Delete))

	g.GET("/requests", withPrincipal(h.Requests.List))
	g.POST("/requests/:request_id/approve", withPrincipal(h.Requests.Approve))
	g.POST("/requests/:request_id/reject", withPrincipal(h.Requests.Reject))

	g.GET("/loans", withPrincipal(h.Loans.List))
	g.POST("/loans", withPrincipal(h.Loans.CreateLoan))
	g.GET("/loans/:loan_id", withPrincipal(h.Loans.GetLoan))
	g.GET("/loans/:loan_id/contract", withPrincipal(h.Loans.Contract))
	g.POST("/loans/:loan_id/return", withPrincipal(h.Loans.Return))
	g.POST("/loans/:loan_id/extend", withPrincipal(h.Loans.Extend))

	g.GET("/notifications", withPrincipal(h.Notifications.List))
	g.GET("/notifications/unread-count", withPrincipal(h.Notifications.UnreadCount))
	g.POST("/notifications/read-all", withPrincipal(h.Notifications.MarkAllRead))
	g.POST("/notifications/:notification_id/read", withPrincipal(h.Notifications.MarkRead))

	g.GET("/stats", withPrincipal(h.Stats.Dashboard))
}

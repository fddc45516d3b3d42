package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/akshaydalvi/medikart/internal/handlers"
	"github.com/akshaydalvi/medikart/internal/middleware/auth"
)

type Deps struct {
	DB       *gorm.DB
	Auth     *handlers.AuthHandler
	Orders   *handlers.OrderHandler
	Products *handlers.ProductHandler
	Feedback *handlers.FeedbackHandler
	Users    *handlers.UserAdminHandler
	Search   *handlers.SearchHandler
	MW       *auth.Middleware
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	e.POST("/signup", d.Auth.Signup)
	e.POST("/login", d.Auth.Login)
	e.POST("/logout", d.Auth.Logout)
	e.GET("/me", d.Auth.Me, d.MW.WithSession)

	e.POST("/submit-order", d.Orders.Submit, d.MW.WithSession)
	e.GET("/user/orders", d.Orders.UserOrders, d.MW.RequireLogin)

	e.POST("/submit-feedback", d.Feedback.SubmitFeedback)
	e.POST("/submit-contact", d.Feedback.SubmitContact)

	api := e.Group("/api")
	api.GET("/products", d.Products.List)
	api.GET("/products/search", d.Search.Search)
	// dashboard dumps; only the catalog is public
	api.GET("/orders", d.Orders.Dump, d.MW.AdminOnly)
	api.GET("/users", d.Users.Dump, d.MW.AdminOnly)
	api.GET("/feedbacks", d.Feedback.ListFeedbacks, d.MW.AdminOnly)

	admin := e.Group("/admin", d.MW.AdminOnly)

	admin.POST("/add-product", d.Products.Add)
	admin.POST("/update-product", d.Products.Update)
	admin.POST("/delete-product", d.Products.Delete)

	admin.GET("/orders", d.Orders.AdminOrders)
	admin.POST("/update-order-status", d.Orders.UpdateStatus)
	admin.POST("/delete-order", d.Orders.Delete)

	admin.GET("/feedbacks", d.Feedback.ListFeedbacks)
	admin.POST("/delete-feedback", d.Feedback.DeleteFeedback)
	admin.GET("/contacts", d.Feedback.ListContacts)

	admin.GET("/users", d.Users.List)
	admin.POST("/toggle-ban", d.Users.ToggleBan)
	admin.POST("/delete-user", d.Users.Delete)
}

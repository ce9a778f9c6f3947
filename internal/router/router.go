package router

import (
	"time"

	"vidly/internal/cache"
	"vidly/internal/database"
	"vidly/internal/events"
	"vidly/internal/handler"
	"vidly/internal/handler/auth"
	"vidly/internal/handler/customers"
	"vidly/internal/handler/genres"
	"vidly/internal/handler/movies"
	"vidly/internal/handler/rentals"
	"vidly/internal/handler/users"
	"vidly/internal/middleware"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Deps 是 handler 需要的外部資源
type Deps struct {
	DB        database.DB
	Cache     cache.Cache
	Notifier  events.Notifier
	Log       logrus.FieldLogger
	JWTSecret string
	JWTTTL    time.Duration
	CacheTTL  time.Duration
}

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, d Deps) {
	api := e.Group("/api")
	authn := middleware.RequireAuth(d.JWTSecret)
	validID := middleware.ValidID("id")
	// 管理員寫入：驗證身分 → 檢查權限 → 檢查 id
	admin := []echo.MiddlewareFunc{authn, middleware.RequireAdmin}
	adminWithID := []echo.MiddlewareFunc{authn, middleware.RequireAdmin, validID}

	// 健康檢查
	api.GET("/ping", handler.PingHandler(d.DB, d.Cache))

	g := api.Group("/genres")
	g.GET("", genres.ListGenresHandler(d.DB, d.Cache, d.CacheTTL, d.Log))
	g.GET("/:id", genres.GetGenreHandler(d.DB), validID)
	g.POST("", genres.CreateGenreHandler(d.DB, d.Cache, d.Log), admin...)
	g.PUT("/:id", genres.UpdateGenreHandler(d.DB, d.Cache, d.Log), adminWithID...)
	g.DELETE("/:id", genres.DeleteGenreHandler(d.DB, d.Cache, d.Log), adminWithID...)

	m := api.Group("/movies")
	m.GET("", movies.ListMoviesHandler(d.DB, d.Cache, d.CacheTTL, d.Log))
	m.GET("/:id", movies.GetMovieHandler(d.DB), validID)
	m.POST("", movies.CreateMovieHandler(d.DB, d.Cache, d.Log), admin...)
	m.PUT("/:id", movies.UpdateMovieHandler(d.DB, d.Cache, d.Log), adminWithID...)
	m.DELETE("/:id", movies.DeleteMovieHandler(d.DB, d.Cache, d.Log), adminWithID...)

	c := api.Group("/customers", authn)
	c.GET("", customers.ListCustomersHandler(d.DB))
	c.GET("/:id", customers.GetCustomerHandler(d.DB), validID)
	c.POST("", customers.CreateCustomerHandler(d.DB), middleware.RequireAdmin)
	c.PUT("/:id", customers.UpdateCustomerHandler(d.DB), middleware.RequireAdmin, validID)
	c.DELETE("/:id", customers.DeleteCustomerHandler(d.DB), middleware.RequireAdmin, validID)

	// 註冊與登入
	api.POST("/users", users.RegisterHandler(d.DB, d.JWTSecret, d.JWTTTL))
	api.GET("/users/my-account", users.MyAccountHandler(d.DB), authn)
	api.POST("/auth", auth.LoginHandler(d.DB, d.JWTSecret, d.JWTTTL))

	api.GET("/rentals", rentals.ListRentalsHandler(d.DB), authn)
	api.POST("/rentals", rentals.CheckoutHandler(d.DB, d.Cache, d.Notifier, d.Log), authn)
	api.POST("/returns", rentals.ReturnHandler(d.DB, d.Cache, d.Notifier, d.Log), authn)
}

package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"storefront/internal/admin"
	"storefront/internal/auth"
	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/domain"
	"storefront/internal/notify"
	"storefront/internal/repository"
	"storefront/internal/service"
)

// SessionHeader клиентская сессия витрины (корзина, оформление, уведомления)
const SessionHeader = "X-Session-ID"

// Deps зависимости HTTP-слоя
type Deps struct {
	Catalog       *catalog.Store
	Carts         *cart.Registry
	Checkout      *checkout.Sessions
	Orders        *service.OrderService
	Reviews       *service.ReviewService
	AdminProducts *admin.ProductsPanel
	AdminReviews  *admin.ReviewsPanel
	Auth          *auth.Manager
	Hub           *notify.Hub
	Notifier      notify.Notifier
	SyncSource    catalog.Source // товары для синхронизации, если тело запроса пустое
	UploadsDir    string
	Logger        *slog.Logger
}

type Server struct {
	engine *gin.Engine
	deps   Deps
}

func NewServer(d Deps) *Server {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization", SessionHeader},
		ExposeHeaders:   []string{"Content-Length", "Content-Disposition", SessionHeader},
		MaxAge:          12 * time.Hour,
	}))
	s := &Server{engine: r, deps: d}
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes() {
	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if s.deps.UploadsDir != "" {
		s.engine.Static("/uploads", s.deps.UploadsDir)
	}

	s.engine.GET("/", s.hello)

	api := s.engine.Group("/api")
	{
		api.POST("/orders", s.createOrder)
		api.POST("/reviews", s.createReview)
		api.GET("/reviews", s.listReviews)

		cat := api.Group("/catalog")
		cat.GET("/categories", s.listCategories)
		cat.GET("/products", s.listProducts)
		cat.GET("/products/:id", s.getProduct)
		cat.GET("/products/:id/related", s.relatedProducts)
		cat.GET("/featured", s.featuredProducts)
		cat.GET("/new", s.newProducts)

		c := api.Group("/cart")
		c.GET("", s.getCart)
		c.DELETE("", s.clearCart)
		c.POST("/items", s.addCartItem)
		c.PUT("/items/:productId", s.updateCartItem)
		c.DELETE("/items/:productId", s.removeCartItem)

		co := api.Group("/checkout")
		co.GET("", s.checkoutState)
		co.PATCH("/form", s.checkoutUpdate)
		co.POST("/next", s.checkoutNext)
		co.POST("/prev", s.checkoutPrev)
		co.POST("/place", s.checkoutPlace)

		a := api.Group("/auth")
		a.POST("/login", s.login)
		a.POST("/logout", s.logout)
		a.GET("/me", s.me)

		api.GET("/notifications/ws", s.notifications)

		adm := api.Group("/admin", s.requireAdmin)
		adm.GET("/products", s.adminListProducts)
		adm.POST("/products", s.adminCreateProduct)
		adm.PUT("/products/:id", s.adminUpdateProduct)
		adm.DELETE("/products/:id", s.adminDeleteProduct)
		adm.DELETE("/products", s.adminDeleteAllProducts)
		adm.GET("/products/export", s.adminExportProducts)
		adm.POST("/products/import", s.adminImportProducts)
		adm.POST("/products/sync", s.adminSyncProducts)
		adm.GET("/reviews", s.adminListReviews)
		adm.POST("/reviews", s.adminCreateReview)
		adm.DELETE("/reviews/:id", s.adminDeleteReview)
		adm.POST("/reviews/sync", s.adminSyncReviews)
		adm.POST("/images", s.adminUploadImage)
		adm.DELETE("/images", s.adminDeleteImage)
	}
}

// @Summary Health check
// @Tags backend
// @Produce plain
// @Success 200 {string} string
// @Router / [get]
func (s *Server) hello(c *gin.Context) {
	c.String(http.StatusOK, "Hello from the server!")
}

// sessionID берёт сессию из заголовка или выдаёт новую и возвращает её клиенту
func sessionID(c *gin.Context) string {
	sid := strings.TrimSpace(c.GetHeader(SessionHeader))
	if sid == "" {
		sid = uuid.NewString()
	}
	c.Header(SessionHeader, sid)
	return sid
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func writeError(c *gin.Context, err error) {
	c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, domain.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrConflict),
		errors.Is(err, checkout.ErrNotConfirmation),
		errors.Is(err, checkout.ErrEmptyCart):
		return http.StatusConflict
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

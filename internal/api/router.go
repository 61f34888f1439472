package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"openears-backend/internal/api/v1/auth"
	"openears-backend/internal/api/v1/booking"
	"openears-backend/internal/api/v1/directory"
	"openears-backend/internal/api/v1/donation"
	"openears-backend/internal/api/v1/transaction"
	userRoutes "openears-backend/internal/api/v1/user"
	"openears-backend/internal/middleware"
	"openears-backend/internal/services"
	"openears-backend/internal/utils"
)

// Deps carries every constructed dependency the router needs. Nothing
// is global; tests build their own Deps over an in-memory store.
type Deps struct {
	Log       *zap.Logger
	Users     *services.UserService
	Session   *services.Session
	Mailer    *services.Mailer
	Donations *services.DonationFlow
	Tokens    *utils.TokenManager
	Denylist  *services.Denylist
	Clock     services.Clock
	Wizard    services.WizardConfig
}

func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Logger(d.Log), gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:8080"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		auth.RegisterRoutes(v1, auth.NewHandler(d.Session, d.Tokens, d.Denylist))
		directory.RegisterRoutes(v1)
		booking.RegisterRoutes(v1, booking.NewHandler(d.Session, d.Mailer, d.Clock, d.Wizard))
		donation.RegisterRoutes(v1, donation.NewHandler(d.Donations))

		authorized := v1.Group("/")
		authorized.Use(middleware.AuthMiddleware(d.Tokens, d.Denylist, d.Users))
		{
			userRoutes.RegisterRoutes(authorized, userRoutes.NewHandler(d.Session))
			transaction.RegisterRoutes(authorized, transaction.NewHandler(d.Users))
		}
	}

	return router
}

// server/internal/api/routes/routes.go
package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"parcel-track-api-server/config"
	"parcel-track-api-server/internal/api/handlers"
	"parcel-track-api-server/internal/api/middleware"
	"parcel-track-api-server/internal/identity"
	"parcel-track-api-server/internal/lifecycle"
	"parcel-track-api-server/internal/parcel"
	"parcel-track-api-server/internal/profile"
	"parcel-track-api-server/internal/security"
	"parcel-track-api-server/internal/session"
	"parcel-track-api-server/internal/socket"
	"parcel-track-api-server/internal/storage"
)

// SetupRouter wires the components together and declares the routes.
func SetupRouter(
	cfg config.Config,
	db *mongo.Database,
	uploader *storage.Uploader,
	hub *socket.Hub,
	logger *zap.Logger,
) *gin.Engine {
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	secret := []byte(cfg.JWT.Secret)
	tokenTTL, err := time.ParseDuration(cfg.JWT.Expiration)
	if err != nil || tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}

	// Components, leaves first
	policy := lifecycle.FromConfig(cfg.Lifecycle.Strict)
	parcelRepo := parcel.NewRepository(db, policy)
	identityProvider := identity.NewProvider(db, secret, tokenTTL)
	securityService := security.NewService(db, logger)
	sessionManager := session.NewManager(identityProvider, securityService)
	profileService := profile.NewService(db, identityProvider, uploader, logger)

	// Handlers
	authHandler := &handlers.AuthHandler{Sessions: sessionManager}
	parcelHandler := &handlers.ParcelHandler{Repo: parcelRepo, Uploader: uploader, Hub: hub, Log: logger}
	profileHandler := &handlers.ProfileHandler{Profiles: profileService, Sessions: sessionManager}
	securityHandler := &handlers.SecurityHandler{Security: securityService}
	webSocketHandler := &handlers.WebSocketHandler{Hub: hub, JWTSecret: secret, Log: logger}

	apiV1 := router.Group("/api/v1")
	{
		// WebSocket route (token in query, not header)
		apiV1.GET("/ws", webSocketHandler.ServeWs)

		// === PUBLIC ROUTES ===

		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/signup", authHandler.Signup)
		}

		// === PROTECTED ROUTES ===

		protected := apiV1.Group("/")
		protected.Use(middleware.Authenticate(secret))
		{
			protected.POST("/auth/logout", authHandler.Logout)

			parcels := protected.Group("/parcels")
			{
				parcels.POST("/", parcelHandler.CreateParcel)
				parcels.GET("/", parcelHandler.ListParcels)
				parcels.GET("/:id", parcelHandler.GetParcel)
				parcels.PUT("/:id/status", parcelHandler.UpdateStatus)
				parcels.POST("/:id/photos", parcelHandler.UploadPhoto)
			}

			profileRoutes := protected.Group("/profile")
			{
				profileRoutes.GET("/", profileHandler.GetProfile)
				profileRoutes.PUT("/", profileHandler.UpdateProfile)
				profileRoutes.PUT("/email", profileHandler.UpdateEmail)
				profileRoutes.PUT("/password", profileHandler.UpdatePassword)
				profileRoutes.POST("/picture", profileHandler.UploadPicture)
				profileRoutes.DELETE("/", profileHandler.DeleteAccount)
			}

			securityRoutes := protected.Group("/security")
			{
				securityRoutes.GET("/history", securityHandler.LoginHistory)
				securityRoutes.GET("/report", securityHandler.Report)
				securityRoutes.GET("/settings", securityHandler.GetSettings)
				securityRoutes.PUT("/settings", securityHandler.UpdateSettings)
			}
		}
	}

	return router
}

package main

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/minbar/internal/app"
	"github.com/Nixie-Tech-LLC/minbar/internal/config"
	"github.com/Nixie-Tech-LLC/minbar/internal/events"
	"github.com/Nixie-Tech-LLC/minbar/internal/http/api"
	authapi "github.com/Nixie-Tech-LLC/minbar/internal/http/api/admin/auth/endpoints"
	adminapi "github.com/Nixie-Tech-LLC/minbar/internal/http/api/admin/control/endpoints"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, cfg *config.Config, s *app.Services, hub *events.Hub) {
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
		},
		ExposeHeaders: []string{
			"Content-Length",
		},
		AllowCredentials: false,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "bridge_ready": s.Bridge.IsReady(c.Request.Context())})
	})

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/admin",
		Auth:   false,
	},
		authapi.AuthPublicModule(cfg.JWTSecret, s.Store),
	)

	cal := adminapi.NewCalendar(s.Locale, cfg.Now)
	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: cfg.JWTSecret,
		Store:     s.Store,
	},
		// session endpoints that require auth
		authapi.AuthSessionModule(cfg.JWTSecret, s.Store),
		// control modules
		adminapi.MosqueModule(s.Store, cal),
		adminapi.CallerModule(s.Store),
		adminapi.ScheduleModule(s.Store, cal),
		adminapi.ReminderModule(s.Notify),
		adminapi.BridgeModule(s.Bridge),
		adminapi.EventsModule(hub),
	)
}

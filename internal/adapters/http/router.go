package http

import (
	"context"

	"github.com/dkeye/Meet/internal/adapters/signal"
	"github.com/dkeye/Meet/internal/app/orch"
	"github.com/dkeye/Meet/internal/config"
	"github.com/dkeye/Meet/internal/metrics"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	sessionName     = "MeetSessions"
	clientTokenName = "ct"
)

func genClientToken() string {
	return uuid.NewString()
}

// ClientTokenMiddleware pins a long-lived browser token used to correlate
// reconnects in logs.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(clientTokenName)
		if token == "" {
			token = genClientToken()
			c.SetCookie(clientTokenName, token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	secret := cfg.Secret
	if secret == "" {
		// Sessions will not survive a restart.
		secret = uuid.NewString()
		log.Warn().Str("module", "adapters.http").Msg("no session secret configured, using an ephemeral one")
	}
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{Path: "/", MaxAge: 3600 * 24 * 7, HttpOnly: true})
	r.Use(sessions.Sessions(sessionName, store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	h := &handlers{orch: o, ice: cfg.ICEServers}
	r.GET("/healthz", h.health)
	r.GET("/metrics", gin.WrapH(metrics.PrometheusHandler(o.Metrics,
		metrics.Gauge{Name: "meet_connections", Help: "Open signaling connections.", Value: o.Registry.Count},
		metrics.Gauge{Name: "meet_rooms", Help: "Listed meetings.", Value: o.Rooms.Count},
	)))

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	api := r.Group("/api")
	api.GET("/meetings", h.listMeetings)
	api.GET("/meetings/:id/participants", h.participants)
	api.GET("/ice-servers", h.iceServers)

	api.GET("/session", h.getSession)
	api.POST("/session", h.setSession)
	api.DELETE("/session", h.clearSession)

	ctrl := signal.NewSignalWSController(o, signal.OptionsFromConfig(cfg))
	api.GET("/ws/signal", func(c *gin.Context) {
		log.Debug().Str("module", "adapters.http").Str("client", c.GetString("client_token")).Msg("ws signal endpoint hit")
		ctrl.HandleSignal(ctx, c)
	})

	return r
}

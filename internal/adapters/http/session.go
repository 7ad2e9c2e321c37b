package http

import (
	"net/http"

	"github.com/dkeye/Meet/internal/adapters/signal"
	"github.com/dkeye/Meet/internal/domain"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type sessionRequest struct {
	Username string `json:"username" binding:"required,max=256"`
}

func (h *handlers) getSession(c *gin.Context) {
	name, _ := sessions.Default(c).Get(signal.SessionUsernameKey).(string)
	c.JSON(http.StatusOK, gin.H{"username": name})
}

// POST /api/session stores the display name joins will use.
func (h *handlers) setSession(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid username"})
		return
	}
	name := domain.NormalizeUsername(req.Username)

	s := sessions.Default(c)
	s.Set(signal.SessionUsernameKey, name)
	if err := s.Save(); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("session save")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": name})
}

func (h *handlers) clearSession(c *gin.Context) {
	s := sessions.Default(c)
	s.Clear()
	if err := s.Save(); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("session clear")
	}
	c.Status(http.StatusNoContent)
}

package http

import (
	"errors"
	"net/http"

	"github.com/dkeye/Meet/internal/app/orch"
	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/pion/webrtc/v4"
)

type handlers struct {
	orch *orch.Orchestrator
	ice  []webrtc.ICEServer
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GET /api/meetings
func (h *handlers) listMeetings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"meetings": h.orch.Rooms.ListActiveRooms()})
}

// GET /api/meetings/:id/participants
func (h *handlers) participants(c *gin.Context) {
	ps, err := h.orch.Participants(domain.RoomID(c.Param("id")))
	if errors.Is(err, core.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "meeting not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"participants": ps})
}

// GET /api/ice-servers
func (h *handlers) iceServers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"iceServers": h.ice})
}

package signal

import (
	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
)

func (ctl *SignalWSController) handleWhoAmI(conn *WsSignalConn) {
	resp := struct {
		Type     string          `json:"type"`
		UserID   domain.ConnID   `json:"userId"`
		Username string          `json:"username,omitempty"`
		RoomID   domain.RoomID   `json:"roomId,omitempty"`
		RoomName domain.RoomName `json:"roomName,omitempty"`
	}{
		Type:     core.EventWhoAmI,
		UserID:   conn.id,
		Username: conn.sessionUser,
	}
	if roomID, ok := ctl.Orch.Registry.RoomOf(conn.id); ok {
		if room, ok := ctl.Orch.Rooms.GetRoom(roomID); ok {
			resp.RoomID = roomID
			resp.RoomName = room.Room().Name
			if p, ok := room.Member(conn.id); ok {
				resp.Username = p.Username
			}
		}
	}
	ctl.sendJSON(conn, resp)
}

package signal

import "github.com/dkeye/Meet/internal/core"

func (ctl *SignalWSController) handlePing(conn *WsSignalConn) {
	resp := struct {
		Type string `json:"type"`
	}{
		Type: core.EventPong,
	}
	ctl.sendJSON(conn, resp)
}

package signal

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/Meet/internal/app/orch"
	"github.com/dkeye/Meet/internal/config"
	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
)

// SessionUsernameKey is where the HTTP session keeps the authenticated name.
const SessionUsernameKey = "username"

type Options struct {
	ReadLimit  int64
	PingPeriod time.Duration
	PongWait   time.Duration
	WriteWait  time.Duration
	SendBuffer int

	CreateLimit    int
	CreateInterval time.Duration

	ICEServers []webrtc.ICEServer
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		ReadLimit:      cfg.ReadLimit,
		PingPeriod:     cfg.PingPeriod,
		PongWait:       cfg.PongWait,
		WriteWait:      cfg.WriteWait,
		SendBuffer:     cfg.SendBuffer,
		CreateLimit:    cfg.CreateLimit,
		CreateInterval: cfg.CreateInterval,
		ICEServers:     cfg.ICEServers,
	}
}

type SignalWSController struct {
	Orch *orch.Orchestrator

	opts     Options
	limiter  *RoomRateLimiter
	validate *validator.Validate
	upgrader websocket.Upgrader
}

func NewSignalWSController(o *orch.Orchestrator, opts Options) *SignalWSController {
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = 64
	}
	if opts.PingPeriod <= 0 {
		opts.PingPeriod = 54 * time.Second
	}
	if opts.PongWait <= opts.PingPeriod {
		opts.PongWait = opts.PingPeriod * 10 / 9
	}
	if opts.WriteWait <= 0 {
		opts.WriteWait = 10 * time.Second
	}
	return &SignalWSController{
		Orch:     o,
		opts:     opts,
		limiter:  NewRoomRateLimiter(opts.CreateLimit, opts.CreateInterval),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// WsSignalConn is the websocket side of core.SignalConnection.
type WsSignalConn struct {
	id          domain.ConnID
	sessionUser string
	conn        *websocket.Conn
	send        chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return core.ErrClosed
	}
	select {
	case c.send <- f:
	default:
		return core.ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

// username resolves the identity for a join or create: the session wins,
// then the payload, then the anonymous fallback.
func (c *WsSignalConn) username(fromPayload string) string {
	if c.sessionUser != "" {
		return c.sessionUser
	}
	return domain.NormalizeUsername(fromPayload)
}

type connectedEvent struct {
	Type       string             `json:"type"`
	UserID     domain.ConnID      `json:"userId"`
	Username   string             `json:"username,omitempty"`
	ICEServers []webrtc.ICEServer `json:"iceServers"`
}

// HandleSignal upgrades the request and serves it until either pump stops.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	var sessionUser string
	if name, ok := sessions.Default(c).Get(SessionUsernameKey).(string); ok && name != "" {
		sessionUser = domain.NormalizeUsername(name)
	}

	ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	conn := &WsSignalConn{
		id:          domain.ConnID(uuid.NewString()),
		sessionUser: sessionUser,
		conn:        ws,
		send:        make(chan core.Frame, ctl.opts.SendBuffer),
	}
	log.Info().Str("module", "signal").Str("conn", string(conn.id)).Str("client", c.GetString("client_token")).Msg("new WS connection")

	// connected must be the first frame the client sees.
	ctl.sendJSON(conn, connectedEvent{
		Type:       core.EventConnected,
		UserID:     conn.id,
		Username:   sessionUser,
		ICEServers: ctl.opts.ICEServers,
	})
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	ctl.Orch.Connect(conn.id, conn, cancel)

	var wg conc.WaitGroup
	wg.Go(func() {
		defer cancel()
		ctl.writePump(ctx, conn)
	})
	wg.Go(func() {
		defer cancel()
		ctl.readPump(ctx, conn)
	})
	recovered := wg.WaitAndRecover()

	ctl.Orch.Disconnect(conn.id)
	ctl.limiter.Forget(conn.id)
	conn.Close()

	if err := recovered.AsError(); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("conn", string(conn.id)).Msg("pump panicked")
	}
	log.Info().Str("module", "signal").Str("conn", string(conn.id)).Msg("WS connection closed")
}

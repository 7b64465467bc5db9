package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"time"

	"scramble-service/internal/board"
	"scramble-service/internal/config"
	"scramble-service/internal/service"
	"scramble-service/pkg/apperror"
	"scramble-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var playerIDPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

type Handler struct {
	services *service.Container
}

func NewHandler(services *service.Container) *Handler {
	return &Handler{services: services}
}

// buildUpgrader reads buffer sizes from config.GlobalConfig.WebSocket on
// every upgrade rather than once at package init, since LoadConfig runs
// after this package's vars are initialized.
func buildUpgrader() websocket.Upgrader {
	read, write := 1024, 1024
	if config.GlobalConfig != nil {
		if config.GlobalConfig.WebSocket.ReadBufferSize > 0 {
			read = config.GlobalConfig.WebSocket.ReadBufferSize
		}
		if config.GlobalConfig.WebSocket.WriteBufferSize > 0 {
			write = config.GlobalConfig.WebSocket.WriteBufferSize
		}
	}
	return websocket.Upgrader{
		ReadBufferSize:  read,
		WriteBufferSize: write,
		CheckOrigin: func(r *http.Request) bool {
			return true // Allow all origins for dev
		},
	}
}

// HandleBoardWS multiplexes repeated look/flip/replace/watch calls for one
// player id over a single socket, so a browser client never needs to
// re-poll GET /watch.
func (h *Handler) HandleBoardWS(c *gin.Context) {
	playerID := c.Param("pid")
	if !playerIDPattern.MatchString(playerID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": apperror.ErrInvalidPlayerID.Error()})
		return
	}

	upgrader := buildUpgrader()
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.Error("failed to upgrade websocket", zap.Error(err))
		return
	}

	logger.Log.Info("new board websocket connection", zap.String("playerId", playerID))

	cl := newClient(conn, playerID, h.services)
	cl.run()
}

type incomingMessage struct {
	Type string          `json:"type"`
	Seq  int             `json:"seq"`
	Data json.RawMessage `json:"data"`
}

type outgoingMessage struct {
	Type     string `json:"type"`
	Seq      int    `json:"seq"`
	Snapshot string `json:"snapshot,omitempty"`
	Error    string `json:"error,omitempty"`
}

type flipPayload struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type replacePayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type client struct {
	conn      *websocket.Conn
	playerID  string
	services  *service.Container
	outbound  chan outgoingMessage
	done      chan struct{}
	pingEvery time.Duration
}

func pingInterval() time.Duration {
	if config.GlobalConfig != nil && config.GlobalConfig.WebSocket.PingIntervalSec > 0 {
		return time.Duration(config.GlobalConfig.WebSocket.PingIntervalSec) * time.Second
	}
	return 25 * time.Second
}

func newClient(conn *websocket.Conn, playerID string, services *service.Container) *client {
	conn.SetReadLimit(1 << 16)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})
	return &client{
		conn:      conn,
		playerID:  playerID,
		services:  services,
		outbound:  make(chan outgoingMessage, 16),
		done:      make(chan struct{}),
		pingEvery: pingInterval(),
	}
}

func (cl *client) run() {
	go cl.writePump()
	cl.readPump()
}

func (cl *client) readPump() {
	defer func() {
		close(cl.done)
		cl.conn.Close()
	}()

	for {
		mt, message, err := cl.conn.ReadMessage()
		if err != nil {
			logger.Log.Info("board ws read error", zap.Error(err), zap.String("playerId", cl.playerID))
			return
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}

		var in incomingMessage
		if err := json.Unmarshal(message, &in); err != nil {
			cl.safeSend(outgoingMessage{Type: "error", Error: "invalid payload"})
			continue
		}

		// Flip and watch can block indefinitely; handle each request in its
		// own goroutine so a slow one never stalls reads of the next message.
		go cl.dispatch(in)
	}
}

func (cl *client) dispatch(in incomingMessage) {
	b := cl.services.Board()
	switch in.Type {
	case "look":
		cl.safeSend(outgoingMessage{Type: "look", Seq: in.Seq, Snapshot: board.Look(b, cl.playerID)})

	case "flip":
		var p flipPayload
		if err := json.Unmarshal(in.Data, &p); err != nil {
			cl.safeSend(outgoingMessage{Type: "flip", Seq: in.Seq, Error: "invalid flip payload"})
			return
		}
		cl.services.Metrics.IncrFlip(context.Background())
		snap, err := board.Flip(b, cl.playerID, p.Row, p.Col)
		if err != nil {
			cl.safeSend(outgoingMessage{Type: "flip", Seq: in.Seq, Error: err.Error()})
			return
		}
		cl.safeSend(outgoingMessage{Type: "flip", Seq: in.Seq, Snapshot: snap})

	case "replace":
		var p replacePayload
		if err := json.Unmarshal(in.Data, &p); err != nil {
			cl.safeSend(outgoingMessage{Type: "replace", Seq: in.Seq, Error: "invalid replace payload"})
			return
		}
		snap, err := board.Map(b, cl.playerID, replaceFunc(p.From, p.To))
		if err != nil {
			cl.safeSend(outgoingMessage{Type: "replace", Seq: in.Seq, Error: err.Error()})
			return
		}
		cl.safeSend(outgoingMessage{Type: "replace", Seq: in.Seq, Snapshot: snap})

	case "watch":
		cl.safeSend(outgoingMessage{Type: "watch", Seq: in.Seq, Snapshot: board.Watch(b, cl.playerID)})

	default:
		cl.safeSend(outgoingMessage{Type: "error", Seq: in.Seq, Error: "unknown message type"})
	}
}

func (cl *client) writePump() {
	ticker := time.NewTicker(cl.pingEvery)
	defer func() {
		ticker.Stop()
		cl.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-cl.outbound:
			if !ok {
				return
			}
			if err := cl.conn.WriteJSON(msg); err != nil {
				logger.Log.Info("board ws write error", zap.Error(err), zap.String("playerId", cl.playerID))
				return
			}
		case <-ticker.C:
			if err := cl.conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second)); err != nil {
				return
			}
		case <-cl.done:
			return
		}
	}
}

func (cl *client) safeSend(msg outgoingMessage) {
	select {
	case cl.outbound <- msg:
	case <-cl.done:
	}
}

func replaceFunc(from, to string) func(string) (string, error) {
	return func(label string) (string, error) {
		if label == from {
			return to, nil
		}
		return label, nil
	}
}

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"pokerroom/internal/engine"
	"pokerroom/internal/protocol"
	"pokerroom/internal/room"
)

// Server exposes one room over a WebSocket JSON protocol: request/response
// frames for the room methods plus pushed state_update frames for
// subscribers.
type Server struct {
	cfg      Config
	room     *room.Room
	logger   *log.Logger
	metrics  *Metrics
	upgrader websocket.Upgrader
}

// New creates a server for the given room.
func New(cfg Config, rm *room.Room, logger *log.Logger) *Server {
	return &Server{
		cfg:     cfg,
		room:    rm,
		logger:  logger.WithPrefix("server"),
		metrics: NewMetrics(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP routes: the WebSocket endpoint, prometheus
// metrics and a health probe.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	return mux
}

// ListenAndServe runs the HTTP server until the context is cancelled, then
// drains connections and closes the room.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := net.JoinHostPort(s.cfg.Address, fmt.Sprintf("%d", s.cfg.Port))
	httpServer := &http.Server{Addr: addr, Handler: s.Handler()}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.room.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("upgrade failed", "error", err)
		return
	}
	conn := newConnection(ws, s.logger)
	s.metrics.ConnectedConns.Inc()
	defer s.metrics.ConnectedConns.Dec()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	stop := make(chan struct{})
	defer close(stop)
	go conn.ping(stop)
	defer conn.close()

	for {
		_, payload, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("read failed", "error", err)
			}
			return
		}
		var msg protocol.Message
		if err := json.Unmarshal(payload, &msg); err != nil {
			conn.sendError("", fmt.Errorf("malformed message: %w", err))
			continue
		}
		s.dispatch(ctx, conn, &msg)
	}
}

// dispatch routes one request frame.
func (s *Server) dispatch(ctx context.Context, conn *connection, msg *protocol.Message) {
	switch msg.Type {
	case protocol.TypeCurrentState:
		s.reply(conn, msg.RequestID, protocol.TypeState, s.room.CurrentState())

	case protocol.TypeStartGame:
		state, err := s.room.StartGame()
		if err != nil {
			s.metrics.EventsRejected.WithLabelValues(protocol.ErrorCode(err)).Inc()
			conn.sendError(msg.RequestID, err)
			return
		}
		s.metrics.EventsAdmitted.WithLabelValues("start").Inc()
		s.reply(conn, msg.RequestID, protocol.TypeState, state)

	case protocol.TypeProcessEvent:
		var data protocol.ProcessEventData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			conn.sendError(msg.RequestID, fmt.Errorf("malformed event: %w", err))
			return
		}
		ev, err := data.Event.DecodeEvent()
		if err != nil {
			conn.sendError(msg.RequestID, err)
			return
		}
		state, err := s.room.ProcessEvent(ev)
		if err != nil {
			s.metrics.EventsRejected.WithLabelValues(protocol.ErrorCode(err)).Inc()
			conn.sendError(msg.RequestID, err)
			return
		}
		s.metrics.EventsAdmitted.WithLabelValues(ev.EventType()).Inc()
		s.reply(conn, msg.RequestID, protocol.TypeState, state)

	case protocol.TypePlayerView:
		var data protocol.PlayerViewData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			conn.sendError(msg.RequestID, fmt.Errorf("malformed request: %w", err))
			return
		}
		view, err := s.room.PlayerView(data.PlayerID)
		if err != nil {
			conn.sendError(msg.RequestID, err)
			return
		}
		s.reply(conn, msg.RequestID, protocol.TypeView, view)

	case protocol.TypeSubscribe:
		var data protocol.SubscribeData
		if msg.Data != nil {
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				conn.sendError(msg.RequestID, fmt.Errorf("malformed request: %w", err))
				return
			}
		}
		go s.pump(ctx, conn, data.PlayerID)
		s.reply(conn, msg.RequestID, protocol.TypeState, s.room.CurrentState())

	default:
		conn.sendError(msg.RequestID, fmt.Errorf("unknown message type %q", msg.Type))
	}
}

// pump forwards the room's snapshot stream to one connection until the
// connection or the stream ends.
func (s *Server) pump(ctx context.Context, conn *connection, playerID string) {
	sub := s.room.Updates()
	defer sub.Close()

	for {
		state, err := sub.Next(ctx)
		if err != nil {
			return
		}
		update := protocol.StateUpdateData{}
		if playerID != "" {
			view, verr := engine.View(state, playerID)
			if verr != nil {
				// Unknown seat: fall back to the public projection.
				public := engine.Public(state)
				update.Public = &public
			} else {
				update.View = &view
			}
		} else {
			public := engine.Public(state)
			update.Public = &public
		}

		msg, merr := protocol.NewMessage(protocol.TypeStateUpdate, update)
		if merr != nil {
			s.logger.Error("building state update", "error", merr)
			continue
		}
		if serr := conn.send(msg); serr != nil {
			return
		}
		s.metrics.SnapshotsPushed.Inc()
	}
}

func (s *Server) reply(conn *connection, requestID string, typ protocol.MessageType, data any) {
	msg, err := protocol.NewMessage(typ, data)
	if err != nil {
		s.logger.Error("building reply", "type", typ, "error", err)
		conn.sendError(requestID, err)
		return
	}
	msg.RequestID = requestID
	if err := conn.send(msg); err != nil {
		s.logger.Debug("writing reply", "error", err)
	}
}

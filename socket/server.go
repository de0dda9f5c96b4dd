package socket

import (
	"net/http"

	socketio "github.com/googollee/go-socket.io"
	"go.uber.org/zap"
)

const namespace = "/"

// Server is the realtime transport: one personal room per user and one
// conversation room per match.
type Server struct {
	io *socketio.Server
	h  *Handlers
}

// Options configures NewServer. RedisAddr enables the Redis adapter so rooms span
// every instance behind the load balancer.
type Options struct {
	RedisAddr   string
	RedisPrefix string
}

func NewServer(verifier TokenVerifier, chat ChatGateway, opts Options, log *zap.SugaredLogger) (*Server, error) {
	io := socketio.NewServer(nil)
	if opts.RedisAddr != "" {
		if _, err := io.Adapter(&socketio.RedisAdapterOptions{
			Addr:    opts.RedisAddr,
			Prefix:  opts.RedisPrefix,
			Network: "tcp",
		}); err != nil {
			return nil, err
		}
		log.Infow("socket redis adapter enabled", "addr", opts.RedisAddr)
	}

	h := NewHandlers(verifier, chat, io, log)

	io.OnConnect(namespace, func(c socketio.Conn) error {
		u := c.URL()
		return h.Connect(c, handshakeToken(u.Query().Get("token"), c.RemoteHeader()))
	})
	io.OnEvent(namespace, "join_match", func(c socketio.Conn, p MatchPayload) {
		h.JoinMatch(c, p)
	})
	io.OnEvent(namespace, "leave_match", func(c socketio.Conn, p MatchPayload) {
		h.LeaveMatch(c, p)
	})
	io.OnEvent(namespace, "send_message", func(c socketio.Conn, p SendMessagePayload) {
		h.SendMessage(c, p)
	})
	io.OnEvent(namespace, "typing", func(c socketio.Conn, p TypingPayload) {
		h.Typing(c, p)
	})
	io.OnError(namespace, func(c socketio.Conn, err error) {
		if c == nil {
			log.Warnw("socket error", "error", err)
			return
		}
		log.Warnw("socket error", "socketId", c.ID(), "error", err)
	})
	io.OnDisconnect(namespace, func(c socketio.Conn, reason string) {
		h.Disconnect(c, reason)
	})

	return &Server{io: io, h: h}, nil
}

// Notifier returns the services.Notifier that pushes domain events through this server.
func (s *Server) Notifier() *Notifier {
	return NewNotifier(s.io, s.h.log)
}

// Serve runs the engine loop until Close.
func (s *Server) Serve() error { return s.io.Serve() }

func (s *Server) Close() error { return s.io.Close() }

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.io.ServeHTTP(w, r)
}

// handshakeToken prefers the query token (browsers cannot set headers on the
// websocket upgrade) and falls back to a bearer Authorization header.
func handshakeToken(query string, header http.Header) string {
	if query != "" {
		return query
	}
	return header.Get("Authorization")
}

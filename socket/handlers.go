package socket

import (
	"context"
	"strings"
	"sync"
	"time"

	socketio "github.com/googollee/go-socket.io"
	"go.uber.org/zap"

	"ideaswipe_server/apperrors"
	"ideaswipe_server/models"
)

const eventTimeout = 10 * time.Second

// TokenVerifier resolves a handshake token to a user id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// ChatGateway is the part of the chat service the transport drives.
type ChatGateway interface {
	CanJoin(ctx context.Context, matchID, userID string) error
	SendMessage(ctx context.Context, matchID, senderID, content, attachmentKey string) (*models.MessageView, error)
}

// Broadcaster is the room fan-out of *socketio.Server.
type Broadcaster interface {
	BroadcastToRoom(namespace, room, event string, args ...interface{}) bool
	ForEach(namespace, room string, f socketio.EachFunc) bool
}

// Conn is the part of socketio.Conn the handlers use.
type Conn interface {
	ID() string
	Context() interface{}
	SetContext(ctx interface{})
	Emit(event string, args ...interface{})
	Join(room string)
	Leave(room string)
	Close() error
}

type MatchPayload struct {
	MatchID string `json:"matchId"`
}

type SendMessagePayload struct {
	MatchID       string `json:"matchId"`
	Content       string `json:"content"`
	AttachmentKey string `json:"attachmentKey,omitempty"`
}

type TypingPayload struct {
	MatchID  string `json:"matchId"`
	IsTyping bool   `json:"isTyping"`
}

// TypingEvent is relayed to the other members of a conversation room.
type TypingEvent struct {
	MatchID  string `json:"matchId"`
	UserID   string `json:"userId"`
	IsTyping bool   `json:"isTyping"`
}

// ErrorEvent is emitted to a single connection when one of its actions fails.
type ErrorEvent struct {
	Code    apperrors.Code `json:"code"`
	Message string         `json:"message"`
}

func UserRoom(userID string) string   { return "user:" + userID }
func MatchRoom(matchID string) string { return "match:" + matchID }

// session is attached to every authenticated connection.
type session struct {
	userID string

	mu     sync.Mutex
	joined map[string]bool
}

func (s *session) setJoined(matchID string, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if on {
		s.joined[matchID] = true
	} else {
		delete(s.joined, matchID)
	}
}

func (s *session) inMatch(matchID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.joined[matchID]
}

// Handlers holds the transport's event logic, independent of the engine.
type Handlers struct {
	verifier TokenVerifier
	chat     ChatGateway
	rooms    Broadcaster
	log      *zap.SugaredLogger
}

func NewHandlers(verifier TokenVerifier, chat ChatGateway, rooms Broadcaster, log *zap.SugaredLogger) *Handlers {
	return &Handlers{verifier: verifier, chat: chat, rooms: rooms, log: log}
}

func sessionOf(c Conn) *session {
	s, _ := c.Context().(*session)
	return s
}

func (h *Handlers) emitError(c Conn, err error) {
	code, msg := apperrors.Public(err)
	if code == apperrors.CodeInternal {
		h.log.Errorw("socket action failed", "socketId", c.ID(), "error", err)
	}
	c.Emit("error", ErrorEvent{Code: code, Message: msg})
}

// Connect authenticates the handshake. A rejected connection gets an error event
// and is closed without joining any room.
func (h *Handlers) Connect(c Conn, rawToken string) error {
	token := strings.TrimSpace(rawToken)
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[len("bearer "):])
	}
	userID, err := h.verifier.Verify(token)
	if err != nil {
		h.log.Infow("socket rejected", "socketId", c.ID(), "error", err)
		h.emitError(c, err)
		_ = c.Close()
		return err
	}

	c.SetContext(&session{userID: userID, joined: map[string]bool{}})
	c.Join(UserRoom(userID))
	h.log.Infow("socket connected", "socketId", c.ID(), "userId", userID)
	return nil
}

// authed returns the connection's session, or reports it on the connection.
func (h *Handlers) authed(c Conn) (*session, bool) {
	s := sessionOf(c)
	if s == nil {
		h.emitError(c, apperrors.ErrNotConnected)
		return nil, false
	}
	return s, true
}

// JoinMatch subscribes a participant to a conversation room and acknowledges to
// that connection alone.
func (h *Handlers) JoinMatch(c Conn, p MatchPayload) {
	s, ok := h.authed(c)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
	defer cancel()

	if err := h.chat.CanJoin(ctx, p.MatchID, s.userID); err != nil {
		h.emitError(c, err)
		return
	}
	c.Join(MatchRoom(p.MatchID))
	s.setJoined(p.MatchID, true)
	c.Emit("joined", MatchPayload{MatchID: p.MatchID})
	h.log.Debugw("joined match room", "socketId", c.ID(), "userId", s.userID, "matchId", p.MatchID)
}

func (h *Handlers) LeaveMatch(c Conn, p MatchPayload) {
	s, ok := h.authed(c)
	if !ok {
		return
	}
	c.Leave(MatchRoom(p.MatchID))
	s.setJoined(p.MatchID, false)
}

// SendMessage persists through the chat service; the broadcast to the room is
// done by the notifier the chat service was built with.
func (h *Handlers) SendMessage(c Conn, p SendMessagePayload) {
	s, ok := h.authed(c)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
	defer cancel()

	if _, err := h.chat.SendMessage(ctx, p.MatchID, s.userID, p.Content, p.AttachmentKey); err != nil {
		h.emitError(c, err)
	}
}

// Typing relays to every other connection in the conversation room. Only sockets
// that joined the room may signal.
func (h *Handlers) Typing(c Conn, p TypingPayload) {
	s, ok := h.authed(c)
	if !ok {
		return
	}
	if !s.inMatch(p.MatchID) {
		h.emitError(c, apperrors.ErrNotParticipant)
		return
	}
	event := TypingEvent{MatchID: p.MatchID, UserID: s.userID, IsTyping: p.IsTyping}
	h.rooms.ForEach(namespace, MatchRoom(p.MatchID), func(peer socketio.Conn) {
		if peer.ID() != c.ID() {
			peer.Emit("typing", event)
		}
	})
}

func (h *Handlers) Disconnect(c Conn, reason string) {
	if s := sessionOf(c); s != nil {
		h.log.Infow("socket disconnected", "socketId", c.ID(), "userId", s.userID, "reason", reason)
		return
	}
	h.log.Debugw("socket disconnected", "socketId", c.ID(), "reason", reason)
}

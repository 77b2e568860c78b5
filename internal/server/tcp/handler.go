package tcp

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/ecnotes/internal/common"
	"github.com/dmitrijs2005/ecnotes/internal/logging"
	"github.com/dmitrijs2005/ecnotes/internal/protocol"
	"github.com/dmitrijs2005/ecnotes/internal/server/services"
	"github.com/dmitrijs2005/ecnotes/internal/server/sessions"
)

// Handler dispatches one decoded frame to the matching service call and
// renders the outcome as exactly one response frame. It holds no per-client
// state; every request is authenticated from its own header token.
type Handler struct {
	users    *services.UserService
	notes    *services.NoteService
	sessions *sessions.Service
	logger   logging.Logger
}

func NewHandler(users *services.UserService, notes *services.NoteService, sm *sessions.Service, logger logging.Logger) *Handler {
	return &Handler{users: users, notes: notes, sessions: sm, logger: logger}
}

// Handle processes a frame and returns the wire bytes of its response.
// It never returns nil: every request, however broken, gets a reply.
func (h *Handler) Handle(ctx context.Context, frame *protocol.Frame) []byte {
	switch frame.Header.Type {
	case protocol.MsgRegister:
		return h.handleRegister(ctx, frame.Payload)
	case protocol.MsgLogin:
		return h.handleLogin(ctx, frame.Payload)
	}

	// everything below requires a live session
	userID, err := h.sessions.Validate(ctx, frame.Header.Token[:])
	if err != nil {
		return h.errorResponse(ctx, err)
	}

	switch frame.Header.Type {
	case protocol.MsgLogout:
		return h.handleLogout(ctx, frame.Header.Token[:])
	case protocol.MsgNoteCreate:
		return h.handleNoteCreate(ctx, userID, frame.Payload)
	case protocol.MsgNoteUpdate:
		return h.handleNoteUpdate(ctx, userID, frame.Payload)
	case protocol.MsgNoteDelete:
		return h.handleNoteDelete(ctx, userID, frame.Payload)
	case protocol.MsgNoteList:
		return h.handleNoteList(ctx, userID)
	case protocol.MsgNoteGet:
		return h.handleNoteGet(ctx, userID, frame.Payload)
	default:
		return h.respond(ctx, protocol.ErrInvalidRequest, nil)
	}
}

func (h *Handler) handleRegister(ctx context.Context, payload []byte) []byte {
	var req protocol.RegisterRequest
	if err := req.Decode(payload); err != nil {
		return h.respond(ctx, protocol.ErrInvalidRequest, nil)
	}
	if req.Username == "" || req.Password == "" {
		return h.respond(ctx, protocol.ErrInvalidRequest, nil)
	}

	// req.PublicKey is deliberately unused: the server generates the
	// keypair itself and the wire field exists only for compatibility.
	if _, err := h.users.Register(ctx, req.Username, []byte(req.Password)); err != nil {
		return h.errorResponse(ctx, err)
	}
	return h.respond(ctx, protocol.ErrNone, nil)
}

func (h *Handler) handleLogin(ctx context.Context, payload []byte) []byte {
	var req protocol.LoginRequest
	if err := req.Decode(payload); err != nil {
		return h.respond(ctx, protocol.ErrInvalidRequest, nil)
	}

	token, err := h.users.Login(ctx, req.Username, []byte(req.Password))
	if err != nil {
		return h.errorResponse(ctx, err)
	}
	return h.respond(ctx, protocol.ErrNone, token)
}

func (h *Handler) handleLogout(ctx context.Context, token []byte) []byte {
	if err := h.users.Logout(ctx, token); err != nil {
		return h.errorResponse(ctx, err)
	}
	return h.respond(ctx, protocol.ErrNone, nil)
}

func (h *Handler) handleNoteCreate(ctx context.Context, userID uint32, payload []byte) []byte {
	var req protocol.NoteCreateRequest
	if err := req.Decode(payload); err != nil {
		return h.respond(ctx, protocol.ErrInvalidRequest, nil)
	}

	if len(req.Content) > protocol.MaxNoteContentSize {
		return h.respond(ctx, protocol.ErrInvalidRequest, nil)
	}

	if _, err := h.notes.Create(ctx, userID, req.Title, req.Content); err != nil {
		return h.errorResponse(ctx, err)
	}
	return h.respond(ctx, protocol.ErrNone, nil)
}

func (h *Handler) handleNoteUpdate(ctx context.Context, userID uint32, payload []byte) []byte {
	var req protocol.NoteUpdateRequest
	if err := req.Decode(payload); err != nil {
		return h.respond(ctx, protocol.ErrInvalidRequest, nil)
	}

	if len(req.Content) > protocol.MaxNoteContentSize {
		return h.respond(ctx, protocol.ErrInvalidRequest, nil)
	}

	if err := h.notes.Update(ctx, userID, req.ID, req.Content); err != nil {
		return h.errorResponse(ctx, err)
	}
	return h.respond(ctx, protocol.ErrNone, nil)
}

func (h *Handler) handleNoteDelete(ctx context.Context, userID uint32, payload []byte) []byte {
	var req protocol.NoteIDRequest
	if err := req.Decode(payload); err != nil {
		return h.respond(ctx, protocol.ErrInvalidRequest, nil)
	}

	if err := h.notes.Delete(ctx, userID, req.ID); err != nil {
		return h.errorResponse(ctx, err)
	}
	return h.respond(ctx, protocol.ErrNone, nil)
}

func (h *Handler) handleNoteList(ctx context.Context, userID uint32) []byte {
	list, err := h.notes.List(ctx, userID)
	if err != nil {
		return h.errorResponse(ctx, err)
	}

	// a listing is one frame; keep the most recently updated entries that fit
	if len(list) > protocol.MaxNoteListEntries {
		list = list[:protocol.MaxNoteListEntries]
	}

	entries := make([]protocol.NoteListEntry, 0, len(list))
	for _, n := range list {
		entries = append(entries, protocol.NoteListEntry{
			ID:        n.ID,
			Title:     n.Title,
			CreatedAt: n.CreatedAt.Unix(),
			UpdatedAt: n.UpdatedAt.Unix(),
		})
	}
	return h.respond(ctx, protocol.ErrNone, protocol.EncodeNoteList(entries))
}

func (h *Handler) handleNoteGet(ctx context.Context, userID uint32, payload []byte) []byte {
	var req protocol.NoteIDRequest
	if err := req.Decode(payload); err != nil {
		return h.respond(ctx, protocol.ErrInvalidRequest, nil)
	}

	note, err := h.notes.Get(ctx, userID, req.ID)
	if err != nil {
		return h.errorResponse(ctx, err)
	}

	resp := protocol.NoteGetResponse{Title: note.Title, Content: note.Content}
	return h.respond(ctx, protocol.ErrNone, resp.Encode())
}

// errorResponse maps a service error to its wire code. Anything without a
// dedicated code is logged in full locally and reported as the generic
// server error; internals never leak to the client.
func (h *Handler) errorResponse(ctx context.Context, err error) []byte {
	var code protocol.ErrCode
	switch {
	case errors.Is(err, common.ErrorAlreadyExists):
		code = protocol.ErrUserExists
	case errors.Is(err, common.ErrorAuthFailed):
		code = protocol.ErrAuthFailed
	case errors.Is(err, common.ErrorInvalidSession):
		code = protocol.ErrInvalidSession
	case errors.Is(err, common.ErrorNotFound):
		code = protocol.ErrNotFound
	default:
		h.logger.Error(ctx, "request failed", "error", err.Error())
		code = protocol.ErrServer
	}
	return h.respond(ctx, code, nil)
}

// respond encodes one response frame. Handlers bound their data before
// encoding, so a refusal here is an internal bug; it is logged and downgraded
// to the generic server error, which always fits.
func (h *Handler) respond(ctx context.Context, code protocol.ErrCode, data []byte) []byte {
	resp, err := protocol.EncodeResponse(code, data)
	if err != nil {
		h.logger.Error(ctx, "response encoding failed", "code", code.String(), "data_len", len(data))
		resp, _ = protocol.EncodeResponse(protocol.ErrServer, nil)
	}
	return resp
}

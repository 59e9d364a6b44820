package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/sutra-starters/internal/chat"
	httpMW "github.com/yungbote/sutra-starters/internal/http/middleware"
	"github.com/yungbote/sutra-starters/internal/http/response"
	"github.com/yungbote/sutra-starters/internal/llm"
	"github.com/yungbote/sutra-starters/internal/memory"
	"github.com/yungbote/sutra-starters/internal/platform/logger"
)

type ChatHandlerDeps struct {
	Log      *logger.Logger
	Models   llm.Provider
	Memory   memory.Store
	Sessions *chat.Sessions
	Options  chat.Options
}

type ChatHandler struct {
	log      *logger.Logger
	models   llm.Provider
	mem      memory.Store
	sessions *chat.Sessions
	opts     chat.Options
}

func NewChatHandlerWithDeps(deps ChatHandlerDeps) *ChatHandler {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	sessions := deps.Sessions
	if sessions == nil {
		sessions = chat.NewSessions()
	}
	return &ChatHandler{
		log:      log.With("handler", "ChatHandler"),
		models:   deps.Models,
		mem:      deps.Memory,
		sessions: sessions,
		opts:     deps.Options,
	}
}

type chatReq struct {
	chat.Turn
	Persona     string `json:"persona"`
	Stream      bool   `json:"stream"`
	SutraAPIKey string `json:"sutra_api_key"`
}

// GET /chat/personas
func (h *ChatHandler) Personas(c *gin.Context) {
	response.RespondOK(c, gin.H{"personas": chat.PersonaNames()})
}

// POST /chat
func (h *ChatHandler) Send(c *gin.Context) {
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondErr(c, chat.ErrEmptyMessage)
		return
	}
	// An authenticated subject owns the memory; the body cannot name another user.
	if sub := c.GetString(httpMW.ContextUserID); sub != "" {
		req.UserID = sub
	}
	name := req.Persona
	if name == "" {
		name = chat.Generic.Name
	}
	persona, ok := chat.PersonaByName(name)
	if !ok {
		badRequest(c, fmt.Errorf("unknown persona %q", req.Persona))
		return
	}
	a := chat.NewAssistant(persona, h.models.ForKey(req.SutraAPIKey), h.mem, h.sessions, h.opts, h.log)
	ctx := c.Request.Context()
	streamOrJSON(c, req.Stream, func(onDelta func(string)) (any, error) {
		if onDelta != nil {
			return a.ReplyStream(ctx, req.Turn, onDelta)
		}
		return a.Reply(ctx, req.Turn)
	})
}

// DELETE /chat/:session
func (h *ChatHandler) Reset(c *gin.Context) {
	if !h.sessions.Delete(c.Param("session")) {
		response.RespondError(c, http.StatusNotFound, "session_not_found", fmt.Errorf("no session %q", c.Param("session")))
		return
	}
	c.Status(http.StatusNoContent)
}

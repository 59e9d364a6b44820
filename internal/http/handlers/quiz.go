package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/sutra-starters/internal/http/response"
	"github.com/yungbote/sutra-starters/internal/llm"
	"github.com/yungbote/sutra-starters/internal/platform/logger"
	"github.com/yungbote/sutra-starters/internal/quiz"
)

type QuizHandlerDeps struct {
	Log    *logger.Logger
	Models llm.Provider
	Store  quiz.Store
	Now    func() time.Time
}

type QuizHandler struct {
	log    *logger.Logger
	models llm.Provider
	store  quiz.Store
	now    func() time.Time
}

func NewQuizHandlerWithDeps(deps QuizHandlerDeps) *QuizHandler {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &QuizHandler{
		log:    log.With("handler", "QuizHandler"),
		models: deps.Models,
		store:  deps.Store,
		now:    now,
	}
}

type generateQuizReq struct {
	quiz.Request
	// Save stores the generated quiz right away.
	Save        bool   `json:"save"`
	SutraAPIKey string `json:"sutra_api_key"`
}

// POST /quizzes/generate
func (h *QuizHandler) Generate(c *gin.Context) {
	var req generateQuizReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	q, err := quiz.NewGenerator(h.models.ForKey(req.SutraAPIKey), h.log).Generate(ctx, req.Request)
	if err != nil {
		respondErr(c, err)
		return
	}
	if req.Save {
		if q, err = h.store.SaveQuiz(ctx, q); err != nil {
			respondErr(c, err)
			return
		}
		response.RespondCreated(c, gin.H{"quiz": q})
		return
	}
	response.RespondOK(c, gin.H{"quiz": q})
}

// POST /quizzes
func (h *QuizHandler) Save(c *gin.Context) {
	var q quiz.Quiz
	if err := c.ShouldBindJSON(&q); err != nil {
		badRequest(c, err)
		return
	}
	if len(q.Questions) == 0 {
		respondErr(c, fmt.Errorf("%w: quiz has no questions", quiz.ErrInvalidRequest))
		return
	}
	saved, err := h.store.SaveQuiz(c.Request.Context(), q)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"quiz": saved})
}

// GET /quizzes
func (h *QuizHandler) List(c *gin.Context) {
	qs, err := h.store.ListQuizzes(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	if qs == nil {
		qs = []quiz.Quiz{}
	}
	response.RespondOK(c, gin.H{"quizzes": qs, "count": len(qs)})
}

// GET /quizzes/:id
func (h *QuizHandler) Get(c *gin.Context) {
	q, err := h.store.GetQuiz(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"quiz": q})
}

// DELETE /quizzes/:id
func (h *QuizHandler) Delete(c *gin.Context) {
	if err := h.store.DeleteQuiz(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type attemptReq struct {
	Answers []quiz.Response `json:"answers" binding:"required"`
}

// POST /quizzes/:id/attempts
func (h *QuizHandler) Attempt(c *gin.Context) {
	var req attemptReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	q, err := h.store.GetQuiz(ctx, c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	res, review, err := quiz.Grade(q, req.Answers, h.now())
	if err != nil {
		respondErr(c, err)
		return
	}
	if err := h.store.AppendResult(ctx, res); err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"result":     res,
		"percentage": res.Percentage(),
		"feedback":   quiz.Feedback(res.Percentage()),
		"review":     review,
	})
}

// GET /quizzes/history
func (h *QuizHandler) History(c *gin.Context) {
	rs, err := h.store.ListResults(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	if rs == nil {
		rs = []quiz.Result{}
	}
	progress := quiz.Progress(rs)
	if progress == nil {
		progress = []quiz.TopicStats{}
	}
	response.RespondOK(c, gin.H{"history": rs, "progress": progress})
}

// DELETE /quizzes/history
func (h *QuizHandler) ClearHistory(c *gin.Context) {
	if err := h.store.ClearResults(c.Request.Context()); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/sutra-starters/internal/assist"
	"github.com/yungbote/sutra-starters/internal/chat"
	"github.com/yungbote/sutra-starters/internal/document"
	"github.com/yungbote/sutra-starters/internal/flashcards"
	"github.com/yungbote/sutra-starters/internal/http/response"
	"github.com/yungbote/sutra-starters/internal/llm"
	"github.com/yungbote/sutra-starters/internal/mindmap"
	"github.com/yungbote/sutra-starters/internal/platform/apierr"
	"github.com/yungbote/sutra-starters/internal/quiz"
	"github.com/yungbote/sutra-starters/internal/search"
	"github.com/yungbote/sutra-starters/internal/translate"
)

var errorRules = []apierr.Rule{
	{Target: llm.ErrMissingAPIKey, Status: http.StatusBadRequest, Code: "missing_api_key"},
	{Target: search.ErrMissingAPIKey, Status: http.StatusBadRequest, Code: "missing_api_key"},
	{Target: translate.ErrUnsupportedLanguage, Status: http.StatusBadRequest, Code: "unsupported_language"},
	{Target: quiz.ErrNotFound, Status: http.StatusNotFound, Code: "quiz_not_found"},
	{Target: quiz.ErrInvalidRequest, Status: http.StatusBadRequest, Code: "invalid_request"},
	{Target: quiz.ErrInvalidAnswer, Status: http.StatusBadRequest, Code: "invalid_answer"},
	{Target: quiz.ErrNoQuestions, Status: http.StatusBadGateway, Code: "no_questions"},
	{Target: flashcards.ErrInvalidRequest, Status: http.StatusBadRequest, Code: "invalid_request"},
	{Target: flashcards.ErrNoCards, Status: http.StatusBadGateway, Code: "no_cards"},
	{Target: assist.ErrUnknownApp, Status: http.StatusNotFound, Code: "unknown_app"},
	{Target: assist.ErrInvalidParams, Status: http.StatusBadRequest, Code: "invalid_params"},
	{Target: assist.ErrMissingQuestion, Status: http.StatusBadRequest, Code: "missing_question"},
	{Target: chat.ErrEmptyMessage, Status: http.StatusBadRequest, Code: "empty_message"},
	{Target: mindmap.ErrNoInput, Status: http.StatusBadRequest, Code: "no_input"},
	{Target: mindmap.ErrAllChunksFailed, Status: http.StatusBadGateway, Code: "mindmap_failed"},
	{Target: document.ErrNoText, Status: http.StatusUnprocessableEntity, Code: "no_text"},
	{Target: document.ErrNoQuestion, Status: http.StatusBadRequest, Code: "missing_question"},
	{Target: document.ErrUnsupportedType, Status: http.StatusUnsupportedMediaType, Code: "unsupported_type"},
	{Target: context.DeadlineExceeded, Status: http.StatusGatewayTimeout, Code: "timeout"},
}

var internalError = apierr.New(http.StatusInternalServerError, "internal_error", nil)

// respondErr writes the error envelope for err and records it on the gin context.
func respondErr(c *gin.Context, err error) {
	ae := apierr.Classify(err, errorRules, internalError)
	if ae.Code == internalError.Code && isUpstream(err) {
		ae = apierr.New(http.StatusBadGateway, "upstream_error", err)
	}
	_ = c.Error(err)
	response.RespondError(c, ae.Status, ae.Code, ae.Err)
}

// badRequest answers 400, or 413 when the body hit the request size limit.
func badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		response413(c)
		return
	}
	response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
}

func isUpstream(err error) bool {
	var se *search.HTTPError
	return llm.IsUpstream(err) || errors.As(err, &se)
}

func response413(c *gin.Context) {
	response.RespondError(c, http.StatusRequestEntityTooLarge, "file_too_large", errors.New("uploaded file is too large"))
}

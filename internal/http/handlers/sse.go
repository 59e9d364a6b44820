package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
)

// sseWriter emits "event: <name>\ndata: <json>\n\n" frames and flushes each one.
// send is safe for concurrent use.
type sseWriter struct {
	mu      sync.Mutex
	w       gin.ResponseWriter
	flusher http.Flusher
}

func newSSEWriter(c *gin.Context) (*sseWriter, bool) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		return nil, false
	}
	h := c.Writer.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	return &sseWriter{w: c.Writer, flusher: flusher}, true
}

func (s *sseWriter) send(event string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = fmt.Fprintf(s.w, "event: %s\n", event)
	_, _ = fmt.Fprintf(s.w, "data: %s\n\n", raw)
	s.flusher.Flush()
}

func (s *sseWriter) delta(text string) { s.send("delta", gin.H{"delta": text}) }

func (s *sseWriter) fail(err error) {
	s.send("error", gin.H{"error": gin.H{"message": err.Error()}})
}

// streamOrJSON runs fn with a delta callback when stream is set and the writer
// can flush, sending the final payload as the "done" event. Otherwise it
// answers with plain JSON.
func streamOrJSON(c *gin.Context, stream bool, fn func(onDelta func(string)) (any, error)) {
	if stream {
		if sw, ok := newSSEWriter(c); ok {
			out, err := fn(sw.delta)
			if err != nil {
				_ = c.Error(err)
				sw.fail(err)
				return
			}
			sw.send("done", out)
			return
		}
	}
	out, err := fn(nil)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

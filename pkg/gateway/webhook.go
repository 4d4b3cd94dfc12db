package gateway

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/xqm32/guyubot/pkg/commands"
	"github.com/xqm32/guyubot/pkg/logger"
)

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, "ok")
}

// handleWebhook reads the form fields msg, ref and qq and replies with the
// dispatched command's text.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		writeText(w, http.StatusBadRequest, "invalid form body")
		return
	}
	if _, ok := r.PostForm["msg"]; !ok {
		writeText(w, http.StatusBadRequest, "missing form field: msg")
		return
	}

	msg := commands.Message{
		Text:      r.PostForm.Get("msg"),
		Reference: r.PostForm.Get("ref"),
		CallerID:  r.PostForm.Get("qq"),
	}
	res := s.dispatcher.Dispatch(r.Context(), msg)

	fields := map[string]any{
		"request_id": middleware.GetReqID(r.Context()),
		"command":    res.Command,
		"status":     res.Status,
		"caller":     msg.CallerID,
	}
	switch {
	case res.IsNoMatch():
		logger.DebugCF("gateway", "No command matched", fields)
	case res.Err != nil && res.Status >= http.StatusInternalServerError:
		fields["error"] = res.Err.Error()
		logger.ErrorCF("gateway", "Command failed", fields)
	case res.Err != nil:
		fields["error"] = res.Err.Error()
		logger.InfoCF("gateway", "Command rejected input", fields)
	default:
		logger.InfoCF("gateway", "Command handled", fields)
	}

	writeText(w, res.Status, res.Reply)
}

// parseForm fills r.PostForm from a urlencoded or multipart body. It is
// safe to call more than once per request.
func parseForm(w http.ResponseWriter, r *http.Request) error {
	if r.PostForm != nil {
		return nil
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	err := r.ParseMultipartForm(maxFormBytes)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return err
	}
	return nil
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/KrolPaul/call-center/internal/clock"
	"github.com/KrolPaul/call-center/internal/dispatcher"
)

// callHandler implements GET /call?phone_number=<string>, spec.md §6.
// It reads receiveDT from the same clock.Clock the Dispatcher uses, so
// tests can drive both through a single clock.Fake.
type callHandler struct {
	dispatcher *dispatcher.Dispatcher
	clk        clock.Clock
}

type callResponse struct {
	CallID     uint64 `json:"call_id"`
	CallStatus string `json:"call_status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *callHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	phoneNumber := r.URL.Query().Get("phone_number")
	if phoneNumber == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "phone_number is required"})
		return
	}

	c := h.dispatcher.Enqueue(phoneNumber, h.clk.Now())
	writeJSON(w, http.StatusOK, callResponse{
		CallID:     c.CallID,
		CallStatus: c.CallStatus.String(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/naedex/naedex/internal/middleware"
	"github.com/naedex/naedex/internal/model"
	"github.com/naedex/naedex/internal/notify"
)

// ToastHandler はトースト通知のHTTPハンドラー。
type ToastHandler struct {
	hub *notify.ToastHub
}

// NewToastHandler はToastHandlerを生成する。
func NewToastHandler(hub *notify.ToastHub) *ToastHandler {
	return &ToastHandler{hub: hub}
}

// toastListResponse は直近トースト一覧のAPIレスポンス。古い順に並ぶ。
type toastListResponse struct {
	Toasts []notify.Toast `json:"toasts"`
}

// Recent は直近のトースト一覧を返す。接続直後のUIの初期表示に使う。
// GET /api/toasts
func (h *ToastHandler) Recent(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toastListResponse{Toasts: h.hub.Recent()})
}

// Stream はServer-Sent Eventsでトーストを配信する。
// クライアント切断かサーバー停止まで接続を保持する。
// GET /api/toasts/stream
func (h *ToastHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("Streaming is not supported on this connection."))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	toasts, unsubscribe := h.hub.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-r.Context().Done():
			return
		case toast, ok := <-toasts:
			if !ok {
				return
			}
			payload, err := json.Marshal(toast)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: toast\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

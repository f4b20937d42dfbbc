package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/naedex/naedex/internal/content"
	"github.com/naedex/naedex/internal/model"
)

// ContentServiceInterface はコンテンツハンドラーが必要とするサービスインターフェース。
type ContentServiceInterface interface {
	Stories(ctx context.Context) []content.Story
	StoryByID(ctx context.Context, id string) (*content.Story, error)
	Events(ctx context.Context) []content.Event
	SubmitContact(ctx context.Context, msg *content.ContactMessage) (*model.Result, error)
	SubmitJoin(ctx context.Context, req *content.JoinRequest) (*model.Result, error)
}

// ContentHandler はストーリー・イベント・フォームのHTTPハンドラー。
type ContentHandler struct {
	service ContentServiceInterface
}

// NewContentHandler はContentHandlerを生成する。
func NewContentHandler(service ContentServiceInterface) *ContentHandler {
	return &ContentHandler{service: service}
}

// storyListResponse はストーリー一覧のAPIレスポンス。
type storyListResponse struct {
	Stories []content.Story `json:"stories"`
}

// eventListResponse はイベント一覧のAPIレスポンス。
type eventListResponse struct {
	Events []content.Event `json:"events"`
}

// Stories はストーリー一覧を返す。
// GET /api/stories
func (h *ContentHandler) Stories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, storyListResponse{Stories: h.service.Stories(r.Context())})
}

// Story はストーリーを1件返す。
// GET /api/stories/{id}
func (h *ContentHandler) Story(w http.ResponseWriter, r *http.Request) {
	story, err := h.service.StoryByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, story)
}

// Events はイベント一覧を返す。
// GET /api/events
func (h *ContentHandler) Events(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, eventListResponse{Events: h.service.Events(r.Context())})
}

// Contact は問い合わせフォームの送信を受け付ける。
// POST /api/contact
func (h *ContentHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var msg content.ContactMessage
	if !decodeJSONBody(w, r, &msg) {
		return
	}

	result, err := h.service.SubmitContact(r.Context(), &msg)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Join は参加申込フォームの送信を受け付ける。
// POST /api/join
func (h *ContentHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req content.JoinRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	result, err := h.service.SubmitJoin(r.Context(), &req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

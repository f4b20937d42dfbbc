package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/naedex/naedex/internal/middleware"
	"github.com/naedex/naedex/internal/model"
)

// CommentServiceInterface はコメントハンドラーが必要とするサービスインターフェース。
type CommentServiceInterface interface {
	List(ctx context.Context, itemID string, itemType model.ItemType) ([]*model.Comment, error)
	Add(ctx context.Context, userEmail, userName, itemID string, itemType model.ItemType, text string) (*model.Comment, error)
	Delete(ctx context.Context, commentID, userEmail string) (*model.Result, error)
	ToggleLike(ctx context.Context, commentID, userEmail string) (*model.ToggleResult, error)
}

// CommentHandler はコメントのHTTPハンドラー。
type CommentHandler struct {
	service CommentServiceInterface
}

// NewCommentHandler はCommentHandlerを生成する。
func NewCommentHandler(service CommentServiceInterface) *CommentHandler {
	return &CommentHandler{service: service}
}

// addCommentRequest はコメント投稿のリクエストボディ。
type addCommentRequest struct {
	ItemID   string `json:"item_id"`
	ItemType string `json:"item_type"`
	Text     string `json:"text"`
}

// commentListResponse はコメント一覧のAPIレスポンス。古い順に並ぶ。
type commentListResponse struct {
	Comments []*model.Comment `json:"comments"`
}

// List は対象のコメント一覧を返す。誰でも閲覧できる。
// GET /api/comments?item_id=...&item_type=...
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	itemID := r.URL.Query().Get("item_id")
	itemType := model.ItemType(r.URL.Query().Get("item_type"))

	comments, err := h.service.List(r.Context(), itemID, itemType)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, commentListResponse{Comments: comments})
}

// Add はコメントを投稿する。要ログイン。
// POST /api/comments
func (h *CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	profile, err := middleware.ProfileFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError(""))
		return
	}

	var req addCommentRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	comment, err := h.service.Add(r.Context(), profile.Email, profile.Name, req.ItemID, model.ItemType(req.ItemType), req.Text)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

// Delete はコメントを削除する。作者本人のみ。
// DELETE /api/comments/{id}
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	profile, err := middleware.ProfileFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError(""))
		return
	}

	result, err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), profile.Email)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ToggleLike はコメントへのいいねを付け外しする。要ログイン。
// POST /api/comments/{id}/like
func (h *CommentHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	profile, err := middleware.ProfileFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError(""))
		return
	}

	result, err := h.service.ToggleLike(r.Context(), chi.URLParam(r, "id"), profile.Email)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

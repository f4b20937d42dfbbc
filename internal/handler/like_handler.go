package handler

import (
	"context"
	"net/http"

	"github.com/naedex/naedex/internal/like"
	"github.com/naedex/naedex/internal/metrics"
	"github.com/naedex/naedex/internal/middleware"
	"github.com/naedex/naedex/internal/model"
)

// LikeServiceInterface はいいねハンドラーが必要とするサービスインターフェース。
type LikeServiceInterface interface {
	Toggle(ctx context.Context, userEmail, itemID string, itemType model.ItemType) (*model.ToggleResult, error)
	Count(ctx context.Context, itemID string, itemType model.ItemType) (int, error)
	HasLiked(ctx context.Context, userEmail, itemID string, itemType model.ItemType) (bool, error)
	ForItems(ctx context.Context, userEmail string, items []like.ItemRef) (map[string]model.LikeStatus, error)
}

// LikeHandler はいいねのHTTPハンドラー。
type LikeHandler struct {
	service   LikeServiceInterface
	collector metrics.MetricsCollector
}

// NewLikeHandler はLikeHandlerを生成する。
func NewLikeHandler(service LikeServiceInterface, collector metrics.MetricsCollector) *LikeHandler {
	return &LikeHandler{service: service, collector: collector}
}

// toggleLikeRequest はいいねトグルのリクエストボディ。
type toggleLikeRequest struct {
	ItemID   string `json:"item_id"`
	ItemType string `json:"item_type"`
}

// likeCountResponse はいいね数のAPIレスポンス。
type likeCountResponse struct {
	Count int `json:"count"`
}

// likeStatusResponse はユーザー自身のいいね状態のAPIレスポンス。
type likeStatusResponse struct {
	Liked bool `json:"liked"`
}

// bulkLikeRequest は複数対象の一括取得リクエスト。
type bulkLikeRequest struct {
	Items []like.ItemRef `json:"items"`
}

// Toggle はいいねを付け外しする。要ログイン。
// POST /api/likes/toggle
func (h *LikeHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	profile, err := middleware.ProfileFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError(""))
		return
	}

	var req toggleLikeRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	result, err := h.service.Toggle(r.Context(), profile.Email, req.ItemID, model.ItemType(req.ItemType))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.collector.RecordLikeToggle(req.ItemType)
	writeJSON(w, http.StatusOK, result)
}

// Count は対象のいいね数を返す。誰でも閲覧できる。
// GET /api/likes/count?item_id=...&item_type=...
func (h *LikeHandler) Count(w http.ResponseWriter, r *http.Request) {
	itemID := r.URL.Query().Get("item_id")
	itemType := model.ItemType(r.URL.Query().Get("item_type"))

	count, err := h.service.Count(r.Context(), itemID, itemType)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, likeCountResponse{Count: count})
}

// Status はログインユーザーが対象をいいね済みかを返す。
// GET /api/likes/status?item_id=...&item_type=...
func (h *LikeHandler) Status(w http.ResponseWriter, r *http.Request) {
	profile, err := middleware.ProfileFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError(""))
		return
	}

	itemID := r.URL.Query().Get("item_id")
	itemType := model.ItemType(r.URL.Query().Get("item_type"))

	liked, err := h.service.HasLiked(r.Context(), profile.Email, itemID, itemType)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, likeStatusResponse{Liked: liked})
}

// Bulk は複数対象のいいね集計と自身の状態を一括で返す。
// 未ログインの場合はUserLikedが常にfalseになる。
// POST /api/likes/bulk
func (h *LikeHandler) Bulk(w http.ResponseWriter, r *http.Request) {
	var req bulkLikeRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	userEmail := ""
	if profile, err := middleware.ProfileFromContext(r.Context()); err == nil {
		userEmail = profile.Email
	}

	statuses, err := h.service.ForItems(r.Context(), userEmail, req.Items)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statuses)
}

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/naedex/naedex/internal/like"
	"github.com/naedex/naedex/internal/metrics"
	"github.com/naedex/naedex/internal/model"
)

// --- モック定義 ---

// mockLikeService はLikeServiceInterfaceのモック実装。
type mockLikeService struct {
	toggleFn   func(ctx context.Context, userEmail, itemID string, itemType model.ItemType) (*model.ToggleResult, error)
	countFn    func(ctx context.Context, itemID string, itemType model.ItemType) (int, error)
	hasLikedFn func(ctx context.Context, userEmail, itemID string, itemType model.ItemType) (bool, error)
	forItemsFn func(ctx context.Context, userEmail string, items []like.ItemRef) (map[string]model.LikeStatus, error)
}

var _ LikeServiceInterface = (*mockLikeService)(nil)

func (m *mockLikeService) Toggle(ctx context.Context, userEmail, itemID string, itemType model.ItemType) (*model.ToggleResult, error) {
	if m.toggleFn != nil {
		return m.toggleFn(ctx, userEmail, itemID, itemType)
	}
	return nil, nil
}

func (m *mockLikeService) Count(ctx context.Context, itemID string, itemType model.ItemType) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx, itemID, itemType)
	}
	return 0, nil
}

func (m *mockLikeService) HasLiked(ctx context.Context, userEmail, itemID string, itemType model.ItemType) (bool, error) {
	if m.hasLikedFn != nil {
		return m.hasLikedFn(ctx, userEmail, itemID, itemType)
	}
	return false, nil
}

func (m *mockLikeService) ForItems(ctx context.Context, userEmail string, items []like.ItemRef) (map[string]model.LikeStatus, error) {
	if m.forItemsFn != nil {
		return m.forItemsFn(ctx, userEmail, items)
	}
	return nil, nil
}

func testCollector() *metrics.Collector {
	return metrics.NewCollector(prometheus.NewRegistry())
}

// --- POST /api/likes/toggle テスト ---

func TestLikeHandler_Toggle_Success(t *testing.T) {
	svc := &mockLikeService{
		toggleFn: func(ctx context.Context, userEmail, itemID string, itemType model.ItemType) (*model.ToggleResult, error) {
			if userEmail != "user@example.com" {
				t.Errorf("userEmail = %q", userEmail)
			}
			if itemID != "p1" || itemType != model.ItemTypeProject {
				t.Errorf("item = (%q, %q)", itemID, itemType)
			}
			return &model.ToggleResult{Success: true, Liked: true, Count: 1, Message: "Liked!"}, nil
		},
	}
	h := NewLikeHandler(svc, testCollector())

	body := `{"item_id":"p1","item_type":"project"}`
	req := httptest.NewRequest(http.MethodPost, "/api/likes/toggle", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	h.Toggle(w, withProfile(req, testUserProfile()))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var result model.ToggleResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("レスポンスのデコードに失敗: %v", err)
	}
	if !result.Liked || result.Message != "Liked!" {
		t.Errorf("result = %+v", result)
	}
}

func TestLikeHandler_Toggle_Unauthenticated(t *testing.T) {
	h := NewLikeHandler(&mockLikeService{}, testCollector())

	body := `{"item_id":"p1","item_type":"project"}`
	req := httptest.NewRequest(http.MethodPost, "/api/likes/toggle", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	h.Toggle(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestLikeHandler_Toggle_InvalidItemType(t *testing.T) {
	svc := &mockLikeService{
		toggleFn: func(ctx context.Context, userEmail, itemID string, itemType model.ItemType) (*model.ToggleResult, error) {
			return nil, model.NewInvalidItemTypeError(string(itemType))
		},
	}
	h := NewLikeHandler(svc, testCollector())

	body := `{"item_id":"p1","item_type":"article"}`
	req := httptest.NewRequest(http.MethodPost, "/api/likes/toggle", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	h.Toggle(w, withProfile(req, testUserProfile()))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	result := parseAPIErrorResponse(t, w)
	if result["code"] != model.ErrCodeInvalidItemType {
		t.Errorf("code = %q", result["code"])
	}
}

// --- GET /api/likes/count テスト ---

func TestLikeHandler_Count_Success(t *testing.T) {
	svc := &mockLikeService{
		countFn: func(ctx context.Context, itemID string, itemType model.ItemType) (int, error) {
			if itemID != "p1" || itemType != model.ItemTypeProject {
				t.Errorf("item = (%q, %q)", itemID, itemType)
			}
			return 7, nil
		},
	}
	h := NewLikeHandler(svc, testCollector())

	req := httptest.NewRequest(http.MethodGet, "/api/likes/count?item_id=p1&item_type=project", nil)
	w := httptest.NewRecorder()

	h.Count(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var result likeCountResponse
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("レスポンスのデコードに失敗: %v", err)
	}
	if result.Count != 7 {
		t.Errorf("Count = %d, want 7", result.Count)
	}
}

// --- GET /api/likes/status テスト ---

func TestLikeHandler_Status_Success(t *testing.T) {
	svc := &mockLikeService{
		hasLikedFn: func(ctx context.Context, userEmail, itemID string, itemType model.ItemType) (bool, error) {
			return true, nil
		},
	}
	h := NewLikeHandler(svc, testCollector())

	req := httptest.NewRequest(http.MethodGet, "/api/likes/status?item_id=p1&item_type=project", nil)
	w := httptest.NewRecorder()

	h.Status(w, withProfile(req, testUserProfile()))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var result likeStatusResponse
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("レスポンスのデコードに失敗: %v", err)
	}
	if !result.Liked {
		t.Error("Liked = false, want true")
	}
}

// --- POST /api/likes/bulk テスト ---

func TestLikeHandler_Bulk_Anonymous(t *testing.T) {
	svc := &mockLikeService{
		forItemsFn: func(ctx context.Context, userEmail string, items []like.ItemRef) (map[string]model.LikeStatus, error) {
			// 未ログインでは空のメールで呼ばれる
			if userEmail != "" {
				t.Errorf("userEmail = %q, want empty", userEmail)
			}
			if len(items) != 2 {
				t.Errorf("len(items) = %d, want 2", len(items))
			}
			return map[string]model.LikeStatus{
				"p1": {Count: 3, UserLiked: false},
				"p2": {Count: 0, UserLiked: false},
			}, nil
		},
	}
	h := NewLikeHandler(svc, testCollector())

	body := `{"items":[{"id":"p1","type":"project"},{"id":"p2","type":"project"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/likes/bulk", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	h.Bulk(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var result map[string]model.LikeStatus
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("レスポンスのデコードに失敗: %v", err)
	}
	if result["p1"].Count != 3 {
		t.Errorf("p1.Count = %d, want 3", result["p1"].Count)
	}
}

func TestLikeHandler_Bulk_PassesUserEmail(t *testing.T) {
	svc := &mockLikeService{
		forItemsFn: func(ctx context.Context, userEmail string, items []like.ItemRef) (map[string]model.LikeStatus, error) {
			if userEmail != "user@example.com" {
				t.Errorf("userEmail = %q", userEmail)
			}
			return map[string]model.LikeStatus{}, nil
		},
	}
	h := NewLikeHandler(svc, testCollector())

	body := `{"items":[{"id":"p1","type":"project"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/likes/bulk", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	h.Bulk(w, withProfile(req, testUserProfile()))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

package handler

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/naedex/naedex/internal/notify"
)

func newTestHub() *notify.ToastHub {
	return notify.NewToastHub(testCollector())
}

// --- GET /api/toasts テスト ---

func TestToastHandler_Recent_Empty(t *testing.T) {
	h := NewToastHandler(newTestHub())

	req := httptest.NewRequest(http.MethodGet, "/api/toasts", nil)
	w := httptest.NewRecorder()

	h.Recent(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var result toastListResponse
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("レスポンスのデコードに失敗: %v", err)
	}
	if len(result.Toasts) != 0 {
		t.Errorf("len(Toasts) = %d, want 0", len(result.Toasts))
	}
}

func TestToastHandler_Recent_ReturnsPublished(t *testing.T) {
	hub := newTestHub()
	hub.Success("Done", "Operation complete", 0)
	h := NewToastHandler(hub)

	req := httptest.NewRequest(http.MethodGet, "/api/toasts", nil)
	w := httptest.NewRecorder()

	h.Recent(w, req)

	var result toastListResponse
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("レスポンスのデコードに失敗: %v", err)
	}
	if len(result.Toasts) != 1 {
		t.Fatalf("len(Toasts) = %d, want 1", len(result.Toasts))
	}
	if result.Toasts[0].Title != "Done" {
		t.Errorf("Title = %q", result.Toasts[0].Title)
	}
}

// --- GET /api/toasts/stream テスト ---

func TestToastHandler_Stream_DeliversToast(t *testing.T) {
	hub := newTestHub()
	h := NewToastHandler(hub)

	server := httptest.NewServer(http.HandlerFunc(h.Stream))
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("接続に失敗: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type = %q", ct)
	}

	// 購読が確立するまで少し待ってから発行する
	time.Sleep(50 * time.Millisecond)
	hub.Success("Hello", "Streamed message", 0)

	type line struct {
		text string
		err  error
	}
	lines := make(chan line, 8)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			lines <- line{text: scanner.Text()}
		}
		lines <- line{err: scanner.Err()}
	}()

	deadline := time.After(2 * time.Second)
	var data string
	for data == "" {
		select {
		case l := <-lines:
			if l.err != nil {
				t.Fatalf("ストリーム読み込みに失敗: %v", l.err)
			}
			if strings.HasPrefix(l.text, "data: ") {
				data = strings.TrimPrefix(l.text, "data: ")
			}
		case <-deadline:
			t.Fatal("トーストがストリームに届かない")
		}
	}

	var toast notify.Toast
	if err := json.Unmarshal([]byte(data), &toast); err != nil {
		t.Fatalf("トーストのデコードに失敗: %v", err)
	}
	if toast.Title != "Hello" {
		t.Errorf("Title = %q, want Hello", toast.Title)
	}
}

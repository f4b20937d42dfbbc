package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/naedex/naedex/internal/metrics"
)

// ToastType はトースト通知の種別。
type ToastType string

const (
	ToastSuccess ToastType = "success"
	ToastInfo    ToastType = "info"
	ToastWarning ToastType = "warning"
	ToastError   ToastType = "error"
)

// Toast は画面に表示するトースト通知。
type Toast struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Type       ToastType `json:"type"`
	DurationMS int       `json:"duration"`
	CreatedAt  time.Time `json:"created_at"`
}

const (
	defaultToastDurationMS  = 5000
	moderationToastDuration = 8000

	// recentToastLimit は新規購読者へ再送する直近トーストの保持数。
	recentToastLimit = 50
)

// ToastHub はトースト通知の配信ハブ。
//
// 購読者（SSE接続）ごとにバッファ付きチャネルを持ち、配信が追いつかない
// 購読者へのトーストは破棄する。直近のトーストはポーリング用に保持する。
type ToastHub struct {
	mu          sync.Mutex
	subscribers map[chan Toast]struct{}
	recent      []Toast
	metrics     metrics.MetricsCollector
}

// NewToastHub はToastHubを作成する。
func NewToastHub(collector metrics.MetricsCollector) *ToastHub {
	return &ToastHub{
		subscribers: make(map[chan Toast]struct{}),
		metrics:     collector,
	}
}

// Publish はトーストを全購読者に配信し、直近リストに追加する。
func (h *ToastHub) Publish(title, message string, toastType ToastType, durationMS int) Toast {
	if durationMS <= 0 {
		durationMS = defaultToastDurationMS
	}
	toast := Toast{
		ID:         uuid.NewString(),
		Title:      title,
		Message:    message,
		Type:       toastType,
		DurationMS: durationMS,
		CreatedAt:  time.Now(),
	}

	h.mu.Lock()
	h.recent = append(h.recent, toast)
	if len(h.recent) > recentToastLimit {
		h.recent = h.recent[len(h.recent)-recentToastLimit:]
	}
	for ch := range h.subscribers {
		select {
		case ch <- toast:
		default:
			// 追いつかない購読者への配信は破棄する
		}
	}
	h.mu.Unlock()

	h.metrics.RecordToastPublished()
	return toast
}

// Success は成功トーストを配信する。
func (h *ToastHub) Success(title, message string, durationMS int) Toast {
	return h.Publish(title, message, ToastSuccess, durationMS)
}

// Info は情報トーストを配信する。
func (h *ToastHub) Info(title, message string, durationMS int) Toast {
	return h.Publish(title, message, ToastInfo, durationMS)
}

// ProjectApproved はプロジェクト承認のトーストを配信する。
func (h *ToastHub) ProjectApproved(projectTitle string) Toast {
	return h.Success(
		"🎉 Project Approved!",
		fmt.Sprintf("Great news! Your project %q has been approved and is now live on our showcase.", projectTitle),
		moderationToastDuration,
	)
}

// ProjectRejected はプロジェクト差し戻しのトーストを配信する。
func (h *ToastHub) ProjectRejected(projectTitle string) Toast {
	return h.Info(
		"📝 Project Needs Updates",
		fmt.Sprintf("Your project %q needs some updates before it can be approved. Please review the feedback and resubmit.", projectTitle),
		moderationToastDuration,
	)
}

// Recent は直近のトーストを古い順で返す（ポーリング用）。
func (h *ToastHub) Recent() []Toast {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Toast, len(h.recent))
	copy(out, h.recent)
	return out
}

// Subscribe は配信チャネルと購読解除関数を返す（SSE用）。
func (h *ToastHub) Subscribe() (<-chan Toast, func()) {
	ch := make(chan Toast, 16)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	unsubscribe := func() {
		h.mu.Lock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, unsubscribe
}

package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/naedex/naedex/internal/model"
)

// mockMailer は送信呼び出しをチャネルで通知するMailer。
type mockMailer struct {
	sent chan string
	err  error
}

var _ Mailer = (*mockMailer)(nil)

func (m *mockMailer) SendProjectApproval(_ context.Context, toEmail, _ string) error {
	m.sent <- "approval:" + toEmail
	return m.err
}

func (m *mockMailer) SendProjectRejection(_ context.Context, toEmail, _ string) error {
	m.sent <- "rejection:" + toEmail
	return m.err
}

func (m *mockMailer) SendFormSubmission(_ context.Context, formName, _ string, _ []FormField) error {
	m.sent <- "form:" + formName
	return m.err
}

func newTestDispatcher(mailer Mailer) (*Dispatcher, *ToastHub, *testCollectorPassthrough) {
	collector := newTestCollector()
	hub := NewToastHub(collector)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewDispatcher(hub, mailer, logger, collector), hub, collector
}

func waitForSend(t *testing.T, ch chan string, want string) {
	t.Helper()
	select {
	case got := <-ch:
		if got != want {
			t.Errorf("mail send = %q, want %q", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("mail was not sent")
	}
}

func TestDispatcher_ProjectApproved(t *testing.T) {
	mailer := &mockMailer{sent: make(chan string, 1)}
	dispatcher, hub, collector := newTestDispatcher(mailer)

	project := &model.Project{ID: "p1", Title: "Test", AuthorEmail: "author@example.com"}
	dispatcher.ProjectApproved(context.Background(), project)

	waitForSend(t, mailer.sent, "approval:author@example.com")

	recent := hub.Recent()
	if len(recent) != 1 || recent[0].Type != ToastSuccess {
		t.Errorf("toasts = %+v, want one success toast", recent)
	}
	if len(collector.moderations) != 1 || collector.moderations[0] != "approved" {
		t.Errorf("moderation metrics = %v, want [approved]", collector.moderations)
	}
}

func TestDispatcher_ProjectRejected(t *testing.T) {
	mailer := &mockMailer{sent: make(chan string, 1)}
	dispatcher, hub, collector := newTestDispatcher(mailer)

	project := &model.Project{ID: "p1", Title: "Test", AuthorEmail: "author@example.com"}
	dispatcher.ProjectRejected(context.Background(), project)

	waitForSend(t, mailer.sent, "rejection:author@example.com")

	recent := hub.Recent()
	if len(recent) != 1 || recent[0].Type != ToastInfo {
		t.Errorf("toasts = %+v, want one info toast", recent)
	}
	if len(collector.moderations) != 1 || collector.moderations[0] != "rejected" {
		t.Errorf("moderation metrics = %v, want [rejected]", collector.moderations)
	}
}

func TestDispatcher_MailFailureIsSwallowed(t *testing.T) {
	mailer := &mockMailer{sent: make(chan string, 1), err: errors.New("smtp down")}
	dispatcher, hub, _ := newTestDispatcher(mailer)

	project := &model.Project{ID: "p1", Title: "Test", AuthorEmail: "author@example.com"}

	// メール失敗してもpanicせず、トーストは配信される
	dispatcher.ProjectApproved(context.Background(), project)
	waitForSend(t, mailer.sent, "approval:author@example.com")

	if len(hub.Recent()) != 1 {
		t.Error("toast was not published despite mail failure")
	}
}

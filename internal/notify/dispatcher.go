package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/naedex/naedex/internal/metrics"
	"github.com/naedex/naedex/internal/model"
)

// mailTimeout は審査操作のレスポンスをメール送信で遅らせないための上限。
const mailTimeout = 15 * time.Second

// Dispatcher は審査結果の通知をトーストとメールへ振り分ける。
//
// メール送信はバックグラウンドで行い、結果はログに残すだけで
// 呼び出し側には返さない。審査操作は通知の成否に影響されない。
type Dispatcher struct {
	hub     *ToastHub
	mailer  Mailer
	logger  *slog.Logger
	metrics metrics.MetricsCollector
}

// NewDispatcher はDispatcherを作成する。
func NewDispatcher(hub *ToastHub, mailer Mailer, logger *slog.Logger, collector metrics.MetricsCollector) *Dispatcher {
	return &Dispatcher{
		hub:     hub,
		mailer:  mailer,
		logger:  logger,
		metrics: collector,
	}
}

// ProjectApproved は承認トーストの配信と承認メールの送信を行う。
func (d *Dispatcher) ProjectApproved(ctx context.Context, project *model.Project) {
	d.metrics.RecordModeration("approved")
	d.hub.ProjectApproved(project.Title)
	d.sendMail(project, "approval", d.mailer.SendProjectApproval)
}

// ProjectRejected は差し戻しトーストの配信と差し戻しメールの送信を行う。
func (d *Dispatcher) ProjectRejected(ctx context.Context, project *model.Project) {
	d.metrics.RecordModeration("rejected")
	d.hub.ProjectRejected(project.Title)
	d.sendMail(project, "rejection", d.mailer.SendProjectRejection)
}

func (d *Dispatcher) sendMail(project *model.Project, kind string, send func(ctx context.Context, toEmail, projectTitle string) error) {
	// リクエストのcontextに紐付けるとレスポンス後に送信が中断されるため、
	// 独立したcontextでバックグラウンド送信する。
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
		defer cancel()

		if err := send(ctx, project.AuthorEmail, project.Title); err != nil {
			d.logger.Error("notification email failed",
				slog.String("kind", kind),
				slog.String("project_id", project.ID),
				slog.String("to", project.AuthorEmail),
				slog.String("error", err.Error()))
			return
		}
		d.logger.Debug("notification email dispatched",
			slog.String("kind", kind),
			slog.String("project_id", project.ID))
	}()
}

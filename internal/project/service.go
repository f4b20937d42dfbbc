// Package project はプロジェクト公開審査のドメインロジックを提供する。
//
// 投稿されたプロジェクトはpendingで受理され、管理者の承認(approved)または
// 差し戻し(rejected)によって公開状態が決まる。承認・差し戻し時の通知は
// ベストエフォートで行われ、通知の失敗はステータス変更の成否に影響しない。
package project

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/naedex/naedex/internal/model"
	"github.com/naedex/naedex/internal/repository"
	"github.com/naedex/naedex/internal/security"
)

// Notifier は審査結果の通知先インターフェース。
// 実装はメール送信やトースト配信を行うが、失敗を呼び出し側に返さない。
type Notifier interface {
	// ProjectApproved は承認通知を配信する。
	ProjectApproved(ctx context.Context, project *model.Project)
	// ProjectRejected は差し戻し通知を配信する。
	ProjectRejected(ctx context.Context, project *model.Project)
}

// Service はプロジェクト審査のサービス層。
type Service struct {
	projects  repository.ProjectStore
	sanitizer security.ContentSanitizerService
	notifier  Notifier
	logger    *slog.Logger
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	projects repository.ProjectStore,
	sanitizer security.ContentSanitizerService,
	notifier Notifier,
	logger *slog.Logger,
) *Service {
	return &Service{
		projects:  projects,
		sanitizer: sanitizer,
		notifier:  notifier,
		logger:    logger,
	}
}

// Submit は新規プロジェクトをpendingステータスで受理する。
// 必須項目の欠落と不正なメール形式はバリデーションエラーとして拒否する。
// 投稿テキストはサニタイズしてから保存する。
func (s *Service) Submit(ctx context.Context, submission *model.ProjectSubmission) (*model.Result, error) {
	if err := s.validateSubmission(submission); err != nil {
		return nil, err
	}

	// アップロード画像はdata URLのままimage_urlとして保存する。
	imageURL := strings.TrimSpace(submission.ImageURL)
	if imageURL == "" {
		imageURL = strings.TrimSpace(submission.ImageData)
	}

	project := &model.Project{
		Title:        s.sanitizer.Sanitize(submission.Title),
		Description:  s.sanitizer.Sanitize(submission.Description),
		Author:       s.sanitizer.Sanitize(submission.Author),
		AuthorEmail:  strings.TrimSpace(submission.AuthorEmail),
		Technologies: submission.Technologies,
		GithubURL:    strings.TrimSpace(submission.GithubURL),
		LiveURL:      strings.TrimSpace(submission.LiveURL),
		ImageURL:     imageURL,
		Status:       model.ProjectStatusPending,
	}

	if err := s.projects.Insert(ctx, project); err != nil {
		return nil, fmt.Errorf("プロジェクトの保存に失敗しました: %w", err)
	}

	s.logger.Info("project submitted",
		slog.String("project_id", project.ID),
		slog.String("author_email", project.AuthorEmail))

	return model.OK("Project submitted successfully! It will be reviewed by our team."), nil
}

func (s *Service) validateSubmission(submission *model.ProjectSubmission) error {
	if strings.TrimSpace(submission.Title) == "" {
		return model.NewValidationError("Title is required")
	}
	if strings.TrimSpace(submission.Description) == "" {
		return model.NewValidationError("Description is required")
	}
	if strings.TrimSpace(submission.Author) == "" {
		return model.NewValidationError("Author name is required")
	}
	email := strings.TrimSpace(submission.AuthorEmail)
	if email == "" {
		return model.NewValidationError("Author email is required")
	}
	if !strings.Contains(email, "@") || strings.HasPrefix(email, "@") || strings.HasSuffix(email, "@") {
		return model.NewValidationError("Author email is invalid")
	}
	if strings.TrimSpace(submission.ImageURL) == "" && strings.TrimSpace(submission.ImageData) == "" {
		return model.NewValidationError("A project image or image URL is required")
	}
	return nil
}

// Approve はプロジェクトを承認し、通知をベストエフォートで配信する。
// 対象が存在しない場合はPROJECT_NOT_FOUNDを返す。
// 通知の失敗は結果に影響しない。
func (s *Service) Approve(ctx context.Context, projectID string) (*model.Result, error) {
	project, err := s.moderate(ctx, projectID, model.ProjectStatusApproved)
	if err != nil {
		return nil, err
	}

	s.notifier.ProjectApproved(ctx, project)

	return model.OK("Project approved successfully!"), nil
}

// Reject はプロジェクトを差し戻し、通知をベストエフォートで配信する。
// 対象が存在しない場合はPROJECT_NOT_FOUNDを返す。
func (s *Service) Reject(ctx context.Context, projectID string) (*model.Result, error) {
	project, err := s.moderate(ctx, projectID, model.ProjectStatusRejected)
	if err != nil {
		return nil, err
	}

	s.notifier.ProjectRejected(ctx, project)

	return model.OK("Project rejected"), nil
}

// moderate はステータス変更の共通処理。承認・差し戻しのどちらからでも
// 何度でも呼べる（最後の操作が勝つ）。
func (s *Service) moderate(ctx context.Context, projectID string, status model.ProjectStatus) (*model.Project, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("プロジェクトの取得に失敗しました: %w", err)
	}
	if project == nil {
		return nil, model.NewProjectNotFoundError(projectID)
	}

	now := time.Now()
	if err := s.projects.UpdateStatus(ctx, projectID, status, now); err != nil {
		return nil, fmt.Errorf("ステータスの更新に失敗しました: %w", err)
	}

	project.Status = status
	project.UpdatedAt = now

	s.logger.Info("project moderated",
		slog.String("project_id", projectID),
		slog.String("status", string(status)))

	return project, nil
}

// Delete はプロジェクトをステータスに関係なく削除する。
// 対象が存在しない場合はPROJECT_NOT_FOUNDを返す。
func (s *Service) Delete(ctx context.Context, projectID string) (*model.Result, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("プロジェクトの取得に失敗しました: %w", err)
	}
	if project == nil {
		return nil, model.NewProjectNotFoundError(projectID)
	}

	if err := s.projects.Delete(ctx, projectID); err != nil {
		return nil, fmt.Errorf("プロジェクトの削除に失敗しました: %w", err)
	}

	s.logger.Info("project deleted", slog.String("project_id", projectID))

	return model.OK("Project deleted successfully"), nil
}

// ListApproved は公開表示用の承認済みプロジェクトをcreated_at降順で返す。
func (s *Service) ListApproved(ctx context.Context) ([]*model.Project, error) {
	projects, err := s.projects.ListByStatus(ctx, model.ProjectStatusApproved)
	if err != nil {
		return nil, fmt.Errorf("承認済みプロジェクトの取得に失敗しました: %w", err)
	}
	return projects, nil
}

// ListAll は管理画面用に全プロジェクトをcreated_at降順で返す。
func (s *Service) ListAll(ctx context.Context) ([]*model.Project, error) {
	projects, err := s.projects.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("プロジェクト一覧の取得に失敗しました: %w", err)
	}
	return projects, nil
}

// ListByStatus は指定ステータスのプロジェクトをcreated_at降順で返す。
// 不正なステータス値はバリデーションエラーとして拒否する。
func (s *Service) ListByStatus(ctx context.Context, status model.ProjectStatus) ([]*model.Project, error) {
	if !status.IsValid() {
		return nil, model.NewValidationError(fmt.Sprintf("Invalid status: %s", status))
	}

	projects, err := s.projects.ListByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("プロジェクトの取得に失敗しました: %w", err)
	}
	return projects, nil
}

// Stats は全プロジェクトを走査してステータス別の集計を返す。
// カウンタの増分管理はせず、常に再集計する。
func (s *Service) Stats(ctx context.Context) (*model.ProjectStats, error) {
	projects, err := s.projects.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("統計の取得に失敗しました: %w", err)
	}

	stats := &model.ProjectStats{}
	for _, p := range projects {
		stats.Total++
		switch p.Status {
		case model.ProjectStatusPending:
			stats.Pending++
		case model.ProjectStatusApproved:
			stats.Approved++
		case model.ProjectStatusRejected:
			stats.Rejected++
		}
	}
	return stats, nil
}

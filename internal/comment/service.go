// Package comment はコメント機能のドメインロジックを提供する。
//
// コメントは対象（プロジェクトまたはストーリー）ごとにcreated_at昇順で
// ページネーションなしの全件を返す。削除は作者本人のみ可能で、
// 作者判定はセッション由来のメールアドレスで行う。
package comment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/naedex/naedex/internal/model"
	"github.com/naedex/naedex/internal/repository"
	"github.com/naedex/naedex/internal/security"
)

// Service はコメント機能のサービス層。
type Service struct {
	comments  repository.CommentStore
	sanitizer security.ContentSanitizerService
	logger    *slog.Logger
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	comments repository.CommentStore,
	sanitizer security.ContentSanitizerService,
	logger *slog.Logger,
) *Service {
	return &Service{
		comments:  comments,
		sanitizer: sanitizer,
		logger:    logger,
	}
}

// List は対象のコメントをcreated_at昇順で返し、各コメントにいいね数を付与する。
func (s *Service) List(ctx context.Context, itemID string, itemType model.ItemType) ([]*model.Comment, error) {
	if !itemType.IsValid() {
		return nil, model.NewInvalidItemTypeError(string(itemType))
	}

	comments, err := s.comments.ListByItem(ctx, itemID, itemType)
	if err != nil {
		return nil, fmt.Errorf("コメント一覧の取得に失敗しました: %w", err)
	}

	for _, c := range comments {
		count, err := s.comments.CountLikes(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("コメントいいね数の取得に失敗しました: %w", err)
		}
		c.LikesCount = count
	}
	return comments, nil
}

// Add はコメントを追加する。本文はサニタイズされ、空になった場合は拒否する。
func (s *Service) Add(ctx context.Context, userEmail, userName, itemID string, itemType model.ItemType, text string) (*model.Comment, error) {
	if !itemType.IsValid() {
		return nil, model.NewInvalidItemTypeError(string(itemType))
	}

	cleaned := s.sanitizer.Sanitize(text)
	if cleaned == "" {
		return nil, model.NewValidationError("Comment text is required")
	}

	comment := &model.Comment{
		UserEmail: userEmail,
		UserName:  userName,
		ItemID:    itemID,
		ItemType:  itemType,
		Text:      cleaned,
	}
	if err := s.comments.Insert(ctx, comment); err != nil {
		return nil, fmt.Errorf("コメントの保存に失敗しました: %w", err)
	}

	s.logger.Debug("comment added",
		slog.String("comment_id", comment.ID),
		slog.String("item_id", itemID))

	return comment, nil
}

// Delete はコメントを削除する。作者本人以外は削除できず、
// 対象なしと権限なしは区別せずCOMMENT_NOT_FOUNDを返す。
func (s *Service) Delete(ctx context.Context, commentID, userEmail string) (*model.Result, error) {
	deleted, err := s.comments.DeleteByIDAndAuthor(ctx, commentID, userEmail)
	if err != nil {
		return nil, fmt.Errorf("コメントの削除に失敗しました: %w", err)
	}
	if !deleted {
		return nil, model.NewCommentNotFoundError(commentID)
	}

	s.logger.Debug("comment deleted", slog.String("comment_id", commentID))

	return model.OK("Comment deleted successfully"), nil
}

// ToggleLike はコメントへのいいねの付与・解除を切り替える。
// 戻り値のカウントはトグル後の再集計値。
func (s *Service) ToggleLike(ctx context.Context, commentID, userEmail string) (*model.ToggleResult, error) {
	existing, err := s.comments.FindLike(ctx, commentID, userEmail)
	if err != nil {
		return nil, fmt.Errorf("コメントいいねの確認に失敗しました: %w", err)
	}

	var liked bool
	if existing != nil {
		if err := s.comments.DeleteLike(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("コメントいいねの解除に失敗しました: %w", err)
		}
		liked = false
	} else {
		newLike := &model.CommentLike{CommentID: commentID, UserEmail: userEmail}
		if err := s.comments.InsertLike(ctx, newLike); err != nil {
			return nil, fmt.Errorf("コメントいいねの付与に失敗しました: %w", err)
		}
		liked = true
	}

	count, err := s.comments.CountLikes(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("コメントいいね数の取得に失敗しました: %w", err)
	}

	message := "Comment unliked!"
	if liked {
		message = "Comment liked!"
	}
	return &model.ToggleResult{Success: true, Liked: liked, Count: count, Message: message}, nil
}

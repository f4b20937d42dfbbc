// Package like はいいね機能のドメインロジックを提供する。
//
// いいねは(user_email, item_id, item_type)の組ごとに高々1件で、
// トグル操作で付与・解除が切り替わる。カウントは常に再集計で求め、
// 増分更新はしない。
package like

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/naedex/naedex/internal/model"
	"github.com/naedex/naedex/internal/repository"
)

// ItemRef は一括取得の対象指定。
type ItemRef struct {
	ID   string         `json:"id"`
	Type model.ItemType `json:"type"`
}

// Service はいいね機能のサービス層。
type Service struct {
	likes  repository.LikeStore
	logger *slog.Logger
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(likes repository.LikeStore, logger *slog.Logger) *Service {
	return &Service{likes: likes, logger: logger}
}

// Toggle はいいねの付与・解除を切り替える。
// 既存のいいねがあれば解除し、なければ付与する。
// 戻り値のカウントはトグル後の再集計値。
func (s *Service) Toggle(ctx context.Context, userEmail, itemID string, itemType model.ItemType) (*model.ToggleResult, error) {
	if !itemType.IsValid() {
		return nil, model.NewInvalidItemTypeError(string(itemType))
	}

	existing, err := s.likes.Find(ctx, userEmail, itemID, itemType)
	if err != nil {
		return nil, fmt.Errorf("いいねの確認に失敗しました: %w", err)
	}

	var liked bool
	if existing != nil {
		if err := s.likes.Delete(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("いいねの解除に失敗しました: %w", err)
		}
		liked = false
	} else {
		newLike := &model.Like{UserEmail: userEmail, ItemID: itemID, ItemType: itemType}
		if err := s.likes.Insert(ctx, newLike); err != nil {
			return nil, fmt.Errorf("いいねの付与に失敗しました: %w", err)
		}
		liked = true
	}

	count, err := s.likes.CountByItem(ctx, itemID, itemType)
	if err != nil {
		return nil, fmt.Errorf("いいね数の取得に失敗しました: %w", err)
	}

	s.logger.Debug("like toggled",
		slog.String("item_id", itemID),
		slog.String("item_type", string(itemType)),
		slog.Bool("liked", liked),
		slog.Int("count", count))

	message := "Unliked!"
	if liked {
		message = "Liked!"
	}
	return &model.ToggleResult{Success: true, Liked: liked, Count: count, Message: message}, nil
}

// Count は対象のいいね数を返す。
func (s *Service) Count(ctx context.Context, itemID string, itemType model.ItemType) (int, error) {
	if !itemType.IsValid() {
		return 0, model.NewInvalidItemTypeError(string(itemType))
	}

	count, err := s.likes.CountByItem(ctx, itemID, itemType)
	if err != nil {
		return 0, fmt.Errorf("いいね数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// HasLiked は指定ユーザーが対象にいいね済みかを返す。
func (s *Service) HasLiked(ctx context.Context, userEmail, itemID string, itemType model.ItemType) (bool, error) {
	if !itemType.IsValid() {
		return false, model.NewInvalidItemTypeError(string(itemType))
	}

	existing, err := s.likes.Find(ctx, userEmail, itemID, itemType)
	if err != nil {
		return false, fmt.Errorf("いいねの確認に失敗しました: %w", err)
	}
	return existing != nil, nil
}

// ForItems は複数対象のいいね状態を一括取得する（一覧ページ用）。
// 戻り値のマップはitem_idをキーに、カウントとユーザーのいいね有無を持つ。
func (s *Service) ForItems(ctx context.Context, userEmail string, items []ItemRef) (map[string]model.LikeStatus, error) {
	result := make(map[string]model.LikeStatus, len(items))
	if len(items) == 0 {
		return result, nil
	}

	itemIDs := make([]string, 0, len(items))
	for _, item := range items {
		itemIDs = append(itemIDs, item.ID)
	}

	likes, err := s.likes.ListByItems(ctx, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("いいねの一括取得に失敗しました: %w", err)
	}

	for _, item := range items {
		status := model.LikeStatus{}
		for _, l := range likes {
			if l.ItemID != item.ID || l.ItemType != item.Type {
				continue
			}
			status.Count++
			if l.UserEmail == userEmail {
				status.UserLiked = true
			}
		}
		result[item.ID] = status
	}
	return result, nil
}

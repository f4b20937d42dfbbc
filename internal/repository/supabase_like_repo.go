package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/naedex/naedex/internal/model"
	"github.com/naedex/naedex/internal/supabase"
)

const likesTable = "likes"

// likeRow はlikesテーブルの行表現。
type likeRow struct {
	ID        string    `json:"id,omitempty"`
	UserEmail string    `json:"user_email"`
	ItemID    string    `json:"item_id"`
	ItemType  string    `json:"item_type"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

func (r *likeRow) toModel() *model.Like {
	return &model.Like{
		ID:        r.ID,
		UserEmail: r.UserEmail,
		ItemID:    r.ItemID,
		ItemType:  model.ItemType(r.ItemType),
		CreatedAt: r.CreatedAt,
	}
}

// SupabaseLikeRepository はLikeStoreのSupabase実装。
type SupabaseLikeRepository struct {
	client *supabase.Client
}

var _ LikeStore = (*SupabaseLikeRepository)(nil)

// NewSupabaseLikeRepository はSupabaseLikeRepositoryを作成する。
func NewSupabaseLikeRepository(client *supabase.Client) *SupabaseLikeRepository {
	return &SupabaseLikeRepository{client: client}
}

func (r *SupabaseLikeRepository) Find(ctx context.Context, userEmail, itemID string, itemType model.ItemType) (*model.Like, error) {
	var row likeRow
	err := r.client.From(likesTable).Select("*").
		Eq("user_email", userEmail).
		Eq("item_id", itemID).
		Eq("item_type", string(itemType)).
		Single().
		ExecuteInto(ctx, &row)
	if err != nil {
		if supabase.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find like: %w", err)
	}
	return row.toModel(), nil
}

func (r *SupabaseLikeRepository) Insert(ctx context.Context, like *model.Like) error {
	row := likeRow{
		UserEmail: like.UserEmail,
		ItemID:    like.ItemID,
		ItemType:  string(like.ItemType),
	}

	var created []likeRow
	if err := r.client.From(likesTable).Insert(row).ExecuteInto(ctx, &created); err != nil {
		return fmt.Errorf("insert like: %w", err)
	}
	if len(created) > 0 {
		like.ID = created[0].ID
		like.CreatedAt = created[0].CreatedAt
	}
	return nil
}

func (r *SupabaseLikeRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.client.From(likesTable).Delete().Eq("id", id).Execute(ctx); err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	return nil
}

func (r *SupabaseLikeRepository) CountByItem(ctx context.Context, itemID string, itemType model.ItemType) (int, error) {
	count, err := r.client.From(likesTable).Select("id").
		Eq("item_id", itemID).
		Eq("item_type", string(itemType)).
		ExecuteCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return count, nil
}

func (r *SupabaseLikeRepository) ListByItems(ctx context.Context, itemIDs []string) ([]*model.Like, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	var rows []likeRow
	err := r.client.From(likesTable).Select("*").In("item_id", itemIDs).ExecuteInto(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("list likes by items: %w", err)
	}

	likes := make([]*model.Like, 0, len(rows))
	for i := range rows {
		likes = append(likes, rows[i].toModel())
	}
	return likes, nil
}

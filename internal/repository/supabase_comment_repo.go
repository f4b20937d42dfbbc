package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/naedex/naedex/internal/model"
	"github.com/naedex/naedex/internal/supabase"
)

const (
	commentsTable     = "comments"
	commentLikesTable = "comment_likes"
)

// commentRow はcommentsテーブルの行表現。
type commentRow struct {
	ID        string    `json:"id,omitempty"`
	UserEmail string    `json:"user_email"`
	UserName  string    `json:"user_name"`
	ItemID    string    `json:"item_id"`
	ItemType  string    `json:"item_type"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

func (r *commentRow) toModel() *model.Comment {
	return &model.Comment{
		ID:        r.ID,
		UserEmail: r.UserEmail,
		UserName:  r.UserName,
		ItemID:    r.ItemID,
		ItemType:  model.ItemType(r.ItemType),
		Text:      r.Text,
		CreatedAt: r.CreatedAt,
	}
}

// commentLikeRow はcomment_likesテーブルの行表現。
type commentLikeRow struct {
	ID        string    `json:"id,omitempty"`
	CommentID string    `json:"comment_id"`
	UserEmail string    `json:"user_email"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// SupabaseCommentRepository はCommentStoreのSupabase実装。
type SupabaseCommentRepository struct {
	client *supabase.Client
}

var _ CommentStore = (*SupabaseCommentRepository)(nil)

// NewSupabaseCommentRepository はSupabaseCommentRepositoryを作成する。
func NewSupabaseCommentRepository(client *supabase.Client) *SupabaseCommentRepository {
	return &SupabaseCommentRepository{client: client}
}

func (r *SupabaseCommentRepository) ListByItem(ctx context.Context, itemID string, itemType model.ItemType) ([]*model.Comment, error) {
	var rows []commentRow
	err := r.client.From(commentsTable).Select("*").
		Eq("item_id", itemID).
		Eq("item_type", string(itemType)).
		Order("created_at", false).
		ExecuteInto(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	comments := make([]*model.Comment, 0, len(rows))
	for i := range rows {
		comments = append(comments, rows[i].toModel())
	}
	return comments, nil
}

func (r *SupabaseCommentRepository) Insert(ctx context.Context, comment *model.Comment) error {
	row := commentRow{
		UserEmail: comment.UserEmail,
		UserName:  comment.UserName,
		ItemID:    comment.ItemID,
		ItemType:  string(comment.ItemType),
		Text:      comment.Text,
	}

	var created []commentRow
	if err := r.client.From(commentsTable).Insert(row).ExecuteInto(ctx, &created); err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	if len(created) > 0 {
		comment.ID = created[0].ID
		comment.CreatedAt = created[0].CreatedAt
	}
	return nil
}

func (r *SupabaseCommentRepository) DeleteByIDAndAuthor(ctx context.Context, commentID, userEmail string) (bool, error) {
	// 削除条件に作者メールを含めることで他人のコメント削除を防ぐ。
	var deleted []commentRow
	err := r.client.From(commentsTable).Delete().
		Eq("id", commentID).
		Eq("user_email", userEmail).
		ExecuteInto(ctx, &deleted)
	if err != nil {
		return false, fmt.Errorf("delete comment: %w", err)
	}
	return len(deleted) > 0, nil
}

func (r *SupabaseCommentRepository) FindLike(ctx context.Context, commentID, userEmail string) (*model.CommentLike, error) {
	var row commentLikeRow
	err := r.client.From(commentLikesTable).Select("*").
		Eq("comment_id", commentID).
		Eq("user_email", userEmail).
		Single().
		ExecuteInto(ctx, &row)
	if err != nil {
		if supabase.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find comment like: %w", err)
	}
	return &model.CommentLike{
		ID:        row.ID,
		CommentID: row.CommentID,
		UserEmail: row.UserEmail,
		CreatedAt: row.CreatedAt,
	}, nil
}

func (r *SupabaseCommentRepository) InsertLike(ctx context.Context, like *model.CommentLike) error {
	row := commentLikeRow{
		CommentID: like.CommentID,
		UserEmail: like.UserEmail,
	}

	var created []commentLikeRow
	if err := r.client.From(commentLikesTable).Insert(row).ExecuteInto(ctx, &created); err != nil {
		return fmt.Errorf("insert comment like: %w", err)
	}
	if len(created) > 0 {
		like.ID = created[0].ID
		like.CreatedAt = created[0].CreatedAt
	}
	return nil
}

func (r *SupabaseCommentRepository) DeleteLike(ctx context.Context, id string) error {
	if _, err := r.client.From(commentLikesTable).Delete().Eq("id", id).Execute(ctx); err != nil {
		return fmt.Errorf("delete comment like: %w", err)
	}
	return nil
}

func (r *SupabaseCommentRepository) CountLikes(ctx context.Context, commentID string) (int, error) {
	count, err := r.client.From(commentLikesTable).Select("id").
		Eq("comment_id", commentID).
		ExecuteCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("count comment likes: %w", err)
	}
	return count, nil
}

package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/naedex/naedex/internal/model"
)

// MemoryCommentRepository はCommentStoreのインメモリ実装。
type MemoryCommentRepository struct {
	mu           sync.RWMutex
	comments     map[string]*model.Comment
	commentLikes map[string]*model.CommentLike
}

var _ CommentStore = (*MemoryCommentRepository)(nil)

// NewMemoryCommentRepository はMemoryCommentRepositoryを作成する。
func NewMemoryCommentRepository() *MemoryCommentRepository {
	return &MemoryCommentRepository{
		comments:     make(map[string]*model.Comment),
		commentLikes: make(map[string]*model.CommentLike),
	}
}

func (r *MemoryCommentRepository) ListByItem(_ context.Context, itemID string, itemType model.ItemType) ([]*model.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var comments []*model.Comment
	for _, c := range r.comments {
		if c.ItemID == itemID && c.ItemType == itemType {
			clone := *c
			comments = append(comments, &clone)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}

func (r *MemoryCommentRepository) Insert(_ context.Context, comment *model.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	clone := *comment
	r.comments[comment.ID] = &clone
	return nil
}

func (r *MemoryCommentRepository) DeleteByIDAndAuthor(_ context.Context, commentID, userEmail string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.comments[commentID]
	if !ok || c.UserEmail != userEmail {
		return false, nil
	}
	delete(r.comments, commentID)
	for id, l := range r.commentLikes {
		if l.CommentID == commentID {
			delete(r.commentLikes, id)
		}
	}
	return true, nil
}

func (r *MemoryCommentRepository) FindLike(_ context.Context, commentID, userEmail string) (*model.CommentLike, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, l := range r.commentLikes {
		if l.CommentID == commentID && l.UserEmail == userEmail {
			clone := *l
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *MemoryCommentRepository) InsertLike(_ context.Context, like *model.CommentLike) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if like.ID == "" {
		like.ID = uuid.NewString()
	}
	if like.CreatedAt.IsZero() {
		like.CreatedAt = time.Now()
	}
	clone := *like
	r.commentLikes[like.ID] = &clone
	return nil
}

func (r *MemoryCommentRepository) DeleteLike(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.commentLikes, id)
	return nil
}

func (r *MemoryCommentRepository) CountLikes(_ context.Context, commentID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, l := range r.commentLikes {
		if l.CommentID == commentID {
			count++
		}
	}
	return count, nil
}

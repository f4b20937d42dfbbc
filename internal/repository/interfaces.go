// Package repository はデータ永続化のインターフェースを定義する。
//
// 各インターフェースにはリモートストア（Supabase）実装とインメモリ（モック）実装があり、
// どちらを使うかは起動時の構成検査で1回だけ決定される。
// 呼び出し側のサービスは実装を区別しない。
package repository

import (
	"context"
	"time"

	"github.com/naedex/naedex/internal/model"
)

// ProjectStore はプロジェクトデータの永続化インターフェース。
type ProjectStore interface {
	// Insert は新規プロジェクトを作成する。
	Insert(ctx context.Context, project *model.Project) error

	// FindByID は指定IDのプロジェクトを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Project, error)

	// UpdateStatus はプロジェクトのステータスと更新日時を変更する。
	// 該当行が存在しない場合もエラーにはしない（存在確認は呼び出し側が先に行う）。
	UpdateStatus(ctx context.Context, id string, status model.ProjectStatus, updatedAt time.Time) error

	// Delete は指定IDのプロジェクトをステータスに関係なく削除する。
	Delete(ctx context.Context, id string) error

	// ListAll は全プロジェクトをcreated_at降順で返す。
	ListAll(ctx context.Context) ([]*model.Project, error)

	// ListByStatus は指定ステータスのプロジェクトをcreated_at降順で返す。
	ListByStatus(ctx context.Context, status model.ProjectStatus) ([]*model.Project, error)
}

// LikeStore はいいねデータの永続化インターフェース。
// (user_email, item_id, item_type)の一意性はストア側の制約で保証される。
type LikeStore interface {
	// Find は指定(ユーザー, 対象)のいいねを取得する。見つからない場合はnilを返す。
	Find(ctx context.Context, userEmail, itemID string, itemType model.ItemType) (*model.Like, error)

	// Insert はいいねを作成する。
	Insert(ctx context.Context, like *model.Like) error

	// Delete は指定IDのいいねを削除する。該当行がなくてもエラーにしない。
	Delete(ctx context.Context, id string) error

	// CountByItem は対象のいいね数を再集計して返す。
	CountByItem(ctx context.Context, itemID string, itemType model.ItemType) (int, error)

	// ListByItems は複数対象のいいねを一括取得する（一覧ページ用）。
	ListByItems(ctx context.Context, itemIDs []string) ([]*model.Like, error)
}

// CommentStore はコメントとコメントいいねの永続化インターフェース。
type CommentStore interface {
	// ListByItem は対象のコメントをcreated_at昇順・ページネーションなしで返す。
	ListByItem(ctx context.Context, itemID string, itemType model.ItemType) ([]*model.Comment, error)

	// Insert はコメントを作成する。
	Insert(ctx context.Context, comment *model.Comment) error

	// DeleteByIDAndAuthor は作者本人のコメントのみ削除する。
	// 削除できた場合はtrueを返す。作者不一致・不存在の場合はfalseを返す。
	DeleteByIDAndAuthor(ctx context.Context, commentID, userEmail string) (bool, error)

	// FindLike は指定(コメント, ユーザー)のいいねを取得する。見つからない場合はnilを返す。
	FindLike(ctx context.Context, commentID, userEmail string) (*model.CommentLike, error)

	// InsertLike はコメントいいねを作成する。
	InsertLike(ctx context.Context, like *model.CommentLike) error

	// DeleteLike は指定IDのコメントいいねを削除する。
	DeleteLike(ctx context.Context, id string) error

	// CountLikes はコメントのいいね数を再集計して返す。
	CountLikes(ctx context.Context, commentID string) (int, error)
}

// ProfileStore はユーザープロファイルの永続化インターフェース。
type ProfileStore interface {
	// FindByID は指定IDのプロファイルを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Profile, error)

	// Insert はプロファイルを作成する。
	// roleは本人が指定できず、常にuserで作成される（昇格はストア側の管理操作のみ）。
	Insert(ctx context.Context, profile *model.Profile) error
}

// SessionStore はサーバー発行セッションの永続化インターフェース。
// セッションはサーバーローカルな状態のため、常にインメモリ実装を使用する。
type SessionStore interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れ・不存在の場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
}

package model

import "time"

// ItemType はいいね・コメントの対象種別を表す。
type ItemType string

const (
	// ItemTypeProject はプロジェクトを対象とする。
	ItemTypeProject ItemType = "project"
	// ItemTypeStory はストーリー（体験談記事）を対象とする。
	ItemTypeStory ItemType = "story"
)

// IsValid は対象種別が定義済みのものかを返す。
func (t ItemType) IsValid() bool {
	return t == ItemTypeProject || t == ItemTypeStory
}

// Like は(ユーザー, 対象)の一意なペアを表す。行の存在が「いいね済み」を意味する。
// 更新操作は存在せず、トグルによる作成と削除のみ。
type Like struct {
	ID        string    `json:"id"`
	UserEmail string    `json:"user_email"`
	ItemID    string    `json:"item_id"`
	ItemType  ItemType  `json:"item_type"`
	CreatedAt time.Time `json:"created_at"`
}

// LikeStatus は対象1件のいいね集計とユーザー自身のいいね状態。
type LikeStatus struct {
	Count     int  `json:"count"`
	UserLiked bool `json:"user_liked"`
}

// Comment は対象に付けられたコメントを表す。
// 作成後の編集はできず、削除は作者本人のみが行える。
type Comment struct {
	ID        string    `json:"id"`
	UserEmail string    `json:"user_email"`
	UserName  string    `json:"user_name"`
	ItemID    string    `json:"item_id"`
	ItemType  ItemType  `json:"item_type"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`

	// LikesCount は派生値。comment_likesの集計で埋める。
	LikesCount int `json:"likes_count"`
}

// CommentLike は(コメント, ユーザー)の一意なペア。Likeと同じトグル規約に従う。
type CommentLike struct {
	ID        string    `json:"id"`
	CommentID string    `json:"comment_id"`
	UserEmail string    `json:"user_email"`
	CreatedAt time.Time `json:"created_at"`
}

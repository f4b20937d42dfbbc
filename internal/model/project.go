// Package model はドメインモデルを定義する。
package model

import "time"

// ProjectStatus はプロジェクトの審査状態を表す。
type ProjectStatus string

const (
	// ProjectStatusPending は投稿直後の審査待ち状態。
	ProjectStatusPending ProjectStatus = "pending"
	// ProjectStatusApproved は承認済み状態。承認後の遷移は存在しない。
	ProjectStatusApproved ProjectStatus = "approved"
	// ProjectStatusRejected は却下済み状態。再投稿は新規プロジェクトとして行う。
	ProjectStatusRejected ProjectStatus = "rejected"
)

// IsValid はステータス値が定義済みのものかを返す。
func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusPending, ProjectStatusApproved, ProjectStatusRejected:
		return true
	}
	return false
}

// Project はコミュニティに投稿されたプロジェクトを表す。
// 投稿後に作者が内容を変更することはできず、状態遷移はモデレーションエンジンのみが行う。
type Project struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Author       string        `json:"author"`
	AuthorEmail  string        `json:"author_email"`
	Technologies []string      `json:"technologies"`
	GithubURL    string        `json:"github_url,omitempty"`
	LiveURL      string        `json:"live_url,omitempty"`
	ImageURL     string        `json:"image_url,omitempty"`
	Status       ProjectStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`

	// LikesCount は派生値。エンティティ本体には保持せず、一覧取得時に集計して埋める。
	LikesCount int `json:"likes_count"`
}

// ProjectSubmission はプロジェクト投稿フォームの入力を表す。
type ProjectSubmission struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Author       string   `json:"author"`
	AuthorEmail  string   `json:"author_email"`
	Technologies []string `json:"technologies"`
	GithubURL    string   `json:"github_url,omitempty"`
	LiveURL      string   `json:"live_url,omitempty"`
	ImageURL     string   `json:"image_url,omitempty"`
	ImageData    string   `json:"image_data,omitempty"`
}

// ProjectStats はプロジェクトのステータス別集計。
type ProjectStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

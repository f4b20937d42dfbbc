// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, moderation, social, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeProjectNotFound = "PROJECT_NOT_FOUND"
	ErrCodeCommentNotFound = "COMMENT_NOT_FOUND"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeInvalidItemType = "INVALID_ITEM_TYPE"
	ErrCodeBackend         = "BACKEND_ERROR"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeInvalidRequest  = "INVALID_REQUEST"
)

// NewValidationError は必須入力欠落などの入力検証エラーを生成する。
func NewValidationError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  fmt.Sprintf("Invalid submission: %s", reason),
		Category: "validation",
		Action:   "Please fill in all required fields and try again.",
	}
}

// NewProjectNotFoundError はプロジェクト未検出エラーを生成する。
func NewProjectNotFoundError(projectID string) *APIError {
	return &APIError{
		Code:     ErrCodeProjectNotFound,
		Message:  fmt.Sprintf("Project not found: %s", projectID),
		Category: "moderation",
		Action:   "Refresh the project list and try again.",
	}
}

// NewCommentNotFoundError はコメント未検出エラーを生成する。
func NewCommentNotFoundError(commentID string) *APIError {
	return &APIError{
		Code:     ErrCodeCommentNotFound,
		Message:  fmt.Sprintf("Comment not found: %s", commentID),
		Category: "social",
		Action:   "The comment may have already been deleted.",
	}
}

// NewNotFoundError はプロジェクト・コメント以外のリソース未検出エラーを生成する。
func NewNotFoundError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeNotFound,
		Message:  message,
		Category: "system",
		Action:   "Check the identifier and try again.",
	}
}

// NewInvalidItemTypeError は未定義の対象種別エラーを生成する。
func NewInvalidItemTypeError(itemType string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidItemType,
		Message:  fmt.Sprintf("Invalid item type: %s", itemType),
		Category: "validation",
		Action:   "Item type must be either 'project' or 'story'.",
	}
}

// NewBackendError はリモートストア呼び出し失敗のエラーを生成する。
// 詳細はログにのみ記録し、ユーザーには一般的なメッセージを返す。
func NewBackendError() *APIError {
	return &APIError{
		Code:     ErrCodeBackend,
		Message:  "The backend service is currently unavailable.",
		Category: "system",
		Action:   "Please wait a moment and try again.",
	}
}

// NewUnauthorizedError は未認証エラーを生成する。
// メール不在とパスワード不一致を区別しないメッセージを渡すこと。
func NewUnauthorizedError(message string) *APIError {
	if message == "" {
		message = "Authentication required."
	}
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  message,
		Category: "auth",
		Action:   "Please log in and try again.",
	}
}

// NewInvalidRequestError は不正なリクエスト形式のエラーを生成する。
func NewInvalidRequestError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  message,
		Category: "validation",
		Action:   "Check the request format and try again.",
	}
}

// NewForbiddenError は権限不足エラーを生成する。
func NewForbiddenError() *APIError {
	return &APIError{
		Code:     ErrCodeForbidden,
		Message:  "You do not have permission to perform this action.",
		Category: "auth",
		Action:   "This action requires an administrator account.",
	}
}

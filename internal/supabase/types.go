package supabase

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoRows は単一行クエリで該当行が存在しなかったことを表す。
// PostgRESTのPGRST116エラーに対応する。
var ErrNoRows = errors.New("supabase: no rows in result set")

// APIError はPostgREST/GoTrueから返されたエラーレスポンスを表す。
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
	Hint       string `json:"hint"`
	// GoTrueはmessageではなくerror_descriptionまたはmsgを使う場合がある。
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.ErrorDescription
	}
	if msg == "" {
		msg = e.Msg
	}
	if e.Code != "" {
		return fmt.Sprintf("supabase: %s (status %d, code %s)", msg, e.StatusCode, e.Code)
	}
	return fmt.Sprintf("supabase: %s (status %d)", msg, e.StatusCode)
}

// pgrstNoRowsCode は単一行要求で0行だった場合のPostgRESTエラーコード。
const pgrstNoRowsCode = "PGRST116"

// parseError はエラーレスポンスボディをAPIErrorに変換する。
// 単一行要求で行が存在しなかった場合はErrNoRowsを返す。
func parseError(body []byte, statusCode int) error {
	apiErr := &APIError{StatusCode: statusCode}
	if len(body) > 0 {
		// デコード失敗時は生のボディをメッセージとして使用する
		if err := json.Unmarshal(body, apiErr); err != nil {
			apiErr.Message = string(body)
		}
	}

	if apiErr.Code == pgrstNoRowsCode {
		return ErrNoRows
	}

	return apiErr
}

// IsNotFound はエラーが「行が存在しない」ことを表すかを返す。
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNoRows)
}

package model

// Result はモデレーション・ソーシャル操作の戻り値を表すタグ付き結果。
// 全ての公開操作はエラーを送出する代わりにResultを返し、
// UIはインラインでメッセージを表示できる。
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// OK は成功結果を生成する。
func OK(message string) *Result {
	return &Result{Success: true, Message: message}
}

// Fail は失敗結果を生成する。
func Fail(message string) *Result {
	return &Result{Success: false, Message: message}
}

// ToggleResult はいいねトグル操作の結果。
// Countはカウンタのインクリメントではなく、トグル後の再集計値。
type ToggleResult struct {
	Success bool   `json:"success"`
	Liked   bool   `json:"liked"`
	Count   int    `json:"count"`
	Message string `json:"message"`
}

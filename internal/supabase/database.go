package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// QueryBuilder はPostgRESTへのクエリを構築・実行する。
// 必要な操作（select/insert/update/delete、eq/inフィルタ、order、count）のみを実装する。
type QueryBuilder struct {
	client   *Client
	table    string
	method   string
	columns  string
	filters  []string
	orders   []string
	limitVal *int
	body     []byte
	headers  map[string]string
	single   bool
}

// Select は取得カラムを指定する。
func (q *QueryBuilder) Select(columns string) *QueryBuilder {
	q.method = http.MethodGet
	q.columns = columns
	return q
}

// Insert はレコードの挿入を指定する。挿入結果の行を返させる。
func (q *QueryBuilder) Insert(data any) *QueryBuilder {
	q.method = http.MethodPost
	body, _ := json.Marshal(data)
	q.body = body
	q.headers["Prefer"] = "return=representation"
	return q
}

// Update はフィルタに一致する行の更新を指定する。
func (q *QueryBuilder) Update(data any) *QueryBuilder {
	q.method = http.MethodPatch
	body, _ := json.Marshal(data)
	q.body = body
	q.headers["Prefer"] = "return=representation"
	return q
}

// Delete はフィルタに一致する行の削除を指定する。
// 削除された行を返させることで、呼び出し側は削除件数を確認できる。
func (q *QueryBuilder) Delete() *QueryBuilder {
	q.method = http.MethodDelete
	q.headers["Prefer"] = "return=representation"
	return q
}

// Eq は等価フィルタを追加する。
func (q *QueryBuilder) Eq(column string, value any) *QueryBuilder {
	q.filters = append(q.filters, fmt.Sprintf("%s=eq.%v", column, value))
	return q
}

// In はINフィルタを追加する。
func (q *QueryBuilder) In(column string, values []string) *QueryBuilder {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = `"` + v + `"`
	}
	q.filters = append(q.filters, fmt.Sprintf("%s=in.(%s)", column, url.QueryEscape(strings.Join(quoted, ","))))
	return q
}

// Order はソート順を追加する。descがtrueの場合は降順。
func (q *QueryBuilder) Order(column string, desc bool) *QueryBuilder {
	dir := "asc"
	if desc {
		dir = "desc"
	}
	q.orders = append(q.orders, fmt.Sprintf("%s.%s", column, dir))
	return q
}

// Limit は最大取得件数を設定する。
func (q *QueryBuilder) Limit(n int) *QueryBuilder {
	q.limitVal = &n
	return q
}

// Single は単一行の取得を指定する。
// 該当行が存在しない場合、ExecuteIntoはErrNoRowsを返す。
func (q *QueryBuilder) Single() *QueryBuilder {
	q.single = true
	q.headers["Accept"] = "application/vnd.pgrst.object+json"
	return q
}

// Execute はクエリを実行して生のレスポンスボディを返す。
func (q *QueryBuilder) Execute(ctx context.Context) ([]byte, error) {
	respBody, statusCode, _, err := q.client.request(ctx, q.method, q.buildURL(), q.body, q.headers)
	if err != nil {
		return nil, err
	}

	if statusCode >= 400 {
		return nil, parseError(respBody, statusCode)
	}

	return respBody, nil
}

// ExecuteInto はクエリを実行し、結果をdestにデコードする。
func (q *QueryBuilder) ExecuteInto(ctx context.Context, dest any) error {
	data, err := q.Execute(ctx)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	return nil
}

// ExecuteCount はフィルタに一致する行数のみを取得する。
// ボディを転送しないHEADリクエストとContent-Rangeヘッダーで行数を得る。
func (q *QueryBuilder) ExecuteCount(ctx context.Context) (int, error) {
	q.method = http.MethodHead
	q.headers["Prefer"] = "count=exact"

	respBody, statusCode, respHeaders, err := q.client.request(ctx, q.method, q.buildURL(), nil, q.headers)
	if err != nil {
		return 0, err
	}

	if statusCode >= 400 {
		return 0, parseError(respBody, statusCode)
	}

	// Content-Range: "0-24/3573" または "*/0"
	contentRange := respHeaders.Get("Content-Range")
	idx := strings.LastIndex(contentRange, "/")
	if idx < 0 {
		return 0, fmt.Errorf("missing Content-Range header in count response")
	}

	count, err := strconv.Atoi(contentRange[idx+1:])
	if err != nil {
		return 0, fmt.Errorf("parse Content-Range %q: %w", contentRange, err)
	}

	return count, nil
}

// buildURL はリクエストURLを構築する。
func (q *QueryBuilder) buildURL() string {
	urlStr := q.client.restURL + "/" + url.PathEscape(q.table)

	params := make([]string, 0, len(q.filters)+3)

	if (q.method == http.MethodGet || q.method == http.MethodHead) && q.columns != "" {
		params = append(params, "select="+url.QueryEscape(q.columns))
	}

	params = append(params, q.filters...)

	if len(q.orders) > 0 {
		params = append(params, "order="+strings.Join(q.orders, ","))
	}

	if q.limitVal != nil {
		params = append(params, fmt.Sprintf("limit=%d", *q.limitVal))
	}

	if len(params) > 0 {
		urlStr += "?" + strings.Join(params, "&")
	}

	return urlStr
}

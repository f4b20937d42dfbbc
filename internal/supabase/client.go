// Package supabase はホスト型バックエンド（PostgREST + GoTrue）のHTTPクライアントを提供する。
// リモートストアは不透明な外部サービスとして扱い、RESTエンドポイント越しにのみ操作する。
package supabase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client はSupabaseプロジェクトへのHTTPクライアント。
// anonキーを全リクエストに付与する。行レベルの権限制御はストア側のポリシーに委ねる。
type Client struct {
	baseURL string
	restURL string
	authURL string
	anonKey string

	httpClient *http.Client
}

// New はClientを生成する。projectURLとanonKeyは必須。
// 有効性の判定（プレースホルダー検出）は呼び出し側のconfigが行う。
func New(projectURL, anonKey string, timeout time.Duration) (*Client, error) {
	if projectURL == "" {
		return nil, fmt.Errorf("project URL is required")
	}
	if anonKey == "" {
		return nil, fmt.Errorf("anon key is required")
	}

	baseURL := strings.TrimRight(projectURL, "/")
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid project URL: %w", err)
	}

	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: baseURL,
		restURL: baseURL + "/rest/v1",
		authURL: baseURL + "/auth/v1",
		anonKey: anonKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// From は指定テーブルに対するクエリビルダーを開始する。
func (c *Client) From(table string) *QueryBuilder {
	return &QueryBuilder{
		client:  c,
		table:   table,
		method:  http.MethodGet,
		columns: "*",
		headers: make(map[string]string),
	}
}

// request はanonキー付きでHTTPリクエストを実行する。
// レスポンスボディ、ステータスコード、レスポンスヘッダーを返す。
func (c *Client) request(ctx context.Context, method, urlStr string, body []byte, headers map[string]string) ([]byte, int, http.Header, error) {
	return c.requestWithToken(ctx, method, urlStr, body, headers, "")
}

// requestWithToken はユーザーのアクセストークンを優先してHTTPリクエストを実行する。
// トークンが空の場合はanonキーをBearerとして使用する。
func (c *Client) requestWithToken(ctx context.Context, method, urlStr string, body []byte, headers map[string]string, accessToken string) ([]byte, int, http.Header, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, urlStr, reader)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("apikey", c.anonKey)
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.anonKey)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("request %s %s: %w", method, urlStr, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, resp.Header, fmt.Errorf("read response body: %w", err)
	}

	return respBody, resp.StatusCode, resp.Header, nil
}

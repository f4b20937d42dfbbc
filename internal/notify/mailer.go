// Package notify は審査結果の通知（メール・トースト）を提供する。
//
// 通知はベストエフォートで行われ、送信の失敗が審査操作の成否に
// 影響することはない。
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/naedex/naedex/internal/metrics"
)

const brevoAPIURL = "https://api.brevo.com/v3/smtp/email"

// Mailer は審査結果メールの送信インターフェース。
type Mailer interface {
	// SendProjectApproval は承認メールを送信する。
	SendProjectApproval(ctx context.Context, toEmail, projectTitle string) error
	// SendProjectRejection は差し戻しメールを送信する。
	SendProjectRejection(ctx context.Context, toEmail, projectTitle string) error
	// SendFormSubmission はフォーム投稿をサイト運営宛に転送する。
	SendFormSubmission(ctx context.Context, formName, replyTo string, fields []FormField) error
}

// FormField はフォーム転送メールの1項目。表示順を保持する。
type FormField struct {
	Label string
	Value string
}

// brevoRequest はBrevoトランザクションメールAPIのリクエストボディ。
type brevoRequest struct {
	Sender      brevoSender      `json:"sender"`
	To          []brevoRecipient `json:"to"`
	Subject     string           `json:"subject"`
	HTMLContent string           `json:"htmlContent"`
	TextContent string           `json:"textContent,omitempty"`
}

type brevoSender struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type brevoRecipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// brevoError はBrevo APIのエラーレスポンス。
type brevoError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BrevoMailer はBrevoトランザクションメールAPIを使うMailer実装。
//
// APIキー未設定の場合は送信せずログのみ出力して成功扱いにする（モックモード）。
// BrevoのIP認可エラーも同様に成功へ縮退させる。ローカル開発環境のIPが
// 認可リストにないだけで審査操作を失敗させないため。
type BrevoMailer struct {
	apiKey     string
	fromEmail  string
	fromName   string
	siteOrigin string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    metrics.MetricsCollector
}

var _ Mailer = (*BrevoMailer)(nil)

// NewBrevoMailer はBrevoMailerを作成する。
// apiKeyが空の場合はモックモードで動作する。
func NewBrevoMailer(
	apiKey, fromEmail, fromName, siteOrigin string,
	httpClient *http.Client,
	logger *slog.Logger,
	collector metrics.MetricsCollector,
) *BrevoMailer {
	return &BrevoMailer{
		apiKey:     apiKey,
		fromEmail:  fromEmail,
		fromName:   fromName,
		siteOrigin: siteOrigin,
		httpClient: httpClient,
		logger:     logger,
		metrics:    collector,
	}
}

// SendProjectApproval は承認メールを送信する。
func (m *BrevoMailer) SendProjectApproval(ctx context.Context, toEmail, projectTitle string) error {
	subject := fmt.Sprintf("🎉 Your project %q has been approved!", projectTitle)
	html := m.approvalHTML(projectTitle)
	text := fmt.Sprintf(
		"Congratulations! Your project %q has been approved!\n\n"+
			"Your project has been reviewed and approved by our team. It's now live on our project showcase.\n\n"+
			"View your project: %s/projects\n\n"+
			"Thank you for contributing to our community!\nThe NaedeX Team\n",
		projectTitle, m.siteOrigin)

	return m.send(ctx, toEmail, subject, html, text)
}

// SendProjectRejection は差し戻しメールを送信する。
func (m *BrevoMailer) SendProjectRejection(ctx context.Context, toEmail, projectTitle string) error {
	subject := fmt.Sprintf("📝 Your project %q needs updates", projectTitle)
	html := m.rejectionHTML(projectTitle)
	text := fmt.Sprintf(
		"Your project %q needs updates\n\n"+
			"Thank you for submitting your project. After review, we've identified some areas that need attention "+
			"before it can be approved.\n\n"+
			"Please review the feedback and make the necessary updates. You can resubmit once the changes are complete.\n\n"+
			"Submit updated project: %s/projects\n\n"+
			"We appreciate your contribution!\nThe NaedeX Team\n",
		projectTitle, m.siteOrigin)

	return m.send(ctx, toEmail, subject, html, text)
}

// SendFormSubmission はフォーム投稿を運営の受信箱（送信元アドレス）に転送する。
func (m *BrevoMailer) SendFormSubmission(ctx context.Context, formName, replyTo string, fields []FormField) error {
	subject := fmt.Sprintf("[NaedeX] New %s submission", formName)

	var textBuf, htmlBuf strings.Builder
	fmt.Fprintf(&textBuf, "New %s submission\n\nReply to: %s\n\n", formName, replyTo)
	fmt.Fprintf(&htmlBuf, `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">New %s submission</h2>
  <p style="color: #666;">Reply to: %s</p>
  <table style="border-collapse: collapse;">`, formName, replyTo)
	for _, f := range fields {
		fmt.Fprintf(&textBuf, "%s: %s\n", f.Label, f.Value)
		fmt.Fprintf(&htmlBuf, `
    <tr>
      <td style="padding: 6px 12px 6px 0; color: #666; vertical-align: top;"><strong>%s</strong></td>
      <td style="padding: 6px 0; color: #333;">%s</td>
    </tr>`, f.Label, f.Value)
	}
	htmlBuf.WriteString(`
  </table>
</div>`)

	return m.send(ctx, m.fromEmail, subject, htmlBuf.String(), textBuf.String())
}

func (m *BrevoMailer) send(ctx context.Context, toEmail, subject, html, text string) error {
	if m.apiKey == "" {
		m.logger.Info("mail API key not configured, logging instead of sending",
			slog.String("to", toEmail),
			slog.String("subject", subject))
		m.metrics.RecordEmailSent("skipped")
		return nil
	}

	payload := brevoRequest{
		Sender:      brevoSender{Name: m.fromName, Email: m.fromEmail},
		To:          []brevoRecipient{{Email: toEmail}},
		Subject:     subject,
		HTMLContent: html,
		TextContent: text,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		m.metrics.RecordEmailSent("failed")
		return fmt.Errorf("メールリクエストの構築に失敗しました: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, brevoAPIURL, bytes.NewReader(body))
	if err != nil {
		m.metrics.RecordEmailSent("failed")
		return fmt.Errorf("メールリクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", m.apiKey)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		m.metrics.RecordEmailSent("failed")
		return fmt.Errorf("メール送信に失敗しました: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		m.logger.Info("notification email sent",
			slog.String("to", toEmail),
			slog.String("subject", subject))
		m.metrics.RecordEmailSent("sent")
		return nil
	}

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var apiErr brevoError
	_ = json.Unmarshal(respBody, &apiErr)

	// IP認可エラーは成功に縮退させる
	if apiErr.Code == "unauthorized" && strings.Contains(apiErr.Message, "IP address") {
		m.logger.Warn("sender IP not authorized for mail API, logging instead of sending",
			slog.String("to", toEmail),
			slog.String("subject", subject))
		m.metrics.RecordEmailSent("skipped")
		return nil
	}

	m.metrics.RecordEmailSent("failed")
	return fmt.Errorf("メール送信に失敗しました: status=%d message=%s", resp.StatusCode, apiErr.Message)
}

func (m *BrevoMailer) approvalHTML(projectTitle string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background: linear-gradient(135deg, #667eea 0%%, #764ba2 100%%); padding: 30px; text-align: center;">
    <h1 style="color: white; margin: 0;">🎉 Congratulations!</h1>
  </div>
  <div style="padding: 30px; background: #f8f9fa;">
    <h2 style="color: #333;">Your project has been approved!</h2>
    <p style="color: #666; font-size: 16px; line-height: 1.6;">
      Great news! Your project <strong>%q</strong> has been reviewed and approved by our team.
      It's now live on our project showcase for everyone to see.
    </p>
    <div style="text-align: center; margin: 30px 0;">
      <a href="%s/projects"
         style="background: #007bff; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">
        View Your Project
      </a>
    </div>
    <p style="color: #666; font-size: 14px;">
      Thank you for contributing to our community!<br>
      The NaedeX Team
    </p>
  </div>
</div>`, projectTitle, m.siteOrigin)
}

func (m *BrevoMailer) rejectionHTML(projectTitle string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background: linear-gradient(135deg, #ffeaa7 0%%, #fab1a0 100%%); padding: 30px; text-align: center;">
    <h1 style="color: #2d3436; margin: 0;">📝 Project Review Update</h1>
  </div>
  <div style="padding: 30px; background: #f8f9fa;">
    <h2 style="color: #333;">Your project needs some updates</h2>
    <p style="color: #666; font-size: 16px; line-height: 1.6;">
      Thank you for submitting your project <strong>%q</strong>.
      After review, we've identified some areas that need attention before it can be approved.
    </p>
    <div style="text-align: center; margin: 30px 0;">
      <a href="%s/projects"
         style="background: #17a2b8; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">
        Submit Updated Project
      </a>
    </div>
    <p style="color: #666; font-size: 14px;">
      We appreciate your contribution and look forward to seeing your updated project!<br>
      The NaedeX Team
    </p>
  </div>
</div>`, projectTitle, m.siteOrigin)
}

package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/naedex/naedex/internal/model"
)

// ProjectServiceInterface はプロジェクトハンドラーが必要とするサービスインターフェース。
type ProjectServiceInterface interface {
	Submit(ctx context.Context, submission *model.ProjectSubmission) (*model.Result, error)
	Approve(ctx context.Context, projectID string) (*model.Result, error)
	Reject(ctx context.Context, projectID string) (*model.Result, error)
	Delete(ctx context.Context, projectID string) (*model.Result, error)
	ListApproved(ctx context.Context) ([]*model.Project, error)
	ListAll(ctx context.Context) ([]*model.Project, error)
	ListByStatus(ctx context.Context, status model.ProjectStatus) ([]*model.Project, error)
	Stats(ctx context.Context) (*model.ProjectStats, error)
}

// ProjectHandler はプロジェクトのHTTPハンドラー。
type ProjectHandler struct {
	service ProjectServiceInterface
}

// NewProjectHandler はProjectHandlerを生成する。
func NewProjectHandler(service ProjectServiceInterface) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// projectListResponse はプロジェクト一覧のAPIレスポンス。
type projectListResponse struct {
	Projects []*model.Project `json:"projects"`
}

// List は承認済みプロジェクトの一覧を返す。誰でも閲覧できる。
// GET /api/projects
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.ListApproved(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projectListResponse{Projects: projects})
}

// ListAll は全ステータスのプロジェクト一覧を返す。管理者専用。
// GET /api/projects/all
func (h *ProjectHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.ListAll(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projectListResponse{Projects: projects})
}

// ListByStatus は指定ステータスのプロジェクト一覧を返す。管理者専用。
// GET /api/projects/status/{status}
func (h *ProjectHandler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	status := model.ProjectStatus(chi.URLParam(r, "status"))
	projects, err := h.service.ListByStatus(r.Context(), status)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projectListResponse{Projects: projects})
}

// Stats はステータス別の集計を返す。管理者専用。
// GET /api/projects/stats
func (h *ProjectHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Submit はプロジェクトを投稿する。投稿直後は審査待ちになる。
// POST /api/projects
func (h *ProjectHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var submission model.ProjectSubmission
	if !decodeJSONBody(w, r, &submission) {
		return
	}

	result, err := h.service.Submit(r.Context(), &submission)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// Approve はプロジェクトを承認する。管理者専用。
// POST /api/projects/{id}/approve
func (h *ProjectHandler) Approve(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Approve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Reject はプロジェクトを却下する。管理者専用。
// POST /api/projects/{id}/reject
func (h *ProjectHandler) Reject(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Reject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Delete はプロジェクトを削除する。管理者専用。
// DELETE /api/projects/{id}
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

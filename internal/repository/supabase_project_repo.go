package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/naedex/naedex/internal/model"
	"github.com/naedex/naedex/internal/supabase"
)

const projectsTable = "projects"

// projectRow はprojectsテーブルの行表現。
type projectRow struct {
	ID           string    `json:"id,omitempty"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Author       string    `json:"author"`
	AuthorEmail  string    `json:"author_email"`
	Technologies []string  `json:"technologies"`
	GithubURL    string    `json:"github_url,omitempty"`
	LiveURL      string    `json:"live_url,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

func (r *projectRow) toModel() *model.Project {
	return &model.Project{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		Author:       r.Author,
		AuthorEmail:  r.AuthorEmail,
		Technologies: r.Technologies,
		GithubURL:    r.GithubURL,
		LiveURL:      r.LiveURL,
		ImageURL:     r.ImageURL,
		Status:       model.ProjectStatus(r.Status),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// SupabaseProjectRepository はProjectStoreのSupabase実装。
type SupabaseProjectRepository struct {
	client *supabase.Client
}

var _ ProjectStore = (*SupabaseProjectRepository)(nil)

// NewSupabaseProjectRepository はSupabaseProjectRepositoryを作成する。
func NewSupabaseProjectRepository(client *supabase.Client) *SupabaseProjectRepository {
	return &SupabaseProjectRepository{client: client}
}

func (r *SupabaseProjectRepository) Insert(ctx context.Context, project *model.Project) error {
	row := projectRow{
		Title:        project.Title,
		Description:  project.Description,
		Author:       project.Author,
		AuthorEmail:  project.AuthorEmail,
		Technologies: project.Technologies,
		GithubURL:    project.GithubURL,
		LiveURL:      project.LiveURL,
		ImageURL:     project.ImageURL,
		Status:       string(project.Status),
	}

	var created []projectRow
	if err := r.client.From(projectsTable).Insert(row).ExecuteInto(ctx, &created); err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	if len(created) > 0 {
		project.ID = created[0].ID
		project.CreatedAt = created[0].CreatedAt
		project.UpdatedAt = created[0].UpdatedAt
	}
	return nil
}

func (r *SupabaseProjectRepository) FindByID(ctx context.Context, id string) (*model.Project, error) {
	var row projectRow
	err := r.client.From(projectsTable).Select("*").Eq("id", id).Single().ExecuteInto(ctx, &row)
	if err != nil {
		if supabase.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find project by id: %w", err)
	}
	return row.toModel(), nil
}

func (r *SupabaseProjectRepository) UpdateStatus(ctx context.Context, id string, status model.ProjectStatus, updatedAt time.Time) error {
	patch := map[string]any{
		"status":     string(status),
		"updated_at": updatedAt.UTC().Format(time.RFC3339Nano),
	}
	if _, err := r.client.From(projectsTable).Update(patch).Eq("id", id).Execute(ctx); err != nil {
		return fmt.Errorf("update project status: %w", err)
	}
	return nil
}

func (r *SupabaseProjectRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.client.From(projectsTable).Delete().Eq("id", id).Execute(ctx); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

func (r *SupabaseProjectRepository) ListAll(ctx context.Context) ([]*model.Project, error) {
	var rows []projectRow
	err := r.client.From(projectsTable).Select("*").Order("created_at", true).ExecuteInto(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("list all projects: %w", err)
	}
	return rowsToProjects(rows), nil
}

func (r *SupabaseProjectRepository) ListByStatus(ctx context.Context, status model.ProjectStatus) ([]*model.Project, error) {
	var rows []projectRow
	err := r.client.From(projectsTable).Select("*").
		Eq("status", string(status)).
		Order("created_at", true).
		ExecuteInto(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("list projects by status: %w", err)
	}
	return rowsToProjects(rows), nil
}

func rowsToProjects(rows []projectRow) []*model.Project {
	projects := make([]*model.Project, 0, len(rows))
	for i := range rows {
		projects = append(projects, rows[i].toModel())
	}
	return projects
}

package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/naedex/naedex/internal/model"
)

// MemoryProjectRepository はProjectStoreのインメモリ実装。
// リモートストアが未構成の場合に使用し、デモ用のシードデータを保持する。
type MemoryProjectRepository struct {
	mu       sync.RWMutex
	projects map[string]*model.Project
}

var _ ProjectStore = (*MemoryProjectRepository)(nil)

// NewMemoryProjectRepository はシードデータ入りのMemoryProjectRepositoryを作成する。
func NewMemoryProjectRepository() *MemoryProjectRepository {
	r := &MemoryProjectRepository{projects: make(map[string]*model.Project)}
	for _, p := range seedProjects() {
		r.projects[p.ID] = p
	}
	return r
}

func seedProjects() []*model.Project {
	day := func(s string) time.Time {
		t, _ := time.Parse("2006-01-02", s)
		return t
	}
	return []*model.Project{
		{
			ID:           "1",
			Title:        "Task Management App",
			Description:  "A modern task management application built with React and TypeScript. Features include drag-and-drop functionality, real-time updates, and team collaboration.",
			Author:       "John Doe",
			AuthorEmail:  "john@example.com",
			Technologies: []string{"React", "TypeScript", "Node.js", "MongoDB"},
			GithubURL:    "https://github.com/johndoe/task-app",
			LiveURL:      "https://task-app-demo.com",
			ImageURL:     "https://images.unsplash.com/photo-1611224923853-80b023f02d71?w=400&h=250&fit=crop",
			Status:       model.ProjectStatusApproved,
			CreatedAt:    day("2024-10-01"),
		},
		{
			ID:           "2",
			Title:        "Weather Dashboard",
			Description:  "A responsive weather dashboard that provides real-time weather information with beautiful visualizations and forecasts.",
			Author:       "Jane Smith",
			AuthorEmail:  "jane@example.com",
			Technologies: []string{"Vue.js", "JavaScript", "Chart.js", "OpenWeather API"},
			GithubURL:    "https://github.com/janesmith/weather-dashboard",
			LiveURL:      "https://weather-dash.com",
			ImageURL:     "https://images.unsplash.com/photo-1504608524841-42fe6f032b4b?w=400&h=250&fit=crop",
			Status:       model.ProjectStatusApproved,
			CreatedAt:    day("2024-09-28"),
		},
		{
			ID:           "3",
			Title:        "E-commerce Platform",
			Description:  "Full-stack e-commerce solution with payment integration, inventory management, and admin dashboard.",
			Author:       "Mike Johnson",
			AuthorEmail:  "mike@example.com",
			Technologies: []string{"Next.js", "Prisma", "PostgreSQL", "Stripe"},
			GithubURL:    "https://github.com/mikejohnson/ecommerce",
			ImageURL:     "https://images.unsplash.com/photo-1556742049-0cfed4f6a45d?w=400&h=250&fit=crop",
			Status:       model.ProjectStatusApproved,
			CreatedAt:    day("2024-09-25"),
		},
		{
			ID:           "4",
			Title:        "AI Chat Application",
			Description:  "A real-time chat application powered by AI with natural language processing capabilities. Features include smart replies, sentiment analysis, and multi-language support.",
			Author:       "Alice Johnson",
			AuthorEmail:  "alice@example.com",
			Technologies: []string{"React", "Node.js", "OpenAI API", "Socket.io", "MongoDB"},
			GithubURL:    "https://github.com/alice/ai-chat",
			LiveURL:      "https://ai-chat-demo.com",
			ImageURL:     "https://images.unsplash.com/photo-1587560699334-cc4ff634909a?w=400&h=250&fit=crop",
			Status:       model.ProjectStatusPending,
			CreatedAt:    day("2024-10-05"),
		},
	}
}

func (r *MemoryProjectRepository) Insert(_ context.Context, project *model.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	now := time.Now()
	if project.CreatedAt.IsZero() {
		project.CreatedAt = now
	}
	project.UpdatedAt = now

	clone := *project
	r.projects[project.ID] = &clone
	return nil
}

func (r *MemoryProjectRepository) FindByID(_ context.Context, id string) (*model.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.projects[id]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (r *MemoryProjectRepository) UpdateStatus(_ context.Context, id string, status model.ProjectStatus, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.projects[id]; ok {
		p.Status = status
		p.UpdatedAt = updatedAt
	}
	return nil
}

func (r *MemoryProjectRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.projects, id)
	return nil
}

func (r *MemoryProjectRepository) ListAll(_ context.Context) ([]*model.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	projects := make([]*model.Project, 0, len(r.projects))
	for _, p := range r.projects {
		clone := *p
		projects = append(projects, &clone)
	}
	sortProjectsByCreatedAtDesc(projects)
	return projects, nil
}

func (r *MemoryProjectRepository) ListByStatus(_ context.Context, status model.ProjectStatus) ([]*model.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var projects []*model.Project
	for _, p := range r.projects {
		if p.Status == status {
			clone := *p
			projects = append(projects, &clone)
		}
	}
	sortProjectsByCreatedAtDesc(projects)
	return projects, nil
}

func sortProjectsByCreatedAtDesc(projects []*model.Project) {
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})
}

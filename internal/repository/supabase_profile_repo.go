package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/naedex/naedex/internal/model"
	"github.com/naedex/naedex/internal/supabase"
)

const profilesTable = "profiles"

// profileRow はprofilesテーブルの行表現。
type profileRow struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name,omitempty"`
	DisplayName string    `json:"display_name,omitempty"`
	Role        string    `json:"role,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// SupabaseProfileRepository はProfileStoreのSupabase実装。
type SupabaseProfileRepository struct {
	client *supabase.Client
}

var _ ProfileStore = (*SupabaseProfileRepository)(nil)

// NewSupabaseProfileRepository はSupabaseProfileRepositoryを作成する。
func NewSupabaseProfileRepository(client *supabase.Client) *SupabaseProfileRepository {
	return &SupabaseProfileRepository{client: client}
}

func (r *SupabaseProfileRepository) FindByID(ctx context.Context, id string) (*model.Profile, error) {
	var row profileRow
	err := r.client.From(profilesTable).Select("*").Eq("id", id).Single().ExecuteInto(ctx, &row)
	if err != nil {
		if supabase.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find profile by id: %w", err)
	}
	return &model.Profile{
		ID:          row.ID,
		Email:       row.Email,
		Name:        row.Name,
		DisplayName: row.DisplayName,
		Role:        model.Role(row.Role),
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

func (r *SupabaseProfileRepository) Insert(ctx context.Context, profile *model.Profile) error {
	// roleはクライアントから指定させない。DB側のデフォルト(user)に任せる。
	row := profileRow{
		ID:          profile.ID,
		Email:       profile.Email,
		Name:        profile.Name,
		DisplayName: profile.DisplayName,
	}
	if _, err := r.client.From(profilesTable).Insert(row).Execute(ctx); err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

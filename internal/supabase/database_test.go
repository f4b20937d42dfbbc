package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"
)

func TestQueryBuilder_SelectBuildsURL(t *testing.T) {
	var gotPath, gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	})

	var out []struct{}
	err := client.From("projects").
		Select("*").
		Eq("status", "approved").
		Order("created_at", true).
		Limit(10).
		ExecuteInto(context.Background(), &out)
	if err != nil {
		t.Fatalf("ExecuteInto() error = %v", err)
	}

	if gotPath != "/rest/v1/projects" {
		t.Errorf("path = %q, want /rest/v1/projects", gotPath)
	}
	wantQuery := "select=%2A&status=eq.approved&order=created_at.desc&limit=10"
	if gotQuery != wantQuery {
		t.Errorf("query = %q, want %q", gotQuery, wantQuery)
	}
}

func TestQueryBuilder_InsertSendsBodyAndPrefer(t *testing.T) {
	var gotMethod, gotPrefer string
	var gotBody map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPrefer = r.Header.Get("Prefer")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`[{"id":"p1"}]`))
	})

	var out []struct {
		ID string `json:"id"`
	}
	err := client.From("projects").
		Insert(map[string]string{"title": "New Project"}).
		ExecuteInto(context.Background(), &out)
	if err != nil {
		t.Fatalf("ExecuteInto() error = %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("method = %q, want POST", gotMethod)
	}
	if gotPrefer != "return=representation" {
		t.Errorf("Prefer = %q, want return=representation", gotPrefer)
	}
	if gotBody["title"] != "New Project" {
		t.Errorf("body title = %v, want New Project", gotBody["title"])
	}
	if len(out) != 1 || out[0].ID != "p1" {
		t.Errorf("decoded rows = %+v, want inserted row", out)
	}
}

func TestQueryBuilder_SingleNoRowsReturnsErrNoRows(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if accept := r.Header.Get("Accept"); accept != "application/vnd.pgrst.object+json" {
			t.Errorf("Accept = %q, want single-object media type", accept)
		}
		w.WriteHeader(http.StatusNotAcceptable)
		w.Write([]byte(`{"code":"PGRST116","message":"JSON object requested, multiple (or no) rows returned"}`))
	})

	var out struct{}
	err := client.From("projects").Select("*").Eq("id", "missing").Single().ExecuteInto(context.Background(), &out)
	if !errors.Is(err, ErrNoRows) {
		t.Errorf("error = %v, want ErrNoRows", err)
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound() = false, want true")
	}
}

func TestQueryBuilder_ErrorResponseBecomesAPIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":"42501","message":"permission denied for table projects"}`))
	})

	_, err := client.From("projects").Select("*").Execute(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized || apiErr.Code != "42501" {
		t.Errorf("APIError = %+v, want status 401 code 42501", apiErr)
	}
}

func TestQueryBuilder_ExecuteCountParsesContentRange(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("method = %q, want HEAD", r.Method)
		}
		if prefer := r.Header.Get("Prefer"); prefer != "count=exact" {
			t.Errorf("Prefer = %q, want count=exact", prefer)
		}
		w.Header().Set("Content-Range", "0-2/3")
		w.WriteHeader(http.StatusOK)
	})

	count, err := client.From("likes").Select("id").Eq("item_id", "p1").ExecuteCount(context.Background())
	if err != nil {
		t.Fatalf("ExecuteCount() error = %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}

func TestQueryBuilder_ExecuteCountZeroRows(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Range", "*/0")
		w.WriteHeader(http.StatusOK)
	})

	count, err := client.From("likes").Select("id").ExecuteCount(context.Background())
	if err != nil {
		t.Fatalf("ExecuteCount() error = %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

func TestQueryBuilder_DeleteReturnsDeletedRows(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %q, want DELETE", r.Method)
		}
		w.Write([]byte(`[{"id":"l1"}]`))
	})

	var deleted []struct {
		ID string `json:"id"`
	}
	err := client.From("likes").Delete().Eq("id", "l1").ExecuteInto(context.Background(), &deleted)
	if err != nil {
		t.Fatalf("ExecuteInto() error = %v", err)
	}
	if len(deleted) != 1 {
		t.Errorf("deleted rows = %d, want 1", len(deleted))
	}
}

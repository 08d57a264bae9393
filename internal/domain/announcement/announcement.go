package announcement

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"timesheet/internal/platform/db"
	"timesheet/internal/platform/querier"
)

var (
	ErrNotFound      = errors.New("announcement not found")
	ErrTitleRequired = errors.New("title is required")
)

type Announcement struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Pinned    bool      `json:"pinned"`
	AuthorID  string    `json:"authorId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Input struct {
	Title  string
	Body   string
	Pinned bool
}

type StoreAPI interface {
	List(ctx context.Context, limit int) ([]Announcement, error)
	Get(ctx context.Context, id string) (Announcement, error)
	Create(ctx context.Context, a Announcement) (Announcement, error)
	Update(ctx context.Context, a Announcement) (Announcement, error)
	Delete(ctx context.Context, id string) error
}

type Store struct {
	DB querier.Querier
}

func NewStore(q querier.Querier) *Store {
	return &Store{DB: q}
}

const columns = "id, title, body, pinned, COALESCE(author_id::text, ''), created_at, updated_at"

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (Announcement, error) {
	var a Announcement
	err := row.Scan(&a.ID, &a.Title, &a.Body, &a.Pinned, &a.AuthorID, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (s *Store) List(ctx context.Context, limit int) ([]Announcement, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+columns+" FROM announcements ORDER BY pinned DESC, created_at DESC LIMIT $1", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Announcement
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Announcement, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Announcement{}, ErrNotFound
	}
	a, err := scan(s.DB.QueryRow(ctx, "SELECT "+columns+" FROM announcements WHERE id = $1", id))
	if db.IsNoRows(err) {
		return Announcement{}, ErrNotFound
	}
	return a, err
}

func (s *Store) Create(ctx context.Context, a Announcement) (Announcement, error) {
	var author any
	if a.AuthorID != "" {
		author = a.AuthorID
	}
	return scan(s.DB.QueryRow(ctx, `
    INSERT INTO announcements (title, body, pinned, author_id)
    VALUES ($1, $2, $3, $4)
    RETURNING `+columns, a.Title, a.Body, a.Pinned, author))
}

func (s *Store) Update(ctx context.Context, a Announcement) (Announcement, error) {
	updated, err := scan(s.DB.QueryRow(ctx, `
    UPDATE announcements SET title = $2, body = $3, pinned = $4, updated_at = now()
    WHERE id = $1
    RETURNING `+columns, a.ID, a.Title, a.Body, a.Pinned))
	if db.IsNoRows(err) {
		return Announcement{}, ErrNotFound
	}
	return updated, err
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	tag, err := s.DB.Exec(ctx, "DELETE FROM announcements WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

// List returns pinned announcements first, then the newest.
func (s *Service) List(ctx context.Context, limit int) ([]Announcement, error) {
	if limit <= 0 {
		limit = 50
	}
	items, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Pinned != items[j].Pinned {
			return items[i].Pinned
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Service) Create(ctx context.Context, authorID string, in Input) (Announcement, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Announcement{}, ErrTitleRequired
	}
	return s.store.Create(ctx, Announcement{Title: title, Body: strings.TrimSpace(in.Body), Pinned: in.Pinned, AuthorID: authorID})
}

func (s *Service) Update(ctx context.Context, id string, in Input) (Announcement, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return Announcement{}, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Announcement{}, ErrTitleRequired
	}
	current.Title = title
	current.Body = strings.TrimSpace(in.Body)
	current.Pinned = in.Pinned
	return s.store.Update(ctx, current)
}

func (s *Service) Delete(ctx context.Context, id string) (Announcement, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return Announcement{}, err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return Announcement{}, err
	}
	return current, nil
}

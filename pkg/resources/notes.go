package resources

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/jrepp/planbook/pkg/apiclient"
)

// Note is a markdown note.
type Note struct {
	ID           int64  `json:"id" yaml:"id"`
	Title        string `json:"title" yaml:"title"`
	Content      string `json:"content" yaml:"content"`
	CategoryID   *int64 `json:"categoryId,omitempty" yaml:"categoryId,omitempty"`
	CategoryName string `json:"categoryName,omitempty" yaml:"categoryName,omitempty"`
	Tags         string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Favorited    int    `json:"favorited" yaml:"favorited"`
	CreatedAt    string `json:"createdAt" yaml:"createdAt"`
	UpdatedAt    string `json:"updatedAt" yaml:"updatedAt"`
}

// IsFavorited reports whether the note is marked as a favorite.
func (n Note) IsFavorited() bool {
	return n.Favorited == 1
}

// NoteCreate is the payload for a new note.
type NoteCreate struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	CategoryID *int64 `json:"categoryId,omitempty"`
	Tags       string `json:"tags,omitempty"`
}

// Validate validates the note payload.
func (n NoteCreate) Validate() error {
	return validation.ValidateStruct(&n,
		validation.Field(&n.Title, validation.Required),
	)
}

// NoteUpdate changes an existing note. Nil fields are left as is.
type NoteUpdate struct {
	ID         int64   `json:"id"`
	Title      *string `json:"title,omitempty"`
	Content    *string `json:"content,omitempty"`
	CategoryID *int64  `json:"categoryId,omitempty"`
	Tags       *string `json:"tags,omitempty"`
}

// Validate validates the note update.
func (n NoteUpdate) Validate() error {
	return validation.ValidateStruct(&n,
		validation.Field(&n.ID, validation.Required),
	)
}

// NoteQuery filters the note listing.
type NoteQuery struct {
	PageParams `mapstructure:",squash"`

	CategoryID *int64 `mapstructure:"categoryId,omitempty"`
	Favorited  *int   `mapstructure:"favorited,omitempty"`
}

// CategoryCount is the number of notes in one category.
type CategoryCount struct {
	CategoryID   int64  `json:"categoryId" yaml:"categoryId"`
	CategoryName string `json:"categoryName" yaml:"categoryName"`
	Count        int64  `json:"count" yaml:"count"`
}

// NoteStatistics summarizes the user's notes.
type NoteStatistics struct {
	TotalCount        int64           `json:"totalCount" yaml:"totalCount"`
	FavoritedCount    int64           `json:"favoritedCount" yaml:"favoritedCount"`
	UnclassifiedCount int64           `json:"unclassifiedCount" yaml:"unclassifiedCount"`
	CategoryCounts    []CategoryCount `json:"categoryCounts" yaml:"categoryCounts"`
}

// NoteService talks to the /note endpoints.
type NoteService struct {
	client *apiclient.Client
}

// Create creates a note and returns its id.
func (s *NoteService) Create(ctx context.Context, note NoteCreate, opts ...apiclient.Option) (int64, error) {
	opts = append(opts, apiclient.WithValidation(note))
	return apiclient.Post[int64](ctx, s.client, "/note/create", note, opts...)
}

func (s *NoteService) Update(ctx context.Context, note NoteUpdate, opts ...apiclient.Option) error {
	opts = append(opts, apiclient.WithValidation(note))
	return exec(s.client.Put(ctx, "/note/update", note, opts...))
}

func (s *NoteService) Delete(ctx context.Context, id int64, opts ...apiclient.Option) error {
	return exec(s.client.Delete(ctx, idPath("/note/delete/%d", id), opts...))
}

func (s *NoteService) Get(ctx context.Context, id int64) (*Note, error) {
	return apiclient.Get[*Note](ctx, s.client, idPath("/note/%d", id))
}

// List returns the notes matching q. A nil q lists every note.
func (s *NoteService) List(ctx context.Context, q *NoteQuery) ([]Note, error) {
	return apiclient.Get[[]Note](ctx, s.client, "/note/list", apiclient.WithParams(q))
}

// Search returns the notes whose title or content matches keyword.
func (s *NoteService) Search(ctx context.Context, keyword string) ([]Note, error) {
	return apiclient.Get[[]Note](ctx, s.client, "/note/search",
		apiclient.WithParams(map[string]string{"keyword": keyword}))
}

func (s *NoteService) ToggleFavorited(ctx context.Context, id int64, opts ...apiclient.Option) error {
	return exec(s.client.Put(ctx, idPath("/note/toggleFavorited/%d", id), nil, opts...))
}

func (s *NoteService) Statistics(ctx context.Context) (*NoteStatistics, error) {
	return apiclient.Get[*NoteStatistics](ctx, s.client, "/note/statistics")
}

// NoteCategory groups notes.
type NoteCategory struct {
	ID        int64  `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	CreatedAt string `json:"createdAt" yaml:"createdAt"`
	UpdatedAt string `json:"updatedAt" yaml:"updatedAt"`
}

// CategoryName is the payload for creating or renaming a category. ID is
// ignored on create.
type CategoryName struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

// Validate validates the category payload.
func (c CategoryName) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required, validation.Length(1, 64)),
	)
}

// NoteCategoryService talks to the /note/category endpoints.
type NoteCategoryService struct {
	client *apiclient.Client
}

func (s *NoteCategoryService) Create(ctx context.Context, name string, opts ...apiclient.Option) (int64, error) {
	body := CategoryName{Name: name}
	opts = append(opts, apiclient.WithValidation(body))
	return apiclient.Post[int64](ctx, s.client, "/note/category/create", body, opts...)
}

func (s *NoteCategoryService) Update(ctx context.Context, id int64, name string, opts ...apiclient.Option) error {
	body := CategoryName{ID: id, Name: name}
	opts = append(opts, apiclient.WithValidation(body))
	return exec(s.client.Put(ctx, "/note/category/update", body, opts...))
}

func (s *NoteCategoryService) Delete(ctx context.Context, id int64, opts ...apiclient.Option) error {
	return exec(s.client.Delete(ctx, idPath("/note/category/delete/%d", id), opts...))
}

func (s *NoteCategoryService) List(ctx context.Context) ([]NoteCategory, error) {
	return apiclient.Get[[]NoteCategory](ctx, s.client, "/note/category/list")
}

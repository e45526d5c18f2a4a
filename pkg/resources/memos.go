package resources

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/jrepp/planbook/pkg/apiclient"
)

// Memo is a sticky note.
type Memo struct {
	ID              int64  `json:"id" yaml:"id"`
	Title           string `json:"title,omitempty" yaml:"title,omitempty"`
	Content         string `json:"content" yaml:"content"`
	Tag             string `json:"tag,omitempty" yaml:"tag,omitempty"`
	BackgroundColor string `json:"backgroundColor" yaml:"backgroundColor"`
	Pinned          int    `json:"pinned" yaml:"pinned"`
	CreatedAt       string `json:"createdAt" yaml:"createdAt"`
	UpdatedAt       string `json:"updatedAt" yaml:"updatedAt"`
}

// MemoCreate is the payload for a new memo.
type MemoCreate struct {
	Title           string `json:"title,omitempty"`
	Content         string `json:"content"`
	Tag             string `json:"tag,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
	Pinned          *int   `json:"pinned,omitempty"`
}

// Validate validates the memo payload.
func (m MemoCreate) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Content, validation.Required),
		validation.Field(&m.Pinned, validation.In(0, 1)),
	)
}

// MemoUpdate changes an existing memo. Nil fields are left as is.
type MemoUpdate struct {
	ID              int64   `json:"id"`
	Title           *string `json:"title,omitempty"`
	Content         *string `json:"content,omitempty"`
	Tag             *string `json:"tag,omitempty"`
	BackgroundColor *string `json:"backgroundColor,omitempty"`
	Pinned          *int    `json:"pinned,omitempty"`
}

// Validate validates the memo update.
func (m MemoUpdate) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.ID, validation.Required),
		validation.Field(&m.Pinned, validation.In(0, 1)),
	)
}

// MemoQuery filters the memo listing.
type MemoQuery struct {
	Tag             string `mapstructure:"tag,omitempty"`
	BackgroundColor string `mapstructure:"backgroundColor,omitempty"`
	Pinned          *int   `mapstructure:"pinned,omitempty"`
	Keyword         string `mapstructure:"keyword,omitempty"`
}

// MemoService talks to the /plan/memo endpoints.
type MemoService struct {
	client *apiclient.Client
}

func (s *MemoService) Create(ctx context.Context, memo MemoCreate, opts ...apiclient.Option) (int64, error) {
	opts = append(opts, apiclient.WithValidation(memo))
	return apiclient.Post[int64](ctx, s.client, "/plan/memo/create", memo, opts...)
}

func (s *MemoService) Update(ctx context.Context, memo MemoUpdate, opts ...apiclient.Option) error {
	opts = append(opts, apiclient.WithValidation(memo))
	return exec(s.client.Put(ctx, "/plan/memo/update", memo, opts...))
}

func (s *MemoService) Delete(ctx context.Context, id int64, opts ...apiclient.Option) error {
	return exec(s.client.Delete(ctx, idPath("/plan/memo/delete/%d", id), opts...))
}

func (s *MemoService) Get(ctx context.Context, id int64) (*Memo, error) {
	return apiclient.Get[*Memo](ctx, s.client, idPath("/plan/memo/%d", id))
}

func (s *MemoService) List(ctx context.Context, q *MemoQuery) ([]Memo, error) {
	return apiclient.Get[[]Memo](ctx, s.client, "/plan/memo/list", apiclient.WithParams(q))
}

func (s *MemoService) TogglePinned(ctx context.Context, id int64, opts ...apiclient.Option) error {
	return exec(s.client.Put(ctx, idPath("/plan/memo/togglePinned/%d", id), nil, opts...))
}

// Latest returns the two most recently modified memos.
func (s *MemoService) Latest(ctx context.Context) ([]Memo, error) {
	return apiclient.Get[[]Memo](ctx, s.client, "/plan/memo/latest")
}

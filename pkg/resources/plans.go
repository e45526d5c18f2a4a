package resources

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/jrepp/planbook/pkg/apiclient"
)

// Plan status values.
const (
	PlanStatusOpen = 0
	PlanStatusDone = 1
)

// Plan is a task with optional schedule and repetition.
type Plan struct {
	ID           int64  `json:"id" yaml:"id"`
	CategoryID   *int64 `json:"categoryId,omitempty" yaml:"categoryId,omitempty"`
	CategoryName string `json:"categoryName,omitempty" yaml:"categoryName,omitempty"`
	Title        string `json:"title" yaml:"title"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
	Priority     int    `json:"priority" yaml:"priority"`
	Quadrant     int    `json:"quadrant" yaml:"quadrant"`
	Tags         string `json:"tags,omitempty" yaml:"tags,omitempty"`
	StartTime    string `json:"startTime,omitempty" yaml:"startTime,omitempty"`
	DueTime      string `json:"dueTime,omitempty" yaml:"dueTime,omitempty"`
	RepeatType   int    `json:"repeatType" yaml:"repeatType"`
	RepeatConf   string `json:"repeatConf,omitempty" yaml:"repeatConf,omitempty"`
	RepeatUntil  string `json:"repeatUntil,omitempty" yaml:"repeatUntil,omitempty"`
	Status       int    `json:"status" yaml:"status"`
	CompletedAt  string `json:"completedAt,omitempty" yaml:"completedAt,omitempty"`
	CreatedAt    string `json:"createdAt" yaml:"createdAt"`
	UpdatedAt    string `json:"updatedAt" yaml:"updatedAt"`
}

// Done reports whether the plan is completed.
func (p Plan) Done() bool {
	return p.Status == PlanStatusDone
}

// PlanCreate is the payload for a new plan.
type PlanCreate struct {
	CategoryID  *int64 `json:"categoryId,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Priority    *int   `json:"priority,omitempty"`
	Quadrant    *int   `json:"quadrant,omitempty"`
	Tags        string `json:"tags,omitempty"`
	StartTime   string `json:"startTime,omitempty"`
	DueTime     string `json:"dueTime,omitempty"`
	RepeatType  *int   `json:"repeatType,omitempty"`
	RepeatConf  string `json:"repeatConf,omitempty"`
	RepeatUntil string `json:"repeatUntil,omitempty"`
}

// Validate validates the plan payload.
func (p PlanCreate) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required, validation.Length(1, 200)),
	)
}

// PlanUpdate changes an existing plan. Nil fields are left as is.
type PlanUpdate struct {
	ID          int64   `json:"id"`
	CategoryID  *int64  `json:"categoryId,omitempty"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Priority    *int    `json:"priority,omitempty"`
	Quadrant    *int    `json:"quadrant,omitempty"`
	Tags        *string `json:"tags,omitempty"`
	StartTime   *string `json:"startTime,omitempty"`
	DueTime     *string `json:"dueTime,omitempty"`
	RepeatType  *int    `json:"repeatType,omitempty"`
	RepeatConf  *string `json:"repeatConf,omitempty"`
	RepeatUntil *string `json:"repeatUntil,omitempty"`
	Status      *int    `json:"status,omitempty"`
}

// Validate validates the plan update.
func (p PlanUpdate) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ID, validation.Required),
		validation.Field(&p.Status, validation.In(PlanStatusOpen, PlanStatusDone)),
	)
}

// PlanQuery filters the plan listing. Time bounds use the backend's
// timestamp format.
type PlanQuery struct {
	CategoryID    *int64 `mapstructure:"categoryId,omitempty"`
	Keyword       string `mapstructure:"keyword,omitempty"`
	Priority      *int   `mapstructure:"priority,omitempty"`
	Quadrant      *int   `mapstructure:"quadrant,omitempty"`
	Tags          string `mapstructure:"tags,omitempty"`
	Status        *int   `mapstructure:"status,omitempty"`
	RepeatType    *int   `mapstructure:"repeatType,omitempty"`
	StartTimeFrom string `mapstructure:"startTimeFrom,omitempty"`
	StartTimeTo   string `mapstructure:"startTimeTo,omitempty"`
	DueTimeFrom   string `mapstructure:"dueTimeFrom,omitempty"`
	DueTimeTo     string `mapstructure:"dueTimeTo,omitempty"`
}

// PlanQuadrants splits plans by the importance/urgency matrix.
type PlanQuadrants struct {
	ImportantUrgent       []Plan `json:"importantUrgent" yaml:"importantUrgent"`
	ImportantNotUrgent    []Plan `json:"importantNotUrgent" yaml:"importantNotUrgent"`
	UrgentNotImportant    []Plan `json:"urgentNotImportant" yaml:"urgentNotImportant"`
	NotImportantNotUrgent []Plan `json:"notImportantNotUrgent" yaml:"notImportantNotUrgent"`
	Unclassified          []Plan `json:"unclassified" yaml:"unclassified"`
}

// PlanService talks to the /plan/plan endpoints.
type PlanService struct {
	client *apiclient.Client
}

func (s *PlanService) Create(ctx context.Context, plan PlanCreate, opts ...apiclient.Option) (int64, error) {
	opts = append(opts, apiclient.WithValidation(plan))
	return apiclient.Post[int64](ctx, s.client, "/plan/plan/create", plan, opts...)
}

func (s *PlanService) Update(ctx context.Context, plan PlanUpdate, opts ...apiclient.Option) error {
	opts = append(opts, apiclient.WithValidation(plan))
	return exec(s.client.Put(ctx, "/plan/plan/update", plan, opts...))
}

func (s *PlanService) Delete(ctx context.Context, id int64, opts ...apiclient.Option) error {
	return exec(s.client.Delete(ctx, idPath("/plan/plan/delete/%d", id), opts...))
}

func (s *PlanService) Get(ctx context.Context, id int64) (*Plan, error) {
	return apiclient.Get[*Plan](ctx, s.client, idPath("/plan/plan/%d", id))
}

func (s *PlanService) List(ctx context.Context, q *PlanQuery) ([]Plan, error) {
	return apiclient.Get[[]Plan](ctx, s.client, "/plan/plan/list", apiclient.WithParams(q))
}

// ToggleStatus flips a plan between open and done.
func (s *PlanService) ToggleStatus(ctx context.Context, id int64, opts ...apiclient.Option) error {
	return exec(s.client.Put(ctx, idPath("/plan/plan/toggleStatus/%d", id), nil, opts...))
}

func (s *PlanService) Quadrants(ctx context.Context) (*PlanQuadrants, error) {
	return apiclient.Get[*PlanQuadrants](ctx, s.client, "/plan/plan/quadrant")
}

// PlanCategory groups plans.
type PlanCategory struct {
	ID        int64  `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	PlanCount int64  `json:"planCount" yaml:"planCount"`
	CreatedAt string `json:"createdAt" yaml:"createdAt"`
	UpdatedAt string `json:"updatedAt" yaml:"updatedAt"`
}

// PlanCategoryService talks to the /plan/category endpoints.
type PlanCategoryService struct {
	client *apiclient.Client
}

func (s *PlanCategoryService) Create(ctx context.Context, name string, opts ...apiclient.Option) (int64, error) {
	body := CategoryName{Name: name}
	opts = append(opts, apiclient.WithValidation(body))
	return apiclient.Post[int64](ctx, s.client, "/plan/category/create", body, opts...)
}

func (s *PlanCategoryService) Update(ctx context.Context, id int64, name string, opts ...apiclient.Option) error {
	body := CategoryName{ID: id, Name: name}
	opts = append(opts, apiclient.WithValidation(body))
	return exec(s.client.Put(ctx, "/plan/category/update", body, opts...))
}

func (s *PlanCategoryService) Delete(ctx context.Context, id int64, opts ...apiclient.Option) error {
	return exec(s.client.Delete(ctx, idPath("/plan/category/delete/%d", id), opts...))
}

func (s *PlanCategoryService) Get(ctx context.Context, id int64) (*PlanCategory, error) {
	return apiclient.Get[*PlanCategory](ctx, s.client, idPath("/plan/category/%d", id))
}

func (s *PlanCategoryService) List(ctx context.Context) ([]PlanCategory, error) {
	return apiclient.Get[[]PlanCategory](ctx, s.client, "/plan/category/list")
}

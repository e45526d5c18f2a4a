package resources

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/jrepp/planbook/pkg/apiclient"
)

// ExecuteDateLayout is the date format of PlanExecution.ExecuteDate.
const ExecuteDateLayout = "2006-01-02"

// PlanExecution is one entry of a day's checklist.
type PlanExecution struct {
	ID          int64  `json:"id" yaml:"id"`
	PlanID      int64  `json:"planId" yaml:"planId"`
	PlanTitle   string `json:"planTitle" yaml:"planTitle"`
	PlanType    int    `json:"planType" yaml:"planType"`
	ExecuteDate string `json:"executeDate" yaml:"executeDate"`
	Status      int    `json:"status" yaml:"status"`
	Priority    *int   `json:"priority,omitempty" yaml:"priority,omitempty"`
	StartTime   string `json:"startTime,omitempty" yaml:"startTime,omitempty"`
	DueTime     string `json:"dueTime,omitempty" yaml:"dueTime,omitempty"`
	Tags        string `json:"tags,omitempty" yaml:"tags,omitempty"`
	CompletedAt string `json:"completedAt,omitempty" yaml:"completedAt,omitempty"`
	CreatedAt   string `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   string `json:"updatedAt" yaml:"updatedAt"`
}

// PlanExecutionCreate is the payload for a new daily entry.
type PlanExecutionCreate struct {
	Title       string `json:"title"`
	Priority    *int   `json:"priority,omitempty"`
	StartTime   string `json:"startTime,omitempty"`
	DueTime     string `json:"dueTime,omitempty"`
	Tags        string `json:"tags,omitempty"`
	ExecuteDate string `json:"executeDate"`
}

// Validate validates the daily entry payload.
func (p PlanExecutionCreate) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required),
		validation.Field(&p.ExecuteDate, validation.Required, validation.Date(ExecuteDateLayout)),
	)
}

// NewPlanExecution returns a payload for an entry due on day.
func NewPlanExecution(title string, day time.Time) PlanExecutionCreate {
	return PlanExecutionCreate{
		Title:       title,
		ExecuteDate: day.Format(ExecuteDateLayout),
	}
}

// PlanExecutionUpdate changes an existing daily entry. Nil fields are left
// as is.
type PlanExecutionUpdate struct {
	ID        int64   `json:"id"`
	Title     *string `json:"title,omitempty"`
	Priority  *int    `json:"priority,omitempty"`
	StartTime *string `json:"startTime,omitempty"`
	DueTime   *string `json:"dueTime,omitempty"`
	Tags      *string `json:"tags,omitempty"`
}

// Validate validates the daily entry update.
func (p PlanExecutionUpdate) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ID, validation.Required),
	)
}

// PlanExecutionService talks to the /plan/execution endpoints.
type PlanExecutionService struct {
	client *apiclient.Client
}

func (s *PlanExecutionService) Create(ctx context.Context, entry PlanExecutionCreate, opts ...apiclient.Option) (int64, error) {
	opts = append(opts, apiclient.WithValidation(entry))
	return apiclient.Post[int64](ctx, s.client, "/plan/execution/create", entry, opts...)
}

func (s *PlanExecutionService) Update(ctx context.Context, entry PlanExecutionUpdate, opts ...apiclient.Option) error {
	opts = append(opts, apiclient.WithValidation(entry))
	return exec(s.client.Put(ctx, "/plan/execution/update", entry, opts...))
}

func (s *PlanExecutionService) Delete(ctx context.Context, id int64, opts ...apiclient.Option) error {
	return exec(s.client.Delete(ctx, idPath("/plan/execution/delete/%d", id), opts...))
}

func (s *PlanExecutionService) ToggleStatus(ctx context.Context, id int64, opts ...apiclient.Option) error {
	return exec(s.client.Put(ctx, idPath("/plan/execution/toggleStatus/%d", id), nil, opts...))
}

// Today returns today's checklist.
func (s *PlanExecutionService) Today(ctx context.Context) ([]PlanExecution, error) {
	return apiclient.Get[[]PlanExecution](ctx, s.client, "/plan/execution/list/today")
}

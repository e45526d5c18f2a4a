package resources

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/jrepp/planbook/pkg/apiclient"
)

// PlanStep is one checklist item of a plan.
type PlanStep struct {
	ID        int64  `json:"id" yaml:"id"`
	PlanID    int64  `json:"planId" yaml:"planId"`
	Title     string `json:"title" yaml:"title"`
	Status    int    `json:"status" yaml:"status"`
	CreatedAt string `json:"createdAt" yaml:"createdAt"`
	UpdatedAt string `json:"updatedAt" yaml:"updatedAt"`
}

// PlanStepCreate is the payload for a new step.
type PlanStepCreate struct {
	PlanID int64  `json:"planId"`
	Title  string `json:"title"`
}

// Validate validates the step payload.
func (p PlanStepCreate) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.PlanID, validation.Required),
		validation.Field(&p.Title, validation.Required),
	)
}

// PlanStepUpdate changes an existing step. Nil fields are left as is.
type PlanStepUpdate struct {
	ID     int64   `json:"id"`
	Title  *string `json:"title,omitempty"`
	Status *int    `json:"status,omitempty"`
}

// Validate validates the step update.
func (p PlanStepUpdate) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ID, validation.Required),
		validation.Field(&p.Status, validation.In(PlanStatusOpen, PlanStatusDone)),
	)
}

// PlanStepService talks to the /plan/step endpoints.
type PlanStepService struct {
	client *apiclient.Client
}

func (s *PlanStepService) Create(ctx context.Context, step PlanStepCreate, opts ...apiclient.Option) (int64, error) {
	opts = append(opts, apiclient.WithValidation(step))
	return apiclient.Post[int64](ctx, s.client, "/plan/step/create", step, opts...)
}

func (s *PlanStepService) Update(ctx context.Context, step PlanStepUpdate, opts ...apiclient.Option) error {
	opts = append(opts, apiclient.WithValidation(step))
	return exec(s.client.Put(ctx, "/plan/step/update", step, opts...))
}

func (s *PlanStepService) Delete(ctx context.Context, id int64, opts ...apiclient.Option) error {
	return exec(s.client.Delete(ctx, idPath("/plan/step/delete/%d", id), opts...))
}

func (s *PlanStepService) Get(ctx context.Context, id int64) (*PlanStep, error) {
	return apiclient.Get[*PlanStep](ctx, s.client, idPath("/plan/step/%d", id))
}

// ListByPlan returns every step of a plan.
func (s *PlanStepService) ListByPlan(ctx context.Context, planID int64) ([]PlanStep, error) {
	return apiclient.Get[[]PlanStep](ctx, s.client, idPath("/plan/step/list/%d", planID))
}

func (s *PlanStepService) ToggleStatus(ctx context.Context, id int64, opts ...apiclient.Option) error {
	return exec(s.client.Put(ctx, idPath("/plan/step/toggleStatus/%d", id), nil, opts...))
}

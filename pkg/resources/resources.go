// Package resources provides typed services for every planbook backend
// resource. Services are thin: they choose the endpoint and the payload
// shape and leave transport, envelope handling, and failure reporting to
// the apiclient facade.
package resources

import (
	"encoding/json"
	"fmt"

	"github.com/jrepp/planbook/pkg/apiclient"
	"github.com/jrepp/planbook/pkg/session"
)

// Services groups one service per backend resource.
type Services struct {
	Auth           *Auth
	Users          *UserService
	Notes          *NoteService
	NoteCategories *NoteCategoryService
	Memos          *MemoService
	Plans          *PlanService
	PlanCategories *PlanCategoryService
	PlanSteps      *PlanStepService
	PlanExecutions *PlanExecutionService
}

// New wires every service to client. state receives credentials on login
// and is cleared on logout.
func New(client *apiclient.Client, state *session.State) *Services {
	users := &UserService{client: client}
	return &Services{
		Auth:           &Auth{users: users, session: state},
		Users:          users,
		Notes:          &NoteService{client: client},
		NoteCategories: &NoteCategoryService{client: client},
		Memos:          &MemoService{client: client},
		Plans:          &PlanService{client: client},
		PlanCategories: &PlanCategoryService{client: client},
		PlanSteps:      &PlanStepService{client: client},
		PlanExecutions: &PlanExecutionService{client: client},
	}
}

// PageParams are the common pagination parameters.
type PageParams struct {
	Page     int    `json:"page,omitempty" mapstructure:"page,omitempty"`
	PageSize int    `json:"pageSize,omitempty" mapstructure:"pageSize,omitempty"`
	Keyword  string `json:"keyword,omitempty" mapstructure:"keyword,omitempty"`
}

// PageResponse is one page of a paginated listing.
type PageResponse[T any] struct {
	List     []T   `json:"list"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
}

// HasMore reports whether pages remain after this one.
func (p PageResponse[T]) HasMore() bool {
	if p.PageSize <= 0 {
		return false
	}
	return int64(p.Page*p.PageSize) < p.Total
}

// exec runs a call whose payload carries nothing the caller needs.
func exec(_ json.RawMessage, err error) error {
	return err
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, id)
}

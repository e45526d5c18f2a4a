package resources

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrepp/planbook/pkg/apiclient"
	"github.com/jrepp/planbook/pkg/failure"
	"github.com/jrepp/planbook/pkg/kvstore"
	"github.com/jrepp/planbook/pkg/notify"
	"github.com/jrepp/planbook/pkg/session"
)

type recorded struct {
	Method string
	Path   string
	Query  url.Values
	Body   map[string]any
}

// backend answers every request with the configured data and records what
// it received.
type backend struct {
	mu       sync.Mutex
	requests []recorded
	status   int
	envelope string
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body map[string]any
	_ = json.Unmarshal(raw, &body)

	b.mu.Lock()
	b.requests = append(b.requests, recorded{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Body:   body,
	})
	status, envelope := b.status, b.envelope
	b.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, envelope)
}

func (b *backend) respond(status int, envelope string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status, b.envelope = status, envelope
}

func (b *backend) last(t *testing.T) recorded {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	require.NotEmpty(t, b.requests)
	return b.requests[len(b.requests)-1]
}

func (b *backend) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requests)
}

func newServices(t *testing.T) (*Services, *backend, *session.State, *notify.Recorder) {
	t.Helper()

	b := &backend{envelope: `{"code":0}`}
	server := httptest.NewServer(b)
	t.Cleanup(server.Close)

	state, err := session.Load(kvstore.NewMemory(), nil)
	require.NoError(t, err)
	rec := notify.NewRecorder()

	client, err := apiclient.New(&apiclient.Config{BaseURL: server.URL + "/api"}, apiclient.Dependencies{
		Session:  state,
		Notifier: rec,
	})
	require.NoError(t, err)

	return New(client, state), b, state, rec
}

func ptr[T any](v T) *T { return &v }

func TestEndpoints(t *testing.T) {
	today := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		call   func(context.Context, *Services) error
		method string
		path   string
		query  url.Values
		body   map[string]any
	}{
		{
			name: "register",
			call: func(ctx context.Context, s *Services) error {
				return s.Users.Register(ctx, Credentials{Username: "alice", Password: "pw"})
			},
			method: "POST",
			path:   "/api/system/user/register",
			body:   map[string]any{"username": "alice", "password": "pw"},
		},
		{
			name: "user info",
			call: func(ctx context.Context, s *Services) error {
				_, err := s.Users.Info(ctx)
				return err
			},
			method: "GET",
			path:   "/api/user/info",
		},
		{
			name: "update user info",
			call: func(ctx context.Context, s *Services) error {
				_, err := s.Users.UpdateInfo(ctx, UserUpdate{Email: ptr("a@example.com")})
				return err
			},
			method: "PUT",
			path:   "/api/user/info",
			body:   map[string]any{"email": "a@example.com"},
		},
		{
			name: "note create",
			call: func(ctx context.Context, s *Services) error {
				_, err := s.Notes.Create(ctx, NoteCreate{Title: "t", Content: "c", CategoryID: ptr(int64(3))})
				return err
			},
			method: "POST",
			path:   "/api/note/create",
			body:   map[string]any{"title": "t", "content": "c", "categoryId": float64(3)},
		},
		{
			name: "note update",
			call: func(ctx context.Context, s *Services) error {
				return s.Notes.Update(ctx, NoteUpdate{ID: 4, Title: ptr("renamed")})
			},
			method: "PUT",
			path:   "/api/note/update",
			body:   map[string]any{"id": float64(4), "title": "renamed"},
		},
		{
			name:   "note delete",
			call:   func(ctx context.Context, s *Services) error { return s.Notes.Delete(ctx, 4) },
			method: "DELETE",
			path:   "/api/note/delete/4",
		},
		{
			name: "note get",
			call: func(ctx context.Context, s *Services) error {
				_, err := s.Notes.Get(ctx, 4)
				return err
			},
			method: "GET",
			path:   "/api/note/4",
		},
		{
			name: "note list",
			call: func(ctx context.Context, s *Services) error {
				_, err := s.Notes.List(ctx, &NoteQuery{
					PageParams: PageParams{Keyword: "go"},
					Favorited:  ptr(0),
				})
				return err
			},
			method: "GET",
			path:   "/api/note/list",
			query:  url.Values{"keyword": {"go"}, "favorited": {"0"}},
		},
		{
			name: "note list without filter",
			call: func(ctx context.Context, s *Services) error {
				_, err := s.Notes.List(ctx, nil)
				return err
			},
			method: "GET",
			path:   "/api/note/list",
		},
		{
			name: "note search",
			call: func(ctx context.Context, s *Services) error {
				_, err := s.Notes.Search(ctx, "kafka")
				return err
			},
			method: "GET",
			path:   "/api/note/search",
			query:  url.Values{"keyword": {"kafka"}},
		},
		{
			name:   "note toggle favorited",
			call:   func(ctx context.Context, s *Services) error { return s.Notes.ToggleFavorited(ctx, 9) },
			method: "PUT",
			path:   "/api/note/toggleFavorited/9",
		},
		{
			name: "note statistics",
			call: func(ctx context.Context, s *Services) error {
				_, err := s.Notes.Statistics(ctx)
				return err
			},
			method: "GET",
			path:   "/api/note/statistics",
		},
		{
			name: "note category create",
			call: func(ctx context.Context, s *Services) error {
				_, err := s.NoteCategories.Create(ctx, "work")
				return err
			},
			method: "POST",
			path:   "/api/note/category/create",
			body:   map[string]any{"name": "work"},
		},
		{
			name:   "note category update",
			call:   func(ctx context.Context, s *Services) error { return s.NoteCategories.Update(ctx, 2, "home") },
			method: "PUT",
			path:   "/api/note/category/update",
			body:   map[string]any{"id": float64(2), "name": "home"},
		},
		{
			name:   "note category delete",
			call:   func(ctx context.Context, s *Services) error { return s.NoteCategories.Delete(ctx, 2) },
			method: "DELETE",
			path:   "/api/note/category/delete/2",
		},
		{
			name: "note category list",
			call: func(ctx context.Context, s *Services) error {
				_, err := s.NoteCategories.List(ctx)
				return err
			},
			method: "GET",
			path:   "/api/note/category/list",
		},
		{
			name: "memo create",
			call: func(ctx context.Context, s *Services) error {
				_, err := s.Memos.Create(ctx, MemoCreate{Content: "milk", Pinned: ptr(1)})
				return err
			},
			method: "POST",
			path:   "/api/plan/memo/create",
			body:   map[string]any{"content": "milk", "pinned": float64(1)},
		},
		{
			name:   "memo update",
			call:   func(ctx context.Context, s *Services) error { return s.Memos.Update(ctx, MemoUpdate{ID: 5, Tag: ptr("shop")}) },
			method: "PUT",
			path:   "/api/plan/memo/update",
			body:   map[string]any{"id": float64(5), "tag": "shop"},
		},
		{
			name:   "memo delete",
			call:   func(ctx context.Context, s *Services) error { return s.Memos.Delete(ctx, 5) },
			method: "DELETE",
			path:   "/api/plan/memo/delete/5",
		},
		{
			name: "memo get",
			call: func(ctx context.Context, s *Services) error {
				_, err := s.Memos.Get(ctx, 5)
				return err
			},
			method: "GET",
			path:   "/api/plan/memo/5",
		},
		{
			name: "memo list",
			call: func(ctx context.Context, s *Services) error {
				_, err := s.Memos.List(ctx, &MemoQuery{Tag: "shop", Pinned: ptr(1)})
				return err
			},
			method: "GET",
			path:   "/api/plan/memo/list",
			query:  url.Values{"tag": {"shop"}, "pinned": {"1"}},
		},
		{
			name:   "memo toggle pinned",
			call:   func(ctx context.Context, s *Services) error { return s.Memos.TogglePinned(ctx, 5) },
			method: "PUT",
			path:   "/api/plan/memo/togglePinned/5",
		},
		{
			name: "memo latest",
			call: func(ctx context.Context, s *Services) error {
				_, err := s.Memos.Latest(ctx)
				return err
			},
			method: "GET",
			path:   "/api/plan/memo/latest",
		},
		{
			name: "plan create",
			call: func(ctx context.Context, s *Services) error {
				_, err := s.Plans.Create(ctx, PlanCreate{Title: "ship", Quadrant: ptr(1)})
				return err
			},
			method: "POST",
			path:   "/api/plan/plan/create",
			body:   map[string]any{"title": "ship", "quadrant": float64(1)},
		},
		{
			name: "plan update",
			call: func(ctx context.Context, s *Services) error {
				return s.Plans.Update(ctx, PlanUpdate{ID: 8, Status: ptr(PlanStatusDone)})
			},
			method: "PUT",
			path:   "/api/plan/plan/update",
			body:   map[string]any{"id": float64(8), "status": float64(1)},
		},
		{
			name:   "plan delete",
			call:   func(ctx context.Context, s *Services) error { return s.Plans.Delete(ctx, 8) },
			method: "DELETE",
			path:   "/api/plan/plan/delete/8",
		},
		{
			name: "plan get",
			call: func(ctx context.Context, s *Services) error {
				_, err := s.Plans.Get(ctx, 8)
				return err
			},
			method: "GET",
			path:   "/api/plan/plan/8",
		},
		{
			name: "plan list",
			call: func(ctx context.Context, s *Services) error {
				_, err := s.Plans.List(ctx, &PlanQuery{Status: ptr(PlanStatusOpen), DueTimeTo: "2024-03-10 00:00:00"})
				return err
			},
			method: "GET",
			path:   "/api/plan/plan/list",
			query:  url.Values{"status": {"0"}, "dueTimeTo": {"2024-03-10 00:00:00"}},
		},
		{
			name:   "plan toggle status",
			call:   func(ctx context.Context, s *Services) error { return s.Plans.ToggleStatus(ctx, 8) },
			method: "PUT",
			path:   "/api/plan/plan/toggleStatus/8",
		},
		{
			name: "plan quadrants",
			call: func(ctx context.Context, s *Services) error {
				_, err := s.Plans.Quadrants(ctx)
				return err
			},
			method: "GET",
			path:   "/api/plan/plan/quadrant",
		},
		{
			name: "plan category create",
			call: func(ctx context.Context, s *Services) error {
				_, err := s.PlanCategories.Create(ctx, "q1")
				return err
			},
			method: "POST",
			path:   "/api/plan/category/create",
			body:   map[string]any{"name": "q1"},
		},
		{
			name:   "plan category update",
			call:   func(ctx context.Context, s *Services) error { return s.PlanCategories.Update(ctx, 6, "q2") },
			method: "PUT",
			path:   "/api/plan/category/update",
			body:   map[string]any{"id": float64(6), "name": "q2"},
		},
		{
			name:   "plan category delete",
			call:   func(ctx context.Context, s *Services) error { return s.PlanCategories.Delete(ctx, 6) },
			method: "DELETE",
			path:   "/api/plan/category/delete/6",
		},
		{
			name: "plan category get",
			call: func(ctx context.Context, s *Services) error {
				_, err := s.PlanCategories.Get(ctx, 6)
				return err
			},
			method: "GET",
			path:   "/api/plan/category/6",
		},
		{
			name: "plan category list",
			call: func(ctx context.Context, s *Services) error {
				_, err := s.PlanCategories.List(ctx)
				return err
			},
			method: "GET",
			path:   "/api/plan/category/list",
		},
		{
			name: "plan step create",
			call: func(ctx context.Context, s *Services) error {
				_, err := s.PlanSteps.Create(ctx, PlanStepCreate{PlanID: 8, Title: "draft"})
				return err
			},
			method: "POST",
			path:   "/api/plan/step/create",
			body:   map[string]any{"planId": float64(8), "title": "draft"},
		},
		{
			name:   "plan step update",
			call:   func(ctx context.Context, s *Services) error { return s.PlanSteps.Update(ctx, PlanStepUpdate{ID: 11, Title: ptr("review")}) },
			method: "PUT",
			path:   "/api/plan/step/update",
			body:   map[string]any{"id": float64(11), "title": "review"},
		},
		{
			name:   "plan step delete",
			call:   func(ctx context.Context, s *Services) error { return s.PlanSteps.Delete(ctx, 11) },
			method: "DELETE",
			path:   "/api/plan/step/delete/11",
		},
		{
			name: "plan step get",
			call: func(ctx context.Context, s *Services) error {
				_, err := s.PlanSteps.Get(ctx, 11)
				return err
			},
			method: "GET",
			path:   "/api/plan/step/11",
		},
		{
			name: "plan step list by plan",
			call: func(ctx context.Context, s *Services) error {
				_, err := s.PlanSteps.ListByPlan(ctx, 8)
				return err
			},
			method: "GET",
			path:   "/api/plan/step/list/8",
		},
		{
			name:   "plan step toggle status",
			call:   func(ctx context.Context, s *Services) error { return s.PlanSteps.ToggleStatus(ctx, 11) },
			method: "PUT",
			path:   "/api/plan/step/toggleStatus/11",
		},
		{
			name: "plan execution create",
			call: func(ctx context.Context, s *Services) error {
				_, err := s.PlanExecutions.Create(ctx, NewPlanExecution("standup", today))
				return err
			},
			method: "POST",
			path:   "/api/plan/execution/create",
			body:   map[string]any{"title": "standup", "executeDate": "2024-03-09"},
		},
		{
			name: "plan execution update",
			call: func(ctx context.Context, s *Services) error {
				return s.PlanExecutions.Update(ctx, PlanExecutionUpdate{ID: 12, Priority: ptr(2)})
			},
			method: "PUT",
			path:   "/api/plan/execution/update",
			body:   map[string]any{"id": float64(12), "priority": float64(2)},
		},
		{
			name:   "plan execution delete",
			call:   func(ctx context.Context, s *Services) error { return s.PlanExecutions.Delete(ctx, 12) },
			method: "DELETE",
			path:   "/api/plan/execution/delete/12",
		},
		{
			name:   "plan execution toggle status",
			call:   func(ctx context.Context, s *Services) error { return s.PlanExecutions.ToggleStatus(ctx, 12) },
			method: "PUT",
			path:   "/api/plan/execution/toggleStatus/12",
		},
		{
			name: "plan execution today",
			call: func(ctx context.Context, s *Services) error {
				_, err := s.PlanExecutions.Today(ctx)
				return err
			},
			method: "GET",
			path:   "/api/plan/execution/list/today",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, b, _, rec := newServices(t)

			require.NoError(t, tt.call(context.Background(), s))

			got := b.last(t)
			assert.Equal(t, tt.method, got.Method)
			assert.Equal(t, tt.path, got.Path)
			if tt.query == nil {
				assert.Empty(t, got.Query)
			} else {
				assert.Equal(t, tt.query, got.Query)
			}
			assert.Equal(t, tt.body, got.Body)
			assert.Zero(t, rec.Count())
		})
	}
}

func TestDecodedPayloads(t *testing.T) {
	s, b, _, _ := newServices(t)
	ctx := context.Background()

	b.respond(http.StatusOK, `{"code":0,"data":[{"id":1,"title":"kafka","favorited":1,"categoryId":2}]}`)
	notes, err := s.Notes.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "kafka", notes[0].Title)
	assert.True(t, notes[0].IsFavorited())
	require.NotNil(t, notes[0].CategoryID)
	assert.Equal(t, int64(2), *notes[0].CategoryID)

	b.respond(http.StatusOK, `{"code":0,"data":42}`)
	id, err := s.Plans.Create(ctx, PlanCreate{Title: "ship"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	b.respond(http.StatusOK, `{"code":0,"data":{"importantUrgent":[{"id":1,"status":1}],"unclassified":[]}}`)
	quadrants, err := s.Plans.Quadrants(ctx)
	require.NoError(t, err)
	require.Len(t, quadrants.ImportantUrgent, 1)
	assert.True(t, quadrants.ImportantUrgent[0].Done())
	assert.Empty(t, quadrants.Unclassified)

	b.respond(http.StatusOK, `{"code":0,"data":{"totalCount":3,"categoryCounts":[{"categoryId":1,"categoryName":"work","count":2}]}}`)
	stats, err := s.Notes.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalCount)
	assert.Equal(t, []CategoryCount{{CategoryID: 1, CategoryName: "work", Count: 2}}, stats.CategoryCounts)
}

func TestValidationFailsBeforeDispatch(t *testing.T) {
	tests := []struct {
		name string
		call func(context.Context, *Services) error
		msg  string
	}{
		{"note without title", func(ctx context.Context, s *Services) error {
			_, err := s.Notes.Create(ctx, NoteCreate{Content: "body"})
			return err
		}, "title: cannot be blank."},
		{"memo without content", func(ctx context.Context, s *Services) error {
			_, err := s.Memos.Create(ctx, MemoCreate{Title: "t"})
			return err
		}, "content: cannot be blank."},
		{"memo with bad pinned", func(ctx context.Context, s *Services) error {
			return s.Memos.Update(ctx, MemoUpdate{ID: 1, Pinned: ptr(3)})
		}, "pinned: must be a valid value."},
		{"update without id", func(ctx context.Context, s *Services) error {
			return s.Plans.Update(ctx, PlanUpdate{Title: ptr("t")})
		}, "id: cannot be blank."},
		{"category without name", func(ctx context.Context, s *Services) error {
			_, err := s.PlanCategories.Create(ctx, "")
			return err
		}, "name: cannot be blank."},
		{"execution with bad date", func(ctx context.Context, s *Services) error {
			_, err := s.PlanExecutions.Create(ctx, PlanExecutionCreate{Title: "t", ExecuteDate: "tomorrow"})
			return err
		}, "executeDate: must be a valid date."},
		{"step without plan", func(ctx context.Context, s *Services) error {
			_, err := s.PlanSteps.Create(ctx, PlanStepCreate{Title: "t"})
			return err
		}, "planId: cannot be blank."},
		{"login without password", func(ctx context.Context, s *Services) error {
			return s.Auth.Login(ctx, "alice", "")
		}, "password: cannot be blank."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, b, _, rec := newServices(t)

			err := tt.call(context.Background(), s)
			require.Error(t, err)
			assert.Equal(t, failure.KindConfigError, failure.KindOf(err))
			assert.Equal(t, tt.msg, err.Error())
			assert.Zero(t, b.count())
			assert.Equal(t, []string{tt.msg}, rec.Messages())
		})
	}
}

func TestAuthLogin(t *testing.T) {
	s, b, state, _ := newServices(t)
	b.respond(http.StatusOK, `{"code":0,"data":"tok-123"}`)

	require.NoError(t, s.Auth.Login(context.Background(), "alice", "secret"))

	got := b.last(t)
	assert.Equal(t, "/api/system/user/login", got.Path)
	assert.Equal(t, map[string]any{"username": "alice", "password": "secret"}, got.Body)

	assert.True(t, state.IsLoggedIn())
	assert.Equal(t, "tok-123", state.Token())
	assert.Equal(t, "alice", state.DisplayName())
}

func TestAuthLoginRejected(t *testing.T) {
	s, b, state, rec := newServices(t)
	b.respond(http.StatusOK, `{"code":1002,"message":"wrong password"}`)

	err := s.Auth.Login(context.Background(), "alice", "bad")
	assert.Equal(t, failure.KindBusinessError, failure.KindOf(err))
	assert.False(t, state.IsLoggedIn())
	assert.Equal(t, []string{"wrong password"}, rec.Messages())
}

func TestAuthLoginWithoutToken(t *testing.T) {
	s, b, state, _ := newServices(t)
	b.respond(http.StatusOK, `{"code":0,"data":null}`)

	err := s.Auth.Login(context.Background(), "alice", "secret")
	require.Error(t, err)
	assert.False(t, state.IsLoggedIn())
}

func TestAuthLogout(t *testing.T) {
	t.Run("clears the session", func(t *testing.T) {
		s, b, state, _ := newServices(t)
		require.NoError(t, state.SetToken("tok"))
		require.NoError(t, state.SetDisplayName("alice"))

		require.NoError(t, s.Auth.Logout(context.Background()))
		assert.Equal(t, "/api/system/user/logout", b.last(t).Path)
		assert.False(t, state.IsLoggedIn())
		assert.Empty(t, state.DisplayName())
	})

	t.Run("clears the session when the server fails", func(t *testing.T) {
		s, b, state, _ := newServices(t)
		require.NoError(t, state.SetToken("tok"))
		b.respond(http.StatusBadGateway, ``)

		err := s.Auth.Logout(context.Background())
		assert.Equal(t, failure.KindBadGateway, failure.KindOf(err))
		assert.False(t, state.IsLoggedIn())
	})
}

func TestPageResponse(t *testing.T) {
	var page PageResponse[Memo]
	require.NoError(t, json.Unmarshal([]byte(`{"list":[{"id":1,"content":"a"}],"total":25,"page":2,"pageSize":10}`), &page))

	assert.Len(t, page.List, 1)
	assert.True(t, page.HasMore())

	page.Page = 3
	assert.False(t, page.HasMore())
	assert.False(t, PageResponse[Memo]{}.HasMore())
}

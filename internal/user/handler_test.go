// AngelaMos | 2026
// handler_test.go

package user

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/crm-backend/internal/core"
	"github.com/carterperez-dev/crm-backend/internal/scope"
)

func newMeRouter(repo *memRepo, p *scope.Principal) http.Handler {
	auth := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p != nil {
				r = r.WithContext(scope.WithPrincipal(r.Context(), *p))
			}
			next.ServeHTTP(w, r)
		})
	}

	r := chi.NewRouter()
	NewHandler(NewService(repo, nil)).RegisterRoutes(r, auth)
	return r
}

func TestHandlerGetMeWorkspace(t *testing.T) {
	tests := []struct {
		name      string
		principal scope.Principal
		want      string
	}{
		{
			name:      "solo",
			principal: scope.Principal{UserID: "u1", Membership: scope.Solo{}},
			want:      WorkspaceSolo,
		},
		{
			name: "member",
			principal: scope.Principal{
				UserID:     "u1",
				Membership: scope.OrganizationMember{OrganizationID: "org-1"},
			},
			want: WorkspaceOrganization,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &memRepo{users: map[string]*User{"u1": {ID: "u1", Username: "ada"}}}
			router := newMeRouter(repo, &tt.principal)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/me", nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
			}

			var body struct {
				Data MeResponse `json:"data"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Data.Workspace != tt.want || body.Data.Username != "ada" {
				t.Fatalf("data = %+v", body.Data)
			}
		})
	}
}

func TestHandlerUpdateMe(t *testing.T) {
	repo := &memRepo{users: map[string]*User{"u1": {ID: "u1", Email: "old@crm.test"}}}
	p := scope.Principal{UserID: "u1", Membership: scope.Solo{}}
	router := newMeRouter(repo, &p)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(
		http.MethodPatch,
		"/users/me",
		strings.NewReader(`{"email":"New@CRM.test"}`),
	))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := repo.users["u1"].Email; got != "new@crm.test" {
		t.Fatalf("email = %q", got)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(
		http.MethodPatch,
		"/users/me",
		strings.NewReader(`{"first_name":"   "}`),
	))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("blank name: status = %d", rec.Code)
	}
}

func TestHandlerMeWithoutPrincipal(t *testing.T) {
	router := newMeRouter(&memRepo{users: map[string]*User{}}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/me", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}

	var body core.Response
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Success {
		t.Fatal("expected failure envelope")
	}
}

// AngelaMos | 2026
// handler_test.go

package lead

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

func newTestRouter(repo *memRepo, p scope.Principal) http.Handler {
	auth := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(scope.WithPrincipal(r.Context(), p)))
		})
	}

	r := chi.NewRouter()
	NewHandler(NewService(repo)).RegisterRoutes(r, auth, func(r chi.Router) {
		r.Post("/{leadID}/ping", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})
	})
	return r
}

func TestHandlerCreate(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
		detail   string
	}{
		{
			name:     "valid",
			body:     `{"company_name":"Acme","contact_person":"Jane Doe","email":"jane@acme.test","stage":"SAL"}`,
			wantCode: http.StatusCreated,
		},
		{
			name:     "missing email",
			body:     `{"company_name":"Acme","contact_person":"Jane Doe"}`,
			wantCode: http.StatusBadRequest,
			detail:   "email is required",
		},
		{
			name:     "legacy stage rejected on input",
			body:     `{"company_name":"Acme","contact_person":"Jane","email":"j@a.test","stage":"MAL"}`,
			wantCode: http.StatusBadRequest,
			detail:   "stage must be one of: MQL, SAL, SQL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemRepo()
			router := newTestRouter(repo, solo(soloID))

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/leads", strings.NewReader(tt.body))
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
			}

			var body core.Response
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}

			if tt.detail != "" {
				if body.Error == nil || !strings.Contains(strings.Join(body.Error.Details, ";"), tt.detail) {
					t.Fatalf("details = %+v, want %q", body.Error, tt.detail)
				}
				if len(repo.leads) != 0 {
					t.Fatal("invalid lead stored")
				}
				return
			}

			data := body.Data.(map[string]any)
			if data["stage"] != "SAL" || data["created_by"] != soloID {
				t.Fatalf("unexpected data %#v", data)
			}
		})
	}
}

func TestHandlerListPagination(t *testing.T) {
	repo := newMemRepo(
		&Lead{ID: "a", Ownership: scope.Ownership{CreatedBy: soloID}},
		&Lead{ID: "b", IsConverted: true, Ownership: scope.Ownership{CreatedBy: soloID}},
	)
	router := newTestRouter(repo, solo(soloID))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(
		http.MethodGet,
		"/leads?include_converted=true&page_size=5&search=ac",
		nil,
	))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !repo.lastParams.IncludeConverted || repo.lastParams.PageSize != 5 || repo.lastParams.Search != "ac" {
		t.Fatalf("params = %+v", repo.lastParams)
	}
	if repo.lastFilter.Column != scope.ColumnCreatedBy || repo.lastFilter.Value != soloID {
		t.Fatalf("filter = %+v", repo.lastFilter)
	}

	var body core.Response
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Meta == nil || body.Meta.Total != 2 || body.Meta.PageSize != 5 {
		t.Fatalf("meta = %+v", body.Meta)
	}
}

func TestHandlerExtraRoutesMounted(t *testing.T) {
	router := newTestRouter(newMemRepo(), solo(soloID))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/leads/"+mineID+"/ping", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHandlerGetOutOfScope(t *testing.T) {
	repo := newMemRepo(&Lead{ID: mineID, Ownership: scope.Ownership{CreatedBy: "owner"}})
	router := newTestRouter(repo, solo(soloID))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leads/"+mineID, nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

// AngelaMos | 2026
// handler_test.go

package organization

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/crm-backend/internal/core"
	"github.com/carterperez-dev/crm-backend/internal/middleware"
	"github.com/carterperez-dev/crm-backend/internal/scope"
	"github.com/carterperez-dev/crm-backend/internal/user"
)

func withPrincipal(p scope.Principal) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(scope.WithPrincipal(r.Context(), p)))
		})
	}
}

func serve(
	t *testing.T,
	w *world,
	p scope.Principal,
	method, path, body string,
) (*httptest.ResponseRecorder, core.Response) {
	t.Helper()

	svc, _ := newTestService(w)
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, withPrincipal(p), middleware.RequireAdmin)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)

	var resp core.Response
	if rec.Body.Len() > 0 {
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return rec, resp
}

func TestHandlerBootstrap(t *testing.T) {
	t.Run("creates the organization", func(t *testing.T) {
		w := newWorld(user.User{ID: founderID})
		rec, resp := serve(t, w, soloPrincipal(founderID),
			http.MethodPost, "/organization", `{"name":"Acme"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d", rec.Code)
		}
		if !resp.Success {
			t.Fatalf("unexpected body %+v", resp)
		}
		if len(w.orgs) != 1 {
			t.Fatalf("expected one organization, got %d", len(w.orgs))
		}
	})

	t.Run("blank name is rejected", func(t *testing.T) {
		w := newWorld(user.User{ID: founderID})
		rec, resp := serve(t, w, soloPrincipal(founderID),
			http.MethodPost, "/organization", `{"name":"   "}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
		if resp.Error == nil || resp.Error.Code != "VALIDATION_ERROR" {
			t.Fatalf("unexpected error %+v", resp.Error)
		}
	})

	t.Run("member gets a conflict", func(t *testing.T) {
		w := newWorld(orgMember(founderID, "org-1", true))
		rec, _ := serve(t, w, memberPrincipal(founderID, "org-1", true),
			http.MethodPost, "/organization", `{"name":"Again"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d", rec.Code)
		}
	})
}

func TestHandlerAdminRoutes(t *testing.T) {
	t.Run("non-admin is denied before the service runs", func(t *testing.T) {
		w := newWorld(
			orgMember(founderID, "org-1", true),
			orgMember(memberID, "org-1", false),
		)
		rec, resp := serve(t, w, memberPrincipal(memberID, "org-1", false),
			http.MethodDelete, "/organization/members/"+founderID, "")

		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d", rec.Code)
		}
		if resp.Error == nil || resp.Error.Code != "FORBIDDEN" {
			t.Fatalf("unexpected error %+v", resp.Error)
		}
		if w.users[founderID].OrganizationID == nil {
			t.Fatal("state changed on a denied request")
		}
	})

	t.Run("admin removes a member", func(t *testing.T) {
		w := newWorld(
			orgMember(founderID, "org-1", true),
			orgMember(memberID, "org-1", false),
		)
		rec, _ := serve(t, w, memberPrincipal(founderID, "org-1", true),
			http.MethodDelete, "/organization/members/"+memberID, "")

		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d", rec.Code)
		}
		if w.users[memberID].OrganizationID != nil {
			t.Fatal("member still attached")
		}
	})

	t.Run("admin toggles a member", func(t *testing.T) {
		w := newWorld(
			orgMember(founderID, "org-1", true),
			orgMember(memberID, "org-1", false),
		)
		rec, resp := serve(t, w, memberPrincipal(founderID, "org-1", true),
			http.MethodPost, "/organization/members/"+memberID+"/toggle-admin", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		data, _ := resp.Data.(map[string]any)
		if data["is_admin"] != true {
			t.Fatalf("unexpected data %#v", resp.Data)
		}
	})
}

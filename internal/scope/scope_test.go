// AngelaMos | 2026
// scope_test.go

package scope_test

import (
	"context"
	"testing"

	"github.com/carterperez-dev/crm-backend/internal/scope"
)

func strPtr(s string) *string { return &s }

func TestMembershipOf(t *testing.T) {
	tests := []struct {
		name  string
		input *string
		want  scope.Membership
	}{
		{"nil column", nil, scope.Solo{}},
		{"empty column", strPtr(""), scope.Solo{}},
		{"organization", strPtr("org-1"), scope.OrganizationMember{OrganizationID: "org-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scope.MembershipOf(tt.input); got != tt.want {
				t.Fatalf("expected %#v, got %#v", tt.want, got)
			}
		})
	}
}

func TestResolveFilter(t *testing.T) {
	t.Run("solo user filters by creator", func(t *testing.T) {
		f := scope.ResolveFilter(scope.Principal{UserID: "u1", Membership: scope.Solo{}})
		if f.Column != scope.ColumnCreatedBy || f.Value != "u1" {
			t.Fatalf("unexpected filter %+v", f)
		}
	})

	t.Run("nil membership behaves as solo", func(t *testing.T) {
		f := scope.ResolveFilter(scope.Principal{UserID: "u1"})
		if f.Column != scope.ColumnCreatedBy {
			t.Fatalf("expected created_by filter, got %+v", f)
		}
	})

	t.Run("member filters by organization", func(t *testing.T) {
		f := scope.ResolveFilter(scope.Principal{
			UserID:     "u1",
			Membership: scope.OrganizationMember{OrganizationID: "g1"},
		})
		if f.Column != scope.ColumnOrganizationID || f.Value != "g1" {
			t.Fatalf("unexpected filter %+v", f)
		}
	})
}

func TestFilterSQL(t *testing.T) {
	f := scope.Filter{Column: scope.ColumnOrganizationID, Value: "g1"}

	clause, arg := f.SQL(3)
	if clause != "organization_id = $3" {
		t.Fatalf("unexpected clause %q", clause)
	}
	if arg != "g1" {
		t.Fatalf("unexpected arg %v", arg)
	}

	clause, _ = f.Qualified("l", 1)
	if clause != "l.organization_id = $1" {
		t.Fatalf("unexpected qualified clause %q", clause)
	}

	solo := scope.Filter{Column: scope.ColumnCreatedBy, Value: "u1"}
	if clause, _ := solo.SQL(2); clause != "(created_by = $2 AND organization_id IS NULL)" {
		t.Fatalf("unexpected solo clause %q", clause)
	}
	if clause, _ := solo.Qualified("l", 1); clause != "(l.created_by = $1 AND l.organization_id IS NULL)" {
		t.Fatalf("unexpected qualified solo clause %q", clause)
	}
}

func TestFilterMatches(t *testing.T) {
	rows := []scope.Ownership{
		{CreatedBy: "u1"},
		{CreatedBy: "u2"},
		{CreatedBy: "u1", OrganizationID: strPtr("g1")},
		{CreatedBy: "u3", OrganizationID: strPtr("g1")},
		{CreatedBy: "u4", OrganizationID: strPtr("g2")},
	}

	count := func(f scope.Filter) int {
		n := 0
		for _, r := range rows {
			if f.Matches(r) {
				n++
			}
		}
		return n
	}

	solo := scope.ResolveFilter(scope.Principal{UserID: "u1", Membership: scope.Solo{}})
	if got := count(solo); got != 1 {
		t.Fatalf("solo user should see own unassigned rows only, saw %d", got)
	}

	member := scope.ResolveFilter(scope.Principal{
		UserID:     "u9",
		Membership: scope.OrganizationMember{OrganizationID: "g1"},
	})
	if got := count(member); got != 2 {
		t.Fatalf("member should see every g1 row regardless of creator, saw %d", got)
	}

	if (scope.Filter{Column: "bogus", Value: "u1"}).Matches(rows[0]) {
		t.Fatal("unknown column must never match")
	}
}

func TestStamp(t *testing.T) {
	t.Run("solo leaves organization empty", func(t *testing.T) {
		o := scope.Ownership{OrganizationID: strPtr("stale")}
		scope.Stamp(&o, scope.Principal{UserID: "u1", Membership: scope.Solo{}})

		if o.CreatedBy != "u1" {
			t.Fatalf("expected created_by u1, got %q", o.CreatedBy)
		}
		if o.OrganizationID != nil {
			t.Fatalf("expected nil organization, got %q", *o.OrganizationID)
		}
	})

	t.Run("member stamps organization", func(t *testing.T) {
		var o scope.Ownership
		scope.Stamp(&o, scope.Principal{
			UserID:     "u1",
			Membership: scope.OrganizationMember{OrganizationID: "g1"},
		})

		if o.CreatedBy != "u1" {
			t.Fatalf("expected created_by u1, got %q", o.CreatedBy)
		}
		if o.OrganizationID == nil || *o.OrganizationID != "g1" {
			t.Fatalf("expected organization g1, got %v", o.OrganizationID)
		}
	})

	t.Run("stamped row is visible to its creator's filter", func(t *testing.T) {
		for _, p := range []scope.Principal{
			{UserID: "u1", Membership: scope.Solo{}},
			{UserID: "u1", Membership: scope.OrganizationMember{OrganizationID: "g1"}},
		} {
			var o scope.Ownership
			scope.Stamp(&o, p)
			if !scope.ResolveFilter(p).Matches(o) {
				t.Fatalf("row stamped by %+v is invisible to its creator", p)
			}
		}
	})
}

func TestPrincipalContext(t *testing.T) {
	if _, ok := scope.FromContext(context.Background()); ok {
		t.Fatal("expected no principal in empty context")
	}

	want := scope.Principal{UserID: "u1", IsAdmin: true, Membership: scope.Solo{}}
	got, ok := scope.FromContext(scope.WithPrincipal(context.Background(), want))
	if !ok || got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

// AngelaMos | 2026
// scope.go

// Package scope decides which CRM rows a user may see and how new rows are
// attributed. A user is either Solo, seeing only what they created outside
// any organization, or an OrganizationMember, seeing everything stamped with
// their organization.
package scope

import (
	"context"
	"fmt"
)

type Membership interface {
	isMembership()
}

type Solo struct{}

type OrganizationMember struct {
	OrganizationID string
}

func (Solo) isMembership()               {}
func (OrganizationMember) isMembership() {}

// MembershipOf builds a Membership from a nullable organization column.
func MembershipOf(organizationID *string) Membership {
	if organizationID == nil || *organizationID == "" {
		return Solo{}
	}
	return OrganizationMember{OrganizationID: *organizationID}
}

// Principal is the authenticated caller. It is passed explicitly to every
// service operation.
type Principal struct {
	UserID     string
	IsAdmin    bool
	Membership Membership
}

func (p Principal) OrganizationID() (string, bool) {
	if m, ok := p.Membership.(OrganizationMember); ok {
		return m.OrganizationID, true
	}
	return "", false
}

// Ownership is embedded by every scoped entity.
type Ownership struct {
	CreatedBy      string  `db:"created_by"`
	OrganizationID *string `db:"organization_id"`
}

const (
	ColumnCreatedBy      = "created_by"
	ColumnOrganizationID = "organization_id"
)

// Filter is the equality predicate that bounds a query to the caller's
// visible rows. A created_by filter also requires an empty organization, so
// rows a former member created stay with the organization.
type Filter struct {
	Column string
	Value  string
}

func ResolveFilter(p Principal) Filter {
	switch m := p.Membership.(type) {
	case OrganizationMember:
		return Filter{Column: ColumnOrganizationID, Value: m.OrganizationID}
	default:
		return Filter{Column: ColumnCreatedBy, Value: p.UserID}
	}
}

// SQL renders the predicate using positional placeholder $argIdx.
func (f Filter) SQL(argIdx int) (string, any) {
	return f.render("", argIdx), f.Value
}

// Qualified renders the predicate against a table alias.
func (f Filter) Qualified(alias string, argIdx int) (string, any) {
	return f.render(alias+".", argIdx), f.Value
}

func (f Filter) render(prefix string, argIdx int) string {
	if f.Column == ColumnCreatedBy {
		return fmt.Sprintf("(%s%s = $%d AND %s%s IS NULL)",
			prefix, ColumnCreatedBy, argIdx, prefix, ColumnOrganizationID)
	}
	return fmt.Sprintf("%s%s = $%d", prefix, f.Column, argIdx)
}

func (f Filter) Matches(o Ownership) bool {
	switch f.Column {
	case ColumnOrganizationID:
		return o.OrganizationID != nil && *o.OrganizationID == f.Value
	case ColumnCreatedBy:
		return o.CreatedBy == f.Value && o.OrganizationID == nil
	}
	return false
}

func Stamp(o *Ownership, p Principal) {
	o.CreatedBy = p.UserID
	o.OrganizationID = nil
	if orgID, ok := p.OrganizationID(); ok {
		id := orgID
		o.OrganizationID = &id
	}
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal stored by the authentication middleware.
// Handlers read it once and pass it down explicitly.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

package authz

import (
	"testing"

	"assetflow/auth"
	"assetflow/record"
)

func ids(docs []record.Document) []string {
	out := make([]string, len(docs))
	for i, doc := range docs {
		out[i] = doc.String("id")
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestApply_Assets(t *testing.T) {
	assets := []record.Document{
		{"id": "a1", "assigned_to_email": "user@org.com"},
		{"id": "a2", "assigned_to_email": "other@org.com"},
		{"id": "a3"},
	}

	cases := []struct {
		name      string
		role      auth.Role
		requester string
		want      []string
	}{
		{"admin sees all", auth.RoleAdmin, "admin@org.com", []string{"a1", "a2", "a3"}},
		{"manager sees only assigned", auth.RoleManager, "user@org.com", []string{"a1"}},
		{"user sees only assigned", auth.RoleUser, "user@org.com", []string{"a1"}},
		{"user with no assignments", auth.RoleUser, "nobody@org.com", nil},
		{"unknown role is most restrictive", auth.Role("auditor"), "other@org.com", []string{"a2"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ids(Apply(tc.role, record.CollectionAssets, assets, tc.requester))
			if !equal(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestApply_Loans(t *testing.T) {
	loans := []record.Document{
		{"id": "l1", "created_by": "user@org.com"},
		{"id": "l2", "borrower_email": "user@org.com"},
		{"id": "l3", "created_by": "other@org.com", "borrower_email": "other@org.com"},
	}

	got := ids(Apply(auth.RoleUser, record.CollectionLoans, loans, "user@org.com"))
	if !equal(got, []string{"l1", "l2"}) {
		t.Fatalf("user sees %v, want [l1 l2]", got)
	}

	got = ids(Apply(auth.RoleManager, record.CollectionLoans, loans, "user@org.com"))
	if !equal(got, []string{"l1", "l2", "l3"}) {
		t.Fatalf("manager sees %v, want all", got)
	}
}

func TestApply_CreatorOnlyCollections(t *testing.T) {
	docs := []record.Document{
		{"id": "m1", "created_by": "user@org.com", "borrower_email": "other@org.com"},
		{"id": "m2", "created_by": "other@org.com", "borrower_email": "user@org.com"},
	}

	for _, collection := range []string{record.CollectionMaintenances, record.CollectionProcurements} {
		got := ids(Apply(auth.RoleUser, collection, docs, "user@org.com"))
		if !equal(got, []string{"m1"}) {
			t.Fatalf("%s: user sees %v, want [m1]; borrower_email must not grant visibility here", collection, got)
		}
	}
}

func TestApply_UnrestrictedCollectionPassesThrough(t *testing.T) {
	docs := []record.Document{
		{"id": "u1"},
		{"id": "u2"},
	}

	got := Apply(auth.RoleUser, record.CollectionUsers, docs, "user@org.com")
	if len(got) != 2 {
		t.Fatalf("expected pass-through for users collection, got %d docs", len(got))
	}
}

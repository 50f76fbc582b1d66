// Package authz narrows listed documents to those a requester may see.
// The visibility matrix is a static lookup table keyed by collection so the
// rules stay auditable in one place instead of scattered across handlers.
package authz

import (
	"assetflow/auth"
	"assetflow/record"
)

// rule reports whether a single document is visible to the requester.
type rule func(role auth.Role, doc record.Document, requester string) bool

// rules maps collections with restricted visibility to their predicate.
// Collections absent from the table are visible to everyone. Roles outside
// the closed admin/manager/user set never pass a privileged branch, so an
// unrecognized role gets the most restrictive filtering.
var rules = map[string]rule{
	record.CollectionAssets: func(role auth.Role, doc record.Document, requester string) bool {
		if role == auth.RoleAdmin {
			return true
		}
		return doc.String("assigned_to_email") == requester
	},
	record.CollectionLoans:        ownedBy(true),
	record.CollectionMaintenances: ownedBy(false),
	record.CollectionProcurements: ownedBy(false),
}

// ownedBy restricts role user to documents they created, optionally also
// admitting the loan borrower.
func ownedBy(includeBorrower bool) rule {
	return func(role auth.Role, doc record.Document, requester string) bool {
		if role == auth.RoleAdmin || role == auth.RoleManager {
			return true
		}
		if doc.String("created_by") == requester {
			return true
		}
		return includeBorrower && doc.String("borrower_email") == requester
	}
}

// Apply filters docs down to those visible to the requester. It is a pure,
// total function: collections without a rule pass through unchanged.
func Apply(role auth.Role, collection string, docs []record.Document, requesterEmail string) []record.Document {
	visible, ok := rules[collection]
	if !ok {
		return docs
	}

	out := make([]record.Document, 0, len(docs))
	for _, doc := range docs {
		if visible(role, doc, requesterEmail) {
			out = append(out, doc)
		}
	}
	return out
}

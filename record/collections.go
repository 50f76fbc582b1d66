package record

// The fixed set of logical collections stored in the records table.
const (
	CollectionUsers         = "users"
	CollectionAssets        = "assets"
	CollectionLoans         = "loans"
	CollectionMaintenances  = "maintenances"
	CollectionProcurements  = "procurements"
	CollectionProperties    = "properties"
	CollectionVendors       = "vendors"
	CollectionActivities    = "activities"
	CollectionNotifications = "notifications"
)

var collections = []string{
	CollectionUsers,
	CollectionAssets,
	CollectionLoans,
	CollectionMaintenances,
	CollectionProcurements,
	CollectionProperties,
	CollectionVendors,
	CollectionActivities,
	CollectionNotifications,
}

// Collections returns the known collection names in their canonical order.
func Collections() []string {
	out := make([]string, len(collections))
	copy(out, collections)
	return out
}

// ValidCollection reports whether name is one of the fixed collections.
func ValidCollection(name string) bool {
	for _, c := range collections {
		if c == name {
			return true
		}
	}
	return false
}

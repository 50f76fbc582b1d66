package record

import (
	"context"
	"fmt"
	"log/slog"
)

// Seed populates the store with a small demo data set when no users exist
// yet. It is meant for first boot of a fresh database and is a no-op
// otherwise.
func Seed(ctx context.Context, store Store, logger *slog.Logger) error {
	users, err := store.List(ctx, CollectionUsers)
	if err != nil {
		return fmt.Errorf("record: seed check: %w", err)
	}
	if len(users) > 0 {
		return nil
	}

	seed := map[string][]Document{
		CollectionUsers: {
			{
				"id": "admin-mock-1", "email": "admin@org.com", "full_name": "Admin User",
				"role": "admin", "department": "IT", "phone": "+919999911111", "employee_id": "ADM001",
			},
			{
				"id": "manager-mock-1", "email": "manager@org.com", "full_name": "Manager Smith",
				"role": "manager", "department": "Operations", "phone": "+919876543210", "employee_id": "MGR005",
			},
			{
				"id": "user-mock-1", "email": "user@org.com", "full_name": "Standard User",
				"role": "user", "department": "Sales", "phone": "+919000000000", "employee_id": "USR100",
			},
		},
		CollectionAssets: {
			{
				"id": "ast-001", "name": "MacBook Pro M3", "asset_id": "CMP-001", "category": "computer",
				"status": "active", "purchase_date": "2024-01-15", "purchase_value": 250000,
				"current_value": 240000, "serial_number": "SN123456789", "manufacturer": "Apple",
				"warranty_expiry": "2027-01-15", "assigned_to_email": "user@org.com",
				"owner_email": "admin@org.com", "location": "Floor 5, Desk 3",
				"notes": "High-end laptop for development team.",
			},
			{
				"id": "ast-002", "name": "Office Chair (Ergo)", "asset_id": "FUR-010", "category": "furniture",
				"status": "in_storage", "purchase_date": "2023-05-20", "purchase_value": 15000,
				"current_value": 10000, "serial_number": "CHAIR101", "manufacturer": "Herman",
				"warranty_expiry": "2028-05-20", "assigned_to_email": "admin@org.com",
				"owner_email": "admin@org.com", "location": "Warehouse A", "notes": "Spare ergonomic chair.",
			},
			{
				"id": "ast-003", "name": "Server Rack 30U", "asset_id": "NET-050", "category": "networking",
				"status": "in_maintenance", "purchase_date": "2022-08-01", "purchase_value": 80000,
				"current_value": 50000, "serial_number": "RACK005", "manufacturer": "Dell",
				"warranty_expiry": "2025-08-01", "assigned_to_email": "manager@org.com",
				"owner_email": "admin@org.com", "location": "Server Room",
				"notes": "Scheduled maintenance for cooling unit.",
			},
		},
		CollectionLoans: {
			{
				"id": "loan-001", "asset_id": "ast-001", "asset_name": "MacBook Pro M3",
				"borrower_email": "user@org.com", "borrower_name": "Standard User",
				"purpose": "Client Presentation", "condition_at_loan": "good", "status": "active",
			},
		},
		CollectionMaintenances: {
			{
				"id": "maint-001", "asset_id": "ast-003", "asset_name": "Server Rack 30U",
				"title": "Cooling Fan Replacement",
				"description": "The primary cooling fan is making noise and needs replacement.",
				"priority": "high", "status": "pending", "technician": "Vendor Tech",
				"created_by": "manager@org.com",
			},
		},
		CollectionProcurements: {
			{
				"id": "proc-001", "item_name": "New Desks (x10)", "category": "furniture",
				"quantity": 10, "estimated_cost": 12000, "total_cost": 120000,
				"justification": "Expanding team requires new office furniture.",
				"urgency": "medium", "status": "pending", "created_by": "manager@org.com",
			},
		},
		CollectionActivities: {
			{
				"id": "act-001", "user_email": "admin@org.com", "user_name": "Admin User",
				"action": "CREATE_ASSET", "details": `created a new asset: "MacBook Pro M3".`,
				"asset_name": "MacBook Pro M3",
			},
			{
				"id": "act-002", "user_email": "user@org.com", "user_name": "Standard User",
				"action": "CREATE_LOAN", "details": `created a new loan for "MacBook Pro M3".`,
				"asset_name": "MacBook Pro M3",
			},
		},
	}

	total := 0
	for collection, docs := range seed {
		for _, doc := range docs {
			if _, err := store.Insert(ctx, collection, doc); err != nil {
				return fmt.Errorf("record: seed %s: %w", collection, err)
			}
			total++
		}
	}

	logger.Info("seeded demo data", "documents", total)
	return nil
}

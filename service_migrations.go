package guardkit

import (
	"github.com/fernandezvara/dbkit"
)

// MigrationService provides migration management functionality as an extension to Service
type MigrationService struct {
	*Service
}

// NewMigrationService creates a new migration service extension
func NewMigrationService(service *Service) *MigrationService {
	return &MigrationService{Service: service}
}

// Migrations returns all database migrations required for GuardKit.
// Use dbkit.Migrate(ctx, service.Migrations()) to run migrations.
// Use dbkit.MigrationStatus(ctx, service.Migrations()) to check status.
func (ms *MigrationService) Migrations() []dbkit.Migration {
	return []dbkit.Migration{
		{
			ID:          "guardkit-001",
			Description: "Create activity_log table",
			SQL: `
                CREATE TABLE IF NOT EXISTS activity_log (
                    id UUID PRIMARY KEY,
                    user_id TEXT NOT NULL,
                    action TEXT NOT NULL,
                    resource_type TEXT NOT NULL,
                    resource_id TEXT,
                    details JSONB,
                    ip_address TEXT,
                    user_agent TEXT,
                    request_id TEXT,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
                )`,
		},
		{
			ID:          "guardkit-002",
			Description: "Index activity_log for per-user queries",
			SQL: `
                CREATE INDEX IF NOT EXISTS idx_activity_log_user_created
                    ON activity_log (user_id, created_at DESC)`,
		},
		{
			ID:          "guardkit-003",
			Description: "Index activity_log for action grouping",
			SQL: `
                CREATE INDEX IF NOT EXISTS idx_activity_log_action
                    ON activity_log (action)`,
		},
		{
			ID:          "guardkit-004",
			Description: "Index activity_log for range queries and retention",
			SQL: `
                CREATE INDEX IF NOT EXISTS idx_activity_log_created
                    ON activity_log (created_at)`,
		},
	}
}

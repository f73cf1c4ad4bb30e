package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/frahmantamala/recruitment-performance/internal/health"
)

const (
	clientQuery = `SELECT id, code, name, account_manager_id FROM clients WHERE id = ?`

	clientsByAccountManagerQuery = `SELECT id, code, name, account_manager_id FROM clients WHERE account_manager_id = ? ORDER BY id`

	roleCountsQuery = `
SELECT
	COUNT(*) AS total_roles,
	COALESCE(SUM(CASE WHEN status IN ('open', 'on_hold') THEN 1 ELSE 0 END), 0) AS active_roles,
	COALESCE(SUM(CASE WHEN status = 'lost' THEN 1 ELSE 0 END), 0) AS lost_roles,
	COALESCE(SUM(CASE WHEN status = 'dropout' THEN 1 ELSE 0 END), 0) AS dropout_roles
FROM roles
WHERE client_id = ?`

	activityCountsQuery = `
SELECT
	COALESCE(SUM(CASE WHEN e.entry_type = 'interview' THEN 1 ELSE 0 END), 0) AS interviews,
	COALESCE(SUM(CASE WHEN e.entry_type = 'deal' THEN 1 ELSE 0 END), 0) AS deals
FROM activity_entries e
JOIN roles r ON r.id = e.role_id
WHERE r.client_id = ?`
)

// HealthRepository runs the aggregate count queries with sqlx.
type HealthRepository struct {
	db *sqlx.DB
}

func NewHealthRepository(db *sqlx.DB) health.Repository {
	return &HealthRepository{db: db}
}

func (r *HealthRepository) GetClient(ctx context.Context, clientID int64) (*health.Client, error) {
	var c health.Client
	if err := r.db.GetContext(ctx, &c, r.db.Rebind(clientQuery), clientID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, health.ErrClientNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *HealthRepository) ListClientsByAccountManager(ctx context.Context, accountManagerID int64) ([]*health.Client, error) {
	clients := []*health.Client{}
	if err := r.db.SelectContext(ctx, &clients, r.db.Rebind(clientsByAccountManagerQuery), accountManagerID); err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *HealthRepository) CountsForClient(ctx context.Context, clientID int64) (health.Counts, error) {
	var roles struct {
		TotalRoles   int `db:"total_roles"`
		ActiveRoles  int `db:"active_roles"`
		LostRoles    int `db:"lost_roles"`
		DropoutRoles int `db:"dropout_roles"`
	}
	if err := r.db.GetContext(ctx, &roles, r.db.Rebind(roleCountsQuery), clientID); err != nil {
		return health.Counts{}, err
	}

	var activity struct {
		Interviews int `db:"interviews"`
		Deals      int `db:"deals"`
	}
	if err := r.db.GetContext(ctx, &activity, r.db.Rebind(activityCountsQuery), clientID); err != nil {
		return health.Counts{}, err
	}

	return health.Counts{
		TotalRoles:   roles.TotalRoles,
		ActiveRoles:  roles.ActiveRoles,
		LostRoles:    roles.LostRoles,
		DropoutRoles: roles.DropoutRoles,
		Interviews:   activity.Interviews,
		Deals:        activity.Deals,
	}, nil
}

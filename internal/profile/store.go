package profile

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/qoslens/qoslens/internal/models"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNotFound is returned when no profile exists for a tenant.
var ErrNotFound = errors.New("customer profile not found")

// Store provides access to customer profiles
type Store interface {
	Get(ctx context.Context, tenantID string) (*models.CustomerProfile, error)
	Save(ctx context.Context, profile *models.CustomerProfile) error
	ListTenantIDs(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
	Close() error
}

// PostgresStore implements Store using PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL store
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db}

	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// migrate runs database migrations
func (s *PostgresStore) migrate() error {
	schema, err := migrationsFS.ReadFile("migrations/001_profiles.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}

	if _, err := s.db.Exec(string(schema)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

// Get retrieves a customer profile by tenant ID
func (s *PostgresStore) Get(ctx context.Context, tenantID string) (*models.CustomerProfile, error) {
	query := `
		SELECT tenant_id, organization_name, sector, use_case_category,
			target_user_base, sla_tier, languages_required, geographical_coverage
		FROM customer_profiles
		WHERE tenant_id = $1
	`

	var (
		p         models.CustomerProfile
		sector    string
		slaTier   string
		languages string
		geography sql.NullString
	)

	err := s.db.QueryRowContext(ctx, query, tenantID).Scan(
		&p.TenantID, &p.OrganizationName, &sector, &p.UseCaseCategory,
		&p.TargetUserBase, &slaTier, &languages, &geography,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, tenantID)
	}
	if err != nil {
		return nil, err
	}

	p.Sector = models.Sector(sector)
	p.SLATier = models.SLATier(slaTier)
	p.Languages = splitList(languages)
	if geography.Valid {
		p.Geography = splitList(geography.String)
	}

	return &p, nil
}

// Save inserts or updates a customer profile
func (s *PostgresStore) Save(ctx context.Context, profile *models.CustomerProfile) error {
	if profile == nil {
		return models.ErrNilProfile
	}
	if strings.TrimSpace(profile.TenantID) == "" {
		return fmt.Errorf("profile tenant id is required")
	}

	query := `
		INSERT INTO customer_profiles (
			tenant_id, organization_name, sector, use_case_category,
			target_user_base, sla_tier, languages_required,
			geographical_coverage, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (tenant_id) DO UPDATE SET
			organization_name = EXCLUDED.organization_name,
			sector = EXCLUDED.sector,
			use_case_category = EXCLUDED.use_case_category,
			target_user_base = EXCLUDED.target_user_base,
			sla_tier = EXCLUDED.sla_tier,
			languages_required = EXCLUDED.languages_required,
			geographical_coverage = EXCLUDED.geographical_coverage,
			updated_at = NOW()
	`

	_, err := s.db.ExecContext(ctx, query,
		profile.TenantID, profile.OrganizationName, string(profile.Sector),
		profile.UseCaseCategory, profile.TargetUserBase, string(profile.SLATier),
		joinList(profile.Languages), joinList(profile.Geography),
	)

	return err
}

// ListTenantIDs returns all tenant IDs with a stored profile
func (s *PostgresStore) ListTenantIDs(ctx context.Context) ([]string, error) {
	query := `
		SELECT tenant_id
		FROM customer_profiles
		ORDER BY tenant_id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenantIDs []string
	for rows.Next() {
		var tenantID string
		if err := rows.Scan(&tenantID); err != nil {
			return nil, err
		}
		tenantIDs = append(tenantIDs, tenantID)
	}

	return tenantIDs, rows.Err()
}

// Ping checks database connectivity
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// splitList parses a comma-joined text column into a slice.
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// joinList renders a slice as a comma-joined text column.
func joinList(items []string) string {
	var cleaned []string
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			cleaned = append(cleaned, item)
		}
	}
	return strings.Join(cleaned, ",")
}

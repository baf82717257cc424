package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/brand-content-engine/internal/templates"
	"github.com/jonathan/brand-content-engine/internal/types"
)

// promptColumns maps template kinds to their tenant columns.
var promptColumns = map[types.TemplateKind]string{
	types.KindLinkedInPost: "custom_linkedin_prompt",
	types.KindHook:         "custom_hook_prompt",
	types.KindImage:        "custom_image_prompt",
}

const tenantColumns = `id, name, brand_voice_data, custom_linkedin_prompt, custom_hook_prompt,
	custom_image_prompt, content_pillars, created_at, updated_at`

func promptColumn(kind types.TemplateKind) (string, error) {
	col, ok := promptColumns[kind]
	if !ok {
		return "", fmt.Errorf("unknown template kind %q", kind)
	}
	return col, nil
}

// CreateTenant inserts a tenant and returns the stored record.
func (db *DB) CreateTenant(ctx context.Context, t *types.Tenant) (*types.Tenant, error) {
	bv, err := encodeJSON(t.BrandVoiceData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal brand voice: %w", err)
	}
	pillars := t.ContentPillars
	if pillars == nil {
		pillars = []string{}
	}
	row := db.pool.QueryRow(ctx,
		`INSERT INTO tenants (name, brand_voice_data, content_pillars)
		 VALUES ($1, $2, $3)
		 RETURNING `+tenantColumns,
		t.Name, bv, pillars,
	)
	created, err := scanTenant(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}
	return created, nil
}

// GetTenant implements templates.Store.
func (db *DB) GetTenant(ctx context.Context, id uuid.UUID) (*types.Tenant, error) {
	row := db.pool.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id)
	t, err := scanTenant(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, templates.ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return t, nil
}

// ListTenants returns tenants ordered by name.
func (db *DB) ListTenants(ctx context.Context, limit int) ([]types.Tenant, error) {
	if limit <= 0 {
		limit = templates.DefaultListLimit
	}
	rows, err := db.pool.Query(ctx, `SELECT `+tenantColumns+` FROM tenants ORDER BY lower(name) LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer rows.Close()

	tenants := []types.Tenant{}
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		tenants = append(tenants, *t)
	}
	return tenants, rows.Err()
}

// SavePrompt implements templates.Store.
func (db *DB) SavePrompt(ctx context.Context, id uuid.UUID, kind types.TemplateKind, prompt types.StoredPrompt) error {
	col, err := promptColumn(kind)
	if err != nil {
		return err
	}
	body, err := json.Marshal(prompt)
	if err != nil {
		return fmt.Errorf("failed to marshal prompt: %w", err)
	}
	return db.execTenant(ctx, id, `UPDATE tenants SET `+col+` = $2, updated_at = NOW() WHERE id = $1`, body)
}

// ClearPrompts implements templates.Store.
func (db *DB) ClearPrompts(ctx context.Context, id uuid.UUID, kinds []types.TemplateKind) error {
	query, err := clearPromptsSQL(kinds)
	if err != nil {
		return err
	}
	return db.execTenant(ctx, id, query)
}

// SaveBrandVoice replaces the tenant's raw brand voice data.
func (db *DB) SaveBrandVoice(ctx context.Context, id uuid.UUID, raw *types.RawBrandVoice) error {
	bv, err := encodeJSON(raw)
	if err != nil {
		return fmt.Errorf("failed to marshal brand voice: %w", err)
	}
	return db.execTenant(ctx, id, `UPDATE tenants SET brand_voice_data = $2, updated_at = NOW() WHERE id = $1`, bv)
}

// SavePillars replaces the tenant's content pillars.
func (db *DB) SavePillars(ctx context.Context, id uuid.UUID, pillars []string) error {
	if pillars == nil {
		pillars = []string{}
	}
	return db.execTenant(ctx, id, `UPDATE tenants SET content_pillars = $2, updated_at = NOW() WHERE id = $1`, pillars)
}

func (db *DB) execTenant(ctx context.Context, id uuid.UUID, query string, args ...any) error {
	result, err := db.pool.Exec(ctx, query, append([]any{id}, args...)...)
	if err != nil {
		return fmt.Errorf("failed to update tenant: %w", err)
	}
	if result.RowsAffected() == 0 {
		return templates.ErrTenantNotFound
	}
	return nil
}

func clearPromptsSQL(kinds []types.TemplateKind) (string, error) {
	sets := make([]string, 0, len(kinds)+1)
	for _, kind := range kinds {
		col, err := promptColumn(kind)
		if err != nil {
			return "", err
		}
		sets = append(sets, col+" = NULL")
	}
	sets = append(sets, "updated_at = NOW()")
	return `UPDATE tenants SET ` + strings.Join(sets, ", ") + ` WHERE id = $1`, nil
}

// tenantRow holds the scanned columns before JSON decoding.
type tenantRow struct {
	id         uuid.UUID
	name       string
	brandVoice []byte
	prompts    [3][]byte
	pillars    []string
	createdAt  time.Time
	updatedAt  time.Time
}

func scanTenant(row pgx.Row) (*types.Tenant, error) {
	var r tenantRow
	if err := row.Scan(&r.id, &r.name, &r.brandVoice, &r.prompts[0], &r.prompts[1], &r.prompts[2],
		&r.pillars, &r.createdAt, &r.updatedAt); err != nil {
		return nil, err
	}
	return r.decode()
}

func (r tenantRow) decode() (*types.Tenant, error) {
	t := &types.Tenant{
		ID:             r.id,
		Name:           r.name,
		ContentPillars: r.pillars,
		CreatedAt:      r.createdAt,
		UpdatedAt:      r.updatedAt,
	}
	if t.ContentPillars == nil {
		t.ContentPillars = []string{}
	}
	if len(r.brandVoice) > 0 {
		var raw types.RawBrandVoice
		if err := json.Unmarshal(r.brandVoice, &raw); err != nil {
			return nil, fmt.Errorf("failed to decode brand voice: %w", err)
		}
		t.BrandVoiceData = &raw
	}
	// Column order matches types.AllTemplateKinds.
	for i, kind := range types.AllTemplateKinds {
		if len(r.prompts[i]) == 0 {
			continue
		}
		var p types.StoredPrompt
		if err := json.Unmarshal(r.prompts[i], &p); err != nil {
			return nil, fmt.Errorf("failed to decode %s prompt: %w", kind, err)
		}
		if t.Prompts == nil {
			t.Prompts = make(map[types.TemplateKind]types.StoredPrompt)
		}
		t.Prompts[kind] = p
	}
	return t, nil
}

// encodeJSON returns nil for a nil value so the column stays NULL.
func encodeJSON[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

var _ templates.Store = (*DB)(nil)

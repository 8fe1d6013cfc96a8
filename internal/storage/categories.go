package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/orderflow/orderflow/internal/common"
	"github.com/orderflow/orderflow/internal/model"
)

// Categories returns all active categories ordered by name.
func (s *Store) Categories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, description, created_at, is_active
		FROM categories
		WHERE is_active = 1
		ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		var cat model.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Description, &cat.CreatedAt, &cat.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

// CategoryNames returns just the active category names, for prompt building.
func (s *Store) CategoryNames(ctx context.Context) ([]string, error) {
	categories, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(categories))
	for i, cat := range categories {
		names[i] = cat.Name
	}
	return names, nil
}

// CategoryByName returns an active category by name, or common.ErrNotFound.
func (s *Store) CategoryByName(ctx context.Context, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, description, created_at, is_active
		FROM categories
		WHERE name = ? AND is_active = 1`

	var cat model.Category
	err := s.db.QueryRowContext(ctx, query, name).Scan(
		&cat.ID, &cat.Name, &cat.Description, &cat.CreatedAt, &cat.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}

	return &cat, nil
}

// CreateCategory creates a new active category. Re-creating an inactive
// category of the same name reactivates it.
func (s *Store) CreateCategory(ctx context.Context, name, description string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	var existingID int
	var isActive bool
	err := s.db.QueryRowContext(ctx,
		`SELECT id, is_active FROM categories WHERE name = ?`, name,
	).Scan(&existingID, &isActive)

	switch {
	case err == nil && isActive:
		return nil, fmt.Errorf("%w: category %q", common.ErrDuplicateEntry, name)
	case err == nil:
		if _, err := s.db.ExecContext(ctx,
			`UPDATE categories SET is_active = 1, description = ? WHERE id = ?`,
			description, existingID); err != nil {
			return nil, fmt.Errorf("failed to reactivate category: %w", err)
		}
		return s.CategoryByName(ctx, name)
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("failed to check for existing category: %w", err)
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (name, description) VALUES (?, ?)`,
		name, description); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	slog.Debug("created category", "name", name)
	return s.CategoryByName(ctx, name)
}

// DeleteCategory soft-deletes a category by name.
func (s *Store) DeleteCategory(ctx context.Context, name string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE categories SET is_active = 0 WHERE name = ? AND is_active = 1`, name)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return nil
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"

	"github.com/olegiv/yapicms/internal/model"
)

// CreateCategory inserts a category row.
func (q *Queries) CreateCategory(ctx context.Context, slug string, position int64) (model.Category, error) {
	var c model.Category
	err := q.db.QueryRowContext(ctx, `
		INSERT INTO categories (slug, position) VALUES (?, ?)
		RETURNING id, slug, position, created_at`, slug, position).
		Scan(&c.ID, &c.Slug, &c.Position, &c.CreatedAt)
	return c, err
}

// GetCategoryByID returns one category.
func (q *Queries) GetCategoryByID(ctx context.Context, id int64) (model.Category, error) {
	var c model.Category
	err := q.db.QueryRowContext(ctx,
		"SELECT id, slug, position, created_at FROM categories WHERE id = ?", id).
		Scan(&c.ID, &c.Slug, &c.Position, &c.CreatedAt)
	return c, err
}

// GetCategoryBySlug returns one category by its slug.
func (q *Queries) GetCategoryBySlug(ctx context.Context, slug string) (model.Category, error) {
	var c model.Category
	err := q.db.QueryRowContext(ctx,
		"SELECT id, slug, position, created_at FROM categories WHERE slug = ?", slug).
		Scan(&c.ID, &c.Slug, &c.Position, &c.CreatedAt)
	return c, err
}

// UpdateCategorySlug renames a category slug.
func (q *Queries) UpdateCategorySlug(ctx context.Context, id int64, slug string) error {
	_, err := q.db.ExecContext(ctx, "UPDATE categories SET slug = ? WHERE id = ?", slug, id)
	return err
}

// UpdateCategoryPosition moves a category in the display order.
func (q *Queries) UpdateCategoryPosition(ctx context.Context, id, position int64) error {
	_, err := q.db.ExecContext(ctx, "UPDATE categories SET position = ? WHERE id = ?", position, id)
	return err
}

// DeleteCategory removes a category; project links cascade.
func (q *Queries) DeleteCategory(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	return err
}

// UpsertCategoryName writes the display name of a category for one language.
func (q *Queries) UpsertCategoryName(ctx context.Context, categoryID int64, lang model.Language, name string) error {
	fields := []contentField{{column: "name", value: name}}
	return q.upsertLocalized(ctx, "category_names", "category_id", categoryID, lang, fields)
}

// ListCategoryNames returns all localized names of a category.
func (q *Queries) ListCategoryNames(ctx context.Context, categoryID int64) ([]model.CategoryName, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, category_id, language, name FROM category_names
		WHERE category_id = ? ORDER BY language ASC`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []model.CategoryName
	for rows.Next() {
		var n model.CategoryName
		if err := rows.Scan(&n.ID, &n.CategoryID, &n.Language, &n.Name); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// ListCategories returns all categories with their name for one language,
// in display order. Categories without a name in that language keep an
// empty name.
func (q *Queries) ListCategories(ctx context.Context, lang model.Language) ([]model.CategoryView, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT c.id, c.slug, c.position, c.created_at, COALESCE(n.name, '')
		FROM categories c
		LEFT JOIN category_names n ON n.category_id = c.id AND n.language = ?
		ORDER BY c.position ASC, c.slug ASC`, string(lang))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []model.CategoryView
	for rows.Next() {
		var cv model.CategoryView
		if err := rows.Scan(&cv.ID, &cv.Slug, &cv.Position, &cv.CreatedAt, &cv.Name); err != nil {
			return nil, err
		}
		cats = append(cats, cv)
	}
	return cats, rows.Err()
}

// ListCategoriesWithCounts returns categories with names for one language and
// the number of projects linked to each. Used by the admin listing.
func (q *Queries) ListCategoriesWithCounts(ctx context.Context, lang model.Language) ([]model.CategoryView, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT c.id, c.slug, c.position, c.created_at, COALESCE(n.name, ''),
			(SELECT COUNT(*) FROM project_categories pc WHERE pc.category_id = c.id)
		FROM categories c
		LEFT JOIN category_names n ON n.category_id = c.id AND n.language = ?
		ORDER BY c.position ASC, c.slug ASC`, string(lang))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []model.CategoryView
	for rows.Next() {
		var cv model.CategoryView
		if err := rows.Scan(&cv.ID, &cv.Slug, &cv.Position, &cv.CreatedAt, &cv.Name, &cv.ProjectCount); err != nil {
			return nil, err
		}
		cats = append(cats, cv)
	}
	return cats, rows.Err()
}

// CreateCategoryWithNames creates a category and its localized names in one
// transaction.
func (s *Store) CreateCategoryWithNames(ctx context.Context, slug string, position int64, names map[model.Language]string) (model.Category, error) {
	var cat model.Category
	err := s.execTx(ctx, func(q *Queries) error {
		var err error
		cat, err = q.CreateCategory(ctx, slug, position)
		if err != nil {
			return err
		}
		for lang, name := range names {
			if err := q.UpsertCategoryName(ctx, cat.ID, lang, name); err != nil {
				return err
			}
		}
		return nil
	})
	return cat, err
}

// UpdateCategory applies slug, position and name changes in one transaction.
// A nil slug or position keeps the current value; names merge per language.
func (s *Store) UpdateCategory(ctx context.Context, id int64, slug *string, position *int64, names map[model.Language]string) (model.Category, error) {
	var cat model.Category
	err := s.execTx(ctx, func(q *Queries) error {
		var err error
		if cat, err = q.GetCategoryByID(ctx, id); err != nil {
			return err
		}
		if slug != nil && *slug != cat.Slug {
			if err := q.UpdateCategorySlug(ctx, id, *slug); err != nil {
				return err
			}
		}
		if position != nil {
			if err := q.UpdateCategoryPosition(ctx, id, *position); err != nil {
				return err
			}
		}
		for lang, name := range names {
			if err := q.UpsertCategoryName(ctx, id, lang, name); err != nil {
				return err
			}
		}
		cat, err = q.GetCategoryByID(ctx, id)
		return err
	})
	return cat, err
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olegiv/yapicms/internal/model"
)

const projectColumns = "id, slug, status, published, featured, position, cover_image, year, location, employer, area, start_date, end_date, created_at, updated_at"

func scanProject(row interface{ Scan(...any) error }) (model.Project, error) {
	var p model.Project
	err := row.Scan(&p.ID, &p.Slug, &p.Status, &p.Published, &p.Featured, &p.Position, &p.CoverImage,
		&p.Year, &p.Location, &p.Employer, &p.Area, &p.StartDate, &p.EndDate,
		&p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// CreateProjectParams holds fields for a new project.
type CreateProjectParams struct {
	Slug       string
	Status     string
	Published  bool
	Featured   bool
	Position   int64
	CoverImage string
	Year       sql.NullInt64
	Location   string
	Employer   string
	Area       string
	StartDate  sql.NullTime
	EndDate    sql.NullTime
}

// CreateProject inserts a project row.
func (q *Queries) CreateProject(ctx context.Context, p CreateProjectParams) (model.Project, error) {
	now := time.Now().UTC()
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO projects (slug, status, published, featured, position, cover_image, year,
			location, employer, area, start_date, end_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+projectColumns,
		p.Slug, p.Status, p.Published, p.Featured, p.Position, p.CoverImage, p.Year,
		p.Location, p.Employer, p.Area, p.StartDate, p.EndDate, now, now)
	return scanProject(row)
}

// GetProjectByID returns one project.
func (q *Queries) GetProjectByID(ctx context.Context, id int64) (model.Project, error) {
	row := q.db.QueryRowContext(ctx, "SELECT "+projectColumns+" FROM projects WHERE id = ?", id)
	return scanProject(row)
}

// GetProjectBySlug returns one project by slug.
func (q *Queries) GetProjectBySlug(ctx context.Context, slug string) (model.Project, error) {
	row := q.db.QueryRowContext(ctx, "SELECT "+projectColumns+" FROM projects WHERE slug = ?", slug)
	return scanProject(row)
}

// ListProjectsParams filters the project listing.
type ListProjectsParams struct {
	Status       string // empty for all
	Published    *bool  // nil for all
	Featured     *bool
	CategorySlug string // empty for all
	Limit        int64
	Offset       int64
}

// listProjectsWhere builds the WHERE clause shared by listing and counting.
func listProjectsWhere(p ListProjectsParams) (string, []any) {
	var conds []string
	var args []any
	if p.Status != "" {
		conds = append(conds, "p.status = ?")
		args = append(args, p.Status)
	}
	if p.Published != nil {
		conds = append(conds, "p.published = ?")
		args = append(args, *p.Published)
	}
	if p.Featured != nil {
		conds = append(conds, "p.featured = ?")
		args = append(args, *p.Featured)
	}
	if p.CategorySlug != "" {
		conds = append(conds, `p.id IN (
			SELECT pc.project_id FROM project_categories pc
			JOIN categories c ON c.id = pc.category_id
			WHERE c.slug = ?)`)
		args = append(args, p.CategorySlug)
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ListProjects returns projects ordered featured first, then by position,
// then newest first.
func (q *Queries) ListProjects(ctx context.Context, p ListProjectsParams) ([]model.Project, error) {
	where, args := listProjectsWhere(p)
	query := "SELECT " + projectColumns + " FROM projects p" + where +
		" ORDER BY p.featured DESC, p.position ASC, p.created_at DESC LIMIT ? OFFSET ?"
	args = append(args, p.Limit, p.Offset)

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		pr, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, pr)
	}
	return projects, rows.Err()
}

// CountProjects returns the number of projects matching the filter.
func (q *Queries) CountProjects(ctx context.Context, p ListProjectsParams) (int64, error) {
	where, args := listProjectsWhere(p)
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM projects p"+where, args...).Scan(&n)
	return n, err
}

// UpdateProjectParams holds optional scalar fields for a project update.
type UpdateProjectParams struct {
	ID         int64
	Status     *string
	Published  *bool
	Featured   *bool
	Position   *int64
	CoverImage *string
	Year       *int64
	Location   *string
	Employer   *string
	Area       *string
	StartDate  *time.Time
	EndDate    *time.Time
}

// UpdateProject applies the provided scalar fields.
func (q *Queries) UpdateProject(ctx context.Context, p UpdateProjectParams) error {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}
	if p.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *p.Status)
	}
	if p.Published != nil {
		sets = append(sets, "published = ?")
		args = append(args, *p.Published)
	}
	if p.Featured != nil {
		sets = append(sets, "featured = ?")
		args = append(args, *p.Featured)
	}
	if p.Position != nil {
		sets = append(sets, "position = ?")
		args = append(args, *p.Position)
	}
	if p.CoverImage != nil {
		sets = append(sets, "cover_image = ?")
		args = append(args, *p.CoverImage)
	}
	if p.Year != nil {
		sets = append(sets, "year = ?")
		args = append(args, *p.Year)
	}
	if p.Location != nil {
		sets = append(sets, "location = ?")
		args = append(args, *p.Location)
	}
	if p.Employer != nil {
		sets = append(sets, "employer = ?")
		args = append(args, *p.Employer)
	}
	if p.Area != nil {
		sets = append(sets, "area = ?")
		args = append(args, *p.Area)
	}
	if p.StartDate != nil {
		sets = append(sets, "start_date = ?")
		args = append(args, *p.StartDate)
	}
	if p.EndDate != nil {
		sets = append(sets, "end_date = ?")
		args = append(args, *p.EndDate)
	}
	args = append(args, p.ID)
	_, err := q.db.ExecContext(ctx,
		"UPDATE projects SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	return err
}

// DeleteProject removes a project; content, gallery, highlights and category
// links cascade.
func (q *Queries) DeleteProject(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	return err
}

// UpsertProjectContentParams holds optional localized project text.
type UpsertProjectContentParams struct {
	ProjectID   int64
	Language    model.Language
	Title       *string
	Summary     *string
	Description *string
}

// UpsertProjectContent writes localized project text, keeping unspecified
// fields.
func (q *Queries) UpsertProjectContent(ctx context.Context, p UpsertProjectContentParams) error {
	var fields []contentField
	fields = setField(fields, "title", p.Title)
	fields = setField(fields, "summary", p.Summary)
	fields = setField(fields, "description", p.Description)
	return q.upsertLocalized(ctx, "project_contents", "project_id", p.ProjectID, p.Language, fields)
}

// GetProjectContent returns the project text for one language.
func (q *Queries) GetProjectContent(ctx context.Context, projectID int64, lang model.Language) (model.ProjectContent, error) {
	var pc model.ProjectContent
	err := q.db.QueryRowContext(ctx, `
		SELECT id, project_id, language, title, summary, description
		FROM project_contents WHERE project_id = ? AND language = ?`,
		projectID, string(lang)).
		Scan(&pc.ID, &pc.ProjectID, &pc.Language, &pc.Title, &pc.Summary, &pc.Description)
	return pc, err
}

// ListProjectContents returns the project text in every language. Used by
// the admin listing.
func (q *Queries) ListProjectContents(ctx context.Context, projectID int64) ([]model.ProjectContent, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, project_id, language, title, summary, description
		FROM project_contents WHERE project_id = ? ORDER BY language ASC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contents []model.ProjectContent
	for rows.Next() {
		var pc model.ProjectContent
		if err := rows.Scan(&pc.ID, &pc.ProjectID, &pc.Language, &pc.Title, &pc.Summary, &pc.Description); err != nil {
			return nil, err
		}
		contents = append(contents, pc)
	}
	return contents, rows.Err()
}

// AddGalleryImage appends one image to a project gallery.
func (q *Queries) AddGalleryImage(ctx context.Context, projectID int64, url, alt string, position int64) (model.GalleryImage, error) {
	var g model.GalleryImage
	err := q.db.QueryRowContext(ctx, `
		INSERT INTO project_gallery (project_id, url, alt, position) VALUES (?, ?, ?, ?)
		RETURNING id, project_id, url, alt, position`,
		projectID, url, alt, position).
		Scan(&g.ID, &g.ProjectID, &g.URL, &g.Alt, &g.Position)
	return g, err
}

// GetGalleryImage returns one gallery image.
func (q *Queries) GetGalleryImage(ctx context.Context, id int64) (model.GalleryImage, error) {
	var g model.GalleryImage
	err := q.db.QueryRowContext(ctx, `
		SELECT id, project_id, url, alt, position FROM project_gallery WHERE id = ?`, id).
		Scan(&g.ID, &g.ProjectID, &g.URL, &g.Alt, &g.Position)
	return g, err
}

// ListGallery returns the gallery of a project ordered by position.
func (q *Queries) ListGallery(ctx context.Context, projectID int64) ([]model.GalleryImage, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, project_id, url, alt, position FROM project_gallery
		WHERE project_id = ? ORDER BY position ASC, id ASC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var gallery []model.GalleryImage
	for rows.Next() {
		var g model.GalleryImage
		if err := rows.Scan(&g.ID, &g.ProjectID, &g.URL, &g.Alt, &g.Position); err != nil {
			return nil, err
		}
		gallery = append(gallery, g)
	}
	return gallery, rows.Err()
}

// DeleteGalleryImage removes one gallery image.
func (q *Queries) DeleteGalleryImage(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM project_gallery WHERE id = ?", id)
	return err
}

// ReplaceProjectHighlights swaps the highlight list of a project for one
// language. Position follows list order.
func (q *Queries) ReplaceProjectHighlights(ctx context.Context, projectID int64, lang model.Language, texts []string) error {
	if _, err := q.db.ExecContext(ctx,
		"DELETE FROM project_highlights WHERE project_id = ? AND language = ?",
		projectID, string(lang)); err != nil {
		return err
	}
	for i, text := range texts {
		if _, err := q.db.ExecContext(ctx, `
			INSERT INTO project_highlights (project_id, language, text, position)
			VALUES (?, ?, ?, ?)`,
			projectID, string(lang), text, i); err != nil {
			return err
		}
	}
	return nil
}

// ListProjectHighlights returns the highlights of a project for one language,
// ordered by position.
func (q *Queries) ListProjectHighlights(ctx context.Context, projectID int64, lang model.Language) ([]model.ProjectHighlight, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, project_id, language, text, position FROM project_highlights
		WHERE project_id = ? AND language = ? ORDER BY position ASC, id ASC`,
		projectID, string(lang))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var highlights []model.ProjectHighlight
	for rows.Next() {
		var h model.ProjectHighlight
		if err := rows.Scan(&h.ID, &h.ProjectID, &h.Language, &h.Text, &h.Position); err != nil {
			return nil, err
		}
		highlights = append(highlights, h)
	}
	return highlights, rows.Err()
}

// ReplaceProjectCategories swaps the category links of a project.
func (q *Queries) ReplaceProjectCategories(ctx context.Context, projectID int64, categoryIDs []int64) error {
	if _, err := q.db.ExecContext(ctx,
		"DELETE FROM project_categories WHERE project_id = ?", projectID); err != nil {
		return err
	}
	for _, catID := range categoryIDs {
		if _, err := q.db.ExecContext(ctx, `
			INSERT INTO project_categories (project_id, category_id) VALUES (?, ?)`,
			projectID, catID); err != nil {
			return err
		}
	}
	return nil
}

// ListProjectCategories returns the categories of a project with names for
// one language.
func (q *Queries) ListProjectCategories(ctx context.Context, projectID int64, lang model.Language) ([]model.CategoryView, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT c.id, c.slug, c.position, c.created_at, COALESCE(n.name, '')
		FROM project_categories pc
		JOIN categories c ON c.id = pc.category_id
		LEFT JOIN category_names n ON n.category_id = c.id AND n.language = ?
		WHERE pc.project_id = ?
		ORDER BY c.position ASC, c.slug ASC`, string(lang), projectID)
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

// ProjectContentUpdate carries localized text and an optional highlight list
// for one language.
type ProjectContentUpdate struct {
	Language   model.Language
	Content    *UpsertProjectContentParams
	Highlights *[]string // nil leaves the list untouched
}

// CreateProjectFull creates a project with content, category links and
// highlights in one transaction.
func (s *Store) CreateProjectFull(ctx context.Context, scalars CreateProjectParams, updates []ProjectContentUpdate, categoryIDs []int64) (model.Project, error) {
	var project model.Project
	err := s.execTx(ctx, func(q *Queries) error {
		var err error
		project, err = q.CreateProject(ctx, scalars)
		if err != nil {
			return err
		}
		if err := applyProjectContent(ctx, q, project.ID, updates); err != nil {
			return err
		}
		if len(categoryIDs) > 0 {
			if err := q.ReplaceProjectCategories(ctx, project.ID, categoryIDs); err != nil {
				return err
			}
		}
		return nil
	})
	return project, err
}

// UpdateProjectFull applies scalar changes, content upserts, highlight
// replacement and category replacement in one transaction, then returns the
// project row. A nil categoryIDs leaves the links untouched.
func (s *Store) UpdateProjectFull(ctx context.Context, scalars UpdateProjectParams, updates []ProjectContentUpdate, categoryIDs *[]int64) (model.Project, error) {
	var project model.Project
	err := s.execTx(ctx, func(q *Queries) error {
		if _, err := q.GetProjectByID(ctx, scalars.ID); err != nil {
			return err
		}
		if err := q.UpdateProject(ctx, scalars); err != nil {
			return err
		}
		if err := applyProjectContent(ctx, q, scalars.ID, updates); err != nil {
			return err
		}
		if categoryIDs != nil {
			if err := q.ReplaceProjectCategories(ctx, scalars.ID, *categoryIDs); err != nil {
				return err
			}
		}
		var err error
		project, err = q.GetProjectByID(ctx, scalars.ID)
		return err
	})
	return project, err
}

func applyProjectContent(ctx context.Context, q *Queries, projectID int64, updates []ProjectContentUpdate) error {
	for _, u := range updates {
		if u.Content != nil {
			u.Content.ProjectID = projectID
			u.Content.Language = u.Language
			if err := q.UpsertProjectContent(ctx, *u.Content); err != nil {
				return err
			}
		}
		if u.Highlights != nil {
			if err := q.ReplaceProjectHighlights(ctx, projectID, u.Language, *u.Highlights); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReorderProjects applies new positions inside a single transaction.
func (s *Store) ReorderProjects(ctx context.Context, updates []PositionUpdate) error {
	return s.execTx(ctx, func(q *Queries) error {
		for _, u := range updates {
			res, err := q.db.ExecContext(ctx,
				"UPDATE projects SET position = ?, updated_at = ? WHERE id = ?",
				u.Position, time.Now().UTC(), u.ID)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("project %d: %w", u.ID, ErrForeignRow)
			}
		}
		return nil
	})
}

// GetProjectView assembles the full projection of a project for one language.
func (q *Queries) GetProjectView(ctx context.Context, project model.Project, lang model.Language) (model.ProjectView, error) {
	view := model.ProjectView{Project: project}

	content, err := q.GetProjectContent(ctx, project.ID, lang)
	switch {
	case err == nil:
		view.Content = &content
	case !errors.Is(err, sql.ErrNoRows):
		return view, err
	}

	if view.Gallery, err = q.ListGallery(ctx, project.ID); err != nil {
		return view, err
	}
	if view.Highlights, err = q.ListProjectHighlights(ctx, project.ID, lang); err != nil {
		return view, err
	}
	if view.Categories, err = q.ListProjectCategories(ctx, project.ID, lang); err != nil {
		return view, err
	}
	return view, nil
}

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

const pageColumns = "id, slug, template, position, active, created_at, updated_at"

func scanPage(row interface{ Scan(...any) error }) (model.Page, error) {
	var p model.Page
	err := row.Scan(&p.ID, &p.Slug, &p.Template, &p.Position, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// CreatePageParams holds fields for a new page.
type CreatePageParams struct {
	Slug     string
	Template string
	Position int64
	Active   bool
}

// CreatePage inserts a page row.
func (q *Queries) CreatePage(ctx context.Context, p CreatePageParams) (model.Page, error) {
	now := time.Now().UTC()
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO pages (slug, template, position, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING `+pageColumns, p.Slug, p.Template, p.Position, p.Active, now, now)
	return scanPage(row)
}

// GetPageByID returns one page.
func (q *Queries) GetPageByID(ctx context.Context, id int64) (model.Page, error) {
	row := q.db.QueryRowContext(ctx, "SELECT "+pageColumns+" FROM pages WHERE id = ?", id)
	return scanPage(row)
}

// GetPageBySlug returns one page by slug.
func (q *Queries) GetPageBySlug(ctx context.Context, slug string) (model.Page, error) {
	row := q.db.QueryRowContext(ctx, "SELECT "+pageColumns+" FROM pages WHERE slug = ?", slug)
	return scanPage(row)
}

// ListPages returns all pages in display order. When activeOnly is set,
// inactive pages are excluded.
func (q *Queries) ListPages(ctx context.Context, activeOnly bool) ([]model.Page, error) {
	query := "SELECT " + pageColumns + " FROM pages"
	if activeOnly {
		query += " WHERE active = 1"
	}
	query += " ORDER BY position ASC, slug ASC"
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []model.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// UpdatePageParams holds optional scalar fields for a page update.
type UpdatePageParams struct {
	ID       int64
	Template *string
	Position *int64
	Active   *bool
}

// UpdatePage applies the provided scalar fields.
func (q *Queries) UpdatePage(ctx context.Context, p UpdatePageParams) error {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}
	if p.Template != nil {
		sets = append(sets, "template = ?")
		args = append(args, *p.Template)
	}
	if p.Position != nil {
		sets = append(sets, "position = ?")
		args = append(args, *p.Position)
	}
	if p.Active != nil {
		sets = append(sets, "active = ?")
		args = append(args, *p.Active)
	}
	args = append(args, p.ID)
	_, err := q.db.ExecContext(ctx,
		"UPDATE pages SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	return err
}

// UpsertPageContentParams holds optional localized page text.
type UpsertPageContentParams struct {
	PageID      int64
	Language    model.Language
	Title       *string
	Description *string
}

// UpsertPageContent writes localized page text, keeping unspecified fields.
func (q *Queries) UpsertPageContent(ctx context.Context, p UpsertPageContentParams) error {
	var fields []contentField
	fields = setField(fields, "title", p.Title)
	fields = setField(fields, "description", p.Description)
	return q.upsertLocalized(ctx, "page_contents", "page_id", p.PageID, p.Language, fields)
}

// GetPageContent returns the page text for one language.
func (q *Queries) GetPageContent(ctx context.Context, pageID int64, lang model.Language) (model.PageContent, error) {
	var pc model.PageContent
	err := q.db.QueryRowContext(ctx, `
		SELECT id, page_id, language, title, description
		FROM page_contents WHERE page_id = ? AND language = ?`,
		pageID, string(lang)).
		Scan(&pc.ID, &pc.PageID, &pc.Language, &pc.Title, &pc.Description)
	return pc, err
}

// UpsertPageSEOParams holds optional localized SEO metadata.
type UpsertPageSEOParams struct {
	PageID          int64
	Language        model.Language
	MetaTitle       *string
	MetaDescription *string
	Keywords        *string
	OGImage         *string
}

// UpsertPageSEO writes localized SEO metadata, keeping unspecified fields.
func (q *Queries) UpsertPageSEO(ctx context.Context, p UpsertPageSEOParams) error {
	var fields []contentField
	fields = setField(fields, "meta_title", p.MetaTitle)
	fields = setField(fields, "meta_description", p.MetaDescription)
	fields = setField(fields, "keywords", p.Keywords)
	fields = setField(fields, "og_image", p.OGImage)
	return q.upsertLocalized(ctx, "page_seo", "page_id", p.PageID, p.Language, fields)
}

// GetPageSEO returns the SEO metadata for one language.
func (q *Queries) GetPageSEO(ctx context.Context, pageID int64, lang model.Language) (model.PageSEO, error) {
	var seo model.PageSEO
	err := q.db.QueryRowContext(ctx, `
		SELECT id, page_id, language, meta_title, meta_description, keywords, og_image
		FROM page_seo WHERE page_id = ? AND language = ?`,
		pageID, string(lang)).
		Scan(&seo.ID, &seo.PageID, &seo.Language, &seo.MetaTitle, &seo.MetaDescription,
			&seo.Keywords, &seo.OGImage)
	return seo, err
}

const sectionColumns = "id, page_id, name, type, position, visible, settings, created_at, updated_at"

func scanSection(row interface{ Scan(...any) error }) (model.PageSection, error) {
	var s model.PageSection
	err := row.Scan(&s.ID, &s.PageID, &s.Name, &s.Type, &s.Position, &s.Visible,
		&s.Settings, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// CreateSectionParams holds fields for a new page section.
type CreateSectionParams struct {
	PageID   int64
	Name     string
	Type     string
	Position int64
	Visible  bool
	Settings string
}

// CreateSection inserts a page section.
func (q *Queries) CreateSection(ctx context.Context, p CreateSectionParams) (model.PageSection, error) {
	if p.Settings == "" {
		p.Settings = "{}"
	}
	now := time.Now().UTC()
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO page_sections (page_id, name, type, position, visible, settings, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+sectionColumns,
		p.PageID, p.Name, p.Type, p.Position, p.Visible, p.Settings, now, now)
	return scanSection(row)
}

// GetSectionByID returns one section.
func (q *Queries) GetSectionByID(ctx context.Context, id int64) (model.PageSection, error) {
	row := q.db.QueryRowContext(ctx, "SELECT "+sectionColumns+" FROM page_sections WHERE id = ?", id)
	return scanSection(row)
}

// ListSections returns the sections of a page ordered by position.
// When visibleOnly is set, hidden sections are excluded.
func (q *Queries) ListSections(ctx context.Context, pageID int64, visibleOnly bool) ([]model.PageSection, error) {
	query := "SELECT " + sectionColumns + " FROM page_sections WHERE page_id = ?"
	if visibleOnly {
		query += " AND visible = 1"
	}
	query += " ORDER BY position ASC, id ASC"

	rows, err := q.db.QueryContext(ctx, query, pageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []model.PageSection
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

// UpdateSectionParams holds optional scalar fields for a section update.
type UpdateSectionParams struct {
	ID       int64
	Name     *string
	Type     *string
	Position *int64
	Visible  *bool
	Settings *string
}

// UpdateSection applies the provided scalar fields.
func (q *Queries) UpdateSection(ctx context.Context, p UpdateSectionParams) error {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}
	if p.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *p.Name)
	}
	if p.Type != nil {
		sets = append(sets, "type = ?")
		args = append(args, *p.Type)
	}
	if p.Position != nil {
		sets = append(sets, "position = ?")
		args = append(args, *p.Position)
	}
	if p.Visible != nil {
		sets = append(sets, "visible = ?")
		args = append(args, *p.Visible)
	}
	if p.Settings != nil {
		sets = append(sets, "settings = ?")
		args = append(args, *p.Settings)
	}
	args = append(args, p.ID)
	_, err := q.db.ExecContext(ctx,
		"UPDATE page_sections SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	return err
}

// DeleteSection removes a section; its content rows cascade.
func (q *Queries) DeleteSection(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM page_sections WHERE id = ?", id)
	return err
}

// UpsertSectionContentParams holds optional localized section content.
type UpsertSectionContentParams struct {
	SectionID int64
	Language  model.Language
	Title     *string
	Subtitle  *string
	Content   *string
	MediaURLs *string
	Data      *string
}

// UpsertSectionContent writes localized section content, keeping
// unspecified fields.
func (q *Queries) UpsertSectionContent(ctx context.Context, p UpsertSectionContentParams) error {
	var fields []contentField
	fields = setField(fields, "title", p.Title)
	fields = setField(fields, "subtitle", p.Subtitle)
	fields = setField(fields, "content", p.Content)
	fields = setField(fields, "media_urls", p.MediaURLs)
	fields = setField(fields, "data", p.Data)
	return q.upsertLocalized(ctx, "section_contents", "section_id", p.SectionID, p.Language, fields)
}

// GetSectionContent returns the section content for one language.
func (q *Queries) GetSectionContent(ctx context.Context, sectionID int64, lang model.Language) (model.SectionContent, error) {
	var sc model.SectionContent
	err := q.db.QueryRowContext(ctx, `
		SELECT id, section_id, language, title, subtitle, content, media_urls, data
		FROM section_contents WHERE section_id = ? AND language = ?`,
		sectionID, string(lang)).
		Scan(&sc.ID, &sc.SectionID, &sc.Language, &sc.Title, &sc.Subtitle,
			&sc.Content, &sc.MediaURLs, &sc.Data)
	return sc, err
}

// PositionUpdate pairs an id with its new position in a reorder request.
type PositionUpdate struct {
	ID       int64 `json:"id"`
	Position int64 `json:"position"`
}

// ErrForeignRow is returned when a reorder names a row that does not belong
// to the parent entity.
var ErrForeignRow = errors.New("row does not belong to parent")

// ReorderSections applies new positions to the sections of one page inside a
// single transaction. Every id must belong to the page.
func (s *Store) ReorderSections(ctx context.Context, pageID int64, updates []PositionUpdate) error {
	return s.execTx(ctx, func(q *Queries) error {
		for _, u := range updates {
			res, err := q.db.ExecContext(ctx, `
				UPDATE page_sections SET position = ?, updated_at = ?
				WHERE id = ? AND page_id = ?`,
				u.Position, time.Now().UTC(), u.ID, pageID)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("section %d: %w", u.ID, ErrForeignRow)
			}
		}
		return nil
	})
}

// ContentUpdate carries localized page text and SEO for one language.
type ContentUpdate struct {
	Content *UpsertPageContentParams
	SEO     *UpsertPageSEOParams
}

// CreatePageFull creates a page plus content and SEO rows for any number of
// languages in one transaction.
func (s *Store) CreatePageFull(ctx context.Context, scalars CreatePageParams, updates []ContentUpdate) (model.Page, error) {
	var page model.Page
	err := s.execTx(ctx, func(q *Queries) error {
		var err error
		page, err = q.CreatePage(ctx, scalars)
		if err != nil {
			return err
		}
		for _, u := range updates {
			if u.Content != nil {
				u.Content.PageID = page.ID
				if err := q.UpsertPageContent(ctx, *u.Content); err != nil {
					return err
				}
			}
			if u.SEO != nil {
				u.SEO.PageID = page.ID
				if err := q.UpsertPageSEO(ctx, *u.SEO); err != nil {
					return err
				}
			}
		}
		return nil
	})
	return page, err
}

// UpdatePageFull applies scalar changes plus content and SEO upserts for any
// number of languages in one transaction, then returns the page row.
func (s *Store) UpdatePageFull(ctx context.Context, scalars UpdatePageParams, updates []ContentUpdate) (model.Page, error) {
	var page model.Page
	err := s.execTx(ctx, func(q *Queries) error {
		if _, err := q.GetPageByID(ctx, scalars.ID); err != nil {
			return err
		}
		if err := q.UpdatePage(ctx, scalars); err != nil {
			return err
		}
		for _, u := range updates {
			if u.Content != nil {
				if err := q.UpsertPageContent(ctx, *u.Content); err != nil {
					return err
				}
			}
			if u.SEO != nil {
				if err := q.UpsertPageSEO(ctx, *u.SEO); err != nil {
					return err
				}
			}
		}
		var err error
		page, err = q.GetPageByID(ctx, scalars.ID)
		return err
	})
	return page, err
}

// GetPageView assembles the full public projection of a page for one
// language: content, SEO and sections with their localized payloads.
func (q *Queries) GetPageView(ctx context.Context, page model.Page, lang model.Language, visibleOnly bool) (model.PageView, error) {
	view := model.PageView{Page: page, Sections: []model.SectionView{}}

	content, err := q.GetPageContent(ctx, page.ID, lang)
	switch {
	case err == nil:
		view.Content = &content
	case !errors.Is(err, sql.ErrNoRows):
		return view, err
	}

	seo, err := q.GetPageSEO(ctx, page.ID, lang)
	switch {
	case err == nil:
		view.SEO = &seo
	case !errors.Is(err, sql.ErrNoRows):
		return view, err
	}

	sections, err := q.ListSections(ctx, page.ID, visibleOnly)
	if err != nil {
		return view, err
	}
	for _, sec := range sections {
		sv := model.SectionView{PageSection: sec}
		sc, err := q.GetSectionContent(ctx, sec.ID, lang)
		switch {
		case err == nil:
			sv.Content = &sc
		case !errors.Is(err, sql.ErrNoRows):
			return view, err
		}
		view.Sections = append(view.Sections, sv)
	}
	return view, nil
}

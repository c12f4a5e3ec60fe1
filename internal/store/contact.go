// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/olegiv/yapicms/internal/model"
)

// GetContactInfo returns the contact block for one language.
func (q *Queries) GetContactInfo(ctx context.Context, lang model.Language) (model.ContactInfo, error) {
	var ci model.ContactInfo
	err := q.db.QueryRowContext(ctx, `
		SELECT id, language, address, phone, fax, email, working_hours, map_embed
		FROM contact_info WHERE language = ?`, string(lang)).
		Scan(&ci.ID, &ci.Language, &ci.Address, &ci.Phone, &ci.Fax, &ci.Email,
			&ci.WorkingHours, &ci.MapEmbed)
	return ci, err
}

// UpsertContactInfoParams holds optional contact fields for one language.
// Nil fields keep their stored values.
type UpsertContactInfoParams struct {
	Language     model.Language
	Address      *string
	Phone        *string
	Fax          *string
	Email        *string
	WorkingHours *string
	MapEmbed     *string
}

// UpsertContactInfo writes the contact block for one language in a single
// statement, creating the row when missing.
func (q *Queries) UpsertContactInfo(ctx context.Context, p UpsertContactInfoParams) error {
	var fields []contentField
	fields = setField(fields, "address", p.Address)
	fields = setField(fields, "phone", p.Phone)
	fields = setField(fields, "fax", p.Fax)
	fields = setField(fields, "email", p.Email)
	fields = setField(fields, "working_hours", p.WorkingHours)
	fields = setField(fields, "map_embed", p.MapEmbed)

	cols := []string{"language"}
	args := []any{string(p.Language)}
	for _, f := range fields {
		cols = append(cols, f.column)
		args = append(args, f.value)
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO contact_info (")
	sb.WriteString(strings.Join(cols, ", "))
	sb.WriteString(") VALUES (")
	sb.WriteString(placeholders(len(cols)))
	sb.WriteString(") ON CONFLICT(language) DO ")
	if len(fields) == 0 {
		sb.WriteString("NOTHING")
	} else {
		sb.WriteString("UPDATE SET ")
		for i, f := range fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(f.column)
			sb.WriteString(" = excluded.")
			sb.WriteString(f.column)
		}
	}

	if _, err := q.db.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("upserting contact info for %s: %w", p.Language, err)
	}
	return nil
}

// CreateSubmissionParams holds fields for a contact form submission.
type CreateSubmissionParams struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
	Country string
}

// CreateSubmission stores a contact form submission.
func (q *Queries) CreateSubmission(ctx context.Context, p CreateSubmissionParams) (model.ContactSubmission, error) {
	var s model.ContactSubmission
	err := q.db.QueryRowContext(ctx, `
		INSERT INTO contact_submissions (name, email, phone, subject, message, country, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id, name, email, phone, subject, message, country, read, archived, created_at`,
		p.Name, p.Email, p.Phone, p.Subject, p.Message, p.Country, time.Now().UTC()).
		Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.Subject, &s.Message, &s.Country,
			&s.Read, &s.Archived, &s.CreatedAt)
	return s, err
}

// GetSubmission returns one submission.
func (q *Queries) GetSubmission(ctx context.Context, id int64) (model.ContactSubmission, error) {
	var s model.ContactSubmission
	err := q.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, subject, message, country, read, archived, created_at
		FROM contact_submissions WHERE id = ?`, id).
		Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.Subject, &s.Message, &s.Country,
			&s.Read, &s.Archived, &s.CreatedAt)
	return s, err
}

// ListSubmissionsParams filters the submissions listing.
type ListSubmissionsParams struct {
	Archived *bool
	Limit    int64
	Offset   int64
}

// ListSubmissions returns submissions, newest first.
func (q *Queries) ListSubmissions(ctx context.Context, p ListSubmissionsParams) ([]model.ContactSubmission, error) {
	query := `SELECT id, name, email, phone, subject, message, country, read, archived, created_at
		FROM contact_submissions`
	args := []any{}
	if p.Archived != nil {
		query += " WHERE archived = ?"
		args = append(args, *p.Archived)
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, p.Limit, p.Offset)

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.ContactSubmission
	for rows.Next() {
		var s model.ContactSubmission
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.Subject, &s.Message,
			&s.Country, &s.Read, &s.Archived, &s.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

// CountSubmissions returns the number of submissions matching the filter.
func (q *Queries) CountSubmissions(ctx context.Context, archived *bool) (int64, error) {
	var n int64
	var err error
	if archived == nil {
		err = q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM contact_submissions").Scan(&n)
	} else {
		err = q.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM contact_submissions WHERE archived = ?", *archived).Scan(&n)
	}
	return n, err
}

// MarkSubmissionRead flags a submission as read.
func (q *Queries) MarkSubmissionRead(ctx context.Context, id int64) (model.ContactSubmission, error) {
	_, err := q.db.ExecContext(ctx, "UPDATE contact_submissions SET read = 1 WHERE id = ?", id)
	if err != nil {
		return model.ContactSubmission{}, err
	}
	return q.GetSubmission(ctx, id)
}

// ArchiveSubmission flags a submission as archived.
func (q *Queries) ArchiveSubmission(ctx context.Context, id int64) (model.ContactSubmission, error) {
	_, err := q.db.ExecContext(ctx, "UPDATE contact_submissions SET archived = 1 WHERE id = ?", id)
	if err != nil {
		return model.ContactSubmission{}, err
	}
	return q.GetSubmission(ctx, id)
}

// DeleteSubmission removes a submission.
func (q *Queries) DeleteSubmission(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM contact_submissions WHERE id = ?", id)
	return err
}

// DeleteArchivedSubmissionsBefore purges archived submissions older than
// cutoff and returns the number deleted.
func (q *Queries) DeleteArchivedSubmissionsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		"DELETE FROM contact_submissions WHERE archived = 1 AND created_at < ?", cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

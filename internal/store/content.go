// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/olegiv/yapicms/internal/model"
)

// contentField is one column/value pair explicitly provided by a caller.
// Columns absent from the set keep their stored values on conflict.
type contentField struct {
	column string
	value  any
}

// setField appends a column/value pair when the caller supplied the value.
func setField(fields []contentField, column string, value *string) []contentField {
	if value == nil {
		return fields
	}
	return append(fields, contentField{column: column, value: *value})
}

// upsertLocalized writes one localized content row keyed by (owner, language)
// as a single statement. Provided columns overwrite, everything else is kept,
// so concurrent writers converge on last-write-wins per column set.
//
// table and ownerCol are compile-time constants in the per-entity files,
// never user input.
func (q *Queries) upsertLocalized(ctx context.Context, table, ownerCol string, ownerID int64, lang model.Language, fields []contentField) error {
	cols := []string{ownerCol, "language"}
	args := []any{ownerID, string(lang)}
	for _, f := range fields {
		cols = append(cols, f.column)
		args = append(args, f.value)
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(table)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(cols, ", "))
	sb.WriteString(") VALUES (")
	sb.WriteString(placeholders(len(cols)))
	sb.WriteString(") ON CONFLICT(")
	sb.WriteString(ownerCol)
	sb.WriteString(", language) DO ")

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
		return fmt.Errorf("upserting %s for %s %d lang %s: %w", table, ownerCol, ownerID, lang, err)
	}
	return nil
}

// placeholders returns n comma-separated "?" markers.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

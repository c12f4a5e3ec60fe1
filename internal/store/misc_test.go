// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/olegiv/yapicms/internal/model"
)

func TestUpsertSetting(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.UpsertSetting(ctx, "site_name", "Yapı A.Ş.")
	require.NoError(t, err)
	require.Equal(t, "Yapı A.Ş.", first.Value)

	second, err := s.UpsertSetting(ctx, "site_name", "Yapı Holding")
	require.NoError(t, err)
	require.Equal(t, "Yapı Holding", second.Value)
	require.Equal(t, first.ID, second.ID, "upsert must not duplicate the row")

	got, err := s.ListSettingsByKeys(ctx, []string{"site_name", "missing_key"})
	require.NoError(t, err)
	require.Equal(t, map[string]string{"site_name": "Yapı Holding"}, got)
}

func TestSubmissionLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sub, err := s.CreateSubmission(ctx, CreateSubmissionParams{
		Name:    "Ali Veli",
		Email:   "ali@example.com",
		Message: "Teklif almak istiyorum",
		Country: "TR",
	})
	require.NoError(t, err)
	require.False(t, sub.Read)
	require.False(t, sub.Archived)

	read, err := s.MarkSubmissionRead(ctx, sub.ID)
	require.NoError(t, err)
	require.True(t, read.Read)

	archived, err := s.ArchiveSubmission(ctx, sub.ID)
	require.NoError(t, err)
	require.True(t, archived.Archived)

	// Filter by archived flag.
	flag := true
	list, err := s.ListSubmissions(ctx, ListSubmissionsParams{Archived: &flag, Limit: 10})
	require.NoError(t, err)
	require.Len(t, list, 1)

	flag = false
	list, err = s.ListSubmissions(ctx, ListSubmissionsParams{Archived: &flag, Limit: 10})
	require.NoError(t, err)
	require.Empty(t, list)

	require.NoError(t, s.DeleteSubmission(ctx, sub.ID))
	_, err = s.GetSubmission(ctx, sub.ID)
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestMarkSubmissionReadMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.MarkSubmissionRead(context.Background(), 404)
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestDeleteArchivedSubmissionsBefore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	old, err := s.CreateSubmission(ctx, CreateSubmissionParams{
		Name: "Eski", Email: "e@example.com", Message: "eski mesaj",
	})
	require.NoError(t, err)
	_, err = s.ArchiveSubmission(ctx, old.ID)
	require.NoError(t, err)

	fresh, err := s.CreateSubmission(ctx, CreateSubmissionParams{
		Name: "Yeni", Email: "y@example.com", Message: "yeni mesaj",
	})
	require.NoError(t, err)

	// Everything is newer than a cutoff in the past: nothing purged.
	n, err := s.DeleteArchivedSubmissionsBefore(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 0, n)

	// Cutoff in the future purges the archived row but not the fresh one.
	n, err = s.DeleteArchivedSubmissionsBefore(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	_, err = s.GetSubmission(ctx, fresh.ID)
	require.NoError(t, err)
}

func TestEventsListAndPrune(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateEvent(ctx, CreateEventParams{
		Level: model.EventLevelError, Category: model.EventCategorySystem, Message: "disk full",
	})
	require.NoError(t, err)
	_, err = s.CreateEvent(ctx, CreateEventParams{
		Level: model.EventLevelInfo, Category: model.EventCategoryAuth, Message: "login ok",
	})
	require.NoError(t, err)

	all, err := s.ListEvents(ctx, ListEventsParams{Limit: 10})
	require.NoError(t, err)
	require.Len(t, all, 2)

	errsOnly, err := s.ListEvents(ctx, ListEventsParams{Level: model.EventLevelError, Limit: 10})
	require.NoError(t, err)
	require.Len(t, errsOnly, 1)
	require.Equal(t, "disk full", errsOnly[0].Message)

	n, err := s.DeleteEventsBefore(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 2, n)
}

func TestCategoriesWithCounts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cat, err := s.CreateCategoryWithNames(ctx, "altyapi", 0, map[model.Language]string{
		model.LangTurkish: "Altyapı",
		model.LangEnglish: "Infrastructure",
	})
	require.NoError(t, err)

	proj, err := s.CreateProject(ctx, CreateProjectParams{Slug: "metro", Status: model.ProjectOngoing})
	require.NoError(t, err)
	require.NoError(t, s.ReplaceProjectCategories(ctx, proj.ID, []int64{cat.ID}))

	got, err := s.ListCategoriesWithCounts(ctx, model.LangEnglish)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Infrastructure", got[0].Name)
	require.EqualValues(t, 1, got[0].ProjectCount)

	// Arabic has no name row; the view carries an empty name, never another
	// language's text.
	ar, err := s.ListCategories(ctx, model.LangArabic)
	require.NoError(t, err)
	require.Equal(t, "", ar[0].Name)
}

func TestUpdateUserPartial(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, CreateUserParams{
		Email: "editor@example.com", PasswordHash: "h", Name: "Editör", Role: model.RoleEditor, Active: true,
	})
	require.NoError(t, err)

	inactive := false
	got, err := s.UpdateUser(ctx, UpdateUserParams{ID: u.ID, Active: &inactive})
	require.NoError(t, err)
	require.False(t, got.Active)
	require.Equal(t, "Editör", got.Name, "unspecified fields untouched")
	require.Equal(t, model.RoleEditor, got.Role)
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/olegiv/yapicms/internal/model"
)

func TestProjectListingOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mk := func(slug string, featured bool, position int64) model.Project {
		p, err := s.CreateProject(ctx, CreateProjectParams{
			Slug: slug, Status: model.ProjectOngoing, Featured: featured, Position: position,
		})
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond) // distinct created_at
		return p
	}

	mk("plain-late", false, 5)
	mk("featured-second", true, 2)
	mk("featured-first", true, 1)
	mk("plain-early", false, 3)

	got, err := s.ListProjects(ctx, ListProjectsParams{Limit: 10})
	require.NoError(t, err)

	var slugs []string
	for _, p := range got {
		slugs = append(slugs, p.Slug)
	}
	// Featured first, then position ascending.
	require.Equal(t, []string{"featured-first", "featured-second", "plain-early", "plain-late"}, slugs)
}

func TestProjectFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ongoing, err := s.CreateProject(ctx, CreateProjectParams{Slug: "tower", Status: model.ProjectOngoing})
	require.NoError(t, err)
	_, err = s.CreateProject(ctx, CreateProjectParams{Slug: "bridge", Status: model.ProjectCompleted})
	require.NoError(t, err)

	cat, err := s.CreateCategoryWithNames(ctx, "residential", 0, map[model.Language]string{
		model.LangTurkish: "Konut",
	})
	require.NoError(t, err)
	require.NoError(t, s.ReplaceProjectCategories(ctx, ongoing.ID, []int64{cat.ID}))

	byStatus, err := s.ListProjects(ctx, ListProjectsParams{Status: model.ProjectCompleted, Limit: 10})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	require.Equal(t, "bridge", byStatus[0].Slug)

	byCat, err := s.ListProjects(ctx, ListProjectsParams{CategorySlug: "residential", Limit: 10})
	require.NoError(t, err)
	require.Len(t, byCat, 1)
	require.Equal(t, "tower", byCat[0].Slug)

	n, err := s.CountProjects(ctx, ListProjectsParams{CategorySlug: "residential"})
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestUpdateProjectFullReplacesCategories(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	proj, err := s.CreateProject(ctx, CreateProjectParams{Slug: "plaza", Status: model.ProjectPlanned})
	require.NoError(t, err)

	catA, err := s.CreateCategoryWithNames(ctx, "cat-a", 0, nil)
	require.NoError(t, err)
	catB, err := s.CreateCategoryWithNames(ctx, "cat-b", 0, nil)
	require.NoError(t, err)
	catC, err := s.CreateCategoryWithNames(ctx, "cat-c", 0, nil)
	require.NoError(t, err)

	require.NoError(t, s.ReplaceProjectCategories(ctx, proj.ID, []int64{catA.ID, catB.ID}))

	// Full update with a new category list replaces, not appends.
	newList := []int64{catC.ID}
	_, err = s.UpdateProjectFull(ctx, UpdateProjectParams{ID: proj.ID}, nil, &newList)
	require.NoError(t, err)

	cats, err := s.ListProjectCategories(ctx, proj.ID, model.LangTurkish)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	require.Equal(t, "cat-c", cats[0].Slug)

	// Nil list leaves links untouched.
	_, err = s.UpdateProjectFull(ctx, UpdateProjectParams{ID: proj.ID}, nil, nil)
	require.NoError(t, err)
	cats, err = s.ListProjectCategories(ctx, proj.ID, model.LangTurkish)
	require.NoError(t, err)
	require.Len(t, cats, 1)
}

func TestUpdateProjectFullContentAndHighlights(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	proj, err := s.CreateProject(ctx, CreateProjectParams{Slug: "kule", Status: model.ProjectOngoing})
	require.NoError(t, err)

	highlights := []string{"35 kat", "120 daire"}
	_, err = s.UpdateProjectFull(ctx, UpdateProjectParams{ID: proj.ID}, []ProjectContentUpdate{{
		Language:   model.LangTurkish,
		Content:    &UpsertProjectContentParams{Title: strPtr("Test Kule"), Summary: strPtr("Özet")},
		Highlights: &highlights,
	}}, nil)
	require.NoError(t, err)

	// Replace the highlight list; positions must follow the new order.
	replaced := []string{"Yeni madde"}
	_, err = s.UpdateProjectFull(ctx, UpdateProjectParams{ID: proj.ID}, []ProjectContentUpdate{{
		Language:   model.LangTurkish,
		Highlights: &replaced,
	}}, nil)
	require.NoError(t, err)

	got, err := s.ListProjectHighlights(ctx, proj.ID, model.LangTurkish)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Yeni madde", got[0].Text)
	require.EqualValues(t, 0, got[0].Position)

	// Content survived the highlight-only update.
	pc, err := s.GetProjectContent(ctx, proj.ID, model.LangTurkish)
	require.NoError(t, err)
	require.Equal(t, "Test Kule", pc.Title)
	require.Equal(t, "Özet", pc.Summary)
}

func TestUpdateProjectFullMissingProject(t *testing.T) {
	s := newTestStore(t)
	_, err := s.UpdateProjectFull(context.Background(), UpdateProjectParams{ID: 9999}, nil, nil)
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestReorderProjects(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, err := s.CreateProject(ctx, CreateProjectParams{Slug: "a", Status: model.ProjectOngoing, Position: 0})
	require.NoError(t, err)
	b, err := s.CreateProject(ctx, CreateProjectParams{Slug: "b", Status: model.ProjectOngoing, Position: 1})
	require.NoError(t, err)

	require.NoError(t, s.ReorderProjects(ctx, []PositionUpdate{
		{ID: a.ID, Position: 1},
		{ID: b.ID, Position: 0},
	}))

	got, err := s.ListProjects(ctx, ListProjectsParams{Limit: 10})
	require.NoError(t, err)
	require.Equal(t, "b", got[0].Slug)
	require.Equal(t, "a", got[1].Slug)
}

func TestReorderProjectsUnknownIDRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, err := s.CreateProject(ctx, CreateProjectParams{Slug: "a", Status: model.ProjectOngoing, Position: 0})
	require.NoError(t, err)

	err = s.ReorderProjects(ctx, []PositionUpdate{
		{ID: a.ID, Position: 7},
		{ID: 9999, Position: 0},
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrForeignRow))

	// The whole batch rolled back, position unchanged.
	got, err := s.GetProjectByID(ctx, a.ID)
	require.NoError(t, err)
	require.EqualValues(t, 0, got.Position)
}

func TestDeleteProjectCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	proj, err := s.CreateProject(ctx, CreateProjectParams{Slug: "silinecek", Status: model.ProjectOngoing})
	require.NoError(t, err)
	_, err = s.AddGalleryImage(ctx, proj.ID, "/uploads/x.jpg", "", 0)
	require.NoError(t, err)
	require.NoError(t, s.UpsertProjectContent(ctx, UpsertProjectContentParams{
		ProjectID: proj.ID, Language: model.LangTurkish, Title: strPtr("Silinecek"),
	}))

	require.NoError(t, s.DeleteProject(ctx, proj.ID))

	gallery, err := s.ListGallery(ctx, proj.ID)
	require.NoError(t, err)
	require.Empty(t, gallery)
	_, err = s.GetProjectContent(ctx, proj.ID, model.LangTurkish)
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestGetProjectView(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	proj, err := s.CreateProjectFull(ctx, CreateProjectParams{
		Slug: "rezidans", Status: model.ProjectCompleted, CoverImage: "/uploads/c.jpg",
	}, []ProjectContentUpdate{{
		Language: model.LangEnglish,
		Content:  &UpsertProjectContentParams{Title: strPtr("Modern Residence")},
	}}, nil)
	require.NoError(t, err)

	_, err = s.AddGalleryImage(ctx, proj.ID, "/uploads/1.jpg", "birinci", 1)
	require.NoError(t, err)
	_, err = s.AddGalleryImage(ctx, proj.ID, "/uploads/0.jpg", "sifirinci", 0)
	require.NoError(t, err)

	view, err := s.GetProjectView(ctx, proj, model.LangEnglish)
	require.NoError(t, err)
	require.NotNil(t, view.Content)
	require.Equal(t, "Modern Residence", view.Content.Title)
	require.Len(t, view.Gallery, 2)
	require.Equal(t, "/uploads/0.jpg", view.Gallery[0].URL, "gallery ordered by position")

	// No Turkish content: projection must come back empty, not English.
	trView, err := s.GetProjectView(ctx, proj, model.LangTurkish)
	require.NoError(t, err)
	require.Nil(t, trView.Content)
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/olegiv/yapicms/internal/model"
)

func TestServiceDefaultIcon(t *testing.T) {
	s := newTestStore(t)
	svc, err := s.CreateService(context.Background(), CreateServiceParams{Slug: "taahhut", Active: true})
	require.NoError(t, err)
	require.Equal(t, model.DefaultServiceIcon, svc.Icon)
}

func TestServiceFeaturesFullReplace(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	features := []string{"Anahtar teslim", "Proje yönetimi", "Denetim"}
	svc, err := s.CreateServiceFull(ctx, CreateServiceParams{Slug: "insaat", Active: true},
		[]ServiceContentUpdate{{
			Language: model.LangTurkish,
			Content:  &UpsertServiceContentParams{Title: strPtr("İnşaat")},
			Features: &features,
		}})
	require.NoError(t, err)

	got, err := s.ListServiceFeatures(ctx, svc.ID, model.LangTurkish)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, f := range got {
		require.EqualValues(t, i, f.Position, "position follows list index")
	}

	// Replacement: the new list fully supersedes the old one.
	newFeatures := []string{"Sadece bu"}
	_, err = s.UpdateServiceFull(ctx, UpdateServiceParams{ID: svc.ID}, []ServiceContentUpdate{{
		Language: model.LangTurkish,
		Features: &newFeatures,
	}})
	require.NoError(t, err)

	got, err = s.ListServiceFeatures(ctx, svc.ID, model.LangTurkish)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Sadece bu", got[0].Text)

	// Nil features leave the list alone; content upsert still applies.
	_, err = s.UpdateServiceFull(ctx, UpdateServiceParams{ID: svc.ID}, []ServiceContentUpdate{{
		Language: model.LangTurkish,
		Content:  &UpsertServiceContentParams{Description: strPtr("Açıklama")},
	}})
	require.NoError(t, err)

	got, err = s.ListServiceFeatures(ctx, svc.ID, model.LangTurkish)
	require.NoError(t, err)
	require.Len(t, got, 1)

	sc, err := s.GetServiceContent(ctx, svc.ID, model.LangTurkish)
	require.NoError(t, err)
	require.Equal(t, "İnşaat", sc.Title, "title survives description-only upsert")
	require.Equal(t, "Açıklama", sc.Description)
}

func TestServiceFeaturesPerLanguage(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	trFeatures := []string{"TR madde"}
	enFeatures := []string{"EN item one", "EN item two"}
	svc, err := s.CreateServiceFull(ctx, CreateServiceParams{Slug: "mimari", Active: true},
		[]ServiceContentUpdate{
			{Language: model.LangTurkish, Features: &trFeatures},
			{Language: model.LangEnglish, Features: &enFeatures},
		})
	require.NoError(t, err)

	tr, err := s.ListServiceFeatures(ctx, svc.ID, model.LangTurkish)
	require.NoError(t, err)
	require.Len(t, tr, 1)

	en, err := s.ListServiceFeatures(ctx, svc.ID, model.LangEnglish)
	require.NoError(t, err)
	require.Len(t, en, 2)

	// Replacing English features must not touch Turkish ones.
	empty := []string{}
	_, err = s.UpdateServiceFull(ctx, UpdateServiceParams{ID: svc.ID}, []ServiceContentUpdate{{
		Language: model.LangEnglish,
		Features: &empty,
	}})
	require.NoError(t, err)

	tr, err = s.ListServiceFeatures(ctx, svc.ID, model.LangTurkish)
	require.NoError(t, err)
	require.Len(t, tr, 1)
	en, err = s.ListServiceFeatures(ctx, svc.ID, model.LangEnglish)
	require.NoError(t, err)
	require.Empty(t, en)
}

func TestListServicesActiveOnly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateService(ctx, CreateServiceParams{Slug: "aktif", Active: true, Position: 1})
	require.NoError(t, err)
	_, err = s.CreateService(ctx, CreateServiceParams{Slug: "pasif", Active: false, Position: 0})
	require.NoError(t, err)

	public, err := s.ListServices(ctx, true)
	require.NoError(t, err)
	require.Len(t, public, 1)
	require.Equal(t, "aktif", public[0].Slug)

	all, err := s.ListServices(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "pasif", all[0].Slug, "ordered by position")
}

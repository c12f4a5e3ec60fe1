// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/olegiv/yapicms/internal/model"
)

func createTestService(t *testing.T, env *testEnv, token, title string) model.Service {
	t.Helper()

	features := []string{"Anahtar teslim", "Proje yönetimi"}
	w := env.request(t, http.MethodPost, "/api/services", token, createServiceRequest{
		Icon: "building",
		Content: map[string]localizedServiceContent{
			"tr": {Title: strPtr(title), Features: &features},
		},
	})
	assertStatusCode(t, w, http.StatusCreated)

	var svc model.Service
	decodeData(t, w, &svc)
	return svc
}

func TestCreateService(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.editor(t)

	svc := createTestService(t, env, token, "Konut İnşaatı")
	if svc.Slug != "konut-insaati" {
		t.Errorf("unexpected slug %q", svc.Slug)
	}

	// Duplicate title.
	w := env.request(t, http.MethodPost, "/api/services", token, createServiceRequest{
		Content: map[string]localizedServiceContent{"tr": {Title: strPtr("Konut İnşaatı")}},
	})
	assertStatusCode(t, w, http.StatusBadRequest)

	// Missing title.
	w = env.request(t, http.MethodPost, "/api/services", token, createServiceRequest{})
	assertStatusCode(t, w, http.StatusBadRequest)
	resp := assertErrorResponse(t, w, "validation_error")
	if _, ok := resp.Error.Details["content.tr.title"]; !ok {
		t.Errorf("expected a title error, got %v", resp.Error.Details)
	}
}

func TestGetService(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.editor(t)
	createTestService(t, env, token, "Altyapı İşleri")

	w := env.request(t, http.MethodGet, "/api/services/altyapi-isleri", "", nil)
	assertStatusCode(t, w, http.StatusOK)

	var view model.ServiceView
	decodeData(t, w, &view)
	if view.Content == nil || view.Content.Title != "Altyapı İşleri" {
		t.Errorf("unexpected content: %+v", view.Content)
	}
	if len(view.Features) != 2 {
		t.Errorf("expected 2 features, got %d", len(view.Features))
	}

	w = env.request(t, http.MethodGet, "/api/services/yok", "", nil)
	assertStatusCode(t, w, http.StatusNotFound)
}

func TestInactiveServiceHidden(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.editor(t)
	svc := createTestService(t, env, token, "Restorasyon")

	w := env.request(t, http.MethodPut, fmt.Sprintf("/api/services/%d", svc.ID), token,
		updateServiceRequest{Active: boolPtr(false)})
	assertStatusCode(t, w, http.StatusOK)

	w = env.request(t, http.MethodGet, "/api/services/restorasyon", "", nil)
	assertStatusCode(t, w, http.StatusNotFound)

	var views []model.ServiceView
	w = env.request(t, http.MethodGet, "/api/services", "", nil)
	decodeData(t, w, &views)
	if len(views) != 0 {
		t.Errorf("expected no active services, got %d", len(views))
	}

	w = env.request(t, http.MethodGet, "/api/services/admin", token, nil)
	decodeData(t, w, &views)
	if len(views) != 1 {
		t.Errorf("expected 1 service in admin listing, got %d", len(views))
	}
}

func TestUpdateServiceReplacesFeatures(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.editor(t)
	svc := createTestService(t, env, token, "Çelik Yapılar")

	features := []string{"tek özellik"}
	w := env.request(t, http.MethodPut, fmt.Sprintf("/api/services/%d", svc.ID), token,
		updateServiceRequest{Content: map[string]localizedServiceContent{
			"tr": {Features: &features},
		}})
	assertStatusCode(t, w, http.StatusOK)

	w = env.request(t, http.MethodGet, "/api/services/celik-yapilar", "", nil)
	var view model.ServiceView
	decodeData(t, w, &view)
	if len(view.Features) != 1 || view.Features[0].Text != "tek özellik" {
		t.Errorf("unexpected features: %+v", view.Features)
	}
	// Content left alone by the feature-only update.
	if view.Content == nil || view.Content.Title != "Çelik Yapılar" {
		t.Errorf("unexpected content: %+v", view.Content)
	}
}

func TestDeleteServiceAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	_, editorToken := env.editor(t)
	_, adminToken := env.admin(t)
	svc := createTestService(t, env, editorToken, "Silinecek Hizmet")
	target := fmt.Sprintf("/api/services/%d", svc.ID)

	w := env.request(t, http.MethodDelete, target, editorToken, nil)
	assertStatusCode(t, w, http.StatusForbidden)

	w = env.request(t, http.MethodDelete, target, adminToken, nil)
	assertStatusCode(t, w, http.StatusOK)

	w = env.request(t, http.MethodGet, "/api/services/silinecek-hizmet", "", nil)
	assertStatusCode(t, w, http.StatusNotFound)
}

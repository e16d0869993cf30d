package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vocabuilder/api/internal/model"
	"github.com/vocabuilder/api/internal/testutil"
)

type languagesBody struct {
	Success   bool             `json:"success"`
	Languages []model.Language `json:"languages"`
}

func TestLanguages_ActiveAndAll(t *testing.T) {
	s := newTestServer(t)
	_, userToken := s.user("alice")
	_, adminToken := s.admin("root")
	testutil.CreateLanguage(t, s.db, "en", "English")
	testutil.CreateLanguage(t, s.db, "de", "German")
	fr := testutil.CreateLanguage(t, s.db, "fr", "French")
	require.NoError(t, s.db.Model(fr).Update("is_active", false).Error)

	w := s.do(http.MethodGet, "/api/languages/active", userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var active languagesBody
	decode(t, w, &active)
	require.Len(t, active.Languages, 2)
	// ordered by name
	assert.Equal(t, "en", active.Languages[0].Code)
	assert.Equal(t, "de", active.Languages[1].Code)

	w = s.do(http.MethodGet, "/api/languages/all", userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Access denied, admin only", errorMessage(t, w))

	w = s.do(http.MethodGet, "/api/languages/all", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all languagesBody
	decode(t, w, &all)
	assert.Len(t, all.Languages, 3)
}

func TestLanguages_CreateRefreshesAcceptedCodes(t *testing.T) {
	s := newTestServer(t)
	admin, adminToken := s.admin("root")

	w := s.do(http.MethodPost, "/vocabs", adminToken, map[string]interface{}{
		"translations": map[string]string{"it": "cane"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	testutil.CreateLanguage(t, s.db, "en", "English")
	w = s.do(http.MethodPost, "/api/languages", adminToken, map[string]string{"code": " IT ", "name": "Italian", "flag": "it"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Language model.Language `json:"language"`
	}
	decode(t, w, &created)
	assert.Equal(t, "it", created.Language.Code)
	assert.True(t, created.Language.IsActive)
	assert.Equal(t, admin.ID, created.Language.AddedBy)

	w = s.do(http.MethodPost, "/vocabs", adminToken, map[string]interface{}{
		"translations": map[string]string{"it": "cane", "en": "dog"},
	})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// codes not in the reloaded registry are rejected again
	w = s.do(http.MethodPost, "/vocabs", adminToken, map[string]interface{}{
		"translations": map[string]string{"de": "Hund"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/languages", adminToken, map[string]string{"code": "it", "name": "Italiano"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Language already exists", errorMessage(t, w))

	w = s.do(http.MethodPost, "/api/languages", adminToken, map[string]string{"code": "pt"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLanguages_EnglishIsProtected(t *testing.T) {
	s := newTestServer(t)
	_, adminToken := s.admin("root")
	en := testutil.CreateLanguage(t, s.db, "en", "English")
	de := testutil.CreateLanguage(t, s.db, "de", "German")

	w := s.do(http.MethodPut, fmt.Sprintf("/api/languages/%d/status", en.ID), adminToken, map[string]bool{"isActive": false})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Cannot deactivate English language", errorMessage(t, w))

	w = s.do(http.MethodPut, fmt.Sprintf("/api/languages/%d", en.ID), adminToken, map[string]interface{}{"isActive": false})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Cannot deactivate English language", errorMessage(t, w))

	w = s.do(http.MethodDelete, fmt.Sprintf("/api/languages/%d", en.ID), adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Cannot delete English language", errorMessage(t, w))

	w = s.do(http.MethodPut, fmt.Sprintf("/api/languages/%d/status", de.ID), adminToken, map[string]bool{"isActive": false})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		Message  string         `json:"message"`
		Language model.Language `json:"language"`
	}
	decode(t, w, &body)
	assert.Equal(t, "Language deactivated successfully", body.Message)
	assert.False(t, body.Language.IsActive)

	w = s.do(http.MethodDelete, fmt.Sprintf("/api/languages/%d", de.ID), adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodDelete, fmt.Sprintf("/api/languages/%d", de.ID), adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Language not found", errorMessage(t, w))
}

func TestLanguages_UpdateRenames(t *testing.T) {
	s := newTestServer(t)
	_, adminToken := s.admin("root")
	de := testutil.CreateLanguage(t, s.db, "de", "German")

	w := s.do(http.MethodPut, fmt.Sprintf("/api/languages/%d", de.ID), adminToken, map[string]string{"name": "Deutsch"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Language model.Language `json:"language"`
	}
	decode(t, w, &body)
	assert.Equal(t, "Deutsch", body.Language.Name)
	assert.True(t, body.Language.IsActive)

	w = s.do(http.MethodPut, "/api/languages/abc", adminToken, map[string]string{"name": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vocabuilder/api/internal/auth"
	"github.com/vocabuilder/api/internal/cache"
	"github.com/vocabuilder/api/internal/middleware"
	"github.com/vocabuilder/api/internal/model"
	"github.com/vocabuilder/api/internal/store"
	"github.com/vocabuilder/api/internal/validator"
	"go.uber.org/zap"
)

type LanguageHandler struct {
	languages *store.LanguageStore
	cache     *cache.RedisCache
	codes     *validator.LanguageValidator
	log       *zap.Logger
}

func NewLanguageHandler(languages *store.LanguageStore, redisCache *cache.RedisCache, codes *validator.LanguageValidator, log *zap.Logger) *LanguageHandler {
	return &LanguageHandler{languages: languages, cache: redisCache, codes: codes, log: log}
}

type createLanguageRequest struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name" binding:"required"`
	Flag string `json:"flag"`
}

type updateLanguageRequest struct {
	Name     *string `json:"name"`
	Flag     *string `json:"flag"`
	IsActive *bool   `json:"isActive"`
}

type languageStatusRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// registryChanged drops the cached active list and reloads the code set.
func (h *LanguageHandler) registryChanged(c *gin.Context) {
	ctx := c.Request.Context()
	if h.cache != nil {
		if err := h.cache.Delete(ctx, cache.ActiveLanguagesKey); err != nil {
			h.log.Warn("failed to invalidate language cache", zap.Error(err))
		}
	}
	if _, err := h.codes.Load(ctx, h.languages); err != nil {
		h.log.Warn("failed to reload language codes", zap.Error(err))
	}
}

func (h *LanguageHandler) languageID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusNotFound, "Language not found")
		return 0, false
	}
	return id, true
}

// Active handles GET /api/languages/active
func (h *LanguageHandler) Active(c *gin.Context) {
	ctx := c.Request.Context()

	if h.cache != nil {
		var cached []model.Language
		hit, err := h.cache.GetJSON(ctx, cache.ActiveLanguagesKey, &cached)
		if err != nil {
			h.log.Warn("language cache read failed", zap.Error(err))
		}
		middleware.RecordCacheLookup(cache.ActiveLanguagesKey, hit)
		if hit {
			c.JSON(http.StatusOK, gin.H{"success": true, "languages": cached})
			return
		}
	}

	languages, err := h.languages.ListActive(ctx)
	if err != nil {
		respondInternal(c, h.log, "Error fetching languages", err)
		return
	}
	if languages == nil {
		languages = []model.Language{}
	}

	if h.cache != nil {
		if err := h.cache.SetJSON(ctx, cache.ActiveLanguagesKey, languages); err != nil {
			h.log.Warn("language cache write failed", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "languages": languages})
}

// All handles GET /api/languages/all
func (h *LanguageHandler) All(c *gin.Context) {
	languages, err := h.languages.ListAll(c.Request.Context())
	if err != nil {
		respondInternal(c, h.log, "Error fetching languages", err)
		return
	}
	if languages == nil {
		languages = []model.Language{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "languages": languages})
}

// Create handles POST /api/languages
func (h *LanguageHandler) Create(c *gin.Context) {
	session, _ := auth.CurrentSession(c)

	var req createLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Code and name are required")
		return
	}
	code := strings.ToLower(strings.TrimSpace(req.Code))
	if code == "" {
		respondError(c, http.StatusBadRequest, "Code and name are required")
		return
	}

	_, err := h.languages.FindByCode(c.Request.Context(), code)
	if err == nil {
		respondError(c, http.StatusBadRequest, "Language already exists")
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		respondInternal(c, h.log, "Error adding language", err)
		return
	}

	language := &model.Language{
		Code:     code,
		Name:     strings.TrimSpace(req.Name),
		Flag:     strings.TrimSpace(req.Flag),
		IsActive: true,
		AddedBy:  session.UserID(),
	}
	if err := h.languages.Create(c.Request.Context(), language); err != nil {
		respondInternal(c, h.log, "Error adding language", err)
		return
	}
	h.registryChanged(c)

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Language added successfully",
		"language": language,
	})
}

// Update handles PUT /api/languages/:id
func (h *LanguageHandler) Update(c *gin.Context) {
	id, ok := h.languageID(c)
	if !ok {
		return
	}

	var req updateLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid language data")
		return
	}

	if req.IsActive != nil && !*req.IsActive {
		if !h.checkDeactivatable(c, id) {
			return
		}
	}

	language, err := h.languages.Update(c.Request.Context(), id, req.Name, req.Flag, req.IsActive)
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Language not found")
		return
	}
	if err != nil {
		respondInternal(c, h.log, "Error updating language", err)
		return
	}
	h.registryChanged(c)

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Language updated successfully",
		"language": language,
	})
}

// UpdateStatus handles PUT /api/languages/:id/status
func (h *LanguageHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.languageID(c)
	if !ok {
		return
	}

	var req languageStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "isActive is required")
		return
	}
	if !*req.IsActive && !h.checkDeactivatable(c, id) {
		return
	}

	language, err := h.languages.Update(c.Request.Context(), id, nil, nil, req.IsActive)
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Language not found")
		return
	}
	if err != nil {
		respondInternal(c, h.log, "Error updating language", err)
		return
	}
	h.registryChanged(c)

	state := "deactivated"
	if *req.IsActive {
		state = "activated"
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  fmt.Sprintf("Language %s successfully", state),
		"language": language,
	})
}

// checkDeactivatable rejects deactivating the protected language.
func (h *LanguageHandler) checkDeactivatable(c *gin.Context, id int64) bool {
	language, err := h.languages.FindByID(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Language not found")
		return false
	}
	if err != nil {
		respondInternal(c, h.log, "Error updating language", err)
		return false
	}
	if language.Code == model.ProtectedLanguageCode {
		respondError(c, http.StatusBadRequest, "Cannot deactivate English language")
		return false
	}
	return true
}

// Delete handles DELETE /api/languages/:id
func (h *LanguageHandler) Delete(c *gin.Context) {
	id, ok := h.languageID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	language, err := h.languages.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Language not found")
		return
	}
	if err != nil {
		respondInternal(c, h.log, "Error deleting language", err)
		return
	}
	if language.Code == model.ProtectedLanguageCode {
		respondError(c, http.StatusBadRequest, "Cannot delete English language")
		return
	}

	if err := h.languages.Delete(ctx, id); err != nil && !errors.Is(err, store.ErrNotFound) {
		respondInternal(c, h.log, "Error deleting language", err)
		return
	}
	h.registryChanged(c)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Language deleted successfully"})
}

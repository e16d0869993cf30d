package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vocabuilder/api/internal/auth"
	"github.com/vocabuilder/api/internal/filter"
	"github.com/vocabuilder/api/internal/model"
	"github.com/vocabuilder/api/internal/store"
	"github.com/vocabuilder/api/internal/validator"
	"go.uber.org/zap"
)

type VocabHandler struct {
	vocabs    *store.VocabularyStore
	languages *validator.LanguageValidator
	log       *zap.Logger
}

func NewVocabHandler(vocabs *store.VocabularyStore, languages *validator.LanguageValidator, log *zap.Logger) *VocabHandler {
	return &VocabHandler{vocabs: vocabs, languages: languages, log: log}
}

type vocabRequest struct {
	Translations   map[string]string `json:"translations" validate:"langcodes"`
	SourceLanguage string            `json:"sourceLanguage" validate:"omitempty,langcodes"`
	UsedLanguages  []string          `json:"usedLanguages" validate:"omitempty,langcodes"`
	Definition     string            `json:"definition"`
	Example        string            `json:"example"`
}

func (r *vocabRequest) sourceLanguage() string {
	if r.SourceLanguage == "" {
		return model.DefaultSourceLanguage
	}
	return r.SourceLanguage
}

func (r *vocabRequest) usedLanguages() model.LanguageCodes {
	if len(r.UsedLanguages) == 0 {
		return model.LanguageCodes{"en", "de"}
	}
	return model.LanguageCodes(r.UsedLanguages)
}

func (h *VocabHandler) bind(c *gin.Context) (*vocabRequest, bool) {
	var req vocabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, validator.FormatErrors(err))
		return nil, false
	}
	if err := h.languages.Struct(&req); err != nil {
		respondError(c, http.StatusBadRequest, validator.FormatErrors(err))
		return nil, false
	}
	return &req, true
}

func (h *VocabHandler) respondOne(c *gin.Context, status int, vocab *model.Vocabulary) {
	vocabs := []model.Vocabulary{*vocab}
	if err := h.vocabs.AttachCreators(c.Request.Context(), vocabs); err != nil {
		h.log.Warn("failed to attach vocabulary creator", zap.String("vocab_id", vocab.ID), zap.Error(err))
	}
	c.JSON(status, vocabs[0])
}

// List handles GET /vocabs. Every user's entries are visible.
func (h *VocabHandler) List(c *gin.Context) {
	vocabs, err := h.vocabs.ListAll(c.Request.Context())
	if err != nil {
		respondInternal(c, h.log, "Error fetching vocabs", err)
		return
	}
	if err := h.vocabs.AttachCreators(c.Request.Context(), vocabs); err != nil {
		respondInternal(c, h.log, "Error fetching vocabs", err)
		return
	}
	if vocabs == nil {
		vocabs = []model.Vocabulary{}
	}

	c.JSON(http.StatusOK, gin.H{"vocabs": vocabs})
}

// Get handles GET /vocabs/:id
func (h *VocabHandler) Get(c *gin.Context) {
	vocab, err := h.vocabs.FindByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Vocab not found")
		return
	}
	if err != nil {
		respondInternal(c, h.log, "Error fetching vocab", err)
		return
	}

	h.respondOne(c, http.StatusOK, vocab)
}

// Create handles POST /vocabs. Blank translations are dropped.
func (h *VocabHandler) Create(c *gin.Context) {
	session, _ := auth.CurrentSession(c)
	req, ok := h.bind(c)
	if !ok {
		return
	}
	if req.Translations == nil {
		respondError(c, http.StatusBadRequest, "Translations object is required")
		return
	}
	translations := filter.CleanTranslations(req.Translations)
	if len(translations) == 0 {
		respondError(c, http.StatusBadRequest, "No valid translations provided")
		return
	}

	vocab := &model.Vocabulary{
		Translations:   translations,
		SourceLanguage: req.sourceLanguage(),
		UsedLanguages:  req.usedLanguages(),
		Definition:     req.Definition,
		Example:        req.Example,
		CreatedBy:      session.UserID(),
	}
	if err := h.vocabs.Create(c.Request.Context(), vocab); err != nil {
		respondInternal(c, h.log, "Error creating vocab", err)
		return
	}

	h.log.Info("vocabulary created", zap.String("vocab_id", vocab.ID), zap.String("user_id", session.UserID()))
	h.respondOne(c, http.StatusCreated, vocab)
}

// Update handles PUT /vocabs/:id. Only the owner may update; a translations
// object, when present, replaces the stored one as given.
func (h *VocabHandler) Update(c *gin.Context) {
	session, _ := auth.CurrentSession(c)
	req, ok := h.bind(c)
	if !ok {
		return
	}

	upd := store.VocabularyUpdate{
		SourceLanguage: req.sourceLanguage(),
		UsedLanguages:  req.usedLanguages(),
		Definition:     req.Definition,
		Example:        req.Example,
	}
	if req.Translations != nil {
		upd.Translations = model.Translations(req.Translations)
	}

	vocab, err := h.vocabs.UpdateOwned(c.Request.Context(), c.Param("id"), session.UserID(), upd)
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Vocab not found")
		return
	}
	if err != nil {
		respondInternal(c, h.log, "Error updating vocab", err)
		return
	}

	h.respondOne(c, http.StatusOK, vocab)
}

// Delete handles DELETE /vocabs/:id. Only the owner may delete.
func (h *VocabHandler) Delete(c *gin.Context) {
	session, _ := auth.CurrentSession(c)

	vocab, err := h.vocabs.DeleteOwned(c.Request.Context(), c.Param("id"), session.UserID())
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Vocab not found")
		return
	}
	if err != nil {
		respondInternal(c, h.log, "Error deleting vocab", err)
		return
	}

	h.log.Info("vocabulary deleted", zap.String("vocab_id", vocab.ID), zap.String("user_id", session.UserID()))
	c.JSON(http.StatusOK, vocab)
}

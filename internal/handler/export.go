package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vocabuilder/api/internal/auth"
	"github.com/vocabuilder/api/internal/model"
	"github.com/vocabuilder/api/internal/store"
	"go.uber.org/zap"
)

type ExportHandler struct {
	vocabs *store.VocabularyStore
	log    *zap.Logger
}

func NewExportHandler(vocabs *store.VocabularyStore, log *zap.Logger) *ExportHandler {
	return &ExportHandler{vocabs: vocabs, log: log}
}

// Export handles GET /vocabs/export?format=json|csv|md&mine=true
func (h *ExportHandler) Export(c *gin.Context) {
	session, _ := auth.CurrentSession(c)
	format := c.DefaultQuery("format", "json")
	ctx := c.Request.Context()

	var (
		vocabs []model.Vocabulary
		err    error
	)
	if c.Query("mine") == "true" {
		vocabs, err = h.vocabs.ListByCreator(ctx, session.UserID())
	} else {
		vocabs, err = h.vocabs.ListAll(ctx)
	}
	if err != nil {
		respondInternal(c, h.log, "Error exporting vocabs", err)
		return
	}
	if vocabs == nil {
		vocabs = []model.Vocabulary{}
	}

	filename := "vocabulary-" + time.Now().UTC().Format("20060102")
	switch format {
	case "json":
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.json", filename))
		c.JSON(http.StatusOK, gin.H{"vocabs": vocabs, "total": len(vocabs)})
	case "csv":
		h.exportCSV(c, filename, vocabs)
	case "md", "markdown":
		h.exportMarkdown(c, filename, vocabs)
	default:
		respondError(c, http.StatusBadRequest, "Invalid format. Use json, csv, or md")
	}
}

// languageColumns returns every language code used by vocabs, English first.
func languageColumns(vocabs []model.Vocabulary) []string {
	seen := map[string]struct{}{}
	for _, v := range vocabs {
		for code := range v.Translations {
			seen[code] = struct{}{}
		}
	}

	codes := make([]string, 0, len(seen))
	for code := range seen {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		if codes[i] == model.ProtectedLanguageCode || codes[j] == model.ProtectedLanguageCode {
			return codes[i] == model.ProtectedLanguageCode
		}
		return codes[i] < codes[j]
	})
	return codes
}

func (h *ExportHandler) exportCSV(c *gin.Context, filename string, vocabs []model.Vocabulary) {
	codes := languageColumns(vocabs)

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := append([]string{"id"}, codes...)
	header = append(header, "definition", "example", "createdAt")
	writer.Write(header)

	for _, v := range vocabs {
		row := []string{v.ID}
		for _, code := range codes {
			row = append(row, v.Translations[code])
		}
		row = append(row, v.Definition, v.Example, v.CreatedAt.UTC().Format(time.RFC3339))
		writer.Write(row)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		respondInternal(c, h.log, "Error exporting vocabs", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", filename))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

func (h *ExportHandler) exportMarkdown(c *gin.Context, filename string, vocabs []model.Vocabulary) {
	codes := languageColumns(vocabs)

	var buf bytes.Buffer
	buf.WriteString("# Vocabulary\n\n")
	buf.WriteString(fmt.Sprintf("**Exported:** %s  \n**Entries:** %d\n\n", time.Now().UTC().Format("2006-01-02 15:04:05"), len(vocabs)))

	if len(vocabs) > 0 {
		header := append(append([]string{}, codes...), "definition")
		buf.WriteString("| " + strings.Join(header, " | ") + " |\n")
		buf.WriteString("|" + strings.Repeat(" --- |", len(header)) + "\n")

		for _, v := range vocabs {
			cells := make([]string, 0, len(header))
			for _, code := range codes {
				cells = append(cells, markdownCell(v.Translations[code]))
			}
			cells = append(cells, markdownCell(v.Definition))
			buf.WriteString("| " + strings.Join(cells, " | ") + " |\n")
		}
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.md", filename))
	c.Data(http.StatusOK, "text/markdown", buf.Bytes())
}

func markdownCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(strings.TrimSpace(s), "\n", " ")
}

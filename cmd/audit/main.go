package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vocabuilder/api/internal/config"
	"github.com/vocabuilder/api/internal/database"
	"github.com/vocabuilder/api/internal/logging"
	"github.com/vocabuilder/api/internal/model"
	"github.com/vocabuilder/api/internal/store"
	"github.com/vocabuilder/api/internal/validator"
	"go.uber.org/zap"
)

type Issue struct {
	VocabID string `json:"vocabId"`
	Type    string `json:"type"`
	Details string `json:"details"`
}

const (
	issueUnknownCode     = "UNKNOWN_LANGUAGE_CODE"
	issueEmptyText       = "EMPTY_TRANSLATION"
	issueUntrimmed       = "UNTRIMMED_TRANSLATION"
	issueMissingSource   = "MISSING_SOURCE_TRANSLATION"
	issueSingleLanguage  = "SINGLE_LANGUAGE"
	issueUnusedLanguages = "USED_LANGUAGE_WITHOUT_TEXT"
)

// Audits stored translation maps: unregistered codes, blank or untrimmed text,
// and entries that can never appear in a quiz.
func main() {
	workers := flag.Int("workers", 8, "Number of parallel workers")
	batchSize := flag.Int("batch", 500, "Entries fetched per batch")
	outputFile := flag.String("output", "audit_results.json", "Output file for results")
	flag.Parse()

	cfg := config.Load()
	log, err := logging.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	ctx := context.Background()
	codes := validator.NewLanguageValidator()
	if _, err := codes.Load(ctx, store.NewLanguageStore(db)); err != nil {
		log.Fatal("failed to load language codes", zap.Error(err))
	}

	vocabs := store.NewVocabularyStore(db)
	total, err := vocabs.Count(ctx)
	if err != nil {
		log.Fatal("failed to count vocabulary", zap.Error(err))
	}
	log.Info("auditing vocabulary", zap.Int64("total", total), zap.Int("workers", *workers))

	vocabChan := make(chan model.Vocabulary, *workers*10)
	issueChan := make(chan Issue, 1000)

	var processed int64
	var wg sync.WaitGroup
	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for vocab := range vocabChan {
				for _, issue := range auditVocab(vocab, codes) {
					issueChan <- issue
				}
				if p := atomic.AddInt64(&processed, 1); p%1000 == 0 {
					log.Info("progress", zap.Int64("processed", p), zap.Int64("total", total))
				}
			}
		}()
	}

	var issues []Issue
	done := make(chan struct{})
	go func() {
		for issue := range issueChan {
			issues = append(issues, issue)
		}
		close(done)
	}()

	startTime := time.Now()
	err = vocabs.Batches(ctx, *batchSize, func(batch []model.Vocabulary) error {
		for _, v := range batch {
			vocabChan <- v
		}
		return nil
	})
	close(vocabChan)
	wg.Wait()
	close(issueChan)
	<-done
	if err != nil {
		log.Error("vocabulary scan aborted", zap.Error(err))
	}

	byType := make(map[string]int)
	for _, issue := range issues {
		byType[issue.Type]++
	}
	sort.Slice(issues, func(i, j int) bool {
		if issues[i].VocabID != issues[j].VocabID {
			return issues[i].VocabID < issues[j].VocabID
		}
		return issues[i].Type < issues[j].Type
	})

	elapsed := time.Since(startTime)
	log.Info("audit complete",
		zap.Int64("processed", atomic.LoadInt64(&processed)),
		zap.Int("issues", len(issues)),
		zap.Any("by_type", byType),
		zap.Duration("elapsed", elapsed),
	)

	output := map[string]interface{}{
		"summary": map[string]interface{}{
			"total":   total,
			"issues":  len(issues),
			"elapsed": elapsed.String(),
		},
		"issuesByType": byType,
		"issues":       issues,
	}
	data, _ := json.MarshalIndent(output, "", "  ")
	if err := os.WriteFile(*outputFile, data, 0644); err != nil {
		log.Error("failed to write output file", zap.Error(err))
		return
	}
	fmt.Printf("Results saved to %s\n", *outputFile)
}

func auditVocab(vocab model.Vocabulary, codes *validator.LanguageValidator) []Issue {
	var issues []Issue
	add := func(typ, details string) {
		issues = append(issues, Issue{VocabID: vocab.ID, Type: typ, Details: details})
	}

	for _, code := range codes.UnknownCodes(vocab.Translations) {
		add(issueUnknownCode, fmt.Sprintf("language code %q is not registered", code))
	}

	keys := make([]string, 0, len(vocab.Translations))
	for code := range vocab.Translations {
		keys = append(keys, code)
	}
	sort.Strings(keys)
	for _, code := range keys {
		text := vocab.Translations[code]
		switch {
		case strings.TrimSpace(text) == "":
			add(issueEmptyText, fmt.Sprintf("%s translation is empty", code))
		case strings.TrimSpace(text) != text:
			add(issueUntrimmed, fmt.Sprintf("%s translation %q has surrounding whitespace", code, text))
		}
	}

	if _, ok := vocab.Translations.Text(vocab.SourceLanguage); !ok {
		add(issueMissingSource, fmt.Sprintf("no text for source language %q", vocab.SourceLanguage))
	}
	if len(vocab.Translations.Codes()) < 2 {
		add(issueSingleLanguage, "entry cannot be used in any quiz direction")
	}
	for _, code := range vocab.UsedLanguages {
		if _, ok := vocab.Translations.Text(code); !ok {
			add(issueUnusedLanguages, fmt.Sprintf("used language %q has no text", code))
		}
	}

	return issues
}

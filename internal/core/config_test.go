package core

import (
	"testing"

	"tunegrab/internal/i18n"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Telegram.Language != i18n.DefaultLanguage {
		t.Errorf("Expected default language to be %s, got %s", i18n.DefaultLanguage, config.Telegram.Language)
	}

	if config.Extract.SearchLimit != DefaultSearchLimit {
		t.Errorf("Expected default search limit %d, got %d", DefaultSearchLimit, config.Extract.SearchLimit)
	}

	if config.Telegram.BotToken != "" {
		t.Error("Expected bot token to be empty by default (requiring explicit configuration)")
	}

	if config.Extract.Provider != "youtube" {
		t.Errorf("Expected default provider to be youtube, got %s", config.Extract.Provider)
	}

	if config.App.FetchWorkers <= 0 {
		t.Error("Expected a positive default fetch worker count")
	}

	if config.App.RefTTL <= 0 {
		t.Error("Expected a positive default reference TTL")
	}
}

func TestLanguageConfiguration(t *testing.T) {
	config := DefaultConfig()

	supportedLanguages := i18n.GetSupportedLanguages()
	for _, lang := range supportedLanguages {
		config.Telegram.Language = lang
		localizer := i18n.NewLocalizer(config.Telegram.Language)
		if localizer == nil {
			t.Errorf("Failed to create localizer for language %s", lang)
		}

		message := localizer.T("error.generic")
		if message == "" {
			t.Errorf("Empty message for key 'error.generic' in language %s", lang)
		}
	}
}

func TestConfigConstants(t *testing.T) {
	if DefaultSearchLimit <= 0 {
		t.Error("DefaultSearchLimit should be positive")
	}

	if DefaultSearchLimit > MarkerSetSize {
		t.Error("DefaultSearchLimit must not exceed the marker set size")
	}

	if DefaultMenuWidth <= 0 {
		t.Error("DefaultMenuWidth should be positive")
	}

	if DefaultTitleBudget <= 0 {
		t.Error("DefaultTitleBudget should be positive")
	}
}

package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"mbaadvisor/internal/errors"
)

// Prompt names that can be overridden
const (
	PromptIntention      = "intention"
	PromptRandom         = "random"
	PromptHostile        = "hostile"
	PromptQuestion       = "question"
	PromptQuestionBackup = "questionBackup"
	PromptHyde           = "hyde"
	PromptAdvice         = "advice"
)

// PromptConfig holds inline prompt overrides and prompt files. A file takes
// precedence over the inline value. Templates may use {{context}},
// {{history}} and {{report}} placeholders where the built-in prompt does.
type PromptConfig struct {
	Intention          string `mapstructure:"intention"`
	IntentionFile      string `mapstructure:"intentionFile"`
	Random             string `mapstructure:"random"`
	RandomFile         string `mapstructure:"randomFile"`
	Hostile            string `mapstructure:"hostile"`
	HostileFile        string `mapstructure:"hostileFile"`
	Question           string `mapstructure:"question"`
	QuestionFile       string `mapstructure:"questionFile"`
	QuestionBackup     string `mapstructure:"questionBackup"`
	QuestionBackupFile string `mapstructure:"questionBackupFile"`
	Hyde               string `mapstructure:"hyde"`
	HydeFile           string `mapstructure:"hydeFile"`
	Advice             string `mapstructure:"advice"`
	AdviceFile         string `mapstructure:"adviceFile"`
}

type promptEntry struct {
	name   string
	inline string
	file   string
}

func (p PromptConfig) entries() []promptEntry {
	return []promptEntry{
		{PromptIntention, p.Intention, p.IntentionFile},
		{PromptRandom, p.Random, p.RandomFile},
		{PromptHostile, p.Hostile, p.HostileFile},
		{PromptQuestion, p.Question, p.QuestionFile},
		{PromptQuestionBackup, p.QuestionBackup, p.QuestionBackupFile},
		{PromptHyde, p.Hyde, p.HydeFile},
		{PromptAdvice, p.Advice, p.AdviceFile},
	}
}

// Prompt returns the file content and inline value configured for a prompt.
// Either may be empty.
func (c *Config) Prompt(name string) (loaded, configured string) {
	for _, e := range c.AI.Prompts.entries() {
		if e.name == name {
			return c.loadedPrompts[name], e.inline
		}
	}
	return "", ""
}

// loadPromptsFromFiles reads every configured prompt file. All missing files
// are reported together.
func (c *Config) loadPromptsFromFiles() error {
	if err := c.validatePromptFiles(); err != nil {
		return err
	}

	loaded := make(map[string]string)
	for _, e := range c.AI.Prompts.entries() {
		if e.file == "" {
			continue
		}
		content, err := loadPromptFromFile(e.file, e.name)
		if err != nil {
			return err
		}
		loaded[e.name] = content
	}
	c.loadedPrompts = loaded

	if len(loaded) == 0 {
		log.Println("[CONFIG] No custom prompts loaded - using built-in defaults")
	} else {
		log.Printf("[CONFIG] Total custom prompts loaded: %d", len(loaded))
	}
	return nil
}

// loadPromptFromFile loads a prompt from a file with proper error handling and logging
func loadPromptFromFile(filePath, name string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("failed to resolve %s prompt file '%s'", name, filePath), err)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("failed to read %s prompt file '%s'", name, absPath), err)
	}

	trimmed := strings.TrimSpace(string(content))
	if trimmed == "" {
		return "", errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("%s prompt file '%s' is empty", name, absPath), nil)
	}

	log.Printf("[CONFIG] Loaded %s prompt from file: %s (%d characters)", name, absPath, len(trimmed))
	return trimmed, nil
}

// validatePromptFiles checks that every configured prompt file exists
func (c *Config) validatePromptFiles() error {
	var missing []string
	for _, e := range c.AI.Prompts.entries() {
		if e.file == "" {
			continue
		}
		absPath, err := filepath.Abs(e.file)
		if err != nil {
			missing = append(missing, fmt.Sprintf("invalid path for %s prompt: %s", e.name, e.file))
			continue
		}
		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			missing = append(missing, fmt.Sprintf("%s prompt file not found: %s", e.name, absPath))
		}
	}

	if len(missing) > 0 {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"prompt file validation failed:\n"+strings.Join(missing, "\n"), nil)
	}
	return nil
}

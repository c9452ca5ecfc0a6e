package openai

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PromptConfig holds the assistant prompts and model parameters
type PromptConfig struct {
	BookingAssistant struct {
		Temperature float32 `yaml:"temperature"`
		MaxTokens   int     `yaml:"max_tokens"`
		System      string  `yaml:"system"`
	} `yaml:"booking_assistant"`
}

// LoadPrompts loads prompt configuration from YAML file
func LoadPrompts(promptsPath string) (*PromptConfig, error) {
	data, err := os.ReadFile(promptsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}

	var prompts PromptConfig
	if err := yaml.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal prompts: %w", err)
	}

	return &prompts, nil
}

package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPrompts is the built-in prompt list. Request i uses DefaultPrompts[i].
var DefaultPrompts = []string{
	"What is the capital of France?",
	"Explain photosynthesis in one sentence.",
	"What is 15 multiplied by 23?",
	"Name three programming languages.",
	"What is the largest planet in our solar system?",
	"Who wrote Romeo and Juliet?",
	"What is the speed of light?",
	"Name two primary colors.",
	"What year did World War II end?",
	"What is the chemical symbol for gold?",
}

type promptFile struct {
	Prompts []string `yaml:"prompts"`
}

// LoadPrompts reads a YAML prompt file. Both a top-level list and a
// document with a "prompts" key are accepted.
func LoadPrompts(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompts file: %w", err)
	}

	var list []string
	if err := yaml.Unmarshal(data, &list); err != nil {
		var doc promptFile
		if derr := yaml.Unmarshal(data, &doc); derr != nil {
			return nil, fmt.Errorf("parse prompts file %s: %w", path, derr)
		}
		list = doc.Prompts
	}

	prompts := make([]string, 0, len(list))
	for _, p := range list {
		p = strings.TrimSpace(p)
		if p != "" {
			prompts = append(prompts, p)
		}
	}
	if len(prompts) == 0 {
		return nil, fmt.Errorf("prompts file %s contains no prompts", path)
	}
	return prompts, nil
}

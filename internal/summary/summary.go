// Package summary turns extracted article text into a short summary with a
// language model.
package summary

import (
	"context"
	"fmt"
	"time"
)

const (
	TypeNone   = "none"
	TypeOllama = "ollama"
	TypeOpenAI = "openai"
)

type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

type Options struct {
	Type    string
	BaseURL string
	Key     string
	Prompt  string
	Model   string
	Timeout time.Duration
}

// New builds the summarizer selected by opts.Type. It returns nil, nil for
// TypeNone and an empty type.
func New(opts Options) (Summarizer, error) {
	switch opts.Type {
	case "", TypeNone:
		return nil, nil
	case TypeOpenAI:
		if opts.Key == "" {
			return nil, fmt.Errorf("ai_key is required when ai_type is %q", TypeOpenAI)
		}
		return NewOpenAISummarizer(opts.BaseURL, opts.Key, opts.Prompt, opts.Model, opts.Timeout), nil
	case TypeOllama:
		if opts.BaseURL == "" {
			return nil, fmt.Errorf("ai_base_url is required when ai_type is %q", TypeOllama)
		}
		return NewOllamaSummarizer(opts.BaseURL, opts.Prompt, opts.Model, opts.Timeout)
	default:
		return nil, fmt.Errorf("unknown ai_type %q", opts.Type)
	}
}

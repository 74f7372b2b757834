package summarize

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/nibzard/todomd/internal/config"
	"github.com/nibzard/todomd/internal/keywords"
	"github.com/nibzard/todomd/internal/prompts"
	"github.com/nibzard/todomd/internal/todo"
)

// Options carries what New needs besides the summarizer config.
type Options struct {
	// Renderer renders prompts for the LLM providers.
	Renderer *prompts.Renderer
	// Prefixes is the file-type table used by the strip provider.
	Prefixes keywords.Table
	// HTTPClient overrides the transport of the LLM providers.
	HTTPClient *http.Client
	// OnSkip is called for each record that falls back to its raw
	// comment under the skip policy.
	OnSkip func(todo.Record, error)
}

// New returns the summarizer selected by cfg.Provider. API keys are read
// from the variable named by cfg.KeyEnv().
func New(ctx context.Context, cfg config.Summarizer, opts Options) (Func, error) {
	var fn Func
	switch cfg.Provider {
	case config.ProviderNone:
		return Identity, nil
	case config.ProviderStrip:
		table := opts.Prefixes
		if table == nil {
			table = keywords.DefaultTable()
		}
		return Strip(table), nil
	case config.ProviderOpenAI, config.ProviderGemini:
		client, err := newClient(ctx, cfg, opts.HTTPClient)
		if err != nil {
			return nil, err
		}
		renderer := opts.Renderer
		if renderer == nil {
			renderer = prompts.NewRenderer(prompts.NewStore(""))
		}
		fn = FromClient(Limit(client, cfg.RequestsPerMinute), renderer)
	default:
		return nil, fmt.Errorf("%w: unknown summarizer %q", config.ErrInvalidArgument, cfg.Provider)
	}

	if cfg.OnError == config.OnErrorSkip {
		fn = SkipOnError(fn, opts.OnSkip)
	}
	return fn, nil
}

func newClient(ctx context.Context, cfg config.Summarizer, hc *http.Client) (Client, error) {
	keyEnv := cfg.KeyEnv()
	apiKey := os.Getenv(keyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("%s summarizer: %w: set %s or choose another summarizer", cfg.Provider, ErrMissingAPIKey, keyEnv)
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second

	switch cfg.Provider {
	case config.ProviderGemini:
		return NewGemini(ctx, GeminiOptions{
			APIKey:     apiKey,
			Model:      cfg.Model,
			BaseURL:    cfg.BaseURL,
			Timeout:    timeout,
			HTTPClient: hc,
		})
	default:
		return NewOpenAI(OpenAIOptions{
			APIKey:     apiKey,
			Model:      cfg.Model,
			BaseURL:    cfg.BaseURL,
			Timeout:    timeout,
			HTTPClient: hc,
		})
	}
}

package pricing

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/0xmhha/ccusage/pkg/logger"
	"github.com/0xmhha/ccusage/pkg/parser"
	"github.com/0xmhha/ccusage/pkg/usage"
)

const (
	// liteLLMPricingURL is the community price sheet used for models
	// missing from the static table.
	liteLLMPricingURL = "https://raw.githubusercontent.com/BerriAI/litellm/main/model_prices_and_context_window.json"

	// remoteCacheTTL is how long a fetched price sheet stays fresh.
	remoteCacheTTL = time.Hour

	// defaultHTTPTimeout bounds the price-sheet fetch.
	defaultHTTPTimeout = 10 * time.Second
)

// Config contains resolver configuration.
type Config struct {
	// Offline disables the network fallback entirely.
	Offline bool

	// CachePath is the BoltDB file for caching fetched price sheets.
	// Empty disables the disk cache.
	CachePath string

	// HTTPTimeout bounds the remote fetch. Default: 10s.
	HTTPTimeout time.Duration
}

// Resolver maps model identifiers to pricing and computes entry costs.
// All methods are safe for concurrent use; cost resolution for
// distinct entries carries no ordering requirement.
type Resolver struct {
	config Config
	logger logger.Logger
	client *http.Client

	mu           sync.Mutex
	remote       map[string]ModelPricing
	remoteLoaded bool
}

// NewResolver creates a pricing resolver.
func NewResolver(cfg Config, log logger.Logger) *Resolver {
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = defaultHTTPTimeout
	}

	return &Resolver{
		config: cfg,
		logger: log,
		client: &http.Client{Timeout: cfg.HTTPTimeout},
	}
}

// CalculateCost returns the cost of a token-count tuple for the given
// model. Unknown models cost zero; this is logged, never fatal.
func (r *Resolver) CalculateCost(model usage.ModelName, tokens parser.TokenCounts) decimal.Decimal {
	if pricing, ok := r.Lookup(model); ok {
		return pricing.CostFor(tokens)
	}

	r.logger.Warn("no pricing found for model, using zero cost",
		"model", model.String())
	return decimal.Zero
}

// Lookup resolves pricing for a model: exact static match, fuzzy
// match, then the remote sheet unless running offline.
func (r *Resolver) Lookup(model usage.ModelName) (ModelPricing, bool) {
	name := model.String()

	if pricing, ok := staticPricing[name]; ok {
		return pricing, true
	}

	if target, ok := matchModel(name); ok {
		r.logger.Debug("fuzzy-matched model pricing",
			"model", name, "matched", target)
		return staticPricing[target], true
	}

	if r.config.Offline {
		return ModelPricing{}, false
	}

	remote := r.remotePricing()
	pricing, ok := remote[name]
	return pricing, ok
}

// ListModels returns the sorted identifiers of all statically priced
// models.
func (r *Resolver) ListModels() []string {
	models := make([]string, 0, len(staticPricing))
	for name := range staticPricing {
		models = append(models, name)
	}
	sort.Strings(models)
	return models
}

// remotePricing returns the remote sheet, fetching it at most once
// per resolver. A fetch failure yields an empty sheet and falls
// through to zero-cost resolution.
func (r *Resolver) remotePricing() map[string]ModelPricing {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.remoteLoaded {
		return r.remote
	}
	r.remoteLoaded = true
	r.remote = map[string]ModelPricing{}

	if r.config.CachePath != "" {
		cache, err := openDiskCache(r.config.CachePath)
		if err != nil {
			r.logger.Debug("pricing cache unavailable", "error", err)
		} else {
			defer func() {
				if closeErr := cache.Close(); closeErr != nil {
					r.logger.Debug("failed to close pricing cache", "error", closeErr)
				}
			}()

			if models, ok := cache.load(remoteCacheTTL); ok {
				r.remote = models
				return r.remote
			}

			models, err := r.fetchRemoteSheet()
			if err != nil {
				r.logger.Warn("failed to fetch remote pricing", "error", err)
				return r.remote
			}
			cache.store(models)
			r.remote = models
			return r.remote
		}
	}

	models, err := r.fetchRemoteSheet()
	if err != nil {
		r.logger.Warn("failed to fetch remote pricing", "error", err)
		return r.remote
	}
	r.remote = models
	return r.remote
}

// liteLLMModel is the remote sheet's per-model entry. Remote prices
// are per single token.
type liteLLMModel struct {
	InputCostPerToken  float64 `json:"input_cost_per_token"`
	OutputCostPerToken float64 `json:"output_cost_per_token"`
	CacheCreationCost  float64 `json:"cache_creation_input_token_cost"`
	CacheReadCost      float64 `json:"cache_read_input_token_cost"`
	Provider           string  `json:"litellm_provider"`
}

// fetchRemoteSheet downloads and converts the LiteLLM price sheet.
func (r *Resolver) fetchRemoteSheet() (map[string]ModelPricing, error) {
	resp, err := r.client.Get(liteLLMPricingURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPricingFetch, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrPricingFetch, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPricingFetch, err)
	}

	var raw map[string]liteLLMModel
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPricingDecode, err)
	}

	models := make(map[string]ModelPricing)
	for name, entry := range raw {
		if entry.Provider != "anthropic" {
			continue
		}
		models[name] = ModelPricing{
			Input:         perTokenToPerMillion(entry.InputCostPerToken),
			Output:        perTokenToPerMillion(entry.OutputCostPerToken),
			CacheCreation: perTokenToPerMillion(entry.CacheCreationCost),
			CacheRead:     perTokenToPerMillion(entry.CacheReadCost),
		}
	}

	r.logger.Debug("fetched remote pricing", "models", len(models))
	return models, nil
}

// perTokenToPerMillion converts a per-token float price to the
// table's per-1M-token fixed-point form.
func perTokenToPerMillion(perToken float64) decimal.Decimal {
	return decimal.NewFromFloat(perToken).Mul(tokensPerPrice)
}

package ai

import (
	"context"
	stderrors "errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dearpower/dearpower-go/internal/constants"
	"github.com/dearpower/dearpower-go/internal/util"
	"github.com/dearpower/dearpower-go/pkg/errors"
	"github.com/openai/openai-go/v3"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

var (
	statusCodePattern = regexp.MustCompile(`\b(5\d{2})\b`)
	geminiCodePattern = regexp.MustCompile(`"code":\s*(\d{3})`)
	openAICodePattern = regexp.MustCompile(`^(\d{3})\s`)
)

// ErrNoProvider is returned when no model API key is configured.
var ErrNoProvider = errors.NewServiceError("no language model is configured", "ai", "generate", nil)

// ErrCircuitOpen is returned while the circuit breaker blocks model calls.
var ErrCircuitOpen = errors.NewServiceError("language model service temporarily unavailable", "ai", "generate", nil)

// ModelManager sends prompts to a primary provider and, when enabled, a fallback.
// Repeated service failures open a circuit breaker that rejects calls until a health
// check succeeds.
type ModelManager struct {
	primary        TextProvider
	fallback       TextProvider
	logger         *zap.Logger
	circuitBreaker *util.CircuitBreaker
}

type ModelManagerConfig struct {
	OpenAIAPIKey       string
	GeminiAPIKey       string
	DefaultOpenAIModel string
	DefaultGeminiModel string
	EnableFallback     bool
}

// NewModelManager wires OpenAI as the primary provider and Gemini as the fallback. When
// only one key is present that provider becomes primary; with neither, every call fails
// with ErrNoProvider.
func NewModelManager(ctx context.Context, cfg ModelManagerConfig, logger *zap.Logger) (*ModelManager, error) {
	defaultOpenAI := util.FirstNonEmpty(cfg.DefaultOpenAIModel, "gpt-4o-mini")
	defaultGemini := util.FirstNonEmpty(cfg.DefaultGeminiModel, "gemini-2.5-flash")

	var openaiProvider TextProvider
	if p := NewOpenAIProvider(cfg.OpenAIAPIKey, defaultOpenAI, logger); p != nil {
		openaiProvider = p
	}

	var geminiProvider TextProvider
	if cfg.GeminiAPIKey != "" {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		geminiProvider = NewGeminiProvider(client, defaultGemini, logger)
	}

	primary, fallback := openaiProvider, geminiProvider
	if primary == nil {
		primary, fallback = geminiProvider, nil
	}
	if !cfg.EnableFallback {
		fallback = nil
	}

	switch {
	case primary == nil:
		logger.Warn("No language model configured, drafts will use built-in templates")
	case fallback == nil:
		logger.Info("Language model configured", zap.String("primary", primary.Name()))
	default:
		logger.Info("Language model configured",
			zap.String("primary", primary.Name()),
			zap.String("fallback", fallback.Name()),
		)
	}

	return NewModelManagerWithProviders(primary, fallback, logger), nil
}

// NewModelManagerWithProviders builds a manager around explicit providers. Either may be nil.
func NewModelManagerWithProviders(primary, fallback TextProvider, logger *zap.Logger) *ModelManager {
	mm := &ModelManager{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
	mm.circuitBreaker = util.NewCircuitBreaker(
		constants.CircuitBreakerConfig.FailureThreshold,
		constants.CircuitBreakerConfig.ResetTimeout,
		constants.CircuitBreakerConfig.HealthCheckInterval,
		mm.healthCheckPing,
		logger,
	)
	return mm
}

// Configured reports whether at least one provider is available.
func (mm *ModelManager) Configured() bool {
	return mm.primary != nil
}

// GenerateText returns the first non-empty completion from the primary, then the
// fallback provider.
func (mm *ModelManager) GenerateText(ctx context.Context, prompt string, preset ModelPreset, opts *GenerateOptions) (string, *GenerateMetadata, error) {
	if mm.primary == nil {
		return "", nil, ErrNoProvider
	}

	if !mm.circuitBreaker.CanExecute() {
		status := mm.circuitBreaker.GetStatus()
		fields := []zap.Field{
			zap.String("state", status.State.String()),
			zap.Int("failure_count", status.FailureCount),
		}
		if status.NextRetryTime != nil {
			fields = append(fields, zap.Time("next_retry", *status.NextRetryTime))
		}
		mm.logger.Warn("Language model unavailable (circuit open)", fields...)
		return "", nil, ErrCircuitOpen
	}

	primaryResult, primaryErr := mm.primary.Generate(ctx, prompt, preset, opts)
	if primaryErr == nil {
		mm.circuitBreaker.RecordSuccess()
		return primaryResult.Text, &GenerateMetadata{
			Provider: mm.primary.Name(),
			Model:    primaryResult.Model,
		}, nil
	}

	if mm.fallback != nil {
		// a model override names a primary model, never a fallback one
		var fallbackOpts *GenerateOptions
		if opts != nil {
			copied := *opts
			copied.Model = ""
			fallbackOpts = &copied
		}

		fallbackResult, fallbackErr := mm.fallback.Generate(ctx, prompt, preset, fallbackOpts)
		if fallbackErr == nil {
			mm.logger.Info("Draft generated by fallback provider",
				zap.String("provider", mm.fallback.Name()),
				zap.NamedError("primary_error", primaryErr),
			)
			mm.circuitBreaker.RecordSuccess()
			return fallbackResult.Text, &GenerateMetadata{
				Provider:     mm.fallback.Name(),
				Model:        fallbackResult.Model,
				UsedFallback: true,
			}, nil
		}

		mm.recordFailure(primaryErr)
		mm.recordFailure(fallbackErr)
		return "", nil, errors.NewServiceError("all language model providers failed", "ai", "generate",
			stderrors.Join(primaryErr, fallbackErr))
	}

	mm.recordFailure(primaryErr)
	return "", nil, errors.NewServiceError("language model generation failed", "ai", "generate", primaryErr)
}

func (mm *ModelManager) recordFailure(err error) {
	if !isServiceFailure(err) {
		return
	}

	timeout := constants.CircuitBreakerConfig.ResetTimeout
	if isRateLimitError(err) {
		timeout = constants.CircuitBreakerConfig.RateLimitTimeout
	}

	mm.circuitBreaker.RecordFailure(timeout)
}

func (mm *ModelManager) healthCheckPing() bool {
	ctx, cancel := context.WithTimeout(context.Background(), constants.CircuitBreakerConfig.HealthCheckTimeout)
	defer cancel()

	primaryOK := mm.primary != nil && mm.primary.Ping(ctx)
	fallbackOK := mm.fallback != nil && mm.fallback.Ping(ctx)
	healthy := primaryOK || fallbackOK

	mm.logger.Info("Health Check: language models",
		zap.Bool("primary", primaryOK),
		zap.Bool("fallback", fallbackOK),
		zap.Bool("healthy", healthy),
	)

	return healthy
}

func (mm *ModelManager) GetCircuitStatus() util.CircuitBreakerStatus {
	return mm.circuitBreaker.GetStatus()
}

func (mm *ModelManager) ResetCircuit() {
	mm.circuitBreaker.Reset()
}

// statusOf extracts an HTTP status from a provider error, or 0.
func statusOf(err error) int {
	var apiErr *openai.Error
	if stderrors.As(err, &apiErr) {
		return apiErr.StatusCode
	}

	msg := err.Error()
	if m := geminiCodePattern.FindStringSubmatch(msg); len(m) > 1 {
		if code, convErr := strconv.Atoi(m[1]); convErr == nil {
			return code
		}
	}
	if m := openAICodePattern.FindStringSubmatch(msg); len(m) > 1 {
		if code, convErr := strconv.Atoi(m[1]); convErr == nil {
			return code
		}
	}
	return 0
}

// isServiceFailure separates outages and throttling from request problems, which
// should not trip the circuit.
func isServiceFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.IsTimeout(err) || isRateLimitError(err) {
		return true
	}

	if status := statusOf(err); status != 0 {
		return status >= 500 && status < 600
	}

	msg := err.Error()
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "ETIMEDOUT") {
		return true
	}
	return statusCodePattern.MatchString(msg)
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	if statusOf(err) == 429 {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "Rate limit") ||
		strings.Contains(strings.ToLower(msg), "quota")
}

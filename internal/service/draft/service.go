package draft

import (
	"context"
	"strings"
	"time"

	"github.com/dearpower/dearpower-go/internal/domain"
	"github.com/dearpower/dearpower-go/internal/prompt"
	"github.com/dearpower/dearpower-go/internal/service/ai"
	"github.com/dearpower/dearpower-go/pkg/errors"
	"go.uber.org/zap"
)

// TextGenerator is implemented by ai.ModelManager.
type TextGenerator interface {
	Configured() bool
	GenerateText(ctx context.Context, prompt string, preset ai.ModelPreset, opts *ai.GenerateOptions) (string, *ai.GenerateMetadata, error)
}

type ArticleSource interface {
	Fetch(ctx context.Context, rawURL string) (*domain.Article, error)
}

// Result is a finished draft.
type Result struct {
	EmailContent string `json:"emailContent"`
	Provider     string `json:"provider"`
	Model        string `json:"model"`
	UsedTemplate bool   `json:"usedTemplate"`
	Mailto       string `json:"mailto"`
}

const templateProvider = "template"

// Service writes letters to representatives. A language model drafts when one is
// available; otherwise, or when every model fails, the built-in letter for the topic is
// used, so Generate only fails on invalid requests.
type Service struct {
	models   TextGenerator
	articles ArticleSource
	logger   *zap.Logger
}

// NewService builds a drafting service. models and articles may be nil.
func NewService(models TextGenerator, articles ArticleSource, logger *zap.Logger) *Service {
	return &Service{
		models:   models,
		articles: articles,
		logger:   logger,
	}
}

func (s *Service) Generate(ctx context.Context, req domain.DraftRequest) (*Result, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	started := time.Now()
	req.Topic = CanonicalTopic(req.Topic)

	result, err := s.generateWithModel(ctx, req)
	if err != nil {
		s.logger.Warn("Model draft unavailable, using template",
			zap.String("topic", req.Topic),
			zap.Error(err),
		)
		letter, tmplErr := TemplateLetter(req)
		if tmplErr != nil {
			return nil, errors.NewServiceError("failed to render letter", "draft", "template", tmplErr)
		}
		result = &Result{
			EmailContent: letter,
			Provider:     templateProvider,
			UsedTemplate: true,
		}
	}

	result.Mailto = MailtoURL(req.Representative, req.Topic, result.EmailContent)

	s.logger.Info("Draft generated",
		zap.String("topic", req.Topic),
		zap.String("provider", result.Provider),
		zap.Bool("used_template", result.UsedTemplate),
		zap.Duration("elapsed", time.Since(started)),
	)

	return result, nil
}

func (s *Service) generateWithModel(ctx context.Context, req domain.DraftRequest) (*Result, error) {
	if s.models == nil || !s.models.Configured() {
		return nil, ai.ErrNoProvider
	}

	data := prompt.DraftData{
		RepresentativeName: strings.TrimSpace(req.Representative.DisplayName),
		Party:              strings.TrimSpace(req.Representative.Party),
		Constituency:       constituencyOf(req),
		Greeting:           Greeting(req.Representative),
		Topic:              req.Topic,
		SenderName:         strings.TrimSpace(req.SenderName),
		SenderAddress:      strings.TrimSpace(req.SenderAddress),
		ReferenceURL:       strings.TrimSpace(req.ReferenceURL),
	}

	if data.ReferenceURL != "" && s.articles != nil {
		article, err := s.articles.Fetch(ctx, data.ReferenceURL)
		if err != nil {
			s.logger.Warn("Reference article unavailable",
				zap.String("url", data.ReferenceURL),
				zap.Int("status", errors.APIStatus(err)),
				zap.Error(err),
			)
		} else {
			data.ArticleTitle = article.Title
			data.ArticleText = article.Text
		}
	}

	system, user, err := prompt.BuildDraft(data)
	if err != nil {
		return nil, err
	}

	text, meta, err := s.models.GenerateText(ctx, user, ai.PresetDrafting, &ai.GenerateOptions{SystemPrompt: system})
	if err != nil {
		return nil, err
	}

	text = cleanModelOutput(text)
	if text == "" {
		return nil, errors.NewServiceError("model returned an empty draft", "draft", "generate", nil)
	}

	return &Result{
		EmailContent: text,
		Provider:     meta.Provider,
		Model:        meta.Model,
	}, nil
}

func validate(req domain.DraftRequest) error {
	if req.Representative == nil {
		return errors.NewValidationError("representative is required", "mp", nil)
	}
	if strings.TrimSpace(req.Topic) == "" {
		return errors.NewValidationError("topic is required", "topic", req.Topic)
	}
	if strings.TrimSpace(req.SenderName) == "" {
		return errors.NewValidationError("sender name is required", "fullName", req.SenderName)
	}
	return nil
}

// cleanModelOutput drops a code fence some models wrap around plain text.
func cleanModelOutput(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if nl := strings.IndexByte(text, '\n'); nl >= 0 {
			text = text[nl+1:]
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	return strings.TrimSpace(text)
}

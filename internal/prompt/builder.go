package prompt

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

type TemplateName string

const (
	TemplateDraftSystem TemplateName = "draft_system.tmpl"
	TemplateDraftLetter TemplateName = "draft_letter.tmpl"
)

var templateFuncs = template.FuncMap{
	"trim": strings.TrimSpace,
}

var defaultBuilder = mustPromptBuilder()

// PromptBuilder renders the embedded prompt templates. The set is parsed once and is
// safe for concurrent use.
type PromptBuilder struct {
	set *template.Template
}

func NewPromptBuilder() (*PromptBuilder, error) {
	set, err := template.New("prompts").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse prompt templates: %w", err)
	}
	return &PromptBuilder{set: set}, nil
}

func mustPromptBuilder() *PromptBuilder {
	pb, err := NewPromptBuilder()
	if err != nil {
		panic(err)
	}
	return pb
}

// DefaultPromptBuilder returns the shared builder over the embedded templates.
func DefaultPromptBuilder() *PromptBuilder {
	return defaultBuilder
}

// Render executes one template and trims surrounding whitespace.
func (pb *PromptBuilder) Render(name TemplateName, data any) (string, error) {
	tmpl := pb.set.Lookup(string(name))
	if tmpl == nil {
		return "", fmt.Errorf("unknown prompt template %s", name)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", name, err)
	}
	return strings.TrimSpace(sb.String()), nil
}

// DraftPrompt is the instruction and request pair sent to the drafting model.
type DraftPrompt struct {
	System string
	User   string
}

// Draft renders the letter drafting prompt. Topic, greeting and sender name are
// required; article text is dropped when there is no reference URL.
func (pb *PromptBuilder) Draft(data DraftData) (DraftPrompt, error) {
	data = data.normalized()
	switch {
	case data.Topic == "":
		return DraftPrompt{}, fmt.Errorf("draft prompt: topic is required")
	case data.Greeting == "":
		return DraftPrompt{}, fmt.Errorf("draft prompt: greeting is required")
	case data.SenderName == "":
		return DraftPrompt{}, fmt.Errorf("draft prompt: sender name is required")
	}

	system, err := pb.Render(TemplateDraftSystem, data)
	if err != nil {
		return DraftPrompt{}, err
	}
	user, err := pb.Render(TemplateDraftLetter, data)
	if err != nil {
		return DraftPrompt{}, err
	}
	return DraftPrompt{System: system, User: user}, nil
}

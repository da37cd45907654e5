package ai

// ModelPreset selects sampling parameters for a generation.
type ModelPreset string

const (
	PresetDrafting ModelPreset = "drafting" // letters, some variety
	PresetPrecise  ModelPreset = "precise"
)

// ModelConfig holds Gemini sampling parameters.
type ModelConfig struct {
	Temperature     float32
	TopP            float32
	TopK            int
	MaxOutputTokens int
}

// OpenAIConfig holds OpenAI sampling parameters.
type OpenAIConfig struct {
	Temperature float32
	MaxTokens   int
	TopP        float32
}

// GenerateMetadata describes which provider produced a result.
type GenerateMetadata struct {
	Provider     string
	Model        string
	UsedFallback bool
}

// GenerateOptions tweaks a single generation.
type GenerateOptions struct {
	Model        string
	SystemPrompt string
	Overrides    *ModelConfig
}

func GetPresetConfig(preset ModelPreset) ModelConfig {
	switch preset {
	case PresetDrafting:
		return ModelConfig{
			Temperature:     0.7,
			TopP:            0.95,
			TopK:            40,
			MaxOutputTokens: 1024,
		}
	case PresetPrecise:
		return ModelConfig{
			Temperature:     0.1,
			TopP:            0.9,
			TopK:            20,
			MaxOutputTokens: 512,
		}
	default:
		return GetPresetConfig(PresetDrafting)
	}
}

func GetOpenAIPresetConfig(preset ModelPreset) OpenAIConfig {
	switch preset {
	case PresetDrafting:
		return OpenAIConfig{
			Temperature: 0.7,
			MaxTokens:   1024,
			TopP:        0.95,
		}
	case PresetPrecise:
		return OpenAIConfig{
			Temperature: 0.1,
			MaxTokens:   512,
			TopP:        0.9,
		}
	default:
		return GetOpenAIPresetConfig(PresetDrafting)
	}
}

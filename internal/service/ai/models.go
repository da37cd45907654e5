package ai

import (
	"sort"
	"strings"
)

// ModelGroup is a family of model ids in display order.
type ModelGroup struct {
	Name string
	IDs  []string
}

var modelFamilies = []struct {
	name    string
	matches func(id string) bool
}{
	{"GPT-4o", func(id string) bool { return strings.Contains(id, "gpt-4o") }},
	{"GPT-4", func(id string) bool { return strings.Contains(id, "gpt-4") }},
	{"GPT-3.5", func(id string) bool { return strings.Contains(id, "gpt-3.5") }},
	{"o1", func(id string) bool { return strings.Contains(id, "o1") }},
	{"Embedding", func(id string) bool { return strings.Contains(id, "embedding") || strings.Contains(id, "ada") }},
	{"TTS", func(id string) bool { return strings.Contains(id, "tts") }},
	{"Whisper", func(id string) bool { return strings.Contains(id, "whisper") }},
	{"DALL-E", func(id string) bool { return strings.Contains(id, "dall-e") }},
}

const otherFamily = "Other"

// GroupModelIDs sorts ids and buckets each into the first family it matches. Empty
// families are left out.
func GroupModelIDs(ids []string) []ModelGroup {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	buckets := make(map[string][]string, len(modelFamilies)+1)
	for _, id := range sorted {
		family := otherFamily
		for _, f := range modelFamilies {
			if f.matches(id) {
				family = f.name
				break
			}
		}
		buckets[family] = append(buckets[family], id)
	}

	groups := make([]ModelGroup, 0, len(buckets))
	for _, f := range modelFamilies {
		if ids := buckets[f.name]; len(ids) > 0 {
			groups = append(groups, ModelGroup{Name: f.name, IDs: ids})
		}
	}
	if ids := buckets[otherFamily]; len(ids) > 0 {
		groups = append(groups, ModelGroup{Name: otherFamily, IDs: ids})
	}
	return groups
}

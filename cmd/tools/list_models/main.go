package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dearpower/dearpower-go/internal/config"
	"github.com/dearpower/dearpower-go/internal/service/ai"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
)

const requestTimeout = 30 * time.Second

func main() {
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}
	if cfg.OpenAI.APIKey == "" {
		logger.Fatal("OPENAI_API_KEY is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	client := openai.NewClient(option.WithAPIKey(cfg.OpenAI.APIKey))

	owners := make(map[string]string)
	var ids []string
	iter := client.Models.ListAutoPaging(ctx)
	for iter.Next() {
		model := iter.Current()
		ids = append(ids, model.ID)
		owners[model.ID] = model.OwnedBy
	}
	if err := iter.Err(); err != nil {
		logger.Fatal("failed to list models", zap.Error(err))
	}

	fmt.Println("Available OpenAI models")
	fmt.Println("=======================")
	for _, group := range ai.GroupModelIDs(ids) {
		title := group.Name + " models"
		fmt.Printf("\n%s\n%s\n", title, strings.Repeat("-", len(title)))
		for _, id := range group.IDs {
			if owner := owners[id]; owner != "" && owner != "openai" && owner != "system" {
				fmt.Printf("  %s (owned by %s)\n", id, owner)
				continue
			}
			fmt.Printf("  %s\n", id)
		}
	}

	fmt.Printf("\nTotal models available: %d\n", len(ids))
	fmt.Printf("Drafting model in use: %s\n", cfg.OpenAI.Model)

	if len(ids) == 0 {
		os.Exit(1)
	}
}

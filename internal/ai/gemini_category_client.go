package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shinyyama/virtual-fridge/internal/reqctx"
	"google.golang.org/genai"
)

const DefaultCategoryModel = "gemini-2.5-flash"

type CategoryClient struct {
	model   string
	client  *genai.Client
	timeout time.Duration
}

func NewCategoryClient(ctx context.Context, apiKey, model string) (*CategoryClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is empty")
	}
	if model == "" {
		model = DefaultCategoryModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &CategoryClient{model: model, client: client, timeout: 10 * time.Second}, nil
}

// Classify asks Gemini for one of slugs for the given product name.
func (c *CategoryClient) Classify(ctx context.Context, name string, slugs []string) (string, error) {
	rid := reqctx.RID(ctx)
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	parts := []*genai.Part{
		genai.NewPartFromText(BuildCategoryPrompt(slugs)),
		genai.NewPartFromText(fmt.Sprintf("Product: %s", name)),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}
	temp := float32(0)
	config := &genai.GenerateContentConfig{
		Temperature: &temp,
	}
	start := time.Now()
	res, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		log.Printf("[category] rid=%s stage=gemini_fail model=%s err=%v", rid, c.model, err)
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	rawText := res.Text()
	slug, err := ParseCategory(rawText, slugs)
	if err != nil {
		text := strings.ReplaceAll(rawText, "\n", " ")
		if len(text) > 80 {
			text = text[:80]
		}
		log.Printf("[category] rid=%s stage=parse_fail text=%q err=%v", rid, text, err)
		return "", err
	}
	log.Printf("[category] rid=%s stage=gemini_ok slug=%s genMs=%d", rid, slug, time.Since(start).Milliseconds())
	return slug, nil
}

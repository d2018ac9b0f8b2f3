package collab

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/dotsetgreg/leadpilot/pkg/providers"
)

const describeImagePrompt = `Describe this image for a commercial lighting sales conversation.
Note anything relevant: the kind of space or facility, existing fixtures,
scale, and visible problems. Two or three sentences.`

const extractDocumentPrompt = `Extract the text content of this document.
Return the plain text only, preserving structure where possible. If the
document is a spec sheet or RFP, keep quantities and requirements intact.`

// VisionDescriber describes customer-supplied images through a
// vision-capable chat model. Accepts either a fetchable URL or inline
// bytes (sent as a data URI).
type VisionDescriber struct {
	provider providers.LLMProvider
	model    string
}

func NewVisionDescriber(provider providers.LLMProvider, model string) *VisionDescriber {
	return &VisionDescriber{provider: provider, model: model}
}

func (d *VisionDescriber) Describe(ctx context.Context, url string, data []byte) (string, error) {
	imageURL := strings.TrimSpace(url)
	if imageURL == "" {
		if len(data) == 0 {
			return "", fmt.Errorf("image has neither url nor data")
		}
		imageURL = "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data)
	}

	resp, err := d.provider.Chat(ctx, []providers.Message{
		{
			Role: "user",
			Content: []map[string]interface{}{
				{"type": "text", "text": describeImagePrompt},
				{"type": "image_url", "image_url": map[string]string{"url": imageURL}},
			},
		},
	}, d.model, map[string]interface{}{
		"max_tokens":  300,
		"temperature": 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("describe image: %w", err)
	}
	out := strings.TrimSpace(resp.Content)
	if out == "" {
		return "", fmt.Errorf("empty image description")
	}
	return out, nil
}

// VisionExtractor pulls plain text out of uploaded documents by handing
// them to a vision/file-capable chat model as a data URI.
type VisionExtractor struct {
	provider providers.LLMProvider
	model    string
}

func NewVisionExtractor(provider providers.LLMProvider, model string) *VisionExtractor {
	return &VisionExtractor{provider: provider, model: model}
}

func (e *VisionExtractor) Extract(ctx context.Context, doc []byte) (string, error) {
	if len(doc) == 0 {
		return "", fmt.Errorf("empty document payload")
	}

	docURL := "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(doc)
	resp, err := e.provider.Chat(ctx, []providers.Message{
		{
			Role: "user",
			Content: []map[string]interface{}{
				{"type": "text", "text": extractDocumentPrompt},
				{"type": "image_url", "image_url": map[string]string{"url": docURL}},
			},
		},
	}, e.model, map[string]interface{}{
		"max_tokens":  2000,
		"temperature": 0.0,
	})
	if err != nil {
		return "", fmt.Errorf("extract document: %w", err)
	}
	out := strings.TrimSpace(resp.Content)
	if out == "" {
		return "", fmt.Errorf("empty document extraction")
	}
	return out, nil
}

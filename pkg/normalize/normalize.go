// Package normalize flattens a turn's attachments into plain-text
// blocks appended to the message body. Attachments are processed
// concurrently with per-attachment error isolation: one failed
// transcription never fails the turn or its siblings.
package normalize

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dotsetgreg/leadpilot/pkg/collab"
	"github.com/dotsetgreg/leadpilot/pkg/logger"
)

const (
	AttachmentAudio = "audio"
	AttachmentImage = "image"
	AttachmentPDF   = "pdf"
)

const maxConcurrentAttachments = 4

// Attachment is one piece of non-text input on a turn, carrying either
// inline bytes or a reference URL.
type Attachment struct {
	Type string `json:"type"` // audio | image | pdf
	URL  string `json:"url,omitempty"`
	Data []byte `json:"data,omitempty"`
}

type Normalizer struct {
	transcriber collab.Transcriber
	describer   collab.ImageDescriber
	extractor   collab.DocumentExtractor
}

func NewNormalizer(transcriber collab.Transcriber, describer collab.ImageDescriber, extractor collab.DocumentExtractor) *Normalizer {
	return &Normalizer{
		transcriber: transcriber,
		describer:   describer,
		extractor:   extractor,
	}
}

// Normalize returns the turn text with one labeled block appended per
// successfully processed attachment, in the original attachment order.
// Failed attachments are logged and skipped.
func (n *Normalizer) Normalize(ctx context.Context, text string, attachments []Attachment) string {
	if len(attachments) == 0 {
		return text
	}

	blocks := make([]string, len(attachments))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentAttachments)
	for i, att := range attachments {
		g.Go(func() error {
			block, err := n.processOne(gctx, att)
			if err != nil {
				logger.WarnCF("normalize", "Attachment processing failed", map[string]interface{}{
					"type":  att.Type,
					"index": i,
					"error": err.Error(),
				})
				return nil
			}
			blocks[i] = block
			return nil
		})
	}
	// workers never return errors; Wait only joins the fan-out
	_ = g.Wait()

	var sb strings.Builder
	sb.WriteString(text)
	for _, block := range blocks {
		if block == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(block)
	}
	return sb.String()
}

func (n *Normalizer) processOne(ctx context.Context, att Attachment) (string, error) {
	switch att.Type {
	case AttachmentAudio:
		if n.transcriber == nil {
			return "", fmt.Errorf("no transcriber configured")
		}
		transcript, err := n.transcriber.Transcribe(ctx, att.Data)
		if err != nil {
			return "", err
		}
		return "[Voice message transcribed]: " + transcript, nil

	case AttachmentImage:
		if n.describer == nil {
			return "", fmt.Errorf("no image describer configured")
		}
		description, err := n.describer.Describe(ctx, att.URL, att.Data)
		if err != nil {
			return "", err
		}
		return "[Image analysis]: " + description, nil

	case AttachmentPDF:
		if n.extractor == nil {
			return "", fmt.Errorf("no document extractor configured")
		}
		content, err := n.extractor.Extract(ctx, att.Data)
		if err != nil {
			return "", err
		}
		return "[Document content]: " + content, nil

	default:
		return "", fmt.Errorf("unknown attachment type %q", att.Type)
	}
}

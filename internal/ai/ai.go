package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrNotConfigured is returned when the provider for a capability has no API key.
	ErrNotConfigured = errors.New("not configured")
	// ErrTimeout is returned when a provider does not answer within the client timeout.
	ErrTimeout = errors.New("request timed out")

	errTextNotConfigured  = fmt.Errorf("text generation %w: set GEMINI_API_KEY", ErrNotConfigured)
	errImageNotConfigured = fmt.Errorf("image generation %w: set OPENAI_API_KEY", ErrNotConfigured)
)

// TextGenerator turns a prompt into text.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// ImageGenerator turns a prompt into encoded image bytes.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}

// Describer produces a textual description of an encoded image.
type Describer interface {
	DescribeImage(ctx context.Context, image []byte, mimeType string) (string, error)
}

// Generator is the capability the dashboard needs from generative providers.
type Generator interface {
	TextGenerator
	ImageGenerator
}

// Gateway combines two independent providers. Either half may be nil, in
// which case its calls fail with ErrNotConfigured.
type Gateway struct {
	Text  TextGenerator
	Image ImageGenerator
}

func (g *Gateway) GenerateText(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.Text == nil {
		return "", errTextNotConfigured
	}
	return g.Text.GenerateText(ctx, prompt)
}

func (g *Gateway) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	if g == nil || g.Image == nil {
		return nil, errImageNotConfigured
	}
	return g.Image.GenerateImage(ctx, prompt)
}

// DescribeImage delegates to the text provider when it understands images.
func (g *Gateway) DescribeImage(ctx context.Context, image []byte, mimeType string) (string, error) {
	if g == nil || g.Text == nil {
		return "", errTextNotConfigured
	}
	d, ok := g.Text.(Describer)
	if !ok {
		return "", fmt.Errorf("image description %w for this provider", ErrNotConfigured)
	}
	return d.DescribeImage(ctx, image, mimeType)
}

// TextConfigured reports whether text generation has a provider.
func (g *Gateway) TextConfigured() bool { return g != nil && g.Text != nil }

// ImageConfigured reports whether image generation has a provider.
func (g *Gateway) ImageConfigured() bool { return g != nil && g.Image != nil }

// wrapTransport marks client timeouts with ErrTimeout.
func wrapTransport(provider string, err error) error {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return fmt.Errorf("%s %w: %v", provider, ErrTimeout, err)
	}
	return fmt.Errorf("%s request failed: %w", provider, err)
}

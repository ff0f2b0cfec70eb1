package faceapi

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/saturnino-fabrica-de-software/veriface/internal/provider"
)

// Provider adapts the face API client to the provider contracts. The
// pipeline commits to at most one face per frame, so only the first face
// in a landmark or emotion response is used.
type Provider struct {
	client *Client
}

// NewProvider creates a face API provider.
func NewProvider(config Config) *Provider {
	return &Provider{client: NewClient(config)}
}

// Landmarks returns the normalized face-mesh of the first detected face,
// or an empty slice when no face was found.
func (p *Provider) Landmarks(ctx context.Context, frameJPEG []byte) ([]provider.Point, error) {
	resp, err := p.client.Landmarks(ctx, base64.StdEncoding.EncodeToString(frameJPEG))
	if err != nil {
		return nil, fmt.Errorf("landmarks: %w", err)
	}

	if len(resp.Faces) == 0 {
		return nil, nil
	}

	pts := resp.Faces[0].Landmarks
	if len(pts) < provider.MinLandmarks {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewLandmarks, len(pts))
	}
	return pts, nil
}

// Scores returns one authenticity score per face detected on the frame.
func (p *Provider) Scores(ctx context.Context, frameJPEG []byte) ([]float64, error) {
	resp, err := p.client.TextureScore(ctx, base64.StdEncoding.EncodeToString(frameJPEG))
	if err != nil {
		return nil, fmt.Errorf("texture score: %w", err)
	}
	return resp.Scores, nil
}

// Emotion returns the dominant expression of the first detected face, or
// nil when no face was found.
func (p *Provider) Emotion(ctx context.Context, frameJPEG []byte) (*provider.EmotionReading, error) {
	resp, err := p.client.Emotion(ctx, base64.StdEncoding.EncodeToString(frameJPEG))
	if err != nil {
		return nil, fmt.Errorf("emotion: %w", err)
	}

	if len(resp.Faces) == 0 {
		return nil, nil
	}
	face := resp.Faces[0]
	return &provider.EmotionReading{Label: face.Emotion, Confidence: face.Confidence}, nil
}

var (
	_ provider.LandmarkProvider  = (*Provider)(nil)
	_ provider.TextureScorer     = (*Provider)(nil)
	_ provider.EmotionClassifier = (*Provider)(nil)
)

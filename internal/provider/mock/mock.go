package mock

import (
	"bytes"
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/Phucht59/Face-detect/internal/domain"
	"github.com/Phucht59/Face-detect/internal/provider"
)

// Provider implements provider.FaceDetector for tests and development.
// Every decodable image is reported as containing exactly one face covering
// the full frame, so the whole pipeline stays deterministic without a real
// detector running.
type Provider struct{}

// New creates a new mock detector
func New() *Provider {
	return &Provider{}
}

// DetectFaces reports a single full-frame face for any decodable image
func (p *Provider) DetectFaces(ctx context.Context, img []byte) ([]provider.DetectedFace, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(img))
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	return []provider.DetectedFace{
		{
			BoundingBox: provider.BoundingBox{
				X:      0,
				Y:      0,
				Width:  cfg.Width,
				Height: cfg.Height,
			},
			Confidence: 0.99,
		},
	}, nil
}

var _ provider.FaceDetector = (*Provider)(nil)

package deepface

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"

	"github.com/Phucht59/Face-detect/internal/provider"
)

const (
	// minFaceArea is the minimum face area (in pixels²) for reliable detection
	minFaceArea = 2500 // 50x50 pixels
	// maxFaceArea is used for confidence scaling
	maxFaceArea = 250000 // 500x500 pixels
)

// Provider implements provider.FaceDetector using a DeepFace API sidecar
type Provider struct {
	client *Client
}

// NewProvider creates a new DeepFace detector
func NewProvider(config Config) *Provider {
	return &Provider{
		client: NewClient(config),
	}
}

// DetectFaces locates faces in the image via the sidecar
func (p *Provider) DetectFaces(ctx context.Context, image []byte) ([]provider.DetectedFace, error) {
	imageBase64 := base64.StdEncoding.EncodeToString(image)

	resp, err := p.client.Analyze(ctx, imageBase64)
	if err != nil {
		return nil, fmt.Errorf("detect faces: %w", err)
	}

	faces := make([]provider.DetectedFace, 0, len(resp.Results))
	for _, result := range resp.Results {
		region := result.Region
		faces = append(faces, provider.DetectedFace{
			BoundingBox: provider.BoundingBox{
				X:      region.X,
				Y:      region.Y,
				Width:  region.W,
				Height: region.H,
			},
			Confidence: calculateConfidence(float64(region.W * region.H)),
		})
	}

	return faces, nil
}

// calculateConfidence estimates confidence from face area, since DeepFace
// detection responses carry no confidence of their own
func calculateConfidence(faceArea float64) float64 {
	if faceArea < minFaceArea {
		return 0.5
	}
	normalized := math.Min(1.0, (faceArea-minFaceArea)/(maxFaceArea-minFaceArea))
	return 0.7 + (normalized * 0.29)
}

var _ provider.FaceDetector = (*Provider)(nil)

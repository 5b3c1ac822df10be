package rekognition

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/aws/smithy-go"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/Phucht59/Face-detect/internal/provider"
)

const (
	// maxImageSize is the maximum image size supported by AWS Rekognition (5MB)
	maxImageSize = 5 * 1024 * 1024
	// minImageSize is the minimum image size for valid processing
	minImageSize = 100

	errCodeAccessDenied     = "AccessDeniedException"
	errCodeInvalidParameter = "InvalidParameterException"
)

// Provider implements provider.FaceDetector using the AWS Rekognition
// DetectFaces API.
type Provider struct {
	client *rekognition.Client
	config Config
}

var _ provider.FaceDetector = (*Provider)(nil)

// NewProvider creates a Rekognition-backed detector using the AWS default
// credential chain.
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Provider{
		client: rekognition.NewFromConfig(awsCfg),
		config: cfg,
	}, nil
}

// validateImage checks if image data is valid for Rekognition processing
func validateImage(img []byte) error {
	if len(img) < minImageSize {
		return fmt.Errorf("%w: image too small (%d bytes, minimum %d)", ErrInvalidImage, len(img), minImageSize)
	}
	if len(img) > maxImageSize {
		return fmt.Errorf("%w: image too large (%d bytes, maximum %d)", ErrInvalidImage, len(img), maxImageSize)
	}
	return nil
}

// DetectFaces detects faces using the Rekognition DetectFaces API.
// Rekognition reports relative bounding boxes, so the image header is decoded
// locally to convert them to pixel coordinates.
func (p *Provider) DetectFaces(ctx context.Context, img []byte) ([]provider.DetectedFace, error) {
	if err := validateImage(img); err != nil {
		return nil, err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(img))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	input := &rekognition.DetectFacesInput{
		Image: &types.Image{
			Bytes: img,
		},
		Attributes: []types.Attribute{types.AttributeDefault},
	}

	output, err := p.client.DetectFaces(ctx, input)
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.ErrorCode() {
			case errCodeAccessDenied:
				return nil, fmt.Errorf("detect faces: %w", ErrInvalidCredentials)
			case errCodeInvalidParameter:
				return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
			}
		}
		return nil, fmt.Errorf("detect faces: %w", err)
	}

	return facesFromDetails(output.FaceDetails, cfg.Width, cfg.Height), nil
}

// facesFromDetails converts Rekognition's relative bounding boxes to pixel
// coordinates. The SDK models every field as a pointer; faces with an
// incomplete box are skipped, a missing confidence defaults to zero.
func facesFromDetails(details []types.FaceDetail, width, height int) []provider.DetectedFace {
	faces := make([]provider.DetectedFace, 0, len(details))
	for _, detail := range details {
		box := detail.BoundingBox
		if box == nil || box.Left == nil || box.Top == nil || box.Width == nil || box.Height == nil {
			continue
		}

		var confidence float64
		if detail.Confidence != nil {
			confidence = float64(*detail.Confidence) / 100.0
		}

		faces = append(faces, provider.DetectedFace{
			BoundingBox: provider.BoundingBox{
				X:      int(float64(*box.Left) * float64(width)),
				Y:      int(float64(*box.Top) * float64(height)),
				Width:  int(float64(*box.Width) * float64(width)),
				Height: int(float64(*box.Height) * float64(height)),
			},
			Confidence: confidence,
		})
	}
	return faces
}

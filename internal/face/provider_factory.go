package face

import (
	"context"
	"fmt"

	"github.com/Phucht59/Face-detect/internal/config"
	"github.com/Phucht59/Face-detect/internal/provider"
	"github.com/Phucht59/Face-detect/internal/provider/deepface"
	"github.com/Phucht59/Face-detect/internal/provider/mock"
	"github.com/Phucht59/Face-detect/internal/provider/rekognition"
)

// DetectorType defines supported face detector types
type DetectorType string

const (
	// DetectorTypeDeepFace is the DeepFace sidecar detector (local, for dev/test)
	DetectorTypeDeepFace DetectorType = "deepface"
	// DetectorTypeRekognition is the AWS Rekognition detector (cloud, for prod)
	DetectorTypeRekognition DetectorType = "rekognition"
	// DetectorTypeMock is the deterministic full-frame detector (tests only)
	DetectorTypeMock DetectorType = "mock"
)

// NewFaceDetector creates a FaceDetector instance based on configuration.
//
// Environment variables:
//   - FACE_DETECTOR: "deepface", "rekognition" or "mock" (default: "deepface")
//   - DEEPFACE_URL: DeepFace sidecar URL (default: "http://localhost:5005")
//   - AWS_REGION: AWS region for Rekognition (default: "us-east-1")
//   - AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY: via AWS SDK credential chain
func NewFaceDetector(ctx context.Context, cfg *config.Config) (provider.FaceDetector, error) {
	switch DetectorType(cfg.FaceDetector) {
	case DetectorTypeRekognition:
		return createRekognitionDetector(ctx, cfg)

	case DetectorTypeMock:
		return mock.New(), nil

	case DetectorTypeDeepFace, "":
		// Default to DeepFace for dev/test environments
		return createDeepFaceDetector(cfg), nil

	default:
		return nil, fmt.Errorf("unknown detector type: %s (supported: %s, %s, %s)",
			cfg.FaceDetector, DetectorTypeDeepFace, DetectorTypeRekognition, DetectorTypeMock)
	}
}

// createRekognitionDetector creates an AWS Rekognition detector instance
func createRekognitionDetector(ctx context.Context, cfg *config.Config) (provider.FaceDetector, error) {
	rekogConfig := rekognition.Config{
		Region: cfg.AWSRegion,
	}
	if rekogConfig.Region == "" {
		rekogConfig = rekognition.DefaultConfig()
	}

	det, err := rekognition.NewProvider(ctx, rekogConfig)
	if err != nil {
		return nil, fmt.Errorf("create rekognition detector: %w", err)
	}

	return det, nil
}

// createDeepFaceDetector creates a DeepFace sidecar detector instance
func createDeepFaceDetector(cfg *config.Config) provider.FaceDetector {
	deepfaceConfig := deepface.DefaultConfig()
	if cfg.DeepFaceURL != "" {
		deepfaceConfig.BaseURL = cfg.DeepFaceURL
	}

	return deepface.NewProvider(deepfaceConfig)
}

package provider

import "context"

// FaceDetector is the detection black box the encoder builds on. How faces
// are found is a provider concern; the core only consumes regions.
type FaceDetector interface {
	// DetectFaces returns every face region found in the image, in source
	// pixel coordinates.
	DetectFaces(ctx context.Context, image []byte) ([]DetectedFace, error)
}

// DetectedFace is one face region reported by a detector.
type DetectedFace struct {
	BoundingBox BoundingBox `json:"bounding_box"`
	Confidence  float64     `json:"confidence"`
}

// BoundingBox is a face area in source image pixels.
type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

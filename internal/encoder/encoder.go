// Package encoder turns raw images into fixed-dimension feature vectors.
// Detection itself is delegated to a provider; the encoder validates that
// exactly one usable face is present, then normalizes the region to a fixed
// geometry so every vector shares the same dimension regardless of source
// image size.
package encoder

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"

	"github.com/Phucht59/Face-detect/internal/domain"
	"github.com/Phucht59/Face-detect/internal/provider"
)

// Encoder produces feature vectors of dimension Size*Size.
type Encoder struct {
	detector provider.FaceDetector
	size     int
}

// New creates an encoder with the given detector and target face geometry.
func New(detector provider.FaceDetector, size int) *Encoder {
	return &Encoder{
		detector: detector,
		size:     size,
	}
}

// Dimension returns the length of every vector this encoder produces.
func (e *Encoder) Dimension() int {
	return e.size * e.size
}

// Encode validates that the image contains exactly one detectable face and
// returns its normalized grayscale feature vector. The same bytes with the
// same detector configuration always produce the same vector.
func (e *Encoder) Encode(ctx context.Context, img []byte) ([]float64, error) {
	src, _, err := image.Decode(bytes.NewReader(img))
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	faces, err := e.detector.DetectFaces(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}

	if len(faces) == 0 {
		return nil, domain.ErrNoFaceDetected
	}
	if len(faces) > 1 {
		return nil, domain.ErrMultipleFaces
	}

	region := clampToBounds(faces[0].BoundingBox, src.Bounds())
	if region.Empty() {
		return nil, domain.ErrNoFaceDetected
	}

	// Fixed geometry: crop, scale to size x size, grayscale.
	face := image.NewGray(image.Rect(0, 0, e.size, e.size))
	xdraw.ApproxBiLinear.Scale(face, face.Bounds(), src, region, xdraw.Src, nil)

	vector := make([]float64, 0, e.size*e.size)
	for y := 0; y < e.size; y++ {
		for x := 0; x < e.size; x++ {
			vector = append(vector, float64(face.GrayAt(x, y).Y)/255.0)
		}
	}

	return vector, nil
}

// clampToBounds intersects a detector-reported box with the actual image.
func clampToBounds(box provider.BoundingBox, bounds image.Rectangle) image.Rectangle {
	r := image.Rect(box.X, box.Y, box.X+box.Width, box.Y+box.Height)
	return r.Add(bounds.Min).Intersect(bounds)
}

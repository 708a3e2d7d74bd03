// Package local implements a fully in-process descriptor extractor: pigo
// cascade detection followed by a histogram-based face descriptor. It needs no
// sidecar service, only the cascade file shipped with the binary.
package local

import (
	"context"
	"fmt"
	"image"
	"os"

	pigo "github.com/esimov/pigo/core"

	"github.com/saturnino-fabrica-de-software/presenca/internal/domain"
	"github.com/saturnino-fabrica-de-software/presenca/internal/extractor"
)

const (
	minFaceSize = 30
	maxFaceSize = 1200

	shiftFactor = 0.1
	scaleFactor = 1.1

	// detections below this cascade quality are discarded as noise
	minQuality = 5.0

	clusterIoU = 0.2
)

// Extractor detecta faces com um classificador pigo e codifica cada região
// detectada com Encode.
type Extractor struct {
	classifier *pigo.Pigo
}

// New unpacks a pigo cascade and returns a ready extractor.
func New(cascade []byte) (*Extractor, error) {
	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("unpack cascade: %w", err)
	}
	return &Extractor{classifier: classifier}, nil
}

// NewFromFile loads the cascade from disk.
func NewFromFile(path string) (*Extractor, error) {
	cascade, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cascade %s: %w", path, err)
	}
	return New(cascade)
}

func (e *Extractor) Dimension() int {
	return Dimension
}

func (e *Extractor) Extract(ctx context.Context, img image.Image) ([]extractor.Face, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src := pigo.ImgToNRGBA(img)
	pixels := pigo.RgbToGrayscale(src)
	cols := src.Bounds().Dx()
	rows := src.Bounds().Dy()

	params := pigo.CascadeParams{
		MinSize:     minFaceSize,
		MaxSize:     maxFaceSize,
		ShiftFactor: shiftFactor,
		ScaleFactor: scaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: pixels,
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	dets := e.classifier.RunCascade(params, 0.0)
	dets = e.classifier.ClusterDetections(dets, clusterIoU)

	faces := make([]extractor.Face, 0, len(dets))
	for _, det := range dets {
		if det.Q < minQuality {
			continue
		}

		box := domain.BoundingBox{
			X:      det.Col - det.Scale/2,
			Y:      det.Row - det.Scale/2,
			Width:  det.Scale,
			Height: det.Scale,
		}

		faces = append(faces, extractor.Face{
			Box:        box,
			Descriptor: Encode(grayRegion(img, box)),
		})
	}

	return faces, nil
}

var _ extractor.Extractor = (*Extractor)(nil)

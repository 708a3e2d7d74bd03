// Package mock implements a deterministic extractor para testes e
// desenvolvimento sem câmera nem sidecar: uma face por imagem, com descriptor
// derivado do hash dos pixels.
package mock

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"image"
	"math"

	"github.com/saturnino-fabrica-de-software/presenca/internal/domain"
	"github.com/saturnino-fabrica-de-software/presenca/internal/extractor"
)

const embeddingDimension = 512

// Extractor implementa extractor.Extractor para testes e desenvolvimento
type Extractor struct{}

// New cria uma nova instância do mock
func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Dimension() int {
	return embeddingDimension
}

// Extract reports a single centered face whose descriptor is a pure function
// of the image pixels.
func (e *Extractor) Extract(ctx context.Context, img image.Image) ([]extractor.Face, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w == 0 || h == 0 {
		return nil, domain.ErrInvalidImage
	}

	return []extractor.Face{
		{
			Box: domain.BoundingBox{
				X:      w / 10,
				Y:      h / 10,
				Width:  w * 8 / 10,
				Height: h * 8 / 10,
			},
			Descriptor: generateDescriptor(img),
		},
	}, nil
}

// generateDescriptor gera um descriptor determinístico a partir do hash dos
// pixels da imagem, normalizado para comprimento unitário.
func generateDescriptor(img image.Image) domain.Descriptor {
	hasher := sha256.New()
	bounds := img.Bounds()

	var px [8]byte
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			binary.LittleEndian.PutUint16(px[0:], uint16(r))
			binary.LittleEndian.PutUint16(px[2:], uint16(g))
			binary.LittleEndian.PutUint16(px[4:], uint16(b))
			binary.LittleEndian.PutUint16(px[6:], uint16(a))
			hasher.Write(px[:])
		}
	}

	hash := hasher.Sum(nil)
	descriptor := make(domain.Descriptor, embeddingDimension)
	for i := 0; i < embeddingDimension; i++ {
		descriptor[i] = (float64(hash[i%len(hash)])/255.0)*2 - 1
	}

	norm := 0.0
	for _, v := range descriptor {
		norm += v * v
	}
	norm = math.Sqrt(norm)

	for i := range descriptor {
		descriptor[i] /= norm
	}

	return descriptor
}

var _ extractor.Extractor = (*Extractor)(nil)

// Package deepface implements the descriptor extractor against a DeepFace
// sidecar API. Detection and embedding both run remotely; the service is
// stateless, so the same frame always yields the same descriptors.
package deepface

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/saturnino-fabrica-de-software/presenca/internal/domain"
	"github.com/saturnino-fabrica-de-software/presenca/internal/extractor"
)

// embeddingDimension is fixed by the Facenet512 model the client requests.
const embeddingDimension = 512

const jpegQuality = 90

// Extractor implements extractor.Extractor using the DeepFace API
type Extractor struct {
	client *Client
}

// New creates a new DeepFace extractor
func New(config Config) *Extractor {
	return &Extractor{
		client: NewClient(config),
	}
}

func (e *Extractor) Dimension() int {
	return embeddingDimension
}

func (e *Extractor) Extract(ctx context.Context, img image.Image) ([]extractor.Face, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	resp, err := e.client.Represent(ctx, base64.StdEncoding.EncodeToString(buf.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("represent: %w", err)
	}

	faces := make([]extractor.Face, 0, len(resp.Results))
	for _, result := range resp.Results {
		if len(result.Embedding) != embeddingDimension {
			return nil, fmt.Errorf("%w: embedding length %d", ErrInvalidResponse, len(result.Embedding))
		}

		faces = append(faces, extractor.Face{
			Box: domain.BoundingBox{
				X:      result.FacialArea.X,
				Y:      result.FacialArea.Y,
				Width:  result.FacialArea.W,
				Height: result.FacialArea.H,
			},
			Descriptor: domain.Descriptor(result.Embedding),
		})
	}

	return faces, nil
}

var _ extractor.Extractor = (*Extractor)(nil)

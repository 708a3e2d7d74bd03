package extractor

import (
	"context"
	"image"

	"github.com/saturnino-fabrica-de-software/presenca/internal/domain"
)

// Face é uma face detectada em uma imagem, com seu descriptor já calculado.
type Face struct {
	Box        domain.BoundingBox
	Descriptor domain.Descriptor
}

// Extractor converte uma imagem decodificada em zero ou mais faces com
// descriptors de comprimento fixo. Implementações são funções puras da
// imagem: a mesma imagem produz sempre o mesmo conjunto de descriptors.
type Extractor interface {
	// Extract detecta faces e calcula um descriptor por face detectada.
	// Nenhuma face encontrada retorna slice vazio, não erro.
	Extract(ctx context.Context, img image.Image) ([]Face, error)

	// Dimension retorna o comprimento dos descriptors produzidos.
	Dimension() int
}

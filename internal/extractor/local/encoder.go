package local

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/saturnino-fabrica-de-software/presenca/internal/domain"
)

const (
	// Dimension is the descriptor length: intensity histogram + 3x3 grid of
	// (mean, stddev) + edge-map histogram.
	Dimension = histBins + gridCells*2 + histBins

	histBins  = 256
	gridSide  = 3
	gridCells = gridSide * gridSide

	faceSize      = 128
	roiPadding    = 20
	edgeThreshold = 128.0
	epsilon       = 1e-7
)

// Encode calcula o descriptor de uma região de face. A região é redimensionada
// para um tamanho fixo e equalizada antes da extração, deixando o descriptor
// razoavelmente estável sob variações de iluminação.
func Encode(face *image.Gray) domain.Descriptor {
	eq := equalize(resizeGray(face, faceSize, faceSize))

	desc := make(domain.Descriptor, 0, Dimension)
	desc = append(desc, intensityHistogram(eq)...)
	desc = append(desc, gridStats(eq)...)
	desc = append(desc, edgeHistogram(eq)...)

	return desc
}

// grayRegion recorta uma região da imagem, com padding fixo limitado às
// bordas, e a converte para tons de cinza.
func grayRegion(img image.Image, box domain.BoundingBox) *image.Gray {
	bounds := img.Bounds()

	x0 := max(bounds.Min.X, box.X-roiPadding)
	y0 := max(bounds.Min.Y, box.Y-roiPadding)
	x1 := min(bounds.Max.X, box.X+box.Width+roiPadding)
	y1 := min(bounds.Max.Y, box.Y+box.Height+roiPadding)

	gray := image.NewGray(image.Rect(0, 0, x1-x0, y1-y0))
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			gray.Set(x-x0, y-y0, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return gray
}

func resizeGray(src *image.Gray, w, h int) *image.Gray {
	if src.Bounds().Dx() == w && src.Bounds().Dy() == h {
		return src
	}
	dst := image.NewGray(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// equalize aplica equalização de histograma pelo CDF das intensidades.
func equalize(src *image.Gray) *image.Gray {
	bounds := src.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return src
	}

	var hist [histBins]int
	for _, p := range src.Pix {
		hist[p]++
	}

	var lut [histBins]uint8
	cum := 0
	for i := 0; i < histBins; i++ {
		cum += hist[i]
		lut[i] = uint8(math.Round(float64(cum) * 255.0 / float64(total)))
	}

	dst := image.NewGray(bounds)
	for i, p := range src.Pix {
		dst.Pix[i] = lut[p]
	}
	return dst
}

func intensityHistogram(img *image.Gray) []float64 {
	hist := make([]float64, histBins)
	for _, p := range img.Pix {
		hist[p]++
	}
	normalizeHistogram(hist)
	return hist
}

// gridStats divide a face em uma grade 3x3 e calcula média e desvio padrão de
// cada célula, capturando a distribuição espacial das intensidades.
func gridStats(img *image.Gray) []float64 {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()

	stats := make([]float64, 0, gridCells*2)
	for i := 0; i < gridSide; i++ {
		for j := 0; j < gridSide; j++ {
			y0, y1 := i*h/gridSide, (i+1)*h/gridSide
			x0, x1 := j*w/gridSide, (j+1)*w/gridSide

			var sum, sumSq float64
			n := float64((y1 - y0) * (x1 - x0))
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					v := float64(img.GrayAt(x, y).Y)
					sum += v
					sumSq += v * v
				}
			}

			mean := sum / n
			variance := sumSq/n - mean*mean
			if variance < 0 {
				variance = 0
			}
			stats = append(stats, mean, math.Sqrt(variance))
		}
	}
	return stats
}

// edgeHistogram binariza o mapa de magnitude do gradiente (Sobel) e devolve o
// histograma normalizado do mapa resultante.
func edgeHistogram(img *image.Gray) []float64 {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()

	hist := make([]float64, histBins)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x == 0 || y == 0 || x == w-1 || y == h-1 {
				hist[0]++
				continue
			}

			gx := -float64(img.GrayAt(x-1, y-1).Y) + float64(img.GrayAt(x+1, y-1).Y) +
				-2*float64(img.GrayAt(x-1, y).Y) + 2*float64(img.GrayAt(x+1, y).Y) +
				-float64(img.GrayAt(x-1, y+1).Y) + float64(img.GrayAt(x+1, y+1).Y)
			gy := -float64(img.GrayAt(x-1, y-1).Y) - 2*float64(img.GrayAt(x, y-1).Y) - float64(img.GrayAt(x+1, y-1).Y) +
				float64(img.GrayAt(x-1, y+1).Y) + 2*float64(img.GrayAt(x, y+1).Y) + float64(img.GrayAt(x+1, y+1).Y)

			if math.Sqrt(gx*gx+gy*gy) >= edgeThreshold {
				hist[255]++
			} else {
				hist[0]++
			}
		}
	}
	normalizeHistogram(hist)
	return hist
}

func normalizeHistogram(hist []float64) {
	var sum float64
	for _, v := range hist {
		sum += v
	}
	for i := range hist {
		hist[i] /= sum + epsilon
	}
}

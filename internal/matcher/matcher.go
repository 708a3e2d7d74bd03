// Package matcher implements 1:N identification over a gallery snapshot.
// Matching is a pure function of its inputs; a probe either resolves to the
// single nearest identity under the threshold or to unknown. Ambiguity is
// always resolved towards unknown: um falso aceite é pior do que uma presença
// perdida.
package matcher

import (
	"math"

	"github.com/saturnino-fabrica-de-software/presenca/internal/domain"
)

// DefaultThreshold is the combined-distance tolerance tuned for the local
// histogram descriptor. Lower is stricter.
const DefaultThreshold = 0.18

// tieTolerance é a tolerância de ponto flutuante para considerar duas
// identidades empatadas na distância mínima.
const tieTolerance = 1e-9

const epsilon = 1e-7

// CosineDistance calcula 1 - similaridade coseno entre dois vetores.
// Retorna um valor entre 0 (idênticos) e 2 (opostos).
func CosineDistance(a, b domain.Descriptor) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 2.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 2.0
	}

	similarity := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// Clamp to [-1, 1] to handle floating point errors
	if similarity > 1 {
		similarity = 1
	}
	if similarity < -1 {
		similarity = -1
	}

	return 1 - similarity
}

// NormalizedEuclidean calcula a distância euclidiana dividida pela soma das
// normas dos dois vetores, ficando aproximadamente em [0, 1].
func NormalizedEuclidean(a, b domain.Descriptor) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1.0
	}

	var diff, normA, normB float64
	for i := range a {
		d := a[i] - b[i]
		diff += d * d
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	return math.Sqrt(diff) / (math.Sqrt(normA) + math.Sqrt(normB) + epsilon)
}

// Distance é a métrica usada na identificação: combinação ponderada da
// distância coseno com a euclidiana normalizada. O peso maior fica no coseno,
// que se comporta melhor para descriptors baseados em histograma.
func Distance(a, b domain.Descriptor) float64 {
	return 0.8*CosineDistance(a, b) + 0.2*NormalizedEuclidean(a, b)
}

// Match compara o probe contra todos os descriptors de todas as identidades
// do snapshot e devolve a identidade dona da menor distância global, desde que
// dentro do threshold.
//
// Empate entre identidades distintas na distância mínima é ambíguo e resulta
// em unknown. Probe com comprimento diferente dos descriptors da galeria
// também resulta em unknown.
func Match(probe domain.Descriptor, snapshot []domain.Identity, threshold float64) domain.MatchResult {
	best := math.Inf(1)
	var bestIdentity *domain.Identity
	ambiguous := false

	for i := range snapshot {
		identity := &snapshot[i]
		for _, descriptor := range identity.Descriptors {
			if len(descriptor) != len(probe) {
				continue
			}

			d := Distance(probe, descriptor)
			switch {
			case d < best-tieTolerance:
				best = d
				bestIdentity = identity
				ambiguous = false
			case math.Abs(d-best) <= tieTolerance && bestIdentity != nil && bestIdentity.RollNumber != identity.RollNumber:
				ambiguous = true
			}
		}
	}

	if bestIdentity == nil || best > threshold || ambiguous {
		return domain.MatchResult{Distance: best, Unknown: true}
	}

	return domain.MatchResult{Identity: bestIdentity, Distance: best}
}

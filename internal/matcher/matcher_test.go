package matcher

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/presenca/internal/domain"
)

func TestCosineDistance(t *testing.T) {
	tests := []struct {
		name string
		a    domain.Descriptor
		b    domain.Descriptor
		want float64
	}{
		{
			name: "identical vectors",
			a:    domain.Descriptor{1, 2, 3},
			b:    domain.Descriptor{1, 2, 3},
			want: 0,
		},
		{
			name: "orthogonal vectors",
			a:    domain.Descriptor{1, 0},
			b:    domain.Descriptor{0, 1},
			want: 1,
		},
		{
			name: "opposite vectors",
			a:    domain.Descriptor{1, 0},
			b:    domain.Descriptor{-1, 0},
			want: 2,
		},
		{
			name: "mismatched lengths",
			a:    domain.Descriptor{1, 0},
			b:    domain.Descriptor{1, 0, 0},
			want: 2,
		},
		{
			name: "zero vector",
			a:    domain.Descriptor{0, 0},
			b:    domain.Descriptor{1, 0},
			want: 2,
		},
		{
			name: "empty vectors",
			a:    domain.Descriptor{},
			b:    domain.Descriptor{},
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineDistance(tt.a, tt.b), 1e-9)
		})
	}
}

func TestNormalizedEuclidean(t *testing.T) {
	t.Run("identical vectors", func(t *testing.T) {
		a := domain.Descriptor{1, 2, 3}
		assert.InDelta(t, 0, NormalizedEuclidean(a, a), 1e-9)
	})

	t.Run("mismatched lengths", func(t *testing.T) {
		assert.Equal(t, 1.0, NormalizedEuclidean(domain.Descriptor{1}, domain.Descriptor{1, 2}))
	})

	t.Run("stays roughly in unit range", func(t *testing.T) {
		a := domain.Descriptor{1, 0, 0}
		b := domain.Descriptor{-1, 0, 0}
		d := NormalizedEuclidean(a, b)
		assert.Greater(t, d, 0.0)
		assert.LessOrEqual(t, d, 1.0)
	})
}

func TestDistance(t *testing.T) {
	t.Run("zero for identical vectors", func(t *testing.T) {
		a := domain.Descriptor{0.5, 0.25, 0.25}
		assert.InDelta(t, 0, Distance(a, a), 1e-9)
	})

	t.Run("symmetric", func(t *testing.T) {
		a := domain.Descriptor{0.9, 0.1, 0.3}
		b := domain.Descriptor{0.2, 0.8, 0.4}
		assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-12)
	})

	t.Run("small perturbation stays under default threshold", func(t *testing.T) {
		a := domain.Descriptor{1, 0, 0}
		b := domain.Descriptor{0.99, 0.01, 0}
		assert.Less(t, Distance(a, b), DefaultThreshold)
	})
}

func identity(rollNumber, name string, descriptors ...domain.Descriptor) domain.Identity {
	return domain.Identity{
		RollNumber:  rollNumber,
		Name:        name,
		Descriptors: descriptors,
	}
}

func TestMatch(t *testing.T) {
	alice := identity("2021-CS-001", "Alice", domain.Descriptor{1, 0, 0})
	bob := identity("2021-CS-002", "Bob", domain.Descriptor{0, 1, 0})

	tests := []struct {
		name        string
		probe       domain.Descriptor
		snapshot    []domain.Identity
		threshold   float64
		wantRoll    string
		wantUnknown bool
	}{
		{
			name:      "exact match resolves to nearest identity",
			probe:     domain.Descriptor{1, 0, 0},
			snapshot:  []domain.Identity{alice, bob},
			threshold: DefaultThreshold,
			wantRoll:  "2021-CS-001",
		},
		{
			name:      "near match under threshold",
			probe:     domain.Descriptor{0.99, 0.01, 0},
			snapshot:  []domain.Identity{alice, bob},
			threshold: DefaultThreshold,
			wantRoll:  "2021-CS-001",
		},
		{
			name:        "best distance above threshold is unknown",
			probe:       domain.Descriptor{0, 0, 1},
			snapshot:    []domain.Identity{alice, bob},
			threshold:   DefaultThreshold,
			wantUnknown: true,
		},
		{
			name:        "empty gallery is unknown",
			probe:       domain.Descriptor{1, 0, 0},
			snapshot:    nil,
			threshold:   DefaultThreshold,
			wantUnknown: true,
		},
		{
			name:  "tie between distinct identities is ambiguous",
			probe: domain.Descriptor{1, 0, 0},
			snapshot: []domain.Identity{
				identity("2021-CS-001", "Alice", domain.Descriptor{1, 0, 0}),
				identity("2021-CS-002", "Bob", domain.Descriptor{1, 0, 0}),
			},
			threshold:   DefaultThreshold,
			wantUnknown: true,
		},
		{
			name:  "tie within the same identity is not ambiguous",
			probe: domain.Descriptor{1, 0, 0},
			snapshot: []domain.Identity{
				identity("2021-CS-001", "Alice", domain.Descriptor{1, 0, 0}, domain.Descriptor{1, 0, 0}),
				bob,
			},
			threshold: DefaultThreshold,
			wantRoll:  "2021-CS-001",
		},
		{
			name:  "length mismatched descriptors are skipped",
			probe: domain.Descriptor{1, 0, 0},
			snapshot: []domain.Identity{
				identity("2021-CS-003", "Carol", domain.Descriptor{1, 0}),
			},
			threshold:   DefaultThreshold,
			wantUnknown: true,
		},
		{
			name:        "zero probe never matches",
			probe:       domain.Descriptor{0, 0, 0},
			snapshot:    []domain.Identity{alice, bob},
			threshold:   DefaultThreshold,
			wantUnknown: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Match(tt.probe, tt.snapshot, tt.threshold)

			if tt.wantUnknown {
				assert.True(t, result.Unknown)
				assert.Nil(t, result.Identity)
				return
			}

			require.False(t, result.Unknown)
			require.NotNil(t, result.Identity)
			assert.Equal(t, tt.wantRoll, result.Identity.RollNumber)
			assert.LessOrEqual(t, result.Distance, tt.threshold)
		})
	}
}

func TestMatch_ThresholdMonotonicity(t *testing.T) {
	// Whatever matches under a stricter threshold must still match under a
	// looser one.
	gallery := []domain.Identity{
		identity("2021-CS-001", "Alice", domain.Descriptor{0.98, 0.02, 0}),
	}
	probe := domain.Descriptor{1, 0, 0}

	strict := Match(probe, gallery, 0.05)
	loose := Match(probe, gallery, 0.5)

	require.False(t, strict.Unknown)
	assert.False(t, loose.Unknown)
	assert.Equal(t, strict.Identity.RollNumber, loose.Identity.RollNumber)
	assert.InDelta(t, strict.Distance, loose.Distance, 1e-12)
}

func TestMatch_EmptyGalleryDistance(t *testing.T) {
	result := Match(domain.Descriptor{1, 0}, nil, DefaultThreshold)
	assert.True(t, result.Unknown)
	assert.True(t, math.IsInf(result.Distance, 1))
}

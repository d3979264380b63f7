package soil

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/porenet/pkg/network"
	"github.com/matzehuels/porenet/pkg/network/generate"
)

func TestProfileValidate(t *testing.T) {
	assert.NoError(t, DefaultProfile().Validate())
	assert.NoError(t, Profile{Depth: 10}.Validate())
	assert.ErrorIs(t, Profile{Depth: 0}.Validate(), ErrInvalidDepth)
	assert.ErrorIs(t, Profile{Depth: -5}.Validate(), ErrInvalidDepth)
	assert.ErrorIs(t, Profile{Depth: 10, SurfaceFraction: 1}.Validate(), ErrInvalidSurfaceFraction)
	assert.ErrorIs(t, Profile{Depth: 10, SurfaceFraction: -0.1}.Validate(), ErrInvalidSurfaceFraction)
	assert.ErrorIs(t, Profile{Depth: 10, SurfaceFraction: math.NaN()}.Validate(), ErrInvalidSurfaceFraction)
	assert.ErrorIs(t, Profile{Depth: math.NaN()}.Validate(), ErrInvalidDepth)
	assert.InDelta(t, 1.0, DefaultProfile().SurfaceThreshold(), 1e-12)
}

func TestInitializeDepths(t *testing.T) {
	net, err := generate.Build(generate.Complete(50))
	require.NoError(t, err)
	p, _ := net.Pore("3")
	p.Air = true

	InitializeDepths(net, rand.New(rand.NewPCG(1, 2)), 100)

	for _, p := range net.Pores() {
		assert.GreaterOrEqual(t, p.Depth, 0.0)
		assert.Less(t, p.Depth, 100.0)
		assert.False(t, p.Air, "air flag of %s not reset", p.ID)
	}
}

func TestInitializeDepthsDeterministic(t *testing.T) {
	depths := func() []float64 {
		net, err := generate.Build(generate.Star(20))
		require.NoError(t, err)
		InitializeDepths(net, rand.New(rand.NewPCG(9, 9)), 100)
		var out []float64
		for _, p := range net.Pores() {
			out = append(out, p.Depth)
		}
		return out
	}
	assert.Equal(t, depths(), depths())
}

func TestSurfacePores(t *testing.T) {
	net := network.New(nil)
	for id, d := range map[string]float64{"a": 0, "b": 0.5, "c": 0.99, "d": 1, "e": 40} {
		require.NoError(t, net.AddPore(network.Pore{ID: id, Depth: d}))
	}

	assert.Equal(t, []string{"a", "b", "c"}, SurfacePores(net, 1))
	assert.Equal(t, []string{"a"}, SurfacePores(net, 0), "zero threshold keeps exact-zero pores only")
	assert.Empty(t, SurfacePores(network.New(nil), 1))
}

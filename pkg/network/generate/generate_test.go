package generate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniform(t *testing.T) {
	for _, tc := range []struct{ n, m int }{
		{n: 10, m: 0},
		{n: 10, m: 5},
		{n: 10, m: 40}, // dense path
		{n: 10, m: 45}, // complete
		{n: 200, m: 300},
	} {
		t.Run(fmt.Sprintf("n=%d,m=%d", tc.n, tc.m), func(t *testing.T) {
			net, err := Build(Uniform(tc.n, tc.m), WithSeed(7))
			require.NoError(t, err)
			assert.Equal(t, tc.n, net.PoreCount())
			assert.Equal(t, tc.m, net.ChannelCount())
			assert.NoError(t, net.Validate())
		})
	}
}

func TestUniformErrors(t *testing.T) {
	_, err := Build(Uniform(0, 0), WithSeed(1))
	assert.ErrorIs(t, err, ErrTooFewNodes)

	_, err = Build(Uniform(4, 7), WithSeed(1))
	assert.ErrorIs(t, err, ErrTooManyEdges)

	_, err = Build(Uniform(10, 5))
	assert.ErrorIs(t, err, ErrNeedRandSource)

	net, err := Build(Uniform(4, 6))
	require.NoError(t, err, "complete budget needs no rng")
	assert.Equal(t, 6, net.ChannelCount())
}

func TestUniformDeterministic(t *testing.T) {
	a, err := Build(Uniform(100, 150), WithSeed(42))
	require.NoError(t, err)
	b, err := Build(Uniform(100, 150), WithSeed(42))
	require.NoError(t, err)
	c, err := Build(Uniform(100, 150), WithSeed(43))
	require.NoError(t, err)

	assert.Equal(t, a.Channels(), b.Channels())
	assert.NotEqual(t, a.Channels(), c.Channels())
}

func TestPreferentialAttachment(t *testing.T) {
	const n, m = 300, 2
	net, err := Build(PreferentialAttachment(n, m), WithSeed(3))
	require.NoError(t, err)

	assert.Equal(t, n, net.PoreCount())
	// star seed contributes m channels, every later pore m more
	assert.Equal(t, m+(n-m-1)*m, net.ChannelCount())
	for _, id := range net.IDs() {
		assert.GreaterOrEqual(t, net.Degree(id), 1, "pore %s is isolated", id)
	}

	again, err := Build(PreferentialAttachment(n, m), WithSeed(3))
	require.NoError(t, err)
	assert.Equal(t, net.Channels(), again.Channels())
}

func TestPreferentialAttachmentErrors(t *testing.T) {
	_, err := Build(PreferentialAttachment(5, 0), WithSeed(1))
	assert.ErrorIs(t, err, ErrInvalidAttachment)

	_, err = Build(PreferentialAttachment(5, 5), WithSeed(1))
	assert.ErrorIs(t, err, ErrInvalidAttachment)

	_, err = Build(PreferentialAttachment(5, 2))
	assert.ErrorIs(t, err, ErrNeedRandSource)
}

func TestAttachmentFromRatio(t *testing.T) {
	tests := []struct {
		nodes, edges int
		want         int
		wantErr      error
	}{
		{nodes: 1000, edges: 1000, want: 1},
		{nodes: 1000, edges: 2600, want: 3},
		{nodes: 1000, edges: 2400, want: 2},
		{nodes: 1000, edges: 10, want: 1},
		{nodes: 1, edges: 10, wantErr: ErrTooFewNodes},
		{nodes: 3, edges: 9, wantErr: ErrInvalidAttachment},
		{nodes: 10, edges: -1, wantErr: ErrInvalidAttachment},
	}
	for _, tt := range tests {
		got, err := AttachmentFromRatio(tt.nodes, tt.edges)
		if tt.wantErr != nil {
			assert.ErrorIs(t, err, tt.wantErr, "nodes=%d edges=%d", tt.nodes, tt.edges)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "nodes=%d edges=%d", tt.nodes, tt.edges)
	}
}

func TestStarAndComplete(t *testing.T) {
	star, err := Build(Star(10))
	require.NoError(t, err)
	assert.Equal(t, 9, star.ChannelCount())
	assert.Equal(t, 9, star.Degree("0"))

	complete, err := Build(Complete(6))
	require.NoError(t, err)
	assert.Equal(t, 15, complete.ChannelCount())

	_, err = Build(Star(1))
	assert.ErrorIs(t, err, ErrTooFewNodes)
}

func TestForKind(t *testing.T) {
	for _, kind := range Kinds {
		cons, err := ForKind(kind, 20, 20)
		require.NoError(t, err, kind)
		net, err := Build(cons, WithSeed(1))
		require.NoError(t, err, kind)
		assert.Equal(t, 20, net.PoreCount(), kind)
	}

	_, err := ForKind("lattice", 10, 10)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestWithIDScheme(t *testing.T) {
	net, err := Build(Star(3), WithIDScheme(func(i int) string { return fmt.Sprintf("p%02d", i) }))
	require.NoError(t, err)
	assert.Equal(t, []string{"p00", "p01", "p02"}, net.IDs())
	assert.Panics(t, func() { WithIDScheme(nil) })
}

func TestCheckKindMatchesBuild(t *testing.T) {
	cases := []struct {
		kind         string
		nodes, edges int
	}{
		{KindUniform, 10, 45},
		{KindUniform, 10, 46},
		{KindUniform, 0, 0},
		{KindUniform, 5, -1},
		{KindPreferential, 10, 20},
		{KindPreferential, 3, 30},
		{KindPreferential, 1, 1},
		{KindComplete, 1, 0},
		{KindComplete, 0, 0},
		{KindStar, 2, 0},
		{KindStar, 1, 0},
	}
	for _, c := range cases {
		checkErr := CheckKind(c.kind, c.nodes, c.edges)

		cons, err := ForKind(c.kind, c.nodes, c.edges)
		if err == nil {
			_, err = Build(cons, WithSeed(3))
		}
		assert.Equal(t, err == nil, checkErr == nil, "%s n=%d m=%d: check=%v build=%v", c.kind, c.nodes, c.edges, checkErr, err)
	}

	assert.ErrorIs(t, CheckKind("lattice", 10, 10), ErrUnknownKind)
}

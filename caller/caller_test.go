package caller_test

import (
	"context"
	"testing"

	"github.com/hybridgenomics/varcall/caller"
	"github.com/hybridgenomics/varcall/read"
	"github.com/hybridgenomics/varcall/refwindow"
	"github.com/hybridgenomics/varcall/region"
	"github.com/hybridgenomics/varcall/variant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRef struct{ window refwindow.Window }

func (f fakeRef) Window(ctx context.Context, r region.Region) (refwindow.Window, error) {
	return f.window, nil
}

type fakeReads struct {
	samples map[string][]read.Read
}

func (f fakeReads) Reads(ctx context.Context, sample string, r region.Region) ([]read.Read, error) {
	return f.samples[sample], nil
}

func (f fakeReads) Samples() []string {
	var out []string
	for s := range f.samples {
		out = append(out, s)
	}
	return out
}

type fakeSink struct{ calls []caller.Call }

func (s *fakeSink) Emit(c caller.Call) error {
	s.calls = append(s.calls, c)
	return nil
}

func TestProcessClusterNoReadsEmitsNoVariantCalls(t *testing.T) {
	bases := make([]byte, 200)
	for i := range bases {
		bases[i] = "ACGT"[i%4]
	}
	window, err := refwindow.NewWindow("chr1", 0, refwindow.Sequence(bases))
	require.NoError(t, err)

	sink := &fakeSink{}
	d := caller.NewDriver(caller.DefaultConfig, fakeRef{window: window}, fakeReads{samples: map[string][]read.Read{"s1": nil}}, sink)

	err = d.ProcessCluster(context.Background(), region.New("chr1", 50, 100))
	require.NoError(t, err)
	for _, c := range sink.calls {
		assert.NotEqual(t, caller.CallVar, c.Type)
	}
}

func TestSplitLargeVariants(t *testing.T) {
	bases := make([]byte, 500)
	for i := range bases {
		bases[i] = "ACGT"[i%4]
	}
	window, err := refwindow.NewWindow("chr1", 0, refwindow.Sequence(bases))
	require.NoError(t, err)

	small, err := variant.New(&window, region.New("chr1", 10, 11), refwindow.Sequence("T"), true)
	require.NoError(t, err)
	large, err := variant.New(&window, region.New("chr1", 20, 220), refwindow.Sequence(nil), true)
	require.NoError(t, err)

	sm, lg := caller.SplitLargeVariants([]variant.Variant{small, large}, caller.DefaultConfig.LargeVariantSizeDefinition)
	assert.Len(t, sm, 1)
	assert.Len(t, lg, 1)
}

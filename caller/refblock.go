package caller

import (
	"github.com/hybridgenomics/varcall/circular"
	"github.com/hybridgenomics/varcall/region"
	"github.com/hybridgenomics/varcall/stats"
)

// closedRun is a reference-only run that has been closed by a coverage-delta
// boundary but not yet flushed to the sink.
type closedRun struct {
	end   region.PosType
	depth int
}

// refBlockTracker accumulates per-position, per-sample coverage observations
// across consecutive clusters and, once a contiguous run of reference-only
// positions reaches RefBlockMinRunLength, emits a gVCF-style reference block
// rather than a per-position call.
//
// A run closes not only when coverage drops to zero but whenever a
// position's depth changes by more than Config.ReadQualityDeltaThreshold
// relative to the run's reference depth -- a coverage collapse from 40x to
// 2x is as much a run boundary as a collapse to 0x.
//
// events is a circular bitmap flagging, by the closed run's start position,
// that a run is pending flush; depth maps that same start position to the
// run's (end, reference depth) payload. Flushing drains ready runs via
// events.FirstPos()/Clear rather than rescanning every observed position.
type refBlockTracker struct {
	cfg Config

	events circular.Bitmap
	depth  map[region.PosType]closedRun

	runStart region.PosType
	runEnd   region.PosType
	runDepth int
	haveRun  bool
}

const refBlockWindowPow2 = 1024

func newRefBlockTracker(cfg Config) refBlockTracker {
	return refBlockTracker{
		cfg:    cfg,
		events: circular.NewBitmap(refBlockWindowPow2, 1),
		depth:  make(map[region.PosType]closedRun),
	}
}

func circPosOf(pos region.PosType) region.PosType {
	c := pos % refBlockWindowPow2
	if c < 0 {
		c += refBlockWindowPow2
	}
	return c
}

// relativeChange returns |cur-ref|/max(ref,1), the fraction
// Config.ReadQualityDeltaThreshold is compared against.
func relativeChange(ref, cur int) float64 {
	base := ref
	if base == 0 {
		base = 1
	}
	diff := cur - ref
	if diff < 0 {
		diff = -diff
	}
	return float64(diff) / float64(base)
}

// observe folds a cluster's per-position minimum-across-samples coverage
// depth vector into the tracker, one position at a time, in contig order.
func (t *refBlockTracker) observe(r region.Region, depths []int) {
	for i, d := range depths {
		t.observePosition(r.Start+region.PosType(i), d)
	}
}

// observePosition closes the current run (recording it as pending flush) and
// starts a new one whenever pos isn't the immediate continuation of the
// current run, or depth has moved more than ReadQualityDeltaThreshold away
// from the run's reference depth.
func (t *refBlockTracker) observePosition(pos region.PosType, d int) {
	if !t.haveRun {
		t.runStart, t.runEnd, t.runDepth, t.haveRun = pos, pos+1, d, true
		return
	}
	if pos == t.runEnd && relativeChange(t.runDepth, d) <= t.cfg.ReadQualityDeltaThreshold {
		t.runEnd = pos + 1
		return
	}
	t.closeRun()
	t.runStart, t.runEnd, t.runDepth, t.haveRun = pos, pos+1, d, true
}

// closeRun marks the current run as pending flush. It leaves haveRun and the
// run bounds unchanged; the caller installs the next run's bounds.
func (t *refBlockTracker) closeRun() {
	t.events.Set(t.runStart, circPosOf(t.runStart), 0)
	t.depth[t.runStart] = closedRun{end: t.runEnd, depth: t.runDepth}
}

// nextClosedRun returns the earliest pending closed run, if any.
func (t *refBlockTracker) nextClosedRun() (start region.PosType, cr closedRun, ok bool) {
	start = t.events.FirstPos()
	if start == circular.FirstPosEmpty {
		return 0, closedRun{}, false
	}
	cr, ok = t.depth[start]
	return start, cr, ok
}

// blockCall builds the reference-block Call for [start,end) at depth,
// applying the minimum-run-length and beta-binomial confidence gates; ok is
// false if the run is too short to be worth emitting.
func (t *refBlockTracker) blockCall(contig string, start, end region.PosType, depth int) (Call, bool) {
	if end-start < t.cfg.RefBlockMinRunLength {
		return Call{}, false
	}
	// Probability of seeing no alt read at this depth if the site were het:
	// 1 at zero coverage (quality 0), shrinking as coverage grows.
	errProb := stats.BetaBinomialCDFForReferenceCalls(depth, t.cfg.RefBlockPriorAlpha)
	return Call{
		Type:    CallRef,
		Region:  region.New(contig, start, end),
		Quality: stats.ToPhredQ(errProb),
	}, true
}

// flushRefBlocks emits every pending closed run, then -- at end-of-contig
// (force) -- also flushes the still-open run even though no subsequent
// coverage-delta event has closed it yet.
func (d *Driver) flushRefBlocks(contig string, force bool) error {
	t := &d.refBlocks
	for {
		start, cr, ok := t.nextClosedRun()
		if !ok {
			break
		}
		t.events.Clear(start, circPosOf(start), 0)
		delete(t.depth, start)
		if call, ok := t.blockCall(contig, start, cr.end, cr.depth); ok {
			if err := d.Sink.Emit(call); err != nil {
				return err
			}
		}
	}
	if !force || !t.haveRun {
		return nil
	}
	if call, ok := t.blockCall(contig, t.runStart, t.runEnd, t.runDepth); ok {
		if err := d.Sink.Emit(call); err != nil {
			return err
		}
	}
	t.haveRun = false
	return nil
}

/*
varcall is a small-variant caller for short-read sequencing data: given a
reference FASTA and a simple per-sample read table, it runs the per-cluster
calling pipeline over a region and prints calls to stdout.

Upstream alignment-file (BAM/PAM) decoding is out of this module's scope
(see caller.ReadSource); this binary accepts reads pre-extracted into a
plain TSV for demonstration purposes -- production deployments plug in
their own ReadSource backed by whatever alignment store they use.
*/
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/hts/sam"
	"github.com/hybridgenomics/varcall/caller"
	"github.com/hybridgenomics/varcall/read"
	"github.com/hybridgenomics/varcall/refio"
	"github.com/hybridgenomics/varcall/region"
)

var (
	refPath   = flag.String("ref", "", "Reference FASTA path (.fa or .fa.gz)")
	readsPath = flag.String("reads", "", "Per-sample read TSV path (sample, contig, start, seq, qual, mapq, flag)")
	regionStr = flag.String("region", "", "Region to call, as contig:start-end (0-based, half-open)")
	ploidy    = flag.Int("ploidy", 2, "Sample ploidy")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s -ref ref.fa -reads reads.tsv -region chr1:1000-2000\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	if *refPath == "" || *readsPath == "" || *regionStr == "" {
		usage()
		log.Fatalf("missing required flags")
	}

	ctx := vcontext.Background()
	ref, err := refio.Load(ctx, *refPath)
	if err != nil {
		log.Fatalf("loading reference: %v", err)
	}
	reads, err := loadReadTable(*readsPath)
	if err != nil {
		log.Fatalf("loading reads: %v", err)
	}
	r, err := parseRegion(*regionStr)
	if err != nil {
		log.Fatalf("parsing region: %v", err)
	}

	cfg := caller.DefaultConfig
	cfg.Ploidy = *ploidy
	sink := stdoutSink{}
	driver := caller.NewDriver(cfg, ref, reads, sink)
	if err := driver.ProcessCluster(ctx, r); err != nil {
		log.Fatalf("processing cluster %v: %v", r, err)
	}
}

func parseRegion(s string) (region.Region, error) {
	contigAndRange := strings.SplitN(s, ":", 2)
	if len(contigAndRange) != 2 {
		return region.Region{}, fmt.Errorf("varcall: region %q must be contig:start-end", s)
	}
	startEnd := strings.SplitN(contigAndRange[1], "-", 2)
	if len(startEnd) != 2 {
		return region.Region{}, fmt.Errorf("varcall: region %q must be contig:start-end", s)
	}
	start, err := strconv.Atoi(startEnd[0])
	if err != nil {
		return region.Region{}, err
	}
	end, err := strconv.Atoi(startEnd[1])
	if err != nil {
		return region.Region{}, err
	}
	return region.New(contigAndRange[0], region.PosType(start), region.PosType(end)), nil
}

// simpleReadSource implements caller.ReadSource over rows pre-parsed from a
// plain TSV (sample, contig, start, seq, qual, mapq, flag), standing in for
// a real alignment-file-backed source.
type simpleReadSource struct {
	bySample map[string][]read.Read
}

func loadReadTable(path string) (*simpleReadSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src := &simpleReadSource{bySample: make(map[string][]read.Read)}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 7 {
			return nil, fmt.Errorf("varcall: malformed read row %q", line)
		}
		sample, contig := fields[0], fields[1]
		start, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, err
		}
		seq := []byte(fields[3])
		qual := []byte(fields[4])
		for i := range qual {
			qual[i] -= 33 // Phred+33 ASCII encoding
		}
		mapq, err := strconv.Atoi(fields[5])
		if err != nil {
			return nil, err
		}
		flagVal, err := strconv.Atoi(fields[6])
		if err != nil {
			return nil, err
		}
		// The TSV carries no CIGAR: treat each read as one full-length match
		// so its footprint covers its bases.
		cigar := sam.Cigar{sam.NewCigarOp(sam.CigarMatch, len(seq))}
		r := read.New(sample, contig, region.PosType(start), cigar, seq, qual, mapq, sam.Flags(flagVal))
		src.bySample[sample] = append(src.bySample[sample], r)
	}
	return src, scanner.Err()
}

func (s *simpleReadSource) Reads(ctx context.Context, sample string, r region.Region) ([]read.Read, error) {
	var out []read.Read
	for _, rd := range s.bySample[sample] {
		if rd.Region().Overlaps(r) {
			out = append(out, rd)
		}
	}
	return out, nil
}

func (s *simpleReadSource) Samples() []string {
	out := make([]string, 0, len(s.bySample))
	for sample := range s.bySample {
		out = append(out, sample)
	}
	return out
}

type stdoutSink struct{}

func (stdoutSink) Emit(c caller.Call) error {
	if c.Type == caller.CallVar {
		ref, _ := c.Variant.Ref()
		fmt.Printf("%s\t%d\t%s\t%s\tQ%.1f\tDP=%d\tVC=%d\n",
			c.Variant.Contig(), c.Variant.ZeroIndexedVCFPosition()+1, ref, c.Variant.Alt(), c.Quality, c.DP, c.VC)
		for sample, sc := range c.Samples {
			fmt.Printf("\t%s\t%s\tGQ%.1f\tAD=%d,%d\n", sample, sc.Genotype, sc.GQ, sc.AD[0], sc.AD[1])
		}
		return nil
	}
	fmt.Printf("%s\t%d\t%d\t.\tREF_BLOCK\tQ%.1f\n", c.Region.Contig, c.Region.Start+1, c.Region.End, c.Quality)
	return nil
}

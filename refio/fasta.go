// Package refio loads a FASTA reference (.fa or .fa.gz) into in-memory
// per-contig sequences, implementing caller.ReferenceSource directly
// against this module's plain-ASCII Sequence type. Contigs are
// discovered from the FASTA itself; there is no BAM header in scope
// here to drive a seq8-style encoding.
package refio

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/hybridgenomics/varcall/refwindow"
	"github.com/hybridgenomics/varcall/region"
	"github.com/klauspost/compress/gzip"
)

// MaxLineBytes bounds a single FASTA line/token, sizing the bufio.Scanner
// buffer generously for references that put an entire contig on one line.
const MaxLineBytes = 1 << 28

// Reference holds loaded per-contig sequences and implements
// caller.ReferenceSource.
type Reference struct {
	contigs map[string]refwindow.Sequence
}

// Load reads a .fa or .fa.gz file (gzip auto-detected via
// fileio.DetermineType) into a Reference.
func Load(ctx context.Context, path string) (*Reference, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer f.Close(ctx)

	var reader io.Reader = f.Reader(ctx)
	if fileio.DetermineType(path) == fileio.Gzip {
		gz, err := gzip.NewReader(reader)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		reader = gz
	}

	scanner := bufio.NewScanner(reader)
	startSize := bufio.MaxScanTokenSize
	buf := make([]byte, startSize, MaxLineBytes)
	scanner.Buffer(buf, MaxLineBytes)

	ref := &Reference{contigs: make(map[string]refwindow.Sequence)}
	var curName string
	var curSeq refwindow.Sequence
	flush := func() {
		if curName != "" {
			ref.contigs[curName] = curSeq
		}
	}
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			flush()
			curName = firstToken(line[1:])
			curSeq = nil
			continue
		}
		curSeq = append(curSeq, line...)
	}
	flush()
	if err := scanner.Err(); err != nil {
		return nil, errors.E(err, "refio: scanning", path)
	}
	return ref, nil
}

func firstToken(b []byte) string {
	for i, c := range b {
		if c == ' ' || c == '\t' {
			return string(b[:i])
		}
	}
	return string(b)
}

// Window returns the reference bases spanning r, implementing
// caller.ReferenceSource.
func (r *Reference) Window(ctx context.Context, rg region.Region) (refwindow.Window, error) {
	seq, ok := r.contigs[rg.Contig]
	if !ok {
		return refwindow.Window{}, errors.E(errors.NotExist, fmt.Sprintf("refio: unknown contig %q", rg.Contig))
	}
	if int(rg.End) > len(seq) {
		return refwindow.Window{}, errors.E(errors.Invalid, fmt.Sprintf("refio: region %v exceeds contig length %d", rg, len(seq)))
	}
	return refwindow.NewWindow(rg.Contig, rg.Start, seq[rg.Start:rg.End])
}

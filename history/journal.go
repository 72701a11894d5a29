// Package history keeps compressed snapshots of save-file literal text so an
// edited save can be compared with, or rolled back to, an earlier state.
//
// A Journal stores every distinct revision recorded into it, compressed with one
// of the block codecs from package compress. Recording text identical to the
// latest revision is a no-op, detected by its xxHash64 fingerprint.
package history

import (
	"fmt"
	"sync"
	"time"

	"github.com/arloliu/jkrsave/compress"
	"github.com/arloliu/jkrsave/errs"
	"github.com/arloliu/jkrsave/format"
	"github.com/arloliu/jkrsave/internal/hash"
)

// Revision describes one recorded snapshot.
type Revision struct {
	Seq         uint64    // 1-based, never reused
	Fingerprint uint64    // xxHash64 of the literal text
	Size        int       // literal text length in bytes
	StoredSize  int       // compressed length in bytes
	RecordedAt  time.Time // wall-clock time of Record
}

type snapshot struct {
	rev  Revision
	data []byte
}

// Journal is a bounded, in-memory revision log. It is safe for concurrent use.
type Journal struct {
	mu        sync.RWMutex
	codec     compress.Codec
	cfg       *Config
	snapshots []snapshot // oldest first
	nextSeq   uint64
}

// New creates an empty Journal.
//
// Defaults: zstd compression, DefaultLimit revisions.
func New(opts ...Option) (*Journal, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	codec, err := compress.CreateCodec(cfg.compression, "journal")
	if err != nil {
		return nil, err
	}

	return &Journal{
		codec:     codec,
		cfg:       cfg,
		snapshots: make([]snapshot, 0, min(cfg.limit, 16)),
		nextSeq:   1,
	}, nil
}

// Compression returns the codec type snapshots are stored with.
func (j *Journal) Compression() format.CompressionType {
	return j.cfg.compression
}

// Record stores text as a new revision.
//
// If text matches the latest revision, nothing is stored and that revision is
// returned with added set to false. When the journal is full the oldest revision
// is evicted.
func (j *Journal) Record(text string) (rev Revision, added bool, err error) {
	fp := hash.ID(text)

	j.mu.Lock()
	defer j.mu.Unlock()

	if n := len(j.snapshots); n > 0 && j.snapshots[n-1].rev.Fingerprint == fp {
		return j.snapshots[n-1].rev, false, nil
	}

	data, err := j.codec.Compress([]byte(text))
	if err != nil {
		return Revision{}, false, fmt.Errorf("journal: compress revision: %w", err)
	}

	rev = Revision{
		Seq:         j.nextSeq,
		Fingerprint: fp,
		Size:        len(text),
		StoredSize:  len(data),
		RecordedAt:  j.cfg.clock(),
	}
	j.nextSeq++

	if len(j.snapshots) >= j.cfg.limit {
		evict := len(j.snapshots) - j.cfg.limit + 1
		clear(j.snapshots[:evict])
		j.snapshots = append(j.snapshots[:0], j.snapshots[evict:]...)
	}
	j.snapshots = append(j.snapshots, snapshot{rev: rev, data: data})

	return rev, true, nil
}

// Load returns the literal text of revision seq.
//
// Returns errs.ErrRevisionNotFound if seq was never recorded or has been evicted.
func (j *Journal) Load(seq uint64) (string, error) {
	j.mu.RLock()
	snap, ok := j.find(seq)
	j.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("%w: revision %d", errs.ErrRevisionNotFound, seq)
	}

	return j.decompress(snap)
}

// Latest returns the newest revision and its literal text.
//
// Returns errs.ErrNoRevision if nothing has been recorded.
func (j *Journal) Latest() (Revision, string, error) {
	j.mu.RLock()
	n := len(j.snapshots)
	var snap snapshot
	if n > 0 {
		snap = j.snapshots[n-1]
	}
	j.mu.RUnlock()

	if n == 0 {
		return Revision{}, "", errs.ErrNoRevision
	}

	text, err := j.decompress(snap)
	if err != nil {
		return Revision{}, "", err
	}

	return snap.rev, text, nil
}

// Revisions lists the retained revisions, oldest first.
func (j *Journal) Revisions() []Revision {
	j.mu.RLock()
	defer j.mu.RUnlock()

	revs := make([]Revision, len(j.snapshots))
	for i := range j.snapshots {
		revs[i] = j.snapshots[i].rev
	}

	return revs
}

// Len returns the number of retained revisions.
func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()

	return len(j.snapshots)
}

// find locates seq by binary search; sequence numbers are strictly increasing.
// Caller must hold j.mu.
func (j *Journal) find(seq uint64) (snapshot, bool) {
	lo, hi := 0, len(j.snapshots)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if j.snapshots[mid].rev.Seq < seq {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(j.snapshots) && j.snapshots[lo].rev.Seq == seq {
		return j.snapshots[lo], true
	}

	return snapshot{}, false
}

func (j *Journal) decompress(snap snapshot) (string, error) {
	text, err := j.codec.Decompress(snap.data)
	if err != nil {
		return "", fmt.Errorf("journal: revision %d: %w", snap.rev.Seq, err)
	}
	if hash.Sum(text) != snap.rev.Fingerprint {
		return "", fmt.Errorf("journal: revision %d: fingerprint mismatch", snap.rev.Seq)
	}

	return string(text), nil
}

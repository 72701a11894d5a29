package jkrsave

import (
	"fmt"
	"sync"

	"github.com/arloliu/jkrsave/errs"
	"github.com/arloliu/jkrsave/history"
	"github.com/arloliu/jkrsave/value"
)

// Session tracks edits to one save file.
//
// Every opened, committed or reverted state is recorded in a history.Journal, so
// an editor can roll back to any retained revision. A Session is safe for
// concurrent use, but the tree returned by Tree is shared: copy it before
// mutating it from several goroutines.
type Session struct {
	mu      sync.Mutex
	codec   *Codec
	journal *history.Journal
	tree    value.Value
	loaded  bool
}

// NewSession creates a Session.
//
// A nil codec uses default settings; a nil journal creates one with
// history.New defaults.
func NewSession(codec *Codec, journal *history.Journal) (*Session, error) {
	if codec == nil {
		codec = defaultCodec
	}
	if journal == nil {
		var err error
		if journal, err = history.New(); err != nil {
			return nil, err
		}
	}

	return &Session{codec: codec, journal: journal}, nil
}

// Open decodes save-file bytes and records them as a revision.
func (s *Session) Open(data []byte) (value.Value, error) {
	text, err := s.codec.inflate(data)
	if err != nil {
		return value.Value{}, err
	}

	tree, err := s.codec.DecodeText(text)
	if err != nil {
		return value.Value{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rev, added, err := s.journal.Record(text)
	if err != nil {
		return value.Value{}, err
	}
	s.tree, s.loaded = tree, true
	s.codec.logger.Debug("session opened", "revision", rev.Seq, "added", added)

	return tree, nil
}

// Tree returns the current tree.
//
// Returns errs.ErrNoRevision before the first Open or Commit.
func (s *Session) Tree() (value.Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return value.Value{}, errs.ErrNoRevision
	}

	return s.tree, nil
}

// Commit encodes tree, records it as a revision and makes it current.
//
// Returns:
//   - []byte: save-file bytes ready to be written
//   - error: errs.ErrEncode if the tree has no literal form
func (s *Session) Commit(tree value.Value) ([]byte, error) {
	text, err := s.codec.EncodeText(tree)
	if err != nil {
		return nil, err
	}
	data, err := s.codec.deflateText(text)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rev, added, err := s.journal.Record(text)
	if err != nil {
		return nil, err
	}
	s.tree, s.loaded = tree, true
	s.codec.logger.Debug("session committed", "revision", rev.Seq, "added", added)

	return data, nil
}

// Revert makes revision seq current again and records it as the newest revision.
//
// Returns:
//   - []byte: save-file bytes of the restored revision
//   - error: errs.ErrRevisionNotFound if seq is unknown or evicted
func (s *Session) Revert(seq uint64) ([]byte, error) {
	text, err := s.journal.Load(seq)
	if err != nil {
		return nil, err
	}

	tree, err := s.codec.DecodeText(text)
	if err != nil {
		return nil, fmt.Errorf("revert to revision %d: %w", seq, err)
	}
	data, err := s.codec.deflateText(text)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rev, _, err := s.journal.Record(text)
	if err != nil {
		return nil, err
	}
	s.tree, s.loaded = tree, true
	s.codec.logger.Debug("session reverted", "from", seq, "revision", rev.Seq)

	return data, nil
}

// Revisions lists the retained revisions, oldest first.
func (s *Session) Revisions() []history.Revision {
	return s.journal.Revisions()
}

package jkrsave

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/jkrsave/errs"
	"github.com/arloliu/jkrsave/format"
	"github.com/arloliu/jkrsave/history"
	"github.com/arloliu/jkrsave/value"
)

func TestSession_OpenCommitRevert(t *testing.T) {
	s, err := NewSession(nil, nil)
	require.NoError(t, err)

	_, err = s.Tree()
	require.ErrorIs(t, err, errs.ErrNoRevision)

	tree, err := s.Open(deflateRaw(t, sampleSave))
	require.NoError(t, err)
	require.Len(t, s.Revisions(), 1)

	require.NoError(t, value.SetPath(tree, value.Int(999), "GAME", "dollars"))
	data, err := s.Commit(tree)
	require.NoError(t, err)

	committed, err := Decode(data)
	require.NoError(t, err)
	dollars, _ := committed.Lookup("GAME", "dollars")
	n, _ := dollars.AsInt()
	require.Equal(t, int64(999), n)

	revs := s.Revisions()
	require.Len(t, revs, 2)
	require.NotEqual(t, revs[0].Fingerprint, revs[1].Fingerprint)

	restored, err := s.Revert(revs[0].Seq)
	require.NoError(t, err)
	require.Equal(t, sampleSave, inflateRaw(t, restored))

	current, err := s.Tree()
	require.NoError(t, err)
	dollars, _ = current.Lookup("GAME", "dollars")
	n, _ = dollars.AsInt()
	require.Equal(t, int64(12), n)

	revs = s.Revisions()
	require.Len(t, revs, 3)
	require.Equal(t, revs[0].Fingerprint, revs[2].Fingerprint)
}

func TestSession_CommitUnchangedIsDeduplicated(t *testing.T) {
	s, err := NewSession(nil, nil)
	require.NoError(t, err)

	tree, err := s.Open(deflateRaw(t, sampleSave))
	require.NoError(t, err)

	_, err = s.Commit(tree)
	require.NoError(t, err)
	require.Len(t, s.Revisions(), 1)
}

func TestSession_CustomJournal(t *testing.T) {
	codec, err := NewCodec(WithStrictTrailingComma())
	require.NoError(t, err)
	journal, err := history.New(history.WithCompression(format.CompressionS2), history.WithLimit(2))
	require.NoError(t, err)

	s, err := NewSession(codec, journal)
	require.NoError(t, err)

	for i := range 4 {
		_, err := s.Commit(value.MapOf("n", value.Int(int64(i))))
		require.NoError(t, err)
	}

	revs := s.Revisions()
	require.Len(t, revs, 2)
	require.Equal(t, uint64(3), revs[0].Seq)

	_, err = s.Revert(1)
	require.ErrorIs(t, err, errs.ErrRevisionNotFound)
}

func TestSession_Errors(t *testing.T) {
	s, err := NewSession(nil, nil)
	require.NoError(t, err)

	_, err = s.Open([]byte("not a save"))
	require.ErrorIs(t, err, errs.ErrFraming)

	_, err = s.Commit(value.MapOf("bad", value.Sequence(value.Number(math.NaN()))))
	require.ErrorIs(t, err, errs.ErrEncode)

	require.Empty(t, s.Revisions())
	_, err = s.Tree()
	require.ErrorIs(t, err, errs.ErrNoRevision)
}

package history

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/jkrsave/errs"
	"github.com/arloliu/jkrsave/format"
)

func saveText(round int) string {
	return fmt.Sprintf(`return {["GAME"]={["round"]=%d,["hands"]={[1]="Pair",[2]="Flush",},},}`, round)
}

func TestJournal_RecordAndLoad(t *testing.T) {
	compressions := []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
		format.CompressionDeflate,
	}

	for _, ct := range compressions {
		t.Run(ct.String(), func(t *testing.T) {
			j, err := New(WithCompression(ct))
			require.NoError(t, err)
			require.Equal(t, ct, j.Compression())

			rev1, added, err := j.Record(saveText(1))
			require.NoError(t, err)
			require.True(t, added)
			require.Equal(t, uint64(1), rev1.Seq)
			require.Equal(t, len(saveText(1)), rev1.Size)

			rev2, added, err := j.Record(saveText(2))
			require.NoError(t, err)
			require.True(t, added)
			require.Equal(t, uint64(2), rev2.Seq)
			require.NotEqual(t, rev1.Fingerprint, rev2.Fingerprint)

			text, err := j.Load(1)
			require.NoError(t, err)
			require.Equal(t, saveText(1), text)

			latest, text, err := j.Latest()
			require.NoError(t, err)
			require.Equal(t, rev2, latest)
			require.Equal(t, saveText(2), text)
		})
	}
}

func TestJournal_DeduplicatesLatest(t *testing.T) {
	j, err := New()
	require.NoError(t, err)

	first, added, err := j.Record(saveText(1))
	require.NoError(t, err)
	require.True(t, added)

	again, added, err := j.Record(saveText(1))
	require.NoError(t, err)
	require.False(t, added)
	require.Equal(t, first, again)
	require.Equal(t, 1, j.Len())

	// returning to an older state is a new revision
	_, _, err = j.Record(saveText(2))
	require.NoError(t, err)
	back, added, err := j.Record(saveText(1))
	require.NoError(t, err)
	require.True(t, added)
	require.Equal(t, uint64(3), back.Seq)
	require.Equal(t, first.Fingerprint, back.Fingerprint)
}

func TestJournal_Eviction(t *testing.T) {
	j, err := New(WithLimit(3))
	require.NoError(t, err)

	for i := 1; i <= 5; i++ {
		_, _, err := j.Record(saveText(i))
		require.NoError(t, err)
	}

	revs := j.Revisions()
	require.Len(t, revs, 3)
	require.Equal(t, []uint64{3, 4, 5}, []uint64{revs[0].Seq, revs[1].Seq, revs[2].Seq})

	_, err = j.Load(2)
	require.ErrorIs(t, err, errs.ErrRevisionNotFound)

	text, err := j.Load(4)
	require.NoError(t, err)
	require.Equal(t, saveText(4), text)
}

func TestJournal_Empty(t *testing.T) {
	j, err := New()
	require.NoError(t, err)

	_, _, err = j.Latest()
	require.ErrorIs(t, err, errs.ErrNoRevision)

	_, err = j.Load(1)
	require.ErrorIs(t, err, errs.ErrRevisionNotFound)

	require.Empty(t, j.Revisions())
}

func TestJournal_Clock(t *testing.T) {
	stamp := time.Date(2024, 2, 20, 12, 0, 0, 0, time.UTC)
	j, err := New(WithClock(func() time.Time { return stamp }))
	require.NoError(t, err)

	rev, _, err := j.Record(saveText(1))
	require.NoError(t, err)
	require.Equal(t, stamp, rev.RecordedAt)
}

func TestJournal_CompressesLargeText(t *testing.T) {
	j, err := New()
	require.NoError(t, err)

	var sb strings.Builder
	sb.WriteString("return {")
	for i := 1; i <= 500; i++ {
		fmt.Fprintf(&sb, `[%d]={["suit"]="Hearts",["rank"]=%d,},`, i, i%13+2)
	}
	sb.WriteString("}")

	rev, _, err := j.Record(sb.String())
	require.NoError(t, err)
	require.Less(t, rev.StoredSize, rev.Size/4)
}

func TestJournal_InvalidOptions(t *testing.T) {
	_, err := New(WithLimit(0))
	require.ErrorIs(t, err, errs.ErrInvalidOption)

	_, err = New(WithCompression(format.CompressionType(0x7f)))
	require.ErrorIs(t, err, errs.ErrInvalidOption)
	require.ErrorIs(t, err, errs.ErrInvalidCompression)

	_, err = New(WithClock(nil))
	require.ErrorIs(t, err, errs.ErrInvalidOption)
}

func TestJournal_Concurrent(t *testing.T) {
	j, err := New(WithLimit(1000))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 20 {
				_, _, err := j.Record(saveText(w*100 + i))
				require.NoError(t, err)
				_, _, err = j.Latest()
				require.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	revs := j.Revisions()
	require.Len(t, revs, 160)
	for i := 1; i < len(revs); i++ {
		require.Greater(t, revs[i].Seq, revs[i-1].Seq)
	}
}

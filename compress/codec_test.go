package compress

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/klauspost/compress/flate"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/jkrsave/errs"
	"github.com/arloliu/jkrsave/format"
)

// sampleLiteral builds literal text shaped like a save payload.
func sampleLiteral(entries int) []byte {
	var sb strings.Builder
	sb.WriteString(`return {["GAME"]={["hands"]={`)
	for i := 1; i <= entries; i++ {
		fmt.Fprintf(&sb, `[%d]={["level"]=%d,["played"]=%d,["visible"]=true,},`, i, i%7+1, i*3)
	}
	sb.WriteString(`},},}`)

	return []byte(sb.String())
}

func allCodecs() map[string]Codec {
	return map[string]Codec{
		"None":    NewNoOpCompressor(),
		"Zstd":    NewZstdCompressor(),
		"S2":      NewS2Compressor(),
		"LZ4":     NewLZ4Compressor(),
		"Deflate": NewDeflateCompressor(),
	}
}

func TestCompressionType_String(t *testing.T) {
	tests := []struct {
		name     string
		cType    format.CompressionType
		expected string
	}{
		{name: "none compression", cType: format.CompressionNone, expected: "None"},
		{name: "zstd compression", cType: format.CompressionZstd, expected: "Zstd"},
		{name: "s2 compression", cType: format.CompressionS2, expected: "S2"},
		{name: "lz4 compression", cType: format.CompressionLZ4, expected: "LZ4"},
		{name: "deflate compression", cType: format.CompressionDeflate, expected: "Deflate"},
		{name: "unknown compression", cType: format.CompressionType(0xFF), expected: "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.cType.String())
		})
	}
}

func TestCodecs_RoundTrip(t *testing.T) {
	payloads := map[string][]byte{
		"small":  []byte(`return {["a"]=1,["b"]=2,}`),
		"medium": sampleLiteral(50),
		"large":  sampleLiteral(5000),
	}

	for codecName, codec := range allCodecs() {
		for payloadName, payload := range payloads {
			t.Run(codecName+"/"+payloadName, func(t *testing.T) {
				compressed, err := codec.Compress(payload)
				require.NoError(t, err)

				decompressed, err := codec.Decompress(compressed)
				require.NoError(t, err)
				require.Equal(t, payload, decompressed)
			})
		}
	}
}

func TestCreateCodec(t *testing.T) {
	for _, cType := range []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
		format.CompressionDeflate,
	} {
		t.Run(cType.String(), func(t *testing.T) {
			codec, err := CreateCodec(cType, "test")
			require.NoError(t, err)
			require.NotNil(t, codec)

			builtin, err := GetCodec(cType)
			require.NoError(t, err)
			require.IsType(t, codec, builtin)
		})
	}

	t.Run("invalid type", func(t *testing.T) {
		_, err := CreateCodec(format.CompressionType(0x42), "snapshot")
		require.ErrorIs(t, err, errs.ErrInvalidCompression)
		require.Contains(t, err.Error(), "snapshot")

		_, err = GetCodec(format.CompressionType(0))
		require.ErrorIs(t, err, errs.ErrInvalidCompression)
	})
}

func TestDeflateCompressor_RawFraming(t *testing.T) {
	codec := NewDeflateCompressor()
	payload := sampleLiteral(10)

	compressed, err := codec.Compress(payload)
	require.NoError(t, err)

	// no zlib (0x78) or gzip (0x1f 0x8b) header
	require.NotEqual(t, byte(0x78), compressed[0])
	require.False(t, bytes.HasPrefix(compressed, []byte{0x1f, 0x8b}))

	// readable by any raw inflater
	r := flate.NewReader(bytes.NewReader(compressed))
	var out bytes.Buffer
	_, err = out.ReadFrom(r)
	require.NoError(t, err)
	require.Equal(t, payload, out.Bytes())
}

func TestDeflateCompressor_Empty(t *testing.T) {
	codec := NewDeflateCompressor()

	compressed, err := codec.Compress(nil)
	require.NoError(t, err)
	require.NotEmpty(t, compressed)

	decompressed, err := codec.Decompress(compressed)
	require.NoError(t, err)
	require.Empty(t, decompressed)

	_, err = codec.Decompress(nil)
	require.Error(t, err)
}

func TestDeflateCompressor_InvalidInput(t *testing.T) {
	codec := NewDeflateCompressor()

	tests := map[string][]byte{
		"reserved block type":    {0xff, 0xff, 0xff, 0xff},
		"gzip header":            {0x1f, 0x8b, 0x08, 0x00, 0x00, 0x00, 0x00, 0x00},
		"stored length mismatch": []byte("hello world"),
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := codec.Decompress(data)
			require.Error(t, err)
		})
	}

	t.Run("truncated stream", func(t *testing.T) {
		compressed, err := codec.Compress(sampleLiteral(200))
		require.NoError(t, err)

		_, err = codec.Decompress(compressed[:len(compressed)/2])
		require.Error(t, err)
	})
}

func TestDeflateCompressor_Levels(t *testing.T) {
	payload := sampleLiteral(100)

	for level := flate.HuffmanOnly; level <= flate.BestCompression; level++ {
		t.Run(fmt.Sprintf("level_%d", level), func(t *testing.T) {
			codec, err := NewDeflateCompressorLevel(level, 0)
			require.NoError(t, err)
			require.Equal(t, level, codec.Level())

			compressed, err := codec.Compress(payload)
			require.NoError(t, err)

			decompressed, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Equal(t, payload, decompressed)
		})
	}

	_, err := NewDeflateCompressorLevel(10, 0)
	require.Error(t, err)
	_, err = NewDeflateCompressorLevel(-3, 0)
	require.Error(t, err)
}

func TestDeflateCompressor_MaxSize(t *testing.T) {
	payload := bytes.Repeat([]byte("a"), 4096)

	codec, err := NewDeflateCompressorLevel(flate.BestSpeed, 1024)
	require.NoError(t, err)

	compressed, err := codec.Compress(payload)
	require.NoError(t, err)

	_, err = codec.Decompress(compressed)
	require.Error(t, err)
	require.Contains(t, err.Error(), "exceeds 1024 bytes")

	exact, err := NewDeflateCompressorLevel(flate.BestSpeed, len(payload))
	require.NoError(t, err)

	decompressed, err := exact.Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, payload, decompressed)
}

func TestDeflateCompressor_Concurrent(t *testing.T) {
	codec := NewDeflateCompressor()
	done := make(chan error, 8)

	for i := range 8 {
		go func(i int) {
			payload := sampleLiteral(100 + i)
			for range 20 {
				compressed, err := codec.Compress(payload)
				if err != nil {
					done <- err
					return
				}
				decompressed, err := codec.Decompress(compressed)
				if err != nil {
					done <- err
					return
				}
				if !bytes.Equal(payload, decompressed) {
					done <- fmt.Errorf("payload %d mismatch", i)
					return
				}
			}
			done <- nil
		}(i)
	}

	for range 8 {
		require.NoError(t, <-done)
	}
}

func TestNoOpCompressor_SharesMemory(t *testing.T) {
	codec := NewNoOpCompressor()
	data := []byte("return {}")

	compressed, err := codec.Compress(data)
	require.NoError(t, err)
	require.Same(t, &data[0], &compressed[0])
}

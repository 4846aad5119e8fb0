package snapshot

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the payload codec.
type Compression uint8

const (
	// CompressionNone stores the element bytes as-is. Only uncompressed
	// snapshots can be memory-mapped.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD (better ratio).
	CompressionZSTD Compression = 2
)

func (c Compression) valid() bool { return c <= CompressionZSTD }

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// maxRatio is the largest stored/raw ratio worth keeping compressed.
const maxRatio = 0.9

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
}

// compress returns the payload to store and the codec actually used. Payloads
// that do not shrink below maxRatio are stored uncompressed.
func compress(data []byte, c Compression) ([]byte, Compression, error) {
	if c == CompressionNone || len(data) == 0 {
		return data, CompressionNone, nil
	}

	var out []byte
	switch c {
	case CompressionLZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, dst, nil)
		if err != nil {
			return nil, CompressionNone, fmt.Errorf("snapshot: lz4: %w", err)
		}
		out = dst[:n]
	case CompressionZSTD:
		enc, err := getZstdEncoder()
		if err != nil {
			return nil, CompressionNone, fmt.Errorf("snapshot: zstd: %w", err)
		}
		out = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, CompressionNone, fmt.Errorf("snapshot: unknown %s", c)
	}

	// lz4 reports 0 for incompressible input.
	if len(out) == 0 || float64(len(out)) > float64(len(data))*maxRatio {
		return data, CompressionNone, nil
	}
	return out, c, nil
}

// decompress decodes src into dst, which has exactly the raw payload size.
func decompress(dst, src []byte, c Compression) error {
	switch c {
	case CompressionLZ4:
		n, err := lz4.UncompressBlock(src, dst)
		if err != nil {
			return fmt.Errorf("%w: lz4: %w", ErrCorrupted, err)
		}
		if n != len(dst) {
			return fmt.Errorf("%w: lz4 decoded %d bytes, want %d", ErrCorrupted, n, len(dst))
		}
		return nil
	case CompressionZSTD:
		dec, err := getZstdDecoder()
		if err != nil {
			return fmt.Errorf("snapshot: zstd: %w", err)
		}
		defer zstdDecoderPool.Put(dec)

		out, err := dec.DecodeAll(src, dst[:0])
		if err != nil {
			return fmt.Errorf("%w: zstd: %w", ErrCorrupted, err)
		}
		if len(out) != len(dst) {
			return fmt.Errorf("%w: zstd decoded %d bytes, want %d", ErrCorrupted, len(out), len(dst))
		}
		return nil
	default:
		return fmt.Errorf("snapshot: unknown %s", c)
	}
}

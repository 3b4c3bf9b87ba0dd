package m3u

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/mmcdole/kanal/internal/domain"
	"github.com/ulikunitz/xz"
)

var (
	gzipMagic  = []byte{0x1f, 0x8b}
	bzip2Magic = []byte("BZh")
	xzMagic    = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
)

// Decompress sniffs the first bytes of r and unwraps gzip, bzip2 or xz.
// Plain text is returned unchanged.
func Decompress(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	header, err := br.Peek(len(xzMagic))
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peeking playlist header: %w", err)
	}

	switch {
	case bytes.HasPrefix(header, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("opening gzip playlist: %w", err)
		}
		return zr, nil
	case bytes.HasPrefix(header, bzip2Magic):
		return bzip2.NewReader(br), nil
	case bytes.HasPrefix(header, xzMagic):
		xr, err := xz.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("opening xz playlist: %w", err)
		}
		return xr, nil
	}
	return br, nil
}

// ParseCompressed parses a playlist that may be compressed
func (p Parser) ParseCompressed(r io.Reader) ([]domain.M3UChannel, error) {
	dr, err := Decompress(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}
	return p.Parse(dr)
}

package archive

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"hash"
	"hash/crc32"
	"io"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
)

const (
	fileHeaderSignature      = 0x04034b50
	directoryHeaderSignature = 0x02014b50
	directoryEndSignature    = 0x06054b50
	directory64EndSignature  = 0x06064b50
	dataDescriptorSignature  = 0x08074b50

	fileHeaderLen = 26 // after the signature

	flagEncrypted      = 0x1
	flagDataDescriptor = 0x8

	zip64ExtraID = 0x0001
	uint32max    = 1<<32 - 1
)

// Header describes an entry found by Reader.Next.
type Header struct {
	Name     string
	Method   uint16
	Flags    uint16
	Modified time.Time

	// CRC32 and the sizes come from the local header. When the entry has a
	// data descriptor they are zero until the entry has been read to io.EOF.
	CRC32              uint32
	CompressedSize64   uint64
	UncompressedSize64 uint64

	zip64 bool
}

// Reader walks the entries of a zip archive in storage order, reading the
// archive as a forward-only stream. It never seeks and stops at the central
// directory, so it works on archives that are still being produced.
//
// Entries compressed with DEFLATE are always readable. Stored entries are
// readable only when their size is recorded in the local header.
type Reader struct {
	r   *countingReader
	cur *entryReader
	err error
}

// NewReader creates a Reader consuming r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: &countingReader{r: bufio.NewReaderSize(r, 32*1024)}}
}

// Next advances to the next entry. Unread content of the current entry is
// discarded and verified. Next returns io.EOF once the central directory is
// reached.
func (r *Reader) Next() (*Header, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.cur != nil {
		if _, err := io.Copy(io.Discard, r.cur); err != nil {
			r.err = err
			return nil, err
		}
		r.cur = nil
	}

	h, err := r.readHeader()
	if err != nil {
		r.err = err
		return nil, err
	}
	cur, err := r.open(h)
	if err != nil {
		r.err = err
		return nil, err
	}
	r.cur = cur
	return h, nil
}

// Read reads the decoded content of the current entry. At the end of the
// content it verifies the CRC-32 and sizes and returns io.EOF, or
// ErrChecksum on mismatch.
func (r *Reader) Read(p []byte) (int, error) {
	if r.cur == nil {
		if r.err != nil {
			return 0, r.err
		}
		return 0, io.EOF
	}
	return r.cur.Read(p)
}

func (r *Reader) readHeader() (*Header, error) {
	var sig [4]byte
	if _, err := io.ReadFull(r.r, sig[:]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	switch binary.LittleEndian.Uint32(sig[:]) {
	case fileHeaderSignature:
	case directoryHeaderSignature, directoryEndSignature, directory64EndSignature:
		return nil, io.EOF
	default:
		return nil, ErrFormat
	}

	var buf [fileHeaderLen]byte
	if _, err := io.ReadFull(r.r, buf[:]); err != nil {
		return nil, unexpected(err)
	}
	b := readBuf(buf[:])
	_ = b.uint16() // version needed
	h := &Header{
		Flags:  b.uint16(),
		Method: b.uint16(),
	}
	modTime := b.uint16()
	modDate := b.uint16()
	h.Modified = msDosTimeToTime(modDate, modTime)
	h.CRC32 = b.uint32()
	h.CompressedSize64 = uint64(b.uint32())
	h.UncompressedSize64 = uint64(b.uint32())
	nameLen := int(b.uint16())
	extraLen := int(b.uint16())

	rest := make([]byte, nameLen+extraLen)
	if _, err := io.ReadFull(r.r, rest); err != nil {
		return nil, unexpected(err)
	}
	h.Name = string(rest[:nameLen])
	if err := h.parseExtra(rest[nameLen:]); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Header) parseExtra(extra []byte) error {
	b := readBuf(extra)
	for len(b) >= 4 {
		id := b.uint16()
		size := int(b.uint16())
		if len(b) < size {
			return ErrFormat
		}
		field := b.sub(size)
		if id != zip64ExtraID {
			continue
		}
		h.zip64 = true
		if h.UncompressedSize64 == uint32max && len(field) >= 8 {
			h.UncompressedSize64 = field.uint64()
		}
		if h.CompressedSize64 == uint32max && len(field) >= 8 {
			h.CompressedSize64 = field.uint64()
		}
	}
	return nil
}

func (r *Reader) open(h *Header) (*entryReader, error) {
	if h.Flags&flagEncrypted != 0 {
		return nil, fmt.Errorf("%w: %q is encrypted", ErrUnsupported, h.Name)
	}
	descriptor := h.Flags&flagDataDescriptor != 0

	e := &entryReader{
		r:          r.r,
		h:          h,
		descriptor: descriptor,
		hash:       crc32.NewIEEE(),
		start:      r.r.n,
	}
	switch h.Method {
	case zip.Store:
		if descriptor {
			return nil, fmt.Errorf("%w: stored entry %q has no size in its local header", ErrUnsupported, h.Name)
		}
		e.body = io.LimitReader(r.r, int64(h.CompressedSize64))
	case zip.Deflate:
		// countingReader is an io.ByteReader, so the decompressor stops
		// exactly at the end of the deflate stream.
		fr := flate.NewReader(r.r)
		e.body = fr
		e.closer = fr
	default:
		return nil, fmt.Errorf("%w: %q uses compression method %d", ErrUnsupported, h.Name, h.Method)
	}
	return e, nil
}

type entryReader struct {
	r          *countingReader
	h          *Header
	body       io.Reader
	closer     io.Closer
	descriptor bool
	hash       hash.Hash32
	start      int64
	n          uint64
	err        error
}

func (e *entryReader) Read(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.body.Read(p)
	e.hash.Write(p[:n])
	e.n += uint64(n)
	if err == io.EOF {
		if verr := e.finish(); verr != nil {
			err = verr
		}
	} else if err != nil {
		err = unexpected(err)
	}
	if err != nil {
		e.err = err
	}
	return n, err
}

func (e *entryReader) finish() error {
	if e.closer != nil {
		if err := e.closer.Close(); err != nil {
			return err
		}
	}
	compressed := uint64(e.r.n - e.start)

	crc, csize, usize := e.h.CRC32, e.h.CompressedSize64, e.h.UncompressedSize64
	if e.descriptor {
		var err error
		if crc, csize, usize, err = e.readDescriptor(compressed); err != nil {
			return err
		}
		e.h.CRC32, e.h.CompressedSize64, e.h.UncompressedSize64 = crc, csize, usize
	}

	if csize != compressed || usize != e.n {
		return fmt.Errorf("%w: %q size mismatch", ErrChecksum, e.h.Name)
	}
	if crc != e.hash.Sum32() {
		return fmt.Errorf("%w: %q crc mismatch", ErrChecksum, e.h.Name)
	}
	return io.EOF
}

func (e *entryReader) readDescriptor(compressed uint64) (crc uint32, csize, usize uint64, err error) {
	var buf [4]byte
	if _, err = io.ReadFull(e.r, buf[:]); err != nil {
		return 0, 0, 0, unexpected(err)
	}
	crc = binary.LittleEndian.Uint32(buf[:])
	// The signature is optional.
	if crc == dataDescriptorSignature {
		if _, err = io.ReadFull(e.r, buf[:]); err != nil {
			return 0, 0, 0, unexpected(err)
		}
		crc = binary.LittleEndian.Uint32(buf[:])
	}

	if e.h.zip64 || compressed >= uint32max || e.n >= uint32max {
		var sizes [16]byte
		if _, err = io.ReadFull(e.r, sizes[:]); err != nil {
			return 0, 0, 0, unexpected(err)
		}
		b := readBuf(sizes[:])
		return crc, b.uint64(), b.uint64(), nil
	}
	var sizes [8]byte
	if _, err = io.ReadFull(e.r, sizes[:]); err != nil {
		return 0, 0, 0, unexpected(err)
	}
	b := readBuf(sizes[:])
	return crc, uint64(b.uint32()), uint64(b.uint32()), nil
}

// countingReader counts the bytes consumed from the underlying stream.
type countingReader struct {
	r *bufio.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func (c *countingReader) ReadByte() (byte, error) {
	b, err := c.r.ReadByte()
	if err == nil {
		c.n++
	}
	return b, err
}

type readBuf []byte

func (b *readBuf) uint16() uint16 {
	v := binary.LittleEndian.Uint16(*b)
	*b = (*b)[2:]
	return v
}

func (b *readBuf) uint32() uint32 {
	v := binary.LittleEndian.Uint32(*b)
	*b = (*b)[4:]
	return v
}

func (b *readBuf) uint64() uint64 {
	v := binary.LittleEndian.Uint64(*b)
	*b = (*b)[8:]
	return v
}

func (b *readBuf) sub(n int) readBuf {
	b2 := (*b)[:n]
	*b = (*b)[n:]
	return b2
}

func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// msDosTimeToTime converts an MS-DOS date and time into a time.Time.
// The resolution is 2s.
func msDosTimeToTime(dosDate, dosTime uint16) time.Time {
	return time.Date(
		int(dosDate>>9+1980),
		time.Month(dosDate>>5&0xf),
		int(dosDate&0x1f),
		int(dosTime>>11),
		int(dosTime>>5&0x3f),
		int(dosTime&0x1f*2),
		0,
		time.UTC,
	)
}

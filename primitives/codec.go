package primitives

import (
	"encoding/binary"
	"fmt"
)

// CodecError is the sentinel exception type for programmer/protocol errors
// in this package (spec.md §7: "a single sentinel type is thrown").
type CodecError struct {
	Code      ErrorCode
	Message   string
	Offset    int
	Remaining int
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("%s (offset=%d remaining=%d)", e.Message, e.Offset, e.Remaining)
}

// bufferOverrunError constructs the over-read error codec reads/writes
// raise, tagged with the BufferOverrun ErrorCode (spec.md §7).
func bufferOverrunError(offset, remaining int) *CodecError {
	return &CodecError{Code: BufferOverrun, Message: "buffer overrun", Offset: offset, Remaining: remaining}
}

// ByteReader is a cursor-tracked reader over a byte span.
type ByteReader struct {
	buf    []byte
	cursor int
}

func NewByteReader(buf []byte) *ByteReader {
	return &ByteReader{buf: buf}
}

func (r *ByteReader) Remaining() int { return len(r.buf) - r.cursor }
func (r *ByteReader) Cursor() int    { return r.cursor }

func (r *ByteReader) need(n int) {
	if r.Remaining() < n {
		panic(bufferOverrunError(r.cursor, r.Remaining()))
	}
}

func (r *ByteReader) ReadU8() uint8 {
	r.need(1)
	v := r.buf[r.cursor]
	r.cursor++
	return v
}

func (r *ByteReader) ReadI8() int8 { return int8(r.ReadU8()) }

func (r *ByteReader) ReadU16LE() uint16 {
	r.need(2)
	v := binary.LittleEndian.Uint16(r.buf[r.cursor:])
	r.cursor += 2
	return v
}

func (r *ByteReader) ReadU16BE() uint16 {
	r.need(2)
	v := binary.BigEndian.Uint16(r.buf[r.cursor:])
	r.cursor += 2
	return v
}

func (r *ByteReader) ReadI16LE() int16 { return int16(r.ReadU16LE()) }
func (r *ByteReader) ReadI16BE() int16 { return int16(r.ReadU16BE()) }

func (r *ByteReader) ReadU32LE() uint32 {
	r.need(4)
	v := binary.LittleEndian.Uint32(r.buf[r.cursor:])
	r.cursor += 4
	return v
}

func (r *ByteReader) ReadU32BE() uint32 {
	r.need(4)
	v := binary.BigEndian.Uint32(r.buf[r.cursor:])
	r.cursor += 4
	return v
}

func (r *ByteReader) ReadI32LE() int32 { return int32(r.ReadU32LE()) }
func (r *ByteReader) ReadI32BE() int32 { return int32(r.ReadU32BE()) }

func (r *ByteReader) ReadU64LE() uint64 {
	r.need(8)
	v := binary.LittleEndian.Uint64(r.buf[r.cursor:])
	r.cursor += 8
	return v
}

func (r *ByteReader) ReadU64BE() uint64 {
	r.need(8)
	v := binary.BigEndian.Uint64(r.buf[r.cursor:])
	r.cursor += 8
	return v
}

func (r *ByteReader) ReadI64LE() int64 { return int64(r.ReadU64LE()) }
func (r *ByteReader) ReadI64BE() int64 { return int64(r.ReadU64BE()) }

// ReadVarint reads a LEB128 unsigned varint, 1-10 bytes, MSB continuation.
func (r *ByteReader) ReadVarint() uint64 {
	var result uint64
	var shift uint
	for {
		b := r.ReadU8()
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
	}
	return result
}

func (r *ByteReader) ReadBytes(n int) []byte {
	r.need(n)
	v := r.buf[r.cursor : r.cursor+n]
	r.cursor += n
	return v
}

func (r *ByteReader) ReadString(n int) string {
	return string(r.ReadBytes(n))
}

// ByteWriter is a growable, cursor-tracked byte-span writer.
type ByteWriter struct {
	buf []byte
}

func NewByteWriter() *ByteWriter {
	return &ByteWriter{}
}

func (w *ByteWriter) Bytes() []byte { return w.buf }

func (w *ByteWriter) WriteU8(v uint8) { w.buf = append(w.buf, v) }
func (w *ByteWriter) WriteI8(v int8)  { w.WriteU8(uint8(v)) }

func (w *ByteWriter) WriteU16LE(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *ByteWriter) WriteU16BE(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *ByteWriter) WriteI16LE(v int16) { w.WriteU16LE(uint16(v)) }
func (w *ByteWriter) WriteI16BE(v int16) { w.WriteU16BE(uint16(v)) }

func (w *ByteWriter) WriteU32LE(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *ByteWriter) WriteU32BE(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *ByteWriter) WriteI32LE(v int32) { w.WriteU32LE(uint32(v)) }
func (w *ByteWriter) WriteI32BE(v int32) { w.WriteU32BE(uint32(v)) }

func (w *ByteWriter) WriteU64LE(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *ByteWriter) WriteU64BE(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *ByteWriter) WriteI64LE(v int64) { w.WriteU64LE(uint64(v)) }
func (w *ByteWriter) WriteI64BE(v int64) { w.WriteU64BE(uint64(v)) }

// WriteVarint writes v as a LEB128 unsigned varint.
func (w *ByteWriter) WriteVarint(v uint64) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.buf = append(w.buf, b)
		if v == 0 {
			break
		}
	}
}

func (w *ByteWriter) WriteBytes(b []byte) { w.buf = append(w.buf, b...) }
func (w *ByteWriter) WriteString(s string) { w.buf = append(w.buf, s...) }

// EncodeLengthDelimitedFrame prepends a 4-byte little-endian length to
// payload.
func EncodeLengthDelimitedFrame(payload []byte) []byte {
	w := NewByteWriter()
	w.WriteU32LE(uint32(len(payload)))
	w.WriteBytes(payload)
	return w.Bytes()
}

// TryDecodeLengthDelimitedFrame returns the payload slice and bytes
// consumed when a full frame is present in buf, else nil with consumed=0.
func TryDecodeLengthDelimitedFrame(buf []byte) (payload []byte, consumed int) {
	if len(buf) < 4 {
		return nil, 0
	}
	length := binary.LittleEndian.Uint32(buf)
	total := 4 + int(length)
	if len(buf) < total {
		return nil, 0
	}
	return buf[4:total], total
}

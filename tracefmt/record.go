// Package tracefmt reads the dynamic memory/branch trace log: a flat
// sequence of fixed-size little-endian records emitted by the emulator at
// runtime. It produces the flat []addr.MemlogOp stream the associator
// consumes.
package tracefmt

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/symtrace/symtrace/addr"
)

// RecordSize is the fixed size in bytes of every trace record.
const RecordSize = 40

type entryType uint64

const (
	entryAddr   entryType = 0
	entryBranch entryType = 1
	entrySelect entryType = 2
)

// Reader decodes a sequence of fixed-size trace records from an
// io.Reader into addr.MemlogOp values.
type Reader struct {
	r   io.Reader
	buf [RecordSize]byte
	pos int64 // records read so far, for diagnostics
}

// NewReader wraps r, which must yield whole RecordSize-byte records.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// ReadAll decodes every record from r until EOF, returning them in file
// order. Any malformed record is a fatal parse error per the governing
// specification: this function returns an error rather than a partial
// result, since a misaligned trace invalidates everything after it.
func ReadAll(r io.Reader) ([]addr.MemlogOp, error) {
	rd := NewReader(r)
	var out []addr.MemlogOp
	for {
		op, err := rd.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, op)
	}
}

// Next decodes the next record, or returns io.EOF if the stream is
// exhausted exactly at a record boundary.
func (rd *Reader) Next() (addr.MemlogOp, error) {
	n, err := io.ReadFull(rd.r, rd.buf[:])
	if err == io.EOF {
		return addr.MemlogOp{}, io.EOF
	}
	if err != nil || n != RecordSize {
		return addr.MemlogOp{}, fmt.Errorf("tracefmt: record %d: short read (%d bytes): %w", rd.pos, n, err)
	}
	op, err := decode(rd.buf[:])
	if err != nil {
		return addr.MemlogOp{}, fmt.Errorf("tracefmt: record %d: %w", rd.pos, err)
	}
	rd.pos++
	return op, nil
}

func decode(buf []byte) (addr.MemlogOp, error) {
	et := entryType(binary.LittleEndian.Uint64(buf[0:8]))
	switch et {
	case entryAddr:
		return decodeAddr(buf)
	case entryBranch:
		taken := binary.LittleEndian.Uint32(buf[8:12])
		return addr.BranchEvent(taken), nil
	case entrySelect:
		sel := binary.LittleEndian.Uint32(buf[8:12])
		return addr.SelectEvent(sel), nil
	default:
		return addr.MemlogOp{}, fmt.Errorf("unknown entry_type %d", uint64(et))
	}
}

func decodeAddr(buf []byte) (addr.MemlogOp, error) {
	opVal := binary.LittleEndian.Uint64(buf[8:16])
	kindVal := binary.LittleEndian.Uint64(buf[16:24])
	val := binary.LittleEndian.Uint64(buf[24:32])
	off := binary.LittleEndian.Uint32(buf[32:36])
	// addr_flag is a signed i32 packed next to otherwise-unsigned fields;
	// read the raw bit pattern and reinterpret it as int32 rather than
	// trying to "sign-decode" a u32 value, per the format's own framing.
	rawFlag := binary.LittleEndian.Uint32(buf[36:40])
	flag := addr.Flag(int32(rawFlag))

	if opVal > uint64(addr.OpSelectAddr) {
		return addr.MemlogOp{}, fmt.Errorf("unknown addr_op %d", opVal)
	}
	if kindVal > uint64(addr.Ret) {
		return addr.MemlogOp{}, fmt.Errorf("unknown addr_kind %d", kindVal)
	}
	switch flag {
	case addr.Irrelevant, addr.None, addr.Exception, addr.Readlog, addr.Funcarg:
	default:
		return addr.MemlogOp{}, fmt.Errorf("unknown addr_flag %d", int32(flag))
	}

	entry := addr.AddrEntry{
		KindOf: addr.Kind(kindVal),
		Value:  val,
		Offset: off,
		Flag:   flag,
	}
	return addr.AddrEvent(addr.AddrOp(opVal), entry), nil
}

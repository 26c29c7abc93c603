package addr

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Loc is the evaluator's abstract storage key: either an SSA value in a
// function (IdLoc) or a memory cell (MemLoc). It implements the
// hash/equal shape utils.HashableHasher needs so it can key a
// benbjohnson/immutable.Map.
type Loc interface {
	Hash() uint32
	Equal(Loc) bool
	String() string
	isLoc()
}

// IdLoc names an SSA value by the function activation it belongs to and
// its identifier within that function.
type IdLoc struct {
	Func string
	Name string
}

func (IdLoc) isLoc() {}

func (l IdLoc) Equal(o Loc) bool {
	other, ok := o.(IdLoc)
	return ok && other.Func == l.Func && other.Name == l.Name
}

func (l IdLoc) Hash() uint32 {
	d := xxhash.New()
	d.WriteString("id\x00")
	d.WriteString(l.Func)
	d.WriteString("\x00")
	d.WriteString(l.Name)
	return uint32(d.Sum64())
}

func (l IdLoc) String() string { return fmt.Sprintf("%s:%%%s", l.Func, l.Name) }

// MemLoc names a memory cell by its address.
type MemLoc struct {
	Addr AddrEntry
}

func (MemLoc) isLoc() {}

func (l MemLoc) Equal(o Loc) bool {
	other, ok := o.(MemLoc)
	return ok && other.Addr == l.Addr
}

func (l MemLoc) Hash() uint32 {
	d := xxhash.New()
	d.WriteString("mem\x00")
	var buf [24]byte
	buf[0] = byte(l.Addr.KindOf)
	for i := 0; i < 8; i++ {
		buf[1+i] = byte(l.Addr.Value >> (8 * i))
	}
	for i := 0; i < 4; i++ {
		buf[9+i] = byte(l.Addr.Offset >> (8 * i))
	}
	f := uint32(int32(l.Addr.Flag))
	for i := 0; i < 4; i++ {
		buf[13+i] = byte(f >> (8 * i))
	}
	d.Write(buf[:17])
	return uint32(d.Sum64())
}

func (l MemLoc) String() string { return l.Addr.Pretty() }

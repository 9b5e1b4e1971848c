package clrmeta_test

import (
	"testing"

	fuzz "github.com/google/gofuzz"

	"github.com/wippyai/clrmeta"
)

// walk touches every projection of md so panics in lazy paths surface.
func walk(md *clrmeta.Metadata) {
	_ = md.Assembly()
	_ = md.Module()
	for ty := range md.Types() {
		_ = ty.FullName()
		for m := range ty.Methods() {
			for range m.Params() {
			}
		}
		for range ty.Fields() {
		}
		for range ty.NestedTypes() {
		}
		ty.EnclosingType()
	}
	for range md.TypeRefs() {
	}
	for range md.MemberRefs() {
	}
	for range md.CustomAttributes() {
	}
	for r := range md.AssemblyRefs() {
		_ = r.FullName()
	}
	_ = md.Validate()
}

func TestParseMutatedInput(t *testing.T) {
	base := newSample().bytes()
	fz := fuzz.NewWithSeed(12345)

	for i := range 2000 {
		b := append([]byte(nil), base...)
		var edits []struct {
			Pos uint16
			Val byte
		}
		fz.NumElements(1, 8).Fuzz(&edits)
		for _, e := range edits {
			b[int(e.Pos)%len(b)] = e.Val
		}

		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("iteration %d: panic %v", i, r)
				}
			}()
			md, err := clrmeta.Parse(b)
			if err != nil {
				return
			}
			walk(md)
		}()
	}
}

func TestParseTruncatedPrefixes(t *testing.T) {
	base := newSample().bytes()
	// The last stream is followed by at most 3 bytes of padding, so any
	// shorter prefix cuts into a declared stream.
	for n := range len(base) - 3 {
		if _, err := clrmeta.Parse(base[:n]); err == nil {
			t.Errorf("Parse(base[:%d]) succeeded", n)
		}
	}
}

func TestParseRandomInput(t *testing.T) {
	fz := fuzz.NewWithSeed(31415).NilChance(0).NumElements(0, 512)
	for range 500 {
		var b []byte
		fz.Fuzz(&b)
		if len(b) >= 4 {
			// Keep the signature so parsing reaches the directory.
			copy(b, []byte{0x42, 0x53, 0x4A, 0x42})
		}
		md, err := clrmeta.Parse(b)
		if err == nil {
			walk(md)
		}
	}
}

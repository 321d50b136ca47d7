package chain

import (
	"slices"
	"testing"
)

// FuzzEdits applies a byte-coded edit script to a chain and to a plain slice
// and checks that both agree after every step.
func FuzzEdits(f *testing.F) {
	f.Add([]byte{0, 1, 2, 3})
	f.Add([]byte{1, 5, 1, 5, 2, 0, 3, 1, 4, 2})
	f.Add([]byte{2, 9, 2, 9, 5, 0, 6, 1, 7, 3, 3, 3})
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, script []byte) {
		host := []byte{10, 11, 12, 13, 14, 15, 16, 17}
		c := FromSlice(slices.Clone(host))
		model := slices.Clone(host)

		for i := 0; i+1 < len(script); i += 2 {
			op, arg := script[i]%8, int(script[i+1])
			pos := 0
			if len(model) > 0 {
				pos = arg % (len(model) + 1)
			}

			switch op {
			case 0:
				c.Add(byte(arg))
				model = append(model, byte(arg))
			case 1:
				if err := c.Insert(pos, byte(arg)); err != nil {
					t.Fatalf("Insert(%d): %v", pos, err)
				}
				model = slices.Insert(model, pos, byte(arg))
			case 2:
				block := []byte{byte(arg), byte(arg + 1)}
				if err := c.InsertBlock(pos, block); err != nil {
					t.Fatalf("InsertBlock(%d): %v", pos, err)
				}
				model = slices.Insert(model, pos, block...)
			case 3:
				if len(model) == 0 {
					continue
				}
				idx := arg % len(model)
				v, err := c.RemoveAt(idx)
				if err != nil || v != model[idx] {
					t.Fatalf("RemoveAt(%d) = %d, %v; want %d", idx, v, err, model[idx])
				}
				model = slices.Delete(model, idx, idx+1)
			case 4:
				search := byte(arg % 20)
				want := 0
				for j, v := range model {
					if v == search {
						model[j] = 0xff
						want++
					}
				}
				if got := c.Replace(search, 0xff); got != want {
					t.Fatalf("Replace(%d) = %d, want %d", search, got, want)
				}
			case 5:
				c.Compact()
			case 6:
				if len(model) == 0 {
					continue
				}
				start := arg % len(model)
				length := (len(model) - start) / 2
				s, err := c.Slice(start, length)
				if err != nil {
					t.Fatalf("Slice(%d, %d): %v", start, length, err)
				}
				if !slices.Equal(s.ToSlice(), model[start:start+length]) {
					t.Fatalf("Slice(%d, %d) = %v, want %v", start, length, s.ToSlice(), model[start:start+length])
				}
			case 7:
				if len(model) == 0 {
					continue
				}
				idx := arg % len(model)
				v, err := c.At(idx)
				if err != nil || v != model[idx] {
					t.Fatalf("At(%d) = %d, %v; want %d", idx, v, err, model[idx])
				}
			}

			if err := c.Validate(); err != nil {
				t.Fatalf("after op %d: %v", op, err)
			}
			if got := c.ToSlice(); !slices.Equal(got, model) {
				t.Fatalf("after op %d: got %v, want %v", op, got, model)
			}
		}

		if !slices.Equal(host, []byte{10, 11, 12, 13, 14, 15, 16, 17}) {
			t.Fatalf("edits wrote through to the original slice: %v", host)
		}
	})
}

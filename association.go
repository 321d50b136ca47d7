package chain

import "fmt"

// Association is a key/value pair held by a keyed chain.
type Association[K comparable, V comparable] struct {
	Index   K
	Element V
}

// String renders the pair as "key: value".
func (a Association[K, V]) String() string {
	return fmt.Sprintf("%v: %v", a.Index, a.Element)
}

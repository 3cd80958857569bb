// Package examples is the fixture registry of the Table scitype.
//
// It enumerates hand-written example tables, keyed by the triple
// (mtype, scitype, index), for use by conversion and type-checking tests:
//
//   - Examples maps each key to a data object, or to the absence marker when
//     the mtype cannot represent that example's content.
//   - LossyFlags maps the same keys to whether the representation discards
//     information (column names) held by a lossless representation.
//
// All examples sharing a (scitype, index) pair hold the same content. A
// conversion from a lossless representation to any other mtype must therefore
// reproduce that mtype's example with the same index exactly.
//
// The registry is populated once and never changes. Every read builds a
// fresh data object, so callers may modify or release what they receive.
package examples

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ajitpratap0/datatypes/pkg/errors"
	"github.com/ajitpratap0/datatypes/pkg/table/mtype"
)

// Key identifies an example
type Key struct {
	MType   mtype.MType   `json:"mtype"`
	SciType mtype.SciType `json:"scitype"`
	Index   int           `json:"index"`
}

// String renders the key as mtype/scitype/index
func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%d", k.MType, k.SciType, k.Index)
}

// Example is a registry value: a data object or the absence marker
type Example struct {
	build func() any
}

// Representable is false for the absence marker
func (e Example) Representable() bool {
	return e.build != nil
}

// Data returns a fresh copy of the example's data object, or nil for the
// absence marker. A nil result never stands for an empty table.
func (e Example) Data() any {
	if e.build == nil {
		return nil
	}
	return e.build()
}

// Lossiness is the lossy flag of an example
type Lossiness int8

const (
	// LossinessAbsent is the absence marker: the example is not representable
	LossinessAbsent Lossiness = iota
	// Lossless representations keep all content, including column names
	Lossless
	// Lossy representations drop information, such as column names
	Lossy
)

// String returns "lossless", "lossy" or "absent"
func (l Lossiness) String() string {
	switch l {
	case Lossless:
		return "lossless"
	case Lossy:
		return "lossy"
	default:
		return "absent"
	}
}

// IsLossy returns the flag as a bool; ok is false for the absence marker
func (l Lossiness) IsLossy() (lossy, ok bool) {
	switch l {
	case Lossless:
		return false, true
	case Lossy:
		return true, true
	default:
		return false, false
	}
}

// MarshalText encodes the flag as its string form
func (l Lossiness) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText parses the string form written by MarshalText
func (l *Lossiness) UnmarshalText(text []byte) error {
	switch string(text) {
	case "lossless":
		*l = Lossless
	case "lossy":
		*l = Lossy
	case "absent":
		*l = LossinessAbsent
	default:
		return errors.Newf(errors.ErrorTypeValidation, "unknown lossiness %q", text)
	}
	return nil
}

type entry struct {
	example Example
	lossy   Lossiness
}

type registry struct {
	entries map[Key]entry
}

var (
	global   *registry
	loadOnce sync.Once
)

func load() *registry {
	loadOnce.Do(func() {
		global = &registry{entries: make(map[Key]entry)}
		populateTable(global)
	})
	return global
}

func (r *registry) add(m mtype.MType, s mtype.SciType, index int, lossy Lossiness, build func() any) {
	r.entries[Key{MType: m, SciType: s, Index: index}] = entry{
		example: Example{build: build},
		lossy:   lossy,
	}
}

func (r *registry) absent(m mtype.MType, s mtype.SciType, index int) {
	r.entries[Key{MType: m, SciType: s, Index: index}] = entry{lossy: LossinessAbsent}
}

// Examples returns the example map. The map is a fresh copy.
func Examples() map[Key]Example {
	r := load()
	out := make(map[Key]Example, len(r.entries))
	for k, e := range r.entries {
		out[k] = e.example
	}
	return out
}

// LossyFlags returns the lossiness map, keyed like Examples. The map is a fresh copy.
func LossyFlags() map[Key]Lossiness {
	r := load()
	out := make(map[Key]Lossiness, len(r.entries))
	for k, e := range r.entries {
		out[k] = e.lossy
	}
	return out
}

// Get returns the example registered under k. ok is false when k is not
// registered at all, which differs from a registered absence marker.
func Get(k Key) (Example, bool) {
	e, ok := load().entries[k]
	return e.example, ok
}

// LossyFlag returns the lossiness registered under k
func LossyFlag(k Key) (Lossiness, bool) {
	e, ok := load().entries[k]
	return e.lossy, ok
}

// Lookup returns the data object registered under k. It fails with a
// not_found error for unregistered keys and an unrepresentable error for the
// absence marker.
func Lookup(k Key) (any, error) {
	e, ok := Get(k)
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeNotFound, "no example registered for %s", k)
	}
	if !e.Representable() {
		return nil, errors.Newf(errors.ErrorTypeUnrepresentable, "%s cannot represent example %d", k.MType, k.Index).
			WithDetail("key", k.String())
	}
	return e.Data(), nil
}

// Keys returns all registered keys ordered by scitype, index and mtype
func Keys() []Key {
	r := load()
	keys := make([]Key, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	sortKeys(keys)
	return keys
}

// Indices returns the sorted example indices registered for a scitype
func Indices(s mtype.SciType) []int {
	seen := make(map[int]struct{})
	for k := range load().entries {
		if k.SciType == s {
			seen[k.Index] = struct{}{}
		}
	}

	out := make([]int, 0, len(seen))
	for i := range seen {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// ForIndex returns every mtype's example for one (scitype, index) pair
func ForIndex(s mtype.SciType, index int) map[mtype.MType]Example {
	out := make(map[mtype.MType]Example)
	for k, e := range load().entries {
		if k.SciType == s && k.Index == index {
			out[k.MType] = e.example
		}
	}
	return out
}

func sortKeys(keys []Key) {
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.SciType != b.SciType {
			return a.SciType < b.SciType
		}
		if a.Index != b.Index {
			return a.Index < b.Index
		}
		return a.MType < b.MType
	})
}

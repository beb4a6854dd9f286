// SPDX-License-Identifier: MIT
// Package: copulanet/builder
//
// id_fn.go: node naming schemes.

package builder

import (
	"fmt"
	"strconv"
)

// IDFn maps a node index to its name.
type IDFn func(idx int) string

// DefaultIDFn renders the index in decimal ("0","1",...).
func DefaultIDFn(idx int) string {
	return strconv.Itoa(idx)
}

// ExcelColumnIDFn renders spreadsheet column names: 0→"A", 25→"Z",
// 26→"AA". Panics on negative input.
func ExcelColumnIDFn(idx int) string {
	if idx < 0 {
		panic(fmt.Sprintf("ExcelColumnIDFn: idx must be ≥ 0, got %d", idx))
	}
	var runes []rune
	for i := idx; i >= 0; i = i/26 - 1 {
		runes = append(runes, rune('A'+(i%26)))
	}
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}

	return string(runes)
}

// PrefixIDFn renders prefix followed by the decimal index ("X0","X1",...).
func PrefixIDFn(prefix string) IDFn {
	return func(idx int) string {
		return prefix + strconv.Itoa(idx)
	}
}

// WithDefaultIDs names nodes "0","1",...
func WithDefaultIDs() BuilderOption { return WithIDScheme(DefaultIDFn) }

// WithPrefixIDs names nodes prefix+index.
func WithPrefixIDs(prefix string) BuilderOption { return WithIDScheme(PrefixIDFn(prefix)) }

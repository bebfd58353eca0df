// Package jassgo holds the types that transpiled scripts refer to. A host
// program imports it, assigns the native function variables of the
// generated package, calls its InitializeGlobals function when there is
// one and then calls its entry points.
package jassgo

import "strings"

// ArraySize is the fixed length of every JASS array.
const ArraySize = 8192

// Handle is implemented by every host object a script can hold.
type Handle interface {
	HandleID() int32
}

// Code is a function reference taken with "function f".
type Code = any

// FourCC packs a four-character code such as "hfoo" into its integer
// value, most significant byte first. Longer codes wrap like the
// integer arithmetic they stand for.
func FourCC(code string) int32 {
	var v uint32
	for i := 0; i < len(code); i++ {
		v = v<<8 | uint32(code[i])
	}
	return int32(v)
}

// FourCCString is the inverse of FourCC for codes without NUL bytes.
func FourCCString(v int32) string {
	u := uint32(v)
	var sb strings.Builder
	for shift := 24; shift >= 0; shift -= 8 {
		b := byte(u >> uint(shift))
		if b == 0 && sb.Len() == 0 {
			continue
		}
		sb.WriteByte(b)
	}
	return sb.String()
}

// HandleID returns the id of h, or 0 for a nil handle.
func HandleID(h Handle) int32 {
	if h == nil {
		return 0
	}
	return h.HandleID()
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shadertypes

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
)

// SPIR-V constants used when reading decorations back out of a module.
const (
	spirvMagic          = 0x07230203
	spirvHeaderWords    = 5
	spirvOpName         = 5
	spirvOpDecorate     = 71
	spirvDecorationBind = 33
	spirvDecorationSet  = 34
)

// ErrInvalidSPIRV is returned for a byte slice that is not a SPIR-V module.
var ErrInvalidSPIRV = errors.New("shadertypes: invalid SPIR-V module")

// SPIRVWords converts little-endian SPIR-V bytes into words.
func SPIRVWords(spirv []byte) ([]uint32, error) {
	if len(spirv)%4 != 0 || len(spirv) < spirvHeaderWords*4 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidSPIRV, len(spirv))
	}
	words := make([]uint32, len(spirv)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirv[i*4:])
	}
	if words[0] != spirvMagic {
		return nil, fmt.Errorf("%w: magic 0x%08X", ErrInvalidSPIRV, words[0])
	}
	return words, nil
}

// SPIRVBindings returns the (descriptor set, binding) decorations of a
// compiled module, sorted by set then binding. Names come from OpName when
// the compiler emitted debug names.
func SPIRVBindings(spirv []byte) ([]Binding, error) {
	words, err := SPIRVWords(spirv)
	if err != nil {
		return nil, err
	}

	type decoration struct {
		set, binding       uint32
		hasSet, hasBinding bool
	}
	decorations := make(map[uint32]*decoration)
	names := make(map[uint32]string)

	for i := spirvHeaderWords; i < len(words); {
		count := int(words[i] >> 16)
		op := words[i] & 0xFFFF
		if count == 0 || i+count > len(words) {
			return nil, fmt.Errorf("%w: bad instruction at word %d", ErrInvalidSPIRV, i)
		}
		operands := words[i+1 : i+count]
		switch op {
		case spirvOpName:
			if len(operands) >= 2 {
				names[operands[0]] = spirvString(operands[1:])
			}
		case spirvOpDecorate:
			if len(operands) >= 3 {
				d := decorations[operands[0]]
				if d == nil {
					d = &decoration{}
					decorations[operands[0]] = d
				}
				switch operands[1] {
				case spirvDecorationSet:
					d.set, d.hasSet = operands[2], true
				case spirvDecorationBind:
					d.binding, d.hasBinding = operands[2], true
				}
			}
		}
		i += count
	}

	var out []Binding
	for id, d := range decorations {
		if d.hasSet && d.hasBinding {
			out = append(out, Binding{Group: d.set, Binding: d.binding, Name: names[id]})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}
		return out[i].Binding < out[j].Binding
	})
	return out, nil
}

// spirvString decodes a nul-terminated literal string.
func spirvString(words []uint32) string {
	b := make([]byte, 0, len(words)*4)
	for _, w := range words {
		for shift := 0; shift < 32; shift += 8 {
			c := byte(w >> shift)
			if c == 0 {
				return string(b)
			}
			b = append(b, c)
		}
	}
	return string(b)
}

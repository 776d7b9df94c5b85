package isa

import (
	"fmt"
	"strconv"
	"strings"
)

// registerNumbers maps canonical MIPS register names to their 5-bit
// numeric index (§4.4 "Register encoding"). Both the ABI name ($t0) and
// the raw numeric form ($8) are accepted per §6's input format.
var registerNumbers = map[string]uint32{
	"zero": 0, "at": 1, "v0": 2, "v1": 3,
	"a0": 4, "a1": 5, "a2": 6, "a3": 7,
	"t0": 8, "t1": 9, "t2": 10, "t3": 11, "t4": 12, "t5": 13, "t6": 14, "t7": 15,
	"s0": 16, "s1": 17, "s2": 18, "s3": 19, "s4": 20, "s5": 21, "s6": 22, "s7": 23,
	"t8": 24, "t9": 25, "k0": 26, "k1": 27,
	"gp": 28, "sp": 29, "fp": 30, "s8": 30,
	"ra": 31,
}

// ParseRegister resolves a register operand spelled "$name" or "$N" to
// its numeric index. The leading '$' is optional here: operands from the
// parser and macro expansion's synthesized "$zero" keep it, while a bare
// name such as "t0" is accepted as well. ABI names match
// case-insensitively.
func ParseRegister(name string) (uint32, error) {
	trimmed := strings.TrimPrefix(name, "$")

	if n, ok := registerNumbers[strings.ToLower(trimmed)]; ok {
		return n, nil
	}

	if n, err := strconv.ParseUint(trimmed, 10, 8); err == nil && n <= 31 {
		return uint32(n), nil
	}

	return 0, fmt.Errorf("unknown register %q", name)
}

// RegisterName returns the canonical ABI name for a register index, with
// a leading '$', or "$N" for an index outside the register file.
func RegisterName(index uint32) string {
	for name, n := range registerNumbers {
		if n == index && name != "s8" { // prefer "fp" over its "s8" alias
			return "$" + name
		}
	}
	return fmt.Sprintf("$%d", index)
}

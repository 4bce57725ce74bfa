package eof

import "fmt"

// EOF-only control-flow opcodes (EIP-4200 relative jumps, EIP-4750/6206
// CALLF/RETF, EIP-7620 EOFCREATE/RETURNCONTRACT).
const (
	opRJUMP          byte = 0xe0
	opRJUMPI         byte = 0xe1
	opRJUMPV         byte = 0xe2
	opCALLF          byte = 0xe3
	opRETF           byte = 0xe4
	opJUMPF          byte = 0xe5
	opEOFCREATE      byte = 0xec
	opRETURNCONTRACT byte = 0xee
	opSTOP           byte = 0x00
	opRETURN         byte = 0xf3
	opREVERT         byte = 0xfd
	opPUSH0          byte = 0x5f
	opPUSH1          byte = 0x60
	opPUSH32         byte = 0x7f
	opJUMP           byte = 0x56
	opJUMPI          byte = 0x57
	opPC             byte = 0x58
	opCODECOPY       byte = 0x39
	opCODESIZE       byte = 0x38
	opEXTCODECOPY    byte = 0x3c
	opSELFDESTRUCT   byte = 0xff
	opCALLCODE       byte = 0xf2
	opJUMPDEST       byte = 0x5b
	opCREATE         byte = 0xf0
	opCREATE2        byte = 0xf5
)

// legacyBanned lists opcodes that are valid in legacy bytecode but banned
// inside EOF code sections because EOF replaces their function (relative
// jumps instead of JUMP/JUMPI, EOFCREATE/RETURNCONTRACT instead of
// CREATE*/RETURN-as-constructor, no dynamic jump destinations so no PC).
var legacyBanned = map[byte]bool{
	opJUMP:         true,
	opJUMPI:        true,
	opPC:           true,
	opCODECOPY:     true,
	opCODESIZE:     true,
	opEXTCODECOPY:  true,
	opSELFDESTRUCT: true,
	opCALLCODE:     true,
	opJUMPDEST:     true, // no dynamic jumps means no jump destinations to mark
	opCREATE:       true,
	opCREATE2:      true,
}

// terminalOpcodes are the opcodes a code section is allowed to end on.
var terminalOpcodes = map[byte]bool{
	opSTOP:           true,
	opRETF:           true,
	opJUMPF:          true,
	opRETURNCONTRACT: true,
	opRETURN:         true,
	opREVERT:         true,
}

// Validate performs structural validation on a decoded container: section
// consistency, the first-section calling-convention rule, immediate-operand
// bounds, RJUMP/RJUMPI/RJUMPV target bounds, and the RETURNCONTRACT-vs-RETURN
// split between init-code and runtime-code containers (spec.md §4.5). Any
// violation is returned as a non-nil error; callers collapse all of them to
// InvalidEOFInitCode at frame-setup time rather than branching on subkind.
func Validate(c *Container) error {
	if c.Version != Version {
		return ErrInvalidVersion
	}
	if len(c.TypeSections) == 0 {
		return ErrMissingTypeSection
	}
	if len(c.CodeSections) == 0 {
		return ErrMissingCodeSection
	}
	if len(c.TypeSections) != len(c.CodeSections) {
		return ErrTypeSizeMismatch
	}

	first := c.TypeSections[0]
	if first.Inputs != 0 || first.Outputs != nonReturning {
		return ErrInvalidFirstCode
	}

	for i, ts := range c.TypeSections {
		if ts.MaxStackHeight > maxStackHeightLimit {
			return fmt.Errorf("eof: type section %d max_stack_height %d exceeds %d", i, ts.MaxStackHeight, maxStackHeightLimit)
		}
	}

	hasSubcontainers := len(c.ContainerSections) > 0
	for i, code := range c.CodeSections {
		if len(code) == 0 {
			return fmt.Errorf("eof: code section %d is empty", i)
		}
		if err := validateCodeSection(code, len(c.CodeSections), hasSubcontainers); err != nil {
			return fmt.Errorf("eof: code section %d: %w", i, err)
		}
	}
	return nil
}

func validateCodeSection(code []byte, numCodeSections int, hasSubcontainers bool) error {
	pos := 0
	lastOp := byte(0)
	for pos < len(code) {
		op := code[pos]
		lastOp = op
		if legacyBanned[op] {
			return fmt.Errorf("opcode 0x%02x banned in EOF code", op)
		}
		if op == opRETURNCONTRACT && !hasSubcontainers {
			return fmt.Errorf("RETURNCONTRACT used without a container section")
		}
		if op == opRETURN && hasSubcontainers {
			// RETURN is legal in EOF runtime code; only init-code containers
			// (identified by the presence of sibling subcontainers destined
			// for EOFCREATE) must use RETURNCONTRACT instead.
			return fmt.Errorf("RETURN used in EOF init-code code section")
		}

		switch {
		case op >= opPUSH1 && op <= opPUSH32:
			n := int(op-opPUSH1) + 1
			pos += 1 + n
			continue
		case op == opPUSH0:
			pos++
			continue
		case op == opRJUMP || op == opRJUMPI:
			if pos+3 > len(code) {
				return ErrBodyTruncated
			}
			target := pos + 3 + int(int16(uint16(code[pos+1])<<8|uint16(code[pos+2])))
			if target < 0 || target >= len(code) {
				return ErrInvalidRJUMPTarget
			}
			pos += 3
			continue
		case op == opRJUMPV:
			if pos+2 > len(code) {
				return ErrBodyTruncated
			}
			count := int(code[pos+1]) + 1
			tableEnd := pos + 2 + count*2
			if tableEnd > len(code) {
				return ErrBodyTruncated
			}
			for i := 0; i < count; i++ {
				off := pos + 2 + i*2
				rel := int16(uint16(code[off])<<8 | uint16(code[off+1]))
				target := tableEnd + int(rel)
				if target < 0 || target >= len(code) {
					return ErrInvalidRJUMPTarget
				}
			}
			pos = tableEnd
			continue
		case op == opCALLF || op == opJUMPF:
			if pos+3 > len(code) {
				return ErrBodyTruncated
			}
			section := int(uint16(code[pos+1])<<8 | uint16(code[pos+2]))
			if section >= numCodeSections {
				return fmt.Errorf("CALLF/JUMPF target section %d out of range", section)
			}
			pos += 3
			continue
		case op == opEOFCREATE:
			if pos+2 > len(code) {
				return ErrBodyTruncated
			}
			pos += 2
			continue
		default:
			pos++
		}
	}
	if !terminalOpcodes[lastOp] {
		return fmt.Errorf("code falls off the end without a terminating instruction")
	}
	return nil
}

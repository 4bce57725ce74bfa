// Package eof decodes and structurally validates the EOF container format
// (EIP-3540 and successors) that Prague/EOFCREATE bytecode is shipped in.
// It is consumed by the frame factory (C6) when constructing EOFCREATE
// frames and by legacy CREATE's 0xEF00-prefix guard.
package eof

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Magic bytes, version, and section-kind markers per EIP-3540.
const (
	Magic0  byte = 0xEF
	Magic1  byte = 0x00
	Version byte = 0x01

	sectionType      byte = 0x01
	sectionCode      byte = 0x02
	sectionContainer byte = 0x03
	sectionData      byte = 0x04
	headerTerminator byte = 0x00

	typeSectionEntrySize = 4
	nonReturning         byte = 0x80
	maxStackHeightLimit  = 0x03FF
)

var (
	ErrTooShort            = errors.New("eof: container too short")
	ErrInvalidMagic        = errors.New("eof: invalid magic bytes")
	ErrInvalidVersion      = errors.New("eof: invalid version")
	ErrMissingTypeSection  = errors.New("eof: missing type section")
	ErrMissingCodeSection  = errors.New("eof: missing code section")
	ErrMissingTerminator   = errors.New("eof: missing header terminator")
	ErrTypeSizeMismatch    = errors.New("eof: type section size does not match code section count")
	ErrZeroTypeSize        = errors.New("eof: type section size is zero")
	ErrZeroCodeSize        = errors.New("eof: code section size is zero")
	ErrInvalidSectionOrder = errors.New("eof: invalid section order")
	ErrDuplicateSection    = errors.New("eof: duplicate section")
	ErrTrailingBytes       = errors.New("eof: trailing bytes after declared sections")
	ErrInvalidFirstCode    = errors.New("eof: first code section must have 0 inputs and non-returning output")
	ErrZeroCodeSections    = errors.New("eof: zero code sections")
	ErrBodyTruncated       = errors.New("eof: body truncated")
	ErrTypeSizeNotDivBy4   = errors.New("eof: type_size not divisible by 4")
	ErrInvalidRJUMPTarget  = errors.New("eof: RJUMP/RJUMPI/RJUMPV target out of bounds")
)

// TypeSection is the per-code-section metadata entry (inputs, outputs,
// declared max stack height).
type TypeSection struct {
	Inputs         uint8
	Outputs        uint8
	MaxStackHeight uint16
}

// Container is a parsed EOF v1 container (header + sections).
type Container struct {
	Version           byte
	TypeSections      []TypeSection
	CodeSections      [][]byte
	ContainerSections [][]byte
	DataSection       []byte
}

// IsEOF reports whether code begins with the EOF magic bytes 0xEF00.
func IsEOF(code []byte) bool {
	return len(code) >= 2 && code[0] == Magic0 && code[1] == Magic1
}

// Decode parses an EOF v1 container from code, requiring that code contain
// exactly the declared sections with no trailing bytes.
func Decode(code []byte) (*Container, error) {
	c, rest, err := decode(code, false)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, ErrTrailingBytes
	}
	return c, nil
}

// DecodeDangling parses an EOF v1 container, permitting (and returning)
// trailing bytes after the declared sections. Used for EOFCREATE-by-
// transaction init data (spec.md §4.5, §4.6.2), where user-supplied
// constructor arguments follow the container.
func DecodeDangling(code []byte) (*Container, []byte, error) {
	return decode(code, true)
}

func decode(code []byte, allowDangling bool) (*Container, []byte, error) {
	if len(code) < 3 {
		return nil, nil, ErrTooShort
	}
	if code[0] != Magic0 || code[1] != Magic1 {
		return nil, nil, ErrInvalidMagic
	}
	if code[2] != Version {
		return nil, nil, ErrInvalidVersion
	}

	pos := 3
	var (
		typeSize       uint16
		codeSizes      []uint16
		containerSizes []uint32
		dataSize       uint16
		hasType        bool
		hasCode        bool
		hasContainer   bool
		hasData        bool
	)

	for {
		if pos >= len(code) {
			return nil, nil, ErrMissingTerminator
		}
		kind := code[pos]
		pos++
		if kind == headerTerminator {
			break
		}

		switch kind {
		case sectionType:
			if hasType {
				return nil, nil, ErrDuplicateSection
			}
			if hasCode || hasContainer || hasData {
				return nil, nil, ErrInvalidSectionOrder
			}
			if pos+2 > len(code) {
				return nil, nil, ErrTooShort
			}
			typeSize = binary.BigEndian.Uint16(code[pos : pos+2])
			pos += 2
			if typeSize == 0 {
				return nil, nil, ErrZeroTypeSize
			}
			hasType = true

		case sectionCode:
			if hasCode {
				return nil, nil, ErrDuplicateSection
			}
			if !hasType {
				return nil, nil, ErrMissingTypeSection
			}
			if hasContainer || hasData {
				return nil, nil, ErrInvalidSectionOrder
			}
			if pos+2 > len(code) {
				return nil, nil, ErrTooShort
			}
			numCode := binary.BigEndian.Uint16(code[pos : pos+2])
			pos += 2
			if numCode == 0 {
				return nil, nil, ErrZeroCodeSections
			}
			codeSizes = make([]uint16, numCode)
			for i := range codeSizes {
				if pos+2 > len(code) {
					return nil, nil, ErrTooShort
				}
				codeSizes[i] = binary.BigEndian.Uint16(code[pos : pos+2])
				pos += 2
				if codeSizes[i] == 0 {
					return nil, nil, ErrZeroCodeSize
				}
			}
			hasCode = true

		case sectionContainer:
			if hasContainer {
				return nil, nil, ErrDuplicateSection
			}
			if !hasCode {
				return nil, nil, ErrMissingCodeSection
			}
			if hasData {
				return nil, nil, ErrInvalidSectionOrder
			}
			if pos+2 > len(code) {
				return nil, nil, ErrTooShort
			}
			numContainer := binary.BigEndian.Uint16(code[pos : pos+2])
			pos += 2
			containerSizes = make([]uint32, numContainer)
			for i := range containerSizes {
				if pos+4 > len(code) {
					return nil, nil, ErrTooShort
				}
				containerSizes[i] = binary.BigEndian.Uint32(code[pos : pos+4])
				pos += 4
			}
			hasContainer = true

		case sectionData:
			if hasData {
				return nil, nil, ErrDuplicateSection
			}
			if !hasCode {
				return nil, nil, ErrMissingCodeSection
			}
			if pos+2 > len(code) {
				return nil, nil, ErrTooShort
			}
			dataSize = binary.BigEndian.Uint16(code[pos : pos+2])
			pos += 2
			hasData = true

		default:
			return nil, nil, fmt.Errorf("eof: unknown section kind 0x%02x", kind)
		}
	}

	if !hasType {
		return nil, nil, ErrMissingTypeSection
	}
	if !hasCode {
		return nil, nil, ErrMissingCodeSection
	}
	if typeSize%typeSectionEntrySize != 0 {
		return nil, nil, ErrTypeSizeNotDivBy4
	}
	numTypes := int(typeSize / typeSectionEntrySize)
	if numTypes != len(codeSizes) {
		return nil, nil, ErrTypeSizeMismatch
	}

	container := &Container{Version: Version}
	container.TypeSections = make([]TypeSection, numTypes)
	for i := range container.TypeSections {
		if pos+4 > len(code) {
			return nil, nil, ErrBodyTruncated
		}
		container.TypeSections[i] = TypeSection{
			Inputs:         code[pos],
			Outputs:        code[pos+1],
			MaxStackHeight: binary.BigEndian.Uint16(code[pos+2 : pos+4]),
		}
		pos += 4
	}

	container.CodeSections = make([][]byte, len(codeSizes))
	for i, size := range codeSizes {
		end := pos + int(size)
		if end > len(code) {
			return nil, nil, ErrBodyTruncated
		}
		container.CodeSections[i] = append([]byte(nil), code[pos:end]...)
		pos = end
	}

	if hasContainer {
		container.ContainerSections = make([][]byte, len(containerSizes))
		for i, size := range containerSizes {
			end := pos + int(size)
			if end > len(code) {
				return nil, nil, ErrBodyTruncated
			}
			container.ContainerSections[i] = append([]byte(nil), code[pos:end]...)
			pos = end
		}
	}

	if hasData {
		end := pos + int(dataSize)
		if end > len(code) {
			return nil, nil, ErrBodyTruncated
		}
		container.DataSection = append([]byte(nil), code[pos:end]...)
		pos = end
	}

	if !allowDangling && pos != len(code) {
		return nil, nil, ErrTrailingBytes
	}

	return container, code[pos:], nil
}

// Serialize re-encodes a Container to its binary representation. It always
// writes a data section header, even when DataSection is empty.
func Serialize(c *Container) []byte {
	numCode := len(c.CodeSections)
	numContainer := len(c.ContainerSections)

	headerSize := 2 + 1 + 1 + 2 + 1 + 2 + 2*numCode + 1 + 2 + 1
	if numContainer > 0 {
		headerSize += 1 + 2 + 4*numContainer
	}
	bodySize := 4 * numCode
	for _, cs := range c.CodeSections {
		bodySize += len(cs)
	}
	for _, cs := range c.ContainerSections {
		bodySize += len(cs)
	}
	bodySize += len(c.DataSection)

	buf := make([]byte, 0, headerSize+bodySize)
	buf = append(buf, Magic0, Magic1, c.Version)

	buf = append(buf, sectionType)
	buf = binary.BigEndian.AppendUint16(buf, uint16(numCode*typeSectionEntrySize))

	buf = append(buf, sectionCode)
	buf = binary.BigEndian.AppendUint16(buf, uint16(numCode))
	for _, cs := range c.CodeSections {
		buf = binary.BigEndian.AppendUint16(buf, uint16(len(cs)))
	}

	if numContainer > 0 {
		buf = append(buf, sectionContainer)
		buf = binary.BigEndian.AppendUint16(buf, uint16(numContainer))
		for _, cs := range c.ContainerSections {
			buf = binary.BigEndian.AppendUint32(buf, uint32(len(cs)))
		}
	}

	buf = append(buf, sectionData)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(c.DataSection)))
	buf = append(buf, headerTerminator)

	for _, ts := range c.TypeSections {
		buf = append(buf, ts.Inputs, ts.Outputs)
		buf = binary.BigEndian.AppendUint16(buf, ts.MaxStackHeight)
	}
	for _, cs := range c.CodeSections {
		buf = append(buf, cs...)
	}
	for _, cs := range c.ContainerSections {
		buf = append(buf, cs...)
	}
	buf = append(buf, c.DataSection...)
	return buf
}

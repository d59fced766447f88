// Package emit serializes linked units into artifacts and reads them back.
package emit

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"paxy/internal/bytecode"
)

// Format selects the artifact encoding.
type Format uint8

const (
	FormatMsgpack Format = iota + 1
	FormatCBOR
	FormatJSON
	FormatText
)

// Magic starts every binary artifact; a format byte and the big-endian
// schema version follow it.
const Magic = "PXBC"

// SchemaVersion is bumped whenever the encoded Unit layout changes.
const SchemaVersion uint16 = 1

const headerLen = len(Magic) + 1 + 2

var (
	ErrBadMagic  = errors.New("emit: not a paxy artifact")
	ErrSchema    = errors.New("emit: unsupported schema version")
	ErrNotBinary = errors.New("emit: text listings cannot be decoded")
)

func (f Format) String() string {
	switch f {
	case FormatMsgpack:
		return "msgpack"
	case FormatCBOR:
		return "cbor"
	case FormatJSON:
		return "json"
	case FormatText:
		return "text"
	}
	return "unknown"
}

// Ext is the conventional file extension of the format.
func (f Format) Ext() string {
	switch f {
	case FormatCBOR:
		return ".pxc"
	case FormatJSON:
		return ".json"
	case FormatText:
		return ".pxs"
	}
	return ".pxb"
}

// ParseFormat accepts a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "msgpack", "mp":
		return FormatMsgpack, nil
	case "cbor":
		return FormatCBOR, nil
	case "json":
		return FormatJSON, nil
	case "text", "txt", "asm":
		return FormatText, nil
	}
	return 0, fmt.Errorf("unknown output format %q (want msgpack|cbor|json|text)", s)
}

// Emitter writes a unit in one format.
type Emitter interface {
	Emit(w io.Writer, u *bytecode.Unit) error
	Format() Format
}

// New returns the emitter for f.
func New(f Format) (Emitter, error) {
	switch f {
	case FormatMsgpack:
		return msgpackEmitter{}, nil
	case FormatCBOR:
		return cborEmitter{}, nil
	case FormatJSON:
		return jsonEmitter{}, nil
	case FormatText:
		return textEmitter{}, nil
	}
	return nil, fmt.Errorf("emit: no emitter for format %d", f)
}

func writeHeader(w io.Writer, f Format) error {
	var hdr [headerLen]byte
	copy(hdr[:], Magic)
	hdr[len(Magic)] = byte(f)
	binary.BigEndian.PutUint16(hdr[len(Magic)+1:], SchemaVersion)
	_, err := w.Write(hdr[:])
	return err
}

// Decode reads a msgpack, CBOR or JSON artifact back into a unit.
func Decode(r io.Reader) (*bytecode.Unit, Format, error) {
	br := bufio.NewReader(r)
	first, err := br.Peek(1)
	if err != nil {
		return nil, 0, fmt.Errorf("emit: read header: %w", err)
	}
	if first[0] == '{' {
		u, err := decodeJSON(br)
		return u, FormatJSON, err
	}
	var hdr [headerLen]byte
	if _, err := io.ReadFull(br, hdr[:]); err != nil {
		return nil, 0, fmt.Errorf("emit: read header: %w", err)
	}
	if string(hdr[:len(Magic)]) != Magic {
		return nil, 0, ErrBadMagic
	}
	f := Format(hdr[len(Magic)])
	if v := binary.BigEndian.Uint16(hdr[len(Magic)+1:]); v != SchemaVersion {
		return nil, f, fmt.Errorf("%w %d (want %d)", ErrSchema, v, SchemaVersion)
	}
	var u *bytecode.Unit
	switch f {
	case FormatMsgpack:
		u, err = decodeMsgpack(br)
	case FormatCBOR:
		u, err = decodeCBOR(br)
	case FormatText:
		return nil, f, ErrNotBinary
	default:
		return nil, f, fmt.Errorf("emit: unknown format byte %d", byte(f))
	}
	return u, f, err
}

// Marshal emits u in format f into memory.
func Marshal(f Format, u *bytecode.Unit) ([]byte, error) {
	e, err := New(f)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := e.Emit(&buf, u); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

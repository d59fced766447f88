package emit

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"paxy/internal/bytecode"
)

type msgpackEmitter struct{}

func (msgpackEmitter) Format() Format { return FormatMsgpack }

func (msgpackEmitter) Emit(w io.Writer, u *bytecode.Unit) error {
	if err := writeHeader(w, FormatMsgpack); err != nil {
		return err
	}
	enc := msgpack.NewEncoder(w)
	enc.UseCompactInts(true)
	if err := enc.Encode(u); err != nil {
		return fmt.Errorf("emit msgpack: %w", err)
	}
	return nil
}

func decodeMsgpack(r io.Reader) (*bytecode.Unit, error) {
	var u bytecode.Unit
	if err := msgpack.NewDecoder(r).Decode(&u); err != nil {
		return nil, fmt.Errorf("emit: decode msgpack: %w", err)
	}
	return &u, nil
}

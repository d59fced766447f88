package emit

import (
	"io"

	"paxy/internal/bytecode"
)

type textEmitter struct{}

func (textEmitter) Format() Format { return FormatText }

func (textEmitter) Emit(w io.Writer, u *bytecode.Unit) error {
	_, err := io.WriteString(w, bytecode.Disassemble(u))
	return err
}

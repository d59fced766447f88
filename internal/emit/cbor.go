package emit

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"paxy/internal/bytecode"
)

// cborEncMode uses canonical encoding so equal units encode to equal bytes.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("emit: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

type cborEmitter struct{}

func (cborEmitter) Format() Format { return FormatCBOR }

func (cborEmitter) Emit(w io.Writer, u *bytecode.Unit) error {
	data, err := cborEncMode.Marshal(u)
	if err != nil {
		return fmt.Errorf("emit cbor: %w", err)
	}
	if err := writeHeader(w, FormatCBOR); err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func decodeCBOR(r io.Reader) (*bytecode.Unit, error) {
	var u bytecode.Unit
	if err := cbor.NewDecoder(r).Decode(&u); err != nil {
		return nil, fmt.Errorf("emit: decode cbor: %w", err)
	}
	return &u, nil
}

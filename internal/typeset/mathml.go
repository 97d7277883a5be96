package typeset

import (
	"errors"
	"fmt"
	"strings"

	"git.sr.ht/~mekyt/latex2mathml"
)

// mathMLNamespace is written on the generated <math> root.
const mathMLNamespace = "http://www.w3.org/1998/Math/MathML"

// MathML typesets LaTeX into presentation MathML. It needs no cgo and no
// JavaScript runtime, and is safe for concurrent use.
type MathML struct {
	indent int
}

// NewMathML creates a MathML engine emitting compact markup.
func NewMathML() *MathML {
	return &MathML{}
}

// Typeset validates expr and converts it to a <math> element.
// display selects display="block" layout.
func (m *MathML) Typeset(expr string, display bool) (out string, err error) {
	if err := Validate(expr); err != nil {
		return "", err
	}

	// latex2mathml panics on some constructs it cannot tokenize.
	defer func() {
		if r := recover(); r != nil {
			out = ""
			err = engineFailure(expr, fmt.Errorf("latex2mathml: %v", r))
		}
	}()

	mode := "inline"
	if display {
		mode = "block"
	}

	out = latex2mathml.Convert(expr, mathMLNamespace, mode, m.indent)
	if strings.TrimSpace(out) == "" {
		return "", engineFailure(expr, errors.New("latex2mathml produced no output"))
	}
	return out, nil
}

//go:build !cgo

package typeset

// KaTeX is unavailable without cgo: the KaTeX bundle runs inside QuickJS.
type KaTeX struct{}

// NewKaTeX reports ErrEngineUnavailable in builds without cgo.
func NewKaTeX() (*KaTeX, error) {
	return nil, ErrEngineUnavailable
}

// Typeset always fails in builds without cgo.
func (k *KaTeX) Typeset(expr string, _ bool) (string, error) {
	return "", &TypesetError{Expr: expr, Offset: -1, Reason: "katex requires cgo", Err: ErrEngineUnavailable}
}

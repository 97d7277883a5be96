package typeset

import (
	"fmt"
	"strings"
)

// envFrame is an open \begin{name} waiting for its \end.
type envFrame struct {
	name   string
	offset int
}

// Validate performs the structural checks shared by all engines:
// balanced braces, matched \begin/\end and \left/\right pairs,
// no trailing backslash and no dangling ^ or _.
// It returns a *TypesetError describing the first problem found.
func Validate(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return &TypesetError{Expr: expr, Offset: -1, Reason: "empty expression", Err: ErrEmptyExpression}
	}

	var (
		braces []int
		envs   []envFrame
		lefts  []int
	)

	for i := 0; i < len(expr); {
		switch c := expr[i]; c {
		case '\\':
			if i+1 >= len(expr) {
				return malformed(expr, i, "trailing backslash")
			}
			if !isLetter(expr[i+1]) {
				// Control symbol such as \{ \} \\ \, \%
				i += 2
				continue
			}
			j := i + 1
			for j < len(expr) && isLetter(expr[j]) {
				j++
			}
			switch name := expr[i+1 : j]; name {
			case "begin", "end":
				env, next, ok := readGroup(expr, j)
				if !ok {
					return malformed(expr, i, fmt.Sprintf(`\%s without {environment}`, name))
				}
				if name == "begin" {
					envs = append(envs, envFrame{name: env, offset: i})
				} else {
					if len(envs) == 0 {
						return malformed(expr, i, fmt.Sprintf(`\end{%s} without \begin`, env))
					}
					if top := envs[len(envs)-1]; top.name != env {
						return malformed(expr, i, fmt.Sprintf(`\end{%s} closes \begin{%s}`, env, top.name))
					}
					envs = envs[:len(envs)-1]
				}
				i = next
				continue
			case "left":
				lefts = append(lefts, i)
			case "right":
				if len(lefts) == 0 {
					return malformed(expr, i, `\right without \left`)
				}
				lefts = lefts[:len(lefts)-1]
			}
			i = j
			continue
		case '{':
			braces = append(braces, i)
		case '}':
			if len(braces) == 0 {
				return malformed(expr, i, "unmatched closing brace")
			}
			braces = braces[:len(braces)-1]
		case '^', '_':
			if strings.TrimSpace(expr[i+1:]) == "" {
				return malformed(expr, i, fmt.Sprintf("missing argument for %q", c))
			}
		case '%':
			// Comment runs to end of line.
			nl := strings.IndexByte(expr[i:], '\n')
			if nl < 0 {
				i = len(expr)
				continue
			}
			i += nl
		}
		i++
	}

	if len(braces) > 0 {
		return malformed(expr, braces[len(braces)-1], "unmatched opening brace")
	}
	if len(envs) > 0 {
		top := envs[len(envs)-1]
		return malformed(expr, top.offset, fmt.Sprintf(`unterminated \begin{%s}`, top.name))
	}
	if len(lefts) > 0 {
		return malformed(expr, lefts[len(lefts)-1], `\left without \right`)
	}
	return nil
}

// readGroup reads a flat {name} group starting at or after pos.
// Returns the name and the offset just past the closing brace.
func readGroup(expr string, pos int) (name string, next int, ok bool) {
	for pos < len(expr) && expr[pos] == ' ' {
		pos++
	}
	if pos >= len(expr) || expr[pos] != '{' {
		return "", pos, false
	}
	end := strings.IndexByte(expr[pos+1:], '}')
	if end < 0 {
		return "", pos, false
	}
	name = strings.TrimSpace(expr[pos+1 : pos+1+end])
	if name == "" {
		return "", pos, false
	}
	return name, pos + end + 2, true
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

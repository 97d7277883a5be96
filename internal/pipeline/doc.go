// Package pipeline implements the display side of quiz rich content.
//
// Stored markup flows through stages operating on a shared *Tree:
//   - Sanitization: plain-text detection, fragment parsing, <br> removal,
//     and an opt-in bluemonday policy
//   - Code highlighting (opt-in) via chroma
//   - Math typesetting through a typeset.Engine, tolerating per-node failures
//   - Trailing fragment append
//
// Each stage is an interface with one concrete implementation, so callers
// and tests can swap stages. PageTemplate wraps the final markup into a
// standalone page for the CLI.
package pipeline

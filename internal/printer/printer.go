// Package printer formats a structured Statement tree for human-facing
// output. The structuring core returns bare restructure.Statement values;
// this is the thin layer cmd/restructctl wraps them in before they reach a
// terminal, keeping the core itself free of output-formatting concerns
// (spec.md §1 places a real expression-language pretty printer out of scope
// entirely; this is just enough to read what Structure produced).
package printer

import (
	"fmt"
	"io"

	"github.com/larchwood/restructure"
)

// Fprint writes name followed by stmt's indented rendering to w.
func Fprint(w io.Writer, name string, stmt restructure.Statement) error {
	if _, err := fmt.Fprintf(w, "func %s:\n", name); err != nil {
		return err
	}
	_, err := io.WriteString(w, restructure.Sprint(stmt))
	return err
}

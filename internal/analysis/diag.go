package analysis

import (
	"fmt"
	"strings"

	"github.com/cbergh/pyfloor/internal/pyast"
)

// diagLog is the ordered, verbosity-gated diagnostic log of one analysis.
type diagLog struct {
	cfg   Config
	lines []string
}

// add appends msg when the configured verbosity reaches level. At
// verbosity 3 a known source position is rendered as an "L<line> C<col>:"
// prefix (column omitted when unknown).
func (d *diagLog) add(level int, p pyast.Position, format string, args ...any) {
	if d.cfg.Quiet || d.cfg.Verbosity < level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if d.cfg.Verbosity >= 3 && p.Line > 0 {
		if p.Col > 0 {
			msg = fmt.Sprintf("L%d C%d: %s", p.Line, p.Col, msg)
		} else {
			msg = fmt.Sprintf("L%d: %s", p.Line, msg)
		}
	}
	d.lines = append(d.lines, msg)
}

// text joins the log into one newline-terminated string; empty when no
// lines were emitted.
func (d *diagLog) text() string {
	if len(d.lines) == 0 {
		return ""
	}
	return strings.Join(d.lines, "\n") + "\n"
}

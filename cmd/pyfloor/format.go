package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/cbergh/pyfloor"
	"github.com/cbergh/pyfloor/internal/version"
)

// verString renders one version slot for output: a concrete version,
// "!2"/"!3" for an excluded line, or "~" for no constraint.
func verString(v version.Ver, major int) string {
	if v.IsExcluded() {
		return fmt.Sprintf("!%d", major)
	}
	return v.String()
}

func pairString(p version.Pair) string {
	return fmt.Sprintf("%s, %s", verString(p.V2, 2), verString(p.V3, 3))
}

// outputText renders the batch summary as aligned per-file rows followed
// by the fold.
func outputText(w io.Writer, sum *pyfloor.Summary, quiet bool) error {
	if !quiet {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, fr := range sum.Files {
			switch {
			case fr.Err != nil:
				fmt.Fprintf(tw, "%s\terror: %s\n", fr.Path, fr.Err)
			case fr.Conflict:
				fmt.Fprintf(tw, "%s\tincompatible\n", fr.Path)
			default:
				fmt.Fprintf(tw, "%s\t%s\n", fr.Path, pairString(fr.Minimum))
			}
		}
		tw.Flush()

		for _, fr := range sum.Files {
			if fr.Report != "" {
				fmt.Fprint(w, fr.Report)
			}
		}
	}

	if sum.Conflict {
		fmt.Fprintln(w, "Minimum required versions: irreconcilable across files")
		return nil
	}
	fmt.Fprintf(w, "Minimum required versions: %s\n", pairString(sum.Minimum))
	return nil
}

// jsonFile is the per-file JSON shape.
type jsonFile struct {
	Path     string `json:"path"`
	V2       string `json:"v2,omitempty"`
	V3       string `json:"v3,omitempty"`
	Conflict bool   `json:"conflict,omitempty"`
	Error    string `json:"error,omitempty"`
	Report   string `json:"report,omitempty"`
}

type jsonSummary struct {
	V2       string     `json:"v2"`
	V3       string     `json:"v3"`
	Conflict bool       `json:"conflict"`
	Files    []jsonFile `json:"files"`
}

func outputJSON(w io.Writer, sum *pyfloor.Summary) error {
	out := jsonSummary{
		V2:       verString(sum.Minimum.V2, 2),
		V3:       verString(sum.Minimum.V3, 3),
		Conflict: sum.Conflict,
	}
	for _, fr := range sum.Files {
		jf := jsonFile{Path: fr.Path, Report: fr.Report}
		if fr.Err != nil {
			jf.Error = fr.Err.Error()
		} else if fr.Conflict {
			jf.Conflict = true
		} else {
			jf.V2 = verString(fr.Minimum.V2, 2)
			jf.V3 = verString(fr.Minimum.V3, 3)
		}
		out.Files = append(out.Files, jf)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// validFormats lists accepted values for --format.
var validFormats = []string{"json", "text"}

func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be %s", format, strings.Join(validFormats, " or "))
}

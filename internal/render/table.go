package render

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
	"unicode/utf8"
)

// Table writes columns and rows as tab-aligned text. The rule under the
// header spans the widest cell of each column.
func Table(w io.Writer, columns []string, rows [][]any) error {
	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = max(utf8.RuneCountInString(c), 1)
	}
	cells := make([][]string, len(rows))
	for r, row := range rows {
		cells[r] = make([]string, len(row))
		for i, v := range row {
			cells[r][i] = Cell(v)
			if i < len(widths) {
				widths[i] = max(widths[i], utf8.RuneCountInString(cells[r][i]))
			}
		}
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(columns, "\t"))
	rule := make([]string, len(columns))
	for i, n := range widths {
		rule[i] = strings.Repeat("-", n)
	}
	fmt.Fprintln(tw, strings.Join(rule, "\t"))
	for _, r := range cells {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	return tw.Flush()
}

// Cell formats one value for text output. NULL is spelled out.
func Cell(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return "x'" + hex.EncodeToString(x) + "'"
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case string:
		return strings.NewReplacer("\t", `\t`, "\n", `\n`).Replace(x)
	default:
		return fmt.Sprint(x)
	}
}

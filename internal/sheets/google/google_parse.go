package google

import (
	"fmt"
	"strings"

	"gastos/internal/core"
)

// rowsFromValues converts a values matrix (first row = headers) into raw rows.
//
// Blank rows are dropped. A row with more cells than there are headers is
// structurally malformed and is returned as nil so the record builder skips
// it. Short rows are padded with nothing: missing cells are simply absent.
func rowsFromValues(values [][]any) []core.RawRow {
	if len(values) == 0 {
		return []core.RawRow{}
	}
	headers := make([]string, len(values[0]))
	for i, h := range values[0] {
		headers[i] = strings.TrimSpace(fmt.Sprint(h))
	}

	out := make([]core.RawRow, 0, len(values)-1)
	for _, cells := range values[1:] {
		if isBlank(cells) {
			continue
		}
		if len(cells) > len(headers) {
			out = append(out, nil)
			continue
		}
		row := make(core.RawRow, len(cells))
		for i, v := range cells {
			if headers[i] == "" {
				continue
			}
			row[headers[i]] = v
		}
		out = append(out, row)
	}
	return out
}

func isBlank(cells []any) bool {
	for _, v := range cells {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
			continue
		}
		return false
	}
	return true
}

package scoring

import "fmt"

const fallbackHighlight = "No direct evidence found in trial registry."

// evidence collects explanation lines in the order the rules fire.
type evidence struct {
	lines []string
}

func (e *evidence) addf(format string, args ...any) {
	e.lines = append(e.lines, fmt.Sprintf(format, args...))
}

// highlights returns up to limit distinct lines, first occurrence wins.
func (e *evidence) highlights(limit int) []string {
	seen := make(map[string]struct{}, len(e.lines))
	out := make([]string, 0, limit)
	for _, line := range e.lines {
		if len(out) >= limit {
			break
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	if len(out) == 0 {
		return []string{fallbackHighlight}
	}
	return out
}

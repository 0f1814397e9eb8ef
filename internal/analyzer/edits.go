package analyzer

import "sort"

// ApplyEdits applies edits to text as if each offset referred to the
// original, unedited text (spec.md §4.3): edits are sorted by descending
// start offset and applied back-to-front so earlier edits never shift the
// offsets later ones were computed against.
func ApplyEdits(text string, edits []SourceEdit) string {
	ordered := make([]SourceEdit, len(edits))
	copy(ordered, edits)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].From > ordered[j].From
	})

	out := []byte(text)
	for _, e := range ordered {
		switch e.Kind {
		case EditInsert:
			out = spliceInsert(out, e.From, e.Text)
		case EditDelete:
			out = spliceReplace(out, e.From, e.To, "")
		case EditReplace:
			out = spliceReplace(out, e.From, e.To, e.Text)
		}
	}
	return string(out)
}

func spliceInsert(buf []byte, at int, text string) []byte {
	at = clamp(at, len(buf))
	out := make([]byte, 0, len(buf)+len(text))
	out = append(out, buf[:at]...)
	out = append(out, text...)
	out = append(out, buf[at:]...)
	return out
}

func spliceReplace(buf []byte, from, to int, text string) []byte {
	from = clamp(from, len(buf))
	to = clamp(to, len(buf))
	if to < from {
		from, to = to, from
	}
	out := make([]byte, 0, len(buf)-(to-from)+len(text))
	out = append(out, buf[:from]...)
	out = append(out, text...)
	out = append(out, buf[to:]...)
	return out
}

func clamp(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

package wire

import "strings"

// WriteValue renders v back into the symbolic-expression wire grammar.
// It is the inverse of ParseValue for every Value the reader can produce.
func WriteValue(v Value) string {
	var sb strings.Builder
	writeValue(&sb, v)
	return sb.String()
}

func writeValue(sb *strings.Builder, v Value) {
	switch v.Kind {
	case KindInt:
		sb.WriteString(v.String())
	case KindString:
		sb.WriteByte('"')
		for _, r := range v.Str {
			switch r {
			case '"':
				sb.WriteString(`\"`)
			case '\\':
				sb.WriteString(`\\`)
			default:
				sb.WriteRune(r)
			}
		}
		sb.WriteByte('"')
	case KindKeyword:
		sb.WriteByte(':')
		sb.WriteString(v.Str)
	case KindSymbol:
		sb.WriteString(v.Str)
	case KindNil:
		sb.WriteString("nil")
	case KindTrue:
		sb.WriteByte('t')
	case KindList:
		sb.WriteByte('(')
		for i, e := range v.List {
			if i > 0 {
				sb.WriteByte(' ')
			}
			writeValue(sb, e)
		}
		sb.WriteByte(')')
	}
}

package pivot

import "strings"

// The template mini-language renders generated captions from argument lists.
// Within a template:
//
//   - \c   emits c literally ("\n" emits a newline).
//   - ^N   substitutes the first value of argument N (1-based).
//   - [tmpl1:tmpl2:]N  iterates over the values of argument N, rendering the
//     first group with tmpl1 (whose substitution escape is '%') and each
//     later group with tmpl2 (whose escape is '^'). An empty tmpl1 makes
//     tmpl2 apply from the first group.
//
// A substitution index with no corresponding argument is silently dropped;
// malformed constructs render as little as possible rather than failing.

func consumeInt(s string) (int, string) {
	n := 0
	for len(s) > 0 && s[0] >= '0' && s[0] <= '9' {
		n = n*10 + int(s[0]-'0')
		s = s[1:]
	}
	return n, s
}

// formatInnerTemplate renders tmpl up to an unescaped ':' or the end of the
// string, using escape as the substitution escape character and values as
// the argument group. It returns the highest argument position consumed.
func formatInnerTemplate(sb *strings.Builder, tmpl string, escape byte, values []*Value, pt *Table) int {
	consumed := 0
	for len(tmpl) > 0 && tmpl[0] != ':' {
		switch {
		case tmpl[0] == '\\' && len(tmpl) > 1:
			if tmpl[1] == 'n' {
				sb.WriteByte('\n')
			} else {
				sb.WriteByte(tmpl[1])
			}
			tmpl = tmpl[2:]
		case tmpl[0] == escape:
			var index int
			index, tmpl = consumeInt(tmpl[1:])
			if index >= 1 && index <= len(values) {
				values[index-1].formatValue(sb, pt)
				if index > consumed {
					consumed = index
				}
			}
		default:
			sb.WriteByte(tmpl[0])
			tmpl = tmpl[1:]
		}
	}
	return consumed
}

// extractInnerTemplate returns tmpl itself as the inner template (rendering
// stops at the terminating ':' on its own) along with the remainder after
// that ':' (or after the end of the string). Backslash escapes hide ':' from
// the scan.
func extractInnerTemplate(tmpl string) (inner, rest string) {
	i := 0
	for {
		switch {
		case i < len(tmpl)-1 && tmpl[i] == '\\':
			i += 2
		case i < len(tmpl) && tmpl[i] == ':':
			return tmpl, tmpl[i+1:]
		case i >= len(tmpl):
			return tmpl, ""
		default:
			i++
		}
	}
}

func formatTemplate(sb *strings.Builder, tmpl string, args [][]*Value, pt *Table) {
	for len(tmpl) > 0 {
		switch {
		case tmpl[0] == '\\' && len(tmpl) > 1:
			if tmpl[1] == 'n' {
				sb.WriteByte('\n')
			} else {
				sb.WriteByte(tmpl[1])
			}
			tmpl = tmpl[2:]

		case tmpl[0] == '^':
			var index int
			index, tmpl = consumeInt(tmpl[1:])
			if index >= 1 && index <= len(args) && len(args[index-1]) > 0 {
				args[index-1][0].formatValue(sb, pt)
			}

		case tmpl[0] == '[':
			var subTmpl [2]string
			rest := tmpl[1:]
			subTmpl[0], rest = extractInnerTemplate(rest)
			subTmpl[1], rest = extractInnerTemplate(rest)
			if len(rest) > 0 && rest[0] == ']' {
				rest = rest[1:]
			}

			var index int
			index, tmpl = consumeInt(rest)
			if index < 1 || index > len(args) {
				continue
			}
			arg := args[index-1]

			left := len(arg)
			for left > 0 {
				tmplIdx := 1
				if left == len(arg) && !strings.HasPrefix(subTmpl[0], ":") {
					tmplIdx = 0
				}
				escape := byte('^')
				if tmplIdx == 0 {
					escape = '%'
				}
				used := formatInnerTemplate(sb, subTmpl[tmplIdx], escape, arg[len(arg)-left:], pt)
				if used == 0 || used > left {
					break
				}
				left -= used
			}

		default:
			sb.WriteByte(tmpl[0])
			tmpl = tmpl[1:]
		}
	}
}

package reconcile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/ensureline/pkg/domain"
)

// expand substitutes backreference placeholders in template with the groups of sm.
//
// Supported placeholders: \1 .. \99 (up to two digits, read greedily), \g<N>,
// \g<name>, and the escapes \\ \n \t \r \f \v \a. Any other escaped character is kept
// as written, backslash included.
func expand(template string, sm *submatch) (string, error) {
	var b strings.Builder
	b.Grow(len(template))

	for i := 0; i < len(template); i++ {
		c := template[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(template) {
			return "", backrefError("trailing backslash", nil)
		}
		i++
		next := template[i]
		switch {
		case next >= '1' && next <= '9':
			j := i + 1
			if j < len(template) && isDigit(template[j]) {
				j++
			}
			ref := template[i:j]
			num, _ := strconv.Atoi(ref)
			text, ok := sm.group(num)
			if !ok {
				return "", backrefError(fmt.Sprintf(`\%s`, ref), fmt.Errorf("pattern has %d groups", len(sm.groups)-1))
			}
			b.WriteString(text)
			i = j - 1
		case next == '0':
			return "", backrefError(`\0`, fmt.Errorf("group 0 cannot be referenced"))
		case next == 'g':
			text, consumed, err := expandNamed(template[i+1:], sm)
			if err != nil {
				return "", err
			}
			b.WriteString(text)
			i += consumed
		default:
			if esc, ok := escapes[next]; ok {
				b.WriteByte(esc)
			} else {
				b.WriteByte('\\')
				b.WriteByte(next)
			}
		}
	}
	return b.String(), nil
}

// expandNamed resolves the <ref> part of a \g<ref> placeholder. rest starts right after
// the 'g'; consumed is the number of bytes of rest that belong to the placeholder.
func expandNamed(rest string, sm *submatch) (text string, consumed int, err error) {
	if !strings.HasPrefix(rest, "<") {
		return "", 0, backrefError(`\g`, fmt.Errorf("missing <"))
	}
	end := strings.IndexByte(rest, '>')
	if end < 0 {
		return "", 0, backrefError(`\g`+rest, fmt.Errorf("missing >"))
	}
	ref := rest[1:end]
	if ref == "" {
		return "", 0, backrefError(`\g<>`, fmt.Errorf("missing group name"))
	}
	placeholder := `\g<` + ref + `>`

	if num, convErr := strconv.Atoi(ref); convErr == nil {
		if num == 0 {
			return "", 0, backrefError(placeholder, fmt.Errorf("group 0 cannot be referenced"))
		}
		text, ok := sm.group(num)
		if !ok {
			return "", 0, backrefError(placeholder, fmt.Errorf("pattern has %d groups", len(sm.groups)-1))
		}
		return text, end + 1, nil
	}

	text, ok := sm.named(ref)
	if !ok {
		return "", 0, backrefError(placeholder, fmt.Errorf("unknown group name"))
	}
	return text, end + 1, nil
}

var escapes = map[byte]byte{
	'\\': '\\',
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'f':  '\f',
	'v':  '\v',
	'a':  '\a',
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func backrefError(detail string, cause error) error {
	return domain.NewReconcileError(domain.ErrBackrefExpansion, detail, cause)
}

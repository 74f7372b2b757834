// Package utils holds small helpers shared by the todomd packages.
package utils

import (
	"strconv"
	"strings"
)

// JSONPointerToPath turns a schema error location such as
// "#/files/0/todos/3/line" into "files[0].todos[3].line".
func JSONPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(strings.TrimPrefix(ptr, "#"), "/")
	if ptr == "" {
		return ""
	}

	unescape := strings.NewReplacer("~1", "/", "~0", "~")
	var b strings.Builder
	for _, tok := range strings.Split(ptr, "/") {
		tok = unescape.Replace(tok)
		switch {
		case tok == "":
		case isIndex(tok):
			b.WriteString("[" + tok + "]")
		default:
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			b.WriteString(tok)
		}
	}
	return b.String()
}

func isIndex(tok string) bool {
	n, err := strconv.Atoi(tok)
	return err == nil && n >= 0 && strconv.Itoa(n) == tok
}

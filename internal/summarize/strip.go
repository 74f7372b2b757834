package summarize

import (
	"context"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nibzard/todomd/internal/keywords"
	"github.com/nibzard/todomd/internal/todo"
)

var (
	authorTag   = regexp.MustCompile(`(?i)\s*\(?\bauthor:\s*@?([\w.-]+)\)?`)
	ownerSuffix = regexp.MustCompile(`^\(\s*@?([\w.-]+)\s*\)`)
)

// closers are block comment terminators removed from the end of a comment.
var closers = []string{"-->", "*/"}

// Strip returns an offline summarizer. It drops the comment prefix (looked
// up in table by file type), the TODO spelling, separators and comment
// closers, and turns an "Author: name" or "TODO(name)" tag into " by @name".
// A comment that strips to nothing is returned unchanged.
func Strip(table keywords.Table) Func {
	return func(_ context.Context, rec todo.Record) (string, error) {
		prefix, _ := table.Prefix(rec.FileType)
		if out := StripComment(rec.Comment, prefix); out != "" {
			return out, nil
		}
		return rec.Comment, nil
	}
}

// StripComment cleans a single comment line. See Strip.
func StripComment(comment, prefix string) string {
	s := strings.TrimSpace(comment)
	if prefix != "" {
		for strings.HasPrefix(s, prefix) {
			s = strings.TrimSpace(strings.TrimPrefix(s, prefix))
		}
	}
	for _, c := range closers {
		s = strings.TrimSpace(strings.TrimSuffix(s, c))
	}

	var author string
	for _, tag := range keywords.Spellings {
		if !strings.HasPrefix(s, tag) {
			continue
		}
		s = s[len(tag):]
		if m := ownerSuffix.FindStringSubmatch(s); m != nil {
			author = m[1]
			s = s[len(m[0]):]
		}
		break
	}
	s = strings.TrimLeft(s, " \t:-")

	if m := authorTag.FindStringSubmatch(s); m != nil {
		if author == "" {
			author = m[1]
		}
		s = authorTag.ReplaceAllString(s, "")
	}
	s = strings.Join(strings.Fields(s), " ")
	s = strings.TrimRight(s, " ,;:-")
	if s == "" {
		return ""
	}

	s = capitalize(s)
	if author != "" {
		s += " by @" + author
	}
	return s
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

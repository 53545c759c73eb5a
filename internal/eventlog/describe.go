package eventlog

import (
	"fmt"
	"unicode/utf8"

	"github.com/freshkit/fresh/internal/piecetree"
)

func describeInsert(text string) string {
	switch {
	case text == "\n":
		return "Insert newline"
	case text == "\t":
		return "Insert tab"
	case utf8.RuneCountInString(text) == 1:
		return fmt.Sprintf("Type %q", text)
	case utf8.RuneCountInString(text) <= 20:
		return fmt.Sprintf("Insert %q", text)
	default:
		return fmt.Sprintf("Insert %d characters", utf8.RuneCountInString(text))
	}
}

func describeDelete(n piecetree.ByteOffset) string {
	if n == 1 {
		return "Delete 1 character"
	}
	return fmt.Sprintf("Delete %d characters", n)
}

package compiler

import (
	"strings"
)

// CommentMarkers delimits the comments of a program. An empty inline marker disables inline
// comments; an empty start or end marker disables multi-line comments.
type CommentMarkers struct {
	Inline         string
	MultilineStart string
	MultilineEnd   string
}

func (m CommentMarkers) inline() bool {
	return m.Inline != ""
}

func (m CommentMarkers) multiline() bool {
	return m.MultilineStart != "" && m.MultilineEnd != ""
}

// RemoveComments strips the comments of a program. An inline comment runs up to the line break
// that ends it, which is kept; a multi-line comment is replaced by the line breaks it spans, so
// every remaining token keeps its line. A multi-line comment left open runs to the end of the
// program.
func RemoveComments(src string, m CommentMarkers) string {
	if !m.inline() && !m.multiline() {
		return src
	}

	var b strings.Builder
	rest := src
	for len(rest) > 0 {
		ilc := -1
		if m.inline() {
			ilc = strings.Index(rest, m.Inline)
		}
		mlc := -1
		if m.multiline() {
			mlc = strings.Index(rest, m.MultilineStart)
		}
		if ilc < 0 && mlc < 0 {
			b.WriteString(rest)
			break
		}

		if ilc >= 0 && (mlc < 0 || ilc < mlc) {
			b.WriteString(rest[:ilc])
			rest = rest[ilc+len(m.Inline):]
			end := strings.IndexAny(rest, "\r\n")
			if end < 0 {
				break
			}
			rest = rest[end:]
			continue
		}

		b.WriteString(rest[:mlc])
		rest = rest[mlc+len(m.MultilineStart):]
		end := strings.Index(rest, m.MultilineEnd)
		comment := rest
		if end >= 0 {
			comment = rest[:end]
			rest = rest[end+len(m.MultilineEnd):]
		} else {
			rest = ""
		}
		b.WriteString(strings.Repeat("\n", strings.Count(comment, "\n")))
	}
	return b.String()
}

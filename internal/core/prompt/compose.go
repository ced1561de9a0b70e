package prompt

// Compose appends the first limit characters (runes) of text to the template.
// The cut is not word aware. It reports whether text was truncated.
func Compose(tpl Template, text string, limit int) (string, bool) {
	snippet, truncated := truncateRunes(text, limit)
	return tpl.Text + snippet, truncated
}

func truncateRunes(s string, limit int) (string, bool) {
	if limit <= 0 {
		return "", s != ""
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i], true
		}
		n++
	}
	return s, false
}

package nslex

import "strings"

// IndexLabels performs the single forward scan described by the label
// indexer design: at each line's first non-whitespace character, a '*'
// (with any further leading '*'s collapsed) starts a label. Names are
// lowercased; duplicates are allowed and a lookup by name returns the
// last declared match.
func IndexLabels(text string) []Label {
	var labels []Label

	line := 1
	i := 0
	n := len(text)

	atLineStart := true
	for i < n {
		if text[i] == '\n' {
			line++
			i++
			atLineStart = true
			continue
		}
		if !atLineStart {
			i++
			continue
		}
		if text[i] == ' ' || text[i] == '\t' {
			i++
			continue
		}
		if text[i] != '*' {
			atLineStart = false
			i++
			continue
		}

		headerPos := i
		startLine := line
		for i < n && text[i] == '*' {
			i++
		}
		nameStart := i
		for i < n && isIdentByte(text[i]) {
			i++
		}
		name := strings.ToLower(text[nameStart:i])

		for i < n && (text[i] == ' ' || text[i] == '\t') {
			i++
		}
		for i < n && text[i] != '\n' {
			i++
		}
		if i < n && text[i] == '\n' {
			line++
			i++
		}
		for i < n && (text[i] == ' ' || text[i] == '\t') {
			i++
		}
		bodyPos := i

		labels = append(labels, Label{
			Name:      name,
			HeaderPos: headerPos,
			BodyPos:   bodyPos,
			StartLine: startLine,
		})
		// The cursor now sits on the next line's first non-whitespace
		// byte, which may itself open a label.
		atLineStart = true
	}

	// Sentinel end-of-source label, mirroring the reference indexer's
	// trailing marker used by callers that iterate label boundaries.
	labels = append(labels, Label{Name: "", HeaderPos: -1, BodyPos: -1, StartLine: line})

	return labels
}

func isIdentByte(b byte) bool {
	return b == '_' ||
		(b >= 'A' && b <= 'Z') ||
		(b >= 'a' && b <= 'z') ||
		(b >= '0' && b <= '9')
}

// FindLabel returns the last declared Label with the given name
// (case-insensitive, with any leading '*' accepted), and whether it was
// found.
func FindLabel(labels []Label, name string) (Label, bool) {
	name = strings.ToLower(strings.TrimLeft(name, "*"))
	for i := len(labels) - 1; i >= 0; i-- {
		if labels[i].Name == name {
			return labels[i], true
		}
	}
	return Label{}, false
}

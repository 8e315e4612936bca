package analysis

import (
	"strings"
	"unicode"
)

// structure holds the structural signals of a document body.
type structure struct {
	headings        int
	firstHeading    string
	maxHeadingDepth int
	codeBlocks      int
	codeLines       int
	listItems       int
	orderedItems    int
	maxListNesting  int
	links           int
	words           int
	tokens          []string
}

// scanStructure walks the body once, line by line.
func scanStructure(body string) structure {
	var s structure
	inCode := false
	var prev string

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			if !inCode {
				s.codeBlocks++
			}
			inCode = !inCode
			prev = ""
			continue
		}
		if inCode {
			s.codeLines++
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "#"):
			depth := len(trimmed) - len(strings.TrimLeft(trimmed, "#"))
			text := strings.TrimSpace(trimmed[depth:])
			if depth <= 6 && text != "" {
				s.addHeading(text, depth)
			}
		case isUnderline(trimmed, '=') && prev != "":
			s.addHeading(prev, 1)
		case isUnderline(trimmed, '-') && prev != "" && !isListItem(prev):
			s.addHeading(prev, 2)
		case isListItem(trimmed):
			s.listItems++
			if isOrderedItem(trimmed) {
				s.orderedItems++
			}
			indent := len(line) - len(strings.TrimLeft(line, " \t"))
			if nesting := indent/2 + 1; nesting > s.maxListNesting {
				s.maxListNesting = nesting
			}
		}

		s.links += strings.Count(line, "](") + strings.Count(line, "http://") + strings.Count(line, "https://")
		prev = trimmed
	}

	s.tokens = tokenize(body)
	s.words = len(strings.Fields(body))
	return s
}

func (s *structure) addHeading(text string, depth int) {
	if s.headings == 0 {
		s.firstHeading = text
	}
	s.headings++
	if depth > s.maxHeadingDepth {
		s.maxHeadingDepth = depth
	}
}

func isUnderline(line string, ch rune) bool {
	if len(line) < 3 {
		return false
	}
	for _, r := range line {
		if r != ch {
			return false
		}
	}
	return true
}

func isListItem(line string) bool {
	if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") || strings.HasPrefix(line, "+ ") {
		return true
	}
	return isOrderedItem(line)
}

func isOrderedItem(line string) bool {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	return i > 0 && i+1 < len(line) && (line[i] == '.' || line[i] == ')') && line[i+1] == ' '
}

// tokenize lower-cases text and splits it on anything that is not a letter
// or digit.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

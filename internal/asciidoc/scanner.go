// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package asciidoc

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	inlineAnchorRx = regexp.MustCompile(`\[\[(` + idPattern + `)(?:,[^\]]*)?\]\]`)
	anchorMacroRx  = regexp.MustCompile(`anchor:(` + idPattern + `)\[`)
	phraseIDRx     = regexp.MustCompile(`\[#(` + idPattern + `)[^\]]*\]#`)
	titleAnchorRx  = regexp.MustCompile(`^(.*?)[ \t]*\[\[(` + idPattern + `)(?:,[^\]]*)?\]\]$`)
)

// verbatimDelimiters open blocks whose content is not scanned at all.
var verbatimDelimiters = map[byte]bool{'-': true, '.': true, '+': true, '/': true}

// scanner walks source lines once, tracking delimited blocks, pending block
// attributes and the section stack.
type scanner struct {
	lines    []string
	ids      idSettings
	fragment bool

	title     string
	attrs     map[string]string
	top       []*Section
	stack     []*Section
	anchors   map[string]struct{}
	warnings  []string
	headerIDs idSettings

	blocks      []string
	blockLines  []int
	pending     blockAttrs
	seenContent bool
	headerDone  bool
}

func newScanner(lines []string, ids idSettings, fragment bool) *scanner {
	return &scanner{
		lines:     lines,
		ids:       ids,
		fragment:  fragment,
		attrs:     make(map[string]string),
		anchors:   make(map[string]struct{}),
		headerIDs: ids,
	}
}

func (s *scanner) run() {
	for i, raw := range s.lines {
		s.line(i, strings.TrimRight(raw, "\r"))
	}
	for j, d := range s.blocks {
		s.warnings = append(s.warnings, fmt.Sprintf("line %d: unterminated delimited block %q", s.blockLines[j], d))
	}
	if !s.headerDone {
		s.headerIDs = s.ids
	}
}

func (s *scanner) line(i int, line string) {
	if n := len(s.blocks); n > 0 && isVerbatim(s.blocks[n-1]) {
		if line == s.blocks[n-1] {
			s.popBlock()
		}
		return
	}

	if isDelimiter(line) {
		if strings.HasPrefix(line, "```") {
			line = "```"
		}
		if n := len(s.blocks); n > 0 && s.blocks[n-1] == line {
			s.popBlock()
		} else {
			s.blocks = append(s.blocks, line)
			s.blockLines = append(s.blockLines, i+1)
		}
		s.collectPendingID()
		s.pending.reset()
		s.seenContent = true
		return
	}

	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(line, "//") {
		return
	}

	if name, value, unset, ok := attributeEntry(line); ok {
		s.setAttribute(name, value, unset)
		return
	}
	if id, ok := blockAnchor(line); ok {
		s.pending.id = id
		s.pending.mark(i + 1)
		return
	}
	if attributeList(line, &s.pending) {
		s.pending.mark(i + 1)
		return
	}
	if level, title, ok := heading(line); ok && len(s.blocks) == 0 {
		s.heading(i, level, title)
		s.pending.reset()
		return
	}

	s.collectPendingID()
	s.pending.reset()
	s.inlineAnchors(line)
	s.seenContent = true
}

func (s *scanner) popBlock() {
	s.blocks = s.blocks[:len(s.blocks)-1]
	s.blockLines = s.blockLines[:len(s.blockLines)-1]
}

// collectPendingID registers an id attached to a non-section block.
func (s *scanner) collectPendingID() {
	if s.pending.id != "" {
		s.anchors[s.pending.id] = struct{}{}
	}
}

func (s *scanner) setAttribute(name, value string, unset bool) {
	if unset {
		delete(s.attrs, name)
	} else {
		s.attrs[name] = value
	}
	s.ids.apply(name, value, unset)
}

func (s *scanner) heading(i, level int, title string) {
	explicit := s.pending.id
	if m := titleAnchorRx.FindStringSubmatch(title); m != nil {
		title = m[1]
		if explicit == "" {
			explicit = m[2]
		}
	}

	if level == 0 && !s.fragment && !s.seenContent && s.title == "" && len(s.top) == 0 {
		s.title = title
		s.collectPendingID()
		s.seenContent = true
		return
	}
	if !s.headerDone {
		s.headerIDs = s.ids
		s.headerDone = true
	}
	s.seenContent = true

	id := explicit
	if id == "" && !s.ids.disabled {
		id = s.ids.unique(s.ids.generate(title), s.anchors)
	}
	if id != "" {
		s.anchors[id] = struct{}{}
	}

	switch s.pending.style() {
	case "discrete", "float":
		return
	}

	sec := &Section{
		Title:      title,
		Level:      level,
		Line:       i + 1,
		MetaLine:   i + 1,
		ID:         id,
		Attributes: s.pending.named,
	}
	if s.pending.first > 0 {
		sec.MetaLine = s.pending.first
	}
	if sec.Attributes == nil {
		sec.Attributes = map[string]string{}
	}
	for len(s.stack) > 0 && s.stack[len(s.stack)-1].Level >= level {
		s.stack = s.stack[:len(s.stack)-1]
	}
	if len(s.stack) == 0 {
		s.top = append(s.top, sec)
	} else {
		parent := s.stack[len(s.stack)-1]
		parent.Sections = append(parent.Sections, sec)
	}
	s.stack = append(s.stack, sec)
}

func (s *scanner) inlineAnchors(line string) {
	for _, rx := range []*regexp.Regexp{inlineAnchorRx, anchorMacroRx, phraseIDRx} {
		for _, m := range rx.FindAllStringSubmatch(line, -1) {
			s.anchors[m[1]] = struct{}{}
		}
	}
}

// heading parses "== Title" (optionally closed by a matching marker run)
// into its level and title. Levels run from 0 to 5.
func heading(line string) (int, string, bool) {
	n := 0
	for n < len(line) && line[n] == '=' {
		n++
	}
	if n == 0 || n > 6 || n >= len(line) || (line[n] != ' ' && line[n] != '\t') {
		return 0, "", false
	}
	title := strings.TrimSpace(line[n:])
	if closing := strings.Repeat("=", n); strings.HasSuffix(title, " "+closing) {
		title = strings.TrimSpace(strings.TrimSuffix(title, closing))
	}
	if title == "" {
		return 0, "", false
	}
	return n - 1, title, true
}

// isDelimiter reports whether line opens or closes a delimited block.
func isDelimiter(line string) bool {
	switch line {
	case "--", "```", "|===", ",===", ":===", "!===":
		return true
	}
	if strings.HasPrefix(line, "```") && !strings.Contains(line[3:], "`") {
		return true
	}
	if len(line) < 4 {
		return false
	}
	c := line[0]
	switch c {
	case '-', '.', '+', '/', '=', '*', '_':
	default:
		return false
	}
	return strings.Count(line, string(c)) == len(line)
}

// isVerbatim reports whether the block opened by delimiter hides its
// content: listing, literal, passthrough, comment and fenced code.
func isVerbatim(delimiter string) bool {
	if strings.HasPrefix(delimiter, "```") {
		return true
	}
	return len(delimiter) >= 4 && verbatimDelimiters[delimiter[0]]
}

// VerbatimLines marks the lines that belong to verbatim blocks (listing,
// literal, passthrough, comment, fenced code), delimiters included.
func VerbatimLines(lines []string) []bool {
	marks := make([]bool, len(lines))
	open := ""
	for i, raw := range lines {
		line := strings.TrimRight(raw, "\r")
		if strings.HasPrefix(line, "```") && isDelimiter(line) {
			line = "```"
		}
		switch {
		case open != "":
			marks[i] = true
			if line == open {
				open = ""
			}
		case isDelimiter(line) && isVerbatim(line):
			marks[i] = true
			open = line
		}
	}
	return marks
}

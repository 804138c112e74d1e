// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package asciidoc

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// attributeEntryRx matches ":name: value", ":name!:" and ":!name:".
	attributeEntryRx = regexp.MustCompile(`^:(!?)(\w[\w-]*)(!?):(?:[ \t]+(.*))?$`)

	// blockAnchorRx matches a line holding only "[[id]]" or "[[id, reftext]]".
	blockAnchorRx = regexp.MustCompile(`^\[\[(` + idPattern + `)(?:,[^\]]*)?\]\]$`)

	// attributeListRx matches a block attribute line such as "[%split]",
	// "[split=2]" or "[source,go]".
	attributeListRx = regexp.MustCompile(`^\[([^\[\]]*|[^\[].*[^\]])\]$`)
)

// idPattern is the set of characters allowed in an explicit anchor id.
const idPattern = `[\p{L}_:][\p{L}\p{N}_:.\-]*`

// attributeEntry parses a document attribute entry line.
func attributeEntry(line string) (name, value string, unset, ok bool) {
	m := attributeEntryRx.FindStringSubmatch(line)
	if m == nil {
		return "", "", false, false
	}
	return m[2], strings.TrimSpace(m[4]), m[1] == "!" || m[3] == "!", true
}

// blockAnchor parses a "[[id]]" line.
func blockAnchor(line string) (string, bool) {
	m := blockAnchorRx.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// blockAttrs accumulates the attribute lines above a block or heading.
type blockAttrs struct {
	id    string
	named map[string]string
	// first is the 1-based line of the first attribute line, 0 when empty.
	first int
}

func (b *blockAttrs) mark(line int) {
	if b.first == 0 {
		b.first = line
	}
}

func (b *blockAttrs) set(name, value string) {
	if b.named == nil {
		b.named = make(map[string]string)
	}
	b.named[name] = value
}

func (b *blockAttrs) reset() {
	*b = blockAttrs{}
}

func (b *blockAttrs) style() string {
	return b.named["style"]
}

// attributeList parses a block attribute line into b. It reports false when
// the line is not an attribute list.
func attributeList(line string, b *blockAttrs) bool {
	if strings.HasPrefix(line, "[[") {
		return false
	}
	m := attributeListRx.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	items, ok := splitAttributeItems(m[1])
	if !ok {
		return false
	}
	positional := 0
	for _, item := range items {
		if name, value, isNamed := strings.Cut(item, "="); isNamed && validAttributeName(strings.TrimSpace(name)) {
			b.setNamed(strings.TrimSpace(name), unquote(strings.TrimSpace(value)))
			continue
		}
		positional++
		if positional == 1 {
			b.shorthand(item)
			continue
		}
		b.set(strconv.Itoa(positional), unquote(item))
	}
	return true
}

func (b *blockAttrs) setNamed(name, value string) {
	switch name {
	case "id":
		b.id = value
	case "options", "opts":
		for _, opt := range strings.Split(value, ",") {
			if opt = strings.TrimSpace(opt); opt != "" {
				b.set(opt+"-option", "")
			}
		}
	default:
		b.set(name, value)
	}
}

// shorthand parses the first positional attribute: style#id.role%option.
func (b *blockAttrs) shorthand(item string) {
	item = unquote(item)
	kind := byte(0)
	start := 0
	flush := func(end int) {
		token := item[start:end]
		switch kind {
		case 0:
			if token != "" {
				b.set("style", token)
			}
		case '#':
			if token != "" {
				b.id = token
			}
		case '.':
			if token != "" {
				if role, ok := b.named["role"]; ok {
					b.set("role", role+" "+token)
				} else {
					b.set("role", token)
				}
			}
		case '%':
			if token != "" {
				b.set(token+"-option", "")
			}
		}
	}
	for i := 0; i < len(item); i++ {
		switch c := item[i]; c {
		case '#', '.', '%':
			flush(i)
			kind = c
			start = i + 1
		}
	}
	flush(len(item))
}

// splitAttributeItems splits a comma-separated list, honoring double and
// single quotes. It reports false for unbalanced quotes.
func splitAttributeItems(s string) ([]string, bool) {
	if strings.TrimSpace(s) == "" {
		return nil, true
	}
	var items []string
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == ',':
			items = append(items, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	if quote != 0 {
		return nil, false
	}
	return append(items, strings.TrimSpace(s[start:])), true
}

func validAttributeName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !(r == '-' || r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

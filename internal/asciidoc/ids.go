// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package asciidoc

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

const (
	defaultIDPrefix    = "_"
	defaultIDSeparator = "_"
)

// idSettings mirrors the idprefix, idseparator and sectids attributes.
type idSettings struct {
	prefix    string
	separator string
	disabled  bool
}

func defaultIDSettings() idSettings {
	return idSettings{prefix: defaultIDPrefix, separator: defaultIDSeparator}
}

// apply updates the settings from an attribute entry. unset is true for
// ":name!:" entries.
func (ids *idSettings) apply(name, value string, unset bool) {
	switch name {
	case "idprefix":
		if unset {
			ids.prefix = ""
		} else {
			ids.prefix = value
		}
	case "idseparator":
		if unset {
			ids.separator = ""
		} else {
			ids.separator = value
		}
	case "sectids":
		ids.disabled = unset
	}
}

var (
	htmlTagRx    = regexp.MustCompile(`<[^>]+>`)
	htmlEntityRx = regexp.MustCompile(`&(?:[a-z][a-z]+\d{0,2}|#\d{2,5}|#x[\da-f]{2,4});`)
)

// generate derives a section id from its title the way Asciidoctor does:
// lowercase, drop markup and characters other than letters, digits,
// underscore, space, dot and hyphen, then squeeze space, dot and hyphen runs
// into the separator.
func (ids idSettings) generate(title string) string {
	t := htmlTagRx.ReplaceAllString(title, "")
	t = htmlEntityRx.ReplaceAllString(strings.ToLower(t), "")

	var b strings.Builder
	pendingSep := false
	for _, r := range t {
		switch {
		case r == ' ' || r == '.' || r == '-':
			if ids.separator != "" {
				pendingSep = true
			} else if r != ' ' {
				b.WriteRune(r)
			}
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			if pendingSep && b.Len() > 0 {
				b.WriteString(ids.separator)
			}
			pendingSep = false
			b.WriteRune(r)
		}
	}
	id := b.String()
	if ids.separator != "" {
		id = strings.TrimSuffix(id, ids.separator)
	}
	return ids.prefix + id
}

// unique returns base, or base with a numeric suffix when base is taken.
func (ids idSettings) unique(base string, taken map[string]struct{}) string {
	if _, ok := taken[base]; !ok {
		return base
	}
	sep := ids.separator
	if sep == "" {
		sep = defaultIDSeparator
	}
	for n := 2; ; n++ {
		candidate := base + sep + strconv.Itoa(n)
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
	}
}

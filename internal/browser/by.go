package browser

import (
	"fmt"
	"regexp"
	"strings"
)

// By is an element location strategy.
type By string

const (
	ByID        By = "id"
	ByCSS       By = "css"
	ByClassName By = "class"
	ByLinkText  By = "link_text"
	ByTagName   By = "tag"
)

// ParseBy converts a strategy name (as written in scenario scripts) into a By.
func ParseBy(s string) (By, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "id":
		return ByID, nil
	case "css", "css_selector":
		return ByCSS, nil
	case "class", "class_name":
		return ByClassName, nil
	case "link_text", "link", "text":
		return ByLinkText, nil
	case "tag", "tag_name":
		return ByTagName, nil
	default:
		return "", fmt.Errorf("unknown locator strategy: %q (supported: id, css, class, link_text, tag)", s)
	}
}

// locator is the rod form of a strategy and selector: a CSS query plus, for
// link text, a JS regex the element text must match.
type locator struct {
	css       string
	textRegex string
}

func (b By) locate(selector string) (locator, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return locator{}, fmt.Errorf("empty %s selector", b)
	}

	switch b {
	case ByID:
		return locator{css: `[id="` + escapeSelector(selector) + `"]`}, nil
	case ByCSS, ByTagName:
		return locator{css: selector}, nil
	case ByClassName:
		// "flash success" and "flash.success" both mean an element carrying both classes
		classes := strings.FieldsFunc(selector, func(r rune) bool { return r == '.' || r == ' ' || r == '\t' })
		return locator{css: "." + strings.Join(classes, ".")}, nil
	case ByLinkText:
		return locator{css: "a", textRegex: `^\s*` + regexp.QuoteMeta(selector) + `\s*$`}, nil
	default:
		return locator{}, fmt.Errorf("unknown locator strategy: %q", string(b))
	}
}

func escapeSelector(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

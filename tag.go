package tagview

import (
	"regexp"
	"strings"

	"github.com/pthm/tagview/lib/markup"
)

var tagPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9._:-]*$`)

// Namespaces are the tag prefixes that mark an element as a component call.
// They are stripped during resolution.
var Namespaces = []string{"ui", "view"}

// ValidateTag checks a tag against the authoring grammar.
func ValidateTag(tag string) error {
	switch {
	case tag == "":
		return &TagError{Tag: tag, Reason: "tags cannot be empty"}
	case tag[0] == ':':
		return &TagError{Tag: tag, Reason: "tags cannot start with a separator"}
	case !isLetter(tag[0]):
		return &TagError{Tag: tag, Reason: "tags must start with a letter"}
	case !tagPattern.MatchString(tag):
		return &TagError{Tag: tag, Reason: "tag contains invalid characters"}
	}
	return nil
}

// IsNamespaced reports whether tag starts with one of the Namespaces.
func IsNamespaced(tag string) bool {
	_, ok := namespace(tag)
	return ok
}

// StripNamespace removes a leading "ui:" or "view:" from tag.
func StripNamespace(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if rest, ok := namespace(tag); ok {
		return rest
	}
	return tag
}

// BaseTag strips the namespace and truncates tag at the first ":", dropping
// any subtype: "ui:alert:warning" becomes "alert".
func BaseTag(tag string) string {
	tag = StripNamespace(tag)
	if i := strings.IndexByte(tag, ':'); i >= 0 {
		return tag[:i]
	}
	return tag
}

// IsKnownTag reports whether the base of tag is a standard HTML element.
func IsKnownTag(tag string) bool {
	return markup.IsKnownTag(BaseTag(tag))
}

func namespace(tag string) (string, bool) {
	lower := strings.ToLower(tag)
	for _, ns := range Namespaces {
		if strings.HasPrefix(lower, ns+":") {
			return tag[len(ns)+1:], true
		}
	}
	return tag, false
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

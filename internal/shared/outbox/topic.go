package outbox

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ParseEventType splits a "Name@majorVersion" event type tag.
func ParseEventType(eventType string) (name string, major int, err error) {
	eventType = strings.TrimSpace(eventType)
	if eventType == "" {
		return "", 0, ErrEventTypeRequired
	}

	at := strings.LastIndex(eventType, "@")
	if at <= 0 || at == len(eventType)-1 {
		return "", 0, fmt.Errorf("%w: %q", ErrEventTypeMalformed, eventType)
	}

	name = eventType[:at]
	major, convErr := strconv.Atoi(eventType[at+1:])
	if convErr != nil || major < 1 {
		return "", 0, fmt.Errorf("%w: %q", ErrEventTypeMalformed, eventType)
	}
	return name, major, nil
}

// TopicFor derives the broker topic for an event emitted by a domain module,
// following the {domain}.{version}.{event-name} convention, for example
// "products.v1.product-created". The version segment increments on any
// breaking payload change.
func TopicFor(domain, eventType string) (string, error) {
	name, major, err := ParseEventType(eventType)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s.v%d.%s", strings.ToLower(strings.TrimSpace(domain)), major, kebabCase(name)), nil
}

func kebabCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

package content

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// ErrUnknownField is returned for a field path that does not exist.
var ErrUnknownField = errors.New("unknown field")

// suggestDistance is how far a typo may be from a real field to be suggested.
const suggestDistance = 3

type accessor struct {
	get func(*SiteContent) string
	set func(*SiteContent, string)
}

var fields = map[string]accessor{
	"home.title": {
		get: func(c *SiteContent) string { return c.Home.Title },
		set: func(c *SiteContent, v string) { c.Home.Title = v },
	},
	"home.subtitle": {
		get: func(c *SiteContent) string { return c.Home.Subtitle },
		set: func(c *SiteContent, v string) { c.Home.Subtitle = v },
	},
	"home.coverImage": {
		get: func(c *SiteContent) string { return c.Home.CoverImage },
		set: func(c *SiteContent, v string) { c.Home.CoverImage = v },
	},
	"detail.title": {
		get: func(c *SiteContent) string { return c.Detail.Title },
		set: func(c *SiteContent, v string) { c.Detail.Title = v },
	},
	"detail.subtitle": {
		get: func(c *SiteContent) string { return c.Detail.Subtitle },
		set: func(c *SiteContent, v string) { c.Detail.Subtitle = v },
	},
	"detail.qrImage": {
		get: func(c *SiteContent) string { return c.Detail.QRImage },
		set: func(c *SiteContent, v string) { c.Detail.QRImage = v },
	},
	"detail.qrText": {
		get: func(c *SiteContent) string { return c.Detail.QRText },
		set: func(c *SiteContent, v string) { c.Detail.QRText = v },
	},
	"detail.cards": {
		get: func(c *SiteContent) string { return strings.Join(c.Detail.Cards, "\n") },
		set: func(c *SiteContent, v string) { c.Detail.Cards = splitCards(v) },
	},
}

// Fields lists every settable field path in a stable order.
func Fields() []string {
	out := make([]string, 0, len(fields))
	for name := range fields {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Field reads a field by path. detail.cards comes back newline separated.
func (c SiteContent) Field(path string) (string, error) {
	acc, err := lookup(path)
	if err != nil {
		return "", err
	}
	return acc.get(&c), nil
}

// SetField writes a field by path. For detail.cards the value is split on
// whitespace, one URL per entry.
func (c *SiteContent) SetField(path, value string) error {
	acc, err := lookup(path)
	if err != nil {
		return err
	}
	acc.set(c, value)
	return nil
}

func lookup(path string) (accessor, error) {
	if acc, ok := fields[path]; ok {
		return acc, nil
	}
	if s := Suggest(path); s != "" {
		return accessor{}, fmt.Errorf("%w %q, did you mean %q?", ErrUnknownField, path, s)
	}
	return accessor{}, fmt.Errorf("%w %q", ErrUnknownField, path)
}

// Suggest returns the closest known field path, or "" when nothing is close.
func Suggest(path string) string {
	best, bestDist := "", suggestDistance+1
	for _, name := range Fields() {
		d := levenshtein.ComputeDistance(strings.ToLower(path), strings.ToLower(name))
		if d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

func splitCards(v string) []string {
	parts := strings.Fields(v)
	if len(parts) == 0 {
		return nil
	}
	return parts
}

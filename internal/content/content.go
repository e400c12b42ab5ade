// Package content models the site content document: home and detail screen
// text, the card image URLs shown in the carousel and the QR block.
package content

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Key is the fixed identifier the document is stored under.
const Key = "site_content"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid content")

// SiteContent is the whole document.
type SiteContent struct {
	Home   Home   `json:"home" yaml:"home"`
	Detail Detail `json:"detail" yaml:"detail"`
}

type Home struct {
	Title      string `json:"title" yaml:"title"`
	Subtitle   string `json:"subtitle" yaml:"subtitle"`
	CoverImage string `json:"coverImage" yaml:"coverImage"`
}

type Detail struct {
	Title    string   `json:"title" yaml:"title"`
	Subtitle string   `json:"subtitle" yaml:"subtitle"`
	Cards    []string `json:"cards" yaml:"cards"`
	QRImage  string   `json:"qrImage" yaml:"qrImage"`
	QRText   string   `json:"qrText" yaml:"qrText"`
}

// Default returns the built-in document shown until something is stored.
func Default() SiteContent {
	return SiteContent{
		Home: Home{
			Title:      "探索无限可能",
			Subtitle:   "开启您的专属之旅",
			CoverImage: "https://images.unsplash.com/photo-1618005182384-a83a8bd57fbe?w=800&h=1200&fit=crop",
		},
		Detail: Detail{
			Title:    "精选内容",
			Subtitle: "为您呈现最优质的体验",
			Cards: []string{
				"https://images.unsplash.com/photo-1579546929518-9e396f3cc809?w=600&h=900&fit=crop",
				"https://images.unsplash.com/photo-1557683316-973673baf926?w=600&h=900&fit=crop",
				"https://images.unsplash.com/photo-1560015534-cee980ba7e13?w=600&h=900&fit=crop",
				"https://images.unsplash.com/photo-1618005198919-d3d4b5a92ead?w=600&h=900&fit=crop",
				"https://images.unsplash.com/photo-1614850715649-1d0106293bd1?w=600&h=900&fit=crop",
			},
			QRImage: "https://api.qrserver.com/v1/create-qr-code/?size=200x200&data=https://example.com",
			QRText:  "长按二维码扫码",
		},
	}
}

// IsZero reports whether nothing at all is set, i.e. the stored value was `{}`.
func (c SiteContent) IsZero() bool {
	return c.Home == (Home{}) &&
		c.Detail.Title == "" && c.Detail.Subtitle == "" &&
		len(c.Detail.Cards) == 0 &&
		c.Detail.QRImage == "" && c.Detail.QRText == ""
}

// Clone returns a deep copy so callers can edit the card list freely.
func (c SiteContent) Clone() SiteContent {
	out := c
	if c.Detail.Cards != nil {
		out.Detail.Cards = append([]string(nil), c.Detail.Cards...)
	}
	return out
}

// Validate checks image URLs. Empty text fields are allowed.
func (c SiteContent) Validate() error {
	if err := checkURL("home.coverImage", c.Home.CoverImage); err != nil {
		return err
	}
	if err := checkURL("detail.qrImage", c.Detail.QRImage); err != nil {
		return err
	}
	for i, card := range c.Detail.Cards {
		if strings.TrimSpace(card) == "" {
			return fmt.Errorf("%w: detail.cards[%d] is blank", ErrInvalid, i)
		}
		if err := checkURL(fmt.Sprintf("detail.cards[%d]", i), card); err != nil {
			return err
		}
	}
	return nil
}

func checkURL(field, raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalid, field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("%w: %s must be an absolute http(s) URL", ErrInvalid, field)
	}
	return nil
}

// Resolve picks what to show: a stored document replaces the fallback unless it
// is empty.
func Resolve(stored *SiteContent, fallback SiteContent) SiteContent {
	if stored == nil || stored.IsZero() {
		return fallback.Clone()
	}
	return stored.Clone()
}

// AddCard appends a trimmed URL. Blank input is rejected.
func (c *SiteContent) AddCard(raw string) error {
	card := strings.TrimSpace(raw)
	if card == "" {
		return fmt.Errorf("%w: card URL is required", ErrInvalid)
	}
	c.Detail.Cards = append(c.Detail.Cards, card)
	return nil
}

// RemoveCard drops card i. Out of range indexes are ignored.
func (c *SiteContent) RemoveCard(i int) {
	if i < 0 || i >= len(c.Detail.Cards) {
		return
	}
	c.Detail.Cards = append(c.Detail.Cards[:i:i], c.Detail.Cards[i+1:]...)
}

// MoveCard swaps card i with its neighbour above (delta -1) or below (delta +1).
// Moves past either end are no-ops.
func (c *SiteContent) MoveCard(i, delta int) {
	j := i + delta
	cards := c.Detail.Cards
	if i < 0 || i >= len(cards) || j < 0 || j >= len(cards) {
		return
	}
	cards[i], cards[j] = cards[j], cards[i]
}

// Source loads and replaces the document. The local store and the HTTP client
// both implement it.
type Source interface {
	Load(ctx context.Context) (SiteContent, error)
	Save(ctx context.Context, c SiteContent) error
}

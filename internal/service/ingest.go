package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/jask/showcase/internal/content"
)

// IngestService imports content documents from files.
type IngestService struct {
	Content content.Source
}

// IngestResult summarises one import.
type IngestResult struct {
	Path    string
	Cards   int
	Changed []string
	Skipped bool
}

// ImportFile reads path in the format implied by its extension and saves it.
func (s *IngestService) ImportFile(ctx context.Context, path string) (IngestResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return IngestResult{}, err
	}
	defer f.Close()
	res, err := s.Import(ctx, f, content.FormatFor(path))
	res.Path = path
	return res, err
}

// Import decodes r and saves it. A document identical to the current one is
// skipped.
func (s *IngestService) Import(ctx context.Context, r io.Reader, f content.Format) (IngestResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return IngestResult{}, fmt.Errorf("read: %w", err)
	}
	doc, err := content.Decode(data, f)
	if err != nil {
		return IngestResult{}, err
	}
	if err := doc.Validate(); err != nil {
		return IngestResult{}, err
	}
	current, err := s.Content.Load(ctx)
	if err != nil {
		return IngestResult{}, err
	}
	res := IngestResult{Cards: len(doc.Detail.Cards), Changed: Diff(current, doc)}
	if len(res.Changed) == 0 {
		res.Skipped = true
		return res, nil
	}
	if err := s.Content.Save(ctx, doc); err != nil {
		return IngestResult{}, err
	}
	return res, nil
}

// Diff lists the field paths that differ between two documents.
func Diff(a, b content.SiteContent) []string {
	var out []string
	for _, name := range content.Fields() {
		av, _ := a.Field(name)
		bv, _ := b.Field(name)
		if name == "detail.cards" {
			if !reflect.DeepEqual(normalize(a.Detail.Cards), normalize(b.Detail.Cards)) {
				out = append(out, name)
			}
			continue
		}
		if av != bv {
			out = append(out, name)
		}
	}
	return out
}

func normalize(cards []string) []string {
	if len(cards) == 0 {
		return nil
	}
	return cards
}

package cli

import (
	"fmt"
	"io"

	"github.com/aretw0/storechat/pkg/adapters/catalog"
)

// ValidateCatalog loads the catalog file and prints a summary to w.
func ValidateCatalog(path string, w io.Writer) error {
	doc, err := catalog.Load(path)
	if err != nil {
		return err
	}

	inStock := 0
	perCategory := make(map[string]int, len(doc.Categories))
	for _, p := range doc.Products {
		perCategory[p.CategoryID]++
		if p.InStock {
			inStock++
		}
	}

	fmt.Fprintf(w, "✓ %s: %d categories, %d products (%d in stock)\n", path, len(doc.Categories), len(doc.Products), inStock)
	for _, c := range doc.Categories {
		fmt.Fprintf(w, "  - %s %s: %d products\n", c.Emoji, c.Name, perCategory[c.ID])
	}
	return nil
}

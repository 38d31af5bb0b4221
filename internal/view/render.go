package view

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/shinyyama/virtual-fridge/internal/apiclient"
)

// Render draws the screen as plain text. The inside of the fridge is only listed while the door is open.
func (f *Fridge) Render(w io.Writer) error {
	var b strings.Builder
	b.WriteString("=== Virtual Fridge ===\n")

	if h := f.Health(); h != nil {
		fmt.Fprintf(&b, "Server: %s, database %s\n", h.Status, h.Database)
	}
	if msg := f.Err(); msg != "" {
		fmt.Fprintf(&b, "! %s (dismiss to hide)\n", msg)
	}
	if q, ok := f.Searching(); ok {
		fmt.Fprintf(&b, "Search %q: %d found (clear to show everything)\n", q, len(f.Items()))
	}

	inside := f.InFridge()
	if f.DoorOpen() {
		b.WriteString("+------------------+\n")
		b.WriteString("|      (open)      |\n")
		b.WriteString("+------------------+\n")
		b.WriteString("In the fridge:\n")
		if len(inside) == 0 {
			b.WriteString("  the fridge is empty\n")
		}
		writeItems(&b, inside)
	} else {
		b.WriteString("+------------------+\n")
		b.WriteString("|                 o|\n")
		b.WriteString("+------------------+\n")
		fmt.Fprintf(&b, "Door closed, %d inside\n", len(inside))
	}

	if outside := f.Outside(); len(outside) > 0 {
		b.WriteString("Next to the fridge:\n")
		writeItems(&b, outside)
	}

	if cats := f.Categories(); len(cats) > 0 {
		fmt.Fprintf(&b, "Categories: %s\n", strings.Join(cats, ", "))
	}
	if s := f.Statistics(); s != nil {
		fmt.Fprintf(&b, "Statistics: %d products, %d in the fridge, %d outside\n", s.TotalProducts, s.InFridge, s.Outside)
		slugs := make([]string, 0, len(s.Categories))
		for slug := range s.Categories {
			slugs = append(slugs, slug)
		}
		sort.Strings(slugs)
		for _, slug := range slugs {
			cs := s.Categories[slug]
			fmt.Fprintf(&b, "  %s: %d (%d in the fridge)\n", slug, cs.Total, cs.InFridge)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeItems(b *strings.Builder, items []apiclient.Item) {
	for _, it := range items {
		if it.Category != "" {
			fmt.Fprintf(b, "  #%d %s [%s]\n", it.ID, it.Name, it.Category)
			continue
		}
		fmt.Fprintf(b, "  #%d %s\n", it.ID, it.Name)
	}
}

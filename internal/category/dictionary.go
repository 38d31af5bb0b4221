package category

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v2"
)

const Other = "other"

//go:embed categories.yaml
var defaultDictionary []byte

type Category struct {
	Slug     string   `yaml:"slug"`
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

type Dictionary struct {
	Categories []Category `yaml:"categories"`
}

// LoadDictionary reads the dictionary from path, or the embedded default when path is empty.
func LoadDictionary(path string) (*Dictionary, error) {
	data := defaultDictionary
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read categories file: %w", err)
		}
		data = b
	}
	return ParseDictionary(data)
}

func ParseDictionary(data []byte) (*Dictionary, error) {
	var d Dictionary
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse categories: %w", err)
	}
	if len(d.Categories) == 0 {
		return nil, errors.New("categories: empty dictionary")
	}
	seen := make(map[string]struct{}, len(d.Categories))
	for i := range d.Categories {
		c := &d.Categories[i]
		c.Slug = strings.ToLower(strings.TrimSpace(c.Slug))
		if c.Slug == "" {
			return nil, fmt.Errorf("categories: entry %d has no slug", i)
		}
		if _, dup := seen[c.Slug]; dup {
			return nil, fmt.Errorf("categories: duplicate slug %q", c.Slug)
		}
		seen[c.Slug] = struct{}{}
		for j, kw := range c.Keywords {
			c.Keywords[j] = strings.ToLower(strings.TrimSpace(kw))
		}
	}
	if _, ok := seen[Other]; !ok {
		d.Categories = append(d.Categories, Category{Slug: Other, Name: "Other"})
	}
	return &d, nil
}

func (d *Dictionary) Slugs() []string {
	out := make([]string, 0, len(d.Categories))
	for _, c := range d.Categories {
		out = append(out, c.Slug)
	}
	return out
}

func (d *Dictionary) Has(slug string) bool {
	for _, c := range d.Categories {
		if c.Slug == slug {
			return true
		}
	}
	return false
}

// Match returns the first category whose keyword starts a word of name, or Other.
// Where keywords overlap at the same word, the longest one wins, so "eggplant" beats "egg".
func (d *Dictionary) Match(name string) string {
	words := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return Other
	}
	joined := " " + strings.Join(words, " ")

	longest := map[int]int{}
	for _, c := range d.Categories {
		for _, kw := range c.Keywords {
			for _, pos := range wordHits(joined, kw) {
				if len(kw) > longest[pos] {
					longest[pos] = len(kw)
				}
			}
		}
	}
	for _, c := range d.Categories {
		for _, kw := range c.Keywords {
			for _, pos := range wordHits(joined, kw) {
				if len(kw) == longest[pos] {
					return c.Slug
				}
			}
		}
	}
	return Other
}

// wordHits returns the offsets in joined where kw starts a word.
func wordHits(joined, kw string) []int {
	if kw == "" {
		return nil
	}
	var hits []int
	needle := " " + kw
	for from := 0; ; {
		i := strings.Index(joined[from:], needle)
		if i < 0 {
			return hits
		}
		hits = append(hits, from+i)
		from += i + 1
	}
}

package category

import (
	"context"
	"log"
	"strings"

	"github.com/shinyyama/virtual-fridge/internal/reqctx"
)

// Classifier is a slower, smarter fallback for names the keyword table does not know.
type Classifier interface {
	Classify(ctx context.Context, name string, slugs []string) (string, error)
}

type Resolver struct {
	dict       *Dictionary
	cache      Cache
	classifier Classifier
}

// NewResolver wires the lookup chain. cache defaults to an in-process map; classifier may be nil.
func NewResolver(dict *Dictionary, cache Cache, classifier Classifier) *Resolver {
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &Resolver{dict: dict, cache: cache, classifier: classifier}
}

func (r *Resolver) Slugs() []string {
	return r.dict.Slugs()
}

func (r *Resolver) Has(slug string) bool {
	return r.dict.Has(slug)
}

// Resolve never fails: lookup problems are logged and the item lands in Other.
func (r *Resolver) Resolve(ctx context.Context, name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return Other
	}
	rid := reqctx.RID(ctx)
	if slug, ok, err := r.cache.Get(ctx, key); err != nil {
		log.Printf("[category] rid=%s stage=cache_get err=%v", rid, err)
	} else if ok && r.dict.Has(slug) {
		return slug
	}

	slug := r.dict.Match(key)
	if slug == Other && r.classifier != nil {
		s, err := r.classifier.Classify(ctx, name, r.dict.Slugs())
		if err != nil {
			// retry on the next lookup instead of pinning Other
			return Other
		}
		if r.dict.Has(s) {
			slug = s
		}
	}
	if err := r.cache.Set(ctx, key, slug); err != nil {
		log.Printf("[category] rid=%s stage=cache_set err=%v", rid, err)
	}
	return slug
}

// Package normalizer reduces loosely structured vendor payloads into the
// canonical NormalizedProduct form. Field names vary between vendors, page
// types, and extension versions, so every logical field is resolved through
// an ordered list of candidate keys declared per platform (see amazon.go and
// temu.go). The candidate ordering is part of the contract: collection runs
// must stay reproducible across payload variants.
package normalizer

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/xsha511/brightdata-scraper/internal/model"
)

// DefaultCentsThreshold is the magnitude above which a parsed price is assumed
// to be in minor units and divided by 100. Some vendor payloads encode prices
// in cents; the cutoff is a heuristic and vendor-version dependent, which is
// why it is configurable per platform.
const DefaultCentsThreshold = 1000

// Config tunes normalization behaviour.
type Config struct {
	// CentsThreshold overrides the minor-unit heuristic per platform.
	// Zero or missing entries fall back to DefaultThreshold.
	CentsThreshold map[string]float64

	// DefaultThreshold replaces DefaultCentsThreshold when > 0.
	DefaultThreshold float64
}

// ValidationError marks a payload that cannot produce a normalized product
// (missing ID, unsupported platform). It is always a per-item failure: one
// malformed item never aborts a batch.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a per-item validation failure.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// Normalizer converts raw vendor payloads into NormalizedProduct values.
// It is pure and stateless after construction — safe for concurrent use.
type Normalizer struct {
	cfg   Config
	specs map[string]*platformSpec
}

func New(cfg Config) *Normalizer {
	n := &Normalizer{
		cfg:   cfg,
		specs: make(map[string]*platformSpec),
	}
	n.register(amazonSpec())
	n.register(temuSpec())
	return n
}

func (n *Normalizer) register(s *platformSpec) {
	n.specs[s.platform] = s
}

// Platforms lists the registered platform tags.
func (n *Normalizer) Platforms() []string {
	out := make([]string, 0, len(n.specs))
	for p := range n.specs {
		out = append(out, p)
	}
	return out
}

// Normalize resolves raw into a canonical product for the given platform.
// Returns a ValidationError when the payload yields no product ID or the
// platform is unknown.
func (n *Normalizer) Normalize(platform string, raw map[string]any) (*model.NormalizedProduct, error) {
	spec, ok := n.specs[platform]
	if !ok {
		return nil, validationf("unsupported platform %q", platform)
	}
	if raw == nil {
		return nil, validationf("empty payload")
	}
	return n.normalize(spec, raw)
}

func (n *Normalizer) normalize(spec *platformSpec, raw map[string]any) (*model.NormalizedProduct, error) {
	id := stringField(raw, spec.id)
	if id == "" && spec.idFromURL != nil {
		if u := stringField(raw, spec.url); u != "" {
			if m := spec.idFromURL.FindStringSubmatch(u); len(m) > 1 {
				id = m[1]
			}
		}
	}
	if id == "" {
		return nil, validationf("%s payload has no resolvable product id", spec.platform)
	}

	title := stringField(raw, spec.title)
	if title == "" {
		// Garbled vendor data is abstracted as a readable placeholder
		// rather than failing the item.
		title = fmt.Sprintf(spec.placeholder, id)
	}

	url := stringField(raw, spec.url)
	if url == "" {
		url = spec.productURL(id)
	}

	currency := stringField(raw, spec.currency)
	if currency == "" {
		currency = spec.defaultCurrency
	}

	p := &model.NormalizedProduct{
		Platform:      spec.platform,
		ProductID:     id,
		URL:           url,
		Title:         title,
		Price:         n.priceField(spec.platform, raw, spec.price),
		OriginalPrice: n.priceField(spec.platform, raw, spec.originalPrice),
		Currency:      currency,
		Rating:        ratingField(raw, spec.rating),
		ReviewCount:   countField(raw, spec.reviewCount),
		SoldCount:     countField(raw, spec.soldCount),
		SellerID:      optStringField(raw, spec.sellerID),
		SellerName:    optStringField(raw, spec.sellerName),
		Category:      optStringField(raw, spec.category),
		Description:   optStringField(raw, spec.description),
		InStock:       stockField(raw, spec.inStock),
	}

	main := stringField(raw, spec.mainImage)
	p.Images = buildImages(galleryField(raw, spec.gallery), main)

	return p, nil
}

// priceField resolves the first parseable candidate and applies the
// minor-unit heuristic. Unparsable or negative values are skipped so that a
// later candidate can still win; nothing parseable yields nil, never zero.
func (n *Normalizer) priceField(platform string, raw map[string]any, keys fieldKeys) *decimal.Decimal {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		d, ok := parsePrice(v)
		if !ok || d.IsNegative() {
			continue
		}
		threshold := n.centsThreshold(platform)
		if d.GreaterThan(decimal.NewFromFloat(threshold)) {
			log.Debug().
				Str("platform", platform).
				Str("key", k).
				Str("raw_value", d.String()).
				Float64("threshold", threshold).
				Msg("price above cents threshold, assuming minor units")
			d = d.Div(decimal.NewFromInt(100))
		}
		return &d
	}
	return nil
}

func (n *Normalizer) centsThreshold(platform string) float64 {
	if t, ok := n.cfg.CentsThreshold[platform]; ok && t > 0 {
		return t
	}
	if n.cfg.DefaultThreshold > 0 {
		return n.cfg.DefaultThreshold
	}
	return DefaultCentsThreshold
}

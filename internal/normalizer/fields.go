package normalizer

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/xsha511/brightdata-scraper/internal/model"
)

// fieldKeys is an ordered list of candidate raw-payload keys for one logical
// field. The first key holding a non-empty value wins.
type fieldKeys []string

// platformSpec is the declarative mapping from one marketplace's payload
// vocabulary onto the canonical product fields. Adding a vendor means adding
// a table, not another branch of conditionals.
type platformSpec struct {
	platform        string
	defaultCurrency string

	// placeholder formats a human-readable stand-in title containing the ID.
	placeholder string
	// productURL builds a canonical product page URL from the ID.
	productURL func(id string) string
	// idFromURL extracts the ID out of a product URL path as a last resort.
	idFromURL *regexp.Regexp

	id            fieldKeys
	title         fieldKeys
	url           fieldKeys
	price         fieldKeys
	originalPrice fieldKeys
	currency      fieldKeys
	rating        fieldKeys
	reviewCount   fieldKeys
	soldCount     fieldKeys
	sellerID      fieldKeys
	sellerName    fieldKeys
	category      fieldKeys
	description   fieldKeys
	mainImage     fieldKeys
	gallery       fieldKeys
	inStock       fieldKeys
}

// ─── Scalar resolution ───────────────────────────────────────────────────────

func stringField(raw map[string]any, keys fieldKeys) string {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		if s := strings.TrimSpace(asString(v)); s != "" {
			return s
		}
	}
	return ""
}

func optStringField(raw map[string]any, keys fieldKeys) *string {
	if s := stringField(raw, keys); s != "" {
		return &s
	}
	return nil
}

// asString renders scalar payload values. JSON numbers arrive as float64;
// IDs like goods_id must not pick up an exponent or trailing zeros.
func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// ratingField resolves an optional float clamped to the valid [0,5] range.
// Out-of-range values are treated as garbage and left unset.
func ratingField(raw map[string]any, keys fieldKeys) *float64 {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		f, ok := asFloat(v)
		if !ok || f < 0 || f > 5 {
			continue
		}
		return &f
	}
	return nil
}

// countField resolves an optional non-negative integer (review counts, sold
// counts). Thousands separators in string values are tolerated.
func countField(raw map[string]any, keys fieldKeys) *int {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		f, ok := asFloat(v)
		if !ok || f < 0 {
			continue
		}
		c := int(f)
		return &c
	}
	return nil
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(t), ",", "")
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// stockField defaults to in-stock unless the payload explicitly signals
// otherwise, either as a boolean or an availability phrase.
func stockField(raw map[string]any, keys fieldKeys) bool {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case bool:
			return t
		case string:
			s := strings.ToLower(t)
			if strings.Contains(s, "out of stock") ||
				strings.Contains(s, "unavailable") ||
				strings.Contains(s, "sold out") {
				return false
			}
			return true
		}
	}
	return true
}

// ─── Price parsing ───────────────────────────────────────────────────────────

var priceStrip = regexp.MustCompile(`[^0-9.\-]`)

// parsePrice accepts numeric or string input. Strings are stripped of
// currency symbols and thousands separators before parsing.
func parsePrice(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case float64:
		return decimal.NewFromFloat(t), true
	case int:
		return decimal.NewFromInt(int64(t)), true
	case int64:
		return decimal.NewFromInt(t), true
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		return d, err == nil
	case string:
		s := priceStrip.ReplaceAllString(t, "")
		if s == "" {
			return decimal.Decimal{}, false
		}
		d, err := decimal.NewFromString(s)
		return d, err == nil
	default:
		return decimal.Decimal{}, false
	}
}

// ─── Images ──────────────────────────────────────────────────────────────────

// galleryField flattens the raw gallery list. Entries may be plain URL
// strings or objects keyed url / hiRes / large, first present wins.
func galleryField(raw map[string]any, keys fieldKeys) []string {
	for _, k := range keys {
		list, ok := raw[k].([]any)
		if !ok {
			continue
		}
		var urls []string
		for _, item := range list {
			var u string
			switch t := item.(type) {
			case string:
				u = t
			case map[string]any:
				for _, key := range []string{"url", "hiRes", "large"} {
					if s, ok := t[key].(string); ok && s != "" {
						u = s
						break
					}
				}
			}
			if u = strings.TrimSpace(u); u != "" {
				urls = append(urls, completeURL(u))
			}
		}
		if len(urls) > 0 {
			return urls
		}
	}
	return nil
}

// completeURL fixes protocol-less vendor URLs ("//img.example.com/…").
func completeURL(u string) string {
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return "https:" + u
}

// buildImages assembles the gallery with exactly one primary image.
// A distinguished main image takes the primary flag; when it is not already
// part of the gallery it is inserted at position 0. Otherwise the first
// gallery image is primary. Gallery order is preserved.
func buildImages(gallery []string, main string) []model.ProductImage {
	if main != "" {
		main = completeURL(strings.TrimSpace(main))
	}

	images := make([]model.ProductImage, 0, len(gallery)+1)
	mainInGallery := false
	for _, u := range gallery {
		if main != "" && u == main {
			mainInGallery = true
		}
		images = append(images, model.ProductImage{URL: u})
	}

	switch {
	case main != "" && !mainInGallery:
		images = append([]model.ProductImage{{URL: main, IsPrimary: true}}, images...)
	case main != "":
		for i := range images {
			images[i].IsPrimary = images[i].URL == main
		}
		// Only the first occurrence keeps the flag if the URL repeats.
		seen := false
		for i := range images {
			if images[i].IsPrimary {
				if seen {
					images[i].IsPrimary = false
				}
				seen = true
			}
		}
	case len(images) > 0:
		images[0].IsPrimary = true
	}

	return images
}

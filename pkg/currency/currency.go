// Package currency holds the per-currency metadata the payout sync needs,
// most importantly the number of minor-unit decimals used when scaling
// amounts between the remote API and the local store.
package currency

import (
	"errors"
	"strings"
	"sync"
)

// ErrUnsupported is returned when a currency code is not registered.
// Unknown currencies are an error, never silently scaled with a default.
var ErrUnsupported = errors.New("currency: unsupported currency code")

// DefaultDecimals is the scale used by most ISO 4217 currencies.
const DefaultDecimals = 2

// Meta holds currency-specific metadata.
type Meta struct {
	Code     string
	Decimals int
	Symbol   string
}

var (
	mu    sync.RWMutex
	metas = defaultMetas()
)

func defaultMetas() map[string]Meta {
	m := map[string]Meta{
		"usd": {Decimals: 2, Symbol: "$"},
		"eur": {Decimals: 2, Symbol: "€"},
		"gbp": {Decimals: 2, Symbol: "£"},
		"cad": {Decimals: 2, Symbol: "C$"},
		"aud": {Decimals: 2, Symbol: "A$"},
		"chf": {Decimals: 2, Symbol: "CHF"},
		"cny": {Decimals: 2, Symbol: "¥"},
		"inr": {Decimals: 2, Symbol: "₹"},
		"egp": {Decimals: 2, Symbol: "£"},
		"brl": {Decimals: 2, Symbol: "R$"},
		"mxn": {Decimals: 2, Symbol: "$"},
		"sek": {Decimals: 2, Symbol: "kr"},
		"nok": {Decimals: 2, Symbol: "kr"},
		"dkk": {Decimals: 2, Symbol: "kr"},
		"pln": {Decimals: 2, Symbol: "zł"},
		"sgd": {Decimals: 2, Symbol: "S$"},
		"hkd": {Decimals: 2, Symbol: "HK$"},
		"nzd": {Decimals: 2, Symbol: "NZ$"},

		// Three-decimal dinar/rial group.
		"bhd": {Decimals: 3, Symbol: ".د.ب"},
		"jod": {Decimals: 3, Symbol: "د.ا"},
		"kwd": {Decimals: 3, Symbol: "د.ك"},
		"omr": {Decimals: 3, Symbol: "ر.ع."},
		"tnd": {Decimals: 3, Symbol: "د.ت"},
	}
	// Zero-decimal currencies per Stripe's published list: the minor unit
	// is the whole unit.
	for _, code := range []string{
		"bif", "clp", "djf", "gnf", "jpy", "kmf", "krw", "mga",
		"pyg", "rwf", "ugx", "vnd", "vuv", "xaf", "xof", "xpf",
	} {
		m[code] = Meta{Decimals: 0, Symbol: strings.ToUpper(code)}
	}
	for code, meta := range m {
		meta.Code = code
		m[code] = meta
	}
	return m
}

// Get returns the metadata for a currency code. Codes are matched
// case-insensitively; the remote API uses lowercase codes throughout.
func Get(code string) (Meta, error) {
	mu.RLock()
	defer mu.RUnlock()
	meta, ok := metas[strings.ToLower(code)]
	if !ok {
		return Meta{}, ErrUnsupported
	}
	return meta, nil
}

// Register adds or replaces a currency in the table.
func Register(meta Meta) {
	mu.Lock()
	defer mu.Unlock()
	code := strings.ToLower(meta.Code)
	meta.Code = code
	metas[code] = meta
}

// IsSupported reports whether a currency code is registered.
func IsSupported(code string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := metas[strings.ToLower(code)]
	return ok
}

// ListSupported returns all registered currency codes.
func ListSupported() []string {
	mu.RLock()
	defer mu.RUnlock()
	codes := make([]string, 0, len(metas))
	for code := range metas {
		codes = append(codes, code)
	}
	return codes
}

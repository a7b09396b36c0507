package i18n

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/dlovans/formkit/pkg/formkit"
)

// Catalog is an in-memory Translator holding messages per locale.
// It is safe for concurrent use.
type Catalog struct {
	mu       sync.RWMutex
	locale   string
	fallback string
	messages map[string]map[string]string
}

// NewCatalog creates a catalog translating into locale. Keys missing from
// locale are looked up in fallback when it is non-empty.
func NewCatalog(locale, fallback string) *Catalog {
	return &Catalog{
		locale:   locale,
		fallback: fallback,
		messages: make(map[string]map[string]string),
	}
}

// Locale returns the active locale.
func (c *Catalog) Locale() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.locale
}

// SetLocale switches the active locale.
func (c *Catalog) SetLocale(locale string) {
	c.mu.Lock()
	c.locale = locale
	c.mu.Unlock()
}

// Locales returns the locales that have messages, sorted.
func (c *Catalog) Locales() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.messages))
	for l := range c.messages {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Add merges messages into locale. Nested maps are flattened into dotted
// keys, so {"product": {"name": "Name"}} defines "product.name".
func (c *Catalog) Add(locale string, messages map[string]any) {
	flat := make(map[string]string)
	flatten("", messages, flat)

	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.messages[locale]
	if !ok {
		m = make(map[string]string, len(flat))
		c.messages[locale] = m
	}
	for k, v := range flat {
		m[k] = v
	}
}

// LoadYAML merges a YAML (or JSON) message document into locale.
func (c *Catalog) LoadYAML(locale string, data []byte) error {
	var messages map[string]any
	if err := yaml.Unmarshal(data, &messages); err != nil {
		return fmt.Errorf("parse %s messages: %w", locale, err)
	}
	c.Add(locale, messages)
	return nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch child := v.(type) {
		case map[string]any:
			flatten(key, child, out)
		case string:
			out[key] = child
		case nil:
		default:
			out[key] = fmt.Sprint(child)
		}
	}
}

// T returns the message for key in the active locale, then the fallback
// locale, else key itself. Placeholders like {count} are replaced from params.
func (c *Catalog) T(key string, params map[string]any) string {
	c.mu.RLock()
	msg, ok := c.messages[c.locale][key]
	if !ok && c.fallback != "" {
		msg, ok = c.messages[c.fallback][key]
	}
	c.mu.RUnlock()

	if !ok {
		return key
	}
	return Interpolate(msg, params)
}

// Has reports whether key has a message in the active or fallback locale.
func (c *Catalog) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if _, ok := c.messages[c.locale][key]; ok {
		return true
	}
	_, ok := c.messages[c.fallback][key]
	return c.fallback != "" && ok
}

// ResolveLabel returns fallback when set, otherwise the humanized last
// segment of key ("product.unit_price" becomes "Unit Price").
func (c *Catalog) ResolveLabel(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if i := strings.LastIndexByte(key, '.'); i >= 0 {
		key = key[i+1:]
	}
	return formkit.Humanize(key)
}

var placeholder = regexp.MustCompile(`\{(\w+)\}`)

// Interpolate replaces {name} placeholders with params values. Unknown
// placeholders are left as written.
func Interpolate(msg string, params map[string]any) string {
	if len(params) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	return placeholder.ReplaceAllStringFunc(msg, func(m string) string {
		v, ok := params[m[1:len(m)-1]]
		if !ok {
			return m
		}
		return fmt.Sprint(v)
	})
}

var (
	defaultMu         sync.RWMutex
	defaultTranslator Translator
)

// Default returns the process-wide translator, creating an empty English
// catalog on first use.
func Default() Translator {
	defaultMu.RLock()
	tr := defaultTranslator
	defaultMu.RUnlock()
	if tr != nil {
		return tr
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultTranslator == nil {
		defaultTranslator = NewCatalog("en", "")
	}
	return defaultTranslator
}

// SetDefault replaces the process-wide translator. Nil resets it so the
// next Default call creates a fresh catalog.
func SetDefault(tr Translator) {
	defaultMu.Lock()
	defaultTranslator = tr
	defaultMu.Unlock()
}

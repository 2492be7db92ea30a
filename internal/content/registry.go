// Package content holds the static lookup tables of the sponsor wall: the
// fallback companies keyed by slot ordinal, per-layer slot content, the
// product catalogue of the AR layer, layer descriptions and slot pricing.
//
// The tables are loaded from an embedded YAML document and never change at
// runtime.
package content

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/biter777/countries"
	"gopkg.in/yaml.v3"

	"github.com/keilerkonzept/sponsorwall/internal/domain"
)

//go:embed registry.yaml
var defaultDocument []byte

// SlotContent is the display metadata of one slot on one layer.
type SlotContent struct {
	Slot     int    `yaml:"slot"`
	Title    string `yaml:"title"`
	Category string `yaml:"category"`
	Icon     string `yaml:"icon"`
}

// Product is an entry of the AR product catalogue.
type Product struct {
	Type   string   `yaml:"-"`
	Glyph  string   `yaml:"glyph"`
	Images []string `yaml:"images"`
}

// Image picks the product image for a slot, cycling through the image list
// so neighbouring slots of the same type look different.
func (p Product) Image(ordinal int) string {
	if len(p.Images) == 0 || ordinal < 1 {
		return ""
	}
	return p.Images[(ordinal-1)%len(p.Images)]
}

// LayerInfo describes a layer for the info card.
type LayerInfo struct {
	Layer         domain.Layer  `yaml:"layer"`
	Title         string        `yaml:"title"`
	Description   string        `yaml:"description"`
	Icon          string        `yaml:"icon"`
	Features      []string      `yaml:"features"`
	Compatibility []string      `yaml:"compatibility"`
	Performance   string        `yaml:"performance"`
	Resources     string        `yaml:"resources"`
	Slots         []SlotContent `yaml:"slots"`
}

// Pricing is the euro price list advertised on empty slots.
type Pricing struct {
	Day     int `yaml:"day"`
	Weekend int `yaml:"weekend"`
	Week    int `yaml:"week"`
}

type staticCompany struct {
	Slot           int `yaml:"slot"`
	domain.Company `yaml:",inline"`
}

type document struct {
	Pricing   Pricing            `yaml:"pricing"`
	Companies []staticCompany    `yaml:"companies"`
	Products  map[string]Product `yaml:"products"`
	Layers    []LayerInfo        `yaml:"layers"`
}

// Registry is the parsed, validated content document.
type Registry struct {
	pricing   Pricing
	companies map[int]domain.Company
	products  map[string]Product
	layers    map[domain.Layer]LayerInfo
	content   map[domain.Layer]map[int]SlotContent
}

// Parse decodes and validates a registry document.
func Parse(data []byte) (*Registry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode registry: %w", err)
	}

	r := &Registry{
		pricing:   doc.Pricing,
		companies: make(map[int]domain.Company, len(doc.Companies)),
		products:  make(map[string]Product, len(doc.Products)),
		layers:    make(map[domain.Layer]LayerInfo, len(doc.Layers)),
		content:   make(map[domain.Layer]map[int]SlotContent, len(doc.Layers)),
	}
	for _, c := range doc.Companies {
		if c.Slot < 1 {
			return nil, fmt.Errorf("company %q: slot must be >= 1, got %d", c.Name, c.Slot)
		}
		if _, dup := r.companies[c.Slot]; dup {
			return nil, fmt.Errorf("company %q: duplicate slot %d", c.Name, c.Slot)
		}
		if c.Name == "" {
			return nil, fmt.Errorf("company for slot %d has no name", c.Slot)
		}
		r.companies[c.Slot] = c.Company
	}
	for name, p := range doc.Products {
		p.Type = name
		r.products[name] = p
	}
	for _, info := range doc.Layers {
		if !info.Layer.Valid() {
			return nil, fmt.Errorf("%w: %d", domain.ErrUnknownLayer, int(info.Layer))
		}
		if _, dup := r.layers[info.Layer]; dup {
			return nil, fmt.Errorf("layer %d described twice", info.Layer)
		}
		slots := make(map[int]SlotContent, len(info.Slots))
		for _, s := range info.Slots {
			if s.Slot < 1 {
				return nil, fmt.Errorf("layer %d: slot must be >= 1, got %d", info.Layer, s.Slot)
			}
			if _, dup := slots[s.Slot]; dup {
				return nil, fmt.Errorf("layer %d: duplicate slot %d", info.Layer, s.Slot)
			}
			slots[s.Slot] = s
		}
		r.layers[info.Layer] = info
		r.content[info.Layer] = slots
	}
	for _, l := range domain.Layers {
		if _, ok := r.layers[l]; !ok {
			return nil, fmt.Errorf("layer %d (%s) is not described", l, l.Mode())
		}
	}
	return r, nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
	defaultErr      error
)

// Default returns the registry built into the binary.
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		defaultRegistry, defaultErr = Parse(defaultDocument)
	})
	return defaultRegistry, defaultErr
}

// Company returns the fallback company for a slot ordinal.
func (r *Registry) Company(ordinal int) (domain.Company, bool) {
	c, ok := r.companies[ordinal]
	return c, ok
}

// Content returns the layer-specific metadata of a slot.
func (r *Registry) Content(l domain.Layer, ordinal int) (SlotContent, bool) {
	c, ok := r.content[l][ordinal]
	return c, ok
}

// Product returns the catalogue entry of a product slot on the AR layer.
func (r *Registry) Product(ordinal int) (Product, bool) {
	c, ok := r.Content(domain.LayerAR, ordinal)
	if !ok {
		return Product{}, false
	}
	p, ok := r.products[c.Category]
	return p, ok
}

func (r *Registry) LayerInfo(l domain.Layer) (LayerInfo, bool) {
	info, ok := r.layers[l]
	return info, ok
}

func (r *Registry) Pricing() Pricing { return r.pricing }

// CountryName turns an ISO 3166 alpha-2 code into a display name. Unknown
// codes are returned unchanged.
func CountryName(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	name := countries.ByName(code).String()
	if name == "" || name == "Unknown" {
		return code
	}
	return name
}

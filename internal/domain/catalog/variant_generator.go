package catalog

import "github.com/commercebay/backoffice/internal/domain/shared"

// VariantGenerator expands a product's option dimensions into the
// cartesian set of sellable variants. It is a pure domain service: it
// mutates the product's dimensions and the passed-in variants, and
// reports what must be persisted, but performs no I/O itself.
//
// Generation is non-destructive. Combinations that already have an
// active variant are left untouched (their SKUs and history survive);
// only genuinely new signatures produce variants, and actives that fall
// out of the new set are deprecated, never deleted.
type VariantGenerator struct{}

// NewVariantGenerator creates a new VariantGenerator
func NewVariantGenerator() *VariantGenerator {
	return &VariantGenerator{}
}

// GenerationResult reports the outcome of one regeneration pass.
// Callers must persist Created before Deprecated so a product never
// passes through a window with zero active variants.
type GenerationResult struct {
	Created     []*Variant
	Deprecated  []*Variant
	Reactivated *Variant
}

// AddDimension declares a new dimension on the product and regenerates
// the variant set over the union axes.
func (g *VariantGenerator) AddDimension(product *Product, variants []*Variant, name string, values []string) (*GenerationResult, error) {
	if err := product.AddDimension(name, values); err != nil {
		return nil, err
	}
	return g.regenerate(product, variants)
}

// AddValues extends an existing dimension with new values and
// regenerates the variant set.
func (g *VariantGenerator) AddValues(product *Product, variants []*Variant, name string, values []string) (*GenerationResult, error) {
	if err := product.AddValues(name, values); err != nil {
		return nil, err
	}
	return g.regenerate(product, variants)
}

// RemoveDimension drops a dimension and regenerates. Removing the last
// dimension collapses the product back onto its synthetic placeholder.
func (g *VariantGenerator) RemoveDimension(product *Product, variants []*Variant, name string) (*GenerationResult, error) {
	if err := product.RemoveDimension(name); err != nil {
		return nil, err
	}
	return g.regenerate(product, variants)
}

// regenerate computes the union axis map, expands it, inserts the delta
// and deprecates actives that no longer belong.
func (g *VariantGenerator) regenerate(product *Product, variants []*Variant) (*GenerationResult, error) {
	active := activeOf(variants)

	axes := unionAxes(product, active)
	if len(axes) == 0 {
		return g.collapseToSynthetic(product, variants, active)
	}

	combos := cartesian(axes)

	// Two active variants sharing a signature would make the delta
	// ambiguous; refuse to regenerate until the catalog is repaired.
	activeBySig := make(map[string]*Variant, len(active))
	for _, v := range active {
		if _, dup := activeBySig[v.Signature()]; dup {
			return nil, shared.ErrDuplicateSignature
		}
		activeBySig[v.Signature()] = v
	}

	result := &GenerationResult{}
	keep := make(map[string]struct{}, len(combos))
	for _, combo := range combos {
		sig := combo.Signature()
		keep[sig] = struct{}{}
		if _, exists := activeBySig[sig]; exists {
			continue // active variant survives untouched, SKU preserved
		}
		v, err := NewVariant(product, product.NextSKU(), combo)
		if err != nil {
			return nil, err
		}
		result.Created = append(result.Created, v)
	}

	// Every previously active variant outside the new set is retired.
	// The synthetic placeholder has the empty signature and therefore
	// always falls out once real combinations exist.
	for _, v := range active {
		if _, ok := keep[v.Signature()]; ok && !v.IsSynthetic {
			continue
		}
		v.Deprecate()
		result.Deprecated = append(result.Deprecated, v)
	}

	return result, nil
}

// collapseToSynthetic handles removal of the last dimension: all active
// combinations are deprecated and the placeholder takes over again,
// reusing the product's existing synthetic variant when one exists.
func (g *VariantGenerator) collapseToSynthetic(product *Product, variants, active []*Variant) (*GenerationResult, error) {
	result := &GenerationResult{}

	for _, v := range active {
		if v.IsSynthetic {
			continue
		}
		v.Deprecate()
		result.Deprecated = append(result.Deprecated, v)
	}

	for _, v := range variants {
		if !v.IsSynthetic {
			continue
		}
		if err := v.Reactivate(); err != nil {
			return nil, err
		}
		result.Reactivated = v
		return result, nil
	}

	synthetic, err := NewSyntheticVariant(product)
	if err != nil {
		return nil, err
	}
	result.Created = append(result.Created, synthetic)
	return result, nil
}

// unionAxes merges the product's declared dimensions with the values
// observed on active variants. Declared order wins; values observed on
// variants but missing from the declaration are appended in first-seen
// order so historical combinations are not orphaned by the expansion.
func unionAxes(product *Product, active []*Variant) []OptionDimension {
	axes := make([]OptionDimension, 0, len(product.Dimensions))
	for _, dim := range product.Dimensions {
		values := make([]string, len(dim.Values))
		copy(values, dim.Values)
		seen := make(map[string]struct{}, len(values))
		for _, v := range values {
			seen[v] = struct{}{}
		}
		for _, variant := range active {
			if val, ok := variant.Options.Get(dim.Name); ok {
				if _, dup := seen[val]; !dup {
					seen[val] = struct{}{}
					values = append(values, val)
				}
			}
		}
		if len(values) > 0 {
			axes = append(axes, OptionDimension{Name: dim.Name, Values: values})
		}
	}
	return axes
}

// cartesian expands the axes into every combination, in axis
// declaration order with the last axis varying fastest.
func cartesian(axes []OptionDimension) []OptionValues {
	total := 1
	for _, axis := range axes {
		total *= len(axis.Values)
	}

	combos := make([]OptionValues, 0, total)
	combo := make(OptionValues, len(axes))

	var expand func(depth int)
	expand = func(depth int) {
		if depth == len(axes) {
			snapshot := make(OptionValues, len(combo))
			copy(snapshot, combo)
			combos = append(combos, snapshot)
			return
		}
		for _, value := range axes[depth].Values {
			combo[depth] = OptionValue{Name: axes[depth].Name, Value: value}
			expand(depth + 1)
		}
	}
	expand(0)

	return combos
}

// activeOf filters the non-deprecated variants
func activeOf(variants []*Variant) []*Variant {
	active := make([]*Variant, 0, len(variants))
	for _, v := range variants {
		if v.IsActive() {
			active = append(active, v)
		}
	}
	return active
}

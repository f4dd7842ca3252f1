package attack

import (
	"fmt"
	"io"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/sec-js/attack-flow/internal/schema"
)

// Catalog groups ATT&CK objects by type. Every type in Types is present.
type Catalog map[string][]*Object

// NewCatalog merges manifests in order, keyed by STIX id: an object seen in
// a later manifest replaces the earlier one but keeps its position.
func NewCatalog(manifests ...[]*Object) Catalog {
	var (
		order  []string
		merged = make(map[string]*Object)
	)
	for _, objects := range manifests {
		for _, o := range objects {
			if _, ok := merged[o.StixID]; !ok {
				order = append(order, o.StixID)
			}
			merged[o.StixID] = o
		}
	}

	c := make(Catalog, len(Types))
	for _, t := range Types {
		c[t] = []*Object{}
	}
	for _, id := range order {
		o := merged[id]
		c[o.Type] = append(c[o.Type], o)
	}
	return c
}

// Lookup returns the object of type typ with ATT&CK id id.
func (c Catalog) Lookup(typ, id string) (*Object, bool) {
	i := slices.IndexFunc(c[typ], func(o *Object) bool { return o.ID == id })
	if i < 0 {
		return nil, false
	}
	return c[typ][i], true
}

// Len returns the number of objects across all types.
func (c Catalog) Len() int {
	n := 0
	for _, objs := range c {
		n += len(objs)
	}
	return n
}

// ValueCombinations lists every valid tactic and technique pairing among
// the catalog's current objects, keyed by the given tuple field names.
// Deprecated objects are left out.
func (c Catalog) ValueCombinations(tacticField, techniqueField string) []schema.Combination {
	var combos []schema.Combination
	for _, technique := range c[TypeTechnique] {
		if technique.Deprecated {
			continue
		}
		for _, tacticID := range technique.Tactics {
			tactic, ok := c.Lookup(TypeTactic, tacticID)
			if !ok || tactic.Deprecated {
				continue
			}
			combos = append(combos, schema.Combination{
				tacticField:    tacticID,
				techniqueField: technique.ID,
			})
		}
	}
	return combos
}

// WriteCombinations writes combos as a YAML valid_value_combinations block
// ready to paste into a tuple descriptor.
func WriteCombinations(w io.Writer, combos []schema.Combination) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	doc := struct {
		Combinations []schema.Combination `yaml:"valid_value_combinations"`
	}{combos}
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding combinations: %w", err)
	}
	return enc.Close()
}

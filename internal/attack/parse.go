package attack

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrNoMitreReference marks a STIX object without an ATT&CK external id.
var ErrNoMitreReference = errors.New("missing MITRE reference information")

// ParseManifest parses the ATT&CK objects of one STIX manifest, resolving
// relationships and tactic/technique links among them. Objects without a
// MITRE reference are skipped and logged.
func ParseManifest(data []byte, log *zap.Logger) ([]*Object, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var bundle stixBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("parsing STIX manifest: %w", err)
	}

	var (
		objects   []*Object
		byStixID  = make(map[string]*Object)
		relations = newRelationIndex()
	)
	for _, so := range bundle.Objects {
		if so.Type == "relationship" {
			relations.add(so.SourceRef, so.TargetRef)
			continue
		}
		if _, ok := stixToAttack[so.Type]; !ok {
			continue
		}
		obj, err := parseObject(so)
		if err != nil {
			log.Warn("skipping STIX object", zap.String("stix_id", so.ID), zap.String("name", so.Name), zap.Error(err))
			continue
		}
		if _, dup := byStixID[obj.StixID]; !dup {
			objects = append(objects, obj)
		} else {
			for i, o := range objects {
				if o.StixID == obj.StixID {
					objects[i] = obj
				}
			}
		}
		byStixID[obj.StixID] = obj
	}

	for _, ref := range relations.order {
		source, ok := byStixID[ref]
		if !ok {
			continue
		}
		for _, targetRef := range relations.targets[ref] {
			target, ok := byStixID[targetRef]
			if !ok {
				continue
			}
			if source.Related == nil {
				source.Related = make(map[string][]string)
			}
			source.Related[target.Type] = append(source.Related[target.Type], target.ID)
		}
	}

	linkTactics(objects, log)
	return objects, nil
}

func parseObject(so stixObject) (*Object, error) {
	obj := &Object{
		StixID:      so.ID,
		Name:        so.Name,
		Type:        stixToAttack[so.Type],
		Description: so.Description,
		Platforms:   so.Platforms,
		Domains:     so.Domains,
		Shortname:   so.Shortname,
		Deprecated:  so.Deprecated || so.Revoked,
	}
	var found bool
	for _, ref := range so.ExternalReferences {
		if mitreSources[ref.SourceName] {
			obj.ID, obj.URL = ref.ExternalID, ref.URL
			found = true
			break
		}
	}
	if !found {
		return nil, ErrNoMitreReference
	}
	for _, p := range so.KillChainPhases {
		obj.phases = append(obj.phases, p.PhaseName)
	}
	return obj, nil
}

// linkTactics points every technique at the tactics of its kill chain
// phases and every tactic back at its techniques.
func linkTactics(objects []*Object, log *zap.Logger) {
	tactics := make(map[string]*Object)
	for _, o := range objects {
		if o.Type == TypeTactic {
			tactics[o.Shortname] = o
		}
	}
	for _, technique := range objects {
		if technique.Type != TypeTechnique {
			continue
		}
		technique.Tactics = nil
		for _, phase := range technique.phases {
			tactic, ok := tactics[phase]
			if !ok {
				log.Warn("technique refers to unknown tactic",
					zap.String("technique", technique.ID), zap.String("phase", phase))
				continue
			}
			technique.Tactics = append(technique.Tactics, tactic.ID)
			tactic.Techniques = append(tactic.Techniques, technique.ID)
		}
	}
}

// relationIndex records undirected relationships in first-seen order.
type relationIndex struct {
	order   []string
	targets map[string][]string
	seen    map[[2]string]bool
}

func newRelationIndex() *relationIndex {
	return &relationIndex{
		targets: make(map[string][]string),
		seen:    make(map[[2]string]bool),
	}
}

func (r *relationIndex) add(a, b string) {
	r.link(a, b)
	r.link(b, a)
}

func (r *relationIndex) link(from, to string) {
	if _, ok := r.targets[from]; !ok {
		r.order = append(r.order, from)
		r.targets[from] = nil
	}
	if r.seen[[2]string{from, to}] {
		return
	}
	r.seen[[2]string{from, to}] = true
	r.targets[from] = append(r.targets[from], to)
}

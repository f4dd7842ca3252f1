// Package attack downloads MITRE ATT&CK STIX manifests and flattens them
// into a catalog of ATT&CK objects grouped by type.
package attack

// ATT&CK object types, in catalog order.
const (
	TypeCampaign   = "campaign"
	TypeMitigation = "mitigation"
	TypeGroup      = "group"
	TypeSoftware   = "software"
	TypeDataSource = "data_source"
	TypeTactic     = "tactic"
	TypeTechnique  = "technique"
)

// Types lists every ATT&CK type the catalog holds.
var Types = []string{
	TypeCampaign,
	TypeMitigation,
	TypeGroup,
	TypeSoftware,
	TypeDataSource,
	TypeTactic,
	TypeTechnique,
}

// stixToAttack maps STIX object types to ATT&CK types.
var stixToAttack = map[string]string{
	"campaign":            TypeCampaign,
	"course-of-action":    TypeMitigation,
	"intrusion-set":       TypeGroup,
	"malware":             TypeSoftware,
	"tool":                TypeSoftware,
	"x-mitre-data-source": TypeDataSource,
	"x-mitre-tactic":      TypeTactic,
	"attack-pattern":      TypeTechnique,
}

// mitreSources are the external reference sources that carry ATT&CK ids.
var mitreSources = map[string]bool{
	"mitre-attack":        true,
	"mitre-ics-attack":    true,
	"mitre-mobile-attack": true,
}

// Object is a flattened ATT&CK object. Relationships hold ATT&CK ids.
type Object struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Type        string              `json:"type"`
	Description string              `json:"description"`
	URL         string              `json:"url"`
	StixID      string              `json:"stix_id"`
	Deprecated  bool                `json:"deprecated"`
	Shortname   string              `json:"shortname,omitempty"`
	Platforms   []string            `json:"platforms,omitempty"`
	Domains     []string            `json:"domains,omitempty"`
	Tactics     []string            `json:"tactics,omitempty"`
	Techniques  []string            `json:"techniques,omitempty"`
	Related     map[string][]string `json:"related,omitempty"`

	// phases holds kill chain phase names until tactics are linked.
	phases []string
}

// STIX source format.

type stixBundle struct {
	Objects []stixObject `json:"objects"`
}

type stixObject struct {
	Type               string              `json:"type"`
	ID                 string              `json:"id"`
	Name               string              `json:"name"`
	Description        string              `json:"description"`
	ExternalReferences []externalReference `json:"external_references"`
	Platforms          []string            `json:"x_mitre_platforms"`
	Domains            []string            `json:"x_mitre_domains"`
	Shortname          string              `json:"x_mitre_shortname"`
	KillChainPhases    []killChainPhase    `json:"kill_chain_phases"`
	Deprecated         bool                `json:"x_mitre_deprecated"`
	Revoked            bool                `json:"revoked"`
	SourceRef          string              `json:"source_ref"`
	TargetRef          string              `json:"target_ref"`
}

type externalReference struct {
	SourceName string `json:"source_name"`
	ExternalID string `json:"external_id"`
	URL        string `json:"url"`
}

type killChainPhase struct {
	KillChainName string `json:"kill_chain_name"`
	PhaseName     string `json:"phase_name"`
}

package attack

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sec-js/attack-flow/internal/schema"
)

const enterpriseManifest = `{
  "type": "bundle",
  "objects": [
    {
      "type": "x-mitre-tactic", "id": "x-mitre-tactic--1", "name": "Initial Access",
      "x_mitre_shortname": "initial-access",
      "external_references": [{"source_name": "mitre-attack", "external_id": "TA0001", "url": "https://attack.mitre.org/tactics/TA0001"}]
    },
    {
      "type": "x-mitre-tactic", "id": "x-mitre-tactic--2", "name": "Execution",
      "x_mitre_shortname": "execution",
      "external_references": [{"source_name": "mitre-attack", "external_id": "TA0002"}]
    },
    {
      "type": "attack-pattern", "id": "attack-pattern--1", "name": "Phishing",
      "x_mitre_platforms": ["Linux", "Windows"],
      "kill_chain_phases": [{"kill_chain_name": "mitre-attack", "phase_name": "initial-access"}],
      "external_references": [
        {"source_name": "capec", "external_id": "CAPEC-98"},
        {"source_name": "mitre-attack", "external_id": "T1566", "url": "https://attack.mitre.org/techniques/T1566"}
      ]
    },
    {
      "type": "attack-pattern", "id": "attack-pattern--2", "name": "Command and Scripting Interpreter",
      "kill_chain_phases": [
        {"kill_chain_name": "mitre-attack", "phase_name": "execution"},
        {"kill_chain_name": "mitre-attack", "phase_name": "initial-access"}
      ],
      "external_references": [{"source_name": "mitre-attack", "external_id": "T1059"}]
    },
    {
      "type": "attack-pattern", "id": "attack-pattern--3", "name": "Old Technique", "revoked": true,
      "kill_chain_phases": [{"kill_chain_name": "mitre-attack", "phase_name": "execution"}],
      "external_references": [{"source_name": "mitre-attack", "external_id": "T9999"}]
    },
    {
      "type": "course-of-action", "id": "course-of-action--1", "name": "User Training",
      "external_references": [{"source_name": "mitre-attack", "external_id": "M1017"}]
    },
    {
      "type": "intrusion-set", "id": "intrusion-set--1", "name": "Unreferenced Group",
      "external_references": [{"source_name": "someone-else", "external_id": "X1"}]
    },
    {"type": "identity", "id": "identity--1", "name": "The MITRE Corporation"},
    {"type": "relationship", "id": "relationship--1", "source_ref": "course-of-action--1", "target_ref": "attack-pattern--1"},
    {"type": "relationship", "id": "relationship--2", "source_ref": "course-of-action--1", "target_ref": "attack-pattern--1"},
    {"type": "relationship", "id": "relationship--3", "source_ref": "identity--1", "target_ref": "attack-pattern--1"}
  ]
}`

const mobileManifest = `{
  "type": "bundle",
  "objects": [
    {
      "type": "course-of-action", "id": "course-of-action--1", "name": "User Training (Mobile)",
      "external_references": [{"source_name": "mitre-mobile-attack", "external_id": "M1017"}]
    },
    {
      "type": "malware", "id": "malware--1", "name": "Pegasus",
      "external_references": [{"source_name": "mitre-mobile-attack", "external_id": "S0316"}]
    }
  ]
}`

func TestParseManifest(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	objects, err := ParseManifest([]byte(enterpriseManifest), zap.New(core))
	require.NoError(t, err)
	require.Len(t, objects, 6)

	// The group without a MITRE reference is skipped and logged.
	require.Equal(t, 1, logs.FilterMessage("skipping STIX object").Len())

	byID := map[string]*Object{}
	for _, o := range objects {
		byID[o.ID] = o
	}

	phishing := byID["T1566"]
	assert.Equal(t, TypeTechnique, phishing.Type)
	assert.Equal(t, "https://attack.mitre.org/techniques/T1566", phishing.URL)
	assert.Equal(t, []string{"Linux", "Windows"}, phishing.Platforms)
	assert.Equal(t, []string{"TA0001"}, phishing.Tactics)
	assert.Equal(t, map[string][]string{TypeMitigation: {"M1017"}}, phishing.Related)

	assert.Equal(t, []string{"TA0002", "TA0001"}, byID["T1059"].Tactics)
	assert.Equal(t, []string{"T1566", "T1059"}, byID["TA0001"].Techniques)
	assert.Equal(t, []string{"T1059", "T9999"}, byID["TA0002"].Techniques)
	assert.True(t, byID["T9999"].Deprecated)
	assert.Equal(t, map[string][]string{TypeTechnique: {"T1566"}}, byID["M1017"].Related)
}

func TestParseManifest_Invalid(t *testing.T) {
	_, err := ParseManifest([]byte("not json"), nil)
	assert.Error(t, err)
}

func TestParseManifest_UnknownTactic(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	objects, err := ParseManifest([]byte(`{"objects": [{
		"type": "attack-pattern", "id": "attack-pattern--1", "name": "Orphan",
		"kill_chain_phases": [{"phase_name": "nowhere"}],
		"external_references": [{"source_name": "mitre-attack", "external_id": "T0001"}]
	}]}`), zap.New(core))
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Empty(t, objects[0].Tactics)
	assert.Equal(t, 1, logs.FilterMessage("technique refers to unknown tactic").Len())
}

func TestNewCatalog_LaterManifestWins(t *testing.T) {
	enterprise, err := ParseManifest([]byte(enterpriseManifest), nil)
	require.NoError(t, err)
	mobile, err := ParseManifest([]byte(mobileManifest), nil)
	require.NoError(t, err)

	c := NewCatalog(enterprise, mobile)
	for _, typ := range Types {
		assert.Contains(t, c, typ)
	}
	assert.Empty(t, c[TypeGroup])
	assert.Len(t, c[TypeTactic], 2)
	assert.Len(t, c[TypeTechnique], 3)
	require.Len(t, c[TypeMitigation], 1)
	assert.Equal(t, "User Training (Mobile)", c[TypeMitigation][0].Name)
	require.Len(t, c[TypeSoftware], 1)
	assert.Equal(t, 7, c.Len())

	o, ok := c.Lookup(TypeTechnique, "T1059")
	require.True(t, ok)
	assert.Equal(t, "Command and Scripting Interpreter", o.Name)
	_, ok = c.Lookup(TypeTechnique, "T0000")
	assert.False(t, ok)
}

func TestValueCombinations(t *testing.T) {
	enterprise, err := ParseManifest([]byte(enterpriseManifest), nil)
	require.NoError(t, err)
	c := NewCatalog(enterprise)

	combos := c.ValueCombinations("tactic", "technique")
	assert.Equal(t, []schema.Combination{
		{"tactic": "TA0001", "technique": "T1566"},
		{"tactic": "TA0002", "technique": "T1059"},
		{"tactic": "TA0001", "technique": "T1059"},
	}, combos)

	var buf bytes.Buffer
	require.NoError(t, WriteCombinations(&buf, combos))
	assert.True(t, strings.HasPrefix(buf.String(), "valid_value_combinations:\n"))
	assert.Contains(t, buf.String(), "technique: T1566")
}

func TestBundle(t *testing.T) {
	enterprise, err := ParseManifest([]byte(enterpriseManifest), nil)
	require.NoError(t, err)
	c := NewCatalog(enterprise)

	b, err := NewBundle(c, "2024.05.01.abc123", "2024-05-01T00:00:00Z")
	require.NoError(t, err)
	assert.Len(t, b.Checksum, 64)
	assert.Equal(t, "2024.05.01.abc123", b.Version)

	opened, err := b.Open()
	require.NoError(t, err)
	assert.Equal(t, c.Len(), opened.Len())
	o, ok := opened.Lookup(TypeTechnique, "T1566")
	require.True(t, ok)
	assert.Equal(t, []string{"TA0001"}, o.Tactics)

	b.Checksum = strings.Repeat("0", 64)
	_, err = b.Open()
	assert.ErrorIs(t, err, ErrChecksumMismatch)

	b.Content = "%%%"
	_, err = b.Open()
	assert.Error(t, err)
}

func TestImporter_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/enterprise.json":
			_, _ = w.Write([]byte(enterpriseManifest))
		case "/mobile.json":
			_, _ = w.Write([]byte(mobileManifest))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	im := NewImporter(srv.Client(), nil)
	c, err := im.Fetch(context.Background(), srv.URL+"/enterprise.json", srv.URL+"/mobile.json")
	require.NoError(t, err)
	assert.Equal(t, 7, c.Len())
	assert.Equal(t, "User Training (Mobile)", c[TypeMitigation][0].Name)

	// Order decides which manifest wins.
	c, err = im.Fetch(context.Background(), srv.URL+"/mobile.json", srv.URL+"/enterprise.json")
	require.NoError(t, err)
	assert.Equal(t, "User Training", c[TypeMitigation][0].Name)

	_, err = im.Fetch(context.Background(), srv.URL+"/enterprise.json", srv.URL+"/missing.json")
	assert.ErrorContains(t, err, "404")
}

func TestImporter_FetchCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(enterpriseManifest))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewImporter(srv.Client(), nil).Fetch(ctx, srv.URL)
	assert.Error(t, err)
}

func TestShortURL(t *testing.T) {
	assert.Equal(t, "https://x", shortURL("https://x"))
	long := "https://example.com/" + strings.Repeat("a", 100)
	got := shortURL(long)
	assert.True(t, strings.HasPrefix(got, "..."))
	assert.Len(t, got, 73)
}

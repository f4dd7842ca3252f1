package theme

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTheme = `
id: dark
name: Dark Theme
grid: [5, 5]
scale: 2
designs:
  action:
    type: dictionary_block
    style:
      max_width: 320
      horizontal_padding: 10
      vertical_padding: 8
      field_spacing: 4
      fill_color: "#1d1d1d"
      head_font: { family: Inter, size: 12pt, weight: 800 }
      field_name_font: { family: Inter, size: 10px }
      field_value_font: { family: Inter, size: 10px }
      fields:
        exclude: [description]
  note:
    type: text_block
    style:
      head_font: { family: Inter, size: 12pt, weight: 800 }
  anchor_point:
    type: anchor_point
    style:
      radius: 6
`

type countingLoader struct {
	calls atomic.Int32
	fail  string
}

func (l *countingLoader) LoadFont(ctx context.Context, d FontDescriptor) (*Font, error) {
	l.calls.Add(1)
	if d.Family == l.fail {
		return nil, errors.New("font unavailable")
	}
	return MetricsLoader{}.LoadFont(ctx, d)
}

func TestLoad(t *testing.T) {
	cfg, err := ParseConfig([]byte(testTheme))
	require.NoError(t, err)

	loader := &countingLoader{}
	store := NewFontStore(loader, &Font{Family: "default", Size: 12, CharWidth: 7, LineHeight: 14})
	th, err := Load(context.Background(), cfg, store)
	require.NoError(t, err)

	// Two distinct descriptors across three designs.
	assert.EqualValues(t, 2, loader.calls.Load())

	assert.Equal(t, "dark", th.ID)
	assert.Equal(t, [2]float64{5, 5}, th.Grid)
	action, ok := th.Design("action")
	require.True(t, ok)
	assert.Equal(t, DictionaryBlock, action.Type)
	assert.Equal(t, "Inter", action.Style.HeadFont.Family)
	assert.InDelta(t, 16.0, action.Style.HeadFont.Size, 1e-9)
	assert.Equal(t, 800, action.Style.HeadFont.Weight)
	assert.InDelta(t, 10.0, action.Style.FieldNameFont.Size, 1e-9)

	assert.True(t, action.Style.Fields.Allows("name"))
	assert.False(t, action.Style.Fields.Allows("description"))

	anchor, _ := th.Design("anchor_point")
	assert.Equal(t, "default", anchor.Style.HeadFont.Family)
	assert.Equal(t, 6.0, anchor.Style.Radius)
}

func TestLoad_FontFailure(t *testing.T) {
	cfg, err := ParseConfig([]byte(testTheme))
	require.NoError(t, err)
	store := NewFontStore(&countingLoader{fail: "Inter"}, nil)
	_, err = Load(context.Background(), cfg, store)
	assert.ErrorContains(t, err, "font unavailable")
}

func TestUnsafeLoad(t *testing.T) {
	cfg, err := ParseConfig([]byte(testTheme))
	require.NoError(t, err)
	store := DefaultFontStore()

	th := UnsafeLoad(cfg, store)
	action, _ := th.Design("action")
	assert.Equal(t, "sans-serif", action.Style.HeadFont.Family)

	require.NoError(t, store.LoadFont(context.Background(), *cfg.Designs["action"].Style.HeadFont))
	th = UnsafeLoad(cfg, store)
	action, _ = th.Design("action")
	assert.Equal(t, "Inter", action.Style.HeadFont.Family)
}

func TestEnumeration(t *testing.T) {
	e := newEnumeration(&EnumerationDescriptor{Include: []string{"a", "b"}, Exclude: []string{"b"}})
	assert.True(t, e.Allows("a"))
	assert.False(t, e.Allows("b"))
	assert.False(t, e.Allows("c"))

	var all Enumeration
	assert.True(t, all.Allows("anything"))
}

func TestParseConfig_Errors(t *testing.T) {
	_, err := ParseConfig([]byte("name: x\n"))
	assert.Error(t, err)

	_, err = ParseConfig([]byte("id: x\ndesigns:\n  a: { type: hexagon }\n"))
	assert.Error(t, err)

	_, err = ParseConfig([]byte("id: x\ncolour: red\n"))
	assert.Error(t, err)
}

func TestParseFontSize(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"12pt", 16},
		{"16px", 16},
		{" 9 ", 9},
	}
	for _, tt := range tests {
		got, err := ParseFontSize(tt.in)
		require.NoError(t, err, tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, tt.in)
	}
	for _, bad := range []string{"", "big", "-3px"} {
		_, err := ParseFontSize(bad)
		assert.Error(t, err, bad)
	}
}

func TestFontMeasure(t *testing.T) {
	f := &Font{CharWidth: 7}
	assert.Equal(t, 0.0, f.Measure(""))
	assert.Equal(t, 21.0, f.Measure("abc"))
	assert.Equal(t, 14.0, f.Measure("é!"))
}

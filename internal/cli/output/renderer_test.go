package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestMode(t *testing.T) {
	assert.Equal(t, ModeText, Mode("text"))
	assert.Equal(t, ModeJSON, Mode("json"))
	assert.Equal(t, ModeYAML, Mode("yaml"))
	assert.Equal(t, ModeAuto, Mode("auto"))
	assert.Equal(t, ModeAuto, Mode(""))
	assert.Equal(t, ModeAuto, Mode("xml"))
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		name  string
		mode  OutputMode
		isTTY bool
		want  OutputMode
	}{
		{name: "auto on terminal", mode: ModeAuto, isTTY: true, want: ModeText},
		{name: "auto piped", mode: ModeAuto, isTTY: false, want: ModeJSON},
		{name: "empty piped", mode: "", isTTY: false, want: ModeJSON},
		{name: "explicit text piped", mode: ModeText, isTTY: false, want: ModeText},
		{name: "explicit yaml on terminal", mode: ModeYAML, isTTY: true, want: ModeYAML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, tt.isTTY, tt.mode)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestNewRenderer_BufferIsNotTerminal(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, ModeAuto)
	assert.False(t, r.IsTTY())
	assert.Equal(t, ModeJSON, r.EffectiveMode())
}

func TestRenderer_MessagesRouteToStreams(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	r := NewRendererWithTTY(out, errOut, false, ModeText)

	r.Success("ok")
	r.Muted("quiet")
	r.Header(1, "Title")
	r.Printf("%d items\n", 3)
	r.Error("boom")
	r.Warning("careful")

	assert.Equal(t, "ok\nquiet\nTitle\n3 items\n", out.String())
	assert.Equal(t, "boom\ncareful\n", errOut.String())
}

func TestRenderer_ColorNeverHasNoANSI(t *testing.T) {
	out := &bytes.Buffer{}
	r := NewRendererWithTTY(out, &bytes.Buffer{}, true, ModeText)
	r.SetColor(ColorNever)

	r.Println(r.Styles().Error.Render("plain"))
	assert.Equal(t, "plain\n", out.String())
}

func TestRenderer_JSON(t *testing.T) {
	out := &bytes.Buffer{}
	r := NewRendererWithTTY(out, &bytes.Buffer{}, false, ModeAuto)

	require.NoError(t, r.Data(map[string]any{"kind": "SEL", "line": 1}))

	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "SEL", got["kind"])
	assert.Contains(t, out.String(), "\n  \"kind\"")
}

func TestRenderer_YAML(t *testing.T) {
	out := &bytes.Buffer{}
	r := NewRendererWithTTY(out, &bytes.Buffer{}, false, ModeYAML)

	require.NoError(t, r.Data(map[string]any{"kind": "SEL", "children": []string{"a"}}))

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "SEL", got["kind"])
	assert.Contains(t, out.String(), "children:\n  - a\n")
}

func TestRenderer_Table(t *testing.T) {
	out := &bytes.Buffer{}
	r := NewRendererWithTTY(out, &bytes.Buffer{}, false, ModeText)

	r.Table([]string{"kind", "literal"}, [][]string{{"SEL", ".name"}, {"PIPE", "|"}})

	text := out.String()
	assert.Contains(t, text, "KIND")
	assert.Contains(t, text, ".name")
	assert.Contains(t, text, "┌")
}

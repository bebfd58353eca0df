package script

import (
	"bytes"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/google/uuid"

	"github.com/jasskit/jasskit/obfuscator"
	"github.com/jasskit/jasskit/parser"
)

func TestManifestWriteRead(t *testing.T) {
	unit, _ := parser.ParseString("function helper takes nothing returns nothing\nendfunction\n")
	_, renameMap, err := obfuscator.Obfuscate(unit)
	assert.NoError(t, err)

	manifest := NewManifest("war3map.j", []string{"war3map.j", "lib/util.j"}, renameMap, nil)
	assert.NotEqual(t, uuid.Nil, manifest.BuildID)
	assert.True(t, manifest.Obfuscated)
	assert.Equal(t, 1, manifest.Symbols)

	var buf bytes.Buffer
	assert.NoError(t, manifest.Write(&buf))
	assert.Contains(t, buf.String(), "build_id: "+manifest.BuildID.String())
	assert.Contains(t, buf.String(), "- lib/util.j")

	read, err := ReadManifest(&buf)
	assert.NoError(t, err)
	assert.Equal(t, manifest, read)
}

func TestNewManifestIDsAreUnique(t *testing.T) {
	a := NewManifest("a.j", nil, nil, nil)
	b := NewManifest("a.j", nil, nil, nil)
	assert.NotEqual(t, a.BuildID, b.BuildID)
	assert.False(t, a.Obfuscated)
	assert.Equal(t, 0, a.Symbols)
}

func TestReadManifest_UnknownField(t *testing.T) {
	_, err := ReadManifest(bytes.NewBufferString("entry: a.j\nunknown: 1\n"))
	assert.Error(t, err)
}

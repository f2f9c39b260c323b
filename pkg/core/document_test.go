package core

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nestedDocument = `{
  "blocks": [
    {"id": "h1", "type": "heading", "props": {"text": "Hello", "level": "h1"}},
    {"id": "c1", "type": "columns", "props": {
      "columns": 2,
      "gap": 20,
      "children": [
        [{"id": "t1", "type": "text", "props": {"content": "left"}}],
        [
          {"id": "s1", "type": "section", "props": {"children": [
            {"id": "b1", "type": "button", "props": {"text": "Go", "link": "https://example.com"}}
          ]}},
          {"id": "t2", "type": "text", "props": {"content": "right"}}
        ]
      ]
    }},
    {"id": "empty", "type": "columns", "props": {"columns": 3, "children": [[], [], []]}}
  ],
  "canvasSettings": {"width": 600, "backgroundColor": "#eeeeee"},
  "version": 1
}`

func TestDocumentRoundTrip(t *testing.T) {
	first, err := DecodeDocument([]byte(nestedDocument))
	require.NoError(t, err)

	encoded, err := first.Encode()
	require.NoError(t, err)

	second, err := DecodeDocument(encoded)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, Length("600px"), second.CanvasSettings.Width)
}

func TestDecodeTypesChildren(t *testing.T) {
	doc, err := DecodeDocument([]byte(nestedDocument))
	require.NoError(t, err)

	cols := doc.Blocks[1]
	slots, ok := cols.Props["children"].([][]Block)
	require.True(t, ok, "columns children should decode as slots, got %T", cols.Props["children"])
	require.Len(t, slots, 2)
	assert.Equal(t, "t1", slots[0][0].ID)
	assert.Equal(t, "s1", slots[1][0].ID)

	section := slots[1][0]
	flat, ok := section.Props["children"].([]Block)
	require.True(t, ok, "section children should decode as a flat list, got %T", section.Props["children"])
	assert.Equal(t, "b1", flat[0].ID)

	empty := doc.Blocks[2].ColumnSlots()
	assert.Len(t, empty, 3)
	for _, slot := range empty {
		assert.Empty(t, slot)
	}
}

func TestDecodeDocumentYAML(t *testing.T) {
	src := `
version: 1
canvasSettings:
  width: 640
blocks:
  - id: c1
    type: columns
    props:
      columns: 2
      children:
        - - id: a
            type: text
            props: {content: A}
        - []
`
	doc, err := DecodeDocumentYAML([]byte(src))
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 1)

	slots := doc.Blocks[0].ColumnSlots()
	require.Len(t, slots, 2)
	assert.Equal(t, "a", slots[0][0].ID)
	assert.Empty(t, slots[1])
	assert.Equal(t, Length("640px"), doc.CanvasSettings.Width)
}

func TestLoadDocumentByExtension(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "doc.json")
	yamlPath := filepath.Join(dir, "doc.yml")

	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"blocks":[{"id":"x","type":"spacer","props":{}}]}`), 0o644))
	require.NoError(t, os.WriteFile(yamlPath, []byte("blocks:\n  - id: y\n    type: divider\n    props: {}\n"), 0o644))

	jdoc, err := LoadDocument(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "x", jdoc.Blocks[0].ID)
	assert.Equal(t, CurrentVersion, jdoc.Version)

	ydoc, err := LoadDocument(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "y", ydoc.Blocks[0].ID)

	_, err = LoadDocument(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestCloneIsDeep(t *testing.T) {
	doc, err := DecodeDocument([]byte(nestedDocument))
	require.NoError(t, err)

	clone, err := doc.Clone()
	require.NoError(t, err)

	clone.Blocks[0].Props["text"] = "changed"
	clone.Blocks[1].ColumnSlots()[0][0].Props["content"] = "changed"

	assert.Equal(t, "Hello", doc.Blocks[0].Props["text"])
	assert.Equal(t, "left", doc.Blocks[1].ColumnSlots()[0][0].Props["content"])
}

func TestWalkAndFind(t *testing.T) {
	doc, err := DecodeDocument([]byte(nestedDocument))
	require.NoError(t, err)

	var order []string
	doc.Walk(func(b Block, _ int) bool {
		order = append(order, b.ID)
		return true
	})
	assert.Equal(t, []string{"h1", "c1", "t1", "s1", "b1", "t2", "empty"}, order)
	assert.Equal(t, 7, doc.Count())

	b, ok := doc.Find("b1")
	require.True(t, ok)
	assert.Equal(t, "button", b.Type)

	_, ok = doc.Find("nope")
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	doc, err := DecodeDocument([]byte(nestedDocument))
	require.NoError(t, err)
	assert.NoError(t, doc.Validate())

	bad := NewDocument(
		Block{ID: "a", Type: "text"},
		Block{ID: "a", Type: "text"},
		Block{ID: "", Type: "text"},
		Block{ID: "cols", Type: "columns", Props: Props{
			"children": [][]Block{{{ID: "inner", Type: "columns"}}},
		}},
		Block{ID: "notype"},
	)
	err = bad.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateID))
	assert.True(t, errors.Is(err, ErrMissingID))
	assert.True(t, errors.Is(err, ErrNestedColumns))
	assert.True(t, errors.Is(err, ErrMissingType))
}

func TestNewBlock(t *testing.T) {
	props := Props{"text": "hi"}
	a := NewBlock(TypeHeading, props)
	b := NewBlock(TypeHeading, props)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Contains(t, a.ID, "block-")

	props["text"] = "mutated"
	assert.Equal(t, "hi", a.Props["text"])
}

func TestChildrenFromGenericMaps(t *testing.T) {
	var props Props
	require.NoError(t, json.Unmarshal([]byte(`{"children": [[{"id":"x","type":"text","props":{}}],[]]}`), &props))

	slots := ColumnSlots(props)
	require.Len(t, slots, 2)
	assert.Equal(t, "x", slots[0][0].ID)

	flat := ChildBlocks(Props{"children": []any{map[string]any{"id": "y", "type": "text"}}})
	require.Len(t, flat, 1)
	assert.Equal(t, "y", flat[0].ID)
}

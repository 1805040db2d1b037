package bank

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.setmatch/pkg/set"
)

const sampleYAML = `version: "1.0"
name: sets
cases:
  - id: set-semantics
    name: array with set semantics
    kind: array
    subject: [1, 2, 3]
    phrase: with set semantics to satisfy
    args: [[1, 2, 4]]
    expect_failure: true
    expect_diff: |
      Set([
        1,
        2,
        3
        // missing 4
      ])
  - id: items
    name: items must be numbers
    subject: [1, 2, "foo"]
    phrase: to have items satisfying
    args: ["to be a number"]
    expect_failure: true
  - id: size
    name: size of two
    subject: [1, 2]
    phrase: to have size
    args: [2]
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func createTestBankFile(t *testing.T, dir string, file File) string {
	t.Helper()
	data, err := json.Marshal(file)
	require.NoError(t, err)
	return writeFile(t, dir, "test_bank.json", string(data))
}

func TestBank_LoadFile_YAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sets.yaml", sampleYAML)

	b := New()
	require.NoError(t, b.LoadFile(path))
	assert.Equal(t, 3, b.Count())

	c, ok := b.Get("set-semantics")
	require.True(t, ok)
	assert.Equal(t, KindArray, c.Kind)
	assert.Equal(t, []any{1, 2, 3}, c.Subject)
	assert.Equal(t, []any{[]any{1, 2, 4}}, c.Args)
	assert.True(t, c.ExpectFailure)
	assert.Contains(t, c.ExpectDiff, "// missing 4")
}

func TestBank_LoadFile_JSON(t *testing.T) {
	path := createTestBankFile(t, t.TempDir(), File{
		Version: "1.0",
		Name:    "Test Bank",
		Cases: []Case{
			{ID: "c-1", Name: "Case 1", Subject: []any{1}, Phrase: "to contain", Args: []any{1}},
			{ID: "c-2", Name: "Case 2", Phrase: "to be empty"},
		},
	})

	b := New()
	require.NoError(t, b.LoadFile(path))
	assert.Equal(t, 2, b.Count())

	c, ok := b.Get("c-1")
	assert.True(t, ok)
	assert.Equal(t, "Case 1", c.Name)
	assert.Equal(t, []any{float64(1)}, c.Subject)
}

func TestBank_LoadFile_NotFound(t *testing.T) {
	b := New()
	err := b.LoadFile("/nonexistent/bank.json")
	assert.Error(t, err)
}

func TestBank_LoadFile_Invalid(t *testing.T) {
	dir := t.TempDir()

	b := New()
	assert.Error(t, b.LoadFile(writeFile(t, dir, "bad.json", "{invalid")))
	assert.Error(t, b.LoadFile(writeFile(t, dir, "bad.yaml", "cases: [")))
	assert.Equal(t, 0, b.Count())
}

func TestBank_LoadFile_MissingID(t *testing.T) {
	path := createTestBankFile(t, t.TempDir(), File{
		Version: "1.0",
		Cases:   []Case{{ID: "ok", Phrase: "to be empty"}, {Name: "No ID"}},
	})

	b := New()
	err := b.LoadFile(path)
	assert.Error(t, err)
	assert.Equal(t, 0, b.Count())
}

func TestBank_LoadDir(t *testing.T) {
	dir := t.TempDir()
	for i, name := range []string{"a.json", "b.json"} {
		data, err := json.Marshal(File{
			Version: "1.0",
			Cases: []Case{
				{ID: fmt.Sprintf("c-%d", i), Name: name, Phrase: "to be empty"},
			},
		})
		require.NoError(t, err)
		writeFile(t, dir, name, string(data))
	}
	writeFile(t, dir, "c.yml", sampleYAML)
	// Other files should be skipped.
	writeFile(t, dir, "readme.txt", "skip")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0755))

	b := New()
	require.NoError(t, b.LoadDir(dir))
	assert.Equal(t, 5, b.Count())
	assert.Len(t, b.Sources(), 3)

	ids := make([]string, 0, 5)
	for _, c := range b.All() {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"c-0", "c-1", "set-semantics", "items", "size"}, ids)
}

func TestBank_LoadDir_NotFound(t *testing.T) {
	assert.Error(t, New().LoadDir("/nonexistent/dir"))
}

func TestBank_LoadFile_ReplacesDuplicateIDs(t *testing.T) {
	dir := t.TempDir()
	b := New()
	require.NoError(t, b.LoadFile(writeFile(t, dir, "a.yaml", sampleYAML)))
	require.NoError(t, b.LoadFile(writeFile(t, dir, "b.yaml", sampleYAML)))

	assert.Equal(t, 3, b.Count())
	assert.Len(t, b.All(), 3)
	assert.Len(t, b.Sources(), 2)
}

func TestBank_Sources(t *testing.T) {
	b := New()
	b.sources = []string{"a.json", "b.json"}
	sources := b.Sources()
	assert.Equal(t, []string{"a.json", "b.json"}, sources)

	sources[0] = "changed"
	assert.Equal(t, "a.json", b.Sources()[0])
}

func TestIsBankFile(t *testing.T) {
	assert.True(t, IsBankFile("a.json"))
	assert.True(t, IsBankFile("a.yaml"))
	assert.True(t, IsBankFile("a.yml"))
	assert.False(t, IsBankFile("a.txt"))
	assert.False(t, IsBankFile("yaml"))
}

func TestCase_BuildSubject(t *testing.T) {
	c := &Case{Subject: []any{1, 1, 2}}
	subject, err := c.BuildSubject()
	require.NoError(t, err)
	assert.True(t, subject.(*set.Set).Equal(set.New(1, 2)))

	c = &Case{}
	subject, err = c.BuildSubject()
	require.NoError(t, err)
	assert.Equal(t, 0, subject.(*set.Set).Size())

	c = &Case{Kind: KindArray, Subject: []any{1, 1}}
	subject, err = c.BuildSubject()
	require.NoError(t, err)
	assert.Equal(t, []any{1, 1}, subject)

	c = &Case{Kind: KindArray}
	subject, err = c.BuildSubject()
	require.NoError(t, err)
	assert.Equal(t, []any{}, subject)

	c = &Case{ID: "x", Kind: "map"}
	_, err = c.BuildSubject()
	assert.Error(t, err)
}

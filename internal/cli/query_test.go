package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs a fresh root command with the given arguments and returns
// captured stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestQueryCommand_SelectJSON(t *testing.T) {
	dir := setupWorkspace(t)

	out, err := execute(t, "query", dir, `SELECT ?name WHERE { ex:alice foaf:name ?name }`)
	require.NoError(t, err)

	var doc struct {
		Head struct {
			Vars []string `json:"vars"`
		} `json:"head"`
		Results struct {
			Bindings []map[string]map[string]string `json:"bindings"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, []string{"name"}, doc.Head.Vars)
	require.Len(t, doc.Results.Bindings, 1)
	assert.Equal(t, "Alice", doc.Results.Bindings[0]["name"]["value"])
}

func TestQueryCommand_ConstructNTriples(t *testing.T) {
	dir := setupWorkspace(t)

	out, err := execute(t, "query", dir,
		`CONSTRUCT { ex:alice foaf:nick ?name } WHERE { ex:alice foaf:name ?name }`)
	require.NoError(t, err)
	assert.Equal(t,
		"<http://example.org/person#alice> <http://xmlns.com/foaf/0.1/nick> \"Alice\".\n",
		out)
}

func TestQueryCommand_QueryFile(t *testing.T) {
	dir := setupWorkspace(t)
	queryPath := filepath.Join(dir, "names.rq")
	require.NoError(t, os.WriteFile(queryPath,
		[]byte(`ASK { ?x foaf:name "Alice" }`), 0o644))

	out, err := execute(t, "query", dir, "--file", queryPath)
	require.NoError(t, err)
	assert.Contains(t, out, `"boolean": true`)
}

func TestQueryCommand_OutputFile(t *testing.T) {
	dir := setupWorkspace(t)
	outPath := filepath.Join(t.TempDir(), "result.nt")

	_, err := execute(t, "query", dir,
		`CONSTRUCT { ?x foaf:nick ?name } WHERE { ?x foaf:name ?name }`,
		"-o", outPath)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "foaf/0.1/nick")
}

func TestQueryCommand_MalformedQuery(t *testing.T) {
	dir := setupWorkspace(t)

	_, err := execute(t, "query", dir, `SELECT ?x WHERE {`)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestQueryCommand_NoQuery(t *testing.T) {
	dir := setupWorkspace(t)

	_, err := execute(t, "query", dir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestQueryCommand_UnknownFormat(t *testing.T) {
	dir := setupWorkspace(t)

	_, err := execute(t, "query", dir,
		`SELECT ?name WHERE { ?x foaf:name ?name }`, "--format", "yaml")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestValidateCommand_ValidWorkspace(t *testing.T) {
	dir := setupWorkspace(t)

	out, err := execute(t, "validate", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "workspace valid")
}

func TestValidateCommand_ReportsAllErrors(t *testing.T) {
	dir := t.TempDir()
	manifest := `
graphs: default:                       "gone.nt"
graphs: "http://example.org/g/broken": "broken.nt"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "workspace.cue"), []byte(manifest), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.nt"), []byte("nope\n"), 0o644))

	_, err := execute(t, "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "2 error(s)")
}

func TestValidateCommand_QueryFiles(t *testing.T) {
	dir := setupWorkspace(t)
	good := filepath.Join(dir, "good.rq")
	bad := filepath.Join(dir, "bad.rq")
	require.NoError(t, os.WriteFile(good, []byte(`ASK { ?x foaf:name ?n }`), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte(`SELECT WHERE`), 0o644))

	_, err := execute(t, "validate", dir, "--query", good)
	require.NoError(t, err)

	_, err = execute(t, "validate", dir, "--query", good, "--query", bad)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestImportExportRoundTrip(t *testing.T) {
	dir := setupWorkspace(t)
	dbPath := filepath.Join(t.TempDir(), "ws.db")

	out, err := execute(t, "import", dir, "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 3 triple(s)")

	exported, err := execute(t, "export", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, exported, `"Alice"`)
	assert.NotContains(t, exported, "Oslo", "default graph export excludes named graphs")

	places, err := execute(t, "export", "--db", dbPath, "--graph", "http://example.org/g/places")
	require.NoError(t, err)
	assert.Contains(t, places, `"Oslo"`)
}

func TestExportCommand_MissingGraph(t *testing.T) {
	dir := setupWorkspace(t)
	dbPath := filepath.Join(t.TempDir(), "ws.db")

	_, err := execute(t, "import", dir, "--db", dbPath)
	require.NoError(t, err)

	_, err = execute(t, "export", "--db", dbPath, "--graph", "http://example.org/g/none")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestQueryCommand_AgainstDatabase(t *testing.T) {
	dir := setupWorkspace(t)
	dbPath := filepath.Join(t.TempDir(), "ws.db")

	_, err := execute(t, "import", dir, "--db", dbPath)
	require.NoError(t, err)

	out, err := execute(t, "query", dir, `ASK { ?x foaf:name "Oslo" }`, "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, `"boolean": true`)
}

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonbystrom/flowview/internal/advisor"
	"github.com/simonbystrom/flowview/internal/template"
	"github.com/simonbystrom/flowview/internal/workflow"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("FLOWVIEW_DATA_DIR", dir)
	t.Setenv("FLOWVIEW_CONFIG", filepath.Join(dir, "flowview.toml"))
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("FLOWVIEW_OTEL", "")
	return dir
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTemplatesCmd(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "templates")
	require.NoError(t, err)
	for _, tpl := range template.List() {
		assert.Contains(t, out, tpl.ID)
		assert.Contains(t, out, tpl.Name)
	}
}

func TestTemplatesCmd_JSON(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "templates", "--json")
	require.NoError(t, err)

	var tpls []template.Template
	require.NoError(t, json.Unmarshal([]byte(out), &tpls))
	assert.Len(t, tpls, 3)
}

func TestLoginWhoamiLogout(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in")

	out, err = runCLI(t, "login")
	require.NoError(t, err)
	assert.Contains(t, out, "Alex Rivera")

	// The identity survives into the next process.
	out, err = runCLI(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "alex.rivera@dev.flow")

	_, err = runCLI(t, "logout")
	require.NoError(t, err)
	out, err = runCLI(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in")
}

func TestLoginCmd_Credential(t *testing.T) {
	isolate(t)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"name":  "Dana Kim",
		"email": "dana@example.com",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	out, err := runCLI(t, "login", "--credential", token)
	require.NoError(t, err)
	assert.Contains(t, out, "Dana Kim <dana@example.com>")

	out, err = runCLI(t, "whoami", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"avatar": "DK"`)
}

func TestImportHistoryExport(t *testing.T) {
	dir := isolate(t)

	src := filepath.Join(dir, "in.json")
	nodes := []workflow.Node{
		{ID: "a", Title: "Plan", Type: workflow.TypePlanning, Status: workflow.StatusCompleted},
		{ID: "b", Title: "Ship", Type: workflow.TypeDeployment, Status: workflow.StatusTodo},
	}
	require.NoError(t, workflow.SaveFile(src, "Imported Flow", nodes))

	out, err := runCLI(t, "import", src)
	require.NoError(t, err)
	assert.Contains(t, out, `Success: "Imported Flow" configurations have been synced to the cloud.`)

	out, err = runCLI(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported Flow")

	out, err = runCLI(t, "history", "--show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Ship")

	dst := filepath.Join(dir, "out.json")
	_, err = runCLI(t, "export", dst)
	require.NoError(t, err)

	doc, err := workflow.LoadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "Imported Flow", doc.Name)
	assert.Equal(t, nodes, doc.Nodes)
}

func TestHistoryCmd_Empty(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No snapshots yet")

	_, err = runCLI(t, "history", "--show", "7")
	assert.Error(t, err)
}

func TestExportCmd_Template(t *testing.T) {
	dir := isolate(t)
	dst := filepath.Join(dir, "t3.json")

	_, err := runCLI(t, "export", "--template", "t3", dst)
	require.NoError(t, err)

	doc, err := workflow.LoadFile(dst)
	require.NoError(t, err)
	tpl, _ := template.Get("t3")
	assert.Equal(t, tpl.Name, doc.Name)
	assert.Equal(t, tpl.Nodes, doc.Nodes)
}

func TestSuggestCmd_NoAPIKey(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "suggest", "a", "react", "app")
	assert.Error(t, err)
	assert.Contains(t, out, advisor.FailedSuggestion)
}

func TestAnalyzeCmd_FlagErrors(t *testing.T) {
	isolate(t)

	_, err := runCLI(t, "analyze", "--template", "nope")
	assert.ErrorContains(t, err, "unknown template")

	_, err = runCLI(t, "analyze", "--template", "t1", "--file", "x.json")
	assert.ErrorContains(t, err, "mutually exclusive")
}

func TestAnalyzeCmd_NoAPIKey(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "analyze", "--template", "t2")
	assert.Error(t, err)
	assert.Contains(t, out, advisor.FailedAnalysis)
}

func TestConfigInit(t *testing.T) {
	dir := isolate(t)

	out, err := runCLI(t, "config", "init")
	require.NoError(t, err)
	path := filepath.Join(dir, "flowview.toml")
	assert.Contains(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[ai]")
}

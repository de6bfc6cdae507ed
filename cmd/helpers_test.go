package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langcontroller/langcontroller/internal/config"
	"github.com/langcontroller/langcontroller/internal/templates"
	"github.com/langcontroller/langcontroller/internal/testutil"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestRespondPlainAndJSON(t *testing.T) {
	opts := config.New()
	opts.JSONOutput = false
	config.SetCurrent(opts)

	command := &cobra.Command{}
	var buf bytes.Buffer
	command.SetOut(&buf)
	if err := respond(command, opts, true, "hello", nil); err != nil {
		t.Fatalf("respond failed: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("hello")) {
		t.Fatalf("expected plain output")
	}

	jsonOpts := config.New()
	jsonOpts.JSONOutput = true
	command.SetOut(&buf)
	buf.Reset()
	if err := respond(command, jsonOpts, true, "msg", map[string]int{"v": 1}); err != nil {
		t.Fatalf("respond json failed: %v", err)
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if payload["message"].(string) != "msg" {
		t.Fatalf("unexpected payload: %#v", payload)
	}

	config.SetCurrent(nil)
	if _, err := options(); err == nil {
		t.Fatalf("expected error when config not set")
	}
}

func TestLoadTemplatePack(t *testing.T) {
	fix := testutil.NewFixture(t)
	opts := fix.Options(t, false, false, false)
	t.Cleanup(func() { config.SetCurrent(nil) })

	pack, err := loadTemplatePack(opts)
	require.NoError(t, err)
	assert.Equal(t, templates.DefaultPromptExtension, pack.extension)
	assert.Empty(t, pack.dir)
	assert.IsType(t, &templates.FSRepository{}, pack.repo)

	fix.WriteFile(t, "pack/pack.yaml", []byte("name: mine\nversion: 1.0.0\nprompt_extension: .prompt\n"))
	opts.TemplateDir = fix.Path("pack")
	pack, err = loadTemplatePack(opts)
	require.NoError(t, err)
	assert.Equal(t, ".prompt", pack.extension)
	assert.Equal(t, "mine", pack.manifest.Name)
	assert.IsType(t, &templates.LayeredRepository{}, pack.repo)
	body, err := pack.repo.Lookup(templates.ProjectModels)
	require.NoError(t, err, "ids missing from the pack fall back to the built-in templates")
	assert.Contains(t, body, "pydantic")

	opts.TemplateDir = fix.Path("missing")
	_, err = loadTemplatePack(opts)
	require.Error(t, err)
	assert.Equal(t, ExitCodeFilesystem, ExitCode(classify(err)))
}

func TestRangeArgs(t *testing.T) {
	check := rangeArgs(2, 4)
	assert.NoError(t, check(nil, []string{"a", "b"}))
	assert.NoError(t, check(nil, []string{"a", "b", "c", "d"}))
	err := check(nil, []string{"a"})
	assert.Equal(t, ExitCodeValidation, ExitCode(err))
	assert.ErrorContains(t, check(nil, []string{"a", "b", "c", "d", "e"}), "received 5")
}

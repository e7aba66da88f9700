package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/amanels/pkg/version"
)

func TestVersionCmd_ListsLanguages(t *testing.T) {
	isolate(t)

	stdout, _, err := run(t, "version")

	require.NoError(t, err)
	assert.Contains(t, stdout, "amanels "+version.Version+" (")
	assert.Contains(t, stdout, "languages: ")
	for _, name := range []string{"latin", "greek", "hebrew"} {
		assert.Contains(t, stdout, name)
	}
}

func TestVersionCmd_Short(t *testing.T) {
	isolate(t)

	stdout, _, err := run(t, "version", "--short")

	require.NoError(t, err)
	assert.Equal(t, version.Version+"\n", stdout)
}

func TestVersionCmd_JSON(t *testing.T) {
	isolate(t)

	stdout, _, err := run(t, "version", "--json")
	require.NoError(t, err)

	var got struct {
		Version   string   `json:"version"`
		Platform  string   `json:"platform"`
		Languages []string `json:"languages"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, version.Version, got.Version)
	assert.NotEmpty(t, got.Platform)
	assert.Len(t, got.Languages, 3)
}

package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	jsonOutput = false
	t.Cleanup(func() { jsonOutput = false })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"range", "cities"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}

	flag := rootCmd.PersistentFlags().Lookup("json")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}

func TestCheck_Valid(t *testing.T) {
	out, err := run(t, "--", "san_francisco", "37.7749", "-122.4194")
	require.NoError(t, err)
	assert.Equal(t, "Location is valid\n", out)
}

func TestCheck_Rejected(t *testing.T) {
	out, err := run(t, "--", "san_francisco", "34.0522", "-118.2437")
	require.ErrorIs(t, err, errRejected)
	assert.Equal(t, "Location is too far from san francisco for a day tour (maximum 320 km)\n", out)
}

func TestCheck_JSON(t *testing.T) {
	out, err := run(t, "--json", "--", "seoul", "37.5665", "126.9780")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, true, got["is_valid"])
	assert.Equal(t, "Location is valid", got["message"])
}

func TestCheck_BadNumber(t *testing.T) {
	_, err := run(t, "seoul", "north", "126.97")
	require.Error(t, err)
	assert.NotErrorIs(t, err, errRejected)
}

func TestRange(t *testing.T) {
	out, err := run(t, "range", "Seoul")
	require.NoError(t, err)
	assert.Equal(t, "Please select a location within the boundaries of seoul, no more than 320 km from the city center.\n", out)

	out, err = run(t, "range", "atlantis")
	require.ErrorIs(t, err, errRejected)
	assert.Equal(t, "Invalid city specified for range message.\n", out)
}

func TestCities(t *testing.T) {
	out, err := run(t, "cities")
	require.NoError(t, err)
	assert.Contains(t, out, "san_francisco")
	assert.Contains(t, out, "seoul")
	assert.Contains(t, out, "driving,transit,walking")
}

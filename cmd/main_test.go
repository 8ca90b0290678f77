package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCompare_Text(t *testing.T) {
	left := writeFile(t, "left.json", `{"beer-list": [{"name": "Lager", "abv": 4.5}]}`)
	right := writeFile(t, "right.json", `{"beers": [{"name": "Pale Lager", "abv": "4.5"}]}`)

	var out bytes.Buffer
	require.NoError(t, run([]string{"compare", left, right}, &out))

	text := out.String()
	assert.Contains(t, text, "JSON Structure Differences")
	assert.Contains(t, text, "0 out of 2  OR  0.00")
	assert.Contains(t, text, "JSON Content Similarity Score")
	assert.Contains(t, text, "2 out of 2  OR  1.00")
}

func TestCompare_IgnoresServerConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MINUTE", "abc")
	t.Setenv("WORKER_CONCURRENCY", "many")
	left := writeFile(t, "left.json", `{"a": 1}`)
	right := writeFile(t, "right.json", `{"a": 1}`)

	var out bytes.Buffer
	require.NoError(t, run([]string{"compare", left, right}, &out))
	assert.Contains(t, out.String(), "1 out of 1  OR  1.00")

	err := run([]string{"token", "--subject", "ci"}, &out)
	assert.ErrorContains(t, err, "RATE_LIMIT_PER_MINUTE")
}

func TestCompare_JSON(t *testing.T) {
	left := writeFile(t, "left.json", `{"a": 1, "b": 2}`)
	right := writeFile(t, "right.json", `{"a": 1}`)

	var out bytes.Buffer
	require.NoError(t, run([]string{"compare", "--mode", "structure", "--format", "json", left, right}, &out))

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "structure", decoded[0]["mode"])
	assert.Equal(t, 0.5, decoded[0]["score"])
}

func TestCompare_UndefinedScoreIsNotAnError(t *testing.T) {
	left := writeFile(t, "left.json", `{}`)
	right := writeFile(t, "right.json", `[]`)

	var out bytes.Buffer
	require.NoError(t, run([]string{"compare", "-m", "content", left, right}, &out))
	assert.Contains(t, out.String(), "0 out of 0  OR  undefined")
}

func TestCompare_Errors(t *testing.T) {
	good := writeFile(t, "good.json", `{"a": 1}`)
	bad := writeFile(t, "bad.json", `{"a": `)

	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"compare", good, filepath.Join(t.TempDir(), "nope.json")}},
		{"malformed file", []string{"compare", good, bad}},
		{"missing argument", []string{"compare", good}},
		{"unknown mode", []string{"compare", "--mode", "fuzzy", good, good}},
		{"no command", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, run(tt.args, &bytes.Buffer{}))
		})
	}
}

func TestToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")

	var out bytes.Buffer
	require.NoError(t, run([]string{"token", "--subject", "ops", "--ttl", "1h"}, &out))
	token := strings.TrimSpace(out.String())
	assert.Len(t, strings.Split(token, "."), 3)
}

func TestToken_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	assert.Error(t, run([]string{"token", "--subject", "ops"}, &bytes.Buffer{}))
}

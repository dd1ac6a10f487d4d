package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Regexp(t, `^storechat version \S+\n$`, out)
}

func TestCatalogValidate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
categories:
  - id: sweets
    name: Sweets
products:
  - id: SWEE001
    category: sweets
    name: Cake
    price: 45
    in_stock: true
`), 0o644))

	out, err := run(t, "catalog", "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "1 categories, 1 products (1 in stock)")

	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("catalog:\n  path: "+path+"\n"), 0o644))
	out, err = run(t, "catalog", "validate", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Sweets: 1 products")

	_, err = run(t, "catalog", "validate", filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/storechat/internal/config"
	"github.com/aretw0/storechat/internal/logging"
	"github.com/aretw0/storechat/internal/testutils"
	"github.com/aretw0/storechat/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogYAML = `
categories:
  - id: fried
    name: Fried Snacks
    emoji: "🥟"
products:
  - id: FRIE002
    category: fried
    name: Kibe
    price: 5.5
    in_stock: true
`

func testConfig(t *testing.T) config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(catalogYAML), 0o644))

	cfg := config.Default()
	cfg.Catalog.Path = path
	cfg.Store.Name = "Test Store"
	cfg.Store.AttendantID = "attendant"
	return cfg
}

func TestBuild_OrderReachesAttendant(t *testing.T) {
	cfg := testConfig(t)
	sender := testutils.NewRecordingSender()
	app, err := Build(context.Background(), cfg, sender, logging.NewNop())
	require.NoError(t, err)
	defer app.Close()

	ctx := context.Background()
	for _, body := range []string{"catalog", "1", "1", "1", "3", "Ana", "11999990000", "pickup", "4", "yes"} {
		require.NoError(t, app.Dispatcher.Handle(ctx, domain.Message{From: "u1", Body: body, Type: domain.MessageText}))
	}

	var notice string
	for _, s := range sender.Sent() {
		if s.To == "attendant" {
			notice = s.Text
		}
	}
	assert.Contains(t, notice, "NEW ORDER")
	assert.Contains(t, notice, "Kibe")

	families, err := app.Registry.Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "storechat_orders_total")
}

func TestBuild_WithRedisLock(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.Redis.Addr = mr.Addr()

	app, err := Build(context.Background(), cfg, testutils.NewRecordingSender(), logging.NewNop())
	require.NoError(t, err)
	require.NoError(t, app.Dispatcher.Handle(context.Background(), domain.Message{From: "u1", Body: "menu", Type: domain.MessageText}))
	require.NoError(t, app.Close())
}

func TestBuild_MissingCatalog(t *testing.T) {
	cfg := config.Default()
	cfg.Catalog.Path = filepath.Join(t.TempDir(), "nope.yaml")
	_, err := Build(context.Background(), cfg, testutils.NewRecordingSender(), logging.NewNop())
	assert.Error(t, err)
}

func TestChat_PlainSession(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer
	err := chat(ChatOptions{Config: cfg}, strings.NewReader("menu\n:q\n"), &out, false)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Type the option number")
	assert.NotContains(t, out.String(), "storechat ", "banner is only printed on a terminal")
}

func TestValidateCatalog(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer
	require.NoError(t, ValidateCatalog(cfg.Catalog.Path, &out))
	assert.Contains(t, out.String(), "1 categories, 1 products (1 in stock)")
	assert.Contains(t, out.String(), "🥟 Fried Snacks: 1 products")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("products:\n  - id: x\n    category: ghost\n    name: X\n"), 0o644))
	assert.Error(t, ValidateCatalog(bad, &out))
}

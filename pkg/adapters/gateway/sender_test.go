package gateway_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/aretw0/storechat/pkg/adapters/gateway"
	"github.com/aretw0/storechat/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	mu       sync.Mutex
	payloads []gateway.Payload
	auth     []string
	status   int
}

func (g *fakeGateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/messages" || r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var p gateway.Payload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	g.mu.Lock()
	g.payloads = append(g.payloads, p)
	g.auth = append(g.auth, r.Header.Get("Authorization"))
	status := g.status
	g.mu.Unlock()
	if status == 0 {
		status = http.StatusAccepted
	}
	w.WriteHeader(status)
}

func (g *fakeGateway) received() []gateway.Payload {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]gateway.Payload(nil), g.payloads...)
}

func TestSender_SendText(t *testing.T) {
	gw := &fakeGateway{}
	srv := httptest.NewServer(gw)
	defer srv.Close()

	s := gateway.New(srv.URL+"/", gateway.WithToken("secret"))
	require.NoError(t, s.SendText(context.Background(), "5511", "hello"))

	got := gw.received()
	require.Len(t, got, 1)
	assert.Equal(t, gateway.Payload{To: "5511", Type: "text", Text: "hello"}, got[0])
	assert.Equal(t, "Bearer secret", gw.auth[0])
}

func TestSender_SendList(t *testing.T) {
	gw := &fakeGateway{}
	srv := httptest.NewServer(gw)
	defer srv.Close()

	list := domain.ChoiceList{
		Prompt:   "Pick one",
		Sections: []domain.Section{{Title: "Menu", Rows: []domain.Row{{ID: "a", Label: "A"}}}},
	}
	s := gateway.New(srv.URL)
	require.NoError(t, s.SendList(context.Background(), "u", list))

	got := gw.received()
	require.Len(t, got, 1)
	require.NotNil(t, got[0].List)
	assert.Equal(t, list, *got[0].List)
}

func TestSender_ListUnsupported(t *testing.T) {
	gw := &fakeGateway{status: http.StatusNotImplemented}
	srv := httptest.NewServer(gw)
	defer srv.Close()

	err := gateway.New(srv.URL).SendList(context.Background(), "u", domain.ChoiceList{})
	assert.ErrorIs(t, err, domain.ErrUnsupported)
}

func TestSender_GatewayFailure(t *testing.T) {
	gw := &fakeGateway{status: http.StatusBadGateway}
	srv := httptest.NewServer(gw)
	defer srv.Close()

	err := gateway.New(srv.URL).SendText(context.Background(), "u", "x")
	assert.ErrorIs(t, err, domain.ErrDelivery)
}

func TestSender_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := gateway.New(url).SendText(context.Background(), "u", "x")
	assert.ErrorIs(t, err, domain.ErrDelivery)
}

func TestSender_SendImage(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\nfake")
	images := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/coxinha.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(png)
	}))
	defer images.Close()

	gw := &fakeGateway{}
	srv := httptest.NewServer(gw)
	defer srv.Close()

	s := gateway.New(srv.URL)
	ctx := context.Background()

	t.Run("fetched", func(t *testing.T) {
		require.NoError(t, s.SendImage(ctx, "u", images.URL+"/coxinha.png", "📷 Coxinha"))
		got := gw.received()
		last := got[len(got)-1]
		assert.Equal(t, "image", last.Type)
		assert.Equal(t, "📷 Coxinha", last.Caption)
		require.NotNil(t, last.Image)
		assert.Equal(t, "image/png", last.Image.MimeType)
		assert.Equal(t, base64.StdEncoding.EncodeToString(png), last.Image.Data)
	})

	t.Run("missing image degrades to caption", func(t *testing.T) {
		require.NoError(t, s.SendImage(ctx, "u", images.URL+"/missing.png", "📷 Kibe"))
		got := gw.received()
		last := got[len(got)-1]
		assert.Equal(t, gateway.Payload{To: "u", Type: "text", Text: "📷 Kibe"}, last)
	})

	t.Run("missing image without caption sends nothing", func(t *testing.T) {
		before := len(gw.received())
		require.NoError(t, s.SendImage(ctx, "u", images.URL+"/missing.png", ""))
		assert.Len(t, gw.received(), before)
	})
}

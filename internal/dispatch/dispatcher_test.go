package dispatch_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/aretw0/storechat/internal/cart"
	"github.com/aretw0/storechat/internal/checkout"
	"github.com/aretw0/storechat/internal/config"
	"github.com/aretw0/storechat/internal/dispatch"
	"github.com/aretw0/storechat/internal/metrics"
	"github.com/aretw0/storechat/internal/navigation"
	"github.com/aretw0/storechat/internal/testutils"
	"github.com/aretw0/storechat/pkg/adapters/memory"
	"github.com/aretw0/storechat/pkg/domain"
	"github.com/aretw0/storechat/pkg/ports"
	"github.com/aretw0/storechat/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const user = "5511999990000"

type harness struct {
	d        *dispatch.Dispatcher
	sender   *testutils.RecordingSender
	notifier *testutils.RecordingNotifier
	carts    *cart.Service
	flow     *checkout.Flow
	metrics  *metrics.Metrics
}

func newHarness(t *testing.T, responder ports.Responder) *harness {
	t.Helper()
	h := &harness{
		sender:   testutils.NewRecordingSender(),
		notifier: &testutils.RecordingNotifier{},
		metrics:  metrics.New(prometheus.NewRegistry()),
	}
	catalog := testutils.Catalog()
	store := config.Store{Name: "Test Store", Contact: "+55 11 4000-0000"}
	sessions := session.NewManager(memory.NewStore[domain.Session]())
	h.carts = cart.NewService(cart.NewMemoryStore(), catalog)
	nav := navigation.New(sessions, catalog, h.carts, navigation.WithStore(store))
	h.flow = checkout.New(checkout.NewMemoryStore(), h.carts, checkout.WithStore(store))
	exec := dispatch.NewExecutor(h.sender,
		dispatch.WithNotifiers(h.notifier),
		dispatch.WithExecutorMetrics(h.metrics),
	)
	opts := []dispatch.Option{dispatch.WithStore(store), dispatch.WithMetrics(h.metrics)}
	if responder != nil {
		opts = append(opts, dispatch.WithResponder(responder))
	}
	h.d = dispatch.New(sessions, nav, h.flow, h.carts, exec, opts...)
	return h
}

func (h *harness) say(t *testing.T, body string) {
	t.Helper()
	require.NoError(t, h.d.Handle(context.Background(), domain.Message{From: user, Body: body, Type: domain.MessageText}))
}

func (h *harness) tap(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, h.d.Handle(context.Background(), domain.Message{From: user, Body: id, Type: domain.MessageListResponse, SelectionID: id}))
}

func TestResponderGetsQuestionsWithCartContext(t *testing.T) {
	responder := &testutils.StubResponder{Reply: "Yes, we deliver on Sundays until 2pm."}
	h := newHarness(t, responder)
	_, err := h.carts.AddItem(context.Background(), user, testutils.CoxinhaID, "6 units", cart.VariantStandard, 2)
	require.NoError(t, err)

	h.say(t, "catalog")
	h.tap(t, "cat_fried")
	h.sender.Reset()

	h.say(t, "Do you deliver on Sundays?")

	require.Len(t, responder.Calls, 1)
	call := responder.Calls[0]
	assert.Equal(t, "Do you deliver on Sundays?", call.Text)
	require.NotNil(t, call.Cart)
	assert.Equal(t, 1, call.Cart.ItemCount)
	assert.InDelta(t, 16.0, call.Cart.Subtotal, 1e-9)
	assert.Equal(t, "Yes, we deliver on Sundays until 2pm.", h.sender.Last().Text)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Messages.WithLabelValues(metrics.RouteResponder)))
}

func TestResponderWithoutCartGetsNilContext(t *testing.T) {
	responder := &testutils.StubResponder{Reply: "Hi!"}
	h := newHarness(t, responder)

	h.say(t, "hello there")
	require.Len(t, responder.Calls, 1)
	assert.Nil(t, responder.Calls[0].Cart)
}

func TestResponderFailureFallsBack(t *testing.T) {
	tests := []struct {
		name      string
		responder ports.Responder
	}{
		{name: "no responder"},
		{name: "empty reply", responder: &testutils.StubResponder{}},
		{name: "error", responder: &testutils.StubResponder{Err: errors.New("quota exceeded")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.responder)
			h.say(t, "what time do you open")

			last := h.sender.Last().Text
			assert.Contains(t, last, "technical difficulty")
			assert.Contains(t, last, "*menu*")
			assert.Contains(t, last, "*products*")
			assert.Contains(t, last, "+55 11 4000-0000")
		})
	}
}

func TestCheckoutTakesPriority(t *testing.T) {
	responder := &testutils.StubResponder{Reply: "should not be called"}
	h := newHarness(t, responder)
	_, _ = h.carts.AddItem(context.Background(), user, testutils.KibeID, cart.SizeUnit, cart.VariantStandard, 1)

	h.say(t, "checkout")
	assert.Contains(t, h.sender.Last().Text, "full name")

	// Outside checkout this would go to the responder.
	h.say(t, "What?")
	assert.Contains(t, h.sender.Last().Text, "What?")
	assert.Empty(t, responder.Calls)
}

func TestTriggerWithEmptyCart(t *testing.T) {
	h := newHarness(t, nil)
	h.say(t, "place order")

	assert.Contains(t, h.sender.Last().Text, "cart is empty")
	active, err := h.flow.Active(context.Background(), user)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestEndToEndOrder(t *testing.T) {
	h := newHarness(t, nil)

	h.say(t, "menu")
	h.say(t, "1")
	h.say(t, "1")
	h.say(t, "1")
	h.say(t, "1")
	h.say(t, "2")
	require.Contains(t, h.sender.Sent()[len(h.sender.Sent())-2].Text, "ITEM ADDED")

	h.tap(t, navigation.RowAfterCheckout)
	assert.Contains(t, h.sender.Last().Text, "full name")

	h.say(t, "Maria")
	h.say(t, "11 98888-7777")
	h.say(t, "pickup")
	h.say(t, "1")
	h.say(t, "yes")

	assert.Contains(t, h.sender.Last().Text, "ORDER CONFIRMED")
	orders := h.notifier.Received()
	require.Len(t, orders, 1)
	assert.Equal(t, "Maria", orders[0].Customer.Name)
	assert.Equal(t, checkout.PickupLabel, orders[0].Customer.Address)
	assert.InDelta(t, 8*0.95, orders[0].Totals.Total, 1e-9)

	items, _ := h.carts.Items(context.Background(), user)
	assert.Empty(t, items)
}

func TestNotifierFailureDoesNotBlockFinalize(t *testing.T) {
	h := newHarness(t, nil)
	h.notifier.Err = errors.New("smtp down")
	_, _ = h.carts.AddItem(context.Background(), user, testutils.KibeID, cart.SizeUnit, cart.VariantStandard, 1)

	for _, body := range []string{"checkout", "Ana", "123", "Rua B", "4", "yes"} {
		h.say(t, body)
	}

	assert.Contains(t, h.sender.Last().Text, "ORDER CONFIRMED")
	assert.Len(t, h.notifier.Received(), 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.DeliveryFailures.WithLabelValues("notify")))
}

type panicResponder struct{}

func (panicResponder) Generate(context.Context, string, string, *domain.CartContext) (string, error) {
	panic("nil map")
}

func TestPanicIsRecovered(t *testing.T) {
	h := newHarness(t, panicResponder{})

	h.say(t, "tell me a story")
	assert.Contains(t, h.sender.Last().Text, "Something went wrong")
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.RecoveredPanics))

	// The same user keeps working afterwards.
	h.say(t, "menu")
	assert.Equal(t, testutils.KindList, h.sender.Last().Kind)
}

func TestDropsInvalidInput(t *testing.T) {
	h := newHarness(t, nil)

	h.say(t, "   ")
	h.say(t, "\xff\xfe")
	h.say(t, strings.Repeat("a", 5000))

	assert.Empty(t, h.sender.Sent())
	assert.Equal(t, 3.0, testutil.ToFloat64(h.metrics.Messages.WithLabelValues(metrics.RouteDropped)))
}

func TestUsersAreIndependent(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for _, body := range []string{"catalog", "1", "2", "1"} {
				assert.NoError(t, h.d.Handle(ctx, domain.Message{From: id, Body: body, Type: domain.MessageText}))
			}
		}(fmt.Sprintf("user-%02d", i))
	}
	wg.Wait()

	for i := 0; i < 20; i++ {
		items, err := h.carts.Items(ctx, fmt.Sprintf("user-%02d", i))
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, testutils.KibeID, items[0].ProductID)
	}
}

package dispatch_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/storechat/internal/dispatch"
	"github.com/aretw0/storechat/internal/metrics"
	"github.com/aretw0/storechat/internal/testutils"
	"github.com/aretw0/storechat/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutor_ImageDegradesToCaption(t *testing.T) {
	sender := testutils.NewRecordingSender()
	sender.FailImage = errors.New("fetch timeout")
	m := metrics.New(prometheus.NewRegistry())
	exec := dispatch.NewExecutor(sender, dispatch.WithExecutorMetrics(m))

	exec.Execute(context.Background(), []domain.Action{
		domain.SendImage("u1", "https://img.example/x.jpg", "📷 Coxinha — $8.00"),
		domain.Text("u1", "details"),
	})

	sent := sender.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, testutils.KindText, sent[0].Kind)
	assert.Equal(t, "📷 Coxinha — $8.00", sent[0].Text)
	assert.Equal(t, "details", sent[1].Text)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DeliveryFailures.WithLabelValues("image")))
}

func TestExecutor_ListFallsBackToText(t *testing.T) {
	sender := testutils.NewRecordingSender()
	sender.FailList = domain.ErrUnsupported
	exec := dispatch.NewExecutor(sender)

	exec.Execute(context.Background(), []domain.Action{
		domain.Present("u1", domain.ChoiceList{Prompt: "Pick", Sections: []domain.Section{{Rows: []domain.Row{{ID: "a", Label: "A"}}}}}),
	})

	sent := sender.Sent()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Text, "1️⃣ A")
}

func TestExecutor_NotifiesEveryNotifier(t *testing.T) {
	sender := testutils.NewRecordingSender()
	a := &testutils.RecordingNotifier{}
	b := &testutils.RecordingNotifier{Err: errors.New("down")}
	exec := dispatch.NewExecutor(sender, dispatch.WithNotifiers(a, b))

	exec.Execute(context.Background(), []domain.Action{domain.Notify(domain.Order{ID: "o1", UserID: "u1"})})

	assert.Len(t, a.Received(), 1)
	assert.Len(t, b.Received(), 1)
	assert.Empty(t, sender.Sent(), "notifications never reach the customer")
}

func TestAttendantNotifier(t *testing.T) {
	sender := testutils.NewRecordingSender()
	n := dispatch.NewAttendantNotifier(sender, "store-attendant")

	err := n.Notify(context.Background(), domain.Order{ID: "abc-1", Customer: domain.CustomerData{Name: "Ana"}})
	require.NoError(t, err)
	assert.Equal(t, "store-attendant", sender.Last().To)
	assert.Contains(t, sender.Last().Text, "NEW ORDER")

	sender.FailText = errors.New("offline")
	err = n.Notify(context.Background(), domain.Order{ID: "abc-2"})
	assert.ErrorIs(t, err, domain.ErrDelivery)
}

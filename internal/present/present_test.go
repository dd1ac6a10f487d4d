package present_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/storechat/internal/present"
	"github.com/aretw0/storechat/internal/testutils"
	"github.com/aretw0/storechat/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoSections() domain.ChoiceList {
	return domain.ChoiceList{
		Prompt: "Pick one",
		Sections: []domain.Section{
			{Title: "A", Rows: []domain.Row{
				{ID: "a1", Label: "Alpha", Description: "first"},
				{ID: "a2", Label: "Beta"},
			}},
			{Title: "B", Rows: []domain.Row{
				{ID: "b1", Label: "Gamma"},
				{ID: "b2", Label: "🥟 Fried Snacks"},
			}},
		},
		Footer: "Type menu to go back",
	}
}

func TestResolve(t *testing.T) {
	list := twoSections()
	tests := []struct {
		name   string
		msg    domain.Message
		wantID string
		wantOK bool
	}{
		{name: "structured id", msg: domain.Message{Type: domain.MessageListResponse, SelectionID: "b1", Body: "Gamma"}, wantID: "b1", wantOK: true},
		{name: "stale structured id", msg: domain.Message{Type: domain.MessageListResponse, SelectionID: "zz", Body: "1"}, wantOK: false},
		{name: "ordinal within first section", msg: domain.Message{Body: "2"}, wantID: "a2", wantOK: true},
		{name: "ordinal crosses sections", msg: domain.Message{Body: " 3 "}, wantID: "b1", wantOK: true},
		{name: "ordinal out of range", msg: domain.Message{Body: "5"}, wantOK: false},
		{name: "label without emoji", msg: domain.Message{Body: "fried snacks"}, wantID: "b2", wantOK: true},
		{name: "zero", msg: domain.Message{Body: "0"}, wantOK: false},
		{name: "signed ordinal", msg: domain.Message{Body: "+2"}, wantOK: false},
		{name: "label case insensitive", msg: domain.Message{Body: "alpha"}, wantID: "a1", wantOK: true},
		{name: "typed row id", msg: domain.Message{Body: "a2"}, wantID: "a2", wantOK: true},
		{name: "unknown text", msg: domain.Message{Body: "delta"}, wantOK: false},
		{name: "empty", msg: domain.Message{Body: "  "}, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, ok := present.Resolve(list, tt.msg)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantID, row.ID)
			}
		})
	}
}

func TestResolve_NumericLabelBeyondRowCount(t *testing.T) {
	list := domain.ChoiceList{
		Prompt:   "Pick a size",
		Sections: []domain.Section{{Rows: []domain.Row{{ID: "size_0", Label: "6"}, {ID: "size_1", Label: "12"}}}},
	}

	row, ok := present.Resolve(list, domain.Message{Body: "12"})
	require.True(t, ok)
	assert.Equal(t, "size_1", row.ID)

	row, ok = present.Resolve(list, domain.Message{Body: "2"})
	require.True(t, ok)
	assert.Equal(t, "size_1", row.ID, "ordinals win over labels")

	_, ok = present.Resolve(list, domain.Message{Body: "7"})
	assert.False(t, ok)
}

func TestOrdinal(t *testing.T) {
	for _, in := range []string{"+2", "-1", "0", "2.", "two", ""} {
		_, ok := present.Ordinal(in)
		assert.False(t, ok, in)
	}
	n, ok := present.Ordinal(" 12 ")
	require.True(t, ok)
	assert.Equal(t, 12, n)
}

func TestRenderFallback(t *testing.T) {
	want := "Pick one\n\n" +
		"*A*\n\n" +
		"1️⃣ Alpha — first\n" +
		"2️⃣ Beta\n\n" +
		"*B*\n\n" +
		"3️⃣ Gamma\n" +
		"4️⃣ 🥟 Fried Snacks\n\n" +
		"💬 Type the option number\n\n" +
		"Type menu to go back"
	assert.Equal(t, want, present.RenderFallback(twoSections()))
}

func TestPresent_UsesListWhenSupported(t *testing.T) {
	sender := testutils.NewRecordingSender()
	p := present.New(sender)

	fellBack, err := p.Present(context.Background(), "u1", twoSections())
	require.NoError(t, err)
	assert.False(t, fellBack)

	sent := sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, testutils.KindList, sent[0].Kind)
}

func TestPresent_FallsBackToText(t *testing.T) {
	sender := testutils.NewRecordingSender()
	sender.FailList = domain.ErrUnsupported
	p := present.New(sender)

	fellBack, err := p.Present(context.Background(), "u1", twoSections())
	require.NoError(t, err)
	assert.True(t, fellBack)

	sent := sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, testutils.KindText, sent[0].Kind)
	assert.Equal(t, present.RenderFallback(twoSections()), sent[0].Text)
}

func TestPresent_FallbackFailureIsDeliveryError(t *testing.T) {
	sender := testutils.NewRecordingSender()
	sender.FailList = errors.New("boom")
	sender.FailText = errors.New("socket closed")
	p := present.New(sender)

	_, err := p.Present(context.Background(), "u1", twoSections())
	assert.ErrorIs(t, err, domain.ErrDelivery)
}

func TestResolve_OrdinalsRunAcrossSections(t *testing.T) {
	list := domain.ChoiceList{Sections: []domain.Section{
		{Title: "A", Rows: []domain.Row{{ID: "a1", Label: "One"}, {ID: "a2", Label: "Two"}}},
		{Title: "B", Rows: []domain.Row{{ID: "b1", Label: "Three"}}},
	}}

	row, ok := present.Resolve(list, domain.Message{Body: "2"})
	require.True(t, ok)
	assert.Equal(t, "a2", row.ID)

	row, ok = present.Resolve(list, domain.Message{Body: "3"})
	require.True(t, ok)
	assert.Equal(t, "b1", row.ID)

	_, ok = present.Resolve(list, domain.Message{Body: "4"})
	assert.False(t, ok)
}

package editor

import (
	"testing"

	"github.com/dmitrijs2005/quickqr/internal/qr"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	got []qr.RenderOptions
}

func (r *recorder) Update(o qr.RenderOptions) { r.got = append(r.got, o) }

func (r *recorder) last() qr.RenderOptions { return r.got[len(r.got)-1] }

const origin = "https://quickqr.example.com"

func TestEditor_EveryMutationPushesFullOptions(t *testing.T) {
	rec := &recorder{}
	e := New(origin, rec)
	require.Len(t, rec.got, 1, "initial state is pushed")

	require.NoError(t, e.SetField("url", "https://example.com"))
	require.Equal(t, "https://example.com", rec.last().Data)

	e.EditStyle(func(s *qr.Style) { s.SetDotsColor("000000") })
	require.Equal(t, "#000000", rec.last().Style.Dots.Color)
	require.Equal(t, "https://example.com", rec.last().Data)

	require.NoError(t, e.SetStyle("size", "512"))
	require.Equal(t, 512, rec.last().Style.Size)

	require.NoError(t, e.SetType(qr.TypeWifi))
	require.NoError(t, e.SetField("ssid", "Net1"))
	require.NoError(t, e.SetField("password", "pw"))
	require.Equal(t, "WIFI:T:WPA;S:Net1;P:pw;;", rec.last().Data)

	require.Len(t, rec.got, 7)
}

func TestEditor_FailedEditsDoNotPush(t *testing.T) {
	rec := &recorder{}
	e := New(origin, rec)

	require.ErrorIs(t, e.SetField("ssid", "x"), qr.ErrUnknownField)
	require.ErrorIs(t, e.SetType("fax"), qr.ErrUnknownContentType)
	require.ErrorIs(t, e.SetStyle("dots.glow", "1"), qr.ErrUnknownStyleKey)
	require.Len(t, rec.got, 1)
}

func TestEditor_TypeSwitchKeepsValues(t *testing.T) {
	e := New(origin, nil)
	require.NoError(t, e.SetField("url", "https://example.com"))
	require.NoError(t, e.SetType(qr.TypeText))
	require.NoError(t, e.SetType(qr.TypeURL))
	require.Equal(t, "https://example.com", e.Payload())
}

func TestEditor_StaticAndDynamicPayload(t *testing.T) {
	e := New(origin, nil)
	require.NoError(t, e.SetField("url", "https://example.com"))
	require.Equal(t, "https://example.com", e.Payload())

	require.NoError(t, e.SetMode(qr.ModeDynamic))
	require.Equal(t, "https://example.com", e.Payload(), "no id yet")

	e.MarkSaved("abc123", qr.ModeDynamic)
	require.Equal(t, "https://quickqr.example.com/code/abc123", e.Payload())
	require.Equal(t, "https://quickqr.example.com/code/abc123", e.Options().Data)

	require.ErrorIs(t, e.SetMode(qr.ModeStatic), ErrModeFixed)
	require.NoError(t, e.SetMode(qr.ModeDynamic))
}

func TestEditor_LoadAndReset(t *testing.T) {
	rec := &recorder{}
	e := New(origin, rec)

	c := qr.NewContent(qr.TypePhone)
	require.NoError(t, c.SetField("number", "123"))
	st := qr.DefaultStyle()
	st.SetBackgroundColor("#000")

	e.Load(qr.SavedCode{ID: "id1", Name: "Call me", Content: c, Style: st, Styled: true, Mode: qr.ModeStatic})
	snap := e.Snapshot()
	require.Equal(t, "id1", snap.ID)
	require.Equal(t, "Call me", snap.Name)
	require.Equal(t, "tel:123", rec.last().Data)
	require.Equal(t, "#000", rec.last().Style.Background.Color)

	e.Load(qr.SavedCode{ID: "id2", Content: c, Style: st, Styled: false})
	require.Equal(t, qr.DefaultStyle(), e.Snapshot().Style, "unstyled codes use defaults")

	e.Reset()
	snap = e.Snapshot()
	require.Empty(t, snap.ID)
	require.Equal(t, qr.ModeStatic, snap.Mode)
	require.Equal(t, qr.NewContent(qr.TypeURL), snap.Content)
}

func TestEditor_RestoreSnapshotAndPreset(t *testing.T) {
	rec := &recorder{}
	e := New(origin, rec)
	e.SetName("draft")
	require.NoError(t, e.SetField("url", "https://d"))
	snap := e.Snapshot()

	e.Reset()
	e.Restore(snap)
	require.Equal(t, snap, e.Snapshot())

	preset := qr.DefaultStyle()
	preset.SetDotsType(qr.DotsDots)
	e.ApplyStyle(preset)
	require.Equal(t, qr.DotsDots, rec.last().Style.Dots.Type)

	e.SetOrigin("https://other")
	e.MarkSaved("z", qr.ModeDynamic)
	require.Equal(t, "https://other/code/z", e.Payload())
}

package mvp_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/libertsolutions/libertvendas/internal/application/mvp"
)

type recorder struct{ calls []string }

type countingDispatcher struct{ n int }

func (d *countingDispatcher) Dispatch(fn func()) {
	d.n++
	fn()
}

func TestBase_DeliverSinVistaNoHaceNada(t *testing.T) {
	var b mvp.Base[*recorder]
	called := false

	b.Deliver(func(*recorder) { called = true })

	assert.False(t, called)
}

func TestBase_ClearCancelaOperacionYSilenciaCallbacks(t *testing.T) {
	var b mvp.Base[*recorder]
	view := &recorder{}
	b.Attach(view)

	ctx, op := b.Track(context.Background())
	defer op.Done()
	op.Deliver(func(v *recorder) { v.calls = append(v.calls, "antes") })

	b.Clear()

	assert.Error(t, ctx.Err())
	assert.False(t, op.Live())
	op.Deliver(func(v *recorder) { v.calls = append(v.calls, "después") })
	b.Deliver(func(v *recorder) { v.calls = append(v.calls, "directo") })
	assert.Equal(t, []string{"antes", "directo"}, view.calls)
}

func TestBase_TrackDespuesDeClearAbreNuevoAlcance(t *testing.T) {
	var b mvp.Base[*recorder]
	b.Attach(&recorder{})
	_, first := b.Track(context.Background())
	b.Clear()

	ctx, second := b.Track(context.Background())
	defer second.Done()

	assert.False(t, first.Live())
	assert.True(t, second.Live())
	assert.NoError(t, ctx.Err())
}

func TestBase_DetachSueltaLaVista(t *testing.T) {
	var b mvp.Base[*recorder]
	view := &recorder{}
	b.Attach(view)
	b.Detach()

	b.Deliver(func(v *recorder) { v.calls = append(v.calls, "x") })

	assert.Empty(t, view.calls)
}

func TestBase_UsaElDispatcher(t *testing.T) {
	var b mvp.Base[*recorder]
	d := &countingDispatcher{}
	b.SetDispatcher(d)
	b.Attach(&recorder{})

	b.Deliver(func(*recorder) {})
	b.Deliver(func(*recorder) {})

	assert.Equal(t, 2, d.n)
}

func TestOp_CancelarPadreNoAfectaAlAlcance(t *testing.T) {
	var b mvp.Base[*recorder]
	b.Attach(&recorder{})
	parent, cancel := context.WithCancel(context.Background())

	ctx, op := b.Track(parent)
	defer op.Done()
	cancel()

	assert.Error(t, ctx.Err())
	assert.True(t, op.Live(), "sólo Clear/Detach silencian la vista")
}

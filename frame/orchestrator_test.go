package frame

import (
	"testing"

	"github.com/kestrelgfx/core/driver"
)

func TestBeginEndFrameCyclesSlots(t *testing.T) {
	g := &fakeGPU{}
	o, err := New(g, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer o.Destroy()

	start := o.cur
	for i := 0; i < NFrame*2; i++ {
		s, err := o.BeginFrame()
		if err != nil {
			t.Fatalf("BeginFrame: %v", err)
		}
		if err := o.EndFrame(s, false); err != nil {
			t.Fatalf("EndFrame: %v", err)
		}
	}
	if o.cur != start {
		t.Fatalf("after 2*NFrame cycles, cur = %d, want %d", o.cur, start)
	}
	if g.submits != NFrame*2 {
		t.Fatalf("submits = %d, want %d", g.submits, NFrame*2)
	}
}

func TestDeferDestroyRunsOnNextSlotReuse(t *testing.T) {
	g := &fakeGPU{}
	o, err := New(g, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer o.Destroy()

	s, _ := o.BeginFrame()
	victim := &fakeDestroyer{}
	o.DeferDestroy(victim)
	o.EndFrame(s, false)

	// Destruction is deferred until this slot comes back around after
	// NFrame more BeginFrame calls.
	for i := 0; i < NFrame; i++ {
		if victim.destroyed {
			t.Fatalf("destroyed too early, at iteration %d", i)
		}
		s, _ = o.BeginFrame()
		o.EndFrame(s, false)
	}
	if !victim.destroyed {
		t.Fatalf("deferred resource was never destroyed")
	}
}

func TestImmediateExecuteRunsFnAndWaits(t *testing.T) {
	g := &fakeGPU{}
	o, err := New(g, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer o.Destroy()

	ran := false
	if err := o.ImmediateExecute(func(cb driver.CmdBuffer) { ran = true }); err != nil {
		t.Fatalf("ImmediateExecute: %v", err)
	}
	if !ran {
		t.Fatalf("ImmediateExecute did not invoke fn")
	}
}

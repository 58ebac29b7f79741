package frame

import "testing"

func TestUniformBufferSetDataTouchesOnlyTargetSlot(t *testing.T) {
	g := &fakeGPU{}
	u, err := NewUniformBuffer(g, 16)
	if err != nil {
		t.Fatalf("NewUniformBuffer: %v", err)
	}
	defer u.Destroy()

	if err := u.SetData(0, 0, []byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("SetData(slot 0): %v", err)
	}
	slot0 := u.Buffer(0).Bytes()
	slot1 := u.Buffer(1).Bytes()
	if slot0[0] != 1 || slot0[3] != 4 {
		t.Fatalf("slot 0 not written: %v", slot0[:4])
	}
	for _, b := range slot1[:4] {
		if b != 0 {
			t.Fatalf("slot 1 was touched by a slot-0 write: %v", slot1[:4])
		}
	}
}

func TestUniformBufferSetDataOutOfBounds(t *testing.T) {
	g := &fakeGPU{}
	u, err := NewUniformBuffer(g, 8)
	if err != nil {
		t.Fatalf("NewUniformBuffer: %v", err)
	}
	defer u.Destroy()
	if err := u.SetData(0, 4, []byte{1, 2, 3, 4, 5}); err == nil {
		t.Fatalf("expected out-of-bounds error, got nil")
	}
}

func TestPerFrameGetSet(t *testing.T) {
	var p PerFrame[int]
	for i := 0; i < NFrame; i++ {
		p.Set(i, i*10)
	}
	for i := 0; i < NFrame; i++ {
		if got := p.Get(i); got != i*10 {
			t.Errorf("Get(%d) = %d, want %d", i, got, i*10)
		}
	}
}

package renderer

import (
	"testing"
)

func TestPassesDay(t *testing.T) {
	got := Passes(Frame{TimeOfDay: Day})
	want := []Pass{PassClear, PassObjects, PassGround, PassVegetation, PassSkybox}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Pass %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestPassesNightDrawsBulbsBeforeSky(t *testing.T) {
	got := Passes(Frame{TimeOfDay: Night, NormalMapping: true})
	if got[len(got)-1] != PassSkybox {
		t.Errorf("Skybox should be drawn last, got %v", got)
	}
	if got[len(got)-2] != PassLampBulbs {
		t.Errorf("Lamp bulbs should precede the sky at night, got %v", got)
	}
	for _, p := range got {
		if p == PassGround {
			t.Error("Plain ground should be replaced by the normal-mapped ground")
		}
	}
}

func TestPassesVegetationAfterOpaque(t *testing.T) {
	for _, f := range []Frame{{}, {NormalMapping: true}, {TimeOfDay: Night}} {
		index := map[Pass]int{}
		for i, p := range Passes(f) {
			index[p] = i
		}
		if index[PassVegetation] < index[PassObjects] {
			t.Errorf("Vegetation must follow opaque objects: %v", Passes(f))
		}
	}
}

func TestFrameAspect(t *testing.T) {
	if a := (Frame{FramebufferWidth: 800, FramebufferHeight: 600}).Aspect(); a != float32(800)/600 {
		t.Errorf("Unexpected aspect %v", a)
	}
	// minimized windows report a zero-sized framebuffer
	if a := (Frame{}).Aspect(); a != 1 {
		t.Errorf("Degenerate framebuffer should give aspect 1, got %v", a)
	}
}

func TestPassString(t *testing.T) {
	if PassSkybox.String() != "skybox" {
		t.Errorf("Unexpected name %q", PassSkybox.String())
	}
	if Pass(99).String() != "pass(99)" {
		t.Errorf("Unexpected fallback name %q", Pass(99).String())
	}
}

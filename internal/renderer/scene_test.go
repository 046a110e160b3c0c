package renderer

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestPlacementMatrixOrder(t *testing.T) {
	p := Placement{
		Translate: mgl32.Vec3{1, 2, 3},
		Rotations: []Rotation{{axisY, mgl32.DegToRad(90)}},
		Scale:     mgl32.Vec3{2, 2, 2},
	}
	// scale first, then rotate +X onto -Z, then translate
	got := p.Matrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	want := mgl32.Vec3{1, 2, 1}
	if !got.ApproxEqualThreshold(want, 1e-5) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestPlacementMatrixMultipleRotations(t *testing.T) {
	p := Placement{
		Rotations: []Rotation{{axisX, mgl32.DegToRad(-90)}, {axisZ, mgl32.DegToRad(90)}},
		Scale:     mgl32.Vec3{1, 1, 1},
	}
	want := mgl32.HomogRotate3DX(mgl32.DegToRad(-90)).Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(90)))
	if !p.Matrix().ApproxEqualThreshold(want, 1e-6) {
		t.Errorf("Rotations should be applied in list order")
	}
}

func TestStreetSceneTable(t *testing.T) {
	scene := StreetScene()
	if len(scene) != 6+LampCount {
		t.Fatalf("Expected %d placements, got %d", 6+LampCount, len(scene))
	}

	lamps := 0
	for _, p := range scene {
		if _, ok := ModelAssets[p.Model]; !ok {
			t.Errorf("Placement references unknown model %q", p.Model)
		}
		if p.Model == ModelStreetLamp {
			lamps++
		}
	}
	if lamps != LampCount {
		t.Errorf("Expected %d street lamps, got %d", LampCount, lamps)
	}

	house := scene[0].Matrix()
	if pos := house.Col(3).Vec3(); pos != (mgl32.Vec3{22, 9.8, 0}) {
		t.Errorf("Farm house should sit at (22, 9.8, 0), got %v", pos)
	}
}

func TestLampPostsStandUnderLights(t *testing.T) {
	var posts []mgl32.Vec3
	for _, p := range StreetScene() {
		if p.Model == ModelStreetLamp {
			posts = append(posts, p.Translate)
		}
	}
	for i, l := range StreetLamps() {
		if posts[i].X() != l.Position.X() || posts[i].Z() != l.Position.Z() {
			t.Errorf("Lamp %d post %v not under light %v", i, posts[i], l.Position)
		}
	}
}

func TestVegetationAndBulbs(t *testing.T) {
	if n := len(VegetationPlacements()); n != 8 {
		t.Errorf("Expected 8 bushes, got %d", n)
	}
	bulbs := LampBulbPlacements()
	if len(bulbs) != LampCount {
		t.Fatalf("Expected %d bulbs, got %d", LampCount, len(bulbs))
	}
	if bulbs[3].Translate != (mgl32.Vec3{2.35, 7.6, -20}) {
		t.Errorf("Unexpected bulb position %v", bulbs[3].Translate)
	}
}

func TestSkyboxFaces(t *testing.T) {
	day := SkyboxFaces(Day)
	night := SkyboxFaces(Night)
	if day[0] != "textures/skyboxDay/right.png" {
		t.Errorf("Unexpected first day face %q", day[0])
	}
	for _, f := range night {
		if !strings.HasSuffix(f, ".jpg") {
			t.Errorf("Night face %q should be a jpg", f)
		}
	}
	if night[5] != "textures/skyboxNight/back.jpg" {
		t.Errorf("Faces should end with -Z, got %q", night[5])
	}
}

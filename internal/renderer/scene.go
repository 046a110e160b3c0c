package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Model keys used by the scene table.
const (
	ModelFarmHouse   = "farm_house"
	ModelOldCompany  = "old_company"
	ModelBlueHouse   = "blue_house"
	ModelBrickHouse  = "brick_house"
	ModelPolHouse    = "pol_house"
	ModelRoad        = "road"
	ModelStreetLamp  = "street_lamp"
	lampModelScale   = 0.005
	vegetationScale  = 1.7
	lampBulbHeight   = 7.6
	lampPostHeight   = 2.2
	lampRowSpacing   = 32
	groundPlaneScale = 10
)

// ModelAssets maps model keys to paths under the resource directory.
var ModelAssets = map[string]string{
	ModelFarmHouse:  "objects/house/Farm_house.obj",
	ModelOldCompany: "objects/oldHouse/house_01.obj",
	ModelBrickHouse: "objects/BrickHouse/Brick_House.obj",
	ModelBlueHouse:  "objects/blueHouse/HouseSuburban.obj",
	ModelPolHouse:   "objects/polHouse1/polHouse1.obj",
	ModelRoad:       "objects/road/untitled.obj",
	ModelStreetLamp: "objects/streetLamp/Street Lamp.obj",
}

// Texture and cubemap assets, relative to the resource directory.
const (
	GrassTexture = "textures/grass.jpeg"
	BushTexture  = "textures/bush.png"

	GroundDiffuseMap = "textures/ground/diffuse.png"
	GroundNormalMap  = "textures/ground/normal.png"
	GroundHeightMap  = "textures/ground/height.png"
)

// SkyboxFaces lists cubemap faces in +X, -X, +Y, -Y, +Z, -Z order.
func SkyboxFaces(tod TimeOfDay) [6]string {
	dir, ext := "textures/skyboxDay/", ".png"
	if tod == Night {
		dir, ext = "textures/skyboxNight/", ".jpg"
	}
	var faces [6]string
	for i, name := range []string{"right", "left", "top", "bottom", "front", "back"} {
		faces[i] = dir + name + ext
	}
	return faces
}

type Rotation struct {
	Axis  mgl32.Vec3
	Angle float32 // radians
}

// Placement positions one drawable in the world.
type Placement struct {
	Model     string
	Translate mgl32.Vec3
	Rotations []Rotation
	Scale     mgl32.Vec3
}

// Matrix composes translate, then each rotation in order, then scale.
func (p Placement) Matrix() mgl32.Mat4 {
	m := mgl32.Ident4().Mul4(mgl32.Translate3D(p.Translate[0], p.Translate[1], p.Translate[2]))
	for _, r := range p.Rotations {
		m = m.Mul4(mgl32.HomogRotate3D(r.Angle, r.Axis))
	}
	return m.Mul4(mgl32.Scale3D(p.Scale[0], p.Scale[1], p.Scale[2]))
}

func evenScale(s float32) mgl32.Vec3 { return mgl32.Vec3{s, s, s} }

var (
	axisX = mgl32.Vec3{1, 0, 0}
	axisY = mgl32.Vec3{0, 1, 0}
	axisZ = mgl32.Vec3{0, 0, 1}
)

// StreetScene lists every loaded model in draw order.
func StreetScene() []Placement {
	scene := []Placement{
		{Model: ModelFarmHouse, Translate: mgl32.Vec3{22, 9.8, 0}, Scale: evenScale(0.2)},
		{Model: ModelOldCompany, Translate: mgl32.Vec3{22, 0, -26},
			Rotations: []Rotation{{axisY, 1.60}}, Scale: evenScale(0.125)},
		{Model: ModelBlueHouse, Translate: mgl32.Vec3{-22, 0, -22},
			Rotations: []Rotation{{axisY, mgl32.DegToRad(-90)}}, Scale: evenScale(0.01)},
		{Model: ModelBrickHouse, Translate: mgl32.Vec3{-22, 0, 0},
			Rotations: []Rotation{{axisY, mgl32.DegToRad(90)}}, Scale: evenScale(1.3)},
		{Model: ModelPolHouse, Translate: mgl32.Vec3{-18, 0, 17},
			Rotations: []Rotation{{axisX, mgl32.DegToRad(-90)}, {axisZ, mgl32.DegToRad(90)}}, Scale: evenScale(0.2)},
		{Model: ModelRoad, Translate: mgl32.Vec3{0, -1, 2.2},
			Rotations: []Rotation{{axisY, mgl32.DegToRad(90)}}, Scale: mgl32.Vec3{3.1, 1, 2.5}},
	}

	for i := 0; i < LampCount/2; i++ {
		scene = append(scene, Placement{
			Model:     ModelStreetLamp,
			Translate: mgl32.Vec3{-7, lampPostHeight, float32(-35 + i*lampRowSpacing)},
			Scale:     evenScale(lampModelScale),
		})
	}
	for i := 0; i < LampCount/2; i++ {
		scene = append(scene, Placement{
			Model:     ModelStreetLamp,
			Translate: mgl32.Vec3{4.5, lampPostHeight, float32(-20 + i*lampRowSpacing)},
			Rotations: []Rotation{{axisY, mgl32.DegToRad(180)}},
			Scale:     evenScale(lampModelScale),
		})
	}
	return scene
}

// GroundPlacement flattens and stretches the grass plane.
func GroundPlacement() Placement {
	return Placement{Scale: mgl32.Vec3{groundPlaneScale, 0, groundPlaneScale}}
}

// NormalMappedGroundPlacement lifts the ground quad to y=0 and keeps its
// height so parallax offsets are not flattened.
func NormalMappedGroundPlacement() Placement {
	return Placement{Translate: mgl32.Vec3{0, 0.5, 0}, Scale: mgl32.Vec3{groundPlaneScale, 1, groundPlaneScale}}
}

// VegetationPlacements are the bush billboards.
func VegetationPlacements() []Placement {
	positions := []mgl32.Vec3{
		{4.1, 0.82, -19.7},
		{-10, 0.82, -6},
		{-14, 0.8, -10},
		{14, 0.8, -11},
		{15.2, 0.8, -11.5},
		{6.2, 0.8, 38},
		{-14, 0.8, 27},
		{-8.2, 0.8, 31.37},
	}
	out := make([]Placement, len(positions))
	for i, p := range positions {
		out[i] = Placement{Translate: p, Scale: evenScale(vegetationScale)}
	}
	return out
}

// LampBulbColor is the emissive color of a lit bulb.
var LampBulbColor = mgl32.Vec3{0.9, 0.8, 0.6}

// LampBulbPlacements are the glowing bulbs under each lamp head, drawn only at night.
func LampBulbPlacements() []Placement {
	out := make([]Placement, 0, LampCount)
	for i := 0; i < LampCount/2; i++ {
		out = append(out, Placement{
			Translate: mgl32.Vec3{-4.85, lampBulbHeight, float32(-35 + i*lampRowSpacing)},
			Scale:     mgl32.Vec3{0.25, 0.01, 0.08},
		})
	}
	for i := 0; i < LampCount/2; i++ {
		out = append(out, Placement{
			Translate: mgl32.Vec3{2.35, lampBulbHeight, float32(-20 + i*lampRowSpacing)},
			Scale:     mgl32.Vec3{0.25, 0.01, 0.08},
		})
	}
	return out
}

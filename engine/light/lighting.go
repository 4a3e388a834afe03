package light

import (
	"fmt"

	"github.com/Carmen-Shannon/neon-chess/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// MaxPointLights is the size of the point light array in the scene uniform block.
	MaxPointLights = 8

	// MaxSpotLights is the size of the spot light array in the scene uniform block.
	MaxSpotLights = 2
)

// Side lights follow the player to move: the active side is lit brighter than the waiting side.
const (
	ActiveSideIntensity  float32 = 16
	PassiveSideIntensity float32 = 9

	sideLightHeight = 3.4
	sideLightOffset = 5.2
	spotShift       = 1.2
)

var (
	whiteSideColor = mgl32.Vec3{0.35, 0.75, 1.0}
	blackSideColor = mgl32.Vec3{1.0, 0.42, 0.78}

	whiteSpotColor = mgl32.Vec3{0.42, 0.92, 1.0}
	blackSpotColor = mgl32.Vec3{1.0, 0.5, 0.86}
)

// SceneLighting is the full light rig of the scene: an ambient term, one directional light and bounded point and
// spot light lists. Lights beyond MaxPointLights or MaxSpotLights are ignored at upload.
type SceneLighting struct {
	Ambient     mgl32.Vec3
	Directional Light
	PointLights []Light
	SpotLights  []Light

	// WhiteSide and BlackSide are the point lights ApplyTurnBias rebalances. Both also appear in PointLights.
	WhiteSide Light
	BlackSide Light
}

// CyberpunkDefaults returns the neon rig positioned around a board whose top face sits at boardHeight.
// The side lights start biased toward white.
//
// Parameters:
//   - boardHeight: the world-space height of the board surface
//
// Returns:
//   - *SceneLighting: the configured rig
func CyberpunkDefaults(boardHeight float32) *SceneLighting {
	whiteSide := NewLight(LightTypePoint,
		WithPosition(0, boardHeight+sideLightHeight, -sideLightOffset),
		WithColor(whiteSideColor[0], whiteSideColor[1], whiteSideColor[2]),
		WithIntensity(ActiveSideIntensity),
		WithRange(14),
	)
	blackSide := NewLight(LightTypePoint,
		WithPosition(0, boardHeight+sideLightHeight, sideLightOffset),
		WithColor(blackSideColor[0], blackSideColor[1], blackSideColor[2]),
		WithIntensity(PassiveSideIntensity),
		WithRange(14),
	)

	sl := &SceneLighting{
		Ambient: mgl32.Vec3{0.08, 0.09, 0.13},
		Directional: NewLight(LightTypeDirectional,
			WithDirection(-0.45, -0.85, -0.25),
			WithColor(0.92, 0.95, 1.0),
			WithIntensity(2.2),
		),
		PointLights: []Light{
			NewLight(LightTypePoint,
				WithPosition(-5.0, boardHeight+2.8, -5.5),
				WithColor(0.35, 0.95, 1.0),
				WithIntensity(22),
				WithRange(22),
			),
			NewLight(LightTypePoint,
				WithPosition(5.8, boardHeight+2.6, 5.0),
				WithColor(1.0, 0.35, 0.82),
				WithIntensity(24),
				WithRange(24),
			),
			NewLight(LightTypePoint,
				WithPosition(0, boardHeight+3.8, 0),
				WithColor(0.78, 0.45, 1.0),
				WithIntensity(16),
				WithRange(20),
			),
			whiteSide,
			blackSide,
		},
		SpotLights: []Light{
			NewLight(LightTypeSpot,
				WithPosition(0, boardHeight+5.2, 0),
				WithDirection(0, -1, 0),
				WithColor(whiteSpotColor[0], whiteSpotColor[1], whiteSpotColor[2]),
				WithIntensity(20),
				WithCutoffCos(0.92),
				WithRange(20),
			),
		},
		WhiteSide: whiteSide,
		BlackSide: blackSide,
	}
	sl.ApplyTurnBias(true)
	return sl
}

// ApplyTurnBias brightens the side light of the player to move, dims the other, and slides the overhead spot
// toward the active half of the board with that side's tint. It changes presentation only.
//
// Parameters:
//   - whiteToMove: true when white is to move
func (sl *SceneLighting) ApplyTurnBias(whiteToMove bool) {
	active, passive := sl.WhiteSide, sl.BlackSide
	shift := float32(-spotShift)
	tint := whiteSpotColor
	if !whiteToMove {
		active, passive = passive, active
		shift = spotShift
		tint = blackSpotColor
	}
	if active != nil {
		active.SetIntensity(ActiveSideIntensity)
	}
	if passive != nil {
		passive.SetIntensity(PassiveSideIntensity)
	}
	if len(sl.SpotLights) > 0 {
		spot := sl.SpotLights[0]
		p := spot.Position()
		spot.SetPosition(mgl32.Vec3{p.X(), p.Y(), shift})
		spot.SetColor(tint)
	}
}

// Upload writes the rig into the scene uniform block. Every member is presence-checked, so a program that
// declares only part of the rig receives only that part. Array slots past the light count get zero intensity.
//
// Parameters:
//   - block: the staging block of the scene uniform binding
func (sl *SceneLighting) Upload(block *shader.UniformBlock) {
	block.SetVec3("ambient", sl.Ambient)
	if d := sl.Directional; d != nil {
		block.SetVec3("dirLight.direction", d.Direction())
		block.SetVec3("dirLight.color", d.Color())
		block.SetFloat("dirLight.intensity", enabledIntensity(d))
	}

	pointCount := min(len(sl.PointLights), MaxPointLights)
	block.SetUint("pointLightCount", uint32(pointCount))
	for i := range MaxPointLights {
		prefix := fmt.Sprintf("pointLights[%d]", i)
		if i >= pointCount {
			block.SetFloat(prefix+".intensity", 0)
			continue
		}
		l := sl.PointLights[i]
		block.SetVec3(prefix+".position", l.Position())
		block.SetVec3(prefix+".color", l.Color())
		block.SetFloat(prefix+".intensity", enabledIntensity(l))
		block.SetFloat(prefix+".range", l.Range())
	}

	spotCount := min(len(sl.SpotLights), MaxSpotLights)
	block.SetUint("spotLightCount", uint32(spotCount))
	for i := range MaxSpotLights {
		prefix := fmt.Sprintf("spotLights[%d]", i)
		if i >= spotCount {
			block.SetFloat(prefix+".intensity", 0)
			continue
		}
		l := sl.SpotLights[i]
		block.SetVec3(prefix+".position", l.Position())
		block.SetVec3(prefix+".direction", l.Direction())
		block.SetVec3(prefix+".color", l.Color())
		block.SetFloat(prefix+".intensity", enabledIntensity(l))
		block.SetFloat(prefix+".cutoffCos", l.CutoffCos())
		block.SetFloat(prefix+".range", l.Range())
	}
}

func enabledIntensity(l Light) float32 {
	if !l.Enabled() {
		return 0
	}
	return l.Intensity()
}

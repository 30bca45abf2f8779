package session

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/olivierh59500/gauss-field/internal/raster"
	"github.com/olivierh59500/gauss-field/internal/render"
	"github.com/olivierh59500/gauss-field/internal/scene"
)

// Action is a user command, independent of the key bound to it.
type Action int

const (
	ToggleFieldLines Action = iota
	ToggleEquipotential
	ToggleFieldColor
	ToggleArrows
	ToggleCulling
	CycleEquipotentialMode
	ToggleLive
	Rerender
	SavePNG
	SaveScene
	LoadScene
	NextPreset
	MoreLines
	FewerLines
	MoreSteps
	FewerSteps
	MoreRings
	FewerRings
	ScaleUp
	ScaleDown
)

var actionNames = map[Action]string{
	ToggleFieldLines:       "toggle field lines",
	ToggleEquipotential:    "toggle equipotentials",
	ToggleFieldColor:       "toggle field color",
	ToggleArrows:           "toggle arrows",
	ToggleCulling:          "toggle symmetry culling",
	CycleEquipotentialMode: "cycle equipotential mode",
	ToggleLive:             "toggle live update",
	Rerender:               "render",
	SavePNG:                "save png",
	SaveScene:              "save scene",
	LoadScene:              "load scene",
	NextPreset:             "next preset",
	MoreLines:              "more lines",
	FewerLines:             "fewer lines",
	MoreSteps:              "more steps",
	FewerSteps:             "fewer steps",
	MoreRings:              "more rings",
	FewerRings:             "fewer rings",
	ScaleUp:                "scale up",
	ScaleDown:              "scale down",
}

func (a Action) String() string {
	if n, ok := actionNames[a]; ok {
		return n
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Apply performs a. Only file actions can fail; a failure is also kept
// as the session status.
func (s *Session) Apply(a Action) error {
	c := &s.cfg
	switch a {
	case ToggleFieldLines:
		c.DrawFieldLines = !c.DrawFieldLines
	case ToggleEquipotential:
		c.DrawEquipotential = !c.DrawEquipotential
	case ToggleFieldColor:
		c.ColorizeField = !c.ColorizeField
	case ToggleArrows:
		c.DrawArrows = !c.DrawArrows
	case ToggleCulling:
		c.SymmetryCulling = !c.SymmetryCulling
	case CycleEquipotentialMode:
		if c.Equipotential == render.EquipotentialWalk {
			c.Equipotential = render.EquipotentialThreshold
		} else {
			c.Equipotential = render.EquipotentialWalk
		}
	case ToggleLive:
		s.live = !s.live
	case Rerender:
		s.dirty = true
	case SavePNG:
		return s.report(s.savePNG())
	case SaveScene:
		return s.report(s.saveScene())
	case LoadScene:
		return s.report(s.loadScene())
	case NextPreset:
		names := scene.Presets()
		s.preset = (s.preset + 1) % len(names)
		cs, err := scene.Preset(names[s.preset])
		if err != nil {
			return s.report(err)
		}
		s.SetCharges(cs)
		s.status = "preset " + names[s.preset]
	case MoreLines:
		c.LinesPerCharge = min(c.LinesPerCharge+1, maxLines)
	case FewerLines:
		c.LinesPerCharge = max(c.LinesPerCharge-1, 0)
	case MoreSteps:
		c.MaxSteps = min(c.MaxSteps+stepDelta, maxSteps)
	case FewerSteps:
		c.MaxSteps = max(c.MaxSteps-stepDelta, 0)
	case MoreRings:
		c.RingCount = min(c.RingCount+1, maxRings)
	case FewerRings:
		c.RingCount = max(c.RingCount-1, 0)
	case ScaleUp:
		c.ColorScale = min(c.ColorScale*2, maxScale)
	case ScaleDown:
		c.ColorScale = max(c.ColorScale/2, minScale)
	default:
		return fmt.Errorf("unknown action %d", int(a))
	}
	s.log.Debug("action", zap.Stringer("action", a))
	return nil
}

func (s *Session) report(err error) error {
	if err != nil {
		s.status = err.Error()
		s.log.Error("action failed", zap.Error(err))
	}
	return err
}

// savePNG renders the current state into a fresh buffer so an on-demand
// session exports what it would show after a render.
func (s *Session) savePNG() error {
	out := raster.New(s.buf.Grid)
	s.renderer.Render(out, s.charges, s.cfg)
	if err := raster.SavePNG(s.pngPath, out); err != nil {
		return err
	}
	s.status = "saved " + s.pngPath
	s.log.Info("frame saved", zap.String("path", s.pngPath))
	return nil
}

func (s *Session) saveScene() error {
	if err := scene.Save(s.scenePath, &scene.Scene{Name: "session-" + s.id[:8], Charges: s.charges}); err != nil {
		return err
	}
	s.status = "saved " + s.scenePath
	s.log.Info("scene saved", zap.String("path", s.scenePath), zap.Int("charges", len(s.charges)))
	return nil
}

func (s *Session) loadScene() error {
	sc, err := scene.Load(s.scenePath)
	if err != nil {
		return err
	}
	s.SetCharges(sc.Charges)
	s.status = "loaded " + s.scenePath
	s.log.Info("scene loaded", zap.String("path", s.scenePath), zap.Int("charges", len(sc.Charges)))
	return nil
}

// Summary is a one-line view of the toggles.
func (s *Session) Summary() string {
	c := s.cfg
	mode := "on-demand"
	if s.live {
		mode = "live"
	}
	return fmt.Sprintf("lines:%s(%d) equi:%s(%s) color:%s arrows:%s cull:%s %s",
		onOff(c.DrawFieldLines), c.LinesPerCharge,
		onOff(c.DrawEquipotential), c.Equipotential,
		onOff(c.ColorizeField), onOff(c.DrawArrows), onOff(c.SymmetryCulling), mode)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

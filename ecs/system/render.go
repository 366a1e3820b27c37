package system

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/drillboss/ecs"
	"github.com/milk9111/drillboss/ecs/component"
	"github.com/milk9111/drillboss/ecs/render"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	wheelSpriteKey     = "wheel"
	explosionSpriteKey = "explosion"
	wheelSpriteRadius  = 8
	explosionRadius    = 12
)

// RenderSystem draws the stage, every placed entity in layer order and the
// HUD. Shapes stand in for sprite sheets.
type RenderSystem struct {
	face *text.GoTextFace
	// Debug adds the encounter state overlay.
	Debug bool
}

func NewRenderSystem() (*RenderSystem, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("render: load font: %w", err)
	}
	return &RenderSystem{face: &text.GoTextFace{Source: src, Size: 9}}, nil
}

// view is the camera rectangle the frame is drawn from.
type view struct {
	x, y int
	bb   cp.BB
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}
	st := stageOf(w)
	if st == nil {
		return
	}

	v := view{}
	if cam := cameraFor(w, 0); cam != nil {
		v.x, v.y = cam.X+cam.ShakeX, cam.Y+cam.ShakeY
	}
	v.bb = cp.BB{L: float64(v.x), B: float64(v.y), R: float64(v.x + st.ScreenWidth), T: float64(v.y + st.ScreenHeight)}

	r.drawStage(screen, st, v)

	for _, e := range drawOrder(w) {
		tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		if !v.bb.Intersects(entityBounds(w, e, tr)) {
			continue
		}
		sx := float32(tr.Position.X.Float() - float64(v.x))
		sy := float32(tr.Position.Y.Float() - float64(v.y))

		switch {
		case ecs.Has(w, e, component.PlayerComponent.Kind()):
			r.drawPlayer(w, e, screen, sx, sy, st.Timer)
		case ecs.Has(w, e, component.EncounterComponent.Kind()):
			enc, _ := ecs.Get(w, e, component.EncounterComponent.Kind())
			r.drawPilot(enc, screen, sx, sy)
		case ecs.Has(w, e, component.VehicleMemberComponent.Kind()):
			r.drawMember(w, e, screen, sx, sy)
		case ecs.Has(w, e, component.EffectTagComponent.Kind()):
			r.drawExplosion(w, e, screen, sx, sy)
		}
	}

	r.drawHUD(w, screen, st)
	if r.Debug {
		r.drawDebug(w, screen)
	}
}

// drawOrder lists drawable entities by render layer, then registry slot.
func drawOrder(w *ecs.World) []ecs.Entity {
	entities := w.Query(component.TransformComponent.Kind(), component.RenderLayerComponent.Kind())
	layer := func(e ecs.Entity) int {
		if l, ok := ecs.Get(w, e, component.RenderLayerComponent.Kind()); ok {
			return l.Index
		}
		return 0
	}
	sort.SliceStable(entities, func(i, j int) bool {
		li, lj := layer(entities[i]), layer(entities[j])
		if li != lj {
			return li < lj
		}
		return entities[i].Slot() < entities[j].Slot()
	})
	return entities
}

// entityBounds is the world-space box used for culling.
func entityBounds(w *ecs.World, e ecs.Entity, tr *component.Transform) cp.BB {
	if hb, ok := ecs.Get(w, e, component.HitboxComponent.Kind()); ok {
		return hitboxBB(tr.Position, *hb)
	}
	x, y := tr.Position.X.Float(), tr.Position.Y.Float()
	const half = 24
	return cp.BB{L: x - half, B: y - half, R: x + half, T: y + half}
}

func (r *RenderSystem) drawStage(screen *ebiten.Image, st *component.Stage, v view) {
	screen.Fill(colornames.Skyblue)
	if st.GroundY <= 0 {
		return
	}
	ground := float32(st.GroundY - v.y)
	w, h := float32(st.ScreenWidth), float32(st.ScreenHeight)
	vector.DrawFilledRect(screen, 0, ground, w, h-ground, colornames.Forestgreen, false)
	for x := -(v.x % 32); x < st.ScreenWidth; x += 32 {
		vector.DrawFilledRect(screen, float32(x), ground, 16, 4, colornames.Saddlebrown, false)
	}
}

func (r *RenderSystem) drawPlayer(w *ecs.World, e ecs.Entity, screen *ebiten.Image, x, y float32, tick int) {
	if inv, ok := ecs.Get(w, e, component.InvulnerableComponent.Kind()); ok && inv.Frames > 0 && tick&2 != 0 {
		return
	}
	p, _ := ecs.Get(w, e, component.PlayerComponent.Kind())
	body := color.Color(colornames.Royalblue)
	if p != nil && p.Attacking {
		body = colornames.Deepskyblue
	}
	vector.DrawFilledCircle(screen, x, y, 10, body, true)
	vector.StrokeCircle(screen, x, y, 10, 1, colornames.Navy, true)
}

func (r *RenderSystem) drawPilot(enc *component.Encounter, screen *ebiten.Image, x, y float32) {
	body := color.Color(colornames.Lightpink)
	if enc.Flash {
		body = colornames.White
	}
	vector.DrawFilledCircle(screen, x, y, 14, body, true)
	vector.DrawFilledRect(screen, x-16, y+6, 32, 8, colornames.Silver, false)

	// Eye direction follows facing.
	eye := float32(-6)
	if enc.FacingFlipped {
		eye = 6
	}
	vector.DrawFilledCircle(screen, x+eye, y-4, 2, colornames.Black, false)
	switch enc.Pilot.Current {
	case pilotHit, pilotToasted:
		vector.StrokeLine(screen, x+eye-3, y-7, x+eye+3, y-1, 1, colornames.Black, false)
	case pilotLaugh:
		vector.StrokeLine(screen, x-5, y+2, x+5, y+2, 2, colornames.Darkred, false)
	}

	// Rotor span shrinks while retracting and grows while extending.
	span := float32(18)
	if n := enc.Rotor.FrameCount(); n > 1 {
		f := float32(enc.Rotor.Frame) / float32(n-1)
		switch enc.Rotor.Current {
		case rotorRetracting:
			span *= 1 - f
		case rotorExtending:
			span *= f
		}
	}
	if span > 0 {
		top := y - 20
		vector.StrokeLine(screen, x, y-14, x, top, 2, colornames.Dimgray, false)
		if enc.Rotor.Current == rotorActive && enc.Rotor.Frame%2 == 1 {
			span /= 2
		}
		vector.StrokeLine(screen, x-span, top, x+span, top, 2, colornames.Dimgray, false)
	}
}

func (r *RenderSystem) drawMember(w *ecs.World, e ecs.Entity, screen *ebiten.Image, x, y float32) {
	m, _ := ecs.Get(w, e, component.VehicleMemberComponent.Kind())
	switch {
	case m.Role == component.RoleChassis:
		hb, ok := ecs.Get(w, e, component.HitboxComponent.Kind())
		if !ok {
			return
		}
		vector.DrawFilledRect(screen, x+float32(hb.Left), y+float32(hb.Top), float32(hb.Right-hb.Left), float32(hb.Bottom-hb.Top), colornames.Firebrick, false)
		vector.StrokeRect(screen, x+float32(hb.Left), y+float32(hb.Top), float32(hb.Right-hb.Left), float32(hb.Bottom-hb.Top), 1, colornames.Darkred, false)
	case m.Role == component.RoleWeapon:
		dir := float32(-1)
		if m.FacingRight {
			dir = 1
		}
		for i := 0; i < 4; i++ {
			h := float32(8 - 2*i)
			vector.DrawFilledRect(screen, x+dir*float32(i*6)-3, y-h/2, 6, h, colornames.Silver, false)
		}
	case m.Role.IsWheel():
		frame := 0
		if anim, ok := ecs.Get(w, e, component.AnimationComponent.Kind()); ok {
			frame = anim.Frame
		}
		img := render.Sprite(wheelSpriteKey, wheelSprite)
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-wheelSpriteRadius, -wheelSpriteRadius)
		op.GeoM.Rotate(float64(frame) * math.Pi / 4)
		op.GeoM.Translate(float64(x), float64(y))
		screen.DrawImage(img, op)
	}
}

func (r *RenderSystem) drawExplosion(w *ecs.World, e ecs.Entity, screen *ebiten.Image, x, y float32) {
	scale := 1.0
	if ttl, ok := ecs.Get(w, e, component.TTLComponent.Kind()); ok {
		scale = 0.4 + float64(ttl.Frames)/30
	}
	img := render.Sprite(explosionSpriteKey, explosionSprite)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-explosionRadius, -explosionRadius)
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleAlpha(float32(math.Min(1, scale)))
	screen.DrawImage(img, op)
}

func (r *RenderSystem) drawHUD(w *ecs.World, screen *ebiten.Image, st *component.Stage) {
	score := 0
	ecs.ForEach(w, component.PlayerComponent.Kind(), func(_ ecs.Entity, p *component.Player) {
		if p.Index == 0 {
			score = p.Score
		}
	})
	r.print(screen, fmt.Sprintf("SCORE %d", score), 8, 6, colornames.Yellow)

	ecs.ForEach(w, component.EncounterComponent.Kind(), func(_ ecs.Entity, enc *component.Encounter) {
		if enc.Health <= 0 {
			return
		}
		for i := 0; i < enc.Health; i++ {
			vector.DrawFilledRect(screen, float32(st.ScreenWidth-12-i*8), 8, 6, 6, colornames.Crimson, false)
		}
	})
}

func (r *RenderSystem) drawDebug(w *ecs.World, screen *ebiten.Image) {
	lines := []string{}
	ecs.ForEach(w, component.EncounterComponent.Kind(), func(e ecs.Entity, enc *component.Encounter) {
		lines = append(lines,
			fmt.Sprintf("slot %d  phase %s  timer %d", e.Slot(), enc.Phase, enc.Timer),
			fmt.Sprintf("health %d  inv %d  exploding %v", enc.Health, enc.InvincibilityTimer, enc.Exploding),
			fmt.Sprintf("pilot %s  rotor %s", enc.Pilot.Current, enc.Rotor.Current),
		)
	})
	if b := worldBounds(w); b != nil {
		lines = append(lines, fmt.Sprintf("cam L%d R%d B%d  lock %v/%v/%v",
			b.CameraL[0], b.CameraR[0], b.CameraB[0], b.ActiveL[0], b.ActiveR[0], b.ActiveB[0]))
	}
	for i, l := range lines {
		r.print(screen, l, 8, 20+float64(i)*11, colornames.White)
	}
}

func (r *RenderSystem) print(screen *ebiten.Image, s string, x, y float64, c color.Color) {
	if r.face == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, r.face, op)
}

func wheelSprite() *ebiten.Image {
	const d = wheelSpriteRadius * 2
	img := ebiten.NewImage(d, d)
	vector.DrawFilledCircle(img, wheelSpriteRadius, wheelSpriteRadius, wheelSpriteRadius, colornames.Dimgray, true)
	vector.DrawFilledCircle(img, wheelSpriteRadius, wheelSpriteRadius, 3, colornames.Lightgray, true)
	vector.StrokeLine(img, wheelSpriteRadius, 1, wheelSpriteRadius, d-1, 1, colornames.Black, false)
	return img
}

func explosionSprite() *ebiten.Image {
	const d = explosionRadius * 2
	img := ebiten.NewImage(d, d)
	vector.DrawFilledCircle(img, explosionRadius, explosionRadius, explosionRadius, colornames.Orange, true)
	vector.DrawFilledCircle(img, explosionRadius, explosionRadius, explosionRadius/2, colornames.Lightyellow, true)
	return img
}

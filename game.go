package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/drillboss/ecs/component"
	"github.com/milk9111/drillboss/ecs/render"
	"github.com/milk9111/drillboss/ecs/system"
	"github.com/milk9111/drillboss/prefabs"
	"github.com/milk9111/drillboss/session"
	"github.com/rs/zerolog"
	"golang.design/x/clipboard"
)

type Game struct {
	session  *session.Session
	renderer *system.RenderSystem
	watcher  *prefabs.Watcher
	log      zerolog.Logger

	clipboardOK bool
}

func NewGame(s *session.Session, renderer *system.RenderSystem, watcher *prefabs.Watcher, logger zerolog.Logger) *Game {
	g := &Game{
		session:  s,
		renderer: renderer,
		watcher:  watcher,
		log:      logger,
	}
	if err := clipboard.Init(); err != nil {
		logger.Warn().Err(err).Msg("clipboard unavailable")
	} else {
		g.clipboardOK = true
	}
	return g
}

// keyboardInput maps the arrow keys and Z/Space to player 0. Other player
// indices get no input.
func keyboardInput(index int) component.Input {
	if index != 0 {
		return component.Input{}
	}
	jumpKeys := []ebiten.Key{ebiten.KeySpace, ebiten.KeyZ}
	in := component.Input{
		Left:  ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA),
		Right: ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD),
	}
	for _, k := range jumpKeys {
		in.Jump = in.Jump || inpututil.IsKeyJustPressed(k)
		in.JumpHeld = in.JumpHeld || ebiten.IsKeyPressed(k)
	}
	return in
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.renderer.Debug = !g.renderer.Debug
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copySnapshot()
	}
	if g.watcher != nil {
		if changes := g.watcher.Poll(); len(changes) > 0 {
			if err := g.session.Reload(changes); err != nil {
				g.log.Warn().Err(err).Msg("hot reload")
			}
			render.Forget(render.Keys()...)
		}
		if err := g.watcher.Err(); err != nil {
			g.log.Warn().Err(err).Msg("prefab watcher")
		}
	}

	g.session.Update()
	return nil
}

func (g *Game) copySnapshot() {
	out, err := g.session.Snapshot().YAML()
	if err != nil {
		g.log.Warn().Err(err).Msg("encode snapshot")
		return
	}
	if !g.clipboardOK {
		g.log.Info().Msg(string(out))
		return
	}
	clipboard.Write(clipboard.FmtText, out)
	g.log.Info().Int("tick", g.session.Tick()).Msg("encounter state copied")
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(g.session.World, screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.session.Level.ScreenWidth, g.session.Level.ScreenHeight
}

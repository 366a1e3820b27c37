package component

// RenderLayer orders drawing; lower layers draw first and ties fall back to
// registry slot.
type RenderLayer struct {
	Index int
}

var RenderLayerComponent = NewComponent[RenderLayer]()

// EffectTag marks the explosion entities spawned during the Explode phase.
type EffectTag struct{}

var EffectTagComponent = NewComponent[EffectTag]()

package entity

import (
	"fmt"

	"github.com/milk9111/drillboss/ecs"
	"github.com/milk9111/drillboss/ecs/component"
)

func NewCamera(w *ecs.World, index, x, y int) (ecs.Entity, error) {
	camera := ecs.CreateEntity(w)
	if err := ecs.Add(w, camera, component.CameraComponent.Kind(), &component.Camera{Index: index, X: x, Y: y}); err != nil {
		return 0, fmt.Errorf("camera: add camera: %w", err)
	}
	return camera, nil
}

package entity

import (
	"fmt"

	"github.com/milk9111/drillboss/ecs/component"
)

// SoundBank hands out players for named sound effects and music tracks.
type SoundBank interface {
	Player(name string) (component.SoundPlayer, error)
	Volume(name string) float64
}

func buildAudioComponent(bank SoundBank, names ...string) (*component.Audio, error) {
	n := len(names)
	if n == 0 || bank == nil {
		return nil, nil
	}

	players := make([]component.SoundPlayer, 0, n)
	clipNames := make([]string, 0, n)
	volume := make([]float64, 0, n)

	for _, name := range names {
		if name == "" {
			continue
		}
		player, err := bank.Player(name)
		if err != nil {
			return nil, fmt.Errorf("audio clip %q: %w", name, err)
		}
		clipNames = append(clipNames, name)
		players = append(players, player)
		volume = append(volume, bank.Volume(name))
	}

	return &component.Audio{
		Names:   clipNames,
		Players: players,
		Volume:  volume,
		Play:    make([]bool, len(clipNames)),
		Stop:    make([]bool, len(clipNames)),
	}, nil
}

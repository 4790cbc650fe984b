package neatgo

import (
	"errors"
	"fmt"

	"github.com/baldhumanity/neat-go/neat"
	"github.com/baldhumanity/neat-go/neat/nn"

	"github.com/kpacha/neatbird/bolt"
)

var championKey = []byte("champion")

// SaveChampion stores the genome as the playback controller.
func SaveChampion(c *bolt.Client, g *neat.Genome) error {
	if err := c.Update(bolt.ControllerBucket, championKey, g); err != nil {
		return fmt.Errorf("storing champion %d: %w", g.Key, err)
	}
	return nil
}

// LoadChampion restores the stored genome and builds its network.
func LoadChampion(c *bolt.Client) (*nn.FeedForwardNetwork, error) {
	g := new(neat.Genome)
	if err := c.Get(bolt.ControllerBucket, championKey, g); err != nil {
		return nil, fmt.Errorf("loading champion: %w", err)
	}
	if g.Config == nil {
		return nil, errors.New("loading champion: genome without configuration")
	}
	return nn.CreateFeedForwardNetwork(g)
}

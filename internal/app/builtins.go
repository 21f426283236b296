package app

import (
	"github.com/vk/decisim/internal/registry"
	"github.com/vk/decisim/sims/adspend"
	"github.com/vk/decisim/sims/hiring"
	"github.com/vk/decisim/sims/saaspricing"
)

// builtinEntries is the definitive list of simulations compiled into the
// decisim binary.
func builtinEntries() []registry.Entry {
	return []registry.Entry{
		adspend.Entry(),
		hiring.Entry(),
		saaspricing.Entry(),
	}
}

// Package session runs the conversation: startup readiness checks, the text
// and voice interaction loops, and shutdown.
package session

import (
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/barkuni-voice/barkuni/internal/voice"
)

// cloneMemoryFloor is the free-RAM threshold below which the local
// cloned-voice engine is assumed to be unable to load its model.
const cloneMemoryFloor = 4 << 30

// Readiness summarizes what the startup probes found. Every probe runs
// independently; one failing subsystem never blocks the others, it just
// leaves its field at the degraded value.
type Readiness struct {
	Character string

	// Provider is the chat provider name, or "" when replies are canned.
	Provider string

	// Voice holds the preferred backend kind and, for synthesis, the active
	// engine name.
	Voice       voice.Kind
	SynthEngine string

	CloneReady   bool
	CloneCapable bool
	SampleCount  int

	// Listening is true when a microphone and transcriber are both usable.
	Listening bool
}

// CloneCapable checks whether this machine has enough free memory to host
// the cloned-voice engine. Checked once at startup.
func CloneCapable() bool {
	vm, err := mem.VirtualMemory()
	if err != nil {
		log.Warn().Err(err).Msg("Could not inspect system memory")
		return false
	}

	capable := vm.Available >= cloneMemoryFloor
	log.Debug().
		Uint64("available", vm.Available).
		Bool("clone_capable", capable).
		Msg("Checked cloned-voice capability")
	return capable
}

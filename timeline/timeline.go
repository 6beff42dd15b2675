/*
Package timeline holds the instructions scheduled for each packet period of
a song.

Every write is recorded in order in a log and nothing is applied until
Finalize replays the log into a slice of instructions, one per packet, that
starts out as all no-ops. Where two writes land on the same packet the later
one wins. Keeping the log means the order in which writes replaced each other
can be inspected afterwards.
*/
package timeline

import (
	"math"

	"github.com/bodgit/cdg/packet"
)

// Rate is the number of packets per second
const Rate = packet.Rate

// Write is one entry in the log.
type Write struct {
	Index       int
	Instruction packet.Instruction
	Owner       string
}

// Overwrite describes a write that replaced an instruction written earlier
// by a different owner.
type Overwrite struct {
	Write
	Previous Write
}

// Timeline is a fixed length sequence of packet periods.
type Timeline struct {
	length int
	writes []Write
}

// Length returns the number of packets needed for duration seconds.
func Length(duration float64) int {
	if duration <= 0 || math.IsNaN(duration) {
		return 0
	}
	return int(math.Floor(duration * Rate))
}

// New returns an empty Timeline covering duration seconds.
func New(duration float64) *Timeline {
	return &Timeline{length: Length(duration)}
}

// Len returns the number of packets in the timeline.
func (t *Timeline) Len() int {
	return t.length
}

// Index returns the packet index for time s. It may be negative or past the
// end of the timeline.
func (t *Timeline) Index(s float64) int {
	return int(math.Floor(s * Rate))
}

// Put records ins at index i on behalf of owner. Writes outside the
// timeline are dropped and Put returns false.
func (t *Timeline) Put(i int, ins packet.Instruction, owner string) bool {
	if i < 0 || i >= t.length {
		return false
	}
	t.writes = append(t.writes, Write{Index: i, Instruction: ins, Owner: owner})
	return true
}

// Writes returns the log of accepted writes in the order they were made.
func (t *Timeline) Writes() []Write {
	return t.writes
}

// Finalize replays the log and returns one instruction per packet.
func (t *Timeline) Finalize() []packet.Instruction {
	out := make([]packet.Instruction, t.length)
	for i := range out {
		out[i] = packet.NoOp{}
	}
	for _, w := range t.writes {
		out[w.Index] = w.Instruction
	}
	return out
}

// Overwrites returns every write that replaced something other than a no-op
// written by a different owner.
func (t *Timeline) Overwrites() []Overwrite {
	var (
		last = make(map[int]Write)
		out  []Overwrite
	)
	for _, w := range t.writes {
		if prev, ok := last[w.Index]; ok && prev.Owner != w.Owner {
			if _, noop := prev.Instruction.(packet.NoOp); !noop {
				out = append(out, Overwrite{Write: w, Previous: prev})
			}
		}
		last[w.Index] = w
	}
	return out
}

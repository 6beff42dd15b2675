package stream

import (
	"io"

	"github.com/bodgit/cdg/packet"
)

// Report summarizes the contents of a CD+G file. All durations are in
// seconds.
type Report struct {
	Packets  int
	Duration float64

	Commands map[byte]int
	Opcodes  map[packet.Opcode]int

	// FirstActive and LastActive are the indices of the first and last
	// graphics packets that do something, or -1 if there are none
	FirstActive int
	LastActive  int

	LeadIn   float64
	Content  float64
	Trailing float64

	// Partial is the number of trailing bytes that did not form a packet
	Partial int
}

func active(p packet.Packet) bool {
	return p.Command == packet.Graphics && p.Opcode != packet.OpNoOp
}

func seconds(packets int) float64 {
	return float64(packets) / packet.Rate
}

// Analyze reads every packet from r and tabulates what it finds.
func Analyze(r io.Reader) (Report, error) {
	report := Report{
		Commands:    make(map[byte]int),
		Opcodes:     make(map[packet.Opcode]int),
		FirstActive: -1,
		LastActive:  -1,
	}

	pr := NewReader(r)
	for i := 0; ; i++ {
		p, err := pr.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return report, err
		}

		report.Commands[p.Command]++
		if p.Command == packet.Graphics {
			report.Opcodes[p.Opcode]++
		}

		if active(p) {
			if report.FirstActive < 0 {
				report.FirstActive = i
			}
			report.LastActive = i
		}
	}

	report.Packets = pr.Count()
	report.Partial = pr.Partial()
	report.Duration = seconds(report.Packets)

	if report.FirstActive < 0 {
		report.LeadIn = report.Duration
		return report, nil
	}

	report.LeadIn = seconds(report.FirstActive)
	report.Content = seconds(report.LastActive - report.FirstActive + 1)
	report.Trailing = seconds(report.Packets - report.LastActive - 1)

	return report, nil
}

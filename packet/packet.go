/*
Package packet implements the CD+G subcode packet encoder and decoder.

Each packet is exactly 24 bytes. The first byte is the command, the second
the instruction, followed by two unused parity bytes, sixteen bytes of data
and four further parity bytes:

	+---------+-------------+--------+-----------+----------+
	| command | instruction | parity | data (16) | parity   |
	| 1 byte  | 1 byte      | 2 bytes| 16 bytes  | 4 bytes  |
	+---------+-------------+--------+-----------+----------+

Only the lower six bits of every byte carry information. Both the command and
instruction bytes are written masked to six bits, and every payload field is
masked to its documented width rather than rejected, so out of range values
silently wrap.

Packets are consumed at 300 per second.
*/
package packet

import "errors"

const (
	// Size is the length in bytes of one packet
	Size = 24

	// DataSize is the length in bytes of the packet payload
	DataSize = 16

	// Graphics is the command value for CD+G graphics instructions
	Graphics = 0x09

	// Rate is the number of packets played per second
	Rate = 300

	dataOffset = 4
	mask       = 0x3f
)

// Opcode identifies a graphics instruction
type Opcode uint8

// Supported graphics instructions
const (
	OpNoOp          Opcode = 0
	OpMemoryPreset  Opcode = 1
	OpBorderPreset  Opcode = 2
	OpTileBlock     Opcode = 6
	OpLoadColorLow  Opcode = 30
	OpLoadColorHigh Opcode = 31
	OpTileBlockXOR  Opcode = 38
)

var opcodeNames = map[Opcode]string{
	OpNoOp:          "No-op",
	OpMemoryPreset:  "Memory Preset",
	OpBorderPreset:  "Border Preset",
	OpTileBlock:     "Tile Block",
	OpLoadColorLow:  "Load Color Table (Low)",
	OpLoadColorHigh: "Load Color Table (High)",
	OpTileBlockXOR:  "Tile Block (XOR)",
}

func (o Opcode) String() string {
	if s, ok := opcodeNames[o]; ok {
		return s
	}
	return "Unknown"
}

var (
	// ErrShortPacket is returned when decoding fewer than Size bytes
	ErrShortPacket = errors.New("packet: short packet")

	// ErrUnknownOpcode is returned when parsing an unsupported instruction
	ErrUnknownOpcode = errors.New("packet: unknown instruction")

	// ErrNotGraphics is returned when parsing a non-graphics packet
	ErrNotGraphics = errors.New("packet: not a graphics command")
)

// Packet is a decoded packet with the command and instruction bytes already
// masked to six bits.
type Packet struct {
	Command byte
	Opcode  Opcode
	Data    [DataSize]byte
}

// Decode decodes the first Size bytes of b.
func Decode(b []byte) (Packet, error) {
	if len(b) < Size {
		return Packet{}, ErrShortPacket
	}

	p := Packet{
		Command: b[0] & mask,
		Opcode:  Opcode(b[1] & mask),
	}
	copy(p.Data[:], b[dataOffset:dataOffset+DataSize])

	return p, nil
}

// Parse converts a decoded graphics packet back into an Instruction.
func (p Packet) Parse() (Instruction, error) {
	if p.Command != Graphics {
		return nil, ErrNotGraphics
	}

	d := p.Data
	switch p.Opcode {
	case OpNoOp:
		return NoOp{}, nil
	case OpMemoryPreset:
		return MemoryPreset{Color: d[0] & 0x0f, Repeat: d[1] & 0x0f}, nil
	case OpBorderPreset:
		return BorderPreset{Color: d[0] & 0x0f}, nil
	case OpLoadColorLow, OpLoadColorHigh:
		l := LoadColorTable{High: p.Opcode == OpLoadColorHigh}
		for i := range l.Colors {
			l.Colors[i] = UnpackColor(d[i<<1], d[i<<1+1])
		}
		return l, nil
	case OpTileBlock, OpTileBlockXOR:
		t := TileBlock{
			Background: d[0] & 0x0f,
			Foreground: d[1] & 0x0f,
			Row:        d[2] & 0x1f,
			Column:     d[3] & mask,
			XOR:        p.Opcode == OpTileBlockXOR,
		}
		for i := range t.Bitmap {
			t.Bitmap[i] = d[4+i] & mask
		}
		return t, nil
	default:
		return nil, ErrUnknownOpcode
	}
}

// Encode returns the wire form of i.
func Encode(i Instruction) [Size]byte {
	var b [Size]byte
	b[0] = Graphics & mask
	b[1] = byte(i.Opcode()) & mask

	d := b[dataOffset : dataOffset+DataSize]
	switch v := i.(type) {
	case NoOp:
	case MemoryPreset:
		d[0] = v.Color & 0x0f
		d[1] = v.Repeat & 0x0f
	case BorderPreset:
		d[0] = v.Color & 0x0f
	case LoadColorTable:
		for j, c := range v.Colors {
			d[j<<1], d[j<<1+1] = c.Pack()
		}
	case TileBlock:
		d[0] = v.Background & 0x0f
		d[1] = v.Foreground & 0x0f
		d[2] = v.Row & 0x1f
		d[3] = v.Column & mask
		for j, row := range v.Bitmap {
			d[4+j] = row & mask
		}
	}

	return b
}

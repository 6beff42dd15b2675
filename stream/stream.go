/*
Package stream writes a sequence of instructions out as a raw CD+G file and
reads such files back for analysis.

A CD+G file has no header or trailer, it is simply every packet one after
the other, so its length is always a multiple of 24 bytes.
*/
package stream

import (
	"bufio"
	"io"

	"github.com/bodgit/cdg/packet"
)

// Encode writes one packet per instruction to w.
func Encode(w io.Writer, instructions []packet.Instruction) error {
	bw := bufio.NewWriter(w)
	for _, i := range instructions {
		b := packet.Encode(i)
		if _, err := bw.Write(b[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Reader reads packets from a CD+G file.
type Reader struct {
	r       *bufio.Reader
	buf     [packet.Size]byte
	count   int
	partial int
}

// NewReader returns a Reader reading from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next returns the next packet. It returns io.EOF once no complete packet
// remains; any trailing bytes that do not make up a whole packet are counted
// and reported by Partial.
func (r *Reader) Next() (packet.Packet, error) {
	n, err := io.ReadFull(r.r, r.buf[:])
	switch err {
	case nil:
	case io.ErrUnexpectedEOF:
		r.partial = n
		return packet.Packet{}, io.EOF
	default:
		return packet.Packet{}, err
	}

	r.count++

	return packet.Decode(r.buf[:])
}

// Count returns the number of complete packets read so far.
func (r *Reader) Count() int {
	return r.count
}

// Partial returns the number of trailing bytes that did not form a packet.
func (r *Reader) Partial() int {
	return r.partial
}

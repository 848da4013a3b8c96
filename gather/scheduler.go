package gather

import (
	"fmt"
	"io"
)

// Max number of hosts that can take part in a render.
const MaxHosts = 64

// Bytes per pixel in a fragment.
const pixelSize = 3

// Split a frame of yres rows across hosts. Host h renders rows h, h+hosts,
// h+2*hosts ... so the first yres mod hosts hosts get one extra row.
//
// This function returns the number of rows assigned to each host.
func Partition(yres, hosts int) ([]int, error) {
	if hosts < 1 {
		return nil, ErrNoHosts
	}
	if hosts > MaxHosts {
		return nil, fmt.Errorf("%w: got %d; max %d", ErrTooManyHosts, hosts, MaxHosts)
	}
	if yres < hosts {
		return nil, fmt.Errorf("%w: %d rows; %d hosts", ErrTooFewRows, yres, hosts)
	}

	rows := make([]int, hosts)
	extra := yres % hosts
	for h := range rows {
		rows[h] = yres / hosts
		if h < extra {
			rows[h]++
		}
	}
	return rows, nil
}

// Write the rows of a set of fragments in frame order. Fragment h holds the
// rows assigned to host h by Partition, each width*3 bytes long.
func Interleave(fragments [][]byte, width int, out io.Writer) error {
	rowSize := width * pixelSize
	if rowSize <= 0 || len(fragments) == 0 {
		return fmt.Errorf("%w: width %d; %d fragments", ErrFragmentSize, width, len(fragments))
	}

	total := 0
	for h, frag := range fragments {
		if len(frag)%rowSize != 0 {
			return fmt.Errorf("%w: fragment %d has %d bytes; row size %d", ErrFragmentSize, h, len(frag), rowSize)
		}
		total += len(frag) / rowSize
	}

	// Verify that the fragment row counts match a round-robin assignment
	expRows, err := Partition(total, len(fragments))
	if err != nil {
		return err
	}
	for h, frag := range fragments {
		if got := len(frag) / rowSize; got != expRows[h] {
			return fmt.Errorf("%w: fragment %d has %d rows; expected %d", ErrFragmentSize, h, got, expRows[h])
		}
	}

	hosts := len(fragments)
	for y := 0; y < total; y++ {
		offset := (y / hosts) * rowSize
		if _, err = out.Write(fragments[y%hosts][offset : offset+rowSize]); err != nil {
			return err
		}
	}
	return nil
}

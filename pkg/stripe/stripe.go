// pkg/stripe/stripe.go
// Lazy port-space striping by residue class

package stripe

import (
	"fmt"
	"iter"
)

// MaxPort is the highest TCP port number.
const MaxPort uint16 = 65535

// Stripe is one worker's share of the port space: every port reachable from
// Offset+1 by adding Stride, stopping once MaxPort-port <= Stride.
type Stripe struct {
	Offset uint16
	Stride uint16
}

// New validates and returns a stripe
func New(offset, stride uint16) (Stripe, error) {
	if stride == 0 {
		return Stripe{}, fmt.Errorf("stride must be at least 1")
	}
	if offset >= stride {
		return Stripe{}, fmt.Errorf("offset %d out of range for stride %d", offset, stride)
	}
	return Stripe{Offset: offset, Stride: stride}, nil
}

// Plan splits the port space into one stripe per worker. Stripe i has
// offset i and stride workers.
func Plan(workers uint16) ([]Stripe, error) {
	if workers == 0 {
		return nil, fmt.Errorf("worker count must be at least 1")
	}

	stripes := make([]Stripe, 0, workers)
	for i := uint16(0); i < workers; i++ {
		stripes = append(stripes, Stripe{Offset: i, Stride: workers})
	}
	return stripes, nil
}

// valid reports whether the stripe can be iterated. Stripes built without
// New may carry a zero stride or an offset that wraps First past MaxPort.
func (s Stripe) valid() bool {
	return s.Stride != 0 && s.Offset < s.Stride
}

// First returns the first port probed by the stripe.
func (s Stripe) First() uint16 {
	return s.Offset + 1
}

// Ports yields the stripe's ports in ascending order.
//
// The loop stops as soon as MaxPort-port <= Stride, so the last yielded
// port is the first one within Stride of MaxPort. For any stride below
// MaxPort this leaves port 65535 unprobed.
func (s Stripe) Ports() iter.Seq[uint16] {
	return func(yield func(uint16) bool) {
		if !s.valid() {
			return
		}
		port := s.First()
		for {
			if !yield(port) {
				return
			}
			if MaxPort-port <= s.Stride {
				return
			}
			port += s.Stride
		}
	}
}

// steps is the number of stride advances taken before the loop stops.
func (s Stripe) steps() int {
	first, stride, limit := int(s.First()), int(s.Stride), int(MaxPort)
	gap := limit - stride - first
	if gap <= 0 {
		return 0
	}
	return (gap + stride - 1) / stride
}

// Count returns how many ports the stripe probes
func (s Stripe) Count() int {
	if !s.valid() {
		return 0
	}
	return s.steps() + 1
}

// Last returns the final port probed by the stripe
func (s Stripe) Last() uint16 {
	if !s.valid() {
		return 0
	}
	return uint16(int(s.First()) + s.steps()*int(s.Stride)) //nolint:gosec // G115: bounded by MaxPort
}

// Contains reports whether port belongs to the stripe
func (s Stripe) Contains(port uint16) bool {
	if !s.valid() || port < s.First() || port > s.Last() {
		return false
	}
	return (port-s.First())%s.Stride == 0
}

// String returns human-readable stripe info
func (s Stripe) String() string {
	return fmt.Sprintf("%d+%dn", s.First(), s.Stride)
}

package operator

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAxisConflict is returned when forward and up share an axis.
var ErrAxisConflict = errors.New("operator: forward and up axes conflict")

// Axis is a signed coordinate axis such as "Y" or "-Z".
type Axis string

var axes = []Axis{"X", "Y", "Z", "-X", "-Y", "-Z"}

// ParseAxis accepts x, -y, Z and so on.
func ParseAxis(s string) (Axis, error) {
	a := Axis(strings.ToUpper(strings.TrimSpace(s)))
	for _, v := range axes {
		if a == v {
			return a, nil
		}
	}
	return "", fmt.Errorf("operator: invalid axis %q", s)
}

// Letter returns the axis without its sign.
func (a Axis) Letter() string { return strings.TrimPrefix(string(a), "-") }

// Orientation is the forward/up pair used when exporting.
type Orientation struct {
	Forward Axis
	Up      Axis
}

// DefaultOrientation is forward Y, up Z.
var DefaultOrientation = Orientation{Forward: "Y", Up: "Z"}

// Validate rejects pairs on the same axis.
func (o Orientation) Validate() error {
	if o.Forward.Letter() == o.Up.Letter() {
		return fmt.Errorf("%w: forward %s, up %s", ErrAxisConflict, o.Forward, o.Up)
	}
	return nil
}

func (o Orientation) String() string { return string(o.Forward) + "," + string(o.Up) }

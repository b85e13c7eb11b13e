package component

import (
	"fmt"
	"math/bits"
	"strings"
)

// CollisionType is a host-defined category used by collider rule filters.
type CollisionType uint8

const (
	Solid CollisionType = iota
	Mobile
	Attack
	Vulnerable
	Pickup
	Zone
	Player
	Enemy
	collisionTypeCount
)

var collisionTypeNames = [collisionTypeCount]string{
	Solid:      "solid",
	Mobile:     "mobile",
	Attack:     "attack",
	Vulnerable: "vulnerable",
	Pickup:     "pickup",
	Zone:       "zone",
	Player:     "player",
	Enemy:      "enemy",
}

func (t CollisionType) String() string {
	if t < collisionTypeCount {
		return collisionTypeNames[t]
	}
	return fmt.Sprintf("CollisionType(%d)", uint8(t))
}

// ParseCollisionType resolves a case-insensitive tag name.
func ParseCollisionType(name string) (CollisionType, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range collisionTypeNames {
		if s == n {
			return CollisionType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown collision type %q", name)
}

// MustCollisionType is ParseCollisionType for names fixed in code.
func MustCollisionType(name string) CollisionType {
	t, err := ParseCollisionType(name)
	if err != nil {
		panic(err)
	}
	return t
}

// UnmarshalText lets collision types appear by name in YAML and TOML.
func (t *CollisionType) UnmarshalText(b []byte) error {
	v, err := ParseCollisionType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func (t CollisionType) MarshalText() ([]byte, error) {
	if t >= collisionTypeCount {
		return nil, fmt.Errorf("invalid collision type %d", uint8(t))
	}
	return []byte(t.String()), nil
}

// CollisionTypes is a set of collision tags.
type CollisionTypes uint16

func TypesOf(ts ...CollisionType) CollisionTypes {
	var s CollisionTypes
	for _, t := range ts {
		s |= 1 << t
	}
	return s
}

func (s CollisionTypes) Has(t CollisionType) bool { return s&(1<<t) != 0 }

// Contains reports whether s carries every tag of filter.
func (s CollisionTypes) Contains(filter CollisionTypes) bool { return s&filter == filter }

func (s CollisionTypes) List() []CollisionType {
	out := make([]CollisionType, 0, bits.OnesCount16(uint16(s)))
	for t := CollisionType(0); t < collisionTypeCount; t++ {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

func (s CollisionTypes) String() string {
	names := make([]string, 0, 4)
	for _, t := range s.List() {
		names = append(names, t.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}

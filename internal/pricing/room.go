package pricing

import "strings"

type RoomType string

const (
	RoomSingle RoomType = "single"
	RoomDouble RoomType = "double"
	RoomTriple RoomType = "triple"
	RoomQuad   RoomType = "quad"
	RoomQuint  RoomType = "quint"
)

// DefaultRoomType is used when a hotel row is seeded.
const DefaultRoomType = RoomQuad

var capacity = map[RoomType]int{
	RoomSingle: 1,
	RoomDouble: 2,
	RoomTriple: 3,
	RoomQuad:   4,
	RoomQuint:  5,
}

// RoomTypes in ascending capacity.
var RoomTypes = []RoomType{RoomSingle, RoomDouble, RoomTriple, RoomQuad, RoomQuint}

// CapacityOf returns occupants per room; unknown room types hold nobody.
func CapacityOf(rt RoomType) int {
	return capacity[rt]
}

func ParseRoomType(s string) RoomType {
	return RoomType(strings.ToLower(strings.TrimSpace(s)))
}

func (rt RoomType) Valid() bool {
	_, ok := capacity[rt]
	return ok
}

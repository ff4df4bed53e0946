package redis

import "testing"

func TestRoomStateKey(t *testing.T) {
	if got := RoomStateKey("living"); got != "lux:room:living" {
		t.Errorf("RoomStateKey(living) = %s, want lux:room:living", got)
	}
}

package mqtt

import (
	"fmt"
	"strings"
)

// Topic constants for the Lux platform
const (
	// Free-text lux commands (input), payload {"cmd": "..."} or plain text
	TopicLuxCommand = "lux/command"

	// Room colour context (output)
	TopicRoomContextBase = "automation/context/lux"
	TopicRoomContext     = "automation/context/lux/+"

	// Light commands derived from lux events (output)
	TopicLightCommandBase = "automation/command/light"

	// UI events such as os-open and console-open (output)
	TopicLuxEventBase = "lux/event"

	// Retained service presence (output)
	TopicStatusBase = "lux/status"
)

// Presence payloads published on the status topic
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// RoomContextTopic constructs the colour context topic for a room
// Pattern: automation/context/lux/{room}
func RoomContextTopic(room string) string {
	return fmt.Sprintf("%s/%s", TopicRoomContextBase, room)
}

// LightCommandTopic constructs the light command topic for a room
// Pattern: automation/command/light/{room}
func LightCommandTopic(room string) string {
	return fmt.Sprintf("%s/%s", TopicLightCommandBase, room)
}

// LuxEventTopic constructs the topic for a named UI event
// Pattern: lux/event/{name}
func LuxEventTopic(name string) string {
	return fmt.Sprintf("%s/%s", TopicLuxEventBase, name)
}

// StatusTopic constructs the retained presence topic for a service
// Pattern: lux/status/{service}
func StatusTopic(service string) string {
	return fmt.Sprintf("%s/%s", TopicStatusBase, service)
}

// RoomFromTopic extracts the trailing room segment of a room-scoped topic
func RoomFromTopic(topic string) (string, bool) {
	idx := strings.LastIndex(topic, "/")
	if idx < 0 || idx == len(topic)-1 {
		return "", false
	}
	return topic[idx+1:], true
}

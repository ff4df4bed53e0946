package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/saaga0h/lux-platform/internal/engine"
	"github.com/saaga0h/lux-platform/internal/relay"
	"github.com/saaga0h/lux-platform/internal/scenes"
	"github.com/saaga0h/lux-platform/internal/validation"
	"github.com/saaga0h/lux-platform/pkg/color"
	"github.com/saaga0h/lux-platform/pkg/config"
)

// SceneView is a scene with its rendered preview
type SceneView struct {
	scenes.Scene
	Preview scenes.Preview `json:"preview"`
}

// ScenesResponse is returned by GET /api/scenes
type ScenesResponse struct {
	Scenes []SceneView `json:"scenes"`
	Total  int         `json:"total"`
}

// CommandRequest is the body of POST /api/command
type CommandRequest struct {
	Cmd string `json:"cmd"`
}

// CommandResponse acknowledges a relayed command
type CommandResponse struct {
	OK      bool   `json:"ok"`
	ID      int64  `json:"id"`
	Handled bool   `json:"handled,omitempty"`
	Message string `json:"message,omitempty"`
}

// HistoryResponse is returned by GET /api/command?history=n
type HistoryResponse struct {
	Commands []relay.Command `json:"commands"`
}

// AccessRequest is the body of POST /api/request
type AccessRequest struct {
	Email string `json:"email"`
}

// AccessResponse acknowledges an access request
type AccessResponse struct {
	OK bool   `json:"ok"`
	ID string `json:"id"`
}

// ColorResponse describes a colour in every supported model
type ColorResponse struct {
	RGB        color.RGB `json:"rgb"`
	Hex        string    `json:"hex"`
	HSL        color.HSL `json:"hsl"`
	HSV        color.HSV `json:"hsv"`
	Brightness int       `json:"brightness"`
	Light      bool      `json:"light"`
}

// PowerResponse is returned by GET /api/power
type PowerResponse struct {
	Watts float64 `json:"watts"`
}

// RoomsResponse is returned by GET /api/rooms
type RoomsResponse struct {
	Rooms []engine.RoomState `json:"rooms"`
}

// GET /api/scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, "GET, OPTIONS")
		return
	}

	views := make([]SceneView, 0, len(s.catalog.Scenes))
	for _, scene := range s.catalog.Scenes {
		views = append(views, SceneView{
			Scene:   scene,
			Preview: scenes.Render(scene, scenes.DefaultMaxWattage),
		})
	}

	s.writeJSON(w, http.StatusOK, ScenesResponse{Scenes: views, Total: len(views)})
}

// GET /api/scenes/{id}
func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, "GET, OPTIONS")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/scenes/")
	if err := validation.DeviceID(id); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid scene id: %q", id))
		return
	}

	scene, ok := s.catalog.Get(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, "scene not found: "+id)
		return
	}

	s.writeJSON(w, http.StatusOK, SceneView{
		Scene:   scene,
		Preview: scenes.Render(scene, scenes.DefaultMaxWattage),
	})
}

// GET /api/scenes/circadian?at=HH:MM
func (s *Server) handleCircadian(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, "GET, OPTIONS")
		return
	}

	at := s.now()
	if v := r.URL.Query().Get("at"); v != "" {
		if err := validation.Time(v); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		clock, _ := time.Parse("15:04", v)
		at = time.Date(at.Year(), at.Month(), at.Day(), clock.Hour(), clock.Minute(), 0, 0, at.Location())
	}

	settings := scenes.DefaultCircadianSettings(s.cfg.Latitude, s.cfg.Longitude)
	settings.MinKelvin = s.cfg.CircadianMinKelvin
	settings.MaxKelvin = s.cfg.CircadianMaxKelvin
	settings.MinBrightness = s.cfg.CircadianMinBrightness
	settings.MaxBrightness = s.cfg.CircadianMaxBrightness

	var scene scenes.Scene
	if s.cfg.CircadianSource == config.CircadianSourceClock {
		scene = scenes.ClockCircadian(at, settings)
	} else {
		scene = scenes.Circadian(at, settings)
	}

	s.writeJSON(w, http.StatusOK, SceneView{
		Scene:   scene,
		Preview: scenes.Render(scene, scenes.DefaultMaxWattage),
	})
}

// GET, POST /api/command
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if v := r.URL.Query().Get("history"); v != "" {
			s.handleHistory(w, r, v)
			return
		}

		last, err := s.store.Last(r.Context())
		if err != nil {
			s.logger.Error("Failed to read last command", "error", err)
			s.writeError(w, http.StatusInternalServerError, "Failed to read command")
			return
		}
		s.writeJSON(w, http.StatusOK, last)

	case http.MethodPost:
		var req CommandRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.logger.Debug("Rejected malformed command body", "error", err)
			s.writeError(w, http.StatusBadRequest, msgMalformedRequest)
			return
		}

		if utf8.RuneCountInString(req.Cmd) > s.cfg.MaxCommandLength {
			s.writeError(w, http.StatusBadRequest, msgCommandTooLong)
			return
		}

		relayed, err := s.store.Append(r.Context(), req.Cmd)
		if err != nil {
			s.logger.Error("Failed to relay command", "error", err)
			s.writeError(w, http.StatusInternalServerError, "Failed to relay command")
			return
		}

		resp := CommandResponse{OK: true, ID: relayed.ID}
		if s.dispatcher != nil && strings.TrimSpace(req.Cmd) != "" {
			outcome := s.dispatcher.Dispatch(r.Context(), req.Cmd)
			resp.Handled = outcome.Handled
			resp.Message = outcome.Message
		}

		s.logger.Info("Command relayed", "id", relayed.ID, "handled", resp.Handled)
		s.writeJSON(w, http.StatusOK, resp)

	default:
		s.methodNotAllowed(w, "GET, POST, OPTIONS")
	}
}

// handleHistory serves the most recent relayed commands, newest first
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request, raw string) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		s.writeError(w, http.StatusBadRequest, "history must be a positive integer")
		return
	}
	if n > s.cfg.CommandHistory {
		n = s.cfg.CommandHistory
	}

	commands, err := s.store.History(r.Context(), n)
	if err != nil {
		s.logger.Error("Failed to read command history", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Failed to read command history")
		return
	}
	if commands == nil {
		commands = []relay.Command{}
	}

	s.writeJSON(w, http.StatusOK, HistoryResponse{Commands: commands})
}

// POST /api/request
func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, "POST, OPTIONS")
		return
	}

	var req AccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, msgMalformedRequest)
		return
	}

	email := validation.SanitizeEmail(req.Email)
	if err := validation.Email(email); err != nil {
		s.writeError(w, http.StatusBadRequest, msgInvalidEmail)
		return
	}

	id := uuid.NewString()
	s.logger.Info("Access request received",
		"id", id,
		"email", email,
		"at", s.now().UTC())

	s.writeJSON(w, http.StatusOK, AccessResponse{OK: true, ID: id})
}

// GET /api/color?hex=|r=&g=&b=|kelvin=|h=&s=&l=|h=&s=&v=
func (s *Server) handleColor(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, "GET, OPTIONS")
		return
	}

	rgb, err := colorFromQuery(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, ColorResponse{
		RGB:        rgb,
		Hex:        color.RGBToHex(rgb),
		HSL:        color.RGBToHSL(rgb),
		HSV:        color.RGBToHSV(rgb),
		Brightness: color.CalculateBrightness(rgb),
		Light:      color.IsLightColor(rgb),
	})
}

// GET /api/power?brightness=&watts=&hex=
func (s *Server) handlePower(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, "GET, OPTIONS")
		return
	}

	q := r.URL.Query()

	watts := float64(scenes.DefaultMaxWattage)
	if v := q.Get("watts"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "watts must be a number")
			return
		}
		if err := validation.PowerUsage(parsed); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		watts = parsed
	}

	brightness, err := strconv.ParseFloat(q.Get("brightness"), 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "brightness must be a number")
		return
	}
	if err := validation.Brightness(brightness); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var rgb *color.RGB
	if hex := q.Get("hex"); hex != "" {
		if err := validation.HexColor(hex); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		parsed, err := color.HexToRGB(hex)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		rgb = &parsed
	}

	s.writeJSON(w, http.StatusOK, PowerResponse{
		Watts: color.CalculatePowerUsage(watts, brightness, rgb),
	})
}

// GET /api/rooms
func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, "GET, OPTIONS")
		return
	}

	rooms := []engine.RoomState{}
	if s.rooms != nil {
		rooms = s.rooms.Snapshot()
	}
	s.writeJSON(w, http.StatusOK, RoomsResponse{Rooms: rooms})
}

// colorFromQuery reads a colour from hex, kelvin, r/g/b or h/s/l|v query parameters
func colorFromQuery(r *http.Request) (color.RGB, error) {
	q := r.URL.Query()

	switch {
	case q.Get("hex") != "":
		return color.HexToRGB(q.Get("hex"))

	case q.Get("kelvin") != "":
		kelvin, err := queryNumber(q, "kelvin")
		if err != nil {
			return color.RGB{}, err
		}
		return color.KelvinToRGB(kelvin), nil

	case q.Get("r") != "" || q.Get("g") != "" || q.Get("b") != "":
		var channels [3]int
		for i, name := range []string{"r", "g", "b"} {
			v, err := queryNumber(q, name)
			if err != nil {
				return color.RGB{}, err
			}
			if err := validation.RGBChannel(v); err != nil {
				return color.RGB{}, err
			}
			channels[i] = int(v)
		}
		return color.RGB{R: channels[0], G: channels[1], B: channels[2]}, nil

	case q.Get("h") != "":
		return colorFromHue(q)
	}

	return color.RGB{}, errors.New("one of hex, r/g/b, h/s/l, h/s/v or kelvin is required")
}

// colorFromHue reads h and s plus one of l (HSL) or v (HSV)
func colorFromHue(q url.Values) (color.RGB, error) {
	h, err := queryNumber(q, "h")
	if err != nil {
		return color.RGB{}, err
	}
	if err := validation.Hue(h); err != nil {
		return color.RGB{}, err
	}
	sat, err := queryNumber(q, "s")
	if err != nil {
		return color.RGB{}, err
	}
	if err := validation.Saturation(sat); err != nil {
		return color.RGB{}, err
	}

	switch {
	case q.Get("l") != "":
		l, err := queryNumber(q, "l")
		if err != nil {
			return color.RGB{}, err
		}
		if err := validation.Percentage(l); err != nil {
			return color.RGB{}, err
		}
		return color.HSLToRGB(color.HSL{H: roundInt(h), S: roundInt(sat), L: roundInt(l)}), nil

	case q.Get("v") != "":
		v, err := queryNumber(q, "v")
		if err != nil {
			return color.RGB{}, err
		}
		if err := validation.Percentage(v); err != nil {
			return color.RGB{}, err
		}
		return color.HSVToRGB(color.HSV{H: roundInt(h), S: roundInt(sat), V: roundInt(v)}), nil
	}

	return color.RGB{}, errors.New("one of l or v is required with h and s")
}

// queryNumber parses a finite number from a query parameter
func queryNumber(q url.Values, name string) (float64, error) {
	v, err := strconv.ParseFloat(q.Get(name), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s must be a number: %q", name, q.Get(name))
	}
	return v, nil
}

func roundInt(v float64) int {
	return int(math.Floor(v + 0.5))
}

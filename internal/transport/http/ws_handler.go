package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"times-table-adventure/internal/app"
	"times-table-adventure/internal/domain"
	"times-table-adventure/internal/game"
	"times-table-adventure/internal/mission"
	"times-table-adventure/internal/settings"
)

// Cue names sent to the renderer; it owns the actual sounds.
const (
	CueButton      = "button"
	CueSuccess     = "success"
	CueMiss        = "miss"
	CueCelebration = "celebration"
)

type WSHandler struct {
	service  *app.Service
	logger   zerolog.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.Service, logger zerolog.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		logger:  logger.With().Str("component", "ws").Logger(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type modePayload struct {
	Mode string `json:"mode"`
}

type patternPayload struct {
	Pattern string `json:"pattern"`
}

type tablePayload struct {
	Table int `json:"table"`
}

type answerPayload struct {
	Answer int `json:"answer"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type cuePayload struct {
	Name string `json:"name"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and attaches the renderer to
// the player's game.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("playerId")
	if playerID == "" {
		http.Error(w, "missing playerId", http.StatusBadRequest)
		return
	}
	logger := h.logger.With().Str("player", playerID).Logger()
	ctx := r.Context()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	if _, err := h.service.Open(ctx, playerID); err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer h.service.Leave(context.Background(), playerID)

	updates, cancel, err := h.service.Subscribe(ctx, playerID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()

	prefs, err := h.service.Settings(ctx, playerID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				logger.Debug().Err(err).Msg("ws write error")
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case view, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "state", Payload: view}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "settings", Payload: prefs}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			logger.Debug().Err(err).Msg("ws read ended")
			break
		}

		if inbound.Type == "updateSettings" {
			var next settings.Preferences
			if err := json.Unmarshal(inbound.Payload, &next); err != nil {
				send <- errorMessage("invalid settings payload")
				continue
			}
			if err := h.service.UpdateSettings(ctx, playerID, next); err != nil {
				send <- errorMessage(err.Error())
				continue
			}
			prefs = next
			send <- outboundMessage[any]{Type: "settings", Payload: prefs}
			continue
		}

		action, err := decodeAction(inbound)
		if err != nil {
			send <- errorMessage(err.Error())
			continue
		}
		out, err := h.service.Dispatch(ctx, playerID, action)
		if err != nil {
			send <- errorMessage(err.Error())
			continue
		}
		if !prefs.SoundEnabled {
			continue
		}
		for _, name := range cuesFor(action, out) {
			send <- outboundMessage[any]{Type: "cue", Payload: cuePayload{Name: name}}
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

func errorMessage(message string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: message}}
}

type badRequest string

func (e badRequest) Error() string { return string(e) }

// decodeAction validates an inbound message into a reducer action.
func decodeAction(inbound inboundMessage) (game.Action, error) {
	switch inbound.Type {
	case "updateMode":
		var p modePayload
		if err := json.Unmarshal(inbound.Payload, &p); err != nil {
			return nil, badRequest("invalid mode payload")
		}
		mode, err := domain.ParseMode(p.Mode)
		if err != nil {
			return nil, err
		}
		return game.UpdateMode{Mode: mode}, nil
	case "updatePattern":
		var p patternPayload
		if err := json.Unmarshal(inbound.Payload, &p); err != nil {
			return nil, badRequest("invalid pattern payload")
		}
		pattern, err := domain.ParsePattern(p.Pattern)
		if err != nil {
			return nil, err
		}
		return game.UpdatePattern{Pattern: pattern}, nil
	case "updateFocusTable":
		var p tablePayload
		if err := json.Unmarshal(inbound.Payload, &p); err != nil {
			return nil, badRequest("invalid table payload")
		}
		if p.Table < mission.MinTable || p.Table > mission.MaxTable {
			return nil, domain.ErrInvalidTable
		}
		return game.UpdateFocusTable{Table: p.Table}, nil
	case "startSession":
		return game.StartSession{}, nil
	case "submitAnswer":
		var p answerPayload
		if err := json.Unmarshal(inbound.Payload, &p); err != nil {
			return nil, badRequest("invalid answer payload")
		}
		return game.SubmitAnswer{Answer: p.Answer}, nil
	case "resetToMenu":
		return game.ResetToMenu{}, nil
	}
	return nil, badRequest("unsupported message type")
}

// cuesFor maps a dispatch outcome onto renderer sound cues.
func cuesFor(action game.Action, out game.Outcome) []string {
	if !out.Applied {
		return nil
	}
	if !out.Answered {
		if _, ok := action.(game.SubmitAnswer); ok {
			return nil
		}
		return []string{CueButton}
	}
	cues := []string{CueMiss}
	if out.Correct {
		cues[0] = CueSuccess
	}
	if out.Perfect {
		cues = append(cues, CueCelebration)
	}
	return cues
}

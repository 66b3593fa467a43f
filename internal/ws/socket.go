// Package ws is the socket transport: it terminates the socket.io
// connections, translates wire events into game calls and fans game
// output back out to the main screen and player rooms.
package ws

import (
	"sync"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/zerolog/log"

	"github.com/AdamJH-ai/handleys-fun-factory/internal/game"
)

const (
	mainRoom    = "main_room"
	playersRoom = "players_room"
)

// Server wraps the socket.io server and implements game.Emitter.
type Server struct {
	io *socketio.Server

	mu    sync.Mutex
	conns map[string]socketio.Conn
}

func New() *Server {
	return &Server{
		io:    socketio.NewServer(nil),
		conns: map[string]socketio.Conn{},
	}
}

func (s *Server) ToPlayers(event string, payload any) {
	s.io.BroadcastToRoom("/", playersRoom, event, payload)
}

func (s *Server) ToDisplay(event string, payload any) {
	s.io.BroadcastToRoom("/", mainRoom, event, payload)
}

func (s *Server) ToPlayer(id, event string, payload any) {
	s.mu.Lock()
	c, ok := s.conns[id]
	s.mu.Unlock()
	if ok {
		c.Emit(event, payload)
	}
}

// Serve starts the socket.io event loop. Run it in its own goroutine.
func (s *Server) Serve() error { return s.io.Serve() }

func (s *Server) Close() error { return s.io.Close() }

// Attach registers the socket endpoint on the router and binds every wire
// event to the game.
func (s *Server) Attach(r *gin.Engine, g *game.Game) {
	s.io.OnConnect("/", func(c socketio.Conn) error {
		s.mu.Lock()
		s.conns[c.ID()] = c
		s.mu.Unlock()
		log.Debug().Str("id", c.ID()).Msg("client connected")
		return nil
	})

	s.io.OnDisconnect("/", func(c socketio.Conn, reason string) {
		s.mu.Lock()
		delete(s.conns, c.ID())
		s.mu.Unlock()
		log.Debug().Str("id", c.ID()).Str("reason", reason).Msg("client disconnected")
		g.Disconnect(c.ID())
	})

	s.io.OnError("/", func(c socketio.Conn, err error) {
		log.Warn().Err(err).Msg("socket error")
	})

	s.io.OnEvent("/", "register_main_screen", func(c socketio.Conn) {
		c.Join(mainRoom)
		g.RegisterDisplay(c.ID())
	})

	s.io.OnEvent("/", "register_player", func(c socketio.Conn, m map[string]any) {
		name, _ := m["name"].(string)
		if err := g.RegisterPlayer(c.ID(), name); err == nil {
			c.Join(playersRoom)
		}
	})

	s.io.OnEvent("/", "start_game_request", func(c socketio.Conn) {
		if err := g.StartGame(c.ID()); err != nil {
			log.Warn().Err(err).Msg("start request rejected")
			c.Emit("message", map[string]any{"data": err.Error()})
		}
	})

	numberEvent := func(event string) {
		s.io.OnEvent("/", event, func(c socketio.Conn, m map[string]any) {
			v, ok := asInt(m["guess"])
			if !ok {
				c.Emit("message", map[string]any{"data": "Invalid guess. Please enter a number."})
				return
			}
			g.HandleSubmission(c.ID(), game.NumberGuess{Value: v})
		})
	}
	numberEvent("submit_gta_guess")
	numberEvent("submit_gty_guess")
	numberEvent("submit_ttp_guess")
	numberEvent("submit_aa_guess")

	s.io.OnEvent("/", "submit_wddi_guess", func(c socketio.Conn, m map[string]any) {
		text, _ := m["guess_text"].(string)
		g.HandleSubmission(c.ID(), game.OptionChoice{Option: text})
	})

	s.io.OnEvent("/", "submit_ou_list", func(c socketio.Conn, m map[string]any) {
		items, ok := asStrings(m["ordered_list"])
		if !ok {
			c.Emit("message", map[string]any{"data": "Invalid submission."})
			return
		}
		g.HandleSubmission(c.ID(), game.OrderedList{Items: items})
	})

	s.io.OnEvent("/", "submit_qp_pairs", func(c socketio.Conn, m map[string]any) {
		pairs, ok := asPairs(m["player_pairs"])
		ms, msOK := asInt(m["time_ms"])
		if !ok || !msOK {
			c.Emit("message", map[string]any{"data": "Invalid submission format or data."})
			return
		}
		g.HandleSubmission(c.ID(), game.PairSet{Pairs: pairs, ElapsedMS: int64(ms)})
	})

	s.io.OnEvent("/", "submit_true_or_false_guess", func(c socketio.Conn, m map[string]any) {
		b, ok := m["guess"].(bool)
		if !ok {
			c.Emit("message", map[string]any{"data": "Invalid answer."})
			return
		}
		g.HandleSubmission(c.ID(), game.BoolGuess{Value: b})
	})

	s.io.OnEvent("/", "submit_top_three_guess", func(c socketio.Conn, m map[string]any) {
		picks, ok := asStrings(m["guess"])
		if !ok {
			c.Emit("message", map[string]any{"data": "Invalid submission."})
			return
		}
		g.HandleSubmission(c.ID(), game.TopPicks{Choices: picks})
	})

	// The higher-or-lower event carries either the submitter's number or a
	// guesser's direction, depending on the turn stage.
	s.io.OnEvent("/", "submit_hol_guess", func(c socketio.Conn, m map[string]any) {
		switch v := m["guess"].(type) {
		case string:
			g.HandleSubmission(c.ID(), game.DirectionGuess{Direction: v})
		default:
			if n, ok := asInt(v); ok {
				g.HandleSubmission(c.ID(), game.NumberGuess{Value: n})
			} else {
				c.Emit("message", map[string]any{"data": "Invalid guess. Please enter a number."})
			}
		}
	})

	s.io.OnEvent("/", "submit_team_pick", func(c socketio.Conn, m map[string]any) {
		picked, _ := m["picked_sid"].(string)
		g.HandleSubmission(c.ID(), game.TeamPick{PlayerID: picked})
	})

	r.GET("/socket.io/*any", gin.WrapH(s.io))
	r.POST("/socket.io/*any", gin.WrapH(s.io))
}

// asInt coerces a decoded JSON value to an int. Floats truncate the way the
// clients already expect.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	}
	return 0, false
}

func asStrings(v any) ([]string, bool) {
	raw, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		s, ok := e.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

func asPairs(v any) ([][]string, bool) {
	raw, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([][]string, 0, len(raw))
	for _, e := range raw {
		pair, ok := asStrings(e)
		if !ok {
			return nil, false
		}
		out = append(out, pair)
	}
	return out, true
}

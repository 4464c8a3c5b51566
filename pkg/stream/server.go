// Package stream runs a solver headless and streams rendered frames to
// websocket clients, which send pointer input back.
package stream

import (
	"context"
	"encoding/binary"
	"fmt"
	"image"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/TheFellow/fluid/pkg/emitter"
	"github.com/TheFellow/fluid/pkg/fluid"
	"github.com/TheFellow/fluid/pkg/render"
)

const writeWait = time.Second

// Event is a client message. Pointer and obstacle events carry grid
// coordinates; "mode" and "scheme" events carry a name.
type Event struct {
	Type   string  `json:"type"` // down, move, up, obstacle, reset, mode, scheme
	ID     int     `json:"id"`
	X      float32 `json:"x"`
	Y      float32 `json:"y"`
	Name   string  `json:"name,omitempty"`
	Radius int     `json:"radius,omitempty"`
	Clear  bool    `json:"clear,omitempty"` // obstacle events erase instead of paint
}

// Server owns a solver and its emitter. All access to them goes through mu,
// so client input lands between ticks.
type Server struct {
	log *log.Logger
	tps int

	mu      sync.Mutex
	fluid   *fluid.Fluid
	emitter *emitter.Emitter
	mode    render.Mode
	snap    fluid.Snapshot
	img     *image.RGBA
	last    []byte // most recent encoded frame, never modified once published
	ticks   uint64

	upgrader     websocket.Upgrader
	clients      map[*websocket.Conn]*sync.Mutex
	clientsMutex sync.RWMutex
}

// New returns a server that advances f at tps ticks per second.
func New(f *fluid.Fluid, e *emitter.Emitter, tps int, logger *log.Logger) *Server {
	s := &Server{
		log:     logger,
		tps:     max(1, tps),
		fluid:   f,
		emitter: e,
		img:     render.NewImage(f.Grid()),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}
	s.mu.Lock()
	s.renderLocked()
	s.mu.Unlock()
	return s
}

// Handler serves the websocket endpoint at /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

// Run ticks the solver until ctx is cancelled, broadcasting a frame after
// every tick. Open connections are closed on return.
func (s *Server) Run(ctx context.Context) error {
	dt := 1 / float32(s.tps)
	ticker := time.NewTicker(time.Second / time.Duration(s.tps))
	defer ticker.Stop()
	defer s.closeClients()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.broadcast(s.step(dt))
		}
	}
}

// step advances the solver by dt and returns the new frame.
func (s *Server) step(dt float32) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fluid.Tick(dt, s.emitter)
	s.ticks++
	return s.renderLocked()
}

func (s *Server) renderLocked() []byte {
	s.fluid.Snapshot(&s.snap)
	render.Draw(s.img, &s.snap, s.mode)
	s.last = encodeFrame(s.img)
	return s.last
}

// encodeFrame lays out a frame as little-endian uint32 width and height
// followed by the RGBA pixels, row by row.
func encodeFrame(img *image.RGBA) []byte {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	frame := make([]byte, 8+4*w*h)
	binary.LittleEndian.PutUint32(frame[0:], uint32(w))
	binary.LittleEndian.PutUint32(frame[4:], uint32(h))
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+4*w]
		copy(frame[8+4*w*y:], row)
	}
	return frame
}

// Apply handles one client event.
func (s *Server) Apply(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Type {
	case "down":
		s.emitter.Down(ev.ID, ev.X, ev.Y)
	case "move":
		s.emitter.Move(ev.ID, ev.X, ev.Y)
	case "up":
		s.emitter.Up(ev.ID)
	case "obstacle":
		g := s.fluid.Grid()
		if ev.X < 0 || ev.Y < 0 || !g.Contains(int(ev.X), int(ev.Y)) {
			return fmt.Errorf("obstacle at (%g, %g) is off the %dx%d grid", ev.X, ev.Y, g.W, g.H)
		}
		if ev.Radius < 0 {
			return fmt.Errorf("negative obstacle radius %d", ev.Radius)
		}
		s.fluid.PaintObstacle(int(ev.X), int(ev.Y), ev.Radius, !ev.Clear)
	case "reset":
		s.fluid.Reset()
	case "mode":
		m, err := render.ParseMode(ev.Name)
		if err != nil {
			return err
		}
		s.mode = m
	case "scheme":
		scheme, err := fluid.ParseScheme(ev.Name)
		if err != nil {
			return err
		}
		return s.fluid.SetScheme(scheme)
	default:
		return fmt.Errorf("unknown event type %q", ev.Type)
	}
	return nil
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Println("websocket upgrade error:", err)
		return
	}
	defer conn.Close()

	connMutex := &sync.Mutex{}
	s.clientsMutex.Lock()
	s.clients[conn] = connMutex
	s.clientsMutex.Unlock()
	defer s.removeClient(conn)

	s.mu.Lock()
	frame := s.last
	s.mu.Unlock()
	connMutex.Lock()
	err = writeFrame(conn, frame)
	connMutex.Unlock()
	if err != nil {
		s.log.Println("websocket write error:", err)
		return
	}

	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Println("websocket read error:", err)
			}
			return
		}
		if err := s.Apply(ev); err != nil {
			s.log.Println("bad event:", err)
		}
	}
}

func writeFrame(conn *websocket.Conn, frame []byte) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.BinaryMessage, frame)
}

func (s *Server) broadcast(frame []byte) {
	s.clientsMutex.RLock()
	clientsToRemove := []*websocket.Conn{}
	for client, mutex := range s.clients {
		mutex.Lock()
		err := writeFrame(client, frame)
		mutex.Unlock()
		if err != nil {
			s.log.Println("websocket write error:", err)
			client.Close()
			clientsToRemove = append(clientsToRemove, client)
		}
	}
	s.clientsMutex.RUnlock()

	for _, client := range clientsToRemove {
		s.removeClient(client)
	}
}

func (s *Server) removeClient(conn *websocket.Conn) {
	s.clientsMutex.Lock()
	delete(s.clients, conn)
	s.clientsMutex.Unlock()
}

func (s *Server) closeClients() {
	s.clientsMutex.Lock()
	defer s.clientsMutex.Unlock()
	for client, mutex := range s.clients {
		mutex.Lock()
		msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server stopping")
		_ = client.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		mutex.Unlock()
		client.Close()
		delete(s.clients, client)
	}
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	s.clientsMutex.RLock()
	defer s.clientsMutex.RUnlock()
	return len(s.clients)
}

// Ticks returns how many ticks have run.
func (s *Server) Ticks() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

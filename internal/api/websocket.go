package api

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/printshop/printsim/internal/core"
)

// wsEvent is the envelope every broadcast message is wrapped in, so a
// browser client can dispatch on Event without parsing Data first.
type wsEvent struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// wsClient is one connected /events subscriber.
type wsClient struct {
	id   string
	conn *websocket.Conn
	send chan wsEvent
	mu   sync.Mutex
}

func (c *wsClient) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		c.mu.Lock()
		err := c.conn.WriteJSON(msg)
		c.mu.Unlock()
		if err != nil {
			return
		}
	}
}

// readPump only exists to notice the client going away; this is a
// one-way event feed, so any inbound message is ignored.
func (c *wsClient) readPump(b *WSBroadcaster) {
	defer func() {
		b.remove(c)
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// WSBroadcaster is a core.Emitter backend that fans every simulation
// event out to every currently connected websocket client, per
// spec.md's "any frontend is a pluggable consumer" design.
type WSBroadcaster struct {
	core.NoopEmitter

	mu      sync.RWMutex
	clients map[string]*wsClient
}

func NewWSBroadcaster() *WSBroadcaster {
	return &WSBroadcaster{clients: make(map[string]*wsClient)}
}

func (b *WSBroadcaster) add(c *wsClient) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clients[c.id] = c
}

func (b *WSBroadcaster) remove(c *wsClient) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.clients[c.id]; ok {
		delete(b.clients, c.id)
		close(c.send)
	}
}

func (b *WSBroadcaster) broadcast(event string, data interface{}) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	msg := wsEvent{Event: event, Data: data}
	for _, c := range b.clients {
		select {
		case c.send <- msg:
		default:
			// Slow client; drop the event rather than block the
			// simulation's own goroutine.
		}
	}
}

func (s *Server) handleWebSocket(c *gin.Context) {
	if s.broadcaster == nil {
		c.JSON(400, gin.H{"error": "event streaming is not enabled"})
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := &wsClient{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan wsEvent, 256),
	}
	s.broadcaster.add(client)

	go client.writePump()
	go client.readPump(s.broadcaster)
}

func (b *WSBroadcaster) SimulationParameters(p core.Parameters) { b.broadcast("simulation_parameters", p) }
func (b *WSBroadcaster) SimulationStart(r core.Report)          { b.broadcast("simulation_start", r) }
func (b *WSBroadcaster) SimulationEnd(r core.Report)            { b.broadcast("simulation_end", r) }
func (b *WSBroadcaster) SimulationStopped(r core.Report)        { b.broadcast("simulation_stopped", r) }

func (b *WSBroadcaster) SystemArrival(j core.Job, _ int64, r core.Report) {
	b.broadcast("system_arrival", map[string]interface{}{"job": j, "report": r})
}

func (b *WSBroadcaster) DroppedJob(j core.Job, _ int64, r core.Report) {
	b.broadcast("dropped_job", map[string]interface{}{"job": j, "report": r})
}

func (b *WSBroadcaster) RemovedJob(j core.Job) { b.broadcast("removed_job", j) }

func (b *WSBroadcaster) QueueArrival(j core.Job, r core.Report, queueLength int, _ int64) {
	b.broadcast("queue_arrival", map[string]interface{}{"job": j, "report": r, "queue_length": queueLength})
}

func (b *WSBroadcaster) QueueDeparture(j core.Job, r core.Report, queueLength int, _ int64) {
	b.broadcast("queue_departure", map[string]interface{}{"job": j, "report": r, "queue_length": queueLength})
}

func (b *WSBroadcaster) PrinterArrival(j core.Job, printerID int) {
	b.broadcast("printer_arrival", map[string]interface{}{"job": j, "printer_id": printerID})
}

func (b *WSBroadcaster) SystemDeparture(j core.Job, printerID int, r core.Report) {
	b.broadcast("system_departure", map[string]interface{}{"job": j, "printer_id": printerID, "report": r})
}

func (b *WSBroadcaster) PaperEmpty(printerID, jobID int, nowUS int64) {
	b.broadcast("paper_empty", map[string]interface{}{"printer_id": printerID, "job_id": jobID, "now_us": nowUS})
}

func (b *WSBroadcaster) PaperRefillStart(printerID, papersNeeded int, durationUS, nowUS int64) {
	b.broadcast("paper_refill_start", map[string]interface{}{
		"printer_id": printerID, "papers_needed": papersNeeded, "duration_us": durationUS, "now_us": nowUS,
	})
}

func (b *WSBroadcaster) PaperRefillEnd(printerID int, actualDurationUS, nowUS int64) {
	b.broadcast("paper_refill_end", map[string]interface{}{
		"printer_id": printerID, "actual_duration_us": actualDurationUS, "now_us": nowUS,
	})
}

func (b *WSBroadcaster) ScaleUp(newPrinterCount, queueLength int, nowUS int64) {
	b.broadcast("scale_up", map[string]interface{}{"printer_count": newPrinterCount, "queue_length": queueLength, "now_us": nowUS})
}

func (b *WSBroadcaster) ScaleDown(newPrinterCount, queueLength int, nowUS int64) {
	b.broadcast("scale_down", map[string]interface{}{"printer_count": newPrinterCount, "queue_length": queueLength, "now_us": nowUS})
}

func (b *WSBroadcaster) PrinterIdle(printerID int) { b.broadcast("printer_idle", map[string]interface{}{"printer_id": printerID}) }

func (b *WSBroadcaster) PrinterBusy(printerID, jobID int) {
	b.broadcast("printer_busy", map[string]interface{}{"printer_id": printerID, "job_id": jobID})
}

func (b *WSBroadcaster) PrinterWaitingRefill(printerID, jobID int) {
	b.broadcast("printer_waiting_refill", map[string]interface{}{"printer_id": printerID, "job_id": jobID})
}

func (b *WSBroadcaster) StatsUpdate(r core.Report, queueLength int) {
	b.broadcast("stats_update", map[string]interface{}{"report": r, "queue_length": queueLength})
}

func (b *WSBroadcaster) Statistics(r core.Report) { b.broadcast("statistics", r) }

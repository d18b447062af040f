// Package api exposes the simulation's runtime control surface and live
// event stream over HTTP and WebSocket.
package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/printshop/printsim/internal/core"
	"github.com/printshop/printsim/internal/labels"
	"github.com/printshop/printsim/internal/runtime"
)

// Server is the HTTP/WebSocket front end over a runtime.Manager.
type Server struct {
	router      *gin.Engine
	manager     *runtime.Manager
	labels      *labels.Store
	upgrader    websocket.Upgrader
	broadcaster *WSBroadcaster
}

// NewServer builds a Server. broadcaster may be nil if no websocket
// fan-out is wired up for this process, and labelStore may be nil if
// operator-assigned printer names aren't persisted in this process.
func NewServer(manager *runtime.Manager, broadcaster *WSBroadcaster, labelStore *labels.Store) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()
	router.Use(corsMiddleware())

	s := &Server{
		router:      router,
		manager:     manager,
		labels:      labelStore,
		broadcaster: broadcaster,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.POST("/simulation/start", s.handleStart)
	s.router.POST("/simulation/stop", s.handleStop)
	s.router.GET("/simulation/status", s.handleStatus)
	s.router.GET("/simulation/statistics", s.handleStatistics)
	s.router.GET("/printers", s.handlePrinters)
	s.router.PUT("/printers/:id/label", s.handleSetLabel)

	s.router.GET("/events", s.handleWebSocket)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

func (s *Server) handleStart(c *gin.Context) {
	var override runtime.StartRequest
	// Body is optional: a bare POST with no body starts with base
	// parameters unmodified.
	_ = c.ShouldBindJSON(&override)

	res := s.manager.Start(override.ToParameters())
	writeResult(c, res)
}

func (s *Server) handleStop(c *gin.Context) {
	writeResult(c, s.manager.Stop())
}

func (s *Server) handleStatus(c *gin.Context) {
	writeResult(c, s.manager.Status())
}

func (s *Server) handleStatistics(c *gin.Context) {
	writeResult(c, s.manager.Statistics())
}

func (s *Server) handlePrinters(c *gin.Context) {
	res := s.manager.Printers()
	if s.labels != nil && res.Success {
		if printers, ok := res.Data["printers"].([]core.PrinterSnapshot); ok {
			out := make([]printerView, len(printers))
			for i, p := range printers {
				out[i] = printerView{PrinterSnapshot: p, Name: s.labels.Get(p.ID)}
			}
			res.Data["printers"] = out
		}
	}
	writeResult(c, res)
}

// printerView adds an operator-assigned label to a printer snapshot for
// API responses, without core itself knowing about label persistence.
type printerView struct {
	core.PrinterSnapshot
	Name string `json:"name,omitempty"`
}

// handleSetLabel assigns a friendly name to a printer pool slot. It
// persists independently of any running simulation, since slot IDs are
// stable across runs.
func (s *Server) handleSetLabel(c *gin.Context) {
	if s.labels == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "printer labels are not enabled"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid printer id"})
		return
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.labels.Set(id, body.Name); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": id, "name": body.Name})
}

func writeResult(c *gin.Context, res *runtime.Result) {
	status := http.StatusOK
	if !res.Success {
		status = http.StatusBadRequest
	}
	c.JSON(status, res)
}

// Run starts the HTTP server, blocking until it exits.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Package web provides the real-time dashboard for go-leveler: live tilt
// readings, tuning dials, and the intake endpoint for device-orientation
// samples streamed from a phone browser.
package web

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/framewright/go-leveler/internal/log"
	"github.com/framewright/go-leveler/pkg/camera"
	"github.com/framewright/go-leveler/pkg/hub"
	"github.com/framewright/go-leveler/pkg/pipeline"
	"github.com/framewright/go-leveler/pkg/sensor"
)

// State is the dashboard snapshot broadcast after every frame pass.
type State struct {
	Time               string                    `json:"time"`
	CameraTilt         float64                   `json:"camera_tilt"`
	DeviceTilt         float64                   `json:"device_tilt"`
	FusedTilt          float64                   `json:"fused_tilt"`
	SensorFusionActive bool                      `json:"sensor_fusion_active"`
	Objects            []pipeline.DetectedObject `json:"objects"`
}

// Server is the dashboard server.
type Server struct {
	app  *fiber.App
	port string

	pipeline *pipeline.Pipeline
	monitor  *sensor.Monitor
	cameras  *camera.Manager

	stateMu   sync.RWMutex
	lastState State

	// Hubs for websocket broadcast
	stateHub  *hub.Hub
	cameraHub *hub.Hub
}

// NewServer creates the dashboard around a pipeline, sensor monitor and
// camera manager.
func NewServer(port string, p *pipeline.Pipeline, m *sensor.Monitor, cm *camera.Manager) *Server {
	s := &Server{
		port:      port,
		pipeline:  p,
		monitor:   m,
		cameras:   cm,
		stateHub:  hub.New("state"),
		cameraHub: hub.New("camera"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Leveler Dashboard",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	// Static files
	app.Static("/", "./web")

	// API routes
	api := app.Group("/api")
	api.Get("/state", s.handleState)
	api.Get("/tuning", s.handleGetTuning)
	api.Post("/tuning", s.handleSetTuning)
	api.Get("/camera", s.handleGetCamera)
	api.Post("/camera", s.handleSetCamera)
	api.Post("/reset", s.handleReset)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket routes
	app.Get("/ws/state", websocket.New(s.handleStateWS))
	app.Get("/ws/camera", websocket.New(s.handleCameraWS))
	app.Get("/ws/orientation", websocket.New(s.handleOrientationWS))

	s.app = app
	return s
}

// Start starts the dashboard server. Blocks.
func (s *Server) Start() error {
	log.Info("dashboard listening", "port", s.port)

	go s.stateHub.Run()
	go s.cameraHub.Run()

	return s.app.Listen(":" + s.port)
}

// StartAsync starts the server in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("dashboard server failed", "err", err)
		}
	}()
}

// PublishState snapshots the pipeline and broadcasts it to state clients.
// Called by the frame loop after each completed pass.
func (s *Server) PublishState(objects []pipeline.DetectedObject) {
	state := State{
		Time:               time.Now().Format("15:04:05.000"),
		CameraTilt:         s.pipeline.CameraTilt(),
		DeviceTilt:         s.pipeline.DeviceTilt(),
		FusedTilt:          s.pipeline.FusedTilt(),
		SensorFusionActive: s.pipeline.SensorFusionActive(),
		Objects:            objects,
	}

	s.stateMu.Lock()
	s.lastState = state
	s.stateMu.Unlock()

	s.stateHub.BroadcastJSON(state)
}

// PublishFrame broadcasts an annotated JPEG to camera clients.
func (s *Server) PublishFrame(jpeg []byte) {
	s.cameraHub.BroadcastBinary(jpeg)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

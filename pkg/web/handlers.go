package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/framewright/go-leveler/pkg/camera"
	"github.com/framewright/go-leveler/pkg/hub"
	"github.com/framewright/go-leveler/pkg/pipeline"
)

// handleState returns the latest pipeline snapshot.
func (s *Server) handleState(c *fiber.Ctx) error {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return c.JSON(s.lastState)
}

// handleGetTuning returns the current dial positions.
func (s *Server) handleGetTuning(c *fiber.Ctx) error {
	return c.JSON(s.pipeline.GetTuningParams())
}

// handleSetTuning applies dial changes. Zero-valued fields are left alone,
// so clients can PATCH a single dial.
func (s *Server) handleSetTuning(c *fiber.Ctx) error {
	var params pipeline.TuningParams
	if err := c.BodyParser(&params); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid tuning payload")
	}
	s.pipeline.SetTuningParams(params)
	return c.JSON(s.pipeline.GetTuningParams())
}

// handleGetCamera returns the camera configuration.
func (s *Server) handleGetCamera(c *fiber.Ctx) error {
	return c.JSON(s.cameras.GetConfig())
}

// handleSetCamera applies a camera configuration.
func (s *Server) handleSetCamera(c *fiber.Ctx) error {
	var cfg camera.Config
	if err := c.BodyParser(&cfg); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid camera payload")
	}
	if err := s.cameras.SetConfig(cfg); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(s.cameras.GetConfig())
}

// handleReset clears all estimator state, as when repointing the camera.
func (s *Server) handleReset(c *fiber.Ctx) error {
	s.pipeline.Reset()
	return c.SendStatus(fiber.StatusNoContent)
}

// handleStateWS streams pipeline snapshots.
func (s *Server) handleStateWS(c *websocket.Conn) {
	client := hub.NewClient(s.stateHub, c)
	client.Run()
}

// handleCameraWS streams annotated frames.
func (s *Server) handleCameraWS(c *websocket.Conn) {
	client := hub.NewClient(s.cameraHub, c)
	client.Run()
}

// handleOrientationWS receives device-orientation samples from a browser.
// Each text message is one JSON sample; malformed payloads are dropped by
// the monitor without closing the stream.
func (s *Server) handleOrientationWS(c *websocket.Conn) {
	s.monitor.SourceConnected()
	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			return
		}
		s.monitor.IngestJSON(data)
	}
}

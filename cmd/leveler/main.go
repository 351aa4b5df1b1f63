// Leveler - real-time picture-frame tilt estimation.
//
// Captures frames from a local camera, estimates how far each detected
// picture frame leans from true vertical, and serves a live dashboard.
// Device tilt can be streamed in from a phone browser over the
// /ws/orientation websocket to sharpen the compensation.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/framewright/go-leveler/internal/config"
	"github.com/framewright/go-leveler/internal/log"
	"github.com/framewright/go-leveler/pkg/camera"
	"github.com/framewright/go-leveler/pkg/orientation"
	"github.com/framewright/go-leveler/pkg/pipeline"
	"github.com/framewright/go-leveler/pkg/sensor"
	"github.com/framewright/go-leveler/pkg/vision"
	"github.com/framewright/go-leveler/pkg/web"
)

func main() {
	port := flag.String("port", config.WebPort(), "dashboard port")
	cameraID := flag.Int("camera", config.CameraID(), "capture device index")
	smoothing := flag.Int("smoothing", 0, "orientation smoothing level 1-10 (0 = default)")
	sensitivity := flag.Int("sensitivity", 0, "stabilizer sensitivity level 1-10 (0 = default)")
	flag.Parse()

	log.Init(config.LogLevel())

	fmt.Println("📐 go-leveler")
	fmt.Printf("   Dashboard: http://localhost:%s\n", *port)

	// Camera
	cameras := camera.NewManager()
	camCfg := cameras.GetConfig()
	camCfg.DeviceID = *cameraID
	cap, err := camera.Open(camCfg)
	if err != nil {
		log.Error("camera open failed", "err", err)
		os.Exit(1)
	}
	defer cap.Close()

	// Vision
	detector := vision.NewOpenCV(vision.DefaultConfig())
	defer detector.Close()

	// Pipeline + sensor intake. The monitor forwards samples into the
	// pipeline, which in turn asks the monitor whether fusion is active.
	var p *pipeline.Pipeline
	monitor := sensor.NewMonitor(func(s *orientation.Sample) {
		p.IngestOrientation(s)
	})

	pipeCfg := pipeline.DefaultConfig()
	pipeCfg.FrameHeight = float64(camCfg.Height)
	if *smoothing > 0 {
		pipeCfg.SmoothingLevel = *smoothing
	}
	if *sensitivity > 0 {
		pipeCfg.Sensitivity = *sensitivity
	}
	p = pipeline.New(pipeCfg, detector, monitor)

	// Dashboard
	server := web.NewServer(*port, p, monitor, cameras)
	server.StartAsync()

	// Handle Ctrl+C
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n👋 Shutting down")
		cancel()
	}()

	// Frame loop
	interval := time.Second / time.Duration(camCfg.Framerate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("frame loop started", "fps", camCfg.Framerate, "camera", *cameraID)

	for {
		select {
		case <-ctx.Done():
			server.Shutdown()
			return

		case <-ticker.C:
			frame, err := cap.CaptureJPEG()
			if err != nil {
				log.Warn("frame capture failed", "err", err)
				continue
			}

			objects := p.DetectFrames(frame)
			server.PublishState(objects)
			server.PublishFrame(frame)
		}
	}
}

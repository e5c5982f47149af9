package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"github.com/geocache/stc/internal/stclog"
)

// Application runs an RTP listener for one worker node and registers
// its connection with stcserver's scheduler on startup, mirroring
// ethpandaops-cbt's worker.Application{Start,Stop} split.
type Application struct {
	cfg *WorkerConfig
	log zerolog.Logger

	listener net.Listener
	id       string
}

// NewApplication constructs an Application for cfg.
func NewApplication(cfg *WorkerConfig) *Application {
	return &Application{cfg: cfg}
}

// Start opens the RTP listener, begins accepting connections, and
// registers this worker with the scheduler.
func (a *Application) Start() error {
	a.log = stclog.Build(stclog.Config{Level: a.cfg.Logging, Component: "stcworker"}, os.Stdout)
	a.id = a.cfg.NodeID + "-" + stclog.NewID()

	ln, err := net.Listen("tcp", a.cfg.Addr)
	if err != nil {
		return fmt.Errorf("stcworker: listen: %w", err)
	}
	a.listener = ln

	go a.acceptLoop()

	if err := a.registerWithScheduler(); err != nil {
		a.log.Warn().Err(err).Msg("stcworker: could not register with scheduler")
	}

	a.log.Info().Str("addr", a.cfg.Addr).Str("node_id", a.cfg.NodeID).Msg("stcworker started")
	return nil
}

// Stop closes the RTP listener, refusing any further connections.
func (a *Application) Stop() error {
	if a.listener == nil {
		return nil
	}
	return a.listener.Close()
}

func (a *Application) acceptLoop() {
	for {
		conn, err := a.listener.Accept()
		if err != nil {
			return
		}
		go handleConn(conn, a.log)
	}
}

type registerRequest struct {
	ID      string `json:"id"`
	NodeID  string `json:"node_id"`
	Timeout string `json:"timeout,omitempty"`
}

// registerWithScheduler posts this worker's identity to stcserver's
// /workers endpoint, so the DQM Controller knows to schedule jobs onto
// this node's connection.
func (a *Application) registerWithScheduler() error {
	body, err := json.Marshal(registerRequest{
		ID:      a.id,
		NodeID:  a.cfg.NodeID,
		Timeout: a.cfg.DispatchTimeout.String(),
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.RegisterTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.SchedulerAddr+"/workers", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("stcworker: register: scheduler returned %s", resp.Status)
	}
	return nil
}

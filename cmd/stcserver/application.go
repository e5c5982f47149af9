package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/geocache/stc/internal/cache/redisstore"
	"github.com/geocache/stc/internal/cache/remote"
	"github.com/geocache/stc/internal/cachemanager"
	coreconfig "github.com/geocache/stc/internal/core/config"
	"github.com/geocache/stc/internal/core/server"
	"github.com/geocache/stc/internal/dqm"
	"github.com/geocache/stc/internal/dqm/bema"
	"github.com/geocache/stc/internal/dqm/dema"
	"github.com/geocache/stc/internal/dqm/eventbus"
	"github.com/geocache/stc/internal/dqm/simple"
	"github.com/geocache/stc/internal/evict"
	"github.com/geocache/stc/internal/geoindex"
	"github.com/geocache/stc/internal/jobregistry"
	"github.com/geocache/stc/internal/payload"
	"github.com/geocache/stc/internal/stclog"
)

// Application wires the cache manager, the DQM controller, and the
// HTTP surface together, grounded on ethpandaops-cbt's
// coordinator.Application{Start,Stop} split.
type Application struct {
	cfg *ServerConfig
	log zerolog.Logger

	controller *dqm.Controller
	publisher  *eventbus.Publisher

	cancel context.CancelFunc
	done   chan error
}

// NewApplication constructs an Application for cfg.
func NewApplication(cfg *ServerConfig) *Application {
	return &Application{cfg: cfg}
}

// alwaysReady reports the process ready as soon as it can serve HTTP:
// stcserver keeps no Kafka consumer group of its own (that's the
// external observer's concern, via internal/dqm/eventbus.Consumer), so
// there is no partition-assignment state to report.
type alwaysReady struct{}

func (alwaysReady) Readiness() (bool, []int32) { return true, nil }

func identityRecreate(req jobregistry.Request) jobregistry.Request { return req }

// Start initializes the cache backend and the DQM controller, then
// serves HTTP until Stop is called.
func (a *Application) Start() error {
	a.log = stclog.Build(stclog.Config{Level: a.cfg.Logging, Component: "stcserver"}, os.Stdout)
	slogger := stclog.NewSlog(&a.log)

	if err := a.initCache(); err != nil {
		return fmt.Errorf("stcserver: cache: %w", err)
	}

	placement, err := a.buildPlacement()
	if err != nil {
		return fmt.Errorf("stcserver: placement: %w", err)
	}

	opts := []dqm.Option{dqm.WithLogger(&a.log)}
	if a.cfg.Kafka.Enabled {
		pub, err := eventbus.NewPublisher(eventbus.Config{
			Brokers: a.cfg.Kafka.Brokers,
			Topic:   a.cfg.Kafka.Topic,
			GroupID: a.cfg.Kafka.GroupID,
		})
		if err != nil {
			return fmt.Errorf("stcserver: eventbus: %w", err)
		}
		a.publisher = pub
		opts = append(opts, dqm.WithEventPublisher(pub))
	}

	reg := jobregistry.New()
	a.controller = dqm.NewController(reg, placement, a.cfg.DQM.Strategy, identityRecreate, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.done = make(chan error, 1)

	// No connection-fault source feeds this channel directly: worker
	// loss is detected by the control loop's own deadline sweep
	// (Controller.Run's ticker branch), not by an external event feed.
	events := make(chan dqm.ConnEvent)
	go a.controller.Run(ctx, events, a.cfg.DQM.Tick)

	coreCfg := coreconfig.FromEnv()
	coreCfg.Addr = a.cfg.Addr
	coreCfg.Worker.Timeout = a.cfg.DQM.Timeout

	go func() {
		a.done <- server.Run(ctx, coreCfg, slogger, alwaysReady{}, a.controller, a.controller)
	}()

	a.log.Info().Str("addr", a.cfg.Addr).Str("dqm_strategy", a.cfg.DQM.Strategy).Msg("stcserver started")
	return nil
}

// Stop cancels the control loop and HTTP server and waits for both to
// exit, then releases any Kafka producer.
func (a *Application) Stop() error {
	if a.cancel != nil {
		a.cancel()
	}
	var err error
	if a.done != nil {
		err = <-a.done
	}
	if a.publisher != nil {
		if cerr := a.publisher.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

func (a *Application) initCache() error {
	if !a.cfg.Cache.Enabled {
		cachemanager.Init(cachemanager.DisabledManager{})
		return nil
	}

	if a.cfg.Cache.Type == "remote" {
		return a.initRemoteCache()
	}
	return a.initLocalCache()
}

func (a *Application) initLocalCache() error {
	budgets := cachemanager.SizeBudget{
		payload.KindRaster:   a.cfg.Cache.Sizes.Raster,
		payload.KindPoints:   a.cfg.Cache.Sizes.Points,
		payload.KindLines:    a.cfg.Cache.Sizes.Lines,
		payload.KindPolygons: a.cfg.Cache.Sizes.Polygons,
		payload.KindPlot:     a.cfg.Cache.Sizes.Plots,
	}
	cachemanager.Init(cachemanager.NewLocalManager(budgets, evict.Name(a.cfg.Cache.Replacement), &a.log))
	return nil
}

func (a *Application) initRemoteCache() error {
	client, err := redisstore.New(context.Background(), a.cfg.Cache.RedisAddr)
	if err != nil {
		return fmt.Errorf("stcserver: redis: %w", err)
	}

	stores := map[payload.Kind]*remote.Store{
		payload.KindRaster:   remote.New(client, payload.KindRaster.String(), 0),
		payload.KindPoints:   remote.New(client, payload.KindPoints.String(), 0),
		payload.KindLines:    remote.New(client, payload.KindLines.String(), 0),
		payload.KindPolygons: remote.New(client, payload.KindPolygons.String(), 0),
		payload.KindPlot:     remote.New(client, payload.KindPlot.String(), 0),
	}
	cachemanager.Init(cachemanager.NewRemoteManager(stores))
	return nil
}

func (a *Application) buildPlacement() (dqm.Placement, error) {
	switch a.cfg.DQM.Strategy {
	case "dema":
		opts, err := a.localityOptions()
		if err != nil {
			return nil, err
		}
		return dema.New(a.cfg.DQM.Nodes, a.cfg.DQM.Alpha, opts...), nil
	case "bema":
		return bema.New(a.cfg.DQM.Nodes, a.cfg.DQM.Alpha), nil
	case "simple", "":
		return simple.New(), nil
	default:
		return nil, fmt.Errorf("stcserver: unknown dqm strategy %q", a.cfg.DQM.Strategy)
	}
}

// localityOptions builds the dema.Manager options implied by the DQM
// config's locality settings. A handful of configured nodes score
// fine with a linear scan; the H3 pre-filter only earns its keep once
// cfg.DQM.LocalityEnabled says the deployment expects more than that.
func (a *Application) localityOptions() ([]dema.Option, error) {
	if !a.cfg.DQM.LocalityEnabled {
		return nil, nil
	}
	idx, err := geoindex.New(a.cfg.DQM.LocalityRes)
	if err != nil {
		return nil, fmt.Errorf("stcserver: build locality index: %w", err)
	}
	return []dema.Option{dema.WithLocalityIndex(idx)}, nil
}

// Package vulcan assembles the DMX controller engine: serial transport,
// universe state, output scheduler, backup syncer, command gateway, and
// the HTTP service.
package vulcan

import (
	"fmt"

	"github.com/vulcan-lighting/vulcan/src/backup"
	"github.com/vulcan-lighting/vulcan/src/config"
	"github.com/vulcan-lighting/vulcan/src/dmx"
	"github.com/vulcan-lighting/vulcan/src/gateway"
	"github.com/vulcan-lighting/vulcan/src/scheduler"
	"github.com/vulcan-lighting/vulcan/src/service"
	"github.com/vulcan-lighting/vulcan/src/transport"
)

// Vulcan is the top-level engine. Init wires the components together in
// dependency order; Run starts the output loop and blocks until shutdown
// or transport failure.
type Vulcan struct {
	Config    *config.Config
	Universe  *dmx.UniverseState
	Transport transport.Transport
	Scheduler *scheduler.Scheduler
	Store     backup.SnapshotStore
	Syncer    *backup.Syncer
	Gateway   *gateway.Gateway
	Service   *service.Service
}

// NewVulcan ...
func NewVulcan(config *config.Config) *Vulcan {
	engine := &Vulcan{
		Config: config,
	}

	return engine
}

func (v *Vulcan) initTransport() error {
	if v.Transport != nil {
		return nil
	}

	if v.Config.Device == "" {
		return fmt.Errorf("no serial device configured")
	}

	trans, err := transport.NewSerialTransport(v.Config.Device, v.Config.Logger())
	if err != nil {
		return err
	}

	v.Transport = trans

	return nil
}

func (v *Vulcan) initStore() error {
	if v.Store != nil {
		return nil
	}

	logger := v.Config.Logger()

	if v.Config.BackupAddr != "" {
		store, err := backup.NewRedisStore(v.Config.BackupAddr, v.Config.ServiceAddr, logger)
		if err != nil {
			// The backup store is best-effort by contract. Run without it.
			logger.WithError(err).Error("Unable to connect to backup server")
			return nil
		}

		v.Store = store
		logger.WithField("addr", v.Config.BackupAddr).Debug("Connected to Redis backup store")

		return nil
	}

	if v.Config.Store {
		logger.WithField("path", v.Config.DatabaseDir).Debug("Attempting to load or create database")

		store, err := backup.LoadOrCreateBadgerStore(v.Config.DatabaseDir)
		if err != nil {
			logger.WithError(err).Error("Unable to open local backup database")
			return nil
		}

		v.Store = store
	}

	return nil
}

func (v *Vulcan) initUniverse() error {
	v.Universe = dmx.NewUniverseState()

	// Seed from the last snapshot before the scheduler starts. Failure to
	// restore is never fatal; the universe simply starts all-zero.
	if v.Store != nil {
		v.Syncer = backup.NewSyncer(v.Universe, v.Store, v.Config.BackupCadence, v.Config.Logger())

		if values, ok := v.Syncer.Restore(); ok {
			if err := v.Universe.Load(values); err != nil {
				return err
			}
		}
	}

	return nil
}

func (v *Vulcan) initScheduler() error {
	if v.Config.RefreshRate < config.MinRefreshRate || v.Config.RefreshRate > config.MaxRefreshRate {
		return fmt.Errorf("refresh rate should be within [%d, %d] Hz, not %d",
			config.MinRefreshRate, config.MaxRefreshRate, v.Config.RefreshRate)
	}

	v.Scheduler = scheduler.NewScheduler(
		v.Universe,
		v.Transport,
		v.Config.RefreshRate,
		v.Config.Logger(),
	)

	return nil
}

func (v *Vulcan) initService() error {
	v.Gateway = gateway.NewGateway(v.Universe)

	if !v.Config.NoService && v.Config.ServiceAddr != "" {
		v.Service = service.NewService(
			v.Config.ServiceAddr,
			v.Gateway,
			v.Universe,
			v.Scheduler,
			v.Shutdown,
			v.Config.Logger(),
		)
	}

	return nil
}

// Init opens the transport, connects the backup store, restores the last
// snapshot, and builds the scheduler, gateway, and service. A transport
// open failure is fatal; a backup store failure is not.
func (v *Vulcan) Init() error {
	if err := v.initTransport(); err != nil {
		return err
	}

	if err := v.initStore(); err != nil {
		return err
	}

	if err := v.initUniverse(); err != nil {
		return err
	}

	if err := v.initScheduler(); err != nil {
		return err
	}

	if err := v.initService(); err != nil {
		return err
	}

	return nil
}

// Run starts the service and the backup syncer on their own goroutines,
// then blocks on the output scheduler. On a clean shutdown the snapshot
// is removed from the backup store; after a transport failure it is left
// in place so that a restart restores the last state.
func (v *Vulcan) Run() error {
	if v.Service != nil {
		go v.Service.Serve()
	}

	if v.Syncer != nil {
		go v.Syncer.Run()
	}

	err := v.Scheduler.Run()

	if v.Syncer != nil {
		v.Syncer.Shutdown()

		if err == nil {
			v.Syncer.Cleanup()
		}
	}

	if v.Store != nil {
		v.Store.Close()
	}

	v.Transport.Close()

	return err
}

// Shutdown stops the output scheduler, which unwinds Run.
func (v *Vulcan) Shutdown() {
	v.Scheduler.Shutdown()
}

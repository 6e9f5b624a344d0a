package cli

import (
	"context"
	"fmt"
	"io"

	"gorm.io/gorm"

	"github.com/andrescamacho/starport-go/internal/adapters/catalog"
	"github.com/andrescamacho/starport-go/internal/adapters/logging"
	"github.com/andrescamacho/starport-go/internal/adapters/notify"
	"github.com/andrescamacho/starport-go/internal/adapters/persistence"
	"github.com/andrescamacho/starport-go/internal/application/common"
	appDelivery "github.com/andrescamacho/starport-go/internal/application/delivery"
	deliveryCmd "github.com/andrescamacho/starport-go/internal/application/delivery/commands"
	ledgerCmd "github.com/andrescamacho/starport-go/internal/application/ledger/commands"
	"github.com/andrescamacho/starport-go/internal/application/simulation"
	"github.com/andrescamacho/starport-go/internal/domain/delivery"
	"github.com/andrescamacho/starport-go/internal/infrastructure/config"
	"github.com/andrescamacho/starport-go/internal/infrastructure/database"
)

// loadConfig loads the configuration and applies the global flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if playerID > 0 {
		cfg.Simulation.PlayerID = playerID
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// openDatabase connects and migrates the journal tables
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		_ = database.Close(db)
		return nil, err
	}
	return db, nil
}

// runtime is one session wired from config: catalog, scenario, journals and mediator
type runtime struct {
	cfg      *config.Config
	logger   *logging.LogrusLogger
	logClose io.Closer
	db       *gorm.DB
	session  *simulation.Session
	scenario simulation.Scenario
	mediator common.Mediator
	recorder *appDelivery.Recorder
	notifier *notify.RateLimitedNotifier
}

// newRuntime builds the session. scenarioPath overrides simulation.scenario_path; with neither
// set the built-in demo scenario is used.
func newRuntime(cfg *config.Config, scenarioPath string, listeners ...delivery.Listener) (*runtime, error) {
	logger, logClose, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		return nil, err
	}
	rt := &runtime{cfg: cfg, logger: logger, logClose: logClose}

	items, err := catalog.LoadItems(cfg.Catalog.Path)
	if err != nil {
		rt.Close()
		return nil, err
	}

	if scenarioPath == "" {
		scenarioPath = cfg.Simulation.ScenarioPath
	}
	sf, err := catalog.LoadScenario(scenarioPath)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.scenario = sf.Scenario

	rt.db, err = openDatabase(cfg)
	if err != nil {
		rt.Close()
		return nil, err
	}

	rt.recorder = appDelivery.NewRecorder()
	rt.notifier = notify.NewRateLimitedNotifier(cfg.Delivery.NotifyLimit(), cfg.Delivery.NotifyBurst, nil, logger)

	setup := simulation.Setup{
		PlayerID:     cfg.Simulation.PlayerID,
		StartingCash: cfg.Simulation.StartingCash,
		World:        cfg.Simulation.WorldConfig(),
		Catalog:      items,
		Queues:       cfg.Production.QueueConfigs(),
		Delivery:     cfg.Delivery.ToDomain(),
		Buildings:    sf.Buildings,
	}
	rt.session, err = simulation.NewSession(setup, rt.notifier, logger, append([]delivery.Listener{rt.recorder}, listeners...)...)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	rt.mediator = common.NewMediator()
	rt.mediator.Use(common.LoggingMiddleware())
	if err := simulation.RegisterProductionHandlers(rt.mediator, rt.session); err != nil {
		rt.Close()
		return nil, err
	}
	err = simulation.RegisterJournalHandlers(rt.mediator, rt.session,
		persistence.NewGormTransactionRepository(rt.db),
		rt.recorder,
		persistence.NewGormDeliveryRecordRepository(rt.db, nil),
	)
	if err != nil {
		rt.Close()
		return nil, err
	}

	logger.Log("INFO", "Session ready", map[string]interface{}{
		"player_id": cfg.Simulation.PlayerID,
		"scenario":  rt.scenario.Name,
		"items":     items.Len(),
		"buildings": len(sf.Buildings),
		"database":  cfg.Database.Type,
	})
	return rt, nil
}

// context returns a background context carrying the runtime logger
func (rt *runtime) context() context.Context {
	return common.WithLogger(context.Background(), rt.logger)
}

// flush persists the ledger and delivery journals once
func (rt *runtime) flush(ctx context.Context) (transactions, deliveries int, err error) {
	resp, err := rt.mediator.Send(ctx, &ledgerCmd.RecordTransactionsCommand{})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to persist transactions: %w", err)
	}
	transactions = resp.(*ledgerCmd.RecordTransactionsResponse).Recorded

	resp, err = rt.mediator.Send(ctx, &deliveryCmd.RecordDeliveriesCommand{})
	if err != nil {
		return transactions, 0, fmt.Errorf("failed to persist deliveries: %w", err)
	}
	return transactions, resp.(*deliveryCmd.RecordDeliveriesResponse).Recorded, nil
}

// Close releases the database and the log file
func (rt *runtime) Close() {
	if rt.db != nil {
		_ = database.Close(rt.db)
	}
	if rt.logClose != nil {
		_ = rt.logClose.Close()
	}
}

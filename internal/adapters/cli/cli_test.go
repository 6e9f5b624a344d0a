package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/starport-go/internal/adapters/persistence"
	"github.com/andrescamacho/starport-go/internal/domain/ledger"
	"github.com/andrescamacho/starport-go/internal/domain/shared"
	"github.com/andrescamacho/starport-go/internal/infrastructure/database"
)

const testScenario = `name: one-trike
ticks: 300
buildings:
  - location: {x: 10, y: 10}
    production_types: [Starport]
    exits:
      - offset: {x: 1, y: 2}
events:
  - {tick: 0, action: produce, item: trike, quantity: 1}
  - {tick: 150, action: dispatch}
`

func writeTestFiles(t *testing.T) (cfgPath, scenarioPath, dbPath string) {
	t.Helper()
	dir := t.TempDir()
	dbPath = filepath.Join(dir, "starport.db")
	cfgPath = filepath.Join(dir, "config.yaml")
	scenarioPath = filepath.Join(dir, "scenario.yaml")

	cfg := fmt.Sprintf(`database:
  type: sqlite
  path: %s
logging:
  level: error
  output: stderr
simulation:
  width: 32
  height: 32
`, dbPath)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))
	require.NoError(t, os.WriteFile(scenarioPath, []byte(testScenario), 0o644))
	return cfgPath, scenarioPath, dbPath
}

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	root := NewRootCommand()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}

	assert.ElementsMatch(t, []string{"simulate", "serve", "ledger", "deliveries", "catalog", "config", "health"}, names)
}

func TestSimulateCommand_PersistsJournals(t *testing.T) {
	// Arrange
	cfgPath, scenarioPath, _ := writeTestFiles(t)
	root := NewRootCommand()
	root.SetArgs([]string{"simulate", "--config", cfgPath, "--scenario", scenarioPath})
	t.Cleanup(func() { configPath, playerID, verbose = "", 0, false })

	// Act
	err := root.Execute()

	// Assert
	require.NoError(t, err)

	cfg, err := loadConfig()
	require.NoError(t, err)
	db, err := openDatabase(cfg)
	require.NoError(t, err)
	defer database.Close(db)

	owner := shared.MustNewPlayerID(1)
	txs, err := persistence.NewGormTransactionRepository(db).FindByPlayer(context.Background(), owner, ledger.DefaultQueryOptions())
	require.NoError(t, err)
	types := make(map[ledger.TransactionType]int)
	for _, tx := range txs {
		types[tx.TransactionType()]++
	}
	assert.Equal(t, 1, types[ledger.TransactionTypeGrant])
	assert.Positive(t, types[ledger.TransactionTypeProductionCharge])

	records, err := persistence.NewGormDeliveryRecordRepository(db, nil).FindByPlayer(context.Background(), owner, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"trike"}, records[0].DeliveredItems)
}

func TestSimulateCommand_RejectsEndlessScenario(t *testing.T) {
	// Arrange
	cfgPath, _, _ := writeTestFiles(t)
	endless := filepath.Join(t.TempDir(), "endless.yaml")
	require.NoError(t, os.WriteFile(endless, []byte("name: endless\n"), 0o644))
	root := NewRootCommand()
	root.SetArgs([]string{"simulate", "--config", cfgPath, "--scenario", endless})
	root.SetErr(new(discard))
	t.Cleanup(func() { configPath, playerID, verbose = "", 0, false })

	// Act
	err := root.Execute()

	// Assert
	assert.ErrorContains(t, err, "no tick limit")
}

func TestLoadConfig_AppliesFlagOverrides(t *testing.T) {
	cfgPath, _, _ := writeTestFiles(t)
	configPath, playerID, verbose = cfgPath, 7, true
	t.Cleanup(func() { configPath, playerID, verbose = "", 0, false })

	cfg, err := loadConfig()

	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Simulation.PlayerID)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestFormatCredits(t *testing.T) {
	tests := map[int]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		-1234567: "-1,234,567",
	}
	for in, want := range tests {
		assert.Equal(t, want, formatCredits(in))
	}
	assert.Equal(t, "+250", formatAmount(250))
	assert.Equal(t, "-250", formatAmount(-250))
}

func TestMaskPassword(t *testing.T) {
	masked := maskPassword("postgres://starport:secret@db:5432/starport")
	assert.NotContains(t, masked, "secret")
	assert.Contains(t, masked, "@db:5432/starport")
	assert.Equal(t, "postgres://db/starport", maskPassword("postgres://db/starport"))
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

package main

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/log"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/urfave/cli.v1"

	"github.com/verichains/account-hooks/executor"
	"github.com/verichains/account-hooks/hook"
	"github.com/verichains/account-hooks/hooks"
)

var (
	// Git SHA1 commit hash of the release (set via linker flags)
	gitCommit = ""
	gitDate   = ""
	// The app that holds all commands and flags.
	app *cli.App
)

func init() {
	app = cli.NewApp()
	app.Name = filepath.Base(os.Args[0])
	app.Usage = "Token bound account hook simulator"
	app.Version = fmt.Sprintf("%s - %s ", gitCommit, gitDate)
	app.Flags = []cli.Flag{
		configFileFlag,
		scenarioFlag,
		dataDirFlag,
		verbosityFlag,
	}
	app.Action = run
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// makeAppConfig reads the provided TOML configuration file, if config file
// is not specified default config is used.
func makeAppConfig(ctx *cli.Context) *simConfig {
	config := DefaultConfig
	if configFile := ctx.String(configFileFlag.Name); configFile != "" {
		if err := loadTOMLConfig(configFile, &config); err != nil {
			fatalf("Could not load config file %s: %v", configFile, err)
		}
	}
	if err := config.Sanitize(); err != nil {
		fatalf("Invalid configuration: %v", err)
	}
	return &config
}

func openLogDatabase(ctx *cli.Context) ethdb.Database {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return rawdb.NewMemoryDatabase()
	}
	db, err := rawdb.NewLevelDBDatabase(filepath.Join(dataDir, "execlog"), 512, 512, "hooksim", false)
	if err != nil {
		fatalf("Could not open execution log database: %v", err)
	}
	return db
}

// scenarioTokens returns the distinct token ids of the scenario in first
// appearance order.
func scenarioTokens(scenario *scenarioFile) []uint64 {
	var tokens []uint64
	seen := make(map[uint64]bool)
	for _, call := range scenario.Calls {
		if !seen[call.Token] {
			seen[call.Token] = true
			tokens = append(tokens, call.Token)
		}
	}
	return tokens
}

func run(ctx *cli.Context) error {
	log.Root().SetHandler(log.LvlFilterHandler(log.Lvl(ctx.Int(verbosityFlag.Name)),
		log.StreamHandler(os.Stderr, log.TerminalFormat(true))))

	config := makeAppConfig(ctx)
	scenarioPath := ctx.String(scenarioFlag.Name)
	if scenarioPath == "" {
		fatalf("No scenario file specified, use --%s", scenarioFlag.Name)
	}
	scenario, err := loadScenario(scenarioPath)
	if err != nil {
		fatalf("Could not load scenario file %s: %v", scenarioPath, err)
	}

	db := openLogDatabase(ctx)
	defer db.Close()

	var (
		env       = newSimEnv()
		exec      = executor.NewExecutor(config.Authority)
		tokens    = scenarioTokens(scenario)
		whitelist *hooks.WhitelistHook
		spend     *hooks.SpendingLimitHook
		logger    *hooks.ExecutionLoggerHook
		reward    *hooks.RewardDistributionHook
	)
	if config.Whitelist.Enabled {
		whitelist = hooks.NewWhitelistHook(config.Authority)
		targets := make([]common.Address, 0, len(config.Whitelist.Targets))
		for _, target := range config.Whitelist.Targets {
			targets = append(targets, common.HexToAddress(target))
		}
		for _, token := range tokens {
			whitelist.BatchWhitelist(new(big.Int).SetUint64(token), targets)
		}
		exec.RegisterHook(config.Account, whitelist)
	}
	if config.SpendLimit.Enabled {
		spend = hooks.NewSpendingLimitHook(config.Authority)
		for _, token := range tokens {
			spend.SetDailyLimit(new(big.Int).SetUint64(token), new(big.Int).SetUint64(config.SpendLimit.DailyLimit))
		}
		exec.RegisterHook(config.Account, spend)
	}
	if config.Reward.Enabled {
		transferor, err := hooks.NewERC20Transferor(env)
		if err != nil {
			fatalf("Could not create reward transferor: %v", err)
		}
		reward = hooks.NewRewardDistributionHook(config.Authority, transferor, config.Reward.Token, new(big.Int).SetUint64(config.Reward.Amount))
		exec.RegisterHook(config.Account, reward)
	}
	if config.Logger.Enabled {
		logger = hooks.NewExecutionLoggerHook(config.Authority, db)
		exec.RegisterHook(config.Account, logger)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"#", "Token", "To", "Value", "Result"})
	aborted := 0
	for i, call := range scenario.Calls {
		params := &hook.Params{
			TokenID:  new(big.Int).SetUint64(call.Token),
			Account:  config.Account,
			Caller:   call.Caller,
			To:       call.To,
			Value:    new(big.Int).SetUint64(call.Value),
			Selector: hook.CallSelector(call.Data),
			Data:     call.Data,
		}
		env.revertNext = call.Revert
		result := "ok"
		if _, err := exec.Execute(env, params); err != nil {
			aborted++
			result = fmt.Sprintf("aborted: %v", err)
			log.Warn("Call aborted", "index", i, "to", call.To, "err", err)
		} else if !params.Success {
			result = "call failed"
			log.Info("Call failed", "index", i, "to", call.To)
		} else {
			log.Info("Call executed", "index", i, "to", call.To, "value", call.Value)
		}
		table.Append([]string{
			fmt.Sprint(i), fmt.Sprint(call.Token), call.To.Hex(), fmt.Sprint(call.Value), result,
		})
	}
	table.Render()

	stats := tablewriter.NewWriter(os.Stdout)
	stats.SetHeader([]string{"Token", "Remaining allowance", "Rewards paid", "Logged"})
	for _, token := range tokens {
		id := new(big.Int).SetUint64(token)
		remaining, rewards, logged := "-", "-", "-"
		if spend != nil {
			remaining = spend.RemainingAllowance(id).String()
		}
		if reward != nil {
			rewards = reward.TotalRewards(id).String()
		}
		if logger != nil {
			logged = fmt.Sprint(logger.ExecutionCount(id))
		}
		stats.Append([]string{fmt.Sprint(token), remaining, rewards, logged})
	}
	stats.Render()

	log.Info("Scenario finished", "calls", len(scenario.Calls), "aborted", aborted)
	return nil
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

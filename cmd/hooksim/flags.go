package main

import (
	"gopkg.in/urfave/cli.v1"
)

var (
	configFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	scenarioFlag = cli.StringFlag{
		Name:  "scenario",
		Usage: "TOML scenario file listing the account calls to simulate",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "datadir",
		Usage: "Directory for the persistent execution log (in-memory if not set)",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=detail",
		Value: 3,
	}
)

package main

import (
	"os"
	"runtime"
	runtimeDebug "runtime/debug"

	nested "github.com/antonfisher/nested-logrus-formatter"
	"github.com/joho/godotenv"
	"github.com/raidoNetwork/rdo-dualminer/blockchain/node"
	"github.com/raidoNetwork/rdo-dualminer/cmd/dualminer/flags"
	"github.com/raidoNetwork/rdo-dualminer/shared/cmd"
	"github.com/raidoNetwork/rdo-dualminer/shared/logutil"
	"github.com/raidoNetwork/rdo-dualminer/shared/version"
	"github.com/raidoNetwork/rdo-dualminer/utils/file"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const envFile = ".env"

var appFlags = []cli.Flag{
	// mining flags
	flags.TimestampFlag,
	flags.MinerRewardFlag,
	flags.BaseFeeFlag,
	flags.CountFlag,
	flags.IntervalFlag,

	flags.JournalFlag,
	flags.MonitoringPortFlag,

	cmd.DataDirFlag,
	cmd.LogFileName,
	cmd.VerbosityFlag,
	cmd.ConfigFileFlag,
	cmd.MinerConfigFileFlag,

	// db flags
	cmd.BoltMMapInitialSizeFlag,
	cmd.ClearJournal,
}

var log = logrus.WithField("prefix", "main")

func main() {
	app := cli.App{}
	app.Name = "dualminer"
	app.Usage = "Mines blocks on a reference and a canonical engine and cross-checks every result"
	app.Action = startNode
	app.Version = version.Version()
	app.Commands = []*cli.Command{
		{
			Name:   "journal",
			Usage:  "Lists divergence reports stored in the data directory",
			Flags:  []cli.Flag{cmd.DataDirFlag, cmd.BoltMMapInitialSizeFlag},
			Action: node.ListJournal,
		},
	}

	app.Flags = appFlags

	app.Before = func(ctx *cli.Context) error {
		// Load cmd from config file, if specified.
		if err := cmd.LoadFlagsFromConfig(ctx, app.Flags); err != nil {
			return err
		}

		logrus.SetFormatter(&nested.Formatter{
			HideKeys:        true,
			FieldsOrder:     []string{"prefix", "engine"},
			TimestampFormat: "2006-01-02 15:04:05.000",
		})

		if err := logutil.SetVerbosity(ctx.String(cmd.VerbosityFlag.Name)); err != nil {
			return err
		}

		logFileName := ctx.String(cmd.LogFileName.Name)
		if logFileName != "" {
			if err := logutil.ConfigurePersistentLogging(logFileName); err != nil {
				log.WithError(err).Error("Failed to configuring logging to disk.")
			}
		}

		runtime.GOMAXPROCS(runtime.NumCPU())

		return cmd.ValidateNoArgs(ctx)
	}

	defer func() {
		if x := recover(); x != nil {
			log.Errorf("Runtime panic: %v\n%v", x, string(runtimeDebug.Stack()))
			panic(x)
		}
	}()

	// flag values may come from the environment
	if file.FileExists(envFile) {
		if err := godotenv.Load(envFile); err != nil {
			log.WithError(err).Error("Failed to load env file")
		}
	}

	if err := app.Run(os.Args); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func startNode(ctx *cli.Context) error {
	n, err := node.New(ctx)
	if err != nil {
		return err
	}

	return n.Run()
}

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/tingold/orb-geography/internal/config"
	"github.com/tingold/orb-geography/internal/logger"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config" env:"GEOGTOOL_CONFIG" description:"Path to configuration file"`
}

var (
	opts Options
	cfg  = config.Default()
)

func main() {
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		opts.Logger.Setup()

		if opts.ConfigFile != "" {
			loaded, err := config.Load(opts.ConfigFile)
			if err != nil {
				log.Fatal().Err(err).Str("path", opts.ConfigFile).Msg("Failed to load configuration")
			}
			cfg = loaded
		}

		if cmd == nil {
			return nil
		}
		return cmd.Execute(args)
	}

	addCommands(parser)

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) {
			if flagsErr.Type == flags.ErrHelp {
				fmt.Fprintln(os.Stdout, flagsErr.Message)
				os.Exit(0)
			}
			fmt.Fprintln(os.Stderr, flagsErr.Message)
			os.Exit(1)
		}
		log.Fatal().Err(err).Str("command", parser.Active.Name).Msg("Command failed")
	}
}

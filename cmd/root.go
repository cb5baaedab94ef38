package cmd

import (
	"fmt"
	"os"

	"github.com/pbartela/plantour/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ConfigFileLocation is of the config to load
var ConfigFileLocation string

// TopLevelLogger is the logger all loggers come from
var TopLevelLogger *zap.Logger

// LoadedConfig is the currently loaded configuration after initial bootstrapping
var LoadedConfig *config.Configuration

// FileSystemsConfig consists of the filesystems to use (either local or embed)
var FileSystemsConfig *config.FileSystems

var rootCommand = cobra.Command{
	Use:   "plantour",
	Short: "plantour a group trip planning service",
	Long: `plantour is a collaborative trip planning service built around
	tour invitations, for more information visit https://github.com/pbartela/plantour`,
	Run: func(cmd *cobra.Command, args []string) {
		serveCommand.Run(cmd, args)
	},
}

func Execute() {
	if err := rootCommand.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {

	rootCommand.PersistentFlags().
		StringVar(&ConfigFileLocation, "config", "", "config file to be used")

	verifyCommand.AddCommand(&sendTestMailCommand)

	inviteCommand.AddCommand(&listInvitationsCommand)

	tourCommand.AddCommand(&listToursCommand)

	rootCommand.AddCommand(&verifyCommand)
	rootCommand.AddCommand(&inviteCommand)
	rootCommand.AddCommand(&tourCommand)
	rootCommand.AddCommand(&serveCommand)
}

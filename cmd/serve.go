package cmd

import (
	"github.com/pbartela/plantour/api"
	"github.com/pbartela/plantour/invites"
	"github.com/pbartela/plantour/manage"
	"github.com/pbartela/plantour/tours"
	"github.com/pbartela/plantour/user"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var serveCommand = cobra.Command{
	Use:   "serve",
	Short: "starts the http server",
	Long:  `Starts a http server and serves the service`,
	Run: func(cmd *cobra.Command, args []string) {
		//this is our composite root

		//setup datastore
		dataStore := mustResolveUsableDataStore()

		//setup mailer
		mailer := mustResolveMailer()

		//events dispatcher
		dispatcher := bootstrapDispatcher(dataStore.Auditor())

		//setup business services
		tourService := tours.New(dataStore, TopLevelLogger.Named("tour_service"), dispatcher)
		inviteService := invites.New(
			dataStore,
			tourService,
			TopLevelLogger.Named("invite_service"),
			LoadedConfig,
			mailer,
			dispatcher,
		)
		profileService := user.New(dataStore, TopLevelLogger.Named("profile_service"))

		//setup management services
		manageInvites := manage.NewInviteService(dataStore, TopLevelLogger.Named("invite_manager"))
		manageTours := manage.NewTourService(dataStore, TopLevelLogger.Named("tour_manager"))

		server, err := api.NewServer(LoadedConfig, TopLevelLogger.Named("server"),
			tourService,
			inviteService,
			profileService,
			manageInvites,
			manageTours,
		)
		if err != nil {
			TopLevelLogger.Fatal("Failed to create server", zap.Error(err))
		}
		_ = server.Start()
		TopLevelLogger.Info("Shutdown complete")
	},
}

func init() {
	viper.SetDefault("port", "3000")
	viper.SetDefault("log_level", "debug")
}

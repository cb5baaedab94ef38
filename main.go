package main

import (
	"embed"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/pbartela/plantour/cmd"
	"github.com/pbartela/plantour/config"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

//go:embed templates/email/template.html
var templates embed.FS

var (
	Version   = "?"
	BuildTime = "?"
	GitCommit = "-"
	GitRef    = "-"
)

func main() {
	//version info
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("plantour %s, built %s from %s (%s)", Version, BuildTime, GitCommit, GitRef)
		return
	}
	logger := bootstrap()
	defer func() {
		_ = logger.Sync()

	}()
	cmd.TopLevelLogger = logger
	cmd.Execute()
}

func bootstrap() *zap.Logger {
	if _, err := os.Stat(".env"); err == nil {
		err := godotenv.Load()
		if err != nil {
			log.Fatal("Error loading .env file")
		}
	}
	cfg := zap.NewProductionConfig()
	if r := os.Getenv("DEBUG_LOG"); r == "true" {
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build(zap.AddStacktrace(zap.ErrorLevel))
	if err != nil {
		log.Fatal(err)
	}
	cobra.OnInitialize(func() { initConfig(logger) })
	return logger
}

func setDefaults() {
	viper.SetDefault("smtp.enabled", false)
	viper.SetDefault("behaviour.name", "plantour")
	viper.SetDefault("behaviour.invite-expiry", "168h")
	viper.SetDefault("behaviour.max-invite-emails", 50)
	viper.SetDefault("behaviour.max-invite-input-length", 10000)
	viper.SetDefault("session.alg", "HS256")
	viper.SetDefault("rate-limit.invite-requests", 10)
	viper.SetDefault("rate-limit.invite-window", "1m")
	viper.SetDefault("manage-endpoint.enable", false)
}

func initConfig(logger *zap.Logger) {
	bind := func(from string, to string) {
		err := viper.BindEnv(to, from)
		if err != nil {
			logger.Error("unable to bindenv", zap.String("from", from), zap.String(to, to), zap.Error(err))
		}

	}
	setDefaults()
	bind("PORT", "server.port")
	bind("ADDRESS", "server.address")

	bind("PLANTOUR_PORT", "server.port")
	bind("PLANTOUR_ADDRESS", "server.address")

	bind("PLANTOUR_SERVER_CSRF_TOKEN", "server.csrf-token")

	bind("PLANTOUR_SMTP_ENABLED", "smtp.enabled")
	bind("PLANTOUR_SMTP_HOST", "smtp.host")
	bind("PLANTOUR_SMTP_PORT", "smtp.port")
	bind("PLANTOUR_SMTP_USERNAME", "smtp.username")
	bind("PLANTOUR_SMTP_PASSWORD", "smtp.password")
	bind("PLANTOUR_SMTP_DISPLAYNAME", "smtp.display-name")
	bind("PLANTOUR_SMTP_ADDRESS", "smtp.address")

	bind("PLANTOUR_DATABASE_TYPE", "database.type")
	bind("PLANTOUR_DATABASE_DSN", "database.dsn")

	bind("PLANTOUR_BEHAVIOUR_NAME", "behaviour.name")
	bind("PLANTOUR_BEHAVIOUR_SITE", "behaviour.site")
	bind("PLANTOUR_BEHAVIOUR_SERVICE_DOMAIN", "behaviour.service-domain")
	bind("PLANTOUR_BEHAVIOUR_INVITE_EXPIRY", "behaviour.invite-expiry")
	bind("PLANTOUR_BEHAVIOUR_MAX_INVITE_EMAILS", "behaviour.max-invite-emails")
	bind("PLANTOUR_BEHAVIOUR_MAX_INVITE_INPUT_LENGTH", "behaviour.max-invite-input-length")

	bind("PLANTOUR_SESSION_ALG", "session.alg")
	bind("PLANTOUR_SESSION_ISSUER", "session.iss")
	bind("PLANTOUR_SESSION_HMAC_SIGNING_KEY", "session.hmac-signing-key")

	bind("PLANTOUR_RATE_LIMIT_INVITE_REQUESTS", "rate-limit.invite-requests")
	bind("PLANTOUR_RATE_LIMIT_INVITE_WINDOW", "rate-limit.invite-window")

	bind("PLANTOUR_MANAGE_ENDPOINT_ENABLE", "manage-endpoint.enable")
	bind("PLANTOUR_MANAGE_ENDPOINT_CORS_ALLOWED_ORIGINS", "manage-endpoint.cors.allowed-origins")
	bind("PLANTOUR_MANAGE_ENDPOINT_CORS_ALLOWED_METHODS", "manage-endpoint.cors.allowed-methods")
	bind("PLANTOUR_MANAGE_ENDPOINT_CORS_ALLOW_CREDENTIALS", "manage-endpoint.cors.allow-credentials")

	if cmd.ConfigFileLocation != "" {
		logger.Debug("Using supplied config file", zap.String("file", string(cmd.ConfigFileLocation)))
		viper.SetConfigFile(string(cmd.ConfigFileLocation))
	} else {
		path, err := os.Getwd()
		if err != nil {
			logger.Warn("Unable to get current working dir", zap.Error(err))
		}
		cobra.CheckErr(err)
		viper.AddConfigPath(path)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		logger.Debug("Looking for default config file")
	}
	//precedence: environment overwrites yml
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logger.Debug("No confg file loaded")
	} else {
		logger.Debug("Config file loaded", zap.String("file", viper.ConfigFileUsed()))
	}

	conf := &config.Configuration{}
	err := viper.Unmarshal(conf)
	if err != nil {
		logger.Fatal("Unable to unmarshall config", zap.Error(err))
	}
	logger.Debug("Validating final config")
	if err = conf.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}
	cmd.LoadedConfig = conf

	emailFs, err := fs.Sub(templates, "templates/email")
	if err != nil {
		logger.Fatal("Unable to open templates/email folder")
	}
	cmd.FileSystemsConfig = &config.FileSystems{
		Email: emailFs,
	}
}

package base

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aofei/air"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

var (
	// Viper is the global instace of the `viper.Viper`.
	Viper = viper.New()

	// Logger is the global instace of the `zerolog.Logger`.
	Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	// Air is the global instace of the `air.Air`.
	Air = air.New()

	// Context is the global instance of the `context.Context`.
	Context = context.Background()

	// Cron is the global instance of the `cron.Cron`.
	Cron = cron.New(cron.WithLocation(time.UTC))

	// validate is used to validate the configuration items.
	validate = validator.New()
)

// Server is the server configuration items.
type Server struct {
	// Port is the TCP port the server listens on.
	Port int `mapstructure:"port" validate:"min=1,max=65535"`
}

// Init initializes the global instances from the configuration file cf. A
// missing cf is not an error, the defaults and the environment are used
// instead.
func Init(cf string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}

	server, err := LoadConfig(Viper, cf)
	if err != nil {
		return err
	}

	Air.AppName = "faq-assistant"
	if err := Viper.UnmarshalKey("air", Air); err != nil {
		return fmt.Errorf(
			"failed to unmarshal air configuration items: %w",
			err,
		)
	}

	zerolog.TimeFieldFormat = ""
	Logger = Logger.
		With().
		Str("app_name", Air.AppName).
		Logger()
	if Air.DebugMode {
		Logger = Logger.Level(zerolog.DebugLevel)
	} else {
		l, _ := zerolog.ParseLevel(Viper.GetString("zerolog.level"))
		Logger = Logger.Level(l)
	}

	Air.Address = fmt.Sprintf(":%d", server.Port)

	var cancel context.CancelFunc
	Context, cancel = context.WithCancel(context.Background())
	Air.AddShutdownJob(cancel)

	Cron = cron.New(
		cron.WithLocation(time.UTC),
		cron.WithLogger(
			cron.PrintfLogger(log.New(Logger, "cron: ", 0)),
		),
	)
	Cron.Start()
	Air.AddShutdownJob(func() {
		<-Cron.Stop().Done()
	})

	return nil
}

// LoadConfig reads the configuration file cf into the v, applies the defaults
// and returns the validated server configuration items.
func LoadConfig(v *viper.Viper, cf string) (*Server, error) {
	ext := filepath.Ext(cf)
	v.AddConfigPath(filepath.Dir(cf))
	v.SetConfigName(strings.TrimSuffix(filepath.Base(cf), ext))
	v.SetConfigType(strings.TrimPrefix(ext, "."))

	v.SetDefault("port", 5000)
	v.SetDefault("zerolog.level", "info")
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST"})
	v.SetDefault(
		"cors.allowed_headers",
		[]string{"Content-Type", "Authorization"},
	)
	v.SetDefault("assistant.timeout", "10s")
	v.SetDefault("assistant.contact_email", "hello@example.com")
	v.SetDefault("suggestions.file", "suggestions.toml")
	v.SetDefault("storage.suggestions_object", "suggestions.toml")

	if err := v.BindEnv("port", "PORT"); err != nil {
		return nil, fmt.Errorf("failed to bind PORT: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var cfnfe viper.ConfigFileNotFoundError
		if !errors.As(err, &cfnfe) {
			return nil, fmt.Errorf(
				"failed to read configuration file: %w",
				err,
			)
		}
	}

	server := &Server{Port: v.GetInt("port")}
	if err := validate.Struct(server); err != nil {
		return nil, fmt.Errorf("invalid server configuration: %w", err)
	}

	return server, nil
}

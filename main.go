package main

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/air-gases/defibrillator"
	"github.com/air-gases/limiter"
	"github.com/air-gases/logger"
	"github.com/aofei/air"
	"github.com/spf13/pflag"

	"github.com/faq-assistant/faq-assistant/base"
	"github.com/faq-assistant/faq-assistant/handler"
)

func main() {
	cf := pflag.StringP("config", "c", "config.toml", "configuration file")
	pflag.Parse()

	if err := base.Init(*cf); err != nil {
		base.Logger.Fatal().Err(err).
			Msg("failed to initialize base")
	}

	a := base.Air
	a.ErrorLogger = stdlog.New(&errorLogWriter{}, "", 0)
	a.Pregases = []air.Gas{
		logger.Gas(logger.GasConfig{}),
		defibrillator.Gas(defibrillator.GasConfig{}),
		limiter.BodySizeGas(limiter.BodySizeGasConfig{
			MaxBytes: 1 << 20,
		}),
	}

	if err := handler.Init(); err != nil {
		base.Logger.Fatal().Err(err).
			Msg("failed to initialize handlers")
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		base.Logger.Info().
			Str("address", a.Address).
			Msg("server started")
		if err := a.Serve(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			base.Logger.Error().Err(err).
				Msg("server error")
		}
	}()

	<-shutdownChan

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := a.Shutdown(ctx); err != nil {
		base.Logger.Error().Err(err).
			Msg("failed to shut down server")
	}
}

// errorLogWriter is an error log writer.
type errorLogWriter struct{}

// Write implements the `io.Writer`.
func (elw *errorLogWriter) Write(b []byte) (int, error) {
	base.Logger.Error().Err(errors.New(strings.TrimSuffix(string(b), "\n"))).
		Msg("air error")

	return len(b), nil
}

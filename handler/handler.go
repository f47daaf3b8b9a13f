package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/air-gases/cacheman"
	"github.com/aofei/air"
	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/faq-assistant/faq-assistant/assistant"
	"github.com/faq-assistant/faq-assistant/base"
	"github.com/faq-assistant/faq-assistant/model"
)

var (
	// getHeadMethods is an array contains the GET and HEAD methods.
	getHeadMethods = []string{http.MethodGet, http.MethodHead}

	// hourlyCachemanGas is used to manage the Cache-Control header.
	hourlyCachemanGas = cacheman.Gas(cacheman.GasConfig{
		Public:  true,
		MaxAge:  3600,
		SMaxAge: -1,
	})

	// noStoreCachemanGas disables caching of dynamic responses.
	noStoreCachemanGas = cacheman.Gas(cacheman.GasConfig{
		NoCache: true,
		NoStore: true,
		MaxAge:  -1,
		SMaxAge: -1,
	})

	// assistantClient is used by the assistant page to ask questions.
	assistantClient assistant.Client = assistant.LocalClient{}
)

// Init initializes the suggestion sources and the assistant client from the
// `base.Viper` and registers the handlers to the `base.Air`.
func Init() error {
	if endpoint := base.Viper.GetString("assistant.endpoint"); endpoint != "" {
		assistantClient = assistant.NewHTTPClient(
			endpoint,
			base.Viper.GetDuration("assistant.timeout"),
		)
	}

	if err := initSuggestions(); err != nil {
		return fmt.Errorf("failed to initialize suggestions: %w", err)
	}

	if err := initStats(); err != nil {
		return fmt.Errorf("failed to initialize stats: %w", err)
	}

	register(base.Air)

	return nil
}

// register registers the gases and the handlers to the a.
func register(a *air.Air) {
	a.ErrorHandler = Error
	a.NotFoundHandler = NotFound
	a.MethodNotAllowedHandler = MethodNotAllowed

	a.Pregases = append(
		a.Pregases,
		requestIDGas,
		corsGas(newCORS(base.Viper)),
	)

	a.FILE("/robots.txt", "robots.txt")
	a.FILES("/assets", a.CofferAssetRoot, hourlyCachemanGas)

	a.BATCH(getHeadMethods, "/", hHealth)
	a.POST("/api/ask", hAsk, noStoreCachemanGas)
	a.BATCH(getHeadMethods, "/assistant", hAssistantPage)
	a.POST("/assistant", hAssistantAsk, noStoreCachemanGas)
	a.BATCH(
		getHeadMethods,
		"/stats/summary",
		hStatSummary,
		noStoreCachemanGas,
	)
}

// NotFound returns not found error.
func NotFound(req *air.Request, res *air.Response) error {
	res.Status = http.StatusNotFound
	return errors.New(strings.ToLower(http.StatusText(res.Status)))
}

// MethodNotAllowed returns method not allowed error.
func MethodNotAllowed(req *air.Request, res *air.Response) error {
	res.Status = http.StatusMethodNotAllowed
	return errors.New(strings.ToLower(http.StatusText(res.Status)))
}

// Error handles errors.
func Error(err error, req *air.Request, res *air.Response) {
	if res.Written {
		return
	}

	if res.Status < http.StatusBadRequest {
		res.Status = http.StatusInternalServerError
	}

	if res.Status == http.StatusInternalServerError {
		reqLogger(req).Error().Err(err).
			Str("path", req.Path).
			Msg("handler error")
	}

	if !req.Air.DebugMode && res.Status == http.StatusInternalServerError {
		res.WriteString(strings.ToLower(http.StatusText(res.Status)))
	} else {
		res.WriteString(err.Error())
	}
}

// hHealth handles requests to check whether the server is running.
func hHealth(req *air.Request, res *air.Response) error {
	return res.WriteJSON(model.Health{Message: "Backend is running!"})
}

// requestIDGas tags every request with an ID, taken from the X-Request-ID
// header when present, and binds a logger carrying it to the request context.
func requestIDGas(next air.Handler) air.Handler {
	return func(req *air.Request, res *air.Response) error {
		id := req.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}

		res.Header.Set("X-Request-ID", id)
		req.Context = base.Logger.
			With().
			Str("request_id", id).
			Logger().
			WithContext(req.Context)

		return next(req, res)
	}
}

// reqLogger returns the logger bound to the req by the `requestIDGas`.
func reqLogger(req *air.Request) *zerolog.Logger {
	if l := zerolog.Ctx(req.Context); l.GetLevel() != zerolog.Disabled {
		return l
	}

	return &base.Logger
}

// newCORS returns a new instance of the `cors.Cors` configured by the v.
func newCORS(v *viper.Viper) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: v.GetStringSlice("cors.allowed_origins"),
		AllowedMethods: v.GetStringSlice("cors.allowed_methods"),
		AllowedHeaders: v.GetStringSlice("cors.allowed_headers"),
	})
}

// corsGas returns a gas answering CORS preflight requests and setting the
// CORS headers of actual requests.
func corsGas(c *cors.Cors) air.Gas {
	return func(next air.Handler) air.Handler {
		return func(req *air.Request, res *air.Response) error {
			var err error
			c.ServeHTTP(
				res.HTTPResponseWriter(),
				req.HTTPRequest(),
				func(http.ResponseWriter, *http.Request) {
					err = next(req, res)
				},
			)

			return err
		}
	}
}

// paramString returns the string value of the request param named name, or
// "" if there is no such param.
func paramString(req *air.Request, name string) string {
	if pv := req.ParamValue(name); pv != nil {
		return pv.String()
	}

	return ""
}

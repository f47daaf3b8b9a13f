package handler

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/robfig/cron/v3"

	"github.com/faq-assistant/faq-assistant/assistant"
	"github.com/faq-assistant/faq-assistant/base"
)

var (
	// defaultSuggestions is used when no suggestion source has any.
	defaultSuggestions = assistant.NewDefaultSuggestions()

	// suggestionsFile is the suggestion file path.
	suggestionsFile string

	// fileSuggestions is the suggestions parsed from the `suggestionsFile`.
	fileSuggestions atomic.Pointer[assistant.Suggestions]

	// parseSuggestionsOnce is used to guarantee that the
	// `parseSuggestionsFile` will only be called once until the
	// `suggestionsFile` changes.
	parseSuggestionsOnce = &sync.Once{}

	// parseSuggestionsOnceMutex guards the `parseSuggestionsOnce`.
	parseSuggestionsOnceMutex sync.Mutex

	// storageClient is the client of the suggestion object storage.
	storageClient *minio.Client

	// storageBucketName is the bucket name of the suggestion object.
	storageBucketName string

	// storageObjectName is the object name of the suggestion object.
	storageObjectName string

	// storageSuggestions is the suggestions fetched from the storage.
	storageSuggestions atomic.Pointer[assistant.Suggestions]
)

// initSuggestions initializes the suggestion file watcher and, if an
// endpoint is configured, the suggestion object storage.
func initSuggestions() error {
	suggestionsFile = base.Viper.GetString("suggestions.file")
	if suggestionsFile != "" {
		if err := watchSuggestionsFile(); err != nil {
			return err
		}
	}

	storageViper := base.Viper.Sub("storage")
	if storageViper == nil || storageViper.GetString("endpoint") == "" {
		return nil
	}

	endpoint, err := url.Parse(storageViper.GetString("endpoint"))
	if err != nil {
		return err
	}

	storageClient, err = newStorageClient(
		endpoint,
		storageViper.GetString("access_key"),
		storageViper.GetString("secret_key"),
		storageViper.GetString("region"),
	)
	if err != nil {
		return err
	}

	storageBucketName = storageViper.GetString("bucket_name")
	storageObjectName = storageViper.GetString("suggestions_object")

	if err := updateStorageSuggestions(base.Context); err != nil {
		base.Logger.Error().Err(err).
			Msg("failed to fetch suggestions from storage")
	}

	if _, err := base.Cron.AddJob(
		"*/10 * * * *", // Every 10 minutes
		cron.NewChain(
			cron.SkipIfStillRunning(cron.DiscardLogger),
		).Then(cron.FuncJob(func() {
			err := updateStorageSuggestions(base.Context)
			if err == nil {
				return
			}

			base.Logger.Error().Err(err).
				Msg("failed to update suggestions from storage")
		})),
	); err != nil {
		return err
	}

	return nil
}

// currentSuggestions returns the suggestions in effect. The storage wins over
// the file, and the file wins over the `defaultSuggestions`.
func currentSuggestions() *assistant.Suggestions {
	if s := storageSuggestions.Load(); s != nil {
		return s
	}

	parseSuggestionsOnceMutex.Lock()
	once := parseSuggestionsOnce
	parseSuggestionsOnceMutex.Unlock()

	once.Do(parseSuggestionsFile)
	if s := fileSuggestions.Load(); s != nil {
		return s
	}

	return defaultSuggestions
}

// resetSuggestionsFile makes the next `currentSuggestions` reparse the
// `suggestionsFile`.
func resetSuggestionsFile() {
	parseSuggestionsOnceMutex.Lock()
	parseSuggestionsOnce = &sync.Once{}
	parseSuggestionsOnceMutex.Unlock()
}

// parseSuggestionsFile parses the `suggestionsFile` into the
// `fileSuggestions`. A missing or malformed file clears them.
func parseSuggestionsFile() {
	if suggestionsFile == "" {
		fileSuggestions.Store(nil)
		return
	}

	b, err := os.ReadFile(suggestionsFile)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			base.Logger.Error().Err(err).
				Str("file", suggestionsFile).
				Msg("failed to read suggestions file")
		}

		fileSuggestions.Store(nil)
		return
	}

	s, err := assistant.ParseSuggestions(b)
	if err != nil {
		base.Logger.Error().Err(err).
			Str("file", suggestionsFile).
			Msg("failed to parse suggestions file")
		fileSuggestions.Store(nil)
		return
	}

	fileSuggestions.Store(s)
}

// watchSuggestionsFile watches the directory of the `suggestionsFile` and
// resets the parsed suggestions whenever the file changes.
func watchSuggestionsFile() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := watcher.Add(filepath.Dir(suggestionsFile)); err != nil {
		watcher.Close()
		return err
	}

	done := make(chan struct{})
	base.Air.AddShutdownJob(func() {
		close(done)
	})

	name := filepath.Clean(suggestionsFile)
	go func() {
		defer watcher.Close()
		for {
			select {
			case e := <-watcher.Events:
				if filepath.Clean(e.Name) == name {
					resetSuggestionsFile()
				}
			case err := <-watcher.Errors:
				base.Logger.Error().Err(err).
					Msg("suggestions watcher error")
			case <-done:
				return
			}
		}
	}()

	return nil
}

// newStorageClient returns a new instance of the `minio.Client` for the
// endpoint.
func newStorageClient(
	endpoint *url.URL,
	accessKey string,
	secretKey string,
	region string,
) (*minio.Client, error) {
	options := &minio.Options{
		Creds:        credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:       endpoint.Scheme == "https",
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	}

	e := *endpoint
	e.Scheme = ""
	return minio.New(strings.TrimPrefix(e.String(), "//"), options)
}

// updateStorageSuggestions fetches the suggestion object from the storage
// into the `storageSuggestions`.
func updateStorageSuggestions(ctx context.Context) error {
	var b []byte
	if err := base.RetryN(ctx, func(ctx context.Context) error {
		object, err := storageClient.GetObject(
			ctx,
			storageBucketName,
			storageObjectName,
			minio.GetObjectOptions{},
		)
		if err != nil {
			return err
		}
		defer object.Close()

		b, err = io.ReadAll(object)
		return err
	}, isRetryableStorageError, time.Second, 3); err != nil {
		return err
	}

	s, err := assistant.ParseSuggestions(b)
	if err != nil {
		return err
	}

	storageSuggestions.Store(s)

	return nil
}

// isRetryableStorageError reports whether the err is a transient storage
// error.
func isRetryableStorageError(err error) bool {
	switch minio.ToErrorResponse(err).StatusCode {
	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}

	return false
}

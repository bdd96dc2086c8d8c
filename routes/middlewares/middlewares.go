package middlewares

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"

	"github.com/felixge/httpsnoop"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mbolis/tichi-survey/httpx"
	"github.com/mbolis/tichi-survey/log"
)

// MaxDumpedBody caps how much of a request body is copied into the log.
const MaxDumpedBody = 16 << 10

// DumpRequest logs headers and body of each request at DEBUG level, and
// a completion line with status, size and duration.
func DumpRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fields := log.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
		}

		if log.IsLevelEnabled(log.DebugLevel) {
			dump := log.WithFields(fields).WithField("headers", r.Header)
			if r.Body != nil {
				body, err := io.ReadAll(io.LimitReader(r.Body, MaxDumpedBody))
				if err != nil {
					dump = dump.WithField("body_error", err.Error())
				}
				// the handler still reads the whole body
				r.Body = readCloser{io.MultiReader(bytes.NewReader(body), r.Body), r.Body}
				dump = dump.WithField("body", string(body))
			}
			dump.Debug("request")
		}

		m := httpsnoop.CaptureMetrics(next, w, r)

		log.WithFields(fields).WithFields(log.Fields{
			"status":   m.Code,
			"bytes":    m.Written,
			"duration": m.Duration,
		}).Info("request completed")
	})
}

type readCloser struct {
	io.Reader
	io.Closer
}

// Recoverer turns a panic into a JSON 500 response.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			log.WithFields(log.Fields{
				"request_id": middleware.GetReqID(r.Context()),
				"stack":      string(debug.Stack()),
			}).Debug("middlewares.recover.stack")
			httpx.LogInternalError(w, r, "middlewares.recover", fmt.Errorf("%v", rvr))
		}()

		next.ServeHTTP(w, r)
	})
}

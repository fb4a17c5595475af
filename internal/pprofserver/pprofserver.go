package pprofserver

import (
	"log/slog"
	"net/http"
	"net/http/pprof"
)

func newServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	return mux
}

// Launch starts a pprof server on addr. Keep the address on localhost so the
// profiler is not open to the world.
func Launch(addr string, logger *slog.Logger) {
	go func() {
		logger.Info("starting pprof server", "addr", addr)
		server := &http.Server{
			Addr:    addr,
			Handler: newServeMux(),
		}
		if err := server.ListenAndServe(); err != nil {
			logger.Error(err.Error())
		}
	}()
}

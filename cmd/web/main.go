package main

import (
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/archers/internal/config"
)

//go:embed index.html
var htmlPage string

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "web"})

	settings, err := config.Load(config.Path())
	if err != nil {
		logger.Fatal("load config", "err", err)
	}
	if lvl, err := log.ParseLevel(settings.Log.Level); err == nil {
		logger.SetLevel(lvl)
	}

	page := renderPage(settings.SSH)
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	})

	srv := &http.Server{
		Addr:              settings.Web.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("starting web server", "addr", "http://"+srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", "err", err)
	}
}

// renderPage fills the connect command shown on the landing page.
func renderPage(s config.SSHSettings) string {
	cmd := "ssh " + s.DisplayHost
	if s.Port != 22 {
		cmd = "ssh -p " + strconv.Itoa(s.Port) + " " + s.DisplayHost
	}
	page := strings.ReplaceAll(htmlPage, "{{.SSHHost}}", s.DisplayHost)
	return strings.ReplaceAll(page, "{{.SSHCommand}}", cmd)
}

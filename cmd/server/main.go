package main

import (
	"flag"
	"net/http"
	"os"
	"strings"
	"time"

	"chatpoker-server/internal/config"
	"chatpoker-server/internal/mux"
	"chatpoker-server/pkg/chat"
	"chatpoker-server/pkg/db"
	"chatpoker-server/pkg/dealer"
	"chatpoker-server/pkg/room"

	"github.com/gorilla/handlers"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

const readTimeout = time.Second * 5
const writeTimeout = time.Second * 10

// Version is the server version
var Version = "v0.0.0-dev"

var addr = flag.String("addr", ":5000", "the listen address")

func main() {
	flag.Parse()
	setupLogger()

	cfg := config.Instance()

	// fail fast
	if cfg.Chat.AppID == "" || cfg.Chat.AppSecret == "" {
		logrus.Fatal("missing chat app credentials in configuration")
	}

	if cfg.Chat.VerificationToken == "" {
		logrus.Fatal("missing chat verification token in configuration")
	}

	// run the db migrations
	db.Migrate()

	messenger := chat.NewClient(cfg.Chat.BaseURL, cfg.Chat.AppID, cfg.Chat.AppSecret, logrus.StandardLogger())
	store := room.NewPostgresStore(db.Instance())
	locker := room.NewPostgresLocker(db.Instance())
	d := dealer.New(store, locker, messenger, logrus.StandardLogger())

	c := cors.New(cors.Options{
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})

	srv := &http.Server{
		Addr:         *addr,
		Handler:      loggingHandler(c.Handler(mux.NewMux(Version, cfg.Chat.VerificationToken, d, store))),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	logrus.WithField("addr", srv.Addr).Info("listening")
	logrus.Fatal(srv.ListenAndServe())
}

func loggingHandler(next http.Handler) http.Handler {
	if config.Instance().Log.DisableAccessLogs {
		return next
	}

	return handlers.CombinedLoggingHandler(os.Stdout, next)
}

func setupLogger() {
	if lvl := config.Instance().Log.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}

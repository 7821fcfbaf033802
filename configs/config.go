package config

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/gofrs/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/joho/godotenv"
)

var InstanceId string

// LoadEnv loads ./.env into the process environment. A missing file is not an
// error, variables may come from the real environment instead.
func LoadEnv(service string) error {
	log.Infof("%s service configuration and env variables loading started ...", service)
	err := godotenv.Load("./.env")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Info("no .env file, using process environment")
			return nil
		}
		return err
	}

	log.Info(".env file loaded.")
	return nil
}

func CreateUniqueInstance(service string) (string, error) {
	id, err := uuid.NewV4() // instance identifier
	if err != nil {
		return "", err
	}
	InstanceId = id.String()
	log.Infof(service+" service with Instance ID: %s is ready", id)
	return InstanceId, nil
}

func GetInstanceId() string {
	return InstanceId
}

func CORS(origins []string) *cors.Cors {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	corsOptions := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "password"},
		MaxAge:         300, // Maximum value not ignored by any of major browsers
	})

	return corsOptions
}

// Logging configures the global logrus logger. With an empty dir the log goes
// to stdout, otherwise to <dir>/<service>.log.
func Logging(service, dir, level string) error {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)

	if dir == "" {
		log.SetOutput(os.Stdout)
		return nil
	}

	_, err = os.Stat(dir)
	if os.IsNotExist(err) {
		err = os.MkdirAll(dir, 0755)
		if err != nil {
			log.Warnf("unable to create folder for log %s", err)
			return nil
		}
	}

	logFilePath := filepath.Join(dir, service+".log")

	file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}

	log.SetOutput(file)

	log.Infof("log to file started for service: %s", service)
	return nil
}

func CustomLoggerMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				log.WithFields(log.Fields{
					"request_id": middleware.GetReqID(r.Context()),
					"remote":     r.RemoteAddr,
				}).Infof("%s %s %d %s %s",
					r.Method,
					r.RequestURI,
					ww.Status(),
					http.StatusText(ww.Status()),
					time.Since(start),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

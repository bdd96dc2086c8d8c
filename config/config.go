package config

import (
	"errors"
	"flag"
	"net"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const DefaultPort = 5000

var ErrMissingDBUrl = errors.New("MONGODB_URI is not defined in the environment or .env file")

type Config struct {
	Addr            string
	DBUrl           string
	DBName          string
	CorsOrigins     []string
	ShutdownTimeout time.Duration
	Debug           bool
}

// Parse reads .env (if present), then the environment, then args.
// Flags win over environment variables.
func Parse(args []string) (cfg Config, err error) {
	err = godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return
	}
	err = nil

	defaultPort := DefaultPort
	if p, perr := strconv.Atoi(os.Getenv("PORT")); perr == nil && p > 0 {
		defaultPort = p
	}

	fs := flag.NewFlagSet("tichi-survey", flag.ContinueOnError)
	var host string
	fs.StringVar(&host, "host", "0.0.0.0", "listen host name")
	var port uint
	fs.UintVar(&port, "port", uint(defaultPort), "listen port number (env PORT)")
	fs.StringVar(&cfg.DBUrl, "db-url", os.Getenv("MONGODB_URI"), "store connection string: mongodb://, mongodb+srv://, sqlite3:// or file: (env MONGODB_URI)")
	fs.StringVar(&cfg.DBName, "db-name", os.Getenv("MONGODB_DB"), "database name when the connection string has none (env MONGODB_DB)")
	var origins string
	fs.StringVar(&origins, "cors-origins", os.Getenv("CORS_ORIGINS"), "comma separated allowed origins, empty allows any (env CORS_ORIGINS)")
	var shutdown uint
	fs.UintVar(&shutdown, "shutdown-timeout", 10, "graceful shutdown timeout in seconds")
	fs.BoolVar(&cfg.Debug, "debug", envBool("DEBUG"), "log at DEBUG level (env DEBUG)")

	err = fs.Parse(args)
	if err != nil {
		return
	}

	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(int(port)))
	cfg.ShutdownTimeout = time.Duration(shutdown) * time.Second
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CorsOrigins = append(cfg.CorsOrigins, o)
		}
	}

	if cfg.DBUrl == "" {
		err = ErrMissingDBUrl
	}

	return
}

func envBool(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = regexp.MustCompile(`^0.0.0.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}

var reCredentials = regexp.MustCompile(`//[^:/@]+:[^@]+@`)

// MaskedDBUrl hides user and password of the connection string.
func (cfg Config) MaskedDBUrl() string {
	return reCredentials.ReplaceAllString(cfg.DBUrl, "//****:****@")
}

// Package config reads options of countercheck from command line flags and environment variables.
//
// Every option has an environment variable named COUNTERCHECK_<NAME>, like COUNTERCHECK_LOG_FILE for --log-file.
// A flag set on the command line beats the environment variable, and the environment variable beats the default value.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/visitorcount/countercheck/internal/checkerr"
	"github.com/visitorcount/countercheck/internal/counter"
	"github.com/visitorcount/countercheck/internal/schedule"
)

const (
	EnvPrefix = "COUNTERCHECK"

	KeyEndpoint = "endpoint"
	KeyField    = "field"
	KeyTimeout  = "timeout"
	KeyLogFile  = "log-file"
	KeyPort     = "port"
	KeySchedule = "schedule"

	DefaultLogFile  = "countercheck.log"
	DefaultPort     = 9000
	DefaultSchedule = "5m"
)

var (
	ErrInvalidConfig = errors.New("invalid argument")

	// ErrNoEndpoint means neither the arguments nor COUNTERCHECK_ENDPOINT has the endpoint.
	ErrNoEndpoint = errors.New("no endpoint specified")
)

// Config is the resolved options of a run.
type Config struct {
	Target   counter.Endpoint
	Schedule schedule.Schedule

	// LogFile is the path to the log file. Empty means not to write the log file.
	LogFile string

	Port int
}

// AddFlags registers the flags that Load reads.
func AddFlags(fs *pflag.FlagSet) {
	fs.StringP(KeyLogFile, "f", DefaultLogFile, "Path to log file")
	fs.StringP(KeyField, "F", counter.DefaultField, "jq path to the count field")
	fs.DurationP(KeyTimeout, "t", counter.DefaultTimeout, "Timeout of a check")
	fs.IntP(KeyPort, "p", DefaultPort, "HTTP listen port")
}

func newViper(fs *pflag.FlagSet) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for _, key := range []string{KeyLogFile, KeyField, KeyTimeout, KeyPort} {
		if f := fs.Lookup(key); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}
	_ = v.BindEnv(KeyEndpoint)
	_ = v.BindEnv(KeySchedule)

	v.SetDefault(KeyLogFile, DefaultLogFile)
	v.SetDefault(KeyField, counter.DefaultField)
	v.SetDefault(KeyTimeout, counter.DefaultTimeout.String())
	v.SetDefault(KeyPort, DefaultPort)
	v.SetDefault(KeySchedule, DefaultSchedule)

	return v
}

// Load resolves Config from fs, environment variables, and positional arguments.
//
// args is "[SCHEDULE] [ENDPOINT]". A single argument is the endpoint unless it is a schedule. It returns ErrNoEndpoint if there is no endpoint anywhere.
// The other problems are reported together as one error.
func Load(fs *pflag.FlagSet, args []string) (Config, error) {
	v := newViper(fs)
	errs := &checkerr.Problems{Kind: ErrInvalidConfig}

	switch len(args) {
	case 0:
	case 1:
		if _, err := schedule.Parse(args[0]); err == nil && !strings.Contains(args[0], "://") {
			v.Set(KeySchedule, args[0])
		} else {
			v.Set(KeyEndpoint, args[0])
		}
	case 2:
		v.Set(KeySchedule, args[0])
		v.Set(KeyEndpoint, args[1])
	default:
		errs.Addf("too many arguments: %s", strings.Join(args, " "))
	}

	var c Config

	c.LogFile = v.GetString(KeyLogFile)
	if c.LogFile == "-" {
		c.LogFile = ""
	}

	timeout, err := time.ParseDuration(v.GetString(KeyTimeout))
	if err != nil {
		errs.Addf("%s: invalid timeout", v.GetString(KeyTimeout))
	} else if timeout <= 0 {
		errs.Addf("%s: timeout must be positive", timeout)
	}

	port, err := strconv.Atoi(v.GetString(KeyPort))
	if err != nil || port <= 0 || port > 65535 {
		errs.Addf("%s: invalid port number", v.GetString(KeyPort))
	}
	c.Port = port

	if c.Schedule, err = schedule.Parse(v.GetString(KeySchedule)); err != nil {
		errs.Add(err)
	}

	rawURL := v.GetString(KeyEndpoint)
	if rawURL == "" {
		if err := errs.Err(); err != nil {
			return c, err
		}
		return c, ErrNoEndpoint
	}

	if timeout < 0 {
		timeout = 0
	}
	if c.Target, err = counter.NewEndpoint(rawURL, v.GetString(KeyField), timeout); err != nil {
		errs.Add(err)
	}

	return c, errs.Err()
}

// String describes c in the form of the command line.
func (c Config) String() string {
	return fmt.Sprintf("%s %s", c.Schedule, c.Target)
}

package config

import (
	"github.com/spf13/pflag"

	"github.com/hammamikhairi/scorekeep/internal/logger"
)

// Flags holds command-line values. Only flags the user actually set
// override the loaded configuration.
type Flags struct {
	ConfigPath string
	EnvFile    string
	Verbose    bool
	Quiet      bool
	NoHorn     bool
	NoBanner   bool

	title      string
	storage    string
	storageDir string
	redisURL   string
	sqlDSN     string
	broadcast  string
	logFile    string
	logFormat  string
	clock      string
	period     string
	team1      string
	team2      string
}

// Register adds the flags to fs.
func (f *Flags) Register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.ConfigPath, "config", "c", "", "path to a YAML config file")
	fs.StringVar(&f.EnvFile, "env-file", ".env", "dotenv file loaded before reading SCOREKEEP_* variables")
	fs.BoolVarP(&f.Verbose, "verbose", "v", false, "enable verbose/debug logging")
	fs.BoolVarP(&f.Quiet, "quiet", "q", false, "disable all logging")
	fs.BoolVar(&f.NoHorn, "no-horn", false, "do not sound the horn when the clock expires")
	fs.BoolVar(&f.NoBanner, "no-banner", false, "hide the ASCII banner")

	fs.StringVar(&f.title, "title", "", "event title shown above the board")
	fs.StringVar(&f.storage, "storage", "", "team-name storage backend: file, memory, redis, sql, none")
	fs.StringVar(&f.storageDir, "storage-dir", "", "directory for the file backend")
	fs.StringVar(&f.redisURL, "redis-url", "", "redis URL for the redis backend")
	fs.StringVar(&f.sqlDSN, "sql-dsn", "", "data source for the sql backend (sqlite path or postgres URL)")
	fs.StringVar(&f.broadcast, "broadcast", "", "serve the overlay feed on this address (e.g. :8080)")
	fs.StringVar(&f.logFile, "log-file", "", "file to write logs to (use \"stderr\" to log to console)")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: console or json")
	fs.StringVar(&f.clock, "clock", "", "initial game clock, M:SS")
	fs.StringVar(&f.period, "period", "", "initial period label")
	fs.StringVar(&f.team1, "team1", "", "initial team 1 name (stored names win)")
	fs.StringVar(&f.team2, "team2", "", "initial team 2 name (stored names win)")
}

// Apply copies every flag the user set on fs into c.
func (f *Flags) Apply(fs *pflag.FlagSet, c *Config) {
	set := func(name, v string, dst *string) {
		if fs.Changed(name) {
			*dst = v
		}
	}

	set("title", f.title, &c.Title)
	set("storage", f.storage, &c.Storage.Backend)
	set("storage-dir", f.storageDir, &c.Storage.Dir)
	set("redis-url", f.redisURL, &c.Storage.RedisURL)
	set("sql-dsn", f.sqlDSN, &c.Storage.SQLDSN)
	set("broadcast", f.broadcast, &c.Broadcast.Addr)
	set("log-file", f.logFile, &c.Log.File)
	set("log-format", f.logFormat, &c.Log.Format)
	set("clock", f.clock, &c.Defaults.Clock)
	set("period", f.period, &c.Defaults.Period)
	set("team1", f.team1, &c.Defaults.Team1Name)
	set("team2", f.team2, &c.Defaults.Team2Name)

	switch {
	case f.Quiet:
		c.Log.Level = logger.LevelOff.String()
	case f.Verbose:
		c.Log.Level = logger.LevelVerbose.String()
	}
	if f.NoHorn {
		c.Horn.Enabled = false
	}
}

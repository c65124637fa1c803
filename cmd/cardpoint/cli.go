package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/cardpoint"
	"github.com/fwojciec/cardpoint/gemini"
	"github.com/fwojciec/cardpoint/pipeline"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Config *Config

	// run
	Driver *pipeline.Driver

	// cache
	Fetcher   cardpoint.Fetcher
	Cache     cardpoint.Cache
	Snapshots cardpoint.SnapshotService

	// check-model
	Models    gemini.ModelGetter
	Generator gemini.Generator
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	LogLevel string `name:"log-level" default:"info" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)"`
	Sources  string `name:"sources" type:"path" help:"YAML file listing sources (default: built-in SMBC and MUFG)"`
	EnvFile  string `name:"env-file" default:".env" type:"path" help:"Load environment variables from this file if it exists"`

	Run        RunCmd        `cmd:"" help:"Extract stores from every source and write the result"`
	Cache      CacheCmd      `cmd:"" help:"Fetch every source and refresh the page cache"`
	CheckModel CheckModelCmd `cmd:"" name:"check-model" help:"Show the model in use and ping it"`
	Show       ShowCmd       `cmd:"" help:"Print a result file as a table"`
}

// FetchFlags select how pages are fetched and cached.
type FetchFlags struct {
	Fetcher  string        `default:"http" enum:"http,browser" help:"Page fetcher (http, browser)"`
	Timeout  time.Duration `default:"30s" help:"Per-page fetch timeout"`
	Store    string        `name:"cache" default:"fs" enum:"fs,sqlite" help:"Page cache backend (fs, sqlite)"`
	CacheDir string        `name:"cache-dir" default:"html_cache" type:"path" help:"Directory of the fs cache"`
	DBPath   string        `name:"db" default:"cardpoint.db" type:"path" help:"Database file of the sqlite cache"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	FetchFlags `embed:""`

	Output    string        `short:"o" default:"stores.json" type:"path" help:"Output file"`
	Extractor string        `default:"readability" enum:"readability,trafilatura,none" help:"Content extractor tried before tag stripping"`
	Budget    int           `default:"95000" help:"Maximum characters sent to the model"`
	Pace      time.Duration `default:"2s" help:"Minimum interval between sources"`
	DebugDir  string        `name:"debug-dir" type:"path" help:"Write cleaned text and model replies to this directory"`
	Tokens    bool          `help:"Log the token count of each reduced page"`
}

// CacheCmd is the "cache" subcommand.
type CacheCmd struct {
	FetchFlags `embed:""`

	List bool `help:"List stored snapshots instead of fetching (sqlite cache only)"`
}

// CheckModelCmd is the "check-model" subcommand.
type CheckModelCmd struct {
	NoPing bool `name:"no-ping" help:"Only resolve the model"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	File string `arg:"" optional:"" default:"stores.json" type:"path" help:"Result file"`
}

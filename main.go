package main

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	exit_reload "github.com/mrmelon54/exit-reload"
)

var configFlag string

func main() {
	log.SetPrefix("SecretSanta")

	if len(os.Args) > 1 && os.Args[1] == "draw" {
		if err := runDraw(os.Args[2:], os.Stdout, os.Stderr); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return
			}
			log.Fatal("Draw failed", "err", err)
		}
		return
	}

	archive := false
	args := os.Args[1:]
	if len(args) > 0 && args[0] == "archive" {
		archive = true
		args = args[1:]
	}

	fs := flag.NewFlagSet("secret-santa", flag.ExitOnError)
	fs.StringVar(&configFlag, "conf", "config.yml", "Path to the config file")
	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage:\n  %[1]s [archive] [-conf config.yml]\n  %[1]s draw [-seed N] [-max-attempts N] [-prior a,b,c] [-debug] name...\n", filepath.Base(os.Args[0]))
		fs.PrintDefaults()
	}
	_ = fs.Parse(args)

	if archive {
		if err := runArchive(configFlag); err != nil {
			log.Fatal("Failed to archive round", "conf", configFlag, "err", err)
		}
		return
	}

	conf, err := loadConfig(configFlag)
	if err != nil {
		log.Fatal("Failed to load config", "path", configFlag, "err", err)
	}
	if conf.Debug {
		log.SetLevel(log.DebugLevel)
	}

	santa, store, err := openSantaServer(conf, configFlag)
	if err != nil {
		log.Fatal("Failed to start", "err", err)
	}

	server := &http.Server{
		Handler: santa.Handler(),
		Addr:    conf.Listen,
	}
	go func() {
		log.Info("Listening for HTTP requests", "addr", server.Addr)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Listen and serve error", "err", err)
		}
	}()

	exit_reload.ExitReload("SecretSanta", func() {
		if err := santa.resolve(); err != nil {
			log.Error("Failed to resolve players", "err", err)
		}
	}, func() {
		_ = server.Close()
		_ = store.Close()
	})
}

// storePath keeps players.db next to the config file.
func storePath(confPath string) string {
	return filepath.Join(filepath.Dir(confPath), "players.db")
}

// runArchive stores the current draw as a finished round.
func runArchive(confPath string) error {
	conf, err := loadConfig(confPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if conf.Debug {
		log.SetLevel(log.DebugLevel)
	}
	store, err := OpenStore(storePath(confPath))
	if err != nil {
		return fmt.Errorf("open players.db: %w", err)
	}
	defer func() { _ = store.Close() }()
	return archiveCurrentRound(store, conf)
}

// openSantaServer opens the store and resolves the current round. The store
// is closed again if resolving fails.
func openSantaServer(conf Config, confPath string) (*santaServer, *Store, error) {
	store, err := OpenStore(storePath(confPath))
	if err != nil {
		return nil, nil, fmt.Errorf("open players.db: %w", err)
	}
	santa, err := newSantaServer(conf, store)
	if err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("resolve players: %w", err)
	}
	return santa, store, nil
}

func loadConfig(path string) (Config, error) {
	openConf, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer func() { _ = openConf.Close() }()
	return decodeConfig(openConf)
}

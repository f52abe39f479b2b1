package app

import (
	"os"
	"path/filepath"
)

// Paths holds all resolved filesystem paths for the .refmap/ state directory.
// All fields are pre-computed strings.
type Paths struct {
	Root       string // .refmap/
	DB         string // .refmap/refmap.db
	ConfigFile string // .refmap/config.yml

	LogDir    string // .refmap/log/
	DaemonLog string // .refmap/log/daemon.log

	RunDir  string // .refmap/run/
	PIDFile string // .refmap/run/daemon.pid
}

// NewPaths constructs all resolved paths from a corpus root directory.
func NewPaths(corpusRoot string) *Paths {
	root := filepath.Join(corpusRoot, ".refmap")
	return &Paths{
		Root:       root,
		DB:         filepath.Join(root, "refmap.db"),
		ConfigFile: filepath.Join(root, "config.yml"),

		LogDir:    filepath.Join(root, "log"),
		DaemonLog: filepath.Join(root, "log", "daemon.log"),

		RunDir:  filepath.Join(root, "run"),
		PIDFile: filepath.Join(root, "run", "daemon.pid"),
	}
}

// EnsureDirs creates all subdirectories under .refmap/. Idempotent.
func (p *Paths) EnsureDirs() error {
	dirs := []string{
		p.Root,
		p.LogDir,
		p.RunDir,
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}

// CleanEphemeral removes ephemeral runtime files (the PID file).
// Called on clean daemon shutdown.
func (p *Paths) CleanEphemeral() {
	os.Remove(p.PIDFile)
}

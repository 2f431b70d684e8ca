package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"roster/internal/config"
	"roster/internal/faults"
	"roster/internal/logging"
	"roster/internal/roster"
	"roster/internal/store"
)

type commandContext struct {
	configFlag *string
	dataFlag   *string
	jsonFlag   *bool

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
	sessionID  string
}

func newCommandContext(configFlag, dataFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		dataFlag:   dataFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.dataFlag != nil && strings.TrimSpace(*c.dataFlag) != "" {
			cfg, err = cfg.WithDataFile(*c.dataFlag)
			if err != nil {
				c.configErr = err
				return
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.sessionID = uuid.NewString()
		c.logger, c.loggerErr = logging.NewFromConfig(cfg, c.sessionID)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// rosterSession is one open roster: the loaded manager, the load report, and
// the writer lock when the command mutates data.
type rosterSession struct {
	cfg     *config.Config
	logger  *slog.Logger
	manager *roster.Manager
	report  store.LoadReport
	store   store.Store
	lock    *store.Lock
}

func (s *rosterSession) Close() {
	if s.store != nil {
		_ = s.store.Close()
	}
	if s.lock != nil {
		_ = s.lock.Release()
	}
}

// withRoster opens the configured store, loads it, and runs fn. Writable
// sessions hold the writer lock for their whole lifetime and are refused
// when the store could not be read.
func (c *commandContext) withRoster(cmd *cobra.Command, writable bool, fn func(*rosterSession) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	session := &rosterSession{cfg: cfg, logger: logger}
	defer session.Close()

	if writable {
		lock, err := store.AcquireLock(cfg.LockPath(), logger)
		if err != nil {
			return err
		}
		session.lock = lock
	}

	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	session.store = st
	session.manager = roster.New(st, logger)
	session.report = session.manager.Load(ctx)
	if loadErr := session.manager.LoadErr(); loadErr != nil {
		if writable {
			return faults.Wrap(faults.ErrPersistence, "roster", cmd.Name(),
				"refusing to modify "+st.Location()+" because it could not be read", loadErr)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not read %s; starting with an empty roster (%v)\n", st.Location(), loadErr)
	} else if session.report.Partial() {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: skipped %d invalid record(s) in %s; run `roster check` for details\n",
			len(session.report.Skipped), st.Location())
	}
	return fn(session)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

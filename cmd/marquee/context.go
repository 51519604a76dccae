package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"marquee/internal/catalog"
	"marquee/internal/config"
	"marquee/internal/logging"
	"marquee/internal/notifications"
	"marquee/internal/pipeline"
	"marquee/internal/schedule"
	"marquee/internal/tmdb"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// loggerFor builds the run logger once. Console output is coloured only when
// stderr is a terminal.
func (c *commandContext) loggerFor(cmd *cobra.Command) (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg, isTerminal(cmd.ErrOrStderr()))
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) openStore() (*schedule.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return schedule.Open(cfg)
}

func (c *commandContext) catalogSource(logger *slog.Logger) (*tmdb.Source, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return tmdb.NewFromConfig(cfg, tmdb.WithLogger(logger))
}

func (c *commandContext) curator(source pipeline.Source, store *schedule.Store, logger *slog.Logger) (*pipeline.Curator, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	var posts pipeline.PostSource
	if store != nil {
		posts = store
	}
	return pipeline.NewFromConfig(cfg, source, posts, pipeline.WithLogger(logger)), nil
}

func (c *commandContext) notifier() notifications.Service {
	cfg, _ := c.ensureConfig()
	return notifications.NewService(cfg)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func parseKey(mediaArg, idArg string) (catalog.Key, error) {
	mediaType, err := catalog.ParseMediaType(mediaArg)
	if err != nil {
		return catalog.Key{}, err
	}
	id, err := strconv.ParseInt(strings.TrimSpace(idArg), 10, 64)
	if err != nil || id <= 0 {
		return catalog.Key{}, fmt.Errorf("invalid catalog id %q", idArg)
	}
	return catalog.Key{ID: id, MediaType: mediaType}, nil
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/ytarc/internal/shared"
)

// loadConfigAt reads the config file at the command's --config path, falling
// back to defaults when it does not exist.
func (r *Runner) loadConfigAt(cmd *cli.Command) (*shared.Config, string, error) {
	path := cmd.String("config")
	if _, err := os.Stat(path); err != nil {
		return shared.DefaultConfig(), path, nil
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return nil, path, err
	}
	return config, path, nil
}

// ConfigShow prints the active configuration.
func (r *Runner) ConfigShow(ctx context.Context, cmd *cli.Command) error {
	config, path, err := r.loadConfigAt(cmd)
	if err != nil {
		return err
	}

	r.writePlainHeader(fmt.Sprintf("Configuration (%s)", path))
	for _, key := range []string{
		"downloads.root",
		"downloads.audio_dir",
		"downloads.video_dir",
		"defaults.video_quality",
		"defaults.audio_bitrate",
		"defaults.audio_format",
		"database.path",
	} {
		value, err := config.Get(key)
		if err != nil {
			return err
		}
		r.writePlain("%-24s %s\n", key, value)
	}
	return nil
}

// ConfigGet prints one configuration value.
func (r *Runner) ConfigGet(ctx context.Context, cmd *cli.Command) error {
	key := cmd.StringArg("key")
	if key == "" {
		return fmt.Errorf("%w: key", shared.ErrMissingArgument)
	}

	config, _, err := r.loadConfigAt(cmd)
	if err != nil {
		return err
	}

	value, err := config.Get(key)
	if err != nil {
		return err
	}

	r.writePlain("%s\n", value)
	return nil
}

// ConfigSet updates one configuration value and writes the file back.
func (r *Runner) ConfigSet(ctx context.Context, cmd *cli.Command) error {
	key := cmd.StringArg("key")
	value := cmd.StringArg("value")
	if key == "" || value == "" {
		return fmt.Errorf("%w: key and value", shared.ErrMissingArgument)
	}

	config, path, err := r.loadConfigAt(cmd)
	if err != nil {
		return err
	}

	if err := config.Set(key, value); err != nil {
		return err
	}

	if err := shared.SaveConfig(config, path); err != nil {
		return err
	}

	r.logger.Info("config updated", "key", key, "value", value, "path", path)
	return nil
}

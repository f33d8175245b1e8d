package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/ytarc/internal/ledger"
	"github.com/desertthunder/ytarc/internal/models"
	"github.com/desertthunder/ytarc/internal/services"
	"github.com/desertthunder/ytarc/internal/shared"
	"github.com/desertthunder/ytarc/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	fetcher    services.Fetcher
	enumerator services.Enumerator
	backend    *services.YTDLPService
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Fetcher    services.Fetcher
	Enumerator services.Enumerator
	Backend    *services.YTDLPService
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Backend == nil {
		opts.Backend = services.NewYTDLPService(opts.Logger)
	}
	if opts.Fetcher == nil {
		opts.Fetcher = opts.Backend
	}
	if opts.Enumerator == nil {
		opts.Enumerator = opts.Backend
	}

	return &Runner{
		config:     opts.Config,
		fetcher:    opts.Fetcher,
		enumerator: opts.Enumerator,
		backend:    opts.Backend,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger swaps the runner's logger.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		videoCommand, audioCommand, infoCommand, playlistCommand, channelCommand,
		batchCommand, failedCommand, configCommand, setupCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// openEngine opens the ledger database and builds a download engine. The
// returned closer releases the database connection.
func (r *Runner) openEngine() (*tasks.Engine, *ledger.Ledger, func(), error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	ldg, err := ledger.Open(db)
	if err != nil {
		db.Close()
		return nil, nil, nil, err
	}

	engine := tasks.NewEngine(r.fetcher, r.enumerator, ldg, r.logger)
	return engine, ldg, func() { db.Close() }, nil
}

// streamProgress starts a consumer that prints progress messages as they
// arrive. The returned stop function drains and closes the channel.
func (r *Runner) streamProgress() (chan tasks.ProgressUpdate, func()) {
	progress := make(chan tasks.ProgressUpdate, 64)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range progress {
			r.writePlain("%s\n", update.Message)
		}
	}()

	var once sync.Once
	return progress, func() {
		once.Do(func() {
			close(progress)
			<-done
		})
	}
}

// videoPreference builds a video format preference from flags with config defaults.
func (r *Runner) videoPreference(cmd *cli.Command) (models.FormatPreference, error) {
	quality := cmd.String("quality")
	if quality == "" {
		quality = r.config.Defaults.VideoQuality
	}

	q, err := models.ParseVideoQuality(quality)
	if err != nil {
		return models.FormatPreference{}, fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}

	return models.FormatPreference{MediaType: models.Video, VideoQuality: q}, nil
}

// audioPreference builds an audio format preference from flags with config defaults.
func (r *Runner) audioPreference(cmd *cli.Command) (models.FormatPreference, error) {
	bitrate := int(cmd.Int("bitrate"))
	if bitrate == 0 {
		bitrate = r.config.Defaults.AudioBitrate
	}

	format := cmd.String("format")
	if format == "" {
		format = r.config.Defaults.AudioFormat
	}

	af, err := models.ParseAudioFormat(format)
	if err != nil {
		return models.FormatPreference{}, fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}

	q, err := models.ParseVideoQuality(r.config.Defaults.VideoQuality)
	if err != nil {
		return models.FormatPreference{}, fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
	}

	pref := models.FormatPreference{
		MediaType:        models.Audio,
		VideoQuality:     q,
		AudioBitrateKbps: bitrate,
		AudioFormat:      af,
	}
	if err := pref.Validate(); err != nil {
		return models.FormatPreference{}, fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}
	return pref, nil
}

// preference dispatches on the --type flag (video or audio, video default).
func (r *Runner) preference(cmd *cli.Command) (models.FormatPreference, error) {
	mediaType := cmd.String("type")
	if mediaType == "" {
		mediaType = "video"
	}

	mt, err := models.ParseMediaType(mediaType)
	if err != nil {
		return models.FormatPreference{}, fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}

	if mt == models.Audio {
		return r.audioPreference(cmd)
	}
	return r.videoPreference(cmd)
}

// destDir returns the download directory for a media type.
func (r *Runner) destDir(mt models.MediaType) string {
	sub := r.config.Downloads.VideoDir
	if mt == models.Audio {
		sub = r.config.Downloads.AudioDir
	}
	return filepath.Join(r.config.Downloads.Root, sub)
}

// runOpts assembles engine options from flags and config.
func (r *Runner) runOpts(cmd *cli.Command, pref models.FormatPreference) tasks.RunOpts {
	workers := int(cmd.Int("workers"))
	if workers == 0 {
		workers = r.config.Fetch.Workers
	}

	return tasks.RunOpts{
		Pref:        pref,
		DestDir:     r.destDir(pref.MediaType),
		Concurrency: workers,
		RateLimit:   r.config.Fetch.RateLimit,
		Timeout:     time.Duration(r.config.Fetch.TimeoutSeconds) * time.Second,
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

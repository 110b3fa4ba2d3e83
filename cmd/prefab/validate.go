package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/phanxgames/prefab"
	"github.com/phanxgames/prefab/assets"
	"github.com/phanxgames/prefab/ui"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var errInvalid = eris.New("prefab is not valid")

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Resolve every asset and callback a UI file references",
	Long: `validate resolves the file against an asset server rooted at --assets (or a
redis server with --redis), waits for every asset to load and reports the ones
that failed. System callbacks are checked against --systems; without it every
referenced name is accepted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()
		p, err := readUI(args[0])
		if err != nil {
			return err
		}
		return s.validate(cmd.Context(), cmd.OutOrStdout(), p)
	},
}

func init() {
	validateCmd.Flags().StringSlice("systems", nil, "registered system callback names")
	rootCmd.AddCommand(validateCmd)
}

// session is a scratch world with an asset server.
type session struct {
	cfg     Config
	logger  zerolog.Logger
	world   *prefab.World
	server  *assets.Server
	timeout time.Duration
	systems []string
	close   func() error
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg, nil)
	if err != nil {
		return nil, err
	}
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, eris.Wrap(err, "read flags")
	}
	s := openSession(cfg, logger)
	s.timeout = timeout
	if cmd.Flags().Lookup("systems") != nil {
		s.systems, _ = cmd.Flags().GetStringSlice("systems")
	}
	return s, nil
}

// openSession builds the world and the asset source described by cfg.
func openSession(cfg Config, logger zerolog.Logger) *session {
	s := &session{
		cfg:     cfg,
		logger:  logger,
		timeout: 30 * time.Second,
		close:   func() error { return nil },
	}
	var src assets.Source
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		src = assets.NewRedisSource(client, assets.WithPrefix(cfg.RedisPrefix))
		s.close = client.Close
	} else {
		src = assets.NewFSSource(os.DirFS(cfg.AssetRoot))
	}
	s.server = assets.NewServer(src,
		assets.WithLogger(logger),
		assets.WithWorkers(cfg.Workers),
		assets.WithMetrics(assets.NewMetrics(prometheus.NewRegistry())),
	)
	s.world = prefab.NewWorld(prefab.WithLogger(logger), prefab.WithDebug(cfg.Debug))
	assets.Install(s.world, s.server)
	ui.Install[ui.NoData](s.world)
	return s
}

func (s *session) Close() error {
	return s.close()
}

// registerSystems fills the callback table with no-op systems: the names in
// s.systems, or every system p references when s.systems is empty.
func (s *session) registerSystems(p *uiPrefab) {
	callbacks, _ := ui.CallbacksOf(s.world)
	noop := func(*prefab.World) {}
	if len(s.systems) > 0 {
		for _, name := range s.systems {
			callbacks.Register(name, noop)
		}
		return
	}
	for i := 0; i < p.Len(); i++ {
		n, _ := p.Node(i)
		if d, ok := n.Data(); ok && d.Callback != nil && d.Callback.System != "" {
			callbacks.Register(d.Callback.System, noop)
		}
	}
}

// validate resolves p, waits for every requested asset and writes one line
// per asset. It fails with errInvalid when anything did not resolve or load.
func (s *session) validate(ctx context.Context, out io.Writer, p *uiPrefab) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s.registerSystems(p)
	unresolved := p.Prepare(s.world)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.server.Start(gctx) })

	failed := 0
	var waitErr error
	for id := assets.ID(1); int(id) <= s.server.Len(); id++ {
		state, err := s.server.Wait(ctx, id)
		if err != nil {
			waitErr = eris.Wrapf(err, "wait for %s", s.server.Path(id))
			break
		}
		if state == assets.Failed {
			failed++
			fmt.Fprintf(out, "FAIL  %s: %v\n", s.server.Path(id), s.server.Err(id))
			continue
		}
		fmt.Fprintf(out, "ok    %s\n", s.server.Path(id))
	}
	cancel()
	if err := g.Wait(); err != nil && waitErr == nil {
		waitErr = err
	}
	if waitErr != nil {
		return waitErr
	}

	switch {
	case unresolved && failed > 0:
		return eris.Wrapf(errInvalid, "%d assets failed to load and some references did not resolve", failed)
	case unresolved:
		return eris.Wrap(errInvalid, "some references did not resolve")
	case failed > 0:
		return eris.Wrapf(errInvalid, "%d assets failed to load", failed)
	}
	fmt.Fprintf(out, "valid: %d nodes, %d assets\n", p.Len(), s.server.Len())
	return nil
}

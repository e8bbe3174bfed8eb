package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"github.com/framefold/remap/pkg/cache"
	"github.com/framefold/remap/pkg/config"
	"github.com/framefold/remap/pkg/credits"
	"github.com/framefold/remap/pkg/pipeline"
	"github.com/framefold/remap/pkg/project"
	"github.com/framefold/remap/pkg/registry"
	"github.com/framefold/remap/pkg/registry/nodestate"
	"github.com/framefold/remap/pkg/synth"
)

// previewCacheDir returns the default directory for the file cache backend.
func previewCacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("get cache dir: %w", err)
	}
	return filepath.Join(base, "remap", "previews"), nil
}

// buildRunner assembles a pipeline runner from the loaded configuration and
// project: cache backend, synthesis client, credit ledger, node state store
// and the optional Redis payload mirror. The returned cleanup closes every
// backend the runner opened.
func buildRunner(ctx context.Context, cfg config.Config, proj *project.Project, logger *log.Logger) (*pipeline.Runner, func(), error) {
	store := registry.NewMemoryStore()
	proj.Publish(store)

	runner := pipeline.NewRunner(proj.Graph, store, logger)
	runner.Options = cfg.EngineOptions()
	runner.Credits = credits.NewLedger(cfg.Credits.Balance)

	var closers []func()
	cleanup := func() {
		_ = runner.Close()
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (*pipeline.Runner, func(), error) {
		cleanup()
		return nil, nil, err
	}

	previews, err := openCache(ctx, cfg)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, func() { _ = previews.Close() })

	client, err := openSynthClient(cfg)
	if err != nil {
		return fail(err)
	}
	runner.Dispatcher = synth.NewDispatcher(client, previews, logger)

	if cfg.Redis.MirrorPayloads {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return fail(fmt.Errorf("connect payload mirror: %w", err))
		}
		closers = append(closers, func() { _ = client.Close() })
		store.Subscribe(registry.NewRedisMirror(client, cfg.Redis.Prefix, logger))
	}

	if cfg.Mongo.URI != "" {
		ns, err := nodestate.NewMongoStore(ctx, nodestate.MongoConfig{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return fail(fmt.Errorf("connect node state store: %w", err))
		}
		runner.NodeState = ns
	}

	for nodeID, count := range proj.Instances {
		if err := runner.NodeState.SetInstanceCount(ctx, nodeID, count); err != nil {
			return fail(fmt.Errorf("set instance count for %s: %w", nodeID, err))
		}
	}

	return runner, cleanup, nil
}

func openCache(ctx context.Context, cfg config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
	default:
		dir := cfg.Cache.Dir
		if dir == "" {
			var err error
			dir, err = previewCacheDir()
			if err != nil {
				return nil, err
			}
		}
		return cache.NewFileCache(dir)
	}
}

func openSynthClient(cfg config.Config) (synth.Client, error) {
	if cfg.Synth.Backend == "openai" {
		return synth.NewOpenAIClient(synth.Settings{
			APIKey:  cfg.Synth.APIKey,
			Model:   cfg.Synth.Model,
			BaseURL: cfg.Synth.BaseURL,
		})
	}
	return &synth.MockClient{}, nil
}

package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/porenet/pkg/api"
	"github.com/matzehuels/porenet/pkg/cache"
	"github.com/matzehuels/porenet/pkg/pipeline"
	"github.com/matzehuels/porenet/pkg/store"
)

// serveOpts holds the flags of the serve command.
type serveOpts struct {
	addr     string
	mongoURI string
	database string
	origin   string
}

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		caches cacheFlags
		opts   serveOpts
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve sweeps over HTTP",
		Long: `Serve starts the porenet HTTP API. Runs are kept in memory unless
--mongo-uri points at a MongoDB deployment.`,
		Example: `  porenet serve --addr :8080
  porenet serve --mongo-uri mongodb://localhost:27017 --redis redis://localhost:6379/0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server := c.config.Server
			changed := cmd.Flags().Changed
			if changed("addr") || server.Addr == "" {
				server.Addr = opts.addr
			}
			if changed("mongo-uri") {
				server.MongoURI = opts.mongoURI
			}
			if changed("database") || server.Database == "" {
				server.Database = opts.database
			}
			return c.runServe(cmd.Context(), caches, server.Addr, server.MongoURI, server.Database, opts.origin)
		},
	}

	caches.register(cmd)
	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", "", "store runs in MongoDB at this URI")
	cmd.Flags().StringVar(&opts.database, "database", "porenet", "MongoDB database name")
	cmd.Flags().StringVar(&opts.origin, "cors-origin", "", "allowed CORS origin (empty disables CORS)")

	return cmd
}

// apiKeyPrefix keeps results written by the server apart from CLI runs that
// share the same cache.
const apiKeyPrefix = "api:"

// newServeRunner is newRunner with server cache keys.
func (c *CLI) newServeRunner(ctx context.Context, caches cacheFlags) (*pipeline.Runner, error) {
	return c.newRunner(ctx, caches, cache.NewScopedKeyer(nil, apiKeyPrefix))
}

func (c *CLI) runServe(ctx context.Context, caches cacheFlags, addr, mongoURI, database, origin string) error {
	runner, err := c.newServeRunner(ctx, caches)
	if err != nil {
		return err
	}

	var st store.Store
	storeName := "memory"
	if mongoURI != "" {
		if st, err = store.NewMongoStore(ctx, mongoURI, database); err != nil {
			_ = runner.Close()
			return err
		}
		storeName = "mongodb/" + database
	} else {
		st = store.NewMemoryStore(0)
	}

	srv := api.New(runner, st, c.Logger)
	srv.AllowedOrigin = origin
	defer func() {
		_ = srv.Close()
		_ = runner.Close()
	}()

	printSuccess("porenet API")
	printKeyValue("Address", StyleLink.Render("http://"+displayAddr(addr)))
	printKeyValue("Store", storeName)
	return srv.ListenAndServe(ctx, addr)
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

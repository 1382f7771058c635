package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/acms/internal/server"
	"github.com/desertthunder/acms/internal/tasks"
)

// Serve runs the content API until the process is interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}

	var proxy *server.PostgRESTProxy
	if cmd.Bool("proxy") {
		p, err := server.NewPostgRESTProxy(r.config.PostgREST, r.logger)
		if err != nil {
			return err
		}
		proxy = p
	}

	return r.withSyncer(ctx, func(syncer *tasks.ContentSyncer) error {
		router := server.NewAPIRouter(server.NewContentHandler(syncer, r.logger), proxy, r.logger)
		srv := server.NewServer(addr, router, r.logger)

		r.logger.Info("serving content API", "addr", addr, "driver", r.config.Database.Driver, "proxy", proxy != nil)
		return srv.ListenAndServe(ctx)
	})
}

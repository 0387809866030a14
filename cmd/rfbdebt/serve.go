package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	rfbdebt "github.com/pyhub-apps/rfbdebt-golang"
	"github.com/pyhub-apps/rfbdebt-golang/pkg/report"
	"github.com/pyhub-apps/rfbdebt-golang/pkg/web"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the upload form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				cfg.ListenAddr = addr
			}
			addressee := cfg.Addressee
			if addressee == "" {
				addressee = report.DefaultAddressee
			}

			p := rfbdebt.NewPipeline(cfg, log)
			defer p.Close()

			server := web.NewServer(rfbdebt.NewProcessor(p, cfg, log),
				web.WithStore(web.NewStore(cfg.BatchTTL)),
				web.WithMaxUploadMB(cfg.MaxUploadMB),
				web.WithAddressee(addressee),
				web.WithLogger(log),
			)

			srv := &http.Server{
				Addr:              cfg.ListenAddr,
				Handler:           server.Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				srv.Shutdown(shutdownCtx)
			}()

			log.WithField("addr", cfg.ListenAddr).Info("listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8082", "listen address")
	return cmd
}

// Command ens-mcp serves ENS resolution tools over the MCP protocol.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"

	"ens-mcp/internal/ens"
	"ens-mcp/internal/server"
)

type options struct {
	RPCURL    string `long:"rpc-url" env:"ETH_RPC_URL" default:"https://eth-mainnet.g.alchemy.com/v2/demo" description:"Ethereum RPC endpoint URL"`
	Transport string `long:"transport" choice:"stdio" choice:"http" choice:"test" default:"stdio" description:"Transport method"`
	HTTPAddr  string `long:"http-addr" env:"MCP_HTTP_ADDR" default:":3000" description:"Listen address for the http transport"`
	Token     string `long:"token" env:"MCP_TOKEN" description:"Optional bearer token for the http transport"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		if flags.WroteHelp(err) {
			return
		}
		os.Exit(2)
	}

	// Logs go to stderr; stdout belongs to the protocol on the stdio
	// transport.
	log := logrus.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := ens.Dial(ctx, opts.RPCURL)
	if err != nil {
		log.WithError(err).Errorf("Failed to initialize Ethereum client for %s", opts.RPCURL)
		os.Exit(1)
	}
	defer client.Close()
	if !client.IsConnected(ctx) {
		log.Errorf("Failed to connect to Ethereum node at %s", opts.RPCURL)
		os.Exit(1)
	}
	log.Infof("Successfully connected to Ethereum node at %s", opts.RPCURL)

	srv := server.New(server.Config{Token: opts.Token}, client, log)

	switch opts.Transport {
	case "stdio":
		if err := srv.ServeStdio(ctx, os.Stdin, os.Stdout); err != nil {
			log.WithError(err).Error("Server error")
			os.Exit(1)
		}
	case "http":
		if err := serveHTTP(ctx, opts.HTTPAddr, srv.Router(), log); err != nil {
			log.WithError(err).Error("Server error")
			os.Exit(1)
		}
	case "test":
		if err := srv.RunSmokeTest(ctx, os.Stdout); err != nil {
			log.WithError(err).Error("Smoke test failed")
			os.Exit(1)
		}
	}
}

// serveHTTP runs the HTTP transport until the context is cancelled, then
// shuts down gracefully.
func serveHTTP(ctx context.Context, addr string, handler http.Handler, log *logrus.Logger) error {
	httpServer := &http.Server{Addr: addr, Handler: handler}

	errc := make(chan error, 1)
	go func() {
		log.Infof("Starting ENS MCP Server with http transport on %s", addr)
		errc <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		log.Info("ENS MCP Server stopped")
		return nil
	}
}

// Copyright (c) 2025 The Electra developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/electchain/electra/api"
	"github.com/electchain/electra/block"
	"github.com/electchain/electra/chain"
	"github.com/electchain/electra/electra"
	"github.com/electchain/electra/genesis"
	"github.com/electchain/electra/ledger"
	"github.com/electchain/electra/log"
	"github.com/electchain/electra/lvldb"
	"github.com/electchain/electra/metrics"
	"github.com/electchain/electra/vote"
	"github.com/electchain/electra/wallet"
)

var version = "0.1.0"

var logger = log.WithContext("pkg", "main")

func main() {
	app := cli.NewApp()
	app.Name = "electra"
	app.Version = version
	app.Usage = "delegation ledger node"
	app.Copyright = "2025 The Electra developers"
	app.Flags = []cli.Flag{
		dataDirFlag,
		genesisFlag,
		apiAddrFlag,
		metricsAddrFlag,
		walletFlag,
		verbosityFlag,
		jsonLogsFlag,
		lockTimeGateFlag,
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	initLogger(ctx)

	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}

	dataDir := ctx.String(dataDirFlag.Name)
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return errors.Wrap(err, "create data dir")
	}
	store, err := lvldb.New(filepath.Join(dataDir, "main.db"), lvldb.Options{
		CacheSize:              128,
		OpenFilesCacheCapacity: 512,
	})
	if err != nil {
		return errors.Wrap(err, "open database")
	}
	defer store.Close()

	ch, err := chain.New(store)
	if err != nil {
		return err
	}
	if err := ch.WriteGenesis(gene.Block()); err != nil {
		return err
	}
	ldgr, err := ledger.New(store)
	if err != nil {
		return err
	}

	var owned vote.OwnedFunc
	if path := ctx.String(walletFlag.Name); path != "" {
		w, err := wallet.LoadFile(path)
		if err != nil {
			return err
		}
		logger.Info("wallet loaded", "addresses", len(w.Addresses()))
		owned = w.Owns
	}
	qualifier := vote.New(ch, vote.Config{
		LockTimeGate: ctx.Bool(lockTimeGateFlag.Name),
	})

	logger.Info("starting electra",
		"version", version,
		"genesis", gene.ID().AbbrevString(),
		"best", ch.BestBlock().Header().Number())

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(runCtx)
	group.Go(func() error {
		return serveHTTP(groupCtx, "api", ctx.String(apiAddrFlag.Name), api.New(ch, ldgr, qualifier, owned))
	})
	if addr := ctx.String(metricsAddrFlag.Name); addr != "" {
		metrics.InitializePrometheusMetrics()
		group.Go(func() error {
			return serveHTTP(groupCtx, "metrics", addr, metrics.HTTPHandler())
		})
	}
	group.Go(func() error {
		return followChain(groupCtx, ch, ldgr)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("shutdown complete")
	return nil
}

// followChain keeps the ledger caught up with the chain's best block.
func followChain(ctx context.Context, ch *chain.Chain, ldgr *ledger.Ledger) error {
	ticker := time.NewTicker(time.Duration(electra.BlockInterval) * time.Second)
	defer ticker.Stop()

	for {
		if err := catchUp(ctx, ch, ldgr); err != nil {
			return errors.Wrap(err, "ledger catch-up")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// catchUp applies every chain block past the ledger head, in order.
func catchUp(ctx context.Context, ch *chain.Chain, ldgr *ledger.Ledger) error {
	for {
		var next uint32
		if head := ldgr.Head(); !head.IsZero() {
			next = block.Number(head) + 1
			if next > ch.BestBlock().Header().Number() {
				return nil
			}
		}
		blk, err := ch.GetBlockByNumber(next)
		if err != nil {
			return err
		}
		if err := ldgr.ApplyBlock(ctx, blk); err != nil {
			return err
		}
		logger.Debug("ledger advanced", "block", blk.Header().ID().AbbrevString())
	}
}

func serveHTTP(ctx context.Context, name, addr string, handler http.Handler) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listen %s", name)
	}
	srv := &http.Server{Handler: handler}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()
	logger.Info(name+" service started", "addr", "http://"+listener.Addr().String())

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrapf(err, "shutdown %s", name)
		}
		return ctx.Err()
	case err := <-errCh:
		return errors.Wrapf(err, "serve %s", name)
	}
}

func selectGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		return genesis.NewDevnet(), nil
	}
	cfg, err := genesis.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return genesis.NewCustom(cfg)
}

func initLogger(ctx *cli.Context) {
	jsonLogs := ctx.Bool(jsonLogsFlag.Name) ||
		!isatty.IsTerminal(os.Stderr.Fd())
	log.Init(os.Stderr, ctx.Int(verbosityFlag.Name), jsonLogs)
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".electra"
	}
	return filepath.Join(home, ".electra")
}

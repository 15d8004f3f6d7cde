package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/snowdamiz/meshrt"
	"github.com/snowdamiz/meshrt/config"
	"github.com/snowdamiz/meshrt/gen"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  meshrt.Name,
		Usage: "actor runtime node",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "start the node with the demo supervision tree",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "path to the YAML or JSON config file",
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "node name (overrides the config)",
					},
				},
				Action: run,
			},
			{
				Name:  "version",
				Usage: "print the version",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "require",
						Usage: "exit with error if the version doesn't satisfy the constraint",
					},
				},
				Action: version,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func version(ctx context.Context, cmd *cli.Command) error {
	if constraint := cmd.String("require"); constraint != "" {
		if err := meshrt.Require(constraint); err != nil {
			return err
		}
	}
	fmt.Printf("%s %s\n", meshrt.Name, meshrt.Version)
	return nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if name := cmd.String("name"); name != "" {
		cfg.Name = name
	}

	options, err := cfg.NodeOptions()
	if err != nil {
		return err
	}

	node, err := meshrt.StartNode(gen.Atom(cfg.Name), options)
	if err != nil {
		return fmt.Errorf("unable to start node: %w", err)
	}

	if _, err := node.SpawnRegister("demo_sup", factoryDemoSup, gen.ProcessOptions{}); err != nil {
		node.Stop()
		return fmt.Errorf("unable to start demo supervisor: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if path != "" {
		go config.Watch(ctx, path, func(c config.Config, err error) {
			if err != nil {
				node.Log().Error("unable to reload config: %s", err)
				return
			}
			level, err := gen.ParseLogLevel(c.Log.Level)
			if err != nil {
				node.Log().Error("incorrect log level %q in the reloaded config", c.Log.Level)
				return
			}
			if level == node.Log().Level() {
				return
			}
			node.Log().SetLevel(level)
			node.Log().Info("log level changed to %s", level)
		})
	}

	<-ctx.Done()
	node.Log().Info("got signal. stopping node")
	return node.Stop()
}

package main

import (
	"encoding/json"
	"flag"
)

// ClusterCommands handles node inspection commands
type ClusterCommands struct {
	cli *CLI
}

// NewClusterCommands creates a new cluster commands handler
func NewClusterCommands(cli *CLI) *ClusterCommands {
	return &ClusterCommands{cli: cli}
}

// Handle routes cluster subcommands
func (cc *ClusterCommands) Handle(args []string) {
	if len(args) == 0 {
		cc.cli.Errorln("Cluster subcommand required")
		cc.cli.Errorln("Usage: kvorumctl cluster <health|meta> [options]")
		cc.cli.Exit(1)
		return
	}

	subcommand := args[0]
	subArgs := args[1:]

	switch subcommand {
	case "health":
		cc.Health(subArgs)
	case "meta":
		cc.Meta(subArgs)
	default:
		cc.cli.Errorf("Unknown cluster subcommand: %s\n", subcommand)
		cc.cli.Errorln("Available: health, meta")
		cc.cli.Exit(1)
	}
}

// Health prints the node's health document.
func (cc *ClusterCommands) Health(args []string) {
	config, remaining, err := cc.cli.ParseGlobalFlags(args, "health")
	if err == flag.ErrHelp {
		cc.cli.Println("Usage: kvorumctl cluster health [options]")
		return
	}
	cc.cli.HandleError(err, "parsing flags")
	cc.cli.ValidateExactArgs(remaining, 0, "Usage: kvorumctl cluster health [options]")

	client := cc.cli.CreateClient(config)
	health, err := client.Health()
	cc.cli.HandleError(err, "fetching health")

	cc.printJSON(health)
}

// Meta prints the node's service metadata.
func (cc *ClusterCommands) Meta(args []string) {
	config, remaining, err := cc.cli.ParseGlobalFlags(args, "meta")
	if err == flag.ErrHelp {
		cc.cli.Println("Usage: kvorumctl cluster meta [options]")
		return
	}
	cc.cli.HandleError(err, "parsing flags")
	cc.cli.ValidateExactArgs(remaining, 0, "Usage: kvorumctl cluster meta [options]")

	client := cc.cli.CreateClient(config)
	meta, err := client.Meta()
	cc.cli.HandleError(err, "fetching metadata")

	cc.printJSON(meta)
}

func (cc *ClusterCommands) printJSON(doc map[string]interface{}) {
	pretty, err := json.MarshalIndent(doc, "", "  ")
	cc.cli.HandleError(err, "rendering response")
	cc.cli.Printf("%s\n", pretty)
}

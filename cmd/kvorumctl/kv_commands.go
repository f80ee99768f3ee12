package main

import "flag"

// KVCommands handles all key-value related commands
type KVCommands struct {
	cli *CLI
}

// NewKVCommands creates a new KV commands handler
func NewKVCommands(cli *CLI) *KVCommands {
	return &KVCommands{cli: cli}
}

// Handle routes KV subcommands
func (k *KVCommands) Handle(args []string) {
	if len(args) == 0 {
		k.cli.Errorln("KV subcommand required")
		k.cli.Errorln("Usage: kvorumctl kv <get|set|delete> [options]")
		k.cli.Exit(1)
		return
	}

	subcommand := args[0]
	subArgs := args[1:]

	switch subcommand {
	case "get":
		k.Get(subArgs)
	case "set":
		k.Set(subArgs)
	case "delete":
		k.Delete(subArgs)
	default:
		k.cli.Errorf("Unknown KV subcommand: %s\n", subcommand)
		k.cli.Errorln("Available: get, set, delete")
		k.cli.Exit(1)
	}
}

// Get reads a key from the node; followers may serve values that still trail
// the leader by in-flight replication delay.
func (k *KVCommands) Get(args []string) {
	config, remaining, err := k.cli.ParseGlobalFlags(args, "get")
	if err == flag.ErrHelp {
		k.cli.Println("Usage: kvorumctl kv get [options] <key>")
		return
	}
	k.cli.HandleError(err, "parsing flags")
	k.cli.ValidateExactArgs(remaining, 1, "Usage: kvorumctl kv get [options] <key>")

	key := remaining[0]
	client := k.cli.CreateClient(config)

	result, err := client.Read(key)
	k.cli.HandleError(err, "reading key '"+key+"'")

	if !result.Found {
		k.cli.Errorf("Key '%s' not found\n", key)
		k.cli.Exit(1)
		return
	}
	k.cli.Printf("%s\n", *result.Value)
}

// Set writes a key through the leader and reports the quorum outcome.
func (k *KVCommands) Set(args []string) {
	config, remaining, err := k.cli.ParseGlobalFlags(args, "set")
	if err == flag.ErrHelp {
		k.cli.Println("Usage: kvorumctl kv set [options] <key> <value>")
		return
	}
	k.cli.HandleError(err, "parsing flags")
	k.cli.ValidateExactArgs(remaining, 2, "Usage: kvorumctl kv set [options] <key> <value>")

	key, value := remaining[0], remaining[1]
	client := k.cli.CreateClient(config)

	result, err := client.Write(key, value)
	k.cli.HandleError(err, "writing key '"+key+"'")

	if !result.Success {
		k.cli.Errorf("Write quorum missed: %d of %d acknowledgements\n", result.Acks, result.Quorum)
		k.cli.Exit(1)
		return
	}
	k.cli.Printf("Key '%s' set at version %d (%d followers acknowledged)\n",
		key, result.Version, result.QuorumReached)
}

// Delete removes a key through the leader.
func (k *KVCommands) Delete(args []string) {
	config, remaining, err := k.cli.ParseGlobalFlags(args, "delete")
	if err == flag.ErrHelp {
		k.cli.Println("Usage: kvorumctl kv delete [options] <key>")
		return
	}
	k.cli.HandleError(err, "parsing flags")
	k.cli.ValidateExactArgs(remaining, 1, "Usage: kvorumctl kv delete [options] <key>")

	key := remaining[0]
	client := k.cli.CreateClient(config)

	result, err := client.Delete(key)
	k.cli.HandleError(err, "deleting key '"+key+"'")

	if !result.Success {
		k.cli.Errorf("Delete quorum missed: %d of %d acknowledgements\n", result.Acks, result.Quorum)
		k.cli.Exit(1)
		return
	}
	k.cli.Printf("Key '%s' deleted at version %d\n", key, result.Version)
}

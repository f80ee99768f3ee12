package main

import (
	"fmt"
	"os"
)

const version = "1.0.0"

func main() {
	cli := NewCLI()

	if len(os.Args) < 2 {
		printUsage()
		cli.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "kv":
		kvCmd := NewKVCommands(cli)
		kvCmd.Handle(args)
	case "cluster":
		clusterCmd := NewClusterCommands(cli)
		clusterCmd.Handle(args)
	case "version":
		cli.Printf("kvorumctl version %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		cli.Printf("Unknown command: %s\n", command)
		printUsage()
		cli.Exit(1)
	}
}

func printUsage() {
	fmt.Println("kvorumctl - kvorum CLI Tool")
	fmt.Println()
	fmt.Println("Usage: kvorumctl <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  kv <subcommand>       Key-value operations")
	fmt.Println("    get <key>           Read a key from a node")
	fmt.Println("    set <key> <value>   Write a key through the leader")
	fmt.Println("    delete <key>        Delete a key through the leader")
	fmt.Println()
	fmt.Println("  cluster <subcommand>  Cluster operations")
	fmt.Println("    health              Node health")
	fmt.Println("    meta                Node metadata")
	fmt.Println()
	fmt.Println("  version               Show version")
	fmt.Println("  help                  Show this help")
	fmt.Println()
	fmt.Println("Global options:")
	fmt.Println("  -server <url>         Node URL (default: http://localhost:8888)")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  kvorumctl kv set mykey myvalue")
	fmt.Println("  kvorumctl kv get -server http://follower-1:8888 mykey")
	fmt.Println("  kvorumctl cluster health")
}

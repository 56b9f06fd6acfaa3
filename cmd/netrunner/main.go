package main

import "github.com/yorozuya-cybersecurity/netrunner/pkg/cli"

func main() {
	cli.Execute()
}

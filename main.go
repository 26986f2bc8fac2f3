package main

import "github.com/lu-zhengda/mailroom/internal/cli"

func main() {
	cli.Execute()
}

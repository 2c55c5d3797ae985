// movierec 是电影推荐服务的命令行入口。
package main

import (
	"fmt"
	"os"

	"github.com/rushteam/reckit-movies/cmd/movierec/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

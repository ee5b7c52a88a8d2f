package main

import (
	"context"

	"github.com/dmitrijs2005/talentbridge/internal/client/cli"
	"github.com/dmitrijs2005/talentbridge/internal/client/config"
)

func main() {
	cfg := config.LoadConfig()
	cli.NewApp(cfg).Run(context.Background())
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"git.lost.host/meutraa/frets/internal/config"
)

func main() {
	if err := run(); nil != err {
		log.Fatalln(err)
	}
}

func run() error {
	c, err := config.Parse(os.Args[1:])
	if nil != err {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	p := &Program{Config: c}
	defer p.Deinit()
	if err := p.Init(); nil != err {
		return err
	}
	return p.Run(ctx)
}

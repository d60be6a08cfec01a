package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/niksmo/misslily/config"
	"github.com/niksmo/misslily/internal/adapter/auth"
	"github.com/niksmo/misslily/internal/app"
	"github.com/niksmo/misslily/pkg/sigctx"
)

const closeTimeout = 10 * time.Second

func main() {
	if len(os.Args) > 1 && os.Args[1] == "hash-password" {
		hashPassword(os.Args[2:])
		return
	}

	sigCtx, closeApp := sigctx.NotifyContext()
	defer closeApp()

	cfg := config.Load()
	cfg.Print()

	misslily := app.New(sigCtx, cfg)

	misslily.Run(closeApp)

	<-sigCtx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	misslily.Close(ctx)
}

// hashPassword prints the bcrypt hash for admin.password_hash.
func hashPassword(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: misslily hash-password <password>")
		os.Exit(2)
	}
	hash, err := auth.HashPassword(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(hash)
}

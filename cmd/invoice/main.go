// invoice es el CLI de facturación: emite y previsualiza facturas a partir de
// los registros de tiempo, sin pasar por la API HTTP.
//
// Uso:
//
//	invoice migrate
//	invoice documents
//	invoice create --customer <id> --template <id> --begin 2024-03-01 --end 2024-03-31
//	invoice create --customer <id> --template <id> --preview-dir ./out
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	// .env opcional; las variables ya exportadas tienen prioridad
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "advertencia: .env: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

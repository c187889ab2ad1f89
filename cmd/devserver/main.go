package main

import (
	"flag"
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/moncraft/portal/internal/devserver"
)

func main() {
	addr := flag.String("a", "localhost:8000", "listen address")
	secret := flag.String("secret", "dev-secret", "token signing secret")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer logger.Sync()

	srv := devserver.NewServer(*secret, logger)
	logger.Info("dev backend listening", zap.String("addr", *addr))
	if err := http.ListenAndServe(*addr, srv.Handler()); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

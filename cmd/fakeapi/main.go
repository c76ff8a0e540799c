// Comando fakeapi levanta localmente el API de pedidos para desarrollar sin red.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/stellar-burgers/internal/infrastructure/fakeapi"
	"github.com/jhoicas/stellar-burgers/pkg/config"
	"github.com/jhoicas/stellar-burgers/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})

	srv := fakeapi.New(fakeapi.Config{
		JWTSecret:  cfg.FakeAPI.JWTSecret,
		TokenTTL:   time.Duration(cfg.FakeAPI.TokenMinutes) * time.Minute,
		CookTime:   time.Duration(cfg.FakeAPI.CookSeconds) * time.Second,
		SeedOrders: cfg.FakeAPI.SeedOrders,
		Logger:     log,
	})

	go func() {
		if err := srv.App().Listen(cfg.FakeAPI.Addr()); err != nil {
			log.Error().Err(err).Msg("fakeapi finalizado")
		}
	}()
	log.Info().
		Str("addr", cfg.FakeAPI.Addr()).
		Int("seed_orders", cfg.FakeAPI.SeedOrders).
		Msg("API de pruebas escuchando; usar BURGER_API_URL=http://" + cfg.FakeAPI.Addr() + "/api")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.App().ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del API de pruebas")
	}
	log.Info().Msg("API de pruebas detenido")
}

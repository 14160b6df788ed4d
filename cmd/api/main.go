package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/couchtalk/backend/internal/config"
	"github.com/couchtalk/backend/internal/handler"
	"github.com/couchtalk/backend/internal/model/persona"
	"github.com/couchtalk/backend/internal/service/ai"
	conversationservice "github.com/couchtalk/backend/internal/service/conversation"
	"github.com/couchtalk/backend/internal/service/pipeline"
	"github.com/couchtalk/backend/internal/service/speech"
	"github.com/couchtalk/backend/web"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	personaStore := persona.NewMemoryStore(persona.Seed())
	conversations := conversationservice.NewService()

	var generator pipeline.Generator
	var transcriber pipeline.Transcriber
	var synthesizer pipeline.Synthesizer

	if cfg.OpenAI.Enabled() {
		aiService, err := ai.NewService(ctx, cfg.OpenAI)
		if err != nil {
			log.Printf("warning: failed to initialize AI service: %v", err)
			log.Println("continuing without reply generation")
		} else {
			generator = aiService
			log.Println("AI service initialized successfully")
		}

		speechService := speech.NewService(cfg.OpenAI)
		transcriber = speechService
		synthesizer = speechService
		log.Println("Speech service initialized successfully")
	} else {
		log.Println("OPENAI_API_KEY not set; collaborator endpoints will report a configuration error")
	}

	pipe := pipeline.NewService(personaStore, conversations, transcriber, generator, synthesizer)
	router := handler.NewRouter(personaStore, pipe, web.Handler())

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("CouchTalk backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

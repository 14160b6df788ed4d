// Command turntester exercises the collaborator services from the command
// line: transcribe an audio file, generate a persona reply, synthesize it,
// or run a whole turn end to end.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/couchtalk/backend/internal/config"
	"github.com/couchtalk/backend/internal/model/persona"
	"github.com/couchtalk/backend/internal/service/ai"
	"github.com/couchtalk/backend/internal/service/speech"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] could not load .env, using system environment: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if !cfg.OpenAI.Enabled() {
		log.Fatal("OPENAI_API_KEY is not set")
	}

	mode := flag.String("mode", "turn", "test mode: asr, tts or turn")
	audioPath := flag.String("audio", "", "input audio file path (asr and turn modes)")
	text := flag.String("text", "", "input text (tts mode)")
	personaID := flag.String("persona", "joey", "persona id for reply generation and voice")
	outputPath := flag.String("out", "", "output audio file path (default: reply-<unix>.mp3)")
	timeout := flag.Duration("timeout", 90*time.Second, "overall timeout")
	flag.Parse()

	store := persona.NewMemoryStore(persona.Seed())
	p, ok := store.FindByID(*personaID)
	if !ok {
		log.Fatalf("unknown persona %q", *personaID)
	}

	speechSvc := speech.NewService(cfg.OpenAI)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	switch *mode {
	case "asr":
		transcript := runASR(ctx, speechSvc, *audioPath)
		log.Printf("transcript: %q", transcript)
	case "tts":
		if *text == "" {
			log.Fatal("tts mode requires -text")
		}
		runTTS(ctx, speechSvc, p, *text, *outputPath)
	case "turn":
		transcript := runASR(ctx, speechSvc, *audioPath)
		log.Printf("transcript: %q", transcript)

		aiSvc, err := ai.NewService(ctx, cfg.OpenAI)
		if err != nil {
			log.Fatalf("failed to initialize AI service: %v", err)
		}
		reply, err := aiSvc.GenerateReply(ctx, &p, nil, transcript)
		if err != nil {
			log.Fatalf("reply generation failed: %v", err)
		}
		log.Printf("%s says: %q", p.Name, reply)

		runTTS(ctx, speechSvc, p, reply, *outputPath)
	default:
		flag.Usage()
		log.Fatal("mode must be asr, tts or turn")
	}
}

func runASR(ctx context.Context, svc *speech.Service, audioPath string) string {
	if audioPath == "" {
		log.Fatal("asr and turn modes require -audio")
	}

	audio, err := os.ReadFile(audioPath)
	if err != nil {
		log.Fatalf("failed to read audio file: %v", err)
	}

	transcript, err := svc.Transcribe(ctx, audio, audioPath)
	if err != nil {
		log.Fatalf("transcription failed: %v", err)
	}
	return transcript
}

func runTTS(ctx context.Context, svc *speech.Service, p persona.Persona, text, outputPath string) {
	audio, err := svc.Synthesize(ctx, text, p.VoiceID)
	if err != nil {
		log.Fatalf("synthesis failed: %v", err)
	}

	if outputPath == "" {
		outputPath = fmt.Sprintf("reply-%d.mp3", time.Now().Unix())
	}
	if err := os.WriteFile(outputPath, audio, 0o644); err != nil {
		log.Fatalf("failed to write audio file: %v", err)
	}
	log.Printf("wrote %d bytes to %s (voice=%s)", len(audio), outputPath, p.VoiceID)
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"screen2html/internal/artifact"
	"screen2html/internal/config"
	"screen2html/internal/conversation"
	"screen2html/internal/imageio"
	"screen2html/internal/llm"
	"screen2html/internal/llm/factory"
	"screen2html/internal/logger"
	"screen2html/internal/metrics"
	"screen2html/internal/pipeline"
	"screen2html/internal/server"
	"screen2html/internal/session"
	"screen2html/internal/terminal"
	"screen2html/internal/ui"
)

func main() {
	// Set the GetEnv function for config
	config.GetEnv = os.Getenv

	cfg := config.NewConfig()
	if err := cfg.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Command-line flags override the environment
	imagePath := parseFlags(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// The terminal UI owns stdout; logs only go to the console in HTTP mode
	log := logger.NewZapLogger(cfg.LogFilePath, cfg.Serve)
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gen, err := factory.NewGenerator(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize %s backend: %v\n", cfg.Provider, err)
		if cfg.Provider == config.ProviderOllama {
			fmt.Fprintln(os.Stderr, "Make sure Ollama is running: ollama serve")
		}
		os.Exit(1)
	}

	log.Info("main", "starting", map[string]interface{}{
		"provider":  cfg.Provider,
		"model":     cfg.ModelName,
		"framework": cfg.Framework,
		"serve":     cfg.Serve,
	})

	if cfg.Serve {
		if err := serve(cfg, gen, log); err != nil {
			log.Error("main", "server stopped", map[string]interface{}{"error": err})
			os.Exit(1)
		}
		return
	}

	runTerminal(ctx, cancel, cfg, gen, log, imagePath)
}

func parseFlags(cfg *config.Config) string {
	flag.StringVar(&cfg.Provider, "provider", cfg.Provider, "Model provider (gemini or ollama)")
	flag.StringVar(&cfg.ModelName, "model", cfg.ModelName, "Model name")
	flag.StringVar(&cfg.OllamaURL, "ollama-url", cfg.OllamaURL, "Ollama API URL")
	flag.StringVar(&cfg.Framework, "framework", cfg.Framework, "CSS framework requested in prompts")
	flag.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "Directory /save writes index.html to")
	flag.StringVar(&cfg.LogFilePath, "log-file", cfg.LogFilePath, "Log file path")
	flag.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Enable verbose output")

	flag.BoolVar(&cfg.Serve, "serve", cfg.Serve, "Run the HTTP server instead of the terminal UI")
	flag.StringVar(&cfg.ListenAddr, "addr", cfg.ListenAddr, "HTTP listen address")
	flag.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "Idle time after which an HTTP session expires")
	flag.IntVar(&cfg.MaxUploadMB, "max-upload-mb", cfg.MaxUploadMB, "Largest accepted upload in MB")

	timeoutSeconds := flag.Int("timeout", int(cfg.ModelTimeout/time.Second), "Model request timeout in seconds (0 = none)")
	imagePath := flag.String("image", "", "Screenshot to convert on startup")

	flag.Parse()

	// Apply timeout
	cfg.ModelTimeout = time.Duration(*timeoutSeconds) * time.Second

	return *imagePath
}

func newPipeline(cfg *config.Config, log logger.ILogger, observers ...pipeline.Observer) *pipeline.Pipeline {
	return pipeline.New(cfg.Framework,
		pipeline.WithObservers(observers...),
		pipeline.WithLogger(log),
	)
}

func sessionOptions(cfg *config.Config) []conversation.Option {
	if cfg.SystemPrompt == "" {
		return nil
	}
	return []conversation.Option{conversation.WithSystemPrompt(cfg.SystemPrompt)}
}

// serve runs HTTP mode until SIGINT or SIGTERM
func serve(cfg *config.Config, gen llm.Generator, log logger.ILogger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)

	opts := sessionOptions(cfg)
	srv := server.New(server.Deps{
		Store:          session.NewStore(cfg.SessionTTL, session.DefaultCleanupInterval),
		Pipeline:       newPipeline(cfg, log, m),
		NewSession:     func() *session.Session { return session.New(gen, opts...) },
		Metrics:        m,
		Gatherer:       reg,
		Logger:         log,
		MaxUploadBytes: cfg.MaxUploadMB << 20,
	})

	// Setup graceful shutdown
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run(cfg.ListenAddr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-sigCtx.Done():
	}

	log.Info("main", "shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// runTerminal runs the interactive conversation loop
func runTerminal(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, gen llm.Generator, log logger.ILogger, imagePath string) {
	display := ui.NewDisplay(os.Stdout)
	input := terminal.NewInput(os.Stdin)

	sess := session.New(gen, sessionOptions(cfg)...)
	pipe := newPipeline(cfg, log, display)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		display.PrintInfo("\nShutting down gracefully...")
		cancel()
		os.Exit(0)
	}()

	// Print welcome message
	display.PrintWelcome(cfg.Provider, cfg.ModelName, cfg.Framework)

	if imagePath != "" {
		runCode(ctx, pipe, sess, display, imagePath)
	}

	// Main conversation loop
	for {
		// Get user input
		display.PrintPrompt()
		query, err := input.ReadUserInput()
		if err != nil {
			break
		}

		// Skip empty queries
		if query == "" {
			continue
		}

		cmd, arg, _ := strings.Cut(query, " ")
		arg = strings.TrimSpace(arg)

		// Handle commands
		switch cmd {
		case "/exit", "/quit", "exit", "quit":
			display.PrintGoodbye()
			return
		case "/clear":
			display.ClearScreen()
			display.PrintWelcome(cfg.Provider, cfg.ModelName, cfg.Framework)
		case "/history":
			showHistory(sess, display, arg)
		case "/code":
			runCode(ctx, pipe, sess, display, arg)
		case "/html":
			if html := sess.State.CurrentHTML(); html != "" {
				display.PrintHTML(html)
			} else {
				display.PrintInfo("No HTML yet. Upload a screenshot with /code <image>")
			}
		case "/preview":
			if html := sess.State.CurrentHTML(); html != "" {
				display.PrintPreview(html)
			} else {
				display.PrintInfo("No HTML yet. Upload a screenshot with /code <image>")
			}
		case "/save":
			saveHTML(sess, display, cfg, arg)
		default:
			runFollowUp(ctx, pipe, sess, display, cfg, query)
		}
	}

	display.PrintGoodbye()
}

// runCode ingests the image at path and runs the pipeline on it
func runCode(ctx context.Context, pipe *pipeline.Pipeline, sess *session.Session, display *ui.Display, path string) {
	if path == "" || !terminal.IsImagePath(path) {
		suggestImages(display, path)
		return
	}

	img, err := imageio.IngestFile(path)
	if err != nil {
		display.PrintError(err)
		if errors.Is(err, os.ErrNotExist) {
			suggestImages(display, path)
		}
		return
	}

	release, ok := sess.Acquire()
	if !ok {
		display.PrintError(session.ErrBusy)
		return
	}
	defer release()

	res, err := pipe.Run(ctx, sess, img)
	if err != nil {
		display.PrintError(err)
		return
	}

	display.PrintHTML(res.RefinedHTML)
	display.PrintSuccess("HTML ready. Type a change request, /preview or /save")
}

// runFollowUp sends a change request for the current HTML
func runFollowUp(ctx context.Context, pipe *pipeline.Pipeline, sess *session.Session, display *ui.Display, cfg *config.Config, request string) {
	if strings.HasPrefix(request, "/") {
		display.PrintWarning(fmt.Sprintf("Unknown command: %s", request))
		return
	}

	release, ok := sess.Acquire()
	if !ok {
		display.PrintError(session.ErrBusy)
		return
	}
	defer release()

	html, err := pipe.Refine(ctx, sess, request)
	if err != nil {
		display.PrintError(err)
		return
	}

	display.PrintHTML(html)
	if cfg.Verbose {
		display.PrintInfo(fmt.Sprintf("%d turns in history", sess.State.Len()))
	}
}

// showHistory prints the whole history, or only the last n turns with
// "/history n"
func showHistory(sess *session.Session, display *ui.Display, arg string) {
	if arg == "" {
		display.PrintHistory(sess.State.History())
		return
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n <= 0 {
		display.PrintWarning("Usage: /history [number of turns]")
		return
	}
	display.PrintHistory(sess.State.Recent(n))
}

// saveHTML writes the current HTML as index.html
func saveHTML(sess *session.Session, display *ui.Display, cfg *config.Config, dir string) {
	if dir == "" {
		dir = cfg.OutputDir
	}
	path, err := artifact.Write(dir, sess.State.CurrentHTML())
	if err != nil {
		display.PrintError(err)
		return
	}
	display.PrintSuccess(fmt.Sprintf("Saved %s", path))
}

// suggestImages lists images in the working directory matching partial
func suggestImages(display *ui.Display, partial string) {
	if partial != "" && !terminal.IsImagePath(partial) {
		display.PrintError(imageio.ErrUnsupportedFormat)
	}

	wd, err := os.Getwd()
	if err != nil {
		display.PrintError(err)
		return
	}

	matches := terminal.FindImages(wd, partial)
	if len(matches) == 0 {
		display.PrintInfo("Usage: /code <path to a jpg, jpeg, png or gif screenshot>")
		return
	}

	display.PrintInfo("Images in the current directory:")
	for i, m := range matches {
		if i == 10 {
			display.PrintInfo(fmt.Sprintf("... and %d more", len(matches)-10))
			break
		}
		fmt.Printf("  - %s\n", m)
	}
}

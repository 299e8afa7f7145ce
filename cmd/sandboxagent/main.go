// Command sandboxagent is a one-shot runner for the sandboxed shell agent:
// it wires the command validator, sandbox manager, safe fetcher, tool
// registry and agent loop together and drives a single conversation turn
// from a prompt given on the command line or standard input.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/sandboxagent/sandboxagent/config"
	"github.com/sandboxagent/sandboxagent/internal/agent"
	"github.com/sandboxagent/sandboxagent/internal/fetch"
	"github.com/sandboxagent/sandboxagent/internal/sandbox"
	"github.com/sandboxagent/sandboxagent/internal/session"
	"github.com/sandboxagent/sandboxagent/internal/tools"
	"github.com/sandboxagent/sandboxagent/internal/validator"
	"github.com/sandboxagent/sandboxagent/llm"
	"github.com/sandboxagent/sandboxagent/metrics"
	"github.com/sandboxagent/sandboxagent/models"
	"github.com/sandboxagent/sandboxagent/utils"
)

func main() {
	prompt := flag.String("p", "", "prompt to run (falls back to stdin if empty)")
	conversation := flag.String("conversation", "", "conversation id (a new one is minted if empty)")
	envFile := flag.String("envfile", ".env", "path to a .env file")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !os.IsNotExist(err) {
		fmt.Printf("warning: could not load %s: %v\n", *envFile, err)
	}

	logger, err := utils.InitLogger()
	if err != nil {
		fmt.Printf("could not initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	handleGracefulShutdown(cancel, logger)

	mgr := config.New(logger)
	mgr.Load()
	settings := config.Snapshot(mgr)

	input := strings.TrimSpace(*prompt)
	if input == "" && hasStdin() {
		b, _ := io.ReadAll(os.Stdin)
		input = strings.TrimSpace(string(b))
	}
	if input == "" {
		fmt.Println("no prompt given: pass -p \"...\" or pipe input on stdin")
		os.Exit(2)
	}

	convID := *conversation
	if convID == "" {
		convID = session.NewConversationID()
	}

	sandboxCfg := sandbox.DefaultConfig()
	sandboxCfg.Image = settings.SandboxImage
	sandboxCfg.MemMiB = int64(settings.SandboxMemMiB)
	sandboxCfg.CPUs = settings.SandboxCPUs
	sandboxCfg.Pids = int64(settings.SandboxPids)
	sandboxCfg.ExecTimeoutSeconds = settings.SandboxExecTimeoutS
	sandboxCfg.OutputCapBytes = int64(settings.SandboxOutputCapBytes)
	sandboxCfg.WorkspaceRoot = settings.WorkspaceRoot

	sandboxMetrics := metrics.NewSandboxMetrics()
	toolMetrics := metrics.NewToolMetrics()
	agentMetrics := metrics.NewAgentMetrics()

	sandboxMgr, err := sandbox.NewDockerManager(sandboxCfg, logger)
	if err != nil {
		logger.Fatal("could not start docker sandbox manager", zap.Error(err))
	}
	sandboxMgr.WithMetrics(sandboxMetrics)
	if err := sandboxMgr.CleanupAll(ctx); err != nil {
		logger.Warn("startup sandbox cleanup failed", zap.Error(err))
	}

	cmdValidator := validator.New(logger)
	fetcher := fetch.New(int64(settings.FetchMaxBytes), settings.FetchTimeout(), settings.FetchMaxRedirects, logger)
	fetcher.WithRedirectMetric(agentMetrics.FetchRedirects)

	registry := tools.New(toolMetrics.Record)
	registry.Register(tools.ShellExecSchema, tools.NewShellExecHandler(cmdValidator, sandboxMgr, convID))
	registry.Register(tools.WebFetchSchema, tools.NewWebFetchHandler(fetcher))

	client := llm.NewInstrumentedClient(selectClient(settings), agentMetrics, settings.LLMModel)

	loop := agent.New(client, registry, agent.Config{
		MaxTurns:             settings.AgentMaxTurns,
		MaxRepeated:          settings.AgentMaxRepeated,
		MaxConsecutiveErrors: settings.AgentMaxConsecutiveErrors,
	}, logger, agentMetrics.RecordStop)

	coordinator := session.New()
	var result models.AgentResult
	err = coordinator.WithSession(convID, func(s *session.Session) error {
		result = loop.Run(ctx, s.History, input)
		s.History = append(s.History, models.Message{Role: models.RoleUser, Content: input})
		return nil
	})
	if err != nil {
		logger.Fatal("agent run failed", zap.Error(err))
	}

	fmt.Println(result.FinalText)
	logger.Info("agent run finished",
		zap.String("conversation_id", convID),
		zap.String("stop_reason", string(result.Stop)),
		zap.Int("turns", result.Turns),
	)
}

// selectClient picks the outbound LLM transport. Wiring a real provider
// (HTTP endpoint + API key from settings) is outside this exercise's scope;
// a MockClient keeps the binary runnable end to end against scripted
// responses until a provider is plugged in.
func selectClient(settings config.Settings) llm.Client {
	return &llm.MockClient{
		Model: settings.LLMModel,
		Responses: []llm.MockResponse{
			{Message: models.Message{Role: models.RoleAssistant, Content: "no LLM provider configured"}},
		},
	}
}

func hasStdin() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

func handleGracefulShutdown(cancel context.CancelFunc, logger *zap.Logger) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-signals
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()
}

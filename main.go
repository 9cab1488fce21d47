package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/tanpawarit/fitfusion-assistant/agent/chat"
	"github.com/tanpawarit/fitfusion-assistant/agent/llm"
	"github.com/tanpawarit/fitfusion-assistant/agent/metrics"
	"github.com/tanpawarit/fitfusion-assistant/agent/prompt"
	"github.com/tanpawarit/fitfusion-assistant/agent/record"
	"github.com/tanpawarit/fitfusion-assistant/agent/session"
	"github.com/tanpawarit/fitfusion-assistant/agent/tool"
	configx "github.com/tanpawarit/fitfusion-assistant/pkg/config"
	_ "github.com/tanpawarit/fitfusion-assistant/pkg/logger/autoload"
	qstashx "github.com/tanpawarit/fitfusion-assistant/pkg/qstash"
)

const shutdownGrace = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatal().Err(err).Msg("assistant stopped")
	}
}

func run(ctx context.Context) error {
	llmCfg := configx.MustNew[llm.Config]("LLM")
	sessionCfg := configx.MustNew[session.Config]("SESSION")
	recordCfg := configx.MustNew[record.Config]("RECORD")
	qstashCfg := configx.MustNew[qstashx.Config]("QSTASH")
	httpCfg := configx.MustNew[chat.Config]("HTTP")

	prompts := prompt.LoadPromptSet()
	if err := prompts.Validate(); err != nil {
		return err
	}

	sinks, closeSinks, err := record.Open(ctx, *recordCfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeSinks(); err != nil {
			log.Warn().Err(err).Msg("close record sinks")
		}
	}()

	var serviceOpts []tool.ServiceOption
	if qstashCfg.Enabled {
		serviceOpts = append(serviceOpts, tool.WithBookingPublisher(qstashx.MustNew(*qstashCfg), qstashCfg.BookingDestination))
		log.Info().Str("destination", qstashCfg.BookingDestination).Msg("booking notifications enabled")
	}
	svc, err := tool.NewService(sinks, serviceOpts...)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	provider := metrics.New(registry)

	tools, err := tool.NewDefaultRegistry(svc, tool.WithMetrics(provider))
	if err != nil {
		return err
	}

	model, err := llm.NewChatModel(ctx, *llmCfg, tools.Catalog())
	if err != nil {
		return err
	}

	factory, err := session.NewFactory(model, tools, prompts.System, *sessionCfg, session.WithMetrics(provider))
	if err != nil {
		return err
	}
	sessions, err := session.NewManager(factory)
	if err != nil {
		return err
	}
	defer sessions.Close()

	srv := chat.NewServer(*httpCfg, chat.NewHandler(sessions, registry))
	return chat.Serve(ctx, srv, shutdownGrace)
}

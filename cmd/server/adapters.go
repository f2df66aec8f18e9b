// cmd/server/adapters.go
package main

import (
	"github.com/starksinclair/Multi-LLM-Agent-system/internal/common/logger"

	refinequery "github.com/starksinclair/Multi-LLM-Agent-system/internal/agents/refine-query"
	"github.com/starksinclair/Multi-LLM-Agent-system/internal/agents/research"
	validateanswer "github.com/starksinclair/Multi-LLM-Agent-system/internal/agents/validate-answer"
	"github.com/starksinclair/Multi-LLM-Agent-system/internal/history"
	"github.com/starksinclair/Multi-LLM-Agent-system/internal/pipeline"
	pubmedsearch "github.com/starksinclair/Multi-LLM-Agent-system/internal/search/pubmed-search"
	websearch "github.com/starksinclair/Multi-LLM-Agent-system/internal/search/web-search"
	"github.com/starksinclair/Multi-LLM-Agent-system/internal/server"
)

// Each package declares its own small Logger interface. These adapters
// bridge them to the shared structured logger.

type stageLog struct {
	l logger.Logger
}

func base(l logger.Logger) stageLog { return stageLog{l: l} }

func (a stageLog) Info(msg string, fields map[string]interface{})  { a.l.Info(msg, fields) }
func (a stageLog) Warn(msg string, fields map[string]interface{})  { a.l.Warn(msg, fields) }
func (a stageLog) Error(msg string, fields map[string]interface{}) { a.l.Error(msg, fields) }

type refineLog struct{ stageLog }

func (a refineLog) With(fields map[string]interface{}) refinequery.Logger {
	return refineLog{base(a.l.With(fields))}
}

type webLog struct{ stageLog }

func (a webLog) With(fields map[string]interface{}) websearch.Logger {
	return webLog{base(a.l.With(fields))}
}

type pubmedLog struct{ stageLog }

func (a pubmedLog) With(fields map[string]interface{}) pubmedsearch.Logger {
	return pubmedLog{base(a.l.With(fields))}
}

type researchLog struct{ stageLog }

func (a researchLog) With(fields map[string]interface{}) research.Logger {
	return researchLog{base(a.l.With(fields))}
}

type validateLog struct{ stageLog }

func (a validateLog) With(fields map[string]interface{}) validateanswer.Logger {
	return validateLog{base(a.l.With(fields))}
}

type pipelineLog struct{ stageLog }

func (a pipelineLog) With(fields map[string]interface{}) pipeline.Logger {
	return pipelineLog{base(a.l.With(fields))}
}

type serverLog struct{ stageLog }

func (a serverLog) With(fields map[string]interface{}) server.Logger {
	return serverLog{base(a.l.With(fields))}
}

type historyLog struct{ stageLog }

func (a historyLog) With(fields map[string]interface{}) history.Logger {
	return historyLog{base(a.l.With(fields))}
}

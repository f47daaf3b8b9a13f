package handler

import (
	"sync/atomic"

	"github.com/aofei/air"
	"github.com/robfig/cron/v3"

	"github.com/faq-assistant/faq-assistant/answer"
	"github.com/faq-assistant/faq-assistant/base"
)

// questionCounts counts the questions handled since the process started.
var questionCounts struct {
	greeting atomic.Int64
	identity atomic.Int64
	fallback atomic.Int64
	rejected atomic.Int64
}

// statSummary is the summary of the question counts.
type statSummary struct {
	AnsweredCount int64 `json:"answered_count"`
	GreetingCount int64 `json:"greeting_count"`
	IdentityCount int64 `json:"identity_count"`
	FallbackCount int64 `json:"fallback_count"`
	RejectedCount int64 `json:"rejected_count"`
}

// initStats schedules the hourly stat summary log.
func initStats() error {
	_, err := base.Cron.AddJob(
		"0 * * * *", // Every hour
		cron.NewChain(
			cron.SkipIfStillRunning(cron.DiscardLogger),
		).Then(cron.FuncJob(logStatSummary)),
	)
	return err
}

// countAnswer counts an answer of the kind.
func countAnswer(kind answer.Kind) {
	switch kind {
	case answer.KindGreeting:
		questionCounts.greeting.Add(1)
	case answer.KindIdentity:
		questionCounts.identity.Add(1)
	case answer.KindFallback:
		questionCounts.fallback.Add(1)
	}
}

// countRejected counts a rejected question.
func countRejected() {
	questionCounts.rejected.Add(1)
}

// summarizeStats returns the current `statSummary`.
func summarizeStats() statSummary {
	ss := statSummary{
		GreetingCount: questionCounts.greeting.Load(),
		IdentityCount: questionCounts.identity.Load(),
		FallbackCount: questionCounts.fallback.Load(),
		RejectedCount: questionCounts.rejected.Load(),
	}
	ss.AnsweredCount = ss.GreetingCount + ss.IdentityCount + ss.FallbackCount

	return ss
}

// logStatSummary logs the current `statSummary`.
func logStatSummary() {
	ss := summarizeStats()
	base.Logger.Info().
		Int64("answered_count", ss.AnsweredCount).
		Int64("greeting_count", ss.GreetingCount).
		Int64("identity_count", ss.IdentityCount).
		Int64("fallback_count", ss.FallbackCount).
		Int64("rejected_count", ss.RejectedCount).
		Msg("stat summary")
}

// hStatSummary handles requests to query stat summary.
func hStatSummary(req *air.Request, res *air.Response) error {
	return res.WriteJSON(summarizeStats())
}

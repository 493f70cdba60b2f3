package triage

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"snowtriage/internal/servicenow"
)

const (
	defaultMaxRetries = 4
	defaultBaseDelay  = 10 * time.Second

	// NoIncidentsMessage is returned without contacting the service when
	// there is nothing to summarize.
	NoIncidentsMessage = "No incidents to process."
)

// Generator produces text from a prompt. *GeminiClient satisfies it;
// tests substitute stubs.
type Generator interface {
	Generate(prompt string) (string, error)
}

// requestState tracks the retry state machine around the generative call.
type requestState int

const (
	stateIdle requestState = iota
	stateRequesting
	stateSucceeded
	stateRateLimited
	stateFailed
)

// Summarizer drives the generative-text call under bounded retry with
// exponential backoff. Sleep and jitter are injected so tests can run the
// full retry protocol without waiting.
type Summarizer struct {
	generator  Generator
	style      PromptStyle
	maxRetries int
	baseDelay  time.Duration
	sleep      func(time.Duration)
	jitter     func() time.Duration
	logger     *zap.Logger
}

// SummarizerOption allows configuring the Summarizer
type SummarizerOption func(*Summarizer)

// WithPromptStyle selects the instruction template.
func WithPromptStyle(style PromptStyle) SummarizerOption {
	return func(s *Summarizer) {
		if style != "" {
			s.style = style
		}
	}
}

// WithMaxRetries bounds the number of generative calls. Values below 1
// are ignored.
func WithMaxRetries(n int) SummarizerOption {
	return func(s *Summarizer) {
		if n >= 1 {
			s.maxRetries = n
		}
	}
}

// WithBaseDelay sets the first backoff delay.
func WithBaseDelay(d time.Duration) SummarizerOption {
	return func(s *Summarizer) {
		if d > 0 {
			s.baseDelay = d
		}
	}
}

// WithSleep replaces the suspend function (for testing).
func WithSleep(sleep func(time.Duration)) SummarizerOption {
	return func(s *Summarizer) {
		s.sleep = sleep
	}
}

// WithJitter replaces the jitter source (for testing).
func WithJitter(jitter func() time.Duration) SummarizerOption {
	return func(s *Summarizer) {
		s.jitter = jitter
	}
}

// NewSummarizer creates a Summarizer backed by the given generator.
func NewSummarizer(generator Generator, logger *zap.Logger, opts ...SummarizerOption) *Summarizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Summarizer{
		generator:  generator,
		style:      PromptFull,
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultBaseDelay,
		sleep:      time.Sleep,
		jitter:     randomJitter,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// randomJitter returns a pseudo-random fraction of a second, desynchronizing
// retry storms against a shared quota.
func randomJitter() time.Duration {
	return time.Duration(rand.Float64() * float64(time.Second))
}

// Summarize requests a triage summary for the incidents. The result is
// always operator-displayable text: on success the model's summary, after
// exhausted retries or a non-transient failure a descriptive error
// message. At most maxRetries calls are made, with delay
// baseDelay * 2^n + jitter between rate-limited attempts.
func (s *Summarizer) Summarize(incidents []servicenow.Incident) string {
	if len(incidents) == 0 {
		s.logger.Info("no incidents to summarize - skipping generative call")
		return NoIncidentsMessage
	}

	prompt := BuildPrompt(s.style, incidents)

	var (
		state       = stateIdle
		attempts    int
		summary     string
		lastErr     error
		rateLimited bool
	)

	for {
		switch state {
		case stateIdle:
			state = stateRequesting

		case stateRequesting:
			attempts++
			s.logger.Info("requesting analysis from Gemini",
				zap.Int("attempt", attempts), zap.Int("max_retries", s.maxRetries))
			text, err := s.generator.Generate(prompt)
			if err == nil {
				summary = text
				state = stateSucceeded
				break
			}
			lastErr = err
			var rl *RateLimitError
			if errors.As(err, &rl) {
				state = stateRateLimited
			} else {
				rateLimited = false
				state = stateFailed
			}

		case stateRateLimited:
			if attempts >= s.maxRetries {
				rateLimited = true
				state = stateFailed
				break
			}
			delay := s.baseDelay<<(attempts-1) + s.jitter()
			s.logger.Warn("rate limit hit - retrying",
				zap.Duration("wait", delay),
				zap.Int("attempt", attempts), zap.Int("max_retries", s.maxRetries))
			s.sleep(delay)
			state = stateRequesting

		case stateSucceeded:
			s.logger.Info("successfully received summary from Gemini")
			return summary

		case stateFailed:
			if rateLimited {
				s.logger.Error("max retries reached for Gemini API",
					zap.Int("attempts", attempts))
				return fmt.Sprintf("Error: Exceeded Gemini API rate limits after %d attempts. Details: %v",
					attempts, lastErr)
			}
			s.logger.Error("unexpected error while contacting Gemini", zap.Error(lastErr))
			return fmt.Sprintf("An unexpected error occurred while contacting Gemini: %v", lastErr)
		}
	}
}

// Package dialog implements the conversation state machine: it consumes one
// inbound event at a time for a session, mutates the session record, and
// returns the outbound replies. The legal (state, event) pairs live in a
// single transition table so the abort-vs-degrade policy stays auditable.
package dialog

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/wodinaz-hub/chatgpt-telegram-bot/internal/resources"
	"github.com/wodinaz-hub/chatgpt-telegram-bot/internal/session"
	"github.com/wodinaz-hub/chatgpt-telegram-bot/llm"
)

type EventKind int

const (
	EventCommand EventKind = iota
	EventButton
	EventText
)

// Event is one inbound update for a session: a slash command (payload is the
// command name without the slash), an inline-button press (payload is the
// callback data), or a free-text message (payload is the text).
type Event struct {
	Kind    EventKind
	Payload string
}

// Reply is one outbound action. When ImageKey resolves to an existing image
// the reply is sent as a photo with Text as the caption; otherwise it
// degrades to a plain text send. Menu, when non-empty, is rendered as an
// inline keyboard.
type Reply struct {
	Text     string
	ImageKey string
	Menu     resources.MenuSpec
}

// Quiz generation and grading run at fixed temperatures regardless of the
// configured chat default.
const (
	quizQuestionTemperature = 0.7
	quizGradingTemperature  = 0.2
)

// correctMarker decides quiz grading: the answer counts as correct iff the
// model's graded reply starts with this literal prefix. Deliberately brittle;
// the grading text comes from the same model that is asked to self-grade.
const correctMarker = "Correct!"

type Dispatcher struct {
	Resources   *resources.Loader
	Client      llm.Client
	Model       string
	Temperature float64
	Timeout     time.Duration
	Logger      *slog.Logger
}

func NewDispatcher(res *resources.Loader, client llm.Client, model string, temperature float64, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		Resources:   res,
		Client:      client,
		Model:       model,
		Temperature: temperature,
		Timeout:     2 * time.Minute,
		Logger:      logger,
	}
}

type handlerFunc func(d *Dispatcher, ctx context.Context, s *session.Session, ev Event) []Reply

// stateRules lists every event a state accepts. onEntry holds the commands
// (and their equivalent button payloads) that start a flow; onButton the
// named button payloads; onAnyButton catches dynamic payloads such as persona
// and topic ids; onText handles free-form messages.
type stateRules struct {
	onEntry     map[string]handlerFunc
	onButton    map[string]handlerFunc
	onAnyButton handlerFunc
	onText      handlerFunc
}

// transitions is the single source of truth for legal (state, event) pairs.
// /cancel and /start (plus the "start" button) are global fallbacks handled
// before this table is consulted. Everything not listed here is answered
// with the generic unknown-command reply and leaves the state untouched.
var transitions = map[session.State]stateRules{
	session.Idle: {
		onEntry: map[string]handlerFunc{
			"gpt":    (*Dispatcher).startGpt,
			"talk":   (*Dispatcher).startTalk,
			"quiz":   (*Dispatcher).startQuiz,
			"random": (*Dispatcher).randomFact,
			"help":   (*Dispatcher).help,
		},
	},
	session.GptDialogue: {
		onButton: map[string]handlerFunc{
			"end_dialogue": (*Dispatcher).endGpt,
		},
		onText: (*Dispatcher).gptMessage,
	},
	session.TalkSelectingPersonality: {
		onButton: map[string]handlerFunc{
			"end_talk": (*Dispatcher).endTalk,
		},
		onAnyButton: (*Dispatcher).selectPersonality,
	},
	session.TalkConversing: {
		onButton: map[string]handlerFunc{
			"end_talk": (*Dispatcher).endTalk,
		},
		onText: (*Dispatcher).talkMessage,
	},
	session.QuizSelectingTopic: {
		onAnyButton: (*Dispatcher).selectTopic,
	},
	session.QuizAwaitingAnswer: {
		onText: (*Dispatcher).gradeAnswer,
	},
	session.QuizShowingResult: {
		onButton: map[string]handlerFunc{
			"ask_another_question": (*Dispatcher).anotherQuestion,
			"change_topic":         (*Dispatcher).changeTopic,
			"end_quiz":             (*Dispatcher).endQuiz,
		},
	},
}

// Handle processes one event to completion. The caller guarantees no two
// events for the same session run concurrently.
func (d *Dispatcher) Handle(ctx context.Context, s *session.Session, ev Event) []Reply {
	switch {
	case ev.Kind == EventCommand && ev.Payload == "cancel":
		return d.cancel(ctx, s, ev)
	case ev.Kind == EventCommand && ev.Payload == "start",
		ev.Kind == EventButton && ev.Payload == "start":
		return d.mainMenu(ctx, s, ev)
	}

	rules := transitions[s.State]
	switch ev.Kind {
	case EventCommand:
		if h, ok := rules.onEntry[ev.Payload]; ok {
			return h(d, ctx, s, ev)
		}
	case EventButton:
		// Entry buttons are equivalent to their commands.
		if h, ok := rules.onEntry[ev.Payload]; ok {
			return h(d, ctx, s, ev)
		}
		if h, ok := rules.onButton[ev.Payload]; ok {
			return h(d, ctx, s, ev)
		}
		if rules.onAnyButton != nil {
			return rules.onAnyButton(d, ctx, s, ev)
		}
	case EventText:
		if rules.onText != nil {
			return rules.onText(d, ctx, s, ev)
		}
	}
	return d.unknown(s, ev)
}

// complete sends the role-ordered history as-is, with a bounded wait. Both
// failure categories surface to callers as a single failed call.
func (d *Dispatcher) complete(ctx context.Context, messages []llm.Message, temperature float64) (string, error) {
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}
	res, err := d.Client.Chat(ctx, llm.Request{
		Model:       d.Model,
		Messages:    messages,
		Temperature: temperature,
	})
	if err != nil {
		if errors.Is(err, llm.ErrConnectivity) {
			d.Logger.Error("llm connectivity failure", "error", err)
		} else {
			d.Logger.Error("llm call failed", "error", err)
		}
		return "", err
	}
	return strings.TrimSpace(res.Text), nil
}

func (d *Dispatcher) unknown(s *session.Session, ev Event) []Reply {
	d.Logger.Info("unrecognized input", "state", s.State.String(), "kind", int(ev.Kind), "payload", ev.Payload)
	return []Reply{{Text: unknownText}}
}

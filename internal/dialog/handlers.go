package dialog

import (
	"context"
	"fmt"

	"github.com/wodinaz-hub/chatgpt-telegram-bot/internal/resources"
	"github.com/wodinaz-hub/chatgpt-telegram-bot/internal/session"
	"github.com/wodinaz-hub/chatgpt-telegram-bot/llm"
)

// mainMenu serves /start in Idle and doubles as the global fallback from any
// other state: transient data is dropped and the main menu re-rendered.
func (d *Dispatcher) mainMenu(_ context.Context, s *session.Session, _ Event) []Reply {
	s.ResetToIdle()
	return []Reply{{Text: welcomeText, Menu: d.Resources.LoadMenu("main")}}
}

// cancel clears all transient session data; the fixed "ended" message is the
// only outbound confirmation.
func (d *Dispatcher) cancel(_ context.Context, s *session.Session, _ Event) []Reply {
	s.ResetToIdle()
	return []Reply{{Text: canceledText}}
}

func (d *Dispatcher) help(_ context.Context, _ *session.Session, _ Event) []Reply {
	return []Reply{{Text: helpText}}
}

// randomFact is the one stateless flow: a single completion from the "random"
// prompt, sent with the matching image and menu. An API failure here has no
// flow to abort, so the session stays Idle either way.
func (d *Dispatcher) randomFact(ctx context.Context, _ *session.Session, _ Event) []Reply {
	prompt := d.Resources.LoadPrompt("random")
	fact, err := d.complete(ctx, []llm.Message{llm.User(prompt)}, d.Temperature)
	if err != nil {
		return []Reply{{Text: apologyText}}
	}
	return []Reply{{Text: fact, ImageKey: "random", Menu: d.Resources.LoadMenu("random")}}
}

func (d *Dispatcher) startGpt(_ context.Context, s *session.Session, _ Event) []Reply {
	prompt := d.Resources.LoadPrompt("gpt")
	s.SeedSystem(prompt)
	s.State = session.GptDialogue
	return []Reply{{Text: gptIntroText, ImageKey: "gpt"}}
}

func (d *Dispatcher) gptMessage(ctx context.Context, s *session.Session, ev Event) []Reply {
	s.AppendUser(ev.Payload)
	answer, err := d.complete(ctx, s.History, d.Temperature)
	if err != nil {
		// API failure ends the whole dialogue, history included.
		s.ResetToIdle()
		return []Reply{{Text: apologyText}}
	}
	s.AppendAssistant(answer)
	return []Reply{{Text: answer, Menu: endButton("end_dialogue", endDialogueLabel)}}
}

func (d *Dispatcher) endGpt(_ context.Context, s *session.Session, _ Event) []Reply {
	s.ResetToIdle()
	return []Reply{{Text: gptEndedText, Menu: d.Resources.LoadMenu("main")}}
}

func (d *Dispatcher) startTalk(_ context.Context, s *session.Session, _ Event) []Reply {
	s.State = session.TalkSelectingPersonality
	return []Reply{{Text: talkChooseText, ImageKey: "talk", Menu: d.Resources.LoadMenu("talk")}}
}

// selectPersonality treats the button payload as a persona id: its prompt
// file becomes the system message. A missing prompt degrades to the generic
// default rather than ending the flow.
func (d *Dispatcher) selectPersonality(_ context.Context, s *session.Session, ev Event) []Reply {
	prompt := d.Resources.LoadPrompt(ev.Payload)
	s.PersonalityID = ev.Payload
	s.SeedSystem(prompt)
	s.State = session.TalkConversing
	return []Reply{{Text: talkIntroText, ImageKey: ev.Payload, Menu: endButton("end_talk", endTalkLabel)}}
}

func (d *Dispatcher) talkMessage(ctx context.Context, s *session.Session, ev Event) []Reply {
	s.AppendUser(ev.Payload)
	answer, err := d.complete(ctx, s.History, d.Temperature)
	if err != nil {
		s.ResetToIdle()
		return []Reply{{Text: apologyText}}
	}
	s.AppendAssistant(answer)
	return []Reply{{Text: answer, Menu: endButton("end_talk", endTalkLabel)}}
}

func (d *Dispatcher) endTalk(_ context.Context, s *session.Session, _ Event) []Reply {
	s.ResetToIdle()
	return []Reply{{Text: talkEndedText, Menu: d.Resources.LoadMenu("main")}}
}

func endButton(payload, label string) resources.MenuSpec {
	return resources.MenuSpec{{Label: label, Payload: payload}}
}

func scoreLine(score int) string {
	return fmt.Sprintf("Your score: %d", score)
}

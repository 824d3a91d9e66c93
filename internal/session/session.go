// Package session holds the per-chat conversational state record and the
// keyed in-memory store that guards it. Sessions are created lazily, never
// destroyed, and reset to Idle whenever a flow ends.
package session

import "github.com/wodinaz-hub/chatgpt-telegram-bot/llm"

type State int

const (
	Idle State = iota
	GptDialogue
	TalkSelectingPersonality
	TalkConversing
	QuizSelectingTopic
	QuizAwaitingAnswer
	QuizShowingResult
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case GptDialogue:
		return "gpt_dialogue"
	case TalkSelectingPersonality:
		return "talk_selecting_personality"
	case TalkConversing:
		return "talk_conversing"
	case QuizSelectingTopic:
		return "quiz_selecting_topic"
	case QuizAwaitingAnswer:
		return "quiz_awaiting_answer"
	case QuizShowingResult:
		return "quiz_showing_result"
	default:
		return "unknown"
	}
}

type Session struct {
	State         State
	History       []llm.Message
	PersonalityID string
	QuizTopic     string
	QuizScore     int
	LastQuestion  string
}

// SeedSystem replaces the whole history with a single system entry. This is
// the only way a system message enters the history, so it can never appear
// twice or anywhere but position zero.
func (s *Session) SeedSystem(prompt string) {
	s.History = []llm.Message{llm.System(prompt)}
}

func (s *Session) AppendUser(content string) {
	s.History = append(s.History, llm.User(content))
}

func (s *Session) AppendAssistant(content string) {
	s.History = append(s.History, llm.Assistant(content))
}

// ResetToIdle clears all transient data. Quiz score is kept until the next
// quiz run starts, which zeroes it explicitly.
func (s *Session) ResetToIdle() {
	s.State = Idle
	s.History = nil
	s.PersonalityID = ""
	s.QuizTopic = ""
	s.LastQuestion = ""
}

package dialog

import (
	"context"
	"fmt"
	"strings"

	"github.com/wodinaz-hub/chatgpt-telegram-bot/internal/resources"
	"github.com/wodinaz-hub/chatgpt-telegram-bot/internal/session"
	"github.com/wodinaz-hub/chatgpt-telegram-bot/llm"
)

// quizTopics maps topic button payloads to the topic description embedded in
// the question-generation prompt.
var quizTopics = map[string]string{
	"quiz_python":     "Python programming",
	"quiz_javascript": "JavaScript programming",
	"quiz_docker":     "Docker",
	"quiz_web":        "web technologies",
}

// startQuiz begins a new quiz run; the score always restarts at zero no
// matter what a previous run accumulated.
func (d *Dispatcher) startQuiz(_ context.Context, s *session.Session, _ Event) []Reply {
	s.QuizScore = 0
	s.State = session.QuizSelectingTopic
	return []Reply{{Text: quizChooseText, ImageKey: "quiz", Menu: d.Resources.LoadMenu("quiz_topics")}}
}

func (d *Dispatcher) selectTopic(ctx context.Context, s *session.Session, ev Event) []Reply {
	topic, ok := quizTopics[ev.Payload]
	if !ok {
		return []Reply{{Text: quizNoTopicText}}
	}
	s.QuizTopic = topic
	return d.askQuestion(ctx, s)
}

func (d *Dispatcher) anotherQuestion(ctx context.Context, s *session.Session, _ Event) []Reply {
	if s.QuizTopic == "" {
		s.State = session.QuizSelectingTopic
		return []Reply{{Text: quizNoTopicText, Menu: d.Resources.LoadMenu("quiz_topics")}}
	}
	return d.askQuestion(ctx, s)
}

// askQuestion generates the next question for the stored topic and stores it
// for grading. LastQuestion is always refreshed before the session can enter
// QuizAwaitingAnswer.
func (d *Dispatcher) askQuestion(ctx context.Context, s *session.Session) []Reply {
	prompt := fmt.Sprintf("%s\nCommand: '%s'", d.Resources.LoadPrompt("quiz"), s.QuizTopic)
	question, err := d.complete(ctx, []llm.Message{llm.User(prompt)}, quizQuestionTemperature)
	if err != nil {
		s.ResetToIdle()
		return []Reply{{Text: apologyText}}
	}
	s.LastQuestion = question
	s.State = session.QuizAwaitingAnswer
	return []Reply{{Text: question}}
}

// gradeAnswer asks the model to grade the user's answer against the stored
// question. Correctness is a literal prefix match on the graded reply; there
// is no independent check.
func (d *Dispatcher) gradeAnswer(ctx context.Context, s *session.Session, ev Event) []Reply {
	prompt := fmt.Sprintf("%s\nQuestion: '%s'\nUser answer: '%s'",
		d.Resources.LoadPrompt("quiz"), s.LastQuestion, ev.Payload)
	s.LastQuestion = ""

	graded, err := d.complete(ctx, []llm.Message{llm.User(prompt)}, quizGradingTemperature)
	if err != nil {
		s.ResetToIdle()
		return []Reply{{Text: apologyText}}
	}

	var mark string
	if strings.HasPrefix(graded, correctMarker) {
		s.QuizScore++
		mark = "✅"
	} else {
		mark = "❌"
	}
	s.State = session.QuizShowingResult
	return []Reply{{
		Text: fmt.Sprintf("%s %s\n%s", mark, graded, scoreLine(s.QuizScore)),
		Menu: resources.MenuSpec{
			{Label: anotherQuestionLabel, Payload: "ask_another_question"},
			{Label: changeTopicLabel, Payload: "change_topic"},
			{Label: endQuizLabel, Payload: "end_quiz"},
			{Label: mainMenuLabel, Payload: "start"},
		},
	}}
}

// changeTopic returns to topic selection; the score persists across topic
// changes within one run.
func (d *Dispatcher) changeTopic(_ context.Context, s *session.Session, _ Event) []Reply {
	s.State = session.QuizSelectingTopic
	return []Reply{{Text: quizNewTopicText, Menu: d.Resources.LoadMenu("quiz_topics")}}
}

func (d *Dispatcher) endQuiz(_ context.Context, s *session.Session, _ Event) []Reply {
	final := s.QuizScore
	s.ResetToIdle()
	return []Reply{{
		Text: fmt.Sprintf("Quiz finished. Your final score: %d. Hope you enjoyed it!", final),
		Menu: d.Resources.LoadMenu("main"),
	}}
}

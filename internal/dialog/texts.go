package dialog

const (
	welcomeText = "Hi! I'm your AI assistant. Pick a command to get started: /random, /gpt, /talk, /quiz."

	helpText = "I can:\n" +
		"/start — main menu\n" +
		"/random — a random interesting fact\n" +
		"/gpt — free-form chat with ChatGPT\n" +
		"/talk — talk to a famous personality\n" +
		"/quiz — take a quiz\n" +
		"/cancel — end the current conversation"

	unknownText  = "Unknown command. Send /start to see the main menu."
	apologyText  = "Sorry, something went wrong while talking to the AI. Please try again."
	canceledText = "Conversation ended."

	gptIntroText = "Hi! I'm your AI assistant. Send me your request."
	gptEndedText = "Dialogue finished. Back to the main menu."

	talkChooseText = "Choose a famous personality you want to talk to:"
	talkIntroText  = "Great! Now you can ask me questions. I will answer as the chosen personality."
	talkEndedText  = "The conversation is over. Back to the main menu."

	quizChooseText   = "Choose a topic to start the quiz:"
	quizNewTopicText = "Choose a new topic:"
	quizNoTopicText  = "Unknown quiz topic. Please choose a topic again."
)

const (
	endDialogueLabel     = "End dialogue"
	endTalkLabel         = "End talk"
	anotherQuestionLabel = "Another question"
	changeTopicLabel     = "Change topic"
	endQuizLabel         = "End quiz"
	mainMenuLabel        = "Main menu"
)

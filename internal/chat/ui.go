package chat

// Static copy shown by chat clients
const (
	InitialMessage = `Hello! I'm Veritas, your MBA application assistant.

**I can help you with:**

• Find the right MBA programs for your profile and career goals

• Learn key details about specific business schools and their application processes

• Navigate the entire application journey from school selection to interviews

**For personalized program recommendations, I'll need to know about your:**

• **Career goals** (industry and function)

• **Academic background** and test scores

• **Work experience** (years and type)

• **Geographic preferences**

• **Program format** interests (full-time, part-time, online)

• **Budget considerations**

• **Special interests** (entrepreneurship, sustainability, etc.)

What aspect of your MBA journey can I help with today?`

	DefaultResponseMessage = "Sorry, I'm having trouble generating a response. Please try again later."
	WordBreakMessage       = `We've covered a lot about your MBA application journey! To ensure I can give you my best assistance, let's continue our discussion in a new conversation. You can start a fresh chat by clicking the "Clear Conversation" button, and I'll be ready to help with the next steps in your application process.`
	EmptyCitationMessage   = "Unspecified source"

	ChatHeader         = "Welcome to your MBA Application Assistant! I'm Veritas, your guide through the business school application process. I can help with school selection, application strategies, essay feedback, and more."
	MessagePlaceholder = "Ask me about MBA programs, application tips, or specific schools..."
	FooterMessage      = "Note: While I strive to provide accurate information about MBA programs, rankings, and admissions statistics, some data may not be current. Always verify time-sensitive information on school websites."
	ClearButtonText    = "Clear Conversation"
	PageTitle          = "Nathan's MBA Application Assistant | Your Guide to Business School Admissions"
	PageDescription    = "Chat with Veritas, Nathan Olaniyi's AI assistant specializing in MBA applications and business school admissions strategies."
)

// Default chat limits
const (
	DefaultWordCutoff    = 4000
	DefaultHistoryLength = 7
)

// ToolLink points to an interactive tool
type ToolLink struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// UI is the static configuration a chat client renders
type UI struct {
	InitialMessage    string     `json:"initialMessage"`
	Header            string     `json:"header"`
	Placeholder       string     `json:"placeholder"`
	Footer            string     `json:"footer"`
	ClearButtonText   string     `json:"clearButtonText"`
	PageTitle         string     `json:"pageTitle"`
	PageDescription   string     `json:"pageDescription"`
	PromptSuggestions []string   `json:"promptSuggestions"`
	Tools             []ToolLink `json:"tools"`
}

// UIConfig returns the chat client copy
func UIConfig() UI {
	return UI{
		InitialMessage:  InitialMessage,
		Header:          ChatHeader,
		Placeholder:     MessagePlaceholder,
		Footer:          FooterMessage,
		ClearButtonText: ClearButtonText,
		PageTitle:       PageTitle,
		PageDescription: PageDescription,
		PromptSuggestions: []string{
			"Recommend MBA programs for me",
			"How to write a standout essay?",
			"Tips for MBA interviews",
			"Best schools for consulting",
			"Compare MBA programs",
			"Application timeline help",
		},
		Tools: []ToolLink{
			{Name: "School Comparison Tool", Path: "/tools/school-comparison"},
			{Name: "Profile Strength Analyzer", Path: "/tools/profile-strength"},
		},
	}
}

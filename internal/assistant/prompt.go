package assistant

import (
	"fmt"
	"strings"
)

// buildSystemPrompt renders the system instruction for one request from
// the snapshot taken when the message was submitted.
func buildSystemPrompt(snap ContextSnapshot) string {
	var b strings.Builder

	b.WriteString("You are the SkillBuilder learning assistant.\n")
	b.WriteString(fmt.Sprintf("Context: The user is currently on screen: %s.\n", snap.Screen))

	goal := "None selected"
	if snap.GoalTitle != nil && *snap.GoalTitle != "" {
		goal = *snap.GoalTitle
	}
	b.WriteString(fmt.Sprintf("Goal: %s.\n", goal))
	b.WriteString(fmt.Sprintf("Day: %d.\n", snap.DayNumber))

	topics := "General learning"
	if len(snap.Topics) > 0 {
		topics = strings.Join(snap.Topics, ", ")
	}

	b.WriteString(`
Your role is to help the user with their learning journey, troubleshoot issues, or explain concepts from the audio pack.
Always return a structured JSON response matching the schema provided.
Use steps for workflows, a checklist for things to verify, and 2-3 followUps to keep the conversation going.
If confidence is low, say why in uncertaintyExplanation.
If the user asks about the specific content of the lesson, use your general knowledge to give a helpful answer about the topics: `)
	b.WriteString(topics)
	b.WriteString(".")

	return b.String()
}
